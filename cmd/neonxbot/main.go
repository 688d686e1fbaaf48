package main

import (
	"github.com/joho/godotenv"

	"neonx-bot/internal/cli"
)

func main() {
	// A missing .env file is fine; real deployments set the variables directly.
	_ = godotenv.Load()

	cli.Execute()
}

package cli

import (
	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Fetch the current NeonX price once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().PriceOnce(cmd.Context())
	},
}

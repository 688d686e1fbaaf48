package app

import (
	"context"
	"fmt"
	"os"

	"neonx-bot/internal/pricesource"
)

// PriceOnce fetches the current snapshot and prints it to stdout.
func (a *App) PriceOnce(ctx context.Context) error {
	cache := a.newCache()
	snapshot := cache.Get(ctx, true)

	fmt.Fprintln(os.Stdout, pricesource.FormatMessage(snapshot, a.Config.CoinPageURL()))

	if !snapshot.Succeeded {
		return fmt.Errorf("price fetch failed: %s", snapshot.Error)
	}
	return nil
}

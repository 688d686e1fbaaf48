package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// Show prints recent price samples, or the configured alerts with --alerts.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	st := a.openStores()

	if opts.Alerts {
		return a.showAlerts(st)
	}
	return a.showSamples(st, opts.Limit)
}

func (a *App) showAlerts(st stores) error {
	all := st.alerts.All()
	if len(all) == 0 {
		fmt.Fprintln(os.Stdout, "no alerts configured")
		return nil
	}

	owners := make([]int64, 0, len(all))
	for owner := range all {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "User\t#\tType\tThreshold\tChat\tTriggered\tCreated (UTC)")

	for _, owner := range owners {
		for i, alert := range all[owner] {
			fmt.Fprintf(
				writer,
				"%d\t%d\t%s\t%s\t%d\t%t\t%s\n",
				owner,
				i+1,
				alert.Kind,
				alert.Threshold.String(),
				alert.ChatID,
				alert.Triggered,
				alert.CreatedAt.UTC().Format(time.RFC3339),
			)
		}
	}

	return writer.Flush()
}

func (a *App) showSamples(st stores, limit int) error {
	if limit <= 0 {
		limit = 20
	}

	samples := st.history.Recent(limit)
	if len(samples) == 0 {
		fmt.Fprintln(os.Stdout, "no samples found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tPrice\tMarket Cap\tHolders\tVolume 24h\tChange 24h\tStatus\tError")

	for _, sample := range samples {
		status := "ok"
		if !sample.Succeeded {
			status = "failed"
		}
		price := "N/A"
		if sample.HasPrice {
			price = sample.Price.String()
		}
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sample.FetchedAt.UTC().Format(time.RFC3339),
			price,
			sample.MarketCap,
			sample.Holders,
			sample.Volume24h,
			sample.PriceChange24h,
			status,
			sanitizeInline(sample.Error),
		)
	}

	return writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}

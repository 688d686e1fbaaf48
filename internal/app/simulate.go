package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"neonx-bot/internal/notify"
	"neonx-bot/internal/pricesource"
	"neonx-bot/internal/tracker"
)

// SimulateTick evaluates the stored alerts against a given price and prints
// the notifications that would fire, instead of sending them to Telegram.
// When previous is non-nil a priming tick at that price runs first, so
// percent-change alerts can be exercised too. Triggered latches are persisted
// exactly as they would be on a live tick.
func (a *App) SimulateTick(ctx context.Context, current decimal.Decimal, previous *decimal.Decimal) error {
	st := a.openStores()
	if st.alerts.Count() == 0 {
		fmt.Fprintln(os.Stdout, "no alerts configured")
		return nil
	}

	script := []decimal.Decimal{current}
	if previous != nil {
		script = []decimal.Decimal{*previous, current}
	}

	fetcher := &scriptedFetcher{prices: script}
	cache := pricesource.NewCache(fetcher, 0, a.Logger)
	svc := tracker.New(nil, cache, st.alerts, nil, consoleNotifier{}, a.Logger)

	for range script {
		if err := svc.Tick(ctx, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

type scriptedFetcher struct {
	prices []decimal.Decimal
	next   int
}

func (f *scriptedFetcher) Fetch(context.Context) (pricesource.RawFields, error) {
	price := f.prices[len(f.prices)-1]
	if f.next < len(f.prices) {
		price = f.prices[f.next]
		f.next++
	}
	return pricesource.RawFields{Price: "$" + price.String()}, nil
}

var _ pricesource.Fetcher = (*scriptedFetcher)(nil)

// consoleNotifier prints notifications to stdout for dry runs.
type consoleNotifier struct{}

func (consoleNotifier) Send(_ context.Context, chatID int64, text string) error {
	fmt.Fprintf(os.Stdout, "--- notification for chat %d ---\n%s\n", chatID, text)
	return nil
}

var _ notify.Notifier = consoleNotifier{}

package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neonx-bot/internal/alerts"
	"neonx-bot/internal/history"
	"neonx-bot/internal/pricesource"
	"neonx-bot/internal/storage"
)

type scriptedFetcher struct {
	prices []string
	errs   []error
	call   int
}

func (f *scriptedFetcher) Fetch(ctx context.Context) (pricesource.RawFields, error) {
	i := f.call
	f.call++
	if i < len(f.errs) && f.errs[i] != nil {
		return pricesource.RawFields{}, f.errs[i]
	}
	return pricesource.RawFields{Price: f.prices[i], MarketCap: "$1,000"}, nil
}

type recordingNotifier struct {
	sent []string
	to   []int64
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, chatID int64, text string) error {
	if n.err != nil {
		return n.err
	}
	n.to = append(n.to, chatID)
	n.sent = append(n.sent, text)
	return nil
}

func newTestService(t *testing.T, fetcher pricesource.Fetcher, notifier *recordingNotifier) (*Service, *alerts.Store, *history.Log) {
	t.Helper()
	dir := t.TempDir()

	cache := pricesource.NewCache(fetcher, time.Minute, zerolog.Nop())
	alertStore := alerts.NewStore(storage.NewFile(filepath.Join(dir, "user_alerts.json"), zerolog.Nop()), zerolog.Nop())
	histLog := history.NewLog(storage.NewFile(filepath.Join(dir, "price_history.json"), zerolog.Nop()), 100, zerolog.Nop())

	svc := New(nil, cache, alertStore, histLog, notifier, zerolog.Nop())
	return svc, alertStore, histLog
}

func TestTickFiresAlertOnce(t *testing.T) {
	fetcher := &scriptedFetcher{prices: []string{"0.00009", "0.00011", "0.00011", "0.00009"}}
	notifier := &recordingNotifier{}
	svc, alertStore, histLog := newTestService(t, fetcher, notifier)

	require.NoError(t, alertStore.Add(123456, alerts.KindAbove, decimal.RequireFromString("0.0001"), 0))

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, svc.Tick(ctx, time.Now()))
	}

	require.Len(t, notifier.sent, 1, "edge trigger fires exactly once across the sequence")
	assert.Contains(t, notifier.sent[0], "risen above")
	assert.Equal(t, int64(123456), notifier.to[0])
	assert.Equal(t, 4, histLog.Len(), "every tick logs a sample")
}

func TestTickSkipsEvaluationOnFetchFailure(t *testing.T) {
	fetcher := &scriptedFetcher{
		prices: []string{""},
		errs:   []error{errors.New("connection refused")},
	}
	notifier := &recordingNotifier{}
	svc, alertStore, histLog := newTestService(t, fetcher, notifier)

	require.NoError(t, alertStore.Add(123456, alerts.KindBelow, decimal.RequireFromString("1"), 0))

	require.NoError(t, svc.Tick(context.Background(), time.Now()),
		"fetch failure degrades, it does not propagate to the scheduler")

	assert.Empty(t, notifier.sent)
	assert.False(t, alertStore.List(123456)[0].Triggered)
	require.Equal(t, 1, histLog.Len(), "failed samples are logged too")
	assert.False(t, histLog.Recent(1)[0].Succeeded)
}

func TestTickLogsDeliveryFailureAndContinues(t *testing.T) {
	fetcher := &scriptedFetcher{prices: []string{"0.0002"}}
	notifier := &recordingNotifier{err: errors.New("blocked by user")}
	svc, alertStore, _ := newTestService(t, fetcher, notifier)

	require.NoError(t, alertStore.Add(123456, alerts.KindAbove, decimal.RequireFromString("0.0001"), 0))

	require.NoError(t, svc.Tick(context.Background(), time.Now()),
		"delivery failure is logged, not returned")
}

func TestTickUsesPreviousSnapshotForPercent(t *testing.T) {
	fetcher := &scriptedFetcher{prices: []string{"0.0001", "0.000106"}}
	notifier := &recordingNotifier{}
	svc, alertStore, _ := newTestService(t, fetcher, notifier)

	require.NoError(t, alertStore.Add(789012, alerts.KindPercent, decimal.RequireFromString("5"), 0))

	ctx := context.Background()
	require.NoError(t, svc.Tick(ctx, time.Now()), "first tick has no previous, cannot fire")
	assert.Empty(t, notifier.sent)

	require.NoError(t, svc.Tick(ctx, time.Now()))
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "increased by 6.00%")
}

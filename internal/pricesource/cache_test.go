package pricesource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type countingFetcher struct {
	calls  int
	fields RawFields
	err    error
}

func (f *countingFetcher) Fetch(ctx context.Context) (RawFields, error) {
	f.calls++
	if f.err != nil {
		return RawFields{}, f.err
	}
	return f.fields, nil
}

func newTestCache(fetcher Fetcher, ttl time.Duration) (*Cache, *time.Time) {
	cache := NewCache(fetcher, ttl, zerolog.Nop())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestGetWithinTTLFetchesOnce(t *testing.T) {
	fetcher := &countingFetcher{fields: RawFields{Price: "0.0001"}}
	cache, _ := newTestCache(fetcher, 5*time.Minute)

	first := cache.Get(context.Background(), false)
	second := cache.Get(context.Background(), false)

	if fetcher.calls != 1 {
		t.Fatalf("expected exactly one fetch, got %d", fetcher.calls)
	}
	if !first.Succeeded || !second.Succeeded {
		t.Fatal("both snapshots should succeed")
	}
	if !second.FetchedAt.Equal(first.FetchedAt) {
		t.Fatal("second call should return the cached snapshot unchanged")
	}
}

func TestGetAfterTTLRefreshes(t *testing.T) {
	fetcher := &countingFetcher{fields: RawFields{Price: "0.0001"}}
	cache, now := newTestCache(fetcher, 5*time.Minute)

	cache.Get(context.Background(), false)
	*now = now.Add(5*time.Minute + time.Second)
	cache.Get(context.Background(), false)

	if fetcher.calls != 2 {
		t.Fatalf("expected refresh after TTL, got %d fetches", fetcher.calls)
	}
}

func TestForceRefreshBypassesTTL(t *testing.T) {
	fetcher := &countingFetcher{fields: RawFields{Price: "0.0001"}}
	cache, _ := newTestCache(fetcher, 5*time.Minute)

	cache.Get(context.Background(), false)
	cache.Get(context.Background(), true)

	if fetcher.calls != 2 {
		t.Fatalf("force refresh should always fetch, got %d fetches", fetcher.calls)
	}
}

func TestFailedFetchIsCachedForTTL(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("connection refused")}
	cache, _ := newTestCache(fetcher, 5*time.Minute)

	snap := cache.Get(context.Background(), false)
	cache.Get(context.Background(), false)

	if fetcher.calls != 1 {
		t.Fatalf("failures must also respect the TTL, got %d fetches", fetcher.calls)
	}
	if snap.Succeeded {
		t.Fatal("snapshot should be marked failed")
	}
	if snap.HasPrice {
		t.Fatal("failed snapshot must not carry a price")
	}
	if snap.PriceText != Unavailable || snap.MarketCap != Unavailable {
		t.Fatalf("failed snapshot fields should be unavailable: %+v", snap)
	}
	if snap.Error == "" {
		t.Fatal("failed snapshot should describe the cause")
	}
}

func TestUnrecognisedPageYieldsFailedSnapshot(t *testing.T) {
	fetcher := &countingFetcher{fields: RawFields{}}
	cache, _ := newTestCache(fetcher, time.Minute)

	snap := cache.Get(context.Background(), false)
	if snap.Succeeded {
		t.Fatal("empty extraction should fail the snapshot")
	}
}

func TestPreviousTracksDisplacedSnapshot(t *testing.T) {
	fetcher := &countingFetcher{fields: RawFields{Price: "0.0001"}}
	cache, now := newTestCache(fetcher, time.Minute)

	if cache.Previous() != nil {
		t.Fatal("previous should be nil before any refresh")
	}

	first := cache.Get(context.Background(), true)

	fetcher.fields.Price = "0.0002"
	*now = now.Add(time.Minute)
	cache.Get(context.Background(), true)

	prev := cache.Previous()
	if prev == nil {
		t.Fatal("previous should hold the displaced snapshot")
	}
	if !prev.Price.Equal(first.Price) {
		t.Fatalf("previous price mismatch: %s vs %s", prev.Price, first.Price)
	}
	if !prev.Price.Equal(decimal.RequireFromString("0.0001")) {
		t.Fatalf("unexpected previous price %s", prev.Price)
	}
}

package pricesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const samplePage = `<html><body>
<div class="coin-header">NeonX</div>
<div class="stats">
  <span>Price:</span><span>$0.000123</span>
  <span>Market Cap:</span> <b>$45,600</b>
  <span>Holders:</span> <b>1,234</b>
  <span>Volume (24h):</span> <b>$7.8K</b>
  <span>Change (24h):</span> <b>+5.6%</b>
</div>
</body></html>`

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *PumpFun {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewPumpFun(PumpFunOptions{
		BaseURL:     srv.URL,
		CoinAddress: "8GBj4X4xBwL2qsdTkkkfkXub5w8YgcE96CJ7gLV3pump",
		Timeout:     time.Second,
	}, zerolog.Nop())
}

func TestFetchExtractsFields(t *testing.T) {
	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "8GBj4X4x") {
			t.Fatalf("request path should contain the coin address, got %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Fatal("fetcher must send a user agent")
		}
		_, _ = w.Write([]byte(samplePage))
	})

	fields, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}

	if fields.Price != "$0.000123" {
		t.Fatalf("price extraction failed: %q", fields.Price)
	}
	if fields.MarketCap != "$45,600" {
		t.Fatalf("market cap extraction failed: %q", fields.MarketCap)
	}
	if fields.Holders != "1,234" {
		t.Fatalf("holders extraction failed: %q", fields.Holders)
	}
	if fields.Volume24h != "$7.8K" {
		t.Fatalf("volume extraction failed: %q", fields.Volume24h)
	}
	if fields.PriceChange24h != "+5.6%" {
		t.Fatalf("change extraction failed: %q", fields.PriceChange24h)
	}
}

func TestFetchHTTPErrorStatus(t *testing.T) {
	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatal("5xx status should surface as an error")
	}
}

func TestFetchUnrecognisablePage(t *testing.T) {
	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>something unrelated entirely</body></html>"))
	})

	fields, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unrecognised page is not a transport error: %v", err)
	}
	if !fields.Empty() {
		t.Fatalf("nothing should be extracted: %+v", fields)
	}
}

func TestFetchMissingCoinAddress(t *testing.T) {
	fetcher := NewPumpFun(PumpFunOptions{BaseURL: "http://localhost"}, zerolog.Nop())
	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatal("missing coin address should error")
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"$0.000123", true},
		{"0.0001", true},
		{"1,234.5", true},
		{"", false},
		{"N/A", false},
		{"soon", false},
	}

	for _, tc := range cases {
		if _, ok := parsePrice(tc.in); ok != tc.ok {
			t.Fatalf("parsePrice(%q) ok=%v, want %v", tc.in, ok, tc.ok)
		}
	}
}

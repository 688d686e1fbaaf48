package pricesource

import "context"

// RawFields carries the best-effort extraction result for one page fetch.
// An empty string means the field could not be located on the page.
type RawFields struct {
	Price          string
	MarketCap      string
	Holders        string
	Volume24h      string
	PriceChange24h string
}

// Empty reports whether nothing at all was extracted.
func (r RawFields) Empty() bool {
	return r.Price == "" && r.MarketCap == "" && r.Holders == "" &&
		r.Volume24h == "" && r.PriceChange24h == ""
}

// Fetcher retrieves raw market fields from the external price source. It is
// the narrow seam that lets the scraping heuristic be swapped for a real API
// client without touching the cache or the evaluator.
type Fetcher interface {
	Fetch(ctx context.Context) (RawFields, error)
}

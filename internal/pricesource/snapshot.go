package pricesource

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Unavailable marks a market field that could not be extracted.
const Unavailable = "N/A"

// Snapshot is one cached observation of market data. It is immutable once
// constructed; a failed fetch yields a snapshot whose value fields are all
// unavailable.
type Snapshot struct {
	Price          decimal.Decimal
	HasPrice       bool
	PriceText      string
	MarketCap      string
	Holders        string
	Volume24h      string
	PriceChange24h string
	FetchedAt      time.Time
	Succeeded      bool
	Error          string
}

// PriceValue returns the numeric price if the snapshot carries one.
func (s Snapshot) PriceValue() (decimal.Decimal, bool) {
	return s.Price, s.HasPrice
}

func newSnapshot(raw RawFields, fetchedAt time.Time) Snapshot {
	snap := Snapshot{
		PriceText:      orUnavailable(raw.Price),
		MarketCap:      orUnavailable(raw.MarketCap),
		Holders:        orUnavailable(raw.Holders),
		Volume24h:      orUnavailable(raw.Volume24h),
		PriceChange24h: orUnavailable(raw.PriceChange24h),
		FetchedAt:      fetchedAt,
		Succeeded:      true,
	}

	if price, ok := parsePrice(raw.Price); ok {
		snap.Price = price
		snap.HasPrice = true
	}
	return snap
}

func newFailedSnapshot(errMsg string, fetchedAt time.Time) Snapshot {
	return Snapshot{
		PriceText:      Unavailable,
		MarketCap:      Unavailable,
		Holders:        Unavailable,
		Volume24h:      Unavailable,
		PriceChange24h: Unavailable,
		FetchedAt:      fetchedAt,
		Succeeded:      false,
		Error:          errMsg,
	}
}

// parsePrice turns the extracted price text into a decimal, tolerating the
// $ and thousands separators the page renders.
func parsePrice(text string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}

func orUnavailable(v string) string {
	if strings.TrimSpace(v) == "" {
		return Unavailable
	}
	return v
}

// FormatMessage renders the /price reply for a snapshot.
func FormatMessage(snap Snapshot, pageURL string) string {
	builder := strings.Builder{}
	builder.WriteString("💰 *NeonX Price Information* 💰\n\n")

	if snap.Succeeded {
		builder.WriteString(fmt.Sprintf("*Current Price:* %s\n", snap.PriceText))
		builder.WriteString(fmt.Sprintf("*Market Cap:* %s\n", snap.MarketCap))
		builder.WriteString(fmt.Sprintf("*Holders:* %s\n", snap.Holders))
		builder.WriteString(fmt.Sprintf("*Volume (24h):* %s\n", snap.Volume24h))
		builder.WriteString(fmt.Sprintf("*Price Change (24h):* %s\n\n", snap.PriceChange24h))
		builder.WriteString("Data from pump.fun\n")
		builder.WriteString(fmt.Sprintf("Last updated: %s", snap.FetchedAt.UTC().Format("2006-01-02 15:04:05")))
		return builder.String()
	}

	builder.WriteString("Unable to fetch current price data.\n")
	builder.WriteString(fmt.Sprintf("Please check manually at %s\n\n", pageURL))
	errMsg := snap.Error
	if errMsg == "" {
		errMsg = "Unknown error"
	}
	builder.WriteString(fmt.Sprintf("Error: %s", errMsg))
	return builder.String()
}

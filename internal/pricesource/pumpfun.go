package pricesource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// PumpFunOptions parameterise the pump.fun page fetcher.
type PumpFunOptions struct {
	BaseURL     string
	CoinAddress string
	Timeout     time.Duration
	UserAgent   string
}

// PumpFun scrapes price fields from the coin page on pump.fun. The page has
// no stable markup contract, so extraction is a text search around known
// labels and any miss degrades to an unavailable field rather than an error.
type PumpFun struct {
	opts   PumpFunOptions
	client *resty.Client
	url    string
	logger zerolog.Logger
}

// NewPumpFun constructs a pump.fun fetcher.
func NewPumpFun(opts PumpFunOptions, logger zerolog.Logger) *PumpFun {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://pump.fun/coin"
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &PumpFun{
		opts:   opts,
		client: client,
		url:    baseURL + "/" + opts.CoinAddress,
		logger: logger.With().Str("component", "pumpfun_fetcher").Logger(),
	}
}

// URL returns the page URL the fetcher targets.
func (p *PumpFun) URL() string {
	return p.url
}

// Fetch downloads the coin page and extracts whatever fields it can find.
func (p *PumpFun) Fetch(ctx context.Context) (RawFields, error) {
	if p.opts.CoinAddress == "" {
		return RawFields{}, errors.New("coin address not configured")
	}

	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		return RawFields{}, fmt.Errorf("request coin page: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return RawFields{}, fmt.Errorf("coin page returned status %d", resp.StatusCode())
	}

	body := resp.String()
	fields := RawFields{
		Price:          extractLabeledValue(body, "price"),
		MarketCap:      extractLabeledValue(body, "market cap"),
		Holders:        extractLabeledValue(body, "holders"),
		Volume24h:      firstExtracted(body, "volume (24h)", "volume"),
		PriceChange24h: firstExtracted(body, "change (24h)", "change"),
	}

	if fields.Empty() {
		p.logger.Warn().Str("url", p.url).Msg("no recognisable fields on coin page")
	}
	return fields, nil
}

// firstExtracted tries labels from most to least specific.
func firstExtracted(body string, labels ...string) string {
	for _, label := range labels {
		if v := extractLabeledValue(body, label); v != "" {
			return v
		}
	}
	return ""
}

// extractLabeledValue scans the document for a label and returns the first
// value-looking run of text that follows it. The page is rendered markup, so
// tags between the label and the value are skipped.
func extractLabeledValue(body, label string) string {
	lower := strings.ToLower(body)
	idx := strings.Index(lower, strings.ToLower(label))
	if idx < 0 {
		return ""
	}

	rest := body[idx+len(label):]
	var value strings.Builder
	inTag := false
	started := false

	for i, r := range rest {
		if i > 400 {
			break
		}
		switch {
		case r == '<':
			inTag = true
			if started {
				return strings.TrimSpace(value.String())
			}
		case r == '>':
			inTag = false
		case inTag:
			// skip markup
		case isValueRune(r):
			started = true
			value.WriteRune(r)
		case started:
			return strings.TrimSpace(value.String())
		}

		if value.Len() > 32 {
			break
		}
	}

	return strings.TrimSpace(value.String())
}

func isValueRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	switch r {
	case '$', '.', ',', '%', '+', '-', 'K', 'M', 'B', 'k':
		return true
	}
	return false
}

var _ Fetcher = (*PumpFun)(nil)

package history

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"neonx-bot/internal/pricesource"
	"neonx-bot/internal/storage"
)

const documentVersion = 1

// Sample is one persisted price observation.
type Sample struct {
	FetchedAt      time.Time       `json:"fetched_at"`
	Price          decimal.Decimal `json:"price"`
	HasPrice       bool            `json:"has_price"`
	MarketCap      string          `json:"market_cap"`
	Holders        string          `json:"holders"`
	Volume24h      string          `json:"volume_24h"`
	PriceChange24h string          `json:"price_change_24h"`
	Succeeded      bool            `json:"succeeded"`
	Error          string          `json:"error,omitempty"`
}

type document struct {
	Version int      `json:"version"`
	Samples []Sample `json:"samples"`
}

// Log is a capped, JSON-file-backed record of snapshots, feeding the show
// and export commands.
type Log struct {
	file   *storage.File
	max    int
	logger zerolog.Logger

	mu  sync.Mutex
	doc document
}

// NewLog loads (or defaults) the history document. max caps the number of
// retained samples; the oldest are dropped first.
func NewLog(file *storage.File, max int, logger zerolog.Logger) *Log {
	if max <= 0 {
		max = 10000
	}
	l := &Log{
		file:   file,
		max:    max,
		logger: logger.With().Str("component", "price_history").Logger(),
		doc:    document{Version: documentVersion},
	}
	_ = file.Load(&l.doc)
	l.doc.Version = documentVersion
	if len(l.doc.Samples) > max {
		l.doc.Samples = l.doc.Samples[len(l.doc.Samples)-max:]
	}
	return l
}

// Append records a snapshot.
func (l *Log) Append(snap pricesource.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.doc.Samples = append(l.doc.Samples, Sample{
		FetchedAt:      snap.FetchedAt,
		Price:          snap.Price,
		HasPrice:       snap.HasPrice,
		MarketCap:      snap.MarketCap,
		Holders:        snap.Holders,
		Volume24h:      snap.Volume24h,
		PriceChange24h: snap.PriceChange24h,
		Succeeded:      snap.Succeeded,
		Error:          snap.Error,
	})
	if len(l.doc.Samples) > l.max {
		l.doc.Samples = l.doc.Samples[len(l.doc.Samples)-l.max:]
	}

	if err := l.file.Save(&l.doc); err != nil {
		l.logger.Error().Err(err).Msg("failed to persist price history")
	}
}

// Recent returns up to limit samples, newest first.
func (l *Log) Recent(limit int) []Sample {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.doc.Samples)
	if limit > n {
		limit = n
	}
	if limit < 0 {
		limit = 0
	}

	out := make([]Sample, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.doc.Samples[i])
	}
	return out
}

// Between returns samples with from <= FetchedAt < to, in insertion order.
func (l *Log) Between(from, to time.Time) []Sample {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Sample, 0)
	for _, sample := range l.doc.Samples {
		if sample.FetchedAt.Before(from) || !sample.FetchedAt.Before(to) {
			continue
		}
		out = append(out, sample)
	}
	return out
}

// Len reports the number of retained samples.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.doc.Samples)
}

package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neonx-bot/internal/pricesource"
	"neonx-bot/internal/storage"
)

func newTestLog(t *testing.T, max int) *Log {
	t.Helper()
	file := storage.NewFile(filepath.Join(t.TempDir(), "price_history.json"), zerolog.Nop())
	return NewLog(file, max, zerolog.Nop())
}

func snapAt(ts time.Time, price string) pricesource.Snapshot {
	return pricesource.Snapshot{
		Price:     decimal.RequireFromString(price),
		HasPrice:  true,
		FetchedAt: ts,
		Succeeded: true,
	}
}

func TestAppendCapsOldest(t *testing.T) {
	log := newTestLog(t, 3)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		log.Append(snapAt(base.Add(time.Duration(i)*time.Minute), "0.0001"))
	}

	require.Equal(t, 3, log.Len())
	recent := log.Recent(3)
	assert.Equal(t, base.Add(4*time.Minute), recent[0].FetchedAt, "newest first")
	assert.Equal(t, base.Add(2*time.Minute), recent[2].FetchedAt, "oldest two dropped")
}

func TestBetweenHalfOpenWindow(t *testing.T) {
	log := newTestLog(t, 100)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		log.Append(snapAt(base.Add(time.Duration(i)*time.Hour), "0.0001"))
	}

	window := log.Between(base.Add(time.Hour), base.Add(3*time.Hour))
	require.Len(t, window, 2)
	assert.Equal(t, base.Add(time.Hour), window[0].FetchedAt)
	assert.Equal(t, base.Add(2*time.Hour), window[1].FetchedAt)
}

func TestLogSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	file := storage.NewFile(filepath.Join(dir, "price_history.json"), zerolog.Nop())

	log := NewLog(file, 10, zerolog.Nop())
	log.Append(snapAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "0.0001"))

	reloaded := NewLog(storage.NewFile(file.Path(), zerolog.Nop()), 10, zerolog.Nop())
	require.Equal(t, 1, reloaded.Len())
	assert.True(t, reloaded.Recent(1)[0].Price.Equal(decimal.RequireFromString("0.0001")))
}

func TestReloadAppliesSmallerCap(t *testing.T) {
	dir := t.TempDir()
	file := storage.NewFile(filepath.Join(dir, "price_history.json"), zerolog.Nop())

	log := NewLog(file, 10, zerolog.Nop())
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		log.Append(snapAt(base.Add(time.Duration(i)*time.Minute), "0.0001"))
	}

	reloaded := NewLog(storage.NewFile(file.Path(), zerolog.Nop()), 2, zerolog.Nop())
	assert.Equal(t, 2, reloaded.Len())
}

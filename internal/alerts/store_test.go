package alerts

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neonx-bot/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	file := storage.NewFile(filepath.Join(t.TempDir(), "user_alerts.json"), zerolog.Nop())
	return NewStore(file, zerolog.Nop())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddDuplicateIsRejected(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(123456, KindAbove, dec("0.0001"), 0))
	err := store.Add(123456, KindAbove, dec("0.0001"), 0)

	assert.ErrorIs(t, err, ErrDuplicateAlert)
	assert.Equal(t, 1, store.Count())
}

func TestAddSameThresholdDifferentKind(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(123456, KindAbove, dec("0.0001"), 0))
	require.NoError(t, store.Add(123456, KindBelow, dec("0.0001"), 0))
	assert.Equal(t, 2, store.Count())
}

func TestAddInvalidThreshold(t *testing.T) {
	store := newTestStore(t)

	assert.ErrorIs(t, store.Add(1, KindAbove, dec("0"), 0), ErrInvalidThreshold)
	assert.ErrorIs(t, store.Add(1, KindAbove, dec("-1"), 0), ErrInvalidThreshold)
	assert.ErrorIs(t, store.Add(1, Kind("bogus"), dec("1"), 0), ErrInvalidThreshold)
	assert.Equal(t, 0, store.Count())
}

func TestDestinationDefaultsToOwner(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(123456, KindAbove, dec("0.0001"), 0))
	require.NoError(t, store.Add(123456, KindBelow, dec("0.0001"), -100200))

	list := store.List(123456)
	require.Len(t, list, 2)
	assert.Equal(t, int64(123456), list[0].ChatID)
	assert.Equal(t, int64(-100200), list[1].ChatID)
}

func TestRemoveOutOfRange(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Add(123456, KindAbove, dec("0.0001"), 0))

	assert.ErrorIs(t, store.Remove(123456, 1), ErrNotFound)
	assert.ErrorIs(t, store.Remove(123456, -1), ErrNotFound)
	assert.ErrorIs(t, store.Remove(999, 0), ErrNotFound)
	assert.Len(t, store.List(123456), 1)
}

func TestRemoveLastAlertDropsOwner(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Add(123456, KindAbove, dec("0.0001"), 0))
	require.NoError(t, store.Add(789012, KindPercent, dec("5"), 0))

	require.NoError(t, store.Remove(123456, 0))

	all := store.All()
	_, stillThere := all[123456]
	assert.False(t, stillThere, "owner record should be gone with its last alert")
	assert.Len(t, all[789012], 1)
}

func TestRemoveKeepsOrder(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Add(1, KindAbove, dec("1"), 0))
	require.NoError(t, store.Add(1, KindAbove, dec("2"), 0))
	require.NoError(t, store.Add(1, KindAbove, dec("3"), 0))

	require.NoError(t, store.Remove(1, 1))

	list := store.List(1)
	require.Len(t, list, 2)
	assert.True(t, list[0].Threshold.Equal(dec("1")))
	assert.True(t, list[1].Threshold.Equal(dec("3")))
}

func TestListUnknownOwnerIsEmpty(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.List(42))
}

func TestStoreSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	file := storage.NewFile(filepath.Join(dir, "user_alerts.json"), zerolog.Nop())

	store := NewStore(file, zerolog.Nop())
	require.NoError(t, store.Add(123456, KindPercent, dec("5"), 777))

	reloaded := NewStore(storage.NewFile(file.Path(), zerolog.Nop()), zerolog.Nop())
	list := reloaded.List(123456)
	require.Len(t, list, 1)
	assert.Equal(t, KindPercent, list[0].Kind)
	assert.True(t, list[0].Threshold.Equal(dec("5")))
	assert.Equal(t, int64(777), list[0].ChatID)
}

func TestParseKindAliases(t *testing.T) {
	cases := map[string]Kind{
		"above":   KindAbove,
		"UP":      KindAbove,
		"below":   KindBelow,
		"down":    KindBelow,
		"percent": KindPercent,
		"change":  KindPercent,
		"%":       KindPercent,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("sideways")
	assert.Error(t, err)
}

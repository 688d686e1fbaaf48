package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Version int            `json:"version"`
	Values  map[string]int `json:"values"`
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "absent.json"), zerolog.Nop())

	doc := testDoc{Version: 1, Values: map[string]int{"seed": 42}}
	require.NoError(t, f.Load(&doc))

	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, 42, doc.Values["seed"])
}

func TestLoadCorruptFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f := NewFile(path, zerolog.Nop())
	doc := testDoc{Version: 1}
	require.NoError(t, f.Load(&doc))
	assert.Equal(t, 1, doc.Version)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")
	f := NewFile(path, zerolog.Nop())

	require.NoError(t, f.Save(testDoc{Version: 2, Values: map[string]int{"a": 1}}))

	var loaded testDoc
	require.NoError(t, f.Load(&loaded))
	assert.Equal(t, 2, loaded.Version)
	assert.Equal(t, 1, loaded.Values["a"])

	// Document must be valid standalone JSON on disk, with no temp files
	// left next to it.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

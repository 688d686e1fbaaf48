package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// File persists a single JSON document at a fixed path. Each store owns one
// File and rewrites the whole document on every mutation; the document stays
// human-readable on disk.
type File struct {
	path   string
	logger zerolog.Logger
}

// NewFile binds a document store to a path.
func NewFile(path string, logger zerolog.Logger) *File {
	return &File{
		path:   path,
		logger: logger.With().Str("component", "storage").Str("path", path).Logger(),
	}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Load decodes the document into the provided value. A missing or corrupt
// file is not an error: the value is left untouched so the caller's default
// document applies. Corruption is logged since it means stored state is
// being discarded.
func (f *File) Load(into any) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		f.logger.Warn().Err(err).Msg("failed to read document, starting from defaults")
		return nil
	}

	if err := json.Unmarshal(data, into); err != nil {
		f.logger.Warn().Err(err).Msg("document is corrupt, starting from defaults")
		return nil
	}
	return nil
}

// Save rewrites the document in full. The write goes through a temp file and
// rename so a crash mid-write cannot leave a truncated document behind.
func (f *File) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close document: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

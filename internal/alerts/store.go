package alerts

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"neonx-bot/internal/storage"
)

const documentVersion = 1

// document is the persisted shape of the alert store. Owner ids are kept as
// decimal strings because JSON object keys are strings.
type document struct {
	Version int                `json:"version"`
	Users   map[string][]Alert `json:"users"`
}

// Store keeps per-user alerts backed by a JSON document. A coarse mutex
// serialises command handlers and the background evaluation tick.
type Store struct {
	file   *storage.File
	logger zerolog.Logger
	now    func() time.Time

	mu  sync.Mutex
	doc document
}

// NewStore loads (or defaults) the alert document at the given file.
func NewStore(file *storage.File, logger zerolog.Logger) *Store {
	s := &Store{
		file:   file,
		logger: logger.With().Str("component", "alert_store").Logger(),
		now:    time.Now,
		doc:    document{Version: documentVersion, Users: map[string][]Alert{}},
	}
	_ = file.Load(&s.doc)
	if s.doc.Users == nil {
		s.doc.Users = map[string][]Alert{}
	}
	s.doc.Version = documentVersion
	return s
}

// Add inserts a new alert unless the owner already has one with the same
// kind and threshold. A zero destination defaults to the owner's own chat.
func (s *Store) Add(owner int64, kind Kind, threshold decimal.Decimal, chatID int64) error {
	if !kind.valid() || !threshold.IsPositive() {
		return ErrInvalidThreshold
	}
	if chatID == 0 {
		chatID = owner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := ownerKey(owner)
	for _, existing := range s.doc.Users[key] {
		if existing.Kind == kind && existing.Threshold.Equal(threshold) {
			return ErrDuplicateAlert
		}
	}

	s.doc.Users[key] = append(s.doc.Users[key], Alert{
		Kind:      kind,
		Threshold: threshold,
		ChatID:    chatID,
		CreatedAt: s.now().UTC(),
	})
	s.persist()
	return nil
}

// Remove drops the alert at the zero-based index of the owner's list.
// Removing the last alert removes the owner's record entirely.
func (s *Store) Remove(owner int64, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ownerKey(owner)
	list, ok := s.doc.Users[key]
	if !ok || index < 0 || index >= len(list) {
		return ErrNotFound
	}

	list = append(list[:index], list[index+1:]...)
	if len(list) == 0 {
		delete(s.doc.Users, key)
	} else {
		s.doc.Users[key] = list
	}
	s.persist()
	return nil
}

// List returns a copy of the owner's alerts, empty if the owner is unknown.
func (s *Store) List(owner int64) []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.doc.Users[ownerKey(owner)]
	out := make([]Alert, len(list))
	copy(out, list)
	return out
}

// All returns a copy of every owner's alerts keyed by owner id.
func (s *Store) All() map[int64][]Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int64][]Alert, len(s.doc.Users))
	for key, list := range s.doc.Users {
		owner, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		copied := make([]Alert, len(list))
		copy(copied, list)
		out[owner] = copied
	}
	return out
}

// Count reports the total number of alerts across all owners.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, list := range s.doc.Users {
		total += len(list)
	}
	return total
}

// persist writes the document; callers hold the mutex. A failed write is
// logged and the in-memory state stays authoritative.
func (s *Store) persist() {
	if err := s.file.Save(&s.doc); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist alerts")
	}
}

func (s *Store) sortedOwnerKeys() []string {
	keys := make([]string, 0, len(s.doc.Users))
	for key := range s.doc.Users {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func ownerKey(owner int64) string {
	return strconv.FormatInt(owner, 10)
}

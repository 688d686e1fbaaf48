package community

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"neonx-bot/internal/storage"
)

const (
	documentVersion = 1
	activeWindow    = 24 * time.Hour
)

var (
	// ErrAlreadyLiked means the user already liked that meme.
	ErrAlreadyLiked = errors.New("meme already liked")
	// ErrMemeNotFound means the meme index does not exist.
	ErrMemeNotFound = errors.New("meme not found")
)

// UserActivity tracks one community member.
type UserActivity struct {
	Username     string    `json:"username,omitempty"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	FirstSeen    time.Time `json:"first_seen"`
	LastActive   time.Time `json:"last_active"`
	MessageCount int       `json:"message_count"`
}

// Meme is one submitted meme; FileID is the Telegram media reference.
type Meme struct {
	FileID      string    `json:"file_id"`
	UserID      int64     `json:"user_id"`
	Caption     string    `json:"caption,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	Likes       int       `json:"likes"`
	LikedBy     []int64   `json:"liked_by"`
}

func (m Meme) likedBy(userID int64) bool {
	for _, id := range m.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Stats is the derived community aggregate.
type Stats struct {
	TotalUsers    int       `json:"total_users"`
	ActiveUsers   int       `json:"active_users"`
	TotalMessages int       `json:"total_messages"`
	LastUpdated   time.Time `json:"last_updated"`
}

type document struct {
	Version int                      `json:"version"`
	Users   map[string]*UserActivity `json:"users"`
	Memes   []Meme                   `json:"memes"`
	Stats   Stats                    `json:"stats"`
}

// Store keeps community activity and the meme collection in one JSON
// document, serialised by a coarse mutex.
type Store struct {
	file   *storage.File
	logger zerolog.Logger
	now    func() time.Time
	pick   func(n int) int

	mu  sync.Mutex
	doc document
}

// NewStore loads (or defaults) the community document at the given file.
func NewStore(file *storage.File, logger zerolog.Logger) *Store {
	s := &Store{
		file:   file,
		logger: logger.With().Str("component", "community_store").Logger(),
		now:    time.Now,
		pick:   rand.Intn,
		doc:    document{Version: documentVersion, Users: map[string]*UserActivity{}},
	}
	_ = file.Load(&s.doc)
	if s.doc.Users == nil {
		s.doc.Users = map[string]*UserActivity{}
	}
	s.doc.Version = documentVersion
	return s
}

// RecordActivity upserts the user's activity record. Display fields only
// overwrite stored values when non-empty; counters and the 24h active-user
// aggregate are refreshed on every call.
func (s *Store) RecordActivity(userID int64, username, firstName, lastName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	key := strconv.FormatInt(userID, 10)

	user, ok := s.doc.Users[key]
	if !ok {
		s.doc.Users[key] = &UserActivity{
			Username:     username,
			FirstName:    firstName,
			LastName:     lastName,
			FirstSeen:    now,
			LastActive:   now,
			MessageCount: 1,
		}
		s.doc.Stats.TotalUsers++
	} else {
		user.LastActive = now
		user.MessageCount++
		if username != "" {
			user.Username = username
		}
		if firstName != "" {
			user.FirstName = firstName
		}
		if lastName != "" {
			user.LastName = lastName
		}
	}

	s.doc.Stats.TotalMessages++
	s.doc.Stats.LastUpdated = now
	s.doc.Stats.ActiveUsers = s.countActive(now)

	s.persist()
}

func (s *Store) countActive(now time.Time) int {
	active := 0
	for _, user := range s.doc.Users {
		if now.Sub(user.LastActive) < activeWindow {
			active++
		}
	}
	return active
}

// AddMeme appends a meme and returns its index.
func (s *Store) AddMeme(fileID string, userID int64, caption string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Memes = append(s.doc.Memes, Meme{
		FileID:      fileID,
		UserID:      userID,
		Caption:     caption,
		SubmittedAt: s.now().UTC(),
		LikedBy:     []int64{},
	})
	s.persist()
	return len(s.doc.Memes) - 1
}

// Like counts one like per user per meme.
func (s *Store) Like(index int, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.doc.Memes) {
		return ErrMemeNotFound
	}
	if s.doc.Memes[index].likedBy(userID) {
		return ErrAlreadyLiked
	}

	s.doc.Memes[index].Likes++
	s.doc.Memes[index].LikedBy = append(s.doc.Memes[index].LikedBy, userID)
	s.persist()
	return nil
}

// RandomMeme returns a uniformly chosen meme and its index, or false when
// the collection is empty.
func (s *Store) RandomMeme() (Meme, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.doc.Memes) == 0 {
		return Meme{}, 0, false
	}
	idx := s.pick(len(s.doc.Memes))
	return s.doc.Memes[idx], idx, true
}

// TopMemes returns up to limit memes ordered by likes descending; ties keep
// insertion order.
func (s *Store) TopMemes(limit int) []Meme {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]Meme, len(s.doc.Memes))
	copy(sorted, s.doc.Memes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Likes > sorted[j].Likes
	})

	if limit >= 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// MemeCount reports the collection size.
func (s *Store) MemeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.doc.Memes)
}

// Stats returns the current aggregate counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Stats
}

// UserStats returns one user's activity record.
func (s *Store) UserStats(userID int64) (UserActivity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.doc.Users[strconv.FormatInt(userID, 10)]
	if !ok {
		return UserActivity{}, false
	}
	return *user, true
}

func (s *Store) persist() {
	if err := s.file.Save(&s.doc); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist community data")
	}
}

// FormatStatsMessage renders the /stats reply.
func (s *Store) FormatStatsMessage() string {
	s.mu.Lock()
	stats := s.doc.Stats
	memes := len(s.doc.Memes)
	s.mu.Unlock()

	builder := strings.Builder{}
	builder.WriteString("📊 *NeonX Community Statistics* 📊\n\n")
	builder.WriteString(fmt.Sprintf("*Total Users:* %d\n", stats.TotalUsers))
	builder.WriteString(fmt.Sprintf("*Active Users (24h):* %d\n", stats.ActiveUsers))
	builder.WriteString(fmt.Sprintf("*Total Messages:* %d\n", stats.TotalMessages))
	builder.WriteString(fmt.Sprintf("*Total Memes:* %d\n\n", memes))
	builder.WriteString(fmt.Sprintf("Last updated: %s", stats.LastUpdated.UTC().Format("2006-01-02 15:04:05")))
	return builder.String()
}

package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pgray/antenna/internal/domain"
)

const (
	resourceFavorites = "favorites"
	resourceHistory   = "history"
	resourcePIN       = "pin"

	maxHistoryEntries = 200
)

// Content kinds for favorites and watch history
const (
	KindLive   = "live"
	KindMovie  = "movie"
	KindSeries = "series"
)

// Favorite is one pinned catalog item
type Favorite struct {
	Kind    string `json:"kind"`
	ID      int    `json:"id"`
	Name    string `json:"name"`
	AddedAt int64  `json:"added_at"`
}

// WatchEntry records playback progress for one item
type WatchEntry struct {
	Kind      string `json:"kind"`
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Position  int    `json:"position"` // Seconds into the item
	UpdatedAt int64  `json:"updated_at"`
}

// UserDataService persists per-user state (favorites, watch history,
// parental-control PIN) in the key-value store under structured keys.
// All of it is wiped by ClearUser on logout.
type UserDataService struct {
	kv     domain.KeyValueStore
	logger *slog.Logger
	now    func() time.Time
}

// NewUserDataService creates a user data service
func NewUserDataService(kv domain.KeyValueStore, logger *slog.Logger) *UserDataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserDataService{kv: kv, logger: logger, now: time.Now}
}

// Favorites returns the user's pinned items, newest first
func (s *UserDataService) Favorites(userID string) []Favorite {
	var favs []Favorite
	s.load(UserKey(userID, resourceFavorites), &favs)
	return favs
}

// AddFavorite pins an item; adding an already pinned item is a no-op
func (s *UserDataService) AddFavorite(userID, kind string, id int, name string) error {
	favs := s.Favorites(userID)
	for _, f := range favs {
		if f.Kind == kind && f.ID == id {
			return nil
		}
	}
	favs = append([]Favorite{{Kind: kind, ID: id, Name: name, AddedAt: s.now().Unix()}}, favs...)
	return s.save(UserKey(userID, resourceFavorites), favs)
}

// RemoveFavorite unpins an item
func (s *UserDataService) RemoveFavorite(userID, kind string, id int) error {
	favs := s.Favorites(userID)
	out := favs[:0]
	for _, f := range favs {
		if f.Kind != kind || f.ID != id {
			out = append(out, f)
		}
	}
	return s.save(UserKey(userID, resourceFavorites), out)
}

// History returns the user's watch history, most recently updated first
func (s *UserDataService) History(userID string) []WatchEntry {
	var entries []WatchEntry
	s.load(UserKey(userID, resourceHistory), &entries)
	return entries
}

// RecordWatch upserts a history entry and moves it to the front. History is
// capped at maxHistoryEntries; the oldest entries fall off.
func (s *UserDataService) RecordWatch(userID, kind string, id int, name string, positionSecs int) error {
	entries := s.History(userID)
	kept := make([]WatchEntry, 0, len(entries)+1)
	kept = append(kept, WatchEntry{
		Kind:      kind,
		ID:        id,
		Name:      name,
		Position:  positionSecs,
		UpdatedAt: s.now().Unix(),
	})
	for _, e := range entries {
		if e.Kind == kind && e.ID == id {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > maxHistoryEntries {
		kept = kept[:maxHistoryEntries]
	}
	return s.save(UserKey(userID, resourceHistory), kept)
}

// SetPIN stores the parental-control PIN as a SHA-256 digest.
// PIN entry and prompting are the caller's concern.
func (s *UserDataService) SetPIN(userID, pin string) error {
	digest := hashPIN(pin)
	return s.kv.Set(UserKey(userID, resourcePIN), []byte(digest))
}

// VerifyPIN reports whether pin matches the stored digest. With no PIN set,
// verification always succeeds.
func (s *UserDataService) VerifyPIN(userID, pin string) bool {
	stored, ok := s.kv.Get(UserKey(userID, resourcePIN))
	if !ok {
		return true
	}
	return string(stored) == hashPIN(pin)
}

// HasPIN reports whether a parental-control PIN is set
func (s *UserDataService) HasPIN(userID string) bool {
	_, ok := s.kv.Get(UserKey(userID, resourcePIN))
	return ok
}

// ClearUser wipes all persisted state for one user. Wired to session logout
// by the composition root.
func (s *UserDataService) ClearUser(userID string) {
	if err := s.kv.RemovePrefix(UserPrefix(userID)); err != nil {
		s.logger.Warn("failed to clear user data", "userID", userID, "error", err)
	}
}

func hashPIN(pin string) string {
	digest := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(digest[:])
}

func (s *UserDataService) load(key string, dest any) {
	data, ok := s.kv.Get(key)
	if !ok {
		return
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("failed to parse user data", "key", key, "error", err)
	}
}

func (s *UserDataService) save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.kv.Set(key, data)
}

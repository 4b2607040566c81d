package service

import (
	"testing"

	"github.com/pgray/antenna/internal/log"
)

func TestFavoritesAddRemove(t *testing.T) {
	users := NewUserDataService(newMemKV(), log.NullLogger())

	if err := users.AddFavorite("alice", KindMovie, 1, "Heat"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := users.AddFavorite("alice", KindSeries, 7, "Dark"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	// Duplicate add is a no-op
	if err := users.AddFavorite("alice", KindMovie, 1, "Heat"); err != nil {
		t.Fatalf("duplicate add failed: %v", err)
	}

	favs := users.Favorites("alice")
	if len(favs) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(favs))
	}
	if favs[0].Name != "Dark" {
		t.Fatalf("expected newest first, got %+v", favs)
	}

	if err := users.RemoveFavorite("alice", KindMovie, 1); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	favs = users.Favorites("alice")
	if len(favs) != 1 || favs[0].ID != 7 {
		t.Fatalf("unexpected favorites after remove: %+v", favs)
	}
}

func TestFavoritesAreScopedToUser(t *testing.T) {
	users := NewUserDataService(newMemKV(), log.NullLogger())

	users.AddFavorite("alice", KindMovie, 1, "Heat")
	users.AddFavorite("bob", KindMovie, 2, "Ronin")

	if favs := users.Favorites("alice"); len(favs) != 1 || favs[0].ID != 1 {
		t.Fatalf("unexpected favorites for alice: %+v", favs)
	}
	if favs := users.Favorites("bob"); len(favs) != 1 || favs[0].ID != 2 {
		t.Fatalf("unexpected favorites for bob: %+v", favs)
	}
}

// Usernames containing separator characters must not break out of their
// namespace.
func TestUserKeyEscapesSeparators(t *testing.T) {
	users := NewUserDataService(newMemKV(), log.NullLogger())

	users.AddFavorite("a/b", KindMovie, 1, "Heat")
	users.AddFavorite("a", KindMovie, 2, "Ronin")

	users.ClearUser("a")

	if favs := users.Favorites("a/b"); len(favs) != 1 {
		t.Fatalf("expected a/b data to survive clearing user a, got %+v", favs)
	}
	if favs := users.Favorites("a"); len(favs) != 0 {
		t.Fatalf("expected user a data to be wiped, got %+v", favs)
	}
}

func TestRecordWatchUpsertsAndCaps(t *testing.T) {
	users := NewUserDataService(newMemKV(), log.NullLogger())

	users.RecordWatch("alice", KindMovie, 1, "Heat", 60)
	users.RecordWatch("alice", KindSeries, 7, "Dark", 10)
	users.RecordWatch("alice", KindMovie, 1, "Heat", 120)

	entries := users.History("alice")
	if len(entries) != 2 {
		t.Fatalf("expected upsert to keep 2 entries, got %d", len(entries))
	}
	if entries[0].ID != 1 || entries[0].Position != 120 {
		t.Fatalf("expected updated entry first, got %+v", entries[0])
	}

	for i := 0; i < maxHistoryEntries+10; i++ {
		users.RecordWatch("alice", KindMovie, 100+i, "Filler", 0)
	}
	if got := len(users.History("alice")); got != maxHistoryEntries {
		t.Fatalf("expected history capped at %d, got %d", maxHistoryEntries, got)
	}
}

func TestPIN(t *testing.T) {
	users := NewUserDataService(newMemKV(), log.NullLogger())

	// No PIN set: verification always succeeds
	if !users.VerifyPIN("alice", "0000") {
		t.Fatal("expected verification to pass with no PIN set")
	}
	if users.HasPIN("alice") {
		t.Fatal("expected no PIN")
	}

	if err := users.SetPIN("alice", "4812"); err != nil {
		t.Fatalf("set PIN failed: %v", err)
	}
	if !users.HasPIN("alice") {
		t.Fatal("expected PIN to be set")
	}
	if !users.VerifyPIN("alice", "4812") {
		t.Fatal("expected correct PIN to verify")
	}
	if users.VerifyPIN("alice", "0000") {
		t.Fatal("expected wrong PIN to fail")
	}
}

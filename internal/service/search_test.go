package service

import (
	"context"
	"testing"

	"github.com/pgray/antenna/internal/domain"
)

func TestSearchMatchesAcrossCatalogs(t *testing.T) {
	ctx := context.Background()
	repo := testRepo()
	repo.movies = []domain.Movie{
		{ID: 1, Name: "Heat"},
		{ID: 2, Name: "The Heartbreak Kid"},
		{ID: 3, Name: "Ronin"},
	}
	repo.series = []domain.Series{
		{ID: 7, Name: "Dark"},
		{ID: 8, Name: "Heartstopper"},
	}
	s := newTestCatalog(repo, newMemKV())

	results, err := s.Search(ctx, "heart")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected matches")
	}
	for _, r := range results {
		if r.ID == 3 || r.ID == 7 {
			t.Fatalf("unexpected match: %+v", r)
		}
	}

	kinds := map[string]bool{}
	for _, r := range results {
		kinds[r.Kind] = true
	}
	if !kinds[KindMovie] || !kinds[KindSeries] {
		t.Fatalf("expected matches from both catalogs, got %+v", results)
	}
}

func TestSearchUsesCachePath(t *testing.T) {
	ctx := context.Background()
	repo := testRepo()
	s := newTestCatalog(repo, newMemKV())

	if _, err := s.Search(ctx, "heat"); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if _, err := s.Search(ctx, "dark"); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if repo.vodStreamCalls != 1 || repo.seriesCalls != 1 {
		t.Fatalf("expected repeated searches to hit the cache, got vod=%d series=%d",
			repo.vodStreamCalls, repo.seriesCalls)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ctx := context.Background()
	repo := testRepo()
	s := newTestCatalog(repo, newMemKV())

	results, err := s.Search(ctx, "   ")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if results != nil {
		t.Fatalf("expected no results for empty query, got %+v", results)
	}
	if repo.vodStreamCalls != 0 {
		t.Fatal("expected no fetch for empty query")
	}
}

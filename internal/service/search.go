package service

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SearchResult is one fuzzy match across the VOD and series catalogs
type SearchResult struct {
	Kind  string // KindMovie or KindSeries
	ID    int
	Name  string
	Score int // Lower is better
}

// Search runs a fuzzy match over the full VOD and series catalogs. Both
// catalogs are pulled through the normal cache path first, so repeated
// searches within the TTL hit memory only.
func (s *CatalogService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	movies, err := s.VodStreams(ctx, "")
	if err != nil {
		return nil, err
	}
	series, err := s.Series(ctx, "")
	if err != nil {
		return nil, err
	}

	candidates := make([]SearchResult, 0, len(movies)+len(series))
	titles := make([]string, 0, len(movies)+len(series))
	for _, m := range movies {
		candidates = append(candidates, SearchResult{Kind: KindMovie, ID: m.ID, Name: m.Name})
		titles = append(titles, m.Name)
	}
	for _, sr := range series {
		candidates = append(candidates, SearchResult{Kind: KindSeries, ID: sr.ID, Name: sr.Name})
		titles = append(titles, sr.Name)
	}

	matches := fuzzy.RankFindNormalizedFold(query, titles)

	results := make([]SearchResult, 0, len(matches))
	for _, match := range matches {
		r := candidates[match.OriginalIndex]
		r.Score = match.Distance
		results = append(results, r)
	}

	// Sort by score (lower is better), then by name for a stable order
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return results[i].Name < results[j].Name
	})

	s.logger.Debug("search complete", "query", query, "results", len(results))
	return results, nil
}

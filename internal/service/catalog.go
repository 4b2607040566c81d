package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/pgray/antenna/internal/domain"
)

// CatalogTTL is how long a cached catalog stays valid before the next
// request goes back to the portal.
const CatalogTTL = 24 * time.Hour

// SessionState gates catalog operations: nothing is fetched or served
// without an active session.
type SessionState interface {
	Authenticated() bool
}

// cacheEntry is one cached catalog with its creation time.
// CategoryFilter records which category-scoped query produced the entry;
// empty means the unfiltered ("all categories") query.
type cacheEntry[T any] struct {
	Data           []T    `json:"data"`
	Timestamp      int64  `json:"timestamp"` // epoch millis
	CategoryFilter string `json:"category_filter,omitempty"`
}

// CatalogService serves provider catalogs through a single-slot-per-type
// cache. Each of the four cacheable catalog types (VOD streams, VOD
// categories, series, series categories) holds at most one in-memory entry;
// a fetch under a different category filter replaces the slot wholesale even
// if the previous entry is still fresh. Entries are mirrored to the
// key-value store best-effort and restored once via LoadCaches.
//
// The mutex guards slot access only; it is never held across a portal fetch
// or a store write. Two concurrent callers that both observe an invalid slot
// will both fetch, and the last write wins. That relaxed behavior is
// deliberate; there is no in-flight request de-duplication.
type CatalogService struct {
	repo    domain.CatalogRepository
	kv      domain.KeyValueStore
	session SessionState
	logger  *slog.Logger
	now     func() time.Time

	mu               sync.Mutex
	vodStreams       *cacheEntry[domain.Movie]
	vodCategories    *cacheEntry[domain.Category]
	series           *cacheEntry[domain.Series]
	seriesCategories *cacheEntry[domain.Category]
}

// NewCatalogService creates a catalog service. Call LoadCaches to restore
// persisted entries before first use.
func NewCatalogService(repo domain.CatalogRepository, kv domain.KeyValueStore, session SessionState, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		repo:    repo,
		kv:      kv,
		session: session,
		logger:  logger,
		now:     time.Now,
	}
}

// VodCategories returns all VOD categories, served from cache when valid
func (s *CatalogService) VodCategories(ctx context.Context) ([]domain.Category, error) {
	return fetchCatalog(ctx, s, &s.vodCategories, resourceVodCategories, "", func(ctx context.Context, _ string) ([]domain.Category, error) {
		return s.repo.VodCategories(ctx)
	})
}

// SeriesCategories returns all series categories, served from cache when valid
func (s *CatalogService) SeriesCategories(ctx context.Context) ([]domain.Category, error) {
	return fetchCatalog(ctx, s, &s.seriesCategories, resourceSeriesCategories, "", func(ctx context.Context, _ string) ([]domain.Category, error) {
		return s.repo.SeriesCategories(ctx)
	})
}

// VodStreams returns VOD entries for one category (or all, when categoryID
// is empty), served from cache when the entry is fresh and was fetched under
// the same category filter.
func (s *CatalogService) VodStreams(ctx context.Context, categoryID string) ([]domain.Movie, error) {
	return fetchCatalog(ctx, s, &s.vodStreams, resourceVodStreams, categoryID, s.repo.VodStreams)
}

// Series returns series entries for one category (or all, when categoryID is
// empty), served from cache when the entry is fresh and was fetched under the
// same category filter.
func (s *CatalogService) Series(ctx context.Context, categoryID string) ([]domain.Series, error) {
	return fetchCatalog(ctx, s, &s.series, resourceSeries, categoryID, s.repo.Series)
}

// fetchCatalog is the fetch-or-serve path shared by all four catalog types.
// A valid slot is returned as-is with no network call. An invalid slot
// (missing, expired, or fetched under a different filter) triggers a portal
// fetch; the slot is replaced wholesale and mirrored to the store. A fetch
// failure propagates and leaves the previous entry untouched; stale data is
// never served as a fallback.
func fetchCatalog[T any](
	ctx context.Context,
	s *CatalogService,
	slot **cacheEntry[T],
	resource string,
	filter string,
	fetch func(ctx context.Context, filter string) ([]T, error),
) ([]T, error) {
	if !s.session.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	s.mu.Lock()
	if e := *slot; e.valid(filter, s.now()) {
		data := e.Data
		s.mu.Unlock()
		s.logger.Debug("catalog cache hit", "resource", resource, "filter", filter)
		return data, nil
	}
	s.mu.Unlock()

	data, err := fetch(ctx, filter)
	if err != nil {
		s.logger.Error("catalog fetch failed", "resource", resource, "filter", filter, "error", err)
		return nil, err
	}

	entry := &cacheEntry[T]{
		Data:           data,
		Timestamp:      s.now().UnixMilli(),
		CategoryFilter: filter,
	}

	s.mu.Lock()
	*slot = entry
	s.mu.Unlock()

	s.persistEntry(resource, entry)
	s.logger.Info("catalog fetched", "resource", resource, "filter", filter, "count", len(data))

	return data, nil
}

// valid reports whether an entry can be served for the requested filter:
// the entry exists, its age is under CatalogTTL, and it was fetched under
// exactly the requested category filter. Category catalogs always use the
// empty filter on both sides, so the filter check is a no-op for them.
func (e *cacheEntry[T]) valid(filter string, now time.Time) bool {
	if e == nil {
		return false
	}
	if now.UnixMilli()-e.Timestamp >= CatalogTTL.Milliseconds() {
		return false
	}
	return e.CategoryFilter == filter
}

// persistEntry mirrors an entry to the key-value store. Persistence is
// strictly best-effort: failures are logged and never surface to callers.
func (s *CatalogService) persistEntry(resource string, entry any) {
	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Warn("failed to marshal catalog entry", "resource", resource, "error", err)
		return
	}
	if err := s.kv.Set(CatalogKey(resource), data); err != nil {
		s.logger.Warn("failed to persist catalog entry", "resource", resource, "error", err)
	}
}

// LoadCaches restores persisted entries into memory. Each of the four keys is
// read independently; a read or parse failure on one key does not block the
// others. Restored entries keep their original timestamps, so anything stale
// on disk is re-fetched on first use.
func (s *CatalogService) LoadCaches() {
	restoreEntry(s, &s.vodStreams, resourceVodStreams)
	restoreEntry(s, &s.vodCategories, resourceVodCategories)
	restoreEntry(s, &s.series, resourceSeries)
	restoreEntry(s, &s.seriesCategories, resourceSeriesCategories)
}

func restoreEntry[T any](s *CatalogService, slot **cacheEntry[T], resource string) {
	data, ok := s.kv.Get(CatalogKey(resource))
	if !ok {
		return
	}

	var entry cacheEntry[T]
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn("failed to parse persisted catalog entry", "resource", resource, "error", err)
		return
	}

	s.mu.Lock()
	*slot = &entry
	s.mu.Unlock()

	s.logger.Debug("restored catalog entry", "resource", resource, "count", len(entry.Data))
}

// Reset clears all four in-memory entries and their persisted keys without
// re-fetching. Used by logout and as the first half of ClearCache.
func (s *CatalogService) Reset() {
	s.mu.Lock()
	s.vodStreams = nil
	s.vodCategories = nil
	s.series = nil
	s.seriesCategories = nil
	s.mu.Unlock()

	for _, resource := range []string{resourceVodStreams, resourceVodCategories, resourceSeries, resourceSeriesCategories} {
		if err := s.kv.Remove(CatalogKey(resource)); err != nil {
			s.logger.Warn("failed to remove persisted catalog entry", "resource", resource, "error", err)
		}
	}

	s.logger.Info("catalog cache cleared")
}

// ClearCache resets the cache and, when a session is active, re-fetches all
// four catalog types inline to warm it again. Each rewarm failure is logged
// and isolated; ClearCache itself never fails. Callers should treat the
// result as "cache reset, content may or may not be warm yet."
func (s *CatalogService) ClearCache(ctx context.Context) {
	s.Reset()

	if !s.session.Authenticated() {
		return
	}

	if _, err := s.VodCategories(ctx); err != nil {
		s.logger.Warn("rewarm failed", "resource", resourceVodCategories, "error", err)
	}
	if _, err := s.SeriesCategories(ctx); err != nil {
		s.logger.Warn("rewarm failed", "resource", resourceSeriesCategories, "error", err)
	}
	if _, err := s.VodStreams(ctx, ""); err != nil {
		s.logger.Warn("rewarm failed", "resource", resourceVodStreams, "error", err)
	}
	if _, err := s.Series(ctx, ""); err != nil {
		s.logger.Warn("rewarm failed", "resource", resourceSeries, "error", err)
	}
}

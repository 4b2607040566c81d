package domain

import (
	"context"
)

// CatalogRepository provides access to the provider's catalog endpoints.
// Implemented by the xtream client; consumed by the cached catalog service.
type CatalogRepository interface {
	// VodCategories returns all VOD categories
	VodCategories(ctx context.Context) ([]Category, error)

	// SeriesCategories returns all series categories
	SeriesCategories(ctx context.Context) ([]Category, error)

	// LiveCategories returns all live TV categories
	LiveCategories(ctx context.Context) ([]Category, error)

	// VodStreams returns VOD entries, optionally narrowed to one category.
	// An empty categoryID means all categories.
	VodStreams(ctx context.Context, categoryID string) ([]Movie, error)

	// Series returns series entries, optionally narrowed to one category
	Series(ctx context.Context, categoryID string) ([]Series, error)

	// LiveStreams returns live channels, optionally narrowed to one category
	LiveStreams(ctx context.Context, categoryID string) ([]Channel, error)
}

// DetailRepository provides per-item detail lookups that are never cached.
type DetailRepository interface {
	// SeriesInfo returns seasons and episodes for one series
	SeriesInfo(ctx context.Context, seriesID int) (*SeriesInfo, error)

	// MovieInfo returns extended metadata for one VOD entry
	MovieInfo(ctx context.Context, vodID int) (*MovieInfo, error)
}

// Authenticator performs the portal handshake.
type Authenticator interface {
	// Authenticate validates credentials against the portal and returns
	// the subscription snapshot
	Authenticate(ctx context.Context) (*Account, error)
}

package service

import "net/url"

// Persistent store keys. Built here rather than by string concatenation at
// call sites so that usernames containing separator characters can never
// collide with or corrupt another namespace.

// Catalog resources, one fixed persisted key per cacheable catalog type
const (
	resourceVodStreams       = "vod_streams"
	resourceVodCategories    = "vod_categories"
	resourceSeries           = "series"
	resourceSeriesCategories = "series_categories"
)

// CatalogKey returns the persisted key for one catalog resource
func CatalogKey(resource string) string {
	return "catalog/" + resource
}

// UserKey returns the persisted key for one user-scoped resource.
// The user ID is path-escaped so separator characters in usernames
// cannot break out of the user's namespace.
func UserKey(userID, resource string) string {
	return "user/" + url.PathEscape(userID) + "/" + resource
}

// UserPrefix returns the key prefix covering all of a user's resources
func UserPrefix(userID string) string {
	return "user/" + url.PathEscape(userID) + "/"
}

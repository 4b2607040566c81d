package domain

// KeyValueStore is the persistent key-value contract consumed by the catalog
// cache and user-data services. Implementations are best-effort durable: a
// failed write must not corrupt previously stored values.
//
// Keys are opaque strings built by service-level key builders; values are
// serialized blobs owned entirely by the caller.
type KeyValueStore interface {
	// Get returns the stored value for key, or false if absent
	Get(key string) ([]byte, bool)

	// Set stores value under key, replacing any previous value
	Set(key string, value []byte) error

	// Remove deletes key; removing an absent key is not an error
	Remove(key string) error

	// RemovePrefix deletes every key that starts with prefix
	RemovePrefix(prefix string) error

	Close() error
}

package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrProviderOffline indicates the IPTV portal is unreachable
	ErrProviderOffline = errors.New("provider portal is unreachable")

	// ErrAuthFailed indicates the portal rejected the credentials
	ErrAuthFailed = errors.New("provider rejected credentials")

	// ErrNotAuthenticated indicates no active session for an operation that requires one
	ErrNotAuthenticated = errors.New("no active session")

	// ErrNotFound indicates the requested catalog item does not exist
	ErrNotFound = errors.New("catalog item not found")
)

package buildconfig

import "errors"

// Sentinel errors for renderer-instance configuration validation.
var (
	// ErrInvalidWorkerCount indicates a non-positive worker pool size.
	ErrInvalidWorkerCount = errors.New("worker count must be positive")

	// ErrInvalidCacheCapacity indicates a negative cache capacity.
	ErrInvalidCacheCapacity = errors.New("cache capacity must be non-negative")

	// ErrInvalidCacheTTL indicates a non-positive cache entry TTL.
	ErrInvalidCacheTTL = errors.New("cache TTL must be positive")

	// ErrMissingCodecBinary indicates no codec binary path/name was configured.
	ErrMissingCodecBinary = errors.New("codec binary path must be set")
)

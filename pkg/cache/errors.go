package cache

import "errors"

// ErrUnavailable is returned when a remote cache backend cannot be reached.
// Callers usually fall back to NewNullCache.
var ErrUnavailable = errors.New("cache unavailable")

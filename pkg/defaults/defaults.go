package defaults

import "time"

// Resolution timeouts.
const (
	// ResolveTimeout bounds one HTTP resolution, single kernel or routine.
	ResolveTimeout = 10 * time.Second
)

// Server timeouts.
const (
	ServerReadTimeout     = 10 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Server limits.
const (
	ServerPort = 8080

	// RateLimit is the sustained request rate, per second.
	RateLimit      = 100
	RateLimitBurst = 200
)

// CacheMaxAge is the Cache-Control max-age, in seconds, of successful
// resolutions. Results only change with a new database build.
const CacheMaxAge = 300

// CacheMaxEntries bounds the resolutions kept by the server's cache. Keys
// come from client-supplied device strings.
const CacheMaxEntries = 4096

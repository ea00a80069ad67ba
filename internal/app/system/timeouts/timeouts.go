// Package timeouts provides centralized timeout values for handler
// operations, used with context.WithTimeout for database work and other
// I/O. Centralizing the values keeps them consistent and easy to tune.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or writes
//   - Medium: list queries, multi-step reads, mutation + broadcast paths
//   - Long: operations touching several collections (fan-out notifications)
package timeouts

import (
	"sync"
	"time"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Configure overrides the defaults at startup. Zero values keep the default.
func Configure(pingD, shortD, mediumD, longD time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if pingD > 0 {
		ping = pingD
	}
	if shortD > 0 {
		short = shortD
	}
	if mediumD > 0 {
		medium = mediumD
	}
	if longD > 0 {
		long = longD
	}
}

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for simple single-document operations.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for list queries and mutation paths.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long returns the timeout for multi-collection operations.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

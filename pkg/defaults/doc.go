// Package defaults provides centralized configuration constants for tunedb.
//
// This package defines timeout values, server limits and cache lifetimes
// used across the codebase.
//
// # Timeout Categories
//
//   - Resolution timeouts: For one HTTP resolution request
//   - Server timeouts: For HTTP server configuration
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/kernel-tuning/tunedb/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ResolveTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Resolution: 10s, the search itself is in-memory
//   - Server shutdown: 30s for graceful shutdown
package defaults

// Package api wires the tuning database into the HTTP server.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kernel-tuning/tunedb/pkg/database"
	"github.com/kernel-tuning/tunedb/pkg/logging"
	"github.com/kernel-tuning/tunedb/pkg/server"
)

const (
	name           = "tunedb-api-server"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/kernel-tuning/tunedb/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Routes returns the API handlers served by tunedbd. Resolutions go
// through one shared cache.
func Routes(cacheMaxAge int) map[string]http.HandlerFunc {
	h := database.NewHandler(
		database.NewCachedBuilder(database.NewBuilder()),
		version,
		database.WithCacheMaxAge(cacheMaxAge),
	)

	return map[string]http.HandlerFunc{
		"/v1/parameters": h.HandleParameters,
		"/v1/routine":    h.HandleRoutine,
	}
}

// Serve starts the API server and blocks until shutdown.
// It configures logging, loads the embedded database, sets up routes,
// and handles graceful shutdown.
func Serve() error {
	ctx := context.Background()

	cfg := server.DefaultConfig()
	logging.SetDefaultStructuredLoggerWithLevel(name, version, logging.ParseLevel(cfg.LogLevel))
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	// Fail fast on a broken embedded database rather than on the first request.
	store, err := database.LoadStore(ctx)
	if err != nil {
		slog.Error("failed to load tuning database", "error", err)
		return fmt.Errorf("failed to load tuning database: %w", err)
	}
	slog.Info("tuning database loaded",
		"entries", len(store.Builtin),
		"kernels", len(store.Kernels()),
	)

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithConfig(cfg),
		server.WithHandler(Routes(cfg.CacheMaxAge)),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

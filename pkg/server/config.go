package server

import (
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/kernel-tuning/tunedb/pkg/defaults"
	"github.com/kernel-tuning/tunedb/pkg/logging"
)

// Environment variables read by DefaultConfig.
const (
	EnvPort           = "PORT"
	EnvRateLimit      = "RATE_LIMIT"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"
)

// DefaultConfig returns sensible defaults, overridden by the environment.
func DefaultConfig() *Config {
	cfg := &Config{
		Address:         "",
		Port:            defaults.ServerPort,
		RateLimit:       defaults.RateLimit,
		RateLimitBurst:  defaults.RateLimitBurst,
		CacheMaxAge:     defaults.CacheMaxAge,
		ReadTimeout:     defaults.ServerReadTimeout,
		WriteTimeout:    defaults.ServerWriteTimeout,
		IdleTimeout:     defaults.ServerIdleTimeout,
		ShutdownTimeout: defaults.ServerShutdownTimeout,
		LogLevel:        slog.LevelInfo.String(),
	}

	if v, ok := envInt(EnvPort); ok && v > 0 && v < 65536 {
		cfg.Port = v
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimit = rate.Limit(f)
		} else {
			slog.Warn("ignoring invalid rate limit", "env", EnvRateLimit, "value", v)
		}
	}
	if v, ok := envInt(EnvRateLimitBurst); ok && v > 0 {
		cfg.RateLimitBurst = v
	}
	if v := os.Getenv(logging.EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}

func envInt(key string) (int, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("ignoring invalid integer", "env", key, "value", s)
		return 0, false
	}
	return v, true
}

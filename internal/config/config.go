package config

import (
	"os"
	"strconv"
)

// Defaults for preview ceilings and the shared worker pool. The ceilings
// bound highlighting and render cost; unbounded input must not stall the
// preview pipeline.
const (
	DefaultMaxPreviewBytes = 512 * 1024
	DefaultMaxPreviewLines = 1000
	DefaultWorkers         = 4
)

// Config holds the tunable policy constants.
type Config struct {
	MaxPreviewBytes int64 // bytes read from a file before truncating
	MaxPreviewLines int   // rendered lines kept before truncating
	Workers         int   // size of the shared load/render worker pool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxPreviewBytes: DefaultMaxPreviewBytes,
		MaxPreviewLines: DefaultMaxPreviewLines,
		Workers:         DefaultWorkers,
	}
}

// FromEnv returns the default configuration with any PEEKTREE_* environment
// overrides applied. Invalid or non-positive values are ignored.
func FromEnv() Config {
	cfg := Default()
	if v, ok := envInt("PEEKTREE_MAX_PREVIEW_BYTES"); ok {
		cfg.MaxPreviewBytes = int64(v)
	}
	if v, ok := envInt("PEEKTREE_MAX_PREVIEW_LINES"); ok {
		cfg.MaxPreviewLines = v
	}
	if v, ok := envInt("PEEKTREE_WORKERS"); ok {
		cfg.Workers = v
	}
	return cfg
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

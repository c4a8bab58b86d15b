package config

import (
	"fmt"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REDLINE_"

// Environment variables consulted by Load.
const (
	EnvLogLevel         = EnvPrefix + "LOG_LEVEL"
	EnvLogFormat        = EnvPrefix + "LOG_FORMAT"
	EnvViewportDebounce = EnvPrefix + "VIEWPORT_DEBOUNCE"
	EnvSnapshotDebounce = EnvPrefix + "SNAPSHOT_DEBOUNCE"
	EnvMetricsAddr      = EnvPrefix + "METRICS_ADDR"
)

// applyEnv overrides cfg from the environment.
// Empty values are treated as set, not as unset.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		cfg.Log.Format = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		cfg.Metrics.Addr = v
	}

	durations := []struct {
		env string
		dst *Duration
	}{
		{EnvViewportDebounce, &cfg.Viewport.Debounce},
		{EnvSnapshotDebounce, &cfg.Snapshot.Debounce},
	}
	for _, d := range durations {
		v, ok := lookup(d.env)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.env, err)
		}
		*d.dst = Duration(parsed)
	}
	return nil
}

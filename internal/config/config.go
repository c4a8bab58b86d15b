package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/redline/internal/logging"
)

// Config holds all redline settings.
type Config struct {
	Viewport ViewportConfig `toml:"viewport" yaml:"viewport"`
	Snapshot SnapshotConfig `toml:"snapshot" yaml:"snapshot"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	Render   RenderConfig   `toml:"render" yaml:"render"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
}

// ViewportConfig configures viewport change coalescing.
type ViewportConfig struct {
	// Debounce is the quiet period before a viewport notification.
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// SnapshotConfig configures snapshot file watching.
type SnapshotConfig struct {
	// Debounce is the quiet period after a file event before reloading.
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// RenderConfig holds annotation colors as "#rrggbb" strings.
// An empty color leaves the terminal default.
type RenderConfig struct {
	Insert       string `toml:"insert" yaml:"insert"`
	Delete       string `toml:"delete" yaml:"delete"`
	Comment      string `toml:"comment" yaml:"comment"`
	Callout      string `toml:"callout" yaml:"callout"`
	ShowCallouts bool   `toml:"show_callouts" yaml:"show_callouts"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `toml:"addr" yaml:"addr"`
}

// Duration is a time.Duration read from strings such as "25ms".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the duration formatted by time.Duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Viewport: ViewportConfig{Debounce: Duration(25 * time.Millisecond)},
		Snapshot: SnapshotConfig{Debounce: Duration(50 * time.Millisecond)},
		Log:      LogConfig{Level: "info", Format: "text"},
		Render: RenderConfig{
			Insert:       "#98c379",
			Delete:       "#e06c75",
			Comment:      "#e5c07b",
			Callout:      "#61afef",
			ShowCallouts: true,
		},
	}
}

// Validate checks every setting and returns the first problem found.
func (c Config) Validate() error {
	if c.Viewport.Debounce < 0 {
		return &ValidationError{Key: "viewport.debounce", Value: c.Viewport.Debounce, Message: "must not be negative"}
	}
	if c.Snapshot.Debounce < 0 {
		return &ValidationError{Key: "snapshot.debounce", Value: c.Snapshot.Debounce, Message: "must not be negative"}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Key: "log.level", Value: c.Log.Level, Message: "must be debug, info, warn, or error"}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return &ValidationError{Key: "log.format", Value: c.Log.Format, Message: "must be text or json"}
	}
	colors := []struct {
		key, value string
	}{
		{"render.insert", c.Render.Insert},
		{"render.delete", c.Render.Delete},
		{"render.comment", c.Render.Comment},
		{"render.callout", c.Render.Callout},
	}
	for _, col := range colors {
		if col.value == "" {
			continue
		}
		if !isHexColor(col.value) {
			return &ValidationError{Key: col.key, Value: col.value, Message: "must be #rrggbb"}
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// String summarizes the configuration for debug logging.
func (c Config) String() string {
	return fmt.Sprintf("viewport.debounce=%s snapshot.debounce=%s log=%s/%s metrics.addr=%q",
		c.Viewport.Debounce, c.Snapshot.Debounce, c.Log.Level, c.Log.Format, c.Metrics.Addr)
}

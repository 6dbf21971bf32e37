package config

import "time"

// HistoryConfig controls the undo/redo history.
type HistoryConfig struct {
	// MaxEntries is the maximum number of undo entries kept.
	MaxEntries int `toml:"maxEntries"`
}

// TreeConfig controls which values the tree accepts.
type TreeConfig struct {
	// MinValue is the smallest accepted value (inclusive).
	MinValue int `toml:"minValue"`

	// MaxValue is the largest accepted value (inclusive).
	MaxValue int `toml:"maxValue"`

	// MaxSize is the maximum number of nodes.
	MaxSize int `toml:"maxSize"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	// Level is the logging verbosity level ("debug", "info", "warn", "error").
	Level string `toml:"level"`

	// Prefix is prepended to every log line.
	Prefix string `toml:"prefix"`
}

// ScriptConfig controls Lua script execution.
type ScriptConfig struct {
	// TimeoutMs bounds a single script run; zero disables the limit.
	TimeoutMs int `toml:"timeoutMs"`
}

// Timeout returns TimeoutMs as a duration.
func (s ScriptConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// WatchConfig controls live reload of the configuration file.
type WatchConfig struct {
	// Enabled turns on file watching.
	Enabled bool `toml:"enabled"`

	// DebounceMs coalesces bursts of file events.
	DebounceMs int `toml:"debounceMs"`
}

// Debounce returns DebounceMs as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

package config

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/bstviz/internal/config/loader"
)

// Well-known names.
const (
	// DefaultFileName is the configuration file looked up by the CLI.
	DefaultFileName = "bstviz.toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "BSTVIZ_"

	// MaxIncludeDepth bounds nested @include directives.
	MaxIncludeDepth = 4
)

// Config holds all bstviz settings.
type Config struct {
	History HistoryConfig `toml:"history"`
	Tree    TreeConfig    `toml:"tree"`
	Logging LoggingConfig `toml:"logging"`
	Script  ScriptConfig  `toml:"script"`
	Watch   WatchConfig   `toml:"watch"`

	// Path is the file the configuration was loaded from, if any.
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{MaxEntries: 50},
		Tree: TreeConfig{
			MinValue: -9999,
			MaxValue: 9999,
			MaxSize:  100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Prefix: "bstviz",
		},
		Script: ScriptConfig{TimeoutMs: 5000},
		Watch:  WatchConfig{DebounceMs: 100},
	}
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs        loader.FileSystem
	envPrefix string
	env       bool
}

// WithFS reads the configuration file from fs instead of the OS.
func WithFS(fs loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fs
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv disables environment overrides.
func WithoutEnv() Option {
	return func(o *loadOptions) {
		o.env = false
	}
}

// Load builds the configuration from defaults, the TOML file at path and
// the environment, then validates it. An empty path or a missing file
// skips the file layer. The file may pull in shared settings with
// "@include" = "base.toml"; its own values win over included ones.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: EnvPrefix,
		env:       true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)

	if path != "" {
		fileCfg, err := loader.ReadTOML(o.fs, path, MaxIncludeDepth)
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}

	if o.env {
		env := loader.NewEnvLoader(o.envPrefix)
		env.AddMapping(o.envPrefix+"LOG_LEVEL", "logging.level")
		envCfg, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envCfg)
	}

	cfg, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode applies a merged configuration map on top of the defaults.
// Keys absent from m keep their default values; unknown keys are ignored.
func Decode(m map[string]any) (*Config, error) {
	cfg := Default()
	if len(m) == 0 {
		return cfg, nil
	}

	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg, nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// validLevels are the accepted logging levels.
var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks every setting and returns all failures joined.
// Each failure is a *ValidationError matching ErrValidationFailed.
func (c *Config) Validate() error {
	var errs []error

	if c.History.MaxEntries < 1 {
		errs = append(errs, &ValidationError{
			Path: "history.maxEntries", Message: "must be at least 1",
			Value: c.History.MaxEntries, Code: ErrCodeOutOfRange,
		})
	}
	if c.Tree.MinValue > c.Tree.MaxValue {
		errs = append(errs, &ValidationError{
			Path: "tree.minValue", Message: "must not exceed tree.maxValue",
			Value: c.Tree.MinValue, Code: ErrCodeConflict,
		})
	}
	if c.Tree.MaxSize < 1 {
		errs = append(errs, &ValidationError{
			Path: "tree.maxSize", Message: "must be at least 1",
			Value: c.Tree.MaxSize, Code: ErrCodeOutOfRange,
		})
	}
	if !isValidLevel(c.Logging.Level) {
		errs = append(errs, &ValidationError{
			Path: "logging.level", Message: "must be one of " + strings.Join(validLevels, ", "),
			Value: c.Logging.Level, Code: ErrCodeInvalidEnum,
		})
	}
	if c.Script.TimeoutMs < 0 {
		errs = append(errs, &ValidationError{
			Path: "script.timeoutMs", Message: "must not be negative",
			Value: c.Script.TimeoutMs, Code: ErrCodeOutOfRange,
		})
	}
	if c.Watch.DebounceMs < 0 {
		errs = append(errs, &ValidationError{
			Path: "watch.debounceMs", Message: "must not be negative",
			Value: c.Watch.DebounceMs, Code: ErrCodeOutOfRange,
		})
	}

	return errors.Join(errs...)
}

func isValidLevel(level string) bool {
	return slices.Contains(validLevels, strings.ToLower(level))
}

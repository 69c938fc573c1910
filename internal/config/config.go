package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/vnav/internal/config/loader"
)

// Environment variables read by Load.
const (
	EnvTabWidth = "VNAV_TAB_WIDTH"
	EnvSoftWrap = "VNAV_SOFT_WRAP"
	EnvLogLevel = "VNAV_LOG_LEVEL"
	EnvLogFile  = "VNAV_LOG_FILE"
)

// Tab width bounds accepted by Validate.
const (
	MinTabWidth = 1
	MaxTabWidth = 16
)

// Config is the complete set of settings.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EditorConfig holds the settings that affect layout and navigation.
type EditorConfig struct {
	// TabWidth is the distance between tab stops in cells.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// SoftWrap wraps long lines at the window width.
	SoftWrap bool `toml:"soft_wrap" yaml:"soft_wrap"`

	// AmbiguousWide draws East Asian ambiguous-width characters two cells wide.
	AmbiguousWide bool `toml:"ambiguous_wide" yaml:"ambiguous_wide"`

	// ScrollOff is the number of rows kept visible above and below the cursor.
	ScrollOff int `toml:"scroll_off" yaml:"scroll_off"`
}

// LoggingConfig says where debug output goes.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`

	// File receives log output. Empty discards it, since the terminal
	// belongs to the editor.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:  4,
			ScrollOff: 3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the user configuration file path,
// $XDG_CONFIG_HOME/vnav/config.toml or ~/.config/vnav/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vnav", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vnav", "config.toml")
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate reports every unusable setting, joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if c.Editor.TabWidth < MinTabWidth || c.Editor.TabWidth > MaxTabWidth {
		errs = append(errs, &ValidationError{
			Path:    "editor.tab_width",
			Message: fmt.Sprintf("must be between %d and %d", MinTabWidth, MaxTabWidth),
			Value:   c.Editor.TabWidth,
		})
	}
	if c.Editor.ScrollOff < 0 {
		errs = append(errs, &ValidationError{
			Path:    "editor.scroll_off",
			Message: "must not be negative",
			Value:   c.Editor.ScrollOff,
		})
	}
	if !isLogLevel(c.Logging.Level) {
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: "must be one of " + strings.Join(logLevels, ", "),
			Value:   c.Logging.Level,
		})
	}

	return errors.Join(errs...)
}

func isLogLevel(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range logLevels {
		if s == l {
			return true
		}
	}
	return false
}

// Loader reads a Config from a file and the environment.
type Loader struct {
	fs     loader.FileSystem
	lookup func(string) (string, bool)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS reads configuration files from fsys instead of the OS.
func WithFS(fsys loader.FileSystem) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		if lookup != nil {
			l.lookup = lookup
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:     loader.DefaultFS(),
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load builds a Config from defaults, the file at path and the environment,
// then validates it. An empty path skips the file.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := loader.DecodeFile(l.fs, path, cfg); err != nil {
			return nil, err
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a Config with the default Loader.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

func (l *Loader) applyEnv(cfg *Config) error {
	if v, ok := l.lookup(EnvTabWidth); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &ValidationError{Path: EnvTabWidth, Message: "not an integer", Value: v}
		}
		cfg.Editor.TabWidth = n
	}
	if v, ok := l.lookup(EnvSoftWrap); ok {
		b, err := parseBool(v)
		if err != nil {
			return &ValidationError{Path: EnvSoftWrap, Message: err.Error(), Value: v}
		}
		cfg.Editor.SoftWrap = b
	}
	if v, ok := l.lookup(EnvLogLevel); ok {
		cfg.Logging.Level = v
	}
	if v, ok := l.lookup(EnvLogFile); ok {
		cfg.Logging.File = v
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, errors.New("not a boolean")
	}
}

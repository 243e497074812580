// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     config
// Description: TOML/YAML configuration with defaults and KTHXBYE_*
//              environment overrides
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "KTHXBYE_"

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig     `toml:"general" yaml:"general"`
	Interpreter InterpreterConfig `toml:"interpreter" yaml:"interpreter"`
	History     HistoryConfig     `toml:"history" yaml:"history"`
	Server      ServerConfig      `toml:"server" yaml:"server"`
	REPL        REPLConfig        `toml:"repl" yaml:"repl"`
}

// GeneralConfig holds logging settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// InterpreterConfig holds interpreter settings
type InterpreterConfig struct {
	MaxDepth  int  `toml:"max_depth" yaml:"max_depth"`
	DumpEnv   bool `toml:"dump_env" yaml:"dump_env"`
	EchoInput bool `toml:"echo_input" yaml:"echo_input"`

	// TokenCacheSize bounds the scan cache; 0 disables it
	TokenCacheSize int      `toml:"token_cache_size" yaml:"token_cache_size"`
	TokenCacheTTL  Duration `toml:"token_cache_ttl" yaml:"token_cache_ttl"`
}

// HistoryConfig holds run history settings
type HistoryConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	MaxProgramBytes int64    `toml:"max_program_bytes" yaml:"max_program_bytes"`
}

// REPLConfig holds REPL settings
type REPLConfig struct {
	HistoryFile string `toml:"history_file" yaml:"history_file"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		General: GeneralConfig{
			LogLevel:  "warn",
			LogFormat: "text",
		},
		Interpreter: InterpreterConfig{
			MaxDepth:       64,
			TokenCacheSize: 256,
			TokenCacheTTL:  Duration{10 * time.Minute},
		},
		History: HistoryConfig{
			Enabled:   true,
			Path:      filepath.Join(home, ".local", "share", "kthxbye", "history.db"),
			Retention: Duration{30 * 24 * time.Hour},
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8420,
			ReadTimeout:     Duration{10 * time.Second},
			MaxProgramBytes: 64 * 1024,
		},
		REPL: REPLConfig{
			HistoryFile: filepath.Join(home, ".kthxbye_history"),
		},
	}
}

// Load reads path over the defaults. Files ending in .yaml or .yml are
// parsed as YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeConfigError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return nil, mdwerror.Wrap(err, "config file not readable").
			WithCode(code).
			WithDetail("path", path)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, mdwerror.Wrap(err, "failed to parse config").
				WithCode(mdwerror.CodeConfigError).
				WithDetail("path", path)
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to parse config").
				WithCode(mdwerror.CodeConfigError).
				WithDetail("path", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, mdwerror.Newf("unknown config key %q", undecoded[0].String()).
				WithCode(mdwerror.CodeConfigError).
				WithDetail("path", path)
		}
	}

	cfg.expandPaths()
	return cfg, nil
}

// Discover loads explicit if set, else the first existing default
// location, else the defaults. Environment overrides are applied last.
// The returned path is empty when no file was used.
func Discover(explicit string) (*Config, string, error) {
	var (
		cfg  *Config
		used string
		err  error
	)

	if explicit != "" {
		used = explicit
		cfg, err = Load(explicit)
	} else {
		for _, p := range SearchPaths() {
			if _, statErr := os.Stat(expandPath(p)); statErr == nil {
				used = p
				break
			}
		}
		if used != "" {
			cfg, err = Load(used)
		} else {
			cfg = Default()
		}
	}
	if err != nil {
		return nil, used, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, used, err
	}
	return cfg, used, cfg.Validate()
}

// SearchPaths lists the default config locations in lookup order
func SearchPaths() []string {
	return []string{
		"./kthxbye.toml",
		"./kthxbye.yaml",
		"~/.config/kthxbye/config.toml",
	}
}

// ApplyEnv applies KTHXBYE_* overrides using lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	var firstErr error
	parse := func(key string, apply func(string) error) {
		v, ok := lookup(EnvPrefix + key)
		if !ok || firstErr != nil {
			return
		}
		if err := apply(v); err != nil {
			firstErr = mdwerror.Wrap(err, "invalid environment override").
				WithCode(mdwerror.CodeConfigError).
				WithDetail("variable", EnvPrefix+key)
		}
	}

	str("LOG_LEVEL", &c.General.LogLevel)
	str("LOG_FORMAT", &c.General.LogFormat)
	str("HISTORY_PATH", &c.History.Path)
	str("SERVER_HOST", &c.Server.Host)
	str("REPL_HISTORY_FILE", &c.REPL.HistoryFile)

	parse("MAX_DEPTH", func(v string) (err error) {
		c.Interpreter.MaxDepth, err = strconv.Atoi(v)
		return
	})
	parse("DUMP_ENV", func(v string) (err error) {
		c.Interpreter.DumpEnv, err = strconv.ParseBool(v)
		return
	})
	parse("ECHO_INPUT", func(v string) (err error) {
		c.Interpreter.EchoInput, err = strconv.ParseBool(v)
		return
	})
	parse("TOKEN_CACHE_SIZE", func(v string) (err error) {
		c.Interpreter.TokenCacheSize, err = strconv.Atoi(v)
		return
	})
	parse("HISTORY_ENABLED", func(v string) (err error) {
		c.History.Enabled, err = strconv.ParseBool(v)
		return
	})
	parse("HISTORY_RETENTION", func(v string) error {
		return c.History.Retention.UnmarshalText([]byte(v))
	})
	parse("SERVER_PORT", func(v string) (err error) {
		c.Server.Port, err = strconv.Atoi(v)
		return
	})

	c.expandPaths()
	return firstErr
}

// Validate checks value ranges
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...interface{}) error {
		return mdwerror.Newf(format, args...).
			WithCode(mdwerror.CodeConfigError).
			WithDetail("field", field)
	}

	switch strings.ToLower(c.General.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return invalid("general.log_level", "unknown log level %q", c.General.LogLevel)
	}
	switch strings.ToLower(c.General.LogFormat) {
	case "json", "text", "console", "logfmt":
	default:
		return invalid("general.log_format", "unknown log format %q", c.General.LogFormat)
	}
	if c.Interpreter.MaxDepth < 1 {
		return invalid("interpreter.max_depth", "max_depth must be at least 1, got %d", c.Interpreter.MaxDepth)
	}
	if c.Interpreter.TokenCacheSize < 0 {
		return invalid("interpreter.token_cache_size", "token_cache_size must not be negative")
	}
	if c.History.Enabled && c.History.Path == "" {
		return invalid("history.path", "history is enabled but no path is set")
	}
	if c.History.Retention.Duration < 0 {
		return invalid("history.retention", "retention must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port", "port %d out of range", c.Server.Port)
	}
	if c.Server.MaxProgramBytes <= 0 {
		return invalid("server.max_program_bytes", "max_program_bytes must be positive")
	}
	return nil
}

// ServerAddress returns host:port for the HTTP server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) expandPaths() {
	c.History.Path = expandPath(c.History.Path)
	c.REPL.HistoryFile = expandPath(c.REPL.HistoryFile)
}

func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Package config loads tada settings: built-in defaults, then the TOML
// config file, then TADA_* environment variables. Flags are applied last by
// the CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Storage Storage `toml:"storage"`
	UI      UI      `toml:"ui"`
	Log     Log     `toml:"log"`
}

type Storage struct {
	// Backend is one of json, sqlite or memory.
	Backend string `toml:"backend"`
	// Path of the backing file. Empty means a default file in the working directory.
	Path string `toml:"path"`
}

type UI struct {
	Theme     string `toml:"theme"`
	Title     string `toml:"title"`
	Subtitle  string `toml:"subtitle"`
	AltScreen bool   `toml:"alt-screen"`
}

type Log struct {
	// File receives JSON log lines. Empty disables logging.
	File  string `toml:"file"`
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Storage: Storage{Backend: BackendJSON},
		UI: UI{
			Theme:     "classic",
			Title:     "Todo list",
			Subtitle:  "Organize what you need to do today",
			AltScreen: true,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/tada/config.toml or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, "tada", "config.toml"), nil
}

// Load applies the file at path (if it exists) and the environment on top of
// the defaults. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := mergeFile(&cfg, path); err != nil {
		return cfg, err
	}
	cfg = FromEnv(cfg)
	return cfg, cfg.Validate()
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

// FromEnv overrides base with any TADA_* variables that are set.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnv("TADA_BACKEND"); ok {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnv("TADA_DATA"); ok {
		cfg.Storage.Path = v
	}
	if v, ok := getEnv("TADA_THEME"); ok {
		cfg.UI.Theme = strings.ToLower(v)
	}
	if v, ok := getEnv("TADA_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := getEnv("TADA_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := getEnvBool("TADA_ALT_SCREEN"); ok {
		cfg.UI.AltScreen = v
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	switch c.UI.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("config: unknown theme %q", c.UI.Theme)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func getEnv(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvBool(name string) (bool, bool) {
	raw, ok := getEnv(name)
	if !ok {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

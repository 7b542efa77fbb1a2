package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds shaker's runtime settings.
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	DataDir         string
	LogFile         string
	TranslateURL    string
	TranslateAPIKey string
}

const (
	defaultConfigPath     = "~/.config/shaker/config.toml"
	defaultDataDir        = "~/.local/share/shaker"
	defaultLogFile        = "~/.local/share/shaker/shaker.log"
	defaultAPIBaseURL     = "https://www.thecocktaildb.com/api/json/v1/1/"
	defaultRequestTimeout = 10 * time.Second
	databaseName          = "shaker.db"
)

// Environment variables that override the config file.
const (
	EnvAPIBaseURL      = "SHAKER_API_BASE_URL"
	EnvTranslateURL    = "SHAKER_TRANSLATE_URL"
	EnvTranslateAPIKey = "SHAKER_TRANSLATE_API_KEY"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when missing.
// Environment overrides (optionally from a .env file in the working
// directory) are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBaseURL:     defaultAPIBaseURL,
		RequestTimeout: defaultRequestTimeout,
		DataDir:        mustExpand(defaultDataDir),
		LogFile:        mustExpand(defaultLogFile),
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL      string `toml:"api_base_url"`
		RequestTimeout  int    `toml:"request_timeout_seconds"`
		DataDir         string `toml:"data_dir"`
		LogFile         string `toml:"log_file"`
		TranslateURL    string `toml:"translate_url"`
		TranslateAPIKey string `toml:"translate_api_key"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	cfg.TranslateURL = strings.TrimSpace(raw.TranslateURL)
	cfg.TranslateAPIKey = strings.TrimSpace(raw.TranslateAPIKey)

	applyEnv(&cfg)
	return cfg, nil
}

// LoadDotEnv reads KEY=value pairs from the given files (default ".env")
// into the process environment without overriding variables already set.
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTranslateURL)); v != "" {
		cfg.TranslateURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTranslateAPIKey)); v != "" {
		cfg.TranslateAPIKey = v
	}
}

// DatabasePath returns the SQLite file holding favorites and notes.
func (c Config) DatabasePath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return filepath.Join(mustExpand(defaultDataDir), databaseName)
	}
	return filepath.Join(c.DataDir, databaseName)
}

// LogPath returns the TUI log file path.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return mustExpand(defaultLogFile)
	}
	return c.LogFile
}

// TranslationConfigured reports whether a translation endpoint is set.
func (c Config) TranslationConfigured() bool {
	return strings.TrimSpace(c.TranslateURL) != ""
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// NumericPolicy controls how the edit form's year and pages text is turned
// into integers when a book is saved.
type NumericPolicy string

const (
	// NumericReject refuses to save unless both fields are whole numbers.
	NumericReject NumericPolicy = "reject"
	// NumericPassthrough parses leniently and sends null for unparseable text.
	NumericPassthrough NumericPolicy = "passthrough"
)

// Config captures everything shelf reads from config.toml.
type Config struct {
	APIURL            string
	TokenPath         string
	LogFile           string
	LogLevel          string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	NumericFields     NumericPolicy
	NotifyFor         time.Duration
}

const (
	defaultConfigPath     = "~/.config/shelf/config.toml"
	defaultAPIURL         = "http://localhost:3000/api"
	defaultTokenPath      = "~/.config/shelf/token"
	defaultLogFile        = "~/.local/state/shelf/shelf.log"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 5 * time.Second
	defaultNotifyFor      = 3 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		TokenPath:      mustExpand(defaultTokenPath),
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		RequestTimeout: defaultRequestTimeout,
		NumericFields:  NumericReject,
		NotifyFor:      defaultNotifyFor,
	}
}

// Load locates and parses the shelf config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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
		APIURL            string  `toml:"api_url"`
		TokenPath         string  `toml:"token_path"`
		LogFile           string  `toml:"log_file"`
		LogLevel          string  `toml:"log_level"`
		RequestTimeout    int     `toml:"request_timeout_seconds"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		NumericFields     string  `toml:"numeric_fields"`
		NotifySeconds     int     `toml:"notify_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.TokenPath); v != "" {
		cfg.TokenPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		switch v {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = v
		default:
			return Config{}, fmt.Errorf("parse config: unknown log_level %q", raw.LogLevel)
		}
	}
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	if raw.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = raw.RequestsPerSecond
	}
	if v := strings.ToLower(strings.TrimSpace(raw.NumericFields)); v != "" {
		switch NumericPolicy(v) {
		case NumericReject, NumericPassthrough:
			cfg.NumericFields = NumericPolicy(v)
		default:
			return Config{}, fmt.Errorf("parse config: unknown numeric_fields %q", raw.NumericFields)
		}
	}
	if raw.NotifySeconds > 0 {
		cfg.NotifyFor = time.Duration(raw.NotifySeconds) * time.Second
	}

	return cfg, nil
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Dir(mustExpand(defaultLogFile))
	}
	return filepath.Dir(c.LogFile)
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

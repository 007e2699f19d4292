package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int           `json:"port"`
	DBPath          string        `json:"db_path"`
	Environment     string        `json:"environment"`
	LogLevel        string        `json:"log_level"`
	LogFormat       string        `json:"log_format"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

func Default() Config {
	return Config{
		Port:            3000,
		DBPath:          filepath.Join("data", "tasks.db"),
		Environment:     "development",
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: 10 * time.Second,
	}
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the JSON config at path on top of the defaults. A missing file
// is not an error. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// LoadDotEnv loads the given .env files into the process environment.
// Variables already set are left alone, and missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides cfg with PORT, DB_PATH, APP_ENV, LOG_LEVEL, LOG_FORMAT
// and SHUTDOWN_TIMEOUT when they are set.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if value, ok := lookupTrimmed(lookup, "PORT"); ok {
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", value)
		}
		cfg.Port = port
	}
	if value, ok := lookupTrimmed(lookup, "DB_PATH"); ok {
		cfg.DBPath = value
	}
	if value, ok := lookupTrimmed(lookup, "APP_ENV"); ok {
		cfg.Environment = value
	}
	if value, ok := lookupTrimmed(lookup, "LOG_LEVEL"); ok {
		cfg.LogLevel = value
	}
	if value, ok := lookupTrimmed(lookup, "LOG_FORMAT"); ok {
		cfg.LogFormat = value
	}
	if value, ok := lookupTrimmed(lookup, "SHUTDOWN_TIMEOUT"); ok {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", value, err)
		}
		cfg.ShutdownTimeout = timeout
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger described by the config.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	var handler slog.Handler
	if strings.EqualFold(c.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("env", c.Environment)
}

func lookupTrimmed(lookup func(string) (string, bool), key string) (string, bool) {
	value, ok := lookup(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

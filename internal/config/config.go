package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"recipebook/internal/recipe"
)

// ErrUnknownDriver is returned when database_driver names no supported driver.
var ErrUnknownDriver = errors.New("unknown database driver")

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "config.json"

// Config represents the application configuration.
type Config struct {
	DatabaseDriver string   `json:"database_driver"`
	DatabaseURL    string   `json:"DATABASE_URL"`
	ListenAddr     string   `json:"listen_addr"`
	AllowOrigins   []string `json:"allow_origins"`
	DebounceMS     int      `json:"debounce_ms"`
	ThumbnailDir   string   `json:"thumbnail_dir"`
	ThumbnailWidth uint     `json:"thumbnail_width"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		DatabaseDriver: "postgres",
		ListenAddr:     ":8080",
		AllowOrigins:   []string{"http://localhost:8081"},
		DebounceMS:     300,
		ThumbnailDir:   "images/thumbs",
		ThumbnailWidth: 400,
	}
}

// Load reads the JSON configuration at path over the defaults and then
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	configData, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(configData, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults and environment only
	default:
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RECIPEBOOK_DB_DRIVER"); v != "" {
		cfg.DatabaseDriver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("RECIPEBOOK_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("RECIPEBOOK_DEBOUNCE_MS"); v != "" {
		// ignore unparsable values, keep the file/default setting
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.DebounceMS = ms
		}
	}
	if v := os.Getenv("RECIPEBOOK_THUMB_DIR"); v != "" {
		cfg.ThumbnailDir = v
	}
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	if !recipe.IsSupportedDriver(c.DatabaseDriver) {
		return fmt.Errorf("%w: %q (supported: %v)", ErrUnknownDriver, c.DatabaseDriver, recipe.SupportedDrivers())
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.DebounceMS <= 0 {
		return fmt.Errorf("debounce_ms must be positive, got %d", c.DebounceMS)
	}
	if c.ThumbnailWidth == 0 {
		return errors.New("thumbnail_width must be positive")
	}
	return nil
}

// Debounce returns the live-search debounce window.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

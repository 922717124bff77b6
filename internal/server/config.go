package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"Hearthlight/internal/logging"
)

// LogConfig mirrors logging.Config with file and environment bindings.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"FORMAT" env-default:"json"`
}

// AppConfig holds everything StartApp needs.
type AppConfig struct {
	Addr           string        `yaml:"addr" env:"HEARTHLIGHT_ADDR" env-default:":8080"`
	ContentDir     string        `yaml:"content_dir" env:"HEARTHLIGHT_CONTENT_DIR"` // empty = built-in seed content
	WatchContent   bool          `yaml:"watch_content" env:"HEARTHLIGHT_WATCH_CONTENT"`
	ReloadDebounce time.Duration `yaml:"reload_debounce" env:"HEARTHLIGHT_RELOAD_DEBOUNCE" env-default:"250ms"`
	Log            LogConfig     `yaml:"log" env-prefix:"HEARTHLIGHT_LOG_"`
}

// DefaultAppConfig returns the configuration used when neither a config file
// nor environment variables are present.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Addr:           ":8080",
		ReloadDebounce: 250 * time.Millisecond,
		Log:            LogConfig{Level: "info", Format: "json"},
	}
}

// Logging converts the log section into a logging.Config.
func (c AppConfig) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// LoadAppConfig reads the YAML file at path, then applies HEARTHLIGHT_*
// environment variables. A missing file is not an error; only the
// environment and defaults apply then.
func LoadAppConfig(path string) (AppConfig, error) {
	var cfg AppConfig

	if path != "" {
		cleanPath := filepath.Clean(path)
		_, err := os.Stat(cleanPath)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(cleanPath, &cfg); err != nil {
				return DefaultAppConfig(), fmt.Errorf("read config %q: %w", cleanPath, err)
			}
			return cfg, nil
		case !errors.Is(err, os.ErrNotExist):
			return DefaultAppConfig(), fmt.Errorf("stat config %q: %w", cleanPath, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return DefaultAppConfig(), fmt.Errorf("read config from env: %w", err)
	}
	return cfg, nil
}

// ConfigOverrides represents optional command-line overrides. Nil fields
// leave the loaded value in place.
type ConfigOverrides struct {
	Addr           *string
	ContentDir     *string
	WatchContent   *bool
	ReloadDebounce *time.Duration
	LogLevel       *string
	LogFormat      *string
}

// Apply returns base with every set override applied.
func (o ConfigOverrides) Apply(base AppConfig) AppConfig {
	if o.Addr != nil {
		base.Addr = *o.Addr
	}
	if o.ContentDir != nil {
		base.ContentDir = *o.ContentDir
	}
	if o.WatchContent != nil {
		base.WatchContent = *o.WatchContent
	}
	if o.ReloadDebounce != nil {
		base.ReloadDebounce = *o.ReloadDebounce
	}
	if o.LogLevel != nil {
		base.Log.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		base.Log.Format = *o.LogFormat
	}
	if base.ReloadDebounce <= 0 {
		base.ReloadDebounce = DefaultAppConfig().ReloadDebounce
	}
	return base
}

// Package config loads client settings from defaults, an optional TOML file
// and UITAM_* environment variables, in that order.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Config holds everything the CLI needs to build a session and a client.
type Config struct {
	APIURL        string   `toml:"api_url"        env:"UITAM_API_URL, overwrite"        validate:"required,url"`
	WebURL        string   `toml:"web_url"        env:"UITAM_WEB_URL, overwrite"        validate:"omitempty,url"`
	Timeout       Duration `toml:"timeout"        env:"UITAM_TIMEOUT, overwrite"        validate:"required"`
	ProfileDir    string   `toml:"profile_dir"    env:"UITAM_PROFILE_DIR, overwrite"    validate:"required"`
	StorageDriver string   `toml:"storage_driver" env:"UITAM_STORAGE_DRIVER, overwrite" validate:"oneof=file sqlite memory"`
	StorageKey    string   `toml:"storage_key"    env:"UITAM_STORAGE_KEY, overwrite"    validate:"required"`
	LogLevel      string   `toml:"log_level"      env:"UITAM_LOG_LEVEL, overwrite"      validate:"oneof=trace debug info warn error"`
	LogPretty     bool     `toml:"log_pretty"     env:"UITAM_LOG_PRETTY, overwrite"`
}

// Duration is a time.Duration that decodes from strings like "30s" in both
// TOML and environment variables.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings. ProfileDir is ~/.uitam when the home
// directory is known.
func Default() Config {
	profile := ".uitam"
	if home, err := os.UserHomeDir(); err == nil {
		profile = filepath.Join(home, ".uitam")
	}
	return Config{
		APIURL:        "http://localhost:8000/api/v1",
		WebURL:        "http://localhost:3000",
		Timeout:       Duration{30 * time.Second},
		ProfileDir:    profile,
		StorageDriver: "file",
		StorageKey:    "auth-storage",
		LogLevel:      "info",
	}
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(Default().ProfileDir, "config.toml")
}

// Load builds the configuration. A missing file at path is not an error;
// an empty path means DefaultPath.
func Load(ctx context.Context, path string) (*Config, error) {
	return load(ctx, path, envconfig.OsLookuper())
}

func load(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration after flags have been applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	if c.Timeout.Duration <= 0 {
		return errors.New("config: invalid: timeout must be positive")
	}
	return nil
}

// LogFile is where the TUI writes logs while it owns the terminal.
func (c *Config) LogFile() string {
	return filepath.Join(c.ProfileDir, "uitam.log")
}

// Package config loads pitstop settings from .pitstop.yaml, PITSTOP_*
// environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"tableflip.dev/pitstop/pkg/compose"
)

const (
	KeyBaseURL   = "api.base_url"
	KeyTimeout   = "api.timeout"
	KeyRate      = "api.rate_per_second"
	KeyPoll      = "poll.interval"
	KeyJournal   = "journal.path"
	KeySignature = "shop.signature"
	KeyOptOut    = "shop.opt_out"
	KeyTimezone  = "shop.timezone"
	KeyLogLevel  = "log.level"
)

// Config is the resolved configuration.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	PollInterval  time.Duration
	JournalPath   string
	Signature     compose.Signature
	Location      *time.Location
	LogLevel      slog.Level
	// File is the config file that was read, if any.
	File string
}

// BasePath satisfies store.Config.
func (c *Config) BasePath() string {
	return c.JournalPath
}

// Load reads .env (when present), then .pitstop.yaml from PITSTOP_CONFIG_PATH
// or the working directory, then PITSTOP_* overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault(KeyBaseURL, "http://localhost:8000")
	v.SetDefault(KeyTimeout, "15s")
	v.SetDefault(KeyRate, 0)
	v.SetDefault(KeyPoll, "20s")
	v.SetDefault(KeyJournal, "~/.pitstop/journal")
	v.SetDefault(KeySignature, compose.DefaultShopBlock)
	v.SetDefault(KeyOptOut, compose.DefaultOptOut)
	v.SetDefault(KeyTimezone, "")
	v.SetDefault(KeyLogLevel, "warn")

	v.SetConfigName(".pitstop") // .yaml is implicit
	v.SetEnvPrefix("PITSTOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("PITSTOP_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return resolve(v)
}

func resolve(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		BaseURL:       strings.TrimRight(strings.TrimSpace(v.GetString(KeyBaseURL)), "/"),
		Timeout:       v.GetDuration(KeyTimeout),
		RatePerSecond: v.GetFloat64(KeyRate),
		PollInterval:  v.GetDuration(KeyPoll),
		JournalPath:   v.GetString(KeyJournal),
		Signature: compose.Signature{
			Block:  v.GetString(KeySignature),
			OptOut: v.GetString(KeyOptOut),
		},
		File: v.ConfigFileUsed(),
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("config: api.base_url is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("config: poll.interval must be > 0, got %s", v.GetString(KeyPoll))
	}
	if cfg.RatePerSecond < 0 {
		return nil, fmt.Errorf("config: api.rate_per_second must be >= 0")
	}

	cfg.Location = time.Local
	if tz := strings.TrimSpace(v.GetString(KeyTimezone)); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("config: shop.timezone: %w", err)
		}
		cfg.Location = loc
	}

	level, err := ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level
	return cfg, nil
}

// ParseLevel maps debug|info|warn|error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// NewLogger returns a text logger at the configured level and installs it as
// the slog default.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
	slog.SetDefault(logger)
	return logger
}

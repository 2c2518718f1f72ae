// Package config provides configuration management for the journal
// application. Every engine tunable (display timezone, tier tables,
// tax threshold, Sharpe annualization, tilt detection) is an explicit
// config value with a product default, never a hidden constant.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/journal"
)

// Config holds all application configuration.
type Config struct {
	Display DisplayConfig `mapstructure:"display"`
	Stats   StatsConfig   `mapstructure:"stats"`
	Tax     TaxConfig     `mapstructure:"tax"`
	Exits   ExitsConfig   `mapstructure:"exits"`
	Tilt    TiltConfig    `mapstructure:"tilt"`
	Store   StoreConfig   `mapstructure:"store"`
}

// DisplayConfig holds presentation-related configuration.
type DisplayConfig struct {
	// Timezone is the trader's display timezone (IANA name) used for
	// hour/day bucketing. It is configured, never inferred.
	Timezone     string `mapstructure:"timezone"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
}

// StatsConfig holds aggregator configuration.
type StatsConfig struct {
	TradingPeriodsPerYear float64 `mapstructure:"trading_periods_per_year"`
}

// TaxConfig holds tax-lot configuration.
type TaxConfig struct {
	LongTermHoldingDays int `mapstructure:"long_term_holding_days"`
}

// ExitsConfig holds exit-quality configuration: the minimum-hold epoch
// and the two tier boundary tables.
type ExitsConfig struct {
	MinHoldMinutes  float64          `mapstructure:"min_hold_minutes"`
	EfficiencyTiers []EfficiencyTier `mapstructure:"efficiency_tiers"`
	HoldTierHours   []HoldTier       `mapstructure:"hold_tiers"`
}

// EfficiencyTier is one configurable P&L-per-hour boundary row.
type EfficiencyTier struct {
	Name          string  `mapstructure:"name"`
	MinPnlPerHour float64 `mapstructure:"min_pnl_per_hour"`
}

// HoldTier is one configurable holding-duration boundary row. MaxHours 0
// marks the open-ended final tier.
type HoldTier struct {
	Name     string  `mapstructure:"name"`
	MaxHours float64 `mapstructure:"max_hours"`
}

// TiltConfig holds behavioral-signal detection configuration.
type TiltConfig struct {
	ReentryWindowMinutes int     `mapstructure:"reentry_window_minutes"`
	ReentryCount         int     `mapstructure:"reentry_count"`
	OversizeMultiple     float64 `mapstructure:"oversize_multiple"`
	TrailingWindow       int     `mapstructure:"trailing_window"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-journal"
	}
	return filepath.Join(home, ".config", "trade-journal")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used; a missing config file is
// replaced with a commented template and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := writeTemplate(configDir); err != nil {
			return nil, fmt.Errorf("writing config template: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("display.timezone", "UTC")
	v.SetDefault("display.color_enabled", true)
	v.SetDefault("stats.trading_periods_per_year", 252.0)
	v.SetDefault("tax.long_term_holding_days", 365)
	v.SetDefault("exits.min_hold_minutes", 1.0)
	v.SetDefault("tilt.reentry_window_minutes", 60)
	v.SetDefault("tilt.reentry_count", 3)
	v.SetDefault("tilt.oversize_multiple", 2.0)
	v.SetDefault("tilt.trailing_window", 5)
	v.SetDefault("store.path", filepath.Join(configDir, "journal.db"))
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADE_JOURNAL_TZ"); v != "" {
		cfg.Display.Timezone = v
	}
	if v := os.Getenv("TRADE_JOURNAL_DB"); v != "" {
		cfg.Store.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "unknown display timezone %q", c.Display.Timezone)
	}
	if c.Stats.TradingPeriodsPerYear <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "trading_periods_per_year must be positive")
	}
	if c.Tax.LongTermHoldingDays <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "long_term_holding_days must be positive")
	}
	if c.Exits.MinHoldMinutes <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "min_hold_minutes must be positive")
	}
	if c.Tilt.ReentryCount <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "tilt reentry_count must be positive")
	}
	if c.Tilt.OversizeMultiple <= 1 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "tilt oversize_multiple must be greater than 1")
	}
	return nil
}

// EngineConfig resolves the loaded configuration into the explicit
// parameter struct the analytics engine takes.
func (c *Config) EngineConfig() (journal.Config, error) {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return journal.Config{}, fmt.Errorf("loading timezone: %w", err)
	}

	cfg := journal.DefaultConfig()
	cfg.Timezone = loc
	cfg.TradingPeriodsPerYear = c.Stats.TradingPeriodsPerYear
	cfg.LongTermHoldingDays = c.Tax.LongTermHoldingDays
	cfg.MinHoldHours = c.Exits.MinHoldMinutes / 60
	cfg.Tilt = journal.TiltConfig{
		ReentryWindow:    time.Duration(c.Tilt.ReentryWindowMinutes) * time.Minute,
		ReentryCount:     c.Tilt.ReentryCount,
		OversizeMultiple: c.Tilt.OversizeMultiple,
		TrailingWindow:   c.Tilt.TrailingWindow,
	}

	if len(c.Exits.EfficiencyTiers) > 0 {
		tiers := make([]journal.EfficiencyTier, len(c.Exits.EfficiencyTiers))
		for i, t := range c.Exits.EfficiencyTiers {
			tiers[i] = journal.EfficiencyTier{Name: t.Name, Min: t.MinPnlPerHour}
		}
		// The last row is the catch-all regardless of its configured floor.
		tiers[len(tiers)-1].Min = math.Inf(-1)
		cfg.EfficiencyTiers = tiers
	}

	if len(c.Exits.HoldTierHours) > 0 {
		tiers := make([]journal.HoldTier, len(c.Exits.HoldTierHours))
		for i, t := range c.Exits.HoldTierHours {
			tiers[i] = journal.HoldTier{Name: t.Name, Max: time.Duration(t.MaxHours * float64(time.Hour))}
		}
		cfg.HoldTiers = tiers
	}

	return cfg, nil
}

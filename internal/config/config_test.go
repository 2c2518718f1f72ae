package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "trade-journal/internal/errors"
)

func TestLoadWritesTemplateAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("first run should write a config template: %v", err)
	}
	if cfg.Display.Timezone != "UTC" {
		t.Errorf("timezone default = %s", cfg.Display.Timezone)
	}
	if cfg.Stats.TradingPeriodsPerYear != 252 {
		t.Errorf("trading periods default = %v", cfg.Stats.TradingPeriodsPerYear)
	}
	if cfg.Tax.LongTermHoldingDays != 365 {
		t.Errorf("long-term days default = %d", cfg.Tax.LongTermHoldingDays)
	}
	if cfg.Tilt.ReentryCount != 3 || cfg.Tilt.OversizeMultiple != 2 {
		t.Errorf("tilt defaults = %+v", cfg.Tilt)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[display]
timezone = "America/New_York"

[tax]
long_term_holding_days = 100

[exits]
min_hold_minutes = 5.0

[[exits.efficiency_tiers]]
name = "great"
min_pnl_per_hour = 200.0

[[exits.efficiency_tiers]]
name = "rest"
min_pnl_per_hour = 0.0
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if cfg.Display.Timezone != "America/New_York" {
		t.Errorf("timezone = %s", cfg.Display.Timezone)
	}
	if cfg.Tax.LongTermHoldingDays != 100 {
		t.Errorf("long-term days = %d", cfg.Tax.LongTermHoldingDays)
	}

	engine, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	if engine.Timezone.String() != "America/New_York" {
		t.Errorf("engine timezone = %v", engine.Timezone)
	}
	if engine.LongTermHoldingDays != 100 {
		t.Errorf("engine long-term days = %d", engine.LongTermHoldingDays)
	}
	if engine.MinHoldHours != 5.0/60 {
		t.Errorf("engine min hold = %v", engine.MinHoldHours)
	}
	if len(engine.EfficiencyTiers) != 2 {
		t.Fatalf("efficiency tiers = %+v", engine.EfficiencyTiers)
	}
	// The last configured tier becomes the catch-all regardless of floor.
	if !math.IsInf(engine.EfficiencyTiers[1].Min, -1) {
		t.Errorf("catch-all tier min = %v, want -Inf", engine.EfficiencyTiers[1].Min)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
[display]
timezone = "Mars/Olympus_Mons"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected an error for an unknown timezone")
	}
	if !errors.Is(err, apperrors.ErrConfigInvalid) {
		t.Errorf("error %v does not wrap ErrConfigInvalid", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADE_JOURNAL_TZ", "Europe/Berlin")
	t.Setenv("TRADE_JOURNAL_DB", "/tmp/override.db")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if cfg.Display.Timezone != "Europe/Berlin" {
		t.Errorf("timezone = %s, want env override", cfg.Display.Timezone)
	}
	if cfg.Store.Path != "/tmp/override.db" {
		t.Errorf("store path = %s, want env override", cfg.Store.Path)
	}
}

func TestEngineConfigHoldTiers(t *testing.T) {
	dir := t.TempDir()
	content := `
[[exits.hold_tiers]]
name = "quick"
max_hours = 2.0

[[exits.hold_tiers]]
name = "long"
max_hours = 0.0
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	engine, err := cfg.EngineConfig()
	if err != nil {
		t.Fatal(err)
	}
	if len(engine.HoldTiers) != 2 {
		t.Fatalf("hold tiers = %+v", engine.HoldTiers)
	}
	if engine.HoldTiers[0].Max != 2*time.Hour || engine.HoldTiers[1].Max != 0 {
		t.Errorf("tier bounds = %v/%v", engine.HoldTiers[0].Max, engine.HoldTiers[1].Max)
	}
}

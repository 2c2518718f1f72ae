package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# trade-journal configuration

[display]
# IANA timezone used for hour-of-day and day-of-week bucketing.
timezone = "UTC"
color_enabled = true

[stats]
# Annualization factor for the Sharpe ratio (252 trading days).
trading_periods_per_year = 252.0

[tax]
# Holding period (days) beyond which a realized gain is long-term.
long_term_holding_days = 365

[exits]
# Floor (minutes) for the pnl-per-hour divisor on very short trades.
min_hold_minutes = 1.0

# Efficiency tiers, evaluated top-down by pnl-per-hour floor.
# The last row is the catch-all.
# [[exits.efficiency_tiers]]
# name = "high"
# min_pnl_per_hour = 50.0

# Holding-duration tiers, ascending; max_hours = 0 is open-ended.
# [[exits.hold_tiers]]
# name = "<1h"
# max_hours = 1.0

[tilt]
reentry_window_minutes = 60
reentry_count = 3
oversize_multiple = 2.0
trailing_window = 5

[store]
# path = "/path/to/journal.db"
`

// writeTemplate creates a commented config template so a first run
// leaves the user something to edit.
func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}

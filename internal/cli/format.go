package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"trade-journal/internal/models"
)

// FormatCurrency formats an amount with thousands grouping, e.g. 1,234.56.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	str := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			grouped.WriteRune(',')
		}
		grouped.WriteRune(digit)
	}

	result := fmt.Sprintf("%s.%02d", grouped.String(), frac)
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent formats a percentage value.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatRatio formats a plain ratio value.
func FormatRatio(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatProfitFactor renders the profit factor, mapping the all-wins
// sentinel to the infinity symbol.
func FormatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", pf)
}

// FormatKelly renders the full-Kelly fraction, or "N/A" when the inputs
// are degenerate.
func FormatKelly(k models.KellyInputs) string {
	if !k.Defined {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", k.FullKelly*100)
}

// FormatDate formats a date for display.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatTime formats a timestamp for display.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// FormatHours renders a holding duration given in hours, switching to
// minutes below one hour and days above 48 hours.
func FormatHours(hours float64) string {
	switch {
	case hours < 0:
		return fmt.Sprintf("%.1fh", hours)
	case hours < 1:
		return fmt.Sprintf("%.0fm", hours*60)
	case hours >= 48:
		return fmt.Sprintf("%.1fd", hours/24)
	default:
		return fmt.Sprintf("%.1fh", hours)
	}
}

// FormatStreak renders a streak run for display.
func FormatStreak(s models.Streak) string {
	switch s.Type {
	case models.StreakWin:
		return fmt.Sprintf("%d wins", s.Count)
	case models.StreakLoss:
		return fmt.Sprintf("%d losses", s.Count)
	default:
		return "none"
	}
}

// TruncateString truncates a string to maxLen characters with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

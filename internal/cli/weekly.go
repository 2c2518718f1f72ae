package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/errors"
	"trade-journal/internal/journal"
	"trade-journal/internal/models"
)

// weeklyPayload is the JSON shape of the weekly command.
type weeklyPayload struct {
	Report   models.WeeklyReport `json:"report"`
	Tilt     []models.TiltSignal `json:"tilt_signals"`
	Rejected int                 `json:"rejected_records"`
}

func newWeeklyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Show the weekly review",
		Long: `Weekly review for one ISO week: performance stats, best and worst
trades by P&L and by process score, emotion breakdown, rule compliance
and a coaching suggestion. Tilt warnings are computed over the full
history and shown alongside.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeekly(app, cmd)
		},
	}
	cmd.Flags().String("week", "", "ISO week, e.g. 2026-W35 (default: current week)")
	return cmd
}

// parseWeek parses a YYYY-Www week key.
func parseWeek(s string) (int, int, error) {
	parts := strings.SplitN(s, "-W", 2)
	if len(parts) != 2 {
		return 0, 0, errors.Wrapf(errors.ErrUnknownWeek, "expected YYYY-Www, got %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.Wrapf(errors.ErrUnknownWeek, "bad year in %q", s)
	}
	week, err := strconv.Atoi(parts[1])
	if err != nil || week < 1 || week > 53 {
		return 0, 0, errors.Wrapf(errors.ErrUnknownWeek, "bad week number in %q", s)
	}
	return year, week, nil
}

func runWeekly(app *App, cmd *cobra.Command) error {
	started := time.Now()
	output := NewOutput(cmd)

	cfg, err := app.engineConfig()
	if err != nil {
		return err
	}

	weekFlag, _ := cmd.Flags().GetString("week")
	var year, week int
	if weekFlag == "" {
		year, week = time.Now().In(cfg.Timezone).ISOWeek()
	} else {
		year, week, err = parseWeek(weekFlag)
		if err != nil {
			return err
		}
	}

	trades, rejected, err := app.loadTrades(cmd.Context(), cmd, output)
	if err != nil {
		return err
	}

	payload := weeklyPayload{
		Report:   journal.BuildWeeklyReport(trades, year, week, cfg),
		Tilt:     journal.DetectTiltSignals(trades, cfg),
		Rejected: len(rejected),
	}

	app.logReport("weekly", payload.Report.TradeCount, len(rejected), started)

	if output.IsJSON() {
		return output.JSON(payload)
	}

	renderWeekly(output, payload.Report)
	renderTilt(output, payload.Tilt, payload.Report.Start, payload.Report.End)
	return nil
}

func renderWeekly(output *Output, r models.WeeklyReport) {
	output.Bold("Week %d-W%02d  (%s – %s)", r.Year, r.Week,
		FormatDate(r.Start), FormatDate(r.End.AddDate(0, 0, -1)))
	output.Println()

	if r.TradeCount == 0 {
		output.Dim("  no closed trades this week")
	} else {
		table := NewTable(output, "Metric", "Value")
		table.AddRow("Closed trades", fmt.Sprintf("%d", r.TradeCount))
		table.AddRow("Total P&L", output.FormatPnL(r.TotalPnL))
		table.AddRow("Win rate", FormatPercent(r.Stats.WinRate))
		table.AddRow("Profit factor", FormatProfitFactor(r.Stats.ProfitFactor))
		table.AddRow("Max drawdown", output.Red(FormatCurrency(r.Drawdown.MaxDrawdown)))
		table.AddRow("Best win streak", fmt.Sprintf("%d", r.Streaks.BestWinStreak))
		table.AddRow("Current streak", FormatStreak(r.Streaks.Current))
		if r.RuleCompliance != nil {
			table.AddRow("Rule compliance", FormatPercent(*r.RuleCompliance))
		}
		if r.AvgProcessScore != nil {
			table.AddRow("Avg process score", fmt.Sprintf("%.1f/10", *r.AvgProcessScore))
		}
		table.Render()
		output.Println()

		renderPickedTrades(output, r)
		renderTimeBuckets(output, r.TimeBuckets)
		output.Println()
		renderEmotions(output, r.EmotionBreakdown)
	}

	output.Println()
	output.Info("Suggestion: %s", r.Suggestion.Message)
}

func renderPickedTrades(output *Output, r models.WeeklyReport) {
	table := NewTable(output, "", "Trade", "Symbol", "P&L")
	addPick := func(label string, t *models.Trade) {
		if t == nil {
			return
		}
		table.AddRow(label, t.ID, t.Symbol, output.FormatPnL(t.RealizedPnL()))
	}
	addPick("Best trade", r.BestTrade)
	addPick("Worst trade", r.WorstTrade)
	addPick("Best process", r.BestProcessTrade)
	addPick("Worst process", r.WorstProcessTrade)
	table.Render()
	output.Println()
}

func renderEmotions(output *Output, groups []models.EmotionGroup) {
	if len(groups) == 0 {
		return
	}
	output.Bold("By emotion")
	table := NewTable(output, "Emotion", "Trades", "P&L")
	for _, g := range groups {
		table.AddRow(g.Emotion, fmt.Sprintf("%d", g.Count), output.FormatPnL(g.PnL))
	}
	table.Render()
}

// renderTilt shows only the signals that fall inside the rendered week;
// the JSON payload carries the full set.
func renderTilt(output *Output, signals []models.TiltSignal, start, end time.Time) {
	var shown []models.TiltSignal
	for _, s := range signals {
		if !s.At.Before(start) && s.At.Before(end) {
			shown = append(shown, s)
		}
	}
	if len(shown) == 0 {
		return
	}

	output.Println()
	output.Bold("Tilt warnings")
	for _, s := range shown {
		output.Warning("  [%s] %s: %s", FormatTime(s.At), s.Type, s.Detail)
	}
}

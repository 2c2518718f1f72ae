package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/journal"
	"trade-journal/internal/models"
)

// reportPayload is the JSON shape of the report command.
type reportPayload struct {
	Stats       models.AdvancedStats `json:"stats"`
	Drawdown    models.DrawdownStats `json:"drawdown"`
	Streaks     models.StreakStats   `json:"streaks"`
	TimeBuckets models.TimeBuckets   `json:"time_buckets"`
	DailyPnL    []models.DailyPnl    `json:"daily_pnl"`
	Rejected    int                  `json:"rejected_records"`
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the overall performance report",
		Long: `Aggregate statistics over all closed trades: win rate, profit factor,
expectancy, Sharpe ratio, Kelly sizing inputs, drawdown, streaks and the
hour-of-day / day-of-week distributions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(app, cmd)
		},
	}
	cmd.Flags().String("from", "", "First open date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Last open date to include (YYYY-MM-DD)")
	return cmd
}

func runReport(app *App, cmd *cobra.Command) error {
	started := time.Now()
	output := NewOutput(cmd)

	cfg, err := app.engineConfig()
	if err != nil {
		return err
	}

	trades, rejected, err := app.loadTrades(cmd.Context(), cmd, output)
	if err != nil {
		return err
	}

	daily := journal.BuildDailyPnL(trades, cfg.Timezone)
	payload := reportPayload{
		Stats:       journal.ComputeStats(trades, cfg),
		Drawdown:    journal.ComputeDrawdown(daily),
		Streaks:     journal.ComputeStreaks(trades),
		TimeBuckets: journal.ComputeTimeBuckets(trades, cfg),
		DailyPnL:    daily,
		Rejected:    len(rejected),
	}

	app.logReport("report", payload.Stats.TotalClosed, len(rejected), started)

	if output.IsJSON() {
		return output.JSON(payload)
	}

	renderStats(output, payload.Stats)
	renderDrawdown(output, payload.Drawdown, payload.Streaks)
	renderTimeBuckets(output, payload.TimeBuckets)
	return nil
}

func renderStats(output *Output, s models.AdvancedStats) {
	output.Bold("Performance")
	if s.TotalClosed == 0 {
		output.Dim("  no closed trades")
		output.Println()
		return
	}

	table := NewTable(output, "Metric", "Value")
	table.AddRow("Closed trades", fmt.Sprintf("%d", s.TotalClosed))
	table.AddRow("Win rate", FormatPercent(s.WinRate))
	table.AddRow("Avg win", output.FormatPnL(s.AvgWin))
	table.AddRow("Avg loss", output.FormatPnL(s.AvgLoss))
	table.AddRow("Largest win", output.FormatPnL(s.LargestWin))
	table.AddRow("Largest loss", output.FormatPnL(s.LargestLoss))
	table.AddRow("Profit factor", FormatProfitFactor(s.ProfitFactor))
	table.AddRow("Expectancy (R)", FormatRatio(s.Expectancy))
	table.AddRow("Sharpe ratio", FormatRatio(s.SharpeRatio))
	table.AddRow("Full Kelly", FormatKelly(s.Kelly))
	table.Render()
	output.Println()
}

func renderDrawdown(output *Output, d models.DrawdownStats, s models.StreakStats) {
	output.Bold("Drawdown & Streaks")
	table := NewTable(output, "Metric", "Value")
	table.AddRow("Max drawdown", output.Red(FormatCurrency(d.MaxDrawdown)))
	table.AddRow("Max drawdown duration", fmt.Sprintf("%d days", d.MaxDrawdownDuration))
	table.AddRow("Current drawdown", FormatCurrency(d.CurrentDrawdown))
	table.AddRow("Best win streak", fmt.Sprintf("%d", s.BestWinStreak))
	table.AddRow("Worst losing streak", fmt.Sprintf("%d", s.WorstLoseStreak))
	table.AddRow("Current streak", FormatStreak(s.Current))
	table.Render()
	output.Println()
}

func renderTimeBuckets(output *Output, tb models.TimeBuckets) {
	output.Bold("P&L by hour of close")
	hourTable := NewTable(output, "Hour", "Trades", "P&L", "Win rate")
	for _, h := range tb.ByHour {
		if h.Count == 0 {
			continue
		}
		hourTable.AddRow(
			fmt.Sprintf("%02d:00", h.Hour),
			fmt.Sprintf("%d", h.Count),
			output.FormatPnL(h.PnL),
			FormatPercent(h.WinRate),
		)
	}
	hourTable.Render()
	output.Println()

	output.Bold("P&L by weekday of open")
	dayTable := NewTable(output, "Day", "Trades", "P&L", "Win rate")
	for _, d := range tb.ByWeekday {
		if d.Count == 0 {
			dayTable.AddRow(d.Weekday.String(), "-", output.ColoredString(ColorDim, "no data"), "-")
			continue
		}
		dayTable.AddRow(
			d.Weekday.String(),
			fmt.Sprintf("%d", d.Count),
			output.FormatPnL(d.PnL),
			FormatPercent(d.WinRate),
		)
	}
	dayTable.Render()
}

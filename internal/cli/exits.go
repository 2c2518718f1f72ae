package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/journal"
	"trade-journal/internal/models"
)

// exitsPayload is the JSON shape of the exits command.
type exitsPayload struct {
	Exits    []models.TradeExitAnalysis   `json:"exits"`
	Tiers    []models.EfficiencyTierStats `json:"efficiency_tiers"`
	Buckets  models.ExitBuckets           `json:"exit_buckets"`
	Rejected int                          `json:"rejected_records"`
}

func newExitsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exits",
		Short: "Show exit-quality analysis",
		Long: `Per-trade exit quality (holding time and P&L per hour), the
efficiency tier distribution, same-day versus overnight splits and the
holding-duration tiers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExits(app, cmd)
		},
	}
	cmd.Flags().Int("limit", 20, "Number of per-trade rows to show (0 for all)")
	return cmd
}

func runExits(app *App, cmd *cobra.Command) error {
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

	exits := journal.AnalyzeExits(trades, cfg)
	payload := exitsPayload{
		Exits:    exits,
		Tiers:    journal.ComputeEfficiencyTiers(exits, cfg),
		Buckets:  journal.ComputeExitBuckets(trades, cfg),
		Rejected: len(rejected),
	}

	app.logReport("exits", len(exits), len(rejected), started)

	if output.IsJSON() {
		return output.JSON(payload)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	renderExits(output, payload, limit)
	return nil
}

func renderExits(output *Output, p exitsPayload, limit int) {
	output.Bold("Exit quality")
	if len(p.Exits) == 0 {
		output.Dim("  no closed trades")
		return
	}

	rows := p.Exits
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	table := NewTable(output, "Trade", "Symbol", "Held", "P&L", "P&L/h")
	for _, e := range rows {
		held := FormatHours(e.HoldHours)
		for _, f := range e.Flags {
			if f.Code == models.FlagNegativeDuration {
				held = output.Yellow(held + " !")
			}
		}
		table.AddRow(
			e.TradeID,
			e.Symbol,
			held,
			output.FormatPnL(e.PnL),
			output.FormatPnL(e.PnLPerHour),
		)
	}
	table.Render()
	output.Println()

	output.Bold("Efficiency tiers")
	tierTable := NewTable(output, "Tier", "Trades", "Avg held", "Avg P&L", "Avg P&L/h")
	for _, t := range p.Tiers {
		if t.Count == 0 {
			tierTable.AddRow(t.Tier, "-", "-", output.ColoredString(ColorDim, "no data"), "-")
			continue
		}
		tierTable.AddRow(
			t.Tier,
			fmt.Sprintf("%d", t.Count),
			FormatHours(t.AvgHoldHours),
			output.FormatPnL(t.AvgPnL),
			output.FormatPnL(t.AvgPnLPerHour),
		)
	}
	tierTable.Render()
	output.Println()

	output.Bold("Session splits")
	splitTable := NewTable(output, "Split", "Trades", "P&L", "Win rate")
	addBucket := func(name string, b models.Bucket) {
		if b.Count == 0 {
			splitTable.AddRow(name, "-", output.ColoredString(ColorDim, "no data"), "-")
			return
		}
		splitTable.AddRow(name, fmt.Sprintf("%d", b.Count), output.FormatPnL(b.PnL), FormatPercent(b.WinRate))
	}
	addBucket("Same day", p.Buckets.SameDay)
	addBucket("Overnight", p.Buckets.Overnight)
	for _, tier := range p.Buckets.ByHoldTier {
		addBucket(tier.Tier, tier.Bucket)
	}
	splitTable.Render()

	var flagged int
	for _, e := range p.Exits {
		flagged += len(e.Flags)
	}
	if flagged > 0 {
		output.Println()
		output.Warning("%d data-quality flag(s); rows marked with ! have a close before their open", flagged)
	}
}

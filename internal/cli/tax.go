package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/journal"
	"trade-journal/internal/models"
)

func newTaxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Show the FIFO tax lot report for a year",
		Long: `Matches closing trades against opening lots per symbol in FIFO order
and sums realized gains for one calendar year, split into short-term
and long-term by holding period. Fees are realized at close and
prorated across matched slices.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTax(app, cmd)
		},
	}
	cmd.Flags().Int("year", 0, "Calendar year (default: current year)")
	return cmd
}

func runTax(app *App, cmd *cobra.Command) error {
	started := time.Now()
	output := NewOutput(cmd)

	cfg, err := app.engineConfig()
	if err != nil {
		return err
	}

	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = time.Now().In(cfg.Timezone).Year()
	}

	trades, rejected, err := app.loadTrades(cmd.Context(), cmd, output)
	if err != nil {
		return err
	}

	report := journal.BuildTaxReport(trades, year, cfg)
	app.logReport("tax", len(report.Lots), len(rejected), started)

	if output.IsJSON() {
		return output.JSON(report)
	}

	renderTaxReport(output, report)
	return nil
}

func renderTaxReport(output *Output, r models.TaxReport) {
	output.Bold("Tax report %d", r.Year)
	output.Println()

	if len(r.Lots) == 0 {
		output.Dim("  no realized lots in %d", r.Year)
	} else {
		table := NewTable(output, "Symbol", "Qty", "Opened", "Closed", "Basis", "Proceeds", "Gain", "Term")
		for _, lot := range r.Lots {
			term := "short"
			if lot.IsLongTerm {
				term = "long"
			}
			table.AddRow(
				lot.Symbol,
				fmt.Sprintf("%g", lot.Quantity),
				FormatDate(lot.OpenDate),
				FormatDate(lot.CloseDate),
				FormatCurrency(lot.CostBasis),
				FormatCurrency(lot.Proceeds),
				output.FormatPnL(lot.RealizedGain),
				term,
			)
		}
		table.Render()
		output.Println()

		summary := NewTable(output, "Metric", "Value")
		summary.AddRow("Short-term gain", output.FormatPnL(r.ShortTermGain))
		summary.AddRow("Long-term gain", output.FormatPnL(r.LongTermGain))
		summary.AddRow("Net gain/loss", output.FormatPnL(r.NetGainLoss))
		summary.Render()
	}

	for _, f := range r.Flags {
		output.Println()
		output.Warning("  [%s] %s %s: %s", f.Code, f.Symbol, f.TradeID, f.Detail)
	}
}

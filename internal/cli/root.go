package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-journal/internal/config"
	"trade-journal/internal/journal"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

// App holds the application dependencies shared by all commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.TradeStore
}

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Trading journal analytics",
		Long: `Trading journal analytics over your recorded trades: performance
statistics, drawdown and streak analysis, time-of-day and exit-quality
distributions, FIFO tax lots, and weekly behavioral reviews.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("symbol", "", "Restrict to a single symbol")

	rootCmd.AddCommand(
		newReportCmd(app),
		newWeeklyCmd(app),
		newTaxCmd(app),
		newExitsCmd(app),
	)

	return rootCmd
}

// loadTrades fetches raw records from the store, normalizes them and warns
// about rejected rows. Rejections never abort the report.
func (app *App) loadTrades(ctx context.Context, cmd *cobra.Command, output *Output) ([]models.Trade, []journal.RejectedRecord, error) {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return nil, nil, err
	}

	raw, err := app.Store.GetTrades(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	trades, rejected := journal.Normalize(raw)
	for _, r := range rejected {
		app.Logger.Warn().
			Int("index", r.Index).
			Str("id", r.ID).
			Str("reason", r.Reason).
			Msg("Rejected trade record")
		if !output.IsJSON() {
			output.Warning("skipping record %s: %s", r.ID, r.Reason)
		}
	}
	return trades, rejected, nil
}

// filterFromFlags builds the store filter from the persistent --symbol
// flag plus the per-command --from/--to date flags where defined.
func filterFromFlags(cmd *cobra.Command) (store.TradeFilter, error) {
	var filter store.TradeFilter
	filter.Symbol, _ = cmd.Flags().GetString("symbol")

	parseDate := func(name string) (time.Time, error) {
		if cmd.Flags().Lookup(name) == nil {
			return time.Time{}, nil
		}
		value, _ := cmd.Flags().GetString(name)
		if value == "" {
			return time.Time{}, nil
		}
		d, err := time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", name, value)
		}
		return d, nil
	}

	var err error
	if filter.StartDate, err = parseDate("from"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseDate("to"); err != nil {
		return filter, err
	}
	// --to names the last included day; the store bound is exclusive.
	if !filter.EndDate.IsZero() {
		filter.EndDate = filter.EndDate.AddDate(0, 0, 1)
	}
	return filter, nil
}

// engineConfig resolves the analytics parameters once per command run.
func (app *App) engineConfig() (journal.Config, error) {
	return app.Config.EngineConfig()
}

// logReport records a completed render in the structured log.
func (app *App) logReport(reportType string, tradeCount, rejected int, started time.Time) {
	logging.LogReport(app.Logger, reportType, tradeCount, rejected, time.Since(started))
}

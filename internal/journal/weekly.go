package journal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"trade-journal/internal/models"
)

// highProcessScore is the 0-10 process-score level the coaching rules
// treat as disciplined execution.
const highProcessScore = 7.0

// negativeEmotions are the self-reported states the coaching rules react
// to when the week's P&L is net negative.
var negativeEmotions = map[string]bool{
	"fomo":    true,
	"revenge": true,
	"fear":    true,
	"greed":   true,
	"anger":   true,
	"anxious": true,
}

// WeekBounds returns [start, end) of the given ISO week: Monday 00:00 in
// loc through the following Monday.
func WeekBounds(year, week int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	// January 4th is always inside ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	start := monday.AddDate(0, 0, (week-1)*7)
	return start, start.AddDate(0, 0, 7)
}

// BuildWeeklyReport composes the aggregator, drawdown/streak, time
// bucket, exit-quality and selection layers over the closed trades
// whose close timestamp falls inside the given ISO week. A week with zero trades yields a complete report with
// the review-your-plan suggestion, never an error.
func BuildWeeklyReport(trades []models.Trade, year, week int, cfg Config) models.WeeklyReport {
	start, end := WeekBounds(year, week, cfg.location())

	var weekTrades []models.Trade
	for i := range trades {
		t := &trades[i]
		if !t.Closed() {
			continue
		}
		if t.ClosedAt.Before(start) || !t.ClosedAt.Before(end) {
			continue
		}
		weekTrades = append(weekTrades, *t)
	}

	report := models.WeeklyReport{
		Year:       year,
		Week:       week,
		Start:      start,
		End:        end,
		TradeCount: len(weekTrades),
	}

	report.Stats = ComputeStats(weekTrades, cfg)
	report.Drawdown = ComputeDrawdown(BuildDailyPnL(weekTrades, cfg.location()))
	report.Streaks = ComputeStreaks(weekTrades)
	report.TimeBuckets = ComputeTimeBuckets(weekTrades, cfg)
	report.Exits = AnalyzeExits(weekTrades, cfg)
	report.EfficiencyTiers = ComputeEfficiencyTiers(report.Exits, cfg)

	for i := range weekTrades {
		report.TotalPnL += weekTrades[i].RealizedPnL()
	}

	report.BestTrade = pickTrade(weekTrades, func(a, b *models.Trade) bool {
		return a.RealizedPnL() > b.RealizedPnL()
	})
	report.WorstTrade = pickTrade(weekTrades, func(a, b *models.Trade) bool {
		return a.RealizedPnL() < b.RealizedPnL()
	})
	report.BestProcessTrade = pickScoredTrade(weekTrades, func(a, b *models.Trade) bool {
		return *a.ProcessScore > *b.ProcessScore
	})
	report.WorstProcessTrade = pickScoredTrade(weekTrades, func(a, b *models.Trade) bool {
		return *a.ProcessScore < *b.ProcessScore
	})

	report.EmotionBreakdown = emotionBreakdown(weekTrades)
	report.RuleCompliance = ruleCompliance(weekTrades)
	report.AvgProcessScore = avgProcessScore(weekTrades)
	report.Suggestion = selectSuggestion(&report)

	return report
}

// pickTrade returns the trade winning under better; ties go to the most
// recently closed trade.
func pickTrade(trades []models.Trade, better func(a, b *models.Trade) bool) *models.Trade {
	var pick *models.Trade
	for i := range trades {
		t := &trades[i]
		switch {
		case pick == nil, better(t, pick):
			pick = t
		case !better(pick, t) && t.ClosedAt.After(*pick.ClosedAt):
			pick = t
		}
	}
	return pick
}

// pickScoredTrade is pickTrade restricted to trades carrying a process
// score.
func pickScoredTrade(trades []models.Trade, better func(a, b *models.Trade) bool) *models.Trade {
	var scored []models.Trade
	for i := range trades {
		if trades[i].ProcessScore != nil {
			scored = append(scored, trades[i])
		}
	}
	return pickTrade(scored, better)
}

// emotionBreakdown groups trades by self-reported emotion; trades with
// no emotion recorded are excluded rather than bucketed as unknown.
func emotionBreakdown(trades []models.Trade) []models.EmotionGroup {
	byEmotion := make(map[string]*models.EmotionGroup)
	for i := range trades {
		t := &trades[i]
		if t.Emotion == "" {
			continue
		}
		g, ok := byEmotion[t.Emotion]
		if !ok {
			g = &models.EmotionGroup{Emotion: t.Emotion}
			byEmotion[t.Emotion] = g
		}
		g.Count++
		g.PnL += t.RealizedPnL()
	}

	groups := make([]models.EmotionGroup, 0, len(byEmotion))
	for _, g := range byEmotion {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Emotion < groups[j].Emotion })
	return groups
}

// ruleCompliance is the share of trades whose recorded checklist passes.
// It is nil when no trade in the week records a checklist at all.
func ruleCompliance(trades []models.Trade) *float64 {
	var recorded, passed int
	for i := range trades {
		if trades[i].Checklist == nil {
			continue
		}
		recorded++
		if trades[i].Checklist.Passed() {
			passed++
		}
	}
	if recorded == 0 {
		return nil
	}
	pct := float64(passed) / float64(recorded) * 100
	return &pct
}

func avgProcessScore(trades []models.Trade) *float64 {
	var sum float64
	var n int
	for i := range trades {
		if trades[i].ProcessScore != nil {
			sum += float64(*trades[i].ProcessScore)
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// suggestionRule is one row of the coaching table: a predicate and the
// message it produces. The table is evaluated top-down and the first
// matching rule wins.
type suggestionRule struct {
	code    string
	applies func(r *models.WeeklyReport) bool
	message func(r *models.WeeklyReport) string
}

var suggestionRules = []suggestionRule{
	{
		code:    "review_plan",
		applies: func(r *models.WeeklyReport) bool { return r.TradeCount == 0 },
		message: func(r *models.WeeklyReport) string {
			return "No trades this week. Review your plan and the setups you are waiting for."
		},
	},
	{
		code:    "discipline",
		applies: func(r *models.WeeklyReport) bool { return r.RuleCompliance != nil && *r.RuleCompliance < 50 },
		message: func(r *models.WeeklyReport) string {
			return fmt.Sprintf("Rule compliance was %.0f%% this week. Recommit to your checklist before sizing up.", *r.RuleCompliance)
		},
	},
	{
		code:    "process_review",
		applies: func(r *models.WeeklyReport) bool { return r.AvgProcessScore != nil && *r.AvgProcessScore < 5 },
		message: func(r *models.WeeklyReport) string {
			return fmt.Sprintf("Average process score was %.1f/10. Review your entries against your playbook.", *r.AvgProcessScore)
		},
	},
	{
		code:    "emotion",
		applies: func(r *models.WeeklyReport) bool { return dominantNegativeEmotion(r) != "" },
		message: func(r *models.WeeklyReport) string {
			return fmt.Sprintf("%s trades cost you money this week. Step away after a loss before taking the next entry.",
				dominantNegativeEmotion(r))
		},
	},
	{
		code: "reinforce",
		applies: func(r *models.WeeklyReport) bool {
			return r.AvgProcessScore != nil && *r.AvgProcessScore >= highProcessScore && r.Stats.WinRate > 0
		},
		message: func(r *models.WeeklyReport) string {
			return "Strong process and results are lining up. Keep doing exactly this."
		},
	},
	{
		code: "variance",
		applies: func(r *models.WeeklyReport) bool {
			return r.AvgProcessScore != nil && *r.AvgProcessScore >= highProcessScore && r.TotalPnL < 0
		},
		message: func(r *models.WeeklyReport) string {
			return "Process was solid but the week finished red. That is variance, not a broken system; do not change the plan."
		},
	},
	{
		code:    "reflect",
		applies: func(r *models.WeeklyReport) bool { return true },
		message: func(r *models.WeeklyReport) string {
			return "Look back over this week's trades and write down one thing to repeat and one to avoid."
		},
	},
}

func selectSuggestion(r *models.WeeklyReport) models.Suggestion {
	for _, rule := range suggestionRules {
		if rule.applies(r) {
			return models.Suggestion{Code: rule.code, Message: rule.message(r)}
		}
	}
	// The table ends with a catch-all, so this is unreachable.
	return models.Suggestion{}
}

// dominantNegativeEmotion returns the named negative emotion with a
// net-negative P&L, picking the costliest when several qualify.
func dominantNegativeEmotion(r *models.WeeklyReport) string {
	var worst string
	var worstPnL float64
	for _, g := range r.EmotionBreakdown {
		if !negativeEmotions[strings.ToLower(g.Emotion)] || g.PnL >= 0 {
			continue
		}
		if worst == "" || g.PnL < worstPnL {
			worst = g.Emotion
			worstPnL = g.PnL
		}
	}
	return worst
}

// DetectTiltSignals scans the full trade history for emotionally-driven
// patterns: a burst of re-entries shortly after a losing close, and an
// entry sized far above the trailing average right after a loss. Signals
// are exposed separately from the weekly report.
func DetectTiltSignals(trades []models.Trade, cfg Config) []models.TiltSignal {
	tilt := cfg.Tilt
	if tilt.ReentryCount <= 0 {
		tilt = DefaultConfig().Tilt
	}

	byOpen := make([]models.Trade, len(trades))
	copy(byOpen, trades)
	sort.Slice(byOpen, func(i, j int) bool { return byOpen[i].OpenedAt.Before(byOpen[j].OpenedAt) })

	closes := closeOutcomes(trades)

	var signals []models.TiltSignal
	signals = append(signals, revengeSignals(byOpen, closes, tilt)...)
	signals = append(signals, oversizeSignals(byOpen, closes, tilt)...)

	sort.SliceStable(signals, func(i, j int) bool { return signals[i].At.Before(signals[j].At) })
	return signals
}

type closeOutcome struct {
	at   time.Time
	loss bool
}

// closeOutcomes returns every close with its win/loss outcome, ascending
// by close time.
func closeOutcomes(trades []models.Trade) []closeOutcome {
	var closes []closeOutcome
	for i := range trades {
		t := &trades[i]
		if t.Closed() {
			closes = append(closes, closeOutcome{at: *t.ClosedAt, loss: t.RealizedPnL() <= 0})
		}
	}
	sort.Slice(closes, func(i, j int) bool { return closes[i].at.Before(closes[j].at) })
	return closes
}

func revengeSignals(byOpen []models.Trade, closes []closeOutcome, tilt TiltConfig) []models.TiltSignal {
	var signals []models.TiltSignal
	for _, c := range closes {
		if !c.loss {
			continue
		}
		lossAt := c.at
		deadline := lossAt.Add(tilt.ReentryWindow)

		var ids []string
		for i := range byOpen {
			t := &byOpen[i]
			if t.OpenedAt.After(lossAt) && !t.OpenedAt.After(deadline) {
				ids = append(ids, t.ID)
			}
		}
		if len(ids) >= tilt.ReentryCount {
			signals = append(signals, models.TiltSignal{
				Type:     models.TiltRevengeEntries,
				At:       lossAt,
				TradeIDs: ids,
				Detail: fmt.Sprintf("%d entries within %s of a losing close",
					len(ids), tilt.ReentryWindow),
			})
		}
	}
	return signals
}

func oversizeSignals(byOpen []models.Trade, closes []closeOutcome, tilt TiltConfig) []models.TiltSignal {
	var signals []models.TiltSignal
	var notionals []float64

	for i := range byOpen {
		t := &byOpen[i]

		if len(notionals) >= tilt.TrailingWindow && lossBefore(closes, t.OpenedAt) {
			window := notionals[len(notionals)-tilt.TrailingWindow:]
			var avg float64
			for _, n := range window {
				avg += n
			}
			avg /= float64(len(window))

			if avg > 0 && t.Notional() > avg*tilt.OversizeMultiple {
				signals = append(signals, models.TiltSignal{
					Type:     models.TiltOversizedEntry,
					At:       t.OpenedAt,
					TradeIDs: []string{t.ID},
					Detail: fmt.Sprintf("entry notional %.2f is %.1fx the trailing average %.2f after a loss",
						t.Notional(), t.Notional()/avg, avg),
				})
			}
		}

		notionals = append(notionals, t.Notional())
	}
	return signals
}

// lossBefore reports whether the most recent close preceding t was a
// loss. No close before t means the detector stays disarmed.
func lossBefore(closes []closeOutcome, t time.Time) bool {
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i].at.Before(t) {
			return closes[i].loss
		}
	}
	return false
}

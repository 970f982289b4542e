// Package stats derives summary metrics from a trade list.
//
// Every division that can see an empty denominator returns 0 instead,
// except the profit factor, which reports infinity.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxjournal/journal"
)

// Summary bundles every metric for one trade list.
type Summary struct {
	Total        int            `json:"total"`
	Wins         int            `json:"wins"`
	Losses       int            `json:"losses"`
	BreakEven    int            `json:"break_even"`
	NetProfit    float64        `json:"net_profit"`
	WinRate      float64        `json:"win_rate"`
	AvgWin       float64        `json:"avg_win"`
	AvgLoss      float64        `json:"avg_loss"`
	ProfitFactor ProfitFactor   `json:"profit_factor"`
	News         NewsBreakdown  `json:"news"`
	Emotions     []EmotionCount `json:"emotions"`
	Outcomes     []OutcomeCount `json:"outcomes"`
	Monthly      []MonthStat    `json:"monthly"`
}

func Compute(trades []journal.Trade) Summary {
	return Summary{
		Total:        len(trades),
		Wins:         countOutcome(trades, journal.OutcomeWin),
		Losses:       countOutcome(trades, journal.OutcomeLoss),
		BreakEven:    countOutcome(trades, journal.OutcomeBreakEven),
		NetProfit:    sumProfit(trades, func(journal.Trade) bool { return true }),
		WinRate:      WinRate(trades),
		AvgWin:       AvgWin(trades),
		AvgLoss:      AvgLoss(trades),
		ProfitFactor: ComputeProfitFactor(trades),
		News:         News(trades),
		Emotions:     Emotions(trades),
		Outcomes:     Outcomes(trades),
		Monthly:      Monthly(trades),
	}
}

// WinRate is the percentage of trades marked win, 0 for no trades.
func WinRate(trades []journal.Trade) float64 {
	return ratio(float64(countOutcome(trades, journal.OutcomeWin)), float64(len(trades))) * 100
}

// AvgWin is the mean profit of trades marked win, 0 when there are none.
func AvgWin(trades []journal.Trade) float64 {
	return meanProfit(trades, isOutcome(journal.OutcomeWin))
}

// AvgLoss is the mean profit of trades marked loss, 0 when there are none.
// It is normally negative.
func AvgLoss(trades []journal.Trade) float64 {
	return meanProfit(trades, isOutcome(journal.OutcomeLoss))
}

// ProfitFactor is gross profit over gross loss. Infinite is set when the
// gross loss is zero, whatever the gross profit.
type ProfitFactor struct {
	Value    float64
	Infinite bool
}

const infinitySymbol = "∞"

func (p ProfitFactor) String() string {
	if p.Infinite {
		return infinitySymbol
	}
	return fmt.Sprintf("%.2f", p.Value)
}

// Float returns +Inf for the infinite sentinel.
func (p ProfitFactor) Float() float64 {
	if p.Infinite {
		return math.Inf(1)
	}
	return p.Value
}

func (p ProfitFactor) MarshalJSON() ([]byte, error) {
	if p.Infinite {
		return json.Marshal(infinitySymbol)
	}
	return json.Marshal(p.Value)
}

func (p *ProfitFactor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != infinitySymbol {
			return fmt.Errorf("unknown profit factor %q", s)
		}
		*p = ProfitFactor{Infinite: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = ProfitFactor{Value: v}
	return nil
}

// ComputeProfitFactor sums positive and negative profits by sign, not by
// the outcome label.
func ComputeProfitFactor(trades []journal.Trade) ProfitFactor {
	gross := sumProfitDec(trades, func(t journal.Trade) bool { return t.Profit > 0 })
	loss := sumProfitDec(trades, func(t journal.Trade) bool { return t.Profit < 0 }).Abs()
	if loss.IsZero() {
		return ProfitFactor{Infinite: true}
	}
	v, _ := gross.Div(loss).Float64()
	return ProfitFactor{Value: v}
}

// NewsLevelStat is one row of the news impact table.
type NewsLevelStat struct {
	Level     journal.NewsImpact `json:"level"`
	Count     int                `json:"count"`
	WinRate   float64            `json:"win_rate"`
	AvgProfit float64            `json:"avg_profit"`
}

type NewsBreakdown struct {
	Levels        []NewsLevelStat `json:"levels"`
	WithNews      int             `json:"with_news"`
	WinRateNews   float64         `json:"win_rate_news"`
	WinRateNoNews float64         `json:"win_rate_no_news"`
}

// Level returns the row for level; the zero row if level is unknown.
func (n NewsBreakdown) Level(level journal.NewsImpact) NewsLevelStat {
	for _, l := range n.Levels {
		if l.Level == level {
			return l
		}
	}
	return NewsLevelStat{Level: level}
}

func News(trades []journal.Trade) NewsBreakdown {
	var nb NewsBreakdown
	for _, level := range journal.NewsLevels {
		group := filter(trades, func(t journal.Trade) bool { return t.News == level })
		nb.Levels = append(nb.Levels, NewsLevelStat{
			Level:     level,
			Count:     len(group),
			WinRate:   WinRate(group),
			AvgProfit: meanProfit(group, func(journal.Trade) bool { return true }),
		})
	}

	withNews := filter(trades, func(t journal.Trade) bool { return t.News != journal.NewsNone })
	noNews := filter(trades, func(t journal.Trade) bool { return t.News == journal.NewsNone })
	nb.WithNews = len(withNews)
	nb.WinRateNews = WinRate(withNews)
	nb.WinRateNoNews = WinRate(noNews)
	return nb
}

type EmotionCount struct {
	Emotion journal.Emotion `json:"emotion"`
	Count   int             `json:"count"`
}

// Emotions counts trades per emotion in enum order. Trades with no
// emotion recorded are left out.
func Emotions(trades []journal.Trade) []EmotionCount {
	out := make([]EmotionCount, 0, len(journal.Emotions))
	for _, e := range journal.Emotions {
		n := len(filter(trades, func(t journal.Trade) bool { return t.Emotion == e }))
		out = append(out, EmotionCount{Emotion: e, Count: n})
	}
	return out
}

type OutcomeCount struct {
	Outcome journal.Outcome `json:"outcome"`
	Count   int             `json:"count"`
}

func Outcomes(trades []journal.Trade) []OutcomeCount {
	out := make([]OutcomeCount, 0, len(journal.Outcomes))
	for _, o := range journal.Outcomes {
		out = append(out, OutcomeCount{Outcome: o, Count: countOutcome(trades, o)})
	}
	return out
}

// MonthStat aggregates one calendar month.
type MonthStat struct {
	Month   string  `json:"month"` // YYYY-MM
	Profit  float64 `json:"profit"`
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

// Monthly groups trades by month of their date, oldest month first.
func Monthly(trades []journal.Trade) []MonthStat {
	groups := make(map[string][]journal.Trade)
	for _, t := range trades {
		k := t.Date.MonthKey()
		groups[k] = append(groups[k], t)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthStat, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		wins := countOutcome(g, journal.OutcomeWin)
		out = append(out, MonthStat{
			Month:   k,
			Profit:  sumProfit(g, func(journal.Trade) bool { return true }),
			Trades:  len(g),
			Wins:    wins,
			Losses:  countOutcome(g, journal.OutcomeLoss),
			WinRate: ratio(float64(wins), float64(len(g))) * 100,
		})
	}
	return out
}

// ratio is num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func isOutcome(o journal.Outcome) func(journal.Trade) bool {
	return func(t journal.Trade) bool { return t.Outcome == o }
}

func countOutcome(trades []journal.Trade, o journal.Outcome) int {
	return len(filter(trades, isOutcome(o)))
}

func filter(trades []journal.Trade, keep func(journal.Trade) bool) []journal.Trade {
	var out []journal.Trade
	for _, t := range trades {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func sumProfitDec(trades []journal.Trade, keep func(journal.Trade) bool) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range trades {
		if keep(t) {
			sum = sum.Add(t.ProfitDecimal())
		}
	}
	return sum
}

func sumProfit(trades []journal.Trade, keep func(journal.Trade) bool) float64 {
	f, _ := sumProfitDec(trades, keep).Float64()
	return f
}

func meanProfit(trades []journal.Trade, keep func(journal.Trade) bool) float64 {
	group := filter(trades, keep)
	return ratio(sumProfit(group, func(journal.Trade) bool { return true }), float64(len(group)))
}

// Package calendar projects trades onto the days of one month.
package calendar

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxjournal/journal"
)

// Month identifies a calendar month. Month values outside 1..12 are
// normalized by the constructors, never stored.
type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

func MonthOf(d journal.Date) Month {
	return NewMonth(d.Year, d.Month)
}

// ParseMonth accepts "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return NewMonth(t.Year(), t.Month()), nil
}

// Add moves n months forward (or back for negative n), rolling the year.
func (m Month) Add(n int) Month {
	return NewMonth(m.Year, m.Month+time.Month(n))
}

func (m Month) Next() Month { return m.Add(1) }
func (m Month) Prev() Month { return m.Add(-1) }

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday is the weekday of the 1st, for laying out a grid.
func (m Month) FirstWeekday() time.Weekday {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// String returns "January 2024".
func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Key returns "YYYY-MM".
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Class buckets a day's net P/L by strict sign.
type Class string

const (
	ClassProfit  Class = "profit"
	ClassLoss    Class = "loss"
	ClassNeutral Class = "neutral"
)

// Summary describes a day that has at least one trade.
type Summary struct {
	Count    int             `json:"count"`
	NetPL    float64         `json:"net_pl"`
	Class    Class           `json:"class"`
	Dominant journal.Emotion `json:"dominant_emotion,omitempty"`
}

type Day struct {
	Date    journal.Date    `json:"date"`
	Trades  []journal.Trade `json:"trades,omitempty"`
	Summary *Summary        `json:"summary,omitempty"`
}

type Calendar struct {
	Month Month `json:"-"`
	Days  []Day `json:"days"`
}

// Build returns one Day per day of m holding the trades dated that day, in
// input order. Days without trades have a nil Summary.
func Build(trades []journal.Trade, m Month) Calendar {
	byDay := make(map[int][]journal.Trade)
	for _, t := range trades {
		if t.Date.Year == m.Year && t.Date.Month == m.Month {
			byDay[t.Date.Day] = append(byDay[t.Date.Day], t)
		}
	}

	cal := Calendar{Month: m, Days: make([]Day, m.Days())}
	for i := range cal.Days {
		day := i + 1
		d := Day{
			Date:   journal.NewDate(m.Year, m.Month, day),
			Trades: byDay[day],
		}
		if len(d.Trades) > 0 {
			s := Summarize(d.Trades)
			d.Summary = &s
		}
		cal.Days[i] = d
	}
	return cal
}

// Lookup returns the summary for a day of the month. ok is false for a day
// with no trades or out of range.
func (c Calendar) Lookup(day int) (Summary, bool) {
	if day < 1 || day > len(c.Days) || c.Days[day-1].Summary == nil {
		return Summary{}, false
	}
	return *c.Days[day-1].Summary, true
}

// NetPL is the month's total across all days.
func (c Calendar) NetPL() float64 {
	sum := decimal.Zero
	for _, d := range c.Days {
		for _, t := range d.Trades {
			sum = sum.Add(t.ProfitDecimal())
		}
	}
	f, _ := sum.Float64()
	return f
}

// Summarize computes the summary of one day's trades.
func Summarize(trades []journal.Trade) Summary {
	sum := decimal.Zero
	for _, t := range trades {
		sum = sum.Add(t.ProfitDecimal())
	}

	class := ClassNeutral
	switch sum.Sign() {
	case 1:
		class = ClassProfit
	case -1:
		class = ClassLoss
	}

	net, _ := sum.Float64()
	return Summary{
		Count:    len(trades),
		NetPL:    net,
		Class:    class,
		Dominant: DominantEmotion(trades),
	}
}

// DominantEmotion returns the most frequent emotion. On a tie the emotion
// seen first in trades wins. Trades without an emotion are ignored.
func DominantEmotion(trades []journal.Trade) journal.Emotion {
	counts := make(map[journal.Emotion]int)
	var order []journal.Emotion
	for _, t := range trades {
		if t.Emotion == "" {
			continue
		}
		if counts[t.Emotion] == 0 {
			order = append(order, t.Emotion)
		}
		counts[t.Emotion]++
	}

	var best journal.Emotion
	for _, e := range order {
		if counts[e] > counts[best] {
			best = e
		}
	}
	return best
}

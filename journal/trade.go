package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrInvalidTrade = errors.New("invalid trade")

// Outcome is how the trader classified the closed trade.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeBreakEven Outcome = "break-even"
)

// Outcomes lists every outcome in display order.
var Outcomes = []Outcome{OutcomeWin, OutcomeLoss, OutcomeBreakEven}

func (o Outcome) Valid() bool { return slices.Contains(Outcomes, o) }

// Label returns "Win", "Loss" or "Break even".
func (o Outcome) Label() string { return label(string(o)) }

// ParseOutcome accepts any case and "break even" / "breakeven" spellings.
func ParseOutcome(s string) (Outcome, error) {
	norm := normalizeEnum(s)
	if norm == "breakeven" {
		norm = string(OutcomeBreakEven)
	}
	o := Outcome(norm)
	if !o.Valid() {
		return "", fmt.Errorf("unknown outcome %q", s)
	}
	return o, nil
}

// NewsImpact tags whether a scheduled release coincided with the trade.
type NewsImpact string

const (
	NewsNone   NewsImpact = "none"
	NewsLow    NewsImpact = "low"
	NewsMedium NewsImpact = "medium"
	NewsHigh   NewsImpact = "high"
)

// NewsLevels lists every news impact level in severity order.
var NewsLevels = []NewsImpact{NewsNone, NewsLow, NewsMedium, NewsHigh}

func (n NewsImpact) Valid() bool { return slices.Contains(NewsLevels, n) }

func (n NewsImpact) Label() string {
	if n == NewsNone {
		return "No News"
	}
	return label(string(n)) + " Impact"
}

func ParseNewsImpact(s string) (NewsImpact, error) {
	n := NewsImpact(normalizeEnum(s))
	if !n.Valid() {
		return "", fmt.Errorf("unknown news impact %q", s)
	}
	return n, nil
}

// Emotion is the trader's state of mind. The zero value means not recorded.
type Emotion string

const (
	EmotionHappy      Emotion = "happy"
	EmotionAnxious    Emotion = "anxious"
	EmotionFearful    Emotion = "fearful"
	EmotionGreedy     Emotion = "greedy"
	EmotionFrustrated Emotion = "frustrated"
	EmotionNeutral    Emotion = "neutral"
)

var Emotions = []Emotion{
	EmotionHappy, EmotionAnxious, EmotionFearful,
	EmotionGreedy, EmotionFrustrated, EmotionNeutral,
}

func (e Emotion) Valid() bool { return slices.Contains(Emotions, e) }

func (e Emotion) Label() string { return label(string(e)) }

// ParseEmotion returns the zero Emotion for an empty string.
func ParseEmotion(s string) (Emotion, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	e := Emotion(normalizeEnum(s))
	if !e.Valid() {
		return "", fmt.Errorf("unknown emotion %q", s)
	}
	return e, nil
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "-")
}

func label(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Trade is one journal entry.
//
// Profit is computed when the trade is written and stored with it; reads
// never recompute it. Extra holds JSON keys this version does not know
// about so that records written by other tools survive a load/persist
// cycle unchanged.
type Trade struct {
	ID         string     `json:"id,omitempty"`
	Date       Date       `json:"date"`
	Instrument string     `json:"pair"`
	EntryPrice float64    `json:"entry"`
	ExitPrice  float64    `json:"exit"`
	Size       float64    `json:"size"`
	Outcome    Outcome    `json:"outcome"`
	Emotion    Emotion    `json:"emotion,omitempty"`
	News       NewsImpact `json:"news"`
	Notes      string     `json:"notes"`
	Profit     float64    `json:"profit"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Recompute sets Profit from the price, size and instrument fields.
func (t *Trade) Recompute() {
	t.Profit = ComputeProfit(t.EntryPrice, t.ExitPrice, t.Size, t.Instrument)
}

// ApplyDefaults fills the outcome and news impact when unset.
func (t *Trade) ApplyDefaults() {
	if t.Outcome == "" {
		t.Outcome = OutcomeBreakEven
	}
	if t.News == "" {
		t.News = NewsNone
	}
}

// Validate checks what a form would: a date, positive prices and size,
// and enum values in range. ComputeProfit itself accepts anything.
func (t Trade) Validate() error {
	var errs []error
	if t.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	if !positive(t.EntryPrice) {
		errs = append(errs, errors.New("entry price must be positive"))
	}
	if !positive(t.ExitPrice) {
		errs = append(errs, errors.New("exit price must be positive"))
	}
	if !positive(t.Size) {
		errs = append(errs, errors.New("position size must be positive"))
	}
	if !finite(t.Profit) {
		errs = append(errs, errors.New("profit is out of range"))
	}
	if !t.Outcome.Valid() {
		errs = append(errs, fmt.Errorf("unknown outcome %q", t.Outcome))
	}
	if !t.News.Valid() {
		errs = append(errs, fmt.Errorf("unknown news impact %q", t.News))
	}
	if t.Emotion != "" && !t.Emotion.Valid() {
		errs = append(errs, fmt.Errorf("unknown emotion %q", t.Emotion))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTrade, errors.Join(errs...))
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && finite(x)
}

type tradeJSON Trade

// Keys read as a fallback when the canonical key is missing.
var tradeAliases = map[string]string{
	"instrument": "pair",
	"entryPrice": "entry",
	"exitPrice":  "exit",
	"newsImpact": "news",
}

var tradeKeys = []string{
	"id", "date", "pair", "entry", "exit", "size",
	"outcome", "emotion", "news", "notes", "profit",
}

func (t Trade) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(tradeJSON(t))
	if err != nil || len(t.Extra) == 0 {
		return known, err
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(known, &m); err != nil {
		return nil, err
	}
	for k, v := range t.Extra {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

func (t *Trade) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for alias, key := range tradeAliases {
		v, ok := raw[alias]
		if !ok {
			continue
		}
		// an alias shadowed by its canonical key stays in Extra
		if _, has := raw[key]; !has {
			raw[key] = v
			delete(raw, alias)
		}
	}

	fixed, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var aux tradeJSON
	if err := json.Unmarshal(fixed, &aux); err != nil {
		return err
	}
	*t = Trade(aux)

	for _, k := range tradeKeys {
		delete(raw, k)
	}
	if len(raw) > 0 {
		t.Extra = raw
	}
	return nil
}

// SortByDateDesc returns a copy of trades ordered newest first. Trades on
// the same date keep their relative order.
func SortByDateDesc(trades []Trade) []Trade {
	out := slices.Clone(trades)
	slices.SortStableFunc(out, func(a, b Trade) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// Date is a calendar day with no time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const DateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MonthKey returns "YYYY-MM".
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", a full RFC 3339 timestamp, an empty
// string, or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*d = DateOf(t)
			return nil
		}
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

package journal

import (
	"strings"
	"unicode"
)

// Pair describes a currency pair by its two ISO currency codes.
type Pair struct {
	Base  string
	Quote string
}

func (p Pair) String() string { return p.Base + "/" + p.Quote }

// Majors are the pairs offered as suggestions.
var Majors = []Pair{
	{"EUR", "USD"},
	{"GBP", "USD"},
	{"USD", "JPY"},
	{"USD", "CHF"},
	{"AUD", "USD"},
	{"USD", "CAD"},
	{"NZD", "USD"},
	{"EUR", "GBP"},
	{"EUR", "JPY"},
	{"GBP", "JPY"},
}

// ParsePair reads "EUR/USD", "EUR_USD", "eur-usd", "EURUSD" and the like.
// ok is false for anything that is not two three-letter codes.
func ParsePair(s string) (Pair, bool) {
	letters := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r):
			return unicode.ToUpper(r)
		case r == '/' || r == '_' || r == '-' || r == ' ':
			return -1
		}
		return '!'
	}, strings.TrimSpace(s))

	if len(letters) != 6 || strings.ContainsRune(letters, '!') {
		return Pair{}, false
	}
	return Pair{Base: letters[:3], Quote: letters[3:]}, true
}

// NormalizePair spells a recognizable pair as "BASE/QUOTE" and returns
// anything else trimmed but otherwise unchanged.
func NormalizePair(s string) string {
	if p, ok := ParsePair(s); ok {
		return p.String()
	}
	return strings.TrimSpace(s)
}

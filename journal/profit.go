package journal

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultInstrument is assumed when an imported row names no pair.
const DefaultInstrument = "EUR/USD"

// PipScale converts a raw price difference into pips: 100 for JPY-quoted
// pairs, 10000 for everything else, including an empty instrument.
func PipScale(instrument string) int64 {
	if strings.Contains(instrument, "JPY") {
		return 100
	}
	return 10_000
}

// ComputeProfit returns (exit - entry) * pipScale * size.
//
// There is no spread, commission or quote-currency conversion, and size is
// not checked: zero gives zero and a negative size flips the sign.
func ComputeProfit(entry, exit, size float64, instrument string) float64 {
	scale := PipScale(instrument)
	if !finite(entry) || !finite(exit) || !finite(size) {
		return (exit - entry) * float64(scale) * size
	}
	move := decimal.NewFromFloat(exit).Sub(decimal.NewFromFloat(entry))
	pl := move.
		Mul(decimal.NewFromInt(scale)).
		Mul(decimal.NewFromFloat(size))
	f, _ := pl.Float64()
	return f
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// ProfitDecimal is t.Profit as a decimal for summing. A non-finite profit
// counts as zero.
func (t Trade) ProfitDecimal() decimal.Decimal {
	if !finite(t.Profit) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(t.Profit)
}

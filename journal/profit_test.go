package journal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipScale(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(100), PipScale("USD/JPY"))
	assert.Equal(t, int64(100), PipScale("EURJPY"))
	assert.Equal(t, int64(10_000), PipScale("EUR/USD"))
	assert.Equal(t, int64(10_000), PipScale(""))
	// substring match is case-sensitive
	assert.Equal(t, int64(10_000), PipScale("usd/jpy"))
}

func TestComputeProfit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		entry      float64
		exit       float64
		size       float64
		instrument string
		expected   float64
	}{
		{"eurusd_long_50_pips", 1.1000, 1.1050, 1, "EUR/USD", 50.0},
		{"eurusd_size_10000", 1.1000, 1.1050, 10000, "EUR/USD", 500000.0},
		{"usdjpy_50_pips", 110.00, 110.50, 1, "USD/JPY", 50.0},
		{"loss", 1.2500, 1.2480, 2, "GBP/USD", -40.0},
		{"empty_instrument_uses_10000", 1.1000, 1.1050, 1, "", 50.0},
		{"zero_size", 1.1000, 1.1050, 0, "EUR/USD", 0.0},
		{"negative_size_inverts", 1.1000, 1.1050, -1, "EUR/USD", -50.0},
		{"flat", 1.3333, 1.3333, 5, "EUR/USD", 0.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeProfit(tt.entry, tt.exit, tt.size, tt.instrument)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRecomputeMatchesComputeProfit(t *testing.T) {
	t.Parallel()

	tr := Trade{Instrument: "USD/JPY", EntryPrice: 150.25, ExitPrice: 149.75, Size: 3}
	tr.Recompute()
	assert.Equal(t, ComputeProfit(150.25, 149.75, 3, "USD/JPY"), tr.Profit)
	assert.Equal(t, -150.0, tr.Profit)
}

func TestComputeProfitNonFinite(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		got := ComputeProfit(math.NaN(), 1.1, 1, "EUR/USD")
		assert.True(t, math.IsNaN(got))
	})
	assert.NotPanics(t, func() {
		got := ComputeProfit(1.1, 1.2, math.Inf(1), "EUR/USD")
		assert.True(t, math.IsInf(got, 1))
	})
}

package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxjournal/pkg/id"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	tr := Trade{
		ID:         "01HZX3K8Q2ABCDEFGH12345678",
		Date:       NewDate(2024, time.March, 15),
		Instrument: "EUR/USD",
		EntryPrice: 1.085,
		ExitPrice:  1.0875,
		Size:       2,
		Outcome:    OutcomeWin,
		Emotion:    EmotionHappy,
		News:       NewsMedium,
		Notes:      "clean retest\nheld through NFP",
		Profit:     50,
	}

	result := FormatTradeOrg(tr)

	assert.True(t, strings.HasPrefix(result, "** 2024-03-15 EUR/USD Win (12345678)\n"))
	assert.Contains(t, result, ":ID: 01HZX3K8Q2ABCDEFGH12345678")
	assert.Contains(t, result, ":ENTRY_PRICE: 1.08500")
	assert.Contains(t, result, ":EXIT_PRICE: 1.08750")
	assert.Contains(t, result, ":SIZE: 2\n")
	assert.Contains(t, result, ":PROFIT: 50.00")
	assert.Contains(t, result, ":NEWS: medium")
	assert.Contains(t, result, ":EMOTION: happy")
	assert.Contains(t, result, "- clean retest\n- held through NFP\n")

	lines := strings.Split(result, "\n")
	var thesis, review int
	for i, l := range lines {
		switch l {
		case "*** Thesis":
			thesis = i
		case "*** Review":
			review = i
		}
	}
	require.Greater(t, thesis, 0)
	assert.Greater(t, review, thesis)
}

func TestFormatTradeOrgNoEmotionNoNotes(t *testing.T) {
	t.Parallel()

	result := FormatTradeOrg(Trade{ID: "short", Outcome: OutcomeLoss, News: NewsNone, Profit: -12.5})
	assert.NotContains(t, result, ":EMOTION:")
	assert.Contains(t, result, ":PROFIT: -12.50")
	assert.Contains(t, result, "(short)")
	assert.True(t, strings.HasSuffix(result, "*** Review\n- \n"))
}

func TestFormatTradeOrgCreated(t *testing.T) {
	t.Parallel()

	minted := id.NewAt(time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC))
	result := FormatTradeOrg(Trade{ID: minted, Outcome: OutcomeWin, News: NewsNone})
	assert.Contains(t, result, ":CREATED: [2024-03-15 Fri 09:30]\n")

	legacy := FormatTradeOrg(Trade{ID: "trade-17", Outcome: OutcomeWin, News: NewsNone})
	assert.NotContains(t, legacy, ":CREATED:")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatTradesOrg(nil))

	one := FormatTradesOrg([]Trade{{ID: "a"}})
	assert.NotContains(t, one, "\n\n\n")

	two := FormatTradesOrg([]Trade{{ID: "a"}, {ID: "b"}})
	assert.Len(t, strings.Split(two, "\n\n\n"), 2)
}

func TestShortID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ShortID(""))
	assert.Equal(t, "short", ShortID("short"))
	assert.Equal(t, "12345678", ShortID("12345678"))
	assert.Equal(t, "23456789", ShortID("123456789"))
}

package journal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/fxjournal/pkg/id"
)

// FormatTradeOrg renders a trade as an Org-mode block. Facts go in the
// PROPERTIES drawer; notes seed the Review section.
func FormatTradeOrg(t Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s %s (%s)\n", t.Date, t.Instrument, t.Outcome.Label(), ShortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", t.ID)
	if created, err := id.Created(t.ID); err == nil {
		fmt.Fprintf(&b, ":CREATED: [%s]\n", created.Format("2006-01-02 Mon 15:04"))
	}
	fmt.Fprintf(&b, ":DATE: %s\n", t.Date)
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", t.Instrument)
	fmt.Fprintf(&b, ":SIZE: %g\n", t.Size)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", t.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", t.ExitPrice)
	fmt.Fprintf(&b, ":PROFIT: %.2f\n", t.Profit)
	fmt.Fprintf(&b, ":OUTCOME: %s\n", t.Outcome)
	fmt.Fprintf(&b, ":NEWS: %s\n", t.News)
	if t.Emotion != "" {
		fmt.Fprintf(&b, ":EMOTION: %s\n", t.Emotion)
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n")
	if t.Notes != "" {
		for _, line := range strings.Split(t.Notes, "\n") {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	} else {
		b.WriteString("- \n")
	}
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// ShortID keeps the random tail of a ULID; the head is the timestamp and
// repeats across trades entered together.
func ShortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}

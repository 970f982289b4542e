package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Mode selects what a day cell shows.
type Mode int

const (
	ModePL Mode = iota
	ModeEmotion
)

const cellWidth = 11

// Render writes cal as a Sunday-first text grid. Each week is three lines:
// day numbers, the P/L or dominant emotion, and the trade count.
func Render(w io.Writer, cal Calendar, mode Mode) error {
	var b strings.Builder
	b.WriteString(cal.Month.String())
	b.WriteString("\n")
	for d := time.Sunday; d <= time.Saturday; d++ {
		cell(&b, d.String()[:3])
	}
	b.WriteString("\n")

	lead := int(cal.Month.FirstWeekday())
	slots := lead + len(cal.Days)
	for week := 0; week*7 < slots; week++ {
		var nums, values, counts strings.Builder
		for col := 0; col < 7; col++ {
			i := week*7 + col - lead
			if i < 0 || i >= len(cal.Days) {
				cell(&nums, "")
				cell(&values, "")
				cell(&counts, "")
				continue
			}
			day := cal.Days[i]
			cell(&nums, fmt.Sprintf("%d", day.Date.Day))
			if day.Summary == nil {
				cell(&values, "")
				cell(&counts, "")
				continue
			}
			cell(&values, indicator(*day.Summary, mode))
			cell(&counts, tradeCount(day.Summary.Count))
		}
		for _, line := range []*strings.Builder{&nums, &values, &counts} {
			b.WriteString(strings.TrimRight(line.String(), " "))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func cell(b *strings.Builder, s string) {
	fmt.Fprintf(b, "%-*s", cellWidth, s)
}

func indicator(s Summary, mode Mode) string {
	if mode == ModeEmotion {
		if s.Dominant == "" {
			return "-"
		}
		return string(s.Dominant)
	}
	switch s.Class {
	case ClassProfit:
		return fmt.Sprintf("+%.2f", s.NetPL)
	case ClassLoss:
		return fmt.Sprintf("%.2f", s.NetPL)
	}
	return "0.00"
}

func tradeCount(n int) string {
	if n == 1 {
		return "1 trade"
	}
	return fmt.Sprintf("%d trades", n)
}

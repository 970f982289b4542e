package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxjournal/calendar"
	"github.com/rustyeddy/fxjournal/journal"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM]",
	Short: "Show a month of trading as a calendar",
	Long: `Show each day's net P/L, or the dominant emotion with --mood.
The month defaults to the current one; --prev and --next step from it.

Examples:
  fxjournal calendar
  fxjournal calendar 2024-01 --mood
  fxjournal calendar --prev 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalendar,
}

var (
	calendarMood bool
	calendarPrev int
	calendarNext int
)

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().BoolVar(&calendarMood, "mood", false, "show dominant emotion instead of P/L")
	calendarCmd.Flags().IntVar(&calendarPrev, "prev", 0, "go back N months")
	calendarCmd.Flags().IntVar(&calendarNext, "next", 0, "go forward N months")
	calendarCmd.MarkFlagsMutuallyExclusive("prev", "next")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	m := calendar.MonthOf(journal.DateOf(time.Now()))
	if len(args) == 1 {
		var err error
		if m, err = calendar.ParseMonth(args[0]); err != nil {
			return err
		}
	}
	m = m.Add(calendarNext - calendarPrev)

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	mode := calendar.ModePL
	if calendarMood {
		mode = calendar.ModeEmotion
	}

	cal := calendar.Build(store.List(), m)
	out := cmd.OutOrStdout()
	if err := calendar.Render(out, cal, mode); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nMonth net P/L: %+.2f\n", cal.NetPL())
	return nil
}

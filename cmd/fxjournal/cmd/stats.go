package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxjournal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show performance statistics",
	Long: `Show win rate, average win and loss, profit factor, the news impact
table, emotion counts and monthly totals for every recorded trade.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	s := stats.Compute(store.List())
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Trades:\t%d (%d win, %d loss, %d break even)\n", s.Total, s.Wins, s.Losses, s.BreakEven)
	fmt.Fprintf(w, "Net P/L:\t%+.2f\n", s.NetProfit)
	fmt.Fprintf(w, "Win rate:\t%.1f%%\n", s.WinRate)
	fmt.Fprintf(w, "Avg win:\t%.2f\n", s.AvgWin)
	fmt.Fprintf(w, "Avg loss:\t%.2f\n", s.AvgLoss)
	fmt.Fprintf(w, "Profit factor:\t%s\n", s.ProfitFactor)

	fmt.Fprintln(w, "\nNews impact\tTrades\tWin rate\tAvg P/L")
	for _, l := range s.News.Levels {
		fmt.Fprintf(w, "  %s\t%d\t%.1f%%\t%+.2f\n", l.Level.Label(), l.Count, l.WinRate, l.AvgProfit)
	}
	fmt.Fprintf(w, "  With news\t%d\t%.1f%%\t\n", s.News.WithNews, s.News.WinRateNews)
	fmt.Fprintf(w, "  Without news\t%d\t%.1f%%\t\n", s.Total-s.News.WithNews, s.News.WinRateNoNews)

	fmt.Fprintln(w, "\nEmotion\tTrades\t\t")
	for _, e := range s.Emotions {
		fmt.Fprintf(w, "  %s\t%d\t\t\n", e.Emotion.Label(), e.Count)
	}

	if len(s.Monthly) > 0 {
		fmt.Fprintln(w, "\nMonth\tP/L\tTrades\tWin rate")
		for _, m := range s.Monthly {
			fmt.Fprintf(w, "  %s\t%+.2f\t%d\t%.1f%%\n", m.Month, m.Profit, m.Trades, m.WinRate)
		}
	}
	return w.Flush()
}

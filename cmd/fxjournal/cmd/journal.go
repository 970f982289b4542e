package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxjournal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the SQLite trade mirror",
	Long: `Mirror the journal into SQLite and query it as org-mode entries.

Subcommands:
  sync         - Copy every trade into the SQLite mirror
  trade        - Show one trade by ID
  today        - List trades dated today
  day          - List trades dated on a specific day
  instruments  - Trade count and P/L per currency pair

Examples:
  fxjournal journal sync
  fxjournal journal trade <trade-id>
  fxjournal journal day 2024-01-15`,
}

var journalSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy every trade into the SQLite mirror",
	Args:  cobra.NoArgs,
	RunE:  runJournalSync,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Long:  "Get details of a specific trade by full ID or by the short ID shown in listings.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades dated today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades dated on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalInstrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "Trade count and P/L per currency pair",
	Args:  cobra.NoArgs,
	RunE:  runJournalInstruments,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalSyncCmd, journalTradeCmd, journalTodayCmd, journalDayCmd, journalInstrumentsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite mirror (default journal.db_path)")
}

func openMirror() (*journal.SQLite, error) {
	path := cfg.Journal.DBPath
	if journalDBPath != "" {
		path = journalDBPath
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalSync(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	j, err := openMirror()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.Sync(store.List()); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Synced %d trades\n", store.Len())
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openMirror()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.FindTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return printDay(cmd, journal.DateOf(time.Now()))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	day, err := journal.ParseDate(args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return printDay(cmd, day)
}

func printDay(cmd *cobra.Command, day journal.Date) error {
	j, err := openMirror()
	if err != nil {
		return err
	}
	defer j.Close()

	next := journal.DateOf(day.Time().AddDate(0, 0, 1))
	recs, err := j.ListTradesBetween(day, next)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
	return nil
}

func runJournalInstruments(cmd *cobra.Command, args []string) error {
	j, err := openMirror()
	if err != nil {
		return err
	}
	defer j.Close()

	totals, err := j.ListInstruments()
	if err != nil {
		return fmt.Errorf("query instruments: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAIR\tTRADES\tP/L")
	for _, t := range totals {
		fmt.Fprintf(w, "%s\t%d\t%+.2f\n", t.Instrument, t.Trades, t.Profit)
	}
	return w.Flush()
}

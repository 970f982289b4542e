package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rustyeddy/fxjournal/calendar"
	"github.com/rustyeddy/fxjournal/journal"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a trade",
	Long: `Record a closed trade. Profit is computed from the prices, size and pair.

Example:
  fxjournal add --pair EUR/USD --entry 1.1000 --exit 1.1050 --size 2 --outcome win --news high`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of a recorded trade",
	Long: `Change only the fields given as flags; profit is recomputed.

Example:
  fxjournal edit 3FZK9Q2A --exit 1.1075 --notes "moved stop to BE"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

type tradeFlags struct {
	date    string
	pair    string
	entry   float64
	exit    float64
	size    float64
	outcome string
	news    string
	emotion string
	notes   string
}

var (
	addFlags  tradeFlags
	editFlags tradeFlags
	listMonth string
)

func init() {
	rootCmd.AddCommand(addCmd, editCmd, rmCmd, listCmd)

	addFlags.register(addCmd.Flags(), time.Now().Format(journal.DateLayout), journal.DefaultInstrument)
	editFlags.register(editCmd.Flags(), "", "")
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.RegisterFlagCompletionFunc("pair", completePair)
	}

	listCmd.Flags().StringVarP(&listMonth, "month", "m", "", "only trades in this month (YYYY-MM)")
}

func (f *tradeFlags) register(fs *pflag.FlagSet, date, pair string) {
	fs.StringVar(&f.date, "date", date, "trade date (YYYY-MM-DD)")
	fs.StringVarP(&f.pair, "pair", "p", pair, "currency pair, e.g. EUR/USD")
	fs.Float64Var(&f.entry, "entry", 0, "entry price")
	fs.Float64Var(&f.exit, "exit", 0, "exit price")
	fs.Float64VarP(&f.size, "size", "s", 0, "position size in lots")
	fs.StringVarP(&f.outcome, "outcome", "o", "", "win, loss or break-even (default break-even)")
	fs.StringVar(&f.news, "news", "", "none, low, medium or high (default none)")
	fs.StringVarP(&f.emotion, "emotion", "e", "", "happy, anxious, fearful, greedy, frustrated or neutral")
	fs.StringVarP(&f.notes, "notes", "n", "", "free-form notes")
}

func completePair(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	pairs := make([]string, 0, len(journal.Majors))
	for _, p := range journal.Majors {
		pairs = append(pairs, p.String())
	}
	return pairs, cobra.ShellCompDirectiveNoFileComp
}

// apply copies flag values onto t. With all unset, only flags the user
// gave are copied.
func (f *tradeFlags) apply(t *journal.Trade, fs *pflag.FlagSet, all bool) error {
	set := func(name string) bool { return all || fs.Changed(name) }

	var err error
	if set("date") {
		if t.Date, err = journal.ParseDate(f.date); err != nil {
			return err
		}
	}
	if set("pair") {
		t.Instrument = journal.NormalizePair(f.pair)
	}
	if set("entry") {
		t.EntryPrice = f.entry
	}
	if set("exit") {
		t.ExitPrice = f.exit
	}
	if set("size") {
		t.Size = f.size
	}
	if set("outcome") && f.outcome != "" {
		if t.Outcome, err = journal.ParseOutcome(f.outcome); err != nil {
			return err
		}
	}
	if set("news") && f.news != "" {
		if t.News, err = journal.ParseNewsImpact(f.news); err != nil {
			return err
		}
	}
	if set("emotion") {
		if t.Emotion, err = journal.ParseEmotion(f.emotion); err != nil {
			return err
		}
	}
	if set("notes") {
		t.Notes = f.notes
	}

	t.ApplyDefaults()
	t.Recompute()
	return t.Validate()
}

func runAdd(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	var t journal.Trade
	if err := addFlags.apply(&t, cmd.Flags(), true); err != nil {
		return err
	}
	added, err := store.Add(t)
	if err != nil {
		return err
	}
	persist(cmd, store)

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s %s %s %+.2f (%s)\n",
		added.Date, added.Instrument, added.Outcome.Label(), added.Profit, journal.ShortID(added.ID))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	tradeID, err := store.Resolve(args[0])
	if err != nil {
		return err
	}
	t, err := store.Get(tradeID)
	if err != nil {
		return err
	}
	if err := editFlags.apply(&t, cmd.Flags(), false); err != nil {
		return err
	}
	if err := store.Update(tradeID, t); err != nil {
		return err
	}
	persist(cmd, store)

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s profit %+.2f\n", journal.ShortID(tradeID), t.Profit)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	tradeID, err := store.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := store.Remove(tradeID); err != nil {
		return err
	}
	persist(cmd, store)

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", journal.ShortID(tradeID))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	trades := journal.SortByDateDesc(store.List())
	if listMonth != "" {
		m, err := calendar.ParseMonth(listMonth)
		if err != nil {
			return err
		}
		kept := trades[:0]
		for _, t := range trades {
			if calendar.MonthOf(t.Date) == m {
				kept = append(kept, t)
			}
		}
		trades = kept
	}

	out := cmd.OutOrStdout()
	if len(trades) == 0 {
		fmt.Fprintln(out, "No trades recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tPAIR\tENTRY\tEXIT\tSIZE\tOUTCOME\tP/L\tNEWS\tEMOTION")
	for _, t := range trades {
		emotion := "-"
		if t.Emotion != "" {
			emotion = t.Emotion.Label()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.5f\t%.5f\t%g\t%s\t%+.2f\t%s\t%s\n",
			journal.ShortID(t.ID), t.Date, t.Instrument, t.EntryPrice, t.ExitPrice, t.Size,
			t.Outcome.Label(), t.Profit, t.News.Label(), emotion)
	}
	return w.Flush()
}

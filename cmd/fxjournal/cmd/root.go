package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxjournal/config"
	"github.com/rustyeddy/fxjournal/internal/logger"
	"github.com/rustyeddy/fxjournal/journal"
)

var rootCmd = &cobra.Command{
	Use:   "fxjournal",
	Short: "A trading journal for FX traders",
	Long: `fxjournal records manual FX trades and reports on them.

It provides tools for:
  - Recording, editing and removing trades with computed P/L
  - Win rate, profit factor and news/emotion breakdowns
  - A monthly P/L and mood calendar
  - CSV and XLSX import and export
  - An HTTP API for the same journal
  - An SQLite mirror with org-mode trade reports`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile  string
	logLevel string

	cfg    *config.Config
	appLog *slog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON; defaults apply when unset)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}

// setup resolves the configuration: file, then .env and FXJOURNAL_*
// variables, then flags.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	appLog = logger.NewWriter(cmd.ErrOrStderr(), cfg.Logging.Level)
	appLog.Debug("config resolved", "store", cfg.Store.Type, "path", cfg.Store.Path)
	return nil
}

// openStore loads the journal. The returned func closes the backend.
func openStore() (*journal.Store, func(), error) {
	blob, err := config.Open(cfg, appLog)
	if err != nil {
		return nil, nil, err
	}
	store := journal.NewStore(blob, cfg.Store.Key, appLog)
	if _, err := store.Load(); err != nil {
		blob.Close()
		return nil, nil, err
	}
	return store, func() { blob.Close() }, nil
}

// persist saves the store. A failure is a warning: the command still
// succeeds, matching how the API reports it.
func persist(cmd *cobra.Command, store *journal.Store) {
	if err := store.Persist(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxjournal/sheet"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the journal with a CSV or XLSX sheet",
	Long: `Read every row of a .csv or .xlsx file and replace the journal with it.
Nothing changes if any row fails to parse. Rows without a Profit/Loss
column get their profit computed.

Example:
  fxjournal import Trading_Journal_2024-01-31.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the journal to a CSV or XLSX sheet",
	Long: `Write every trade to a spreadsheet; the format follows the extension.
The default file is Trading_Journal_<today>.xlsx.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	trades, err := sheet.ImportFile(args[0])
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	store.ReplaceAll(trades)
	persist(cmd, store)

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades from %s\n", len(trades), args[0])
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	path := sheet.DefaultExportName(time.Now())
	if len(args) == 1 {
		path = args[0]
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	trades := store.List()
	if err := sheet.ExportFile(path, trades); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(trades), path)
	return nil
}

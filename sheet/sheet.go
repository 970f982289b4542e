// Package sheet moves a journal in and out of CSV and XLSX spreadsheets.
package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrEmptySheet        = errors.New("sheet has no trade rows")
	ErrNoTrades          = errors.New("no trades to export")
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// SheetName is the worksheet an XLSX export writes.
const SheetName = "Trading Journal"

// Export header, in column order.
const (
	ColDate    = "Date"
	ColPair    = "Currency Pair"
	ColEntry   = "Entry Price"
	ColExit    = "Exit Price"
	ColSize    = "Position Size"
	ColOutcome = "Outcome"
	ColProfit  = "Profit/Loss"
	ColNews    = "News Impact"
	ColEmotion = "Emotion"
	ColNotes   = "Notes"
)

var Columns = []string{
	ColDate, ColPair, ColEntry, ColExit, ColSize,
	ColOutcome, ColProfit, ColNews, ColEmotion, ColNotes,
}

// Header aliases per field, tried in order; the first non-empty cell wins.
var (
	dateAliases    = []string{ColDate, "date"}
	pairAliases    = []string{ColPair, "currency_pair"}
	entryAliases   = []string{ColEntry, "entry_price"}
	exitAliases    = []string{ColExit, "exit_price"}
	sizeAliases    = []string{ColSize, "position_size"}
	outcomeAliases = []string{ColOutcome, "outcome"}
	profitAliases  = []string{ColProfit, "profit_loss"}
	newsAliases    = []string{ColNews, "news_impact"}
	emotionAliases = []string{ColEmotion, "emotion"}
	notesAliases   = []string{ColNotes, "notes"}
)

// DefaultExportName is Trading_Journal_<YYYY-MM-DD>.xlsx for now.
func DefaultExportName(now time.Time) string {
	return fmt.Sprintf("Trading_Journal_%s.xlsx", now.Format("2006-01-02"))
}

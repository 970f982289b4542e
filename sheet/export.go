package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/fxjournal/journal"
)

// ExportFile writes trades to path, choosing the format by extension.
func ExportFile(path string, trades []journal.Trade) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		return ErrNoTrades
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(fh, trades, f); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// Export always writes the full Columns header.
func Export(w io.Writer, trades []journal.Trade, f Format) error {
	if len(trades) == 0 {
		return ErrNoTrades
	}
	switch f {
	case FormatCSV:
		return writeCSV(w, trades)
	case FormatXLSX:
		return writeXLSX(w, trades)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

func writeCSV(w io.Writer, trades []journal.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, t := range trades {
		err := cw.Write([]string{
			t.Date.String(),
			t.Instrument,
			num(t.EntryPrice),
			num(t.ExitPrice),
			num(t.Size),
			string(t.Outcome),
			num(t.Profit),
			string(t.News),
			string(t.Emotion),
			t.Notes,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, trades []journal.Trade) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}

	for i, t := range trades {
		row := []any{
			t.Date.String(),
			t.Instrument,
			t.EntryPrice,
			t.ExitPrice,
			t.Size,
			string(t.Outcome),
			t.Profit,
			string(t.News),
			string(t.Emotion),
			t.Notes,
		}
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, line int, row []any) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &row)
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

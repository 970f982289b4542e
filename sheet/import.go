package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/fxjournal/journal"
)

// ImportFile reads a .csv or .xlsx file.
func ImportFile(path string) ([]journal.Trade, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Import(fh, f)
}

// Import parses every data row of the first sheet. It is all-or-nothing:
// any bad row fails the whole import. Rows with no Profit/Loss get their
// profit computed the same way a manually entered trade would.
func Import(r io.Reader, f Format) ([]journal.Trade, error) {
	var (
		rows [][]string
		err  error
	)
	switch f {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f, err)
	}
	return parseRows(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	// Raw values: numbers unformatted, dates as serial numbers.
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

type record map[string]string

// get returns the first non-empty value among names.
func (rec record) get(names []string) string {
	for _, n := range names {
		if v := rec[n]; v != "" {
			return v
		}
	}
	return ""
}

func parseRows(rows [][]string) ([]journal.Trade, error) {
	rows = dropBlank(rows)
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	header := rows[0]
	var trades []journal.Trade
	for i, row := range rows[1:] {
		rec := make(record, len(header))
		for col, name := range header {
			name = strings.TrimSpace(name)
			if _, dup := rec[name]; dup || col >= len(row) {
				continue
			}
			rec[name] = strings.TrimSpace(row[col])
		}

		// header is line 1
		t, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func parseRecord(rec record) (journal.Trade, error) {
	var (
		t   journal.Trade
		err error
	)

	raw := rec.get(dateAliases)
	if raw == "" {
		return t, errors.New("missing date")
	}
	if t.Date, err = parseDate(raw); err != nil {
		return t, err
	}

	t.Instrument = rec.get(pairAliases)
	if t.EntryPrice, err = parseNumber(rec.get(entryAliases), "entry price"); err != nil {
		return t, err
	}
	if t.ExitPrice, err = parseNumber(rec.get(exitAliases), "exit price"); err != nil {
		return t, err
	}
	if t.Size, err = parseNumber(rec.get(sizeAliases), "position size"); err != nil {
		return t, err
	}

	if s := rec.get(outcomeAliases); s != "" {
		if t.Outcome, err = journal.ParseOutcome(s); err != nil {
			return t, err
		}
	}
	if s := rec.get(newsAliases); s != "" {
		if t.News, err = journal.ParseNewsImpact(s); err != nil {
			return t, err
		}
	}
	if t.Emotion, err = journal.ParseEmotion(rec.get(emotionAliases)); err != nil {
		return t, err
	}
	t.Notes = rec.get(notesAliases)
	t.ApplyDefaults()

	if s := rec.get(profitAliases); s != "" {
		if t.Profit, err = parseNumber(s, "profit/loss"); err != nil {
			return t, err
		}
	} else {
		instrument := t.Instrument
		if instrument == "" {
			instrument = journal.DefaultInstrument
		}
		t.Profit = journal.ComputeProfit(t.EntryPrice, t.ExitPrice, t.Size, instrument)
		if math.IsInf(t.Profit, 0) {
			return t, errors.New("computed profit/loss is out of range")
		}
	}
	return t, nil
}

func parseNumber(s, field string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing %s", field)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s %q is not a number", field, s)
	}
	return v, nil
}

var dateLayouts = []string{
	journal.DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate accepts the layouts above or an Excel serial day number.
func parseDate(s string) (journal.Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return journal.DateOf(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return journal.DateOf(t), nil
		}
	}
	return journal.Date{}, fmt.Errorf("unrecognized date %q", s)
}

func dropBlank(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

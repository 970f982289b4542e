package journal

import (
	"database/sql"
	"errors"
	"fmt"
)

const selectTrades = `
	SELECT trade_id, trade_date, instrument, entry_price, exit_price, size, outcome, emotion, news, notes, profit
	FROM trades`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (Trade, error) {
	var (
		rec                    Trade
		date                   string
		outcome, emotion, news string
	)
	err := row.Scan(
		&rec.ID,
		&date,
		&rec.Instrument,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.Size,
		&outcome,
		&emotion,
		&news,
		&rec.Notes,
		&rec.Profit,
	)
	if err != nil {
		return Trade{}, err
	}
	if date != "" {
		if rec.Date, err = ParseDate(date); err != nil {
			return Trade{}, err
		}
	}
	rec.Outcome = Outcome(outcome)
	rec.Emotion = Emotion(emotion)
	rec.News = NewsImpact(news)
	return rec, nil
}

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(tradeID string) (Trade, error) {
	row := j.db.QueryRow(selectTrades+` WHERE trade_id = ?`, tradeID)
	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, fmt.Errorf("%w: %q", ErrNotFound, tradeID)
		}
		return Trade{}, err
	}
	return rec, nil
}

// FindTrade is GetTrade that also accepts a unique case-insensitive ID
// suffix of at least MinShortID characters.
func (j *SQLite) FindTrade(arg string) (Trade, error) {
	rec, err := j.GetTrade(arg)
	if !errors.Is(err, ErrNotFound) || len(arg) < MinShortID {
		return rec, err
	}

	rows, err := j.db.Query(selectTrades+`
		WHERE substr(upper(trade_id), -?) = upper(?)
		LIMIT 2`, len(arg), arg)
	if err != nil {
		return Trade{}, err
	}
	defer rows.Close()

	var found []Trade
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return Trade{}, err
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return Trade{}, err
	}

	switch len(found) {
	case 0:
		return Trade{}, fmt.Errorf("%w: %q", ErrNotFound, arg)
	case 1:
		return found[0], nil
	}
	return Trade{}, fmt.Errorf("%w: %q", ErrAmbiguousID, arg)
}

// ListTradesBetween returns trades dated within [start, end), oldest first.
func (j *SQLite) ListTradesBetween(start, end Date) ([]Trade, error) {
	rows, err := j.db.Query(selectTrades+`
		WHERE trade_date >= ? AND trade_date < ?
		ORDER BY trade_date ASC, trade_id ASC`, start.String(), end.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListInstruments returns each instrument with its trade count and net
// profit, most traded first.
func (j *SQLite) ListInstruments() ([]InstrumentTotal, error) {
	rows, err := j.db.Query(`
		SELECT instrument, COUNT(*), COALESCE(SUM(profit), 0)
		FROM trades
		GROUP BY instrument
		ORDER BY COUNT(*) DESC, instrument ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InstrumentTotal
	for rows.Next() {
		var it InstrumentTotal
		if err := rows.Scan(&it.Instrument, &it.Trades, &it.Profit); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

type InstrumentTotal struct {
	Instrument string
	Trades     int
	Profit     float64
}

package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite mirrors the journal into a relational table so it can be queried
// by ID and date range. The blob stays the source of truth; Sync rebuilds
// the table from it.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// Sync replaces the table contents with trades in one transaction.
func (j *SQLite) Sync(trades []Trade) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trades`); err != nil {
		return fmt.Errorf("clear trades: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trades
		(trade_id, trade_date, instrument, entry_price, exit_price, size, outcome, emotion, news, notes, profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.Exec(
			t.ID, t.Date.String(), t.Instrument, t.EntryPrice, t.ExitPrice, t.Size,
			string(t.Outcome), string(t.Emotion), string(t.News), t.Notes, t.Profit,
		)
		if err != nil {
			return fmt.Errorf("insert trade %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// Package journal persists executed action outcomes to sqlite so the operator
// can query recent history across restarts.
package journal

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry is one executed (or attempted) action.
type Entry struct {
	Time     time.Time
	Strategy string
	Action   string
	Amount   float64
	Status   Status
	Detail   string
}

type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS executions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		time INTEGER NOT NULL,
		strategy TEXT NOT NULL,
		action TEXT NOT NULL,
		amount REAL NOT NULL,
		status TEXT NOT NULL,
		detail TEXT NOT NULL
	)`)
	return err
}

func (j *Journal) Record(ctx context.Context, entry Entry) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO executions (time, strategy, action, amount, status, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Time.UnixMilli(), entry.Strategy, entry.Action, entry.Amount, string(entry.Status), entry.Detail)
	return err
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT time, strategy, action, amount, status, detail FROM executions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var millis int64
		var status string
		if err := rows.Scan(&millis, &entry.Strategy, &entry.Action, &entry.Amount, &status, &entry.Detail); err != nil {
			return nil, err
		}
		entry.Time = time.UnixMilli(millis).UTC()
		entry.Status = Status(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}

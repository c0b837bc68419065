// Package history is the analysis archive: a one-table sqlite record of every
// terminal job outcome, surfaced through GET /history. Live job state never
// lives here; the job table is in-memory and process-lifetime.
package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one terminal job outcome.
type Entry struct {
	JobID       string    `json:"job_id"`
	Filename    string    `json:"filename"`
	Status      string    `json:"status"`
	Rejected    bool      `json:"rejected"`
	Error       string    `json:"error,omitempty"`
	BidDecision string    `json:"bid_decision,omitempty"`
	FinishedAt  time.Time `json:"finished_at"`
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS analyses (
  job_id TEXT PRIMARY KEY,
  filename TEXT NOT NULL,
  status TEXT NOT NULL,
  rejected INTEGER NOT NULL DEFAULT 0,
  error_message TEXT,
  bid_decision TEXT,
  finished_at INTEGER NOT NULL
);
`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO analyses (job_id, filename, status, rejected, error_message, bid_decision, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.JobID,
		e.Filename,
		e.Status,
		boolToInt(e.Rejected),
		e.Error,
		e.BidDecision,
		e.FinishedAt.UnixMilli(),
	)
	return err
}

func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, filename, status, rejected, error_message, bid_decision, finished_at
       FROM analyses ORDER BY finished_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			rejected   int
			errMsg     sql.NullString
			decision   sql.NullString
			finishedMs int64
		)
		if err := rows.Scan(&e.JobID, &e.Filename, &e.Status, &rejected, &errMsg, &decision, &finishedMs); err != nil {
			return nil, err
		}
		e.Rejected = rejected != 0
		if errMsg.Valid {
			e.Error = errMsg.String
		}
		if decision.Valid {
			e.BidDecision = decision.String
		}
		e.FinishedAt = time.UnixMilli(finishedMs).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

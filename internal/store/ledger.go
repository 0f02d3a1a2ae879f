package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/inovspin/inovspin/internal/risk"
)

// timeLayout is fixed-width so that text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// readLayouts are accepted when reading recorded_at back. The column
// default pads to timeLayout; the shorter forms come from older databases.
var readLayouts = []string{timeLayout, "2006-01-02T15:04:05.000Z", "2006-01-02 15:04:05"}

// Record is one decision as handed to the ledger.
type Record struct {
	TemperatureC float64
	VibrationMMS float64
	RiskPct      float64 // unrounded
	Severity     risk.Severity
}

// Entry is a stored record projected for the history feed. Risk is rounded
// to one decimal.
type Entry struct {
	ID           int64         `json:"id"`
	TemperatureC float64       `json:"temperature"`
	VibrationMMS float64       `json:"vibration"`
	RiskPct      float64       `json:"risk"`
	Severity     risk.Severity `json:"severity"`
	RecordedAt   time.Time     `json:"recorded_at"`
}

// Ledger is the append-only history of decisions. It exposes no update or
// delete. Every call acquires its own connection and releases it before
// returning.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// NewLedger returns a ledger over db. The table must already exist.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// insertRecord clamps recorded_at to the previous row so timestamps never go
// backwards in id order, even if the wall clock does.
const insertRecord = `INSERT INTO analyses (temperature, vibration, risk, status, recorded_at)
VALUES (?, ?, ?, ?, MAX(?, COALESCE((SELECT recorded_at FROM analyses ORDER BY id DESC LIMIT 1), '')))
RETURNING id, recorded_at`

// Append stores rec and returns it with its assigned id and timestamp.
func (l *Ledger) Append(ctx context.Context, rec Record) (Entry, error) {
	status, err := rec.Severity.MarshalText()
	if err != nil {
		return Entry{}, &ErrStorage{Op: "append", Err: err}
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return Entry{}, &ErrStorage{Op: "append", Err: fmt.Errorf("acquire connection: %w", err)}
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, &ErrStorage{Op: "append", Err: fmt.Errorf("begin: %w", err)}
	}
	defer tx.Rollback()

	var (
		id         int64
		recordedAt string
	)
	err = tx.QueryRowContext(ctx, insertRecord,
		rec.TemperatureC, rec.VibrationMMS, rec.RiskPct, string(status),
		l.now().UTC().Format(timeLayout),
	).Scan(&id, &recordedAt)
	if err != nil {
		return Entry{}, &ErrStorage{Op: "append", Err: fmt.Errorf("insert: %w", err)}
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, &ErrStorage{Op: "append", Err: fmt.Errorf("commit: %w", err)}
	}

	ts, err := parseTime(recordedAt)
	if err != nil {
		return Entry{}, &ErrStorage{Op: "append", Err: err}
	}
	return Entry{
		ID:           id,
		TemperatureC: rec.TemperatureC,
		VibrationMMS: rec.VibrationMMS,
		RiskPct:      risk.Round1(rec.RiskPct),
		Severity:     rec.Severity,
		RecordedAt:   ts,
	}, nil
}

// Recent returns up to limit entries, most recently appended first.
// A zero limit returns an empty slice without querying.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 0 {
		return nil, &ErrStorage{Op: "recent", Err: fmt.Errorf("negative limit %d", limit)}
	}
	if limit == 0 {
		return []Entry{}, nil
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, temperature, vibration, risk, status, recorded_at
		 FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, &ErrStorage{Op: "recent", Err: fmt.Errorf("query: %w", err)}
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e          Entry
			status     string
			recordedAt string
		)
		if err := rows.Scan(&e.ID, &e.TemperatureC, &e.VibrationMMS, &e.RiskPct, &status, &recordedAt); err != nil {
			return nil, &ErrStorage{Op: "recent", Err: fmt.Errorf("scan: %w", err)}
		}
		if e.Severity, err = risk.ParseSeverity(status); err != nil {
			return nil, &ErrStorage{Op: "recent", Err: fmt.Errorf("row %d: %w", e.ID, err)}
		}
		if e.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, &ErrStorage{Op: "recent", Err: fmt.Errorf("row %d: %w", e.ID, err)}
		}
		e.RiskPct = risk.Round1(e.RiskPct)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &ErrStorage{Op: "recent", Err: fmt.Errorf("iterate: %w", err)}
	}
	return entries, nil
}

// Count returns the number of stored records.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&n); err != nil {
		return 0, &ErrStorage{Op: "count", Err: err}
	}
	return n, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

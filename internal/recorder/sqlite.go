package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"SignalSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists signal history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the HTTP API read history while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT,
			interval    TEXT,
			policy      TEXT,
			signal      TEXT,
			price       REAL,
			sma_fast    REAL,
			sma_slow    REAL,
			rsi         REAL,
			macd        REAL,
			macd_signal REAL,
			explanation TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS refresh_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			symbol    TEXT,
			stage     TEXT,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON refresh_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(snap *model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ind := snap.Indicators
	sig := snap.Signal
	l := ind.Latest

	_, err := r.db.Exec(`INSERT INTO signals
		(run_id, timestamp, symbol, interval, policy, signal, price,
		 sma_fast, sma_slow, rsi, macd, macd_signal, explanation, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, snap.FinishedAt.UnixMilli(), ind.Series.Symbol, ind.Series.Interval,
		sig.Policy, string(sig.Type), l.Close,
		l.SMAFast, l.SMASlow, l.RSI, l.MACD, l.MACDSignal, sig.Explanation,
		snap.FinishedAt.Sub(snap.StartedAt).Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordFailure(evt *FailureEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_failures
		(run_id, timestamp, symbol, stage, error)
		VALUES (?,?,?,?,?)`,
		evt.RunID, time.Now().UnixMilli(), evt.Symbol, evt.Stage, evt.Err,
	)
	return err
}

// RecentSignals returns up to limit signals, newest first.
func (r *SQLiteRecorder) RecentSignals(limit int) ([]SignalRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT run_id, timestamp, symbol, interval, policy, signal, price,
		sma_fast, sma_slow, rsi, macd, macd_signal, explanation
		FROM signals ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		var rec SignalRecord
		var ts int64
		if err := rows.Scan(&rec.RunID, &ts, &rec.Symbol, &rec.Interval, &rec.Policy, &rec.Signal, &rec.Price,
			&rec.SMAFast, &rec.SMASlow, &rec.RSI, &rec.MACD, &rec.MACDSignal, &rec.Explanation); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		rec.Time = time.UnixMilli(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

// Package db persists analysed protein records in sqlite.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/yumyai/loopswap/logger"
	"github.com/yumyai/loopswap/pkg/loop"
	"github.com/yumyai/loopswap/pkg/protein"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

var ErrRecordNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	reference  TEXT NOT NULL,
	started_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	reference TEXT NOT NULL,
	subject   TEXT NOT NULL,
	run_id    TEXT NOT NULL REFERENCES runs(run_id),
	z_score   TEXT NOT NULL,
	targets   INTEGER NOT NULL,
	payload   TEXT NOT NULL,
	PRIMARY KEY (reference, subject)
);
CREATE INDEX IF NOT EXISTS records_targets ON records (targets);
`

// RecordStore keeps the latest record of every reference/subject pair. The full record is
// stored as a JSON payload; the other columns are for listing and filtering.
type RecordStore struct {
	db *sql.DB
}

// Row is the listing view of a stored record.
type Row struct {
	RunID     string `json:"run_id"`
	Reference string `json:"reference"`
	Subject   string `json:"subject"`
	ZScore    string `json:"z_score"`
	Targets   int    `json:"targets"`
}

// Target is one loop flagged as a possible swap.
type Target struct {
	Reference string     `json:"reference"`
	Subject   string     `json:"subject"`
	Match     loop.Match `json:"match"`
}

// Open opens (creating if needed) the sqlite file at path.
func Open(ctx context.Context, path string) (*RecordStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store, err := NewRecordStore(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("Open database on", zap.String("DB_LOC", path))
	return store, nil
}

// NewRecordStore wraps an open connection and makes sure the tables exist.
func NewRecordStore(ctx context.Context, conn *sql.DB) (*RecordStore, error) {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("error creating schema: %w", err)
	}
	return &RecordStore{db: conn}, nil
}

func (s *RecordStore) Close() error { return s.db.Close() }

// Save stores records under a new run and returns the run id. Records replace earlier
// ones of the same reference/subject pair.
func (s *RecordStore) Save(ctx context.Context, reference string, records []protein.Record) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (run_id, reference, started_at) VALUES (?, ?, ?)`,
		runID, reference, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return "", fmt.Errorf("error inserting run: %w", err)
	}

	stm, err := tx.PrepareContext(ctx, `
		INSERT INTO records (reference, subject, run_id, z_score, targets, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (reference, subject) DO UPDATE SET
			run_id = excluded.run_id,
			z_score = excluded.z_score,
			targets = excluded.targets,
			payload = excluded.payload`)
	if err != nil {
		return "", err
	}
	defer stm.Close()

	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("error encoding %s: %w", rec.Subject, err)
		}
		if _, err := stm.ExecContext(ctx, rec.Reference, rec.Subject, runID, rec.Summary.ZScore, len(rec.Targets()), string(payload)); err != nil {
			return "", fmt.Errorf("error inserting %s: %w", rec.Subject, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	logger.Debug("Saved run", zap.String("run_id", runID), zap.Int("records", len(records)))
	return runID, nil
}

// Get returns the record of subject. Subjects are stored upper-cased.
func (s *RecordStore) Get(ctx context.Context, subject string) (protein.Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM records WHERE subject = upper(?) ORDER BY reference LIMIT 1`, subject).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return protein.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, subject)
	}
	if err != nil {
		return protein.Record{}, err
	}
	return decode(payload)
}

func (s *RecordStore) List(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, reference, subject, z_score, targets FROM records ORDER BY reference, subject`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, 16)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RunID, &r.Reference, &r.Subject, &r.ZScore, &r.Targets); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Targets lists every possible swap across stored records, by reference, subject and loop order.
func (s *RecordStore) Targets(ctx context.Context) ([]Target, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM records WHERE targets > 0 ORDER BY reference, subject`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Target, 0, 16)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := decode(payload)
		if err != nil {
			return nil, err
		}
		for _, m := range rec.Targets() {
			out = append(out, Target{Reference: rec.Reference, Subject: rec.Subject, Match: m})
		}
	}
	return out, rows.Err()
}

func decode(payload string) (protein.Record, error) {
	var rec protein.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return protein.Record{}, fmt.Errorf("error decoding record: %w", err)
	}
	return rec, nil
}

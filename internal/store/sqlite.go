package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/edgarscan/internal/model"
)

// SQLiteStore records run results in a SQLite database
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Run describes one recorded batch run
type Run struct {
	ID        string
	Command   string
	Form      model.FormType
	StartedAt time.Time
	Filings   int
	Failed    int
}

// ItemRow is one stored item result
type ItemRow struct {
	RunID      string
	FilingID   string
	Item       string
	Found      bool
	Strategy   string
	Address    string
	Flags      model.ItemFlags
	Indicators *model.Indicators
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	command TEXT NOT NULL,
	form TEXT NOT NULL,
	started_at TEXT NOT NULL,
	filings INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS filings (
	run_id TEXT NOT NULL,
	filing_id TEXT NOT NULL,
	address TEXT NOT NULL,
	form TEXT NOT NULL,
	any_exhibit_991 INTEGER NOT NULL DEFAULT 0,
	error TEXT,
	PRIMARY KEY(run_id, filing_id, address),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS items (
	run_id TEXT NOT NULL,
	filing_id TEXT NOT NULL,
	item TEXT NOT NULL,
	found INTEGER NOT NULL,
	strategy TEXT NOT NULL,
	address TEXT,
	mentions_exhibit_991 INTEGER NOT NULL DEFAULT 0,
	mentions_10k INTEGER NOT NULL DEFAULT 0,
	none_or_not_applicable INTEGER NOT NULL DEFAULT 0,
	counted INTEGER NOT NULL DEFAULT 0,
	trigger_fired INTEGER,
	general_word_count INTEGER,
	general_sentence_count INTEGER,
	entity_word_count INTEGER,
	entity_sentence_count INTEGER,
	total_word_count INTEGER,
	total_sentence_count INTEGER,
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_run_filing ON items(run_id, filing_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *SQLiteStore) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// SaveRun stores all results of a batch run in one transaction and returns
// the run id
func (s *SQLiteStore) SaveRun(ctx context.Context, command string, form model.FormType, results []*model.FilingResult) (string, error) {
	started := time.Now().UTC()
	runID := s.newID(started)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, command, form, started_at, filings, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, command, string(form), started.Format(time.RFC3339), len(results), failed,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	filingStmt, err := tx.PrepareContext(ctx, `
INSERT OR REPLACE INTO filings (run_id, filing_id, address, form, any_exhibit_991, error)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() { _ = filingStmt.Close() }()

	itemStmt, err := tx.PrepareContext(ctx, `
INSERT INTO items (
	run_id, filing_id, item, found, strategy, address,
	mentions_exhibit_991, mentions_10k, none_or_not_applicable, counted,
	trigger_fired, general_word_count, general_sentence_count,
	entity_word_count, entity_sentence_count, total_word_count, total_sentence_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() { _ = itemStmt.Close() }()

	for _, r := range results {
		var errText sql.NullString
		if r.Err != nil {
			errText = sql.NullString{String: r.Err.Error(), Valid: true}
		}
		if _, err := filingStmt.ExecContext(ctx,
			runID, r.Filing.ID, r.Filing.Address, string(r.Filing.Form), r.AnyExhibit991, errText,
		); err != nil {
			return "", fmt.Errorf("insert filing %s: %w", r.Filing.ID, err)
		}

		for _, it := range r.Items {
			args := []any{
				runID, r.Filing.ID, it.Name, it.Found, it.Strategy.String(), it.Address,
				it.Flags.MentionsExhibit991, it.Flags.Mentions10K, it.Flags.NoneOrNotApplicable,
				it.Indicators != nil,
			}
			if in := it.Indicators; in != nil {
				args = append(args, in.Trigger, in.GeneralWordCount, in.GeneralSentenceCount,
					in.EntityWordCount, in.EntitySentenceCount, in.TotalWordCount, in.TotalSentenceCount)
			} else {
				args = append(args, nil, nil, nil, nil, nil, nil, nil)
			}
			if _, err := itemStmt.ExecContext(ctx, args...); err != nil {
				return "", fmt.Errorf("insert item %s/%s: %w", r.Filing.ID, it.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// Runs lists recorded runs, newest first
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, form, started_at, filings, failed FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		var form, started string
		if err := rows.Scan(&run.ID, &run.Command, &form, &started, &run.Filings, &run.Failed); err != nil {
			return nil, err
		}
		run.Form = model.FormType(form)
		if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parse run time: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Items returns the item rows of a run ordered by filing and item
func (s *SQLiteStore) Items(ctx context.Context, runID string) ([]ItemRow, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, filing_id, item, found, strategy, COALESCE(address, ''),
	mentions_exhibit_991, mentions_10k, none_or_not_applicable, counted,
	COALESCE(trigger_fired, 0), COALESCE(general_word_count, 0), COALESCE(general_sentence_count, 0),
	COALESCE(entity_word_count, 0), COALESCE(entity_sentence_count, 0),
	COALESCE(total_word_count, 0), COALESCE(total_sentence_count, 0)
FROM items WHERE run_id = ? ORDER BY filing_id, item`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ItemRow
	for rows.Next() {
		var row ItemRow
		var counted bool
		var in model.Indicators
		if err := rows.Scan(
			&row.RunID, &row.FilingID, &row.Item, &row.Found, &row.Strategy, &row.Address,
			&row.Flags.MentionsExhibit991, &row.Flags.Mentions10K, &row.Flags.NoneOrNotApplicable, &counted,
			&in.Trigger, &in.GeneralWordCount, &in.GeneralSentenceCount,
			&in.EntityWordCount, &in.EntitySentenceCount, &in.TotalWordCount, &in.TotalSentenceCount,
		); err != nil {
			return nil, err
		}
		if counted {
			row.Indicators = &in
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/scholarly"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ scholarly.ResultWriter = (*ResultStore)(nil)

// Run is one persisted snapshot of a harvest's ranked results.
type Run struct {
	ID        string
	Query     string
	Records   int
	CreatedAt time.Time
}

// ResultStore persists ranked result sets. Every WriteResults call stores
// a new run, so checkpoints taken during a harvest are kept side by side.
type ResultStore struct {
	db    *DB
	query string
}

// NewResultStore creates a ResultStore labelling its runs with query.
func NewResultStore(db *DB, query string) *ResultStore {
	return &ResultStore{db: db, query: query}
}

// hashRecord computes the xxHash of a record's fields as a hex string.
// Equal records hash equally, so repeated entries can be found by query.
func hashRecord(r *scholarly.Record) string {
	h := xxhash.New()
	for _, field := range []string{r.Title, r.Link, r.Document, strconv.Itoa(r.Citations), r.Year.String()} {
		_, _ = h.WriteString(field)
		_, _ = h.Write([]byte{0})
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, h.Sum64())
	return hex.EncodeToString(b)
}

// WriteResults stores records, in order, as a new run.
func (s *ResultStore) WriteResults(ctx context.Context, records []*scholarly.Record) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	runID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, query, record_count, created_at)
		VALUES (?, ?, ?, ?)
	`, runID, s.query, len(records), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, position, title, link, citations, document, year, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		var year sql.NullInt64
		if r.Year.Known() {
			year = sql.NullInt64{Int64: int64(r.Year), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, i, r.Title, r.Link, r.Citations, r.Document, year, hashRecord(r)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRuns returns stored runs, newest first. A limit of zero returns all.
func (s *ResultStore) FindRuns(ctx context.Context, limit, offset int) ([]*Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, query, record_count, created_at FROM runs ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Query, &run.Records, &createdAt); err != nil {
			return nil, err
		}
		if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// FindRecords returns the records of a run in ranked order.
func (s *ResultStore) FindRecords(ctx context.Context, runID string) ([]*scholarly.Record, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE id = ?", runID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, scholarly.Errorf(scholarly.ENOTFOUND, "run not found")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT title, link, citations, document, year
		FROM records
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*scholarly.Record{}
	for rows.Next() {
		var r scholarly.Record
		var year sql.NullInt64
		if err := rows.Scan(&r.Title, &r.Link, &r.Citations, &r.Document, &year); err != nil {
			return nil, err
		}
		r.Year = scholarly.YearUnknown
		if year.Valid {
			r.Year = scholarly.Year(year.Int64)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// CountDuplicates returns how many records of a run repeat an earlier
// record of the same run.
func (s *ResultStore) CountDuplicates(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) - COUNT(DISTINCT content_hash) FROM records WHERE run_id = ?
	`, runID).Scan(&n)
	return n, err
}

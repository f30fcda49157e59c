package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"coderdist/internal/services"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrAmbiguousRun reports a run ID prefix matching more than one run.
var ErrAmbiguousRun = errors.New("ambiguous run id")

// Run is one recorded distribution.
type Run struct {
	ID               string
	Status           Status
	CreatedAt        time.Time
	FinishedAt       time.Time
	Seed             uint64
	Coders           int
	CodersPerArticle int
	FirstID          int
	Articles         int
	Assignments      int
	Shortfalls       int
	CorpusDir        string
	OutputDir        string
	ErrorMessage     string
}

// Assignment is one (ID, coder) pairing of a run.
type Assignment struct {
	ID     int
	Coder  int
	Title  string
	Source string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

const runColumns = "id, status, created_at, finished_at, seed, coders, coders_per_article, first_id, articles, assignments, shortfalls, corpus_dir, output_dir, error_message"

// RecordRun stores run and its assignments in one transaction. An empty
// run.ID is filled with a new identifier; CreatedAt defaults to now.
func (s *Store) RecordRun(ctx context.Context, run *Run, assignments []Assignment) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.Status == "" {
		run.Status = StatusStarted
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Assignments = len(assignments)

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			string(run.Status),
			run.CreatedAt.UTC().Format(timeLayout),
			nullableTime(run.FinishedAt),
			strconv.FormatUint(run.Seed, 10),
			run.Coders,
			run.CodersPerArticle,
			run.FirstID,
			run.Articles,
			run.Assignments,
			run.Shortfalls,
			run.CorpusDir,
			run.OutputDir,
			nullableString(run.ErrorMessage),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO assignments (run_id, assignment_id, coder, title, source) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare assignment insert: %w", err)
		}
		defer stmt.Close()
		for _, a := range assignments {
			if _, err := stmt.ExecContext(ctx, run.ID, a.ID, a.Coder, a.Title, a.Source); err != nil {
				return fmt.Errorf("insert assignment %d: %w", a.ID, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
}

// FinishRun marks a run completed or failed.
func (s *Store) FinishRun(ctx context.Context, id string, status Status, errMsg string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, error_message = ? WHERE id = ?`,
		string(status),
		time.Now().UTC().Format(timeLayout),
		nullableString(errMsg),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return services.Wrap(services.ErrNotFound, "ledger", "finish run", id, nil)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by full ID or by a prefix matching exactly one run.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	if idOrPrefix == "" {
		return nil, services.Wrap(services.ErrValidation, "ledger", "get run", "run id required", nil)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`,
		idOrPrefix, escapeLike(idOrPrefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.ID == idOrPrefix {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, services.Wrap(services.ErrNotFound, "ledger", "get run", idOrPrefix, nil)
	case 1:
		return found[0], nil
	default:
		return nil, services.Wrap(services.ErrValidation, "ledger", "get run", idOrPrefix, ErrAmbiguousRun)
	}
}

// Assignments returns the assignments of a run in ID order.
func (s *Store) Assignments(ctx context.Context, runID string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT assignment_id, coder, title, source FROM assignments WHERE run_id = ? ORDER BY assignment_id`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.Coder, &a.Title, &a.Source); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		createdRaw  string
		finishedRaw sql.NullString
		seedRaw     string
		errorMsg    sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&status,
		&createdRaw,
		&finishedRaw,
		&seedRaw,
		&run.Coders,
		&run.CodersPerArticle,
		&run.FirstID,
		&run.Articles,
		&run.Assignments,
		&run.Shortfalls,
		&run.CorpusDir,
		&run.OutputDir,
		&errorMsg,
	); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.CreatedAt = parseTime(createdRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	seed, err := strconv.ParseUint(seedRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse seed %q: %w", seedRaw, err)
	}
	run.Seed = seed
	run.ErrorMessage = errorMsg.String
	return &run, nil
}

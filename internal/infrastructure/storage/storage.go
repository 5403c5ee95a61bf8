package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/eburton/receiptmatch/internal/domain/splitter"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store persists reconciliation runs and match proposals in sqlite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dbPath and applies
// pending migrations.
func NewStore(dbPath string) (*Store, error) {
	// The pragma goes in the DSN so every pooled connection enforces
	// foreign keys, not just the first one.
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun starts a new reconciliation run record.
func (s *Store) CreateRun(dryRun bool) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		DryRun:    dryRun,
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, started_at, dry_run) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt, run.DryRun,
	)
	if err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}
	return run, nil
}

// FinishRun stamps the run finished and records its counters.
func (s *Store) FinishRun(run *Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	_, err := s.db.Exec(
		`UPDATE runs
		 SET finished_at = ?, transaction_count = ?, matched_count = ?,
		     unmatched_count = ?, skipped_count = ?
		 WHERE id = ?`,
		run.FinishedAt, run.TransactionCount, run.MatchedCount,
		run.UnmatchedCount, run.SkippedCount, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun loads a single run by id.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, started_at, finished_at, transaction_count, matched_count,
		        unmatched_count, skipped_count, dry_run
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return run, err
}

// ListRuns returns runs, newest first.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := `SELECT id, started_at, finished_at, transaction_count, matched_count,
	                 unmatched_count, skipped_count, dry_run
	          FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveProposal inserts a proposal, assigning its id and created_at.
func (s *Store) SaveProposal(p *Proposal) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = StatusProposed
	}
	p.CreatedAt = time.Now().UTC()

	splitsJSON, err := json.Marshal(p.Splits)
	if err != nil {
		return fmt.Errorf("encoding splits: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO proposals (id, run_id, transaction_id, transaction_date,
		        account, payee, amount_cents, method, confidence,
		        matched_total_cents, unmatched_cents, message, splits_json,
		        status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.RunID, p.TransactionID, p.TransactionDate,
		p.Account, p.Payee, int64(p.AmountCents), p.Method, p.Confidence,
		int64(p.MatchedTotalCents), int64(p.UnmatchedCents), p.Message,
		string(splitsJSON), p.Status, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving proposal for transaction %s: %w", p.TransactionID, err)
	}
	return nil
}

// GetProposal loads a single proposal by id.
func (s *Store) GetProposal(id string) (*Proposal, error) {
	row := s.db.QueryRow(selectProposal+` WHERE id = ?`, id)
	p, err := scanProposal(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	return p, err
}

// ListProposals returns proposals matching the filter, newest first.
func (s *Store) ListProposals(filter ProposalFilter) ([]*Proposal, error) {
	var conds []string
	var args []any
	if filter.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}

	query := selectProposal
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

// UpdateProposalStatus records a review decision.
func (s *Store) UpdateProposalStatus(id, status string) error {
	switch status {
	case StatusProposed, StatusAccepted, StatusRejected, StatusNoMatch:
	default:
		return fmt.Errorf("invalid proposal status %q", status)
	}

	res, err := s.db.Exec(
		`UPDATE proposals SET status = ?, reviewed_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating proposal %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	return nil
}

// Stats aggregates stored proposals for the review dashboard.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{
		ByStatus: make(map[string]int),
		ByMethod: make(map[string]int),
	}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(matched_total_cents), 0), COALESCE(AVG(confidence), 0)
		 FROM proposals`,
	).Scan(&stats.TotalProposals, &stats.TotalMatched, &stats.AvgConfidence)
	if err != nil {
		return nil, fmt.Errorf("aggregating proposals: %w", err)
	}

	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM proposals GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	methodRows, err := s.db.Query(`SELECT method, COUNT(*) FROM proposals GROUP BY method`)
	if err != nil {
		return nil, fmt.Errorf("counting by method: %w", err)
	}
	defer methodRows.Close()
	for methodRows.Next() {
		var method string
		var count int
		if err := methodRows.Scan(&method, &count); err != nil {
			return nil, err
		}
		stats.ByMethod[method] = count
	}
	return stats, methodRows.Err()
}

const selectProposal = `
	SELECT id, run_id, transaction_id, transaction_date, account, payee,
	       amount_cents, method, confidence, matched_total_cents,
	       unmatched_cents, message, splits_json, status, created_at,
	       reviewed_at
	FROM proposals`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
		&run.TransactionCount, &run.MatchedCount, &run.UnmatchedCount,
		&run.SkippedCount, &run.DryRun)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func scanProposal(row rowScanner) (*Proposal, error) {
	var p Proposal
	var splitsJSON string
	err := row.Scan(&p.ID, &p.RunID, &p.TransactionID, &p.TransactionDate,
		&p.Account, &p.Payee, &p.AmountCents, &p.Method, &p.Confidence,
		&p.MatchedTotalCents, &p.UnmatchedCents, &p.Message, &splitsJSON,
		&p.Status, &p.CreatedAt, &p.ReviewedAt)
	if err != nil {
		return nil, err
	}
	if splitsJSON != "" {
		if err := json.Unmarshal([]byte(splitsJSON), &p.Splits); err != nil {
			return nil, fmt.Errorf("decoding splits for proposal %s: %w", p.ID, err)
		}
	}
	if p.Splits == nil {
		p.Splits = []splitter.SplitEdit{}
	}
	return &p, nil
}

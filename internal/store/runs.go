package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sjellis/flowconv/internal/convert"
)

// Run is one recorded conversion: the pass/fail summary an external harness
// consumes, plus the full report for anything that wants detail.
type Run struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Source         string    `json:"source"`
	Success        bool      `json:"success"`
	ErrorCount     int       `json:"error_count"`
	WarningCount   int       `json:"warning_count"`
	ProcessedNodes int       `json:"processed_nodes"`
	SkippedNodes   int       `json:"skipped_nodes"`
	TotalNodes     int       `json:"total_nodes"`
	ReportJSON     string    `json:"report_json"`
}

// SaveRun records a conversion report under a fresh time-ordered id and
// returns the stored record.
func (s *Store) SaveRun(ctx context.Context, source string, report *convert.Report) (*Run, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("save run: marshal report: %w", err)
	}

	run := &Run{
		ID:             uuid.Must(uuid.NewV7()).String(),
		CreatedAt:      time.Now().UTC().Truncate(time.Millisecond),
		Source:         source,
		Success:        report.Success,
		ErrorCount:     len(report.Errors),
		WarningCount:   len(report.Warnings),
		ProcessedNodes: report.ProcessedNodes,
		SkippedNodes:   report.SkippedNodes,
		TotalNodes:     report.TotalNodes,
		ReportJSON:     string(reportJSON),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, source, success, error_count, warning_count,
		 processed_nodes, skipped_nodes, total_nodes, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.Format(time.RFC3339Nano),
		run.Source,
		boolToInt(run.Success),
		run.ErrorCount,
		run.WarningCount,
		run.ProcessedNodes,
		run.SkippedNodes,
		run.TotalNodes,
		run.ReportJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

// GetRun returns the record with the given id, or sql.ErrNoRows wrapped in
// a descriptive error when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, source, success, error_count, warning_count,
		       processed_nodes, skipped_nodes, total_nodes, report_json
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit records, newest first. limit <= 0 means no
// limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, source, success, error_count, warning_count,
		       processed_nodes, skipped_nodes, total_nodes, report_json
		FROM runs ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
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
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	var success int
	if err := row.Scan(
		&run.ID, &createdAt, &run.Source, &success,
		&run.ErrorCount, &run.WarningCount,
		&run.ProcessedNodes, &run.SkippedNodes, &run.TotalNodes,
		&run.ReportJSON,
	); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t
	run.Success = success != 0
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

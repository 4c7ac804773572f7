package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// RunReport is the archived summary of one batch run.
type RunReport struct {
	OperationID   string          `json:"operationId"`
	OperationType string          `json:"operationType"`
	TotalItems    int             `json:"totalItems"`
	SuccessCount  int             `json:"successCount"`
	FailureCount  int             `json:"failureCount"`
	Duration      time.Duration   `json:"duration"`
	CompletedAt   time.Time       `json:"completedAt"`
	Results       json.RawMessage `json:"results"`
}

func (s *SQLiteStore) SaveRunReport(ctx context.Context, report RunReport) error {
	results := report.Results
	if len(results) == 0 {
		results = json.RawMessage("[]")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_reports (
			operation_id, operation_type, total_items, success_count, failure_count, duration_ms, completed_at, results_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(operation_id) DO UPDATE SET
			operation_type=excluded.operation_type,
			total_items=excluded.total_items,
			success_count=excluded.success_count,
			failure_count=excluded.failure_count,
			duration_ms=excluded.duration_ms,
			completed_at=excluded.completed_at,
			results_json=excluded.results_json`,
		report.OperationID,
		report.OperationType,
		report.TotalItems,
		report.SuccessCount,
		report.FailureCount,
		report.Duration.Milliseconds(),
		report.CompletedAt.UTC(),
		string(results),
	)
	return err
}

func (s *SQLiteStore) GetRunReport(ctx context.Context, operationID string) (RunReport, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT operation_id, operation_type, total_items, success_count, failure_count, duration_ms, completed_at, results_json
		 FROM run_reports
		 WHERE operation_id = ?`,
		operationID,
	)
	report, err := scanRunReport(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunReport{}, false, nil
		}
		return RunReport{}, false, err
	}
	return report, true, nil
}

// ListRunReports returns the most recent runs first, capped at limit
// (or all runs when limit <= 0).
func (s *SQLiteStore) ListRunReports(ctx context.Context, limit int) ([]RunReport, error) {
	query := `SELECT operation_id, operation_type, total_items, success_count, failure_count, duration_ms, completed_at, results_json
		 FROM run_reports
		 ORDER BY completed_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]RunReport, 0)
	for rows.Next() {
		report, err := scanRunReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		ret = append(ret, report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func scanRunReport(scan func(dest ...any) error) (RunReport, error) {
	var report RunReport
	var durationMs int64
	var resultsJSON string
	if err := scan(
		&report.OperationID,
		&report.OperationType,
		&report.TotalItems,
		&report.SuccessCount,
		&report.FailureCount,
		&durationMs,
		&report.CompletedAt,
		&resultsJSON,
	); err != nil {
		return RunReport{}, err
	}
	report.Duration = time.Duration(durationMs) * time.Millisecond
	report.Results = json.RawMessage(resultsJSON)
	return report, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"pipewatch/internal/store"
)

// foreignKeyViolation is the PostgreSQL error code for a missing referenced row.
const foreignKeyViolation = "23503"

func (s *Store) RecordExecution(ctx context.Context, execution *store.Execution) error {
	query := `
		INSERT INTO executions (pipeline_id, status, start_time, end_time, logs)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		execution.PipelineID, execution.Status,
		execution.StartTime, execution.EndTime, execution.Logs,
	).Scan(&execution.ID, &execution.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return store.ErrNotFound
	}

	return err
}

func (s *Store) ListExecutions(ctx context.Context, pipelineID int64, limit, offset int) ([]store.Execution, error) {
	query := `
		SELECT id, pipeline_id, status, start_time, end_time, logs, created_at
		FROM executions
		WHERE pipeline_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, pipelineID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var executions []store.Execution
	for rows.Next() {
		var e store.Execution
		if err := rows.Scan(
			&e.ID, &e.PipelineID, &e.Status,
			&e.StartTime, &e.EndTime, &e.Logs, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		executions = append(executions, e)
	}

	return executions, rows.Err()
}

func (s *Store) GetExecutionLogs(ctx context.Context, executionID int64) (string, error) {
	query := `SELECT logs FROM executions WHERE id = $1`

	var logs string
	err := s.db.QueryRowContext(ctx, query, executionID).Scan(&logs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return logs, nil
}

// ComputeMetrics aggregates executions whose end time falls inside the
// trailing window. NULLIF keeps the success-rate division from failing on
// an empty window; the aggregates come back as SQL NULL instead.
//
// last_build_status is taken from the most recent execution regardless of
// the window, see store.MetricsSnapshot.
func (s *Store) ComputeMetrics(ctx context.Context, pipelineID int64, window time.Duration) (*store.MetricsSnapshot, error) {
	query := `
		SELECT
			COUNT(CASE WHEN status = 'success' THEN 1 END)::float / NULLIF(COUNT(*), 0)::float AS success_rate,
			FLOOR(AVG(EXTRACT(EPOCH FROM (end_time - start_time))))::bigint AS avg_build_time,
			MAX(end_time) AS last_build_time,
			(SELECT status FROM executions WHERE pipeline_id = $1 ORDER BY end_time DESC LIMIT 1) AS last_build_status
		FROM executions
		WHERE pipeline_id = $1
		AND end_time > NOW() - make_interval(secs => $2)
	`

	var (
		successRate     sql.NullFloat64
		avgBuildTime    sql.NullInt64
		lastBuildTime   sql.NullTime
		lastBuildStatus sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, pipelineID, window.Seconds()).Scan(
		&successRate, &avgBuildTime, &lastBuildTime, &lastBuildStatus,
	)
	if err != nil {
		return nil, err
	}

	snapshot := &store.MetricsSnapshot{}
	if successRate.Valid {
		snapshot.SuccessRate = &successRate.Float64
	}
	if avgBuildTime.Valid {
		snapshot.AvgBuildTime = &avgBuildTime.Int64
	}
	if lastBuildTime.Valid {
		snapshot.LastBuildTime = &lastBuildTime.Time
	}
	if lastBuildStatus.Valid {
		snapshot.LastBuildStatus = &lastBuildStatus.String
	}

	return snapshot, nil
}

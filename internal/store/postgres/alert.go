package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"pipewatch/internal/store"
)

func (s *Store) ListAlertConfigs(ctx context.Context, pipelineID int64) ([]store.AlertConfig, error) {
	query := `
		SELECT id, pipeline_id, type, threshold, channels, created_at
		FROM alerts
		WHERE pipeline_id = $1
		ORDER BY id
	`
	return s.queryAlertConfigs(ctx, query, pipelineID)
}

func (s *Store) ListAllAlertConfigs(ctx context.Context) ([]store.AlertConfig, error) {
	query := `SELECT id, pipeline_id, type, threshold, channels, created_at FROM alerts ORDER BY id`
	return s.queryAlertConfigs(ctx, query)
}

func (s *Store) queryAlertConfigs(ctx context.Context, query string, args ...interface{}) ([]store.AlertConfig, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []store.AlertConfig
	for rows.Next() {
		var c store.AlertConfig
		if err := rows.Scan(
			&c.ID, &c.PipelineID, &c.Type, &c.Threshold,
			pq.Array(&c.Channels), &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}

	return configs, rows.Err()
}

func (s *Store) CreateAlertConfig(ctx context.Context, config *store.AlertConfig) error {
	query := `
		INSERT INTO alerts (pipeline_id, type, threshold, channels)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		config.PipelineID, config.Type, config.Threshold, pq.Array(config.Channels),
	).Scan(&config.ID, &config.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return store.ErrNotFound
	}

	return err
}

func (s *Store) UpdateAlertConfig(ctx context.Context, config *store.AlertConfig) error {
	query := `
		UPDATE alerts
		SET type = $1, threshold = $2, channels = $3
		WHERE id = $4
		RETURNING pipeline_id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		config.Type, config.Threshold, pq.Array(config.Channels), config.ID,
	).Scan(&config.PipelineID, &config.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	return err
}

func (s *Store) DeleteAlertConfig(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

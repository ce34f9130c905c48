package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pipewatch/internal/store"
)

func (s *Store) ListPipelines(ctx context.Context) ([]store.Pipeline, error) {
	query := `SELECT id, name, repository, created_at, updated_at FROM pipelines ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pipelines []store.Pipeline
	for rows.Next() {
		var p store.Pipeline
		if err := rows.Scan(&p.ID, &p.Name, &p.Repository, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pipelines = append(pipelines, p)
	}

	return pipelines, rows.Err()
}

func (s *Store) GetPipelineByID(ctx context.Context, id int64) (*store.Pipeline, error) {
	query := `SELECT id, name, repository, created_at, updated_at FROM pipelines WHERE id = $1`

	var p store.Pipeline
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Repository, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

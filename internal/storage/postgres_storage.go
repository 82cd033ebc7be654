package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"trailblog/internal/core/ports"
)

// PostgresStorage persists session tokens in Postgres, for deployments where
// the client runs on more than one host against the same session.
type PostgresStorage struct {
	Pool *pgxpool.Pool
}

func NewPostgresStorage(ctx context.Context, connStr string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database failed")
	}

	s := &PostgresStorage{Pool: pool}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

var _ ports.Storage = (*PostgresStorage)(nil)

func (s *PostgresStorage) initSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS session_tokens (
			name TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return errors.Wrap(err, "initializing session schema failed")
	}
	return nil
}

func (s *PostgresStorage) SaveToken(name, token string) error {
	_, err := s.Pool.Exec(context.Background(),
		`INSERT INTO session_tokens (name, token, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
		 ON CONFLICT (name) DO UPDATE SET token = $2, updated_at = CURRENT_TIMESTAMP`,
		name, token)
	return errors.Wrap(err, "saving token failed")
}

func (s *PostgresStorage) LoadToken(name string) (string, error) {
	var token string
	err := s.Pool.QueryRow(context.Background(),
		"SELECT token FROM session_tokens WHERE name = $1", name).Scan(&token)
	if err != nil {
		// No row means no session; the caller treats "" as logged out.
		return "", nil
	}
	return token, nil
}

func (s *PostgresStorage) ClearToken(name string) error {
	_, err := s.Pool.Exec(context.Background(),
		"DELETE FROM session_tokens WHERE name = $1", name)
	return errors.Wrap(err, "clearing token failed")
}

func (s *PostgresStorage) Close() {
	s.Pool.Close()
}

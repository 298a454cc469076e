package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clearview/vista/backend/pkg/database"
	"github.com/clearview/vista/backend/pkg/logger"
)

// PostgresStore keeps each document as a JSONB row keyed by name.
type PostgresStore struct {
	db  *database.DB
	log *logger.Logger
}

// NewPostgresStore ensures the documents table exists.
func NewPostgresStore(ctx context.Context, db *database.DB, log *logger.Logger) (*PostgresStore, error) {
	const ddl = `
		CREATE TABLE IF NOT EXISTS documents (
			key        TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &PostgresStore{db: db, log: log}, nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, key string, v interface{}) error {
	var body []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT body FROM documents WHERE key = $1`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// Put implements Store.
func (s *PostgresStore) Put(ctx context.Context, key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO documents (key, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET body = $2, updated_at = now()`,
		key, body)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.log.WithField("key", key).Debug("Document persisted")
	return nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Pool.Exec(ctx,
		`DELETE FROM documents WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT key FROM documents ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan document key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

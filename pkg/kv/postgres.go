package kv

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

var _ DB = (*pgxpool.Pool)(nil)

const (
	pgGet           = `SELECT value FROM kv_entries WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`
	pgSet           = `INSERT INTO kv_entries (key, value, updated_at, expires_at) VALUES ($1, $2, now(), $3) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now(), expires_at = EXCLUDED.expires_at`
	pgDelete        = `DELETE FROM kv_entries WHERE key = $1`
	pgDeleteExpired = `DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= now()`
)

// PostgresStore keeps values in the kv_entries table (see pkg/pg migrations).
// Expired rows are hidden from Get and removed by DeleteExpired.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	var v string
	if err := s.db.QueryRow(ctx, pgGet, key).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.db.Exec(ctx, pgSet, key, value, nil)
	return err
}

func (s *PostgresStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.db.Exec(ctx, pgSet, key, value, time.Now().Add(ttl))
	return err
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := s.db.Exec(ctx, pgDeleteExpired)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.db.Exec(ctx, pgDelete, key)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

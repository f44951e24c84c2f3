// Package postgres provides helpers for opening tuned PostgreSQL
// connection pools and applying schema migrations.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultConnMaxIdleTime = 5 * time.Minute
	defaultConnMaxLifetime = 30 * time.Minute
	defaultMaxIdleConns    = 5
	defaultMaxOpenConns    = 25
)

// Option tunes the connection pool of a freshly opened database handle.
type Option func(*sqlx.DB)

// WithConnMaxIdleTime limits how long a connection may sit idle in the pool.
func WithConnMaxIdleTime(d time.Duration) Option {
	return func(db *sqlx.DB) {
		db.SetConnMaxIdleTime(d)
	}
}

// WithConnMaxLifetime limits how long a connection may be reused.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *sqlx.DB) {
		db.SetConnMaxLifetime(d)
	}
}

// WithMaxIdleConns limits the number of idle connections kept in the pool.
func WithMaxIdleConns(n int) Option {
	return func(db *sqlx.DB) {
		db.SetMaxIdleConns(n)
	}
}

// WithMaxOpenConns limits the number of open connections to the database.
func WithMaxOpenConns(n int) Option {
	return func(db *sqlx.DB) {
		db.SetMaxOpenConns(n)
	}
}

func defaults() []Option {
	return []Option{
		WithConnMaxIdleTime(defaultConnMaxIdleTime),
		WithConnMaxLifetime(defaultConnMaxLifetime),
		WithMaxIdleConns(defaultMaxIdleConns),
		WithMaxOpenConns(defaultMaxOpenConns),
	}
}

// New connects to the database at dsn via the pgx stdlib driver and
// verifies the connection. Options override the default pool settings.
func New(ctx context.Context, dsn string, opts ...Option) (*sqlx.DB, error) {
	const op = "postgres.New"

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	for _, opt := range append(defaults(), opts...) {
		opt(db)
	}

	return db, nil
}

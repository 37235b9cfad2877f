// Package sqlx provides a SQL-backed Storage implementation using sqlx with
// a Postgres driver. ApplyDelta runs inside a transaction with a row lock so
// the badge decision is derived from the post-increment value.
package sqlx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"translatescore/core"
)

// Driver identifies the SQL dialect in use.
type Driver string

const DriverPostgres Driver = "postgres"

// Config holds SQL connection configuration.
type Config struct {
	Driver          Driver
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sensible defaults for a local Postgres.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverPostgres,
		DSN:             "postgres://localhost/translatescore?sslmode=disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Store implements engine.Storage over a user_reputation table.
type Store struct {
	db     *sqlx.DB
	driver Driver
}

// New opens a connection pool and verifies connectivity.
func New(cfg Config) (*Store, error) {
	db, err := sqlx.Connect(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return &Store{db: db, driver: cfg.Driver}, nil
}

// NewWithDB creates a Store using an existing sqlx handle (useful for testing).
func NewWithDB(db *sqlx.DB, driver Driver) *Store {
	return &Store{db: db, driver: driver}
}

// Close closes the underlying pool.
func (s *Store) Close() error { return s.db.Close() }

// EnsureSchema creates the user_reputation table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_reputation (
			user_id    TEXT PRIMARY KEY,
			points     BIGINT NOT NULL DEFAULT 0,
			badge      TEXT NOT NULL DEFAULT 'Novice Translator',
			push_token TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// ApplyDelta locks the user's row for the duration of the transaction and
// re-derives points and badge from the locked value.
func (s *Store) ApplyDelta(ctx context.Context, user core.UserID, delta int64) (core.Outcome, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.Outcome{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current struct {
		Points int64  `db:"points"`
		Badge  string `db:"badge"`
	}
	err = tx.GetContext(ctx, &current,
		`SELECT points, badge FROM user_reputation WHERE user_id = $1 FOR UPDATE`, user)
	exists := true
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
		current.Points = 0
		current.Badge = string(core.BadgeNovice)
	} else if err != nil {
		return core.Outcome{}, fmt.Errorf("failed to read user: %w", err)
	}

	out := core.Advance(current.Points, core.Badge(current.Badge), delta)

	if exists {
		if out.BadgeUpgraded {
			_, err = tx.ExecContext(ctx,
				`UPDATE user_reputation SET points = $2, badge = $3 WHERE user_id = $1`,
				user, out.Points, out.Badge)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE user_reputation SET points = $2 WHERE user_id = $1`,
				user, out.Points)
		}
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_reputation (user_id, points, badge) VALUES ($1, $2, $3)`,
			user, out.Points, out.Badge)
	}
	if err != nil {
		return core.Outcome{}, fmt.Errorf("failed to persist user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Outcome{}, fmt.Errorf("failed to commit: %w", err)
	}
	return out, nil
}

// GetUser returns the stored record or lazy defaults.
func (s *Store) GetUser(ctx context.Context, user core.UserID) (core.UserReputation, error) {
	var rep core.UserReputation
	err := s.db.GetContext(ctx, &rep,
		`SELECT user_id, points, badge, push_token FROM user_reputation WHERE user_id = $1`, user)
	if errors.Is(err, sql.ErrNoRows) {
		return core.NewUserReputation(user), nil
	}
	if err != nil {
		return core.UserReputation{}, fmt.Errorf("failed to read user: %w", err)
	}
	return rep, nil
}

// SetPushToken upserts only the token column.
func (s *Store) SetPushToken(ctx context.Context, user core.UserID, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_reputation (user_id, push_token) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET push_token = EXCLUDED.push_token`,
		user, token)
	if err != nil {
		return fmt.Errorf("failed to set push token: %w", err)
	}
	return nil
}

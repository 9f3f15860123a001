// Package postgres implements store.Store on a PostgreSQL kv table. The
// schema lives in embedded migrations applied on open.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/cinemap/internal/store"
)

// pingTimeout bounds the connectivity check made by Open.
const pingTimeout = 10 * time.Second

// Pool sizes the connection pool. A single graph document is read at
// startup and rewritten on change, so a handful of connections is plenty.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// DefaultPool is used by the cm CLI and server.
var DefaultPool = Pool{MaxOpen: 5, MaxIdle: 2, MaxLifetime: 5 * time.Minute}

func (p Pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxLifetime(p.MaxLifetime)
}

// PostgresStore is a store.Store backed by PostgreSQL.
type PostgresStore struct {
	db       *sql.DB
	migrator *migrate.Migrate
}

var _ store.Store = (*PostgresStore)(nil)

// Open connects to databaseURL, checks the server is reachable and brings
// the schema up to date.
func Open(ctx context.Context, databaseURL string, pool Pool) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pool.apply(db)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	m, err := newMigrator(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &PostgresStore{db: db, migrator: m}, nil
}

// SchemaVersion reports the applied migration version and whether the last
// migration left the schema dirty.
func (s *PostgresStore) SchemaVersion() (uint, bool, error) {
	v, dirty, err := s.migrator.Version()
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return v, dirty, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	return queryGet(ctx, s.db, key)
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	return querySet(ctx, s.db, key, value)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

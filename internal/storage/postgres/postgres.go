// Package postgres stores player snapshots in PostgreSQL through pgx and
// manages the schema with golang-migrate.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/litany/internal/config"
)

// Pool is a connected pgx pool sized from DatabaseConfig.
type Pool struct {
	db *pgxpool.Pool
}

// NewPool opens a pool and verifies it with one ping.
//
// Precondition: cfg passes config.Validate for the postgres store.
// Postcondition: on success the pool has answered a ping; on failure no
// connections are left open.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing dsn for %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	pc.MaxConns, pc.MinConns = cfg.MaxConns, cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.ConnConfig.RuntimeParams["application_name"] = "litany"

	db, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("opening pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("first ping: %w", err)
	}
	return &Pool{db: db}, nil
}

// Health pings the database, giving up after timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.db.Ping(ctx); err != nil {
		return fmt.Errorf("health ping: %w", err)
	}
	return nil
}

// Close releases every connection. The pool is unusable afterwards.
func (p *Pool) Close() { p.db.Close() }

// DB exposes the pgx pool to repositories.
func (p *Pool) DB() *pgxpool.Pool { return p.db }

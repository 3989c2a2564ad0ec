// Package testutil starts throwaway PostgreSQL databases for the snapshot
// store's integration tests.
package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/litany/internal/config"
	"github.com/cory-johannsen/litany/internal/storage/postgres"
)

const (
	postgresImage = "postgres:16-alpine"
	dbName        = "litany_test"
	dbUser        = "litany"
	dbPassword    = "litany"
)

// PostgresContainer is a running database container with a connected pool.
type PostgresContainer struct {
	Pool   *postgres.Pool
	Config config.DatabaseConfig
}

// NewPostgresContainer starts an empty PostgreSQL container for t. The
// container and pool are released when t finishes.
//
// The test is skipped under -short or when no container runtime is healthy.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests are skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	started := time.Now()

	ctr, err := testcontainers.Run(ctx, postgresImage,
		testcontainers.WithExposedPorts("5432/tcp"),
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       dbName,
			"POSTGRES_USER":     dbUser,
			"POSTGRES_PASSWORD": dbPassword,
		}),
		// postgres restarts once after initdb; the second ready line is the real one.
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("starting %s: %v", postgresImage, err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("resolving container host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("resolving mapped port: %v", err)
	}

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            dbUser,
		Password:        dbPassword,
		Name:            dbName,
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Minute,
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("connecting to %s:%d: %v", host, cfg.Port, err)
	}
	t.Cleanup(pool.Close)

	t.Logf("postgres ready at %s:%d in %s", host, cfg.Port, time.Since(started).Round(time.Millisecond))
	return &PostgresContainer{Pool: pool, Config: cfg}
}

// MigrationsDir returns the absolute path of the repository's migrations/.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// NewPool starts a container, migrates it to the latest schema with the
// same runner cmd/migrate uses, and returns its pool.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := NewPostgresContainer(t)
	res, err := postgres.Migrate(pc.Config.DSN(), MigrationsDir(), 0)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	t.Logf("schema at version %d", res.Version)
	return pc.Pool.DB()
}

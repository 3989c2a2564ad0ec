// Command migrate moves the snapshot store schema up or down.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/litany/internal/config"
	"github.com/cory-johannsen/litany/internal/observability"
	"github.com/cory-johannsen/litany/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dir := flag.String("dir", "migrations", "directory of SQL migration files")
	direction := flag.String("direction", "up", "up or down")
	steps := flag.Int("steps", 0, "versions to move; 0 means all")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging, "migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	started := time.Now()
	res, err := run(cfg.Database.DSN(), *dir, *direction, *steps)
	if err != nil {
		logger.Fatal("migration failed", zap.String("direction", *direction), zap.Error(err))
	}
	logger.Info("migration finished",
		zap.String("direction", *direction),
		zap.Uint("version", res.Version),
		zap.Bool("dirty", res.Dirty),
		zap.Bool("no_change", res.NoChange),
		zap.Duration("elapsed", time.Since(started)),
	)
}

func run(dsn, dir, direction string, steps int) (postgres.MigrationResult, error) {
	switch {
	case direction == "up":
		return postgres.Migrate(dsn, dir, steps)
	case direction == "down" && steps > 0:
		return postgres.Migrate(dsn, dir, -steps)
	case direction == "down":
		return postgres.MigrateDown(dsn, dir)
	}
	return postgres.MigrationResult{}, fmt.Errorf("direction %q: want up or down", direction)
}

// Package main provides the combat server binary that exposes encounters
// over gRPC to presentation clients.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/litany/internal/config"
	"github.com/cory-johannsen/litany/internal/game/dice"
	"github.com/cory-johannsen/litany/internal/gameserver"
	"github.com/cory-johannsen/litany/internal/observability"
	"github.com/cory-johannsen/litany/internal/server"
	"github.com/cory-johannsen/litany/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	contentDir := flag.String("content", "", "content root; overrides content.dir")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}

	logger, err := observability.NewLogger(cfg.Logging, cfg.Server.Name)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting combat server",
		zap.String("grpc_addr", cfg.GameServer.Addr()),
		zap.String("store", cfg.Server.Store),
	)

	catalogStart := time.Now()
	catalog, err := gameserver.LoadCatalog(cfg.Content)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("loaded content",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("classes", len(catalog.Classes)),
		zap.Int("skills", len(catalog.Skills.All())),
		zap.Int("enemies", len(catalog.Enemies.IDs())),
		zap.Duration("duration", time.Since(catalogStart)),
	)

	diceRoller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	lifecycle := server.NewLifecycle(logger)

	var store gameserver.SnapshotStore
	switch cfg.Server.Store {
	case config.StorePostgres:
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("connected to database", zap.Duration("duration", time.Since(dbStart)))
		store = postgres.NewSnapshotRepository(pool.DB())

		healthTicker := server.NewTickerService(30*time.Second, func(time.Time) {
			if err := pool.Health(ctx, 5*time.Second); err != nil {
				logger.Warn("database health check failed", zap.Error(err))
			}
		})
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: healthTicker.Start,
			StopFn: func() {
				healthTicker.Stop()
				pool.Close()
			},
		})
	default:
		store = gameserver.NewMemoryStore()
	}

	combatHandler := gameserver.NewCombatHandler(catalog, diceRoller, store, cfg.GameServer.ThinkDelay(), logger)
	playerHandler := gameserver.NewPlayerHandler(catalog, store, combatHandler, logger)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(gameserver.UnaryLoggingInterceptor(logger)))
	gameserver.RegisterCombatServiceServer(grpcServer, gameserver.NewCombatService(combatHandler, playerHandler))

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GameServer.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.GameServer.Addr(), err)
			}
			logger.Info("gRPC server listening",
				zap.String("addr", lis.Addr().String()),
			)
			return grpcServer.Serve(lis)
		},
		StopFn: func() {
			if !server.StopWithin(cfg.Server.ShutdownTimeout, grpcServer.GracefulStop, grpcServer.Stop) {
				logger.Warn("graceful stop timed out; in-flight calls were cancelled")
			}
		},
	})

	if ttl := cfg.GameServer.SessionTTL; ttl > 0 {
		lifecycle.Add("session-sweep", server.NewTickerService(ttl/2, func(now time.Time) {
			combatHandler.Sweep(ctx, now, ttl)
		}))
	}

	logger.Info("combat server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("grpc_addr", cfg.GameServer.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

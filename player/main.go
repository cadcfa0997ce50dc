// player/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	playerapi "github.com/Ftotnem/FIFA-SERVICES/player/api"
	"github.com/Ftotnem/FIFA-SERVICES/player/maintenance"
	"github.com/Ftotnem/FIFA-SERVICES/player/service"
	"github.com/Ftotnem/FIFA-SERVICES/player/store"
	"github.com/Ftotnem/FIFA-SERVICES/shared/api"
	"github.com/Ftotnem/FIFA-SERVICES/shared/cluster"
	"github.com/Ftotnem/FIFA-SERVICES/shared/config"
	mongodbu "github.com/Ftotnem/FIFA-SERVICES/shared/mongodb"
	redisu "github.com/Ftotnem/FIFA-SERVICES/shared/redis"
	"github.com/Ftotnem/FIFA-SERVICES/shared/registry"
)

func fatal(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}

func main() {
	// --- 1. Load Configuration ---
	cfg, err := config.LoadPlayerServiceConfig()
	if err != nil {
		fatal(slog.Default(), "Failed to load configuration", "error", err)
	}
	logger := config.NewLogger(cfg.CommonConfig).With("service", registry.PlayerServiceType)
	slog.SetDefault(logger)

	// --- 2. Connect to MongoDB ---
	mongoClient, err := mongodbu.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase, cfg.MongoDBConnectTimeout, logger)
	if err != nil {
		fatal(logger, "Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", "error", err)
			return
		}
		logger.Info("Disconnected from MongoDB.")
	}()

	// --- 3. Connect to Redis ---
	redisClient, err := redisu.NewRedisClient(cfg.RedisAddrs, cfg.RedisPassword, logger)
	if err != nil {
		fatal(logger, "Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis client", "error", err)
			return
		}
		logger.Info("Redis client closed.")
	}()

	// --- 4. Initialize Data Store ---
	playerStore := store.NewPlayerStore(mongoClient.Collection(cfg.MongoDBPlayersCollection), logger)

	// --- 5. Initialize Business Logic Services ---
	playerService := service.NewPlayerService(playerStore, logger)
	reviewService := service.NewReviewService(playerStore, logger)
	statsService := service.NewStatsService(playerStore, service.WithStatsLogger(logger))

	// --- 6. Initialize API Handlers ---
	playerAPIHandlers := playerapi.NewPlayerAPIHandlers(playerService, reviewService, statsService,
		cfg.PublicBaseURL, cfg.RequestTimeout, logger)

	// --- 7. Initialize and Start Service Registrar ---
	registrar := registry.NewServiceRegistrar(redisClient, registry.PlayerServiceType, &cfg.CommonConfig, logger)
	registrar.Start()
	defer registrar.Stop()

	// --- 8. Partition maintenance work across instances ---
	if cfg.MaintenanceEnabled {
		registryClient := registry.NewRegistryClient(redisClient, cfg.HeartbeatTTL, logger)
		assignment := cluster.NewServiceAssignmentManager(registryClient, registrar, cfg.HeartbeatInterval, logger)
		go assignment.Start()
		defer assignment.Stop()

		migrator := maintenance.NewMigrator(playerStore, assignment, cfg.MaintenanceInterval, logger)
		migrator.Start()
		defer migrator.Stop()
	} else {
		logger.Info("Document maintenance disabled")
	}

	// --- 9. Setup HTTP Server and Register Routes ---
	baseServer := api.NewBaseServer(cfg.ListenAddr, logger)
	playerAPIHandlers.RegisterRoutes(baseServer.Router)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- baseServer.Start()
	}()

	// --- 10. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info("Shutting down server...", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
	}
	logger.Info("Server gracefully stopped.")
}

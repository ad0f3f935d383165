package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/crazyroad-go/internal/config"
	"github.com/mcoot/crazyroad-go/internal/factory"
	"github.com/mcoot/crazyroad-go/internal/services/world"
	redisstorage "github.com/mcoot/crazyroad-go/internal/storage/redis"
	"github.com/mcoot/crazyroad-go/internal/web"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build factory config
	factoryCfg := factory.Config{
		Logger:       logger,
		StorageType:  cfg.StorageType,
		DataDir:      cfg.DataDir,
		WorldTuning:  worldTuning(cfg),
		TickInterval: tickInterval(cfg),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load persisted accounts and rankings
	app.Load(context.Background())

	// Create router
	router := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		Hub:            app.Hub,
		StaticDir:      cfg.StaticDir,
	})

	// Create server
	serverConfig := web.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := web.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start the simulation tick loop
	go app.GameController.Run(ctx)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// worldTuning maps the tuning file values onto the world service knobs
func worldTuning(cfg config.Config) world.Tuning {
	tuning := world.DefaultTuning()
	if cfg.Tuning.GrassCoinFloor > 0 {
		tuning.GrassCoinFloor = cfg.Tuning.GrassCoinFloor
	}
	if cfg.Tuning.RoadCoinFloor > 0 {
		tuning.RoadCoinFloor = cfg.Tuning.RoadCoinFloor
	}
	return tuning
}

// tickInterval maps the tuning file value onto the simulation tick period
func tickInterval(cfg config.Config) time.Duration {
	if cfg.Tuning.TickIntervalMs <= 0 {
		return 0
	}
	return time.Duration(cfg.Tuning.TickIntervalMs) * time.Millisecond
}

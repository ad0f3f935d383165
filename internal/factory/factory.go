package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/crazyroad-go/internal/dependencies/clock"
	"github.com/mcoot/crazyroad-go/internal/dependencies/random"
	"github.com/mcoot/crazyroad-go/internal/services/auth"
	"github.com/mcoot/crazyroad-go/internal/services/game"
	"github.com/mcoot/crazyroad-go/internal/services/ranking"
	"github.com/mcoot/crazyroad-go/internal/services/world"
	"github.com/mcoot/crazyroad-go/internal/storage"
	"github.com/mcoot/crazyroad-go/internal/storage/jsonfile"
	"github.com/mcoot/crazyroad-go/internal/storage/memory"
	redisstorage "github.com/mcoot/crazyroad-go/internal/storage/redis"
	"github.com/mcoot/crazyroad-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeJSONFile = "jsonfile"
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService    *auth.Service
	RankingService *ranking.Service
	World          *world.Service
	Hub            *ws.Hub
	GameController *game.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("jsonfile", "memory" or "redis")
	// If empty, defaults to "jsonfile"
	StorageType string
	// DataDir holds the JSON documents for the jsonfile backend
	DataDir string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// WorldTuning holds world population knobs; zero value means defaults
	WorldTuning world.Tuning
	// TickInterval overrides the simulation tick period; zero means default
	TickInterval time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeJSONFile
	}

	switch storageType {
	case StorageTypeJSONFile:
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = "data"
		}
		fileStore, err := jsonfile.New(dataDir)
		if err != nil {
			return nil, err
		}
		store = fileStore
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'jsonfile', 'memory' or 'redis'")
	}

	tuning := cfg.WorldTuning
	if tuning == (world.Tuning{}) {
		tuning = world.DefaultTuning()
	}

	gameCfg := game.DefaultConfig()
	if cfg.TickInterval > 0 {
		gameCfg.TickInterval = cfg.TickInterval
	}

	return newWithDependencies(store, clock.New(), random.New(), tuning, gameCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Store,
	clk clock.Clock,
	rnd random.Random,
	tuning world.Tuning,
	gameCfg game.Config,
	logger *slog.Logger,
) *App {
	authService := auth.New(store, clk, logger)
	rankingService := ranking.New(store, clk, logger)
	worldService := world.New(rnd, logger, tuning)
	hub := ws.NewHub(logger)
	gameController := game.NewController(authService, rankingService, worldService, clk, rnd, hub, logger, gameCfg)

	return &App{
		Store:          store,
		Clock:          clk,
		Random:         rnd,
		AuthService:    authService,
		RankingService: rankingService,
		World:          worldService,
		Hub:            hub,
		GameController: gameController,
	}
}

// Load reads the persisted documents into the services. Failures are logged
// inside the services; the app starts empty rather than refusing to serve.
func (a *App) Load(ctx context.Context) {
	a.AuthService.Load(ctx)
	a.RankingService.Load(ctx)
}

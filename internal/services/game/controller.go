package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/crazyroad-go/internal/dependencies/clock"
	"github.com/mcoot/crazyroad-go/internal/dependencies/random"
	"github.com/mcoot/crazyroad-go/internal/model"
	"github.com/mcoot/crazyroad-go/internal/services/auth"
	"github.com/mcoot/crazyroad-go/internal/services/ranking"
	"github.com/mcoot/crazyroad-go/internal/services/world"
)

// DefaultTickInterval is the fixed simulation tick period.
const DefaultTickInterval = 50 * time.Millisecond

// Config holds controller configuration.
type Config struct {
	TickInterval time.Duration
}

// DefaultConfig returns the standard tick configuration.
func DefaultConfig() Config {
	return Config{TickInterval: DefaultTickInterval}
}

// Controller is the authoritative session and simulation state machine. One
// mutex guards all shared state, so inbound command handlers and the tick
// body run strictly one at a time regardless of how many connection
// goroutines call in.
type Controller struct {
	mu sync.Mutex

	auth        *auth.Service
	ranking     *ranking.Service
	world       *world.Service
	clock       clock.Clock
	random      random.Random
	broadcaster Broadcaster
	logger      *slog.Logger

	cfg Config

	players         map[model.ConnID]*model.Player
	connected       int
	difficulty      int
	winnerAnnounced bool
	lastTick        time.Time
}

// NewController wires the session registry, world, and ranking engine behind
// a single lock.
func NewController(
	authService *auth.Service,
	rankingService *ranking.Service,
	worldService *world.Service,
	clk clock.Clock,
	rnd random.Random,
	broadcaster Broadcaster,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	return &Controller{
		auth:        authService,
		ranking:     rankingService,
		world:       worldService,
		clock:       clk,
		random:      rnd,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "game")),
		cfg:         cfg,
		players:     make(map[model.ConnID]*model.Player),
		difficulty:  1,
	}
}

// Join authenticates the connection and registers its player at the spawn
// point. On success the joining connection receives the full world snapshot
// and everyone else is told about the new player.
func (c *Controller) Join(ctx context.Context, connID model.ConnID, req model.JoinRequest) model.JoinResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	userID, displayName, err := c.auth.Authenticate(ctx, req.Username, req.Password, req.DisplayName)
	if err != nil {
		return model.JoinResult{OK: false, Error: err.Error()}
	}

	player := &model.Player{
		ID:         connID,
		UserID:     userID,
		Name:       displayName,
		AvatarData: req.AvatarData,
		WorldX:     model.SpawnX,
		WorldY:     model.SpawnY,
		Score:      0,
		Level:      0,
		JoinTime:   c.clock.Now().UnixMilli(),
	}
	c.players[connID] = player
	c.connected++

	c.logger.Info("player joined",
		slog.String("user_id", string(userID)),
		slog.String("conn_id", string(connID)),
		slog.Int("connected", c.connected))

	c.broadcaster.SendTo(connID, model.EventWorldConfig, model.WorldConfig{
		BlockHeight: model.BlockHeight,
		WorldHeight: model.WorldHeight,
		CheckpointY: model.CheckpointY,
	})

	c.world.EnsureStarterCoins()

	c.broadcaster.SendTo(connID, model.EventCurrentPlayers, c.players)
	c.broadcaster.SendTo(connID, model.EventCarsUpdate, c.world.Vehicles())
	c.broadcaster.SendTo(connID, model.EventCoinsUpdate, c.world.Coins())
	c.broadcaster.SendTo(connID, model.EventBestTimesUpdate, c.ranking.Leaderboard())
	c.broadcaster.SendTo(connID, model.EventSkinTiersUpdate, c.ranking.TierMap())

	c.broadcaster.BroadcastExcept(connID, model.EventNewPlayer, player)

	c.systemChat(fmt.Sprintf("Dificultad actual: nivel %d", c.difficulty))
	c.broadcaster.Broadcast(model.EventScoreBoard, c.scoreBoardLocked())

	return model.JoinResult{OK: true, UserID: userID, DisplayName: displayName}
}

// Move updates the player's authoritative position and handles checkpoint
// crossings: level-up, scoring, difficulty recomputation, win detection, and
// the reset back to spawn.
func (c *Controller) Move(ctx context.Context, connID model.ConnID, pos model.MoveRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	player, ok := c.players[connID]
	if !ok {
		return
	}

	player.WorldX = pos.WorldX
	player.WorldY = pos.WorldY

	if !c.winnerAnnounced && player.WorldY <= model.CheckpointY {
		player.Level++
		if player.Level > model.MaxLevel {
			player.Level = model.MaxLevel
		}
		player.Score++

		c.recalculateDifficulty()

		if !c.winnerAnnounced && player.Score >= model.WinPoints {
			c.winSequence(ctx, player)
		}

		c.resetPlayerPosition(player)
	}

	c.broadcaster.Broadcast(model.EventPlayerMoved, model.PlayerPosition{
		ID:     player.ID,
		WorldX: player.WorldX,
		WorldY: player.WorldY,
	})
	c.broadcaster.Broadcast(model.EventScoreBoard, c.scoreBoardLocked())
}

// Chat relays a trimmed chat line from a registered player.
func (c *Controller) Chat(connID model.ConnID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	player, ok := c.players[connID]
	trimmed := strings.TrimSpace(text)
	if !ok || trimmed == "" {
		return
	}

	c.broadcaster.Broadcast(model.EventChatMessage, model.ChatMessage{
		ID:   string(connID),
		Name: player.Name,
		Text: trimmed,
		Time: c.clock.Now().UnixMilli(),
	})
}

// Restart starts a new epoch. No-op unless a winner has been announced.
// Players keep their identities; scores, levels, run timers, and the world
// are reset.
func (c *Controller) Restart(connID model.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.winnerAnnounced {
		return
	}

	c.logger.Info("game restart requested", slog.String("conn_id", string(connID)))

	c.world.Reset()
	c.difficulty = 1
	c.winnerAnnounced = false

	now := c.clock.Now().UnixMilli()
	for _, player := range c.players {
		player.Score = 0
		player.Level = 0
		player.JoinTime = now
		c.resetPlayerPosition(player)
	}

	c.world.EnsureStarterCoins()

	c.systemChat("La partida se ha reiniciado. Nivel 1, todos al inicio.")
	c.broadcaster.Broadcast(model.EventCurrentPlayers, c.players)
	c.broadcaster.Broadcast(model.EventGameRestarted, model.GameRestarted{
		Message: "Nueva partida iniciada",
	})
	c.broadcaster.Broadcast(model.EventScoreBoard, c.scoreBoardLocked())
}

// Disconnect removes the connection's player. When the last player leaves,
// the whole world is torn down; otherwise the shared difficulty is
// recomputed without them.
func (c *Controller) Disconnect(connID model.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, hadPlayer := c.players[connID]
	delete(c.players, connID)

	if hadPlayer {
		c.connected = max(0, c.connected-1)
		c.logger.Info("player left",
			slog.String("conn_id", string(connID)),
			slog.Int("connected", c.connected))

		if c.connected == 0 {
			c.fullReset()
		} else {
			c.recalculateDifficulty()
		}
	}

	c.broadcaster.Broadcast(model.EventPlayerDisconnected, string(connID))
	c.broadcaster.Broadcast(model.EventScoreBoard, c.scoreBoardLocked())
}

// ScoreBoard returns the live score board, sorted for display.
func (c *Controller) ScoreBoard() []model.ScoreEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scoreBoardLocked()
}

// Leaderboard returns the persistent best-time leaderboard.
func (c *Controller) Leaderboard() []*model.RankingRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ranking.Leaderboard()
}

// Difficulty returns the current shared difficulty level.
func (c *Controller) Difficulty() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.difficulty
}

// PlayerCount returns the number of connected players.
func (c *Controller) PlayerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// scoreBoardLocked derives the score board: score descending, then level
// descending, then name ascending. Callers must hold the lock.
func (c *Controller) scoreBoardLocked() []model.ScoreEntry {
	entries := make([]model.ScoreEntry, 0, len(c.players))
	for _, p := range c.players {
		entries = append(entries, model.ScoreEntry{
			ID:    p.ID,
			Name:  p.Name,
			Score: roundScore(p.Score),
			Level: p.Level,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Level != entries[j].Level {
			return entries[i].Level > entries[j].Level
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// recalculateDifficulty derives the shared difficulty from the most advanced
// active player, clamped to [1, MaxLevel]. Callers must hold the lock.
func (c *Controller) recalculateDifficulty() {
	maxLevel := 1
	for _, p := range c.players {
		if p.Level > maxLevel {
			maxLevel = p.Level
		}
	}
	if maxLevel > model.MaxLevel {
		maxLevel = model.MaxLevel
	}
	c.difficulty = maxLevel
}

// winSequence announces the epoch winner exactly once: records the run in the
// rankings, then broadcasts the updated leaderboard, tier map, a celebratory
// chat line, and the gameOver event. Callers must hold the lock.
func (c *Controller) winSequence(ctx context.Context, player *model.Player) {
	c.winnerAnnounced = true

	c.ranking.RegisterWin(ctx, player)
	leaderboard := c.ranking.Leaderboard()
	c.broadcaster.Broadcast(model.EventBestTimesUpdate, leaderboard)
	c.broadcaster.Broadcast(model.EventSkinTiersUpdate, c.ranking.TierMap())

	c.logger.Info("winner announced",
		slog.String("user_id", string(player.UserID)),
		slog.Float64("score", player.Score),
		slog.Int("level", player.Level))

	c.systemChat(fmt.Sprintf("🏆 %s llegó a %.2f puntos y gana la partida", player.Name, player.Score))

	c.broadcaster.Broadcast(model.EventGameOver, model.GameOver{
		WinnerID:   player.ID,
		WinnerName: player.Name,
		Level:      player.Level,
		Score:      roundScore(player.Score),
		MaxLevel:   model.MaxLevel,
		BestTimes:  leaderboard,
	})
}

// fullReset tears down the whole world and every player record. Harder than
// Restart, which keeps player identities. Callers must hold the lock.
func (c *Controller) fullReset() {
	c.world.Reset()
	c.difficulty = 1
	c.winnerAnnounced = false
	c.players = make(map[model.ConnID]*model.Player)
	c.logger.Info("full world reset, no players connected")
}

// resetPlayerPosition moves a player back to the spawn point.
func (c *Controller) resetPlayerPosition(p *model.Player) {
	p.WorldX = model.SpawnX
	p.WorldY = model.SpawnY
}

// systemChat broadcasts a server-originated chat line. Callers must hold the
// lock.
func (c *Controller) systemChat(text string) {
	c.broadcaster.Broadcast(model.EventChatMessage, model.ChatMessage{
		ID:   model.SystemSenderID,
		Name: model.SystemSenderName,
		Text: text,
		Time: c.clock.Now().UnixMilli(),
	})
}

// roundScore rounds a score to two decimals for display. Internal win checks
// always use the unrounded value.
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}

package game

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/mcoot/crazyroad-go/internal/model"
)

// Vehicle spawn probability per tick: rises with difficulty, capped at 0.3.
func spawnProbability(difficulty int) float64 {
	level := min(difficulty, model.MaxLevel)
	return math.Min(0.1+float64(level-1)*0.02, 0.3)
}

// Run drives the fixed-interval tick loop until the context is canceled.
func (c *Controller) Run(ctx context.Context) {
	c.mu.Lock()
	c.lastTick = c.clock.Now()
	c.mu.Unlock()

	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	c.logger.Info("tick loop started", slog.Duration("interval", c.cfg.TickInterval))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("tick loop stopped")
			return
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// Tick advances the world by one step: vehicle spawn and motion, vehicle and
// coin collision checks, coin population maintenance, and the per-tick world
// snapshots pushed to every client. Vehicles only move while someone is
// connected; coins are maintained regardless.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	dt := now.Sub(c.lastTick)
	if c.lastTick.IsZero() || dt <= 0 {
		dt = c.cfg.TickInterval
	}
	c.lastTick = now

	if c.connected > 0 {
		if !c.winnerAnnounced && c.random.Float64() < spawnProbability(c.difficulty) {
			c.world.SpawnVehicle(c.difficulty)
		}
		c.world.UpdateVehicles(float64(dt.Milliseconds()), c.difficulty)
		c.checkVehicleCollisions()
	}

	c.broadcaster.Broadcast(model.EventCarsUpdate, c.world.Vehicles())

	c.world.EnsureCoinPopulation()
	c.checkCoinCollisions(ctx)
	c.broadcaster.Broadcast(model.EventCoinsUpdate, c.world.Coins())
}

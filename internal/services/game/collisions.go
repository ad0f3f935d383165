package game

import (
	"context"
	"math"
	"sort"

	"github.com/mcoot/crazyroad-go/internal/model"
	"github.com/mcoot/crazyroad-go/internal/services/world"
)

// Collision half extents. Hits use independent per-axis comparisons rather
// than true rectangle intersection.
const (
	playerHalf = 24.0
	coinRadius = 18.0
)

// checkVehicleCollisions resets every player overlapping a vehicle back to
// spawn. A player hit by several vehicles in one tick is reset once per hit,
// which is idempotent. Callers must hold the lock.
func (c *Controller) checkVehicleCollisions() {
	for _, p := range c.players {
		for _, v := range c.world.Vehicles() {
			if math.Abs(p.WorldY-v.WorldY) > model.BlockHeight {
				continue
			}
			dx := math.Abs(p.WorldX - v.WorldX)
			dy := math.Abs(p.WorldY - v.WorldY)
			if dx < world.VehicleHalfWidth+playerHalf && dy < world.VehicleHalfHeight+playerHalf {
				c.resetPlayerPosition(p)

				c.broadcaster.SendTo(p.ID, model.EventPlayerHit, model.PlayerPosition{
					ID:     p.ID,
					WorldX: p.WorldX,
					WorldY: p.WorldY,
				})
				c.broadcaster.Broadcast(model.EventPlayerMoved, model.PlayerPosition{
					ID:     p.ID,
					WorldX: p.WorldX,
					WorldY: p.WorldY,
				})
			}
		}
	}
}

// checkCoinCollisions awards each overlapped coin to exactly one player.
// When several players overlap the same coin in the same tick, the lowest
// connection id wins the tie. Callers must hold the lock.
func (c *Controller) checkCoinCollisions(ctx context.Context) {
	ids := c.sortedPlayerIDs()

	var collected []int
	for _, coin := range c.world.Coins() {
		var collector *model.Player
		for _, id := range ids {
			p := c.players[id]
			if math.Abs(p.WorldY-coin.WorldY) > model.BlockHeight {
				continue
			}
			dx := math.Abs(p.WorldX - coin.WorldX)
			dy := math.Abs(p.WorldY - coin.WorldY)
			if dx < coinRadius+playerHalf && dy < coinRadius+playerHalf {
				collector = p
				break
			}
		}
		if collector == nil {
			continue
		}

		collected = append(collected, coin.ID)
		collector.Score += coin.Value

		if !c.winnerAnnounced && collector.Score >= model.WinPoints {
			c.winSequence(ctx, collector)
		}

		c.broadcaster.Broadcast(model.EventScoreBoard, c.scoreBoardLocked())
	}

	for _, id := range collected {
		c.world.RemoveCoin(id)
	}
}

// sortedPlayerIDs returns connection ids in ascending order, the documented
// deterministic tie-break for coin collection.
func (c *Controller) sortedPlayerIDs() []model.ConnID {
	ids := make([]model.ConnID, 0, len(c.players))
	for id := range c.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

package game

import (
	"github.com/mcoot/crazyroad-go/internal/model"
)

// Tick tests, sharing the controller suite fixtures.

func (s *ControllerSuite) TestSpawnProbabilityScalesAndClamps() {
	s.InDelta(0.10, spawnProbability(1), 1e-9)
	s.InDelta(0.18, spawnProbability(5), 1e-9)
	s.InDelta(0.28, spawnProbability(10), 1e-9)
	s.InDelta(0.28, spawnProbability(15), 1e-9)
}

func (s *ControllerSuite) TestTickBroadcastsWorldSnapshots() {
	s.controller.Tick(s.ctx)

	s.Len(s.broadcaster.named(model.EventCarsUpdate), 1)
	s.Len(s.broadcaster.named(model.EventCoinsUpdate), 1)
}

func (s *ControllerSuite) TestTickMaintainsCoinsWithoutPlayers() {
	for i := 0; i < 10; i++ {
		s.controller.Tick(s.ctx)
	}

	grass, road := 0, 0
	for _, c := range s.world.Coins() {
		switch c.Type {
		case model.CoinGrass:
			grass++
		case model.CoinRoad:
			road++
		}
	}
	s.Equal(4, grass)
	s.Equal(3, road)
}

func (s *ControllerSuite) TestTickNoVehiclesWithoutPlayers() {
	s.random.QueueFloat64(0.0) // would pass the spawn roll
	s.controller.Tick(s.ctx)
	s.Empty(s.world.Vehicles())
}

func (s *ControllerSuite) TestTickSpawnsVehicleOnSuccessfulRoll() {
	s.join("conn_a", "alice")

	s.random.QueueFloat64(0.05) // spawn roll passes at difficulty 1
	s.controller.Tick(s.ctx)

	s.Len(s.world.Vehicles(), 1)
}

func (s *ControllerSuite) TestTickNoSpawnOnFailedRoll() {
	s.join("conn_a", "alice")

	s.random.QueueFloat64(0.95)
	s.controller.Tick(s.ctx)

	s.Empty(s.world.Vehicles())
}

func (s *ControllerSuite) TestTickNoSpawnAfterWin() {
	s.join("conn_a", "alice")
	for i := 0; i < model.WinPoints; i++ {
		s.cross("conn_a")
	}

	s.random.QueueFloat64(0.0)
	s.controller.Tick(s.ctx)

	s.Empty(s.world.Vehicles())
}

func (s *ControllerSuite) TestTickVehicleHitResetsPlayer() {
	s.join("conn_a", "alice")

	// Park the player on the first road band, just ahead of where a
	// rightward vehicle enters.
	player := s.controller.players["conn_a"]
	player.WorldX = -90
	player.WorldY = 280

	s.random.QueueFloat64(0.0) // spawn roll
	s.random.QueueIntn(0)      // first road band, y=280
	s.random.QueueFloat64(0.0) // rightward, enters at x=-100
	s.broadcaster.reset()

	s.controller.Tick(s.ctx)

	s.Equal(model.SpawnX, player.WorldX)
	s.Equal(model.SpawnY, player.WorldY)

	hits := s.broadcaster.named(model.EventPlayerHit)
	s.Require().Len(hits, 1)
	s.Equal(model.ConnID("conn_a"), hits[0].target)
	hit := hits[0].payload.(model.PlayerPosition)
	s.Equal(model.SpawnX, hit.WorldX)
	s.Equal(model.SpawnY, hit.WorldY)

	s.Require().NotEmpty(s.broadcaster.named(model.EventPlayerMoved))
}

func (s *ControllerSuite) TestTickCoinGoesToLowestConnIDOnTie() {
	s.join("conn_a", "alice")
	s.join("conn_b", "bob")

	// Both players stand on starter coin 1.
	coin := s.world.Coins()[0]
	for _, id := range []model.ConnID{"conn_a", "conn_b"} {
		s.controller.players[id].WorldX = coin.WorldX
		s.controller.players[id].WorldY = coin.WorldY
	}

	s.random.QueueFloat64(0.95) // no vehicle spawn
	s.controller.Tick(s.ctx)

	s.Equal(model.GrassCoinValue, s.controller.players["conn_a"].Score)
	s.Equal(0.0, s.controller.players["conn_b"].Score)
	s.False(s.world.RemoveCoin(coin.ID))
}

func (s *ControllerSuite) TestTickCoinCollectionCanWin() {
	s.join("conn_a", "alice")

	// One road coin short of the winning score.
	player := s.controller.players["conn_a"]
	player.Score = float64(model.WinPoints) - model.RoadCoinValue

	roadCoin := s.world.Coins()[2]
	s.Require().Equal(model.CoinRoad, roadCoin.Type)
	player.WorldX = roadCoin.WorldX
	player.WorldY = roadCoin.WorldY

	s.random.QueueFloat64(0.95)
	s.broadcaster.reset()
	s.controller.Tick(s.ctx)

	overs := s.broadcaster.named(model.EventGameOver)
	s.Require().Len(overs, 1)
	over := overs[0].payload.(model.GameOver)
	s.Equal(model.ConnID("conn_a"), over.WinnerID)
	s.Equal(float64(model.WinPoints), over.Score)
}

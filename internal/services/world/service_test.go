package world

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crazyroad-go/internal/dependencies/mocks"
	"github.com/mcoot/crazyroad-go/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random, slog.New(slog.DiscardHandler), DefaultTuning())
}

// SpawnVehicle tests

func (s *ServiceSuite) TestSpawnVehicleNormal() {
	s.random.QueueIntn(0)            // first road band
	s.random.QueueFloat64(0.7)       // direction roll: leftward
	s.random.QueueFloat64(0.5)       // base speed
	s.random.QueueFloat64(0.5)       // lane change timer

	v := s.service.SpawnVehicle(1)
	s.Require().NotNil(v)

	s.Equal(1, v.ID)
	s.Equal(model.VehicleNormal, v.Type)
	s.Equal(-1, v.Direction)
	s.Equal(900.0, v.WorldX)
	s.Equal(BandCenterY(3), v.WorldY)
	s.Equal(3, v.LaneIndex)
	s.InDelta(4.0, v.Speed, 1e-9) // base 3 + 0.5*2, level 1 factor
	s.InDelta(2000.0, v.LaneChangeTimer, 1e-9)
}

func (s *ServiceSuite) TestSpawnVehicleRightwardStartsOffLeftEdge() {
	s.random.QueueIntn(0)
	s.random.QueueFloat64(0.2) // direction roll: rightward

	v := s.service.SpawnVehicle(1)
	s.Require().NotNil(v)
	s.Equal(1, v.Direction)
	s.Equal(-100.0, v.WorldX)
}

func (s *ServiceSuite) TestSpawnVehicleSpeedScalesWithDifficulty() {
	s.random.QueueIntn(0)
	s.random.QueueFloat64(0.0) // direction
	s.random.QueueFloat64(0.1) // type roll: normal
	s.random.QueueFloat64(0.5) // base speed 4

	v := s.service.SpawnVehicle(10)
	s.Require().NotNil(v)
	s.Equal(model.VehicleNormal, v.Type)
	s.InDelta(4.0*1.45, v.Speed, 1e-9)
}

func (s *ServiceSuite) TestSpawnVehicleSpeedScalingClampsAtMaxLevel() {
	s.random.QueueIntn(0)
	s.random.QueueFloat64(0.0, 0.1, 0.5)

	v := s.service.SpawnVehicle(25)
	s.Require().NotNil(v)
	s.InDelta(4.0*1.45, v.Speed, 1e-9)
}

func (s *ServiceSuite) TestSpawnVehicleFastTypeAtMidDifficulty() {
	s.random.QueueIntn(0)
	s.random.QueueFloat64(0.0) // direction
	s.random.QueueFloat64(0.8) // type roll: fast
	s.random.QueueFloat64(0.5) // base speed 6.5

	v := s.service.SpawnVehicle(3)
	s.Require().NotNil(v)
	s.Equal(model.VehicleFast, v.Type)
	s.InDelta(6.5*1.1, v.Speed, 1e-9)
}

func (s *ServiceSuite) TestSpawnVehicleLaneChangerAtHighDifficulty() {
	s.random.QueueIntn(0)
	s.random.QueueFloat64(0.0) // direction
	s.random.QueueFloat64(0.9) // type roll: lane changer
	s.random.QueueFloat64(0.5) // base speed 5
	s.random.QueueFloat64(0.0) // timer 1000

	v := s.service.SpawnVehicle(5)
	s.Require().NotNil(v)
	s.Equal(model.VehicleLaneChanger, v.Type)
	s.InDelta(5.0*1.2, v.Speed, 1e-9)
	s.InDelta(1000.0, v.LaneChangeTimer, 1e-9)
}

func (s *ServiceSuite) TestSpawnVehicleNoLaneChangersBelowDifficultyFive() {
	for i := 0; i < 20; i++ {
		s.random.QueueIntn(0)
		s.random.QueueFloat64(0.0, 0.99, 0.5)
		v := s.service.SpawnVehicle(4)
		s.Require().NotNil(v)
		s.NotEqual(model.VehicleLaneChanger, v.Type)
	}
}

func (s *ServiceSuite) TestVehicleIDsAreMonotonic() {
	first := s.service.SpawnVehicle(1)
	second := s.service.SpawnVehicle(1)
	s.Equal(1, first.ID)
	s.Equal(2, second.ID)
}

// UpdateVehicles tests

func (s *ServiceSuite) TestUpdateVehiclesMovesByDirectedSpeed() {
	s.random.QueueIntn(0)
	s.random.QueueFloat64(0.2, 0.5) // rightward, base speed 4

	v := s.service.SpawnVehicle(1)
	s.Require().NotNil(v)
	start := v.WorldX

	s.service.UpdateVehicles(50, 1)
	s.InDelta(start+v.Speed, v.WorldX, 1e-9)
}

func (s *ServiceSuite) TestUpdateVehiclesPrunesOffscreen() {
	s.random.QueueIntn(0)
	s.random.QueueFloat64(0.2, 0.5) // rightward

	v := s.service.SpawnVehicle(1)
	s.Require().NotNil(v)

	// Drive it across the whole field and off the far edge.
	for i := 0; i < 400 && len(s.service.Vehicles()) > 0; i++ {
		s.service.UpdateVehicles(50, 1)
	}
	s.Empty(s.service.Vehicles())

	// Pruned ids are never reused.
	next := s.service.SpawnVehicle(1)
	s.Equal(2, next.ID)
}

func (s *ServiceSuite) TestLaneChangerSwitchesToAdjacentRoadBand() {
	s.random.QueueIntn(0)                      // band 3
	s.random.QueueFloat64(0.0, 0.9, 0.5, 0.0)  // rightward, lane changer, speed, timer 1000

	v := s.service.SpawnVehicle(5)
	s.Require().NotNil(v)
	s.Require().Equal(model.VehicleLaneChanger, v.Type)

	// Band 2 is grass, band 4 is road: the only candidate is band 4.
	s.service.UpdateVehicles(1500, 5)
	s.Equal(4, v.LaneIndex)
	s.Equal(BandCenterY(4), v.WorldY)
	s.InDelta(1000.0, v.LaneChangeTimer, 1e-9)
}

func (s *ServiceSuite) TestLaneChangerHoldsLaneBelowDifficultyFive() {
	s.random.QueueIntn(0)
	s.random.QueueFloat64(0.0, 0.9, 0.5, 0.0)

	v := s.service.SpawnVehicle(5)
	s.Require().NotNil(v)
	s.Require().Equal(model.VehicleLaneChanger, v.Type)

	s.service.UpdateVehicles(1500, 4)
	s.Equal(3, v.LaneIndex)
	s.Equal(BandCenterY(3), v.WorldY)
}

// Coin tests

func (s *ServiceSuite) TestEnsureStarterCoinsSeedsFixedSet() {
	s.service.EnsureStarterCoins()

	coins := s.service.Coins()
	s.Require().Len(coins, 3)

	grassY := model.SpawnY - model.BlockHeight
	roadY := model.SpawnY - model.BlockHeight*2

	s.Equal(1, coins[0].ID)
	s.Equal(320.0, coins[0].WorldX)
	s.Equal(grassY, coins[0].WorldY)
	s.Equal(model.GrassCoinValue, coins[0].Value)
	s.Equal(model.CoinGrass, coins[0].Type)

	s.Equal(2, coins[1].ID)
	s.Equal(480.0, coins[1].WorldX)
	s.Equal(grassY, coins[1].WorldY)

	s.Equal(3, coins[2].ID)
	s.Equal(400.0, coins[2].WorldX)
	s.Equal(roadY, coins[2].WorldY)
	s.Equal(model.RoadCoinValue, coins[2].Value)
	s.Equal(model.CoinRoad, coins[2].Type)
}

func (s *ServiceSuite) TestEnsureStarterCoinsNoopWhileAnyRemain() {
	s.service.EnsureStarterCoins()
	s.service.EnsureStarterCoins()
	s.Len(s.service.Coins(), 3)

	s.True(s.service.RemoveCoin(1))
	s.True(s.service.RemoveCoin(3))
	s.service.EnsureStarterCoins()
	s.Len(s.service.Coins(), 1) // coin 2 still live, no reseed

	s.True(s.service.RemoveCoin(2))
	s.service.EnsureStarterCoins()
	s.Len(s.service.Coins(), 3)
}

func (s *ServiceSuite) TestEnsureCoinPopulationSpawnsAtMostOnePerTypePerCall() {
	s.service.EnsureCoinPopulation()

	coins := s.service.Coins()
	s.Require().Len(coins, 2)
	s.Equal(model.CoinGrass, coins[0].Type)
	s.Equal(model.CoinRoad, coins[1].Type)

	// Random coin ids start above the reserved starter range.
	s.Equal(4, coins[0].ID)
	s.Equal(5, coins[1].ID)
}

func (s *ServiceSuite) TestEnsureCoinPopulationTopsUpToFloors() {
	for i := 0; i < 10; i++ {
		s.service.EnsureCoinPopulation()
	}

	grass, road := 0, 0
	for _, c := range s.service.Coins() {
		switch c.Type {
		case model.CoinGrass:
			grass++
		case model.CoinRoad:
			road++
		}
	}
	s.Equal(DefaultTuning().GrassCoinFloor, grass)
	s.Equal(DefaultTuning().RoadCoinFloor, road)
}

func (s *ServiceSuite) TestRandomCoinsLandOnMatchingBandsInsideMargins() {
	s.random.QueueIntn(0)      // first grass band
	s.random.QueueFloat64(0.0) // leftmost allowed x
	s.random.QueueIntn(0)      // first road band
	s.random.QueueFloat64(0.5)

	s.service.EnsureCoinPopulation()

	coins := s.service.Coins()
	s.Require().Len(coins, 2)

	s.Equal(BandCenterY(0), coins[0].WorldY)
	s.Equal(80.0, coins[0].WorldX)

	s.Equal(BandCenterY(3), coins[1].WorldY)
	s.Equal(400.0, coins[1].WorldX)
}

func (s *ServiceSuite) TestRemoveCoin() {
	s.service.EnsureStarterCoins()

	s.False(s.service.RemoveCoin(99))
	s.True(s.service.RemoveCoin(2))
	s.False(s.service.RemoveCoin(2))
	s.Len(s.service.Coins(), 2)
}

func (s *ServiceSuite) TestResetClearsWorldAndRestartsIDs() {
	s.service.SpawnVehicle(1)
	s.service.EnsureStarterCoins()
	s.service.EnsureCoinPopulation()

	s.service.Reset()
	s.Empty(s.service.Vehicles())
	s.Empty(s.service.Coins())

	v := s.service.SpawnVehicle(1)
	s.Equal(1, v.ID)

	s.service.EnsureCoinPopulation()
	s.Equal(4, s.service.Coins()[0].ID)
}

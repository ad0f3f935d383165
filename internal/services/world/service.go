package world

import (
	"log/slog"

	"github.com/mcoot/crazyroad-go/internal/dependencies/random"
	"github.com/mcoot/crazyroad-go/internal/model"
)

// Vehicle spawn and prune bounds. Vehicles enter just off-screen and are
// dropped once they leave a margin past the visible field.
const (
	spawnXRight = -100.0
	spawnXLeft  = 900.0
	pruneXMin   = -150.0
	pruneXMax   = 950.0
)

// Vehicle half extents used by collision checks.
const (
	VehicleHalfWidth  = 40.0
	VehicleHalfHeight = 25.0
)

// Lane-change countdown range for laneChanger vehicles, in milliseconds.
const (
	laneChangeTimerMin  = 1000.0
	laneChangeTimerSpan = 2000.0
)

// Horizontal margin kept clear of random coin spawns at both screen edges.
const coinEdgeMargin = 80.0

// Starter coin layout near the spawn point. Ids 1..starterCoinMaxID are
// reserved for the starter set; randomly spawned coins start counting above
// them.
const (
	starterGrassLeftX  = 320.0
	starterGrassRightX = 480.0
	starterRoadX       = 400.0
	starterCoinMaxID   = 3
)

// Tuning holds the adjustable world-population knobs.
type Tuning struct {
	GrassCoinFloor int
	RoadCoinFloor  int
}

// DefaultTuning returns the standard coin population floors.
func DefaultTuning() Tuning {
	return Tuning{
		GrassCoinFloor: 4,
		RoadCoinFloor:  3,
	}
}

// Service owns the live vehicle and coin sets. IDs are monotonic and never
// reused within an epoch.
//
// Not safe for concurrent use; the game controller serializes all access.
type Service struct {
	random random.Random
	logger *slog.Logger
	tuning Tuning

	vehicles      []*model.Vehicle
	coins         []*model.Coin
	nextVehicleID int
	nextCoinID    int
}

// New creates an empty world.
func New(rnd random.Random, logger *slog.Logger, tuning Tuning) *Service {
	return &Service{
		random:        rnd,
		logger:        logger.With(slog.String("component", "world")),
		tuning:        tuning,
		nextVehicleID: 1,
		nextCoinID:    starterCoinMaxID + 1,
	}
}

// Vehicles returns the live vehicle set. The slice is owned by the service.
func (s *Service) Vehicles() []*model.Vehicle {
	return s.vehicles
}

// Coins returns the live coin set. The slice is owned by the service.
func (s *Service) Coins() []*model.Coin {
	return s.coins
}

// Reset clears all vehicles and coins and restarts the id counters.
func (s *Service) Reset() {
	s.vehicles = nil
	s.coins = nil
	s.nextVehicleID = 1
	s.nextCoinID = starterCoinMaxID + 1
}

// SpawnVehicle adds one vehicle on a random road band. Type mix and speed
// scale with the shared difficulty level. Returns nil when the world has no
// road bands.
func (s *Service) SpawnVehicle(difficulty int) *model.Vehicle {
	roads := RoadBands()
	if len(roads) == 0 {
		return nil
	}

	lane := roads[s.random.Intn(len(roads))]
	worldY := BandCenterY(lane)

	direction := -1
	if s.random.Float64() < 0.5 {
		direction = 1
	}

	vehicleType := model.VehicleNormal
	if difficulty >= 5 {
		switch r := s.random.Float64(); {
		case r < 0.4:
			vehicleType = model.VehicleNormal
		case r < 0.8:
			vehicleType = model.VehicleFast
		default:
			vehicleType = model.VehicleLaneChanger
		}
	} else if difficulty >= 2 {
		if s.random.Float64() < 0.7 {
			vehicleType = model.VehicleNormal
		} else {
			vehicleType = model.VehicleFast
		}
	}

	var baseSpeed float64
	switch vehicleType {
	case model.VehicleFast:
		baseSpeed = 5 + s.random.Float64()*3
	case model.VehicleLaneChanger:
		baseSpeed = 4 + s.random.Float64()*2
	default:
		baseSpeed = 3 + s.random.Float64()*2
	}

	level := min(difficulty, model.MaxLevel)
	speed := baseSpeed * (1 + float64(level-1)*0.05)

	startX := spawnXLeft
	if direction == 1 {
		startX = spawnXRight
	}

	vehicle := &model.Vehicle{
		ID:              s.nextVehicleID,
		WorldX:          startX,
		WorldY:          worldY,
		Speed:           speed,
		Direction:       direction,
		Type:            vehicleType,
		LaneIndex:       lane,
		LaneChangeTimer: laneChangeTimerMin + s.random.Float64()*laneChangeTimerSpan,
	}
	s.nextVehicleID++
	s.vehicles = append(s.vehicles, vehicle)
	return vehicle
}

// UpdateVehicles advances every vehicle by one tick and prunes vehicles that
// left the visible range. Lane changers only start switching lanes once the
// shared difficulty reaches 5.
func (s *Service) UpdateVehicles(dtMs float64, difficulty int) {
	updated := s.vehicles[:0]
	for _, v := range s.vehicles {
		v.WorldX += v.Speed * float64(v.Direction)

		if v.Type == model.VehicleLaneChanger && difficulty >= 5 {
			v.LaneChangeTimer -= dtMs
			if v.LaneChangeTimer <= 0 {
				s.tryChangeLane(v)
				v.LaneChangeTimer = laneChangeTimerMin + s.random.Float64()*laneChangeTimerSpan
			}
		}

		if v.WorldX < pruneXMin || v.WorldX > pruneXMax {
			continue
		}
		updated = append(updated, v)
	}
	// Drop trailing pointers so pruned vehicles can be collected.
	for i := len(updated); i < len(s.vehicles); i++ {
		s.vehicles[i] = nil
	}
	s.vehicles = updated
}

// tryChangeLane moves a vehicle to an adjacent road band, if one exists.
func (s *Service) tryChangeLane(v *model.Vehicle) {
	current := BandIndexForY(v.WorldY)

	var candidates []int
	if current > 0 && IsRoadBand(current-1) {
		candidates = append(candidates, current-1)
	}
	if current < TotalBands-1 && IsRoadBand(current+1) {
		candidates = append(candidates, current+1)
	}
	if len(candidates) == 0 {
		return
	}

	next := candidates[s.random.Intn(len(candidates))]
	v.LaneIndex = next
	v.WorldY = BandCenterY(next)
}

// EnsureStarterCoins reseeds the fixed three-coin set near the spawn point.
// No-op while any of coin ids 1..3 is still live. The coin id counter resumes
// past the reserved ids.
func (s *Service) EnsureStarterCoins() {
	for _, c := range s.coins {
		if c.ID >= 1 && c.ID <= starterCoinMaxID {
			return
		}
	}

	grassY := model.SpawnY - model.BlockHeight
	roadY := model.SpawnY - model.BlockHeight*2

	s.coins = append(s.coins,
		&model.Coin{ID: 1, WorldX: starterGrassLeftX, WorldY: grassY, Value: model.GrassCoinValue, Type: model.CoinGrass},
		&model.Coin{ID: 2, WorldX: starterGrassRightX, WorldY: grassY, Value: model.GrassCoinValue, Type: model.CoinGrass},
		&model.Coin{ID: 3, WorldX: starterRoadX, WorldY: roadY, Value: model.RoadCoinValue, Type: model.CoinRoad},
	)
	s.nextCoinID = starterCoinMaxID + 1
}

// EnsureCoinPopulation tops up the live coin set toward the configured
// floors, spawning at most one coin per deficient type per call.
func (s *Service) EnsureCoinPopulation() {
	grassCount := 0
	roadCount := 0
	for _, c := range s.coins {
		switch c.Type {
		case model.CoinGrass:
			grassCount++
		case model.CoinRoad:
			roadCount++
		}
	}
	if grassCount < s.tuning.GrassCoinFloor {
		s.spawnRandomCoin(model.CoinGrass)
	}
	if roadCount < s.tuning.RoadCoinFloor {
		s.spawnRandomCoin(model.CoinRoad)
	}
}

// spawnRandomCoin places one coin of the given type on a random matching
// band, keeping clear of the screen edges.
func (s *Service) spawnRandomCoin(coinType model.CoinType) {
	var bands []int
	if coinType == model.CoinRoad {
		bands = RoadBands()
	} else {
		bands = GrassBands()
	}
	if len(bands) == 0 {
		return
	}

	band := bands[s.random.Intn(len(bands))]
	worldY := BandCenterY(band)
	worldX := coinEdgeMargin + s.random.Float64()*(model.FieldWidth-2*coinEdgeMargin)

	value := model.GrassCoinValue
	if coinType == model.CoinRoad {
		value = model.RoadCoinValue
	}

	s.coins = append(s.coins, &model.Coin{
		ID:     s.nextCoinID,
		WorldX: worldX,
		WorldY: worldY,
		Value:  value,
		Type:   coinType,
	})
	s.nextCoinID++
}

// RemoveCoin deletes a coin by id, reporting whether it was present.
func (s *Service) RemoveCoin(id int) bool {
	for i, c := range s.coins {
		if c.ID == id {
			s.coins = append(s.coins[:i], s.coins[i+1:]...)
			return true
		}
	}
	return false
}

package model

// World geometry. The world is a vertical strip of fixed-height horizontal
// bands; players spawn near the bottom and advance upward (decreasing y)
// toward the checkpoint line.
const (
	BlockHeight = 80.0
	WorldBlocks = 40
	WorldHeight = BlockHeight * WorldBlocks
	CheckpointY = WorldHeight - BlockHeight*35

	// Visible horizontal field. Vehicles spawn just outside it and are pruned
	// a little further out.
	FieldWidth = 800.0

	MaxLevel  = 10
	WinPoints = 10.0
)

// SpawnX and SpawnY locate the fixed player spawn point.
const (
	SpawnX = 400.0
	SpawnY = WorldHeight - BlockHeight*1.5
)

// VehicleType classifies vehicle behavior.
type VehicleType string

const (
	VehicleNormal      VehicleType = "normal"
	VehicleFast        VehicleType = "fast"
	VehicleLaneChanger VehicleType = "laneChanger"
)

// Vehicle is a moving hazard. IDs are monotonic and never reused while the
// vehicle set is live.
type Vehicle struct {
	ID              int         `json:"id"`
	WorldX          float64     `json:"worldX"`
	WorldY          float64     `json:"worldY"`
	Speed           float64     `json:"speed"`
	Direction       int         `json:"direction"`
	Type            VehicleType `json:"type"`
	LaneIndex       int         `json:"laneIndex"`
	LaneChangeTimer float64     `json:"laneChangeTimer"`
}

// CoinType classifies coins by the kind of band they sit on.
type CoinType string

const (
	CoinGrass CoinType = "grass"
	CoinRoad  CoinType = "road"
)

// Coin values by type.
const (
	GrassCoinValue = 0.5
	RoadCoinValue  = 1.0
)

// Coin is a collectible. Removed on collection; IDs are monotonic.
type Coin struct {
	ID     int      `json:"id"`
	WorldX float64  `json:"worldX"`
	WorldY float64  `json:"worldY"`
	Value  float64  `json:"value"`
	Type   CoinType `json:"type"`
}

package world

import (
	"math"

	"github.com/mcoot/crazyroad-go/internal/model"
)

// TotalBands is the number of horizontal bands in the world.
const TotalBands = model.WorldBlocks

// IsRoadBand reports whether the zero-based band index is a road band. The
// classification is a pure function of the index, so the layout never needs
// to be stored: bands 0 and 1 are always grass, then bands repeat in groups
// of four as grass, road, road, and a pseudo-random fourth slot.
func IsRoadBand(i int) bool {
	if i < 2 {
		return false
	}
	rel := i - 2
	group := rel / 4
	pos := rel % 4
	if pos == 0 {
		return false
	}
	if pos == 1 || pos == 2 {
		return true
	}
	return (group*37+11)%100 >= 60
}

// BandCenterY returns the vertical center of a band.
func BandCenterY(i int) float64 {
	return float64(i)*model.BlockHeight + model.BlockHeight/2
}

// BandIndexForY returns the band index containing the given y coordinate.
func BandIndexForY(y float64) int {
	return int(math.Round(y/model.BlockHeight - 0.5))
}

// RoadBands returns all road band indices in ascending order.
func RoadBands() []int {
	var bands []int
	for i := 0; i < TotalBands; i++ {
		if IsRoadBand(i) {
			bands = append(bands, i)
		}
	}
	return bands
}

// GrassBands returns all grass band indices in ascending order.
func GrassBands() []int {
	var bands []int
	for i := 0; i < TotalBands; i++ {
		if !IsRoadBand(i) {
			bands = append(bands, i)
		}
	}
	return bands
}

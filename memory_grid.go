package geoid

import (
	"fmt"
	"math"
)

// MemoryGrid is a gridded geoid model held entirely in memory. It is
// read-only once constructed, so concurrent queries need no locking.
type MemoryGrid struct {
	info   GridInfo
	points sampleStore
}

// NewMemoryGrid builds a grid from raw samples (meters * 10000, row-major
// with y as the outer index). The samples are copied.
func NewMemoryGrid(info GridInfo, samples []int32) (*MemoryGrid, error) {
	if len(samples) != info.NodeCount() {
		return nil, fmt.Errorf("%w: %d samples for %dx%d grid", ErrSampleLength, len(samples), info.xNum, info.yNum)
	}
	points := make(ownedSamples, len(samples))
	copy(points, samples)
	return &MemoryGrid{info: info, points: points}, nil
}

// NewMemoryGridFromRaw builds a grid over raw little-endian int32 samples
// without copying them. raw must stay unmodified for the life of the grid.
func NewMemoryGridFromRaw(info GridInfo, raw []byte) (*MemoryGrid, error) {
	if len(raw) != info.NodeCount()*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d grid", ErrSampleLength, len(raw), info.xNum, info.yNum)
	}
	return &MemoryGrid{info: info, points: borrowedSamples(raw)}, nil
}

func newOwnedGrid(info GridInfo, points []int32) *MemoryGrid {
	return &MemoryGrid{info: info, points: ownedSamples(points)}
}

func (g *MemoryGrid) GridInfo() GridInfo {
	return g.info
}

func (g *MemoryGrid) Len() int {
	return g.points.len()
}

// LookupGridPoint returns the height in meters at grid point (ix, iy), or NaN
// for a point without data.
func (g *MemoryGrid) LookupGridPoint(ix, iy int) float64 {
	v := g.points.at(iy*g.info.xNum + ix)
	if v == NoData {
		return math.NaN()
	}
	return float64(v) / Scale
}

// Sample returns the raw stored value at (ix, iy).
func (g *MemoryGrid) Sample(ix, iy int) int32 {
	return g.points.at(iy*g.info.xNum + ix)
}

// GetHeight returns the geoid height at (lng, lat), NaN outside the model.
func (g *MemoryGrid) GetHeight(lng, lat float64) float64 {
	return Interpolate(g, lng, lat)
}

// GetHeights returns the geoid heights at each (lngs[i], lats[i]).
func (g *MemoryGrid) GetHeights(lngs, lats []float64) ([]float64, error) {
	return Heights(g, lngs, lats)
}

// Samples returns a copy of the raw sample array.
func (g *MemoryGrid) Samples() []int32 {
	n := g.points.len()
	result := make([]int32, n)
	for i := 0; i < n; i++ {
		result[i] = g.points.at(i)
	}
	return result
}

// int32s returns the samples as a slice, without copying when they are owned.
// The result must not be modified.
func (g *MemoryGrid) int32s() []int32 {
	if o, ok := g.points.(ownedSamples); ok {
		return o
	}
	return g.Samples()
}

// RawSamples returns the samples as little-endian int32s, the layout accepted
// by NewMemoryGridFromRaw.
func (g *MemoryGrid) RawSamples() []byte {
	return appendRawSamples(make([]byte, 0, g.points.len()*4), g.points)
}

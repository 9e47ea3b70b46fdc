package geoid

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GridStats summarises the heights of a grid. Min, Max, Mean and StdDev are
// NaN when the grid has no valid point.
type GridStats struct {
	Nodes  int
	NoData int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

func (s GridStats) Valid() int {
	return s.Nodes - s.NoData
}

// Summarize computes statistics over the defined points of g.
func Summarize(g Grid) GridStats {
	info := g.GridInfo()
	values := make([]float64, 0, info.NodeCount())
	for iy := 0; iy < info.yNum; iy++ {
		for ix := 0; ix < info.xNum; ix++ {
			if v := g.LookupGridPoint(ix, iy); !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}

	s := GridStats{
		Nodes:  info.NodeCount(),
		NoData: info.NodeCount() - len(values),
		Min:    math.NaN(),
		Max:    math.NaN(),
		Mean:   math.NaN(),
		StdDev: math.NaN(),
	}
	if len(values) == 0 {
		return s
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	if len(values) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	} else {
		s.Mean, s.StdDev = values[0], 0
	}
	return s
}

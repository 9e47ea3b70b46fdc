package geoid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUnitGrid builds a 3x2 grid with unit spacing at the origin:
//
//	iy=1:  3  4  -
//	iy=0:  0  1  2
func newUnitGrid(t testing.TB) *MemoryGrid {
	t.Helper()
	info, err := NewGridInfo(3, 2, 1, 1, 0, 0, 1, "unit")
	require.NoError(t, err)
	g, err := NewMemoryGrid(info, []int32{0, 10000, 20000, 30000, 40000, NoData})
	require.NoError(t, err)
	return g
}

func TestNewGridInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                       string
		xNum, yNum, xDenom, yDenom int
		wantErr                    bool
	}{
		{"valid", 1201, 1801, 40, 60, false},
		{"zero columns", 0, 1801, 40, 60, true},
		{"negative rows", 1201, -1, 40, 60, true},
		{"overflowing size", math.MaxInt/2 + 1, 2, 40, 60, true},
		{"zero x denominator", 1201, 1801, 0, 60, true},
		{"zero y denominator", 1201, 1801, 40, 0, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			info, err := NewGridInfo(tt.xNum, tt.yNum, tt.xDenom, tt.yDenom, 120, 20, 1, "ver2.2")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGridInfo)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.xNum*tt.yNum, info.NodeCount())
			assert.Equal(t, "ver2.2", info.Version())
		})
	}
}

func TestGridInfoBounds(t *testing.T) {
	t.Parallel()

	info, err := NewGridInfo(1201, 1801, 40, 60, 120, 20, 1, "ver2.2")
	require.NoError(t, err)

	b := info.Bounds()
	assert.Equal(t, 120.0, b.Min[0])
	assert.Equal(t, 20.0, b.Min[1])
	assert.InDelta(t, 150.025, b.Max[0], 1e-9)
	assert.InDelta(t, 50.016667, b.Max[1], 1e-6)

	assert.True(t, info.Contains(120, 20))
	assert.True(t, info.Contains(138.2839817085188, 37.12378643088312))
	assert.True(t, info.Contains(150.02, 50.01))
	assert.False(t, info.Contains(119.999, 30))
	assert.False(t, info.Contains(130, 19.999))
	assert.False(t, info.Contains(150.03, 30))
	assert.False(t, info.Contains(math.NaN(), 30))
	assert.False(t, info.Contains(math.Inf(1), 30))
}

func TestInterpolate(t *testing.T) {
	t.Parallel()
	g := newUnitGrid(t)

	tests := []struct {
		name string
		x, y float64
		want float64 // NaN for no result
	}{
		{"origin node", 0, 0, 0},
		{"interior node", 1, 1, 4},
		{"last column node", 2, 0, 2},
		{"top row node", 0, 1, 3},
		{"cell center", 0.5, 0.5, 2},
		{"weighted", 0.25, 0.75, 0*0.75*0.25 + 1*0.25*0.25 + 3*0.75*0.75 + 4*0.25*0.75},
		{"bottom edge", 0.25, 0, 0.25},
		{"left edge", 0, 0.5, 1.5},
		{"edge next to missing corner", 1.5, 0, 1.5},
		{"cell with missing corner", 1.5, 0.5, math.NaN()},
		{"missing node", 2, 1, math.NaN()},
		{"past last column", 2.5, 0, math.NaN()},
		{"past top row", 0, 1.5, math.NaN()},
		{"column count", 3, 0, math.NaN()},
		{"row count", 0, 2, math.NaN()},
		{"west of origin", -0.1, 0, math.NaN()},
		{"south of origin", 0, -1e-9, math.NaN()},
		{"far away", 1e300, 1e300, math.NaN()},
		{"NaN lng", math.NaN(), 0, math.NaN()},
		{"NaN lat", 0, math.NaN(), math.NaN()},
		{"infinite", math.Inf(1), 0, math.NaN()},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := g.GetHeight(tt.x, tt.y)
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got), "expected NaN, got %v", got)
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestInterpolateGeographic(t *testing.T) {
	t.Parallel()

	// the ASCII fixture lattice: 4x3 from 120E 20N at 1.5' x 1'
	info, err := NewGridInfo(4, 3, 40, 60, 120, 20, 1, "ver2.2")
	require.NoError(t, err)
	g, err := NewMemoryGrid(info, []int32{
		100000, 101000, 102000, NoData,
		110000, 111000, 112000, 113000,
		120000, 121000, 122000, 123000,
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, g.GetHeight(120, 20))
	assert.InDelta(t, 10.55, g.GetHeight(120+0.5/40, 20+0.5/60), 1e-9)
	assert.InDelta(t, 11.55, g.GetHeight(120+0.5/40, 20+1.5/60), 1e-9)
	assert.True(t, math.IsNaN(g.GetHeight(120+2.5/40, 20+0.5/60)))
	assert.True(t, math.IsNaN(g.GetHeight(10, 10)))
	assert.True(t, math.IsNaN(g.GetHeight(121, 20)))
}

func TestLookupGridPoint(t *testing.T) {
	t.Parallel()
	g := newUnitGrid(t)

	assert.Equal(t, 1.0, g.LookupGridPoint(1, 0))
	assert.Equal(t, 4.0, g.LookupGridPoint(1, 1))
	assert.True(t, math.IsNaN(g.LookupGridPoint(2, 1)))
	assert.Equal(t, NoData, g.Sample(2, 1))
	assert.Equal(t, int32(30000), g.Sample(0, 1))
}

func TestHeights(t *testing.T) {
	t.Parallel()
	g := newUnitGrid(t)

	lngs := []float64{0, 0.5, 1.5, 10}
	lats := []float64{0, 0.5, 0.5, 10}
	heights, err := g.GetHeights(lngs, lats)
	require.NoError(t, err)
	require.Len(t, heights, len(lngs))
	for i := range lngs {
		want := g.GetHeight(lngs[i], lats[i])
		if math.IsNaN(want) {
			assert.True(t, math.IsNaN(heights[i]), "index %d", i)
			continue
		}
		assert.Equal(t, want, heights[i], "index %d", i)
	}

	empty, err := g.GetHeights(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = g.GetHeights([]float64{0, 1}, []float64{0})
	var mismatch *ErrLengthMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Lngs)
	assert.Equal(t, 1, mismatch.Lats)
}

func TestNewMemoryGrid(t *testing.T) {
	t.Parallel()

	info, err := NewGridInfo(2, 2, 1, 1, 0, 0, 0, "v")
	require.NoError(t, err)

	_, err = NewMemoryGrid(info, []int32{1, 2, 3})
	assert.ErrorIs(t, err, ErrSampleLength)

	samples := []int32{1, 2, 3, 4}
	g, err := NewMemoryGrid(info, samples)
	require.NoError(t, err)
	samples[0] = 100
	assert.Equal(t, int32(1), g.Sample(0, 0), "grid must own a copy of the samples")
	assert.Equal(t, 4, g.Len())

	out := g.Samples()
	out[1] = 100
	assert.Equal(t, int32(2), g.Sample(1, 0), "Samples must return a copy")
}

func TestNewMemoryGridFromRaw(t *testing.T) {
	t.Parallel()

	info, err := NewGridInfo(2, 2, 1, 1, 0, 0, 0, "v")
	require.NoError(t, err)
	owned, err := NewMemoryGrid(info, []int32{-5, 20000, NoData, 40000})
	require.NoError(t, err)

	raw := owned.RawSamples()
	require.Len(t, raw, 16)

	borrowed, err := NewMemoryGridFromRaw(info, raw)
	require.NoError(t, err)
	assert.Equal(t, owned.Samples(), borrowed.Samples())
	assert.Equal(t, int32(-5), borrowed.Sample(0, 0))
	assert.True(t, math.IsNaN(borrowed.LookupGridPoint(0, 1)))
	assert.Equal(t, owned.GetHeight(0.5, 0), borrowed.GetHeight(0.5, 0))
	assert.Equal(t, raw, borrowed.RawSamples())

	_, err = NewMemoryGridFromRaw(info, raw[:15])
	assert.ErrorIs(t, err, ErrSampleLength)
}

func BenchmarkGetHeight(b *testing.B) {
	info, err := NewGridInfo(1201, 1801, 40, 60, 120, 20, 1, "ver2.2")
	require.NoError(b, err)
	samples := make([]int32, info.NodeCount())
	for i := range samples {
		samples[i] = int32(300000 + i%1201)
	}
	g, err := NewMemoryGrid(info, samples)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.GetHeight(138.2839817085188, 37.12378643088312)
	}
}

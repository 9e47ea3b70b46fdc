package geoid

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	g := newUnitGrid(t)
	s := Summarize(g)
	assert.Equal(t, 6, s.Nodes)
	assert.Equal(t, 1, s.NoData)
	assert.Equal(t, 5, s.Valid())
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	// sample standard deviation of 0, 1, 2, 3, 4
	assert.InDelta(t, math.Sqrt(2.5), s.StdDev, 1e-12)
}

func TestSummarizeEdgeCases(t *testing.T) {
	t.Parallel()

	empty := newTestGrid(t, 2, 1, "v", []int32{NoData, NoData})
	s := Summarize(empty)
	assert.Equal(t, 0, s.Valid())
	assert.True(t, math.IsNaN(s.Min))
	assert.True(t, math.IsNaN(s.Mean))

	single := newTestGrid(t, 2, 1, "v", []int32{NoData, 123400})
	s = Summarize(single)
	assert.Equal(t, 1, s.Valid())
	assert.Equal(t, 12.34, s.Min)
	assert.Equal(t, 12.34, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
}

func TestWriteHeatMap(t *testing.T) {
	t.Parallel()

	g, err := ReadASCII(openFixture(t, "dummy-geoid.asc"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dummy.png")
	opts := DefaultHeatMapOptions()
	opts.Width, opts.Height = 200, 150
	require.NoError(t, WriteHeatMap(g, path, opts))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())

	// a flat grid still renders
	flat := newConstGrid(t, 3, 3, 0, 0, 5)
	require.NoError(t, WriteHeatMap(flat, filepath.Join(t.TempDir(), "flat.svg"), HeatMapOptions{Step: 2}))
}

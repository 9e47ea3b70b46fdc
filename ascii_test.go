package geoid

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestReadASCII(t *testing.T) {
	t.Parallel()

	g, err := ReadASCII(openFixture(t, "dummy-geoid.asc"))
	require.NoError(t, err)

	info := g.GridInfo()
	assert.Equal(t, 4, info.XNum())
	assert.Equal(t, 3, info.YNum())
	assert.Equal(t, 40, info.XDenom())
	assert.Equal(t, 60, info.YDenom())
	assert.Equal(t, float32(120), info.XMin())
	assert.Equal(t, float32(20), info.YMin())
	assert.Equal(t, uint16(1), info.Kind())
	assert.Equal(t, "ver2.2", info.Version())

	want := []int32{
		100000, 101000, 102000, NoData,
		110000, 111000, 112000, 113000,
		120000, 121000, 122000, 123000,
	}
	if diff := cmp.Diff(want, g.Samples()); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 10.0, g.GetHeight(120, 20))
	assert.InDelta(t, 10.55, g.GetHeight(120+0.5/40, 20+0.5/60), 1e-9)
}

func TestParseFixedPoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int32
	}{
		{"30.1234", 301234},
		{"999.0000", NoData},
		{"-1.5000", -15000},
		{"0.0000", 0},
		{"42", 42},
	}
	for _, tt := range tests {
		got, err := parseFixedPoint(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, in := range []string{"000.000a", "", ".", "1.2.3x"} {
		_, err := parseFixedPoint(in)
		assert.Error(t, err, in)
	}
}

func TestReadASCIIBrokenHeaders(t *testing.T) {
	t.Parallel()

	headers := []string{
		"20.aaa00 120.00000 0.016667 0.025000 1801 1201 1 ver2.2",
		"20.00000 120.0bbb0 0.016667 0.025000 1801 1201 1 ver2.2",
		"20.00000 120.00000 0.116667 0.025000 1801 1201 1 ver2.2",
		"20.00000 120.00000 0.016667 0.225000 1801 1201 1 ver2.2",
		"20.00000 120.00000 0.016667 0.025000 -1801 1201 1 ver2.2",
		"20.00000 120.00000 0.016667 0.025000 1801 -1201 1 ver2.2",
		"20.00000 120.00000 0.016667 0.025000 1801 1201 z ver2.2",
		"20.00000 120.00000 0.016667 0.025000 1801 1201 1 ver2.2 foobar",
		"20.00000 120.00000 0.016667 0.025000 1801 1201 1 ver2.2\n000.000a",
		"20.00000 120.00000 0.016667 0.025000 0 1201 1 ver2.2",
		"20.00000 120.00000 0.016667 0.025000 4294967295 4294967295 1 v\n1.0000",
		"20.00000 120.00000 0.016667 0.025000 4294967296 1201 1 ver2.2",
		"",
	}
	for _, h := range headers {
		_, err := ReadASCII(strings.NewReader(h))
		assert.Error(t, err, "header %q", h)
	}
}

func TestReadASCIIErrorTypes(t *testing.T) {
	t.Parallel()

	t.Run("field count", func(t *testing.T) {
		_, err := ReadASCII(strings.NewReader("20.0 120.0 0.016667 0.025000 3 4 1"))
		var e *ErrHeaderFieldCount
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 7, e.Got)
		assert.Equal(t, 8, e.Want)
	})

	t.Run("interval", func(t *testing.T) {
		_, err := ReadASCII(strings.NewReader("20.0 120.0 0.016670 0.025000 3 4 1 v"))
		var e *ErrInterval
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "latitude", e.Axis)
		assert.Equal(t, "0.016670", e.Got)
	})

	t.Run("data value", func(t *testing.T) {
		_, err := ReadASCII(strings.NewReader("20.0 120.0 0.016667 0.025000 1 2 1 v\n1.0000\n2.00x0\n"))
		var e *ErrParse
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 3, e.Line)
		assert.Equal(t, "2.00x0", e.Value)
	})

	t.Run("oversized header", func(t *testing.T) {
		_, err := ReadASCII(strings.NewReader("20.0 120.0 0.016667 0.025000 65535 65535 1 v\n1.0000\n"))
		var e *ErrSampleCount
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 1, e.Got)
		assert.Equal(t, 65535*65535, e.Want)
	})

	t.Run("sample count", func(t *testing.T) {
		_, err := ReadASCII(strings.NewReader("20.0 120.0 0.016667 0.025000 2 2 1 v\n1.0000 2.0000 3.0000\n"))
		var e *ErrSampleCount
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 3, e.Got)
		assert.Equal(t, 4, e.Want)
	})
}

func TestReadASCIILenient(t *testing.T) {
	muteLogger(t)

	opts := DefaultASCIIOptions()
	opts.Lenient = true

	short, err := ReadASCIIWithOptions(strings.NewReader("20.0 120.0 0.016667 0.025000 2 2 1 v\n1.0000 2.0000 3.0000\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []int32{10000, 20000, 30000, NoData}, short.Samples())

	long, err := ReadASCIIWithOptions(strings.NewReader("20.0 120.0 0.016667 0.025000 1 2 1 v\n1.0000 2.0000 3.0000\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []int32{10000, 20000}, long.Samples())
}

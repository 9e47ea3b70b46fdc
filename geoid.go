package geoid

import (
	"fmt"
	"math"

	"github.com/flywave/go3d/float64/vec2"
)

// NoData is the raw sample value marking a grid point without data.
const NoData int32 = 9990000

// Scale converts raw samples to meters.
const Scale = 10000.0

// maxPrealloc bounds the capacity reserved up front from header counts.
// Readers grow past it as data actually arrives.
const maxPrealloc = 1 << 20

// VersionSize is the width of the version field in the binary header.
const VersionSize = 10

// Geoid answers geoid height queries.
type Geoid interface {
	GetHeight(lng, lat float64) float64
}

// Grid is a regular lattice of geoid heights.
type Grid interface {
	GridInfo() GridInfo
	// LookupGridPoint returns the height at (ix, iy). Callers keep
	// 0 <= ix < XNum and 0 <= iy < YNum.
	LookupGridPoint(ix, iy int) float64
}

// GridInfo describes the lattice of a gridded model. The zero value is not
// usable; build one with NewGridInfo.
type GridInfo struct {
	xNum    int
	yNum    int
	xDenom  int
	yDenom  int
	xMin    float32
	yMin    float32
	kind    uint16
	version string
}

func NewGridInfo(xNum, yNum, xDenom, yDenom int, xMin, yMin float32, kind uint16, version string) (GridInfo, error) {
	if xNum <= 0 || yNum <= 0 {
		return GridInfo{}, fmt.Errorf("%w: grid size %dx%d", ErrInvalidGridInfo, xNum, yNum)
	}
	if xNum > math.MaxInt/yNum {
		return GridInfo{}, fmt.Errorf("%w: grid size %dx%d overflows", ErrInvalidGridInfo, xNum, yNum)
	}
	if xDenom <= 0 || yDenom <= 0 {
		return GridInfo{}, fmt.Errorf("%w: interval denominators %d/%d", ErrInvalidGridInfo, xDenom, yDenom)
	}
	return GridInfo{
		xNum:    xNum,
		yNum:    yNum,
		xDenom:  xDenom,
		yDenom:  yDenom,
		xMin:    xMin,
		yMin:    yMin,
		kind:    kind,
		version: version,
	}, nil
}

func (i GridInfo) XNum() int { return i.xNum }
func (i GridInfo) YNum() int { return i.yNum }
func (i GridInfo) XDenom() int { return i.xDenom }
func (i GridInfo) YDenom() int { return i.yDenom }
func (i GridInfo) XMin() float32 { return i.xMin }
func (i GridInfo) YMin() float32 { return i.yMin }
func (i GridInfo) Kind() uint16 { return i.kind }
func (i GridInfo) Version() string { return i.version }
func (i GridInfo) NodeCount() int { return i.xNum * i.yNum }
func (i GridInfo) XInterval() float64 { return 1 / float64(i.xDenom) }
func (i GridInfo) YInterval() float64 { return 1 / float64(i.yDenom) }

// Bounds returns the half-open query domain [min, min+num/denom) of the grid
// as a (lng, lat) rectangle.
func (i GridInfo) Bounds() vec2.Rect {
	return vec2.Rect{
		Min: vec2.T{float64(i.xMin), float64(i.yMin)},
		Max: vec2.T{
			float64(i.xMin) + float64(i.xNum)/float64(i.xDenom),
			float64(i.yMin) + float64(i.yNum)/float64(i.yDenom),
		},
	}
}

// Contains reports whether (lng, lat) falls into the query domain.
func (i GridInfo) Contains(lng, lat float64) bool {
	gx := (lng - float64(i.xMin)) * float64(i.xDenom)
	gy := (lat - float64(i.yMin)) * float64(i.yDenom)
	if !(gx >= 0 && gy >= 0) {
		return false
	}
	return math.Floor(gx) < float64(i.xNum) && math.Floor(gy) < float64(i.yNum)
}

func (i GridInfo) String() string {
	return fmt.Sprintf("%s %dx%d origin=(%g,%g) interval=1/%d,1/%d kind=%d",
		i.version, i.xNum, i.yNum, i.xMin, i.yMin, i.xDenom, i.yDenom, i.kind)
}

// Interpolate returns the bilinearly interpolated value of g at (x, y).
// Points outside the grid and cells touching a missing sample yield NaN.
func Interpolate(g Grid, x, y float64) float64 {
	info := g.GridInfo()
	gridX := (x - float64(info.xMin)) * float64(info.xDenom)
	gridY := (y - float64(info.yMin)) * float64(info.yDenom)
	// negated so that NaN coordinates are rejected too
	if !(gridX >= 0 && gridY >= 0) {
		return math.NaN()
	}

	fx := math.Floor(gridX)
	fy := math.Floor(gridY)
	// compare in float space first so huge coordinates cannot overflow int
	if fx >= float64(info.xNum) || fy >= float64(info.yNum) {
		return math.NaN()
	}
	ix, iy := int(fx), int(fy)
	rx, ry := gridX-fx, gridY-fy

	hasRight := ix < info.xNum-1
	hasUp := iy < info.yNum-1

	v01, v10, v11 := math.NaN(), math.NaN(), math.NaN()
	if hasRight {
		v01 = g.LookupGridPoint(ix+1, iy)
	}
	if hasUp {
		v10 = g.LookupGridPoint(ix, iy+1)
	}
	if hasRight && hasUp {
		v11 = g.LookupGridPoint(ix+1, iy+1)
	}
	return bilinear(rx, ry, g.LookupGridPoint(ix, iy), v01, v10, v11)
}

func bilinear(x, y, v00, v01, v10, v11 float64) float64 {
	switch {
	case x == 0 && y == 0:
		return v00
	case x == 0:
		return v00*(1-y) + v10*y
	case y == 0:
		return v00*(1-x) + v01*x
	default:
		return v00*(1-x)*(1-y) + v01*x*(1-y) + v10*(1-x)*y + v11*x*y
	}
}

// Heights applies GetHeight to each (lngs[i], lats[i]) pair.
func Heights(g Geoid, lngs, lats []float64) ([]float64, error) {
	if len(lngs) != len(lats) {
		return nil, &ErrLengthMismatch{Lngs: len(lngs), Lats: len(lats)}
	}
	result := make([]float64, len(lngs))
	for i := range lngs {
		result[i] = g.GetHeight(lngs[i], lats[i])
	}
	return result, nil
}

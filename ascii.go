package geoid

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const (
	// Latitude and longitude intervals of the GSI ASCII format, written
	// exactly as they appear in the header.
	asciiLatInterval = "0.016667"
	asciiLngInterval = "0.025000"

	asciiXDenom = 40
	asciiYDenom = 60

	asciiHeaderFields = 8

	maxLineSize = 4 * 1024 * 1024
)

// ASCIIOptions configures ReadASCIIWithOptions.
type ASCIIOptions struct {
	// Lenient accepts a data section whose size differs from the header.
	// Missing points are filled with NoData and surplus points dropped.
	// Default: false (return *ErrSampleCount)
	Lenient bool
}

func DefaultASCIIOptions() ASCIIOptions {
	return ASCIIOptions{Lenient: false}
}

// ReadASCII loads a geoid model in GSI's ASCII format.
func ReadASCII(r io.Reader) (*MemoryGrid, error) {
	return ReadASCIIWithOptions(r, DefaultASCIIOptions())
}

// ReadASCIIWithOptions loads a geoid model in GSI's ASCII format.
//
// The first line holds eight fields:
//
//	lat_min lng_min 0.016667 0.025000 y_num x_num ikind version
//
// and the following lines hold the grid values in meters with four decimals,
// south to north and west to east.
func ReadASCIIWithOptions(r io.Reader, opts ASCIIOptions) (*MemoryGrid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, &ErrHeaderFieldCount{Got: 0, Want: asciiHeaderFields}
	}
	info, err := parseASCIIHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	points := make([]int32, 0, min(info.NodeCount(), maxPrealloc))
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		for _, s := range strings.Fields(scanner.Text()) {
			v, err := parseFixedPoint(s)
			if err != nil {
				return nil, &ErrParse{Line: lineNo, Field: "grid value", Value: s, Err: err}
			}
			points = append(points, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	points, err = fitSampleCount(points, info.NodeCount(), opts.Lenient)
	if err != nil {
		return nil, err
	}
	return newOwnedGrid(info, points), nil
}

func parseASCIIHeader(line string) (GridInfo, error) {
	c := strings.Fields(line)
	if len(c) != asciiHeaderFields {
		return GridInfo{}, &ErrHeaderFieldCount{Got: len(c), Want: asciiHeaderFields}
	}
	if c[2] != asciiLatInterval {
		return GridInfo{}, &ErrInterval{Axis: "latitude", Got: c[2], Want: asciiLatInterval}
	}
	if c[3] != asciiLngInterval {
		return GridInfo{}, &ErrInterval{Axis: "longitude", Got: c[3], Want: asciiLngInterval}
	}

	yMin, err := strconv.ParseFloat(c[0], 32)
	if err != nil {
		return GridInfo{}, &ErrParse{Line: 1, Field: "lat_min", Value: c[0], Err: err}
	}
	xMin, err := strconv.ParseFloat(c[1], 32)
	if err != nil {
		return GridInfo{}, &ErrParse{Line: 1, Field: "lng_min", Value: c[1], Err: err}
	}
	yNum, err := strconv.ParseUint(c[4], 10, 32)
	if err != nil {
		return GridInfo{}, &ErrParse{Line: 1, Field: "y_num", Value: c[4], Err: err}
	}
	xNum, err := strconv.ParseUint(c[5], 10, 32)
	if err != nil {
		return GridInfo{}, &ErrParse{Line: 1, Field: "x_num", Value: c[5], Err: err}
	}
	kind, err := strconv.ParseUint(c[6], 10, 16)
	if err != nil {
		return GridInfo{}, &ErrParse{Line: 1, Field: "ikind", Value: c[6], Err: err}
	}

	return NewGridInfo(int(xNum), int(yNum), asciiXDenom, asciiYDenom,
		float32(xMin), float32(yMin), uint16(kind), c[7])
}

// parseFixedPoint turns "30.1234" into 301234 by dropping the decimal point.
func parseFixedPoint(s string) (int32, error) {
	v, err := strconv.ParseInt(strings.ReplaceAll(s, ".", ""), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func fitSampleCount(points []int32, want int, lenient bool) ([]int32, error) {
	if len(points) == want {
		return points, nil
	}
	if !lenient {
		return nil, &ErrSampleCount{Got: len(points), Want: want}
	}
	Logf("geoid: data section has %d grid points, header declares %d", len(points), want)
	if len(points) > want {
		return points[:want], nil
	}
	for len(points) < want {
		points = append(points, NoData)
	}
	return points, nil
}

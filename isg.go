package geoid

import (
	"bufio"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

const isgDefaultNoData = -9999.0

// isgField is a header value and the line it was read from.
type isgField struct {
	value string
	line  int
}

// ISGOptions configures ReadISGWithOptions.
type ISGOptions struct {
	// Version overrides the version label taken from the header
	// ("model version", then "model name").
	Version string

	// Kind is stored as the ikind field of the grid.
	Kind uint16
}

func DefaultISGOptions() ISGOptions {
	return ISGOptions{Kind: 1}
}

// ReadISG loads a geoid model in the ISG text format used by the
// International Service for the Geoid.
func ReadISG(r io.Reader) (*MemoryGrid, error) {
	return ReadISGWithOptions(r, DefaultISGOptions())
}

// ReadISGWithOptions loads a geoid model in the ISG text format.
//
// ISG stores rows from north to south; they are flipped into the south to
// north order used by MemoryGrid. Points equal to the header's nodata value
// become NoData.
func ReadISGWithOptions(r io.Reader, opts ISGOptions) (*MemoryGrid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	header := map[string]isgField{}
	lineNo := 0
	for {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, errors.New("isg: missing end_of_head")
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "end_of_head") {
			break
		}
		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.ToLower(strings.Join(strings.Fields(line[:sep]), " "))
		header[key] = isgField{value: strings.TrimSpace(line[sep+1:]), line: lineNo}
	}

	info, noData, err := parseISGHeader(header, opts)
	if err != nil {
		return nil, err
	}

	nx, ny := info.xNum, info.yNum
	rows := make([]float64, 0, min(nx*ny, maxPrealloc))
	for scanner.Scan() {
		lineNo++
		for _, s := range strings.Fields(scanner.Text()) {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, &ErrParse{Line: lineNo, Field: "grid value", Value: s, Err: err}
			}
			rows = append(rows, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) != nx*ny {
		return nil, &ErrSampleCount{Got: len(rows), Want: nx * ny}
	}

	points := make([]int32, nx*ny)
	for i := 0; i < ny; i++ {
		src := rows[i*nx : (i+1)*nx]
		dst := points[(ny-1-i)*nx : (ny-i)*nx]
		for j, v := range src {
			if v == noData || math.IsNaN(v) {
				dst[j] = NoData
				continue
			}
			dst[j] = int32(math.Round(v * Scale))
		}
	}
	return newOwnedGrid(info, points), nil
}

func parseISGHeader(h map[string]isgField, opts ISGOptions) (GridInfo, float64, error) {
	number := func(key string) (float64, error) {
		f, ok := h[key]
		if !ok {
			return 0, &ErrParse{Field: key, Err: errors.New("missing header key")}
		}
		value := f.value
		if fields := strings.Fields(f.value); len(fields) > 0 {
			value = fields[0]
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, &ErrParse{Line: f.line, Field: key, Value: f.value, Err: err}
		}
		return v, nil
	}

	var (
		vals = map[string]float64{}
		keys = []string{"lat min", "lon min", "delta lat", "delta lon", "nrows", "ncols"}
	)
	for _, k := range keys {
		v, err := number(k)
		if err != nil {
			return GridInfo{}, 0, err
		}
		vals[k] = v
	}
	for _, k := range []string{"nrows", "ncols"} {
		if v := vals[k]; v != math.Trunc(v) || v < 1 || v > math.MaxInt32 {
			return GridInfo{}, 0, &ErrParse{Line: h[k].line, Field: k, Value: h[k].value, Err: errors.New("not a grid size")}
		}
	}

	noData := isgDefaultNoData
	if _, ok := h["nodata"]; ok {
		v, err := number("nodata")
		if err != nil {
			return GridInfo{}, 0, err
		}
		noData = v
	}

	version := opts.Version
	if version == "" {
		version = h["model version"].value
	}
	if version == "" {
		version = h["model name"].value
	}

	denom := func(delta float64) int {
		if delta <= 0 {
			return 0
		}
		return int(math.Round(1 / delta))
	}
	info, err := NewGridInfo(
		int(vals["ncols"]), int(vals["nrows"]),
		denom(vals["delta lon"]), denom(vals["delta lat"]),
		float32(vals["lon min"]), float32(vals["lat min"]),
		opts.Kind, version,
	)
	return info, noData, err
}

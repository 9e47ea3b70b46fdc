package geoid

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// HeaderSize is the size of the fixed binary header.
const HeaderSize = 28

// predictor is the spatial linear predictor shared by the encoder and the
// decoder. Each sample is predicted from its left neighbour, the sample above
// it and the sample above-left: left + above - aboveLeft. left carries over
// row boundaries; above and aboveLeft are NoData on the first row only.
type predictor struct {
	xNum      int
	left      int32
	aboveLeft int32
}

func newPredictor(xNum int) predictor {
	return predictor{xNum: xNum, left: NoData, aboveLeft: NoData}
}

// predict returns the prediction for position pos and the above value it used.
// Arithmetic wraps, which keeps encode and decode exact inverses for any input.
func (p *predictor) predict(points []int32, pos int) (predicted, above int32) {
	above = NoData
	if pos >= p.xNum {
		above = points[pos-p.xNum]
	}
	return p.left + above - p.aboveLeft, above
}

func (p *predictor) advance(curr, above int32) {
	p.left, p.aboveLeft = curr, above
}

// WriteBinary dumps the model in the compact binary format: a 28-byte
// little-endian header followed by one int32 prediction residual per point.
// Nothing is written when the header cannot be encoded.
func (g *MemoryGrid) WriteBinary(w io.Writer) error {
	header, err := encodeHeader(g.info)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return err
	}

	// the predictor reads the row above by index
	samples := g.int32s()

	var buf [4]byte
	pred := newPredictor(g.info.xNum)
	for pos, curr := range samples {
		predicted, above := pred.predict(samples, pos)
		binary.LittleEndian.PutUint32(buf[:], uint32(curr-predicted))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
		pred.advance(curr, above)
	}
	return bw.Flush()
}

// MarshalBinary returns the binary encoding of the model.
func (g *MemoryGrid) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + g.points.len()*4)
	if err := g.WriteBinary(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadBinary loads a model written by WriteBinary.
func ReadBinary(r io.Reader) (*MemoryGrid, error) {
	br := bufio.NewReader(r)

	var header [HeaderSize]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	info, err := decodeHeader(header[:])
	if err != nil {
		return nil, err
	}

	// grown as residuals arrive; the predictor only looks back one row
	n := info.NodeCount()
	points := make([]int32, 0, min(n, maxPrealloc))
	var buf [4]byte
	pred := newPredictor(info.xNum)
	for pos := 0; pos < n; pos++ {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("read grid point %d of %d: %w", pos, n, err)
		}
		predicted, above := pred.predict(points, pos)
		curr := predicted + int32(binary.LittleEndian.Uint32(buf[:]))
		points = append(points, curr)
		pred.advance(curr, above)
	}
	return newOwnedGrid(info, points), nil
}

func encodeHeader(info GridInfo) ([]byte, error) {
	if len(info.version) > VersionSize {
		return nil, &ErrVersionTooLong{Version: info.version}
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"x_num", info.xNum},
		{"y_num", info.yNum},
		{"x_denom", info.xDenom},
		{"y_denom", info.yDenom},
	} {
		if f.value > math.MaxUint16 {
			return nil, &ErrHeaderOverflow{Field: f.name, Value: f.value}
		}
	}

	header := make([]byte, 0, HeaderSize)
	header = binary.LittleEndian.AppendUint16(header, uint16(info.xNum))
	header = binary.LittleEndian.AppendUint16(header, uint16(info.yNum))
	header = binary.LittleEndian.AppendUint16(header, uint16(info.xDenom))
	header = binary.LittleEndian.AppendUint16(header, uint16(info.yDenom))
	header = binary.LittleEndian.AppendUint32(header, math.Float32bits(info.xMin))
	header = binary.LittleEndian.AppendUint32(header, math.Float32bits(info.yMin))
	header = binary.LittleEndian.AppendUint16(header, info.kind)
	header = append(header, info.version...)
	for len(header) < HeaderSize {
		header = append(header, 0)
	}
	return header, nil
}

func decodeHeader(b []byte) (GridInfo, error) {
	version := b[18:HeaderSize]
	if i := bytes.IndexByte(version, 0); i >= 0 {
		version = version[:i]
	}
	return NewGridInfo(
		int(binary.LittleEndian.Uint16(b[0:2])),
		int(binary.LittleEndian.Uint16(b[2:4])),
		int(binary.LittleEndian.Uint16(b[4:6])),
		int(binary.LittleEndian.Uint16(b[6:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[12:16])),
		binary.LittleEndian.Uint16(b[16:18]),
		string(version),
	)
}

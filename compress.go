package geoid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format identifies how a model file is stored.
type Format int

const (
	FormatBinary Format = iota
	FormatGzip
	FormatZstd
	FormatLZ4
	FormatASCII
	FormatISG
)

var formatExts = []struct {
	ext    string
	format Format
}{
	// longest suffixes first
	{".bin.gz", FormatGzip},
	{".bin.zst", FormatZstd},
	{".bin.lz4", FormatLZ4},
	{".bin", FormatBinary},
	{".asc", FormatASCII},
	{".isg", FormatISG},
}

// FormatFromName picks the format from the file name suffix.
func FormatFromName(name string) (Format, error) {
	lower := strings.ToLower(name)
	for _, e := range formatExts {
		if strings.HasSuffix(lower, e.ext) {
			return e.format, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(name))
}

// ParseFormat accepts the short names used on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "bin":
		return FormatBinary, nil
	case "gz", "gzip":
		return FormatGzip, nil
	case "zst", "zstd":
		return FormatZstd, nil
	case "lz4":
		return FormatLZ4, nil
	case "asc", "ascii":
		return FormatASCII, nil
	case "isg":
		return FormatISG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file name suffix of the format.
func (f Format) Ext() string {
	for _, e := range formatExts {
		if e.format == f {
			return e.ext
		}
	}
	return ""
}

func (f Format) String() string {
	return strings.TrimPrefix(f.Ext(), ".")
}

// DecodeModel decodes a model file whose format is given by name.
func DecodeModel(name string, data []byte) (*MemoryGrid, error) {
	format, err := FormatFromName(name)
	if err != nil {
		return nil, err
	}
	return DecodeModelFormat(format, data)
}

// DecodeModelFormat decodes data stored in the given format.
func DecodeModelFormat(format Format, data []byte) (*MemoryGrid, error) {
	switch format {
	case FormatBinary:
		return ReadBinary(bytes.NewReader(data))
	case FormatGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		return ReadBinary(zr)
	case FormatZstd:
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		return ReadBinary(dec)
	case FormatLZ4:
		raw, err := DecompressLZ4(data)
		if err != nil {
			return nil, err
		}
		return ReadBinary(bytes.NewReader(raw))
	case FormatASCII:
		return ReadASCII(bytes.NewReader(data))
	case FormatISG:
		return ReadISG(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
}

// EncodeModel encodes g in one of the binary formats.
func EncodeModel(format Format, g *MemoryGrid) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteModel(&buf, format, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteModel writes g to w in one of the binary formats.
func WriteModel(w io.Writer, format Format, g *MemoryGrid) error {
	switch format {
	case FormatBinary:
		return g.WriteBinary(w)
	case FormatGzip:
		zw, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
		if err != nil {
			return err
		}
		if err := g.WriteBinary(zw); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	case FormatZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if err := g.WriteBinary(enc); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case FormatLZ4:
		raw, err := g.MarshalBinary()
		if err != nil {
			return err
		}
		compressed, err := CompressLZ4(raw)
		if err != nil {
			return err
		}
		_, err = w.Write(compressed)
		return err
	}
	return fmt.Errorf("%w: cannot encode %s", ErrUnknownFormat, format)
}

// OpenModel reads and decodes a model file.
func OpenModel(path string) (*MemoryGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := DecodeModel(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return g, nil
}

// SaveModel encodes g in the format given by the suffix of path.
func SaveModel(path string, g *MemoryGrid) error {
	format, err := FormatFromName(path)
	if err != nil {
		return err
	}
	data, err := EncodeModel(format, g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// lz4 blocks expand at most ~255x
const lz4MaxRatio = 255

// CompressLZ4 compresses src into a single LZ4 block prefixed with its
// uncompressed size as a little-endian uint32.
func CompressLZ4(src []byte) ([]byte, error) {
	if uint64(len(src)) > uint64(^uint32(0)) {
		return nil, errors.New("lz4: input too large")
	}
	dst := make([]byte, 4+lz4.CompressBlockBound(len(src)))
	binary.LittleEndian.PutUint32(dst, uint32(len(src)))
	var c lz4.Compressor
	n, err := c.CompressBlock(src, dst[4:])
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return dst[:4+n], nil
}

// DecompressLZ4 reverses CompressLZ4.
func DecompressLZ4(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("lz4: %w", io.ErrUnexpectedEOF)
	}
	size := binary.LittleEndian.Uint32(data)
	if uint64(size) > uint64(len(data)-4)*lz4MaxRatio+lz4MaxRatio {
		return nil, fmt.Errorf("lz4: declared size %d too large for %d byte block", size, len(data)-4)
	}
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data[4:], dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if n != int(size) {
		return nil, fmt.Errorf("lz4: decompressed %d bytes, expected %d", n, size)
	}
	return dst, nil
}

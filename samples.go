package geoid

import "encoding/binary"

// sampleStore holds the raw grid samples in row-major order.
type sampleStore interface {
	at(i int) int32
	len() int
}

// ownedSamples is a decoded, freshly allocated sample array.
type ownedSamples []int32

func (s ownedSamples) at(i int) int32 { return s[i] }
func (s ownedSamples) len() int { return len(s) }

// borrowedSamples reads little-endian int32 samples straight out of a byte
// slice owned by someone else, typically a static asset. It is never written.
type borrowedSamples []byte

func (s borrowedSamples) at(i int) int32 {
	return int32(binary.LittleEndian.Uint32(s[i*4:]))
}

func (s borrowedSamples) len() int { return len(s) / 4 }

func appendRawSamples(dst []byte, s sampleStore) []byte {
	if b, ok := s.(borrowedSamples); ok {
		return append(dst, b...)
	}
	n := s.len()
	for i := 0; i < n; i++ {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(s.at(i)))
	}
	return dst
}

package omnisketch

import (
	"encoding/binary"
	"fmt"
)

// Wire layout byte offsets. All multi-byte fields are little-endian; the
// layout is position-independent (no internal pointers, no auxiliary
// index), so a Sketch is relocatable by a straight byte copy.
const (
	offsetLength     = 0  // 4 bytes, host-defined length header; this module emits total size and ignores it on decode
	offsetFlags      = 4  // 4 bytes, reserved, currently 0
	offsetNumColumns = 8  // 2 bytes
	offsetWidth      = 10 // 2 bytes
	offsetHeight     = 12 // 2 bytes
	offsetSampleSize = 14 // 2 bytes
	offsetItemBits   = 16 // 2 bytes
	offsetCount      = 20 // 4 bytes
	offsetSeed       = 24 // 4 bytes

	headerByteSize = 32 // padded to 8-byte alignment, buckets start here
	bucketByteSize = 16 // uint32 + uint16 + uint16 + uint32 + bool + 3 pad
)

// MarshalBinary encodes the sketch into its compact wire format: a fixed
// header, followed by every bucket, followed by every cell's sample slots
// (all C*D*W*B of them, matching the fixed-stride addressing used in
// memory, not just the occupied prefix of each cell).
func (s *Sketch) MarshalBinary() ([]byte, error) {
	size := sketchByteSize(s.numColumns, s.width, s.height, s.sampleSize)
	buf := make([]byte, size)

	binary.LittleEndian.PutUint32(buf[offsetLength:], uint32(size))
	binary.LittleEndian.PutUint32(buf[offsetFlags:], 0)
	binary.LittleEndian.PutUint16(buf[offsetNumColumns:], uint16(s.numColumns))
	binary.LittleEndian.PutUint16(buf[offsetWidth:], uint16(s.width))
	binary.LittleEndian.PutUint16(buf[offsetHeight:], uint16(s.height))
	binary.LittleEndian.PutUint16(buf[offsetSampleSize:], uint16(s.sampleSize))
	binary.LittleEndian.PutUint16(buf[offsetItemBits:], uint16(s.itemBits))
	binary.LittleEndian.PutUint32(buf[offsetCount:], s.count)
	binary.LittleEndian.PutUint32(buf[offsetSeed:], s.seed)

	off := headerByteSize
	for _, bucket := range s.buckets {
		binary.LittleEndian.PutUint32(buf[off:], bucket.TotalCount)
		binary.LittleEndian.PutUint16(buf[off+4:], bucket.SampleCount)
		binary.LittleEndian.PutUint16(buf[off+6:], bucket.MaxIndex)
		binary.LittleEndian.PutUint32(buf[off+8:], bucket.MaxHash)
		if bucket.IsSorted {
			buf[off+12] = 1
		}
		off += bucketByteSize
	}

	for _, id := range s.samples {
		binary.LittleEndian.PutUint32(buf[off:], id)
		off += 4
	}

	return buf, nil
}

// UnmarshalBinary decodes a sketch previously produced by MarshalBinary.
// The receiver is overwritten in place; on error it is left unmodified.
func (s *Sketch) UnmarshalBinary(data []byte) error {
	if len(data) < headerByteSize {
		return fmt.Errorf("omnisketch: truncated header: got %d bytes, want at least %d", len(data), headerByteSize)
	}

	numColumns := int(binary.LittleEndian.Uint16(data[offsetNumColumns:]))
	width := int(binary.LittleEndian.Uint16(data[offsetWidth:]))
	height := int(binary.LittleEndian.Uint16(data[offsetHeight:]))
	sampleSize := int(binary.LittleEndian.Uint16(data[offsetSampleSize:]))
	itemBits := int(binary.LittleEndian.Uint16(data[offsetItemBits:]))
	count := binary.LittleEndian.Uint32(data[offsetCount:])
	seed := binary.LittleEndian.Uint32(data[offsetSeed:])

	if numColumns <= 0 || width <= 0 || height <= 0 || sampleSize < 0 {
		return fmt.Errorf("omnisketch: corrupt header: columns=%d width=%d height=%d sampleSize=%d",
			numColumns, width, height, sampleSize)
	}

	wantSize := sketchByteSize(numColumns, width, height, sampleSize)
	if int64(len(data)) != wantSize {
		return fmt.Errorf("omnisketch: size mismatch: got %d bytes, header implies %d", len(data), wantSize)
	}

	numCells := numColumns * height * width
	buckets := make([]Bucket, numCells)
	off := headerByteSize
	for i := range buckets {
		buckets[i] = Bucket{
			TotalCount:  binary.LittleEndian.Uint32(data[off:]),
			SampleCount: binary.LittleEndian.Uint16(data[off+4:]),
			MaxIndex:    binary.LittleEndian.Uint16(data[off+6:]),
			MaxHash:     binary.LittleEndian.Uint32(data[off+8:]),
			IsSorted:    data[off+12] != 0,
		}
		off += bucketByteSize
	}

	samples := make([]uint32, numCells*sampleSize)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint32(data[off:])
		off += 4
	}

	s.numColumns = numColumns
	s.width = width
	s.height = height
	s.sampleSize = sampleSize
	s.itemBits = itemBits
	s.count = count
	s.seed = seed
	s.buckets = buckets
	s.samples = samples
	return nil
}

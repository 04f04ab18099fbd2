package omnisketch

import (
	"math"

	"github.com/omnisketch/omnisketch-go/internal"
)

// Bucket is one cell of one attribute's Count-Min matrix: a running count
// plus the bookkeeping needed to maintain a bottom-k sample of the record
// IDs that hashed into it.
type Bucket struct {
	TotalCount  uint32 // records hashed into this cell, >= SampleCount
	SampleCount uint16 // IDs currently stored, <= sample size
	MaxIndex    uint16 // position of the ID with the largest H_s, within this cell's sample slice
	MaxHash     uint32 // that largest H_s value
	IsSorted    bool   // are this cell's IDs ordered by (H_s, id)
}

// maxSampleSize is the hard cap on B from the sizing rule: the sizing loop
// stops at this bound even when b is still below maxItemBits, which is the
// case for all but very small delta.
const maxSampleSize = 1024

// maxItemBits is the cap on b: IDs are always 32-bit, so a bottom-k
// priority hash never needs more precision than that.
const maxItemBits = 32

// maxSketchBytes is the host-enforced upper bound on a single sketch's
// footprint.
const maxSketchBytes = 1 << 30

// computeSizing derives (width, height, sampleSize, itemBits) from the
// accuracy parameters.
func computeSizing(epsilon, delta float64) (width, height, sampleSize, itemBits int, err error) {
	if epsilon <= 0 || epsilon > 1 {
		return 0, 0, 0, 0, &ParameterError{Reason: "epsilon must be in (0, 1]"}
	}
	if delta <= 0 || delta > 1 {
		return 0, 0, 0, 0, &ParameterError{Reason: "delta must be in (0, 1]"}
	}

	height = internal.Max(int(math.Ceil(math.Log(2.0/delta))), 1)

	width = 1 + int(math.Ceil(math.E*math.Pow((epsilon+1.0)/epsilon, 1.0/float64(height))))
	if width < 1 {
		return 0, 0, 0, 0, &ParameterError{Reason: "computed width is not positive"}
	}

	b := 0
	B := 0
	for b < maxItemBits && B < maxSampleSize {
		B++
		b = int(math.Ceil(math.Log(4.0 * math.Pow(float64(B), 2.5) / delta)))
	}
	b = internal.Min(b, maxItemBits)

	return width, height, B, b, nil
}

// cellIndex returns the linear index of cell (c, r, j) into a flat
// column-major-by-attribute bucket array.
func cellIndex(height, width, c, r, j int) int {
	return c*height*width + r*width + j
}

// sketchByteSize returns the number of bytes a sketch of the given shape
// would occupy on the wire (header + buckets + samples), used both by the
// serializer and by the 1 GB resource-limit check in New.
func sketchByteSize(numColumns, width, height, sampleSize int) int64 {
	numCells := int64(numColumns) * int64(height) * int64(width)
	return int64(headerByteSize) + numCells*int64(bucketByteSize) + numCells*int64(sampleSize)*4
}

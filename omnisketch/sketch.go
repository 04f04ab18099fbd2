package omnisketch

import (
	"fmt"
	"math/rand"
	"strings"
)

// Sketch is a mutable-contents, immutable-shape OmniSketch value: once
// allocated by New, its dimensions never change, but Add, Combine and
// Finalize mutate its buckets and samples in place.
//
// A Sketch's flat backing arrays contain no pointers, so a Sketch is
// relocatable by copying its fields (see Clone) and, on the wire,
// by a straight byte copy (see MarshalBinary/UnmarshalBinary).
type Sketch struct {
	numColumns int
	width      int
	height     int
	sampleSize int
	itemBits   int
	count      uint32
	seed       uint32

	buckets []Bucket
	samples []uint32
}

// Option configures a Sketch at construction time.
type Option func(*sketchOptions)

type sketchOptions struct {
	seed    uint32
	hasSeed bool
}

// WithSeed pins the sketch's ID-derivation seed instead of drawing one at
// random. Sketches that will be merged with Combine must NOT share a seed
// in production use (disjoint ID spaces are what makes merging sound); this
// option exists for reproducible tests and for callers that manage
// disjointness themselves (e.g. by deriving per-shard seeds from a common
// root).
func WithSeed(seed uint32) Option {
	return func(o *sketchOptions) {
		o.seed = seed
		o.hasSeed = true
	}
}

// New allocates an empty sketch sized from the accuracy parameters (epsilon,
// delta), both in (0, 1], for a record with the given number of columns.
func New(epsilon, delta float64, numColumns int, opts ...Option) (*Sketch, error) {
	if numColumns <= 0 {
		return nil, &ParameterError{Reason: "numColumns must be positive"}
	}

	width, height, sampleSize, itemBits, err := computeSizing(epsilon, delta)
	if err != nil {
		return nil, err
	}

	if size := sketchByteSize(numColumns, width, height, sampleSize); size > maxSketchBytes {
		return nil, &ResourceLimitError{
			Reason: fmt.Sprintf("sketch would occupy %d bytes, over the %d byte cap", size, maxSketchBytes),
		}
	}

	options := sketchOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	seed := options.seed
	if !options.hasSeed {
		seed = rand.Uint32()
	}

	numCells := numColumns * height * width
	return &Sketch{
		numColumns: numColumns,
		width:      width,
		height:     height,
		sampleSize: sampleSize,
		itemBits:   itemBits,
		seed:       seed,
		buckets:    make([]Bucket, numCells),
		samples:    make([]uint32, numCells*sampleSize),
	}, nil
}

// NumColumns returns the number of per-attribute matrices (C).
func (s *Sketch) NumColumns() int { return s.numColumns }

// Width returns the matrix width (W).
func (s *Sketch) Width() int { return s.width }

// Height returns the matrix height, i.e. the number of hash rows (D).
func (s *Sketch) Height() int { return s.height }

// SampleSize returns the maximum number of IDs retained per cell (B).
func (s *Sketch) SampleSize() int { return s.sampleSize }

// ItemBits returns the recorded bits of ID precision (b) chosen at
// construction. IDs are always stored as 32-bit values regardless of this
// field; see SPEC_FULL.md section 6, open question 3.
func (s *Sketch) ItemBits() int { return s.itemBits }

// Count returns the total number of records ingested (N).
func (s *Sketch) Count() int64 { return int64(s.count) }

// Seed returns the sketch's ID-derivation seed.
func (s *Sketch) Seed() uint32 { return s.seed }

// IsEmpty reports whether the sketch has ingested any records.
func (s *Sketch) IsEmpty() bool { return s.count == 0 }

// Bucket returns a copy of the bucket at (c, r, j), for inspection and
// testing.
func (s *Sketch) Bucket(c, r, j int) Bucket {
	return s.buckets[cellIndex(s.height, s.width, c, r, j)]
}

// Sample returns a copy of the IDs currently stored in cell (c, r, j).
func (s *Sketch) Sample(c, r, j int) []uint32 {
	idx := cellIndex(s.height, s.width, c, r, j)
	b := s.buckets[idx]
	base := idx * s.sampleSize
	out := make([]uint32, b.SampleCount)
	copy(out, s.samples[base:base+int(b.SampleCount)])
	return out
}

func (s *Sketch) cell(c, r, j int) (*Bucket, []uint32) {
	idx := cellIndex(s.height, s.width, c, r, j)
	base := idx * s.sampleSize
	return &s.buckets[idx], s.samples[base : base+s.sampleSize]
}

// Clone returns a deep, independent copy of the sketch.
func (s *Sketch) Clone() *Sketch {
	out := &Sketch{
		numColumns: s.numColumns,
		width:      s.width,
		height:     s.height,
		sampleSize: s.sampleSize,
		itemBits:   s.itemBits,
		count:      s.count,
		seed:       s.seed,
		buckets:    make([]Bucket, len(s.buckets)),
		samples:    make([]uint32, len(s.samples)),
	}
	copy(out.buckets, s.buckets)
	copy(out.samples, s.samples)
	return out
}

// sameShape reports whether two sketches were built with structurally
// equal parameters, the precondition for Combine.
func (s *Sketch) sameShape(other *Sketch) bool {
	return s.numColumns == other.numColumns &&
		s.width == other.width &&
		s.height == other.height &&
		s.sampleSize == other.sampleSize &&
		s.itemBits == other.itemBits
}

// String renders a human-readable summary of the sketch's shape and, per
// row, how full each cell's sample is. It is not the host's text/JSON
// pretty-printer (that stays a host responsibility); it exists because
// every sketch type in this codebase's teacher package carries one.
func (s *Sketch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "OmniSketch{columns=%d width=%d height=%d sampleSize=%d itemBits=%d count=%d seed=%d}\n",
		s.numColumns, s.width, s.height, s.sampleSize, s.itemBits, s.count, s.seed)
	for c := 0; c < s.numColumns; c++ {
		fmt.Fprintf(&b, "  column %d:\n", c)
		for r := 0; r < s.height; r++ {
			b.WriteString("    ")
			for j := 0; j < s.width; j++ {
				bucket := s.Bucket(c, r, j)
				fmt.Fprintf(&b, "(%d/%d)", bucket.SampleCount, bucket.TotalCount)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

package omnisketch

import "fmt"

// Estimate returns the approximate number of ingested records whose column
// values match columnHashes[c] for every column c.
//
// Estimate expects Finalize to have been called since the last mutation.
// With EnableInvariantChecks set it panics when it visits an unsorted cell
// holding two or more IDs; otherwise it sorts such a cell's IDs on the fly
// before intersecting them.
func (s *Sketch) Estimate(columnHashes []uint32) (int64, error) {
	if len(columnHashes) != s.numColumns {
		return 0, &ShapeMismatchError{
			Reason: fmt.Sprintf("query has %d columns, sketch was built for %d", len(columnHashes), s.numColumns),
		}
	}
	if s.count == 0 {
		return 0, nil
	}

	var maxCount uint32
	var candidates []idHashPair
	haveCandidates := false

	for c, x := range columnHashes {
		for r := 0; r < s.height; r++ {
			j := int(rowHash(x, r)) % s.width
			bucket, sample := s.cell(c, r, j)

			if bucket.TotalCount > maxCount {
				maxCount = bucket.TotalCount
			}

			cellSample := sample[:bucket.SampleCount]
			if EnableInvariantChecks && bucket.SampleCount >= 2 && !bucket.IsSorted {
				invariantViolation("estimate visited an unsorted cell (column %d, row %d); call Finalize first", c, r)
			}
			cellPairs := sortedPairs(bucket, cellSample)

			if !haveCandidates {
				candidates = cellPairs
				haveCandidates = true
			} else {
				candidates = intersectSortedPairs(candidates, cellPairs)
			}
		}
	}

	if len(candidates) == 0 {
		return 0, nil
	}
	return int64(maxCount) * int64(len(candidates)) / int64(s.sampleSize), nil
}

// intersectSortedPairs computes the set intersection, by ID equality, of
// two (H_s, id)-ordered pair slices in a single linear pass: since both
// slices share the same hash function, walking them in lockstep and
// advancing whichever side has the smaller (hash, id) key finds every
// equal ID exactly once.
func intersectSortedPairs(a, b []idHashPair) []idHashPair {
	out := make([]idHashPair, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].id == b[j].id:
			out = append(out, a[i])
			i++
			j++
		case lessPair(a[i], b[j]):
			i++
		default:
			j++
		}
	}
	return out
}

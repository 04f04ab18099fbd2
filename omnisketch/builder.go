package omnisketch

import "fmt"

// Add ingests one record's pre-hashed column values. columnHashes[c] is the
// caller's hash of the record's c-th column value (already type-dispatched
// and NULL-collapsed to 0 by the host). The record's ID is derived
// internally from the sketch's running count and seed, so callers never
// supply one directly.
//
// Add fails with a *ShapeMismatchError, leaving the sketch untouched, if
// len(columnHashes) does not match the column count the sketch was built
// for.
func (s *Sketch) Add(columnHashes []uint32) error {
	if len(columnHashes) != s.numColumns {
		return &ShapeMismatchError{
			Reason: fmt.Sprintf("record has %d columns, sketch was built for %d", len(columnHashes), s.numColumns),
		}
	}

	s.count++
	id := deriveRecordID(s.count, s.seed)

	for c, x := range columnHashes {
		for r := 0; r < s.height; r++ {
			j := int(rowHash(x, r)) % s.width
			bucket, sample := s.cell(c, r, j)
			sampleInsert(bucket, sample, s.sampleSize, id)
			assertBucketInvariants(bucket, sample[:bucket.SampleCount], s.count)
		}
	}

	return nil
}

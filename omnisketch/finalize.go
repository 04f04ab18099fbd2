package omnisketch

// Finalize brings every non-empty cell's sample into canonical (H_s, id)
// sorted order, so Estimate can intersect samples in linear time. It is
// idempotent: cells already marked IsSorted are left untouched.
func (s *Sketch) Finalize() {
	for idx := range s.buckets {
		bucket := &s.buckets[idx]
		if bucket.SampleCount < 2 || bucket.IsSorted {
			continue
		}

		base := idx * s.sampleSize
		sample := s.samples[base : base+int(bucket.SampleCount)]

		pairs := sortedPairs(bucket, sample)
		for k, p := range pairs {
			sample[k] = p.id
		}

		bucket.MaxIndex = bucket.SampleCount - 1
		bucket.IsSorted = true

		assertBucketInvariants(bucket, sample, s.count)
	}
}

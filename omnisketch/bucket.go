package omnisketch

import "sort"

// idHashPair pairs an ID with its bottom-k priority hash, so the priority
// doesn't need recomputing once known. Ordering ties are broken by id.
type idHashPair struct {
	id   uint32
	hash uint32
}

func lessPair(a, b idHashPair) bool {
	if a.hash != b.hash {
		return a.hash < b.hash
	}
	return a.id < b.id
}

// sampleInsert applies the bottom-k reservoir update rule to cell (bucket,
// sample) for a newly-seen id. sample must have capacity
// for at least sampleSize entries; only the first bucket.SampleCount of
// them are meaningful.
func sampleInsert(bucket *Bucket, sample []uint32, sampleSize int, id uint32) {
	bucket.TotalCount++
	h := idSampleHash(id)

	if int(bucket.SampleCount) < sampleSize {
		idx := bucket.SampleCount
		sample[idx] = id
		if idx == 0 || h > bucket.MaxHash {
			bucket.MaxIndex = idx
			bucket.MaxHash = h
		}
		bucket.SampleCount++
		bucket.IsSorted = false
		return
	}

	if h >= bucket.MaxHash {
		return
	}

	// Evict the current max: it's guaranteed to still be the max of what's
	// left, is replaced by the new (smaller) hash, then the whole cell is
	// rescanned for the new max (most inserts hit the append branch above;
	// this path is rare once a cell is full and past its steepest fill
	// phase).
	sample[bucket.MaxIndex] = id
	bucket.MaxHash = 0
	for k := 0; k < int(bucket.SampleCount); k++ {
		hk := idSampleHash(sample[k])
		if hk >= bucket.MaxHash {
			bucket.MaxHash = hk
			bucket.MaxIndex = uint16(k)
		}
	}
	bucket.IsSorted = false
}

// sortedPairs returns the cell's IDs as (id, hash) pairs in (H_s, id)
// order, reusing the cell's IsSorted flag to skip the sort when the sample
// is already known to be ordered (from a prior Finalize or merge).
func sortedPairs(bucket *Bucket, sample []uint32) []idHashPair {
	n := len(sample)
	pairs := make([]idHashPair, n)
	for k, id := range sample {
		pairs[k] = idHashPair{id: id, hash: idSampleHash(id)}
	}
	if !bucket.IsSorted {
		sort.Slice(pairs, func(i, j int) bool { return lessPair(pairs[i], pairs[j]) })
	} else if EnableInvariantChecks {
		assertPairsSorted(pairs)
	}
	return pairs
}

func assertPairsSorted(pairs []idHashPair) {
	for k := 1; k < len(pairs); k++ {
		if !lessPair(pairs[k-1], pairs[k]) {
			invariantViolation("bucket marked sorted but pair %d (%v) does not precede pair %d (%v)",
				k-1, pairs[k-1], k, pairs[k])
		}
	}
}

// assertBucketInvariants checks a single cell's bookkeeping (sample-count
// bounds, total-count monotonicity, max-hash consistency). It never runs
// unless EnableInvariantChecks is set.
func assertBucketInvariants(bucket *Bucket, sample []uint32, totalRecords uint32) {
	if !EnableInvariantChecks {
		return
	}
	if int(bucket.SampleCount) > len(sample) {
		invariantViolation("sampleCount %d exceeds sample capacity %d", bucket.SampleCount, len(sample))
	}
	if bucket.TotalCount < uint32(bucket.SampleCount) {
		invariantViolation("totalCount %d is less than sampleCount %d", bucket.TotalCount, bucket.SampleCount)
	}
	if bucket.TotalCount > totalRecords {
		invariantViolation("totalCount %d exceeds sketch count %d", bucket.TotalCount, totalRecords)
	}
	if bucket.SampleCount == 0 {
		return
	}
	if int(bucket.MaxIndex) >= int(bucket.SampleCount) {
		invariantViolation("maxIndex %d out of range for sampleCount %d", bucket.MaxIndex, bucket.SampleCount)
	}
	if got := idSampleHash(sample[bucket.MaxIndex]); got != bucket.MaxHash {
		invariantViolation("maxHash %d does not match H_s(sample[maxIndex])=%d", bucket.MaxHash, got)
	}
	for k := 0; k < int(bucket.SampleCount); k++ {
		if idSampleHash(sample[k]) > bucket.MaxHash {
			invariantViolation("sample[%d] has hash greater than maxHash %d", k, bucket.MaxHash)
		}
	}
	if bucket.IsSorted && int(bucket.MaxIndex) != int(bucket.SampleCount)-1 {
		invariantViolation("bucket is sorted but maxIndex %d is not the last slot (sampleCount %d)",
			bucket.MaxIndex, bucket.SampleCount)
	}
}

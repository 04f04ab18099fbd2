package omnisketch

import "fmt"

// Combine merges two structurally compatible sketches into a new one,
// preserving the bottom-k property of every cell. Either argument may be
// nil, in which case the other is returned (cloned, so the result is
// independent of its inputs); if both are nil, Combine returns nil.
//
// Combine fails with a *ShapeMismatchError if both sketches are non-nil and
// were not built with the same (numColumns, width, height, sampleSize,
// itemBits).
//
// The merge is commutative and associative up to (H_s, id) tie-breaking:
// combining sketches built over disjoint record-ID spaces (the normal case,
// since each sketch draws its own random seed) produces identical counts,
// buckets and samples after Finalize regardless of pairing order. The
// result takes its seed from the first argument, so encodings of different
// pairings differ in the seed field.
func Combine(a, b *Sketch) (*Sketch, error) {
	if a == nil && b == nil {
		return nil, nil
	}
	if a == nil {
		return b.Clone(), nil
	}
	if b == nil {
		return a.Clone(), nil
	}
	if !a.sameShape(b) {
		return nil, &ShapeMismatchError{Reason: fmt.Sprintf(
			"incompatible sketches: (%d,%d,%d,%d,%d) vs (%d,%d,%d,%d,%d)",
			a.numColumns, a.width, a.height, a.sampleSize, a.itemBits,
			b.numColumns, b.width, b.height, b.sampleSize, b.itemBits)}
	}

	result := a.Clone()
	for idx := range result.buckets {
		dstBucket := &result.buckets[idx]
		srcBucket := &b.buckets[idx]

		dstBase := idx * result.sampleSize
		srcBase := idx * b.sampleSize
		dstSample := result.samples[dstBase : dstBase+result.sampleSize]
		srcSample := b.samples[srcBase : srcBase+b.sampleSize]

		mergeCell(dstBucket, dstSample, srcBucket, srcSample[:srcBucket.SampleCount], result.sampleSize)
		assertBucketInvariants(dstBucket, dstSample[:dstBucket.SampleCount], a.count+b.count)
	}
	result.count = a.count + b.count

	return result, nil
}

// mergeCell merges src into dst in place: total counts add, and the sample
// becomes the bottom-k merge of both inputs' samples, capped at capacity
// and left canonically sorted.
func mergeCell(dst *Bucket, dstSample []uint32, src *Bucket, srcSample []uint32, capacity int) {
	totalCount := dst.TotalCount + src.TotalCount

	dstPairs := sortedPairs(dst, dstSample[:dst.SampleCount])
	srcPairs := sortedPairs(src, srcSample)

	merged := make([]idHashPair, 0, min(capacity, len(dstPairs)+len(srcPairs)))
	i, j := 0, 0
	for (i < len(dstPairs) || j < len(srcPairs)) && len(merged) < capacity {
		switch {
		case i >= len(dstPairs):
			merged = append(merged, srcPairs[j])
			j++
		case j >= len(srcPairs):
			merged = append(merged, dstPairs[i])
			i++
		case dstPairs[i].id == srcPairs[j].id:
			// Same record ID surfaced by both inputs: a violation of the
			// disjoint-ID-space assumption Combine relies on. Emit it at
			// most once either way.
			if EnableInvariantChecks {
				invariantViolation("id %d present in both merged cells", dstPairs[i].id)
			}
			merged = append(merged, dstPairs[i])
			i++
			j++
		case lessPair(dstPairs[i], srcPairs[j]):
			merged = append(merged, dstPairs[i])
			i++
		default:
			merged = append(merged, srcPairs[j])
			j++
		}
	}

	for k, p := range merged {
		dstSample[k] = p.id
	}
	dst.SampleCount = uint16(len(merged))
	if len(merged) > 0 {
		dst.MaxIndex = uint16(len(merged) - 1)
		dst.MaxHash = merged[len(merged)-1].hash
	} else {
		dst.MaxIndex = 0
		dst.MaxHash = 0
	}
	dst.IsSorted = true
	dst.TotalCount = totalCount
}

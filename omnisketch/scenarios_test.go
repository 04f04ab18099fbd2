package omnisketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_Scenario_ShardedBuildThenCombine builds a sketch across 10
// independently-seeded shards and checks that the combined sketch's count
// equals the sum of everything added, and that it can be queried afterward.
func Test_Scenario_ShardedBuildThenCombine(t *testing.T) {
	const numShards = 10
	const recordsPerShard = 2_000

	var combined *Sketch
	for shard := 0; shard < numShards; shard++ {
		s, err := New(0.05, 0.05, 2, WithSeed(uint32(1000+shard)))
		assert.NoError(t, err)
		for i := 0; i < recordsPerShard; i++ {
			x := uint32(shard*recordsPerShard + i)
			assert.NoError(t, s.Add([]uint32{x, x}))
		}

		combined, err = Combine(combined, s)
		assert.NoError(t, err)
	}

	assert.Equal(t, int64(numShards*recordsPerShard), combined.Count())

	combined.Finalize()
	estimate, err := combined.Estimate([]uint32{5, 5})
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, estimate, int64(0))
	assert.LessOrEqual(t, estimate, combined.Count())
}

// Test_Scenario_EmptySketchEstimatesZero confirms a freshly allocated,
// never-added-to sketch answers every query with 0, no Finalize required.
func Test_Scenario_EmptySketchEstimatesZero(t *testing.T) {
	s, err := New(0.1, 0.1, 3)
	assert.NoError(t, err)

	estimate, err := s.Estimate([]uint32{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), estimate)
}

// Test_Scenario_LargeScaleIngestCountMatches exercises Add at a scale
// (100,000 records) where the sketch's running count must track exactly,
// regardless of how much bottom-k eviction has happened underneath.
func Test_Scenario_LargeScaleIngestCountMatches(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large-scale ingest under -short")
	}

	s, err := New(0.05, 0.05, 2, WithSeed(42))
	assert.NoError(t, err)

	const total = 100_000
	for i := 0; i < total; i++ {
		x := uint32(i % 50)
		assert.NoError(t, s.Add([]uint32{x, x}))
	}

	assert.Equal(t, int64(total), s.Count())
	s.Finalize()

	estimate, err := s.Estimate([]uint32{7, 7})
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, estimate, int64(0))
	assert.LessOrEqual(t, estimate, s.Count())
}

// Test_Scenario_WrongShapeRejected confirms a record with the wrong column
// count never corrupts sketch state.
func Test_Scenario_WrongShapeRejected(t *testing.T) {
	s, err := New(0.1, 0.1, 4, WithSeed(3))
	assert.NoError(t, err)

	err = s.Add([]uint32{1, 2, 3})
	assert.Error(t, err)
	var shapeErr *ShapeMismatchError
	assert.ErrorAs(t, err, &shapeErr)
	assert.True(t, s.IsEmpty())
}

// buildPerfectCorrelation ingests n records with two perfectly correlated
// columns (a, b) = (i mod 100, i mod 100), so for any query value q in
// [0, 100), roughly n/100 records match (q, q) and none match (q, q+1).
func buildPerfectCorrelation(t *testing.T, n int, seed uint32) *Sketch {
	t.Helper()
	s, err := New(0.01, 0.01, 2, WithSeed(seed))
	assert.NoError(t, err)
	for i := 0; i < n; i++ {
		v := uint32(i % 100)
		assert.NoError(t, s.Add([]uint32{v, v}))
	}
	return s
}

// Test_Scenario_PerfectCorrelationHundredThousand is the 100,000-record
// perfect-correlation scenario: a matching predicate estimates within
// [500, 1500] (the true frequency is 1,000) and a one-off mismatched
// predicate estimates under 500.
func Test_Scenario_PerfectCorrelationHundredThousand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 100,000-record scenario under -short")
	}

	s := buildPerfectCorrelation(t, 100_000, 1)
	s.Finalize()

	for q := uint32(1); q <= 10; q++ {
		hit, err := s.Estimate([]uint32{q, q})
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, hit, int64(500), "q=%d", q)
		assert.LessOrEqual(t, hit, int64(1500), "q=%d", q)

		miss, err := s.Estimate([]uint32{q, q + 1})
		assert.NoError(t, err)
		assert.Less(t, miss, int64(500), "q=%d", q)
	}
}

// Test_Scenario_ParallelShardBuildMatchesSingleBuild partitions the same
// 100,000-record perfect-correlation stream into 10 disjointly-seeded
// shards by record index mod 10, builds one sketch per shard, combines all
// of them, and checks the combined estimate against the same bounds as the
// single-sketch build.
func Test_Scenario_ParallelShardBuildMatchesSingleBuild(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping sharded-build scenario under -short")
	}

	const total = 100_000
	const numShards = 10

	shards := make([]*Sketch, numShards)
	for shard := 0; shard < numShards; shard++ {
		s, err := New(0.01, 0.01, 2, WithSeed(uint32(5000+shard)))
		assert.NoError(t, err)
		shards[shard] = s
	}
	for i := 0; i < total; i++ {
		v := uint32(i % 100)
		shard := i % numShards
		assert.NoError(t, shards[shard].Add([]uint32{v, v}))
	}

	var combined *Sketch
	var countSum int64
	for _, s := range shards {
		countSum += s.Count()
		var err error
		combined, err = Combine(combined, s)
		assert.NoError(t, err)
	}

	assert.Equal(t, countSum, combined.Count())
	assert.Equal(t, int64(total), combined.Count())

	combined.Finalize()
	for q := uint32(1); q <= 10; q++ {
		hit, err := combined.Estimate([]uint32{q, q})
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, hit, int64(500), "q=%d", q)
		assert.LessOrEqual(t, hit, int64(1500), "q=%d", q)
	}
}

// Test_Scenario_ScaleUpMillionRecords repeats the perfect-correlation
// scenario at 1,000,000 records, where the true per-query frequency is
// 10,000 and the estimate must land within [5000, 15000].
func Test_Scenario_ScaleUpMillionRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1,000,000-record scenario under -short")
	}

	s := buildPerfectCorrelation(t, 1_000_000, 2)
	s.Finalize()

	for q := uint32(1); q <= 10; q++ {
		hit, err := s.Estimate([]uint32{q, q})
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, hit, int64(5000), "q=%d", q)
		assert.LessOrEqual(t, hit, int64(15000), "q=%d", q)
	}
}

package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/ontograph/pkg/types"
)

// buildTestHierarchy builds a small hierarchy:
//
//	         Disease (100)
//	         /       \
//	    Cancer (101)  Infection (102)
//	     /    \
//	Lung (103) Breast (104)
func buildTestHierarchy() (map[uint64]map[uint64]struct{}, map[uint64]types.SemanticType) {
	parents := map[uint64]map[uint64]struct{}{
		101: {100: {}},
		102: {100: {}},
		103: {101: {}},
		104: {101: {}},
	}
	nodeTypes := map[uint64]types.SemanticType{
		100: types.TypeDisease,
		101: types.TypeDisease,
		102: types.TypeDisease,
		103: types.TypeDisease,
		104: types.TypeDisease,
	}
	return parents, nodeTypes
}

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	parents, nodeTypes := buildTestHierarchy()
	return Build(parents, nodeTypes)
}

func TestBuildNodeCount(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)
	assert.Equal(t, 5, index.Len())
}

func TestRootAndLeafDetection(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	disease, ok := index.GetEmbedding(100)
	require.True(t, ok)
	assert.True(t, disease.IsRoot())
	assert.False(t, disease.IsLeaf())

	lung, ok := index.GetEmbedding(103)
	require.True(t, ok)
	assert.False(t, lung.IsRoot())
	assert.True(t, lung.IsLeaf())
}

func TestAncestorsAndDescendants(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	lung, _ := index.GetEmbedding(103)
	assert.Contains(t, lung.Ancestors, uint64(101))
	assert.Contains(t, lung.Ancestors, uint64(100))
	assert.Len(t, lung.Ancestors, 2)

	disease, _ := index.GetEmbedding(100)
	for _, id := range []uint64{101, 102, 103, 104} {
		assert.Contains(t, disease.Descendants, id)
	}
	assert.Len(t, disease.Descendants, 4)

	cancer, _ := index.GetEmbedding(101)
	assert.Contains(t, cancer.Descendants, uint64(103))
	assert.Contains(t, cancer.Descendants, uint64(104))
	assert.Len(t, cancer.Descendants, 2)
}

func TestDepthComputation(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	expected := map[uint64]int{100: 0, 101: 1, 102: 1, 103: 2, 104: 2}
	for id, depth := range expected {
		e, ok := index.GetEmbedding(id)
		require.True(t, ok, "node %d missing", id)
		assert.Equal(t, depth, e.Depth, "depth of node %d", id)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	simAB, ok := index.Similarity(103, 104)
	require.True(t, ok)
	simBA, ok := index.Similarity(104, 103)
	require.True(t, ok)
	assert.InDelta(t, simAB, simBA, 1e-12)
}

func TestSimilarityRange(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	nodes := []uint64{100, 101, 102, 103, 104}
	for _, a := range nodes {
		for _, b := range nodes {
			sim, ok := index.Similarity(a, b)
			require.True(t, ok, "similarity(%d, %d) undefined", a, b)
			assert.GreaterOrEqual(t, sim, 0.0)
			assert.LessOrEqual(t, sim, 1.0)
		}
	}
}

func TestSelfSimilarity(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	for _, id := range []uint64{100, 101, 102, 103, 104} {
		sim, ok := index.Similarity(id, id)
		require.True(t, ok)
		assert.Equal(t, 1.0, sim)
	}
}

func TestSiblingsMoreSimilarThanDistant(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	// Lung (103) and Breast (104) are siblings under Cancer (101); both
	// should be closer to each other than to Infection (102).
	siblings, ok := index.Similarity(103, 104)
	require.True(t, ok)
	distant, ok := index.Similarity(103, 102)
	require.True(t, ok)
	assert.Greater(t, siblings, distant)
}

func TestParentAtLeastAsSimilarAsGrandparent(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	parent, _ := index.Similarity(103, 101)
	grandparent, _ := index.Similarity(103, 100)
	assert.GreaterOrEqual(t, parent, grandparent)
}

func TestNearestNeighbors(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	neighbors := index.NearestNeighbors(103, 3)
	require.NotEmpty(t, neighbors)
	assert.LessOrEqual(t, len(neighbors), 3)

	for i := 1; i < len(neighbors); i++ {
		assert.GreaterOrEqual(t, neighbors[i-1].Score, neighbors[i].Score,
			"neighbors must be sorted by descending score")
	}

	assert.Equal(t, uint64(104), neighbors[0].ID,
		"nearest neighbor of Lung (103) should be its sibling Breast (104)")
}

func TestNearestNeighborsByType(t *testing.T) {
	t.Parallel()

	parents := map[uint64]map[uint64]struct{}{
		101: {100: {}},
		200: {100: {}},
	}
	nodeTypes := map[uint64]types.SemanticType{
		100: types.TypeDisease,
		101: types.TypeDisease,
		200: types.TypeDrug,
	}
	index := Build(parents, nodeTypes)

	diseaseNeighbors := index.NearestNeighborsByType(101, types.TypeDisease, 5)
	for _, n := range diseaseNeighbors {
		e, ok := index.GetEmbedding(n.ID)
		require.True(t, ok)
		assert.Equal(t, types.TypeDisease, e.SemanticType)
	}

	// No symptoms were indexed at all.
	assert.Empty(t, index.NearestNeighborsByType(101, types.TypeSymptom, 5))
}

func TestNodesByType(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	diseases := index.NodesByType(types.TypeDisease)
	assert.Len(t, diseases, 5)

	assert.Nil(t, index.NodesByType(types.TypeDrug))
}

func TestCacheStatsAndClear(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	cached, total := index.CacheStats()
	assert.Equal(t, 0, cached)
	assert.Equal(t, 5, total)

	index.Similarity(103, 104)
	index.Similarity(101, 102)

	cached, _ = index.CacheStats()
	assert.Equal(t, 2, cached)

	// Symmetric lookup hits the normalized key, adding nothing.
	index.Similarity(104, 103)
	cached, _ = index.CacheStats()
	assert.Equal(t, 2, cached)

	index.ClearCache()
	cached, _ = index.CacheStats()
	assert.Equal(t, 0, cached)
}

func TestEmptyIndex(t *testing.T) {
	t.Parallel()
	index := NewIndex()

	_, ok := index.GetEmbedding(1)
	assert.False(t, ok)
	_, ok = index.Similarity(1, 2)
	assert.False(t, ok)
	assert.Empty(t, index.NearestNeighbors(1, 5))

	cached, total := index.CacheStats()
	assert.Equal(t, 0, cached)
	assert.Equal(t, 0, total)
}

func TestJaccardEmptySets(t *testing.T) {
	t.Parallel()

	a := &Embedding{NodeID: 1, Ancestors: map[uint64]struct{}{}, Descendants: map[uint64]struct{}{}}
	b := &Embedding{NodeID: 2, Ancestors: map[uint64]struct{}{}, Descendants: map[uint64]struct{}{}}

	assert.Equal(t, 1.0, a.JaccardSimilarity(b))
}

func TestSimilarityNonexistentNode(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	_, ok := index.Similarity(100, 999)
	assert.False(t, ok)
}

func TestNoCommonAncestorsScoresZeroPath(t *testing.T) {
	t.Parallel()

	// Two disjoint two-level chains: 1 <- 2 and 10 <- 20.
	parents := map[uint64]map[uint64]struct{}{
		2:  {1: {}},
		20: {10: {}},
	}
	index := Build(parents, map[uint64]types.SemanticType{})

	sim, ok := index.Similarity(2, 20)
	require.True(t, ok)
	// jaccard 0, path score 0
	assert.Equal(t, 0.0, sim)
}

func TestCyclicInputTerminates(t *testing.T) {
	t.Parallel()

	// 1 -> 2 -> 3 -> 1 is malformed IS-A data; the build must terminate
	// and every node must be counted at most once per closure.
	parents := map[uint64]map[uint64]struct{}{
		1: {2: {}},
		2: {3: {}},
		3: {1: {}},
	}
	index := Build(parents, map[uint64]types.SemanticType{})
	require.Equal(t, 3, index.Len())

	e, ok := index.GetEmbedding(1)
	require.True(t, ok)
	assert.Len(t, e.Ancestors, 3)

	sim, ok := index.Similarity(1, 2)
	require.True(t, ok)
	assert.False(t, math.IsNaN(sim))
}

func TestForEach(t *testing.T) {
	t.Parallel()
	index := buildTestIndex(t)

	count := 0
	index.ForEach(func(id uint64, e *Embedding) bool {
		count++
		return true
	})
	assert.Equal(t, 5, count)

	// Early stop.
	count = 0
	index.ForEach(func(id uint64, e *Embedding) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

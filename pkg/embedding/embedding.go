// Package embedding provides symbolic embeddings for ontology graph nodes.
//
// An embedding encodes a node's position in the IS-A hierarchy via its
// transitive ancestor and descendant sets, depth, and semantic type.
// Similarity between embeddings combines Jaccard similarity of those sets
// with a path distance estimate; no learned vectors or external models are
// involved.
package embedding

import (
	"sort"
	"sync"

	"github.com/soundprediction/ontograph/pkg/types"
)

// Embedding is the symbolic embedding of a single node.
type Embedding struct {
	// NodeID is the node this embedding represents.
	NodeID uint64
	// Ancestors is the set of transitive IS-A ancestor IDs.
	Ancestors map[uint64]struct{}
	// Descendants is the set of transitive IS-A descendant IDs.
	Descendants map[uint64]struct{}
	// Depth in the IS-A hierarchy: 0 for roots, otherwise one more than
	// the deepest direct parent.
	Depth int
	// SemanticType is copied from the node at build time.
	SemanticType types.SemanticType
}

// IsRoot reports whether the node has no IS-A ancestors.
func (e *Embedding) IsRoot() bool {
	return len(e.Ancestors) == 0
}

// IsLeaf reports whether the node has no IS-A descendants.
func (e *Embedding) IsLeaf() bool {
	return len(e.Descendants) == 0
}

// JaccardSimilarity computes the Jaccard similarity between this embedding
// and another, over the union of each node's ancestor and descendant sets.
//
// Two nodes with empty sets score 1.0: isolated nodes are vacuously
// maximally similar in the absence of any hierarchy signal. This is a
// deliberate policy, not an accident of the formula.
func (e *Embedding) JaccardSimilarity(other *Embedding) float64 {
	intersection := 0
	union := len(other.Ancestors) + len(other.Descendants)
	for id := range e.Ancestors {
		if other.contains(id) {
			intersection++
		} else {
			union++
		}
	}
	for id := range e.Descendants {
		if other.contains(id) {
			intersection++
		} else {
			union++
		}
	}
	// Members of the intersection were counted once in other's total and
	// never for e, so union is already |A ∪ B|.
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func (e *Embedding) contains(id uint64) bool {
	if _, ok := e.Ancestors[id]; ok {
		return true
	}
	_, ok := e.Descendants[id]
	return ok
}

// cacheKey is a normalized (min, max) node pair, so cached similarity is
// symmetric by construction.
type cacheKey struct {
	lo, hi uint64
}

func newCacheKey(a, b uint64) cacheKey {
	if a <= b {
		return cacheKey{a, b}
	}
	return cacheKey{b, a}
}

// Index holds symbolic embeddings for fast similarity queries: embeddings
// keyed by node ID, a type index for filtered queries, and a similarity
// cache guarded by a read-write lock.
//
// The embeddings themselves are immutable after Build, so similarity scores
// are computed without holding any lock; only the cache insert takes the
// write lock. Two goroutines racing on the same uncached pair may both
// compute the score, which is idempotent and cheaper than serializing all
// readers behind one writer.
type Index struct {
	embeddings map[uint64]*Embedding
	byType     map[types.SemanticType]map[uint64]struct{}

	cacheMu sync.RWMutex
	cache   map[cacheKey]float64
}

// NewIndex creates an empty index. Similarity on an empty index reports
// no result for every pair.
func NewIndex() *Index {
	return &Index{
		embeddings: make(map[uint64]*Embedding),
		byType:     make(map[types.SemanticType]map[uint64]struct{}),
		cache:      make(map[cacheKey]float64),
	}
}

// Build constructs an index from IS-A parent relationships and node type
// assignments. parents maps each child ID to its set of direct parent IDs;
// nodeTypes maps node IDs to semantic types. Nodes appearing in either map
// are indexed; nodes missing from nodeTypes default to TypeConcept.
//
// Ancestor closures are computed with an iterative, visited-set guarded
// walk, then inverted to obtain descendants. Depths are assigned in
// ascending order of ancestor-set size, a topological proxy that guarantees
// every direct parent's depth is known before its children are processed
// (for acyclic input).
func Build(parents map[uint64]map[uint64]struct{}, nodeTypes map[uint64]types.SemanticType) *Index {
	allNodes := make(map[uint64]struct{})
	for child, ps := range parents {
		allNodes[child] = struct{}{}
		for p := range ps {
			allNodes[p] = struct{}{}
		}
	}
	for id := range nodeTypes {
		allNodes[id] = struct{}{}
	}

	ancestors := make(map[uint64]map[uint64]struct{}, len(allNodes))
	for id := range allNodes {
		ancestors[id] = computeAncestors(id, parents)
	}

	descendants := make(map[uint64]map[uint64]struct{}, len(allNodes))
	for id := range allNodes {
		descendants[id] = make(map[uint64]struct{})
	}
	for id, ancs := range ancestors {
		for anc := range ancs {
			descendants[anc][id] = struct{}{}
		}
	}

	// Depth pass: fewer ancestors means shallower, so processing in
	// ascending ancestor-count order sees parents before children.
	ordered := make([]uint64, 0, len(allNodes))
	for id := range allNodes {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ci, cj := len(ancestors[ordered[i]]), len(ancestors[ordered[j]])
		if ci != cj {
			return ci < cj
		}
		return ordered[i] < ordered[j]
	})

	depths := make(map[uint64]int, len(allNodes))
	for _, id := range ordered {
		ps := parents[id]
		if len(ps) == 0 {
			depths[id] = 0
			continue
		}
		maxParent := 0
		for p := range ps {
			if d, ok := depths[p]; ok && d > maxParent {
				maxParent = d
			}
		}
		depths[id] = maxParent + 1
	}

	index := NewIndex()
	for id := range allNodes {
		semanticType, ok := nodeTypes[id]
		if !ok {
			semanticType = types.TypeConcept
		}
		index.embeddings[id] = &Embedding{
			NodeID:       id,
			Ancestors:    ancestors[id],
			Descendants:  descendants[id],
			Depth:        depths[id],
			SemanticType: semanticType,
		}
		if index.byType[semanticType] == nil {
			index.byType[semanticType] = make(map[uint64]struct{})
		}
		index.byType[semanticType][id] = struct{}{}
	}
	return index
}

// computeAncestors walks up the parent map from one node. The visited set
// keeps the walk terminating even on cyclic input.
func computeAncestors(id uint64, parents map[uint64]map[uint64]struct{}) map[uint64]struct{} {
	ancestors := make(map[uint64]struct{})
	stack := make([]uint64, 0, len(parents[id]))
	for p := range parents[id] {
		stack = append(stack, p)
	}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := ancestors[current]; seen {
			continue
		}
		ancestors[current] = struct{}{}
		for p := range parents[current] {
			if _, seen := ancestors[p]; !seen {
				stack = append(stack, p)
			}
		}
	}
	return ancestors
}

// Similarity computes the similarity of two nodes as
// 0.7*jaccard + 0.3*pathDistance. Identical IDs score 1.0. The second
// return value is false when either node is missing from the index.
//
// Scores are cached under the normalized (min, max) pair, so
// Similarity(a, b) and Similarity(b, a) always agree.
func (idx *Index) Similarity(a, b uint64) (float64, bool) {
	if a == b {
		if _, ok := idx.embeddings[a]; !ok {
			return 0, false
		}
		return 1.0, true
	}

	key := newCacheKey(a, b)

	idx.cacheMu.RLock()
	score, ok := idx.cache[key]
	idx.cacheMu.RUnlock()
	if ok {
		return score, true
	}

	embA, ok := idx.embeddings[a]
	if !ok {
		return 0, false
	}
	embB, ok := idx.embeddings[b]
	if !ok {
		return 0, false
	}

	score = 0.7*embA.JaccardSimilarity(embB) + 0.3*pathDistanceScore(embA, embB)

	idx.cacheMu.Lock()
	idx.cache[key] = score
	idx.cacheMu.Unlock()

	return score, true
}

// pathDistanceScore estimates hierarchy distance as a score in [0, 1].
//
// If one node is a transitive ancestor of the other, the path length is the
// depth difference. Otherwise the lowest common ancestor depth is estimated
// from the shared fraction of ancestors, and the path length is
// depth(a) + depth(b) - 2*lcaDepth, floored at zero. No common ancestors
// means maximum distance: 0.0.
func pathDistanceScore(a, b *Embedding) float64 {
	if _, ok := a.Ancestors[b.NodeID]; ok {
		return 1.0 / (1.0 + float64(saturatingSub(a.Depth, b.Depth)))
	}
	if _, ok := b.Ancestors[a.NodeID]; ok {
		return 1.0 / (1.0 + float64(saturatingSub(b.Depth, a.Depth)))
	}

	common := 0
	union := len(b.Ancestors)
	for id := range a.Ancestors {
		if _, ok := b.Ancestors[id]; ok {
			common++
		} else {
			union++
		}
	}
	if common == 0 {
		return 0.0
	}

	maxDepth := a.Depth
	if b.Depth > maxDepth {
		maxDepth = b.Depth
	}
	if maxDepth == 0 {
		return 1.0
	}

	sharedFraction := float64(common) / float64(union)
	// The more ancestors the nodes share, the closer the LCA sits to both.
	lcaDepth := int(sharedFraction*float64(maxDepth) + 0.5)
	pathLength := saturatingSub(a.Depth+b.Depth, 2*lcaDepth)

	return 1.0 / (1.0 + float64(pathLength))
}

func saturatingSub(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}

// NearestNeighbors returns the k most similar nodes to the query, sorted by
// descending score. Ties break on ascending node ID so results are
// deterministic. The query node is excluded; an unknown query or an empty
// index yields an empty result.
func (idx *Index) NearestNeighbors(query uint64, k int) []types.ScoredNode {
	return idx.rank(query, k, nil)
}

// NearestNeighborsByType is NearestNeighbors restricted to candidates of
// the given semantic type.
func (idx *Index) NearestNeighborsByType(query uint64, nodeType types.SemanticType, k int) []types.ScoredNode {
	candidates, ok := idx.byType[nodeType]
	if !ok {
		return nil
	}
	return idx.rank(query, k, candidates)
}

// rank scores the query against every candidate (all embeddings when
// candidates is nil) and returns the top k.
func (idx *Index) rank(query uint64, k int, candidates map[uint64]struct{}) []types.ScoredNode {
	if k <= 0 {
		return nil
	}

	ids := make([]uint64, 0, len(idx.embeddings))
	if candidates == nil {
		for id := range idx.embeddings {
			ids = append(ids, id)
		}
	} else {
		for id := range candidates {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	scored := make([]types.ScoredNode, 0, len(ids))
	for _, id := range ids {
		if id == query {
			continue
		}
		if score, ok := idx.Similarity(query, id); ok {
			scored = append(scored, types.ScoredNode{ID: id, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// GetEmbedding returns the embedding for a node.
func (idx *Index) GetEmbedding(id uint64) (*Embedding, bool) {
	e, ok := idx.embeddings[id]
	return e, ok
}

// NodesByType returns the IDs of all nodes with the given semantic type.
func (idx *Index) NodesByType(nodeType types.SemanticType) []uint64 {
	set, ok := idx.byType[nodeType]
	if !ok {
		return nil
	}
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ForEach calls fn for every embedding, stopping early if fn returns false.
// Iteration order is unspecified.
func (idx *Index) ForEach(fn func(id uint64, e *Embedding) bool) {
	for id, e := range idx.embeddings {
		if !fn(id, e) {
			return
		}
	}
}

// Len returns the number of embeddings in the index.
func (idx *Index) Len() int {
	return len(idx.embeddings)
}

// ClearCache empties the similarity cache without rebuilding embeddings.
func (idx *Index) ClearCache() {
	idx.cacheMu.Lock()
	idx.cache = make(map[cacheKey]float64)
	idx.cacheMu.Unlock()
}

// CacheStats returns the number of cached similarity scores and the total
// number of embeddings.
func (idx *Index) CacheStats() (cached, total int) {
	idx.cacheMu.RLock()
	cached = len(idx.cache)
	idx.cacheMu.RUnlock()
	return cached, len(idx.embeddings)
}

// Package graph implements the typed ontology graph: nodes with semantic
// types, typed directed edges with O(degree) adjacency indices, an IS-A
// hierarchy sub-index, and a derived symbolic embedding index whose
// lifecycle follows the IndexState machine.
package graph

import (
	"sort"
	"sync"

	"github.com/soundprediction/ontograph/pkg/embedding"
	"github.com/soundprediction/ontograph/pkg/types"
)

// adjacency is one entry in the outgoing/incoming edge indices.
type adjacency struct {
	neighbor uint64
	edgeType types.EdgeType
}

// TypedGraph is a directed in-memory graph of typed nodes and edges.
//
// Mutation is guarded by an internal mutex so the graph can be populated
// while queries are in flight; readers always observe fully-applied edge
// inserts. The embedding index is rebuilt wholesale and swapped, so
// similarity readers see either the old or the new index, never a partial
// build.
type TypedGraph struct {
	mu sync.RWMutex

	// Node ID -> semantic type
	nodeTypes map[uint64]types.SemanticType
	// Node ID -> display term
	nodeTerms map[uint64]string
	// Edge key (MagicPair) -> edge type
	edgeTypes map[uint64]types.EdgeType
	// Source node -> (target, type) for outgoing edges
	outgoing map[uint64][]adjacency
	// Target node -> (source, type) for incoming edges
	incoming map[uint64][]adjacency
	// IS-A parent map: child -> set of parents
	isaParents map[uint64]map[uint64]struct{}
	// IS-A child map: parent -> set of children
	isaChildren map[uint64]map[uint64]struct{}
	// External ontology ID (e.g. SNOMED concept ID) -> node ID
	externalToID map[uint64]uint64

	// Derived embedding index, built on demand
	index      *embedding.Index
	indexState IndexState
}

// New creates an empty TypedGraph.
func New() *TypedGraph {
	return &TypedGraph{
		nodeTypes:    make(map[uint64]types.SemanticType),
		nodeTerms:    make(map[uint64]string),
		edgeTypes:    make(map[uint64]types.EdgeType),
		outgoing:     make(map[uint64][]adjacency),
		incoming:     make(map[uint64][]adjacency),
		isaParents:   make(map[uint64]map[uint64]struct{}),
		isaChildren:  make(map[uint64]map[uint64]struct{}),
		externalToID: make(map[uint64]uint64),
		indexState:   IndexEmpty,
	}
}

// AddNode registers a node with its display term and semantic type.
// Re-registering an existing ID overwrites its term and type. An externalID
// of 0 means no external mapping; non-zero values are recorded in the
// external-ID table, which is additive and never invalidated.
//
// Adding a node invalidates any built embedding index.
func (g *TypedGraph) AddNode(id uint64, term string, nodeType types.SemanticType, externalID uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodeTypes[id] = nodeType
	g.nodeTerms[id] = term
	if externalID != 0 {
		g.externalToID[externalID] = id
	}
	g.invalidateIndex()
}

// AddEdge registers a typed directed edge. The edge key is computed with
// MagicPair, and both adjacency indices are updated. For IS-A edges,
// "source IS-A target" makes target a parent of source in the hierarchy
// sub-index, and invalidates any built embedding index. Other edge types
// leave the index untouched.
func (g *TypedGraph) AddEdge(source, target uint64, edgeType types.EdgeType) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edgeTypes[MagicPair(source, target)] = edgeType
	g.outgoing[source] = append(g.outgoing[source], adjacency{target, edgeType})
	g.incoming[target] = append(g.incoming[target], adjacency{source, edgeType})

	if edgeType == types.EdgeIsA {
		if g.isaParents[source] == nil {
			g.isaParents[source] = make(map[uint64]struct{})
		}
		g.isaParents[source][target] = struct{}{}
		if g.isaChildren[target] == nil {
			g.isaChildren[target] = make(map[uint64]struct{})
		}
		g.isaChildren[target][source] = struct{}{}
		g.invalidateIndex()
	}
}

// invalidateIndex runs the structural-mutation transitions. Callers must
// hold the write lock.
func (g *TypedGraph) invalidateIndex() {
	g.indexState = g.indexState.onStructuralChange()
	if g.indexState == IndexStale {
		g.index = nil
		g.indexState = g.indexState.onInvalidate()
	}
}

// GetNodeType returns the semantic type of a node.
func (g *TypedGraph) GetNodeType(id uint64) (types.SemanticType, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.nodeTypes[id]
	return t, ok
}

// GetTerm returns the display term of a node.
func (g *TypedGraph) GetTerm(id uint64) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	term, ok := g.nodeTerms[id]
	return term, ok
}

// GetEdgeType returns the type of the directed edge from a to b.
func (g *TypedGraph) GetEdgeType(a, b uint64) (types.EdgeType, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.edgeTypes[MagicPair(a, b)]
	return t, ok
}

// ResolveExternalID maps an external ontology code to the internal node ID.
func (g *TypedGraph) ResolveExternalID(externalID uint64) (uint64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.externalToID[externalID]
	return id, ok
}

// Ancestors returns all transitive IS-A ancestors of a node.
//
// The walk is iterative and visited-set guarded, so it terminates and never
// double-counts even if malformed input introduced an IS-A cycle. Result
// order is unspecified. Unknown IDs return an empty slice.
func (g *TypedGraph) Ancestors(id uint64) []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return traverse(id, g.isaParents)
}

// Descendants returns all transitive IS-A descendants of a node, with the
// same termination and ordering guarantees as Ancestors.
func (g *TypedGraph) Descendants(id uint64) []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return traverse(id, g.isaChildren)
}

// traverse walks a relation map from a start node using an explicit stack.
// A visited set guards against cycles; recursion is avoided so deep
// hierarchies cannot overflow the stack.
func traverse(start uint64, relation map[uint64]map[uint64]struct{}) []uint64 {
	visited := make(map[uint64]struct{})
	stack := make([]uint64, 0, len(relation[start]))
	for next := range relation[start] {
		stack = append(stack, next)
	}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}
		for next := range relation[current] {
			if _, seen := visited[next]; !seen {
				stack = append(stack, next)
			}
		}
	}

	result := make([]uint64, 0, len(visited))
	for id := range visited {
		result = append(result, id)
	}
	return result
}

// TreatmentsOf returns all nodes connected to the condition by a Treats
// edge in either direction. Data sources record "drug treats condition" and
// "condition treated-by drug" inconsistently, so both adjacency indices are
// checked; each lookup is O(degree).
func (g *TypedGraph) TreatmentsOf(conditionID uint64) []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var treatments []uint64
	for _, adj := range g.outgoing[conditionID] {
		if adj.edgeType == types.EdgeTreats {
			treatments = append(treatments, adj.neighbor)
		}
	}
	for _, adj := range g.incoming[conditionID] {
		if adj.edgeType == types.EdgeTreats {
			treatments = append(treatments, adj.neighbor)
		}
	}
	return treatments
}

// Contraindications reports, for each candidate condition, whether a
// Contraindicates edge exists in either direction between the drug and that
// condition. Uses the adjacency indices, not an edge-table scan.
func (g *TypedGraph) Contraindications(drugID uint64, conditionIDs []uint64) []types.Contraindication {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var found []types.Contraindication
	for _, conditionID := range conditionIDs {
		if g.hasContraindication(drugID, conditionID) || g.hasContraindication(conditionID, drugID) {
			found = append(found, types.Contraindication{DrugID: drugID, ConditionID: conditionID})
		}
	}
	return found
}

// hasContraindication checks the outgoing index for a Contraindicates edge
// from source to target. Callers must hold at least the read lock.
func (g *TypedGraph) hasContraindication(source, target uint64) bool {
	for _, adj := range g.outgoing[source] {
		if adj.neighbor == target && adj.edgeType == types.EdgeContraindicates {
			return true
		}
	}
	return false
}

// BuildEmbeddings builds the symbolic embedding index from a snapshot of
// the current IS-A parent map and node types, then swaps it in. Must be
// called explicitly; the index is dropped again whenever a node or IS-A
// edge is added.
func (g *TypedGraph) BuildEmbeddings() {
	g.mu.Lock()
	parents := make(map[uint64]map[uint64]struct{}, len(g.isaParents))
	for child, ps := range g.isaParents {
		cp := make(map[uint64]struct{}, len(ps))
		for p := range ps {
			cp[p] = struct{}{}
		}
		parents[child] = cp
	}
	nodeTypes := make(map[uint64]types.SemanticType, len(g.nodeTypes))
	for id, t := range g.nodeTypes {
		nodeTypes[id] = t
	}
	g.mu.Unlock()

	// Build outside the lock; closures over large ontologies take a while.
	index := embedding.Build(parents, nodeTypes)

	g.mu.Lock()
	g.index = index
	g.indexState = g.indexState.onBuild()
	g.mu.Unlock()
}

// EmbeddingIndex returns the built index, or nil if none is built.
func (g *TypedGraph) EmbeddingIndex() *embedding.Index {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.index
}

// IndexState returns the current embedding index lifecycle state.
func (g *TypedGraph) IndexState() IndexState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.indexState
}

// Similarity computes the symbolic similarity between two nodes. The second
// return value is false if embeddings have not been built or either node is
// missing from the index.
func (g *TypedGraph) Similarity(a, b uint64) (float64, bool) {
	index := g.EmbeddingIndex()
	if index == nil {
		return 0, false
	}
	return index.Similarity(a, b)
}

// FindSimilar returns the k most similar nodes to the given node, sorted by
// descending score. Returns an empty slice if embeddings are not built.
func (g *TypedGraph) FindSimilar(id uint64, k int) []types.ScoredNode {
	index := g.EmbeddingIndex()
	if index == nil {
		return nil
	}
	return index.NearestNeighbors(id, k)
}

// FindSimilarByType is FindSimilar restricted to candidates of one semantic
// type.
func (g *TypedGraph) FindSimilarByType(id uint64, nodeType types.SemanticType, k int) []types.ScoredNode {
	index := g.EmbeddingIndex()
	if index == nil {
		return nil
	}
	return index.NearestNeighborsByType(id, nodeType, k)
}

// IterNodeTerms calls fn for every registered node ID and display term,
// stopping early if fn returns false. Iteration order is unspecified. The
// lock is held for the duration, so fn must not call back into the graph.
func (g *TypedGraph) IterNodeTerms(fn func(id uint64, term string) bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for id, term := range g.nodeTerms {
		if !fn(id, term) {
			return
		}
	}
}

// Snapshot returns copies of all nodes and edges, sorted by ID, for export.
// Edge endpoints are recovered from the packed edge keys with MagicUnpair.
func (g *TypedGraph) Snapshot() ([]types.Node, []types.Edge) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idToExternal := make(map[uint64]uint64, len(g.externalToID))
	for ext, id := range g.externalToID {
		idToExternal[id] = ext
	}

	nodes := make([]types.Node, 0, len(g.nodeTypes))
	for id, nodeType := range g.nodeTypes {
		nodes = append(nodes, types.Node{
			ID:         id,
			Term:       g.nodeTerms[id],
			Type:       nodeType,
			ExternalID: idToExternal[id],
		})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]types.Edge, 0, len(g.edgeTypes))
	for key, edgeType := range g.edgeTypes {
		source, target := MagicUnpair(key)
		edges = append(edges, types.Edge{Source: source, Target: target, Type: edgeType})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	return nodes, edges
}

// NodeCount returns the number of registered nodes.
func (g *TypedGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodeTypes)
}

// EdgeCount returns the number of registered edges of all types.
func (g *TypedGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edgeTypes)
}

// IsAEdgeCount returns the number of IS-A edges, counted as parent-child
// pairs.
func (g *TypedGraph) IsAEdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	count := 0
	for _, parents := range g.isaParents {
		count += len(parents)
	}
	return count
}

package ontograph

import (
	"fmt"

	"github.com/soundprediction/ontograph/pkg/types"
)

// NodeType returns the semantic type of a node.
func (c *Client) NodeType(id uint64) (types.SemanticType, bool) {
	return c.graph.GetNodeType(id)
}

// Term returns the display term of a node.
func (c *Client) Term(id uint64) (string, bool) {
	return c.graph.GetTerm(id)
}

// ResolveExternalID maps an external ontology code to a node ID.
func (c *Client) ResolveExternalID(externalID uint64) (uint64, bool) {
	return c.graph.ResolveExternalID(externalID)
}

// Ancestors returns all transitive IS-A ancestors of a node.
func (c *Client) Ancestors(id uint64) []uint64 {
	return c.graph.Ancestors(id)
}

// Descendants returns all transitive IS-A descendants of a node.
func (c *Client) Descendants(id uint64) []uint64 {
	return c.graph.Descendants(id)
}

// TreatmentsOf returns nodes connected to the condition by a Treats edge
// in either direction.
func (c *Client) TreatmentsOf(conditionID uint64) []uint64 {
	return c.graph.TreatmentsOf(conditionID)
}

// Contraindications reports which of the candidate conditions the drug is
// contraindicated for.
func (c *Client) Contraindications(drugID uint64, conditionIDs []uint64) []types.Contraindication {
	return c.graph.Contraindications(drugID, conditionIDs)
}

// Similarity computes structural similarity between two nodes.
func (c *Client) Similarity(a, b uint64) (float64, bool) {
	return c.graph.Similarity(a, b)
}

// NearestNeighbors returns the k most similar nodes, best first. The
// embedding index must be built; k must be positive.
func (c *Client) NearestNeighbors(id uint64, k int) ([]types.ScoredNode, error) {
	if k <= 0 {
		return nil, types.ErrInvalidLimit
	}
	index := c.graph.EmbeddingIndex()
	if index == nil {
		return nil, ErrEmbeddingsNotBuilt
	}
	if _, ok := index.GetEmbedding(id); !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return index.NearestNeighbors(id, k), nil
}

// NearestNeighborsByType restricts NearestNeighbors to one semantic type.
func (c *Client) NearestNeighborsByType(id uint64, nodeType types.SemanticType, k int) ([]types.ScoredNode, error) {
	if k <= 0 {
		return nil, types.ErrInvalidLimit
	}
	index := c.graph.EmbeddingIndex()
	if index == nil {
		return nil, ErrEmbeddingsNotBuilt
	}
	if _, ok := index.GetEmbedding(id); !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return index.NearestNeighborsByType(id, nodeType, k), nil
}

// FindMatches finds occurrences of registered terms in text.
func (c *Client) FindMatches(text string) ([]types.ToolMatch, error) {
	return c.matcher.FindMatches(text)
}

// Stats reports the current size of the graph, the index lifecycle state,
// and the active matcher backend.
func (c *Client) Stats() Stats {
	stats := Stats{
		Nodes:      c.graph.NodeCount(),
		Edges:      c.graph.EdgeCount(),
		IsAEdges:   c.graph.IsAEdgeCount(),
		IndexState: c.graph.IndexState().String(),
		Matcher:    c.matcher.MatcherType(),
	}
	if index := c.graph.EmbeddingIndex(); index != nil {
		cached, total := index.CacheStats()
		stats.Embeddings = EmbeddingStats{Built: true, Total: total, Cached: cached}
	}
	return stats
}

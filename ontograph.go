package ontograph

import (
	"errors"
	"log/slog"

	"github.com/soundprediction/ontograph/pkg/config"
	"github.com/soundprediction/ontograph/pkg/graph"
	"github.com/soundprediction/ontograph/pkg/matcher"
	"github.com/soundprediction/ontograph/pkg/types"
)

// Engine is the main interface for interacting with the ontology graph.
// It combines the ingest surface used by data loaders with the query
// surface used by retrieval and ranking collaborators.
type Engine interface {
	// AddNode registers a node. Re-registering an ID overwrites its term
	// and type.
	AddNode(node types.Node) error

	// AddEdge registers a typed directed edge between two node IDs.
	AddEdge(edge types.Edge) error

	// BuildEmbeddings builds the symbolic embedding index from the
	// current IS-A hierarchy.
	BuildEmbeddings()

	// NodeType returns the semantic type of a node.
	NodeType(id uint64) (types.SemanticType, bool)

	// Term returns the display term of a node.
	Term(id uint64) (string, bool)

	// ResolveExternalID maps an external ontology code to a node ID.
	ResolveExternalID(externalID uint64) (uint64, bool)

	// Ancestors returns all transitive IS-A ancestors of a node.
	Ancestors(id uint64) []uint64

	// Descendants returns all transitive IS-A descendants of a node.
	Descendants(id uint64) []uint64

	// TreatmentsOf returns nodes connected to the condition by a Treats
	// edge in either direction.
	TreatmentsOf(conditionID uint64) []uint64

	// Contraindications reports which of the candidate conditions the
	// drug is contraindicated for.
	Contraindications(drugID uint64, conditionIDs []uint64) []types.Contraindication

	// Similarity computes structural similarity between two nodes. The
	// second return value is false if the index is unbuilt or either
	// node is unknown.
	Similarity(a, b uint64) (float64, bool)

	// NearestNeighbors returns the k most similar nodes, best first.
	NearestNeighbors(id uint64, k int) ([]types.ScoredNode, error)

	// NearestNeighborsByType restricts NearestNeighbors to one semantic
	// type.
	NearestNeighborsByType(id uint64, nodeType types.SemanticType, k int) ([]types.ScoredNode, error)

	// InitializeMatcher builds the pattern matcher from pattern groups,
	// discarding prior matcher state.
	InitializeMatcher(groups []types.PatternGroup) error

	// FindMatches finds occurrences of registered terms in text.
	FindMatches(text string) ([]types.ToolMatch, error)

	// Stats reports the current size of the graph and index.
	Stats() Stats
}

// Stats describes the engine's current contents.
type Stats struct {
	Nodes      int            `json:"nodes"`
	Edges      int            `json:"edges"`
	IsAEdges   int            `json:"isa_edges"`
	IndexState string         `json:"index_state"`
	Matcher    string         `json:"matcher"`
	Embeddings EmbeddingStats `json:"embeddings"`
}

// EmbeddingStats describes the embedding index and its similarity cache.
type EmbeddingStats struct {
	Built  bool `json:"built"`
	Total  int  `json:"total"`
	Cached int  `json:"cached"`
}

// Client is the main implementation of the Engine interface.
type Client struct {
	graph   *graph.TypedGraph
	matcher matcher.Matcher
	config  *config.Config
	logger  *slog.Logger
}

// NewClient creates an engine client. A nil cfg uses defaults; a nil
// logger uses slog.Default. With cfg.Matcher.UseKnowledgeGraph set, text
// matching routes through the knowledge-graph backend with automatic
// fallback to the automaton backend.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := graph.New()

	var m matcher.Matcher
	if cfg.Matcher.UseKnowledgeGraph {
		m = matcher.NewFallbackMatcher(
			matcher.NewKnowledgeGraphMatcher(g),
			matcher.NewAutomatonMatcher(),
			cfg.CircuitBreaker,
			logger,
		)
	} else {
		m = matcher.NewAutomatonMatcher()
	}

	return &Client{
		graph:   g,
		matcher: m,
		config:  cfg,
		logger:  logger,
	}, nil
}

// Graph returns the underlying typed graph.
func (c *Client) Graph() *graph.TypedGraph {
	return c.graph
}

// Matcher returns the configured pattern matcher.
func (c *Client) Matcher() matcher.Matcher {
	return c.matcher
}

var (
	// ErrNodeNotFound is returned when a node is not found.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEmbeddingsNotBuilt is returned by queries that need the
	// embedding index when it has not been built.
	ErrEmbeddingsNotBuilt = errors.New("embedding index not built")
)

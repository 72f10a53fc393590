package ontograph

import (
	"fmt"

	"github.com/soundprediction/ontograph/pkg/loader"
	"github.com/soundprediction/ontograph/pkg/types"
)

// AddNode validates and registers a node.
func (c *Client) AddNode(node types.Node) error {
	if err := node.Validate(); err != nil {
		return fmt.Errorf("invalid node %d: %w", node.ID, err)
	}
	c.graph.AddNode(node.ID, node.Term, node.Type, node.ExternalID)
	return nil
}

// AddEdge registers a typed directed edge.
func (c *Client) AddEdge(edge types.Edge) error {
	c.graph.AddEdge(edge.Source, edge.Target, edge.Type)
	return nil
}

// BuildEmbeddings builds the symbolic embedding index from the current
// IS-A hierarchy. Safe to call repeatedly; each call rebuilds from scratch.
func (c *Client) BuildEmbeddings() {
	c.graph.BuildEmbeddings()
	c.logger.Info("embedding index built", "nodes", c.graph.NodeCount())
}

// InitializeMatcher builds the pattern matcher from pattern groups.
func (c *Client) InitializeMatcher(groups []types.PatternGroup) error {
	if err := c.matcher.Initialize(groups); err != nil {
		return fmt.Errorf("initializing matcher: %w", err)
	}
	c.logger.Info("matcher initialized", "backend", c.matcher.MatcherType(), "groups", len(groups))
	return nil
}

// InitializeMatcherFromFiles loads pattern groups from the given YAML or
// JSON files and initializes the matcher with them.
func (c *Client) InitializeMatcherFromFiles(paths []string) error {
	groups, err := loader.LoadPatternFiles(paths)
	if err != nil {
		return err
	}
	return c.InitializeMatcher(groups)
}

// ImportEdgesCSV loads a PrimeKG-style edge table into the graph.
func (c *Client) ImportEdgesCSV(path string) (*loader.ImportStats, error) {
	return loader.ImportEdgesCSV(path, c.graph, c.logger)
}

// ImportSnomed loads a SNOMED CT RF2 release directory into the graph.
func (c *Client) ImportSnomed(dir string) (*loader.ImportStats, error) {
	return loader.ImportSnomedRF2(dir, c.graph, c.logger)
}

// LoadSnapshot restores the graph from a parquet snapshot directory.
func (c *Client) LoadSnapshot(dir string) (*loader.ImportStats, error) {
	return loader.ReadSnapshot(dir, c.graph, c.logger)
}

// SaveSnapshot writes the graph to a parquet snapshot directory.
func (c *Client) SaveSnapshot(dir string) error {
	nodes, edges := c.graph.Snapshot()
	if err := loader.WriteSnapshot(dir, nodes, edges); err != nil {
		return err
	}
	c.logger.Info("persisting graph snapshot", "dir", dir, "nodes", len(nodes), "edges", len(edges))
	return nil
}

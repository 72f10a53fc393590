// Package ontograph provides a typed ontology graph engine for Go.
//
// Ontograph builds a typed, directed knowledge graph over domain concepts
// (diseases, drugs, procedures), derives an IS-A hierarchy from it, and
// answers two kinds of queries: multi-pattern text matching against known
// terms, and structural similarity between nodes computed purely from
// their position in the hierarchy. No learned vectors or external models
// are involved.
//
// # Basic Usage
//
// Create a client and populate the graph:
//
//	client, err := ontograph.NewClient(nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client.AddNode(types.Node{ID: 100, Term: "Disease", Type: types.TypeDisease})
//	client.AddNode(types.Node{ID: 101, Term: "Cancer", Type: types.TypeDisease})
//	client.AddEdge(types.Edge{Source: 101, Target: 100, Type: types.EdgeIsA})
//
// # Similarity
//
// Build the symbolic embedding index, then query:
//
//	client.BuildEmbeddings()
//
//	score, ok := client.Similarity(101, 100)
//	neighbors, err := client.NearestNeighbors(101, 10)
//
// The index is dropped automatically when a node or IS-A edge is added;
// call BuildEmbeddings again before the next similarity query.
//
// # Text Matching
//
//	groups := []types.PatternGroup{
//		{Name: "wrangler", Patterns: []string{"npx wrangler"}, Category: "cloudflare", Confidence: 0.9},
//	}
//	if err := client.InitializeMatcher(groups); err != nil {
//		log.Fatal(err)
//	}
//
//	matches, err := client.FindMatches("run npx wrangler deploy")
//
// Matching is case-insensitive with leftmost-longest semantics.
package ontograph

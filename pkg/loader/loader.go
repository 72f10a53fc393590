// Package loader populates the ontology graph from external data sources:
// PrimeKG-style edge tables, SNOMED CT RF2 releases, parquet snapshots,
// and pattern group files for the matcher.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soundprediction/ontograph/pkg/types"
)

// Ingestor receives nodes and edges from a loader. *graph.TypedGraph
// satisfies it.
type Ingestor interface {
	AddNode(id uint64, term string, nodeType types.SemanticType, externalID uint64)
	AddEdge(source, target uint64, edgeType types.EdgeType)
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Nodes       int
	Edges       int
	IsAEdges    int
	SkippedRows int
	EdgesByType map[types.EdgeType]int
}

func newImportStats() *ImportStats {
	return &ImportStats{EdgesByType: make(map[types.EdgeType]int)}
}

func (s *ImportStats) countEdge(edgeType types.EdgeType) {
	s.Edges++
	s.EdgesByType[edgeType]++
	if edgeType == types.EdgeIsA {
		s.IsAEdges++
	}
}

// Report renders the stats as a short human-readable summary.
func (s *ImportStats) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "imported %d nodes, %d edges (%d is-a), skipped %d rows",
		s.Nodes, s.Edges, s.IsAEdges, s.SkippedRows)
	if len(s.EdgesByType) > 0 {
		edgeTypes := make([]string, 0, len(s.EdgesByType))
		for t := range s.EdgesByType {
			edgeTypes = append(edgeTypes, string(t))
		}
		sort.Strings(edgeTypes)
		sb.WriteString("; edges by type:")
		for _, t := range edgeTypes {
			fmt.Fprintf(&sb, " %s=%d", t, s.EdgesByType[types.EdgeType(t)])
		}
	}
	return sb.String()
}

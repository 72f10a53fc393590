package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/soundprediction/ontograph/pkg/types"
)

// ImportEdgesCSV loads a PrimeKG-style edge table into the graph. The file
// is header-addressed CSV; each row carries one edge plus both endpoint
// nodes, which are registered as a side effect. Rows with unparseable
// indices are skipped and counted, not fatal.
//
// Required columns: relation, display_relation, x_index, x_type, x_name,
// y_index, y_type, y_name. The x_id/y_id columns, when numeric, become
// external IDs.
func ImportEdgesCSV(path string, dst Ingestor, log *slog.Logger) (*ImportStats, error) {
	if log == nil {
		log = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening edge table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading edge table header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"relation", "x_index", "x_type", "x_name", "y_index", "y_type", "y_name"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("edge table missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	stats := newImportStats()
	seen := make(map[uint64]struct{})
	addNode := func(id uint64, term string, typeName, externalID string) {
		ext, _ := strconv.ParseUint(externalID, 10, 64)
		dst.AddNode(id, term, types.ParseSemanticType(typeName), ext)
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			stats.Nodes++
		}
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading edge table line %d: %w", line, err)
		}

		xIndex, xErr := strconv.ParseUint(field(row, "x_index"), 10, 64)
		yIndex, yErr := strconv.ParseUint(field(row, "y_index"), 10, 64)
		if xErr != nil || yErr != nil {
			stats.SkippedRows++
			log.Debug("skipping edge row with bad index", "line", line)
			continue
		}

		addNode(xIndex, field(row, "x_name"), field(row, "x_type"), field(row, "x_id"))
		addNode(yIndex, field(row, "y_name"), field(row, "y_type"), field(row, "y_id"))

		edgeType := types.ParseEdgeType(field(row, "relation"), field(row, "display_relation"))
		dst.AddEdge(xIndex, yIndex, edgeType)
		stats.countEdge(edgeType)
	}

	log.Info("edge table import complete", "path", path,
		"nodes", stats.Nodes, "edges", stats.Edges, "skipped", stats.SkippedRows)
	return stats, nil
}

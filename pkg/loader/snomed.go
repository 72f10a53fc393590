package loader

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soundprediction/ontograph/pkg/types"
)

// SNOMED CT constants from the RF2 specification.
const (
	// snomedIsA is the concept ID of the "Is a (attribute)" relationship type.
	snomedIsA uint64 = 116680003
	// snomedFSNType is the description type ID of fully specified names.
	snomedFSNType uint64 = 900000000000003001
)

// ImportSnomedRF2 loads a SNOMED CT RF2 release directory into the graph.
// The directory is scanned for sct2_Concept, sct2_Description and
// sct2_Relationship files (tab-separated, one header line).
//
// Active concepts become nodes keyed by their SNOMED concept ID, which is
// also recorded as the external ID. Terms come from the fully specified
// name with its semantic tag stripped; concepts without an FSN get a
// "SNOMED <id>" placeholder. The semantic tag selects the node type. Only
// active IS-A relationships become edges; other relationship types are
// counted as skipped.
func ImportSnomedRF2(dir string, dst Ingestor, log *slog.Logger) (*ImportStats, error) {
	if log == nil {
		log = slog.Default()
	}

	conceptPath, err := findRF2File(dir, "sct2_Concept")
	if err != nil {
		return nil, err
	}
	descriptionPath, err := findRF2File(dir, "sct2_Description")
	if err != nil {
		return nil, err
	}
	relationshipPath, err := findRF2File(dir, "sct2_Relationship")
	if err != nil {
		return nil, err
	}

	active, err := readActiveConcepts(conceptPath)
	if err != nil {
		return nil, err
	}
	names, err := readFullySpecifiedNames(descriptionPath, active)
	if err != nil {
		return nil, err
	}

	stats := newImportStats()
	for id := range active {
		term, tag := names[id].term, names[id].tag
		if term == "" {
			term = "SNOMED " + strconv.FormatUint(id, 10)
		}
		dst.AddNode(id, term, semanticTypeFromTag(tag), id)
		stats.Nodes++
	}

	err = forEachRF2Row(relationshipPath, func(fields []string) error {
		// id, effectiveTime, active, moduleId, sourceId, destinationId,
		// relationshipGroup, typeId, characteristicTypeId, modifierId
		if len(fields) < 8 || fields[2] != "1" {
			return nil
		}
		source, sErr := strconv.ParseUint(fields[4], 10, 64)
		destination, dErr := strconv.ParseUint(fields[5], 10, 64)
		relType, tErr := strconv.ParseUint(fields[7], 10, 64)
		if sErr != nil || dErr != nil || tErr != nil {
			stats.SkippedRows++
			return nil
		}
		if relType != snomedIsA {
			stats.SkippedRows++
			return nil
		}
		dst.AddEdge(source, destination, types.EdgeIsA)
		stats.countEdge(types.EdgeIsA)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("snomed import complete", "dir", dir,
		"concepts", stats.Nodes, "isa_edges", stats.IsAEdges, "skipped", stats.SkippedRows)
	return stats, nil
}

// findRF2File locates the single file under dir whose base name starts with
// the given RF2 prefix.
func findRF2File(dir, prefix string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.HasPrefix(d.Name(), prefix) {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scanning %s: %w", dir, err)
	}
	if found == "" {
		return "", fmt.Errorf("no %s file found under %s", prefix, dir)
	}
	return found, nil
}

// forEachRF2Row streams a tab-separated RF2 file, skipping the header line.
func forEachRF2Row(path string, fn func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := fn(strings.Split(line, "\t")); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func readActiveConcepts(path string) (map[uint64]struct{}, error) {
	active := make(map[uint64]struct{})
	err := forEachRF2Row(path, func(fields []string) error {
		// id, effectiveTime, active, moduleId, definitionStatusId
		if len(fields) < 3 || fields[2] != "1" {
			return nil
		}
		if id, err := strconv.ParseUint(fields[0], 10, 64); err == nil {
			active[id] = struct{}{}
		}
		return nil
	})
	return active, err
}

type fsn struct {
	term string
	tag  string
}

func readFullySpecifiedNames(path string, active map[uint64]struct{}) (map[uint64]fsn, error) {
	names := make(map[uint64]fsn, len(active))
	err := forEachRF2Row(path, func(fields []string) error {
		// id, effectiveTime, active, moduleId, conceptId, languageCode,
		// typeId, term, caseSignificanceId
		if len(fields) < 8 || fields[2] != "1" {
			return nil
		}
		typeID, err := strconv.ParseUint(fields[6], 10, 64)
		if err != nil || typeID != snomedFSNType {
			return nil
		}
		conceptID, err := strconv.ParseUint(fields[4], 10, 64)
		if err != nil {
			return nil
		}
		if _, ok := active[conceptID]; !ok {
			return nil
		}
		term, tag := splitSemanticTag(fields[7])
		names[conceptID] = fsn{term: term, tag: tag}
		return nil
	})
	return names, err
}

// splitSemanticTag splits "Myocardial infarction (disorder)" into the term
// and its trailing semantic tag.
func splitSemanticTag(fullName string) (term, tag string) {
	name := strings.TrimSpace(fullName)
	if !strings.HasSuffix(name, ")") {
		return name, ""
	}
	open := strings.LastIndex(name, "(")
	if open <= 0 {
		return name, ""
	}
	return strings.TrimSpace(name[:open]), name[open+1 : len(name)-1]
}

// semanticTypeFromTag maps an FSN semantic tag to a node type. Unmapped
// tags fall back to the generic ontology-term type.
func semanticTypeFromTag(tag string) types.SemanticType {
	switch tag {
	case "disorder", "disease":
		return types.TypeDisease
	case "finding":
		return types.TypeSymptom
	case "procedure", "regime/therapy":
		return types.TypeProcedure
	case "body structure", "cell structure":
		return types.TypeAnatomy
	case "substance":
		return types.TypeChemical
	case "product", "medicinal product", "medicinal product form", "clinical drug":
		return types.TypeDrug
	case "":
		return types.TypeConcept
	default:
		return types.TypeOntologyTerm
	}
}

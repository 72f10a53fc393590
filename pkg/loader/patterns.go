package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soundprediction/ontograph/pkg/types"
)

// patternFile is the on-disk layout of a pattern group file.
type patternFile struct {
	Groups []types.PatternGroup `json:"groups" yaml:"groups"`
}

// LoadPatternFile reads pattern groups from a YAML or JSON file. The format
// is chosen by extension; anything that is not .json is parsed as YAML.
// Every group is validated before any are returned.
func LoadPatternFile(path string) ([]types.PatternGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern file: %w", err)
	}

	var file patternFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing pattern file %s: %w", path, err)
	}

	for i := range file.Groups {
		if err := file.Groups[i].Validate(); err != nil {
			return nil, fmt.Errorf("pattern file %s, group %d (%q): %w",
				path, i, file.Groups[i].Name, err)
		}
	}
	return file.Groups, nil
}

// LoadPatternFiles loads and concatenates pattern groups from several files.
func LoadPatternFiles(paths []string) ([]types.PatternGroup, error) {
	var groups []types.PatternGroup
	for _, path := range paths {
		g, err := LoadPatternFile(path)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g...)
	}
	return groups, nil
}

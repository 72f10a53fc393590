package types

// PatternGroup is a named set of literal text patterns that all resolve to
// the same tool/term, plus match metadata. Pattern groups are supplied by an
// external collaborator (YAML/JSON files, the graph's own terms, etc.) and
// consumed by the pattern matcher.
type PatternGroup struct {
	// Name identifies the tool or term this group matches.
	Name string `json:"name" yaml:"name"`
	// Patterns are the literal strings to search for, matched
	// case-insensitively.
	Patterns []string `json:"patterns" yaml:"patterns"`
	// Category groups related tools (e.g. "cloudflare", "package-manager").
	Category string `json:"category" yaml:"category"`
	// Confidence is how reliably a pattern hit indicates actual usage,
	// in [0.0, 1.0].
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Validate checks that the PatternGroup is well-formed.
func (g *PatternGroup) Validate() error {
	if g.Name == "" {
		return ErrEmptyGroupName
	}
	if len(g.Patterns) == 0 {
		return ErrNoPatterns
	}
	if g.Confidence < 0.0 || g.Confidence > 1.0 {
		return ErrInvalidConfidence
	}
	return nil
}

// ToolMatch is one occurrence of a known pattern found in text. Matches are
// reported left to right; overlapping patterns at the same start position
// resolve to the longest.
type ToolMatch struct {
	// Name of the matched pattern group.
	Name string `json:"name"`
	// Start byte offset in the scanned text.
	Start int `json:"start"`
	// End byte offset (exclusive).
	End int `json:"end"`
	// MatchedText is the text slice that matched, in its original case.
	MatchedText string `json:"matched_text"`
	// Category of the matched group.
	Category string `json:"category"`
	// Confidence of the matched group.
	Confidence float64 `json:"confidence"`
}

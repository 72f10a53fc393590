package matcher

import (
	"fmt"
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/soundprediction/ontograph/pkg/types"
)

// TermIndex supplies node terms and types from a live ontology graph.
// *graph.TypedGraph satisfies it.
type TermIndex interface {
	IterNodeTerms(fn func(id uint64, term string) bool)
	GetNodeType(id uint64) (types.SemanticType, bool)
}

// KnowledgeGraphMatcher matches text against the node terms of an ontology
// graph. Graph terms are snapshotted at Initialize time and combined with
// any explicitly registered pattern groups; each graph term matches under
// its own display text with its node's semantic type as the category.
//
// Unlike the automaton backend, this matcher can fail at runtime: if no
// terms were available when it was initialized, FindMatches reports
// ErrIndexUnavailable so a caller can route around it.
type KnowledgeGraphMatcher struct {
	index TermIndex

	mu        sync.RWMutex
	automaton *ahocorasick.AhoCorasick
	meta      []patternMeta
}

// NewKnowledgeGraphMatcher creates a matcher over the given term index.
// A nil index is allowed and behaves as an empty one.
func NewKnowledgeGraphMatcher(index TermIndex) *KnowledgeGraphMatcher {
	return &KnowledgeGraphMatcher{index: index}
}

// Initialize snapshots the graph's node terms, merges in the given pattern
// groups, and builds the automaton over the union.
func (m *KnowledgeGraphMatcher) Initialize(groups []types.PatternGroup) error {
	var patterns []string
	var meta []patternMeta

	for i := range groups {
		g := &groups[i]
		if err := g.Validate(); err != nil {
			return fmt.Errorf("pattern group %q: %w", g.Name, err)
		}
		for _, p := range g.Patterns {
			patterns = append(patterns, p)
			meta = append(meta, patternMeta{
				name:       g.Name,
				category:   g.Category,
				confidence: g.Confidence,
			})
		}
	}

	if m.index != nil {
		m.index.IterNodeTerms(func(id uint64, term string) bool {
			if term == "" {
				return true
			}
			category := string(types.TypeConcept)
			if t, ok := m.index.GetNodeType(id); ok {
				category = string(t)
			}
			patterns = append(patterns, term)
			meta = append(meta, patternMeta{
				name:       term,
				category:   category,
				confidence: 1.0,
			})
			return true
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(patterns) == 0 {
		m.automaton = nil
		m.meta = nil
		return nil
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	ac := builder.Build(patterns)
	m.automaton = &ac
	m.meta = meta
	return nil
}

// FindMatches scans text against the snapshotted terms. An empty snapshot
// is a runtime failure, not an empty result: the graph was expected to
// supply terms and did not.
func (m *KnowledgeGraphMatcher) FindMatches(text string) ([]types.ToolMatch, error) {
	m.mu.RLock()
	automaton := m.automaton
	meta := m.meta
	m.mu.RUnlock()

	if automaton == nil {
		return nil, ErrIndexUnavailable
	}

	hits := automaton.FindAll(text)
	matches := make([]types.ToolMatch, 0, len(hits))
	for _, hit := range hits {
		pm := meta[hit.Pattern()]
		matches = append(matches, types.ToolMatch{
			Name:        pm.name,
			Start:       hit.Start(),
			End:         hit.End(),
			MatchedText: text[hit.Start():hit.End()],
			Category:    pm.category,
			Confidence:  pm.confidence,
		})
	}
	return matches, nil
}

// MatcherType implements Matcher.
func (m *KnowledgeGraphMatcher) MatcherType() string {
	return BackendKnowledgeGraph
}

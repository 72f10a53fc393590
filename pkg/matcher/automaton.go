package matcher

import (
	"fmt"
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/soundprediction/ontograph/pkg/types"
)

// patternMeta carries the group attributes for one registered pattern,
// indexed by automaton pattern ID.
type patternMeta struct {
	name       string
	category   string
	confidence float64
}

// AutomatonMatcher matches text against registered pattern groups using an
// Aho-Corasick automaton with case-insensitive, leftmost-longest semantics.
//
// The automaton and metadata table are replaced atomically by Initialize
// and never mutated afterwards, so FindMatches needs only a read lock.
type AutomatonMatcher struct {
	mu        sync.RWMutex
	automaton *ahocorasick.AhoCorasick
	meta      []patternMeta
}

// NewAutomatonMatcher creates an uninitialized automaton matcher.
func NewAutomatonMatcher() *AutomatonMatcher {
	return &AutomatonMatcher{}
}

// Initialize validates the groups and builds the automaton. Prior state is
// discarded even on a validation error.
func (m *AutomatonMatcher) Initialize(groups []types.PatternGroup) error {
	patterns := make([]string, 0, len(groups))
	meta := make([]patternMeta, 0, len(groups))
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

// FindMatches scans text with the automaton. Matches arrive in start
// order from the leftmost-longest scan, so no re-sorting is needed.
func (m *AutomatonMatcher) FindMatches(text string) ([]types.ToolMatch, error) {
	m.mu.RLock()
	automaton := m.automaton
	meta := m.meta
	m.mu.RUnlock()

	if automaton == nil {
		return nil, nil
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
func (m *AutomatonMatcher) MatcherType() string {
	return BackendAutomaton
}

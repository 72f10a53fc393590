// Package matcher provides multi-pattern text matching over registered
// term groups.
//
// Two backends implement the same Matcher contract: an automaton backend
// built on an Aho-Corasick state machine, and a knowledge-graph backend
// that matches against the live node terms of an ontology graph. The
// FallbackMatcher composes them, routing to the primary backend and
// falling back to the secondary when the primary fails at runtime.
package matcher

import (
	"errors"

	"github.com/soundprediction/ontograph/pkg/types"
)

// Backend names reported by MatcherType and LastBackend.
const (
	BackendAutomaton      = "automaton"
	BackendKnowledgeGraph = "knowledge_graph"
	BackendFallback       = "fallback"
)

// ErrIndexUnavailable is returned by the knowledge-graph backend when its
// term index has no terms to match against.
var ErrIndexUnavailable = errors.New("term index is empty or unavailable")

// Matcher finds occurrences of registered terms in arbitrary text.
//
// Initialize replaces all prior state. Implementations are safe for
// unlimited concurrent FindMatches calls once initialized; Initialize must
// not run concurrently with itself.
type Matcher interface {
	// Initialize builds the matcher state from the given pattern groups,
	// discarding any previous state. An empty group list is valid and
	// yields a matcher that reports no matches.
	Initialize(groups []types.PatternGroup) error

	// FindMatches scans text and returns every occurrence of a registered
	// term, ordered by start position. Matching is case-insensitive with
	// leftmost-longest semantics. An uninitialized matcher returns an
	// empty result, not an error.
	FindMatches(text string) ([]types.ToolMatch, error)

	// MatcherType identifies the backend implementation.
	MatcherType() string
}

package graph

// IndexState tracks the lifecycle of the derived embedding index relative to
// the graph it was built from.
//
// Transitions:
//
//	Empty --build--> Built
//	Built --structural mutation--> Stale
//	Stale --invalidate--> Empty
//	Stale --build--> Built
//
// Structural mutations are node registration and IS-A edge insertion; edges
// of any other type never change the state. Modeling this explicitly (rather
// than a nil check) keeps the invalidation rules auditable and testable on
// their own.
type IndexState int

const (
	// IndexEmpty means no embedding index exists.
	IndexEmpty IndexState = iota
	// IndexBuilt means the index reflects the current hierarchy.
	IndexBuilt
	// IndexStale means the index exists but the hierarchy has changed
	// since it was built. Stale indexes are discarded, not served.
	IndexStale
)

// String returns a human-readable state name.
func (s IndexState) String() string {
	switch s {
	case IndexEmpty:
		return "empty"
	case IndexBuilt:
		return "built"
	case IndexStale:
		return "stale"
	default:
		return "unknown"
	}
}

// onBuild transitions to Built from any state.
func (s IndexState) onBuild() IndexState {
	return IndexBuilt
}

// onStructuralChange marks a built index stale. Empty stays empty: there is
// nothing to invalidate.
func (s IndexState) onStructuralChange() IndexState {
	if s == IndexBuilt {
		return IndexStale
	}
	return s
}

// onInvalidate drops a stale index back to empty.
func (s IndexState) onInvalidate() IndexState {
	if s == IndexStale {
		return IndexEmpty
	}
	return s
}

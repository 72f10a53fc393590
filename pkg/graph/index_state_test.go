package graph

import "testing"

func TestIndexStateTransitions(t *testing.T) {
	t.Parallel()

	s := IndexEmpty

	// Structural changes on an empty state are no-ops.
	if got := s.onStructuralChange(); got != IndexEmpty {
		t.Errorf("empty + structural change = %v, want empty", got)
	}

	// Build from empty.
	s = s.onBuild()
	if s != IndexBuilt {
		t.Fatalf("after build: %v, want built", s)
	}

	// Mutation marks the built index stale, invalidation drops it.
	s = s.onStructuralChange()
	if s != IndexStale {
		t.Fatalf("after structural change: %v, want stale", s)
	}
	s = s.onInvalidate()
	if s != IndexEmpty {
		t.Fatalf("after invalidate: %v, want empty", s)
	}

	// Rebuilding directly from stale is also allowed.
	s = IndexStale
	if got := s.onBuild(); got != IndexBuilt {
		t.Errorf("stale + build = %v, want built", got)
	}

	// Invalidate is a no-op unless stale.
	if got := IndexBuilt.onInvalidate(); got != IndexBuilt {
		t.Errorf("built + invalidate = %v, want built", got)
	}
}

func TestIndexStateString(t *testing.T) {
	t.Parallel()

	cases := map[IndexState]string{
		IndexEmpty:     "empty",
		IndexBuilt:     "built",
		IndexStale:     "stale",
		IndexState(42): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

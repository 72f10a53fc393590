package types

import "testing"

func TestNodeValidate(t *testing.T) {
	t.Parallel()

	n := &Node{ID: 1, Term: "Diabetes", Type: TypeDisease}
	if err := n.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := &Node{ID: 2}
	if err := empty.Validate(); err != ErrEmptyTerm {
		t.Errorf("expected ErrEmptyTerm, got %v", err)
	}
}

func TestPatternGroupValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		group PatternGroup
		want  error
	}{
		{
			name:  "valid",
			group: PatternGroup{Name: "wrangler", Patterns: []string{"npx wrangler"}, Confidence: 0.95},
			want:  nil,
		},
		{
			name:  "missing name",
			group: PatternGroup{Patterns: []string{"x"}, Confidence: 0.5},
			want:  ErrEmptyGroupName,
		},
		{
			name:  "no patterns",
			group: PatternGroup{Name: "empty", Confidence: 0.5},
			want:  ErrNoPatterns,
		},
		{
			name:  "confidence too high",
			group: PatternGroup{Name: "x", Patterns: []string{"x"}, Confidence: 1.5},
			want:  ErrInvalidConfidence,
		},
		{
			name:  "confidence negative",
			group: PatternGroup{Name: "x", Patterns: []string{"x"}, Confidence: -0.1},
			want:  ErrInvalidConfidence,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.group.Validate(); got != tc.want {
				t.Errorf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseSemanticType(t *testing.T) {
	t.Parallel()

	cases := map[string]SemanticType{
		"disease":          TypeDisease,
		"drug":             TypeDrug,
		"gene/protein":     TypeGene,
		"effect/phenotype": TypePhenotype,
		"anatomy":          TypeAnatomy,
		"pathway":          TypePathway,
		"something else":   TypeConcept,
		"":                 TypeConcept,
	}
	for in, want := range cases {
		if got := ParseSemanticType(in); got != want {
			t.Errorf("ParseSemanticType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseEdgeType(t *testing.T) {
	t.Parallel()

	if got := ParseEdgeType("is_a", ""); got != EdgeIsA {
		t.Errorf("is_a relation: got %v", got)
	}
	if got := ParseEdgeType("indication", ""); got != EdgeTreats {
		t.Errorf("indication relation: got %v", got)
	}
	if got := ParseEdgeType("contraindication", ""); got != EdgeContraindicates {
		t.Errorf("contraindication relation: got %v", got)
	}
	// Relation column unknown, display relation decides.
	if got := ParseEdgeType("unknown_rel", "is a"); got != EdgeIsA {
		t.Errorf("display relation fallback: got %v", got)
	}
	if got := ParseEdgeType("unknown_rel", "unknown"); got != EdgeRelatedTo {
		t.Errorf("default: got %v", got)
	}
}

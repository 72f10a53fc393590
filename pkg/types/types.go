package types

import "errors"

// Validation errors
var (
	ErrEmptyTerm         = errors.New("term cannot be empty")
	ErrEmptyGroupName    = errors.New("pattern group name cannot be empty")
	ErrNoPatterns        = errors.New("pattern group has no patterns")
	ErrInvalidConfidence = errors.New("confidence must be between 0.0 and 1.0")
	ErrInvalidLimit      = errors.New("limit must be positive")
)

// SemanticType classifies a node in the ontology graph.
//
// The set covers clinical entities (diseases, drugs, symptoms), molecular
// biology entities (genes, proteins, pathways), and generic ontology
// concepts. Concept is the zero value and the default for untyped nodes.
type SemanticType string

const (
	// TypeConcept is a generic concept node (default).
	TypeConcept SemanticType = "concept"
	// TypeDisease is a disease or medical condition.
	TypeDisease SemanticType = "disease"
	// TypeDrug is a pharmaceutical drug.
	TypeDrug SemanticType = "drug"
	// TypeGene is a gene.
	TypeGene SemanticType = "gene"
	// TypeProtein is a protein.
	TypeProtein SemanticType = "protein"
	// TypeProcedure is a medical procedure.
	TypeProcedure SemanticType = "procedure"
	// TypeSymptom is a clinical symptom.
	TypeSymptom SemanticType = "symptom"
	// TypePathway is a biological pathway.
	TypePathway SemanticType = "pathway"
	// TypeAnatomy is an anatomical structure.
	TypeAnatomy SemanticType = "anatomy"
	// TypePhenotype is a phenotype or observable trait.
	TypePhenotype SemanticType = "phenotype"
	// TypeChemical is a chemical compound.
	TypeChemical SemanticType = "chemical"
	// TypeSideEffect is a drug side effect.
	TypeSideEffect SemanticType = "side_effect"
	// TypeExposure is an environmental or chemical exposure.
	TypeExposure SemanticType = "exposure"
	// TypeOntologyTerm is a term from a formal ontology.
	TypeOntologyTerm SemanticType = "ontology_term"
)

// EdgeType classifies a directed edge in the ontology graph.
type EdgeType string

const (
	// EdgeIsA is the subsumption / taxonomy relationship. The source is a
	// more specific kind of the target.
	EdgeIsA EdgeType = "is_a"
	// EdgeTreats connects a drug to the condition it treats. Data sources
	// record this in either direction, so Treats queries check both.
	EdgeTreats EdgeType = "treats"
	// EdgeCauses connects an entity to a condition it causes.
	EdgeCauses EdgeType = "causes"
	// EdgeContraindicates marks a drug as contraindicated for a condition.
	EdgeContraindicates EdgeType = "contraindicates"
	// EdgePartOf marks the source as a part of the target.
	EdgePartOf EdgeType = "part_of"
	// EdgeAssociatedWith is a general association.
	EdgeAssociatedWith EdgeType = "associated_with"
	// EdgeInteractsWith is a molecular interaction.
	EdgeInteractsWith EdgeType = "interacts_with"
	// EdgeHasSymptom connects a condition to a symptom.
	EdgeHasSymptom EdgeType = "has_symptom"
	// EdgeHasSideEffect connects a drug to a side effect.
	EdgeHasSideEffect EdgeType = "has_side_effect"
	// EdgeSimilarTo marks two entities as similar.
	EdgeSimilarTo EdgeType = "similar_to"
	// EdgeRelatedTo is the generic relationship (default).
	EdgeRelatedTo EdgeType = "related_to"
)

// Node is a node in the ontology graph. IDs are stable and externally
// assigned by the data loader; the engine never generates them.
type Node struct {
	ID         uint64       `json:"id" mapstructure:"id"`
	Term       string       `json:"term" mapstructure:"term"`
	Type       SemanticType `json:"type" mapstructure:"type"`
	ExternalID uint64       `json:"external_id,omitempty" mapstructure:"external_id"`
}

// Validate checks that the Node has all required fields set.
func (n *Node) Validate() error {
	if n.Term == "" {
		return ErrEmptyTerm
	}
	return nil
}

// Edge is a typed directed edge between two node IDs.
type Edge struct {
	Source uint64   `json:"source" mapstructure:"source"`
	Target uint64   `json:"target" mapstructure:"target"`
	Type   EdgeType `json:"type" mapstructure:"type"`
}

// ScoredNode is a node ID with a similarity score, as returned by
// nearest-neighbor queries.
type ScoredNode struct {
	ID    uint64  `json:"id"`
	Score float64 `json:"score"`
}

// Contraindication is a (drug, condition) pair connected by a
// Contraindicates edge in either direction.
type Contraindication struct {
	DrugID      uint64 `json:"drug_id"`
	ConditionID uint64 `json:"condition_id"`
}

// ParseSemanticType maps a source type string (PrimeKG style, e.g.
// "gene/protein", "drug", "effect/phenotype") to a SemanticType.
// Unrecognized strings map to TypeConcept.
func ParseSemanticType(s string) SemanticType {
	switch s {
	case "disease":
		return TypeDisease
	case "drug":
		return TypeDrug
	case "gene", "gene/protein":
		return TypeGene
	case "protein":
		return TypeProtein
	case "procedure":
		return TypeProcedure
	case "symptom":
		return TypeSymptom
	case "pathway":
		return TypePathway
	case "anatomy":
		return TypeAnatomy
	case "phenotype", "effect/phenotype":
		return TypePhenotype
	case "chemical", "compound":
		return TypeChemical
	case "side_effect":
		return TypeSideEffect
	case "exposure":
		return TypeExposure
	case "ontology_term", "biological_process", "molecular_function", "cellular_component":
		return TypeOntologyTerm
	default:
		return TypeConcept
	}
}

// ParseEdgeType maps a source relation string (PrimeKG relation and
// display_relation columns) to an EdgeType. Unrecognized strings map to
// EdgeRelatedTo.
func ParseEdgeType(relation, displayRelation string) EdgeType {
	switch relation {
	case "is_a", "isa", "subclass_of":
		return EdgeIsA
	case "indication", "treats":
		return EdgeTreats
	case "contraindication", "contraindicates":
		return EdgeContraindicates
	case "part_of", "parent-child":
		return EdgePartOf
	case "associated with", "associated_with", "disease_protein", "disease_disease":
		return EdgeAssociatedWith
	case "interacts with", "interacts_with", "protein_protein", "drug_drug":
		return EdgeInteractsWith
	case "phenotype_present", "disease_phenotype_positive":
		return EdgeHasSymptom
	case "side_effect", "drug_effect":
		return EdgeHasSideEffect
	case "causes":
		return EdgeCauses
	}
	switch displayRelation {
	case "is a":
		return EdgeIsA
	case "indication":
		return EdgeTreats
	case "contraindication":
		return EdgeContraindicates
	case "side effect":
		return EdgeHasSideEffect
	case "parent-child":
		return EdgePartOf
	}
	return EdgeRelatedTo
}

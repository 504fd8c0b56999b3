package domain

// FacetCategory is one independent dimension of a recipe query.
// The set is closed: the extractor recognizes exactly these five.
type FacetCategory int

const (
	FacetCuisine FacetCategory = iota
	FacetDiet
	FacetMealType
	FacetTime
	FacetIngredient
)

// String returns the snake_case name of the category.
func (c FacetCategory) String() string {
	switch c {
	case FacetCuisine:
		return "cuisine"
	case FacetDiet:
		return "diet"
	case FacetMealType:
		return "meal_type"
	case FacetTime:
		return "time_constraint"
	case FacetIngredient:
		return "ingredient"
	default:
		return "unknown"
	}
}

// SemanticCategories are the categories eligible for embedding-based
// fallback matching. Ingredient is deliberately excluded: its vocabulary
// is open-ended and semantic inference produces false positives.
var SemanticCategories = []FacetCategory{FacetCuisine, FacetDiet, FacetMealType}

// TimeBound is a cooking-time constraint in minutes. A zero field means
// that side is unbounded.
type TimeBound struct {
	MaxMinutes int
	MinMinutes int
}

// Satisfies reports whether a recipe taking m minutes fits the bound.
func (b TimeBound) Satisfies(m int) bool {
	if b.MaxMinutes > 0 && m > b.MaxMinutes {
		return false
	}
	if b.MinMinutes > 0 && m < b.MinMinutes {
		return false
	}
	return true
}

// QueryIntent is the structured form of one user query turn. A category
// absent from Facets is unconstrained, never an empty-set exclusion.
// Immutable once produced.
type QueryIntent struct {
	// Facets maps a category to the canonical values requested for it.
	// FacetTime values are the qualitative terms that matched ("quick",
	// "slow") or the literal numeric phrase; the bound itself lives in Time.
	Facets map[FacetCategory][]string

	// Time is non-nil when a time constraint was detected.
	Time *TimeBound

	// Normalized is the cleaned query text the intent was extracted from.
	Normalized string
}

// Constrained reports whether any facet was detected.
func (q QueryIntent) Constrained() bool {
	return len(q.Facets) > 0 || q.Time != nil
}

// Values returns the requested values for a category, nil when
// unconstrained.
func (q QueryIntent) Values(c FacetCategory) []string {
	if q.Facets == nil {
		return nil
	}
	return q.Facets[c]
}

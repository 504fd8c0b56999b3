package domain

// Recipe is one dataset record. Tags and Ingredients are lowercased and
// deduplicated at index-build time; the record is never mutated afterwards.
type Recipe struct {
	ID          int
	Title       string
	Description string
	Tags        []string
	Ingredients []string
	Minutes     int
}

// ScoredMatch is one ranked result for a query turn. Derived per query,
// never persisted.
type ScoredMatch struct {
	Recipe *Recipe

	// Score counts the constrained categories this recipe satisfied.
	Score int

	// MatchedFacets names those categories, for rationale output.
	MatchedFacets []FacetCategory

	// Similarity is the description-embedding similarity to the query,
	// zero when no embedder was available.
	Similarity float64
}

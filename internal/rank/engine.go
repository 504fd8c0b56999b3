// Package rank scores recipes against an extracted intent and returns the
// top matches. The filter is hard: every constrained facet must be
// satisfied, non-matching recipes are excluded outright rather than
// down-ranked. An unconstrained intent falls back to semantic ordering
// over the description vectors, and with no embedder to tag-popularity
// order, so an open-ended request still gets a useful answer.
package rank

import (
	"sort"

	"recipechat/internal/domain"
	"recipechat/internal/embedding"
	"recipechat/internal/index"
)

// Engine ranks recipes against intents. Pure over the index snapshot;
// safe for concurrent use.
type Engine struct {
	idx *index.Index
}

// New creates a ranking engine over the given index.
func New(idx *index.Index) *Engine {
	return &Engine{idx: idx}
}

// Rank returns at most topN matches for the intent, ordered by score, then
// description similarity to the query, then shorter cooking time, then
// dataset order. queryVec may be nil. Fewer than topN results is a valid
// outcome; zero results means no recipe passed the hard filter.
func (e *Engine) Rank(intent domain.QueryIntent, queryVec []float64, topN int) []domain.ScoredMatch {
	if topN <= 0 || e.idx.Len() == 0 {
		return nil
	}
	if !intent.Constrained() {
		return e.fallback(queryVec, topN)
	}

	matches := e.filter(intent, queryVec)
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		return a.Recipe.Minutes < b.Recipe.Minutes
	})
	if topN > len(matches) {
		topN = len(matches)
	}
	return matches[:topN]
}

// filter applies the conjunctive hard filter and computes per-recipe
// scores and rationale.
func (e *Engine) filter(intent domain.QueryIntent, queryVec []float64) []domain.ScoredMatch {
	candidates := e.candidates(intent)

	var matches []domain.ScoredMatch
	for _, pos := range candidates {
		score := 0
		var matched []domain.FacetCategory

		ok := true
		for _, cat := range []domain.FacetCategory{domain.FacetCuisine, domain.FacetDiet, domain.FacetMealType} {
			values := intent.Values(cat)
			if len(values) == 0 {
				continue
			}
			if !e.idx.HasTag(pos, values) {
				ok = false
				break
			}
			score++
			matched = append(matched, cat)
		}
		if ok && len(intent.Values(domain.FacetIngredient)) > 0 {
			if e.idx.HasIngredient(pos, intent.Values(domain.FacetIngredient)) {
				score++
				matched = append(matched, domain.FacetIngredient)
			} else {
				ok = false
			}
		}
		if ok && intent.Time != nil {
			if intent.Time.Satisfies(e.idx.Recipe(pos).Minutes) {
				score++
				matched = append(matched, domain.FacetTime)
			} else {
				ok = false
			}
		}
		if !ok {
			continue
		}

		sim := 0.0
		if queryVec != nil {
			if v := e.idx.Vector(pos); v != nil {
				sim = embedding.Cosine(queryVec, v)
			}
		}
		matches = append(matches, domain.ScoredMatch{
			Recipe:        e.idx.Recipe(pos),
			Score:         score,
			MatchedFacets: matched,
			Similarity:    sim,
		})
	}
	return matches
}

// candidates narrows the scan through the inverted lookups when a tag or
// ingredient facet is constrained; a time-only intent scans everything.
func (e *Engine) candidates(intent domain.QueryIntent) []int {
	for _, cat := range []domain.FacetCategory{domain.FacetCuisine, domain.FacetDiet, domain.FacetMealType} {
		if values := intent.Values(cat); len(values) > 0 {
			return e.idx.CandidatesByTag(values)
		}
	}
	if values := intent.Values(domain.FacetIngredient); len(values) > 0 {
		return e.idx.CandidatesByIngredient(values)
	}
	all := make([]int, e.idx.Len())
	for i := range all {
		all[i] = i
	}
	return all
}

// fallback orders the whole dataset for an unconstrained intent.
func (e *Engine) fallback(queryVec []float64, topN int) []domain.ScoredMatch {
	if queryVec != nil && !embedding.IsZero(queryVec) {
		if res := e.idx.SimilarTop(queryVec, topN); res != nil {
			return res
		}
	}
	order := e.idx.PopularOrder()
	if topN > len(order) {
		topN = len(order)
	}
	out := make([]domain.ScoredMatch, 0, topN)
	for _, pos := range order[:topN] {
		out = append(out, domain.ScoredMatch{Recipe: e.idx.Recipe(pos)})
	}
	return out
}

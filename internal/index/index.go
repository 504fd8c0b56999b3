// Package index holds the immutable in-memory view of the recipe dataset:
// normalized records, inverted tag and ingredient lookups for candidate
// narrowing, and optional description vectors for semantic ranking.
// Built once at startup and shared read-only for the process lifetime.
package index

import (
	"sort"
	"strings"

	"recipechat/internal/domain"
	"recipechat/internal/embedding"
)

// Index is the read-only recipe collection plus derived lookups.
type Index struct {
	recipes []domain.Recipe

	byTag        map[string][]int // tag -> positions, dataset order
	byIngredient map[string][]int // ingredient or ingredient word -> positions

	tagSets []map[string]struct{}
	ingSets []map[string]struct{} // full ingredient strings and their words

	vectors    [][]float64 // nil without an embedder
	popularity []int       // sum of global tag frequencies per recipe
}

// Build normalizes the recipes and constructs the lookups. When emb is
// non-nil every recipe's descriptive text is embedded; progress, if set,
// is called after each recipe so the caller can render a bar.
func Build(recipes []domain.Recipe, emb domain.Embedder, progress func(done, total int)) (*Index, error) {
	idx := &Index{
		recipes:      make([]domain.Recipe, len(recipes)),
		byTag:        make(map[string][]int),
		byIngredient: make(map[string][]int),
		tagSets:      make([]map[string]struct{}, len(recipes)),
		ingSets:      make([]map[string]struct{}, len(recipes)),
		popularity:   make([]int, len(recipes)),
	}

	tagCounts := make(map[string]int)
	for i, r := range recipes {
		r.Tags = normalizeTerms(r.Tags)
		r.Ingredients = normalizeTerms(r.Ingredients)
		idx.recipes[i] = r

		tags := make(map[string]struct{}, len(r.Tags))
		for _, t := range r.Tags {
			tags[t] = struct{}{}
			idx.byTag[t] = append(idx.byTag[t], i)
			tagCounts[t]++
		}
		idx.tagSets[i] = tags

		ings := make(map[string]struct{}, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			ings[ing] = struct{}{}
			// Index component words too, so "chicken" reaches a recipe
			// listing "chicken breast".
			for _, w := range strings.Fields(ing) {
				if len(w) > 2 {
					ings[w] = struct{}{}
				}
			}
		}
		for term := range ings {
			idx.byIngredient[term] = append(idx.byIngredient[term], i)
		}
		idx.ingSets[i] = ings
	}

	for i, r := range idx.recipes {
		for _, t := range r.Tags {
			idx.popularity[i] += tagCounts[t]
		}
	}

	if emb != nil {
		idx.vectors = make([][]float64, len(idx.recipes))
		for i, r := range idx.recipes {
			vec, err := emb.Embed(r.Title + " " + r.Description)
			if err != nil {
				return nil, err
			}
			idx.vectors[i] = vec
			if progress != nil {
				progress(i+1, len(idx.recipes))
			}
		}
	}
	return idx, nil
}

// Len returns the number of recipes.
func (x *Index) Len() int { return len(x.recipes) }

// Recipe returns the recipe at the given dataset position.
func (x *Index) Recipe(pos int) *domain.Recipe { return &x.recipes[pos] }

// Vector returns the description vector at the given position, nil when
// the index was built without an embedder.
func (x *Index) Vector(pos int) []float64 {
	if x.vectors == nil {
		return nil
	}
	return x.vectors[pos]
}

// HasTag reports whether the recipe at pos carries any of the given tags.
// Dataset tags are often pluralized ("desserts") while canonical facet
// values are singular, so simple plural forms are accepted too.
func (x *Index) HasTag(pos int, values []string) bool {
	for _, v := range values {
		for _, form := range tagForms(v) {
			if _, ok := x.tagSets[pos][form]; ok {
				return true
			}
		}
	}
	return false
}

// HasIngredient reports whether the recipe at pos uses any of the given
// ingredients, matching full ingredient names or their component words.
func (x *Index) HasIngredient(pos int, values []string) bool {
	for _, v := range values {
		if _, ok := x.ingSets[pos][v]; ok {
			return true
		}
	}
	return false
}

// CandidatesByTag returns the union of positions carrying any of the tags,
// plural forms included.
func (x *Index) CandidatesByTag(values []string) []int {
	expanded := make([]string, 0, len(values)*3)
	for _, v := range values {
		expanded = append(expanded, tagForms(v)...)
	}
	return union(x.byTag, expanded)
}

func tagForms(v string) []string {
	return []string{v, v + "s", v + "es"}
}

// CandidatesByIngredient returns the union of positions using any of the
// ingredients.
func (x *Index) CandidatesByIngredient(values []string) []int {
	return union(x.byIngredient, values)
}

// KnowsIngredient reports whether the term appears in the dataset's
// ingredient vocabulary. The extractor uses this as the closed world for
// ingredient facets.
func (x *Index) KnowsIngredient(term string) bool {
	_, ok := x.byIngredient[term]
	return ok
}

// SimilarTop returns the topN positions by cosine similarity between the
// query vector and the recipe vectors, in descending similarity with
// dataset order breaking ties.
func (x *Index) SimilarTop(queryVec []float64, topN int) []domain.ScoredMatch {
	if x.vectors == nil || topN <= 0 {
		return nil
	}
	type scored struct {
		pos int
		sim float64
	}
	all := make([]scored, len(x.vectors))
	for i, v := range x.vectors {
		all[i] = scored{pos: i, sim: embedding.Cosine(queryVec, v)}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].sim > all[j].sim })
	if topN > len(all) {
		topN = len(all)
	}
	out := make([]domain.ScoredMatch, 0, topN)
	for _, s := range all[:topN] {
		out = append(out, domain.ScoredMatch{
			Recipe:     &x.recipes[s.pos],
			Similarity: s.sim,
		})
	}
	return out
}

// PopularOrder returns all positions ordered by tag popularity descending,
// dataset order breaking ties. This is the degraded fallback ordering when
// no embedder is available.
func (x *Index) PopularOrder() []int {
	order := make([]int, len(x.recipes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return x.popularity[order[i]] > x.popularity[order[j]]
	})
	return order
}

func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func union(table map[string][]int, values []string) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, v := range values {
		for _, pos := range table[v] {
			if _, ok := seen[pos]; ok {
				continue
			}
			seen[pos] = struct{}{}
			out = append(out, pos)
		}
	}
	sort.Ints(out)
	return out
}

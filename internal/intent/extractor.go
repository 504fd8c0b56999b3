// Package intent extracts a structured QueryIntent from a normalized token
// sequence. Matching runs as an explicit ordered strategy list: exact
// lexicon matching, explicit and qualitative time constraints, a semantic
// embedding fallback for categories with no exact hit, and an exact-only
// ingredient pass last, since the ingredient vocabulary is open-ended and
// most prone to false positives.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"recipechat/internal/domain"
	"recipechat/internal/embedding"
	"recipechat/internal/lexicon"
)

// IngredientVocab is the closed world for the ingredient facet, supplied
// by the recipe index.
type IngredientVocab interface {
	KnowsIngredient(term string) bool
}

// Config carries the tunable extraction constants.
type Config struct {
	// SimilarityThreshold is the minimum cosine similarity for the
	// semantic fallback to accept a canonical value.
	SimilarityThreshold float64

	// QuickMinutes is the ceiling applied for "quick"-class terms.
	QuickMinutes int

	// SlowMinutes is the floor applied for "slow"-class terms.
	SlowMinutes int
}

type refVector struct {
	canonical string
	vec       []float64
}

// Extractor turns tokens into a QueryIntent. Construct once; safe for
// concurrent use.
type Extractor struct {
	lex   *lexicon.Lexicon
	vocab IngredientVocab
	cfg   Config
	log   zerolog.Logger

	// refVectors holds one anchor vector per canonical value of each
	// semantic category; nil when no embedder is available.
	refVectors map[domain.FacetCategory][]refVector

	steps []step

	numberRe *regexp.Regexp
}

type step struct {
	name string
	run  func(*extraction)
}

// extraction is the per-call working state.
type extraction struct {
	tokens   []string
	consumed []bool
	queryVec []float64

	facets map[domain.FacetCategory][]string
	time   *domain.TimeBound
}

// New builds an extractor. emb may be nil; semantic fallback is then
// disabled and extraction degrades to exact matching only. The same
// happens if embedding the lexicon's reference phrases fails.
func New(lex *lexicon.Lexicon, vocab IngredientVocab, emb domain.Embedder, cfg Config, log zerolog.Logger) *Extractor {
	e := &Extractor{
		lex:      lex,
		vocab:    vocab,
		cfg:      cfg,
		log:      log,
		numberRe: regexp.MustCompile(`^\d+$`),
	}
	e.steps = []step{
		{"exact_match", e.exactStep},
		{"time_constraint", e.timeStep},
		{"semantic_fallback", e.semanticStep},
		{"ingredients", e.ingredientStep},
	}
	if emb == nil {
		return e
	}
	refs := make(map[domain.FacetCategory][]refVector)
	for _, cat := range domain.SemanticCategories {
		for _, canonical := range lex.Canonicals(cat) {
			vec, err := emb.Embed(lex.ReferencePhrase(cat, canonical))
			if err != nil {
				log.Warn().Err(err).Str("category", cat.String()).
					Msg("embedding reference phrases failed, semantic fallback disabled")
				return e
			}
			refs[cat] = append(refs[cat], refVector{canonical: canonical, vec: vec})
		}
	}
	e.refVectors = refs
	return e
}

// StepNames returns the strategy order, first to last.
func (e *Extractor) StepNames() []string {
	names := make([]string, len(e.steps))
	for i, s := range e.steps {
		names[i] = s.name
	}
	return names
}

// Extract produces the intent for one query turn. queryVec is the
// embedding of the full normalized query, nil when unavailable.
// Extraction never fails: unmatched text is dropped and an input with no
// facet hits yields an unconstrained intent.
func (e *Extractor) Extract(tokens []string, queryVec []float64) domain.QueryIntent {
	st := &extraction{
		tokens:   tokens,
		consumed: make([]bool, len(tokens)),
		queryVec: queryVec,
		facets:   make(map[domain.FacetCategory][]string),
	}
	for _, s := range e.steps {
		s.run(st)
	}

	intent := domain.QueryIntent{
		Time:       st.time,
		Normalized: strings.Join(tokens, " "),
	}
	if len(st.facets) > 0 {
		intent.Facets = st.facets
	}
	e.log.Debug().
		Str("query", intent.Normalized).
		Int("facet_categories", len(st.facets)).
		Msg("intent extracted")
	return intent
}

// exactStep scans token n-grams, longest first, against the lexicon for
// the cuisine, diet and meal-type categories. Matched tokens are consumed
// so later steps do not reinterpret them.
func (e *Extractor) exactStep(st *extraction) {
	for n := 3; n >= 1; n-- {
		e.scanNGrams(st, n, func(phrase string) (domain.FacetCategory, string, bool) {
			m, ok := e.lex.Resolve(phrase)
			if !ok || m.Category == domain.FacetTime {
				return 0, "", false
			}
			return m.Category, m.Canonical, true
		})
	}
}

// timeStep resolves explicit numeric bounds ("under 30 minutes", "2
// hours") first, then qualitative terms ("quick", "slow") through the
// lexicon, mapping them onto the configured ceiling and floor.
func (e *Extractor) timeStep(st *extraction) {
	// number followed by a time unit
	for i := 0; i+1 < len(st.tokens); i++ {
		if st.consumed[i] || st.consumed[i+1] {
			continue
		}
		val, err := strconv.Atoi(st.tokens[i])
		if err != nil || !e.numberRe.MatchString(st.tokens[i]) {
			continue
		}
		mins, ok := unitMinutes(st.tokens[i+1], val)
		if !ok {
			continue
		}
		st.addTimeMax(mins, st.tokens[i]+" "+st.tokens[i+1])
		st.consumed[i], st.consumed[i+1] = true, true
		// consume a leading qualifier like "under" or "within"
		if i > 0 && !st.consumed[i-1] && isBoundQualifier(st.tokens[i-1]) {
			st.consumed[i-1] = true
		}
	}

	// qualitative terms via the lexicon
	for n := 2; n >= 1; n-- {
		e.scanNGrams(st, n, func(phrase string) (domain.FacetCategory, string, bool) {
			m, ok := e.lex.Resolve(phrase)
			if !ok || m.Category != domain.FacetTime {
				return 0, "", false
			}
			return domain.FacetTime, m.Canonical, true
		})
	}
	for _, term := range st.facets[domain.FacetTime] {
		switch term {
		case "quick":
			st.addTimeMax(e.cfg.QuickMinutes, "")
		case "slow":
			st.addTimeMin(e.cfg.SlowMinutes)
		}
	}
}

// semanticStep resolves paraphrases for categories that had no exact hit,
// accepting only the single best canonical value above the threshold.
func (e *Extractor) semanticStep(st *extraction) {
	if e.refVectors == nil || st.queryVec == nil || embedding.IsZero(st.queryVec) {
		return
	}
	for _, cat := range domain.SemanticCategories {
		if len(st.facets[cat]) > 0 {
			continue
		}
		best := ""
		bestSim := e.cfg.SimilarityThreshold
		for _, ref := range e.refVectors[cat] {
			if sim := embedding.Cosine(st.queryVec, ref.vec); sim > bestSim {
				best, bestSim = ref.canonical, sim
			}
		}
		if best != "" {
			st.add(cat, best)
			e.log.Debug().Str("category", cat.String()).Str("value", best).
				Float64("similarity", bestSim).Msg("semantic fallback hit")
		}
	}
}

// ingredientStep tests remaining unconsumed n-grams against the known
// ingredient vocabulary. Exact matches only; no semantic inference.
func (e *Extractor) ingredientStep(st *extraction) {
	for n := 3; n >= 1; n-- {
		e.scanNGrams(st, n, func(phrase string) (domain.FacetCategory, string, bool) {
			if !e.vocab.KnowsIngredient(phrase) {
				return 0, "", false
			}
			return domain.FacetIngredient, phrase, true
		})
	}
}

// scanNGrams walks every unconsumed n-gram and consumes those the resolver
// accepts.
func (e *Extractor) scanNGrams(st *extraction, n int, resolve func(string) (domain.FacetCategory, string, bool)) {
	for i := 0; i+n <= len(st.tokens); i++ {
		free := true
		for j := i; j < i+n; j++ {
			if st.consumed[j] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		cat, canonical, ok := resolve(strings.Join(st.tokens[i:i+n], " "))
		if !ok {
			continue
		}
		st.add(cat, canonical)
		for j := i; j < i+n; j++ {
			st.consumed[j] = true
		}
	}
}

func (st *extraction) add(cat domain.FacetCategory, value string) {
	for _, v := range st.facets[cat] {
		if v == value {
			return
		}
	}
	st.facets[cat] = append(st.facets[cat], value)
}

func (st *extraction) addTimeMax(minutes int, label string) {
	if minutes <= 0 {
		return
	}
	if st.time == nil {
		st.time = &domain.TimeBound{}
	}
	if st.time.MaxMinutes == 0 || minutes < st.time.MaxMinutes {
		st.time.MaxMinutes = minutes
	}
	if label != "" {
		st.add(domain.FacetTime, label)
	}
}

func (st *extraction) addTimeMin(minutes int) {
	if minutes <= 0 {
		return
	}
	if st.time == nil {
		st.time = &domain.TimeBound{}
	}
	if minutes > st.time.MinMinutes {
		st.time.MinMinutes = minutes
	}
}

func unitMinutes(unit string, val int) (int, bool) {
	switch unit {
	case "minute", "minutes", "min", "mins":
		return val, true
	case "hour", "hours", "hr", "hrs":
		return val * 60, true
	default:
		return 0, false
	}
}

func isBoundQualifier(tok string) bool {
	switch tok {
	case "under", "within", "below", "less", "max", "maximum":
		return true
	default:
		return false
	}
}

// Package lexicon holds the closed mapping from canonical facet values to
// their recognized surface forms, plus the filler phrases stripped before
// matching. The tables are assembled once at startup into an immutable
// Lexicon that is passed explicitly to the normalizer and extractor.
package lexicon

import (
	"fmt"
	"sort"
	"strings"

	"recipechat/internal/domain"
)

// Match is a resolved surface form.
type Match struct {
	Category  domain.FacetCategory
	Canonical string
}

// Overrides extends the built-in tables from configuration. Synonym lists
// are merged per canonical value; filler phrases are appended.
type Overrides struct {
	FillerPhrases []string            `yaml:"filler_phrases"`
	Cuisine       map[string][]string `yaml:"cuisine"`
	Diet          map[string][]string `yaml:"diet"`
	MealType      map[string][]string `yaml:"meal_type"`
}

// Lexicon is the immutable facet vocabulary.
type Lexicon struct {
	fillers  []string // longest first
	synonyms map[domain.FacetCategory]map[string][]string
	lookup   map[string]Match // surface form -> unique match
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	lex, err := New(nil)
	if err != nil {
		// The built-in tables are checked by tests; a conflict here is a
		// programming error.
		panic(err)
	}
	return lex
}

// New builds a lexicon from the built-in tables merged with the given
// overrides. It fails if any surface form would resolve to more than one
// category: a facet value must belong to exactly one.
func New(ov *Overrides) (*Lexicon, error) {
	syn := map[domain.FacetCategory]map[string][]string{
		domain.FacetCuisine:  copyTable(cuisineSynonyms),
		domain.FacetDiet:     copyTable(dietSynonyms),
		domain.FacetMealType: copyTable(mealTypeSynonyms),
		domain.FacetTime:     copyTable(timeSynonyms),
	}
	fillers := append([]string(nil), fillerPhrases...)

	if ov != nil {
		fillers = append(fillers, ov.FillerPhrases...)
		mergeTable(syn[domain.FacetCuisine], ov.Cuisine)
		mergeTable(syn[domain.FacetDiet], ov.Diet)
		mergeTable(syn[domain.FacetMealType], ov.MealType)
	}

	lookup := make(map[string]Match)
	for _, cat := range []domain.FacetCategory{
		domain.FacetCuisine, domain.FacetDiet, domain.FacetMealType, domain.FacetTime,
	} {
		for canonical, forms := range syn[cat] {
			for _, form := range append([]string{canonical}, forms...) {
				form = strings.ToLower(strings.TrimSpace(form))
				if form == "" {
					continue
				}
				if prev, ok := lookup[form]; ok {
					if prev.Category != cat || prev.Canonical != canonical {
						return nil, fmt.Errorf("lexicon: %q maps to both %s/%s and %s/%s",
							form, prev.Category, prev.Canonical, cat, canonical)
					}
					continue
				}
				lookup[form] = Match{Category: cat, Canonical: canonical}
			}
		}
	}

	// Longest first so multiword fillers are removed before their
	// substrings ("i would like" before "i want").
	sort.SliceStable(fillers, func(i, j int) bool {
		return len(fillers[i]) > len(fillers[j])
	})

	return &Lexicon{fillers: fillers, synonyms: syn, lookup: lookup}, nil
}

// Resolve maps a lowercase surface form (one to three words) onto its
// canonical facet value.
func (l *Lexicon) Resolve(phrase string) (Match, bool) {
	m, ok := l.lookup[phrase]
	return m, ok
}

// FillerPhrases returns the filler phrases, longest first.
func (l *Lexicon) FillerPhrases() []string { return l.fillers }

// Canonicals returns the sorted canonical values of a category.
func (l *Lexicon) Canonicals(cat domain.FacetCategory) []string {
	table := l.synonyms[cat]
	out := make([]string, 0, len(table))
	for canonical := range table {
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}

// ReferencePhrase returns the text embedded as the semantic anchor for a
// canonical value: the value itself plus its synonyms, the way the source
// model encoded label phrases.
func (l *Lexicon) ReferencePhrase(cat domain.FacetCategory, canonical string) string {
	forms := l.synonyms[cat][canonical]
	if len(forms) == 0 {
		return canonical
	}
	return canonical + " " + strings.Join(forms, " ")
}

func copyTable(src map[string][]string) map[string][]string {
	dst := make(map[string][]string, len(src))
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
	return dst
}

func mergeTable(dst map[string][]string, extra map[string][]string) {
	for canonical, forms := range extra {
		canonical = strings.ToLower(strings.TrimSpace(canonical))
		if canonical == "" {
			continue
		}
		dst[canonical] = append(dst[canonical], forms...)
	}
}

// fillerPhrases are conversational boilerplate removed before matching.
var fillerPhrases = []string{
	"give me", "show me", "can i have", "i want", "i'd like", "please",
	"could you", "would you", "may i have", "let me have", "find me",
	"get me", "i need", "i would like", "i'm looking for", "do you have",
	"i'd love", "i'd want", "i wish for", "i wish to have",
	"i wish to get", "i wish to see", "recipe", "recipes",
}

var cuisineSynonyms = map[string][]string{
	"asian":          {"oriental", "east asian"},
	"italian":        {"italy"},
	"mexican":        {"mexico", "tex-mex", "tex mex"},
	"indian":         {"india", "curry house"},
	"chinese":        {"china"},
	"japanese":       {"japan"},
	"thai":           {"thailand"},
	"korean":         {"korea"},
	"french":         {"france"},
	"greek":          {"greece"},
	"spanish":        {"spain"},
	"american":       {"usa", "united states"},
	"mediterranean":  {},
	"middle-eastern": {"middle eastern", "lebanese", "turkish"},
	"african":        {"moroccan", "ethiopian"},
	"cajun":          {"creole"},
	"german":         {},
	"irish":          {},
	"vietnamese":     {},
	"caribbean":      {"jamaican"},
}

var dietSynonyms = map[string][]string{
	"vegetarian":  {"veggie", "meatless", "no meat", "meat free"},
	"vegan":       {"plant-based", "plant based", "dairy and egg free"},
	"gluten-free": {"gluten free", "no gluten", "without gluten"},
	"dairy-free":  {"dairy free", "no dairy", "lactose free", "lactose-free"},
	"low-fat":     {"low fat", "lowfat"},
	"low-carb":    {"low carb", "keto", "very-low-carbs"},
	"low-sodium":  {"low sodium", "low salt"},
	"low-calorie": {"low calorie", "light", "diet"},
	"healthy":     {"nutritious", "wholesome"},
	"diabetic":    {"diabetic friendly", "diabetic-friendly"},
	"egg-free":    {"egg free", "no eggs"},
}

var mealTypeSynonyms = map[string][]string{
	"breakfast": {"brunch", "morning meal"},
	"lunch":     {"midday meal"},
	"dinner":    {"supper", "evening meal"},
	"dessert":   {"desserts", "sweet treat", "pudding"},
	"appetizer": {"appetizers", "starter", "starters", "hors d'oeuvre"},
	"main-dish": {"main dish", "main course", "entree", "mains"},
	"side-dish": {"side dish", "side dishes", "sides"},
	"snack":     {"snacks", "nibbles"},
	"salad":     {"salads"},
	"soup":      {"soups", "stew", "stews"},
	"sandwich":  {"sandwiches", "burger", "burgers"},
	"beverage":  {"drink", "drinks", "smoothie", "smoothies"},
	"pasta":     {"spaghetti", "lasagna", "noodles"},
	"pizza":     {},
	"casserole": {"casseroles"},
}

// timeSynonyms resolve to the qualitative classes; the extractor turns them
// into configured minute bounds.
var timeSynonyms = map[string][]string{
	"quick": {"fast", "easy", "rushed", "speedy", "hurry", "express"},
	"slow":  {"leisurely", "all day", "slow-cooked", "slow cooked", "weekend project"},
}

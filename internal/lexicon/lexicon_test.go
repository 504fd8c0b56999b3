package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipechat/internal/domain"
)

func TestDefaultTablesHaveNoCategoryConflicts(t *testing.T) {
	// New fails if any surface form resolves to two categories, so the
	// built-in tables are validated by constructing them.
	_, err := New(nil)
	require.NoError(t, err)
}

func TestResolveSynonyms(t *testing.T) {
	lex := Default()

	tests := []struct {
		form      string
		category  domain.FacetCategory
		canonical string
	}{
		{"asian", domain.FacetCuisine, "asian"},
		{"oriental", domain.FacetCuisine, "asian"},
		{"veggie", domain.FacetDiet, "vegetarian"},
		{"no meat", domain.FacetDiet, "vegetarian"},
		{"plant based", domain.FacetDiet, "vegan"},
		{"desserts", domain.FacetMealType, "dessert"},
		{"supper", domain.FacetMealType, "dinner"},
		{"fast", domain.FacetTime, "quick"},
		{"leisurely", domain.FacetTime, "slow"},
	}
	for _, tc := range tests {
		m, ok := lex.Resolve(tc.form)
		require.True(t, ok, "expected %q to resolve", tc.form)
		assert.Equal(t, tc.category, m.Category, tc.form)
		assert.Equal(t, tc.canonical, m.Canonical, tc.form)
	}

	_, ok := lex.Resolve("flibbertigibbet")
	assert.False(t, ok)
}

func TestFillerPhrasesLongestFirst(t *testing.T) {
	fillers := Default().FillerPhrases()
	require.NotEmpty(t, fillers)
	for i := 1; i < len(fillers); i++ {
		assert.GreaterOrEqual(t, len(fillers[i-1]), len(fillers[i]),
			"filler %q should not come after shorter %q", fillers[i], fillers[i-1])
	}
}

func TestOverridesMerge(t *testing.T) {
	lex, err := New(&Overrides{
		FillerPhrases: []string{"whip up"},
		Cuisine:       map[string][]string{"peruvian": {"peru"}},
		Diet:          map[string][]string{"vegan": {"herbivore"}},
	})
	require.NoError(t, err)

	m, ok := lex.Resolve("peru")
	require.True(t, ok)
	assert.Equal(t, "peruvian", m.Canonical)

	m, ok = lex.Resolve("herbivore")
	require.True(t, ok)
	assert.Equal(t, "vegan", m.Canonical)

	assert.Contains(t, lex.FillerPhrases(), "whip up")
}

func TestConflictingOverrideRejected(t *testing.T) {
	// "vegan" already belongs to the diet category.
	_, err := New(&Overrides{
		Cuisine: map[string][]string{"fusion": {"vegan"}},
	})
	require.Error(t, err)
}

func TestReferencePhraseIncludesSynonyms(t *testing.T) {
	lex := Default()
	phrase := lex.ReferencePhrase(domain.FacetDiet, "vegetarian")
	assert.Contains(t, phrase, "vegetarian")
	assert.Contains(t, phrase, "meatless")
}

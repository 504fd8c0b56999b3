package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipechat/internal/domain"
	"recipechat/internal/embedding/tfidf"
)

func sampleRecipes() []domain.Recipe {
	return []domain.Recipe{
		{ID: 1, Title: "Thai Chicken Curry", Description: "fragrant thai curry with chicken and coconut",
			Tags: []string{"Asian", "thai", "ASIAN", "main-dish"}, Ingredients: []string{"Chicken Breast", "coconut milk"}, Minutes: 40},
		{ID: 2, Title: "Vegan Chocolate Cake", Description: "rich chocolate dessert without dairy",
			Tags: []string{"vegan", "desserts"}, Ingredients: []string{"flour", "cocoa"}, Minutes: 60},
		{ID: 3, Title: "Quick Tomato Pasta", Description: "simple pasta with tomato sauce",
			Tags: []string{"italian", "pasta", "main-dish"}, Ingredients: []string{"pasta", "tomatoes"}, Minutes: 20},
	}
}

func TestBuildNormalizesAndDeduplicates(t *testing.T) {
	idx, err := Build(sampleRecipes(), nil, nil)
	require.NoError(t, err)

	r := idx.Recipe(0)
	assert.Equal(t, []string{"asian", "thai", "main-dish"}, r.Tags)
	assert.Equal(t, []string{"chicken breast", "coconut milk"}, r.Ingredients)
}

func TestTagLookups(t *testing.T) {
	idx, err := Build(sampleRecipes(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, idx.CandidatesByTag([]string{"asian"}))
	assert.True(t, idx.HasTag(0, []string{"asian"}))
	assert.False(t, idx.HasTag(1, []string{"asian"}))

	// plural dataset tag matched by singular canonical value
	assert.True(t, idx.HasTag(1, []string{"dessert"}))
	assert.Equal(t, []int{1}, idx.CandidatesByTag([]string{"dessert"}))
}

func TestIngredientLookupsIncludeComponentWords(t *testing.T) {
	idx, err := Build(sampleRecipes(), nil, nil)
	require.NoError(t, err)

	assert.True(t, idx.KnowsIngredient("chicken breast"))
	assert.True(t, idx.KnowsIngredient("chicken"))
	assert.False(t, idx.KnowsIngredient("beef"))

	assert.True(t, idx.HasIngredient(0, []string{"chicken"}))
	assert.False(t, idx.HasIngredient(2, []string{"chicken"}))
	assert.Equal(t, []int{0}, idx.CandidatesByIngredient([]string{"chicken"}))
}

func TestSimilarTop(t *testing.T) {
	recipes := sampleRecipes()
	emb := tfidf.NewEmbedder()
	corpus := make([]string, 0, len(recipes))
	for _, r := range recipes {
		corpus = append(corpus, r.Title+" "+r.Description)
	}
	require.NoError(t, emb.Prepare(corpus))

	idx, err := Build(recipes, emb, nil)
	require.NoError(t, err)

	queryVec, err := emb.Embed("chocolate dessert")
	require.NoError(t, err)

	top := idx.SimilarTop(queryVec, 2)
	require.Len(t, top, 2)
	assert.Equal(t, 2, top[0].Recipe.ID)
	assert.Greater(t, top[0].Similarity, top[1].Similarity)
}

func TestSimilarTopWithoutVectors(t *testing.T) {
	idx, err := Build(sampleRecipes(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, idx.SimilarTop([]float64{1, 0}, 3))
}

func TestPopularOrderIsStable(t *testing.T) {
	idx, err := Build(sampleRecipes(), nil, nil)
	require.NoError(t, err)

	first := idx.PopularOrder()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, idx.PopularOrder())
	}
	// main-dish appears twice, so recipes 0 and 2 outrank the dessert
	assert.Equal(t, 1, first[len(first)-1])
}

func TestBuildProgressCallback(t *testing.T) {
	recipes := sampleRecipes()
	emb := tfidf.NewEmbedder()
	require.NoError(t, emb.Prepare([]string{"thai curry", "chocolate dessert", "tomato pasta"}))

	var calls int
	_, err := Build(recipes, emb, func(done, total int) {
		calls++
		assert.Equal(t, len(recipes), total)
	})
	require.NoError(t, err)
	assert.Equal(t, len(recipes), calls)
}

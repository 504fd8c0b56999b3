package service

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipechat/internal/domain"
	"recipechat/internal/embedding/tfidf"
	"recipechat/internal/index"
	"recipechat/internal/intent"
	"recipechat/internal/lexicon"
	"recipechat/internal/rank"
	"recipechat/internal/textnorm"
)

func newRecommender(t *testing.T, withEmbedder bool) *Recommender {
	t.Helper()

	recipes := []domain.Recipe{
		{ID: 1, Title: "thai chicken stir fry", Description: "quick asian stir fry with tender chicken",
			Tags: []string{"asian", "thai"}, Ingredients: []string{"chicken breast", "soy sauce", "garlic"}, Minutes: 25},
		{ID: 2, Title: "beef lasagna", Description: "rich italian pasta bake",
			Tags: []string{"italian", "pasta"}, Ingredients: []string{"ground beef", "lasagna noodles", "cheese"}, Minutes: 90},
		{ID: 3, Title: "vegan chocolate mousse", Description: "airy chocolate dessert without dairy",
			Tags: []string{"vegan", "desserts"}, Ingredients: []string{"dark chocolate", "coconut cream"}, Minutes: 20},
		{ID: 4, Title: "vegan fruit tart", Description: "fruit dessert with a nut crust",
			Tags: []string{"vegan", "desserts"}, Ingredients: []string{"mixed fruit", "almonds", "dates"}, Minutes: 45},
	}

	lex, err := lexicon.New(nil)
	require.NoError(t, err)
	norm := textnorm.New(lex)

	var emb domain.Embedder
	if withEmbedder {
		e := tfidf.NewEmbedder()
		corpus := make([]string, 0, len(recipes))
		for _, r := range recipes {
			corpus = append(corpus, r.Title+" "+r.Description)
		}
		for _, cat := range domain.SemanticCategories {
			for _, c := range lex.Canonicals(cat) {
				corpus = append(corpus, lex.ReferencePhrase(cat, c))
			}
		}
		require.NoError(t, e.Prepare(corpus))
		emb = e
	}

	idx, err := index.Build(recipes, emb, nil)
	require.NoError(t, err)

	log := zerolog.Nop()
	ext := intent.New(lex, idx, emb, intent.Config{
		SimilarityThreshold: 0.55,
		QuickMinutes:        30,
		SlowMinutes:         60,
	}, log)
	eng := rank.New(idx)
	return New(norm, ext, eng, emb, 3, log)
}

func TestSmallTalk(t *testing.T) {
	rec := newRecommender(t, false)

	tests := []struct {
		name  string
		input string
		kind  ReplyKind
		want  string
	}{
		{"greeting", "hello there", KindMessage, "Hello!"},
		{"greeting casual", "hey", KindMessage, "Hello!"},
		{"goodbye", "bye", KindGoodbye, "Goodbye"},
		{"help", "help", KindMessage, "cuisine"},
		{"chitchat name", "what is your name", KindMessage, "recipe assistant"},
		{"chitchat mood", "how are you", KindMessage, "ready to cook"},
		{"thanks", "thank you so much", KindMessage, "You're welcome"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rec.Respond(tt.input)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Contains(t, got.Text, tt.want)
			assert.Empty(t, got.Matches)
		})
	}
}

func TestRecipeQueries(t *testing.T) {
	rec := newRecommender(t, false)

	tests := []struct {
		name       string
		input      string
		wantTitles []string
	}{
		{"cuisine and ingredient", "show me asian chicken recipes", []string{"Thai Chicken Stir Fry"}},
		{"quick vegan dessert excludes slow tart", "I want a quick vegan dessert", []string{"Vegan Chocolate Mousse"}},
		{"numeric time bound", "vegan desserts under 30 minutes", []string{"Vegan Chocolate Mousse"}},
		{"meal type synonym", "something with noodles", []string{"Beef Lasagna"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rec.Respond(tt.input)
			require.Equal(t, KindRecipes, got.Kind, "reply: %s", got.Text)
			require.Len(t, got.Matches, len(tt.wantTitles))
			for i, want := range tt.wantTitles {
				assert.Contains(t, got.Text, want)
				assert.Equal(t, strings.ToLower(want), got.Matches[i].Recipe.Title)
			}
		})
	}
}

func TestNoMatchReply(t *testing.T) {
	rec := newRecommender(t, false)

	got := rec.Respond("mexican recipes with octopus")
	if got.Kind == KindRecipes {
		t.Fatalf("expected no recipes, got: %s", got.Text)
	}
	// "mexican" is a known cuisine but no recipe carries it
	got = rec.Respond("mexican chicken")
	assert.Equal(t, KindNoMatch, got.Kind)
	assert.Contains(t, got.Text, "couldn't find any recipes")
	assert.Empty(t, got.Matches)
}

func TestUnconstrainedQueryStillAnswers(t *testing.T) {
	rec := newRecommender(t, true)

	got := rec.Respond("surprise me with something delicious")
	assert.Equal(t, KindRecipes, got.Kind)
	assert.NotEmpty(t, got.Matches)
	assert.LessOrEqual(t, len(got.Matches), 3)
}

func TestSemanticFallbackResolvesParaphrase(t *testing.T) {
	rec := newRecommender(t, true)

	// "meatless" is a diet synonym; stays exact. "plant-based sweets" has
	// no exact canonical hit and must go through the vector fallback or
	// the synonym table depending on phrasing.
	got := rec.Respond("meatless dessert ideas")
	require.NotEqual(t, KindMessage, got.Kind)
	if got.Kind == KindRecipes {
		for _, m := range got.Matches {
			assert.Contains(t, m.Recipe.Tags, "vegan")
		}
	}
}

func TestRespondDeterministic(t *testing.T) {
	rec := newRecommender(t, true)

	first := rec.Respond("quick asian chicken")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, rec.Respond("quick asian chicken"))
	}
}

func TestFormatMatch(t *testing.T) {
	m := domain.ScoredMatch{Recipe: &domain.Recipe{
		ID:          7,
		Title:       "slow braised short ribs",
		Description: "fall apart beef ribs",
		Tags:        []string{"beef", "main-dish", "winter", "comfort", "extra"},
		Ingredients: []string{"short ribs", "red wine", "carrots", "onion", "stock", "thyme", "bay leaf"},
		Minutes:     150,
	}}

	out := FormatMatch(m, 1)
	assert.Contains(t, out, "1. Slow Braised Short Ribs")
	assert.Contains(t, out, "Cooking Time: 2h 30m")
	assert.Contains(t, out, "beef • main-dish • winter • comfort")
	assert.NotContains(t, out, "extra")
	assert.Contains(t, out, "(and 2 more)")
	assert.Contains(t, out, "Description: fall apart beef ribs")
}

func TestFormatMatchSparseRecipe(t *testing.T) {
	m := domain.ScoredMatch{Recipe: &domain.Recipe{
		ID:      8,
		Title:   "toast",
		Minutes: 5,
	}}

	out := FormatMatch(m, 2)
	assert.Contains(t, out, "2. Toast")
	assert.Contains(t, out, "Cooking Time: 5 minutes")
	assert.Contains(t, out, "No tags available")
	assert.Contains(t, out, "No description available")
}

// Package service orchestrates one conversation turn: small-talk
// detection, normalization, intent extraction, ranking, and reply
// formatting. Each turn is processed to completion before the next; all
// shared state is immutable, so the service is safe to share.
package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"recipechat/internal/domain"
	"recipechat/internal/intent"
	"recipechat/internal/rank"
	"recipechat/internal/textnorm"
)

// ReplyKind classifies what a turn produced.
type ReplyKind int

const (
	// KindMessage is a conversational reply with no recipes.
	KindMessage ReplyKind = iota
	// KindRecipes carries ranked recipe matches.
	KindRecipes
	// KindNoMatch signals that no recipe passed the hard filter.
	KindNoMatch
	// KindGoodbye tells the caller the user is leaving.
	KindGoodbye
)

// Reply is the outcome of one turn.
type Reply struct {
	Kind    ReplyKind
	Text    string
	Intent  domain.QueryIntent
	Matches []domain.ScoredMatch
}

type smalltalkRule struct {
	re   *regexp.Regexp
	kind ReplyKind
	text string
}

// Recommender answers recipe queries.
type Recommender struct {
	norm     *textnorm.Normalizer
	ext      *intent.Extractor
	eng      *rank.Engine
	emb      domain.Embedder // nil disables semantic matching
	topN     int
	log      zerolog.Logger
	special  []smalltalkRule // checked before extraction
	chitchat []smalltalkRule // checked only for unconstrained turns
}

// New assembles a recommender. emb may be nil.
func New(norm *textnorm.Normalizer, ext *intent.Extractor, eng *rank.Engine, emb domain.Embedder, topN int, log zerolog.Logger) *Recommender {
	if topN <= 0 {
		topN = 3
	}
	return &Recommender{
		norm: norm,
		ext:  ext,
		eng:  eng,
		emb:  emb,
		topN: topN,
		log:  log,
		special: []smalltalkRule{
			{regexp.MustCompile(`(?i)^\s*(hi|hello|hey|greetings)\b`), KindMessage,
				"Hello! How can I help you find recipes today?"},
			{regexp.MustCompile(`(?i)^\s*(bye|goodbye|see you)\b`), KindGoodbye,
				"Goodbye! Happy cooking!"},
			{regexp.MustCompile(`(?i)^\s*(help|what can you do|commands|options)\s*$`), KindMessage,
				"Ask me for recipes by cuisine, diet, meal type, time, or ingredient. Try 'Italian chicken' or 'quick vegan dessert'."},
		},
		chitchat: []smalltalkRule{
			{regexp.MustCompile(`(?i)\byour name\b`), KindMessage,
				"I'm your recipe assistant!"},
			{regexp.MustCompile(`(?i)\bhow are you\b`), KindMessage,
				"I'm just code, but I'm ready to cook up some recipes!"},
			{regexp.MustCompile(`(?i)\bthank`), KindMessage,
				"You're welcome! Want another recipe?"},
		},
	}
}

// Respond processes one user utterance. It never returns an error: every
// failure mode degrades to a narrower but still useful reply.
func (s *Recommender) Respond(raw string) Reply {
	s.log.Info().Int("length", len(raw)).Msg("processing user input")

	trimmed := strings.TrimSpace(raw)
	for _, rule := range s.special {
		if rule.re.MatchString(trimmed) {
			s.log.Info().Str("reply", "smalltalk").Msg("returning special response")
			return Reply{Kind: rule.kind, Text: rule.text}
		}
	}

	tokens := s.norm.Normalize(raw)
	queryVec := s.embedQuery(strings.Join(tokens, " "))
	qi := s.ext.Extract(tokens, queryVec)

	if !qi.Constrained() {
		for _, rule := range s.chitchat {
			if rule.re.MatchString(trimmed) {
				return Reply{Kind: rule.kind, Text: rule.text}
			}
		}
	}

	matches := s.eng.Rank(qi, queryVec, s.topN)
	if len(matches) == 0 {
		s.log.Info().Msg("no recipes matched the criteria")
		return Reply{
			Kind:   KindNoMatch,
			Text:   "Sorry, I couldn't find any recipes matching your request.",
			Intent: qi,
		}
	}

	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatMatch(m, i+1))
	}
	s.log.Info().Int("count", len(matches)).Msg("returning recipe recommendations")
	return Reply{Kind: KindRecipes, Text: b.String(), Intent: qi, Matches: matches}
}

// embedQuery returns the query vector, or nil when the embedder is absent
// or failing; extraction and ranking then degrade to exact matching.
func (s *Recommender) embedQuery(normalized string) []float64 {
	if s.emb == nil || normalized == "" {
		return nil
	}
	vec, err := s.emb.Embed(normalized)
	if err != nil {
		s.log.Warn().Err(err).Msg("query embedding failed, degrading to exact matching")
		return nil
	}
	return vec
}

// FormatMatch renders one ranked recipe in the reply layout.
func FormatMatch(m domain.ScoredMatch, index int) string {
	r := m.Recipe

	tags := r.Tags
	if len(tags) > 4 {
		tags = tags[:4]
	}
	tagLine := "No tags available"
	if len(tags) > 0 {
		tagLine = strings.Join(tags, " • ")
	}

	ings := r.Ingredients
	extra := ""
	if len(ings) > 5 {
		extra = fmt.Sprintf(" (and %d more)", len(ings)-5)
		ings = ings[:5]
	}

	desc := r.Description
	if desc == "" {
		desc = "No description available"
	}

	return fmt.Sprintf("%d. %s\nCooking Time: %s\nTags: %s\nMain Ingredients: %s%s\nDescription: %s\n",
		index, titleCase(r.Title), formatMinutes(r.Minutes), tagLine,
		strings.Join(ings, ", "), extra, desc)
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%d minutes", m)
	}
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

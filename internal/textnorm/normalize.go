// Package textnorm turns raw user input into a clean token sequence:
// lowercase, filler phrases and stopwords removed, punctuation stripped.
package textnorm

import (
	"regexp"
	"strings"

	"recipechat/internal/lexicon"
)

// Normalizer is a pure text cleaner. Construct once and share; it holds
// only compiled patterns and is safe for concurrent use.
type Normalizer struct {
	fillers   []*regexp.Regexp // longest phrase first
	tokenRe   *regexp.Regexp
	stopwords map[string]struct{}
}

// New compiles a normalizer over the lexicon's filler phrases.
func New(lex *lexicon.Lexicon) *Normalizer {
	phrases := lex.FillerPhrases()
	fillers := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		fillers = append(fillers, regexp.MustCompile(`\b`+regexp.QuoteMeta(p)+`\b`))
	}
	return &Normalizer{
		fillers:   fillers,
		tokenRe:   regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*`),
		stopwords: defaultStopwords(),
	}
}

// Normalize lowercases, strips filler phrases and stopwords, and tokenizes.
// Empty input yields an empty token sequence; there is no failure mode.
func (n *Normalizer) Normalize(raw string) []string {
	cleaned := strings.ToLower(raw)
	for _, re := range n.fillers {
		cleaned = re.ReplaceAllString(cleaned, " ")
	}
	tokens := n.tokenRe.FindAllString(cleaned, -1)
	out := tokens[:0]
	for _, t := range tokens {
		if _, isStop := n.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// NormalizeText returns the cleaned query as a single string, the form fed
// to the embedder.
func (n *Normalizer) NormalizeText(raw string) string {
	return strings.Join(n.Normalize(raw), " ")
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "this", "that", "these",
		"those", "from", "up", "down", "over", "again", "further", "than",
		"so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "out", "off", "own", "same", "too",
		"very", "can", "will", "just", "should", "now", "me", "my", "some",
		"something", "have", "has", "what", "which", "you", "your",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

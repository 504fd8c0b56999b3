package domain

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
// The core depends only on this signature, never on a model runtime;
// a nil Embedder means semantic matching is unavailable and every
// consumer degrades to exact matching.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

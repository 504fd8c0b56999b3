// Package embedding provides the vector operations shared by every
// embedder implementation.
package embedding

import "math"

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// are compared over the shorter prefix; a zero vector yields 0.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// IsZero reports whether the vector has no non-zero component, the signal
// that the text shared no vocabulary with the corpus.
func IsZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

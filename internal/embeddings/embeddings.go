// Package embeddings generates deterministic pseudo-embeddings so test
// suites can assert on shape and reproducibility without a real model.
//
// The algorithm is pinned: SHA-256 of the UTF-8 text, first 8 digest bytes
// (little-endian) seed a math/rand source, and each vector component is an
// independent Float64()*2 - 1 draw. Two processes configured with the same
// dimension always produce byte-identical vectors for the same text.
package embeddings

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// Vector is a fixed-length embedding, one float per dimension.
type Vector []float64

// Embedder defines the embedding interface.
type Embedder interface {
	Embed(text string) Vector
	Dim() int
}

// Deterministic is a seeded pseudo-random embedder. Construct with
// NewDeterministic; the zero value produces empty vectors.
type Deterministic struct {
	dim int
}

// NewDeterministic creates an embedder producing vectors of the given
// dimension. A dimension of 0 yields empty vectors.
func NewDeterministic(dim int) *Deterministic {
	if dim < 0 {
		dim = 0
	}
	return &Deterministic{dim: dim}
}

// Embed maps text to a reproducible vector with components in [-1.0, 1.0].
func (d *Deterministic) Embed(text string) Vector {
	digest := sha256.Sum256([]byte(text))
	seed := int64(binary.LittleEndian.Uint64(digest[:8]))
	rng := rand.New(rand.NewSource(seed))

	vec := make(Vector, d.dim)
	for i := range vec {
		vec[i] = rng.Float64()*2 - 1
	}
	return vec
}

// Dim reports the configured vector dimension.
func (d *Deterministic) Dim() int {
	return d.dim
}

var _ Embedder = (*Deterministic)(nil)

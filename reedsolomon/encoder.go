package reedsolomon

import (
	"fmt"
	"sync"

	"github.com/ericlevine/billprint"
)

// Encoder computes Reed-Solomon error correction codewords. It caches
// generator polynomials and is safe for concurrent use.
type Encoder struct {
	field *Field

	mu               sync.Mutex
	cachedGenerators []*Poly
}

// NewEncoder creates a new Encoder for the given field.
func NewEncoder(field *Field) *Encoder {
	return &Encoder{
		field:            field,
		cachedGenerators: []*Poly{NewPoly(field, []byte{1})},
	}
}

// GeneratorPolynomial returns the product (x - a^0)(x - a^1)...(x - a^(ecCount-1)).
func (e *Encoder) GeneratorPolynomial(ecCount int) (*Poly, error) {
	if ecCount <= 0 {
		return nil, fmt.Errorf("reedsolomon: %d error correction codewords: %w", ecCount, billprint.ErrInvalidParameter)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for d := len(e.cachedGenerators); d <= ecCount; d++ {
		last := e.cachedGenerators[d-1]
		next := last.MultiplyPoly(NewPoly(e.field, []byte{1, e.field.Exp(d - 1)}))
		e.cachedGenerators = append(e.cachedGenerators, next)
	}
	return e.cachedGenerators[ecCount], nil
}

// EncodeBlock returns the ecCount error correction codewords for data.
func (e *Encoder) EncodeBlock(data []byte, ecCount int) ([]byte, error) {
	generator, err := e.GeneratorPolynomial(ecCount)
	if err != nil {
		return nil, err
	}
	padded := make([]byte, len(data)+ecCount)
	copy(padded, data)
	remainder, err := NewPoly(e.field, padded).Mod(generator)
	if err != nil {
		return nil, err
	}
	coefficients := remainder.coefficients
	ec := make([]byte, ecCount)
	copy(ec[ecCount-len(coefficients):], coefficients)
	return ec, nil
}

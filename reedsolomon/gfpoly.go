package reedsolomon

import (
	"fmt"

	"github.com/ericlevine/billprint"
)

// Poly represents a polynomial whose coefficients are elements of a Field,
// ordered from highest-degree to lowest-degree. Instances are immutable.
type Poly struct {
	field        *Field
	coefficients []byte
}

// NewPoly creates a polynomial from coefficients, most-significant first.
// Leading zero coefficients are stripped; an all-zero or empty slice yields
// the zero polynomial.
func NewPoly(field *Field, coefficients []byte) *Poly {
	firstNonZero := 0
	for firstNonZero < len(coefficients) && coefficients[firstNonZero] == 0 {
		firstNonZero++
	}
	if firstNonZero == len(coefficients) {
		return &Poly{field: field, coefficients: []byte{0}}
	}
	c := make([]byte, len(coefficients)-firstNonZero)
	copy(c, coefficients[firstNonZero:])
	return &Poly{field: field, coefficients: c}
}

func monomial(field *Field, degree int, coefficient byte) *Poly {
	if coefficient == 0 {
		return NewPoly(field, nil)
	}
	c := make([]byte, degree+1)
	c[0] = coefficient
	return &Poly{field: field, coefficients: c}
}

// Coefficients returns a copy of the polynomial coefficients.
func (p *Poly) Coefficients() []byte {
	c := make([]byte, len(p.coefficients))
	copy(c, p.coefficients)
	return c
}

// Len returns the number of coefficients.
func (p *Poly) Len() int {
	return len(p.coefficients)
}

// Degree returns the degree of this polynomial.
func (p *Poly) Degree() int {
	return len(p.coefficients) - 1
}

// IsZero returns true if this is the zero polynomial.
func (p *Poly) IsZero() bool {
	return p.coefficients[0] == 0
}

// Coefficient returns the coefficient of x^degree.
func (p *Poly) Coefficient(degree int) byte {
	return p.coefficients[len(p.coefficients)-1-degree]
}

// EvaluateAt evaluates this polynomial at a.
func (p *Poly) EvaluateAt(a byte) byte {
	if a == 0 {
		return p.Coefficient(0)
	}
	result := p.coefficients[0]
	for _, c := range p.coefficients[1:] {
		result = AddOrSubtract(p.field.Multiply(a, result), c)
	}
	return result
}

// AddOrSubtractPoly adds (or subtracts) another polynomial.
func (p *Poly) AddOrSubtractPoly(other *Poly) *Poly {
	if p.IsZero() {
		return other
	}
	if other.IsZero() {
		return p
	}
	smaller, larger := p.coefficients, other.coefficients
	if len(smaller) > len(larger) {
		smaller, larger = larger, smaller
	}
	sum := make([]byte, len(larger))
	lengthDiff := len(larger) - len(smaller)
	copy(sum, larger[:lengthDiff])
	for i := lengthDiff; i < len(larger); i++ {
		sum[i] = AddOrSubtract(smaller[i-lengthDiff], larger[i])
	}
	return NewPoly(p.field, sum)
}

// MultiplyPoly multiplies by another polynomial. The product of two nonzero
// polynomials has len(p)+len(other)-1 coefficients.
func (p *Poly) MultiplyPoly(other *Poly) *Poly {
	if p.IsZero() || other.IsZero() {
		return NewPoly(p.field, nil)
	}
	product := make([]byte, len(p.coefficients)+len(other.coefficients)-1)
	for i, a := range p.coefficients {
		for j, b := range other.coefficients {
			product[i+j] = AddOrSubtract(product[i+j], p.field.Multiply(a, b))
		}
	}
	return NewPoly(p.field, product)
}

// MultiplyScalar multiplies by a scalar.
func (p *Poly) MultiplyScalar(scalar byte) *Poly {
	if scalar == 0 {
		return NewPoly(p.field, nil)
	}
	if scalar == 1 {
		return p
	}
	product := make([]byte, len(p.coefficients))
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, scalar)
	}
	return NewPoly(p.field, product)
}

// MultiplyByMonomial multiplies by coefficient * x^degree.
func (p *Poly) MultiplyByMonomial(degree int, coefficient byte) *Poly {
	if degree < 0 {
		panic("reedsolomon: negative degree")
	}
	if coefficient == 0 {
		return NewPoly(p.field, nil)
	}
	product := make([]byte, len(p.coefficients)+degree)
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, coefficient)
	}
	return NewPoly(p.field, product)
}

// Mod returns the remainder of p divided by divisor. For a divisor of degree
// d >= 1 the remainder has at most d coefficients.
func (p *Poly) Mod(divisor *Poly) (*Poly, error) {
	_, remainder, err := p.Divide(divisor)
	return remainder, err
}

// Divide divides by another polynomial, returning quotient and remainder.
func (p *Poly) Divide(divisor *Poly) (quotient, remainder *Poly, err error) {
	if divisor.IsZero() {
		return nil, nil, fmt.Errorf("reedsolomon: divide by zero polynomial: %w", billprint.ErrInvalidOperand)
	}
	quotient = NewPoly(p.field, nil)
	remainder = p
	leading := divisor.coefficients[0]
	for remainder.Degree() >= divisor.Degree() && !remainder.IsZero() {
		degreeDiff := remainder.Degree() - divisor.Degree()
		scale := p.field.divide(remainder.coefficients[0], leading)
		quotient = quotient.AddOrSubtractPoly(monomial(p.field, degreeDiff, scale))
		remainder = remainder.AddOrSubtractPoly(divisor.MultiplyByMonomial(degreeDiff, scale))
	}
	return quotient, remainder, nil
}

// String returns the coefficients in most-significant-first order.
func (p *Poly) String() string {
	return fmt.Sprint(p.coefficients)
}

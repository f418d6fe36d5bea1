package reedsolomon

import "errors"

// ErrReedSolomon indicates a Reed-Solomon decoding failure.
var ErrReedSolomon = errors.New("reedsolomon: decoding error")

// Decoder performs Reed-Solomon error correction decoding.
type Decoder struct {
	field *Field
}

// NewDecoder creates a new Decoder for the given field.
func NewDecoder(field *Field) *Decoder {
	return &Decoder{field: field}
}

// Decode corrects errors in received in-place and returns the number of
// errors corrected. twoS is the number of error-correction codewords at the
// end of received.
func (d *Decoder) Decode(received []byte, twoS int) (int, error) {
	if twoS <= 0 || twoS >= len(received) {
		return 0, ErrReedSolomon
	}
	poly := NewPoly(d.field, received)
	syndromeCoefficients := make([]byte, twoS)
	noError := true
	for i := 0; i < twoS; i++ {
		eval := poly.EvaluateAt(d.field.Exp(i))
		syndromeCoefficients[twoS-1-i] = eval
		if eval != 0 {
			noError = false
		}
	}
	if noError {
		return 0, nil
	}

	syndrome := NewPoly(d.field, syndromeCoefficients)
	sigma, omega, err := d.runEuclideanAlgorithm(monomial(d.field, twoS, 1), syndrome, twoS)
	if err != nil {
		return 0, err
	}
	errorLocations, err := d.findErrorLocations(sigma)
	if err != nil {
		return 0, err
	}
	errorMagnitudes, err := d.findErrorMagnitudes(omega, errorLocations)
	if err != nil {
		return 0, err
	}
	for i, location := range errorLocations {
		position := len(received) - 1 - int(d.field.logTable[location])
		if position < 0 {
			return 0, ErrReedSolomon
		}
		received[position] = AddOrSubtract(received[position], errorMagnitudes[i])
	}
	return len(errorLocations), nil
}

func (d *Decoder) runEuclideanAlgorithm(a, b *Poly, r int) (sigma, omega *Poly, err error) {
	if a.Degree() < b.Degree() {
		a, b = b, a
	}

	rLast := a
	rCur := b
	tLast := NewPoly(d.field, nil)
	t := NewPoly(d.field, []byte{1})

	for 2*rCur.Degree() >= r {
		rLastLast := rLast
		tLastLast := tLast
		rLast = rCur
		tLast = t

		if rLast.IsZero() {
			return nil, nil, ErrReedSolomon
		}
		q, rem, err := rLastLast.Divide(rLast)
		if err != nil {
			return nil, nil, ErrReedSolomon
		}
		rCur = rem
		t = q.MultiplyPoly(tLast).AddOrSubtractPoly(tLastLast)

		if rCur.Degree() >= rLast.Degree() {
			return nil, nil, ErrReedSolomon
		}
	}

	sigmaTildeAtZero := t.Coefficient(0)
	if sigmaTildeAtZero == 0 {
		return nil, nil, ErrReedSolomon
	}
	inverse, _ := d.field.Inverse(sigmaTildeAtZero)
	return t.MultiplyScalar(inverse), rCur.MultiplyScalar(inverse), nil
}

func (d *Decoder) findErrorLocations(errorLocator *Poly) ([]byte, error) {
	numErrors := errorLocator.Degree()
	if numErrors == 1 {
		return []byte{errorLocator.Coefficient(1)}, nil
	}
	result := make([]byte, 0, numErrors)
	for i := 1; i < 256 && len(result) < numErrors; i++ {
		if errorLocator.EvaluateAt(byte(i)) == 0 {
			inv, _ := d.field.Inverse(byte(i))
			result = append(result, inv)
		}
	}
	if len(result) != numErrors {
		return nil, ErrReedSolomon
	}
	return result, nil
}

func (d *Decoder) findErrorMagnitudes(errorEvaluator *Poly, errorLocations []byte) ([]byte, error) {
	result := make([]byte, len(errorLocations))
	for i, location := range errorLocations {
		xiInverse, err := d.field.Inverse(location)
		if err != nil {
			return nil, ErrReedSolomon
		}
		denominator := byte(1)
		for j, other := range errorLocations {
			if i == j {
				continue
			}
			term := d.field.Multiply(other, xiInverse)
			denominator = d.field.Multiply(denominator, AddOrSubtract(term, 1))
		}
		if denominator == 0 {
			return nil, ErrReedSolomon
		}
		result[i] = d.field.divide(errorEvaluator.EvaluateAt(xiInverse), denominator)
	}
	return result, nil
}

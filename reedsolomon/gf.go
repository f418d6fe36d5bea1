// Package reedsolomon implements Reed-Solomon error correction coding over
// the QR code field GF(256).
package reedsolomon

import (
	"fmt"

	"github.com/ericlevine/billprint"
)

// Field is GF(256) with the QR primitive polynomial x^8 + x^4 + x^3 + x^2 + 1.
// Its tables are filled once by newField and never written afterwards, so a
// Field may be shared by any number of goroutines.
type Field struct {
	expTable [256]byte
	logTable [256]byte
}

// QRCodeField256 is the field used by QR code error correction.
var QRCodeField256 = newField()

func newField() *Field {
	f := &Field{}
	for i := 0; i < 8; i++ {
		f.expTable[i] = 1 << uint(i)
	}
	for i := 8; i < 256; i++ {
		f.expTable[i] = f.expTable[i-4] ^ f.expTable[i-5] ^ f.expTable[i-6] ^ f.expTable[i-8]
	}
	for i := 0; i < 255; i++ {
		f.logTable[f.expTable[i]] = byte(i)
	}
	return f
}

// AddOrSubtract computes a XOR b (addition and subtraction are the same in GF(2^n)).
func AddOrSubtract(a, b byte) byte {
	return a ^ b
}

// Exp returns 2^n in this field. Exponents repeat with period 255 and n may
// be negative.
func (f *Field) Exp(n int) byte {
	n %= 255
	if n < 0 {
		n += 255
	}
	return f.expTable[n]
}

// Log returns log2(a) in this field, in the range 0..254.
func (f *Field) Log(a byte) (int, error) {
	if a == 0 {
		return 0, fmt.Errorf("reedsolomon: log(0): %w", billprint.ErrInvalidOperand)
	}
	return int(f.logTable[a]), nil
}

// Inverse returns the multiplicative inverse of a.
func (f *Field) Inverse(a byte) (byte, error) {
	if a == 0 {
		return 0, fmt.Errorf("reedsolomon: inverse(0): %w", billprint.ErrInvalidOperand)
	}
	return f.expTable[255-int(f.logTable[a])], nil
}

// Multiply returns a * b in this field.
func (f *Field) Multiply(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return f.expTable[(int(f.logTable[a])+int(f.logTable[b]))%255]
}

// divide returns a / b; b must be nonzero.
func (f *Field) divide(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return f.expTable[(int(f.logTable[a])+255-int(f.logTable[b]))%255]
}

// String returns a string representation.
func (f *Field) String() string {
	return "GF(0x11d,256)"
}

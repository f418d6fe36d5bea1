package symbol

import (
	"fmt"
	"strings"

	"github.com/ericlevine/billprint"
)

// ErrorCorrectionLevel represents the four QR code error correction levels.
type ErrorCorrectionLevel int

const (
	ECLevelL ErrorCorrectionLevel = iota // ~7% correction
	ECLevelM                             // ~15% correction
	ECLevelQ                             // ~25% correction
	ECLevelH                             // ~30% correction
)

// Bits returns the 2-bit encoding of this level used in format information.
func (ecl ErrorCorrectionLevel) Bits() int {
	switch ecl {
	case ECLevelL:
		return 0x01
	case ECLevelM:
		return 0x00
	case ECLevelQ:
		return 0x03
	case ECLevelH:
		return 0x02
	}
	return 0
}

// Ordinal returns the ordinal position (L=0, M=1, Q=2, H=3).
func (ecl ErrorCorrectionLevel) Ordinal() int {
	return int(ecl)
}

// String returns the level name.
func (ecl ErrorCorrectionLevel) String() string {
	switch ecl {
	case ECLevelL:
		return "L"
	case ECLevelM:
		return "M"
	case ECLevelQ:
		return "Q"
	case ECLevelH:
		return "H"
	}
	return "?"
}

// Valid reports whether ecl is one of the four defined levels.
func (ecl ErrorCorrectionLevel) Valid() bool {
	return ecl >= ECLevelL && ecl <= ECLevelH
}

// ECLevelForBits returns the ErrorCorrectionLevel for the given 2-bit value.
func ECLevelForBits(bits int) (ErrorCorrectionLevel, error) {
	switch bits {
	case 0:
		return ECLevelM, nil
	case 1:
		return ECLevelL, nil
	case 2:
		return ECLevelH, nil
	case 3:
		return ECLevelQ, nil
	}
	return 0, fmt.Errorf("qrcode: error correction bits %d: %w", bits, billprint.ErrFormat)
}

// ParseECLevel parses a level name. The empty string selects ECLevelM.
func ParseECLevel(name string) (ErrorCorrectionLevel, error) {
	switch strings.ToUpper(name) {
	case "L":
		return ECLevelL, nil
	case "", "M":
		return ECLevelM, nil
	case "Q":
		return ECLevelQ, nil
	case "H":
		return ECLevelH, nil
	}
	return 0, fmt.Errorf("qrcode: unknown error correction level %q: %w", name, billprint.ErrInvalidParameter)
}

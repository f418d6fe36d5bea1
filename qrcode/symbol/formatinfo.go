package symbol

import "math/bits"

const (
	// FormatInfoPoly is the (15,5) BCH generator x^10+x^8+x^5+x^4+x^2+x+1.
	FormatInfoPoly = 0x537
	// FormatInfoMask is XORed onto the format information so it is never all zero.
	FormatInfoMask = 0x5412
	// VersionInfoPoly is the (18,6) BCH generator x^12+x^11+x^10+x^9+x^8+x^5+x^2+1.
	VersionInfoPoly = 0x1f25
)

// FormatInformation encapsulates a QR code's format info (EC level + data mask).
type FormatInformation struct {
	ECLevel  ErrorCorrectionLevel
	DataMask int
}

// FormatInfoBits returns the 15 masked format information bits for the
// level and mask pattern.
func FormatInfoBits(ecLevel ErrorCorrectionLevel, maskPattern int) int {
	typeInfo := ecLevel.Bits()<<3 | maskPattern
	return (typeInfo<<10 | CalculateBCHCode(typeInfo, FormatInfoPoly)) ^ FormatInfoMask
}

// VersionInfoBits returns the 18 version information bits for a version
// number.
func VersionInfoBits(number int) int {
	return number<<12 | CalculateBCHCode(number, VersionInfoPoly)
}

// CalculateBCHCode returns the remainder of value * x^deg(poly) divided by
// poly, over GF(2).
func CalculateBCHCode(value, poly int) int {
	msbSetInPoly := bits.Len(uint(poly))
	value <<= uint(msbSetInPoly - 1)
	for bits.Len(uint(value)) >= msbSetInPoly {
		value ^= poly << uint(bits.Len(uint(value))-msbSetInPoly)
	}
	return value
}

// DecodeFormatInformation decodes format information from the two copies
// read from a symbol. Each of the 32 valid codes is compared against both
// copies; the closest one within a Hamming distance of 3 wins. It returns
// nil if nothing is close enough.
func DecodeFormatInformation(maskedFormatInfo1, maskedFormatInfo2 int) *FormatInformation {
	bestDifference := 32
	var best *FormatInformation
	for _, level := range []ErrorCorrectionLevel{ECLevelL, ECLevelM, ECLevelQ, ECLevelH} {
		for mask := 0; mask < NumMaskPatterns; mask++ {
			target := FormatInfoBits(level, mask)
			for _, candidate := range [2]int{maskedFormatInfo1, maskedFormatInfo2} {
				diff := bits.OnesCount(uint(candidate ^ target))
				if diff < bestDifference {
					bestDifference = diff
					best = &FormatInformation{ECLevel: level, DataMask: mask}
				}
			}
		}
	}
	if bestDifference <= 3 {
		return best
	}
	return nil
}

// DecodeVersionInformation decodes 18 version information bits, accepting
// up to 3 bit errors. It returns nil for versions without version
// information or when nothing is close enough.
func DecodeVersionInformation(versionBits int) *Version {
	bestDifference := 32
	bestVersion := 0
	for number := 7; number <= MaxVersion; number++ {
		diff := bits.OnesCount(uint(versionBits ^ VersionInfoBits(number)))
		if diff < bestDifference {
			bestDifference = diff
			bestVersion = number
		}
	}
	if bestDifference <= 3 {
		return &versions[bestVersion-1]
	}
	return nil
}

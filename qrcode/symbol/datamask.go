package symbol

import "github.com/ericlevine/billprint/bitutil"

// NumMaskPatterns is the number of data mask patterns.
const NumMaskPatterns = 8

// DataMaskFunc reports whether the module at row i, column j is inverted.
type DataMaskFunc func(i, j int) bool

// DataMasks contains the 8 QR code data mask patterns.
var DataMasks = [NumMaskPatterns]DataMaskFunc{
	func(i, j int) bool { return (i+j)&0x01 == 0 },             // 000
	func(i, j int) bool { return i&0x01 == 0 },                 // 001
	func(i, j int) bool { return j%3 == 0 },                    // 010
	func(i, j int) bool { return (i+j)%3 == 0 },                // 011
	func(i, j int) bool { return ((i/2)+(j/3))&0x01 == 0 },     // 100
	func(i, j int) bool { return (i*j)%2+(i*j)%3 == 0 },        // 101
	func(i, j int) bool { return ((i*j)%2+(i*j)%3)&0x01 == 0 }, // 110
	func(i, j int) bool { return ((i+j)%2+(i*j)%3)&0x01 == 0 }, // 111
}

// UnmaskBitMatrix inverts every module the mask selects. Function pattern
// modules are flipped too; readers skip them.
func UnmaskBitMatrix(bits *bitutil.BitMatrix, maskIndex int) {
	mask := DataMasks[maskIndex]
	dimension := bits.Height()
	for i := 0; i < dimension; i++ {
		for j := 0; j < dimension; j++ {
			if mask(i, j) {
				bits.Flip(j, i)
			}
		}
	}
}

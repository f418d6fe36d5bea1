// Package symbol holds the fixed QR code tables shared by the encoder and the
// decoder: versions 1 to 10 with their error correction block structure and
// alignment pattern centers, error correction levels, data modes, the BCH
// codes protecting format and version information, and the data masks.
//
// Everything in this package is immutable after initialization.
package symbol

import (
	"fmt"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
)

// MaxVersion is the largest supported version number.
const MaxVersion = 10

// ECB describes Count blocks of DataCodewords data codewords each.
type ECB struct {
	Count         int
	DataCodewords int
}

// ECBlocks represents the set of error-correction blocks for one EC level.
type ECBlocks struct {
	ECCodewordsPerBlock int
	Blocks              []ECB
}

// RSBlock describes one Reed-Solomon block: DataCount data codewords
// followed by TotalCount-DataCount error correction codewords.
type RSBlock struct {
	DataCount  int
	TotalCount int
}

// ECCount returns the number of error correction codewords in the block.
func (b RSBlock) ECCount() int {
	return b.TotalCount - b.DataCount
}

// NumBlocks returns the total number of blocks.
func (ecb *ECBlocks) NumBlocks() int {
	total := 0
	for _, b := range ecb.Blocks {
		total += b.Count
	}
	return total
}

// TotalECCodewords returns the total number of error-correction codewords.
func (ecb *ECBlocks) TotalECCodewords() int {
	return ecb.ECCodewordsPerBlock * ecb.NumBlocks()
}

// TotalDataCodewords returns the sum of data codewords over all blocks.
func (ecb *ECBlocks) TotalDataCodewords() int {
	total := 0
	for _, b := range ecb.Blocks {
		total += b.Count * b.DataCodewords
	}
	return total
}

// RSBlocks expands the block groups into one descriptor per block, in
// symbol order.
func (ecb *ECBlocks) RSBlocks() []RSBlock {
	blocks := make([]RSBlock, 0, ecb.NumBlocks())
	for _, b := range ecb.Blocks {
		for i := 0; i < b.Count; i++ {
			blocks = append(blocks, RSBlock{
				DataCount:  b.DataCodewords,
				TotalCount: b.DataCodewords + ecb.ECCodewordsPerBlock,
			})
		}
	}
	return blocks
}

// Version represents a QR code version.
type Version struct {
	Number                  int
	AlignmentPatternCenters []int
	ECBlocksArray           [4]ECBlocks // L, M, Q, H
	TotalCodewords          int
}

// Dimension returns the number of modules along one side of the symbol.
func (v *Version) Dimension() int {
	return 17 + 4*v.Number
}

// ECBlocksForLevel returns the ECBlocks for the given error correction level.
func (v *Version) ECBlocksForLevel(ecLevel ErrorCorrectionLevel) *ECBlocks {
	return &v.ECBlocksArray[ecLevel.Ordinal()]
}

// DataCapacity returns the number of data codewords the version holds at
// the given level.
func (v *Version) DataCapacity(ecLevel ErrorCorrectionLevel) int {
	return v.ECBlocksForLevel(ecLevel).TotalDataCodewords()
}

// BuildFunctionPattern returns a matrix with every module set that is not
// available for data: finders with separators and format information,
// alignment patterns, timing patterns and version information.
func (v *Version) BuildFunctionPattern() *bitutil.BitMatrix {
	dimension := v.Dimension()
	bm := bitutil.NewBitMatrix(dimension)

	bm.SetRegion(0, 0, 9, 9)
	bm.SetRegion(dimension-8, 0, 8, 9)
	bm.SetRegion(0, dimension-8, 9, 8)

	centers := v.AlignmentPatternCenters
	for _, cy := range centers {
		for _, cx := range centers {
			if AlignmentOverlapsFinder(cx, cy, dimension) {
				continue
			}
			bm.SetRegion(cx-2, cy-2, 5, 5)
		}
	}

	bm.SetRegion(6, 9, 1, dimension-17)
	bm.SetRegion(9, 6, dimension-17, 1)

	if v.Number >= 7 {
		bm.SetRegion(dimension-11, 0, 3, 6)
		bm.SetRegion(0, dimension-11, 6, 3)
	}
	return bm
}

// AlignmentOverlapsFinder reports whether a 5x5 alignment pattern centered
// at (cx, cy) would intersect one of the three finder patterns or their
// separators in a symbol of the given dimension.
func AlignmentOverlapsFinder(cx, cy, dimension int) bool {
	left, top, right, bottom := cx-2, cy-2, cx+2, cy+2
	nearLeft := left <= 7
	nearTop := top <= 7
	nearRight := right >= dimension-8
	nearBottom := bottom >= dimension-8
	return (nearLeft && nearTop) || (nearRight && nearTop) || (nearLeft && nearBottom)
}

func (v *Version) String() string {
	return fmt.Sprintf("%d", v.Number)
}

// GetVersionForNumber returns the Version for the given version number.
func GetVersionForNumber(number int) (*Version, error) {
	if number < 1 || number > MaxVersion {
		return nil, fmt.Errorf("qrcode: version %d not in 1..%d: %w", number, MaxVersion, billprint.ErrInvalidParameter)
	}
	return &versions[number-1], nil
}

// GetVersionForDimension returns the Version whose symbols are dimension
// modules wide.
func GetVersionForDimension(dimension int) (*Version, error) {
	if dimension%4 != 1 {
		return nil, fmt.Errorf("qrcode: invalid dimension %d: %w", dimension, billprint.ErrFormat)
	}
	v, err := GetVersionForNumber((dimension - 17) / 4)
	if err != nil {
		return nil, fmt.Errorf("qrcode: invalid dimension %d: %w", dimension, billprint.ErrFormat)
	}
	return v, nil
}

func newVersion(number int, align []int, l, m, q, h ECBlocks) Version {
	v := Version{
		Number:                  number,
		AlignmentPatternCenters: align,
		ECBlocksArray:           [4]ECBlocks{l, m, q, h},
	}
	for _, block := range l.RSBlocks() {
		v.TotalCodewords += block.TotalCount
	}
	return v
}

func eb(ecCW int, blocks ...ECB) ECBlocks {
	return ECBlocks{ECCodewordsPerBlock: ecCW, Blocks: blocks}
}

func b(count, dataCodewords int) ECB {
	return ECB{Count: count, DataCodewords: dataCodewords}
}

var versions = [MaxVersion]Version{
	newVersion(1, nil, eb(7, b(1, 19)), eb(10, b(1, 16)), eb(13, b(1, 13)), eb(17, b(1, 9))),
	newVersion(2, []int{6, 18}, eb(10, b(1, 34)), eb(16, b(1, 28)), eb(22, b(1, 22)), eb(28, b(1, 16))),
	newVersion(3, []int{6, 22}, eb(15, b(1, 55)), eb(26, b(1, 44)), eb(18, b(2, 17)), eb(22, b(2, 13))),
	newVersion(4, []int{6, 26}, eb(20, b(1, 80)), eb(18, b(2, 32)), eb(26, b(2, 24)), eb(16, b(4, 9))),
	newVersion(5, []int{6, 30}, eb(26, b(1, 108)), eb(24, b(2, 43)), eb(18, b(2, 15), b(2, 16)), eb(22, b(2, 11), b(2, 12))),
	newVersion(6, []int{6, 34}, eb(18, b(2, 68)), eb(16, b(4, 27)), eb(24, b(4, 19)), eb(28, b(4, 15))),
	newVersion(7, []int{6, 22, 38}, eb(20, b(2, 78)), eb(18, b(4, 31)), eb(18, b(2, 14), b(4, 15)), eb(26, b(4, 13), b(1, 14))),
	newVersion(8, []int{6, 24, 42}, eb(24, b(2, 97)), eb(22, b(2, 38), b(2, 39)), eb(22, b(4, 18), b(2, 19)), eb(26, b(4, 14), b(2, 15))),
	newVersion(9, []int{6, 26, 46}, eb(30, b(2, 116)), eb(22, b(3, 36), b(2, 37)), eb(20, b(4, 16), b(4, 17)), eb(24, b(4, 12), b(4, 13))),
	newVersion(10, []int{6, 28, 50}, eb(18, b(2, 68), b(2, 69)), eb(26, b(4, 43), b(1, 44)), eb(24, b(6, 19), b(2, 20)), eb(28, b(6, 15), b(2, 16))),
}

package decoder

import (
	"fmt"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
	"github.com/ericlevine/billprint/qrcode/symbol"
)

// BitMatrixParser reads the format information, version and codewords of a
// symbol given as one bit per module, without a quiet zone.
type BitMatrixParser struct {
	bitMatrix        *bitutil.BitMatrix
	parsedVersion    *symbol.Version
	parsedFormatInfo *symbol.FormatInformation
	mirror           bool
}

// NewBitMatrixParser creates a parser for bitMatrix. The matrix is unmasked
// in place by ReadCodewords.
func NewBitMatrixParser(bitMatrix *bitutil.BitMatrix) (*BitMatrixParser, error) {
	dimension := bitMatrix.Height()
	if bitMatrix.Width() != dimension || dimension < 21 || dimension&0x03 != 1 {
		return nil, fmt.Errorf("qrcode: %dx%d is not a symbol size: %w",
			bitMatrix.Width(), dimension, billprint.ErrFormat)
	}
	return &BitMatrixParser{bitMatrix: bitMatrix}, nil
}

// ReadFormatInformation reads both copies of the format information and
// returns the closest valid code.
func (p *BitMatrixParser) ReadFormatInformation() (*symbol.FormatInformation, error) {
	if p.parsedFormatInfo != nil {
		return p.parsedFormatInfo, nil
	}

	// Around the top-left finder.
	info1 := 0
	for i := 0; i < 6; i++ {
		info1 = p.copyBit(i, 8, info1)
	}
	info1 = p.copyBit(7, 8, info1)
	info1 = p.copyBit(8, 8, info1)
	info1 = p.copyBit(8, 7, info1)
	for j := 5; j >= 0; j-- {
		info1 = p.copyBit(8, j, info1)
	}

	// Split between the bottom-left and top-right finders.
	dimension := p.bitMatrix.Height()
	info2 := 0
	for j := dimension - 1; j >= dimension-7; j-- {
		info2 = p.copyBit(8, j, info2)
	}
	for i := dimension - 8; i < dimension; i++ {
		info2 = p.copyBit(i, 8, info2)
	}

	p.parsedFormatInfo = symbol.DecodeFormatInformation(info1, info2)
	if p.parsedFormatInfo == nil {
		return nil, fmt.Errorf("qrcode: unreadable format information: %w", billprint.ErrFormat)
	}
	return p.parsedFormatInfo, nil
}

// ReadVersion derives the version from the dimension and, from version 7 on,
// confirms it against either copy of the version information.
func (p *BitMatrixParser) ReadVersion() (*symbol.Version, error) {
	if p.parsedVersion != nil {
		return p.parsedVersion, nil
	}

	dimension := p.bitMatrix.Height()
	provisional := (dimension - 17) / 4
	if provisional > symbol.MaxVersion {
		return nil, fmt.Errorf("qrcode: version %d unsupported: %w", provisional, billprint.ErrFormat)
	}
	if provisional <= 6 {
		v, err := symbol.GetVersionForDimension(dimension)
		if err != nil {
			return nil, err
		}
		p.parsedVersion = v
		return v, nil
	}

	// Top-right, 3 wide by 6 tall.
	versionBits := 0
	ijMin := dimension - 11
	for j := 5; j >= 0; j-- {
		for i := dimension - 9; i >= ijMin; i-- {
			versionBits = p.copyBit(i, j, versionBits)
		}
	}
	if v := symbol.DecodeVersionInformation(versionBits); v != nil && v.Dimension() == dimension {
		p.parsedVersion = v
		return v, nil
	}

	// Bottom-left, 6 wide by 3 tall.
	versionBits = 0
	for i := 5; i >= 0; i-- {
		for j := dimension - 9; j >= ijMin; j-- {
			versionBits = p.copyBit(i, j, versionBits)
		}
	}
	if v := symbol.DecodeVersionInformation(versionBits); v != nil && v.Dimension() == dimension {
		p.parsedVersion = v
		return v, nil
	}
	return nil, fmt.Errorf("qrcode: unreadable version information: %w", billprint.ErrFormat)
}

func (p *BitMatrixParser) copyBit(i, j, bits int) int {
	var bit bool
	if p.mirror {
		bit = p.bitMatrix.Get(j, i)
	} else {
		bit = p.bitMatrix.Get(i, j)
	}
	if bit {
		return bits<<1 | 0x1
	}
	return bits << 1
}

// ReadCodewords unmasks the matrix and reads the interleaved codewords in
// placement order.
func (p *BitMatrixParser) ReadCodewords() ([]byte, error) {
	formatInfo, err := p.ReadFormatInformation()
	if err != nil {
		return nil, err
	}
	version, err := p.ReadVersion()
	if err != nil {
		return nil, err
	}

	symbol.UnmaskBitMatrix(p.bitMatrix, formatInfo.DataMask)
	functionPattern := version.BuildFunctionPattern()

	readingUp := true
	result := make([]byte, version.TotalCodewords)
	resultOffset := 0
	currentByte := 0
	bitsRead := 0
	dimension := p.bitMatrix.Height()

	for j := dimension - 1; j > 0; j -= 2 {
		if j == 6 {
			j--
		}
		for count := 0; count < dimension; count++ {
			i := count
			if readingUp {
				i = dimension - 1 - count
			}
			for col := 0; col < 2; col++ {
				if functionPattern.Get(j-col, i) {
					continue
				}
				currentByte <<= 1
				if p.bitMatrix.Get(j-col, i) {
					currentByte |= 1
				}
				bitsRead++
				if bitsRead == 8 && resultOffset < len(result) {
					result[resultOffset] = byte(currentByte)
					resultOffset++
					bitsRead = 0
					currentByte = 0
				}
			}
		}
		readingUp = !readingUp
	}

	if resultOffset != version.TotalCodewords {
		return nil, fmt.Errorf("qrcode: read %d of %d codewords: %w", resultOffset, version.TotalCodewords, billprint.ErrFormat)
	}
	return result, nil
}

// Remask re-applies the data mask, undoing ReadCodewords.
func (p *BitMatrixParser) Remask() {
	if p.parsedFormatInfo == nil {
		return
	}
	symbol.UnmaskBitMatrix(p.bitMatrix, p.parsedFormatInfo.DataMask)
}

// SetMirror switches to reading the transposed matrix.
func (p *BitMatrixParser) SetMirror(mirror bool) {
	p.parsedVersion = nil
	p.parsedFormatInfo = nil
	p.mirror = mirror
}

// Mirror transposes the matrix in place.
func (p *BitMatrixParser) Mirror() {
	for x := 0; x < p.bitMatrix.Width(); x++ {
		for y := x + 1; y < p.bitMatrix.Height(); y++ {
			if p.bitMatrix.Get(x, y) != p.bitMatrix.Get(y, x) {
				p.bitMatrix.Flip(y, x)
				p.bitMatrix.Flip(x, y)
			}
		}
	}
}

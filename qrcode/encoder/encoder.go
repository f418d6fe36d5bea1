// Package encoder builds QR code symbols in byte mode for versions 1 to 10.
//
// A symbol is built in fixed stages on a matrix whose modules start out
// unassigned: finder patterns, timing patterns, alignment patterns, format
// information, version information, and finally the masked data modules.
// Every structural module is fixed before the first data module is written.
package encoder

import (
	"fmt"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
	"github.com/ericlevine/billprint/qrcode/symbol"
	"github.com/ericlevine/billprint/reedsolomon"
)

const (
	// DefaultMaskPattern is the mask applied when the caller neither forces
	// one nor asks for penalty scoring.
	DefaultMaskPattern = 0

	// AutoMaskPattern requests evaluation of all eight masks.
	AutoMaskPattern = -1
)

var rsEncoder = reedsolomon.NewEncoder(reedsolomon.QRCodeField256)

// QRCode holds the encoded QR code data.
type QRCode struct {
	Mode        symbol.Mode
	ECLevel     symbol.ErrorCorrectionLevel
	Version     *symbol.Version
	MaskPattern int
	// Codewords is the final interleaved sequence of data and EC codewords.
	Codewords []byte
	Matrix    *ModuleMatrix
}

// Encode encodes content in byte mode. qrVersion forces a version when it is
// positive; maskPattern is 0..7 or AutoMaskPattern.
func Encode(content []byte, ecLevel symbol.ErrorCorrectionLevel, qrVersion int, maskPattern int) (*QRCode, error) {
	if !ecLevel.Valid() {
		return nil, fmt.Errorf("qrcode: error correction level %d: %w", ecLevel, billprint.ErrInvalidParameter)
	}
	if maskPattern < AutoMaskPattern || maskPattern >= symbol.NumMaskPatterns {
		return nil, fmt.Errorf("qrcode: mask pattern %d: %w", maskPattern, billprint.ErrInvalidParameter)
	}
	if qrVersion < 0 {
		return nil, fmt.Errorf("qrcode: version %d: %w", qrVersion, billprint.ErrInvalidParameter)
	}

	var version *symbol.Version
	var err error
	if qrVersion > 0 {
		version, err = symbol.GetVersionForNumber(qrVersion)
		if err != nil {
			return nil, err
		}
		if !fits(len(content), version, ecLevel) {
			return nil, fmt.Errorf("qrcode: %d bytes do not fit version %d-%s: %w",
				len(content), qrVersion, ecLevel, billprint.ErrDataTooLarge)
		}
	} else {
		version, err = ChooseVersion(len(content), ecLevel)
		if err != nil {
			return nil, err
		}
	}

	dataCodewords := assembleDataCodewords(content, version, ecLevel)
	finalCodewords, err := interleaveWithECBytes(dataCodewords, version.TotalCodewords, version.ECBlocksForLevel(ecLevel))
	if err != nil {
		return nil, err
	}

	qr := &QRCode{
		Mode:        symbol.ModeByte,
		ECLevel:     ecLevel,
		Version:     version,
		MaskPattern: maskPattern,
		Codewords:   finalCodewords,
	}

	matrix := NewModuleMatrix(version.Dimension())
	if maskPattern == AutoMaskPattern {
		qr.MaskPattern, err = chooseMaskPattern(finalCodewords, ecLevel, version, matrix)
		if err != nil {
			return nil, err
		}
	}
	if err := buildMatrix(finalCodewords, ecLevel, version, qr.MaskPattern, matrix); err != nil {
		return nil, err
	}
	qr.Matrix = matrix
	return qr, nil
}

// ChooseVersion returns the smallest version that holds numBytes bytes in
// byte mode at the given level.
func ChooseVersion(numBytes int, ecLevel symbol.ErrorCorrectionLevel) (*symbol.Version, error) {
	for versionNum := 1; versionNum <= symbol.MaxVersion; versionNum++ {
		version, _ := symbol.GetVersionForNumber(versionNum)
		if fits(numBytes, version, ecLevel) {
			return version, nil
		}
	}
	return nil, fmt.Errorf("qrcode: %d bytes exceed version %d-%s: %w",
		numBytes, symbol.MaxVersion, ecLevel, billprint.ErrDataTooLarge)
}

// fits reports whether the mode indicator, the character count and the data
// fit the version's data codewords. With an 8-bit count this is the same as
// numBytes+2 <= capacity.
func fits(numBytes int, version *symbol.Version, ecLevel symbol.ErrorCorrectionLevel) bool {
	countBits := symbol.ModeByte.CharacterCountBits(version)
	if numBytes >= 1<<uint(countBits) {
		return false
	}
	totalBits := 4 + countBits + 8*numBytes
	return totalBits <= 8*version.DataCapacity(ecLevel)
}

// assembleDataCodewords lays out [mode][count][data] and zero-pads the
// result to the version's data capacity.
func assembleDataCodewords(content []byte, version *symbol.Version, ecLevel symbol.ErrorCorrectionLevel) []byte {
	capacity := version.DataCapacity(ecLevel)
	bits := bitutil.NewBitArray(8 * capacity)
	bits.AppendBits(uint32(symbol.ModeByte.Bits()), 4)
	bits.AppendBits(uint32(len(content)), symbol.ModeByte.CharacterCountBits(version))
	bits.AppendBytes(content)

	codewords := make([]byte, capacity)
	copy(codewords, bits.Bytes())
	return codewords
}

// interleaveWithECBytes splits the data codewords into the level's RS blocks,
// computes each block's EC codewords, and interleaves the data codewords
// column by column across blocks followed by the EC codewords likewise.
func interleaveWithECBytes(dataCodewords []byte, numTotalBytes int, ecBlocks *symbol.ECBlocks) ([]byte, error) {
	type blockPair struct {
		dataBytes []byte
		ecBytes   []byte
	}

	blocks := ecBlocks.RSBlocks()
	pairs := make([]blockPair, len(blocks))
	maxNumDataBytes := 0
	maxNumEcBytes := 0
	offset := 0
	for i, block := range blocks {
		if offset+block.DataCount > len(dataCodewords) {
			return nil, fmt.Errorf("qrcode: data codewords shorter than block table: %w", billprint.ErrWriter)
		}
		dataBytes := dataCodewords[offset : offset+block.DataCount]
		ecBytes, err := rsEncoder.EncodeBlock(dataBytes, block.ECCount())
		if err != nil {
			return nil, err
		}
		pairs[i] = blockPair{dataBytes: dataBytes, ecBytes: ecBytes}
		maxNumDataBytes = max(maxNumDataBytes, block.DataCount)
		maxNumEcBytes = max(maxNumEcBytes, block.ECCount())
		offset += block.DataCount
	}
	if offset != len(dataCodewords) {
		return nil, fmt.Errorf("qrcode: data bytes mismatch: %w", billprint.ErrWriter)
	}

	result := make([]byte, 0, numTotalBytes)
	for i := 0; i < maxNumDataBytes; i++ {
		for _, p := range pairs {
			if i < len(p.dataBytes) {
				result = append(result, p.dataBytes[i])
			}
		}
	}
	for i := 0; i < maxNumEcBytes; i++ {
		for _, p := range pairs {
			if i < len(p.ecBytes) {
				result = append(result, p.ecBytes[i])
			}
		}
	}

	if len(result) != numTotalBytes {
		return nil, fmt.Errorf("qrcode: interleaved size mismatch: %w", billprint.ErrWriter)
	}
	return result, nil
}

// buildMatrix builds the QR code matrix with all patterns and data.
func buildMatrix(codewords []byte, ecLevel symbol.ErrorCorrectionLevel,
	version *symbol.Version, maskPattern int, matrix *ModuleMatrix) error {

	matrix.Clear()

	embedFinderPatterns(matrix)
	embedTimingPatterns(matrix)
	embedAlignmentPatterns(version, matrix)
	embedFormatInfo(ecLevel, maskPattern, matrix)
	maybeEmbedVersionInfo(version, matrix)
	placed := embedDataBits(codewords, maskPattern, matrix)

	if placed != 8*len(codewords) {
		return fmt.Errorf("qrcode: placed %d of %d codeword bits: %w", placed, 8*len(codewords), billprint.ErrWriter)
	}
	if n := matrix.CountUnassigned(); n != 0 {
		return fmt.Errorf("qrcode: %d modules left unassigned: %w", n, billprint.ErrWriter)
	}
	return nil
}

func embedFinderPatterns(matrix *ModuleMatrix) {
	d := matrix.Dimension()
	embedFinderPattern(0, 0, matrix)
	embedFinderPattern(d-7, 0, matrix)
	embedFinderPattern(0, d-7, matrix)
}

// embedFinderPattern stamps the 7x7 finder with its top-left corner at
// (xStart, yStart) together with the light separator ring around it, clipped
// to the symbol.
func embedFinderPattern(xStart, yStart int, matrix *ModuleMatrix) {
	d := matrix.Dimension()
	for dy := -1; dy <= 7; dy++ {
		for dx := -1; dx <= 7; dx++ {
			x, y := xStart+dx, yStart+dy
			if x < 0 || y < 0 || x >= d || y >= d {
				continue
			}
			inside := dx >= 0 && dx <= 6 && dy >= 0 && dy <= 6
			ring := dx == 0 || dx == 6 || dy == 0 || dy == 6
			core := dx >= 2 && dx <= 4 && dy >= 2 && dy <= 4
			matrix.SetBool(x, y, inside && (ring || core))
		}
	}
}

func embedTimingPatterns(matrix *ModuleMatrix) {
	for i := 8; i < matrix.Dimension()-8; i++ {
		dark := i%2 == 0
		matrix.SetBool(i, 6, dark)
		matrix.SetBool(6, i, dark)
	}
}

// embedAlignmentPatterns stamps a 5x5 alignment pattern at every pair of
// anchor coordinates that stays clear of the finders. Where a pattern crosses
// a timing pattern both agree on the module colors.
func embedAlignmentPatterns(version *symbol.Version, matrix *ModuleMatrix) {
	centers := version.AlignmentPatternCenters
	for _, cy := range centers {
		for _, cx := range centers {
			if symbol.AlignmentOverlapsFinder(cx, cy, matrix.Dimension()) {
				continue
			}
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					matrix.SetBool(cx+dx, cy+dy, max(abs(dx), abs(dy)) != 1)
				}
			}
		}
	}
}

// Format information coordinates around the top-left finder, least
// significant bit first.
var formatInfoCoordinates = [15][2]int{
	{8, 0}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 7}, {8, 8},
	{7, 8}, {5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
}

// embedFormatInfo writes both copies of the format information and the
// single dark module that sits next to the bottom-left copy.
func embedFormatInfo(ecLevel symbol.ErrorCorrectionLevel, maskPattern int, matrix *ModuleMatrix) {
	formatBits := symbol.FormatInfoBits(ecLevel, maskPattern)
	d := matrix.Dimension()
	for i := 0; i < 15; i++ {
		dark := (formatBits>>uint(i))&1 == 1
		coord := formatInfoCoordinates[i]
		matrix.SetBool(coord[0], coord[1], dark)
		if i < 8 {
			matrix.SetBool(d-1-i, 8, dark)
		} else {
			matrix.SetBool(8, d-7+(i-8), dark)
		}
	}
	matrix.Set(8, d-8, Dark)
}

func maybeEmbedVersionInfo(version *symbol.Version, matrix *ModuleMatrix) {
	if version.Number < 7 {
		return
	}
	versionBits := symbol.VersionInfoBits(version.Number)
	d := matrix.Dimension()
	bitIndex := 0
	for i := 0; i < 6; i++ {
		for j := 0; j < 3; j++ {
			dark := (versionBits>>uint(bitIndex))&1 == 1
			bitIndex++
			// Bottom-left
			matrix.SetBool(i, d-11+j, dark)
			// Top-right
			matrix.SetBool(d-11+j, i, dark)
		}
	}
}

// embedDataBits fills the unassigned modules in zigzag order, two columns at
// a time from the right edge, skipping the vertical timing column. Bits run
// MSB first through the codewords; modules left over after the last codeword
// receive zero bits. The mask is applied to every bit written. It returns the
// number of codeword bits placed.
func embedDataBits(codewords []byte, maskPattern int, matrix *ModuleMatrix) int {
	mask := symbol.DataMasks[maskPattern]
	numBits := 8 * len(codewords)
	bitIndex := 0
	dimension := matrix.Dimension()

	upward := true
	for j := dimension - 1; j > 0; j -= 2 {
		if j == 6 {
			j--
		}
		for count := 0; count < dimension; count++ {
			i := count
			if upward {
				i = dimension - 1 - count
			}
			for col := 0; col < 2; col++ {
				x := j - col
				if matrix.Get(x, i) != Unassigned {
					continue
				}
				var bit bool
				if bitIndex < numBits {
					bit = (codewords[bitIndex/8]>>uint(7-bitIndex%8))&1 == 1
					bitIndex++
				}
				if mask(i, x) {
					bit = !bit
				}
				matrix.SetBool(x, i, bit)
			}
		}
		upward = !upward
	}
	return bitIndex
}

// RenderResult renders a QRCode to a BitMatrix of at least width x height
// pixels, with quietZone light modules on every side. Each module becomes a
// square of pixels; the symbol is centered.
func RenderResult(code *QRCode, width, height, quietZone int) *bitutil.BitMatrix {
	input := code.Matrix
	inputSize := input.Dimension()
	qrSize := inputSize + quietZone*2
	outputWidth := max(width, qrSize)
	outputHeight := max(height, qrSize)

	multiple := min(outputWidth/qrSize, outputHeight/qrSize)
	leftPadding := (outputWidth - inputSize*multiple) / 2
	topPadding := (outputHeight - inputSize*multiple) / 2

	output := bitutil.NewBitMatrixWithSize(outputWidth, outputHeight)
	for inputY := 0; inputY < inputSize; inputY++ {
		outputY := topPadding + inputY*multiple
		for inputX := 0; inputX < inputSize; inputX++ {
			if input.IsDark(inputX, inputY) {
				output.SetRegion(leftPadding+inputX*multiple, outputY, multiple, multiple)
			}
		}
	}
	return output
}

// ToBitMatrix converts the symbol to a BitMatrix with one bit per module.
func (qr *QRCode) ToBitMatrix() *bitutil.BitMatrix {
	return qr.Matrix.ToBitMatrix()
}

// String returns a visual representation of the QR code.
func (qr *QRCode) String() string {
	return qr.Matrix.String()
}

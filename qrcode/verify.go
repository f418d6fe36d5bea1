package qrcode

import (
	"fmt"
	"math"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
	"github.com/ericlevine/billprint/charset"
	"github.com/ericlevine/billprint/qrcode/decoder"
)

var symbolDecoder = decoder.NewDecoder()

// Verify reads back a rendered symbol: an unrotated QR code on a light
// background, as produced by Writer. The payload is returned as UTF-8 when it
// is valid UTF-8 and decoded as ISO-8859-1 otherwise.
func Verify(image *bitutil.BitMatrix) (string, error) {
	result, err := VerifyResult(image)
	if err != nil {
		return "", err
	}
	return charset.DecodeGuess(result.Content), nil
}

// VerifyCharset is Verify for a payload written in the named character set.
func VerifyCharset(image *bitutil.BitMatrix, characterSet string) (string, error) {
	result, err := VerifyResult(image)
	if err != nil {
		return "", err
	}
	return charset.Decode(result.Content, characterSet)
}

// VerifyResult samples the modules of a rendered symbol and decodes them.
// image is not modified.
func VerifyResult(image *bitutil.BitMatrix) (*decoder.Result, error) {
	bits, err := extractPureBits(image)
	if err != nil {
		return nil, err
	}
	return symbolDecoder.Decode(bits)
}

var errNotFound = fmt.Errorf("qrcode: no symbol found: %w", billprint.ErrFormat)

// extractPureBits samples one bit per module from an image holding only the
// symbol and a light border.
func extractPureBits(image *bitutil.BitMatrix) (*bitutil.BitMatrix, error) {
	leftTopBlack := image.TopLeftOnBit()
	rightBottomBlack := image.BottomRightOnBit()
	if leftTopBlack == nil || rightBottomBlack == nil {
		return nil, errNotFound
	}

	moduleSize, err := moduleSizePure(leftTopBlack, image)
	if err != nil {
		return nil, err
	}

	top := leftTopBlack[1]
	bottom := rightBottomBlack[1]
	left := leftTopBlack[0]
	right := rightBottomBlack[0]
	if left >= right || top >= bottom {
		return nil, errNotFound
	}
	if bottom-top != right-left {
		right = left + (bottom - top)
		if right >= image.Width() {
			return nil, errNotFound
		}
	}

	matrixWidth := int(math.Round(float64(right-left+1) / moduleSize))
	matrixHeight := int(math.Round(float64(bottom-top+1) / moduleSize))
	if matrixWidth <= 0 || matrixHeight <= 0 || matrixHeight != matrixWidth {
		return nil, errNotFound
	}

	// Sample module centers.
	nudge := int(moduleSize / 2.0)
	top += nudge
	left += nudge

	if over := left + int(float64(matrixWidth-1)*moduleSize) - right; over > 0 {
		if over > nudge {
			return nil, errNotFound
		}
		left -= over
	}
	if over := top + int(float64(matrixHeight-1)*moduleSize) - bottom; over > 0 {
		if over > nudge {
			return nil, errNotFound
		}
		top -= over
	}

	bits := bitutil.NewBitMatrix(matrixWidth)
	for y := 0; y < matrixHeight; y++ {
		iOffset := top + int(float64(y)*moduleSize)
		for x := 0; x < matrixWidth; x++ {
			if image.Get(left+int(float64(x)*moduleSize), iOffset) {
				bits.Set(x, y)
			}
		}
	}
	return bits, nil
}

// moduleSizePure walks the diagonal of the top-left finder. The fifth color
// change lies seven modules from its corner.
func moduleSizePure(leftTopBlack []int, image *bitutil.BitMatrix) (float64, error) {
	height := image.Height()
	width := image.Width()
	x := leftTopBlack[0]
	y := leftTopBlack[1]
	inBlack := true
	transitions := 0
	for x < width && y < height {
		if inBlack != image.Get(x, y) {
			transitions++
			if transitions == 5 {
				break
			}
			inBlack = !inBlack
		}
		x++
		y++
	}
	if x == width || y == height {
		return 0, errNotFound
	}
	return float64(x-leftTopBlack[0]) / 7.0, nil
}

// Package decoder reads a QR symbol back from its module matrix: format and
// version information, unmasking, codeword extraction, de-interleaving,
// Reed-Solomon correction and the byte-mode bit stream.
package decoder

import (
	"errors"
	"fmt"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
	"github.com/ericlevine/billprint/qrcode/symbol"
	"github.com/ericlevine/billprint/reedsolomon"
)

// Result is the outcome of decoding a symbol.
type Result struct {
	Content         []byte
	Version         *symbol.Version
	ECLevel         symbol.ErrorCorrectionLevel
	MaskPattern     int
	ErrorsCorrected int
}

// Decoder decodes QR symbols. It is safe for concurrent use.
type Decoder struct {
	rsDecoder *reedsolomon.Decoder
}

// NewDecoder creates a new QR code Decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		rsDecoder: reedsolomon.NewDecoder(reedsolomon.QRCodeField256),
	}
}

// Decode decodes bits, one bit per module with no quiet zone. bits is
// unmasked in place; pass a clone to keep the original.
func (d *Decoder) Decode(bits *bitutil.BitMatrix) (*Result, error) {
	parser, err := NewBitMatrixParser(bits)
	if err != nil {
		return nil, err
	}

	result, err := d.decodeParser(parser)
	if err == nil {
		return result, nil
	}

	// Try the transposed reading.
	parser.Remask()
	parser.SetMirror(true)
	if _, verr := parser.ReadVersion(); verr != nil {
		return nil, err
	}
	if _, ferr := parser.ReadFormatInformation(); ferr != nil {
		return nil, err
	}
	parser.Mirror()

	result, err2 := d.decodeParser(parser)
	if err2 != nil {
		return nil, err
	}
	return result, nil
}

func (d *Decoder) decodeParser(parser *BitMatrixParser) (*Result, error) {
	version, err := parser.ReadVersion()
	if err != nil {
		return nil, err
	}
	formatInfo, err := parser.ReadFormatInformation()
	if err != nil {
		return nil, err
	}
	codewords, err := parser.ReadCodewords()
	if err != nil {
		return nil, err
	}
	dataBlocks, err := GetDataBlocks(codewords, version, formatInfo.ECLevel)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, version.DataCapacity(formatInfo.ECLevel))
	errorsCorrected := 0
	for _, db := range dataBlocks {
		corrected, err := d.correctErrors(db.Codewords, db.NumDataCodewords)
		if err != nil {
			return nil, err
		}
		errorsCorrected += corrected
		data = append(data, db.Codewords[:db.NumDataCodewords]...)
	}

	content, err := DecodeBitStream(data, version)
	if err != nil {
		return nil, err
	}
	return &Result{
		Content:         content,
		Version:         version,
		ECLevel:         formatInfo.ECLevel,
		MaskPattern:     formatInfo.DataMask,
		ErrorsCorrected: errorsCorrected,
	}, nil
}

func (d *Decoder) correctErrors(codewords []byte, numDataCodewords int) (int, error) {
	corrected, err := d.rsDecoder.Decode(codewords, len(codewords)-numDataCodewords)
	if errors.Is(err, reedsolomon.ErrReedSolomon) {
		return 0, fmt.Errorf("qrcode: %v: %w", err, billprint.ErrChecksum)
	}
	return corrected, err
}

// Package qrcode is the entry point for building QR symbols: Encode returns
// the module matrix, Writer renders it with a quiet zone, and Verify reads a
// rendered symbol back.
package qrcode

import (
	"fmt"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
	"github.com/ericlevine/billprint/charset"
	"github.com/ericlevine/billprint/qrcode/encoder"
	"github.com/ericlevine/billprint/qrcode/symbol"
)

const defaultQuietZoneSize = 4

// Encode transcodes contents to the configured character set and encodes it
// in byte mode. A nil opts selects level M, UTF-8, the smallest version and
// the default mask.
func Encode(contents string, opts *billprint.EncodeOptions) (*encoder.QRCode, error) {
	if opts == nil {
		opts = &billprint.EncodeOptions{}
	}
	ecLevel, err := symbol.ParseECLevel(opts.ErrorCorrection)
	if err != nil {
		return nil, err
	}
	data, err := charset.Encode(contents, opts.CharacterSet)
	if err != nil {
		return nil, err
	}

	maskPattern := encoder.DefaultMaskPattern
	switch {
	case opts.QRMaskPattern != nil:
		maskPattern = *opts.QRMaskPattern
		if maskPattern < 0 || maskPattern >= symbol.NumMaskPatterns {
			return nil, fmt.Errorf("qrcode: mask pattern %d: %w", maskPattern, billprint.ErrInvalidParameter)
		}
	case opts.QRAutoMask:
		maskPattern = encoder.AutoMaskPattern
	}

	return encoder.Encode(data, ecLevel, opts.QRVersion, maskPattern)
}

// Writer renders QR codes to a BitMatrix.
type Writer struct{}

var _ billprint.Writer = (*Writer)(nil)

// NewWriter creates a new QR code Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Encode encodes contents and renders it at no less than width x height
// pixels with a quiet zone of opts.Margin modules (4 when unset).
func (w *Writer) Encode(contents string, width, height int, opts *billprint.EncodeOptions) (*bitutil.BitMatrix, error) {
	if contents == "" {
		return nil, fmt.Errorf("qrcode: empty contents: %w", billprint.ErrInvalidParameter)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("qrcode: requested dimensions %dx%d: %w", width, height, billprint.ErrInvalidParameter)
	}

	quietZone := defaultQuietZoneSize
	if opts != nil && opts.Margin != nil {
		quietZone = *opts.Margin
		if quietZone < 0 {
			return nil, fmt.Errorf("qrcode: margin %d: %w", quietZone, billprint.ErrInvalidParameter)
		}
	}

	code, err := Encode(contents, opts)
	if err != nil {
		return nil, err
	}
	return encoder.RenderResult(code, width, height, quietZone), nil
}

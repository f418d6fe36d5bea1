package billprint

import "github.com/ericlevine/billprint/bitutil"

// EncodeOptions configures QR encoding behavior.
type EncodeOptions struct {
	// ErrorCorrection specifies the error correction level ("L", "M", "Q"
	// or "H"). Empty means "M".
	ErrorCorrection string

	// CharacterSet is the IANA name of the character set the contents are
	// transcoded to before byte-mode encoding. Empty means UTF-8.
	CharacterSet string

	// Margin specifies the margin (quiet zone) in modules around the symbol.
	Margin *int

	// QRVersion forces a specific QR version (1-10).
	QRVersion int

	// QRMaskPattern forces a specific mask pattern (0-7).
	QRMaskPattern *int

	// QRAutoMask evaluates all eight mask patterns and keeps the one with the
	// lowest penalty score. Ignored when QRMaskPattern is set.
	QRAutoMask bool
}

// Writer encodes data into a rendered symbol.
type Writer interface {
	// Encode encodes the given contents into a matrix of at least
	// width x height pixels.
	Encode(contents string, width, height int, opts *EncodeOptions) (*bitutil.BitMatrix, error)
}

package decoder

import (
	"fmt"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
	"github.com/ericlevine/billprint/qrcode/symbol"
)

// DecodeBitStream extracts the byte-mode payload from corrected data
// codewords. Segments are concatenated until a terminator or until fewer
// than four bits remain.
func DecodeBitStream(data []byte, version *symbol.Version) ([]byte, error) {
	bs := bitutil.NewBitSource(data)
	var payload []byte
	for bs.Available() >= 4 {
		modeBits, err := bs.ReadBits(4)
		if err != nil {
			return nil, fmt.Errorf("qrcode: %v: %w", err, billprint.ErrFormat)
		}
		switch symbol.Mode(modeBits) {
		case symbol.ModeTerminator:
			return payload, nil
		case symbol.ModeByte:
			countBits := symbol.ModeByte.CharacterCountBits(version)
			if bs.Available() < countBits {
				return nil, fmt.Errorf("qrcode: truncated character count: %w", billprint.ErrFormat)
			}
			count, _ := bs.ReadBits(countBits)
			if bs.Available() < 8*count {
				return nil, fmt.Errorf("qrcode: byte segment of %d bytes overruns data: %w", count, billprint.ErrFormat)
			}
			for i := 0; i < count; i++ {
				b, _ := bs.ReadBits(8)
				payload = append(payload, byte(b))
			}
		default:
			return nil, fmt.Errorf("qrcode: unsupported mode %04b: %w", modeBits, billprint.ErrFormat)
		}
	}
	return payload, nil
}

package decoder

import (
	"fmt"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/qrcode/symbol"
)

// DataBlock is one Reed-Solomon block: data codewords followed by its EC
// codewords.
type DataBlock struct {
	NumDataCodewords int
	Codewords        []byte
}

// GetDataBlocks undoes the column-wise interleaving of rawCodewords into the
// version's blocks at the given level.
func GetDataBlocks(rawCodewords []byte, version *symbol.Version, ecLevel symbol.ErrorCorrectionLevel) ([]DataBlock, error) {
	if len(rawCodewords) != version.TotalCodewords {
		return nil, fmt.Errorf("qrcode: %d codewords for version %d: %w", len(rawCodewords), version.Number, billprint.ErrFormat)
	}

	rsBlocks := version.ECBlocksForLevel(ecLevel).RSBlocks()
	result := make([]DataBlock, len(rsBlocks))
	maxData, maxEC := 0, 0
	for i, b := range rsBlocks {
		result[i] = DataBlock{NumDataCodewords: b.DataCount, Codewords: make([]byte, b.TotalCount)}
		maxData = max(maxData, b.DataCount)
		maxEC = max(maxEC, b.ECCount())
	}

	offset := 0
	for i := 0; i < maxData; i++ {
		for j := range result {
			if i < result[j].NumDataCodewords {
				result[j].Codewords[i] = rawCodewords[offset]
				offset++
			}
		}
	}
	for i := 0; i < maxEC; i++ {
		for j := range result {
			if i < len(result[j].Codewords)-result[j].NumDataCodewords {
				result[j].Codewords[result[j].NumDataCodewords+i] = rawCodewords[offset]
				offset++
			}
		}
	}
	return result, nil
}

package encoder

import (
	"math"

	"github.com/ericlevine/billprint/qrcode/symbol"
)

// Penalty weights from ISO/IEC 18004 section 8.8.2.
const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

// finderLike is the 1:1:3:1:1 dark/light run of rule 3.
var finderLike = [7]bool{true, false, true, true, true, false, true}

// chooseMaskPattern builds the symbol under every mask and returns the one
// with the lowest penalty. Ties go to the lower mask number.
func chooseMaskPattern(codewords []byte, ecLevel symbol.ErrorCorrectionLevel,
	version *symbol.Version, matrix *ModuleMatrix) (int, error) {

	minPenalty := math.MaxInt32
	bestPattern := DefaultMaskPattern
	for i := 0; i < symbol.NumMaskPatterns; i++ {
		if err := buildMatrix(codewords, ecLevel, version, i, matrix); err != nil {
			return 0, err
		}
		penalty := MaskPenalty(matrix)
		if penalty < minPenalty {
			minPenalty = penalty
			bestPattern = i
		}
	}
	return bestPattern, nil
}

// MaskPenalty scores a finished symbol with the four penalty rules. Lower
// is better.
func MaskPenalty(matrix *ModuleMatrix) int {
	return penaltyRule1(matrix) + penaltyRule2(matrix) + penaltyRule3(matrix) + penaltyRule4(matrix)
}

// penaltyRule1 charges runs of five or more same-colored modules in a row or
// column.
func penaltyRule1(matrix *ModuleMatrix) int {
	d := matrix.Dimension()
	penalty := 0
	for _, horizontal := range []bool{true, false} {
		for i := 0; i < d; i++ {
			run := 0
			var prev Module
			for j := 0; j < d; j++ {
				x, y := j, i
				if !horizontal {
					x, y = i, j
				}
				cur := matrix.Get(x, y)
				if j > 0 && cur == prev {
					run++
					continue
				}
				penalty += runPenalty(run)
				run = 1
				prev = cur
			}
			penalty += runPenalty(run)
		}
	}
	return penalty
}

func runPenalty(run int) int {
	if run < 5 {
		return 0
	}
	return penaltyN1 + run - 5
}

// penaltyRule2 charges every 2x2 block of a single color.
func penaltyRule2(matrix *ModuleMatrix) int {
	d := matrix.Dimension()
	penalty := 0
	for y := 0; y < d-1; y++ {
		for x := 0; x < d-1; x++ {
			v := matrix.Get(x, y)
			if v == matrix.Get(x+1, y) && v == matrix.Get(x, y+1) && v == matrix.Get(x+1, y+1) {
				penalty += penaltyN2
			}
		}
	}
	return penalty
}

// penaltyRule3 charges finder-like sequences with four light modules on
// either side.
func penaltyRule3(matrix *ModuleMatrix) int {
	d := matrix.Dimension()
	penalty := 0
	for a := 0; a < d; a++ {
		for b := 0; b+len(finderLike) <= d; b++ {
			if finderLikeAt(matrix, a, b, true) {
				penalty += penaltyN3
			}
			if finderLikeAt(matrix, a, b, false) {
				penalty += penaltyN3
			}
		}
	}
	return penalty
}

// finderLikeAt checks the line a (row when horizontal, column otherwise)
// for the finder-like run starting at offset b.
func finderLikeAt(matrix *ModuleMatrix, a, b int, horizontal bool) bool {
	dark := func(k int) bool {
		if horizontal {
			return matrix.IsDark(k, a)
		}
		return matrix.IsDark(a, k)
	}
	for k, want := range finderLike {
		if dark(b+k) != want {
			return false
		}
	}
	return lightRun(dark, b-4, b, matrix.Dimension()) ||
		lightRun(dark, b+7, b+11, matrix.Dimension())
}

// lightRun reports whether positions [from, to) are in bounds and light.
func lightRun(dark func(int) bool, from, to, limit int) bool {
	if from < 0 || to > limit {
		return false
	}
	for k := from; k < to; k++ {
		if dark(k) {
			return false
		}
	}
	return true
}

// penaltyRule4 charges 10 points for every full 5% the proportion of dark
// modules deviates from one half.
func penaltyRule4(matrix *ModuleMatrix) int {
	d := matrix.Dimension()
	numDark := 0
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			if matrix.IsDark(x, y) {
				numDark++
			}
		}
	}
	total := d * d
	return abs(numDark*2-total) * 10 / total * penaltyN4
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package bitutil

import (
	"math/bits"
	"strings"
)

// BitMatrix represents a 2D matrix of bits.
// x is the column position, y is the row position. The origin is at the top-left.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint64
}

// NewBitMatrix creates a new square BitMatrix with the given dimension.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

// NewBitMatrixWithSize creates a new BitMatrix with the given width and height.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitmatrix: dimensions must be greater than 0")
	}
	rowSize := (width + 63) / 64
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		data:    make([]uint64, rowSize*height),
	}
}

// ParseStringMatrix creates a BitMatrix from rows separated by newlines,
// where setStr marks a set bit and unsetStr an unset one.
func ParseStringMatrix(repr, setStr, unsetStr string) *BitMatrix {
	var rows [][]bool
	for _, line := range strings.Split(repr, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		var row []bool
		for len(line) > 0 {
			switch {
			case strings.HasPrefix(line, setStr):
				row = append(row, true)
				line = line[len(setStr):]
			case strings.HasPrefix(line, unsetStr):
				row = append(row, false)
				line = line[len(unsetStr):]
			default:
				panic("bitmatrix: illegal character encountered: " + line[:1])
			}
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			panic("bitmatrix: row lengths do not match")
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		panic("bitmatrix: empty representation")
	}
	bm := NewBitMatrixWithSize(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, v := range row {
			if v {
				bm.Set(x, y)
			}
		}
	}
	return bm
}

func (bm *BitMatrix) offset(x, y int) (int, uint64) {
	return y*bm.rowSize + x/64, 1 << uint(x&0x3f)
}

// Get returns true if the bit at (x, y) is set.
func (bm *BitMatrix) Get(x, y int) bool {
	i, mask := bm.offset(x, y)
	return bm.data[i]&mask != 0
}

// Set sets the bit at (x, y).
func (bm *BitMatrix) Set(x, y int) {
	i, mask := bm.offset(x, y)
	bm.data[i] |= mask
}

// Unset clears the bit at (x, y).
func (bm *BitMatrix) Unset(x, y int) {
	i, mask := bm.offset(x, y)
	bm.data[i] &^= mask
}

// Flip flips the bit at (x, y).
func (bm *BitMatrix) Flip(x, y int) {
	i, mask := bm.offset(x, y)
	bm.data[i] ^= mask
}

// SetRegion sets a rectangular region of bits.
func (bm *BitMatrix) SetRegion(left, top, width, height int) {
	if top < 0 || left < 0 {
		panic("bitmatrix: left and top must be nonnegative")
	}
	if height < 1 || width < 1 {
		panic("bitmatrix: height and width must be at least 1")
	}
	right := left + width
	bottom := top + height
	if bottom > bm.height || right > bm.width {
		panic("bitmatrix: region must fit inside the matrix")
	}
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			bm.Set(x, y)
		}
	}
}

// CountSet returns the number of set bits.
func (bm *BitMatrix) CountSet() int {
	n := 0
	for _, w := range bm.data {
		n += bits.OnesCount64(w)
	}
	return n
}

// TopLeftOnBit returns the [x, y] of the first set bit in row-major order,
// or nil if no bit is set.
func (bm *BitMatrix) TopLeftOnBit() []int {
	i := 0
	for i < len(bm.data) && bm.data[i] == 0 {
		i++
	}
	if i == len(bm.data) {
		return nil
	}
	x := (i%bm.rowSize)*64 + bits.TrailingZeros64(bm.data[i])
	return []int{x, i / bm.rowSize}
}

// BottomRightOnBit returns the [x, y] of the last set bit in row-major
// order, or nil if no bit is set.
func (bm *BitMatrix) BottomRightOnBit() []int {
	i := len(bm.data) - 1
	for i >= 0 && bm.data[i] == 0 {
		i--
	}
	if i < 0 {
		return nil
	}
	x := (i%bm.rowSize)*64 + 63 - bits.LeadingZeros64(bm.data[i])
	return []int{x, i / bm.rowSize}
}

// Width returns the width of the matrix.
func (bm *BitMatrix) Width() int { return bm.width }

// Height returns the height of the matrix.
func (bm *BitMatrix) Height() int { return bm.height }

// Clone returns a deep copy of the BitMatrix.
func (bm *BitMatrix) Clone() *BitMatrix {
	d := make([]uint64, len(bm.data))
	copy(d, bm.data)
	return &BitMatrix{width: bm.width, height: bm.height, rowSize: bm.rowSize, data: d}
}

// String returns a string representation using "X " for set and "  " for unset.
func (bm *BitMatrix) String() string {
	return bm.StringWithChars("X ", "  ")
}

// StringWithChars returns a string representation using the given set/unset strings.
func (bm *BitMatrix) StringWithChars(setString, unsetString string) string {
	var sb strings.Builder
	sb.Grow(bm.height * (bm.width*len(setString) + 1))
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				sb.WriteString(setString)
			} else {
				sb.WriteString(unsetString)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Equals returns true if two BitMatrices are equal.
func (bm *BitMatrix) Equals(other *BitMatrix) bool {
	if bm.width != other.width || bm.height != other.height {
		return false
	}
	for i := range bm.data {
		if bm.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

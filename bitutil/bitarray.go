// Package bitutil provides the bit containers used while building symbols:
// an append-only bit stream for codeword assembly, a packed bit matrix for
// rendered output, and a reader for bit fields that straddle byte boundaries.
package bitutil

import "strings"

// BitArray is a growable sequence of bits stored most-significant bit first
// in a byte slice, so that the bytes can be handed out as codewords directly.
type BitArray struct {
	data []byte
	size int
}

// NewBitArray creates an empty BitArray with room for capacity bits.
func NewBitArray(capacity int) *BitArray {
	if capacity < 0 {
		capacity = 0
	}
	return &BitArray{data: make([]byte, 0, (capacity+7)/8)}
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int {
	return ba.size
}

// SizeInBytes returns the number of bytes needed to hold the bits.
func (ba *BitArray) SizeInBytes() int {
	return (ba.size + 7) / 8
}

// Get returns true if bit i is set.
func (ba *BitArray) Get(i int) bool {
	return ba.data[i>>3]&(0x80>>uint(i&7)) != 0
}

// AppendBit appends a single bit.
func (ba *BitArray) AppendBit(bit bool) {
	if ba.size&7 == 0 {
		ba.data = append(ba.data, 0)
	}
	if bit {
		ba.data[ba.size>>3] |= 0x80 >> uint(ba.size&7)
	}
	ba.size++
}

// AppendBits appends the least-significant numBits bits of value, from most
// significant to least significant.
func (ba *BitArray) AppendBits(value uint32, numBits int) {
	if numBits < 0 || numBits > 32 {
		panic("bitarray: numBits must be between 0 and 32")
	}
	for i := numBits - 1; i >= 0; i-- {
		ba.AppendBit(value&(1<<uint(i)) != 0)
	}
}

// AppendBytes appends every bit of b.
func (ba *BitArray) AppendBytes(b []byte) {
	if ba.size&7 == 0 {
		ba.data = append(ba.data, b...)
		ba.size += 8 * len(b)
		return
	}
	for _, c := range b {
		ba.AppendBits(uint32(c), 8)
	}
}

// Bytes returns a copy of the bits as bytes. A trailing partial byte is
// padded with zero bits.
func (ba *BitArray) Bytes() []byte {
	out := make([]byte, len(ba.data))
	copy(out, ba.data)
	return out
}

// String returns a string representation using 'X' for set and '.' for unset,
// with a space before every byte.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size + ba.size/8 + 1)
	for i := 0; i < ba.size; i++ {
		if i&0x07 == 0 {
			sb.WriteByte(' ')
		}
		if ba.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

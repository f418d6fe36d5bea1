package bitutil

import "fmt"

// BitSource reads bits from a byte sequence where the number of bits read
// is not necessarily a multiple of 8.
// Bits are read from the first byte first, from most-significant to least-significant.
type BitSource struct {
	bytes  []byte
	bitPos int
}

// NewBitSource creates a new BitSource from a byte slice.
func NewBitSource(bytes []byte) *BitSource {
	return &BitSource{bytes: bytes}
}

// ByteOffset returns the index of the byte holding the next bit.
func (bs *BitSource) ByteOffset() int {
	return bs.bitPos / 8
}

// ReadBits reads numBits bits and returns them as the least-significant bits of an int.
func (bs *BitSource) ReadBits(numBits int) (int, error) {
	if numBits < 1 || numBits > 32 || numBits > bs.Available() {
		return 0, fmt.Errorf("bitsource: cannot read %d bits, %d available", numBits, bs.Available())
	}
	result := 0
	for i := 0; i < numBits; i++ {
		b := bs.bytes[bs.bitPos/8] >> uint(7-bs.bitPos%8) & 1
		result = result<<1 | int(b)
		bs.bitPos++
	}
	return result, nil
}

// Available returns the number of bits that can still be read.
func (bs *BitSource) Available() int {
	return 8*len(bs.bytes) - bs.bitPos
}

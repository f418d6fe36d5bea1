package billprint

import "errors"

var (
	// ErrDataTooLarge is returned when the payload does not fit the largest
	// supported QR version at the requested error correction level.
	ErrDataTooLarge = errors.New("data too large")

	// ErrInvalidParameter is returned for caller contract violations: an
	// unknown error correction level, mask pattern, version or character set,
	// a non-positive EC codeword count, or bad image dimensions.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidOperand is returned by field arithmetic that has no result,
	// such as the logarithm or inverse of zero.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrWriter is returned when an encoder breaks one of its own invariants.
	ErrWriter = errors.New("writer error")

	// ErrFormat is returned when a symbol cannot be read back.
	ErrFormat = errors.New("format error")

	// ErrChecksum is returned when a symbol has more codeword errors than its
	// error correction can repair.
	ErrChecksum = errors.New("checksum error")
)

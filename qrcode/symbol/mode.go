package symbol

// Mode represents a QR code data encoding mode. Only byte mode is produced;
// the terminator is recognized when reading a symbol back.
type Mode int

const (
	ModeTerminator Mode = 0x00
	ModeByte       Mode = 0x04
)

// Bits returns the 4-bit mode indicator.
func (m Mode) Bits() int {
	return int(m)
}

// CharacterCountBits returns the width of the character count field for this
// mode in the given version.
func (m Mode) CharacterCountBits(version *Version) int {
	if m != ModeByte {
		return 0
	}
	if version.Number <= 9 {
		return 8
	}
	return 16
}

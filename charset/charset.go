// Package charset transcodes QR payloads between UTF-8 strings and the byte
// sequences of a named character set.
//
// Names are IANA character set names or aliases, matched case-insensitively
// ("UTF-8", "ISO-8859-1", "Shift_JIS", "windows-1252", ...). The empty name
// means UTF-8, which passes bytes through unchanged.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/ericlevine/billprint"
)

const (
	UTF8      = "UTF-8"
	ISO8859_1 = "ISO-8859-1"
)

// Lookup returns the encoding registered under name. It returns a nil
// encoding and no error for UTF-8.
func Lookup(name string) (encoding.Encoding, error) {
	if isUTF8(name) {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("charset: unsupported character set %q: %w", name, billprint.ErrInvalidParameter)
	}
	return enc, nil
}

// Encode converts s to the bytes of the named character set. Runes the
// character set cannot represent are an error.
func Encode(s, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("charset: %q not representable in %s: %w", s, name, billprint.ErrInvalidParameter)
	}
	return out, nil
}

// Decode converts bytes in the named character set to a UTF-8 string.
func Decode(b []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(b), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("charset: decode %s: %w", name, billprint.ErrFormat)
	}
	return string(out), nil
}

// Guess names the character set a byte-mode payload was most likely written
// in when the symbol does not say: UTF-8 if the bytes are valid UTF-8,
// otherwise ISO-8859-1, the QR default for byte mode.
func Guess(b []byte) string {
	if utf8.Valid(b) {
		return UTF8
	}
	return ISO8859_1
}

// DecodeGuess decodes b with the character set Guess picks.
func DecodeGuess(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(out)
}

func isUTF8(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "UTF-8", "UTF8":
		return true
	}
	return false
}

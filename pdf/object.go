package pdf

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Object is a direct PDF value.
type Object interface {
	PDF(w io.Writer) error
}

// Name is a PDF name object, written with a leading slash.
type Name string

// PDF implements the Object interface.
func (n Name) PDF(w io.Writer) error {
	var sb strings.Builder
	sb.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c < '!' || c > '~' || c == '#' || strings.IndexByte("()<>[]{}/%", c) >= 0 {
			fmt.Fprintf(&sb, "#%02X", c)
			continue
		}
		sb.WriteByte(c)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Integer is a PDF integer.
type Integer int64

// PDF implements the Object interface.
func (x Integer) PDF(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatInt(int64(x), 10))
	return err
}

// Real is a PDF real number. It is written in fixed-point notation with at
// most four decimals, trailing zeros removed.
type Real float64

// PDF implements the Object interface.
func (x Real) PDF(w io.Writer) error {
	_, err := io.WriteString(w, formatReal(float64(x)))
	return err
}

func formatReal(x float64) string {
	s := strconv.FormatFloat(x, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

// Reference is an indirect reference to the object with the given id.
type Reference int

// PDF implements the Object interface.
func (r Reference) PDF(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d 0 R", int(r))
	return err
}

// Array is a PDF array.
type Array []Object

// PDF implements the Object interface.
func (a Array) PDF(w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, obj := range a {
		if i > 0 {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		if err := obj.PDF(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

// Dict is a PDF dictionary. Keys are written in sorted order so output is
// deterministic.
type Dict map[Name]Object

// PDF implements the Object interface.
func (d Dict) PDF(w io.Writer) error {
	keys := make([]Name, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	if _, err := io.WriteString(w, "<<"); err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		if err := k.PDF(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		if err := d[k].PDF(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, " >>")
	return err
}

// Rectangle returns the array [llx lly urx ury].
func Rectangle(llx, lly, urx, ury float64) Array {
	return Array{Real(llx), Real(lly), Real(urx), Real(ury)}
}

// Package pdf writes minimal PDF 1.3 files holding one page with one JPEG
// image.
//
// A Document is an arena of indirect objects addressed by sequential ids.
// Ids are handed out by Alloc before the objects that cite them are built,
// so a dictionary can reference an object that is stored later. Nothing is
// written until Bytes, which emits the objects in id order while recording
// each byte offset for the cross-reference table.
package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ericlevine/billprint"
)

// Header is the first line of every file.
const Header = "%PDF-1.3\n"

// binaryMarker is the comment after the header that marks the file as
// binary for transfer programs.
const binaryMarker = "%\xe2\xe3\xcf\xd3\n"

type slot struct {
	dict   Dict
	obj    Object
	stream []byte
	filled bool
}

// Document accumulates the indirect objects of a PDF file.
type Document struct {
	slots []slot
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Alloc reserves the next object id.
func (d *Document) Alloc() Reference {
	d.slots = append(d.slots, slot{})
	return Reference(len(d.slots))
}

// NumObjects returns the number of allocated ids.
func (d *Document) NumObjects() int {
	return len(d.slots)
}

func (d *Document) slot(ref Reference) (*slot, error) {
	if ref < 1 || int(ref) > len(d.slots) {
		return nil, fmt.Errorf("pdf: object %d not allocated: %w", int(ref), billprint.ErrInvalidParameter)
	}
	s := &d.slots[ref-1]
	if s.filled {
		return nil, fmt.Errorf("pdf: object %d stored twice: %w", int(ref), billprint.ErrWriter)
	}
	return s, nil
}

// Put stores obj under ref.
func (d *Document) Put(ref Reference, obj Object) error {
	s, err := d.slot(ref)
	if err != nil {
		return err
	}
	s.obj = obj
	s.filled = true
	return nil
}

// PutStream stores a stream object under ref. The /Length entry is set from
// data and overrides any value in dict.
func (d *Document) PutStream(ref Reference, dict Dict, data []byte) error {
	s, err := d.slot(ref)
	if err != nil {
		return err
	}
	full := make(Dict, len(dict)+1)
	for k, v := range dict {
		full[k] = v
	}
	full["Length"] = Integer(len(data))
	s.dict = full
	s.stream = data
	s.filled = true
	return nil
}

// Bytes serializes the document with root as the trailer's /Root. Every
// allocated id must have been stored.
func (d *Document) Bytes(root Reference) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.Serialize(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Serialize writes the document to w and returns the number of bytes
// written. See Bytes.
func (d *Document) Serialize(w io.Writer, root Reference) (int64, error) {
	if root < 1 || int(root) > len(d.slots) {
		return 0, fmt.Errorf("pdf: root %d not allocated: %w", int(root), billprint.ErrInvalidParameter)
	}
	for i, s := range d.slots {
		if !s.filled {
			return 0, fmt.Errorf("pdf: object %d allocated but never stored: %w", i+1, billprint.ErrWriter)
		}
	}

	pw := &posWriter{w: w}
	if _, err := io.WriteString(pw, Header+binaryMarker); err != nil {
		return pw.pos, err
	}

	xref := make([]int64, len(d.slots))
	for i, s := range d.slots {
		xref[i] = pw.pos
		if err := writeIndirect(pw, i+1, &s); err != nil {
			return pw.pos, err
		}
	}

	xrefPos := pw.pos
	fmt.Fprintf(pw, "xref\n0 %d\n0000000000 65535 f\r\n", len(d.slots)+1)
	for _, pos := range xref {
		fmt.Fprintf(pw, "%010d 00000 n\r\n", pos)
	}
	io.WriteString(pw, "trailer\n")
	trailer := Dict{
		"Size": Integer(len(d.slots) + 1),
		"Root": root,
	}
	if err := trailer.PDF(pw); err != nil {
		return pw.pos, err
	}
	fmt.Fprintf(pw, "\nstartxref\n%d\n%%%%EOF\n", xrefPos)
	return pw.pos, pw.err
}

func writeIndirect(w *posWriter, id int, s *slot) error {
	fmt.Fprintf(w, "%d 0 obj\n", id)
	if s.dict != nil {
		if err := s.dict.PDF(w); err != nil {
			return err
		}
		io.WriteString(w, "\nstream\n")
		w.Write(s.stream)
		io.WriteString(w, "\nendstream")
	} else if err := s.obj.PDF(w); err != nil {
		return err
	}
	io.WriteString(w, "\nendobj\n")
	return w.err
}

// posWriter tracks the number of bytes written and keeps the first error.
// Later writes after an error are dropped.
type posWriter struct {
	w   io.Writer
	pos int64
	err error
}

func (w *posWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.pos += int64(n)
	w.err = err
	return n, err
}

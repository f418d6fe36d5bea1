package pdf

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/ericlevine/billprint"
)

// PageSize is a page size in PDF points (1/72 inch).
type PageSize struct {
	Width, Height float64
}

var (
	// A4 is 210 x 297 mm.
	A4 = PageSize{Width: 595.28, Height: 841.89}
	// Letter is 8.5 x 11 in.
	Letter = PageSize{Width: 612, Height: 792}
)

// DefaultMargin is the blank border kept around the image, in points.
const DefaultMargin = 36.0

// imageName is the resource name the content stream draws.
const imageName = "Im0"

// Options configures the page. The zero value selects A4 and
// DefaultMargin.
type Options struct {
	PageSize PageSize
	// Margin overrides DefaultMargin when set.
	Margin *float64
}

func (o *Options) pageSize() PageSize {
	if o == nil || o.PageSize.Width <= 0 || o.PageSize.Height <= 0 {
		return A4
	}
	return o.PageSize
}

func (o *Options) margin() float64 {
	if o == nil || o.Margin == nil {
		return DefaultMargin
	}
	return *o.Margin
}

// Rect is a placement in PDF user space, origin at the bottom-left.
type Rect struct {
	X, Y, Width, Height float64
}

// Layout computes where an image of the given pixel size goes on the page.
// The image fills the printable width and is centered vertically; if that
// would overflow the printable height it is fitted to the height and
// centered horizontally instead. The aspect ratio is kept.
func Layout(pixelWidth, pixelHeight int, opts *Options) Rect {
	page := opts.pageSize()
	m := opts.margin()
	printableW := page.Width - 2*m
	printableH := page.Height - 2*m

	w := printableW
	h := w * float64(pixelHeight) / float64(pixelWidth)
	if h > printableH {
		h = printableH
		w = h * float64(pixelWidth) / float64(pixelHeight)
	}
	return Rect{
		X:      (page.Width - w) / 2,
		Y:      (page.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}

// Build returns a single-page A4 PDF showing jpegData, a baseline RGB JPEG
// of pixelWidth x pixelHeight pixels. The JPEG bytes are embedded unchanged
// and are not inspected.
func Build(jpegData []byte, pixelWidth, pixelHeight int) ([]byte, error) {
	return BuildWithOptions(jpegData, pixelWidth, pixelHeight, nil)
}

// BuildFromJPEG is Build with the pixel size read from the JPEG header.
func BuildFromJPEG(jpegData []byte, opts *Options) ([]byte, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(jpegData))
	if err != nil {
		return nil, fmt.Errorf("pdf: reading JPEG header: %v: %w", err, billprint.ErrInvalidParameter)
	}
	return BuildWithOptions(jpegData, cfg.Width, cfg.Height, opts)
}

// BuildWithOptions is Build with a configurable page size and margin.
//
// Objects are numbered in the order they are written: 1 catalog, 2 page
// tree, 3 image, 4 content stream, 5 page.
func BuildWithOptions(jpegData []byte, pixelWidth, pixelHeight int, opts *Options) ([]byte, error) {
	if len(jpegData) == 0 {
		return nil, fmt.Errorf("pdf: empty image data: %w", billprint.ErrInvalidParameter)
	}
	if pixelWidth <= 0 || pixelHeight <= 0 {
		return nil, fmt.Errorf("pdf: image size %dx%d: %w", pixelWidth, pixelHeight, billprint.ErrInvalidParameter)
	}
	page := opts.pageSize()
	if m := opts.margin(); m < 0 || 2*m >= page.Width || 2*m >= page.Height {
		return nil, fmt.Errorf("pdf: margin %v on %vx%v page: %w", m, page.Width, page.Height, billprint.ErrInvalidParameter)
	}

	doc := NewDocument()
	catalogRef := doc.Alloc()
	pagesRef := doc.Alloc()
	imageRef := doc.Alloc()
	contentRef := doc.Alloc()
	pageRef := doc.Alloc()

	err := doc.Put(catalogRef, Dict{
		"Type":  Name("Catalog"),
		"Pages": pagesRef,
	})
	if err != nil {
		return nil, err
	}
	err = doc.Put(pagesRef, Dict{
		"Type":  Name("Pages"),
		"Kids":  Array{pageRef},
		"Count": Integer(1),
	})
	if err != nil {
		return nil, err
	}
	err = doc.PutStream(imageRef, Dict{
		"Type":             Name("XObject"),
		"Subtype":          Name("Image"),
		"Width":            Integer(pixelWidth),
		"Height":           Integer(pixelHeight),
		"ColorSpace":       Name("DeviceRGB"),
		"BitsPerComponent": Integer(8),
		"Filter":           Name("DCTDecode"),
	}, jpegData)
	if err != nil {
		return nil, err
	}
	err = doc.PutStream(contentRef, Dict{}, ContentStream(Layout(pixelWidth, pixelHeight, opts)))
	if err != nil {
		return nil, err
	}
	err = doc.Put(pageRef, Dict{
		"Type":     Name("Page"),
		"Parent":   pagesRef,
		"MediaBox": Rectangle(0, 0, page.Width, page.Height),
		"Resources": Dict{
			"ProcSet": Array{Name("PDF"), Name("ImageC")},
			"XObject": Dict{imageName: imageRef},
		},
		"Contents": contentRef,
	})
	if err != nil {
		return nil, err
	}
	return doc.Bytes(catalogRef)
}

// ContentStream returns the page content that paints the image resource
// into r: the unit square is scaled and translated by cm.
func ContentStream(r Rect) []byte {
	return fmt.Appendf(nil, "q\n%s 0 0 %s %s %s cm\n/%s Do\nQ\n",
		formatReal(r.Width), formatReal(r.Height), formatReal(r.X), formatReal(r.Y), imageName)
}

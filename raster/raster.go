// Package raster renders a QR module matrix onto a white page canvas and
// encodes the page as a baseline JPEG, ready to be embedded in a PDF with the
// DCTDecode filter.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
)

// Rasterizer turns a rendered symbol into JPEG bytes.
type Rasterizer interface {
	Rasterize(matrix *bitutil.BitMatrix) (jpegData []byte, width, height int, err error)
}

// Default page geometry in pixels, an A4 sheet at roughly 193 dpi.
const (
	DefaultPageWidth  = 1600
	DefaultPageHeight = 2260
	DefaultQRSize     = 480
	DefaultQRMargin   = 96
	DefaultQuality    = 90
)

// Page rasterizes a symbol onto a white page. Zero fields take the defaults;
// the symbol goes to the bottom-right corner unless QRX and QRY are set.
type Page struct {
	Width, Height int
	// QRSize is the side of the square the symbol is scaled into.
	QRSize int
	// QRX and QRY position the top-left corner of the symbol square.
	QRX, QRY *int
	Quality  int
}

var _ Rasterizer = (*Page)(nil)

// NewPage returns a Page with the default geometry.
func NewPage() *Page {
	return &Page{}
}

// Bounds returns the page size and the rectangle the symbol occupies.
func (p *Page) Bounds() (width, height int, qr image.Rectangle) {
	width = orDefault(p.Width, DefaultPageWidth)
	height = orDefault(p.Height, DefaultPageHeight)
	size := orDefault(p.QRSize, DefaultQRSize)
	x := width - DefaultQRMargin - size
	y := height - DefaultQRMargin - size
	if p.QRX != nil {
		x = *p.QRX
	}
	if p.QRY != nil {
		y = *p.QRY
	}
	return width, height, image.Rect(x, y, x+size, y+size)
}

// Rasterize draws matrix, scaled with nearest-neighbour sampling so module
// edges stay sharp, onto the page and returns the JPEG encoding.
func (p *Page) Rasterize(matrix *bitutil.BitMatrix) ([]byte, int, int, error) {
	if matrix == nil {
		return nil, 0, 0, fmt.Errorf("raster: nil matrix: %w", billprint.ErrInvalidParameter)
	}
	width, height, qr := p.Bounds()
	if width <= 0 || height <= 0 || qr.Dx() <= 0 {
		return nil, 0, 0, fmt.Errorf("raster: page %dx%d with symbol %v: %w", width, height, qr, billprint.ErrInvalidParameter)
	}
	if !qr.In(image.Rect(0, 0, width, height)) {
		return nil, 0, 0, fmt.Errorf("raster: symbol %v outside %dx%d page: %w", qr, width, height, billprint.ErrInvalidParameter)
	}
	quality := orDefault(p.Quality, DefaultQuality)
	if quality < 1 || quality > 100 {
		return nil, 0, 0, fmt.Errorf("raster: JPEG quality %d: %w", quality, billprint.ErrInvalidParameter)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(canvas, qr, MatrixImage(matrix), image.Rect(0, 0, matrix.Width(), matrix.Height()), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, 0, 0, fmt.Errorf("raster: %w", err)
	}
	return buf.Bytes(), width, height, nil
}

// MatrixImage returns a grayscale image with one pixel per bit: black where
// a bit is set, white elsewhere.
func MatrixImage(matrix *bitutil.BitMatrix) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, matrix.Width(), matrix.Height()))
	for y := 0; y < matrix.Height(); y++ {
		for x := 0; x < matrix.Width(); x++ {
			c := color.Gray{Y: 0xff}
			if matrix.Get(x, y) {
				c.Y = 0
			}
			img.SetGray(x, y, c)
		}
	}
	return img
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

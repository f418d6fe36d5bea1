package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/jpeg"
	"os"
	"strings"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/pdf"
	"github.com/ericlevine/billprint/qrcode"
	"github.com/ericlevine/billprint/raster"
)

func main() {
	output := flag.String("o", "invoice.pdf", "output PDF file")
	ecLevel := flag.String("ec", "M", "error correction level (L, M, Q or H)")
	charset := flag.String("charset", "", "character set of the QR payload (default UTF-8)")
	version := flag.Int("version", 0, "force QR version 1-10")
	mask := flag.Int("mask", -1, "force mask pattern 0-7")
	autoMask := flag.Bool("auto-mask", false, "choose the mask pattern with the lowest penalty")
	quietZone := flag.Int("quiet-zone", 4, "quiet zone around the symbol, in modules")
	pageName := flag.String("page", "a4", "page size (a4 or letter)")
	margin := flag.Float64("margin", pdf.DefaultMargin, "page margin in points")
	verify := flag.Bool("verify", false, "read the symbol back from the rendered page before writing")
	printSymbol := flag.Bool("print", false, "print the symbol to stdout")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: invoiceprint [flags] <url>\n\n")
		fmt.Fprintf(os.Stderr, "Render a verification URL as a QR code on a page and write it as a PDF.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	url := flag.Arg(0)

	opts := &billprint.EncodeOptions{
		ErrorCorrection: *ecLevel,
		CharacterSet:    *charset,
		Margin:          quietZone,
		QRVersion:       *version,
		QRAutoMask:      *autoMask,
	}
	if *mask >= 0 {
		opts.QRMaskPattern = mask
	}

	pageSize, err := parsePageSize(*pageName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(url, *output, opts, &pdf.Options{PageSize: pageSize, Margin: margin}, *verify, *printSymbol); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(url, output string, opts *billprint.EncodeOptions, pdfOpts *pdf.Options, verify, printSymbol bool) error {
	code, err := qrcode.Encode(url, opts)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if printSymbol {
		fmt.Print(code.String())
	}

	symbol, err := qrcode.NewWriter().Encode(url, 0, 0, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	page := raster.NewPage()
	jpegData, width, height, err := page.Rasterize(symbol)
	if err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}

	if verify {
		if err := verifyPage(jpegData, url, opts.CharacterSet); err != nil {
			return err
		}
	}

	doc, err := pdf.BuildWithOptions(jpegData, width, height, pdfOpts)
	if err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := os.WriteFile(output, doc, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s: version %d-%s mask %d, %d bytes\n",
		output, code.Version.Number, code.ECLevel, code.MaskPattern, len(doc))
	return nil
}

func verifyPage(jpegData []byte, want, characterSet string) error {
	img, err := jpeg.Decode(bytes.NewReader(jpegData))
	if err != nil {
		return fmt.Errorf("verify: decode page: %w", err)
	}
	bits, err := raster.Binarize(img)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	got, err := qrcode.VerifyCharset(bits, characterSet)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if got != want {
		return fmt.Errorf("verify: read back %q, want %q", got, want)
	}
	return nil
}

func parsePageSize(name string) (pdf.PageSize, error) {
	switch strings.ToLower(name) {
	case "a4":
		return pdf.A4, nil
	case "letter":
		return pdf.Letter, nil
	}
	return pdf.PageSize{}, fmt.Errorf("unknown page size %q: %w", name, billprint.ErrInvalidParameter)
}

package qrcode

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
	"github.com/ericlevine/billprint/qrcode/symbol"
)

func testRoundTrip(t *testing.T, contents string, opts *billprint.EncodeOptions) {
	t.Helper()
	image, err := NewWriter().Encode(contents, 0, 0, opts)
	if err != nil {
		t.Fatalf("Encode(%q): %v", contents, err)
	}
	got, err := Verify(image)
	if err != nil {
		t.Fatalf("Verify(%q): %v", contents, err)
	}
	if got != contents {
		t.Fatalf("Verify = %q, want %q", got, contents)
	}
}

func TestRoundTripAllECLevels(t *testing.T) {
	for _, level := range []string{"L", "M", "Q", "H"} {
		t.Run(level, func(t *testing.T) {
			testRoundTrip(t, "https://billing.example.com/verify/INV-2024-0042", &billprint.EncodeOptions{ErrorCorrection: level})
		})
	}
}

func TestRoundTripAllVersions(t *testing.T) {
	for version := 1; version <= symbol.MaxVersion; version++ {
		for _, level := range []string{"L", "H"} {
			t.Run(fmt.Sprintf("%d-%s", version, level), func(t *testing.T) {
				testRoundTrip(t, "v", &billprint.EncodeOptions{ErrorCorrection: level, QRVersion: version})
			})
		}
	}
}

func TestRoundTripFullCapacity(t *testing.T) {
	// 119 bytes is the most version 10-H holds.
	contents := strings.Repeat("0123456789abcdef", 8)[:119]
	code, err := Encode(contents, &billprint.EncodeOptions{ErrorCorrection: "H"})
	if err != nil {
		t.Fatal(err)
	}
	if code.Version.Number != 10 {
		t.Errorf("version = %d, want 10", code.Version.Number)
	}
	testRoundTrip(t, contents, &billprint.EncodeOptions{ErrorCorrection: "H"})
}

func TestRoundTripMasks(t *testing.T) {
	for mask := 0; mask < symbol.NumMaskPatterns; mask++ {
		m := mask
		t.Run(fmt.Sprint(mask), func(t *testing.T) {
			testRoundTrip(t, "masked payload", &billprint.EncodeOptions{QRMaskPattern: &m})
		})
	}
	t.Run("auto", func(t *testing.T) {
		testRoundTrip(t, "masked payload", &billprint.EncodeOptions{QRAutoMask: true})
	})
}

func TestRoundTripScaled(t *testing.T) {
	margin := 2
	image, err := NewWriter().Encode("scaled", 200, 240, &billprint.EncodeOptions{Margin: &margin})
	if err != nil {
		t.Fatal(err)
	}
	if image.Width() != 200 || image.Height() != 240 {
		t.Fatalf("size = %dx%d, want 200x240", image.Width(), image.Height())
	}
	got, err := Verify(image)
	if err != nil {
		t.Fatal(err)
	}
	if got != "scaled" {
		t.Errorf("Verify = %q, want %q", got, "scaled")
	}
}

func TestRoundTripCharset(t *testing.T) {
	opts := &billprint.EncodeOptions{CharacterSet: "ISO-8859-1"}
	image, err := NewWriter().Encode("Grüße, café", 0, 0, opts)
	if err != nil {
		t.Fatal(err)
	}
	got, err := VerifyCharset(image, "ISO-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Grüße, café" {
		t.Errorf("VerifyCharset = %q", got)
	}
	guessed, err := Verify(image)
	if err != nil {
		t.Fatal(err)
	}
	if guessed != "Grüße, café" {
		t.Errorf("Verify = %q", guessed)
	}

	result, err := VerifyResult(image)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Content) != 11 {
		t.Errorf("payload is %d bytes, want 11", len(result.Content))
	}
}

func TestEncodeDefaults(t *testing.T) {
	code, err := Encode("hello", nil)
	if err != nil {
		t.Fatal(err)
	}
	if code.ECLevel != symbol.ECLevelM {
		t.Errorf("level = %s, want M", code.ECLevel)
	}
	if code.MaskPattern != 0 {
		t.Errorf("mask = %d, want 0", code.MaskPattern)
	}
	if code.Version.Number != 1 {
		t.Errorf("version = %d, want 1", code.Version.Number)
	}
}

func TestEncodeMaskOverridesAuto(t *testing.T) {
	mask := 5
	code, err := Encode("hello", &billprint.EncodeOptions{QRMaskPattern: &mask, QRAutoMask: true})
	if err != nil {
		t.Fatal(err)
	}
	if code.MaskPattern != 5 {
		t.Errorf("mask = %d, want 5", code.MaskPattern)
	}
}

func TestEncodeErrors(t *testing.T) {
	badMask := 8
	autoAsMask := -1
	tests := []struct {
		name     string
		contents string
		opts     *billprint.EncodeOptions
		want     error
	}{
		{"level", "x", &billprint.EncodeOptions{ErrorCorrection: "X"}, billprint.ErrInvalidParameter},
		{"charset", "x", &billprint.EncodeOptions{CharacterSet: "bogus"}, billprint.ErrInvalidParameter},
		{"mask", "x", &billprint.EncodeOptions{QRMaskPattern: &badMask}, billprint.ErrInvalidParameter},
		{"negative mask", "x", &billprint.EncodeOptions{QRMaskPattern: &autoAsMask}, billprint.ErrInvalidParameter},
		{"version", "x", &billprint.EncodeOptions{QRVersion: 11}, billprint.ErrInvalidParameter},
		{"too large", strings.Repeat("x", 3000), &billprint.EncodeOptions{ErrorCorrection: "H"}, billprint.ErrDataTooLarge},
		{"forced too small", strings.Repeat("x", 30), &billprint.EncodeOptions{QRVersion: 1}, billprint.ErrDataTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(tc.contents, tc.opts)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestWriterErrors(t *testing.T) {
	w := NewWriter()
	if _, err := w.Encode("", 100, 100, nil); !errors.Is(err, billprint.ErrInvalidParameter) {
		t.Errorf("empty contents: err = %v", err)
	}
	if _, err := w.Encode("x", -1, 100, nil); !errors.Is(err, billprint.ErrInvalidParameter) {
		t.Errorf("negative width: err = %v", err)
	}
	margin := -1
	if _, err := w.Encode("x", 0, 0, &billprint.EncodeOptions{Margin: &margin}); !errors.Is(err, billprint.ErrInvalidParameter) {
		t.Errorf("negative margin: err = %v", err)
	}
}

func TestWriterQuietZone(t *testing.T) {
	image, err := NewWriter().Encode("quiet", 0, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if image.Width() != 29 {
		t.Fatalf("width = %d, want 29", image.Width())
	}
	for i := 0; i < 29; i++ {
		for k := 0; k < 4; k++ {
			if image.Get(i, k) || image.Get(k, i) || image.Get(i, 28-k) || image.Get(28-k, i) {
				t.Fatalf("quiet zone module set near (%d,%d)", i, k)
			}
		}
	}
}

func TestVerifyBlank(t *testing.T) {
	_, err := Verify(bitutil.NewBitMatrix(40))
	if !errors.Is(err, billprint.ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

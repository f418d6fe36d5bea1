package encoder

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/qrcode/symbol"
	"github.com/google/go-cmp/cmp"
)

var allLevels = []symbol.ErrorCorrectionLevel{symbol.ECLevelL, symbol.ECLevelM, symbol.ECLevelQ, symbol.ECLevelH}

func TestAssembleDataCodewords(t *testing.T) {
	v, _ := symbol.GetVersionForNumber(1)
	got := assembleDataCodewords([]byte("A"), v, symbol.ECLevelM)
	want := make([]byte, 16)
	copy(want, []byte{0x40, 0x14, 0x10})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("data codewords mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleDataCodewordsVersion10Count(t *testing.T) {
	v, _ := symbol.GetVersionForNumber(10)
	got := assembleDataCodewords([]byte{0xff}, v, symbol.ECLevelH)
	// 0100, then a 16-bit count of 1, then 0xff.
	want := []byte{0x40, 0x00, 0x1f, 0xf0}
	if diff := cmp.Diff(want, got[:4]); diff != "" {
		t.Errorf("prefix mismatch (-want +got):\n%s", diff)
	}
	if len(got) != v.DataCapacity(symbol.ECLevelH) {
		t.Errorf("len = %d, want %d", len(got), v.DataCapacity(symbol.ECLevelH))
	}
}

func TestInterleaveMultiBlock(t *testing.T) {
	v, _ := symbol.GetVersionForNumber(5)
	ecb := v.ECBlocksForLevel(symbol.ECLevelQ)
	data := make([]byte, ecb.TotalDataCodewords())
	for i := range data {
		data[i] = byte(i)
	}
	got, err := interleaveWithECBytes(data, v.TotalCodewords, ecb)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 134 {
		t.Fatalf("len = %d, want 134", len(got))
	}
	// Blocks hold 15, 15, 16 and 16 data codewords.
	if diff := cmp.Diff([]byte{0, 15, 30, 46}, got[:4]); diff != "" {
		t.Errorf("first column mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{45, 61}, got[60:62]); diff != "" {
		t.Errorf("last data column mismatch (-want +got):\n%s", diff)
	}
	first, _ := rsEncoder.EncodeBlock(data[:15], 18)
	if got[62] != first[0] || got[66] != first[1] {
		t.Errorf("EC codewords of block 0 not interleaved")
	}
}

func TestChooseVersion(t *testing.T) {
	tests := []struct {
		numBytes int
		level    symbol.ErrorCorrectionLevel
		want     int
	}{
		{0, symbol.ECLevelM, 1},
		{14, symbol.ECLevelM, 1},
		{15, symbol.ECLevelM, 2},
		{17, symbol.ECLevelL, 1},
		{37, symbol.ECLevelM, 3},
		{230, symbol.ECLevelL, 9},
		{231, symbol.ECLevelL, 10},
		{119, symbol.ECLevelH, 10},
	}
	for _, tc := range tests {
		v, err := ChooseVersion(tc.numBytes, tc.level)
		if err != nil {
			t.Fatalf("ChooseVersion(%d, %s): %v", tc.numBytes, tc.level, err)
		}
		if v.Number != tc.want {
			t.Errorf("ChooseVersion(%d, %s) = %d, want %d", tc.numBytes, tc.level, v.Number, tc.want)
		}
	}
}

func TestChooseVersionTooLarge(t *testing.T) {
	for _, n := range []int{120, 3000} {
		_, err := ChooseVersion(n, symbol.ECLevelH)
		if !errors.Is(err, billprint.ErrDataTooLarge) {
			t.Errorf("ChooseVersion(%d, H) err = %v, want ErrDataTooLarge", n, err)
		}
	}
}

func TestEncodeURL(t *testing.T) {
	content := []byte("https://pay.example.com/i/7fA93kQ2xZ")
	content = append(content, '1')
	if len(content) != 37 {
		t.Fatalf("test content is %d bytes", len(content))
	}
	qr, err := Encode(content, symbol.ECLevelM, 0, DefaultMaskPattern)
	if err != nil {
		t.Fatal(err)
	}
	if qr.Version.Number != 3 {
		t.Errorf("version = %d, want 3", qr.Version.Number)
	}
	if qr.Matrix.Dimension() != 29 {
		t.Errorf("dimension = %d, want 29", qr.Matrix.Dimension())
	}
	if qr.MaskPattern != 0 {
		t.Errorf("mask = %d, want 0", qr.MaskPattern)
	}
	if len(qr.Codewords) != 70 {
		t.Errorf("codewords = %d, want 70", len(qr.Codewords))
	}
}

func TestEncodeTooLarge(t *testing.T) {
	_, err := Encode(bytes.Repeat([]byte{'x'}, 3000), symbol.ECLevelH, 0, DefaultMaskPattern)
	if !errors.Is(err, billprint.ErrDataTooLarge) {
		t.Fatalf("err = %v, want ErrDataTooLarge", err)
	}
}

func TestEncodeForcedVersion(t *testing.T) {
	qr, err := Encode([]byte("hi"), symbol.ECLevelL, 7, DefaultMaskPattern)
	if err != nil {
		t.Fatal(err)
	}
	if qr.Version.Number != 7 || qr.Matrix.Dimension() != 45 {
		t.Errorf("got version %d dimension %d", qr.Version.Number, qr.Matrix.Dimension())
	}

	_, err = Encode(bytes.Repeat([]byte{'x'}, 20), symbol.ECLevelL, 1, DefaultMaskPattern)
	if !errors.Is(err, billprint.ErrDataTooLarge) {
		t.Errorf("err = %v, want ErrDataTooLarge", err)
	}
	_, err = Encode([]byte("hi"), symbol.ECLevelL, 11, DefaultMaskPattern)
	if !errors.Is(err, billprint.ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestEncodeInvalidParameters(t *testing.T) {
	for _, mask := range []int{-2, 8} {
		_, err := Encode([]byte("hi"), symbol.ECLevelM, 0, mask)
		if !errors.Is(err, billprint.ErrInvalidParameter) {
			t.Errorf("mask %d: err = %v, want ErrInvalidParameter", mask, err)
		}
	}
	_, err := Encode([]byte("hi"), symbol.ErrorCorrectionLevel(9), 0, 0)
	if !errors.Is(err, billprint.ErrInvalidParameter) {
		t.Errorf("level 9: err = %v, want ErrInvalidParameter", err)
	}
}

func TestEncodeEveryVersionComplete(t *testing.T) {
	for number := 1; number <= symbol.MaxVersion; number++ {
		for _, level := range allLevels {
			v, _ := symbol.GetVersionForNumber(number)
			n := v.DataCapacity(level) - 3
			content := bytes.Repeat([]byte{0xa5}, n)
			qr, err := Encode(content, level, number, DefaultMaskPattern)
			if err != nil {
				t.Fatalf("version %d-%s: %v", number, level, err)
			}
			if got := qr.Matrix.CountUnassigned(); got != 0 {
				t.Errorf("version %d-%s: %d unassigned modules", number, level, got)
			}
			if got, want := qr.Matrix.Dimension(), 17+4*number; got != want {
				t.Errorf("version %d-%s: dimension %d, want %d", number, level, got, want)
			}
			checkStructure(t, qr)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := Encode([]byte("invoice 2291"), symbol.ECLevelQ, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encode([]byte("invoice 2291"), symbol.ECLevelQ, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("two encodings of the same input differ")
	}
	if strings.Contains(a.String(), "??") {
		t.Error("rendered symbol contains unassigned modules")
	}
}

func TestEncodeMasksDiffer(t *testing.T) {
	seen := make(map[string]int)
	for mask := 0; mask < symbol.NumMaskPatterns; mask++ {
		qr, err := Encode([]byte("mask test"), symbol.ECLevelM, 0, mask)
		if err != nil {
			t.Fatal(err)
		}
		if prev, ok := seen[qr.String()]; ok {
			t.Errorf("masks %d and %d produced the same symbol", prev, mask)
		}
		seen[qr.String()] = mask
		checkStructure(t, qr)
	}
}

func TestAutoMaskPicksLowestPenalty(t *testing.T) {
	content := []byte("https://example.com/invoices/2291")
	auto, err := Encode(content, symbol.ECLevelM, 0, AutoMaskPattern)
	if err != nil {
		t.Fatal(err)
	}
	if auto.MaskPattern < 0 || auto.MaskPattern >= symbol.NumMaskPatterns {
		t.Fatalf("mask = %d", auto.MaskPattern)
	}
	best := MaskPenalty(auto.Matrix)
	for mask := 0; mask < symbol.NumMaskPatterns; mask++ {
		qr, err := Encode(content, symbol.ECLevelM, 0, mask)
		if err != nil {
			t.Fatal(err)
		}
		if p := MaskPenalty(qr.Matrix); p < best {
			t.Errorf("mask %d penalty %d beats chosen mask %d penalty %d", mask, p, auto.MaskPattern, best)
		}
	}
}

func TestPenaltyRules(t *testing.T) {
	// An all-light 21x21 matrix: every row and column is one run of 21, every
	// 2x2 block is uniform, and the dark ratio is 0%.
	m := NewModuleMatrix(21)
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			m.Set(x, y, Light)
		}
	}
	if got, want := penaltyRule1(m), 42*(3+16); got != want {
		t.Errorf("rule 1 = %d, want %d", got, want)
	}
	if got, want := penaltyRule2(m), 20*20*3; got != want {
		t.Errorf("rule 2 = %d, want %d", got, want)
	}
	if got := penaltyRule3(m); got != 0 {
		t.Errorf("rule 3 = %d, want 0", got)
	}
	if got := penaltyRule4(m); got != 100 {
		t.Errorf("rule 4 = %d, want 100", got)
	}

	// One finder-like run in row 0 followed by four light modules.
	for k, dark := range finderLike {
		m.SetBool(k, 0, dark)
	}
	if got := penaltyRule3(m); got != 40 {
		t.Errorf("rule 3 with one pattern = %d, want 40", got)
	}
}

func TestRenderResult(t *testing.T) {
	qr, err := Encode([]byte("render"), symbol.ECLevelL, 0, DefaultMaskPattern)
	if err != nil {
		t.Fatal(err)
	}
	out := RenderResult(qr, 0, 0, 4)
	if out.Width() != 29 || out.Height() != 29 {
		t.Fatalf("size = %dx%d, want 29x29", out.Width(), out.Height())
	}
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			if out.Get(x+4, y+4) != qr.Matrix.IsDark(x, y) {
				t.Fatalf("module (%d,%d) differs", x, y)
			}
		}
	}

	scaled := RenderResult(qr, 100, 100, 4)
	if scaled.Width() != 100 || scaled.Height() != 100 {
		t.Fatalf("size = %dx%d, want 100x100", scaled.Width(), scaled.Height())
	}
	// 100/29 = 3 pixels per module; symbol starts at (100-63)/2 = 18.
	if !scaled.Get(18, 18) || !scaled.Get(20, 20) || scaled.Get(17, 17) {
		t.Error("scaled finder corner misplaced")
	}
}

func TestModuleMatrixString(t *testing.T) {
	m := NewModuleMatrix(2)
	m.Set(0, 0, Dark)
	m.Set(1, 0, Light)
	if got, want := m.String(), "##  \n????\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if m.CountUnassigned() != 2 {
		t.Errorf("CountUnassigned() = %d, want 2", m.CountUnassigned())
	}
	bm := m.ToBitMatrix()
	if !bm.Get(0, 0) || bm.Get(1, 0) || bm.Get(0, 1) {
		t.Error("ToBitMatrix mismatch")
	}
}

// checkStructure verifies the finder, timing, dark module and format
// information of a finished symbol.
func checkStructure(t *testing.T, qr *QRCode) {
	t.Helper()
	m := qr.Matrix
	d := m.Dimension()

	for _, corner := range [][2]int{{0, 0}, {d - 7, 0}, {0, d - 7}} {
		for dy := 0; dy < 7; dy++ {
			for dx := 0; dx < 7; dx++ {
				ring := dx == 0 || dx == 6 || dy == 0 || dy == 6
				core := dx >= 2 && dx <= 4 && dy >= 2 && dy <= 4
				if m.IsDark(corner[0]+dx, corner[1]+dy) != (ring || core) {
					t.Fatalf("version %d: finder at %v wrong at (%d,%d)", qr.Version.Number, corner, dx, dy)
				}
			}
		}
	}
	// Separators.
	for k := 0; k < 8; k++ {
		if m.IsDark(7, k) || m.IsDark(k, 7) || m.IsDark(d-8, k) || m.IsDark(k, d-8) {
			t.Fatalf("version %d: separator module dark at %d", qr.Version.Number, k)
		}
	}

	for i := 8; i < d-8; i++ {
		if m.IsDark(i, 6) != (i%2 == 0) || m.IsDark(6, i) != (i%2 == 0) {
			t.Fatalf("version %d: timing wrong at %d", qr.Version.Number, i)
		}
	}

	if !m.IsDark(8, d-8) {
		t.Fatalf("version %d: dark module missing", qr.Version.Number)
	}

	bit := func(x, y int, v int) int {
		if m.IsDark(x, y) {
			return v<<1 | 1
		}
		return v << 1
	}
	info1 := 0
	for x := 0; x < 6; x++ {
		info1 = bit(x, 8, info1)
	}
	info1 = bit(7, 8, info1)
	info1 = bit(8, 8, info1)
	info1 = bit(8, 7, info1)
	for y := 5; y >= 0; y-- {
		info1 = bit(8, y, info1)
	}
	info2 := 0
	for y := d - 1; y >= d-7; y-- {
		info2 = bit(8, y, info2)
	}
	for x := d - 8; x < d; x++ {
		info2 = bit(x, 8, info2)
	}
	want := symbol.FormatInfoBits(qr.ECLevel, qr.MaskPattern)
	if info1 != want || info2 != want {
		t.Fatalf("version %d: format info %#x / %#x, want %#x", qr.Version.Number, info1, info2, want)
	}

	if qr.Version.Number >= 7 {
		v1, v2 := 0, 0
		for y := 5; y >= 0; y-- {
			for x := d - 9; x >= d-11; x-- {
				v1 = bit(x, y, v1)
			}
		}
		for x := 5; x >= 0; x-- {
			for y := d - 9; y >= d-11; y-- {
				v2 = bit(x, y, v2)
			}
		}
		want := symbol.VersionInfoBits(qr.Version.Number)
		if v1 != want || v2 != want {
			t.Fatalf("version %d: version info %#x / %#x, want %#x", qr.Version.Number, v1, v2, want)
		}
	}
}

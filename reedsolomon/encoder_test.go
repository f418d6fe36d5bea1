package reedsolomon

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/ericlevine/billprint"
	"github.com/google/go-cmp/cmp"
)

func TestGeneratorPolynomial(t *testing.T) {
	enc := NewEncoder(QRCodeField256)
	tests := []struct {
		ecCount int
		want    []byte
	}{
		{1, []byte{1, 1}},
		{7, []byte{1, 127, 122, 154, 164, 11, 68, 117}},
		{10, []byte{1, 216, 194, 159, 111, 199, 94, 95, 113, 157, 193}},
	}
	for _, tc := range tests {
		g, err := enc.GeneratorPolynomial(tc.ecCount)
		if err != nil {
			t.Fatalf("GeneratorPolynomial(%d): %v", tc.ecCount, err)
		}
		if diff := cmp.Diff(tc.want, g.Coefficients()); diff != "" {
			t.Errorf("GeneratorPolynomial(%d) mismatch (-want +got):\n%s", tc.ecCount, diff)
		}
	}
}

func TestEncodeBlockKnownVector(t *testing.T) {
	// "HELLO WORLD" as a version 1-M symbol.
	data := []byte{32, 91, 11, 120, 209, 114, 220, 77, 67, 64, 236, 17, 236, 17, 236, 17}
	want := []byte{196, 35, 39, 119, 235, 215, 231, 226, 93, 23}
	got, err := NewEncoder(QRCodeField256).EncodeBlock(data, 10)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EC codewords mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeBlockPadsShortRemainder(t *testing.T) {
	// The zero message has a zero remainder, which must still come back as
	// exactly ecCount bytes.
	got, err := NewEncoder(QRCodeField256).EncodeBlock(make([]byte, 5), 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0, 0, 0, 0}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeBlockInvalidCount(t *testing.T) {
	enc := NewEncoder(QRCodeField256)
	for _, n := range []int{0, -3} {
		_, err := enc.EncodeBlock([]byte{1, 2, 3}, n)
		if !errors.Is(err, billprint.ErrInvalidParameter) {
			t.Errorf("EncodeBlock(ecCount=%d) error = %v, want ErrInvalidParameter", n, err)
		}
	}
}

func TestEncodeDecodeQR(t *testing.T) {
	dataSize := 10
	ecSize := 7
	data := make([]byte, dataSize)
	for i := range data {
		data[i] = byte(i + 1)
	}
	ec, err := NewEncoder(QRCodeField256).EncodeBlock(data, ecSize)
	if err != nil {
		t.Fatal(err)
	}
	codewords := append(append([]byte{}, data...), ec...)

	received := append([]byte{}, codewords...)
	received[0] = 0
	received[3] = 200
	received[6] = 100

	corrected, err := NewDecoder(QRCodeField256).Decode(received, ecSize)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if corrected != 3 {
		t.Errorf("corrected = %d, want 3", corrected)
	}
	if diff := cmp.Diff(codewords, received); diff != "" {
		t.Errorf("after correction (-want +got):\n%s", diff)
	}
}

func TestDecodeNoErrors(t *testing.T) {
	data := []byte{10, 20, 30, 40, 50}
	ec, err := NewEncoder(QRCodeField256).EncodeBlock(data, 4)
	if err != nil {
		t.Fatal(err)
	}
	corrected, err := NewDecoder(QRCodeField256).Decode(append(data, ec...), 4)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if corrected != 0 {
		t.Errorf("corrected = %d, want 0 (no errors)", corrected)
	}
}

func TestDecodeRandomErrors(t *testing.T) {
	enc := NewEncoder(QRCodeField256)
	dec := NewDecoder(QRCodeField256)
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 100; n++ {
		ecCount := 2 + rng.Intn(26)
		data := make([]byte, 1+rng.Intn(60))
		rng.Read(data)
		ec, err := enc.EncodeBlock(data, ecCount)
		if err != nil {
			t.Fatal(err)
		}
		codewords := append(append([]byte{}, data...), ec...)
		received := append([]byte{}, codewords...)
		for _, pos := range rng.Perm(len(received))[:ecCount/2] {
			received[pos] ^= byte(1 + rng.Intn(255))
		}
		if _, err := dec.Decode(received, ecCount); err != nil {
			t.Fatalf("Decode(ec=%d): %v", ecCount, err)
		}
		if diff := cmp.Diff(codewords, received); diff != "" {
			t.Fatalf("after correction (-want +got):\n%s", diff)
		}
	}
}

func TestDecodeTooManyErrors(t *testing.T) {
	data := []byte{10, 20, 30, 40, 50}
	ec, err := NewEncoder(QRCodeField256).EncodeBlock(data, 4)
	if err != nil {
		t.Fatal(err)
	}
	received := append(append([]byte{}, data...), ec...)
	received[0] = 0
	received[1] = 0
	received[2] = 0 // 3 errors, ecSize/2 = 2

	if _, err := NewDecoder(QRCodeField256).Decode(received, 4); err == nil {
		t.Error("expected error for too many errors")
	}
}

func TestEncoderConcurrentUse(t *testing.T) {
	enc := NewEncoder(QRCodeField256)
	want, err := NewEncoder(QRCodeField256).EncodeBlock([]byte("concurrent"), 18)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := enc.EncodeBlock([]byte("concurrent"), 18)
			if err != nil {
				t.Error(err)
				return
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		}()
	}
	wg.Wait()
}

package nls_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/DLR-RY/outpost-compress/nls"
)

func encodeFull(t *testing.T, coeffs []int16, cfg nls.Config, capacity int) []byte {
	t.Helper()
	work := append([]int16(nil), coeffs...)
	var buf bytes.Buffer
	if _, err := nls.NewEncoder().Encode(work, &buf, cfg, capacity); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestRoundTripWithinQuantisation(t *testing.T) {
	coeffs := []int16{1000, -500, 64, -64, 32, -16, 8, -8, 4, -2, 1, 0, -1, 2, -4, 6}
	cfg := nls.DefaultConfig()

	// A capacity of two bytes per coefficient leaves room for the whole
	// stream of these coefficients (under 32 bytes), so the budget does not
	// cut the pass loop short.
	encoded := encodeFull(t, coeffs, cfg, 2*len(coeffs))

	dst := make([]int16, len(coeffs))
	out, err := nls.NewDecoder().Decode(bytes.NewReader(encoded), dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != len(coeffs) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(coeffs))
	}
	for i, want := range coeffs {
		if diff := math.Abs(float64(out[i]) - float64(want)); diff > 2 {
			t.Errorf("coeff %d: got %d, want ~%d (diff %v)", i, out[i], want, diff)
		}
	}
}

func TestAllZeroInputRoundTrips(t *testing.T) {
	coeffs := make([]int16, 16)
	cfg := nls.DefaultConfig()
	encoded := encodeFull(t, coeffs, cfg, 0)

	dst := make([]int16, len(coeffs))
	out, err := nls.NewDecoder().Decode(bytes.NewReader(encoded), dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("coeff %d = %d, want 0", i, v)
		}
	}
}

func TestSingleLargeCoefficientAtDC(t *testing.T) {
	coeffs := make([]int16, 16)
	coeffs[0] = math.MaxInt16
	cfg := nls.DefaultConfig()
	encoded := encodeFull(t, coeffs, cfg, 2*len(coeffs))

	dst := make([]int16, len(coeffs))
	out, err := nls.NewDecoder().Decode(bytes.NewReader(encoded), dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := math.Abs(float64(out[0]) - float64(math.MaxInt16)); diff > 2 {
		t.Errorf("coeff 0 = %d, want ~%d", out[0], math.MaxInt16)
	}
	for i := 1; i < len(out); i++ {
		if out[i] != 0 {
			t.Errorf("coeff %d = %d, want 0", i, out[i])
		}
	}
}

func TestTruncatedStreamDecodesGracefully(t *testing.T) {
	coeffs := []int16{12000, -9000, 4000, -2000, 1000, -500, 250, -125, 64, -32, 16, -8, 4, -2, 1, 0}
	cfg := nls.Config{DCComponents: 2, MaxBytes: 3}
	encoded := encodeFull(t, coeffs, cfg, 0)

	dst := make([]int16, len(coeffs))
	out, err := nls.NewDecoder().Decode(bytes.NewReader(encoded), dst)
	if err != nil {
		t.Fatalf("Decode of a budget-truncated stream must not error, got %v", err)
	}
	if len(out) != len(coeffs) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(coeffs))
	}
}

func TestDecodeRejectsUndersizedDestination(t *testing.T) {
	coeffs := make([]int16, 16)
	coeffs[0] = 100
	encoded := encodeFull(t, coeffs, nls.DefaultConfig(), 0)

	dst := make([]int16, 4)
	_, err := nls.NewDecoder().Decode(bytes.NewReader(encoded), dst)
	if err != nls.ErrInvalidHeader {
		t.Fatalf("err = %v, want ErrInvalidHeader", err)
	}
}

func TestDecodeRejectsEmptyStream(t *testing.T) {
	dst := make([]int16, 16)
	_, err := nls.NewDecoder().Decode(bytes.NewReader(nil), dst)
	if err != nls.ErrInvalidHeader {
		t.Fatalf("err = %v, want ErrInvalidHeader", err)
	}
}

func TestEncodeZeroCapacityAndMaxBytesIsUnbounded(t *testing.T) {
	coeffs := []int16{1000, -500, 64, -64, 32, -16, 8, -8, 4, -2, 1, 0, -1, 2, -4, 6}
	encoded := encodeFull(t, coeffs, nls.DefaultConfig(), 0)

	dst := make([]int16, len(coeffs))
	out, err := nls.NewDecoder().Decode(bytes.NewReader(encoded), dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, want := range coeffs {
		if out[i] != want {
			t.Errorf("coeff %d: got %d, want exactly %d", i, out[i], want)
		}
	}
}

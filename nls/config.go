// Package nls implements the No-List SPIHT bit-plane encoder and decoder:
// a flat-marker-table variant of SPIHT that replaces its three dynamic
// lists (LIP, LIS, LSP) with one marker array, so the whole encoder state
// fits in three fixed-size slices with no heap churn per bitplane.
package nls

import "errors"

// Config parameterises one Encode call. The zero value is not valid; use
// DefaultConfig. Decode takes no Config: it reads the DC component count
// from the stream header.
type Config struct {
	// DCComponents is the number of leading coefficients treated as DC
	// terms outside the hierarchical tree (always marked significant
	// candidates from the first IP pass, never tested by the IS pass).
	DCComponents int

	// MaxBytes bounds the encoded bitstream length. 0 means no explicit
	// cap: Encoder.Encode falls back to whatever capacity its caller
	// passes it, i.e. "as much as fits in the output buffer". A positive
	// value is an additional ceiling on top of that capacity — the
	// effective budget is always the smaller of the two.
	MaxBytes int
}

// DefaultConfig returns the encoder's default configuration: two DC
// components (matching the wavelet stage's single-level low-pass split)
// and no explicit byte budget, so encoding uses the full destination
// capacity it's given.
func DefaultConfig() Config {
	return Config{DCComponents: 2}
}

var (
	// ErrInvalidHeader is returned by Decode when the 12-bit header
	// describes a block length that is absurd: smaller than 8 samples or
	// larger than the caller-supplied destination buffer.
	ErrInvalidHeader = errors.New("nls: invalid header")

	// ErrTruncated is returned by Decode when the bitstream ends in the
	// middle of a required field rather than cleanly at a pass boundary.
	// A stream truncated at a pass boundary (the normal result of the
	// encoder's byte-budget cutoff) is not an error — Decode returns the
	// partially refined coefficients for that case.
	ErrTruncated = errors.New("nls: truncated bitstream")
)

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}

// Package wavelet implements the Le Gall 5/3 integer wavelet transform used
// to decorrelate a block of telemetry samples before NLS-SPIHT encoding.
//
// Reference: D. Le Gall and A. Tabatabai, "Sub-band coding of digital
// images using symmetric short kernel filters and arithmetic coding
// techniques", ICASSP 1988.
package wavelet

import "github.com/DLR-RY/outpost-compress/fixedpoint"

// ForwardInPlace performs the in-place integer lifting transform on x.
// len(x) must be even and at least 4; the caller (DataBlock) is
// responsible for rejecting invalid block sizes before calling this.
//
// After the call, even positions hold low-pass coefficients and odd
// positions hold high-pass coefficients, interleaved in lifting order —
// call Reorder to move them into subband order.
func ForwardInPlace(x []fixedpoint.FixedPoint) {
	n := len(x)
	if n < 4 || n%2 != 0 {
		return
	}

	// Predict step: odd samples become high-pass detail coefficients.
	for i := 1; i < n-2; i += 2 {
		avg := fixedpoint.Shr(fixedpoint.Add(x[i-1], x[i+1], nil), 1)
		x[i] = fixedpoint.Sub(x[i], avg, nil)
	}
	// Right boundary: reflect x[N] as x[N-2].
	x[n-1] = fixedpoint.Sub(x[n-1], x[n-2], nil)

	// Update step: even samples become low-pass approximation coefficients.
	// Left boundary: reflect x[-1] as x[1].
	x[0] = fixedpoint.Add(x[0], fixedpoint.Shr(fixedpoint.Add(x[1], fixedpoint.FromInt(1), nil), 1), nil)
	for i := 2; i < n-1; i += 2 {
		sum := fixedpoint.Add(fixedpoint.Add(x[i-1], x[i+1], nil), fixedpoint.FromInt(2), nil)
		x[i] = fixedpoint.Add(x[i], fixedpoint.Shr(sum, 2), nil)
	}
}

// Reorder permutes the interleaved lifting output in x into subband order:
// the first N/2 positions hold the low-pass subband (ascending original
// even index), the next N/2 hold the high-pass subband. Each coefficient
// is truncated to int16 via an explicit arithmetic right shift by 16 of
// its Q16.16 backing value (spec-mandated; not an implicit reinterpret of
// the storage). Returns a new []int16 of the same length as x; it does not
// alias x's storage, since x holds 32-bit FixedPoint values and the
// result holds 16-bit coefficients.
func Reorder(x []fixedpoint.FixedPoint) []int16 {
	n := len(x)
	y := make([]int16, n)
	half := n / 2
	for k := 0; k < half; k++ {
		y[k] = x[2*k].ToIntTrunc()
		y[half+k] = x[2*k+1].ToIntTrunc()
	}
	return y
}

// Transform runs ForwardInPlace followed by Reorder, returning the
// resulting subband-ordered int16 coefficients. x is left in its
// intermediate (interleaved, still FixedPoint) lifting state; callers that
// need the coefficients should use the returned slice, not x.
func Transform(x []fixedpoint.FixedPoint) []int16 {
	ForwardInPlace(x)
	return Reorder(x)
}

// InverseFloat64 is the ground-side floating-point inverse transform. It
// is a verification oracle only — the embedded pipeline never calls it,
// since the flight side has no floating-point unit. in holds coefficients
// in subband order (as produced by Reorder, widened to float64); the
// result is the reconstructed sample sequence, also float64.
func InverseFloat64(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n)

	// Un-reorder: subband order back to interleaved lifting order.
	half := n / 2
	for k := 0; k < half; k++ {
		out[2*k] = in[k]
		out[2*k+1] = in[half+k]
	}

	// Update-inverse: even samples revert to pre-update values.
	out[0] -= (out[1] + 1) / 2
	for i := 2; i < n-1; i += 2 {
		out[i] -= (out[i-1] + out[i+1] + 2) / 4
	}

	// Predict-inverse: odd samples revert to original values.
	for i := 1; i < n-2; i += 2 {
		out[i] += (out[i-1] + out[i+1]) / 2
	}
	out[n-1] += out[n-2]

	return out
}

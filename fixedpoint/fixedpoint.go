// Package fixedpoint implements a Q16.16 signed fixed-point number with
// saturating arithmetic, used by the wavelet stage to keep every
// intermediate lifting value reversible without relying on floating point.
package fixedpoint

import (
	"fmt"
	"math"
)

// FixedPoint is a Q16.16 signed fixed-point number: the rational value is
// v/65536, where v is the int32 backing value. Arithmetic saturates at
// [math.MinInt32, math.MaxInt32] instead of wrapping on overflow.
type FixedPoint int32

const (
	fracBits = 16
	one      = FixedPoint(1 << fracBits)

	minV = FixedPoint(math.MinInt32)
	maxV = FixedPoint(math.MaxInt32)
)

// Flags records whether any arithmetic call it was passed to saturated.
// The flag is sticky: a later call that does not saturate leaves it set,
// so a caller resets it (Flags{}) before the calls it wants to check.
// Spec-wise this is the "optional out-of-band flag" a caller
// may inspect; passing a nil *Flags to any method below skips the check
// entirely, so the hot wavelet loop can ignore it.
type Flags struct {
	Saturated bool
}

func (f *Flags) mark(saturated bool) {
	if f != nil && saturated {
		f.Saturated = true
	}
}

// FromInt converts k to FixedPoint exactly: v = k << 16.
func FromInt(k int16) FixedPoint {
	return FixedPoint(int32(k) << fracBits)
}

// FromFloat64 converts a float64 to the nearest representable FixedPoint,
// saturating on overflow. Used only at the ground-side verification
// boundary; never on the flight side.
func FromFloat64(x float64) FixedPoint {
	scaled := x * float64(one)
	if scaled >= float64(maxV) {
		return maxV
	}
	if scaled <= float64(minV) {
		return minV
	}
	return FixedPoint(int32(math.Round(scaled)))
}

// ToIntTrunc truncates to int16 via an arithmetic right shift by 16,
// saturating to the int16 range.
func (a FixedPoint) ToIntTrunc() int16 {
	v := int32(a) >> fracBits
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}

// Float64 returns the rational value as a float64.
func (a FixedPoint) Float64() float64 {
	return float64(a) / float64(one)
}

// Add returns a+b, saturating on overflow.
func Add(a, b FixedPoint, f *Flags) FixedPoint {
	sum := int64(a) + int64(b)
	return saturate(sum, f)
}

// Sub returns a-b, saturating on overflow.
func Sub(a, b FixedPoint, f *Flags) FixedPoint {
	diff := int64(a) - int64(b)
	return saturate(diff, f)
}

// Neg returns -a, saturating if a is math.MinInt32.
func Neg(a FixedPoint, f *Flags) FixedPoint {
	return saturate(-int64(a), f)
}

// Mul returns a*b rounded to the nearest representable value, with ties
// rounded toward positive infinity, saturating on overflow. The product
// is computed in 64 bits before rescaling.
func Mul(a, b FixedPoint, f *Flags) FixedPoint {
	p := int64(a) * int64(b)
	p = (p + (1 << (fracBits - 1))) >> fracBits
	return saturate(p, f)
}

// Div returns a/b, saturating on overflow. Dividing by zero returns
// saturated infinity of a's sign (maxV for a>=0, minV for a<0) and marks
// the flag, rather than panicking — the core never surfaces errors from
// total arithmetic operations.
func Div(a, b FixedPoint, f *Flags) FixedPoint {
	if b == 0 {
		f.mark(true)
		if a < 0 {
			return minV
		}
		return maxV
	}
	q := (int64(a) << fracBits) / int64(b)
	return saturate(q, f)
}

// Shl returns a shifted left by n bits, saturating on overflow.
func Shl(a FixedPoint, n uint, f *Flags) FixedPoint {
	return saturate(int64(a)<<n, f)
}

// Shr returns a shifted right by n bits. Arithmetic (sign-preserving); this
// never saturates.
func Shr(a FixedPoint, n uint) FixedPoint {
	return FixedPoint(int32(a) >> n)
}

// Cmp returns -1, 0 or 1 as a is less than, equal to, or greater than b,
// using the total order induced by the signed backing value.
func Cmp(a, b FixedPoint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func saturate(v int64, f *Flags) FixedPoint {
	if v > int64(maxV) {
		f.mark(true)
		return maxV
	}
	if v < int64(minV) {
		f.mark(true)
		return minV
	}
	return FixedPoint(v)
}

// String renders the value as signed integer and fractional parts, e.g.
// "-3.50000".
func (a FixedPoint) String() string {
	neg := a < 0
	v := int64(a)
	if neg {
		v = -v
	}
	intPart := v >> fracBits
	fracPart := (v & (int64(one) - 1)) * 100000 / int64(one)
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%05d", sign, intPart, fracPart)
}

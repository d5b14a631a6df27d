package fixedpoint_test

import (
	"math"
	"testing"

	"github.com/DLR-RY/outpost-compress/fixedpoint"
)

func TestFromIntExact(t *testing.T) {
	for _, k := range []int16{0, 1, -1, 32767, -32768, 1000} {
		got := fixedpoint.FromInt(k)
		if got.ToIntTrunc() != k {
			t.Errorf("FromInt(%d).ToIntTrunc() = %d, want %d", k, got.ToIntTrunc(), k)
		}
	}
}

func TestAddSaturates(t *testing.T) {
	a := fixedpoint.FixedPoint(math.MaxInt32)
	var flags fixedpoint.Flags
	got := fixedpoint.Add(a, fixedpoint.FromInt(1), &flags)
	if !flags.Saturated {
		t.Fatal("expected saturation flag to be set")
	}
	if got != fixedpoint.FixedPoint(math.MaxInt32) {
		t.Fatalf("got %v, want saturated max", got)
	}
}

func TestAddNoSaturationFlagWhenNil(t *testing.T) {
	a := fixedpoint.FromInt(3)
	b := fixedpoint.FromInt(4)
	got := fixedpoint.Add(a, b, nil)
	if got.ToIntTrunc() != 7 {
		t.Fatalf("got %d, want 7", got.ToIntTrunc())
	}
}

func TestSubSaturates(t *testing.T) {
	a := fixedpoint.FixedPoint(math.MinInt32)
	var flags fixedpoint.Flags
	got := fixedpoint.Sub(a, fixedpoint.FromInt(1), &flags)
	if !flags.Saturated || got != fixedpoint.FixedPoint(math.MinInt32) {
		t.Fatalf("got %v, flags=%+v", got, flags)
	}
}

func TestMulRoundsHalfUp(t *testing.T) {
	a := fixedpoint.FixedPoint(3)                    // 3/65536
	half := fixedpoint.Shr(fixedpoint.FromInt(1), 1) // 0.5
	got := fixedpoint.Mul(a, half, nil)
	want := fixedpoint.FixedPoint(2) // the exact product 1.5/65536 rounds up to 2/65536
	if got != want {
		t.Fatalf("Mul(3/65536, 0.5) = %d, want %d", int32(got), int32(want))
	}
}

func TestDivByZeroSaturatesInfinity(t *testing.T) {
	pos := fixedpoint.FromInt(5)
	neg := fixedpoint.FromInt(-5)

	var flags fixedpoint.Flags
	gotPos := fixedpoint.Div(pos, 0, &flags)
	if gotPos != fixedpoint.FixedPoint(math.MaxInt32) || !flags.Saturated {
		t.Fatalf("Div(5,0) = %v, flags=%+v", gotPos, flags)
	}

	flags = fixedpoint.Flags{}
	gotNeg := fixedpoint.Div(neg, 0, &flags)
	if gotNeg != fixedpoint.FixedPoint(math.MinInt32) || !flags.Saturated {
		t.Fatalf("Div(-5,0) = %v, flags=%+v", gotNeg, flags)
	}
}

func TestDivByZeroNilFlagsDoesNotPanic(t *testing.T) {
	_ = fixedpoint.Div(fixedpoint.FromInt(1), 0, nil)
}

func TestShlSaturates(t *testing.T) {
	a := fixedpoint.FromInt(20000)
	var flags fixedpoint.Flags
	got := fixedpoint.Shl(a, 4, &flags)
	if !flags.Saturated {
		t.Fatal("expected overflow on left shift")
	}
	if got != fixedpoint.FixedPoint(math.MaxInt32) {
		t.Fatalf("got %v", got)
	}
}

func TestShrSignPreserving(t *testing.T) {
	a := fixedpoint.FromInt(-8)
	got := fixedpoint.Shr(a, 1)
	if got.ToIntTrunc() != -4 {
		t.Fatalf("got %d, want -4", got.ToIntTrunc())
	}
}

func TestCmpTotalOrder(t *testing.T) {
	lo, hi := fixedpoint.FromInt(-1), fixedpoint.FromInt(1)
	if fixedpoint.Cmp(lo, hi) != -1 {
		t.Fatal("expected lo < hi")
	}
	if fixedpoint.Cmp(hi, lo) != 1 {
		t.Fatal("expected hi > lo")
	}
	if fixedpoint.Cmp(lo, lo) != 0 {
		t.Fatal("expected lo == lo")
	}
}

func TestStringRendersSign(t *testing.T) {
	neg := fixedpoint.FromInt(-3)
	if got := neg.String(); got[0] != '-' {
		t.Fatalf("String() = %q, want leading '-'", got)
	}
}

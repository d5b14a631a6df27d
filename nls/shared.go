package nls

import "math/bits"

// descendantMax precomputes, for a coefficient sequence in subband order,
// the maximum absolute magnitude among each index's descendants (dmax) and
// grandchildren-and-deeper (gmax), plus the largest magnitude in the whole
// sequence (overallMax). dmax is built bottom-up in one descending scan:
// dmax[i] folds in the pairwise max of x[2i],x[2i+1] together with the
// already-computed dmax of those two children. gmax is then filled from
// dmax in a second loop.
func descendantMax(x []int16) (dmax, gmax []int16, overallMax int16) {
	n := len(x)
	dmax = make([]int16, n/2)
	gmax = make([]int16, n/4)

	for i := n - 1; i >= 2; i -= 2 {
		local := max16(abs16(x[i-1]), abs16(x[i]))
		if local > overallMax {
			overallMax = local
		}
		if i < n/2 {
			dmax[i>>1] = max16(local, max16(dmax[i], dmax[i-1]))
		} else {
			dmax[i>>1] = local
		}
	}
	// x[0] and x[1] are not part of any pair above but count towards the
	// overall maximum that sets the initial bitplane.
	for i := 0; i < 2 && i < n; i++ {
		if a := abs16(x[i]); a > overallMax {
			overallMax = a
		}
	}
	for i := 1; i < n/4; i++ {
		gmax[i] = max16(dmax[i<<1], dmax[(i<<1)+1])
	}
	return dmax, gmax, overallMax
}

// log2Floor returns floor(log2(v)) for v > 0, and 0 for v == 0 — the
// all-zero input has no meaningful bitplane, but the 4-bit header field
// still needs a representable value.
func log2Floor(v int16) uint8 {
	if v <= 0 {
		return 0
	}
	return uint8(bits.Len16(uint16(v)) - 1)
}

// log2FloorInt does the same for a block length, assumed to be a power of
// two (the caller only ever passes sizes drawn from the Blocksize enum).
func log2FloorInt(v int) uint8 {
	if v <= 1 {
		return 0
	}
	return uint8(bits.Len(uint(v)) - 1)
}

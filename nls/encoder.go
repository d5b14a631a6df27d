package nls

import (
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// Encoder runs the NLS-SPIHT bit-plane encoding loop. It keeps the
// dmax/gmax slices of its most recent Encode call; every call allocates
// fresh dmax, gmax and marker slices and does not reuse earlier ones.
type Encoder struct {
	dmax []int16
	gmax []int16
}

// NewEncoder returns a ready-to-use Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode writes the NLS-SPIHT bitstream for coeffs (subband-ordered,
// post-wavelet) to w and returns the number of bits written. coeffs is
// mutated in place: once a coefficient becomes significant its slot holds
// the absolute value rather than the signed original, matching the
// reference encoder's in-place magnitude bookkeeping.
//
// capacity is the number of bytes actually available in the caller's
// destination; it is what "as much as fits in the output buffer" refers
// to. The effective budget is the smaller of capacity and cfg.MaxBytes,
// whichever of the two is positive; a non-positive capacity (the caller
// has no fixed destination, e.g. a growing bytes.Buffer) leaves
// cfg.MaxBytes as the only cap, and a non-positive MaxBytes together with
// a non-positive capacity means no cap at all.
//
// Encoding is total for any non-empty, even-length coeffs: a tight budget
// simply truncates the emitted bitstream at the next pass boundary, which
// the decoder can still refine gracefully.
func (e *Encoder) Encode(coeffs []int16, w io.Writer, cfg Config, capacity int) (int, error) {
	n := len(coeffs)
	bw := bitio.NewWriter(w)
	bits := 0

	writeBits := func(v uint64, k uint8) error {
		if err := bw.WriteBits(v, k); err != nil {
			return errutil.Err(err)
		}
		bits += int(k)
		return nil
	}
	writeBool := func(v bool) error {
		if err := bw.WriteBool(v); err != nil {
			return errutil.Err(err)
		}
		bits++
		return nil
	}

	dmax, gmax, overallMax := descendantMax(coeffs)
	e.dmax, e.gmax = dmax, gmax

	nBits := log2Floor(overallMax)
	s := int32(1) << nBits

	maxBytes := cfg.MaxBytes
	if capacity > 0 && (maxBytes <= 0 || capacity < maxBytes) {
		maxBytes = capacity
	}

	mk := make([]marker, n)
	dc := cfg.DCComponents
	for i := 0; i < dc && i < n; i++ {
		mk[i] = mip
	}
	for i := dc; i < 2*dc && i < n; i++ {
		mk[i] = md
		push(mk, uint16(i), n)
	}

	if err := writeBits(uint64(nBits), 4); err != nil {
		return bits, err
	}
	if err := writeBits(uint64(dc), 4); err != nil {
		return bits, err
	}
	if err := writeBits(uint64(log2FloorInt(n)), 4); err != nil {
		return bits, err
	}

	byteBudgetExceeded := func() bool {
		if maxBytes <= 0 {
			return false
		}
		return (bits+7)/8 > maxBytes
	}

	for ni := int(nBits); ni >= 0; ni-- {
		if err := e.ipPass(mk, coeffs, s, writeBool); err != nil {
			return bits, err
		}
		if byteBudgetExceeded() {
			break
		}
		if err := e.isPass(mk, coeffs, dmax, gmax, s, n, writeBool); err != nil {
			return bits, err
		}
		if byteBudgetExceeded() {
			break
		}
		if err := e.refPass(mk, coeffs, s, writeBool); err != nil {
			return bits, err
		}
		if byteBudgetExceeded() {
			break
		}
		s >>= 1
	}

	if err := bw.Close(); err != nil {
		return bits, errutil.Err(err)
	}
	return bits, nil
}

func (e *Encoder) ipPass(mk []marker, x []int16, s int32, writeBool func(bool) error) error {
	n := len(x)
	for i := 0; i < n; {
		if mk[i] == mip {
			sig := int32(abs16(x[i])) >= s
			if err := writeBool(sig); err != nil {
				return err
			}
			if sig {
				if err := writeBool(x[i] < 0); err != nil {
					return err
				}
				mk[i] = mnp
				x[i] = abs16(x[i])
			}
			i++
		} else {
			i += int(skip(mk[i]))
		}
	}
	return nil
}

// isPass walks the marker array once. A descendant or granddescendant set
// that becomes significant is not skipped past: its marker is rewritten in
// place (MD/MG -> MCP or a deeper MD) and the same index i is revisited on
// the next loop iteration without advancing, so the newly exposed state is
// tested within this same pass. Only an insignificant set is skipped over.
func (e *Encoder) isPass(mk []marker, x []int16, dmax, gmax []int16, s int32, n int, writeBool func(bool) error) error {
	for i := 0; i < n; {
		switch mk[i] {
		case md:
			sig := int32(dmax[i>>1]) >= s
			if err := writeBool(sig); err != nil {
				return err
			}
			if sig {
				mk[i] = mcp
				if i+1 < n {
					mk[i+1] = mcp
				}
				if 2*i < n {
					mk[2*i] = mg
				}
				continue
			}
			i += 2
		case mg:
			sig := int32(gmax[i>>2]) >= s
			if err := writeBool(sig); err != nil {
				return err
			}
			if sig {
				mk[i] = md
				push(mk, uint16(i), n)
				if i+2 < n {
					mk[i+2] = md
					push(mk, uint16(i+2), n)
				}
				continue
			}
			i += 4
		case mcp:
			sig := int32(abs16(x[i])) >= s
			if err := writeBool(sig); err != nil {
				return err
			}
			if sig {
				if err := writeBool(x[i] < 0); err != nil {
					return err
				}
				mk[i] = mnp
				x[i] = abs16(x[i])
			} else {
				mk[i] = mip
			}
			i++
		default:
			i += int(isSkip(mk[i]))
		}
	}
	return nil
}

func (e *Encoder) refPass(mk []marker, x []int16, s int32, writeBool func(bool) error) error {
	n := len(x)
	for i := 0; i < n; {
		switch mk[i] {
		case msp:
			if err := writeBool(int32(x[i])&s != 0); err != nil {
				return err
			}
			i++
		case mnp:
			mk[i] = msp
			i++
		default:
			i += int(skip(mk[i]))
		}
	}
	return nil
}

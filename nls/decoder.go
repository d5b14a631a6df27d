package nls

import (
	"io"

	"github.com/icza/bitio"
)

// Decoder replays an NLS-SPIHT bitstream produced by Encoder.Encode.
type Decoder struct{}

// NewDecoder returns a ready-to-use Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode reads the header and as many bitplanes as the stream holds,
// writing the reconstructed coefficients into dst[:N] and returning that
// sub-slice. dst must have enough capacity for the block length the
// header declares; if it doesn't, or the header is otherwise malformed,
// Decode returns (nil, ErrInvalidHeader).
//
// A stream cut short by the encoder's byte budget is not an error: Decode
// returns the coefficients as refined so far. Only a cut in the middle of
// a field — a corrupt or hand-truncated stream — reports ErrTruncated.
func (d *Decoder) Decode(r io.Reader, dst []int16) ([]int16, error) {
	br := bitio.NewReader(r)

	nBitsU, err := br.ReadBits(4)
	if err != nil {
		return nil, ErrInvalidHeader
	}
	dcU, err := br.ReadBits(4)
	if err != nil {
		return nil, ErrInvalidHeader
	}
	log2NU, err := br.ReadBits(4)
	if err != nil {
		return nil, ErrInvalidHeader
	}

	n := 1 << log2NU
	if n < 8 || n > len(dst) {
		return nil, ErrInvalidHeader
	}
	dc := int(dcU)

	out := dst[:n]
	for i := range out {
		out[i] = 0
	}
	signs := make([]bool, n)
	mk := make([]marker, n)
	for i := 0; i < dc && i < n; i++ {
		mk[i] = mip
	}
	for i := dc; i < 2*dc && i < n; i++ {
		mk[i] = md
		push(mk, uint16(i), n)
	}

	s := int32(1) << nBitsU

	for ni := int(nBitsU); ni >= 0; ni-- {
		done, err := d.ipPass(br, mk, out, signs, s)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		done, err = d.isPass(br, mk, out, signs, s, n)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		done, err = d.refPass(br, mk, out, signs, s)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		s >>= 1
	}

	return out, nil
}

// readBool reads one bit, distinguishing "no bits left, and none consumed
// yet this pass" (graceful end of stream, not an error) from "ran out
// mid-field" (ErrTruncated). progressed must point at the calling pass's
// "have we read anything yet" flag.
func readBool(br *bitio.Reader, progressed *bool) (bool, bool, error) {
	b, err := br.ReadBool()
	if err != nil {
		if !*progressed {
			return false, true, nil
		}
		return false, false, ErrTruncated
	}
	*progressed = true
	return b, false, nil
}

func (d *Decoder) ipPass(br *bitio.Reader, mk []marker, out []int16, signs []bool, s int32) (bool, error) {
	progressed := false
	n := len(out)
	for i := 0; i < n; {
		if mk[i] == mip {
			sig, end, err := readBool(br, &progressed)
			if err != nil {
				return false, err
			}
			if end {
				return true, nil
			}
			if sig {
				neg, end, err := readBool(br, &progressed)
				if err != nil {
					return false, err
				}
				if end {
					return false, ErrTruncated
				}
				signs[i] = neg
				out[i] = reconstructFirst(neg, s)
				mk[i] = mnp
			}
			i++
		} else {
			i += int(skip(mk[i]))
		}
	}
	return false, nil
}

func (d *Decoder) isPass(br *bitio.Reader, mk []marker, out []int16, signs []bool, s int32, n int) (bool, error) {
	progressed := false
	for i := 0; i < n; {
		switch mk[i] {
		case md:
			sig, end, err := readBool(br, &progressed)
			if err != nil {
				return false, err
			}
			if end {
				return true, nil
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
			sig, end, err := readBool(br, &progressed)
			if err != nil {
				return false, err
			}
			if end {
				return true, nil
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
			sig, end, err := readBool(br, &progressed)
			if err != nil {
				return false, err
			}
			if end {
				return true, nil
			}
			if sig {
				neg, end, err := readBool(br, &progressed)
				if err != nil {
					return false, err
				}
				if end {
					return false, ErrTruncated
				}
				signs[i] = neg
				out[i] = reconstructFirst(neg, s)
				mk[i] = mnp
			} else {
				mk[i] = mip
			}
			i++
		default:
			i += int(isSkip(mk[i]))
		}
	}
	return false, nil
}

func (d *Decoder) refPass(br *bitio.Reader, mk []marker, out []int16, signs []bool, s int32) (bool, error) {
	progressed := false
	n := len(out)
	for i := 0; i < n; {
		switch mk[i] {
		case msp:
			bit, end, err := readBool(br, &progressed)
			if err != nil {
				return false, err
			}
			if end {
				return true, nil
			}
			sign := int32(1)
			if signs[i] {
				sign = -1
			}
			half := s >> 1
			if bit {
				out[i] = int16(int32(out[i]) + sign*half)
			} else {
				out[i] = int16(int32(out[i]) + sign*(half-s))
			}
			i++
		case mnp:
			mk[i] = msp
			i++
		default:
			i += int(skip(mk[i]))
		}
	}
	return false, nil
}

// reconstructFirst returns the initial magnitude estimate assigned the
// moment a coefficient is first found significant at threshold s: the
// midpoint of [s, 2s), signed.
func reconstructFirst(negative bool, s int32) int16 {
	sign := int32(1)
	if negative {
		sign = -1
	}
	return int16(sign * (s + (s >> 1)))
}

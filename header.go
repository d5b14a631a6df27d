package outpost

import "fmt"

// CompressionScheme identifies how a block's payload is encoded. It is
// stored as the first byte of the 11-byte header.
type CompressionScheme uint8

const (
	// SchemeRaw marks a block whose payload is still FixedPoint samples
	// or int16 coefficients, not an NLS bitstream.
	SchemeRaw CompressionScheme = 0
	// SchemeWaveletNLS marks a block encoded by the wavelet + NLS-SPIHT
	// pipeline.
	SchemeWaveletNLS CompressionScheme = 1
)

func (s CompressionScheme) String() string {
	switch s {
	case SchemeRaw:
		return "Raw"
	case SchemeWaveletNLS:
		return "WaveletNLS"
	default:
		return fmt.Sprintf("CompressionScheme(%d)", uint8(s))
	}
}

// SamplingRate is a 4-bit enum describing how often a block's samples
// were taken.
type SamplingRate uint8

const (
	SamplingRateDisabled SamplingRate = 0
	SamplingRate0_033Hz  SamplingRate = 1
	SamplingRate0_1Hz    SamplingRate = 2
	SamplingRate0_5Hz    SamplingRate = 3
	SamplingRate1Hz      SamplingRate = 4
	SamplingRate2Hz      SamplingRate = 5
	SamplingRate5Hz      SamplingRate = 6
	SamplingRate10Hz     SamplingRate = 7
)

func (r SamplingRate) String() string {
	switch r {
	case SamplingRateDisabled:
		return "Disabled"
	case SamplingRate0_033Hz:
		return "0.033Hz"
	case SamplingRate0_1Hz:
		return "0.1Hz"
	case SamplingRate0_5Hz:
		return "0.5Hz"
	case SamplingRate1Hz:
		return "1Hz"
	case SamplingRate2Hz:
		return "2Hz"
	case SamplingRate5Hz:
		return "5Hz"
	case SamplingRate10Hz:
		return "10Hz"
	default:
		return fmt.Sprintf("SamplingRate(reserved=%d)", uint8(r))
	}
}

// Blocksize is a 4-bit enum describing a block's sample count N.
type Blocksize uint8

const (
	BlocksizeDisabled Blocksize = 0
	Blocksize16       Blocksize = 1
	Blocksize128      Blocksize = 2
	Blocksize256      Blocksize = 3
	Blocksize512      Blocksize = 4
	Blocksize1024     Blocksize = 5
	Blocksize2048     Blocksize = 6
	Blocksize4096     Blocksize = 7
)

// Samples returns N, the number of samples a block of this size holds,
// or 0 for BlocksizeDisabled or a reserved value. This is the idiomatic
// method form of the original toUInt(Blocksize) free function.
func (b Blocksize) Samples() uint16 {
	switch b {
	case Blocksize16:
		return 16
	case Blocksize128:
		return 128
	case Blocksize256:
		return 256
	case Blocksize512:
		return 512
	case Blocksize1024:
		return 1024
	case Blocksize2048:
		return 2048
	case Blocksize4096:
		return 4096
	default:
		return 0
	}
}

func (b Blocksize) String() string {
	if n := b.Samples(); n != 0 {
		return fmt.Sprintf("%d", n)
	}
	if b == BlocksizeDisabled {
		return "Disabled"
	}
	return fmt.Sprintf("Blocksize(reserved=%d)", uint8(b))
}

// writeHeader encodes the 11-byte header plus the sampling_rate/blocksize
// bitfield byte into buf[:PayloadOffset]. buf must have length >=
// PayloadOffset.
func writeHeader(buf []byte, scheme CompressionScheme, parameterID uint16, startTime int64, rate SamplingRate, size Blocksize) {
	buf[0] = byte(scheme)
	buf[1] = byte(parameterID >> 8)
	buf[2] = byte(parameterID)
	for i := 0; i < 8; i++ {
		buf[3+i] = byte(startTime >> uint(8*(7-i)))
	}
	buf[11] = (byte(size) << 4) | (byte(rate) & 0x0F)
}

// readHeader decodes the fields writeHeader packs, from buf[:PayloadOffset].
func readHeader(buf []byte) (scheme CompressionScheme, parameterID uint16, startTime int64, rate SamplingRate, size Blocksize) {
	scheme = CompressionScheme(buf[0])
	parameterID = uint16(buf[1])<<8 | uint16(buf[2])
	for i := 0; i < 8; i++ {
		startTime = startTime<<8 | int64(buf[3+i])
	}
	rate = SamplingRate(buf[11] & 0x0F)
	size = Blocksize(buf[11] >> 4)
	return
}

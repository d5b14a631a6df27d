package outpost

import (
	"bytes"
	"encoding/binary"

	"github.com/DLR-RY/outpost-compress/fixedpoint"
	"github.com/DLR-RY/outpost-compress/nls"
	"github.com/DLR-RY/outpost-compress/sharedbuf"
	"github.com/DLR-RY/outpost-compress/wavelet"
)

// DataBlock is a view over a pool-backed SharedBufferPointer that moves
// through the states Raw -> Transformed -> Encoded. Its payload region
// (buf.Bytes()[PayloadOffset:]) is reinterpreted across states, but never
// through two aliased views at once: every accessor below takes the
// current state as a precondition and panics if it is violated, rather
// than handing out a raw pointer the caller could misuse.
type DataBlock struct {
	buf sharedbuf.SharedBufferPointer

	n           uint16 // block capacity in samples, from blocksize.Samples()
	sampleCount uint16 // samples pushed so far, or (once encoded) the encoded byte length

	parameterID  uint16
	startTime    int64
	samplingRate SamplingRate
	blocksize    Blocksize
	scheme       CompressionScheme

	isTransformed bool
	isEncoded     bool
}

// NewDataBlock wraps buf as a Raw block of the given blocksize. It
// returns (nil, false) if buf is too small to ever hold blocksize's
// samples, or if blocksize is Disabled/reserved.
func NewDataBlock(buf sharedbuf.SharedBufferPointer, parameterID uint16, startTime int64, rate SamplingRate, size Blocksize) (*DataBlock, bool) {
	n := size.Samples()
	if n == 0 {
		return nil, false
	}
	b := &DataBlock{
		buf:          buf,
		n:            n,
		parameterID:  parameterID,
		startTime:    startTime,
		samplingRate: rate,
		blocksize:    size,
		scheme:       SchemeRaw,
	}
	if !b.IsValid() {
		return nil, false
	}
	return b, true
}

// IsValid reports whether the backing buffer is large enough to hold the
// block's declared blocksize of FixedPoint samples plus the header.
func (b *DataBlock) IsValid() bool {
	return b.buf.Len() >= PayloadOffset+int(b.n)*4
}

// IsComplete reports whether all N samples have been pushed.
func (b *DataBlock) IsComplete() bool {
	return b.sampleCount == b.n
}

func (b *DataBlock) ParameterID() uint16           { return b.parameterID }
func (b *DataBlock) StartTime() int64              { return b.startTime }
func (b *DataBlock) SamplingRate() SamplingRate     { return b.samplingRate }
func (b *DataBlock) Blocksize() Blocksize           { return b.blocksize }
func (b *DataBlock) Scheme() CompressionScheme      { return b.scheme }
func (b *DataBlock) SampleCount() uint16            { return b.sampleCount }
func (b *DataBlock) IsTransformed() bool            { return b.isTransformed }
func (b *DataBlock) IsEncoded() bool                { return b.isEncoded }

// Release returns the block's backing buffer to its pool.
func (b *DataBlock) Release() {
	b.buf.Release()
}

// Push appends one sample. It is valid only in the Raw state and only
// while sampleCount < N; otherwise it returns false and leaves the block
// unchanged.
func (b *DataBlock) Push(sample fixedpoint.FixedPoint) bool {
	if b.isTransformed || b.isEncoded || b.sampleCount >= b.n {
		return false
	}
	off := PayloadOffset + int(b.sampleCount)*4
	binary.BigEndian.PutUint32(b.buf.Bytes()[off:off+4], uint32(int32(sample)))
	b.sampleCount++
	return true
}

// Samples returns the block's samples. Precondition: Raw state
// (!IsTransformed() && !IsEncoded()); violating it is a programmer error
// and panics.
func (b *DataBlock) Samples() []fixedpoint.FixedPoint {
	if b.isTransformed || b.isEncoded {
		panic("outpost: Samples called on a block that is not Raw")
	}
	out := make([]fixedpoint.FixedPoint, b.sampleCount)
	buf := b.buf.Bytes()
	for i := range out {
		off := PayloadOffset + i*4
		out[i] = fixedpoint.FixedPoint(int32(binary.BigEndian.Uint32(buf[off : off+4])))
	}
	return out
}

// Coefficients returns the block's wavelet coefficients. Precondition:
// Transformed state (IsTransformed() && !IsEncoded()).
func (b *DataBlock) Coefficients() []int16 {
	if !b.isTransformed || b.isEncoded {
		panic("outpost: Coefficients called on a block that is not Transformed")
	}
	out := make([]int16, b.sampleCount)
	buf := b.buf.Bytes()
	for i := range out {
		off := PayloadOffset + i*2
		out[i] = int16(binary.BigEndian.Uint16(buf[off : off+2]))
	}
	return out
}

// EncodedBytes returns the full wire representation of an Encoded block:
// the header, the bitfield byte, and the NLS bitstream. Precondition:
// Encoded state.
func (b *DataBlock) EncodedBytes() []byte {
	if !b.isEncoded {
		panic("outpost: EncodedBytes called on a block that is not Encoded")
	}
	return b.buf.Bytes()[:PayloadOffset+int(b.sampleCount)]
}

// ApplyWaveletTransform runs the Le Gall 5/3 forward transform and
// reorder over the block's samples in place, moving it from Raw to
// Transformed. It is a no-op — returning false — if the block is already
// Transformed or Encoded.
func (b *DataBlock) ApplyWaveletTransform() bool {
	if b.isTransformed || b.isEncoded {
		return false
	}
	samples := b.Samples()
	wavelet.ForwardInPlace(samples)
	coeffs := wavelet.Reorder(samples)

	buf := b.buf.Bytes()
	for i, c := range coeffs {
		off := PayloadOffset + i*2
		binary.BigEndian.PutUint16(buf[off:off+2], uint16(c))
	}
	b.isTransformed = true
	return true
}

// Encode runs the NLS-SPIHT encoder over self's coefficients and writes
// the result — header, bitfield byte, bitstream — into out, a block
// freshly allocated from the pool with the same parameter_id, start_time,
// sampling_rate and blocksize as self. The encoder's byte budget is
// derived from out's actual remaining capacity: cfg.MaxBytes, if set,
// further tightens that budget, but can never loosen it past what out can
// physically hold, so the bitstream written never exceeds the space
// available. Preconditions: self.IsTransformed() && !self.IsEncoded(),
// and out must have some payload room; violating either returns false and
// leaves both blocks unchanged.
func (b *DataBlock) Encode(out *DataBlock, enc *nls.Encoder, cfg nls.Config) bool {
	if !b.isTransformed || b.isEncoded {
		return false
	}
	availableBytes := out.buf.Len() - PayloadOffset
	if availableBytes <= 0 {
		return false
	}

	coeffs := b.Coefficients()
	var bitstream bytes.Buffer
	if _, err := enc.Encode(coeffs, &bitstream, cfg, availableBytes); err != nil {
		return false
	}

	encoded := bitstream.Bytes()
	if len(encoded) > availableBytes {
		// The pass-boundary budget check can overshoot within a single
		// pass; never write past what out actually has.
		encoded = encoded[:availableBytes]
	}
	copy(out.buf.Bytes()[PayloadOffset:], encoded)

	out.sampleCount = uint16(len(encoded))
	out.parameterID = b.parameterID
	out.startTime = b.startTime
	out.samplingRate = b.samplingRate
	out.blocksize = b.blocksize
	out.scheme = SchemeWaveletNLS
	out.n = b.n
	out.isTransformed = false
	out.isEncoded = true

	writeHeader(out.buf.Bytes(), SchemeWaveletNLS, b.parameterID, b.startTime, b.samplingRate, b.blocksize)
	return true
}

// DecodeBlock reads the header and bitfield byte from an Encoded buffer's
// bytes and replays its NLS bitstream into dst, returning the
// reconstructed coefficients alongside the decoded header fields.
func DecodeBlock(raw []byte, dst []int16) (coeffs []int16, parameterID uint16, startTime int64, rate SamplingRate, size Blocksize, err error) {
	if len(raw) < PayloadOffset {
		return nil, 0, 0, 0, 0, nls.ErrInvalidHeader
	}
	var scheme CompressionScheme
	scheme, parameterID, startTime, rate, size = readHeader(raw)
	_ = scheme
	coeffs, err = nls.NewDecoder().Decode(bytes.NewReader(raw[PayloadOffset:]), dst)
	return coeffs, parameterID, startTime, rate, size, err
}

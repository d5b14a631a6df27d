// Package outpost ties the fixedpoint, wavelet, nls and sharedbuf
// packages together into DataBlock: the pool-backed, reference-counted
// carrier that moves a block of telemetry samples from Raw through
// Transformed to Encoded, plus the header codec and the enums that
// describe a block's wire framing. DataBlock orchestrates the leaf
// packages without itself doing their work.
package outpost

// HeaderSize is the size in bytes of the block header proper: scheme (1),
// parameter_id (2), start_time (8).
const HeaderSize = 11

// bitfieldSize is the one extra byte immediately following the header
// that packs sampling_rate and blocksize as two 4-bit fields. The NLS
// bitstream's own 12-bit prelude begins in the byte after that, at
// PayloadOffset.
const bitfieldSize = 1

// PayloadOffset is the byte offset at which a block's sample, coefficient
// or encoded-bitstream payload begins.
const PayloadOffset = HeaderSize + bitfieldSize

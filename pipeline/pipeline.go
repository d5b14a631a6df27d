// Package pipeline implements BlockPipeline: a single worker goroutine
// that receives raw telemetry blocks from an input queue, wavelet-
// transforms and NLS-encodes each one into a freshly pooled output
// block, and forwards it to an output queue, all under a cooperative
// enable/disable gate.
//
// Queue, Checkpoint and Worker are built directly on channels, sync.Cond
// and sync/atomic rather than on an external concurrency library.
package pipeline

import (
	"time"

	"github.com/DLR-RY/outpost-compress/sharedbuf"
)

// Config parameterises a Worker. The zero value is not valid; use
// DefaultConfig.
type Config struct {
	// ReceiveTimeout bounds how long the worker waits for an input block
	// before looping back to check its checkpoint. The worker has no
	// heartbeat; a timeout only starts the next loop iteration.
	ReceiveTimeout time.Duration

	// RetryTimeout is the delay between output-queue send attempts.
	RetryTimeout time.Duration

	// MaxSendRetries is the number of times the worker retries an
	// output-queue send before dropping the block and counting it lost.
	MaxSendRetries int

	// EncodingBufferLength is the byte capacity of each buffer the
	// worker allocates from the output pool for an encoded block.
	EncodingBufferLength int
}

// DefaultConfig returns the pipeline's production defaults.
func DefaultConfig() Config {
	return Config{
		ReceiveTimeout:       5 * time.Second,
		RetryTimeout:         500 * time.Millisecond,
		MaxSendRetries:       5,
		EncodingBufferLength: 16500,
	}
}

// Pool is the non-blocking buffer allocator the worker draws output
// blocks from. sharedbuf.BufferPool satisfies this directly.
type Pool interface {
	Allocate() (sharedbuf.SharedBufferPointer, bool)
}

// Clock supplies the current time to a producer; the worker itself never
// calls it, only a caller assembling raw blocks upstream of the queue.
type Clock interface {
	Now() int64
}

// SystemClock is the default Clock, backed by time.Now.
type SystemClock struct{}

// Now returns milliseconds since the Unix epoch.
func (SystemClock) Now() int64 {
	return time.Now().UnixMilli()
}

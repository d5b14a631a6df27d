package pipeline

import (
	"context"
	"log"
	"sync/atomic"

	outpost "github.com/DLR-RY/outpost-compress"
	"github.com/DLR-RY/outpost-compress/nls"
)

// Worker is the single-goroutine consumer side of the block pipeline: for
// each block received from In, it wavelet-transforms it, allocates an
// output block from Pool, NLS-encodes into it, and forwards the result to
// Out, with bounded retries and a cooperative Checkpoint gate.
type Worker struct {
	Pool       Pool
	In         *Queue[*outpost.DataBlock]
	Out        *Queue[*outpost.DataBlock]
	Checkpoint *Checkpoint
	Config     Config
	Logger     *log.Logger

	encoder *nls.Encoder
	encCfg  nls.Config

	incoming  atomic.Uint32
	processed atomic.Uint32
	forwarded atomic.Uint32
	lost      atomic.Uint32
}

// NewWorker returns a Worker ready to Run, with DefaultConfig and an
// already-running Checkpoint unless the caller overrides them.
func NewWorker(pool Pool, in, out *Queue[*outpost.DataBlock]) *Worker {
	return &Worker{
		Pool:       pool,
		In:         in,
		Out:        out,
		Checkpoint: NewCheckpoint(),
		Config:     DefaultConfig(),
		Logger:     log.Default(),
		encoder:    nls.NewEncoder(),
		encCfg:     nls.DefaultConfig(),
	}
}

// SetEncoderConfig overrides the nls.Config used for every encode call.
func (w *Worker) SetEncoderConfig(cfg nls.Config) {
	w.encCfg = cfg
}

func (w *Worker) IncomingCount() uint32  { return w.incoming.Load() }
func (w *Worker) ProcessedCount() uint32 { return w.processed.Load() }
func (w *Worker) ForwardedCount() uint32 { return w.forwarded.Load() }
func (w *Worker) LostCount() uint32      { return w.lost.Load() }

// ResetCounters atomically zeros all four counters.
func (w *Worker) ResetCounters() {
	w.incoming.Store(0)
	w.processed.Store(0)
	w.forwarded.Store(0)
	w.lost.Store(0)
}

// Run is the worker's main loop: it calls Checkpoint.Pass, then
// ProcessOne, forever, until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		w.Checkpoint.Pass()
		if !w.ProcessOne(ctx) && ctx.Err() != nil {
			return
		}
	}
}

// ProcessOne runs exactly one iteration of the main loop body: a timed
// receive, and — if a block arrived — the transform/encode/forward
// sequence. It returns false only when the receive timed out or ctx was
// cancelled (nothing to process), which lets tests drive the pipeline
// deterministically instead of racing a free-running goroutine.
func (w *Worker) ProcessOne(ctx context.Context) bool {
	b, ok := w.In.Receive(ctx, w.Config.ReceiveTimeout)
	if !ok {
		return false
	}
	w.incoming.Add(1)
	w.compress(ctx, b)
	return true
}

func (w *Worker) compress(ctx context.Context, b *outpost.DataBlock) {
	b.ApplyWaveletTransform()
	if len(b.Coefficients()) == 0 {
		return
	}

	outBuf, ok := w.Pool.Allocate()
	if !ok {
		w.lost.Add(1)
		return
	}
	out, ok := outpost.NewDataBlock(outBuf, b.ParameterID(), b.StartTime(), b.SamplingRate(), b.Blocksize())
	if !ok {
		outBuf.Release()
		w.lost.Add(1)
		return
	}

	if !b.Encode(out, w.encoder, w.encCfg) {
		out.Release()
		w.lost.Add(1)
		return
	}
	w.processed.Add(1)

	if w.send(ctx, out) {
		w.forwarded.Add(1)
	} else {
		out.Release()
		w.lost.Add(1)
	}
}

func (w *Worker) send(ctx context.Context, out *outpost.DataBlock) bool {
	for attempt := 0; attempt <= w.Config.MaxSendRetries; attempt++ {
		if w.Out.Send(ctx, out, w.Config.RetryTimeout) {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
	}
	return false
}

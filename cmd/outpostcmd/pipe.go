package outpostcmd

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"time"

	outpost "github.com/DLR-RY/outpost-compress"
	"github.com/DLR-RY/outpost-compress/fixedpoint"
	"github.com/DLR-RY/outpost-compress/pipeline"
	"github.com/DLR-RY/outpost-compress/sharedbuf"
	"github.com/pkg/errors"
)

// timeoutContext bundles a context and its cancel func so RunPipe's
// helpers don't each need to thread both through separately.
type timeoutContext struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newTimeoutContext() timeoutContext {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	return timeoutContext{ctx: ctx, cancel: cancel}
}

// RunPipe drives BlockPipeline over a file of raw big-endian int16
// telemetry samples, writing header-prefixed NLS-SPIHT encoded blocks to
// an output file, one after another.
func RunPipe(args []string) error {
	fs := flag.NewFlagSet("outpost-pipe", flag.ContinueOnError)
	blocksize := fs.Int("n", 1024, "samples per block")
	parameterID := fs.Int("parameter-id", 0, "parameter_id recorded in every block's header")
	poolSize := fs.Int("pool-size", 4, "number of output buffers held by the worker's pool")
	force := fs.Bool("f", false, "force overwrite of the output file")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: outpost-pipe [OPTION]... IN.raw OUT.nls")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "IN.raw is a sequence of big-endian int16 samples.")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errors.WithStack(err)
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("expected exactly two positional arguments")
	}
	return pipe(fs.Arg(0), fs.Arg(1), *blocksize, *parameterID, *poolSize, *force)
}

func blocksizeFor(n int) (outpost.Blocksize, error) {
	switch n {
	case 16:
		return outpost.Blocksize16, nil
	case 128:
		return outpost.Blocksize128, nil
	case 256:
		return outpost.Blocksize256, nil
	case 512:
		return outpost.Blocksize512, nil
	case 1024:
		return outpost.Blocksize1024, nil
	case 2048:
		return outpost.Blocksize2048, nil
	case 4096:
		return outpost.Blocksize4096, nil
	default:
		return 0, errors.Errorf("unsupported blocksize %d", n)
	}
}

func pipe(inPath, outPath string, blocksize, parameterID, poolSize int, force bool) error {
	size, err := blocksizeFor(blocksize)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	if !force {
		if _, err := os.Stat(outPath); err == nil {
			return errors.Errorf("output file %q already present; use -f flag to force overwrite", outPath)
		}
	}
	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()

	rawPool := sharedbuf.NewBufferPool(poolSize, outpost.PayloadOffset+blocksize*4)
	encPool := sharedbuf.NewBufferPool(poolSize, outpost.PayloadOffset+blocksize*4)

	inQueue := pipeline.NewQueue[*outpost.DataBlock](poolSize)
	outQueue := pipeline.NewQueue[*outpost.DataBlock](poolSize)
	worker := pipeline.NewWorker(encPool, inQueue, outQueue)

	ctx := newTimeoutContext()
	defer ctx.cancel()

	nBlocks, err := feed(ctx, in, rawPool, inQueue, size, parameterID)
	if err != nil {
		return errors.WithStack(err)
	}

	for i := 0; i < nBlocks; i++ {
		if !worker.ProcessOne(ctx.ctx) {
			break
		}
		b, ok := outQueue.Receive(ctx.ctx, time.Second)
		if !ok {
			break
		}
		if _, err := out.Write(b.EncodedBytes()); err != nil {
			return errors.WithStack(err)
		}
		b.Release()
	}

	fmt.Printf("blocks processed: %d\n", worker.ProcessedCount())
	fmt.Printf("blocks forwarded: %d\n", worker.ForwardedCount())
	fmt.Printf("blocks lost:      %d\n", worker.LostCount())
	return nil
}

func feed(ctx timeoutContext, r *os.File, pool *sharedbuf.BufferPool, q *pipeline.Queue[*outpost.DataBlock], size outpost.Blocksize, parameterID int) (int, error) {
	n := int(size.Samples())
	sample := make([]byte, 2)
	count := 0
	for {
		buf, ok := pool.Allocate()
		if !ok {
			return count, errors.Errorf("raw buffer pool exhausted after %d blocks", count)
		}
		b, ok := outpost.NewDataBlock(buf, uint16(parameterID), time.Now().UnixMilli(), outpost.SamplingRate1Hz, size)
		if !ok {
			buf.Release()
			return count, errors.New("NewDataBlock failed")
		}

		pushed := 0
		for pushed < n {
			if _, err := r.Read(sample); err != nil {
				break
			}
			v := int16(binary.BigEndian.Uint16(sample))
			b.Push(fixedpoint.FromInt(v))
			pushed++
		}
		if pushed == 0 {
			b.Release()
			break
		}
		if !q.Send(ctx.ctx, b, time.Second) {
			b.Release()
			return count, errors.New("input queue send timed out")
		}
		count++
		if pushed < n {
			break
		}
	}
	return count, nil
}

// Package outpostcmd holds the subcommand bodies shared between each
// standalone outpost-* binary and the root dispatcher, mirroring the
// teacher's split between cmd/flac2wav's binary and the shared cmd
// package the dispatcher imports.
package outpostcmd

import (
	"bytes"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/DLR-RY/outpost-compress/fixedpoint"
	"github.com/DLR-RY/outpost-compress/nls"
	"github.com/DLR-RY/outpost-compress/wavelet"
	"github.com/pkg/errors"
)

// RunBench round-trips synthetic telemetry blocks through the wavelet
// transform and NLS-SPIHT codec and reports compression ratio and
// throughput, the way a developer would sanity-check a codec change
// before committing it.
func RunBench(args []string) error {
	fs := flag.NewFlagSet("outpost-bench", flag.ContinueOnError)
	blocksize := fs.Int("n", 1024, "samples per block (one of 16,128,256,512,1024,2048,4096)")
	blocks := fs.Int("blocks", 100, "number of synthetic blocks to encode")
	amplitude := fs.Float64("amplitude", 1000, "amplitude of the synthetic sine signal")
	dcComponents := fs.Int("dc-components", 2, "nls.Config.DCComponents")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: outpost-bench [OPTION]...")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errors.WithStack(err)
	}

	cfg := nls.DefaultConfig()
	cfg.DCComponents = *dcComponents

	var rawBytes, encBytes int
	var encodeTime, decodeTime time.Duration
	var maxAbsError int64

	enc := nls.NewEncoder()
	for b := 0; b < *blocks; b++ {
		samples := syntheticBlock(*blocksize, *amplitude, b)
		coeffs := transform(samples)

		var wire bytes.Buffer
		t0 := time.Now()
		// Encode overwrites significant coefficients with their magnitudes,
		// so it gets a copy and coeffs keeps the signed values to compare.
		if _, err := enc.Encode(append([]int16(nil), coeffs...), &wire, cfg, 0); err != nil {
			return errors.Wrap(err, "encode")
		}
		encodeTime += time.Since(t0)

		dst := make([]int16, len(coeffs))
		t1 := time.Now()
		decoded, err := nls.NewDecoder().Decode(bytes.NewReader(wire.Bytes()), dst)
		decodeTime += time.Since(t1)
		if err != nil {
			return errors.Wrap(err, "decode")
		}

		rawBytes += len(samples) * 4
		encBytes += wire.Len()
		for i := range coeffs {
			diff := int64(coeffs[i]) - int64(decoded[i])
			if diff < 0 {
				diff = -diff
			}
			if diff > maxAbsError {
				maxAbsError = diff
			}
		}
	}

	ratio := float64(rawBytes) / float64(encBytes)
	fmt.Printf("blocks:            %d\n", *blocks)
	fmt.Printf("blocksize:         %d\n", *blocksize)
	fmt.Printf("raw bytes:         %d\n", rawBytes)
	fmt.Printf("encoded bytes:     %d\n", encBytes)
	fmt.Printf("compression ratio: %.2fx\n", ratio)
	fmt.Printf("max coeff error:   %d\n", maxAbsError)
	fmt.Printf("encode throughput: %.0f blocks/s\n", float64(*blocks)/encodeTime.Seconds())
	fmt.Printf("decode throughput: %.0f blocks/s\n", float64(*blocks)/decodeTime.Seconds())
	return nil
}

func syntheticBlock(n int, amplitude float64, seed int) []fixedpoint.FixedPoint {
	out := make([]fixedpoint.FixedPoint, n)
	for i := range out {
		phase := 2 * math.Pi * float64(i+seed*n) / float64(n)
		v := amplitude * math.Sin(phase)
		out[i] = fixedpoint.FromFloat64(v)
	}
	return out
}

func transform(samples []fixedpoint.FixedPoint) []int16 {
	work := append([]fixedpoint.FixedPoint(nil), samples...)
	wavelet.ForwardInPlace(work)
	return wavelet.Reorder(work)
}

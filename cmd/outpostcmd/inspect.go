package outpostcmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	outpost "github.com/DLR-RY/outpost-compress"
	"github.com/DLR-RY/outpost-compress/internal/bufseekio"
	"github.com/pkg/errors"
)

// RunInspect lists the header and decoded coefficient summary of one or
// more encoded telemetry block files.
func RunInspect(args []string) error {
	fs := flag.NewFlagSet("outpost-inspect", flag.ContinueOnError)
	maxSamples := fs.Int("max-samples", 4096, "largest blocksize to allocate a decode destination for")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: outpost-inspect [OPTION]... FILE...")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Each FILE holds one header-prefixed NLS-SPIHT encoded block.")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errors.WithStack(err)
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("no FILE arguments given")
	}
	for _, path := range fs.Args() {
		if err := inspectOne(path, *maxSamples); err != nil {
			return errors.Wrapf(err, "%s", path)
		}
	}
	return nil
}

func inspectOne(path string, maxSamples int) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	// bufseekio buffers the reads from the file; the whole block is read
	// into raw in a single pass.
	r := bufseekio.NewReadSeeker(f)
	raw, err := io.ReadAll(r)
	if err != nil {
		return errors.WithStack(err)
	}

	dst := make([]int16, maxSamples)
	coeffs, parameterID, startTime, rate, size, err := outpost.DecodeBlock(raw, dst)
	if err != nil {
		return errors.Wrapf(err, "decode %q", path)
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  parameter_id: %d\n", parameterID)
	fmt.Printf("  start_time:   %d\n", startTime)
	fmt.Printf("  sampling_rate: %s\n", rate)
	fmt.Printf("  blocksize:    %s\n", size)
	fmt.Printf("  bytes on wire: %d\n", len(raw))

	var nonZero int
	var maxAbs int16
	for _, c := range coeffs {
		if c != 0 {
			nonZero++
		}
		if c < 0 {
			c = -c
		}
		if c > maxAbs {
			maxAbs = c
		}
	}
	fmt.Printf("  coefficients: %d (%d nonzero, max magnitude %d)\n", len(coeffs), nonZero, maxAbs)
	return nil
}

// Command outpost-compress dispatches to the outpost-bench, outpost-pipe
// and outpost-inspect subcommands from a single binary.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/DLR-RY/outpost-compress/cmd/outpostcmd"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: outpost-compress [outpost-bench|outpost-pipe|outpost-inspect] [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, "outpost-bench [OPTION]...")
	fmt.Fprintln(os.Stderr, "  Round-trip synthetic blocks through the codec and report ratio/throughput.")
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, "outpost-pipe [OPTION]... IN.raw OUT.nls")
	fmt.Fprintln(os.Stderr, "  Run the raw samples in IN.raw through BlockPipeline, writing OUT.nls.")
	fmt.Fprintln(os.Stderr)

	fmt.Fprintln(os.Stderr, "outpost-inspect [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr, "  List the header and coefficient summary of encoded block files.")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	command := os.Args[1]

	// Each subcommand owns its own flag.FlagSet, so only the command
	// token itself — not a shared global flag — is stripped here.
	args := os.Args[2:]

	var err error
	switch command {
	case "outpost-bench":
		err = outpostcmd.RunBench(args)
	case "outpost-pipe":
		err = outpostcmd.RunPipe(args)
	case "outpost-inspect":
		err = outpostcmd.RunInspect(args)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

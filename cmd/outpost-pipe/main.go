// Command outpost-pipe drives BlockPipeline over a file of raw big-endian
// int16 telemetry samples, writing header-prefixed NLS-SPIHT encoded blocks
// to an output file, one after another.
package main

import (
	"log"
	"os"

	"github.com/DLR-RY/outpost-compress/cmd/outpostcmd"
)

func main() {
	if err := outpostcmd.RunPipe(os.Args[1:]); err != nil {
		log.Fatalf("%+v", err)
	}
}

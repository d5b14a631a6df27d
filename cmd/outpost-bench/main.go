// Command outpost-bench round-trips synthetic telemetry blocks through the
// wavelet transform and NLS-SPIHT codec and reports compression ratio and
// throughput, the way a developer would sanity-check a codec change before
// committing it.
package main

import (
	"log"
	"os"

	"github.com/DLR-RY/outpost-compress/cmd/outpostcmd"
)

func main() {
	if err := outpostcmd.RunBench(os.Args[1:]); err != nil {
		log.Fatalf("%+v", err)
	}
}

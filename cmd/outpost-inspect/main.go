// Command outpost-inspect lists the header and decoded coefficient summary
// of one or more encoded telemetry block files.
package main

import (
	"log"
	"os"

	"github.com/DLR-RY/outpost-compress/cmd/outpostcmd"
)

func main() {
	if err := outpostcmd.RunInspect(os.Args[1:]); err != nil {
		log.Fatalf("%+v", err)
	}
}

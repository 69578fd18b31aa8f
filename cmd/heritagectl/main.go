// heritagectl validates booking payloads and queries the service-area
// geography from the command line.
//
// Usage:
//
//	heritagectl validate <entity> [file|-]
//	heritagectl sanitize [file|-]
//	heritagectl geo nearest --lat 26.18 --lng 91.74
//	heritagectl events tail --entity booking
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/samirrijal/heritagepass/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// The result was already printed for an invalid payload.
		if !errors.Is(err, cli.ErrInvalidPayload) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

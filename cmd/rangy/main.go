// Command rangy extracts visible text from HTML documents, searches it, walks
// its words and converts between DOM ranges and character offsets.
package main

import (
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	SetVersion(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

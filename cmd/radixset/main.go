// radixset manages sorted sets of 232-bit values kept as radix tries in a
// LevelDB word store.
package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/radixset/trieerrors"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout); err != nil {
		if code := trieerrors.GetErrorCodeWithName(err); code != "" {
			fmt.Fprintf(os.Stderr, "error [%s]: %v\n", code, err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Command loomctl drives the hpack codec from the command line: encoding
// and decoding header-set fixtures, inspecting the representation choices
// an encode run would make, and running the capture relay.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

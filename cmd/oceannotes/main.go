// Command oceannotes is the terminal front end and scripting CLI for
// Ocean Notes.
package main

import (
	"fmt"
	"os"
)

func main() {
	Execute()
}

// fatal reports err and exits with status 1. Deferred calls in the caller
// do not run, so commands holding a store go through withService first.
func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "oceannotes: %s: %v\n", msg, err)
	os.Exit(1)
}

// Command wilbur builds the Wilbur Core-XY printer assembly: it derives the
// stack-up dimensions, connects every part through its joints and exports
// the printed parts as STL.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Command factorio-bot drives a headless Factorio client from the
// command line: connect, download the map, and either sit in the live
// heartbeat loop or walk to a goal tile.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

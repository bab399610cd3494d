// Command jitterpoolbench exercises a jitterpool.Engine against either
// synthetic test signals or a live UDP stream captured from and played back
// through real audio hardware via PortAudio.
package main

import (
	"fmt"
	"os"
)

// Version is the bench tool's reported version string.
const Version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	if !RunCLI(os.Args[1:]) {
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jitterpoolbench <command> [flags]")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  version            print the tool version")
	fmt.Fprintln(os.Stderr, "  devices            list available PortAudio input/output devices")
	fmt.Fprintln(os.Stderr, "  tone               run concealment against a synthetic tone + simulated loss")
	fmt.Fprintln(os.Stderr, "  listen             receive a live UDP stream, conceal loss, and play it back")
	fmt.Fprintln(os.Stderr, "  send               capture from a device and transmit raw PCM packets over UDP")
}

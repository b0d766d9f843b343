// Package main provides the lpcfeat CLI tool.
//
// Usage:
//
//	lpcfeat [flags] <command> [args]
//
// Commands:
//
//	features  - extract raw or quantized feature matrices from s16le speech
//	encode    - code s16le speech into 8-byte superframe packets
//	decode    - rebuild feature matrices from packets
//	inspect   - print packet fields or feature summaries
//	codebook  - export the active codebook set
//
// Input is 16-bit little-endian mono PCM. Use '-' for stdin or stdout.
package main

import (
	"fmt"
	"os"

	"github.com/thesyncim/lpcfeat/cmd/lpcfeat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

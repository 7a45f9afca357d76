// Package main is the entry point for the bootstrap CLI.
//
// bootstrap provisions a development workspace with a local LLM runtime:
// system packages, Python dependencies, the Ollama runtime, the target model
// and, inside a codespace, public exposure of the application port. Every
// stage is idempotent, so the tool can be re-run safely after a partial
// failure.
//
// For detailed usage information, run:
//
//	bootstrap --help
package main

import (
	"fmt"
	"os"

	"github.com/askiada/go-provision/cmd/bootstrap/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

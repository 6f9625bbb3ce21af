// Package main is vigil's CLI entrypoint.
//
// Grounded on the teacher's cmd/yargo/main.go walk-and-scan shape and
// oktsec's cmd/oktsec/commands root-command wiring (cobra root with the
// subcommands attached via AddCommand; each subcommand carries its own
// --config flag).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logger *slog.Logger

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

	root := newRoot()
	if err := root.Execute(); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "vigil",
		Short: "Scan source trees and git histories for leaked credentials",
		Long:  "Vigil compiles declarative YAML rule schemas into an Aho-Corasick + regex detector and scans a filesystem path or a git repository for leaked secrets.",
	}

	root.AddCommand(newFilesystemCmd(), newGitCmd())
	return root
}

func printBanner() {
	fmt.Fprintln(os.Stderr, "vigil — scanning…")
}

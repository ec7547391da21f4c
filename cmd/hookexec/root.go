package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hookexec",
	Short: "Hook bytecode inspection and local execution",
	Long: `hookexec - Validate and exercise ledger hook bytecode.

check verifies a module against the bind-time contract: the closed env
import whitelist, exact host-call signatures, a single fixed one-page
memory, and bounded function tables.

run executes a hook against an in-memory ledger snapshot and reports
the verdict, the staged state diff and the emission queue.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerhooks/hookexec/hook"
)

var checkCmd = &cobra.Command{
	Use:   "check <module.wasm>",
	Short: "Validate hook bytecode against the bind-time contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("imports", false, "List the module's imports")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	bytecode, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	if show, _ := cmd.Flags().GetBool("imports"); show {
		imports, err := hook.ModuleImports(bytecode)
		if err != nil {
			return fmt.Errorf("scan %s: %w", args[0], err)
		}
		for _, name := range imports {
			fmt.Println(name)
		}
	}

	if err := hook.ValidateModule(bytecode); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Printf("%s: ok\n", args[0])
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"botc/interpreter-go/pkg/compiler"
)

func newExpandCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "expand [file|code]",
		Short: "Expand ultra-compressed source into the dense grammar",
		Long: `Expand rewrites ultra-compressed macros into dense instructions and
prints the result. The argument is read as a file when one exists at that
path, otherwise it is treated as literal source. With no argument (or "-")
the source is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd, args, check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "fail on truncated or unterminated macros")
	return cmd
}

func runExpand(cmd *cobra.Command, args []string, check bool) error {
	var source string
	switch {
	case len(args) == 0 || args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		source = string(data)
	default:
		arg := args[0]
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			data, err := os.ReadFile(arg)
			if err != nil {
				return err
			}
			source = string(data)
		} else {
			source = arg
		}
	}

	if check {
		if err := compiler.CheckUltra(source); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), compiler.Expand(source))
	return nil
}

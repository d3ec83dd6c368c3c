package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botc/interpreter-go/pkg/driver"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Strictly validate behaviors without running them",
		Long: `Check compiles behaviors in strict mode: truncated ultra macros,
unterminated brackets, and unterminated quotes are reported as errors.

Without arguments every behavior declared in robot.yml is checked; with
arguments each file is checked individually.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	errw := cmd.ErrOrStderr()

	if len(args) > 0 {
		failures := 0
		for _, path := range args {
			if _, err := compileSourceFile(path, true); err != nil {
				failures++
				fmt.Fprintln(errw, err)
				continue
			}
			fmt.Fprintf(out, "ok %s\n", path)
		}
		if failures > 0 {
			return fmt.Errorf("%d of %d files failed validation", failures, len(args))
		}
		return nil
	}

	manifest, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	loader := driver.NewLoader(manifest, nil)
	errs := loader.CheckAll()
	for _, checkErr := range errs {
		fmt.Fprintln(errw, checkErr)
	}
	total := len(manifest.BehaviorNames())
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d behaviors failed validation", len(errs), total)
	}
	fmt.Fprintf(out, "ok: %d behaviors\n", total)
	return nil
}

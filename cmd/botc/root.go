package main

import (
	"github.com/spf13/cobra"
)

const toolVersion = "botc 0.1.0"

type rootOptions struct {
	logLevel  string
	logFormat string
	traceFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "botc",
		Short: "botc compiles and runs robot behavior programs",
		Long: `botc is the command line driver for robot behavior programs.

It expands ultra-compressed sources (.ubc) into the dense grammar (.botc),
compiles dense sources into instruction trees, and executes them against
simulated hardware. Projects are described by a robot.yml manifest; behavior
packs are fetched with botc deps and pinned in pack.lock.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")
	root.PersistentFlags().StringVar(&opts.traceFile, "trace-file", "", "also append structured run logs to this file as JSON")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newReplCmd(opts))
	root.AddCommand(newCheckCmd())
	root.AddCommand(newExpandCmd())
	root.AddCommand(newDepsCmd())
	root.AddCommand(newVersionCmd())
	return root
}

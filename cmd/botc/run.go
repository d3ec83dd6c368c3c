package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"botc/interpreter-go/pkg/driver"
	"botc/interpreter-go/pkg/instr"
	"botc/interpreter-go/pkg/interpreter"
	"botc/interpreter-go/pkg/runtime"
	"botc/interpreter-go/pkg/sim"
)

type runOptions struct {
	strict bool
	seed   int64
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	runOpts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [behavior|file]",
		Short: "Execute a behavior against simulated hardware",
		Long: `Run executes a behavior and prints its trace.

Without arguments the manifest's default behavior runs. A name argument
selects a manifest behavior or an installed pack behavior; a path argument
runs a bare .botc or .ubc file without a manifest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return runRun(cmd, opts, runOpts, target)
		},
	}
	cmd.Flags().BoolVar(&runOpts.strict, "strict", false, "reject sources with truncated macros or unterminated captures")
	cmd.Flags().Int64Var(&runOpts.seed, "seed", 0, "sensor simulation seed (defaults to the manifest seed)")
	return cmd
}

func runRun(cmd *cobra.Command, opts *rootOptions, runOpts *runOptions, target string) error {
	logger, closeLog, err := opts.buildLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	var program *instr.Program
	var manifest *driver.Manifest

	if target != "" && looksLikeSourcePath(target) {
		program, err = compileSourceFile(target, runOpts.strict)
		if err != nil {
			return err
		}
	} else {
		manifest, err = loadProjectManifest(".")
		if err != nil {
			return err
		}
		lock, err := loadProjectLockfile(manifest)
		if err != nil {
			return err
		}
		cacheDir, err := resolveBotcHome()
		if err != nil {
			return err
		}
		loader := driver.NewLoader(manifest, packSearchDirs(manifest, lock, cacheDir))
		loader.SetStrict(runOpts.strict)
		program, err = loader.Resolve(target)
		if err != nil {
			return err
		}
	}

	seed := runOpts.seed
	if manifest != nil && !cmd.Flags().Changed("seed") {
		seed = manifest.Seed
	}
	robot := "robot"
	if manifest != nil && manifest.Name != "" {
		robot = manifest.Name
	}

	rctx := runtime.NewContext(robot)
	rctx.SetLogger(traceForwarder{logger})
	interp := interpreter.New(sim.NewSensors(seed))

	logger.Info("running behavior",
		"behavior", program.Name,
		"robot", robot,
		"run_id", rctx.ID,
		"seed", seed,
		"strict", runOpts.strict)

	start := time.Now()
	if err := interp.Run(program, rctx); err != nil {
		logger.Error("run aborted", "run_id", rctx.ID, "error", err)
		return err
	}

	for _, line := range rctx.TraceLog() {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	logger.Info("run complete",
		"run_id", rctx.ID,
		"instructions", len(program.Instructions),
		"traveled", rctx.Traveled(),
		"heading", rctx.Heading(),
		"duration", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// traceForwarder adapts the execution context's trace stream onto slog so
// --trace-file captures every executed instruction.
type traceForwarder struct {
	log *slog.Logger
}

func (t traceForwarder) Record(entry string) {
	t.log.Debug("trace", "event", entry)
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"botc/interpreter-go/pkg/compiler"
	"botc/interpreter-go/pkg/instr"
	"botc/interpreter-go/pkg/interpreter"
	"botc/interpreter-go/pkg/runtime"
	"botc/interpreter-go/pkg/sim"
)

func newReplCmd(opts *rootOptions) *cobra.Command {
	var seed int64
	var ultra bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Execute dense code interactively against one persistent robot",
		Long: `Repl reads one line of code at a time, compiles it permissively, and
executes it against a robot context that lives for the whole session:
memory, actuator outputs, heading, and the odometer carry over from line
to line. With --ultra each line is macro-expanded first; use botc expand
to inspect an expansion without running it.

Inside a project the session adopts the manifest's robot name and seed;
without one it runs as a bare playground.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, opts, seed, ultra)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "sensor simulation seed (defaults to the manifest seed)")
	cmd.Flags().BoolVar(&ultra, "ultra", false, "expand each line as ultra-compressed code before compiling")
	return cmd
}

func runRepl(cmd *cobra.Command, opts *rootOptions, seed int64, ultra bool) error {
	logger, closeLog, err := opts.buildLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	robot := "robot"
	manifest, err := loadProjectManifest(".")
	switch {
	case err == nil:
		if manifest.Name != "" {
			robot = manifest.Name
		}
		if !cmd.Flags().Changed("seed") {
			seed = manifest.Seed
		}
	case errors.Is(err, errManifestNotFound):
		// No project: the repl works as a bare playground.
	default:
		return err
	}

	rctx := runtime.NewContext(robot)
	rctx.SetLogger(traceForwarder{logger})
	interp := interpreter.New(sim.NewSensors(seed))

	out := cmd.OutOrStdout()
	logger.Info("repl session", "robot", robot, "run_id", rctx.ID, "seed", seed, "ultra", ultra)
	fmt.Fprintf(out, "%s repl, robot %s (help for commands, exit to leave)\n", toolVersion, robot)

	lines := 0
	defer func() {
		logger.Info("repl closed", "run_id", rctx.ID, "lines", lines)
	}()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit", "q":
			return nil
		case "help":
			printReplHelp(out)
			continue
		case "mem":
			printReplMemory(out, rctx)
			continue
		case "status":
			printReplStatus(out, rctx)
			continue
		case "reset":
			rctx.Reset()
			fmt.Fprintln(out, "context reset")
			continue
		}

		src := line
		if ultra {
			src = compiler.Expand(src)
		}
		before := len(rctx.TraceLog())
		program := instr.NewProgram("repl", compiler.Compile(src).Instructions)
		runErr := interp.Run(program, rctx)
		lines++
		for _, entry := range rctx.TraceLog()[before:] {
			fmt.Fprintln(out, entry)
		}
		if runErr != nil {
			logger.Error("line failed", "run_id", rctx.ID, "error", runErr)
		}
	}
	return scanner.Err()
}

func printReplHelp(out io.Writer) {
	fmt.Fprint(out, `session commands:
  help    show this help
  mem     print working memory
  status  print state, heading, odometer, and driven outputs
  reset   return the context to its initial idle condition
  exit    leave the session (quit and q work too)
anything else runs as code; each line's trace prints as it executes
`)
}

func printReplMemory(out io.Writer, rctx *runtime.Context) {
	keys := rctx.Memory.Keys()
	if len(keys) == 0 {
		fmt.Fprintln(out, "memory empty")
		return
	}
	for _, name := range keys {
		value, _ := rctx.Memory.Reading(name)
		fmt.Fprintf(out, "%s = %v\n", name, value)
	}
}

func printReplStatus(out io.Writer, rctx *runtime.Context) {
	fmt.Fprintf(out, "state %s, heading %d, traveled %d\n", rctx.State(), rctx.Heading(), rctx.Traveled())
	outputs := rctx.Outputs()
	ids := make([]int, 0, len(outputs))
	for id := range outputs {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "output %d = %v\n", id, outputs[byte(id)])
	}
}

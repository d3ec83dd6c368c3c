package compiler

import (
	"strings"

	"botc/interpreter-go/pkg/instr"
)

// DefaultProgramName is the name Compile gives a program when the caller has
// no better one; loaders re-wrap under the behavior's own name.
const DefaultProgramName = "main"

// Compile parses dense text into a runnable program, best effort: malformed
// literals read as 0, unterminated captures compile from what was collected,
// unknown symbols are skipped. It never fails, which makes it the right entry
// point for possibly hand-written, possibly truncated dense strings.
func Compile(src string) *instr.Program {
	var scan denseScan
	return instr.NewProgram(DefaultProgramName, scan.parse(src, 0))
}

// CompileStrict parses like Compile but refuses input the permissive path
// papers over: unterminated brackets and quotes come back aggregated in a
// *CompileError. Malformed literals and unknown symbols stay silent in both
// modes.
func CompileStrict(src string) (*instr.Program, error) {
	var scan denseScan
	instructions := scan.parse(src, 0)
	if len(scan.issues) > 0 {
		return nil, &CompileError{Issues: scan.issues}
	}
	return instr.NewProgram(DefaultProgramName, instructions), nil
}

// CompileError aggregates compile and macro-validation diagnostics.
type CompileError struct {
	Issues []string
}

func (e *CompileError) Error() string {
	if len(e.Issues) == 0 {
		return "compile failed"
	}
	var b strings.Builder
	b.WriteString("compile failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

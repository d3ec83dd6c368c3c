package interpreter

import (
	"fmt"
	"time"

	"botc/interpreter-go/pkg/instr"
	"botc/interpreter-go/pkg/runtime"
)

// MaxWhileIterations caps every While loop regardless of its predicate. The
// bound is a termination guarantee, not a tuning knob: a run over any finite
// program always completes.
const MaxWhileIterations = 1000

// Interpreter executes instruction trees against a robot context. Execution
// is single-threaded and synchronous; one interpreter pass owns its context
// for the duration of Run.
type Interpreter struct {
	sensors runtime.SensorSource
	sleep   func(time.Duration)
}

// New returns an interpreter reading from the given sensor source.
func New(sensors runtime.SensorSource) *Interpreter {
	return &Interpreter{sensors: sensors, sleep: time.Sleep}
}

// SetSleep replaces the blocking delay behind Wait. Tests install a no-op or
// a recorder; nil restores the real clock.
func (i *Interpreter) SetSleep(sleep func(time.Duration)) {
	if sleep == nil {
		sleep = time.Sleep
	}
	i.sleep = sleep
}

// Run executes the program's instructions in order against ctx. The first
// failing instruction aborts the run; there is no retry and no recovery. A
// panicking predicate propagates to the caller untouched.
func (i *Interpreter) Run(program *instr.Program, ctx *runtime.Context) error {
	if err := i.execSequence(program.Instructions, ctx); err != nil {
		return fmt.Errorf("run %s: %w", program.Name, err)
	}
	return nil
}

func (i *Interpreter) execSequence(instructions []instr.Instruction, ctx *runtime.Context) error {
	for _, in := range instructions {
		if err := i.execInstruction(in, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execInstruction(in instr.Instruction, ctx *runtime.Context) error {
	switch node := in.(type) {
	case *instr.Move:
		ctx.AddTravel(node.Distance)
		ctx.Trace(fmt.Sprintf("move %s %d", node.Direction, node.Distance))
		return nil

	case *instr.Turn:
		ctx.AddHeading(node.Degrees)
		ctx.Trace(fmt.Sprintf("turn %d", node.Degrees))
		return nil

	case *instr.Sense:
		reading, err := i.sensors.Read(runtime.SensorAnalog, node.SensorID)
		if err != nil {
			return fmt.Errorf("sense %d: %w", node.SensorID, err)
		}
		ctx.Memory.Set(node.Target, reading)
		ctx.Trace(fmt.Sprintf("sense %d -> %s = %v", node.SensorID, node.Target, reading))
		return nil

	case *instr.Actuate:
		ctx.SetOutput(node.ActuatorID, node.Value)
		ctx.Trace(fmt.Sprintf("actuate %d = %v", node.ActuatorID, node.Value))
		return nil

	case *instr.Cond:
		// The predicate runs exactly once; exactly one branch executes.
		if node.Predicate(ctx.Memory) {
			return i.execSequence(node.Then, ctx)
		}
		return i.execSequence(node.Else, ctx)

	case *instr.Loop:
		for n := 0; n < node.Count; n++ {
			if err := i.execSequence(node.Body, ctx); err != nil {
				return err
			}
		}
		return nil

	case *instr.While:
		for n := 0; n < MaxWhileIterations && node.Predicate(ctx.Memory); n++ {
			if err := i.execSequence(node.Body, ctx); err != nil {
				return err
			}
		}
		return nil

	case *instr.Parallel:
		// Branches run to completion one after another in declaration
		// order. Simulated concurrency; the ordering is part of the
		// contract and tests rely on it.
		for _, branch := range node.Branches {
			if err := i.execSequence(branch, ctx); err != nil {
				return err
			}
		}
		return nil

	case *instr.Wait:
		ms := min(node.DurationMS, instr.MaxWaitMS)
		i.sleep(time.Duration(ms) * time.Millisecond)
		ctx.Trace(fmt.Sprintf("wait %dms", ms))
		return nil

	case *instr.Log:
		ctx.Trace(node.Message)
		return nil

	case *instr.Halt:
		ctx.ZeroOutputs()
		ctx.Trace("halt")
		return nil

	default:
		return fmt.Errorf("unsupported instruction %T", in)
	}
}

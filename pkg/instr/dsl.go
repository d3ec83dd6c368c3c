package instr

// Builder shorthands for composing instruction trees in source. Tests and
// embedding applications use these instead of spelling out the node structs.

// Movement helpers.

func Fwd(distance int) *Move {
	return NewMove(Forward, distance)
}

func Back(distance int) *Move {
	return NewMove(Backward, distance)
}

func StrafeL(distance int) *Move {
	return NewMove(Left, distance)
}

func StrafeR(distance int) *Move {
	return NewMove(Right, distance)
}

func Deg(degrees int) *Turn {
	return NewTurn(degrees)
}

// IO helpers.

// Read senses the given sensor into its canonical "s<id>" variable.
func Read(sensorID byte) *Sense {
	return NewSense(sensorID, "")
}

// ReadInto senses the given sensor into an explicit variable.
func ReadInto(sensorID byte, target string) *Sense {
	return NewSense(sensorID, target)
}

func Set(actuatorID byte, value float64) *Actuate {
	return NewActuate(actuatorID, value)
}

func Pause(durationMS int) *Wait {
	return NewWait(durationMS)
}

func Say(message string) *Log {
	return NewLog(message)
}

func Stop() *Halt {
	return NewHalt()
}

// Control-flow helpers.

// Seq is a convenience for building instruction slices inline.
func Seq(instructions ...Instruction) []Instruction {
	return instructions
}

// When builds a conditional from an arbitrary predicate.
func When(predicate Predicate, thenBranch, elseBranch []Instruction) *Cond {
	return NewCond(predicate, thenBranch, elseBranch)
}

// If builds the dense grammar's conditional: memory key "s0" compared against
// threshold. The key is fixed whatever sensor was actually read.
func If(threshold int, thenBranch, elseBranch []Instruction) *Cond {
	return NewCond(Above("s0", float64(threshold)), thenBranch, elseBranch)
}

// Above returns a predicate that holds when the named reading exceeds limit.
// A missing reading counts as zero.
func Above(name string, limit float64) Predicate {
	return func(mem MemoryReader) bool {
		v, _ := mem.Reading(name)
		return v > limit
	}
}

func Rep(count int, body ...Instruction) *Loop {
	return NewLoop(count, body)
}

// WhileDo repeats body as long as the predicate holds, subject to the
// interpreter's iteration ceiling.
func WhileDo(predicate Predicate, body ...Instruction) *While {
	return NewWhile(predicate, body)
}

func Par(branches ...[]Instruction) *Parallel {
	return NewParallel(branches...)
}

func Prog(name string, instructions ...Instruction) *Program {
	return NewProgram(name, instructions)
}

package instr

import "fmt"

// Kind identifies the instruction category.
type Kind int

const (
	KindMove Kind = iota
	KindTurn
	KindSense
	KindActuate
	KindCond
	KindLoop
	KindWhile
	KindParallel
	KindWait
	KindLog
	KindHalt
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindTurn:
		return "turn"
	case KindSense:
		return "sense"
	case KindActuate:
		return "actuate"
	case KindCond:
		return "cond"
	case KindLoop:
		return "loop"
	case KindWhile:
		return "while"
	case KindParallel:
		return "parallel"
	case KindWait:
		return "wait"
	case KindLog:
		return "log"
	case KindHalt:
		return "halt"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Instruction is the shared behaviour for all instruction nodes. The set of
// implementations is closed: the interpreter matches exhaustively over it and
// treats any other type as a hard error. Instructions are immutable once
// constructed; composition always builds new nodes.
type Instruction interface {
	Kind() Kind
	isInstruction()
}

// MemoryReader is the read-only view of working memory a predicate sees.
type MemoryReader interface {
	Reading(name string) (float64, bool)
}

// Predicate decides a Cond or While branch against current memory.
type Predicate func(mem MemoryReader) bool

// Direction enumerates the movement axes. Up/down dense symbols alias onto
// forward/backward; left/right are strafes.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
	Left     Direction = "left"
	Right    Direction = "right"
)

// MaxWaitMS caps the delay a single Wait instruction may carry.
const MaxWaitMS = 5000

//-----------------------------------------------------------------------------
// Leaf instructions
//-----------------------------------------------------------------------------

type Move struct {
	Direction Direction
	Distance  int
}

func (*Move) Kind() Kind     { return KindMove }
func (*Move) isInstruction() {}

// NewMove builds a movement instruction; negative distances clamp to zero.
func NewMove(direction Direction, distance int) *Move {
	if distance < 0 {
		distance = 0
	}
	return &Move{Direction: direction, Distance: distance}
}

type Turn struct {
	Degrees int
}

func (*Turn) Kind() Kind     { return KindTurn }
func (*Turn) isInstruction() {}

func NewTurn(degrees int) *Turn {
	return &Turn{Degrees: degrees}
}

type Sense struct {
	SensorID byte
	Target   string
}

func (*Sense) Kind() Kind     { return KindSense }
func (*Sense) isInstruction() {}

// NewSense stores the reading of the given sensor under target; an empty
// target falls back to the canonical "s<id>" key the dense grammar uses.
func NewSense(sensorID byte, target string) *Sense {
	if target == "" {
		target = SensorVar(sensorID)
	}
	return &Sense{SensorID: sensorID, Target: target}
}

// SensorVar returns the canonical memory key for a sensor id.
func SensorVar(sensorID byte) string {
	return fmt.Sprintf("s%d", sensorID)
}

type Actuate struct {
	ActuatorID byte
	Value      float64
}

func (*Actuate) Kind() Kind     { return KindActuate }
func (*Actuate) isInstruction() {}

func NewActuate(actuatorID byte, value float64) *Actuate {
	return &Actuate{ActuatorID: actuatorID, Value: value}
}

type Wait struct {
	DurationMS int
}

func (*Wait) Kind() Kind     { return KindWait }
func (*Wait) isInstruction() {}

// NewWait clamps the delay into [0, MaxWaitMS].
func NewWait(durationMS int) *Wait {
	if durationMS < 0 {
		durationMS = 0
	}
	if durationMS > MaxWaitMS {
		durationMS = MaxWaitMS
	}
	return &Wait{DurationMS: durationMS}
}

type Log struct {
	Message string
}

func (*Log) Kind() Kind     { return KindLog }
func (*Log) isInstruction() {}

func NewLog(message string) *Log {
	return &Log{Message: message}
}

// Halt zeroes actuator outputs when executed. It does not abort the
// remaining instructions of the sequence it appears in.
type Halt struct{}

func (*Halt) Kind() Kind     { return KindHalt }
func (*Halt) isInstruction() {}

func NewHalt() *Halt {
	return &Halt{}
}

//-----------------------------------------------------------------------------
// Structured instructions
//-----------------------------------------------------------------------------

type Cond struct {
	Predicate Predicate
	Then      []Instruction
	Else      []Instruction
}

func (*Cond) Kind() Kind     { return KindCond }
func (*Cond) isInstruction() {}

func NewCond(predicate Predicate, thenBranch, elseBranch []Instruction) *Cond {
	return &Cond{Predicate: predicate, Then: thenBranch, Else: elseBranch}
}

type Loop struct {
	Count int
	Body  []Instruction
}

func (*Loop) Kind() Kind     { return KindLoop }
func (*Loop) isInstruction() {}

// NewLoop coerces non-positive counts to 1: a loop always runs its body at
// least once.
func NewLoop(count int, body []Instruction) *Loop {
	if count < 1 {
		count = 1
	}
	return &Loop{Count: count, Body: body}
}

type While struct {
	Predicate Predicate
	Body      []Instruction
}

func (*While) Kind() Kind     { return KindWhile }
func (*While) isInstruction() {}

func NewWhile(predicate Predicate, body []Instruction) *While {
	return &While{Predicate: predicate, Body: body}
}

// Parallel sequences its branches one after another in declaration order. The
// name records intent, not scheduling: true concurrency is out of scope.
type Parallel struct {
	Branches [][]Instruction
}

func (*Parallel) Kind() Kind     { return KindParallel }
func (*Parallel) isInstruction() {}

func NewParallel(branches ...[]Instruction) *Parallel {
	return &Parallel{Branches: branches}
}

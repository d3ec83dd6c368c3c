package runtime

import (
	"fmt"

	"github.com/google/uuid"
)

// Context is the mutable execution state of one logical robot: working
// memory, discrete state, actuator outputs, odometry, and an append-only
// execution log. A Context is created once per robot and mutated only by the
// interpreter during a run. It is not safe for concurrent use; at most one
// run may execute against a given Context at a time, and the embedding
// application must guard anything beyond that.
type Context struct {
	ID    string
	Robot string

	Memory *Memory

	state    State
	log      []string
	outputs  map[byte]float64
	heading  int
	traveled int

	logger Logger
}

// NewContext creates a fresh idle context for the named robot with a
// generated run identity.
func NewContext(robot string) *Context {
	return NewContextWithID(robot, "")
}

// NewContextWithID creates a context with an explicit identity; an empty id
// falls back to a generated UUID.
func NewContextWithID(robot, id string) *Context {
	if id == "" {
		id = uuid.New().String()
	}
	return &Context{
		ID:      id,
		Robot:   robot,
		Memory:  NewMemory(),
		state:   StateIdle,
		outputs: make(map[byte]float64),
	}
}

// SetLogger installs the external trace observer. A nil logger detaches it.
func (c *Context) SetLogger(logger Logger) {
	c.logger = logger
}

// Trace appends a message to the execution log and forwards it to the
// attached Logger boundary, when any.
func (c *Context) Trace(message string) {
	c.log = append(c.log, message)
	if c.logger != nil {
		c.logger.Record(message)
	}
}

// TraceLog returns a copy of the execution log in append order.
func (c *Context) TraceLog() []string {
	out := make([]string, len(c.log))
	copy(out, c.log)
	return out
}

// State returns the current discrete state.
func (c *Context) State() State {
	return c.state
}

// Transition moves to a new state only when the fixed whitelist allows the
// (from, to) pair; illegal pairs are rejected before any mutation.
func (c *Context) Transition(to State) error {
	if !transitionAllowed(c.state, to) {
		return fmt.Errorf("illegal state transition %s -> %s", c.state, to)
	}
	c.state = to
	return nil
}

// SetState sets the discrete state directly, without a whitelist check.
func (c *Context) SetState(to State) {
	c.state = to
}

// SetOutput drives a single actuator output.
func (c *Context) SetOutput(id byte, value float64) {
	c.outputs[id] = value
}

// Output reports an actuator's current value; unset actuators read zero.
func (c *Context) Output(id byte) float64 {
	return c.outputs[id]
}

// Outputs returns a copy of the actuator bank.
func (c *Context) Outputs() map[byte]float64 {
	out := make(map[byte]float64, len(c.outputs))
	for id, v := range c.outputs {
		out[id] = v
	}
	return out
}

// ZeroOutputs clears every actuator output to zero, keeping the ids bound so
// the bank still reports which actuators were ever driven.
func (c *Context) ZeroOutputs() {
	for id := range c.outputs {
		c.outputs[id] = 0
	}
}

// AddTravel accumulates moved distance on the odometer.
func (c *Context) AddTravel(distance int) {
	c.traveled += distance
}

// Traveled reports total distance moved, any direction.
func (c *Context) Traveled() int {
	return c.traveled
}

// AddHeading accumulates a turn, normalised into [0, 360).
func (c *Context) AddHeading(degrees int) {
	c.heading = ((c.heading+degrees)%360 + 360) % 360
}

// Heading reports the current heading in degrees, [0, 360).
func (c *Context) Heading() int {
	return c.heading
}

// Reset returns the context to its initial idle condition: memory, log,
// outputs, and odometry cleared. The identity is kept.
func (c *Context) Reset() {
	c.Memory.Clear()
	c.log = nil
	c.outputs = make(map[byte]float64)
	c.heading = 0
	c.traveled = 0
	c.state = StateIdle
}

package runtime

import "fmt"

// State is the robot's discrete activity state. The interpreter never changes
// it; transitions are a capability offered to instruction authors and the
// embedding application via Context.Transition and Context.SetState.
type State int

const (
	StateIdle State = iota
	StateMoving
	StateTurning
	StateSensing
	StateActing
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateTurning:
		return "turning"
	case StateSensing:
		return "sensing"
	case StateActing:
		return "acting"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("unknown_state_%d", int(s))
	}
}

// legalTransitions is the fixed whitelist checked by Context.Transition.
// Activity states are entered from idle only and must return to idle (or
// fault to error) before another activity begins; error recovers to idle.
var legalTransitions = map[State][]State{
	StateIdle:    {StateMoving, StateTurning, StateSensing, StateActing},
	StateMoving:  {StateIdle, StateError},
	StateTurning: {StateIdle, StateError},
	StateSensing: {StateIdle, StateError},
	StateActing:  {StateIdle, StateError},
	StateError:   {StateIdle},
}

func transitionAllowed(from, to State) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

package instr

// Program is a named, ordered instruction sequence. Programs are immutable
// once built; the composition methods return fresh Programs and never alias
// the receivers' slices.
type Program struct {
	Name         string
	Instructions []Instruction
}

func NewProgram(name string, instructions []Instruction) *Program {
	return &Program{
		Name:         name,
		Instructions: cloneSeq(instructions),
	}
}

// Then concatenates two programs, preserving order: all of p runs, then all
// of other.
func (p *Program) Then(other *Program) *Program {
	combined := make([]Instruction, 0, len(p.Instructions)+len(other.Instructions))
	combined = append(combined, p.Instructions...)
	combined = append(combined, other.Instructions...)
	return &Program{
		Name:         composedName(p.Name, "+", other.Name),
		Instructions: combined,
	}
}

// Alongside wraps the two instruction lists in a single Parallel node. The
// branches still execute sequentially in declaration order.
func (p *Program) Alongside(other *Program) *Program {
	par := NewParallel(cloneSeq(p.Instructions), cloneSeq(other.Instructions))
	return &Program{
		Name:         composedName(p.Name, "|", other.Name),
		Instructions: []Instruction{par},
	}
}

func composedName(a, sep, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + sep + b
	}
}

func cloneSeq(instructions []Instruction) []Instruction {
	if len(instructions) == 0 {
		return nil
	}
	out := make([]Instruction, len(instructions))
	copy(out, instructions)
	return out
}

package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"botc/interpreter-go/pkg/instr"
)

// Dense wait durations: '.' is the long marker, ',' the short one.
const (
	waitLongMS  = 1000
	waitShortMS = 100
)

// denseScan is one compilation pass over dense text. The permissive entry
// point discards the collected issues; the strict one surfaces them.
type denseScan struct {
	issues []string
}

func (d *denseScan) note(format string, args ...any) {
	d.issues = append(d.issues, fmt.Sprintf(format, args...))
}

// parse scans src left to right and returns the instruction sequence it
// denotes. base is src's position within the overall source, used for issue
// offsets. Whitespace and unknown characters are skipped; the cursor always
// advances, so the scan terminates on any input and never errors.
func (d *denseScan) parse(src string, base int) []instr.Instruction {
	var out []instr.Instruction
	i := 0
	for i < len(src) {
		switch c := src[i]; c {
		case '>', '^':
			distance, next := ReadInt(src, i+1)
			out = append(out, instr.NewMove(instr.Forward, max(distance, 1)))
			i = next
		case '<', 'v':
			distance, next := ReadInt(src, i+1)
			out = append(out, instr.NewMove(instr.Backward, max(distance, 1)))
			i = next
		case '/':
			distance, next := ReadInt(src, i+1)
			out = append(out, instr.NewMove(instr.Left, max(distance, 1)))
			i = next
		case '\\':
			distance, next := ReadInt(src, i+1)
			out = append(out, instr.NewMove(instr.Right, max(distance, 1)))
			i = next
		case '@':
			degrees, next := ReadInt(src, i+1)
			out = append(out, instr.NewTurn(degrees))
			i = next
		case '?':
			id, next := ReadInt(src, i+1)
			out = append(out, instr.NewSense(byte(id), ""))
			i = next
		case '!':
			// The actuator id is the single next character; only the value
			// is a full literal. "!050" drives actuator 0 to 50.
			i++
			var id byte
			if i < len(src) {
				id = byte(digitVal(src[i]))
				i++
			}
			value, next := ReadInt(src, i)
			out = append(out, instr.NewActuate(id, float64(value)))
			i = next
		case '[':
			inner, closeIdx := ExtractBracket(src, i, '[', ']')
			if closeIdx == len(src) {
				d.note("unterminated loop bracket '[' at offset %d", base+i)
			}
			count, bodyStart := ReadInt(inner, 0)
			body := d.parse(inner[bodyStart:], base+i+1+bodyStart)
			out = append(out, instr.NewLoop(count, body))
			i = closeIdx + 1
		case '{':
			inner, closeIdx := ExtractBracket(src, i, '{', '}')
			if closeIdx == len(src) {
				d.note("unterminated conditional bracket '{' at offset %d", base+i)
			}
			out = append(out, d.parseCond(inner, base+i+1))
			i = closeIdx + 1
		case '"':
			end := strings.IndexByte(src[i+1:], '"')
			if end < 0 {
				d.note("unterminated quote at offset %d", base+i)
				i++
				continue
			}
			out = append(out, instr.NewLog(src[i+1:i+1+end]))
			i += end + 2
		case '.':
			out = append(out, instr.NewWait(waitLongMS))
			i++
		case ',':
			out = append(out, instr.NewWait(waitShortMS))
			i++
		case ';', '|':
			// Sequence separator and parallel marker carry no meaning at
			// this layer.
			i++
		case '#':
			out = append(out, instr.NewHalt())
			i++
		default:
			i++
		}
	}
	return out
}

// parseCond builds a conditional from a bracket body of the form
// "threshold:thenCode:elseCode". The threshold defaults to 50 when its
// segment is not an integer. The predicate always tests memory key "s0"
// whatever sensor was actually read; a reading stored anywhere else is
// invisible to it. Known rigidity, kept as-is.
func (d *denseScan) parseCond(inner string, base int) *instr.Cond {
	parts := strings.SplitN(inner, ":", 3)
	threshold := 50
	if v, err := strconv.Atoi(parts[0]); err == nil {
		threshold = v
	}
	var thenBranch, elseBranch []instr.Instruction
	if len(parts) > 1 {
		thenBranch = d.parse(parts[1], base+len(parts[0])+1)
	}
	if len(parts) > 2 {
		elseBranch = d.parse(parts[2], base+len(parts[0])+len(parts[1])+2)
	}
	return instr.If(threshold, thenBranch, elseBranch)
}

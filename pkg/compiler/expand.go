package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Expand translates ultra-dense text into dense-grammar text in a single
// left-to-right pass. Macros with truncated arguments at end-of-input emit
// nothing; unrecognized characters are dropped silently. Expansion never
// fails; CheckUltra is the strict companion that reports what this pass
// glossed over.
func Expand(ultra string) string {
	dense, _ := expandUltra(ultra, 0)
	return dense
}

// CheckUltra validates ultra-dense text without using the result: truncated
// macro arguments and unterminated loop macros come back aggregated in a
// *CompileError. A nil return means Expand will consume every macro cleanly.
func CheckUltra(ultra string) error {
	_, issues := expandUltra(ultra, 0)
	if len(issues) > 0 {
		return &CompileError{Issues: issues}
	}
	return nil
}

// expandUltra walks the macro stream once, producing dense text and the
// issue list CheckUltra reports. base offsets issue positions when expanding
// a nested loop body.
func expandUltra(ultra string, base int) (string, []string) {
	var out strings.Builder
	var issues []string
	i := 0
	for i < len(ultra) {
		c := ultra[i]
		switch {
		case c == '&':
			if i+2 >= len(ultra) {
				issues = append(issues, fmt.Sprintf("truncated actuator macro '&' at offset %d", base+i))
				i = len(ultra)
				continue
			}
			id := digitVal(ultra[i+1])
			power := digitVal(ultra[i+2])
			out.WriteByte('!')
			out.WriteString(strconv.Itoa(id))
			out.WriteString(strconv.Itoa(power * 10))
			i += 3

		case c == '$':
			if i+2 >= len(ultra) {
				issues = append(issues, fmt.Sprintf("truncated turn macro '$' at offset %d", base+i))
				i = len(ultra)
				continue
			}
			degrees, err := strconv.ParseUint(ultra[i+1:i+3], 16, 16)
			if err != nil {
				degrees = 0
			}
			out.WriteByte('@')
			out.WriteString(strconv.FormatUint(degrees, 10))
			i += 3

		case c == '~':
			if i+1 >= len(ultra) {
				issues = append(issues, fmt.Sprintf("truncated sensor macro '~' at offset %d", base+i))
				i = len(ultra)
				continue
			}
			out.WriteByte('?')
			out.WriteString(strconv.Itoa(digitVal(ultra[i+1])))
			i += 2

		case c == '*':
			if i+1 >= len(ultra) {
				issues = append(issues, fmt.Sprintf("truncated loop macro '*' at offset %d", base+i))
				i = len(ultra)
				continue
			}
			count := digitVal(ultra[i+1])
			bodyStart := i + 2
			// The terminator is the first following '*', not a depth-matched
			// one, so nested loop macros do not round-trip. Kept as-is.
			end := strings.IndexByte(ultra[bodyStart:], '*')
			var body string
			if end < 0 {
				issues = append(issues, fmt.Sprintf("unterminated loop macro '*' at offset %d", base+i))
				body = ultra[bodyStart:]
				i = len(ultra)
			} else {
				body = ultra[bodyStart : bodyStart+end]
				i = bodyStart + end + 1
			}
			expanded, nested := expandUltra(body, base+bodyStart)
			issues = append(issues, nested...)
			out.WriteByte('[')
			out.WriteString(strconv.Itoa(count))
			out.WriteString(expanded)
			out.WriteByte(']')

		case c == ':':
			out.WriteByte(';')
			i++

		case c == ';':
			// ';' means sequence in dense text but halt here. Deliberate
			// reassignment between the two layers.
			out.WriteByte('#')
			i++

		case c == '.' || c == ',':
			out.WriteByte(c)
			i++

		case isDigit(c):
			out.WriteByte('>')
			out.WriteString(strconv.Itoa(digitVal(c) * 10))
			i++

		default:
			i++
		}
	}
	return out.String(), issues
}

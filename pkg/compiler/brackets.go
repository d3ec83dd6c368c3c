package compiler

// ExtractBracket returns the text strictly between the opening delimiter at
// start and the close that brings the nesting depth back to zero, together
// with the index of that close. Inner occurrences of the same pair stay in
// the captured text. When no matching close exists the scan consumes to
// end-of-input and returns (collected text, len(s)); callers must tolerate
// the possibly-unterminated capture.
func ExtractBracket(s string, start int, open, close byte) (string, int) {
	if start >= len(s) {
		return "", len(s)
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start+1 : i], i
			}
		}
	}
	return s[start+1:], len(s)
}

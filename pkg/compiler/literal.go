package compiler

import "strconv"

// ReadInt scans an integer literal in s beginning at start and returns the
// value together with the cursor position just past the literal.
//
// A literal is an optional minus sign followed by a maximal run of characters
// from {0-9, a-f, A-F, x}. The run must open with a decimal digit; the minus
// sign is consumed only when a decimal digit follows it. When the run begins
// with "0x" the remainder is read as hexadecimal, otherwise the whole run is
// read as decimal. A run that fails conversion resolves to 0 with the cursor
// still advanced past it; nothing ever errors. When no literal starts at the
// cursor the result is (0, start).
func ReadInt(s string, start int) (int, int) {
	i := start
	negative := false
	if i < len(s) && s[i] == '-' && i+1 < len(s) && isDigit(s[i+1]) {
		negative = true
		i++
	}
	if i >= len(s) || !isDigit(s[i]) {
		return 0, start
	}
	runStart := i
	for i < len(s) && isLiteralChar(s[i]) {
		i++
	}
	run := s[runStart:i]

	var value int64
	var err error
	if len(run) > 2 && run[0] == '0' && run[1] == 'x' {
		value, err = strconv.ParseInt(run[2:], 16, 64)
	} else {
		value, err = strconv.ParseInt(run, 10, 64)
	}
	if err != nil {
		value = 0
	}
	if negative {
		value = -value
	}
	return int(value), i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isLiteralChar reports whether c may continue a numeric run: decimal digits,
// hex letters, and the x of a 0x prefix.
func isLiteralChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	case c == 'x':
		return true
	}
	return false
}

// digitVal maps an ASCII digit to its value; anything else reads as 0.
func digitVal(c byte) int {
	if isDigit(c) {
		return int(c - '0')
	}
	return 0
}

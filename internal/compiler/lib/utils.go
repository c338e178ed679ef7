package lib

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceLine returns the 1-indexed line of src without its line terminator,
// or "" when the line does not exist.
func SourceLine(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], " \t\r")
}

// Caret returns the gutter-prefixed excerpt of one source line plus a caret
// under the given 1-indexed column:
//
//	 |
//	3 | x := @;
//	  |      ^
func Caret(src string, line, column int) string {
	num := strconv.Itoa(line)
	pad := strings.Repeat(" ", len(num))
	if column < 1 {
		column = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s |\n", pad)
	fmt.Fprintf(&b, " %s | %s\n", num, SourceLine(src, line))
	fmt.Fprintf(&b, " %s | %s^", pad, strings.Repeat(" ", column-1))
	return b.String()
}

// Diagnostic formats a fatal stage error in the multi-line source-pointer
// style shared by the lexer and the parser.
func Diagnostic(title, message, src string, line, column int) string {
	return fmt.Sprintf("%s: %s\n  --> (line %d, column %d)\n%s", title, message, line, column, Caret(src, line, column))
}

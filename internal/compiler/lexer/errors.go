package lexer

import (
	"fmt"

	"github.com/pascals-lang/pascals/internal/compiler/lib"
)

// Error is a fatal lexical error. Source is the whole program text when
// known, used by Pretty to point at the offending column.
type Error struct {
	Message string
	Line    int
	Column  int
	Source  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("LexicalError at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Pretty renders the error with a source excerpt and a caret.
func (e *Error) Pretty() string {
	if e.Source == "" {
		return e.Error()
	}
	return lib.Diagnostic("LexicalError", e.Message, e.Source, e.Line, e.Column)
}

package parser

import (
	"fmt"

	"github.com/pascals-lang/pascals/internal/compiler/lib"
	"github.com/pascals-lang/pascals/internal/compiler/token"
)

// Error is the first grammar violation found. Token is the offending token
// (the last token of the stream when input ended early).
type Error struct {
	Message string
	Line    int
	Column  int
	Token   token.Token
	AtEOF   bool
	Source  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Pretty renders the error with a source excerpt and a caret.
func (e *Error) Pretty() string {
	if e.Source == "" {
		return e.Error()
	}
	return lib.Diagnostic("ParseError", e.Message, e.Source, e.Line, e.Column)
}

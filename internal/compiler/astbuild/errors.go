package astbuild

import (
	"fmt"

	"github.com/pascals-lang/pascals/internal/compiler/cst"
)

// Error reports a parse-tree shape the builder cannot translate.
type Error struct {
	Message string
	Node    *cst.Node
}

func (e *Error) Error() string {
	if e.Node == nil {
		return "ASTError: " + e.Message
	}
	pos := e.Node.Pos()
	return fmt.Sprintf("ASTError at line %d, column %d: %s (in %s)", pos.Line, pos.Column, e.Message, e.Node.Symbol)
}

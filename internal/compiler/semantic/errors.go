package semantic

import (
	"fmt"

	"github.com/pascals-lang/pascals/internal/compiler/token"
)

type ErrorKind int

const (
	KindSemantic ErrorKind = iota
	KindUndeclaredIdentifier
	KindRedeclaredIdentifier
	KindTypeMismatch
	KindInvalidOperation
	KindInvalidArrayIndex
	KindNotAnArray
	KindNotAFunction
	KindNotAProcedure
	KindArgumentCount
	KindArgumentType
	KindInvalidAssignment
	KindReturnTypeMismatch
	KindMissingReturn
	KindInternal
)

var errorKindNames = [...]string{
	KindSemantic:             "SemanticError",
	KindUndeclaredIdentifier: "UndeclaredIdentifier",
	KindRedeclaredIdentifier: "RedeclaredIdentifier",
	KindTypeMismatch:         "TypeMismatch",
	KindInvalidOperation:     "InvalidOperation",
	KindInvalidArrayIndex:    "InvalidArrayIndex",
	KindNotAnArray:           "NotAnArray",
	KindNotAFunction:         "NotAFunction",
	KindNotAProcedure:        "NotAProcedure",
	KindArgumentCount:        "ArgumentCount",
	KindArgumentType:         "ArgumentType",
	KindInvalidAssignment:    "InvalidAssignment",
	KindReturnTypeMismatch:   "ReturnTypeMismatch",
	KindMissingReturn:        "MissingReturn",
	KindInternal:             "InternalError",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "SemanticError"
}

// Error is one semantic violation. Errors are collected, never thrown.
type Error struct {
	Kind ErrorKind
	Msg  string
	Pos  token.Position
}

func (e *Error) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s at line %d, column %d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is matches a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrSemantic             = &Error{Kind: KindSemantic}
	ErrUndeclaredIdentifier = &Error{Kind: KindUndeclaredIdentifier}
	ErrRedeclaredIdentifier = &Error{Kind: KindRedeclaredIdentifier}
	ErrTypeMismatch         = &Error{Kind: KindTypeMismatch}
	ErrInvalidOperation     = &Error{Kind: KindInvalidOperation}
	ErrInvalidArrayIndex    = &Error{Kind: KindInvalidArrayIndex}
	ErrNotAnArray           = &Error{Kind: KindNotAnArray}
	ErrNotAFunction         = &Error{Kind: KindNotAFunction}
	ErrNotAProcedure        = &Error{Kind: KindNotAProcedure}
	ErrArgumentCount        = &Error{Kind: KindArgumentCount}
	ErrArgumentType         = &Error{Kind: KindArgumentType}
	ErrInvalidAssignment    = &Error{Kind: KindInvalidAssignment}
	ErrReturnTypeMismatch   = &Error{Kind: KindReturnTypeMismatch}
	ErrMissingReturn        = &Error{Kind: KindMissingReturn}
	ErrInternal             = &Error{Kind: KindInternal}
)

// internalError aborts analysis of a malformed tree.
type internalError struct {
	msg string
}

func (a *Analyzer) report(kind ErrorKind, pos token.Position, format string, args ...any) {
	a.errors = append(a.errors, &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos})
}

func (a *Analyzer) mismatch(pos token.Position, context string, expected, got fmt.Stringer) {
	a.report(KindTypeMismatch, pos, "Type mismatch in %s: expected %s, got %s", context, expected, got)
}

func (a *Analyzer) undeclared(pos token.Position, name string) {
	a.report(KindUndeclaredIdentifier, pos, "Undeclared identifier '%s'", name)
}

func (a *Analyzer) malformed(format string, args ...any) {
	panic(internalError{msg: fmt.Sprintf(format, args...)})
}

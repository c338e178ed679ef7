package semantic

import (
	"strings"

	"github.com/pascals-lang/pascals/internal/compiler/ast"
	"github.com/pascals-lang/pascals/internal/compiler/symbols"
	"github.com/pascals-lang/pascals/internal/compiler/types"
)

// concat types '+' with a string or char operand.
func (a *Analyzer) concat(n *ast.BinOp, l, r types.Type) types.Type {
	if !l.IsText() {
		a.mismatch(n.Pos(), "string concatenation", textKinds{}, l)
		return types.None
	}
	if !r.IsText() {
		a.mismatch(n.Pos(), "string concatenation", textKinds{}, r)
		return types.None
	}
	return types.StringType
}

// compareText types a relational operator with a string operand.
func (a *Analyzer) compareText(n *ast.BinOp, l, r types.Type) types.Type {
	context := "string comparison '" + n.Op + "'"
	if !l.IsText() {
		a.mismatch(n.Pos(), context, textKinds{}, l)
		return types.None
	}
	if !r.IsText() {
		a.mismatch(n.Pos(), context, textKinds{}, r)
		return types.None
	}
	return types.BoolType
}

func (a *Analyzer) stringIndex(n *ast.ArrayAccess, idx types.Type) types.Type {
	if !idx.IsNone() && idx.Kind != types.Integer {
		a.report(KindInvalidArrayIndex, n.Index.Pos(), "String index must be integer, got %s", idx)
	}
	return types.CharType
}

type textKinds struct{}

func (textKinds) String() string { return "string or char" }

// --- Builtins ---

type builtinKind int

const (
	builtinIO builtinKind = iota
	builtinLength
	builtinConcat
	builtinCopy
	builtinPos
	builtinCase
	builtinChr
	builtinOrd
)

type builtin struct {
	kind   builtinKind
	obj    symbols.ObjKind
	result types.Type
}

var builtins = map[string]builtin{
	"write":   {builtinIO, symbols.Procedure, types.None},
	"writeln": {builtinIO, symbols.Procedure, types.None},
	"read":    {builtinIO, symbols.Procedure, types.None},
	"readln":  {builtinIO, symbols.Procedure, types.None},
	"tulis":   {builtinIO, symbols.Procedure, types.None},
	"tulisln": {builtinIO, symbols.Procedure, types.None},
	"baca":    {builtinIO, symbols.Procedure, types.None},
	"bacaln":  {builtinIO, symbols.Procedure, types.None},

	"length":      {builtinLength, symbols.Function, types.IntType},
	"panjang":     {builtinLength, symbols.Function, types.IntType},
	"concat":      {builtinConcat, symbols.Function, types.StringType},
	"gabung":      {builtinConcat, symbols.Function, types.StringType},
	"copy":        {builtinCopy, symbols.Function, types.StringType},
	"salin":       {builtinCopy, symbols.Function, types.StringType},
	"pos":         {builtinPos, symbols.Function, types.IntType},
	"posisi":      {builtinPos, symbols.Function, types.IntType},
	"upcase":      {builtinCase, symbols.Function, types.StringType},
	"huruf_besar": {builtinCase, symbols.Function, types.StringType},
	"lowcase":     {builtinCase, symbols.Function, types.StringType},
	"huruf_kecil": {builtinCase, symbols.Function, types.StringType},
	"chr":         {builtinChr, symbols.Function, types.CharType},
	"karakter":    {builtinChr, symbols.Function, types.CharType},
	"ord":         {builtinOrd, symbols.Function, types.IntType},
	"urutan":      {builtinOrd, symbols.Function, types.IntType},
}

func lookupBuiltin(name string) (builtin, bool) {
	b, ok := builtins[strings.ToLower(name)]
	return b, ok
}

// IsBuiltin reports whether name is a predefined procedure or function.
func IsBuiltin(name string) bool {
	_, ok := lookupBuiltin(name)
	return ok
}

// builtinCall registers the builtin on first use and checks its arguments.
// I/O procedures accept any arguments.
func (a *Analyzer) builtinCall(n *ast.Call, b builtin, value bool) types.Type {
	idx := a.table.AddBuiltin(n.Name, b.obj, b.result)
	n.Attrs.SetSymbol(idx, 0)
	n.Attrs.Predefined = true
	argTypes := a.args(n.Args)

	if b.kind == builtinIO {
		if value {
			a.report(KindNotAFunction, n.Pos(), "'%s' is not a function", n.Name)
		}
		return types.None
	}

	text := func(t types.Type) bool { return t.IsText() }
	integer := func(t types.Type) bool { return t.Kind == types.Integer }
	char := func(t types.Type) bool { return t.Kind == types.Char }

	var want []func(types.Type) bool
	var names []string
	switch b.kind {
	case builtinLength, builtinCase:
		want, names = []func(types.Type) bool{text}, []string{"string or char"}
	case builtinCopy:
		want, names = []func(types.Type) bool{text, integer, integer}, []string{"string or char", "integer", "integer"}
	case builtinPos:
		want, names = []func(types.Type) bool{text, text}, []string{"string or char", "string or char"}
	case builtinChr:
		want, names = []func(types.Type) bool{integer}, []string{"integer"}
	case builtinOrd:
		want, names = []func(types.Type) bool{char}, []string{"char"}
	case builtinConcat:
		if len(argTypes) == 0 {
			a.report(KindArgumentCount, n.Pos(), "'%s' expects at least 1 arguments, got 0", n.Name)
		}
		for i, t := range argTypes {
			if !t.IsNone() && !t.IsText() {
				a.report(KindArgumentType, n.Args[i].Pos(), "Argument '%d' expects type string or char, got %s", i+1, t)
			}
		}
		return b.result
	}

	if len(argTypes) != len(want) {
		a.report(KindArgumentCount, n.Pos(), "'%s' expects %d arguments, got %d", n.Name, len(want), len(argTypes))
		return b.result
	}
	for i, t := range argTypes {
		if !t.IsNone() && !want[i](t) {
			a.report(KindArgumentType, n.Args[i].Pos(), "Argument '%d' expects type %s, got %s", i+1, names[i], t)
		}
	}
	// upcase and lowcase keep the argument's kind.
	if b.kind == builtinCase && len(argTypes) == 1 && argTypes[0].IsText() {
		return argTypes[0]
	}
	return b.result
}

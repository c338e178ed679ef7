package semantic

import (
	"strconv"

	"github.com/pascals-lang/pascals/internal/compiler/ast"
	"github.com/pascals-lang/pascals/internal/compiler/symbols"
	"github.com/pascals-lang/pascals/internal/compiler/token"
	"github.com/pascals-lang/pascals/internal/compiler/types"
)

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// expr types an expression and records the type on the node. NoType means
// an error was already reported somewhere below.
func (a *Analyzer) expr(e ast.Expr) types.Type {
	if ast.IsNil(e) {
		a.malformed("missing expression")
	}
	var t types.Type
	switch n := e.(type) {
	case *ast.Num:
		t = types.IntType
		if n.IsReal {
			t = types.RealType
		}
	case *ast.String:
		t = types.StringType
		if n.IsChar() {
			t = types.CharType
		}
	case *ast.Boolean:
		t = types.BoolType
	case *ast.Var:
		t = a.varRef(n)
	case *ast.BinOp:
		t = a.binary(n)
	case *ast.UnaryOp:
		t = a.unary(n)
	case *ast.ArrayAccess:
		t = a.index(n)
	case *ast.RecordField:
		t = a.field(n)
	case *ast.Call:
		t = a.call(n, true)
	default:
		a.malformed("unexpected expression %T", e)
	}
	if !t.IsNone() {
		e.Annotations().SetType(t)
	}
	return t
}

// varRef resolves a name used as a value. A bare function name is a call
// without arguments.
func (a *Analyzer) varRef(v *ast.Var) types.Type {
	idx, ok := a.table.Lookup(v.Name)
	if !ok {
		a.undeclared(v.Pos(), v.Name)
		return types.None
	}
	entry := a.table.Tab[idx]
	v.Attrs.SetSymbol(idx, entry.Level)
	switch entry.Obj {
	case symbols.Variable, symbols.Constant:
		return entry.Type
	case symbols.Function:
		if n := len(a.table.Parameters(idx)); n != 0 {
			a.report(KindArgumentCount, v.Pos(), "'%s' expects %d arguments, got 0", v.Name, n)
		}
		return entry.Type
	case symbols.Procedure:
		a.report(KindNotAFunction, v.Pos(), "'%s' is not a function", v.Name)
	default:
		a.report(KindSemantic, v.Pos(), "'%s' is a %s and cannot be used as a value", v.Name, entry.Obj)
	}
	return types.None
}

func (a *Analyzer) binary(n *ast.BinOp) types.Type {
	if ast.IsNil(n.Left) || ast.IsNil(n.Right) {
		a.malformed("binary '%s' without both operands", n.Op)
	}
	l := a.expr(n.Left)
	r := a.expr(n.Right)
	if l.IsNone() || r.IsNone() {
		return types.None
	}

	switch n.Op {
	case "+", "-", "*", "/", token.OpDiv, token.OpMod:
		return a.arithmetic(n, l, r)
	case "=", "<>", "<", "<=", ">", ">=":
		return a.relational(n, l, r)
	case token.OpAnd, token.OpOr:
		if l.Kind != types.Boolean {
			a.mismatch(n.Pos(), "logical '"+n.Op+"'", types.Boolean, l)
			return types.None
		}
		if r.Kind != types.Boolean {
			a.mismatch(n.Pos(), "logical '"+n.Op+"'", types.Boolean, r)
			return types.None
		}
		return types.BoolType
	}
	a.invalidOp(n.Pos(), n.Op, l, r)
	return types.None
}

func (a *Analyzer) invalidOp(pos token.Position, op string, l, r types.Type) {
	a.report(KindInvalidOperation, pos, "Invalid operation '%s' for types %s and %s", op, l, r)
}

// arithmetic: numeric operands; div and mod need integers; '/' is always
// real; '+' on strings or chars concatenates.
func (a *Analyzer) arithmetic(n *ast.BinOp, l, r types.Type) types.Type {
	if n.Op == "+" && (l.IsText() || r.IsText()) {
		return a.concat(n, l, r)
	}
	if !l.IsNumeric() || !r.IsNumeric() {
		a.invalidOp(n.Pos(), n.Op, l, r)
		return types.None
	}
	switch n.Op {
	case token.OpDiv, token.OpMod:
		if l.Kind != types.Integer || r.Kind != types.Integer {
			a.report(KindTypeMismatch, n.Pos(), "Type mismatch in %s: expected integer, got %s and %s", n.Op, l, r)
			return types.None
		}
		return types.IntType
	case "/":
		return types.RealType
	}
	if l.Kind == types.Real || r.Kind == types.Real {
		return types.RealType
	}
	return types.IntType
}

// relational: '=' and '<>' need identical types; ordering needs numeric or
// char operands, mixing only integer with real. Strings compare with
// strings or chars.
func (a *Analyzer) relational(n *ast.BinOp, l, r types.Type) types.Type {
	context := "comparison '" + n.Op + "'"
	if l.Kind == types.String || r.Kind == types.String {
		return a.compareText(n, l, r)
	}
	switch n.Op {
	case "=", "<>":
		if !l.Equal(r) && !(l.Kind == types.Array && a.compatible(l, r)) {
			a.mismatch(n.Pos(), context, l, r)
			return types.None
		}
		return types.BoolType
	}
	ordered := func(t types.Type) bool { return t.IsNumeric() || t.Kind == types.Char }
	if !ordered(l) || !ordered(r) {
		a.invalidOp(n.Pos(), n.Op, l, r)
		return types.None
	}
	if l.Kind != r.Kind && !(l.IsNumeric() && r.IsNumeric()) {
		a.mismatch(n.Pos(), context, l, r)
		return types.None
	}
	return types.BoolType
}

func (a *Analyzer) unary(n *ast.UnaryOp) types.Type {
	if ast.IsNil(n.Operand) {
		a.malformed("unary '%s' without operand", n.Op)
	}
	t := a.expr(n.Operand)
	if t.IsNone() {
		return types.None
	}
	switch n.Op {
	case "+", "-":
		if !t.IsNumeric() {
			a.report(KindInvalidOperation, n.Pos(), "Invalid operation 'unary %s' for type %s", n.Op, t)
			return types.None
		}
		return t
	case token.OpNot:
		if t.Kind != types.Boolean {
			a.mismatch(n.Pos(), "unary 'not'", types.Boolean, t)
			return types.None
		}
		return types.BoolType
	}
	a.report(KindInvalidOperation, n.Pos(), "Invalid operation 'unary %s' for type %s", n.Op, t)
	return types.None
}

// index types a[i]. Arrays take an index of their declared index type and
// yield the element type; strings take an integer and yield a char.
func (a *Analyzer) index(n *ast.ArrayAccess) types.Type {
	if ast.IsNil(n.Array) || ast.IsNil(n.Index) {
		a.malformed("array access without base or index")
	}
	base := a.expr(n.Array)
	idx := a.expr(n.Index)
	if base.IsNone() {
		return types.None
	}

	switch base.Kind {
	case types.String:
		return a.stringIndex(n, idx)
	case types.Array:
		if base.Ref < 0 || base.Ref >= len(a.table.Atab) {
			a.malformed("array type without descriptor")
		}
		desc := a.table.Atab[base.Ref]
		if !idx.IsNone() && idx.Kind != desc.IndexType {
			if desc.IndexType == types.Integer {
				a.report(KindInvalidArrayIndex, n.Index.Pos(), "Array index must be integer, got %s", idx)
			} else {
				a.report(KindInvalidArrayIndex, n.Index.Pos(), "Array index must be %s, got %s", desc.IndexType, idx)
			}
		}
		return desc.ElemType
	}
	a.report(KindNotAnArray, n.Pos(), "'%s' is not an array (type: %s)", describe(n.Array), base)
	return types.None
}

// field types r.f against the record shape of r.
func (a *Analyzer) field(n *ast.RecordField) types.Type {
	if ast.IsNil(n.Record) {
		a.malformed("field access without record")
	}
	base := a.expr(n.Record)
	if base.IsNone() {
		return types.None
	}
	if base.Kind != types.Record {
		a.report(KindSemantic, n.Pos(), "'%s' is not a record (type: %s)", describe(n.Record), base)
		return types.None
	}
	ft, ok := base.Field(n.Field)
	if !ok {
		a.report(KindUndeclaredIdentifier, n.Pos(), "Undeclared field '%s' in record '%s'", n.Field, describe(n.Record))
		return types.None
	}
	return ft
}

// describe names an access path for messages.
func describe(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Var:
		return n.Name
	case *ast.RecordField:
		return describe(n.Record) + "." + n.Field
	case *ast.ArrayAccess:
		return describe(n.Array) + "[]"
	case *ast.Call:
		return n.Name + "()"
	}
	return e.String()
}

// --- Calls ---

// call checks a procedure statement (value false) or a function call in an
// expression (value true).
func (a *Analyzer) call(n *ast.Call, value bool) types.Type {
	if b, ok := lookupBuiltin(n.Name); ok {
		return a.builtinCall(n, b, value)
	}

	idx, ok := a.table.Lookup(n.Name)
	if !ok {
		a.undeclared(n.Pos(), n.Name)
		a.args(n.Args)
		return types.None
	}
	entry := a.table.Tab[idx]
	n.Attrs.SetSymbol(idx, entry.Level)
	if entry.Obj != symbols.Procedure && entry.Obj != symbols.Function {
		a.report(KindNotAProcedure, n.Pos(), "'%s' is not a procedure", n.Name)
		a.args(n.Args)
		return types.None
	}
	if value && entry.Obj == symbols.Procedure {
		a.report(KindNotAFunction, n.Pos(), "'%s' is not a function", n.Name)
		a.args(n.Args)
		return types.None
	}

	params := a.table.Parameters(idx)
	if len(params) != len(n.Args) {
		a.report(KindArgumentCount, n.Pos(), "'%s' expects %d arguments, got %d", n.Name, len(params), len(n.Args))
		a.args(n.Args)
		return entry.Type
	}
	for i, arg := range n.Args {
		p := a.table.Tab[params[i]]
		got := a.expr(arg)
		if got.IsNone() || p.Type.IsNone() {
			continue
		}
		if p.ByRef {
			if !isVariable(arg) {
				a.report(KindArgumentType, arg.Pos(), "Argument '%s' is passed by reference and needs a variable", p.Name)
				continue
			}
			if !got.Equal(p.Type) && !(got.Kind == types.Array && a.compatible(got, p.Type)) {
				a.report(KindArgumentType, arg.Pos(), "Argument '%s' expects type %s, got %s", p.Name, p.Type, got)
			}
			continue
		}
		if !a.compatible(got, p.Type) {
			a.report(KindArgumentType, arg.Pos(), "Argument '%s' expects type %s, got %s", p.Name, p.Type, got)
		}
	}
	return entry.Type
}

func (a *Analyzer) args(args []ast.Expr) []types.Type {
	out := make([]types.Type, len(args))
	for i, arg := range args {
		out[i] = a.expr(arg)
	}
	return out
}

// isVariable reports whether e denotes storage that can be passed by
// reference.
func isVariable(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Var:
		return true
	case *ast.ArrayAccess:
		return isVariable(n.Array)
	case *ast.RecordField:
		return isVariable(n.Record)
	}
	return false
}

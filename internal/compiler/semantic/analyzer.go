// Package semantic checks scopes and types over the AST, filling the symbol
// table and annotating nodes with their resolved types and symbols.
package semantic

import (
	"runtime"

	"github.com/pascals-lang/pascals/internal/compiler/ast"
	"github.com/pascals-lang/pascals/internal/compiler/symbols"
	"github.com/pascals-lang/pascals/internal/compiler/token"
	"github.com/pascals-lang/pascals/internal/compiler/types"
)

// function tracks a function body being analyzed, for return assignments.
type function struct {
	name     string
	tab      int
	assigned bool
}

type Analyzer struct {
	table  *symbols.Table
	errors []*Error
	funcs  []*function
	fresh  bool
}

type Option func(*Analyzer)

// WithTable analyzes into an existing table instead of a fresh one.
func WithTable(t *symbols.Table) Option {
	return func(a *Analyzer) {
		a.table = t
		a.fresh = false
	}
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{fresh: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Table is the symbol table filled by the last Analyze.
func (a *Analyzer) Table() *symbols.Table { return a.table }

// Analyze visits the whole program, collecting every semantic error. It
// reports success when no error was found. A malformed tree stops the
// visit with a single internal error.
func (a *Analyzer) Analyze(prog *ast.Program) (ok bool, errs []*Error) {
	if a.fresh || a.table == nil {
		a.table = symbols.New()
	}
	a.errors = nil
	a.funcs = nil

	defer func() {
		if r := recover(); r != nil {
			if _, isRuntime := r.(runtime.Error); isRuntime {
				panic(r)
			}
			ie, isInternal := r.(internalError)
			if !isInternal {
				panic(r)
			}
			a.errors = append(a.errors, &Error{Kind: KindInternal, Msg: ie.msg})
			ok, errs = false, a.errors
		}
	}()

	if prog == nil {
		a.malformed("nil program")
	}
	a.program(prog)
	return len(a.errors) == 0, a.errors
}

// --- Program and scopes ---

func (a *Analyzer) program(p *ast.Program) {
	if p.Decls == nil || p.Body == nil {
		a.malformed("program '%s' is missing its declarations or body", p.Name)
	}
	idx := a.table.AddProgramName(p.Name)
	p.Attrs.SetSymbol(idx, 0)

	a.declarations(p.Decls)

	block, level := a.table.EnterScope()
	p.Body.Attrs.SetBlock(block, level)
	a.statements(p.Body)
	a.table.ExitScope()
}

func (a *Analyzer) declarations(d *ast.Declarations) {
	if d == nil {
		a.malformed("missing declarations")
	}
	for _, item := range d.Items {
		switch n := item.(type) {
		case *ast.ConstDecl:
			a.constDecl(n)
		case *ast.TypeDecl:
			a.typeDecl(n)
		case *ast.VarDecl:
			a.varDecl(n)
		case *ast.ProcedureDecl:
			a.subprogram(n, n.Name, n.Params, nil, n.Decls, n.Body)
		case *ast.FunctionDecl:
			if ast.IsNil(n.ReturnType) {
				a.malformed("function '%s' has no return type", n.Name)
			}
			a.subprogram(n, n.Name, n.Params, n.ReturnType, n.Decls, n.Body)
		default:
			a.malformed("unexpected declaration %T", item)
		}
	}
}

// redeclared reports a name already present in the innermost scope.
func (a *Analyzer) redeclared(name string, pos token.Position) bool {
	if _, dup := a.table.LookupCurrentScope(name); dup {
		a.report(KindRedeclaredIdentifier, pos, "Identifier '%s' is already declared in this scope", name)
		return true
	}
	return false
}

func (a *Analyzer) constDecl(c *ast.ConstDecl) {
	if ast.IsNil(c.Value) {
		a.malformed("constant '%s' has no value", c.Name)
	}
	if a.redeclared(c.Name, c.Pos()) {
		return
	}
	typ, value := a.constValue(c.Value)
	if typ.IsNone() {
		return
	}
	idx := a.table.AddConstant(c.Name, typ, value)
	c.Attrs.SetSymbol(idx, a.table.Level())
	c.Attrs.SetType(typ)
}

// constValue types a constant initializer and renders its value.
func (a *Analyzer) constValue(e ast.Expr) (types.Type, string) {
	switch v := e.(type) {
	case *ast.Num, *ast.String, *ast.Boolean:
		return a.expr(e), literalText(e)
	case *ast.Var:
		idx, ok := a.table.Lookup(v.Name)
		if !ok {
			a.undeclared(v.Pos(), v.Name)
			return types.None, ""
		}
		entry := a.table.Tab[idx]
		if entry.Obj != symbols.Constant {
			a.report(KindSemantic, v.Pos(), "'%s' is not a constant", v.Name)
			return types.None, ""
		}
		v.Attrs.SetSymbol(idx, entry.Level)
		v.Attrs.SetType(entry.Type)
		return entry.Type, entry.Value
	case *ast.UnaryOp:
		typ, val := a.constValue(v.Operand)
		if !typ.IsNumeric() {
			if !typ.IsNone() {
				a.report(KindInvalidOperation, v.Pos(), "Invalid operation 'unary %s' for type %s", v.Op, typ)
			}
			return types.None, ""
		}
		v.Attrs.SetType(typ)
		if v.Op == "-" {
			val = negate(val)
		}
		return typ, val
	}
	a.report(KindSemantic, e.Pos(), "Constant value must be a literal or a constant name")
	return types.None, ""
}

func literalText(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Num:
		return v.Value
	case *ast.String:
		return v.Value
	case *ast.Boolean:
		if v.Value {
			return token.KwTrue
		}
		return token.KwFalse
	}
	return ""
}

func negate(val string) string {
	if len(val) > 0 && val[0] == '-' {
		return val[1:]
	}
	return "-" + val
}

func (a *Analyzer) typeDecl(t *ast.TypeDecl) {
	if a.redeclared(t.Name, t.Pos()) {
		return
	}
	typ := a.resolveType(t.Type)
	idx := a.table.AddType(t.Name, typ)
	t.Attrs.SetSymbol(idx, a.table.Level())
	t.Attrs.SetType(typ)
}

func (a *Analyzer) varDecl(v *ast.VarDecl) {
	if a.redeclared(v.Name, v.Pos()) {
		return
	}
	typ := a.resolveType(v.Type)
	idx := a.table.AddVariable(v.Name, typ, a.table.SizeOf(typ))
	v.Attrs.SetSymbol(idx, a.table.Level())
	v.Attrs.SetType(typ)
}

// subprogram declares a procedure or function in the enclosing scope, then
// analyzes its parameters, locals and body one level deeper.
func (a *Analyzer) subprogram(n ast.Decl, name string, params []*ast.Param, ret ast.TypeExpr, decls *ast.Declarations, body *ast.Block) {
	if decls == nil || body == nil {
		a.malformed("subprogram '%s' has no body", name)
	}
	if a.redeclared(name, n.Pos()) {
		return
	}

	obj := symbols.Procedure
	result := types.None
	if ret != nil {
		obj = symbols.Function
		result = a.resolveType(ret)
	}
	idx := a.table.AddProcedure(name, obj, result)
	attrs := n.Annotations()
	attrs.SetSymbol(idx, a.table.Level())
	if ret != nil {
		attrs.SetType(result)
	}

	block, level := a.table.EnterScope()
	a.table.SetBlock(idx, block)
	body.Attrs.SetBlock(block, level)

	for _, p := range params {
		a.param(p)
	}

	var fn *function
	if obj == symbols.Function {
		fn = &function{name: name, tab: idx}
		a.funcs = append(a.funcs, fn)
	}

	a.declarations(decls)
	a.statements(body)

	if fn != nil {
		a.funcs = a.funcs[:len(a.funcs)-1]
		if !fn.assigned {
			a.report(KindMissingReturn, n.Pos(), "Function '%s' must assign a value to its name", name)
		}
	}
	a.table.ExitScope()
}

func (a *Analyzer) param(p *ast.Param) {
	typ := a.resolveType(p.Type)
	if a.redeclared(p.Name, p.Pos()) {
		return
	}
	idx := a.table.AddParameter(p.Name, typ, p.ByRef)
	p.Attrs.SetSymbol(idx, a.table.Level())
	p.Attrs.SetType(typ)
}

// enclosing returns the function whose body is being analyzed for tab.
func (a *Analyzer) enclosing(tab int) *function {
	for i := len(a.funcs) - 1; i >= 0; i-- {
		if a.funcs[i].tab == tab {
			return a.funcs[i]
		}
	}
	return nil
}

// --- Types ---

// resolveType maps a type expression to a type, allocating ATAB entries for
// arrays. Unresolvable types become NoType after reporting.
func (a *Analyzer) resolveType(t ast.TypeExpr) types.Type {
	if ast.IsNil(t) {
		a.malformed("missing type")
	}
	var typ types.Type
	switch n := t.(type) {
	case *ast.NamedType:
		typ = a.namedType(n)
	case *ast.ArrayType:
		typ = a.arrayType(n)
	case *ast.RecordType:
		typ = a.recordType(n)
	case *ast.RangeType:
		if kind, _, _, ok := a.bounds(n); ok {
			typ = types.Of(kind)
		}
	default:
		a.malformed("unexpected type expression %T", t)
	}
	t.Annotations().SetType(typ)
	return typ
}

// namedType checks builtin type names first, then declared types.
func (a *Analyzer) namedType(n *ast.NamedType) types.Type {
	if typ, ok := types.Primitive(n.Name); ok {
		return typ
	}
	idx, ok := a.table.Lookup(n.Name)
	if !ok {
		a.undeclared(n.Pos(), n.Name)
		return types.None
	}
	entry := a.table.Tab[idx]
	if entry.Obj != symbols.TypeName {
		a.report(KindSemantic, n.Pos(), "'%s' is not a type", n.Name)
		return types.None
	}
	n.Attrs.SetSymbol(idx, entry.Level)
	return entry.Type
}

func (a *Analyzer) arrayType(n *ast.ArrayType) types.Type {
	if n.Index == nil {
		a.malformed("array type without bounds")
	}
	kind, low, high, ok := a.bounds(n.Index)
	n.Index.Attrs.SetType(types.Of(kind))
	elem := a.resolveType(n.Elem)
	if !ok {
		return types.None
	}
	if low > high {
		a.report(KindSemantic, n.Pos(), "Array lower bound %d exceeds upper bound %d", low, high)
		return types.None
	}
	ref := a.table.AddArray(kind, elem, low, high, a.table.SizeOf(elem))
	return types.Type{Kind: types.Array, Ref: ref}
}

func (a *Analyzer) recordType(n *ast.RecordType) types.Type {
	typ := types.Type{Kind: types.Record}
	seen := map[string]bool{}
	for _, f := range n.Fields {
		ft := a.resolveType(f.Type)
		key := token.Canonical(f.Name)
		if seen[key] {
			a.report(KindRedeclaredIdentifier, f.Pos(), "Field '%s' is already declared in this record", f.Name)
			continue
		}
		seen[key] = true
		f.Attrs.SetType(ft)
		typ.Fields = append(typ.Fields, types.Field{Name: f.Name, Type: ft})
	}
	return typ
}

// bounds evaluates the constant ends of a subrange. Both ends must be
// ordinal constants of the same kind.
func (a *Analyzer) bounds(r *ast.RangeType) (kind types.Kind, low, high int, ok bool) {
	lk, low, lok := a.ordinalConst(r.Low)
	hk, high, hok := a.ordinalConst(r.High)
	if !lok || !hok {
		return types.NoType, 0, 0, false
	}
	if lk != hk {
		a.mismatch(r.Pos(), "range bounds", lk, hk)
		return types.NoType, 0, 0, false
	}
	return lk, low, high, true
}

// ordinalConst evaluates an integer, char or boolean constant.
func (a *Analyzer) ordinalConst(e ast.Expr) (types.Kind, int, bool) {
	if ast.IsNil(e) {
		a.malformed("missing range bound")
	}
	typ, val := a.constValue(e)
	if typ.IsNone() {
		return types.NoType, 0, false
	}
	e.Annotations().SetType(typ)
	switch typ.Kind {
	case types.Integer:
		n, err := parseInt(val)
		if err == nil {
			return types.Integer, n, true
		}
	case types.Char:
		r := []rune(val)
		if len(r) == 1 {
			return types.Char, int(r[0]), true
		}
	case types.Boolean:
		if val == token.KwTrue {
			return types.Boolean, 1, true
		}
		return types.Boolean, 0, true
	}
	a.report(KindSemantic, e.Pos(), "Range bound must be an ordinal constant, got %s", typ)
	return types.NoType, 0, false
}

// compatible reports whether a value of type v may be stored in target.
// Arrays compare by shape.
func (a *Analyzer) compatible(v, target types.Type) bool {
	if v.Kind == types.Array && target.Kind == types.Array {
		return a.sameArray(v.Ref, target.Ref)
	}
	return v.AssignableTo(target)
}

func (a *Analyzer) sameArray(x, y int) bool {
	if x == y {
		return true
	}
	if x < 0 || y < 0 || x >= len(a.table.Atab) || y >= len(a.table.Atab) {
		return false
	}
	ax, ay := a.table.Atab[x], a.table.Atab[y]
	if ax.IndexType != ay.IndexType || ax.Low != ay.Low || ax.High != ay.High {
		return false
	}
	if ax.ElemType.Kind == types.Array && ay.ElemType.Kind == types.Array {
		return a.sameArray(ax.ElemType.Ref, ay.ElemType.Ref)
	}
	return ax.ElemType.Equal(ay.ElemType)
}

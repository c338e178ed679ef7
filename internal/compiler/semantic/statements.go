package semantic

import (
	"github.com/pascals-lang/pascals/internal/compiler/ast"
	"github.com/pascals-lang/pascals/internal/compiler/symbols"
	"github.com/pascals-lang/pascals/internal/compiler/types"
)

func (a *Analyzer) statements(b *ast.Block) {
	for _, s := range b.Stmts {
		a.stmt(s)
	}
}

func (a *Analyzer) stmt(s ast.Stmt) {
	if ast.IsNil(s) {
		a.malformed("missing statement")
	}
	switch n := s.(type) {
	case *ast.Block:
		a.statements(n)
	case *ast.Assign:
		a.assign(n)
	case *ast.Call:
		a.call(n, false)
	case *ast.If:
		a.condition(n.Cond, "if condition")
		a.stmt(n.Then)
		if !ast.IsNil(n.Else) {
			a.stmt(n.Else)
		}
	case *ast.While:
		a.condition(n.Cond, "while condition")
		a.stmt(n.Body)
	case *ast.Repeat:
		if n.Body == nil {
			a.malformed("repeat without a body")
		}
		a.statements(n.Body)
		a.condition(n.Cond, "repeat condition")
	case *ast.For:
		a.forStmt(n)
	case *ast.Case:
		a.caseStmt(n)
	default:
		a.malformed("unexpected statement %T", s)
	}
}

// condition requires a Boolean; the body is visited either way.
func (a *Analyzer) condition(e ast.Expr, context string) {
	t := a.expr(e)
	if !t.IsNone() && t.Kind != types.Boolean {
		a.mismatch(e.Pos(), context, types.Boolean, t)
	}
}

func (a *Analyzer) assign(n *ast.Assign) {
	if ast.IsNil(n.Target) || ast.IsNil(n.Value) {
		a.malformed("assignment without target or value")
	}

	v, isVar := n.Target.(*ast.Var)
	if !isVar {
		target := a.expr(n.Target)
		a.checkAssign(n, target)
		return
	}

	idx, ok := a.table.Lookup(v.Name)
	if !ok {
		a.undeclared(v.Pos(), v.Name)
		a.expr(n.Value)
		return
	}
	entry := a.table.Tab[idx]
	v.Attrs.SetSymbol(idx, entry.Level)

	switch entry.Obj {
	case symbols.Variable:
		v.Attrs.SetType(entry.Type)
		a.checkAssign(n, entry.Type)
	case symbols.Function:
		fn := a.enclosing(idx)
		if fn == nil {
			a.report(KindInvalidAssignment, v.Pos(), "Cannot assign to '%s': function result outside its body", v.Name)
			a.expr(n.Value)
			return
		}
		v.Attrs.SetType(entry.Type)
		fn.assigned = true
		got := a.expr(n.Value)
		if !got.IsNone() && !entry.Type.IsNone() && !a.compatible(got, entry.Type) {
			a.report(KindReturnTypeMismatch, n.Value.Pos(), "Function '%s' expects return type %s, got %s", fn.name, entry.Type, got)
		}
	default:
		a.report(KindInvalidAssignment, v.Pos(), "Cannot assign to '%s': it is a %s", v.Name, entry.Obj)
		a.expr(n.Value)
	}
}

func (a *Analyzer) checkAssign(n *ast.Assign, target types.Type) {
	got := a.expr(n.Value)
	if target.IsNone() || got.IsNone() {
		return
	}
	if !a.compatible(got, target) {
		a.mismatch(n.Value.Pos(), "assignment", target, got)
	}
}

// forStmt requires an ordinal loop variable and bounds of exactly its type.
func (a *Analyzer) forStmt(n *ast.For) {
	if n.Var == nil || ast.IsNil(n.Start) || ast.IsNil(n.End) {
		a.malformed("for loop without variable or bounds")
	}
	varType := a.loopVar(n.Var)
	start := a.expr(n.Start)
	end := a.expr(n.End)

	if !varType.IsNone() {
		if !varType.IsOrdinal() {
			a.report(KindTypeMismatch, n.Var.Pos(),
				"Type mismatch in for loop variable: expected ordinal type (integer, boolean, or char), got %s", varType)
		} else {
			if !start.IsNone() && start.Kind != varType.Kind {
				a.mismatch(n.Start.Pos(), "for loop start value", varType, start)
			}
			if !end.IsNone() && end.Kind != varType.Kind {
				a.mismatch(n.End.Pos(), "for loop end value", varType, end)
			}
		}
	}
	a.stmt(n.Body)
}

// loopVar resolves the control variable, which must be a variable.
func (a *Analyzer) loopVar(v *ast.Var) types.Type {
	idx, ok := a.table.Lookup(v.Name)
	if !ok {
		a.undeclared(v.Pos(), v.Name)
		return types.None
	}
	entry := a.table.Tab[idx]
	v.Attrs.SetSymbol(idx, entry.Level)
	if entry.Obj != symbols.Variable {
		a.report(KindInvalidAssignment, v.Pos(), "Cannot assign to '%s': it is a %s", v.Name, entry.Obj)
		return types.None
	}
	v.Attrs.SetType(entry.Type)
	return entry.Type
}

// caseStmt requires an ordinal selector and labels of its exact type.
func (a *Analyzer) caseStmt(n *ast.Case) {
	sel := a.expr(n.Selector)
	if !sel.IsNone() && !sel.IsOrdinal() {
		a.report(KindTypeMismatch, n.Selector.Pos(),
			"Type mismatch in case selector: expected ordinal type (integer, boolean, or char), got %s", sel)
		sel = types.None
	}
	for _, br := range n.Branches {
		for _, l := range br.Labels {
			lt, _ := a.constValue(l)
			if lt.IsNone() {
				continue
			}
			l.Annotations().SetType(lt)
			if !sel.IsNone() && lt.Kind != sel.Kind {
				a.mismatch(l.Pos(), "case label", sel, lt)
			}
		}
		a.stmt(br.Body)
	}
}

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNil(t *testing.T) {
	var block *Block
	var stmt Stmt = block

	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(stmt))
	assert.False(t, IsNil(&Block{}))
}

func TestChildrenSkipsAbsentParts(t *testing.T) {
	cond := &Boolean{Value: true}
	then := &Block{}
	n := &If{Cond: cond, Then: then}

	assert.Equal(t, []Node{cond, then}, Children(n))

	var missing *Block
	n.Else = missing
	assert.Len(t, Children(n), 2, "typed nil else branch")

	assert.Nil(t, Children(&Num{Value: "1"}))
}

func TestChildrenSourceOrder(t *testing.T) {
	i := &Var{Name: "i"}
	lo, hi := &Num{Value: "1"}, &Num{Value: "10"}
	body := &Block{}
	loop := &For{Var: i, Start: lo, End: hi, Direction: Downto, Body: body}

	assert.Equal(t, []Node{i, lo, hi, body}, Children(loop))
	assert.Equal(t, "For(direction: downto)", loop.String())

	cond := &BinOp{Op: ">", Left: i, Right: lo}
	rep := &Repeat{Body: body, Cond: cond}
	assert.Equal(t, []Node{body, cond}, Children(rep))
}

func TestInspect(t *testing.T) {
	x := &Var{Name: "x"}
	sum := &BinOp{Op: "+", Left: &Num{Value: "1"}, Right: &Var{Name: "y"}}
	prog := &Program{
		Name:  "T",
		Decls: &Declarations{Items: []Decl{&VarDecl{Name: "x", Type: &NamedType{Name: "integer"}}}},
		Body:  &Block{Stmts: []Stmt{&Assign{Target: x, Value: sum}}},
	}

	var kinds []Kind
	Inspect(prog, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal(t, []Kind{
		KindProgram, KindDeclarations, KindVarDecl, KindNamedType,
		KindBlock, KindAssign, KindVar, KindBinOp, KindNum, KindVar,
	}, kinds)

	var names []string
	Inspect(prog, func(n Node) bool {
		if v, ok := n.(*Var); ok {
			names = append(names, v.Name)
		}
		_, isDecls := n.(*Declarations)
		return !isDecls
	})
	assert.Equal(t, []string{"x", "y"}, names)
}

func TestAttrs(t *testing.T) {
	var a Attrs
	assert.False(t, a.HasType())
	assert.False(t, a.HasSymbol())
	assert.False(t, a.HasBlock())

	a.SetSymbol(42, 1)
	a.SetBlock(3, 2)
	assert.True(t, a.HasSymbol())
	assert.True(t, a.HasBlock())
	assert.Equal(t, 42, a.TabIndex)
	assert.Equal(t, 3, a.BlockIndex)
	assert.Equal(t, 2, a.Level)
}

func TestParamString(t *testing.T) {
	assert.Equal(t, "Param(name: 'var a')", (&Param{Name: "a", ByRef: true}).String())
	assert.Equal(t, "Param(name: 'b')", (&Param{Name: "b"}).String())
}

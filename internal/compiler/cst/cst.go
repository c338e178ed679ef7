// Package cst holds the concrete syntax tree produced by the parser: one
// node per matched grammar production, with every terminal kept as a leaf.
package cst

import (
	"github.com/pascals-lang/pascals/internal/compiler/token"
)

// Symbol names a grammar non-terminal.
type Symbol int

const (
	Program Symbol = iota
	ProgramHeader
	DeclarationPart
	ConstDeclaration
	TypeDeclaration
	VarDeclaration
	IdentifierList
	Type
	ArrayType
	Range
	RecordType
	FieldList
	Constant
	ConstantList
	SubprogramDeclaration
	ProcedureDeclaration
	FunctionDeclaration
	Block
	FormalParameterList
	ParameterGroup
	CompoundStatement
	StatementList
	EmptyStatement
	AssignmentStatement
	ProcedureCall
	ParameterList
	IfStatement
	WhileStatement
	ForStatement
	RepeatStatement
	CaseStatement
	CaseElement
	Expression
	SimpleExpression
	Term
	Factor
	Variable

	symbolCount
)

var symbolNames = [...]string{
	Program:               "<program>",
	ProgramHeader:         "<program-header>",
	DeclarationPart:       "<declaration-part>",
	ConstDeclaration:      "<const-declaration>",
	TypeDeclaration:       "<type-declaration>",
	VarDeclaration:        "<var-declaration>",
	IdentifierList:        "<identifier-list>",
	Type:                  "<type>",
	ArrayType:             "<array-type>",
	Range:                 "<range>",
	RecordType:            "<record-type>",
	FieldList:             "<field-list>",
	Constant:              "<constant>",
	ConstantList:          "<constant-list>",
	SubprogramDeclaration: "<subprogram-declaration>",
	ProcedureDeclaration:  "<procedure-declaration>",
	FunctionDeclaration:   "<function-declaration>",
	Block:                 "<block>",
	FormalParameterList:   "<formal-parameter-list>",
	ParameterGroup:        "<parameter-group>",
	CompoundStatement:     "<compound-statement>",
	StatementList:         "<statement-list>",
	EmptyStatement:        "<empty-statement>",
	AssignmentStatement:   "<assignment-statement>",
	ProcedureCall:         "<procedure/function-call>",
	ParameterList:         "<parameter-list>",
	IfStatement:           "<if-statement>",
	WhileStatement:        "<while-statement>",
	ForStatement:          "<for-statement>",
	RepeatStatement:       "<repeat-statement>",
	CaseStatement:         "<case-statement>",
	CaseElement:           "<case-element>",
	Expression:            "<expression>",
	SimpleExpression:      "<simple-expression>",
	Term:                  "<term>",
	Factor:                "<factor>",
	Variable:              "<variable>",
}

func (s Symbol) String() string {
	if s >= 0 && s < symbolCount {
		return symbolNames[s]
	}
	return "<unknown>"
}

// Child is either a *Node or a *Leaf.
type Child interface {
	Pos() token.Position
	child()
}

type Node struct {
	Symbol   Symbol
	Children []Child
}

func New(sym Symbol, children ...Child) *Node {
	return &Node{Symbol: sym, Children: children}
}

func (n *Node) child() {}

// Add appends children and returns n for chaining.
func (n *Node) Add(children ...Child) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Pos is the position of the first terminal under n, or the zero Position
// for an empty production.
func (n *Node) Pos() token.Position {
	for _, c := range n.Children {
		if p := c.Pos(); p.Line > 0 {
			return p
		}
	}
	return token.Position{}
}

// Leaf wraps a terminal token.
type Leaf struct {
	Token token.Token
}

func Terminal(t token.Token) *Leaf { return &Leaf{Token: t} }

func (l *Leaf) child()              {}
func (l *Leaf) Pos() token.Position { return l.Token.Pos() }

// NodeAt returns the i-th child as a node, or nil.
func (n *Node) NodeAt(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	c, _ := n.Children[i].(*Node)
	return c
}

// LeafAt returns the i-th child as a leaf, or nil.
func (n *Node) LeafAt(i int) *Leaf {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	c, _ := n.Children[i].(*Leaf)
	return c
}

// IndexOfKeyword returns the index of the first keyword leaf whose canonical
// form matches word, or -1.
func (n *Node) IndexOfKeyword(word string) int {
	for i, c := range n.Children {
		if l, ok := c.(*Leaf); ok && l.Token.IsKeyword(word) {
			return i
		}
	}
	return -1
}

// Nodes returns the child nodes with the given symbol, in order.
func (n *Node) Nodes(sym Symbol) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok && cn.Symbol == sym {
			out = append(out, cn)
		}
	}
	return out
}

// Leaves returns the child leaves with the given token kind, in order.
func (n *Node) Leaves(kind token.Kind) []*Leaf {
	var out []*Leaf
	for _, c := range n.Children {
		if l, ok := c.(*Leaf); ok && l.Token.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

package ast

import (
	"fmt"
	"strings"

	"github.com/pascals-lang/pascals/internal/compiler/token"
	"github.com/pascals-lang/pascals/internal/compiler/types"
)

// --- Interfaces ---
type Node interface {
	Kind() Kind
	Pos() token.Position
	Annotations() *Attrs
	String() string
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type Decl interface {
	Node
	declNode()
}

type TypeExpr interface {
	Node
	typeNode()
}

// --- Annotations ---

type attrFlag uint8

const (
	hasType attrFlag = 1 << iota
	hasSymbol
	hasBlock
)

// Attrs is written only by the semantic analyzer.
type Attrs struct {
	Type       types.Type
	TabIndex   int
	BlockIndex int
	Level      int
	Predefined bool

	set attrFlag
}

func (a *Attrs) SetType(t types.Type) {
	a.Type = t
	a.set |= hasType
}

// SetSymbol records the resolved TAB index and its lexical level.
func (a *Attrs) SetSymbol(tab, level int) {
	a.TabIndex = tab
	a.Level = level
	a.set |= hasSymbol
}

// SetBlock records the BTAB index of the scope the node opens.
func (a *Attrs) SetBlock(block, level int) {
	a.BlockIndex = block
	a.Level = level
	a.set |= hasBlock
}

func (a *Attrs) HasType() bool   { return a.set&hasType != 0 }
func (a *Attrs) HasSymbol() bool { return a.set&hasSymbol != 0 }
func (a *Attrs) HasBlock() bool  { return a.set&hasBlock != 0 }

// base carries the leading token and the annotation bag of every node.
type base struct {
	Token token.Token
	Attrs Attrs
}

func (b *base) Pos() token.Position  { return b.Token.Pos() }
func (b *base) Annotations() *Attrs { return &b.Attrs }

// --- Program structure ---

type Program struct {
	base
	Name  string
	Decls *Declarations
	Body  *Block
}

func (p *Program) Kind() Kind     { return KindProgram }
func (p *Program) String() string { return fmt.Sprintf("Program(name: '%s')", p.Name) }

// Block is a statement sequence. It also stands for an empty statement.
type Block struct {
	base
	Stmts []Stmt
}

func (b *Block) stmtNode()      {}
func (b *Block) Kind() Kind     { return KindBlock }
func (b *Block) String() string { return "Block" }

// Declarations keeps declarations in source order.
type Declarations struct {
	base
	Items []Decl
}

func (d *Declarations) Kind() Kind     { return KindDeclarations }
func (d *Declarations) String() string { return "Declarations" }

// --- Declarations ---

type VarDecl struct {
	base
	Name string
	Type TypeExpr
}

func (v *VarDecl) declNode()      {}
func (v *VarDecl) Kind() Kind     { return KindVarDecl }
func (v *VarDecl) String() string { return fmt.Sprintf("VarDecl(name: '%s')", v.Name) }

type ConstDecl struct {
	base
	Name  string
	Value Expr
}

func (c *ConstDecl) declNode()      {}
func (c *ConstDecl) Kind() Kind     { return KindConstDecl }
func (c *ConstDecl) String() string { return fmt.Sprintf("ConstDecl(name: '%s')", c.Name) }

type TypeDecl struct {
	base
	Name string
	Type TypeExpr
}

func (t *TypeDecl) declNode()      {}
func (t *TypeDecl) Kind() Kind     { return KindTypeDecl }
func (t *TypeDecl) String() string { return fmt.Sprintf("TypeDecl(name: '%s')", t.Name) }

type ProcedureDecl struct {
	base
	Name   string
	Params []*Param
	Decls  *Declarations
	Body   *Block
}

func (p *ProcedureDecl) declNode()      {}
func (p *ProcedureDecl) Kind() Kind     { return KindProcedureDecl }
func (p *ProcedureDecl) String() string { return fmt.Sprintf("ProcedureDecl(name: '%s')", p.Name) }

type FunctionDecl struct {
	base
	Name       string
	Params     []*Param
	ReturnType TypeExpr
	Decls      *Declarations
	Body       *Block
}

func (f *FunctionDecl) declNode()      {}
func (f *FunctionDecl) Kind() Kind     { return KindFunctionDecl }
func (f *FunctionDecl) String() string { return fmt.Sprintf("FunctionDecl(name: '%s')", f.Name) }

// Param is one formal parameter; grouped names are split one per Param.
type Param struct {
	base
	Name  string
	Type  TypeExpr
	ByRef bool
}

func (p *Param) Kind() Kind { return KindParam }
func (p *Param) String() string {
	if p.ByRef {
		return fmt.Sprintf("Param(name: 'var %s')", p.Name)
	}
	return fmt.Sprintf("Param(name: '%s')", p.Name)
}

// --- Statements ---

type Assign struct {
	base
	Target Expr
	Value  Expr
}

func (a *Assign) stmtNode()      {}
func (a *Assign) Kind() Kind     { return KindAssign }
func (a *Assign) String() string { return "Assign(':=')" }

// Call is a procedure call statement or a function call expression.
type Call struct {
	base
	Name string
	Args []Expr
}

func (c *Call) stmtNode()      {}
func (c *Call) exprNode()      {}
func (c *Call) Kind() Kind     { return KindCall }
func (c *Call) String() string { return fmt.Sprintf("Call(name: '%s')", c.Name) }

type If struct {
	base
	Cond Expr
	Then Stmt
	Else Stmt // nil without an else branch
}

func (i *If) stmtNode()      {}
func (i *If) Kind() Kind     { return KindIf }
func (i *If) String() string { return "If" }

type While struct {
	base
	Cond Expr
	Body Stmt
}

func (w *While) stmtNode()      {}
func (w *While) Kind() Kind     { return KindWhile }
func (w *While) String() string { return "While" }

type Repeat struct {
	base
	Body *Block
	Cond Expr
}

func (r *Repeat) stmtNode()      {}
func (r *Repeat) Kind() Kind     { return KindRepeat }
func (r *Repeat) String() string { return "Repeat" }

type Direction int

const (
	To Direction = iota
	Downto
)

func (d Direction) String() string {
	if d == Downto {
		return "downto"
	}
	return "to"
}

type For struct {
	base
	Var       *Var
	Start     Expr
	End       Expr
	Direction Direction
	Body      Stmt
}

func (f *For) stmtNode()      {}
func (f *For) Kind() Kind     { return KindFor }
func (f *For) String() string { return fmt.Sprintf("For(direction: %s)", f.Direction) }

type Case struct {
	base
	Selector Expr
	Branches []*CaseBranch
}

func (c *Case) stmtNode()      {}
func (c *Case) Kind() Kind     { return KindCase }
func (c *Case) String() string { return "Case" }

type CaseBranch struct {
	base
	Labels []Expr
	Body   Stmt
}

func (c *CaseBranch) Kind() Kind     { return KindCaseBranch }
func (c *CaseBranch) String() string { return "CaseBranch" }

// --- Expressions ---

type BinOp struct {
	base
	Op    string // canonical operator spelling
	Left  Expr
	Right Expr
}

func (b *BinOp) exprNode()      {}
func (b *BinOp) Kind() Kind     { return KindBinOp }
func (b *BinOp) String() string { return fmt.Sprintf("BinOp('%s')", b.Op) }

type UnaryOp struct {
	base
	Op      string
	Operand Expr
}

func (u *UnaryOp) exprNode()      {}
func (u *UnaryOp) Kind() Kind     { return KindUnaryOp }
func (u *UnaryOp) String() string { return fmt.Sprintf("UnaryOp('%s')", u.Op) }

type Var struct {
	base
	Name string
}

func (v *Var) exprNode()      {}
func (v *Var) Kind() Kind     { return KindVar }
func (v *Var) String() string { return fmt.Sprintf("Var('%s')", v.Name) }

// Num keeps the literal text; IsReal is set when it has a decimal point.
type Num struct {
	base
	Value  string
	IsReal bool
}

func (n *Num) exprNode()      {}
func (n *Num) Kind() Kind     { return KindNum }
func (n *Num) String() string { return fmt.Sprintf("Num(%s)", n.Value) }

// String holds the decoded contents of a quoted literal.
type String struct {
	base
	Value string
}

func (s *String) exprNode()  {}
func (s *String) Kind() Kind { return KindString }
func (s *String) String() string {
	return fmt.Sprintf("String('%s')", strings.ReplaceAll(s.Value, "'", "''"))
}

// IsChar reports whether the literal is exactly one character long.
func (s *String) IsChar() bool { return len([]rune(s.Value)) == 1 }

type Boolean struct {
	base
	Value bool
}

func (b *Boolean) exprNode()      {}
func (b *Boolean) Kind() Kind     { return KindBoolean }
func (b *Boolean) String() string { return fmt.Sprintf("Boolean(%t)", b.Value) }

type ArrayAccess struct {
	base
	Array Expr
	Index Expr
}

func (a *ArrayAccess) exprNode()      {}
func (a *ArrayAccess) Kind() Kind     { return KindArrayAccess }
func (a *ArrayAccess) String() string { return "ArrayAccess" }

type RecordField struct {
	base
	Record Expr
	Field  string
}

func (r *RecordField) exprNode()      {}
func (r *RecordField) Kind() Kind     { return KindRecordField }
func (r *RecordField) String() string { return fmt.Sprintf("RecordField(field: '%s')", r.Field) }

// --- Type expressions ---

type ArrayType struct {
	base
	Index *RangeType
	Elem  TypeExpr
}

func (a *ArrayType) typeNode()      {}
func (a *ArrayType) Kind() Kind     { return KindArrayType }
func (a *ArrayType) String() string { return "ArrayType" }

type RecordType struct {
	base
	Fields []*VarDecl
}

func (r *RecordType) typeNode()      {}
func (r *RecordType) Kind() Kind     { return KindRecordType }
func (r *RecordType) String() string { return "RecordType" }

// RangeType bounds are literals, signed literals or constant names.
type RangeType struct {
	base
	Low  Expr
	High Expr
}

func (r *RangeType) typeNode()      {}
func (r *RangeType) Kind() Kind     { return KindRangeType }
func (r *RangeType) String() string { return "RangeType" }

// NamedType refers to a builtin or previously declared type.
type NamedType struct {
	base
	Name string
}

func (n *NamedType) typeNode()      {}
func (n *NamedType) Kind() Kind     { return KindNamedType }
func (n *NamedType) String() string { return fmt.Sprintf("NamedType('%s')", n.Name) }

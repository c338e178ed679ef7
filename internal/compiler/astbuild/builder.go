// Package astbuild translates a parse tree into the AST, one handler per
// grammar symbol.
package astbuild

import (
	"runtime"
	"strings"

	"github.com/pascals-lang/pascals/internal/compiler/ast"
	"github.com/pascals-lang/pascals/internal/compiler/cst"
	"github.com/pascals-lang/pascals/internal/compiler/token"
)

type builder struct{}

// Build converts a <program> parse tree. The first malformed shape aborts
// with an *Error.
func Build(root *cst.Node) (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				panic(r)
			}
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			prog, err = nil, e
		}
	}()
	if root == nil {
		return nil, &Error{Message: "empty parse tree"}
	}
	if root.Symbol != cst.Program {
		return nil, &Error{Message: "root is not a program", Node: root}
	}
	b := &builder{}
	return b.program(root), nil
}

func (b *builder) fail(n *cst.Node, msg string) {
	panic(&Error{Message: msg, Node: n})
}

// build is the generic dispatch. Symbols without a dedicated handler splice
// a single built child upward or group several statements into a Block.
func (b *builder) build(c cst.Child) ast.Node {
	if leaf, ok := c.(*cst.Leaf); ok {
		if e := b.leaf(leaf.Token); e != nil {
			return e
		}
		return nil
	}
	n := c.(*cst.Node)
	switch n.Symbol {
	case cst.Program:
		return b.program(n)
	case cst.ProgramHeader:
		return nil
	case cst.DeclarationPart:
		return b.declarations(n)
	case cst.ConstDeclaration:
		return b.constSection(n)
	case cst.TypeDeclaration:
		return b.typeSection(n)
	case cst.VarDeclaration:
		return b.varSection(n)
	case cst.ProcedureDeclaration:
		return b.procedure(n)
	case cst.FunctionDeclaration:
		return b.function(n)
	case cst.Type:
		return b.typeExpr(n)
	case cst.ArrayType:
		return b.arrayType(n)
	case cst.RecordType:
		return b.recordType(n)
	case cst.Range:
		return b.rangeType(n)
	case cst.Constant:
		return b.constant(n)
	case cst.CompoundStatement:
		return b.compound(n)
	case cst.StatementList:
		return &ast.Block{Stmts: b.statements(n)}
	case cst.EmptyStatement:
		return &ast.Block{}
	case cst.AssignmentStatement:
		return b.assign(n)
	case cst.ProcedureCall:
		return b.call(n)
	case cst.IfStatement:
		return b.ifStmt(n)
	case cst.WhileStatement:
		return b.while(n)
	case cst.ForStatement:
		return b.forStmt(n)
	case cst.RepeatStatement:
		return b.repeat(n)
	case cst.CaseStatement:
		return b.caseStmt(n)
	case cst.Expression:
		return b.expression(n)
	case cst.SimpleExpression:
		return b.simpleExpression(n)
	case cst.Term:
		return b.term(n)
	case cst.Factor:
		return b.factor(n)
	case cst.Variable:
		return b.variable(n)
	case cst.SubprogramDeclaration, cst.Block, cst.IdentifierList, cst.FieldList,
		cst.ConstantList, cst.FormalParameterList, cst.ParameterGroup,
		cst.ParameterList, cst.CaseElement:
		return b.generic(n)
	}
	b.fail(n, "no handler for "+n.Symbol.String())
	return nil
}

func (b *builder) generic(n *cst.Node) ast.Node {
	var built []ast.Node
	for _, c := range n.Children {
		if r := b.build(c); r != nil {
			built = append(built, r)
		}
	}
	if len(built) == 1 {
		return built[0]
	}
	block := &ast.Block{}
	block.Token = firstToken(n)
	for _, r := range built {
		s, ok := r.(ast.Stmt)
		if !ok {
			b.fail(n, "cannot group "+r.Kind().String()+" into a block")
		}
		block.Stmts = append(block.Stmts, s)
	}
	return block
}

// leaf maps a terminal to its leaf AST node, or nil for punctuation and
// structural keywords.
func (b *builder) leaf(t token.Token) ast.Expr {
	switch {
	case t.Kind == token.Number:
		n := &ast.Num{Value: t.Lexeme, IsReal: strings.ContainsAny(t.Lexeme, ".eE")}
		n.Token = t
		return n
	case t.Kind == token.StringLiteral, t.Kind == token.CharLiteral:
		s := &ast.String{Value: unquote(t.Lexeme)}
		s.Token = t
		return s
	case t.Kind == token.Identifier:
		v := &ast.Var{Name: t.Lexeme}
		v.Token = t
		return v
	case t.IsKeyword(token.KwTrue, token.KwFalse):
		v := &ast.Boolean{Value: t.IsKeyword(token.KwTrue)}
		v.Token = t
		return v
	}
	return nil
}

// unquote strips the delimiters of a literal and folds doubled quotes.
func unquote(lexeme string) string {
	if len(lexeme) >= 2 && lexeme[0] == '\'' && lexeme[len(lexeme)-1] == '\'' {
		lexeme = lexeme[1 : len(lexeme)-1]
	}
	return strings.ReplaceAll(lexeme, "''", "'")
}

// firstToken is the first terminal under n, or the zero token.
func firstToken(n *cst.Node) token.Token {
	for _, c := range n.Children {
		switch c := c.(type) {
		case *cst.Leaf:
			return c.Token
		case *cst.Node:
			if t := firstToken(c); t.Line > 0 {
				return t
			}
		}
	}
	return token.Token{}
}

// mustNode returns child i of n when it is a node with the given symbol.
func (b *builder) mustNode(n *cst.Node, i int, sym cst.Symbol) *cst.Node {
	c := n.NodeAt(i)
	if c == nil || c.Symbol != sym {
		b.fail(n, "missing "+sym.String())
	}
	return c
}

// mustLeaf returns child i of n when it is a token of the given kind.
func (b *builder) mustLeaf(n *cst.Node, i int, kind token.Kind) token.Token {
	l := n.LeafAt(i)
	if l == nil || l.Token.Kind != kind {
		b.fail(n, "missing "+string(kind))
	}
	return l.Token
}

// --- Program and declarations ---

func (b *builder) program(n *cst.Node) *ast.Program {
	header := b.mustNode(n, 0, cst.ProgramHeader)
	name := b.mustLeaf(header, 1, token.Identifier)
	p := &ast.Program{
		Name:  name.Lexeme,
		Decls: b.declarations(b.mustNode(n, 1, cst.DeclarationPart)),
		Body:  b.compound(b.mustNode(n, 2, cst.CompoundStatement)),
	}
	p.Token = name
	return p
}

// declarations flattens every section into one ordered list.
func (b *builder) declarations(n *cst.Node) *ast.Declarations {
	d := &ast.Declarations{}
	d.Token = firstToken(n)
	for _, c := range n.Children {
		sec, ok := c.(*cst.Node)
		if !ok {
			b.fail(n, "unexpected token in declaration part")
		}
		switch sec.Symbol {
		case cst.ConstDeclaration:
			d.Items = append(d.Items, b.constSection(sec).Items...)
		case cst.TypeDeclaration:
			d.Items = append(d.Items, b.typeSection(sec).Items...)
		case cst.VarDeclaration:
			d.Items = append(d.Items, b.varSection(sec).Items...)
		case cst.SubprogramDeclaration:
			decl, ok := b.generic(sec).(ast.Decl)
			if !ok {
				b.fail(sec, "subprogram declaration did not build a declaration")
			}
			d.Items = append(d.Items, decl)
		default:
			b.fail(sec, "unexpected "+sec.Symbol.String()+" in declaration part")
		}
	}
	return d
}

// constSection: 'const' (IDENT '=' constant ';')+
func (b *builder) constSection(n *cst.Node) *ast.Declarations {
	d := &ast.Declarations{}
	for i := 1; i < len(n.Children); i += 4 {
		name := b.mustLeaf(n, i, token.Identifier)
		c := &ast.ConstDecl{Name: name.Lexeme, Value: b.constant(b.mustNode(n, i+2, cst.Constant))}
		c.Token = name
		d.Items = append(d.Items, c)
	}
	return d
}

// typeSection: 'type' (IDENT '=' type ';')+
func (b *builder) typeSection(n *cst.Node) *ast.Declarations {
	d := &ast.Declarations{}
	for i := 1; i < len(n.Children); i += 4 {
		name := b.mustLeaf(n, i, token.Identifier)
		t := &ast.TypeDecl{Name: name.Lexeme, Type: b.typeExpr(b.mustNode(n, i+2, cst.Type))}
		t.Token = name
		d.Items = append(d.Items, t)
	}
	return d
}

// varSection: 'var' (ident-list ':' type ';')+. Each name gets its own
// copy of the type subtree.
func (b *builder) varSection(n *cst.Node) *ast.Declarations {
	d := &ast.Declarations{}
	for i := 1; i < len(n.Children); i += 4 {
		ids := b.mustNode(n, i, cst.IdentifierList)
		typ := b.mustNode(n, i+2, cst.Type)
		for _, v := range b.varDecls(ids, typ) {
			d.Items = append(d.Items, v)
		}
	}
	return d
}

func (b *builder) varDecls(ids, typ *cst.Node) []*ast.VarDecl {
	var out []*ast.VarDecl
	for _, id := range ids.Leaves(token.Identifier) {
		v := &ast.VarDecl{Name: id.Token.Lexeme, Type: b.typeExpr(typ)}
		v.Token = id.Token
		out = append(out, v)
	}
	return out
}

// --- Types ---

func (b *builder) typeExpr(n *cst.Node) ast.TypeExpr {
	if len(n.Children) != 1 {
		b.fail(n, "type must have exactly one part")
	}
	switch c := n.Children[0].(type) {
	case *cst.Leaf:
		t := &ast.NamedType{Name: c.Token.Lexeme}
		t.Token = c.Token
		return t
	case *cst.Node:
		switch c.Symbol {
		case cst.ArrayType:
			return b.arrayType(c)
		case cst.RecordType:
			return b.recordType(c)
		case cst.Range:
			return b.rangeType(c)
		}
		b.fail(c, "unexpected "+c.Symbol.String()+" in type")
	}
	return nil
}

// arrayType: 'array' '[' range ']' 'of' type
func (b *builder) arrayType(n *cst.Node) *ast.ArrayType {
	a := &ast.ArrayType{
		Index: b.rangeType(b.mustNode(n, 2, cst.Range)),
		Elem:  b.typeExpr(b.mustNode(n, 5, cst.Type)),
	}
	a.Token = firstToken(n)
	return a
}

func (b *builder) rangeType(n *cst.Node) *ast.RangeType {
	r := &ast.RangeType{
		Low:  b.constant(b.mustNode(n, 0, cst.Constant)),
		High: b.constant(b.mustNode(n, 2, cst.Constant)),
	}
	r.Token = firstToken(n)
	return r
}

// recordType: 'record' field-list 'end'
func (b *builder) recordType(n *cst.Node) *ast.RecordType {
	fields := b.mustNode(n, 1, cst.FieldList)
	r := &ast.RecordType{}
	r.Token = firstToken(n)
	for i := 0; i < len(fields.Children); i++ {
		ids := fields.NodeAt(i)
		if ids == nil || ids.Symbol != cst.IdentifierList {
			continue
		}
		r.Fields = append(r.Fields, b.varDecls(ids, b.mustNode(fields, i+2, cst.Type))...)
		i += 2
	}
	return r
}

// constant folds a sign into numeric literals; a signed constant name
// becomes a unary operation.
func (b *builder) constant(n *cst.Node) ast.Expr {
	switch len(n.Children) {
	case 1:
		l := n.LeafAt(0)
		if l == nil {
			b.fail(n, "constant must be a token")
		}
		e := b.leaf(l.Token)
		if e == nil {
			b.fail(n, "invalid constant "+l.Token.String())
		}
		return e
	case 2:
		sign := n.LeafAt(0)
		val := n.LeafAt(1)
		if sign == nil || val == nil {
			b.fail(n, "malformed signed constant")
		}
		if val.Token.Kind == token.Number {
			num := &ast.Num{Value: sign.Token.Lexeme + val.Token.Lexeme, IsReal: strings.ContainsAny(val.Token.Lexeme, ".eE")}
			if sign.Token.Lexeme == "+" {
				num.Value = val.Token.Lexeme
			}
			num.Token = sign.Token
			return num
		}
		u := &ast.UnaryOp{Op: sign.Token.Lexeme, Operand: b.leaf(val.Token)}
		u.Token = sign.Token
		return u
	}
	b.fail(n, "malformed constant")
	return nil
}

// --- Subprograms ---

func (b *builder) procedure(n *cst.Node) *ast.ProcedureDecl {
	name := b.mustLeaf(n, 1, token.Identifier)
	blocks := n.Nodes(cst.Block)
	if len(blocks) != 1 {
		b.fail(n, "procedure without a body")
	}
	p := &ast.ProcedureDecl{Name: name.Lexeme, Params: b.params(n)}
	p.Decls, p.Body = b.body(blocks[0])
	p.Token = name
	return p
}

func (b *builder) function(n *cst.Node) *ast.FunctionDecl {
	name := b.mustLeaf(n, 1, token.Identifier)
	blocks := n.Nodes(cst.Block)
	ret := n.Nodes(cst.Type)
	if len(blocks) != 1 {
		b.fail(n, "function without a body")
	}
	if len(ret) != 1 {
		b.fail(n, "function without a return type")
	}
	f := &ast.FunctionDecl{Name: name.Lexeme, Params: b.params(n), ReturnType: b.typeExpr(ret[0])}
	f.Decls, f.Body = b.body(blocks[0])
	f.Token = name
	return f
}

func (b *builder) body(n *cst.Node) (*ast.Declarations, *ast.Block) {
	return b.declarations(b.mustNode(n, 0, cst.DeclarationPart)),
		b.compound(b.mustNode(n, 1, cst.CompoundStatement))
}

// params splits every parameter group into one Param per name.
func (b *builder) params(n *cst.Node) []*ast.Param {
	var out []*ast.Param
	for _, fpl := range n.Nodes(cst.FormalParameterList) {
		for _, g := range fpl.Nodes(cst.ParameterGroup) {
			byRef := g.IndexOfKeyword(token.KwVar) == 0
			ids := g.Nodes(cst.IdentifierList)
			typ := g.Nodes(cst.Type)
			if len(ids) != 1 || len(typ) != 1 {
				b.fail(g, "malformed parameter group")
			}
			for _, id := range ids[0].Leaves(token.Identifier) {
				p := &ast.Param{Name: id.Token.Lexeme, Type: b.typeExpr(typ[0]), ByRef: byRef}
				p.Token = id.Token
				out = append(out, p)
			}
		}
	}
	return out
}

// --- Statements ---

func (b *builder) compound(n *cst.Node) *ast.Block {
	block := &ast.Block{Stmts: b.statements(b.mustNode(n, 1, cst.StatementList))}
	block.Token = firstToken(n)
	return block
}

// statements builds a statement list, dropping empty statements.
func (b *builder) statements(n *cst.Node) []ast.Stmt {
	var out []ast.Stmt
	for _, c := range n.Children {
		sn, ok := c.(*cst.Node)
		if !ok || sn.Symbol == cst.EmptyStatement {
			continue
		}
		out = append(out, b.statement(sn))
	}
	return out
}

func (b *builder) statement(n *cst.Node) ast.Stmt {
	s, ok := b.build(n).(ast.Stmt)
	if !ok {
		b.fail(n, n.Symbol.String()+" is not a statement")
	}
	return s
}

// assign: variable ':=' expression
func (b *builder) assign(n *cst.Node) *ast.Assign {
	if len(n.Children) != 3 {
		b.fail(n, "Assignment statement incomplete")
	}
	a := &ast.Assign{
		Target: b.variable(b.mustNode(n, 0, cst.Variable)),
		Value:  b.expression(b.mustNode(n, 2, cst.Expression)),
	}
	a.Token = b.mustLeaf(n, 1, token.AssignOperator)
	return a
}

// call: (IDENT | KEYWORD) [ '(' [parameter-list] ')' ]
func (b *builder) call(n *cst.Node) *ast.Call {
	name := n.LeafAt(0)
	if name == nil {
		b.fail(n, "Procedure call missing name")
	}
	c := &ast.Call{Name: name.Token.Lexeme}
	c.Token = name.Token
	for _, pl := range n.Nodes(cst.ParameterList) {
		for _, e := range pl.Nodes(cst.Expression) {
			c.Args = append(c.Args, b.expression(e))
		}
	}
	return c
}

// ifStmt locates its parts by the then/else keywords.
func (b *builder) ifStmt(n *cst.Node) *ast.If {
	then := n.IndexOfKeyword(token.KwThen)
	if then < 0 {
		b.fail(n, "If statement missing then")
	}
	s := &ast.If{
		Cond: b.expression(b.mustNode(n, then-1, cst.Expression)),
		Then: b.branch(n, then+1),
	}
	if els := n.IndexOfKeyword(token.KwElse); els > then {
		s.Else = b.branch(n, els+1)
	}
	s.Token = firstToken(n)
	return s
}

// branch builds the statement at child i; an empty statement becomes an
// empty Block.
func (b *builder) branch(n *cst.Node, i int) ast.Stmt {
	c := n.NodeAt(i)
	if c == nil {
		b.fail(n, "missing statement")
	}
	return b.statement(c)
}

func (b *builder) while(n *cst.Node) *ast.While {
	do := n.IndexOfKeyword(token.KwDo)
	if do < 0 {
		b.fail(n, "While statement incomplete")
	}
	w := &ast.While{
		Cond: b.expression(b.mustNode(n, do-1, cst.Expression)),
		Body: b.branch(n, do+1),
	}
	w.Token = firstToken(n)
	return w
}

// forStmt: 'for' IDENT ':=' expression ('to'|'downto') expression 'do' statement
func (b *builder) forStmt(n *cst.Node) *ast.For {
	id := b.mustLeaf(n, 1, token.Identifier)
	dir := n.IndexOfKeyword(token.KwTo)
	direction := ast.To
	if dir < 0 {
		dir = n.IndexOfKeyword(token.KwDownto)
		direction = ast.Downto
	}
	do := n.IndexOfKeyword(token.KwDo)
	if dir < 0 || do < 0 {
		b.fail(n, "For statement incomplete")
	}
	v := &ast.Var{Name: id.Lexeme}
	v.Token = id
	f := &ast.For{
		Var:       v,
		Start:     b.expression(b.mustNode(n, dir-1, cst.Expression)),
		End:       b.expression(b.mustNode(n, do-1, cst.Expression)),
		Direction: direction,
		Body:      b.branch(n, do+1),
	}
	f.Token = firstToken(n)
	return f
}

// repeat: 'repeat' statement-list 'until' expression
func (b *builder) repeat(n *cst.Node) *ast.Repeat {
	until := n.IndexOfKeyword(token.KwUntil)
	if until < 0 {
		b.fail(n, "Repeat statement incomplete")
	}
	body := &ast.Block{Stmts: b.statements(b.mustNode(n, 1, cst.StatementList))}
	body.Token = firstToken(n)
	r := &ast.Repeat{
		Body: body,
		Cond: b.expression(b.mustNode(n, until+1, cst.Expression)),
	}
	r.Token = firstToken(n)
	return r
}

func (b *builder) caseStmt(n *cst.Node) *ast.Case {
	of := n.IndexOfKeyword(token.KwOf)
	if of < 0 {
		b.fail(n, "Case statement missing of")
	}
	c := &ast.Case{Selector: b.expression(b.mustNode(n, of-1, cst.Expression))}
	c.Token = firstToken(n)
	for _, el := range n.Nodes(cst.CaseElement) {
		labels := b.mustNode(el, 0, cst.ConstantList)
		br := &ast.CaseBranch{Body: b.branch(el, 2)}
		br.Token = firstToken(el)
		for _, k := range labels.Nodes(cst.Constant) {
			br.Labels = append(br.Labels, b.constant(k))
		}
		c.Branches = append(c.Branches, br)
	}
	return c
}

// --- Expressions ---

// expression: simple-expression [relop simple-expression]
func (b *builder) expression(n *cst.Node) ast.Expr {
	left := b.simpleExpression(b.mustNode(n, 0, cst.SimpleExpression))
	if len(n.Children) == 1 {
		return left
	}
	op := n.LeafAt(1)
	if op == nil || len(n.Children) != 3 {
		b.fail(n, "malformed relational expression")
	}
	return binOp(op.Token, left, b.simpleExpression(b.mustNode(n, 2, cst.SimpleExpression)))
}

// simpleExpression folds [sign] term (addop term)* to the left. A leading
// operator token is a unary sign on the first term.
func (b *builder) simpleExpression(n *cst.Node) ast.Expr {
	i := 0
	var cur ast.Expr
	if sign := n.LeafAt(0); sign != nil {
		u := &ast.UnaryOp{Op: sign.Token.Lexeme, Operand: b.term(b.mustNode(n, 1, cst.Term))}
		u.Token = sign.Token
		cur = u
		i = 2
	} else {
		cur = b.term(b.mustNode(n, 0, cst.Term))
		i = 1
	}
	for ; i < len(n.Children); i += 2 {
		op := n.LeafAt(i)
		if op == nil {
			b.fail(n, "missing operator")
		}
		cur = binOp(op.Token, cur, b.term(b.mustNode(n, i+1, cst.Term)))
	}
	return cur
}

func (b *builder) term(n *cst.Node) ast.Expr {
	cur := b.factor(b.mustNode(n, 0, cst.Factor))
	for i := 1; i < len(n.Children); i += 2 {
		op := n.LeafAt(i)
		if op == nil {
			b.fail(n, "missing operator")
		}
		cur = binOp(op.Token, cur, b.factor(b.mustNode(n, i+1, cst.Factor)))
	}
	return cur
}

func binOp(op token.Token, left, right ast.Expr) *ast.BinOp {
	e := &ast.BinOp{Op: token.Canonical(op.Lexeme), Left: left, Right: right}
	e.Token = op
	return e
}

func (b *builder) factor(n *cst.Node) ast.Expr {
	if len(n.Children) == 0 {
		b.fail(n, "empty factor")
	}
	if inner := n.NodeAt(0); inner != nil {
		switch inner.Symbol {
		case cst.Variable:
			return b.variable(inner)
		case cst.ProcedureCall:
			return b.call(inner)
		}
		b.fail(n, "unexpected "+inner.Symbol.String()+" in factor")
	}

	first := n.LeafAt(0).Token
	switch {
	case first.Kind == token.LParen:
		return b.expression(b.mustNode(n, 1, cst.Expression))
	case len(n.Children) == 2:
		u := &ast.UnaryOp{Op: token.Canonical(first.Lexeme), Operand: b.factor(b.mustNode(n, 1, cst.Factor))}
		u.Token = first
		return u
	}
	e := b.leaf(first)
	if e == nil {
		b.fail(n, "invalid factor "+first.String())
	}
	return e
}

// variable builds base[index].field chains growing to the right.
func (b *builder) variable(n *cst.Node) ast.Expr {
	id := b.mustLeaf(n, 0, token.Identifier)
	base := &ast.Var{Name: id.Lexeme}
	base.Token = id
	var cur ast.Expr = base
	for i := 1; i < len(n.Children); {
		l := n.LeafAt(i)
		if l == nil {
			b.fail(n, "malformed variable suffix")
		}
		switch l.Token.Kind {
		case token.LBracket:
			a := &ast.ArrayAccess{Array: cur, Index: b.expression(b.mustNode(n, i+1, cst.Expression))}
			a.Token = l.Token
			cur = a
			i += 3
		case token.Dot:
			field := b.mustLeaf(n, i+1, token.Identifier)
			r := &ast.RecordField{Record: cur, Field: field.Lexeme}
			r.Token = field
			cur = r
			i += 2
		default:
			b.fail(n, "unexpected "+l.Token.String()+" in variable")
		}
	}
	return cur
}

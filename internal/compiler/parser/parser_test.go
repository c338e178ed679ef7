package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pascals-lang/pascals/internal/compiler/cst"
	"github.com/pascals-lang/pascals/internal/compiler/dfa"
	"github.com/pascals-lang/pascals/internal/compiler/lexer"
	"github.com/pascals-lang/pascals/internal/compiler/token"
	"github.com/pascals-lang/pascals/internal/config"
)

// --- Test Helper Functions ---

func lex(t *testing.T, src string) []token.Token {
	t.Helper()
	tables, err := config.Default()
	require.NoError(t, err)
	d, lc, err := tables.Build()
	require.NoError(t, err)
	toks, err := lexer.NewLexer(dfa.NewEngine(d), lc).Tokenize(src)
	require.NoError(t, err)
	return toks
}

func parse(t *testing.T, src string) *cst.Node {
	t.Helper()
	root, err := NewParser(lex(t, src)).WithSource(src).Parse()
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func parseErr(t *testing.T, src string) *Error {
	t.Helper()
	_, err := NewParser(lex(t, src)).WithSource(src).Parse()
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	return perr
}

// collect gathers every node with sym under n, depth first.
func collect(n *cst.Node, sym cst.Symbol) []*cst.Node {
	var out []*cst.Node
	if n.Symbol == sym {
		out = append(out, n)
	}
	for _, c := range n.Children {
		if cn, ok := c.(*cst.Node); ok {
			out = append(out, collect(cn, sym)...)
		}
	}
	return out
}

// --- Tests ---

func TestParseProgramShape(t *testing.T) {
	root := parse(t, `program Hello;
var
  x: integer;
begin
  x := 5;
  writeln('x = ', x)
end.`)

	assert.Equal(t, cst.Program, root.Symbol)
	require.Len(t, root.Children, 4)
	assert.Equal(t, cst.ProgramHeader, root.NodeAt(0).Symbol)
	assert.Equal(t, cst.DeclarationPart, root.NodeAt(1).Symbol)
	assert.Equal(t, cst.CompoundStatement, root.NodeAt(2).Symbol)
	assert.Equal(t, token.Dot, root.LeafAt(3).Token.Kind)

	header := root.NodeAt(0)
	assert.Equal(t, "Hello", header.LeafAt(1).Token.Lexeme)

	vars := root.NodeAt(1).Nodes(cst.VarDeclaration)
	require.Len(t, vars, 1)
	assert.Equal(t, cst.IdentifierList, vars[0].NodeAt(1).Symbol)

	list := root.NodeAt(2).NodeAt(1)
	assert.Equal(t, cst.StatementList, list.Symbol)
	assert.Len(t, list.Nodes(cst.AssignmentStatement), 1)
	assert.Len(t, list.Nodes(cst.ProcedureCall), 1)
	assert.Len(t, list.Leaves(token.Semicolon), 1)
}

func TestParseDeclarations(t *testing.T) {
	root := parse(t, `program Decls;
const
  max = 10;
  neg = -3;
  greeting = 'hi';
type
  idx = 1..max;
  point = record
    x, y: integer;
  end;
  grid = array[0..max] of array['a'..'z'] of point;
var
  a, b: real;
  p: point;
procedure show(var n: integer; c: char);
begin
end;
function twice(n: integer): integer;
var
  tmp: integer;
begin
  twice := n * 2
end;
begin
end.`)

	decls := root.NodeAt(1)
	assert.Len(t, decls.Nodes(cst.ConstDeclaration), 1)
	assert.Len(t, decls.Nodes(cst.TypeDeclaration), 1)
	assert.Len(t, decls.Nodes(cst.VarDeclaration), 1)
	assert.Len(t, decls.Nodes(cst.SubprogramDeclaration), 2)

	assert.Len(t, collect(root, cst.RecordType), 1)
	assert.Len(t, collect(root, cst.ArrayType), 2)
	assert.Len(t, collect(root, cst.Range), 3)

	groups := collect(root, cst.ParameterGroup)
	require.Len(t, groups, 3)
	assert.True(t, groups[0].LeafAt(0).Token.IsKeyword(token.KwVar))
	assert.Equal(t, cst.IdentifierList, groups[1].NodeAt(0).Symbol)

	fn := collect(root, cst.FunctionDeclaration)
	require.Len(t, fn, 1)
	assert.Len(t, collect(fn[0], cst.Block), 1)
}

func TestParseStatements(t *testing.T) {
	root := parse(t, `program S;
begin
  for i := 10 downto 1 do x := x + i;
  while x > 0 do x := x - 1;
  repeat x := x + 1; y := y until x = 3;
  case x of
    1, 2: y := 0;
    3: begin y := 1 end;
  end;
  a[i].f := b[j][k];
  p;
  q()
end.`)

	assert.Len(t, collect(root, cst.ForStatement), 1)
	assert.Len(t, collect(root, cst.WhileStatement), 1)
	assert.Len(t, collect(root, cst.RepeatStatement), 1)
	assert.Len(t, collect(root, cst.CaseElement), 2)

	calls := collect(root, cst.ProcedureCall)
	require.Len(t, calls, 2)
	assert.Len(t, calls[0].Children, 1)
	assert.Len(t, calls[1].Children, 3)

	assigns := collect(root, cst.AssignmentStatement)
	target := assigns[len(assigns)-1].NodeAt(0)
	assert.Equal(t, cst.Variable, target.Symbol)
	assert.Len(t, target.Children, 6)
}

func TestDanglingElseBindsToNearestIf(t *testing.T) {
	root := parse(t, `program D;
begin
  if a then if b then x := 1 else x := 2
end.`)

	ifs := collect(root, cst.IfStatement)
	require.Len(t, ifs, 2)
	assert.Len(t, ifs[0].Children, 4, "outer if has no else")
	assert.Len(t, ifs[1].Children, 6, "inner if owns the else")
}

func TestEmptyStatements(t *testing.T) {
	root := parse(t, `program E;
begin
  ;;
  if a then else x := 1;
end.`)

	assert.Len(t, collect(root, cst.EmptyStatement), 4)
}

func TestExpressionPrecedence(t *testing.T) {
	root := parse(t, `program P; begin x := -a + b * c div 2 or not d < e end.`)

	expr := collect(root, cst.Expression)[0]
	require.Len(t, expr.Children, 3)
	assert.Equal(t, "<", expr.LeafAt(1).Token.Lexeme)

	simple := expr.NodeAt(0)
	assert.True(t, isSign(simple.LeafAt(0).Token))
	assert.Len(t, simple.Nodes(cst.Term), 3)

	terms := simple.Nodes(cst.Term)
	assert.Len(t, terms[1].Nodes(cst.Factor), 3)
}

func TestIndonesianKeywords(t *testing.T) {
	root := parse(t, `program Halo;
variabel
  i: integer;
mulai
  untuk i := 1 ke 3 lakukan
    jika i = 2 maka tulisln(i) selain_itu tulis(i);
  selama benar dan salah lakukan i := i bagi 2
selesai.`)

	assert.Len(t, collect(root, cst.ForStatement), 1)
	assert.Len(t, collect(root, cst.IfStatement), 1)
	assert.Len(t, collect(root, cst.WhileStatement), 1)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		msg       string
		line, col int
	}{
		{
			"missing semicolon",
			"program P;\nvar x: integer\nbegin end.",
			"Unexpected token KEYWORD(begin), expected SEMICOLON", 3, 1,
		},
		{
			"missing final dot",
			"program P; begin end",
			"Unexpected end of input, expected DOT", 1, 21,
		},
		{
			"trailing tokens",
			"program P; begin end. x",
			"Unexpected token IDENTIFIER(x) after end of program", 1, 23,
		},
		{
			"for without direction",
			"program P; begin for i := 1 do x := 1 end.",
			"Unexpected token KEYWORD(do), expected KEYWORD(to) or KEYWORD(downto)", 1, 29,
		},
		{
			"wrong keyword",
			"program P; begin if x do y := 1 end.",
			"Unexpected value 'do', expected KEYWORD(then)", 1, 23,
		},
		{
			"missing operand",
			"program P; begin x := ; end.",
			"Unexpected token SEMICOLON(;) in expression", 1, 23,
		},
		{
			"not a type",
			"program P; var x: 'abc'; begin end.",
			"Unexpected token STRING_LITERAL('abc'), expected a type", 1, 19,
		},
		{
			"no program keyword",
			"begin end.",
			"Unexpected value 'begin', expected KEYWORD(program)", 1, 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.src)
			assert.Equal(t, tt.msg, err.Message)
			assert.Equal(t, tt.line, err.Line)
			assert.Equal(t, tt.col, err.Column)
		})
	}
}

func TestEmptyInput(t *testing.T) {
	_, err := NewParser(nil).Parse()

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.AtEOF)
	assert.Equal(t, "Syntax error at line 1, column 1: Unexpected end of input, expected KEYWORD(program)", perr.Error())
}

func TestErrorPretty(t *testing.T) {
	err := parseErr(t, "program P;\nbegin\n  x := ;\nend.")

	assert.Equal(t, "ParseError: Unexpected token SEMICOLON(;) in expression\n"+
		"  --> (line 3, column 8)\n"+
		"   |\n"+
		" 3 |   x := ;\n"+
		"   |        ^", err.Pretty())
}

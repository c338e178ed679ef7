package semantic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pascals-lang/pascals/internal/compiler/ast"
	"github.com/pascals-lang/pascals/internal/compiler/astbuild"
	"github.com/pascals-lang/pascals/internal/compiler/dfa"
	"github.com/pascals-lang/pascals/internal/compiler/lexer"
	"github.com/pascals-lang/pascals/internal/compiler/parser"
	"github.com/pascals-lang/pascals/internal/compiler/symbols"
	"github.com/pascals-lang/pascals/internal/compiler/types"
	"github.com/pascals-lang/pascals/internal/config"
)

func buildAST(t *testing.T, src string) *ast.Program {
	t.Helper()
	tables, err := config.Default()
	require.NoError(t, err)
	d, lc, err := tables.Build()
	require.NoError(t, err)
	toks, err := lexer.NewLexer(dfa.NewEngine(d), lc).Tokenize(src)
	require.NoError(t, err)
	tree, err := parser.NewParser(toks).Parse()
	require.NoError(t, err)
	prog, err := astbuild.Build(tree)
	require.NoError(t, err)
	return prog
}

func analyze(t *testing.T, src string) (*Analyzer, *ast.Program, []*Error) {
	t.Helper()
	prog := buildAST(t, src)
	a := New()
	ok, errs := a.Analyze(prog)
	assert.Equal(t, len(errs) == 0, ok)
	return a, prog, errs
}

func requireClean(t *testing.T, src string) (*Analyzer, *ast.Program) {
	t.Helper()
	a, prog, errs := analyze(t, src)
	for _, e := range errs {
		t.Errorf("unexpected error: %s", e)
	}
	require.Empty(t, errs)
	return a, prog
}

// single requires exactly one error of the given kind.
func single(t *testing.T, src string, kind ErrorKind) *Error {
	t.Helper()
	_, _, errs := analyze(t, src)
	require.Len(t, errs, 1, "errors: %v", errs)
	assert.Equal(t, kind, errs[0].Kind, errs[0].Error())
	return errs[0]
}

func lookup(t *testing.T, a *Analyzer, name string) symbols.Entry {
	t.Helper()
	return a.Table().Tab[indexOf(t, a, name)]
}

// --- End-to-end scenarios ---

func TestSimpleProgram(t *testing.T) {
	a, prog := requireClean(t, "program Test; var x: integer; begin x := 5; end.")

	x := lookup(t, a, "x")
	assert.Equal(t, symbols.Variable, x.Obj)
	assert.Equal(t, types.Integer, x.Type.Kind)
	assert.Equal(t, 0, x.Level)

	assign := prog.Body.Stmts[0].(*ast.Assign)
	assert.Equal(t, types.Integer, assign.Target.Annotations().Type.Kind)
	assert.True(t, assign.Target.Annotations().HasSymbol())
	assert.Equal(t, types.Integer, assign.Value.Annotations().Type.Kind)

	assert.True(t, prog.Body.Annotations().HasBlock())
	assert.Equal(t, 1, prog.Body.Annotations().Level)
}

func TestAssignCharToInteger(t *testing.T) {
	err := single(t, "program T; var x: integer; begin x := 'a'; end.", KindTypeMismatch)
	assert.Equal(t, "Type mismatch in assignment: expected integer, got char", err.Msg)
	assert.Equal(t, 1, err.Pos.Line)
	assert.Equal(t, 39, err.Pos.Column)
}

func TestUndeclaredIdentifier(t *testing.T) {
	err := single(t, "program T; begin y := 1; end.", KindUndeclaredIdentifier)
	assert.Equal(t, "Undeclared identifier 'y'", err.Msg)
	assert.True(t, errors.Is(err, ErrUndeclaredIdentifier))
	assert.False(t, errors.Is(err, ErrTypeMismatch))
}

func TestRedeclaredKeepsFirst(t *testing.T) {
	a, _, errs := analyze(t, "program T; var x: integer; var x: real; begin end.")

	require.Len(t, errs, 1)
	assert.Equal(t, KindRedeclaredIdentifier, errs[0].Kind)
	assert.Equal(t, "Identifier 'x' is already declared in this scope", errs[0].Msg)
	assert.Equal(t, types.Integer, lookup(t, a, "x").Type.Kind)
}

func TestProcedureArgumentCount(t *testing.T) {
	err := single(t, `program T;
procedure proc(a: integer);
begin
end;
begin
  proc(1, 2)
end.`, KindArgumentCount)
	assert.Equal(t, "'proc' expects 1 arguments, got 2", err.Msg)
}

// --- Properties ---

func TestAnalyzeIsRepeatable(t *testing.T) {
	prog := buildAST(t, "program T; var x: integer; begin x := y end.")
	a := New()

	ok1, errs1 := a.Analyze(prog)
	size := len(a.Table().Tab)
	ok2, errs2 := a.Analyze(prog)

	assert.False(t, ok1)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, errs1, errs2)
	assert.Len(t, a.Table().Tab, size)

	ok3, errs3 := New().Analyze(buildAST(t, "program T; var x: integer; begin x := y end."))
	assert.Equal(t, ok1, ok3)
	assert.Equal(t, errs1, errs3)
}

func TestWithTableReusesTable(t *testing.T) {
	tab := symbols.New()
	a := New(WithTable(tab))
	ok, _ := a.Analyze(buildAST(t, "program T; var x: integer; begin end."))

	assert.True(t, ok)
	assert.Same(t, tab, a.Table())
	assert.Greater(t, len(tab.Tab), tab.ReservedCount())
}

func TestErrorsKeepSourceOrder(t *testing.T) {
	_, _, errs := analyze(t, `program T;
var b: boolean;
begin
  a := 1;
  b := 2;
  c := 3
end.`)

	require.Len(t, errs, 3)
	assert.Equal(t, KindUndeclaredIdentifier, errs[0].Kind)
	assert.Equal(t, KindTypeMismatch, errs[1].Kind)
	assert.Equal(t, KindUndeclaredIdentifier, errs[2].Kind)
	assert.Less(t, errs[0].Pos.Line, errs[1].Pos.Line)
	assert.Less(t, errs[1].Pos.Line, errs[2].Pos.Line)
}

func TestMalformedTree(t *testing.T) {
	a := New()
	ok, errs := a.Analyze(&ast.Program{Name: "Broken"})

	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrInternal))

	ok, errs = a.Analyze(nil)
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, KindInternal, errs[0].Kind)
}

// --- Scopes and subprograms ---

func TestNestedScopes(t *testing.T) {
	a, prog := requireClean(t, `program T;
var x: integer;
procedure outer(x: real);
var y: integer;
  procedure inner;
  var x: boolean;
  begin
    x := true;
    y := 1
  end;
begin
  inner;
  x := y
end;
begin
  outer(x)
end.`)

	tab := a.Table()
	outer := lookup(t, a, "outer")
	assert.Equal(t, symbols.Procedure, outer.Obj)
	assert.Equal(t, 0, outer.Level)
	require.Len(t, tab.Parameters(indexOf(t, a, "outer")), 1)

	inner := lookup(t, a, "inner")
	assert.Equal(t, 1, inner.Level)

	decl := prog.Decls.Items[1].(*ast.ProcedureDecl)
	assert.Equal(t, 1, decl.Body.Annotations().Level)
	innerDecl := decl.Decls.Items[1].(*ast.ProcedureDecl)
	assert.Equal(t, 2, innerDecl.Body.Annotations().Level)

	assign := innerDecl.Body.Stmts[1].(*ast.Assign)
	target := assign.Target.(*ast.Var)
	assert.Equal(t, 1, target.Attrs.Level, "y resolves to outer's local")

	assert.Equal(t, 0, tab.Level(), "every scope is closed")
}

func indexOf(t *testing.T, a *Analyzer, name string) int {
	t.Helper()
	tab := a.Table()
	for i := tab.ReservedCount(); i < len(tab.Tab); i++ {
		if tab.Tab[i].Name == name {
			return i
		}
	}
	t.Fatalf("no TAB entry for %q", name)
	return -1
}

func TestFunctionReturn(t *testing.T) {
	requireClean(t, `program T;
var r: real;
function half(v: integer): real;
begin
  half := v / 2
end;
function fact(n: integer): integer;
begin
  if n <= 1 then fact := 1 else fact := n * fact(n - 1)
end;
begin
  r := half(fact(3))
end.`)

	err := single(t, `program T;
function f: integer;
begin
end;
begin
end.`, KindMissingReturn)
	assert.Equal(t, "Function 'f' must assign a value to its name", err.Msg)

	err = single(t, `program T;
function f: integer;
begin
  f := 'x'
end;
begin
end.`, KindReturnTypeMismatch)
	assert.Equal(t, "Function 'f' expects return type integer, got char", err.Msg)

	err = single(t, `program T;
var i: integer;
function f: integer;
begin
  f := 1
end;
begin
  f := 2;
  i := f
end.`, KindInvalidAssignment)
	assert.Equal(t, "Cannot assign to 'f': function result outside its body", err.Msg)
}

func TestCallChecks(t *testing.T) {
	src := `program T;
var i: integer; r: real;
procedure p(var a: integer; b: real);
begin
end;
function f(n: integer): integer;
begin
  f := n
end;
begin
  %s
end.`
	tests := []struct {
		name string
		stmt string
		kind ErrorKind
		msg  string
	}{
		{"value argument widens", "p(i, i)", -1, ""},
		{"var needs variable", "p(1, r)", KindArgumentType, "Argument 'a' is passed by reference and needs a variable"},
		{"var needs identical type", "p(r, r)", KindArgumentType, "Argument 'a' expects type integer, got real"},
		{"value type", "p(i, 'c')", KindArgumentType, "Argument 'b' expects type real, got char"},
		{"procedure as value", "i := p", KindNotAFunction, "'p' is not a function"},
		{"procedure call as value", "i := p(i, r)", KindNotAFunction, "'p' is not a function"},
		{"function as statement", "f(1)", -1, ""},
		{"bare function needs arguments", "i := f", KindArgumentCount, "'f' expects 1 arguments, got 0"},
		{"variable called", "i(1)", KindNotAProcedure, "'i' is not a procedure"},
		{"undeclared call", "q(1)", KindUndeclaredIdentifier, "Undeclared identifier 'q'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := analyze(t, fmt.Sprintf(src, tt.stmt))
			if tt.kind < 0 {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.kind, errs[0].Kind)
			assert.Equal(t, tt.msg, errs[0].Msg)
		})
	}
}

// --- Statements and expressions ---

func TestStatementChecks(t *testing.T) {
	src := `program T;
const k = 3;
type idx = integer;
var i: integer; r: real; b: boolean; c: char; s: string;
begin
  %s
end.`
	tests := []struct {
		name string
		stmt string
		kind ErrorKind
		msg  string
	}{
		{"int to real", "r := i", -1, ""},
		{"real to int", "i := r", KindTypeMismatch, "Type mismatch in assignment: expected integer, got real"},
		{"char to string", "s := c", -1, ""},
		{"assign constant", "k := 1", KindInvalidAssignment, "Cannot assign to 'k': it is a constant"},
		{"assign type", "idx := 1", KindInvalidAssignment, "Cannot assign to 'idx': it is a type"},
		{"type as value", "i := idx", KindSemantic, "'idx' is a type and cannot be used as a value"},
		{"if condition", "if i then i := 1", KindTypeMismatch, "Type mismatch in if condition: expected boolean, got integer"},
		{"while condition", "while c do i := 1", KindTypeMismatch, "Type mismatch in while condition: expected boolean, got char"},
		{"repeat condition", "repeat i := 1 until r", KindTypeMismatch, "Type mismatch in repeat condition: expected boolean, got real"},
		{"for real variable", "for r := 1 to 2 do i := 1", KindTypeMismatch,
			"Type mismatch in for loop variable: expected ordinal type (integer, boolean, or char), got real"},
		{"for bound", "for i := 'a' to 2 do i := 1", KindTypeMismatch, "Type mismatch in for loop start value: expected integer, got char"},
		{"for char", "for c := 'a' to 'z' do i := ord(c)", -1, ""},
		{"for constant", "for k := 1 to 2 do i := 1", KindInvalidAssignment, "Cannot assign to 'k': it is a constant"},
		{"case label", "case i of 1: r := 1; 'a': r := 2 end", KindTypeMismatch, "Type mismatch in case label: expected integer, got char"},
		{"case selector", "case r of 1: i := 1 end", KindTypeMismatch,
			"Type mismatch in case selector: expected ordinal type (integer, boolean, or char), got real"},
		{"case on constant labels", "case i of k, 4: b := true end", -1, ""},
		{"div on reals", "i := r div 2", KindTypeMismatch, "Type mismatch in div: expected integer, got real and integer"},
		{"slash is real", "r := i / 2", -1, ""},
		{"slash into int", "i := i / 2", KindTypeMismatch, "Type mismatch in assignment: expected integer, got real"},
		{"and on ints", "b := i and i", KindTypeMismatch, "Type mismatch in logical 'and': expected boolean, got integer"},
		{"not on int", "b := not i", KindTypeMismatch, "Type mismatch in unary 'not': expected boolean, got integer"},
		{"minus on bool", "b := -b", KindInvalidOperation, "Invalid operation 'unary -' for type boolean"},
		{"add bools", "i := b + b", KindInvalidOperation, "Invalid operation '+' for types boolean and boolean"},
		{"compare mixed numerics", "b := i < r", -1, ""},
		{"compare int and bool", "b := i = b", KindTypeMismatch, "Type mismatch in comparison '=': expected integer, got boolean"},
		{"compare chars", "b := c <= 'z'", -1, ""},
		{"errors do not cascade", "i := (y + 1) * 2", KindUndeclaredIdentifier, "Undeclared identifier 'y'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := analyze(t, fmt.Sprintf(src, tt.stmt))
			if tt.kind < 0 {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.kind, errs[0].Kind)
			assert.Equal(t, tt.msg, errs[0].Msg)
		})
	}
}

func TestArraysAndRecords(t *testing.T) {
	src := `program T;
const n = 3;
type
  point = record x, y: integer end;
  row = array[1..n] of point;
var
  a, b: row;
  m: array['a'..'c'] of array[0..1] of real;
  p: point;
  i: integer;
  c: char;
begin
  %s
end.`
	tests := []struct {
		name string
		stmt string
		kind ErrorKind
		msg  string
	}{
		{"element field", "a[1].x := i", -1, ""},
		{"whole array copy", "a := b", -1, ""},
		{"nested index", "m['b'][0] := i", -1, ""},
		{"record copy", "p := a[2]", -1, ""},
		{"char index on int array", "a['a'].x := 1", KindInvalidArrayIndex, "Array index must be integer, got char"},
		{"int index on char array", "m[1][0] := 1", KindInvalidArrayIndex, "Array index must be char, got integer"},
		{"index non array", "i := i[1]", KindNotAnArray, "'i' is not an array (type: integer)"},
		{"field of non record", "i := i.x", KindSemantic, "'i' is not a record (type: integer)"},
		{"unknown field", "i := p.z", KindUndeclaredIdentifier, "Undeclared field 'z' in record 'p'"},
		{"element type", "a[1] := i", KindTypeMismatch, "Type mismatch in assignment: expected record{x: integer; y: integer}, got integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := analyze(t, fmt.Sprintf(src, tt.stmt))
			if tt.kind < 0 {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.kind, errs[0].Kind)
			assert.Equal(t, tt.msg, errs[0].Msg)
		})
	}
}

func TestArrayTables(t *testing.T) {
	a, _ := requireClean(t, `program T;
var m: array['a'..'c'] of array[0..1] of real;
begin
end.`)

	tab := a.Table()
	require.Len(t, tab.Atab, 2)
	inner, outer := tab.Atab[0], tab.Atab[1]
	assert.Equal(t, types.Integer, inner.IndexType)
	assert.Equal(t, 2, inner.Size)
	assert.Equal(t, types.Char, outer.IndexType)
	assert.Equal(t, int('a'), outer.Low)
	assert.Equal(t, 0, outer.ElemRef)
	assert.Equal(t, 6, outer.Size)

	m := lookup(t, a, "m")
	assert.Equal(t, 1, m.Ref)
	assert.Equal(t, 6, tab.Btab[0].VarSize)
}

func TestBadDeclarations(t *testing.T) {
	err := single(t, "program T; var a: array[5..1] of integer; begin end.", KindSemantic)
	assert.Equal(t, "Array lower bound 5 exceeds upper bound 1", err.Msg)

	err = single(t, "program T; var a: array[1..'z'] of integer; begin end.", KindTypeMismatch)
	assert.Equal(t, "Type mismatch in range bounds: expected integer, got char", err.Msg)

	err = single(t, "program T; var p: record a: integer; a: real end; begin end.", KindRedeclaredIdentifier)
	assert.Equal(t, "Field 'a' is already declared in this record", err.Msg)

	err = single(t, "program T; var x: integer; y: x; begin end.", KindSemantic)
	assert.Equal(t, "'x' is not a type", err.Msg)

	err = single(t, "program T; var y: missing; begin end.", KindUndeclaredIdentifier)
	assert.Equal(t, "Undeclared identifier 'missing'", err.Msg)
}

func TestConstants(t *testing.T) {
	a, _ := requireClean(t, `program T;
const
  lo = -2;
  hi = -lo;
  name = 'pascal';
  yes = benar;
var a: array[lo..hi] of boolean;
begin
end.`)

	assert.Equal(t, "-2", lookup(t, a, "lo").Value)
	assert.Equal(t, "2", lookup(t, a, "hi").Value)
	assert.Equal(t, types.String, lookup(t, a, "name").Type.Kind)
	assert.Equal(t, "true", lookup(t, a, "yes").Value)
	assert.Equal(t, 5, a.Table().Atab[0].Size)
}

// --- Strings and builtins ---

func TestStringsAndBuiltins(t *testing.T) {
	src := `program T;
var s: string; c: char; i: integer; b: boolean;
begin
  %s
end.`
	tests := []struct {
		name string
		stmt string
		kind ErrorKind
		msg  string
	}{
		{"concat", "s := s + c + 'x'", -1, ""},
		{"concat number", "s := s + 1", KindTypeMismatch, "Type mismatch in string concatenation: expected string or char, got integer"},
		{"string index", "c := s[i]", -1, ""},
		{"string index type", "c := s['a']", KindInvalidArrayIndex, "String index must be integer, got char"},
		{"string compare", "b := s < 'abc'", -1, ""},
		{"string compare int", "b := s = i", KindTypeMismatch, "Type mismatch in string comparison '=': expected string or char, got integer"},
		{"length", "i := length(s) + panjang(c)", -1, ""},
		{"copy", "s := copy(s, 1, i)", -1, ""},
		{"copy arity", "s := copy(s, 1)", KindArgumentCount, "'copy' expects 3 arguments, got 2"},
		{"pos type", "i := pos(1, s)", KindArgumentType, "Argument '1' expects type string or char, got integer"},
		{"upcase keeps char", "c := upcase(c)", -1, ""},
		{"chr and ord", "c := chr(ord(c) + 1)", -1, ""},
		{"ord on int", "i := ord(i)", KindArgumentType, "Argument '1' expects type char, got integer"},
		{"concat variadic", "s := concat(s, c, 'z', gabung(s))", -1, ""},
		{"io any args", "writeln(s, i, b); tulisln; readln(i)", -1, ""},
		{"io as value", "i := writeln(1)", KindNotAFunction, "'writeln' is not a function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := analyze(t, fmt.Sprintf(src, tt.stmt))
			if tt.kind < 0 {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.kind, errs[0].Kind)
			assert.Equal(t, tt.msg, errs[0].Msg)
		})
	}
}

func TestBuiltinsRegisteredOnce(t *testing.T) {
	a, prog := requireClean(t, `program T;
begin
  writeln(1);
  WriteLn(2)
end.`)

	first := prog.Body.Stmts[0].(*ast.Call)
	second := prog.Body.Stmts[1].(*ast.Call)
	assert.Equal(t, first.Attrs.TabIndex, second.Attrs.TabIndex)
	assert.True(t, first.Attrs.Predefined)
	assert.Equal(t, 0, first.Attrs.Level)
	assert.True(t, IsBuiltin("TULIS"))
	assert.False(t, IsBuiltin("fact"))

	w := lookup(t, a, "writeln")
	assert.Equal(t, symbols.Procedure, w.Obj)
}

func TestErrorFormatting(t *testing.T) {
	e := &Error{Kind: KindArgumentCount, Msg: "'p' expects 1 arguments, got 2"}
	e.Pos.Line, e.Pos.Column = 4, 3
	assert.Equal(t, "ArgumentCount at line 4, column 3: 'p' expects 1 arguments, got 2", e.Error())

	e = &Error{Kind: KindInternal, Msg: "nil program"}
	assert.Equal(t, "InternalError: nil program", e.Error())
}

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pascals-lang/pascals/internal/compiler/dfa"
	"github.com/pascals-lang/pascals/internal/compiler/lexer"
	"github.com/pascals-lang/pascals/internal/compiler/token"
	"github.com/pascals-lang/pascals/internal/config"
)

func newLexer(t *testing.T) *lexer.Lexer {
	t.Helper()
	tables, err := config.Default()
	require.NoError(t, err)
	d, lc, err := tables.Build()
	require.NoError(t, err)
	return lexer.NewLexer(dfa.NewEngine(d), lc)
}

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := newLexer(t).Tokenize(src)
	require.NoError(t, err)
	return toks
}

func render(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tk := range toks {
		out[i] = tk.String()
	}
	return out
}

func TestTokenizeProgram(t *testing.T) {
	src := "program Hello;\nvar\n  x: integer;\nbegin\n  x := 5;\n  writeln('x = ', x)\nend.\n"

	assert.Equal(t, []string{
		"KEYWORD(program)", "IDENTIFIER(Hello)", "SEMICOLON(;)",
		"KEYWORD(var)",
		"IDENTIFIER(x)", "COLON(:)", "KEYWORD(integer)", "SEMICOLON(;)",
		"KEYWORD(begin)",
		"IDENTIFIER(x)", "ASSIGN_OPERATOR(:=)", "NUMBER(5)", "SEMICOLON(;)",
		"IDENTIFIER(writeln)", "LPAREN(()", "STRING_LITERAL('x = ')", "COMMA(,)", "IDENTIFIER(x)", "RPAREN())",
		"KEYWORD(end)", "DOT(.)",
	}, render(tokenize(t, src)))
}

func TestPositions(t *testing.T) {
	toks := tokenize(t, "begin\n  x := 10\nend")

	require.Len(t, toks, 5)
	assert.Equal(t, token.Position{Line: 1, Column: 1}, toks[0].Pos())
	assert.Equal(t, token.Position{Line: 2, Column: 3}, toks[1].Pos())
	assert.Equal(t, token.Position{Line: 2, Column: 5}, toks[2].Pos())
	assert.Equal(t, token.Position{Line: 2, Column: 8}, toks[3].Pos())
	assert.Equal(t, token.Position{Line: 3, Column: 1}, toks[4].Pos())
}

func TestMaximalMunch(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"12.5", []string{"NUMBER(12.5)"}},
		{"1..10", []string{"NUMBER(1)", "RANGE_OPERATOR(..)", "NUMBER(10)"}},
		{"a<=b", []string{"IDENTIFIER(a)", "RELATIONAL_OPERATOR(<=)", "IDENTIFIER(b)"}},
		{"a<>b", []string{"IDENTIFIER(a)", "RELATIONAL_OPERATOR(<>)", "IDENTIFIER(b)"}},
		{"x:=y", []string{"IDENTIFIER(x)", "ASSIGN_OPERATOR(:=)", "IDENTIFIER(y)"}},
		{"x:y", []string{"IDENTIFIER(x)", "COLON(:)", "IDENTIFIER(y)"}},
		{"3.x", []string{"NUMBER(3)", "DOT(.)", "IDENTIFIER(x)"}},
		{"end.", []string{"KEYWORD(end)", "DOT(.)"}},
		{"begin_count", []string{"IDENTIFIER(begin_count)"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tokenize(t, tt.src)))
		})
	}
}

func TestKeywordsIgnoreCaseAndKeepLexeme(t *testing.T) {
	toks := tokenize(t, "BEGIN Begin mulai SELESAI")

	require.Len(t, toks, 4)
	for _, tk := range toks {
		assert.Equal(t, token.Keyword, tk.Kind)
	}
	assert.Equal(t, "BEGIN", toks[0].Lexeme)
	assert.Equal(t, "Begin", toks[1].Lexeme)
	assert.True(t, toks[2].IsKeyword(token.KwBegin))
	assert.True(t, toks[3].IsKeyword(token.KwEnd))
}

func TestWordOperators(t *testing.T) {
	assert.Equal(t, []string{
		"IDENTIFIER(a)", "ARITHMETIC_OPERATOR(div)", "IDENTIFIER(b)",
		"ARITHMETIC_OPERATOR(MOD)", "LOGICAL_OPERATOR(and)", "LOGICAL_OPERATOR(tidak)",
		"LOGICAL_OPERATOR(atau)",
	}, render(tokenize(t, "a div b MOD and tidak atau")))
}

func TestLiterals(t *testing.T) {
	toks := tokenize(t, `'a' 'abc' '' 'it''s' ''''`)

	assert.Equal(t, []string{
		"CHAR_LITERAL('a')",
		"STRING_LITERAL('abc')",
		"STRING_LITERAL('')",
		"STRING_LITERAL('it''s')",
		"CHAR_LITERAL('''')",
	}, render(toks))
}

func TestCommentsAreSkipped(t *testing.T) {
	src := "x { brace\ncomment } := (* paren\n comment *) 1"
	toks := tokenize(t, src)

	assert.Equal(t, []string{"IDENTIFIER(x)", "ASSIGN_OPERATOR(:=)", "NUMBER(1)"}, render(toks))
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[2].Line)
}

func TestParenIsNotComment(t *testing.T) {
	assert.Equal(t, []string{"LPAREN(()", "IDENTIFIER(a)", "ARITHMETIC_OPERATOR(*)", "IDENTIFIER(b)", "RPAREN())"},
		render(tokenize(t, "(a*b)")))
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name, src, msg string
		line, col      int
	}{
		{"invalid character", "x := 1 @ 2", "Invalid character: '@'", 1, 8},
		{"unterminated string", "x := 'abc\ny", "Unterminated string literal", 1, 6},
		{"unterminated brace comment", "x\n  { never closed", "Unterminated comment", 2, 3},
		{"unterminated paren comment", "(* open", "Unterminated comment", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLexer(t).Tokenize(tt.src)
			require.Error(t, err)

			var lexErr *lexer.Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, tt.msg, lexErr.Message)
			assert.Equal(t, tt.line, lexErr.Line)
			assert.Equal(t, tt.col, lexErr.Column)
		})
	}
}

func TestErrorPretty(t *testing.T) {
	_, err := newLexer(t).Tokenize("begin\n  x := @;\nend")

	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, "LexicalError at line 2, column 8: Invalid character: '@'", lexErr.Error())
	assert.Equal(t, "LexicalError: Invalid character: '@'\n"+
		"  --> (line 2, column 8)\n"+
		"   |\n"+
		" 2 |   x := @;\n"+
		"   |        ^", lexErr.Pretty())
}

func TestEmptyInput(t *testing.T) {
	assert.Empty(t, tokenize(t, "  \n\t "))
}

package parser

import (
	"fmt"
	"runtime"

	"github.com/pascals-lang/pascals/internal/compiler/cst"
	"github.com/pascals-lang/pascals/internal/compiler/token"
)

// grammarKeywords are the keywords with a fixed role in the grammar. Any
// other keyword at the start of a statement is treated as a call.
var grammarKeywords = map[string]bool{
	token.KwProgram: true, token.KwConst: true, token.KwType: true, token.KwVar: true,
	token.KwProcedure: true, token.KwFunction: true, token.KwBegin: true, token.KwEnd: true,
	token.KwIf: true, token.KwThen: true, token.KwElse: true, token.KwWhile: true,
	token.KwDo: true, token.KwFor: true, token.KwTo: true, token.KwDownto: true,
	token.KwRepeat: true, token.KwUntil: true, token.KwCase: true, token.KwOf: true,
	token.KwArray: true, token.KwRecord: true, token.KwTrue: true, token.KwFalse: true,
	"integer": true, "real": true, "boolean": true, "char": true, "string": true,
}

type Parser struct {
	tokens []token.Token
	pos    int
	source string
}

func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// WithSource attaches the program text so errors can render an excerpt.
func (p *Parser) WithSource(src string) *Parser {
	p.source = src
	return p
}

// Parse builds the parse tree for a whole program. The first grammar
// violation aborts parsing; tokens left after the final '.' are an error.
func (p *Parser) Parse() (root *cst.Node, err error) {
	defer p.recover(&err)
	p.pos = 0
	if len(p.tokens) == 0 {
		panic(&Error{Message: "Unexpected end of input, expected KEYWORD(program)", Line: 1, Column: 1, AtEOF: true, Source: p.source})
	}
	root = p.parseProgram()
	if tok, ok := p.current(); ok {
		p.fail(tok, "Unexpected token %s after end of program", tok)
	}
	return root, nil
}

func (p *Parser) recover(errp *error) {
	e := recover()
	if e == nil {
		return
	}
	// rethrow runtime errors
	if _, ok := e.(runtime.Error); ok {
		panic(e)
	}
	perr, ok := e.(*Error)
	if !ok {
		panic(e)
	}
	*errp = perr
}

// --- Token Handling ---

func (p *Parser) current() (token.Token, bool) {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos], true
	}
	return token.Token{}, false
}

// peek looks offset tokens ahead of the current one without consuming.
func (p *Parser) peek(offset int) (token.Token, bool) {
	i := p.pos + offset
	if i >= 0 && i < len(p.tokens) {
		return p.tokens[i], true
	}
	return token.Token{}, false
}

func (p *Parser) advance() *cst.Leaf {
	tok := p.tokens[p.pos]
	p.pos++
	return cst.Terminal(tok)
}

// check reports whether the current token has kind and, if given, one of
// the values (compared case-insensitively through keyword aliases).
func (p *Parser) check(kind token.Kind, values ...string) bool {
	tok, ok := p.current()
	return ok && tok.Is(kind, values...)
}

func (p *Parser) checkKeyword(words ...string) bool {
	return p.check(token.Keyword, words...)
}

// expect consumes the current token if it matches, otherwise aborts with an
// "expected X, got Y" error.
func (p *Parser) expect(kind token.Kind, values ...string) *cst.Leaf {
	want := describe(kind, values...)
	tok, ok := p.current()
	if !ok {
		p.failEOF("Unexpected end of input, expected %s", want)
	}
	if tok.Kind != kind {
		p.fail(tok, "Unexpected token %s, expected %s", tok, want)
	}
	if !tok.Is(kind, values...) {
		p.fail(tok, "Unexpected value '%s', expected %s", tok.Lexeme, want)
	}
	return p.advance()
}

func (p *Parser) expectKeyword(word string) *cst.Leaf {
	return p.expect(token.Keyword, word)
}

func describe(kind token.Kind, values ...string) string {
	if len(values) == 0 {
		return string(kind)
	}
	return fmt.Sprintf("%s(%s)", kind, values[0])
}

// --- Error Handling ---

func (p *Parser) fail(tok token.Token, format string, args ...any) {
	panic(&Error{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
		Token:   tok,
		Source:  p.source,
	})
}

// failEOF reports at the last token of the stream.
func (p *Parser) failEOF(format string, args ...any) {
	last := p.tokens[len(p.tokens)-1]
	panic(&Error{
		Message: fmt.Sprintf(format, args...),
		Line:    last.Line,
		Column:  last.Column + len([]rune(last.Lexeme)),
		Token:   last,
		AtEOF:   true,
		Source:  p.source,
	})
}

// mustCurrent returns the current token or aborts naming what was expected.
func (p *Parser) mustCurrent(what string) token.Token {
	tok, ok := p.current()
	if !ok {
		p.failEOF("Unexpected end of input, expected %s", what)
	}
	return tok
}

// --- Operator classes ---

// isWordOp matches word operators by value whatever kind the token map
// assigned them.
func isWordOp(tok token.Token, words ...string) bool {
	switch tok.Kind {
	case token.ArithmeticOperator, token.LogicalOperator, token.Keyword, token.Identifier:
		return tok.Is(tok.Kind, words...)
	}
	return false
}

func isRelOp(tok token.Token) bool {
	return tok.Kind == token.RelationalOperator
}

func isAddOp(tok token.Token) bool {
	return tok.Is(token.ArithmeticOperator, "+", "-") || isWordOp(tok, token.OpOr)
}

func isMulOp(tok token.Token) bool {
	return tok.Is(token.ArithmeticOperator, "*", "/") || isWordOp(tok, token.OpDiv, token.OpMod, token.OpAnd)
}

func isSign(tok token.Token) bool {
	return tok.Is(token.ArithmeticOperator, "+", "-")
}

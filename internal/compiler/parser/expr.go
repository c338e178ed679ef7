package parser

import (
	"github.com/pascals-lang/pascals/internal/compiler/cst"
	"github.com/pascals-lang/pascals/internal/compiler/token"
)

// expression := simple-expression [ relop simple-expression ]
func (p *Parser) parseExpression() *cst.Node {
	node := cst.New(cst.Expression, p.parseSimpleExpression())
	if tok, ok := p.current(); ok && isRelOp(tok) {
		node.Add(p.advance(), p.parseSimpleExpression())
	}
	return node
}

// simple-expression := [sign] term { addop term }
func (p *Parser) parseSimpleExpression() *cst.Node {
	node := cst.New(cst.SimpleExpression)
	if tok, ok := p.current(); ok && isSign(tok) {
		node.Add(p.advance())
	}
	node.Add(p.parseTerm())
	for {
		tok, ok := p.current()
		if !ok || !isAddOp(tok) {
			return node
		}
		node.Add(p.advance(), p.parseTerm())
	}
}

// term := factor { mulop factor }
func (p *Parser) parseTerm() *cst.Node {
	node := cst.New(cst.Term, p.parseFactor())
	for {
		tok, ok := p.current()
		if !ok || !isMulOp(tok) {
			return node
		}
		node.Add(p.advance(), p.parseFactor())
	}
}

func (p *Parser) parseFactor() *cst.Node {
	node := cst.New(cst.Factor)
	tok := p.mustCurrent("an expression")
	switch {
	case tok.Kind == token.Number, tok.Kind == token.StringLiteral, tok.Kind == token.CharLiteral,
		tok.IsKeyword(token.KwTrue, token.KwFalse):
		node.Add(p.advance())
	case isWordOp(tok, token.OpNot):
		node.Add(p.advance(), p.parseFactor())
	case tok.Kind == token.LParen:
		node.Add(p.advance(), p.parseExpression(), p.expect(token.RParen))
	case tok.Kind == token.Identifier:
		if p.nextIs(token.LParen) {
			node.Add(p.parseProcedureCall())
		} else {
			node.Add(p.parseVariable())
		}
	case tok.Kind == token.Keyword && !grammarKeywords[token.Canonical(tok.Lexeme)] && p.nextIs(token.LParen):
		node.Add(p.parseProcedureCall())
	default:
		p.fail(tok, "Unexpected token %s in expression", tok)
	}
	return node
}

package parser

import (
	"github.com/pascals-lang/pascals/internal/compiler/cst"
	"github.com/pascals-lang/pascals/internal/compiler/token"
)

func (p *Parser) parseCompoundStatement() *cst.Node {
	return cst.New(cst.CompoundStatement,
		p.expectKeyword(token.KwBegin),
		p.parseStatementList(),
		p.expectKeyword(token.KwEnd),
	)
}

// statement-list := statement { ';' statement }
func (p *Parser) parseStatementList() *cst.Node {
	node := cst.New(cst.StatementList, p.parseStatement())
	for p.check(token.Semicolon) {
		node.Add(p.advance(), p.parseStatement())
	}
	return node
}

func (p *Parser) parseStatement() *cst.Node {
	tok := p.mustCurrent("a statement")
	switch {
	case tok.IsKeyword(token.KwBegin):
		return p.parseCompoundStatement()
	case tok.IsKeyword(token.KwIf):
		return p.parseIfStatement()
	case tok.IsKeyword(token.KwWhile):
		return p.parseWhileStatement()
	case tok.IsKeyword(token.KwFor):
		return p.parseForStatement()
	case tok.IsKeyword(token.KwRepeat):
		return p.parseRepeatStatement()
	case tok.IsKeyword(token.KwCase):
		return p.parseCaseStatement()
	case tok.IsKeyword(token.KwEnd, token.KwUntil, token.KwElse), tok.Kind == token.Semicolon:
		return cst.New(cst.EmptyStatement)
	case tok.Kind == token.Identifier:
		next, ok := p.peek(1)
		if ok && (next.Kind == token.AssignOperator || next.Kind == token.LBracket || next.Kind == token.Dot) {
			return p.parseAssignmentStatement()
		}
		return p.parseProcedureCall()
	case tok.Kind == token.Keyword && !grammarKeywords[token.Canonical(tok.Lexeme)]:
		return p.parseProcedureCall()
	}
	p.fail(tok, "Unexpected token %s, expected a statement", tok)
	return nil
}

func (p *Parser) parseAssignmentStatement() *cst.Node {
	return cst.New(cst.AssignmentStatement,
		p.parseVariable(),
		p.expect(token.AssignOperator),
		p.parseExpression(),
	)
}

// variable := IDENTIFIER { '[' expression ']' | '.' IDENTIFIER }
func (p *Parser) parseVariable() *cst.Node {
	node := cst.New(cst.Variable, p.expect(token.Identifier))
	for {
		switch {
		case p.check(token.LBracket):
			node.Add(p.advance(), p.parseExpression(), p.expect(token.RBracket))
		case p.check(token.Dot) && p.nextIs(token.Identifier):
			node.Add(p.advance(), p.expect(token.Identifier))
		default:
			return node
		}
	}
}

func (p *Parser) nextIs(kind token.Kind) bool {
	next, ok := p.peek(1)
	return ok && next.Kind == kind
}

// procedure-call := (IDENTIFIER | KEYWORD) [ '(' [parameter-list] ')' ]
func (p *Parser) parseProcedureCall() *cst.Node {
	node := cst.New(cst.ProcedureCall, p.advance())
	if !p.check(token.LParen) {
		return node
	}
	node.Add(p.advance())
	if !p.check(token.RParen) {
		node.Add(p.parseParameterList())
	}
	return node.Add(p.expect(token.RParen))
}

func (p *Parser) parseParameterList() *cst.Node {
	node := cst.New(cst.ParameterList, p.parseExpression())
	for p.check(token.Comma) {
		node.Add(p.advance(), p.parseExpression())
	}
	return node
}

// A dangling else binds to the nearest if.
func (p *Parser) parseIfStatement() *cst.Node {
	node := cst.New(cst.IfStatement,
		p.expectKeyword(token.KwIf),
		p.parseExpression(),
		p.expectKeyword(token.KwThen),
		p.parseStatement(),
	)
	if p.checkKeyword(token.KwElse) {
		node.Add(p.advance(), p.parseStatement())
	}
	return node
}

func (p *Parser) parseWhileStatement() *cst.Node {
	return cst.New(cst.WhileStatement,
		p.expectKeyword(token.KwWhile),
		p.parseExpression(),
		p.expectKeyword(token.KwDo),
		p.parseStatement(),
	)
}

func (p *Parser) parseForStatement() *cst.Node {
	node := cst.New(cst.ForStatement,
		p.expectKeyword(token.KwFor),
		p.expect(token.Identifier),
		p.expect(token.AssignOperator),
		p.parseExpression(),
	)
	tok := p.mustCurrent("KEYWORD(to) or KEYWORD(downto)")
	if !tok.IsKeyword(token.KwTo, token.KwDownto) {
		p.fail(tok, "Unexpected token %s, expected KEYWORD(to) or KEYWORD(downto)", tok)
	}
	return node.Add(
		p.advance(),
		p.parseExpression(),
		p.expectKeyword(token.KwDo),
		p.parseStatement(),
	)
}

func (p *Parser) parseRepeatStatement() *cst.Node {
	return cst.New(cst.RepeatStatement,
		p.expectKeyword(token.KwRepeat),
		p.parseStatementList(),
		p.expectKeyword(token.KwUntil),
		p.parseExpression(),
	)
}

// case-statement := 'case' expression 'of' case-element { ';' case-element } [';'] 'end'
func (p *Parser) parseCaseStatement() *cst.Node {
	node := cst.New(cst.CaseStatement,
		p.expectKeyword(token.KwCase),
		p.parseExpression(),
		p.expectKeyword(token.KwOf),
		p.parseCaseElement(),
	)
	for p.check(token.Semicolon) {
		node.Add(p.advance())
		if p.checkKeyword(token.KwEnd) {
			break
		}
		node.Add(p.parseCaseElement())
	}
	return node.Add(p.expectKeyword(token.KwEnd))
}

func (p *Parser) parseCaseElement() *cst.Node {
	return cst.New(cst.CaseElement,
		p.parseConstantList(),
		p.expect(token.Colon),
		p.parseStatement(),
	)
}

func (p *Parser) parseConstantList() *cst.Node {
	node := cst.New(cst.ConstantList, p.parseConstant())
	for p.check(token.Comma) {
		node.Add(p.advance(), p.parseConstant())
	}
	return node
}

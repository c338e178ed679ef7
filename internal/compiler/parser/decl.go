package parser

import (
	"github.com/pascals-lang/pascals/internal/compiler/cst"
	"github.com/pascals-lang/pascals/internal/compiler/token"
)

// program := program-header declaration-part compound-statement '.'
func (p *Parser) parseProgram() *cst.Node {
	return cst.New(cst.Program,
		p.parseProgramHeader(),
		p.parseDeclarationPart(),
		p.parseCompoundStatement(),
		p.expect(token.Dot),
	)
}

func (p *Parser) parseProgramHeader() *cst.Node {
	return cst.New(cst.ProgramHeader,
		p.expectKeyword(token.KwProgram),
		p.expect(token.Identifier),
		p.expect(token.Semicolon),
	)
}

// Sections come in fixed order: const, type, var, then subprograms. Each
// section may repeat.
func (p *Parser) parseDeclarationPart() *cst.Node {
	node := cst.New(cst.DeclarationPart)
	for p.checkKeyword(token.KwConst) {
		node.Add(p.parseConstDeclaration())
	}
	for p.checkKeyword(token.KwType) {
		node.Add(p.parseTypeDeclaration())
	}
	for p.checkKeyword(token.KwVar) {
		node.Add(p.parseVarDeclaration())
	}
	for p.checkKeyword(token.KwProcedure, token.KwFunction) {
		node.Add(p.parseSubprogramDeclaration())
	}
	return node
}

func (p *Parser) parseConstDeclaration() *cst.Node {
	node := cst.New(cst.ConstDeclaration, p.expectKeyword(token.KwConst))
	for {
		node.Add(
			p.expect(token.Identifier),
			p.expect(token.RelationalOperator, "="),
			p.parseConstant(),
			p.expect(token.Semicolon),
		)
		if !p.check(token.Identifier) {
			return node
		}
	}
}

func (p *Parser) parseTypeDeclaration() *cst.Node {
	node := cst.New(cst.TypeDeclaration, p.expectKeyword(token.KwType))
	for {
		node.Add(
			p.expect(token.Identifier),
			p.expect(token.RelationalOperator, "="),
			p.parseType(),
			p.expect(token.Semicolon),
		)
		if !p.check(token.Identifier) {
			return node
		}
	}
}

func (p *Parser) parseVarDeclaration() *cst.Node {
	node := cst.New(cst.VarDeclaration, p.expectKeyword(token.KwVar))
	for {
		node.Add(
			p.parseIdentifierList(),
			p.expect(token.Colon),
			p.parseType(),
			p.expect(token.Semicolon),
		)
		if !p.check(token.Identifier) {
			return node
		}
	}
}

func (p *Parser) parseIdentifierList() *cst.Node {
	node := cst.New(cst.IdentifierList, p.expect(token.Identifier))
	for p.check(token.Comma) {
		node.Add(p.advance(), p.expect(token.Identifier))
	}
	return node
}

// --- Types ---

func (p *Parser) parseType() *cst.Node {
	node := cst.New(cst.Type)
	tok := p.mustCurrent("a type")
	switch {
	case tok.IsKeyword(token.KwArray):
		node.Add(p.parseArrayType())
	case tok.IsKeyword(token.KwRecord):
		node.Add(p.parseRecordType())
	case p.startsRange():
		node.Add(p.parseRange())
	case tok.Kind == token.Keyword && token.IsBuiltinType(tok.Lexeme):
		node.Add(p.advance())
	case tok.Kind == token.Identifier:
		node.Add(p.advance())
	default:
		p.fail(tok, "Unexpected token %s, expected a type", tok)
	}
	return node
}

// startsRange reports whether the current tokens open a subrange such as
// 1..10, 'a'..'z', -5..5 or lo..hi.
func (p *Parser) startsRange() bool {
	tok, ok := p.current()
	if !ok {
		return false
	}
	switch {
	case tok.Kind == token.Number, tok.Kind == token.CharLiteral, isSign(tok):
		return true
	case tok.Kind == token.Identifier:
		next, ok := p.peek(1)
		return ok && next.Kind == token.RangeOperator
	}
	return false
}

func (p *Parser) parseArrayType() *cst.Node {
	return cst.New(cst.ArrayType,
		p.expectKeyword(token.KwArray),
		p.expect(token.LBracket),
		p.parseRange(),
		p.expect(token.RBracket),
		p.expectKeyword(token.KwOf),
		p.parseType(),
	)
}

func (p *Parser) parseRange() *cst.Node {
	return cst.New(cst.Range,
		p.parseConstant(),
		p.expect(token.RangeOperator),
		p.parseConstant(),
	)
}

func (p *Parser) parseRecordType() *cst.Node {
	return cst.New(cst.RecordType,
		p.expectKeyword(token.KwRecord),
		p.parseFieldList(),
		p.expectKeyword(token.KwEnd),
	)
}

// field-list := identifier-list ':' type { ';' identifier-list ':' type } [';']
func (p *Parser) parseFieldList() *cst.Node {
	node := cst.New(cst.FieldList)
	for {
		node.Add(p.parseIdentifierList(), p.expect(token.Colon), p.parseType())
		if !p.check(token.Semicolon) {
			return node
		}
		node.Add(p.advance())
		if !p.check(token.Identifier) {
			return node
		}
	}
}

// constant := [sign] (NUMBER | IDENTIFIER) | STRING | CHAR | true | false
func (p *Parser) parseConstant() *cst.Node {
	node := cst.New(cst.Constant)
	tok := p.mustCurrent("a constant")
	if isSign(tok) {
		node.Add(p.advance())
		tok = p.mustCurrent("a number or constant name")
		if tok.Kind != token.Number && tok.Kind != token.Identifier {
			p.fail(tok, "Unexpected token %s, expected a number or constant name", tok)
		}
		return node.Add(p.advance())
	}
	switch {
	case tok.Kind == token.Number, tok.Kind == token.StringLiteral, tok.Kind == token.CharLiteral,
		tok.Kind == token.Identifier, tok.IsKeyword(token.KwTrue, token.KwFalse):
		node.Add(p.advance())
	default:
		p.fail(tok, "Unexpected token %s, expected a constant", tok)
	}
	return node
}

// --- Subprograms ---

func (p *Parser) parseSubprogramDeclaration() *cst.Node {
	node := cst.New(cst.SubprogramDeclaration)
	if p.checkKeyword(token.KwProcedure) {
		return node.Add(p.parseProcedureDeclaration())
	}
	return node.Add(p.parseFunctionDeclaration())
}

func (p *Parser) parseProcedureDeclaration() *cst.Node {
	node := cst.New(cst.ProcedureDeclaration,
		p.expectKeyword(token.KwProcedure),
		p.expect(token.Identifier),
	)
	if p.check(token.LParen) {
		node.Add(p.parseFormalParameterList())
	}
	return node.Add(
		p.expect(token.Semicolon),
		p.parseBlock(),
		p.expect(token.Semicolon),
	)
}

func (p *Parser) parseFunctionDeclaration() *cst.Node {
	node := cst.New(cst.FunctionDeclaration,
		p.expectKeyword(token.KwFunction),
		p.expect(token.Identifier),
	)
	if p.check(token.LParen) {
		node.Add(p.parseFormalParameterList())
	}
	return node.Add(
		p.expect(token.Colon),
		p.parseType(),
		p.expect(token.Semicolon),
		p.parseBlock(),
		p.expect(token.Semicolon),
	)
}

func (p *Parser) parseBlock() *cst.Node {
	return cst.New(cst.Block, p.parseDeclarationPart(), p.parseCompoundStatement())
}

func (p *Parser) parseFormalParameterList() *cst.Node {
	node := cst.New(cst.FormalParameterList, p.expect(token.LParen), p.parseParameterGroup())
	for p.check(token.Semicolon) {
		node.Add(p.advance(), p.parseParameterGroup())
	}
	return node.Add(p.expect(token.RParen))
}

// parameter-group := ['var'] identifier-list ':' type
func (p *Parser) parseParameterGroup() *cst.Node {
	node := cst.New(cst.ParameterGroup)
	if p.checkKeyword(token.KwVar) {
		node.Add(p.advance())
	}
	return node.Add(p.parseIdentifierList(), p.expect(token.Colon), p.parseType())
}

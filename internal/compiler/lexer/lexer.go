package lexer

import (
	"fmt"

	"github.com/pascals-lang/pascals/internal/compiler/dfa"
	"github.com/pascals-lang/pascals/internal/compiler/token"
)

type Lexer struct {
	dfa *dfa.Engine
	cfg Config

	input []rune
	src   string
	pos   int // current rune index

	line   int // current line number (1-indexed)
	column int // current column number (1-indexed)
}

func NewLexer(engine *dfa.Engine, cfg Config) *Lexer {
	return &Lexer{dfa: engine, cfg: cfg}
}

// Tokenize splits source into tokens using maximal munch over the DFA. The
// first unrecognized character or unterminated literal/comment aborts.
func (l *Lexer) Tokenize(source string) ([]token.Token, error) {
	l.src = source
	l.input = []rune(source)
	l.pos = 0
	l.line = 1
	l.column = 1

	tokens := []token.Token{}
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t':
			l.pos++
			l.column++
		case ch == '\r':
			l.pos++
		case ch == '\n':
			l.pos++
			l.line++
			l.column = 1
		case ch == '{':
			if err := l.skipComment("}"); err != nil {
				return nil, err
			}
		case ch == '(' && l.peek(1) == '*':
			if err := l.skipComment("*)"); err != nil {
				return nil, err
			}
		case ch == '\'':
			tok, err := l.readLiteral()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			tok, err := l.munch()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

func (l *Lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

// advance consumes one rune, keeping line/column in step.
func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else if l.input[l.pos] != '\r' {
		l.column++
	}
	l.pos++
}

func (l *Lexer) errorf(line, col int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Line: line, Column: col, Source: l.src}
}

// skipComment consumes a comment whose opener starts at the cursor.
func (l *Lexer) skipComment(closer string) error {
	startLine, startCol := l.line, l.column
	opener := 1
	if closer == "*)" {
		opener = 2
	}
	for i := 0; i < opener; i++ {
		l.advance()
	}
	end := []rune(closer)
	for l.pos < len(l.input) {
		if l.input[l.pos] == end[0] && (len(end) == 1 || l.peek(1) == end[1]) {
			for range end {
				l.advance()
			}
			return nil
		}
		l.advance()
	}
	return l.errorf(startLine, startCol, "Unterminated comment")
}

// readLiteral consumes a quoted literal verbatim. A doubled quote inside the
// literal stands for one quote character.
func (l *Lexer) readLiteral() (token.Token, error) {
	startLine, startCol := l.line, l.column
	start := l.pos
	l.advance() // opening quote

	content := 0
	for {
		if l.pos >= len(l.input) || l.input[l.pos] == '\n' {
			return token.Token{}, l.errorf(startLine, startCol, "Unterminated string literal")
		}
		if l.input[l.pos] == '\'' {
			if l.peek(1) == '\'' {
				l.advance()
				l.advance()
				content++
				continue
			}
			l.advance() // closing quote
			break
		}
		l.advance()
		content++
	}

	kind := token.StringLiteral
	if content == 1 {
		kind = token.CharLiteral
	}
	return token.Token{Kind: kind, Lexeme: string(l.input[start:l.pos]), Line: startLine, Column: startCol}, nil
}

// munch runs the DFA from the cursor and keeps the longest prefix that ended
// in an accepting state.
func (l *Lexer) munch() (token.Token, error) {
	l.dfa.Reset()
	startLine, startCol := l.line, l.column

	bestLen := 0
	bestState := ""
	for i := l.pos; i < len(l.input); i++ {
		if !l.dfa.Step(l.input[i]) {
			break
		}
		if l.dfa.Accepting() {
			bestLen = i - l.pos + 1
			bestState = l.dfa.State()
		}
	}

	if bestLen == 0 {
		return token.Token{}, l.errorf(startLine, startCol, "Invalid character: '%c'", l.input[l.pos])
	}

	lexeme := string(l.input[l.pos : l.pos+bestLen])
	kind, ok := l.cfg.classify(bestState, lexeme)
	if !ok {
		return token.Token{}, l.errorf(startLine, startCol, "No token kind for state %s (lexeme %q)", bestState, lexeme)
	}
	for i := 0; i < bestLen; i++ {
		l.advance()
	}
	return token.Token{Kind: kind, Lexeme: lexeme, Line: startLine, Column: startCol}, nil
}

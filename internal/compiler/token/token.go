package token

import "fmt"

type Kind string

const (
	// Words & literals
	Identifier    Kind = "IDENTIFIER"
	Keyword       Kind = "KEYWORD"
	Number        Kind = "NUMBER"         // 42, 3.14
	StringLiteral Kind = "STRING_LITERAL" // 'hello'
	CharLiteral   Kind = "CHAR_LITERAL"   // 'a'

	// Operators
	AssignOperator     Kind = "ASSIGN_OPERATOR"     // :=
	ArithmeticOperator Kind = "ARITHMETIC_OPERATOR" // + - * / div mod
	RelationalOperator Kind = "RELATIONAL_OPERATOR" // = <> < <= > >=
	LogicalOperator    Kind = "LOGICAL_OPERATOR"    // and or not
	RangeOperator      Kind = "RANGE_OPERATOR"      // ..

	// Punctuation
	Semicolon Kind = "SEMICOLON" // ;
	Comma     Kind = "COMMA"     // ,
	Dot       Kind = "DOT"       // .
	Colon     Kind = "COLON"     // :
	LParen    Kind = "LPAREN"    // (
	RParen    Kind = "RPAREN"    // )
	LBracket  Kind = "LBRACKET"  // [
	RBracket  Kind = "RBRACKET"  // ]
)

var kinds = map[Kind]struct{}{
	Identifier: {}, Keyword: {}, Number: {}, StringLiteral: {}, CharLiteral: {},
	AssignOperator: {}, ArithmeticOperator: {}, RelationalOperator: {}, LogicalOperator: {},
	RangeOperator: {}, Semicolon: {}, Comma: {}, Dot: {}, Colon: {},
	LParen: {}, RParen: {}, LBracket: {}, RBracket: {},
}

// ParseKind validates a kind name coming from a token map.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("unknown token kind %q", name)
	}
	return k, nil
}

type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column}
}

// String renders the token as KIND(lexeme), the format of the token listing.
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
}

// Is reports whether the token has the given kind and, when values are given,
// whether its canonical word form matches one of them.
func (t Token) Is(kind Kind, values ...string) bool {
	if t.Kind != kind {
		return false
	}
	if len(values) == 0 {
		return true
	}
	word := Canonical(t.Lexeme)
	for _, v := range values {
		if word == Canonical(v) {
			return true
		}
	}
	return false
}

// IsKeyword is shorthand for Is(Keyword, words...).
func (t Token) IsKeyword(words ...string) bool {
	return t.Is(Keyword, words...)
}

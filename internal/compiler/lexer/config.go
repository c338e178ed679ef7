package lexer

import (
	"fmt"
	"strings"

	"github.com/pascals-lang/pascals/internal/compiler/token"
)

// Config classifies DFA results into token kinds.
type Config struct {
	keywords   map[string]struct{}
	operators  map[string]token.Kind
	stateKinds map[string]token.Kind
}

// NewConfig builds a Config from the raw token-map tables. Keyword and
// operator words are stored lowercased; kind names must be known.
func NewConfig(keywords []string, operators, stateKinds map[string]string) (Config, error) {
	c := Config{
		keywords:   make(map[string]struct{}, len(keywords)),
		operators:  make(map[string]token.Kind, len(operators)),
		stateKinds: make(map[string]token.Kind, len(stateKinds)),
	}
	for _, kw := range keywords {
		c.keywords[strings.ToLower(kw)] = struct{}{}
	}
	for word, name := range operators {
		k, err := token.ParseKind(name)
		if err != nil {
			return Config{}, fmt.Errorf("operators_map[%q]: %w", word, err)
		}
		c.operators[strings.ToLower(word)] = k
	}
	for state, name := range stateKinds {
		k, err := token.ParseKind(name)
		if err != nil {
			return Config{}, fmt.Errorf("state_token_map[%q]: %w", state, err)
		}
		c.stateKinds[state] = k
	}
	return c, nil
}

func (c Config) IsKeyword(word string) bool {
	_, ok := c.keywords[strings.ToLower(word)]
	return ok
}

// classify maps a final state and lexeme to a token kind. Word overrides
// only apply to lexemes the DFA recognized as identifiers.
func (c Config) classify(state, lexeme string) (token.Kind, bool) {
	kind, ok := c.stateKinds[state]
	if !ok {
		return "", false
	}
	if kind != token.Identifier {
		return kind, true
	}
	lower := strings.ToLower(lexeme)
	if _, isKw := c.keywords[lower]; isKw {
		return token.Keyword, true
	}
	if op, isOp := c.operators[lower]; isOp {
		return op, true
	}
	return kind, true
}

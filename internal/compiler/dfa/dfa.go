// Package dfa runs a deterministic finite automaton described by an
// external state/transition table.
package dfa

import (
	"fmt"
	"unicode"
)

// Character-class keys recognized in a transition map, tried in this order
// after an exact character match.
const (
	ClassLetter = "<LETTER>"
	ClassDigit  = "<DIGIT>"
	ClassAny    = "<ANY>"
)

// Config is the immutable automaton description shared by every Engine.
type Config struct {
	start       string
	final       map[string]struct{}
	transitions map[string]map[string]string
}

// NewConfig validates and copies a table. The start state must appear in
// the table either as a source state or as a final state.
func NewConfig(start string, final []string, transitions map[string]map[string]string) (*Config, error) {
	if start == "" {
		return nil, fmt.Errorf("dfa: empty start state")
	}
	c := &Config{
		start:       start,
		final:       make(map[string]struct{}, len(final)),
		transitions: make(map[string]map[string]string, len(transitions)),
	}
	for _, s := range final {
		c.final[s] = struct{}{}
	}
	for from, edges := range transitions {
		row := make(map[string]string, len(edges))
		for class, to := range edges {
			if class == "" {
				return nil, fmt.Errorf("dfa: state %q has an empty transition key", from)
			}
			row[class] = to
		}
		c.transitions[from] = row
	}
	_, hasRow := c.transitions[start]
	_, isFinal := c.final[start]
	if !hasRow && !isFinal {
		return nil, fmt.Errorf("dfa: start state %q has no transitions", start)
	}
	return c, nil
}

func (c *Config) Start() string { return c.start }

func (c *Config) IsFinal(state string) bool {
	_, ok := c.final[state]
	return ok
}

// States returns every state mentioned by the table.
func (c *Config) States() []string {
	seen := map[string]struct{}{c.start: {}}
	out := []string{c.start}
	add := func(s string) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for from, edges := range c.transitions {
		add(from)
		for _, to := range edges {
			add(to)
		}
	}
	for s := range c.final {
		add(s)
	}
	return out
}

// Engine walks a Config one character at a time.
type Engine struct {
	cfg           *Config
	state         string
	lastAccepting string
	seenAccepting bool
}

func NewEngine(cfg *Config) *Engine {
	e := &Engine{cfg: cfg}
	e.Reset()
	return e
}

// Reset returns to the start state and forgets the last accepting state.
func (e *Engine) Reset() {
	e.state = e.cfg.start
	e.lastAccepting = ""
	e.seenAccepting = false
}

// Step follows the transition for ch. It returns false, leaving the state
// untouched, when the current state has no matching edge.
func (e *Engine) Step(ch rune) bool {
	next, ok := e.lookup(ch)
	if !ok {
		return false
	}
	e.state = next
	if e.cfg.IsFinal(next) {
		e.lastAccepting = next
		e.seenAccepting = true
	}
	return true
}

func (e *Engine) lookup(ch rune) (string, bool) {
	row := e.cfg.transitions[e.state]
	if row == nil {
		return "", false
	}
	if to, ok := row[string(ch)]; ok {
		return to, true
	}
	if unicode.IsLetter(ch) {
		if to, ok := row[ClassLetter]; ok {
			return to, true
		}
	}
	if unicode.IsDigit(ch) {
		if to, ok := row[ClassDigit]; ok {
			return to, true
		}
	}
	if to, ok := row[ClassAny]; ok {
		return to, true
	}
	return "", false
}

func (e *Engine) State() string { return e.state }

// Accepting reports whether the current state is final.
func (e *Engine) Accepting() bool {
	return e.cfg.IsFinal(e.state)
}

// LastAccepting returns the most recent final state reached since Reset.
func (e *Engine) LastAccepting() (string, bool) {
	return e.lastAccepting, e.seenAccepting
}

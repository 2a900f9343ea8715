// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidExpression is the sentinel error wrapped by ExpressionError.
var ErrInvalidExpression = errors.New("invalid flag expression")

type (
	// Cond tests a single flag. With Negate set it holds when the flag is
	// not active.
	Cond struct {
		Flag   string
		Negate bool
	}

	// Predicate is a conjunction of flag tests. The empty predicate always holds.
	Predicate []Cond

	// Rule is one (predicate, value) pair of an overlay.
	Rule[T any] struct {
		When  Predicate
		Value T
	}

	// Rules is an ordered overlay. Rules are evaluated in declaration order
	// and never reordered.
	Rules[T any] []Rule[T]

	// ExpressionError reports a malformed flag expression.
	ExpressionError struct {
		Expr   string
		Reason string
	}
)

// Error implements the error interface.
func (e *ExpressionError) Error() string {
	return fmt.Sprintf("invalid flag expression %q: %s", e.Expr, e.Reason)
}

// Unwrap returns ErrInvalidExpression so callers can use errors.Is for programmatic detection.
func (e *ExpressionError) Unwrap() error { return ErrInvalidExpression }

// Holds reports whether the condition is met by the active flag set.
func (c Cond) Holds(active FlagSet) bool {
	return active.Has(c.Flag) != c.Negate
}

// String returns the condition in expression syntax.
func (c Cond) String() string {
	if c.Negate {
		return "!" + c.Flag
	}
	return c.Flag
}

// Holds reports whether every condition is met.
func (p Predicate) Holds(active FlagSet) bool {
	for _, c := range p {
		if !c.Holds(active) {
			return false
		}
	}
	return true
}

// Active returns the values of all rules whose predicate holds, in order.
func (r Rules[T]) Active(active FlagSet) []T {
	var out []T
	for _, rule := range r {
		if rule.When.Holds(active) {
			out = append(out, rule.Value)
		}
	}
	return out
}

// All returns every value regardless of predicates. Used for structural
// checks that must cover all branches.
func (r Rules[T]) All() []T {
	out := make([]T, 0, len(r))
	for _, rule := range r {
		out = append(out, rule.Value)
	}
	return out
}

// Unconditional wraps plain values into rules that always hold.
func Unconditional[T any](values ...T) Rules[T] {
	out := make(Rules[T], 0, len(values))
	for _, v := range values {
		out = append(out, Rule[T]{Value: v})
	}
	return out
}

// ParseExpr compiles a flag expression into word rules.
//
// Grammar:
//
//	exprs       = { expr }
//	expr        = word | conditional
//	conditional = [ "!" ] word "?" "(" exprs ")"
//
// Nested conditionals accumulate into the predicate of each word they
// enclose. Text without '?' is split on whitespace into unconditional words.
func ParseExpr(s string) (Rules[string], error) {
	p := exprParser{src: s, tokens: tokenizeExpr(s)}
	rules, err := p.parseExprs(nil, 0)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, &ExpressionError{Expr: s, Reason: "unexpected ')'"}
	}
	return rules, nil
}

type exprParser struct {
	src    string
	tokens []string
	pos    int
}

func (p *exprParser) parseExprs(when Predicate, depth int) (Rules[string], error) {
	var rules Rules[string]
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok {
		case ")":
			if depth == 0 {
				return nil, &ExpressionError{Expr: p.src, Reason: "unexpected ')'"}
			}
			return rules, nil
		case "(", "?":
			return nil, &ExpressionError{Expr: p.src, Reason: fmt.Sprintf("unexpected '%s'", tok)}
		}
		p.pos++

		if p.peek() != "?" {
			rules = append(rules, Rule[string]{When: when, Value: tok})
			continue
		}

		cond := Cond{Flag: tok}
		if strings.HasPrefix(tok, "!") {
			cond = Cond{Flag: tok[1:], Negate: true}
		}
		if cond.Flag == "" {
			return nil, &ExpressionError{Expr: p.src, Reason: "missing flag name before '?'"}
		}
		p.pos++
		if p.peek() != "(" {
			return nil, &ExpressionError{Expr: p.src, Reason: fmt.Sprintf("expected '(' after '%s ?'", tok)}
		}
		p.pos++

		inner := make(Predicate, len(when), len(when)+1)
		copy(inner, when)
		inner = append(inner, cond)

		body, err := p.parseExprs(inner, depth+1)
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, &ExpressionError{Expr: p.src, Reason: "missing ')'"}
		}
		p.pos++
		rules = append(rules, body...)
	}
	if depth > 0 {
		return nil, &ExpressionError{Expr: p.src, Reason: "missing ')'"}
	}
	return rules, nil
}

func (p *exprParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func tokenizeExpr(s string) []string {
	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			flush()
		case '(', ')', '?':
			flush()
			tokens = append(tokens, string(r))
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return tokens
}

package query

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrEmptyQuery is returned when a query string has no clauses.
var ErrEmptyQuery = errors.New("empty query")

type tokenKind int

const (
	tokWord tokenKind = iota
	tokField
	tokLParen
	tokRParen
)

type token struct {
	kind   tokenKind
	text   string
	quoted bool
}

func (t token) isOp(op string) bool {
	return t.kind == tokWord && !t.quoted && t.text == op
}

// Parse reads a query string. Unqualified terms keep an empty Field.
func Parse(s string) (Node, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, ErrEmptyQuery
	}
	p := &parser{toks: toks}
	n, err := p.parseOr("")
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("unexpected %q at token %d", p.toks[p.pos].text, p.pos)
	}
	return n, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) parseOr(field string) (Node, error) {
	left, err := p.parseAnd(field)
	if err != nil {
		return nil, err
	}
	clauses := []Node{left}
	for {
		t, ok := p.peek()
		if !ok || !t.isOp("OR") {
			break
		}
		p.pos++
		right, err := p.parseAnd(field)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, right)
	}
	return Or(clauses...), nil
}

func (p *parser) parseAnd(field string) (Node, error) {
	left, err := p.parseUnary(field)
	if err != nil {
		return nil, err
	}
	clauses := []Node{left}
	for {
		t, ok := p.peek()
		if !ok || t.kind == tokRParen || t.isOp("OR") {
			break
		}
		if t.isOp("AND") {
			p.pos++
		}
		right, err := p.parseUnary(field)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, right)
	}
	return And(clauses...), nil
}

func (p *parser) parseUnary(field string) (Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, errors.New("unexpected end of query")
	}
	if t.kind == tokField {
		p.pos++
		field = t.text
		if t, ok = p.peek(); !ok {
			return nil, fmt.Errorf("field %q has no value", field)
		}
	}
	switch {
	case t.kind == tokLParen:
		p.pos++
		n, err := p.parseOr(field)
		if err != nil {
			return nil, err
		}
		if t, ok := p.peek(); !ok || t.kind != tokRParen {
			return nil, errors.New("missing closing parenthesis")
		}
		p.pos++
		return n, nil
	case t.kind == tokWord && !t.isOp("AND") && !t.isOp("OR"):
		p.pos++
		return Term(field, t.text), nil
	default:
		return nil, fmt.Errorf("unexpected %q at token %d", t.text, p.pos)
	}
}

func lex(s string) ([]token, error) {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case r == '"':
			var b strings.Builder
			i++
			closed := false
			for i < len(rs) {
				c := rs[i]
				if c == '\\' && i+1 < len(rs) {
					b.WriteRune(rs[i+1])
					i += 2
					continue
				}
				if c == '"' {
					closed = true
					i++
					break
				}
				b.WriteRune(c)
				i++
			}
			if !closed {
				return nil, errors.New("unterminated quoted term")
			}
			toks = append(toks, token{kind: tokWord, text: b.String(), quoted: true})
		default:
			start := i
			for i < len(rs) && !unicode.IsSpace(rs[i]) && !strings.ContainsRune("()\":", rs[i]) {
				i++
			}
			word := string(rs[start:i])
			if i < len(rs) && rs[i] == ':' {
				i++
				if word == "" {
					return nil, errors.New("empty field name")
				}
				toks = append(toks, token{kind: tokField, text: word})
				continue
			}
			toks = append(toks, token{kind: tokWord, text: word})
		}
	}
	return toks, nil
}

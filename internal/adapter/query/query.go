// Package query is a small typed query language for the field index.
//
// A query is a tree of Term, And and Or nodes. String serializes a tree to
// the index query syntax and Parse reads it back:
//
//	title:北京 AND title:(企业 OR 注册)
//
// AND binds tighter than OR, adjacent clauses without an operator are AND-ed,
// and a field prefix on a parenthesised group applies to every term inside it.
package query

import (
	"strings"
	"unicode"
)

// Node is a query tree node.
type Node interface {
	String() string
	node()
}

// TermNode matches documents whose field contains Text. An empty Field means
// the field being searched.
type TermNode struct {
	Field string
	Text  string
}

// AndNode matches documents matching every clause.
type AndNode struct {
	Clauses []Node
}

// OrNode matches documents matching at least one clause.
type OrNode struct {
	Clauses []Node
}

func (TermNode) node() {}
func (AndNode) node()  {}
func (OrNode) node()   {}

// Term builds a field-qualified term. Pass an empty field for the default field.
func Term(field, text string) TermNode {
	return TermNode{Field: field, Text: text}
}

// Terms builds one term per text on the same field.
func Terms(field string, texts []string) []Node {
	nodes := make([]Node, 0, len(texts))
	for _, t := range texts {
		nodes = append(nodes, Term(field, t))
	}
	return nodes
}

// And joins clauses conjunctively. Nested ANDs are flattened, nil clauses are
// dropped and a single clause is returned as is. It returns nil for no clauses.
func And(clauses ...Node) Node {
	flat := flatten(clauses, func(n Node) ([]Node, bool) {
		if a, ok := n.(AndNode); ok {
			return a.Clauses, true
		}
		return nil, false
	})
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return AndNode{Clauses: flat}
}

// Or joins clauses disjunctively with the same simplifications as And.
func Or(clauses ...Node) Node {
	flat := flatten(clauses, func(n Node) ([]Node, bool) {
		if o, ok := n.(OrNode); ok {
			return o.Clauses, true
		}
		return nil, false
	})
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return OrNode{Clauses: flat}
}

func flatten(clauses []Node, unwrap func(Node) ([]Node, bool)) []Node {
	flat := make([]Node, 0, len(clauses))
	for _, c := range clauses {
		if c == nil {
			continue
		}
		if inner, ok := unwrap(c); ok {
			flat = append(flat, flatten(inner, unwrap)...)
			continue
		}
		flat = append(flat, c)
	}
	return flat
}

func (t TermNode) String() string {
	if t.Field == "" {
		return quote(t.Text)
	}
	return t.Field + ":" + quote(t.Text)
}

func (a AndNode) String() string {
	parts := make([]string, len(a.Clauses))
	for i, c := range a.Clauses {
		s := c.String()
		if _, isOr := c.(OrNode); isOr {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, " AND ")
}

func (o OrNode) String() string {
	parts := make([]string, len(o.Clauses))
	for i, c := range o.Clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, " OR ")
}

// quote returns text as a bare word when the lexer would read it back
// unchanged, and as a quoted string otherwise.
func quote(text string) string {
	if text != "" && !strings.ContainsAny(text, "\"\\():") &&
		strings.IndexFunc(text, unicode.IsSpace) < 0 && !isOperator(text) {
		return text
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range text {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func isOperator(word string) bool {
	return word == "AND" || word == "OR"
}

package rdf

import (
	"fmt"
	"strings"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
	// TermDefaultGraph represents the default graph.
	TermDefaultGraph
	// TermList represents a synthetic list term built by a serializer.
	TermList
)

// Well-known vocabulary IRIs.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	RDFType       = RDFNamespace + "type"
	RDFLangString = RDFNamespace + "langString"

	XSDString  = XSDNamespace + "string"
	XSDInteger = XSDNamespace + "integer"
	XSDDouble  = XSDNamespace + "double"
	XSDBoolean = XSDNamespace + "boolean"
)

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// DefaultGraph is the graph name of triples outside any named graph.
type DefaultGraph struct{}

// Kind returns TermDefaultGraph.
func (DefaultGraph) Kind() TermKind { return TermDefaultGraph }

// String returns an empty string.
func (DefaultGraph) String() string { return "" }

// Quad is an RDF quad (triple + optional graph name).
type Quad struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
	// G is the graph name. Both nil and DefaultGraph{} denote the default graph.
	G Term
}

// IsZero reports whether the quad has no subject/predicate/object.
func (q Quad) IsZero() bool {
	return q.S == nil && q.P.Value == "" && q.O == nil && q.G == nil
}

// InDefaultGraph reports whether the quad is in the default graph (no named graph).
func (q Quad) InDefaultGraph() bool {
	return q.G == nil || q.G.Kind() == TermDefaultGraph
}

// String renders the quad in N-Quads-like notation.
func (q Quad) String() string {
	var b strings.Builder
	b.WriteString(renderTerm(q.S))
	b.WriteByte(' ')
	b.WriteString(renderTerm(q.P))
	b.WriteByte(' ')
	b.WriteString(renderTerm(q.O))
	if !q.InDefaultGraph() {
		b.WriteByte(' ')
		b.WriteString(renderTerm(q.G))
	}
	b.WriteString(" .")
	return b.String()
}

// TermsEqual reports whether two terms are structurally equal.
// List terms are never equal to anything, including themselves.
func TermsEqual(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case IRI:
		bv, ok := b.(IRI)
		return ok && av == bv
	case BlankNode:
		bv, ok := b.(BlankNode)
		return ok && av == bv
	case Literal:
		bv, ok := b.(Literal)
		return ok && av == bv
	case DefaultGraph:
		return true
	default:
		return false
	}
}

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return "<" + value.Value + ">"
	case BlankNode:
		return value.String()
	case Literal:
		if value.Lang != "" {
			return fmt.Sprintf("%q@%s", value.Lexical, value.Lang)
		}
		if value.Datatype.Value != "" {
			return fmt.Sprintf("%q^^<%s>", value.Lexical, value.Datatype.Value)
		}
		return fmt.Sprintf("%q", value.Lexical)
	case nil:
		return ""
	default:
		return value.String()
	}
}

package quadstore

import (
	"fmt"
	"strings"

	"github.com/geoknoesis/rdf-jsonld/rdf"
)

const (
	kindIRI     = "iri"
	kindBlank   = "blank"
	kindLiteral = "literal"
)

// row is the column form of one quad.
type row struct {
	subject    string
	predicate  string
	objectKind string
	object     string
	datatype   string
	lang       string
	graph      string
}

// encodeNode renders a subject or graph name in N-Quads notation.
// The default graph (nil or rdf.DefaultGraph) is the empty string.
func encodeNode(term rdf.Term, graph bool) (string, error) {
	switch t := term.(type) {
	case rdf.IRI:
		return "<" + t.Value + ">", nil
	case rdf.BlankNode:
		return "_:" + t.ID, nil
	case nil, rdf.DefaultGraph:
		if graph {
			return "", nil
		}
	}
	return "", fmt.Errorf("quadstore: cannot store %T as a node", term)
}

func decodeNode(value string) (rdf.Term, error) {
	switch {
	case value == "":
		return nil, nil
	case strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">"):
		return rdf.IRI{Value: value[1 : len(value)-1]}, nil
	case strings.HasPrefix(value, "_:"):
		return rdf.BlankNode{ID: value[2:]}, nil
	default:
		return nil, fmt.Errorf("quadstore: malformed node %q", value)
	}
}

func encodeQuad(q rdf.Quad) (row, error) {
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return row{}, fmt.Errorf("quadstore: incomplete quad %s", q)
	}
	subject, err := encodeNode(q.S, false)
	if err != nil {
		return row{}, err
	}
	graph, err := encodeNode(q.G, true)
	if err != nil {
		return row{}, err
	}
	r := row{subject: subject, predicate: q.P.Value, graph: graph}
	switch o := q.O.(type) {
	case rdf.IRI:
		r.objectKind, r.object = kindIRI, o.Value
	case rdf.BlankNode:
		r.objectKind, r.object = kindBlank, o.ID
	case rdf.Literal:
		r.objectKind, r.object = kindLiteral, o.Lexical
		r.datatype, r.lang = o.Datatype.Value, o.Lang
	default:
		return row{}, fmt.Errorf("quadstore: cannot store %T as an object", q.O)
	}
	return r, nil
}

func (r row) quad() (rdf.Quad, error) {
	subject, err := decodeNode(r.subject)
	if err != nil {
		return rdf.Quad{}, err
	}
	if subject == nil {
		return rdf.Quad{}, fmt.Errorf("quadstore: empty subject")
	}
	graph, err := decodeNode(r.graph)
	if err != nil {
		return rdf.Quad{}, err
	}

	var object rdf.Term
	switch r.objectKind {
	case kindIRI:
		object = rdf.IRI{Value: r.object}
	case kindBlank:
		object = rdf.BlankNode{ID: r.object}
	case kindLiteral:
		object = rdf.Literal{Lexical: r.object, Datatype: rdf.IRI{Value: r.datatype}, Lang: r.lang}
	default:
		return rdf.Quad{}, fmt.Errorf("quadstore: unknown object kind %q", r.objectKind)
	}
	return rdf.Quad{S: subject, P: rdf.IRI{Value: r.predicate}, O: object, G: graph}, nil
}

package rdf

import (
	"fmt"
	"strings"
)

// JSONLDContext is an immutable, already-resolved JSON-LD context used to
// compact IRIs on output.
type JSONLDContext struct {
	raw   *OrderedMap
	terms []contextTerm
	base  string
	vocab string
}

type contextTerm struct {
	name string
	iri  string
}

// NewJSONLDContext builds a context from a JSON-LD "@context" object.
// Term values may be IRI strings, compact IRIs using another term as prefix,
// expanded term definitions carrying "@id", or null.
func NewJSONLDContext(raw *OrderedMap) (*JSONLDContext, error) {
	if raw == nil {
		raw = NewOrderedMap()
	}
	c := &JSONLDContext{raw: raw}
	for _, key := range raw.Keys() {
		value, _ := raw.Get(key)
		switch key {
		case "@base":
			s, err := contextString(key, value)
			if err != nil {
				return nil, err
			}
			c.base = s
			continue
		case "@vocab":
			s, err := contextString(key, value)
			if err != nil {
				return nil, err
			}
			c.vocab = s
			continue
		}
		if isKeyword(key) {
			continue
		}
		iri, err := termIRI(key, value)
		if err != nil {
			return nil, err
		}
		if iri != "" && !isKeyword(iri) {
			c.terms = append(c.terms, contextTerm{name: key, iri: iri})
		}
	}
	for i, term := range c.terms {
		c.terms[i].iri = c.expandPrefixed(term.iri)
	}
	return c, nil
}

// NewBaseContext synthesizes the minimal context {"@base": base}.
func NewBaseContext(base string) *JSONLDContext {
	raw := NewOrderedMap()
	raw.Set("@base", base)
	return &JSONLDContext{raw: raw, base: base}
}

// Raw returns the context object as configured.
func (c *JSONLDContext) Raw() *OrderedMap { return c.raw }

// Base returns the @base IRI, if any.
func (c *JSONLDContext) Base() string { return c.base }

// Vocab returns the @vocab IRI, if any.
func (c *JSONLDContext) Vocab() string { return c.vocab }

// CompactIRI shortens iri against the context. vocab selects the vocabulary
// position (predicates, @type values, datatypes); otherwise iri is an @id value.
// A nil context returns iri unchanged.
func (c *JSONLDContext) CompactIRI(iri string, vocab bool) string {
	if c == nil {
		return iri
	}

	// @id values are never replaced by a term, only by prefixed names.
	if vocab {
		for _, term := range c.terms {
			if term.iri == iri {
				return term.name
			}
		}
	}

	var best *contextTerm
	for i := range c.terms {
		term := &c.terms[i]
		if len(term.iri) < len(iri) && strings.HasPrefix(iri, term.iri) {
			if best == nil || len(term.iri) > len(best.iri) {
				best = term
			}
		}
	}
	if best != nil {
		return best.name + ":" + iri[len(best.iri):]
	}

	if vocab && c.vocab != "" && strings.HasPrefix(iri, c.vocab) {
		return iri[len(c.vocab):]
	}
	if !vocab && c.base != "" && strings.HasPrefix(iri, c.base) {
		return iri[len(c.base):]
	}
	return iri
}

// expandPrefixed resolves a compact IRI such as "ex:Thing" whose prefix is a
// term of this context.
func (c *JSONLDContext) expandPrefixed(value string) string {
	prefix, suffix, ok := strings.Cut(value, ":")
	if !ok || strings.HasPrefix(suffix, "//") {
		return value
	}
	for _, term := range c.terms {
		if term.name == prefix {
			return term.iri + suffix
		}
	}
	return value
}

func contextString(key string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidContext, key, value)
	}
}

func termIRI(key string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case *OrderedMap:
		id, ok := v.Get("@id")
		if !ok {
			return "", nil
		}
		return contextString(key+".@id", id)
	default:
		return "", fmt.Errorf("%w: term %q has unsupported definition %T", ErrInvalidContext, key, value)
	}
}

func isKeyword(key string) bool {
	return strings.HasPrefix(key, "@")
}

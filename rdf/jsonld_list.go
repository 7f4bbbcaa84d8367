package rdf

import "strconv"

// ListTerm is an RDF collection prepared by JSONLDSerializer.List. Used as
// the object of a quad it is written as {"@list": [...]}.
type ListTerm struct {
	items []jsonldValue
}

// Kind returns TermList.
func (l ListTerm) Kind() TermKind { return TermList }

// String returns a short description of the list.
func (l ListTerm) String() string { return "(list of " + strconv.Itoa(len(l.items)) + ")" }

// Len returns the number of list items.
func (l ListTerm) Len() int { return len(l.items) }

// List encodes items in order and returns a term that can be used as the
// object of a quad written to s. Items may themselves be lists.
func (s *JSONLDSerializer) List(items []Term) (ListTerm, error) {
	encoded := make([]jsonldValue, 0, len(items))
	for _, item := range items {
		if err := checkUTF8(item); err != nil {
			return ListTerm{}, err
		}
		value, err := s.values.encode(item)
		if err != nil {
			return ListTerm{}, err
		}
		encoded = append(encoded, value)
	}
	return ListTerm{items: encoded}, nil
}

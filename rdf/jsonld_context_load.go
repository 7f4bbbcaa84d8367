package rdf

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	ld "github.com/piprate/json-gold/ld"
)

// LoadJSONLDContext reads a context document and returns its "@context"
// object (or the whole object when it has no "@context" member).
//
// Local files keep their member order. http(s) locations are fetched with the
// json-gold document loader using client (nil means http.DefaultClient); the
// loader does not preserve member order, so remote contexts come back with
// their keys sorted.
func LoadJSONLDContext(location string, client *http.Client) (*OrderedMap, error) {
	var doc *OrderedMap
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if client == nil {
			client = http.DefaultClient
		}
		remote, err := ld.NewDefaultDocumentLoader(client).LoadDocument(location)
		if err != nil {
			return nil, fmt.Errorf("jsonld: load context %s: %w", location, err)
		}
		obj, ok := orderedFromGeneric(remote.Document).(*OrderedMap)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a JSON object", ErrInvalidContext, location)
		}
		doc = obj
	} else {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("jsonld: load context: %w", err)
		}
		if doc, err = ParseOrderedMap(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidContext, location, err)
		}
	}

	inner, ok := doc.Get("@context")
	if !ok {
		return doc, nil
	}
	obj, ok := inner.(*OrderedMap)
	if !ok {
		return nil, fmt.Errorf("%w: %s: only an inline @context object is supported, got %T", ErrInvalidContext, location, inner)
	}
	return obj, nil
}

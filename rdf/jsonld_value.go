package rdf

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"unicode/utf8"
)

type jsonldValueKind uint8

const (
	// {"@id": text}
	valueRef jsonldValueKind = iota
	// {"@value": text, "@language": lang, "@type": datatype}
	valueLiteral
	// text is a JSON number or boolean
	valueNative
	// {"@list": items}
	valueList
	// bare compacted IRI under @type
	valueTypeName
)

// jsonldValue is the JSON-LD representation of one RDF object.
type jsonldValue struct {
	kind     jsonldValueKind
	text     string
	lang     string
	datatype string
	items    []jsonldValue
}

// valueEncoder turns RDF terms into JSON-LD values.
type valueEncoder struct {
	context        *JSONLDContext
	useNativeTypes bool
}

func (e valueEncoder) encode(term Term) (jsonldValue, error) {
	switch t := term.(type) {
	case IRI:
		return jsonldValue{kind: valueRef, text: e.context.CompactIRI(t.Value, false)}, nil
	case BlankNode:
		return jsonldValue{kind: valueRef, text: t.String()}, nil
	case Literal:
		return e.encodeLiteral(t)
	case ListTerm:
		return jsonldValue{kind: valueList, items: t.items}, nil
	default:
		return jsonldValue{}, fmt.Errorf("jsonld: cannot encode %T as a value", term)
	}
}

func (e valueEncoder) encodeLiteral(lit Literal) (jsonldValue, error) {
	if lit.Lang != "" {
		return jsonldValue{kind: valueLiteral, text: lit.Lexical, lang: lit.Lang}, nil
	}
	datatype := lit.Datatype.Value
	if datatype == "" || datatype == XSDString {
		return jsonldValue{kind: valueLiteral, text: lit.Lexical}, nil
	}
	if e.useNativeTypes {
		native, ok, err := nativeValue(lit.Lexical, datatype)
		if err != nil {
			return jsonldValue{}, err
		}
		if ok {
			return jsonldValue{kind: valueNative, text: native}, nil
		}
	}
	return jsonldValue{kind: valueLiteral, text: lit.Lexical, datatype: e.context.CompactIRI(datatype, true)}, nil
}

// xsdDoublePattern matches the finite lexical space of xsd:double.
var xsdDoublePattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// nativeValue converts xsd:integer, xsd:double and xsd:boolean lexical forms
// to JSON scalars. ok is false for other datatypes and for doubles that JSON
// cannot represent (INF, NaN).
func nativeValue(lexical, datatype string) (string, bool, error) {
	switch datatype {
	case XSDInteger:
		n, ok := new(big.Int).SetString(lexical, 10)
		if !ok {
			return "", false, &EncodingError{Datatype: datatype, Lexical: lexical}
		}
		return n.String(), true, nil
	case XSDDouble:
		switch {
		case lexical == "INF" || lexical == "+INF" || lexical == "-INF" || lexical == "NaN":
			return "", false, nil
		case !xsdDoublePattern.MatchString(lexical):
			return "", false, &EncodingError{Datatype: datatype, Lexical: lexical}
		}
		f, err := strconv.ParseFloat(lexical, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return "", false, &EncodingError{Datatype: datatype, Lexical: lexical}
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", false, nil
		}
		raw, err := json.Marshal(f)
		if err != nil {
			return "", false, err
		}
		return string(raw), true, nil
	case XSDBoolean:
		switch lexical {
		case "true", "1":
			return "true", true, nil
		case "false", "0":
			return "false", true, nil
		default:
			return "", false, &EncodingError{Datatype: datatype, Lexical: lexical}
		}
	default:
		return "", false, nil
	}
}

// checkUTF8 returns an error for the first term whose text is not valid
// UTF-8. Such text has no lossless JSON string form.
func checkUTF8(terms ...Term) error {
	for _, term := range terms {
		valid := true
		switch t := term.(type) {
		case IRI:
			valid = utf8.ValidString(t.Value)
		case BlankNode:
			valid = utf8.ValidString(t.ID)
		case Literal:
			valid = utf8.ValidString(t.Lexical) && utf8.ValidString(t.Lang) && utf8.ValidString(t.Datatype.Value)
		}
		if !valid {
			return fmt.Errorf("%w: %s", ErrInvalidUTF8, term)
		}
	}
	return nil
}

// nodeID renders a subject or graph name as an @id value.
func (e valueEncoder) nodeID(term Term) (string, error) {
	switch t := term.(type) {
	case IRI:
		return e.context.CompactIRI(t.Value, false), nil
	case BlankNode:
		return t.String(), nil
	default:
		return "", fmt.Errorf("jsonld: %T cannot identify a node", term)
	}
}

// typeName renders the object of an rdf:type statement as a bare @type entry.
// ok is false when the object is not a node reference.
func (e valueEncoder) typeName(term Term) (jsonldValue, bool) {
	switch t := term.(type) {
	case IRI:
		return jsonldValue{kind: valueTypeName, text: e.context.CompactIRI(t.Value, true)}, true
	case BlankNode:
		return jsonldValue{kind: valueTypeName, text: t.String()}, true
	default:
		return jsonldValue{}, false
	}
}

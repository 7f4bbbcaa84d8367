package rdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// orderedMap is a map that remembers key insertion order.
type orderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// Get returns the value stored under key.
func (m *orderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. New keys are appended; existing keys keep their position.
func (m *orderedMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Keys returns the keys in insertion order.
func (m *orderedMap[V]) Keys() []string { return m.keys }

// Len returns the number of keys.
func (m *orderedMap[V]) Len() int { return len(m.keys) }

// OrderedMap is a JSON object that keeps its member order. Values are
// strings, bools, nil, json.Number, []any or *OrderedMap.
type OrderedMap struct {
	orderedMap[any]
}

// NewOrderedMap returns an empty ordered object.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{}
}

// ParseOrderedMap decodes a JSON object preserving member order.
func ParseOrderedMap(data []byte) (*OrderedMap, error) {
	m := NewOrderedMap()
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *OrderedMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("jsonld: expected JSON object, got %v", tok)
	}
	*m = OrderedMap{}
	if err := m.decodeMembers(dec); err != nil {
		return err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return fmt.Errorf("jsonld: unexpected %v after JSON object", tok)
	}
	return nil
}

func (m *OrderedMap) decodeMembers(dec *json.Decoder) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("jsonld: expected object key, got %v", tok)
		}
		value, err := decodeOrderedValue(dec)
		if err != nil {
			return err
		}
		m.Set(key, value)
	}
	_, err := dec.Token()
	return err
}

func decodeOrderedValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := NewOrderedMap()
		if err := obj.decodeMembers(dec); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		items := []any{}
		for dec.More() {
			item, err := decodeOrderedValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		_, err := dec.Token()
		return items, err
	default:
		return nil, fmt.Errorf("jsonld: unexpected delimiter %v", delim)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler so contexts can be written
// inline in YAML configuration files.
func (m *OrderedMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("jsonld: line %d: expected mapping", node.Line)
	}
	*m = OrderedMap{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		value, err := decodeYAMLValue(node.Content[i+1])
		if err != nil {
			return err
		}
		m.Set(node.Content[i].Value, value)
	}
	return nil
}

func decodeYAMLValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		obj := NewOrderedMap()
		if err := obj.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return obj, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := decodeYAMLValue(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case yaml.AliasNode:
		return decodeYAMLValue(node.Alias)
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!int", "!!float":
			return json.Number(node.Value), nil
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return nil, err
			}
			return b, nil
		default:
			return node.Value, nil
		}
	default:
		return nil, fmt.Errorf("jsonld: line %d: unsupported YAML node", node.Line)
	}
}

// MarshalJSON implements json.Marshaler, preserving member order.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	w := newJSONLDWriter(&buf, "")
	w.writeJSON(m)
	if err := w.flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// orderedFromGeneric converts decoded JSON (maps with random key order) to
// ordered values, sorting object keys.
func orderedFromGeneric(value any) any {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		obj := NewOrderedMap()
		for _, key := range keys {
			obj.Set(key, orderedFromGeneric(v[key]))
		}
		return obj
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = orderedFromGeneric(item)
		}
		return items
	default:
		return v
	}
}

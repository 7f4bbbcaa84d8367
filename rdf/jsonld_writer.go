package rdf

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// jsonldWriter emits JSON tokens as they become available. It keeps one
// first-member flag per open container and never holds more than the value
// currently being written.
type jsonldWriter struct {
	out     *bufio.Writer
	indent  string
	first   []bool
	scratch bytes.Buffer
	enc     *json.Encoder
	err     error

	opened  bool
	wrapped bool
}

func newJSONLDWriter(w io.Writer, indent string) *jsonldWriter {
	jw := &jsonldWriter{out: bufio.NewWriter(w), indent: indent}
	jw.enc = json.NewEncoder(&jw.scratch)
	jw.enc.SetEscapeHTML(false)
	return jw
}

func (w *jsonldWriter) pretty() bool { return w.indent != "" }

func (w *jsonldWriter) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.out.WriteString(s)
}

func (w *jsonldWriter) writeByte(b byte) {
	if w.err != nil {
		return
	}
	w.err = w.out.WriteByte(b)
}

func (w *jsonldWriter) newline() {
	if !w.pretty() {
		return
	}
	w.writeByte('\n')
	w.writeString(strings.Repeat(w.indent, len(w.first)))
}

// next separates a member or element from its predecessor and moves to its line.
func (w *jsonldWriter) next() {
	if top := len(w.first) - 1; top >= 0 {
		if w.first[top] {
			w.first[top] = false
		} else {
			w.writeByte(',')
		}
	}
	w.newline()
}

func (w *jsonldWriter) open(delim byte) {
	w.writeByte(delim)
	w.first = append(w.first, true)
}

func (w *jsonldWriter) close(delim byte) {
	w.first = w.first[:len(w.first)-1]
	w.newline()
	w.writeByte(delim)
}

func (w *jsonldWriter) beginObject() { w.open('{') }
func (w *jsonldWriter) endObject()   { w.close('}') }
func (w *jsonldWriter) beginArray()  { w.open('[') }
func (w *jsonldWriter) endArray()    { w.close(']') }

func (w *jsonldWriter) key(name string) {
	w.next()
	w.str(name)
	w.writeByte(':')
	if w.pretty() {
		w.writeByte(' ')
	}
}

func (w *jsonldWriter) element() { w.next() }

func (w *jsonldWriter) str(s string) {
	w.scratch.Reset()
	if err := w.enc.Encode(s); err != nil {
		w.err = err
		return
	}
	w.writeString(strings.TrimSuffix(w.scratch.String(), "\n"))
}

// writeJSON writes a decoded JSON value such as a context object.
func (w *jsonldWriter) writeJSON(value any) {
	switch v := value.(type) {
	case *OrderedMap:
		w.beginObject()
		for _, key := range v.Keys() {
			member, _ := v.Get(key)
			w.key(key)
			w.writeJSON(member)
		}
		w.endObject()
	case []any:
		w.beginArray()
		for _, item := range v {
			w.element()
			w.writeJSON(item)
		}
		w.endArray()
	case string:
		w.str(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			w.err = err
			return
		}
		w.writeString(string(raw))
	}
}

func (w *jsonldWriter) writeValue(v jsonldValue) {
	switch v.kind {
	case valueRef:
		w.beginObject()
		w.key("@id")
		w.str(v.text)
		w.endObject()
	case valueLiteral:
		w.beginObject()
		w.key("@value")
		w.str(v.text)
		if v.lang != "" {
			w.key("@language")
			w.str(v.lang)
		}
		if v.datatype != "" {
			w.key("@type")
			w.str(v.datatype)
		}
		w.endObject()
	case valueNative:
		w.writeString(v.text)
	case valueList:
		w.beginObject()
		w.key("@list")
		w.beginArray()
		for _, item := range v.items {
			w.element()
			w.writeValue(item)
		}
		w.endArray()
		w.endObject()
	case valueTypeName:
		w.str(v.text)
	}
}

func (w *jsonldWriter) writeNode(n *jsonldNode) {
	w.beginObject()
	w.key("@id")
	w.str(n.id)
	for _, key := range n.keys.Keys() {
		slot, _ := n.keys.Get(key)
		w.key(key)
		w.beginArray()
		if slot.graph {
			for _, inner := range slot.nodes {
				w.element()
				w.writeNode(inner)
			}
		} else {
			for _, value := range slot.values {
				w.element()
				w.writeValue(value)
			}
		}
		w.endArray()
	}
	w.endObject()
}

// openDocument writes the document root: a bare array, or an object carrying
// the context when context is not nil.
func (w *jsonldWriter) openDocument(context *OrderedMap) {
	if w.opened {
		return
	}
	w.opened = true
	if context != nil {
		w.wrapped = true
		w.beginObject()
		w.key("@context")
		w.writeJSON(context)
		w.key("@graph")
	}
	w.beginArray()
}

func (w *jsonldWriter) writeEntry(n *jsonldNode) {
	w.element()
	w.writeNode(n)
}

func (w *jsonldWriter) closeDocument() {
	w.endArray()
	if w.wrapped {
		w.endObject()
	}
	if w.pretty() {
		w.writeByte('\n')
	}
}

func (w *jsonldWriter) flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.out.Flush()
	return w.err
}

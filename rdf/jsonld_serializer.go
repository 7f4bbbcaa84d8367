package rdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// JSONLDSerializerOptions configures a JSONLDSerializer.
type JSONLDSerializerOptions struct {
	// UseRdfType keeps rdf:type as an ordinary predicate instead of @type.
	UseRdfType bool `yaml:"useRdfType"`
	// UseNativeTypes writes xsd:integer, xsd:double and xsd:boolean literals as JSON scalars.
	UseNativeTypes bool `yaml:"useNativeTypes"`
	// BaseIRI synthesizes the context {"@base": BaseIRI} when Context is nil.
	BaseIRI string `yaml:"baseIRI"`
	// Context is a resolved JSON-LD context used for compaction.
	Context *OrderedMap `yaml:"context"`
	// ExcludeContext writes a bare array even when a context is configured.
	ExcludeContext bool `yaml:"excludeContext"`
	// Space is the indentation unit; empty output is compact.
	Space string `yaml:"space"`
	// Logger receives debug records for flushed entries. Nil discards them.
	Logger *slog.Logger `yaml:"-"`
}

// JSONLDSerializer converts an ordered quad stream into one JSON-LD document.
//
// Quads are grouped by adjacency only: consecutive quads sharing a subject
// (default graph) or a graph name (named graphs) are merged into one top-level
// node, which is written as soon as a quad arrives that cannot join it. Input
// that lists each graph, and each subject within it, contiguously produces the
// same grouping as a fully buffered serializer; otherwise the same @id can
// appear in several entries.
//
// A JSONLDSerializer is not safe for concurrent use.
type JSONLDSerializer struct {
	sink       io.Writer
	out        *jsonldWriter
	context    *JSONLDContext
	header     *OrderedMap
	values     valueEncoder
	useRdfType bool
	logger     *slog.Logger

	pending *pendingEntry
	entries int
	closed  bool
	aborted error
}

// pendingEntry is the one top-level node still open for merges.
type pendingEntry struct {
	term  Term
	node  *jsonldNode
	graph *jsonldSlot

	inner     *jsonldNode
	innerTerm Term
}

// NewJSONLDSerializer creates a serializer writing to w.
func NewJSONLDSerializer(w io.Writer, opts JSONLDSerializerOptions) (*JSONLDSerializer, error) {
	var ctx *JSONLDContext
	switch {
	case opts.Context != nil:
		var err error
		if ctx, err = NewJSONLDContext(opts.Context); err != nil {
			return nil, err
		}
	case opts.BaseIRI != "":
		ctx = NewBaseContext(opts.BaseIRI)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &JSONLDSerializer{
		sink:       w,
		out:        newJSONLDWriter(w, opts.Space),
		context:    ctx,
		values:     valueEncoder{context: ctx, useNativeTypes: opts.UseNativeTypes},
		useRdfType: opts.UseRdfType,
		logger:     logger,
	}
	if ctx != nil && !opts.ExcludeContext {
		s.header = ctx.Raw()
	}
	return s, nil
}

// Write adds one quad. It flushes the pending entry first when the quad
// cannot be merged into it. Encoding failures abort the serializer.
func (s *JSONLDSerializer) Write(q Quad) error {
	if err := s.usable(); err != nil {
		return err
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return s.fail(fmt.Errorf("jsonld: incomplete quad %s", q))
	}
	if err := checkUTF8(q.S, q.P, q.O, q.G); err != nil {
		return s.fail(err)
	}
	key, value, err := s.member(q.P, q.O)
	if err != nil {
		return s.fail(err)
	}

	if q.InDefaultGraph() {
		if s.pending == nil || !TermsEqual(s.pending.term, q.S) {
			if err := s.open(q.S); err != nil {
				return err
			}
		}
		s.pending.node.add(key, value)
		return nil
	}

	if s.pending == nil || !TermsEqual(s.pending.term, q.G) {
		if err := s.open(q.G); err != nil {
			return err
		}
	}
	p := s.pending
	if p.graph == nil {
		p.graph = p.node.openGraph()
	}
	if p.inner == nil || !TermsEqual(p.innerTerm, q.S) {
		id, err := s.values.nodeID(q.S)
		if err != nil {
			return s.fail(err)
		}
		p.inner = newJSONLDNode(id)
		p.innerTerm = q.S
		p.graph.nodes = append(p.graph.nodes, p.inner)
	}
	p.inner.add(key, value)
	return nil
}

// member returns the key and value a predicate/object pair is stored under.
func (s *JSONLDSerializer) member(predicate IRI, object Term) (string, jsonldValue, error) {
	if predicate.Value == RDFType && !s.useRdfType {
		if value, ok := s.values.typeName(object); ok {
			return "@type", value, nil
		}
	}
	value, err := s.values.encode(object)
	if err != nil {
		return "", jsonldValue{}, err
	}
	return s.context.CompactIRI(predicate.Value, true), value, nil
}

// open flushes the pending entry and starts a new one identified by term.
func (s *JSONLDSerializer) open(term Term) error {
	id, err := s.values.nodeID(term)
	if err != nil {
		return s.fail(err)
	}
	if err := s.flushPending(); err != nil {
		return err
	}
	s.pending = &pendingEntry{term: term, node: newJSONLDNode(id)}
	return nil
}

func (s *JSONLDSerializer) flushPending() error {
	p := s.pending
	if p == nil {
		return nil
	}
	s.pending = nil
	s.out.openDocument(s.header)
	s.out.writeEntry(p.node)
	s.entries++
	var inner int
	if p.graph != nil {
		inner = len(p.graph.nodes)
	}
	s.logger.Debug("jsonld entry flushed", "id", p.node.id, "keys", p.node.keys.Len(), "graph_nodes", inner)
	if s.out.err != nil {
		return s.fail(&IOError{Err: s.out.err})
	}
	return nil
}

// Flush writes buffered output to the underlying writer. The pending entry
// stays open.
func (s *JSONLDSerializer) Flush() error {
	if err := s.usable(); err != nil {
		return err
	}
	if err := s.out.flush(); err != nil {
		return s.fail(&IOError{Err: err})
	}
	return nil
}

// Close flushes the pending entry and completes the document.
func (s *JSONLDSerializer) Close() error {
	if s.aborted != nil {
		return s.aborted
	}
	if s.closed {
		return nil
	}
	if err := s.flushPending(); err != nil {
		return err
	}
	s.out.openDocument(s.header)
	s.out.closeDocument()
	if err := s.out.flush(); err != nil {
		return s.fail(&IOError{Err: err})
	}
	s.closed = true
	s.logger.Debug("jsonld document closed", "entries", s.entries)
	return nil
}

// Abort stops the run: the pending entry is discarded, the document is left
// incomplete and, when the sink supports it (io.PipeWriter), cause is passed
// on through CloseWithError.
func (s *JSONLDSerializer) Abort(cause error) {
	if s.aborted != nil || s.closed {
		return
	}
	if cause == nil {
		cause = ErrSerializerAborted
	}
	s.pending = nil
	s.aborted = cause
	s.logger.Debug("jsonld serializer aborted", "entries", s.entries, "error", cause)
	if cw, ok := s.sink.(interface{ CloseWithError(error) error }); ok {
		_ = cw.CloseWithError(cause)
	}
}

// Entries returns the number of top-level entries written so far.
func (s *JSONLDSerializer) Entries() int { return s.entries }

// Import writes every quad of src and closes the serializer. An error from
// src or from the context aborts the run and is returned unchanged.
func (s *JSONLDSerializer) Import(ctx context.Context, src Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		if err := ctx.Err(); err != nil {
			s.Abort(err)
			return err
		}
		q, err := src.Next()
		if err == io.EOF {
			return s.Close()
		}
		if err != nil {
			s.Abort(err)
			return err
		}
		if err := s.Write(q); err != nil {
			return err
		}
	}
}

// SerializeJSONLD writes the quads of src to w as one JSON-LD document.
func SerializeJSONLD(ctx context.Context, src Reader, w io.Writer, opts JSONLDSerializerOptions) error {
	s, err := NewJSONLDSerializer(w, opts)
	if err != nil {
		return err
	}
	return s.Import(ctx, src)
}

func (s *JSONLDSerializer) usable() error {
	if s.aborted != nil {
		return fmt.Errorf("%w: %w", ErrSerializerAborted, s.aborted)
	}
	if s.closed {
		return ErrWriterClosed
	}
	return nil
}

func (s *JSONLDSerializer) fail(err error) error {
	s.Abort(err)
	return err
}

// jsonldNode is a node object under construction: @id plus members in
// insertion order.
type jsonldNode struct {
	id   string
	keys orderedMap[*jsonldSlot]
}

// jsonldSlot holds the values of one member, or the inner nodes of @graph.
type jsonldSlot struct {
	graph  bool
	values []jsonldValue
	nodes  []*jsonldNode
}

func newJSONLDNode(id string) *jsonldNode {
	return &jsonldNode{id: id}
}

func (n *jsonldNode) add(key string, value jsonldValue) {
	slot, ok := n.keys.Get(key)
	if !ok {
		slot = &jsonldSlot{}
		n.keys.Set(key, slot)
	}
	slot.values = append(slot.values, value)
}

func (n *jsonldNode) openGraph() *jsonldSlot {
	slot := &jsonldSlot{graph: true}
	n.keys.Set("@graph", slot)
	return slot
}


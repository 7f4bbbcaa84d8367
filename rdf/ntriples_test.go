package rdf

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, input string, format Format, opts ...Option) ([]Quad, error) {
	t.Helper()
	dec, err := NewReader(strings.NewReader(input), format, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer dec.Close()
	var quads []Quad
	for {
		q, err := dec.Next()
		if err == io.EOF {
			return quads, nil
		}
		if err != nil {
			return quads, err
		}
		quads = append(quads, q)
	}
}

func TestNTriplesDecodeErrors(t *testing.T) {
	if _, err := readAll(t, "<http://example.org/s> <http://example.org/p> .\n", FormatNTriples); err == nil {
		t.Fatal("expected error for missing object")
	}
	if _, err := readAll(t, "<http://example.org/s> <http://example.org/p> <http://example.org/o>\n", FormatNTriples); err == nil {
		t.Fatal("expected error for missing dot")
	}
	if _, err := readAll(t, "<http://example.org/s> <http://example.org/p> <http://example.org/o> . <x>\n", FormatNTriples); err == nil {
		t.Fatal("expected error for trailing content")
	}
	if _, err := readAll(t, "\"s\" <http://example.org/p> <http://example.org/o> .\n", FormatNTriples); err == nil {
		t.Fatal("expected error for literal subject")
	}
}

func TestNQuadsRejectGraphInTriples(t *testing.T) {
	line := "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n"
	_, err := readAll(t, line, FormatNTriples)
	if err == nil {
		t.Fatal("expected error for graph term in ntriples")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Line != 1 {
		t.Fatalf("expected ParseError on line 1, got %v", err)
	}
	if Code(err) != ErrCodeParseError {
		t.Fatalf("unexpected code %q", Code(err))
	}
}

func TestNQuadsDecodeGraph(t *testing.T) {
	input := "# comment\n" +
		"<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n" +
		"\n" +
		"_:b1 <http://example.org/p> _:b2 _:g1 .\n" +
		"<http://example.org/s> <http://example.org/p> \"x\" .\n"
	quads, err := readAll(t, input, FormatNQuads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quads) != 3 {
		t.Fatalf("expected 3 quads, got %d", len(quads))
	}
	if g, ok := quads[0].G.(IRI); !ok || g.Value != "http://example.org/g" {
		t.Fatalf("expected IRI graph, got %#v", quads[0].G)
	}
	if g, ok := quads[1].G.(BlankNode); !ok || g.ID != "g1" {
		t.Fatalf("expected blank graph, got %#v", quads[1].G)
	}
	if o, ok := quads[1].O.(BlankNode); !ok || o.ID != "b2" {
		t.Fatalf("expected blank object, got %#v", quads[1].O)
	}
	if !quads[2].InDefaultGraph() {
		t.Fatal("expected default graph")
	}
}

func TestNTriplesDecodeBlankAndLiteral(t *testing.T) {
	quads, err := readAll(t, "_:b1 <http://example.org/p> \"v\"@en .\n", FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := quads[0].S.(BlankNode); !ok {
		t.Fatalf("expected blank node subject")
	}
	if lit, ok := quads[0].O.(Literal); !ok || lit.Lang != "en" {
		t.Fatalf("expected lang literal")
	}
}

func TestNTriplesDecodeLangTagBeforeDot(t *testing.T) {
	quads, err := readAll(t, "_:b1 <http://example.org/p> \"v\"@en-GB.\n", FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lit := quads[0].O.(Literal); lit.Lang != "en-GB" {
		t.Fatalf("unexpected language %q", lit.Lang)
	}
}

func TestNTriplesDecodeDatatypeLiteral(t *testing.T) {
	quads, err := readAll(t, "<http://example.org/s> <http://example.org/p> \"1\"^^<http://example.org/dt> .\n", FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lit, ok := quads[0].O.(Literal); !ok || lit.Datatype.Value != "http://example.org/dt" {
		t.Fatalf("expected datatype literal")
	}
}

func TestNTriplesDecodeEscapes(t *testing.T) {
	line := `<http://example.org/s> <http://example.org/p> "a\"b\né\U0001F600\\" .` + "\n"
	quads, err := readAll(t, line, FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := quads[0].O.(Literal).Lexical; got != "a\"b\né\U0001F600\\" {
		t.Fatalf("unexpected lexical %q", got)
	}
}

func TestNTriplesDecodeUnterminatedIRI(t *testing.T) {
	if _, err := readAll(t, "<http://example.org/s <http://example.org/p> <http://example.org/o> .\n", FormatNTriples); err == nil {
		t.Fatal("expected unterminated IRI error")
	}
}

func TestNTriplesDecodeInvalidBlank(t *testing.T) {
	if _, err := readAll(t, "_: <http://example.org/p> <http://example.org/o> .\n", FormatNTriples); err == nil {
		t.Fatal("expected blank node id error")
	}
}

func TestNTriplesLineTooLong(t *testing.T) {
	line := "<http://example.org/s> <http://example.org/p> \"" + strings.Repeat("x", 64) + "\" .\n"
	_, err := readAll(t, line, FormatNTriples, OptMaxLineBytes(32))
	if !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}
	if Code(err) != ErrCodeLineTooLong {
		t.Fatalf("unexpected code %q", Code(err))
	}
}

// endlessLine is an input holding a single line that never ends.
type endlessLine struct{ read int }

func (r *endlessLine) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'a'
	}
	r.read += len(p)
	return len(p), nil
}

func TestNTriplesLineLimitStopsReading(t *testing.T) {
	src := &endlessLine{}
	dec, err := NewReader(src, FormatNTriples, OptMaxLineBytes(1024))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = dec.Next()
	if !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Line != 1 {
		t.Errorf("expected ParseError on line 1, got %v", err)
	}
	if src.read > 1024+2*4096 {
		t.Errorf("read %d bytes for a 1024 byte limit", src.read)
	}
	if _, err := dec.Next(); !errors.Is(err, ErrLineTooLong) {
		t.Errorf("error not sticky: %v", err)
	}
}

func TestNTriplesLongLineWithinLimit(t *testing.T) {
	value := strings.Repeat("x", 10000)
	input := "<http://example.org/s> <http://example.org/p> \"" + value + "\" .\n" +
		"<http://example.org/s> <http://example.org/p> \"short\" ."
	quads, err := readAll(t, input, FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quads) != 2 {
		t.Fatalf("expected 2 quads, got %d", len(quads))
	}
	if lit := quads[0].O.(Literal); lit.Lexical != value {
		t.Errorf("long literal truncated to %d bytes", len(lit.Lexical))
	}
	if lit := quads[1].O.(Literal); lit.Lexical != "short" {
		t.Errorf("unexpected last literal %q", lit.Lexical)
	}
}

func TestNewReaderUnsupportedFormat(t *testing.T) {
	if _, err := NewReader(strings.NewReader(""), FormatJSONLD); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	err := Parse(ctx, strings.NewReader(input), FormatNTriples, func(Quad) error {
		t.Fatal("handler should not be called")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseHandlerError(t *testing.T) {
	stop := errors.New("stop")
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	err := Parse(context.Background(), strings.NewReader(input), FormatNTriples, func(Quad) error { return stop })
	if !errors.Is(err, stop) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestFormatFromFilename(t *testing.T) {
	cases := map[string]Format{
		"data.nt":      FormatNTriples,
		"data.NQ":      FormatNQuads,
		"out.jsonld":   FormatJSONLD,
		"archive.nq":   FormatNQuads,
		"notes.ttl":    "",
		"no-extension": "",
	}
	for name, want := range cases {
		got, _ := FormatFromFilename(name)
		if got != want {
			t.Fatalf("%s: expected %q, got %q", name, want, got)
		}
	}
}

package quadstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geoknoesis/rdf-jsonld/rdf"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func iri(v string) rdf.IRI { return rdf.IRI{Value: "http://ex.org/" + v} }

func loadNQuads(t *testing.T, s *Store, input string) int {
	t.Helper()
	src, err := rdf.NewReader(strings.NewReader(input), rdf.FormatNQuads)
	if err != nil {
		t.Fatalf("NewReader() failed: %v", err)
	}
	defer src.Close()
	n, err := s.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return n
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("user_version", "1"); err != nil {
		t.Error(err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		if i == 0 {
			if _, err := s.Add(context.Background(), rdf.Quad{S: iri("s"), P: iri("p"), O: iri("o")}); err != nil {
				t.Fatalf("Add() failed: %v", err)
			}
		}
		n, err := s.Count(context.Background())
		if err != nil {
			t.Fatalf("Count() failed: %v", err)
		}
		if n != 1 {
			t.Errorf("iteration %d: Count() = %d, want 1", i, n)
		}
		s.Close()
	}
}

func TestAdd_IgnoresDuplicates(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	q := rdf.Quad{S: iri("s"), P: iri("p"), O: rdf.Literal{Lexical: "x", Lang: "en"}, G: iri("g")}

	added, err := s.Add(ctx, q)
	if err != nil || !added {
		t.Fatalf("first Add() = %v, %v", added, err)
	}
	added, err = s.Add(ctx, q)
	if err != nil || added {
		t.Fatalf("second Add() = %v, %v", added, err)
	}

	// Same statement in the default graph is a different quad.
	q.G = rdf.DefaultGraph{}
	if added, err := s.Add(ctx, q); err != nil || !added {
		t.Fatalf("default graph Add() = %v, %v", added, err)
	}
}

func TestAdd_RejectsUnstorableTerms(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	cases := []rdf.Quad{
		{S: rdf.Literal{Lexical: "s"}, P: iri("p"), O: iri("o")},
		{S: iri("s"), P: iri("p"), O: iri("o"), G: rdf.Literal{Lexical: "g"}},
		{S: iri("s"), P: iri("p")},
		{S: iri("s"), P: iri("p"), O: rdf.DefaultGraph{}},
	}
	for i, q := range cases {
		if _, err := s.Add(ctx, q); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestScan_RoundTripsTerms(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := []rdf.Quad{
		{S: iri("s"), P: iri("p"), O: iri("o")},
		{S: rdf.BlankNode{ID: "b1"}, P: iri("p"), O: rdf.BlankNode{ID: "b2"}, G: rdf.BlankNode{ID: "g"}},
		{S: iri("s"), P: iri("p"), O: rdf.Literal{Lexical: "10", Datatype: rdf.IRI{Value: rdf.XSDInteger}}, G: iri("g")},
		{S: iri("s"), P: iri("p"), O: rdf.Literal{Lexical: "chat", Lang: "fr"}},
	}
	for _, q := range in {
		if _, err := s.Add(ctx, q); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
	}

	var out []rdf.Quad
	if err := s.Scan(ctx, OrderInsertion, func(q rdf.Quad) error {
		out = append(out, q)
		return nil
	}); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("Scan() returned %d quads, want %d", len(out), len(in))
	}
	for i := range in {
		if !rdf.TermsEqual(in[i].S, out[i].S) || !rdf.TermsEqual(in[i].O, out[i].O) || in[i].P != out[i].P {
			t.Errorf("quad %d: got %s, want %s", i, out[i], in[i])
		}
		if in[i].G == nil {
			if !out[i].InDefaultGraph() {
				t.Errorf("quad %d: expected default graph, got %v", i, out[i].G)
			}
		} else if !rdf.TermsEqual(in[i].G, out[i].G) {
			t.Errorf("quad %d: graph %v, want %v", i, out[i].G, in[i].G)
		}
	}
}

func TestScan_GroupedOrder(t *testing.T) {
	s := createTestStore(t)
	loadNQuads(t, s, ""+
		"<http://ex.org/b> <http://ex.org/p> \"1\" <http://ex.org/g> .\n"+
		"<http://ex.org/a> <http://ex.org/p> \"2\" .\n"+
		"<http://ex.org/b> <http://ex.org/p> \"3\" .\n"+
		"<http://ex.org/a> <http://ex.org/p> \"4\" <http://ex.org/g> .\n"+
		"<http://ex.org/a> <http://ex.org/p> \"5\" .\n"+
		"<http://ex.org/b> <http://ex.org/p> \"6\" <http://ex.org/g> .\n")

	collect := func(order Order) string {
		var values []string
		err := s.Scan(context.Background(), order, func(q rdf.Quad) error {
			values = append(values, q.O.(rdf.Literal).Lexical)
			return nil
		})
		if err != nil {
			t.Fatalf("Scan(%s) failed: %v", order, err)
		}
		return strings.Join(values, "")
	}

	if got := collect(OrderInsertion); got != "123456" {
		t.Errorf("insertion order = %s", got)
	}
	if got := collect(OrderGrouped); got != "253416" {
		t.Errorf("grouped order = %s", got)
	}
}

func TestScan_HandlerError(t *testing.T) {
	s := createTestStore(t)
	loadNQuads(t, s, "<http://ex.org/s> <http://ex.org/p> <http://ex.org/o> .\n<http://ex.org/s> <http://ex.org/p> <http://ex.org/o2> .\n")

	stop := errors.New("stop")
	calls := 0
	err := s.Scan(context.Background(), OrderInsertion, func(rdf.Quad) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Scan() error = %v, want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

type failingReader struct {
	quads []rdf.Quad
	err   error
}

func (r *failingReader) Next() (rdf.Quad, error) {
	if len(r.quads) == 0 {
		return rdf.Quad{}, r.err
	}
	q := r.quads[0]
	r.quads = r.quads[1:]
	return q, nil
}

func (r *failingReader) Close() error { return nil }

func TestLoad_RollsBackOnError(t *testing.T) {
	s := createTestStore(t)
	broken := errors.New("broken input")
	src := &failingReader{
		quads: []rdf.Quad{{S: iri("s"), P: iri("p"), O: iri("o")}},
		err:   broken,
	}

	if _, err := s.Load(context.Background(), src); !errors.Is(err, broken) {
		t.Fatalf("Load() error = %v, want %v", err, broken)
	}
	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d after failed load, want 0", n)
	}
}

func TestLoad_CountsNewQuads(t *testing.T) {
	s := createTestStore(t)
	input := "<http://ex.org/s> <http://ex.org/p> <http://ex.org/o> .\n" +
		"<http://ex.org/s> <http://ex.org/p> <http://ex.org/o> .\n" +
		"<http://ex.org/s> <http://ex.org/p> <http://ex.org/o> <http://ex.org/g> .\n"
	if n := loadNQuads(t, s, input); n != 2 {
		t.Errorf("first Load() = %d, want 2", n)
	}
	if n := loadNQuads(t, s, input); n != 0 {
		t.Errorf("second Load() = %d, want 0", n)
	}
}

func TestExport_GroupedMergesNodes(t *testing.T) {
	s := createTestStore(t)
	loadNQuads(t, s, ""+
		"<http://ex.org/a> <http://ex.org/p> <http://ex.org/o1> .\n"+
		"<http://ex.org/b> <http://ex.org/p> <http://ex.org/o2> .\n"+
		"<http://ex.org/a> <http://ex.org/q> <http://ex.org/o3> .\n")
	opts := rdf.JSONLDSerializerOptions{BaseIRI: "http://ex.org/", ExcludeContext: true}

	var buf bytes.Buffer
	entries, err := s.Export(context.Background(), OrderInsertion, &buf, opts)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	want := `[{"@id":"a","http://ex.org/p":[{"@id":"o1"}]},{"@id":"b","http://ex.org/p":[{"@id":"o2"}]},{"@id":"a","http://ex.org/q":[{"@id":"o3"}]}]`
	if entries != 3 || buf.String() != want {
		t.Errorf("insertion export = %d entries\n%s\nwant\n%s", entries, buf.String(), want)
	}

	buf.Reset()
	entries, err = s.Export(context.Background(), OrderGrouped, &buf, opts)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	want = `[{"@id":"a","http://ex.org/p":[{"@id":"o1"}],"http://ex.org/q":[{"@id":"o3"}]},{"@id":"b","http://ex.org/p":[{"@id":"o2"}]}]`
	if entries != 2 || buf.String() != want {
		t.Errorf("grouped export = %d entries\n%s\nwant\n%s", entries, buf.String(), want)
	}
}

func TestExport_GroupedJoinsGraphWithItsNode(t *testing.T) {
	s := createTestStore(t)
	loadNQuads(t, s, ""+
		"<http://ex.org/s> <http://ex.org/p> <http://ex.org/o> <http://ex.org/g> .\n"+
		"<http://ex.org/g> <http://ex.org/label> \"G\" .\n"+
		"<http://ex.org/a> <http://ex.org/p> <http://ex.org/o> .\n"+
		"<http://ex.org/z> <http://ex.org/p> <http://ex.org/o> .\n")
	opts := rdf.JSONLDSerializerOptions{BaseIRI: "http://ex.org/", ExcludeContext: true}

	var buf bytes.Buffer
	entries, err := s.Export(context.Background(), OrderGrouped, &buf, opts)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	want := `[{"@id":"a","http://ex.org/p":[{"@id":"o"}]},` +
		`{"@id":"g","http://ex.org/label":[{"@value":"G"}],"@graph":[{"@id":"s","http://ex.org/p":[{"@id":"o"}]}]},` +
		`{"@id":"z","http://ex.org/p":[{"@id":"o"}]}]`
	if entries != 3 || buf.String() != want {
		t.Errorf("grouped export = %d entries\n%s\nwant\n%s", entries, buf.String(), want)
	}
}

func TestExport_CanceledContext(t *testing.T) {
	s := createTestStore(t)
	loadNQuads(t, s, "<http://ex.org/s> <http://ex.org/p> <http://ex.org/o> .\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadAll(pr)
		done <- err
	}()

	if _, err := s.Export(ctx, OrderInsertion, pw, rdf.JSONLDSerializerOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Export() error = %v, want context.Canceled", err)
	}
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("reader error = %v, want context.Canceled", err)
	}
}

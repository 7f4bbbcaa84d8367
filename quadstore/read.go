package quadstore

import (
	"context"
	"fmt"
	"io"

	"github.com/geoknoesis/rdf-jsonld/rdf"
)

// Order selects the order in which Scan replays quads.
type Order int

const (
	// OrderInsertion replays quads in the order they were first added.
	OrderInsertion Order = iota
	// OrderGrouped replays quads by top-level entry: a default-graph subject
	// or a graph name. The default-graph statements about a node come
	// directly before the graph it names, then its quads by subject.
	OrderGrouped
)

// entryKey is the @id of the top-level entry a row belongs to.
const entryKey = "CASE graph WHEN '' THEN subject ELSE graph END"

func (o Order) orderBy() string {
	if o == OrderGrouped {
		return "ORDER BY " + entryKey + " ASC, graph ASC, subject ASC, seq ASC"
	}
	return "ORDER BY seq ASC"
}

// String returns the order name.
func (o Order) String() string {
	if o == OrderGrouped {
		return "grouped"
	}
	return "insertion"
}

// Count returns the number of stored quads.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quads").Scan(&n); err != nil {
		return 0, fmt.Errorf("count quads: %w", err)
	}
	return n, nil
}

// Scan streams the stored quads to handler in the given order and stops at
// the first handler error, which is returned unchanged. handler must not use
// the store: the single connection is held until Scan returns.
func (s *Store) Scan(ctx context.Context, order Order, handler rdf.Handler) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject, predicate, object_kind, object, datatype, lang, graph
		FROM quads
		`+order.orderBy())
	if err != nil {
		return fmt.Errorf("query quads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var r row
		if err := rows.Scan(&r.subject, &r.predicate, &r.objectKind, &r.object, &r.datatype, &r.lang, &r.graph); err != nil {
			return fmt.Errorf("scan quad: %w", err)
		}
		q, err := r.quad()
		if err != nil {
			return err
		}
		if err := handler(q); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate quads: %w", err)
	}
	return nil
}

// Export writes the stored quads to w as one JSON-LD document and returns the
// number of top-level entries written. A failed scan aborts the serializer,
// leaving the document incomplete.
func (s *Store) Export(ctx context.Context, order Order, w io.Writer, opts rdf.JSONLDSerializerOptions) (int, error) {
	ser, err := rdf.NewJSONLDSerializer(w, opts)
	if err != nil {
		return 0, err
	}
	if err := s.Scan(ctx, order, ser.Write); err != nil {
		ser.Abort(err)
		return ser.Entries(), err
	}
	if err := ser.Close(); err != nil {
		return ser.Entries(), err
	}
	return ser.Entries(), nil
}

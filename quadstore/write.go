package quadstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/geoknoesis/rdf-jsonld/rdf"
)

const insertQuad = `
	INSERT INTO quads (subject, predicate, object_kind, object, datatype, lang, graph)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING
`

// Add stores one quad. Adding a quad that is already stored is silently
// ignored and reports false.
func (s *Store) Add(ctx context.Context, q rdf.Quad) (bool, error) {
	r, err := encodeQuad(q)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, insertQuad,
		r.subject, r.predicate, r.objectKind, r.object, r.datatype, r.lang, r.graph)
	if err != nil {
		return false, fmt.Errorf("add quad: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add quad: %w", err)
	}
	return n > 0, nil
}

// Load stores every quad of src in one transaction and returns how many were
// new. Nothing is stored when src or ctx fails.
func (s *Store) Load(ctx context.Context, src rdf.Reader) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("load: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertQuad)
	if err != nil {
		return 0, fmt.Errorf("load: prepare: %w", err)
	}
	defer stmt.Close()

	added, err := loadRows(ctx, stmt, src)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("load: commit: %w", err)
	}
	return added, nil
}

func loadRows(ctx context.Context, stmt *sql.Stmt, src rdf.Reader) (int, error) {
	added := 0
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		q, err := src.Next()
		if err == io.EOF {
			return added, nil
		}
		if err != nil {
			return 0, err
		}
		r, err := encodeQuad(q)
		if err != nil {
			return 0, err
		}
		res, err := stmt.ExecContext(ctx,
			r.subject, r.predicate, r.objectKind, r.object, r.datatype, r.lang, r.graph)
		if err != nil {
			return 0, fmt.Errorf("load: insert: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			added++
		}
	}
}

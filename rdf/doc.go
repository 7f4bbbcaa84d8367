// Package rdf provides a compact RDF model, line-based quad readers and a
// streaming JSON-LD serializer.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// The serializer turns an ordered quad stream into one JSON-LD document in a
// single pass, keeping only the top-level node that is still open for merges:
//   - Read: NewReader() and Parse() decode N-Triples and N-Quads.
//   - Write: NewJSONLDSerializer() accepts quads one at a time; Close()
//     completes the document.
//   - Drive: SerializeJSONLD() pulls a Reader to the end and writes the result.
//
// Compaction is driven by an already-resolved context (JSONLDContext): terms,
// prefixes, @vocab and @base shorten IRIs on output. Lists are built with
// JSONLDSerializer.List and written as {"@list": [...]}.
//
// Example (N-Quads to JSON-LD):
//
//	src, err := rdf.NewReader(os.Stdin, rdf.FormatNQuads)
//	if err != nil {
//	    // handle error
//	}
//	defer src.Close()
//
//	opts := rdf.JSONLDSerializerOptions{BaseIRI: "http://example.org/", Space: "  "}
//	if err := rdf.SerializeJSONLD(ctx, src, os.Stdout, opts); err != nil {
//	    // handle error
//	}
//
// Grouping only looks at the previous quad. Quads of one graph, and quads of
// one subject within it, must be contiguous to be merged into one node;
// otherwise the same @id is written more than once.
package rdf

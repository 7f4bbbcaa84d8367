package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeEncoding indicates a literal could not be converted to a native JSON value.
	ErrCodeEncoding ErrorCode = "ENCODING_ERROR"
	// ErrCodeInvalidContext indicates a malformed JSON-LD context.
	ErrCodeInvalidContext ErrorCode = "INVALID_CONTEXT"
	// ErrCodeWriterClosed indicates a write after Close or Abort.
	ErrCodeWriterClosed ErrorCode = "WRITER_CLOSED"
	// ErrCodeIOError indicates a failure of the underlying reader or writer.
	ErrCodeIOError ErrorCode = "IO_ERROR"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrInvalidContext indicates a malformed JSON-LD context.
	ErrInvalidContext = errors.New("jsonld: invalid context")
	// ErrWriterClosed is returned by writes after Close.
	ErrWriterClosed = errors.New("jsonld: writer closed")
	// ErrSerializerAborted is returned by writes after Abort.
	ErrSerializerAborted = errors.New("jsonld: serializer aborted")
	// ErrInvalidUTF8 indicates a term whose text is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("jsonld: invalid UTF-8")
)

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrInvalidContext):
		return ErrCodeInvalidContext
	case errors.Is(err, ErrWriterClosed), errors.Is(err, ErrSerializerAborted):
		return ErrCodeWriterClosed
	case errors.Is(err, ErrInvalidUTF8):
		return ErrCodeEncoding
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}

	var encErr *EncodingError
	if errors.As(err, &encErr) {
		return ErrCodeEncoding
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if underlying := Code(parseErr.Err); underlying != ErrCodeParseError && underlying != "" {
			return underlying
		}
		return ErrCodeParseError
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return ErrCodeIOError
	}

	return ErrCodeParseError
}

// EncodingError reports a typed literal whose lexical form is not valid for
// its datatype while native type conversion is enabled.
type EncodingError struct {
	Datatype string // Datatype IRI
	Lexical  string // Offending lexical form
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("Invalid xsd:%s value '%s'", localName(e.Datatype), e.Lexical)
}

// IOError marks a failure reported by the sink a serializer writes to.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return "jsonld: write: " + e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string // Format name (e.g., "nquads", "ntriples")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)
	if e.Line > 0 {
		fmt.Fprintf(&msg, ":%d", e.Line)
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())
	if e.Statement != "" {
		const maxExcerptLen = 80
		excerpt := e.Statement
		if len(excerpt) > maxExcerptLen {
			excerpt = excerpt[:maxExcerptLen] + "..."
		}
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// localName returns the part of an IRI after the last '#' or '/'.
func localName(iri string) string {
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

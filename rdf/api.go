package rdf

import (
	"context"
	"io"
)

// DefaultMaxLineBytes is the default per-line limit of the line-based readers.
const DefaultMaxLineBytes = 1 << 20

// Reader streams RDF quads from an input.
// Next returns io.EOF once the input is exhausted.
type Reader interface {
	Next() (Quad, error)
	Close() error
}

// Handler processes quads in push mode.
type Handler func(Quad) error

// Option configures reader behavior.
type Option func(*Options)

// Options configures reader behavior.
type Options struct {
	// Context for cancellation and timeouts
	Context context.Context

	// MaxLineBytes limits the length of one input line. Negative disables the limit.
	MaxLineBytes int
}

// NewReader creates a reader for the specified format.
// Only the line-based formats (N-Triples, N-Quads) can be read.
func NewReader(r io.Reader, format Format, opts ...Option) (Reader, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	switch format {
	case FormatNTriples, FormatNQuads:
		return newNQuadsDecoder(r, format, options), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Parse parses RDF from the reader and streams quads to the handler.
// If ctx is nil, context.Background() is used as the default.
func Parse(ctx context.Context, r io.Reader, format Format, handler Handler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := NewReader(r, format, append(opts, OptContext(ctx))...)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		q, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := handler(q); err != nil {
			return err
		}
	}
}

// OptContext sets the context for cancellation and timeouts.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

func defaultOptions() Options {
	return Options{
		MaxLineBytes: DefaultMaxLineBytes,
	}
}

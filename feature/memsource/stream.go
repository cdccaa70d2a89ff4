package memsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"reconciler/core/compare"
	"reconciler/core/tuple"
)

var (
	// ErrNotOpen is returned by Next before Open or after Close.
	ErrNotOpen = errors.New("stream is not open")
)

// Option configures a Stream.
type Option func(*Stream)

// WithKey sorts rows by the named key columns on Open.
func WithKey(names ...string) Option {
	return func(s *Stream) { s.key = names }
}

// WithResolver sets the resolver used to order keys. Defaults to compare.DefaultResolver().
func WithResolver(r *compare.Resolver) Option {
	return func(s *Stream) {
		if r != nil {
			s.resolver = r
		}
	}
}

// Stream yields a fixed set of tuples.
type Stream struct {
	schema   *tuple.Schema
	rows     []*tuple.Tuple
	key      []string
	resolver *compare.Resolver

	pos    int
	open   bool
	closed bool
}

// NewTuples creates a stream over rows, which must all use schema.
func NewTuples(schema *tuple.Schema, rows []*tuple.Tuple, opts ...Option) *Stream {
	s := &Stream{
		schema:   schema,
		rows:     slices.Clone(rows),
		resolver: compare.DefaultResolver(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromRows coerces each raw row against schema and creates a stream over them.
func FromRows(schema *tuple.Schema, rows [][]any, opts ...Option) (*Stream, error) {
	tuples := make([]*tuple.Tuple, 0, len(rows))
	for i, raw := range rows {
		t, err := tuple.Make(schema, raw...)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		tuples = append(tuples, t)
	}
	return NewTuples(schema, tuples, opts...), nil
}

// Schema returns the stream's schema.
func (s *Stream) Schema(context.Context) (*tuple.Schema, error) {
	if s.schema == nil {
		return nil, errors.New("stream has no schema")
	}
	return s.schema, nil
}

// Open rewinds the stream and sorts it when a key is configured.
func (s *Stream) Open(context.Context) error {
	if s.closed {
		return errors.New("stream is closed")
	}
	if len(s.key) > 0 {
		if err := SortTuples(s.rows, s.schema, s.key, s.resolver); err != nil {
			return err
		}
	}
	s.pos = 0
	s.open = true
	return nil
}

// Next returns the next tuple or io.EOF.
func (s *Stream) Next(ctx context.Context) (*tuple.Tuple, error) {
	if !s.open {
		return nil, ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	t := s.rows[s.pos]
	s.pos++
	return t, nil
}

// Close ends the stream.
func (s *Stream) Close() error {
	s.open = false
	s.closed = true
	return nil
}

// Len returns the number of rows.
func (s *Stream) Len() int { return len(s.rows) }

// SortTuples stably sorts rows in ascending key order using the comparators
// resolver picks for the key columns of schema.
func SortTuples(rows []*tuple.Tuple, schema *tuple.Schema, key []string, resolver *compare.Resolver) error {
	if resolver == nil {
		resolver = compare.DefaultResolver()
	}

	idx := make([]int, len(key))
	cmps := make([]compare.Comparator, len(key))
	for i, name := range key {
		j, ok := schema.Index(name)
		if !ok {
			return fmt.Errorf("key column %q not found", name)
		}
		c, err := resolver.Resolve(schema.At(j))
		if err != nil {
			return fmt.Errorf("key column %q: %w", name, err)
		}
		idx[i], cmps[i] = j, c
	}

	slices.SortStableFunc(rows, func(a, b *tuple.Tuple) int {
		for i, j := range idx {
			if r := cmps[i].Compare(a.At(j), b.At(j)); r != 0 {
				return r
			}
		}
		return 0
	})
	return nil
}

package filesource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"reconciler/core/compare"
	"reconciler/core/storage"
	"reconciler/core/tuple"
	"reconciler/feature/memsource"

	"github.com/minio/minio-go/v7"
)

// Opener returns the raw CSV content.
type Opener func(ctx context.Context) (io.ReadCloser, error)

// Option configures a Stream.
type Option func(*Stream)

// WithDelimiter sets the field delimiter. Defaults to ','.
func WithDelimiter(r rune) Option {
	return func(s *Stream) { s.delimiter = r }
}

// WithColumnKinds declares the kind of the named columns.
func WithColumnKinds(kinds map[string]tuple.Kind) Option {
	return func(s *Stream) {
		for name, kind := range kinds {
			s.kinds[tuple.NormalizeName(name)] = kind
		}
	}
}

// Unsorted makes Open sort the whole file by the named key columns.
func Unsorted(key ...string) Option {
	return func(s *Stream) { s.sortKey = key }
}

// WithResolver sets the resolver used to sort unsorted files.
func WithResolver(r *compare.Resolver) Option {
	return func(s *Stream) { s.resolver = r }
}

// Stream is a CSV reconcile stream.
type Stream struct {
	name      string
	open      Opener
	delimiter rune
	kinds     map[string]tuple.Kind
	sortKey   []string
	resolver  *compare.Resolver

	rc     io.ReadCloser
	reader *csv.Reader
	schema *tuple.Schema
	line   int

	// sorted holds the staged rows of an unsorted file.
	sorted *memsource.Stream
}

// New creates a stream reading CSV content from open. name is used in errors.
func New(name string, open Opener, opts ...Option) *Stream {
	s := &Stream{
		name:      name,
		open:      open,
		delimiter: ',',
		kinds:     make(map[string]tuple.Kind),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFile creates a stream over a local CSV file.
func NewFile(path string, opts ...Option) *Stream {
	return New(path, func(context.Context) (io.ReadCloser, error) {
		return os.Open(path)
	}, opts...)
}

// NewObject creates a stream over a CSV object in storage.
func NewObject(client storage.Client, bucket, object string, opts ...Option) *Stream {
	return New(bucket+"/"+object, func(ctx context.Context) (io.ReadCloser, error) {
		return client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	}, opts...)
}

// Schema reads the header and returns the schema. The source is opened on
// first call and kept open for Open.
func (s *Stream) Schema(ctx context.Context) (*tuple.Schema, error) {
	if s.schema != nil {
		return s.schema, nil
	}
	if err := s.readHeader(ctx); err != nil {
		return nil, err
	}
	return s.schema, nil
}

func (s *Stream) readHeader(ctx context.Context) error {
	rc, err := s.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.name, err)
	}
	s.rc = rc
	s.reader = csv.NewReader(rc)
	s.reader.Comma = s.delimiter
	s.reader.ReuseRecord = false

	header, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: missing header", s.name)
	}
	if err != nil {
		return fmt.Errorf("%s: failed to read header: %w", s.name, err)
	}
	s.line = 1

	cols := make([]tuple.Column, len(header))
	for i, label := range header {
		if i == 0 {
			label = trimBOM(label)
		}
		if kind, ok := s.kinds[tuple.NormalizeName(label)]; ok {
			cols[i] = tuple.NewStrongColumn(label, kind)
		} else {
			cols[i] = tuple.NewColumn(label, tuple.KindText)
		}
	}
	schema, err := tuple.NewSchema(cols...)
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	s.schema = schema
	return nil
}

// Open prepares the stream, staging and sorting all rows for unsorted files.
func (s *Stream) Open(ctx context.Context) error {
	if s.schema == nil {
		if err := s.readHeader(ctx); err != nil {
			return err
		}
	}
	if len(s.sortKey) == 0 {
		return nil
	}

	var rows []*tuple.Tuple
	for {
		t, err := s.read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		rows = append(rows, t)
	}

	s.sorted = memsource.NewTuples(s.schema, rows,
		memsource.WithKey(s.sortKey...),
		memsource.WithResolver(s.resolver),
	)
	return s.sorted.Open(ctx)
}

// Next returns the next row or io.EOF.
func (s *Stream) Next(ctx context.Context) (*tuple.Tuple, error) {
	if s.sorted != nil {
		return s.sorted.Next(ctx)
	}
	if s.reader == nil {
		return nil, errors.New("stream is not open")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.read()
}

func (s *Stream) read() (*tuple.Tuple, error) {
	record, err := s.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	s.line++

	raw := make([]any, len(record))
	for i, cell := range record {
		raw[i] = cell
	}
	t, err := tuple.Make(s.schema, raw...)
	if err != nil {
		return nil, fmt.Errorf("%s record %d: %w", s.name, s.line, err)
	}
	return t, nil
}

// Close closes the underlying source.
func (s *Stream) Close() error {
	if s.sorted != nil {
		_ = s.sorted.Close()
	}
	if s.rc == nil {
		return nil
	}
	rc := s.rc
	s.rc = nil
	s.reader = nil
	return rc.Close()
}

func trimBOM(s string) string {
	if len(s) >= 3 && s[0] == 0xEF && s[1] == 0xBB && s[2] == 0xBF {
		return s[3:]
	}
	return s
}

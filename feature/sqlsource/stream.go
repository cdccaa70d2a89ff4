package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"reconciler/core/database"
	"reconciler/core/tuple"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Option configures a Stream.
type Option func(*Stream)

// WithColumns restricts a table stream to the named columns, in that order.
func WithColumns(names ...string) Option {
	return func(s *Stream) { s.columns = names }
}

// WithLogger sets the logger used to report the executed statement.
func WithLogger(l *zap.Logger) Option {
	return func(s *Stream) {
		if l != nil {
			s.logger = l
		}
	}
}

// Stream reads ordered rows from a table or query.
type Stream struct {
	db      *gorm.DB
	table   string
	query   string
	key     []string
	columns []string
	logger  *zap.Logger

	schema *tuple.Schema
	rows   *sql.Rows
}

// NewTable creates a stream over every row of table ordered by key.
func NewTable(db *gorm.DB, table string, key []string, opts ...Option) *Stream {
	return newStream(db, table, "", key, opts)
}

// NewQuery creates a stream over the rows of query ordered by key. The query
// must not carry its own ORDER BY.
func NewQuery(db *gorm.DB, query string, key []string, opts ...Option) *Stream {
	return newStream(db, "", strings.TrimRight(strings.TrimSpace(query), ";"), key, opts)
}

func newStream(db *gorm.DB, table, query string, key []string, opts []Option) *Stream {
	s := &Stream{db: db, table: table, query: query, key: key, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schema returns the column layout of the table or query.
func (s *Stream) Schema(ctx context.Context) (*tuple.Schema, error) {
	if s.schema != nil {
		return s.schema, nil
	}

	var (
		schema *tuple.Schema
		err    error
	)
	if s.table != "" {
		schema, err = s.tableSchema(ctx)
	} else {
		schema, err = s.querySchema(ctx)
	}
	if err != nil {
		return nil, err
	}
	s.schema = schema
	return schema, nil
}

func (s *Stream) tableSchema(ctx context.Context) (*tuple.Schema, error) {
	full, err := database.TableSchema(s.db.WithContext(ctx), s.table)
	if err != nil {
		return nil, err
	}
	if len(s.columns) == 0 {
		return full, nil
	}

	cols := make([]tuple.Column, 0, len(s.columns))
	for _, name := range s.columns {
		col, ok := full.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("column %q not found in table %s", name, s.table)
		}
		cols = append(cols, col)
	}
	return tuple.NewSchema(cols...)
}

func (s *Stream) querySchema(ctx context.Context) (*tuple.Schema, error) {
	if s.query == "" {
		return nil, errors.New("either a table or a query is required")
	}

	rows, err := s.db.WithContext(ctx).Raw(fmt.Sprintf("SELECT * FROM (%s) src WHERE 1=0", s.query)).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to probe query columns: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read query column types: %w", err)
	}

	cols := make([]tuple.Column, len(types))
	for i, ct := range types {
		cols[i] = tuple.NewStrongColumn(ct.Name(), tuple.KindFromDatabaseType(ct.DatabaseTypeName()))
	}
	return tuple.NewSchema(cols...)
}

// Statement returns the SQL executed by Open.
func (s *Stream) Statement() string {
	order := make([]string, len(s.key))
	for i, k := range s.key {
		order[i] = s.db.Statement.Quote(s.identifier(k))
	}

	var b strings.Builder
	if s.table != "" {
		b.WriteString("SELECT ")
		if s.schema == nil {
			b.WriteString("*")
		} else {
			for i, col := range s.schema.Columns() {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(s.db.Statement.Quote(col.Label))
			}
		}
		b.WriteString(" FROM ")
		b.WriteString(s.db.Statement.Quote(s.table))
	} else {
		b.WriteString("SELECT * FROM (")
		b.WriteString(s.query)
		b.WriteString(") src")
	}
	if len(order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(order, ", "))
	}
	return b.String()
}

// identifier maps a key name to the column label reported by the database.
func (s *Stream) identifier(name string) string {
	if s.schema != nil {
		if col, ok := s.schema.Lookup(name); ok {
			return col.Label
		}
	}
	return name
}

// Open executes the ordered statement.
func (s *Stream) Open(ctx context.Context) error {
	if _, err := s.Schema(ctx); err != nil {
		return err
	}

	stmt := s.Statement()
	s.logger.Debug("Executing source statement", zap.String("sql", stmt))

	rows, err := s.db.WithContext(ctx).Raw(stmt).Rows()
	if err != nil {
		return fmt.Errorf("failed to query rows: %w", err)
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return fmt.Errorf("failed to read result columns: %w", err)
	}
	if len(cols) != s.schema.Len() {
		rows.Close()
		return fmt.Errorf("result has %d columns, schema has %d", len(cols), s.schema.Len())
	}

	s.rows = rows
	return nil
}

// Next scans the next row or returns io.EOF.
func (s *Stream) Next(context.Context) (*tuple.Tuple, error) {
	if s.rows == nil {
		return nil, errors.New("stream is not open")
	}
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate rows: %w", err)
		}
		return nil, io.EOF
	}

	n := s.schema.Len()
	values := make([]any, n)
	valuePtrs := make([]any, n)
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := s.rows.Scan(valuePtrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return tuple.Make(s.schema, values...)
}

// Close releases the result set.
func (s *Stream) Close() error {
	if s.rows == nil {
		return nil
	}
	rows := s.rows
	s.rows = nil
	return rows.Close()
}

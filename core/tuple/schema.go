package tuple

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateColumn is returned when a schema would contain two columns with the same name.
var ErrDuplicateColumn = errors.New("duplicate column")

// Schema is an ordered, immutable set of columns.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema builds a schema from columns in order. Column names must be
// non-empty and unique.
func NewSchema(columns ...Column) (*Schema, error) {
	s := &Schema{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" {
			col.Name = NormalizeName(col.Label)
		}
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if prev, exists := s.index[col.Name]; exists {
			return nil, fmt.Errorf("%w %q at positions %d and %d", ErrDuplicateColumn, col.Name, prev, i)
		}
		s.columns[i] = col
		s.index[col.Name] = i
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for fixed,
// program-defined schemas.
func MustSchema(columns ...Column) *Schema {
	s, err := NewSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.columns) }

// At returns the column at ordinal i. It panics if i is out of range.
func (s *Schema) At(i int) Column { return s.columns[i] }

// Index returns the ordinal of the named column. The name is normalized first,
// so "Order Date" and "order_date" find the same column.
func (s *Schema) Index(name string) (int, bool) {
	if i, ok := s.index[name]; ok {
		return i, true
	}
	i, ok := s.index[NormalizeName(name)]
	return i, ok
}

// Lookup returns the named column.
func (s *Schema) Lookup(name string) (Column, bool) {
	i, ok := s.Index(name)
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// Contains reports whether the schema has the named column.
func (s *Schema) Contains(name string) bool {
	_, ok := s.Index(name)
	return ok
}

// Columns returns a copy of the columns in order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

// String renders the schema as "name:kind" pairs.
func (s *Schema) String() string {
	parts := make([]string, len(s.columns))
	for i, c := range s.columns {
		parts[i] = c.Name + ":" + c.Kind.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

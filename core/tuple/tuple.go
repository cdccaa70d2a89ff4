package tuple

import (
	"errors"
	"fmt"
	"strings"
)

// ErrArity is returned when the number of values does not match the schema width.
var ErrArity = errors.New("value count does not match schema")

// Tuple is one immutable row bound to a Schema.
type Tuple struct {
	schema *Schema
	values []Value
}

// New creates a tuple from values positionally aligned with schema.
// The values are copied. Strongly typed columns must hold values of their
// declared kind or Null.
func New(schema *Schema, values []Value) (*Tuple, error) {
	if schema == nil {
		return nil, errors.New("tuple requires a schema")
	}
	if len(values) != schema.Len() {
		return nil, fmt.Errorf("%w: got %d values for %d columns", ErrArity, len(values), schema.Len())
	}
	for i, v := range values {
		col := schema.At(i)
		if col.Strong && !v.IsNull() && v.Kind() != col.Kind {
			return nil, fmt.Errorf("column %q is declared %s but holds %s", col.Name, col.Kind, v.Kind())
		}
	}
	vals := make([]Value, len(values))
	copy(vals, values)
	return &Tuple{schema: schema, values: vals}, nil
}

// Make creates a tuple from raw Go values, coercing each into its column's kind.
func Make(schema *Schema, raw ...any) (*Tuple, error) {
	if schema == nil {
		return nil, errors.New("tuple requires a schema")
	}
	if len(raw) != schema.Len() {
		return nil, fmt.Errorf("%w: got %d values for %d columns", ErrArity, len(raw), schema.Len())
	}
	values := make([]Value, len(raw))
	for i, r := range raw {
		col := schema.At(i)
		v, err := Coerce(col.Kind, r)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		values[i] = v
	}
	return &Tuple{schema: schema, values: values}, nil
}

// Schema returns the schema the tuple is bound to.
func (t *Tuple) Schema() *Schema { return t.schema }

// Len returns the number of values.
func (t *Tuple) Len() int { return len(t.values) }

// At returns the value at ordinal i, or Null when i is out of range.
func (t *Tuple) At(i int) Value {
	if i < 0 || i >= len(t.values) {
		return Null()
	}
	return t.values[i]
}

// Get returns the value of the named column. A column the schema does not
// have yields Null and false.
func (t *Tuple) Get(name string) (Value, bool) {
	i, ok := t.schema.Index(name)
	if !ok {
		return Null(), false
	}
	return t.values[i], true
}

// Value returns the value for col, matched by name, or Null.
func (t *Tuple) Value(col Column) Value {
	v, _ := t.Get(col.Name)
	return v
}

// Values returns a copy of all values in schema order.
func (t *Tuple) Values() []Value {
	out := make([]Value, len(t.values))
	copy(out, t.values)
	return out
}

// Key projects the named columns, in order. Missing columns yield Null.
func (t *Tuple) Key(names []string) []Value {
	out := make([]Value, len(names))
	for i, n := range names {
		out[i], _ = t.Get(n)
	}
	return out
}

// String renders the tuple as "name=value" pairs.
func (t *Tuple) String() string {
	parts := make([]string, len(t.values))
	for i, v := range t.values {
		parts[i] = t.schema.At(i).Name + "=" + v.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

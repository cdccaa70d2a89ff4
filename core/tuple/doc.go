// Package tuple defines the row data model the reconciliation engine operates on.
//
// # Values
//
// Column values are carried as Value, a closed tagged union over the supported
// primitive categories: text, integer, floating point, exact decimal, boolean,
// timestamp, raw bytes and opaque host values. The zero Value is Null, which is
// also the "no value" result of looking up a column a tuple does not have.
//
// # Columns and Schemas
//
// A Column describes one field: a normalized Name derived from its display
// Label, the declared Kind, and whether the kind is Strong (authoritative, as
// declared by a database) or merely inferred. Columns are identified by Name only.
//
// A Schema is an ordered, immutable set of columns with constant time lookups by
// name and ordinal. A Schema is built once per stream and shared by pointer by
// every Tuple that stream produces.
//
// # Tuples
//
// A Tuple is one immutable row of values positionally aligned with its Schema.
//
// # Usage
//
//	schema, err := tuple.NewSchema(
//	    tuple.NewStrongColumn("ID", tuple.KindInteger),
//	    tuple.NewColumn("Display Name", tuple.KindText),
//	)
//	row, err := tuple.Make(schema, 1, "alpha")
//	name, ok := row.Get("display_name")
package tuple

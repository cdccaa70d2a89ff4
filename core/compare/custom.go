package compare

import (
	"fmt"

	"reconciler/core/tuple"
)

// Bound is a user comparator restricted either to one column name or to one kind.
type Bound struct {
	column string
	kind   tuple.Kind
	byKind bool
	fn     Func
}

// ForColumn binds fn to the column with the given name (normalized before matching).
func ForColumn(name string, fn Func) *Bound {
	return &Bound{column: tuple.NormalizeName(name), fn: fn}
}

// ForKind binds fn to every column declared with kind.
func ForKind(kind tuple.Kind, fn Func) *Bound {
	return &Bound{kind: kind, byKind: true, fn: fn}
}

// Accepts implements Comparator.
func (b *Bound) Accepts(col tuple.Column) bool {
	if b.byKind {
		return col.Kind == b.kind
	}
	return col.Name == b.column
}

// Compare implements Comparator.
func (b *Bound) Compare(x, y tuple.Value) int {
	return b.fn(x, y)
}

// String describes the binding.
func (b *Bound) String() string {
	if b.byKind {
		return fmt.Sprintf("kind:%s", b.kind)
	}
	return fmt.Sprintf("column:%s", b.column)
}

// ColumnTolerance binds a tolerance comparator with its own epsilon to one column.
func ColumnTolerance(name string, epsilon float64) *Bound {
	return ForColumn(name, NewTolerance(epsilon).Compare)
}

// Ignore is a comparison that judges every pair of values equal.
func Ignore(tuple.Value, tuple.Value) int { return 0 }

// NaturalFunc exposes the natural ordering as a Func for composition in custom comparators.
func NaturalFunc(a, b tuple.Value) int { return compareNatural(a, b) }

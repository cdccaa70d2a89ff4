package compare

import "reconciler/core/tuple"

// Comparator is an equality and ordering rule for the values of one column.
type Comparator interface {
	// Accepts reports whether the comparator can judge values of col.
	Accepts(col tuple.Column) bool
	// Compare returns a negative number when a < b, zero when they are equal
	// and a positive number when a > b.
	Compare(a, b tuple.Value) int
}

// Func is a three-way comparison over two values.
type Func func(a, b tuple.Value) int

// Equal reports whether cmp judges a and b equal.
func Equal(cmp Comparator, a, b tuple.Value) bool {
	return cmp.Compare(a, b) == 0
}

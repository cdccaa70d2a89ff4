package compare

import (
	"strings"

	"reconciler/core/tuple"

	"github.com/shopspring/decimal"
)

// DefaultEpsilon is the tolerance used for numeric columns unless configured otherwise.
const DefaultEpsilon = 1e-5

// Tolerance compares numbers, treating an absolute difference strictly below
// Epsilon as equal. Absent values count as zero. The difference is computed in
// exact decimal arithmetic, so a difference of exactly Epsilon is unequal.
//
// The equality relation is not transitive: with epsilon 1, 0 equals 0.6 and
// 0.6 equals 1.2, while 0 does not equal 1.2.
type Tolerance struct {
	epsilon decimal.Decimal
}

// NewTolerance returns a tolerance comparator. A non-positive epsilon means
// exact numeric equality.
func NewTolerance(epsilon float64) *Tolerance {
	if epsilon < 0 {
		epsilon = 0
	}
	return &Tolerance{epsilon: decimal.NewFromFloat(epsilon)}
}

// Epsilon returns the configured tolerance.
func (t *Tolerance) Epsilon() decimal.Decimal { return t.epsilon }

// Accepts reports whether the column is numeric.
func (t *Tolerance) Accepts(col tuple.Column) bool {
	return col.Kind.Numeric()
}

// Compare implements Comparator.
func (t *Tolerance) Compare(a, b tuple.Value) int {
	da, okA := number(a)
	db, okB := number(b)
	if !okA || !okB {
		return compareNatural(a, b)
	}
	d := da.Sub(db)
	if d.Abs().LessThan(t.epsilon) {
		return 0
	}
	return d.Sign()
}

// number reads a value as a decimal. Null is zero; text is parsed so that
// weakly typed sources can still be compared numerically.
func number(v tuple.Value) (decimal.Decimal, bool) {
	switch v.Kind() {
	case tuple.KindNull:
		return decimal.Zero, true
	case tuple.KindText:
		d, err := decimal.NewFromString(strings.TrimSpace(v.Text()))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return v.Number()
}

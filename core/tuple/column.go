package tuple

import (
	"strings"
	"unicode"
)

// Column describes one field of a Schema.
type Column struct {
	// Name is the normalized identifier, unique within a Schema.
	Name string
	// Label is the display string the name was derived from.
	Label string
	// Kind is the declared value kind.
	Kind Kind
	// Strong marks the kind as authoritative: tuples must hold values of
	// exactly this kind (or Null) in this column.
	Strong bool
}

// NewColumn creates a weakly typed column whose name is derived from label.
func NewColumn(label string, kind Kind) Column {
	return Column{Name: NormalizeName(label), Label: label, Kind: kind}
}

// NewStrongColumn creates a strongly typed column whose name is derived from label.
func NewStrongColumn(label string, kind Kind) Column {
	c := NewColumn(label, kind)
	c.Strong = true
	return c
}

// Is reports whether both columns have the same identity. Only Name takes part.
func (c Column) Is(other Column) bool {
	return c.Name == other.Name
}

// String returns the column label, falling back to its name.
func (c Column) String() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// NormalizeName derives a column identifier from a label: surrounding space is
// trimmed, letters are lower-cased and every internal run of whitespace becomes
// a single underscore. "  Order  Date " normalizes to "order_date".
func NormalizeName(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	space := false
	for _, r := range strings.TrimSpace(label) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte('_')
			space = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

package report

import (
	"strings"

	"reconciler/core/reconcile"
	"reconciler/core/tuple"
)

// keyValues renders the key columns of the event's tuple. Without key names the
// whole tuple is rendered.
func keyValues(ev reconcile.Event, keys []string) []string {
	t := ev.Tuple()
	if t == nil {
		return make([]string, len(keys))
	}
	if len(keys) == 0 {
		return []string{t.String()}
	}
	values := t.Key(keys)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

// keyString renders "id=1 region=eu".
func keyString(ev reconcile.Event, keys []string) string {
	values := keyValues(ev, keys)
	if len(keys) == 0 {
		return strings.Join(values, " ")
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + values[i]
	}
	return strings.Join(parts, " ")
}

func columnNames(cols []tuple.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// display renders a value, marking absent values.
func display(v tuple.Value) string {
	if v.IsNull() {
		return "<null>"
	}
	return v.String()
}

package reconcile

import (
	"fmt"
	"strings"

	"reconciler/core/tuple"
)

// EventKind tags a compare event.
type EventKind int

const (
	// OnlyLeft: the key exists only in the left stream.
	OnlyLeft EventKind = iota + 1
	// OnlyRight: the key exists only in the right stream.
	OnlyRight
	// Matched: both sides have the key and every compared field is equal.
	Matched
	// Break: both sides have the key and at least one compared field differs.
	Break
	// DataLeft passes through a tuple consumed from the left stream.
	DataLeft
	// DataRight passes through a tuple consumed from the right stream.
	DataRight
)

var eventKindNames = map[EventKind]string{
	OnlyLeft:  "ONLY_LEFT",
	OnlyRight: "ONLY_RIGHT",
	Matched:   "MATCHED",
	Break:     "BREAK",
	DataLeft:  "DATA_LEFT",
	DataRight: "DATA_RIGHT",
}

// String returns the upper-case event name, e.g. "ONLY_LEFT".
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Difference is one non-key column whose values differ on a broken key.
type Difference struct {
	Column tuple.Column
	Left   tuple.Value
	Right  tuple.Value
}

// String renders the difference as "column: left=x right=y".
func (d Difference) String() string {
	return fmt.Sprintf("%s: left=%s right=%s", d.Column.Name, d.Left, d.Right)
}

// Event is the outcome of one key position, or one pass-through tuple.
//
// Left is set for OnlyLeft, Matched, Break and DataLeft. Right is set for
// OnlyRight, Matched, Break and DataRight. Differences is set for Break only,
// in left schema column order.
type Event struct {
	Kind        EventKind
	Left        *tuple.Tuple
	Right       *tuple.Tuple
	Differences []Difference
}

// Tuple returns the tuple that carries the event's key: the left tuple when
// present, otherwise the right one.
func (e Event) Tuple() *tuple.Tuple {
	if e.Left != nil {
		return e.Left
	}
	return e.Right
}

// Key returns the values of the named key columns from the event's tuple.
func (e Event) Key(names []string) []tuple.Value {
	t := e.Tuple()
	if t == nil {
		return nil
	}
	return t.Key(names)
}

// String renders the event for logs.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Left != nil {
		b.WriteString(" left=")
		b.WriteString(e.Left.String())
	}
	if e.Right != nil {
		b.WriteString(" right=")
		b.WriteString(e.Right.String())
	}
	for _, d := range e.Differences {
		b.WriteString(" [")
		b.WriteString(d.String())
		b.WriteString("]")
	}
	return b.String()
}

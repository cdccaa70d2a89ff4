package reconcile

import "context"

// Consumer reacts to compare events. A returned error stops the run.
type Consumer interface {
	HandleEvent(ctx context.Context, ev Event) error
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(ctx context.Context, ev Event) error

// HandleEvent calls f.
func (f ConsumerFunc) HandleEvent(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// LayoutConsumer is implemented by consumers that want the validated layout
// before the first event, e.g. to print a header.
type LayoutConsumer interface {
	HandleLayout(layout *Layout) error
}

// Collector is a Consumer that keeps every event in memory.
type Collector struct {
	Layout *Layout
	Events []Event
}

// HandleLayout stores the layout.
func (c *Collector) HandleLayout(layout *Layout) error {
	c.Layout = layout
	return nil
}

// HandleEvent appends the event.
func (c *Collector) HandleEvent(_ context.Context, ev Event) error {
	c.Events = append(c.Events, ev)
	return nil
}

// Kinds returns the kinds of the collected events in order.
func (c *Collector) Kinds() []EventKind {
	kinds := make([]EventKind, len(c.Events))
	for i, ev := range c.Events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// Count returns how many collected events have the given kind.
func (c *Collector) Count(kind EventKind) int {
	n := 0
	for _, ev := range c.Events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

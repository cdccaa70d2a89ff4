package report

import (
	"context"

	"reconciler/core/reconcile"
)

// FieldDiff is one differing column of a record.
type FieldDiff struct {
	Column string `json:"column"`
	Left   string `json:"left"`
	Right  string `json:"right"`
}

// Record is a JSON-friendly view of a non-matching event.
type Record struct {
	Kind        string            `json:"kind"`
	Key         map[string]string `json:"key"`
	Differences []FieldDiff       `json:"differences,omitempty"`
}

// Recorder keeps ONLY_LEFT, ONLY_RIGHT and BREAK events as records, up to Limit.
type Recorder struct {
	// Limit caps the number of records; zero keeps everything.
	Limit int
	// Records holds the kept records in event order.
	Records []Record
	// Truncated is set once a record was dropped.
	Truncated bool

	keys []string
}

// NewRecorder creates a recorder keeping at most limit records.
func NewRecorder(limit int) *Recorder {
	return &Recorder{Limit: limit}
}

// HandleLayout stores the key names.
func (r *Recorder) HandleLayout(layout *reconcile.Layout) error {
	r.keys = layout.KeyNames()
	return nil
}

// HandleEvent records ev when it is a difference.
func (r *Recorder) HandleEvent(_ context.Context, ev reconcile.Event) error {
	switch ev.Kind {
	case reconcile.OnlyLeft, reconcile.OnlyRight, reconcile.Break:
	default:
		return nil
	}
	if r.Limit > 0 && len(r.Records) >= r.Limit {
		r.Truncated = true
		return nil
	}

	rec := Record{Kind: ev.Kind.String(), Key: make(map[string]string, len(r.keys))}
	values := keyValues(ev, r.keys)
	for i, k := range r.keys {
		rec.Key[k] = values[i]
	}
	for _, d := range ev.Differences {
		rec.Differences = append(rec.Differences, FieldDiff{
			Column: d.Column.Name,
			Left:   d.Left.String(),
			Right:  d.Right.String(),
		})
	}
	r.Records = append(r.Records, rec)
	return nil
}

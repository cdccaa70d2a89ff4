package report

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"reconciler/core/reconcile"
)

// Stats counts events. The zero value is ready to use.
type Stats struct {
	OnlyLeft  int64 `json:"only_left"`
	OnlyRight int64 `json:"only_right"`
	Matched   int64 `json:"matched"`
	Breaks    int64 `json:"breaks"`

	// BreaksByColumn counts, per column, the breaks it took part in.
	BreaksByColumn map[string]int64 `json:"breaks_by_column"`
}

// HandleLayout is a no-op.
func (s *Stats) HandleLayout(*reconcile.Layout) error { return nil }

// HandleEvent counts ev.
func (s *Stats) HandleEvent(_ context.Context, ev reconcile.Event) error {
	switch ev.Kind {
	case reconcile.OnlyLeft:
		s.OnlyLeft++
	case reconcile.OnlyRight:
		s.OnlyRight++
	case reconcile.Matched:
		s.Matched++
	case reconcile.Break:
		s.Breaks++
		if s.BreaksByColumn == nil {
			s.BreaksByColumn = make(map[string]int64)
		}
		for _, d := range ev.Differences {
			s.BreaksByColumn[d.Column.Name]++
		}
	}
	return nil
}

// LeftRows is the number of keys read from the left side.
func (s *Stats) LeftRows() int64 { return s.OnlyLeft + s.Matched + s.Breaks }

// RightRows is the number of keys read from the right side.
func (s *Stats) RightRows() int64 { return s.OnlyRight + s.Matched + s.Breaks }

// Clean reports whether both sides agree completely.
func (s *Stats) Clean() bool {
	return s.OnlyLeft == 0 && s.OnlyRight == 0 && s.Breaks == 0
}

// Columns returns the broken column names sorted by name.
func (s *Stats) Columns() []string {
	return slices.Sorted(maps.Keys(s.BreaksByColumn))
}

// String renders "left=3 right=4 matched=2 breaks=1 only_left=0 only_right=1".
func (s *Stats) String() string {
	return fmt.Sprintf("left=%d right=%d matched=%d breaks=%d only_left=%d only_right=%d",
		s.LeftRows(), s.RightRows(), s.Matched, s.Breaks, s.OnlyLeft, s.OnlyRight)
}

package percentile

import (
	"fmt"
)

type Row struct {
	Height      float64   `json:"height"`
	Breakpoints []float64 `json:"breakpoints"` // aligned with Table.Labels
}

// Table is one reference chart: ascending heights, each with a weight
// breakpoint per percentile label.
type Table struct {
	Partition Partition `json:"partition"`
	Labels    []string  `json:"labels"`
	Rows      []Row     `json:"rows"`
}

// Heights returns the tabulated heights in row order.
func (t *Table) Heights() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Height
	}
	return out
}

// Validate checks the schema invariant: non-empty labels, strictly ascending
// finite heights and one finite breakpoint per label on every row.
func (t *Table) Validate() error {
	if t == nil || len(t.Rows) == 0 || len(t.Labels) == 0 {
		return fmt.Errorf("%w: table %s has no rows or labels", ErrEmptyCandidateSet, t.name())
	}
	seen := make(map[string]struct{}, len(t.Labels))
	for _, l := range t.Labels {
		if l == "" {
			return fmt.Errorf("table %s: empty percentile label", t.name())
		}
		if _, dup := seen[l]; dup {
			return fmt.Errorf("table %s: duplicate label %q", t.name(), l)
		}
		seen[l] = struct{}{}
	}
	for i, r := range t.Rows {
		if len(r.Breakpoints) != len(t.Labels) {
			return fmt.Errorf("table %s: row %d has %d breakpoints, want %d",
				t.name(), i, len(r.Breakpoints), len(t.Labels))
		}
		if !finite(r.Height) {
			return fmt.Errorf("%w: table %s row %d: height %v", ErrEmptyCandidateSet, t.name(), i, r.Height)
		}
		for j, bp := range r.Breakpoints {
			if !finite(bp) {
				return fmt.Errorf("%w: table %s row %d label %s: breakpoint %v",
					ErrEmptyCandidateSet, t.name(), i, t.Labels[j], bp)
			}
		}
		if i > 0 && r.Height <= t.Rows[i-1].Height {
			return fmt.Errorf("table %s: heights not strictly ascending at row %d (%g after %g)",
				t.name(), i, r.Height, t.Rows[i-1].Height)
		}
	}
	return nil
}

func (t *Table) name() string {
	if t == nil {
		return "<nil>"
	}
	return t.Partition.String()
}

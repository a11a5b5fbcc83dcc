package percentile

import (
	"fmt"
	"math"
)

// Request is one classification input. Age is in whole years, height in cm,
// weight in kg.
type Request struct {
	Sex    string  `json:"sex"`
	Age    int     `json:"age"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// Result names the percentile band a measurement falls into, together with
// the tabulated row and breakpoint that decided it.
type Result struct {
	Label      string    `json:"label"`
	Partition  Partition `json:"partition"`
	Height     float64   `json:"height"`
	Breakpoint float64   `json:"breakpoint"`
}

type Classifier struct {
	store *ReferenceDataStore
}

func NewClassifier(store *ReferenceDataStore) *Classifier {
	return &Classifier{store: store}
}

// Classify picks the reference table for the child's sex and age, snaps the
// height to the nearest tabulated row and the weight to the nearest breakpoint
// in that row, and returns the breakpoint's label.
func (c *Classifier) Classify(req Request) (Result, error) {
	if !finite(req.Height) || !finite(req.Weight) {
		return Result{}, fmt.Errorf("%w: height=%v weight=%v", ErrInvalidMeasurement, req.Height, req.Weight)
	}
	t, err := c.store.Select(req.Sex, req.Age)
	if err != nil {
		return Result{}, err
	}

	rowIdx, height, err := Nearest(t.Heights(), req.Height)
	if err != nil {
		return Result{}, fmt.Errorf("table %s heights: %w", t.Partition, err)
	}
	row := t.Rows[rowIdx]

	_, bp, err := Nearest(row.Breakpoints, req.Weight)
	if err != nil {
		return Result{}, fmt.Errorf("table %s row %g: %w", t.Partition, height, err)
	}

	for i, v := range row.Breakpoints {
		if v == bp {
			return Result{Label: t.Labels[i], Partition: t.Partition, Height: height, Breakpoint: bp}, nil
		}
	}
	// unreachable: bp was taken from row.Breakpoints
	return Result{}, fmt.Errorf("table %s row %g: breakpoint %g not found", t.Partition, height, bp)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

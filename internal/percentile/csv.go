package percentile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseCSV reads a reference table laid out as
//
//	height,P3,P15,P50,P85,P97
//	45.0,2.04,2.21,2.40,2.62,2.81
//	...
//
// The first column is the tabulated height; the header names the percentile
// label of every other column.
func ParseCSV(p Partition, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: empty file", ErrEmptyCandidateSet, p)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", p, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%s: header needs a height column and at least one label", p)
	}

	t := &Table{Partition: p, Labels: make([]string, 0, len(header)-1)}
	for _, h := range header[1:] {
		t.Labels = append(t.Labels, strings.TrimSpace(h))
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", p, line, err)
		}
		height, err := parseCell(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s: line %d height: %w", p, line, err)
		}
		row := Row{Height: height, Breakpoints: make([]float64, 0, len(rec)-1)}
		for col, cell := range rec[1:] {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d column %s: %w", p, line, t.Labels[col], err)
			}
			row.Breakpoints = append(row.Breakpoints, v)
		}
		t.Rows = append(t.Rows, row)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseCell(s string) (float64, error) {
	// tolerate decimal commas from spreadsheet exports
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

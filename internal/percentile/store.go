package percentile

import "fmt"

// ReferenceDataStore holds the four loaded tables. It is built once and never
// mutated, so any number of goroutines may read it without locking.
type ReferenceDataStore struct {
	tables map[Partition]*Table
}

// NewReferenceDataStore validates tables and indexes them by partition.
// Every partition in Partitions must be present.
func NewReferenceDataStore(tables ...*Table) (*ReferenceDataStore, error) {
	m := make(map[Partition]*Table, len(tables))
	for _, t := range tables {
		if t == nil {
			continue
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		m[t.Partition] = t
	}
	for _, p := range Partitions {
		if _, ok := m[p]; !ok {
			return nil, fmt.Errorf("%w: no table for %s", ErrMissingReferenceData, p)
		}
	}
	return &ReferenceDataStore{tables: m}, nil
}

// Select returns the table for (sex, age).
func (s *ReferenceDataStore) Select(sex string, age int) (*Table, error) {
	p, err := PartitionFor(sex, age)
	if err != nil {
		return nil, err
	}
	return s.Table(p)
}

func (s *ReferenceDataStore) Table(p Partition) (*Table, error) {
	t, ok := s.tables[p]
	if !ok {
		return nil, fmt.Errorf("%w: no table for %s", ErrMissingReferenceData, p)
	}
	return t, nil
}

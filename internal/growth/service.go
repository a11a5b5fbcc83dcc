package growth

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	classifier Classifier

	mu           sync.RWMutex
	infants      map[int64]Infant
	measurements map[string]Measurement
	order        map[string]uint64 // measurement ID -> insertion sequence
	seq          uint64
}

func NewInMemoryStore(c Classifier) Store {
	return &memoryStore{
		classifier:   c,
		infants:      map[int64]Infant{},
		measurements: map[string]Measurement{},
		order:        map[string]uint64{},
	}
}

func (m *memoryStore) CreateInfant(_ context.Context, in Infant) (Infant, error) {
	if err := validateInfant(&in); err != nil {
		return Infant{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.infants[in.ID]; ok {
		return Infant{}, fmt.Errorf("%w: infant %d", ErrConflict, in.ID)
	}
	in.CreatedAt = time.Now().Unix()
	m.infants[in.ID] = in
	return in, nil
}

func (m *memoryStore) GetInfant(_ context.Context, id int64) (Infant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inf, ok := m.infants[id]
	if !ok {
		return Infant{}, fmt.Errorf("infant %d: %w", id, ErrNotFound)
	}
	return inf, nil
}

func (m *memoryStore) ListInfants(_ context.Context, opts ListOpts) ([]Infant, error) {
	m.mu.RLock()
	out := make([]Infant, 0, len(m.infants))
	q := strings.ToLower(strings.TrimSpace(opts.Q))
	for _, inf := range m.infants {
		if q == "" || strings.Contains(strings.ToLower(inf.Name), q) {
			out = append(out, inf)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Offset >= len(out) {
		return []Infant{}, nil
	}
	out = out[opts.Offset:]
	if l := normLimit(opts.Limit); len(out) > l {
		out = out[:l]
	}
	return out, nil
}

func (m *memoryStore) RecordMeasurement(ctx context.Context, infantID int64, in MeasurementInput) (Measurement, error) {
	inf, err := m.GetInfant(ctx, infantID)
	if err != nil {
		return Measurement{}, err
	}
	ms, err := classify(m.classifier, inf, in)
	if err != nil {
		return Measurement{}, err
	}
	ms.ID = uuid.NewString()
	ms.RecordedAt = time.Now().Unix()

	m.mu.Lock()
	m.seq++
	m.measurements[ms.ID] = ms
	m.order[ms.ID] = m.seq
	m.mu.Unlock()
	return ms, nil
}

func (m *memoryStore) GetMeasurement(_ context.Context, id string) (Measurement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ms, ok := m.measurements[id]
	if !ok {
		return Measurement{}, fmt.Errorf("measurement %s: %w", id, ErrNotFound)
	}
	return ms, nil
}

func (m *memoryStore) ListMeasurements(ctx context.Context, infantID int64) ([]Measurement, error) {
	if _, err := m.GetInfant(ctx, infantID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Measurement{}
	for _, ms := range m.measurements {
		if ms.InfantID == infantID {
			out = append(out, ms)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })
	return out, nil
}

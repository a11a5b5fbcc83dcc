package growth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mind-engage/growthchart/internal/percentile"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
	ErrConflict = errors.New("already exists")
)

// Classifier is satisfied by *percentile.Classifier and *percentile.Lazy.
type Classifier interface {
	Classify(req percentile.Request) (percentile.Result, error)
}

type ListOpts struct {
	Q      string // name substring
	Limit  int
	Offset int
}

type Store interface {
	CreateInfant(ctx context.Context, in Infant) (Infant, error)
	GetInfant(ctx context.Context, id int64) (Infant, error)
	ListInfants(ctx context.Context, opts ListOpts) ([]Infant, error)

	// RecordMeasurement classifies the measurement against the infant's sex and
	// age and stores it. Nothing is stored when classification fails.
	RecordMeasurement(ctx context.Context, infantID int64, in MeasurementInput) (Measurement, error)
	GetMeasurement(ctx context.Context, id string) (Measurement, error)
	ListMeasurements(ctx context.Context, infantID int64) ([]Measurement, error)
}

func validateInfant(in *Infant) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Sex = strings.ToUpper(strings.TrimSpace(in.Sex))
	if in.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalid)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalid)
	}
	if _, err := percentile.ParseSex(in.Sex); err != nil {
		return fmt.Errorf("%w: sex must be H, M or F", ErrInvalid)
	}
	if in.Age < 0 {
		return fmt.Errorf("%w: age must be non-negative", ErrInvalid)
	}
	if in.Weight < 0 || in.Height < 0 {
		return fmt.Errorf("%w: weight and height must be non-negative", ErrInvalid)
	}
	return nil
}

// classify builds the measurement for inf; ID and RecordedAt are left to the store.
func classify(c Classifier, inf Infant, in MeasurementInput) (Measurement, error) {
	age := inf.Age
	if in.Age != nil {
		age = *in.Age
	}
	if in.Weight <= 0 || in.Height <= 0 {
		return Measurement{}, fmt.Errorf("%w: weight and height must be positive", ErrInvalid)
	}
	res, err := c.Classify(percentile.Request{Sex: inf.Sex, Age: age, Height: in.Height, Weight: in.Weight})
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{
		InfantID: inf.ID,
		Age:      age,
		Weight:   in.Weight,
		Height:   in.Height,
		Label:    res.Label,
		Chart:    res.Partition.String(),
	}, nil
}

func normLimit(n int) int {
	if n <= 0 || n > 200 {
		return 50
	}
	return n
}

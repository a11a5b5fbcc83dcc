package percentile

import "errors"

var (
	// ErrUnsupportedPartition: sex code not recognized, or age outside every bracket.
	ErrUnsupportedPartition = errors.New("percentile: unsupported partition")
	// ErrEmptyCandidateSet: nearest-value lookup over nothing (malformed or empty table).
	ErrEmptyCandidateSet = errors.New("percentile: empty candidate set")
	// ErrMissingReferenceData: a reference table is absent or unreadable at load time.
	ErrMissingReferenceData = errors.New("percentile: missing reference data")
	// ErrInvalidMeasurement: height or weight is NaN or infinite.
	ErrInvalidMeasurement = errors.New("percentile: invalid measurement")
)

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/growthchart/internal/growth"
	"github.com/mind-engage/growthchart/internal/percentile"
)

// statusFor maps domain errors onto HTTP codes. Input problems are 400,
// chart problems are server-side configuration faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, growth.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, growth.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, growth.ErrInvalid),
		errors.Is(err, percentile.ErrUnsupportedPartition),
		errors.Is(err, percentile.ErrInvalidMeasurement):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

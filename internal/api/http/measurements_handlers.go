package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/growthchart/internal/growth"
)

// RecordMeasurementHandler classifies and stores a weigh-in for an infant.
func RecordMeasurementHandler(store growth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := infantID(w, r)
		if !ok {
			return
		}
		var in growth.MeasurementInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		ms, err := store.RecordMeasurement(r.Context(), id, in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ms)
	}
}

func ListMeasurementsHandler(store growth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := infantID(w, r)
		if !ok {
			return
		}
		list, err := store.ListMeasurements(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetMeasurementHandler(store growth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, err := store.GetMeasurement(r.Context(), chi.URLParam(r, "measurementID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ms)
	}
}

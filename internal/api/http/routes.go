package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/growthchart/internal/growth"
	syncx "github.com/mind-engage/growthchart/internal/sync"
)

// Mount wires the classification and record routes. events may be nil when
// the store has no event log (in-memory mode).
func Mount(r chi.Router, store growth.Store, c growth.Classifier, events *syncx.EventRepo) {
	r.Post("/classify", ClassifyHandler(c))

	r.Route("/infants", func(ir chi.Router) {
		ir.Post("/", CreateInfantHandler(store))
		ir.Get("/", ListInfantsHandler(store))
		ir.Get("/{infantID}", GetInfantHandler(store))
		ir.Post("/{infantID}/measurements", RecordMeasurementHandler(store))
		ir.Get("/{infantID}/measurements", ListMeasurementsHandler(store))
	})
	r.Get("/measurements/{measurementID}", GetMeasurementHandler(store))

	if events != nil {
		r.Get("/events", ListEventsHandler(events))
	}
}

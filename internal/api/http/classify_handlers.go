// internal/api/http/classify_handlers.go
package http

import (
	"encoding/json"
	"net/http"

	"github.com/mind-engage/growthchart/internal/growth"
	"github.com/mind-engage/growthchart/internal/percentile"
)

// ClassifyHandler classifies one measurement without storing anything.
func ClassifyHandler(c growth.Classifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Sex    string   `json:"sex"`
			Age    *int     `json:"age"`
			Height *float64 `json:"height"`
			Weight *float64 `json:"weight"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Sex == "" || req.Age == nil || req.Height == nil || req.Weight == nil {
			http.Error(w, "sex, age, height and weight required", http.StatusBadRequest)
			return
		}
		res, err := c.Classify(percentile.Request{Sex: req.Sex, Age: *req.Age, Height: *req.Height, Weight: *req.Weight})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

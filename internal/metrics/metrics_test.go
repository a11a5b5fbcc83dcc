package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mind-engage/growthchart/internal/percentile"
)

func TestClassifier_Counts(t *testing.T) {
	store, err := percentile.LoadStore(context.Background(), percentile.EmbeddedLoader())
	if err != nil {
		t.Fatalf("load charts: %v", err)
	}
	m := New()
	c := m.Wrap(percentile.NewClassifier(store))

	if _, err := c.Classify(percentile.Request{Sex: "H", Age: 1, Height: 75, Weight: 9.5}); err != nil {
		t.Fatalf("classify: %v", err)
	}
	if _, err := c.Classify(percentile.Request{Sex: "X", Age: 1, Height: 75, Weight: 9.5}); err == nil {
		t.Fatalf("expected error for sex X")
	}

	if got := testutil.ToFloat64(m.classified.WithLabelValues("male_0_2", "P50")); got != 1 {
		t.Fatalf("classified{male_0_2,P50} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.failed.WithLabelValues("unsupported_partition")); got != 1 {
		t.Fatalf("failed{unsupported_partition} = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "growthchart_classifications_total") {
		t.Fatalf("metrics output missing counter:\n%s", body)
	}
}

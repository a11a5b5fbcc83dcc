package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mind-engage/growthchart/internal/percentile"
)

type Metrics struct {
	reg *prometheus.Registry

	classified *prometheus.CounterVec
	failed     *prometheus.CounterVec
	latency    prometheus.Histogram
}

// New registers the classification metrics on a private registry alongside
// the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		classified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "growthchart",
			Name:      "classifications_total",
			Help:      "Successful percentile classifications by reference chart and band.",
		}, []string{"chart", "label"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "growthchart",
			Name:      "classification_failures_total",
			Help:      "Failed percentile classifications by reason.",
		}, []string{"reason"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "growthchart",
			Name:      "classification_duration_seconds",
			Help:      "Time spent classifying one measurement, including lazy chart loading.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	reg.MustRegister(
		m.classified, m.failed, m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

type classifier interface {
	Classify(req percentile.Request) (percentile.Result, error)
}

// Classifier counts every classification that passes through it.
type Classifier struct {
	next classifier
	m    *Metrics
}

func (m *Metrics) Wrap(next classifier) *Classifier {
	return &Classifier{next: next, m: m}
}

func (c *Classifier) Classify(req percentile.Request) (percentile.Result, error) {
	start := time.Now()
	res, err := c.next.Classify(req)
	c.m.latency.Observe(time.Since(start).Seconds())
	if err != nil {
		c.m.failed.WithLabelValues(reason(err)).Inc()
		return res, err
	}
	c.m.classified.WithLabelValues(res.Partition.String(), res.Label).Inc()
	return res, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, percentile.ErrUnsupportedPartition):
		return "unsupported_partition"
	case errors.Is(err, percentile.ErrInvalidMeasurement):
		return "invalid_measurement"
	case errors.Is(err, percentile.ErrMissingReferenceData):
		return "missing_reference_data"
	case errors.Is(err, percentile.ErrEmptyCandidateSet):
		return "empty_candidate_set"
	default:
		return "other"
	}
}

// Package metrics exposes dashboard counters on a prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dialysisdash"

// Recorder owns the dashboard collectors. It satisfies app.BindObserver.
type Recorder struct {
	registry    *prometheus.Registry
	binds       *prometheus.CounterVec
	bindSeconds prometheus.Histogram
	rowsLoaded  prometheus.Gauge
	rowsDropped *prometheus.GaugeVec
	requests    *prometheus.CounterVec
}

// NewRecorder registers the collectors on a fresh registry, plus the Go and
// process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		binds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_binds_total",
			Help:      "Chart binds by risk factor, stratification and result.",
		}, []string{"risk_factor", "stratification", "result"}),
		bindSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chart_bind_duration_seconds",
			Help:      "Time spent building the three linked charts.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		rowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Facilities loaded at startup.",
		}),
		rowsDropped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows_dropped",
			Help:      "Source rows excluded at startup, by reason.",
		}, []string{"reason"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	r.registry.MustRegister(
		r.binds, r.bindSeconds, r.rowsLoaded, r.rowsDropped, r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveBind records one chart bind. Failed binds share a single series since
// their field names come straight from the query string.
func (r *Recorder) ObserveBind(riskFactor, stratification string, elapsed time.Duration, err error) {
	if err != nil {
		r.binds.WithLabelValues(invalidLabel, invalidLabel, "error").Inc()
	} else {
		r.binds.WithLabelValues(riskFactor, stratification, "ok").Inc()
	}
	r.bindSeconds.Observe(elapsed.Seconds())
}

const invalidLabel = "invalid"

// ObserveLoad records the startup load outcome
func (r *Recorder) ObserveLoad(loaded, droppedIncomplete, droppedZeroPatients int) {
	r.rowsLoaded.Set(float64(loaded))
	r.rowsDropped.WithLabelValues("incomplete").Set(float64(droppedIncomplete))
	r.rowsDropped.WithLabelValues("zero_patients").Set(float64(droppedZeroPatients))
}

// ObserveRequest counts one served HTTP request
func (r *Recorder) ObserveRequest(route string, code int) {
	r.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Registry exposes the underlying registry, mostly for tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

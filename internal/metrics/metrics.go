// Package metrics records Prometheus metrics for a clip list fetch and can
// write them to a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

// Fetch holds the metrics of one fetch run. A nil *Fetch records nothing.
type Fetch struct {
	registry *prometheus.Registry

	chunks       prometheus.Counter
	clips        prometheus.Counter
	expected     prometheus.Gauge
	terminations *prometheus.CounterVec
	lastRun      prometheus.Gauge
	latency      prometheus.Histogram
}

// NewFetch creates the fetch metrics on a fresh registry.
func NewFetch() *Fetch {
	m := &Fetch{
		registry: prometheus.NewRegistry(),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barmania_fetch_chunks_total",
			Help: "Clip list chunks that returned records",
		}),
		clips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barmania_fetch_clips_total",
			Help: "Clip records accumulated",
		}),
		expected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "barmania_fetch_expected_total",
			Help: "Total clip count reported by the first chunk",
		}),
		terminations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barmania_fetch_terminations_total",
				Help: "Fetch loop terminations by reason",
			},
			[]string{"reason"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "barmania_fetch_last_run_timestamp_seconds",
			Help: "Unix time the last fetch run finished",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "barmania_fetch_request_duration_seconds",
			Help:    "Clip list request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
	m.registry.MustRegister(m.chunks, m.clips, m.expected, m.terminations, m.lastRun, m.latency)
	return m
}

// Registry exposes the underlying registry.
func (m *Fetch) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records the latency of one request.
func (m *Fetch) ObserveRequest(d time.Duration) {
	if m == nil {
		return
	}
	m.latency.Observe(d.Seconds())
}

// ObserveChunk records a chunk that yielded n records.
func (m *Fetch) ObserveChunk(n int) {
	if m == nil {
		return
	}
	m.chunks.Inc()
	m.clips.Add(float64(n))
}

// SetExpected records the server-reported total.
func (m *Fetch) SetExpected(total int) {
	if m == nil {
		return
	}
	m.expected.Set(float64(total))
}

// ObserveTermination records why the loop stopped and stamps the run time.
func (m *Fetch) ObserveTermination(reason string) {
	if m == nil {
		return
	}
	m.terminations.WithLabelValues(reason).Inc()
	m.lastRun.SetToCurrentTime()
}

// WriteTextfile writes the registry in the text exposition format via a
// temp file and rename. An empty path is a no-op.
func (m *Fetch) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return eris.Wrapf(err, "metrics: write textfile %s", path)
	}
	return nil
}

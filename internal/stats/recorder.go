// Package stats records how long chunking calls take, both as rolling
// per-strategy latency windows for the JSON API and as Prometheus metrics.
package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is safe for concurrent use.
type Recorder struct {
	windows  *Windows
	duration *prometheus.HistogramVec
	chunks   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewRecorder registers its collectors on reg. A nil reg skips registration.
func NewRecorder(reg prometheus.Registerer, window time.Duration) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		windows: NewWindows(window),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chunkviz",
			Name:      "chunk_duration_seconds",
			Help:      "Time spent splitting text, by strategy.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"strategy"}),
		chunks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chunkviz",
			Name:      "chunks_total",
			Help:      "Chunks produced, by strategy.",
		}, []string{"strategy"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chunkviz",
			Name:      "chunk_failures_total",
			Help:      "Chunking calls rejected with an error, by strategy.",
		}, []string{"strategy"}),
	}
}

// Observe records one successful chunking call.
func (r *Recorder) Observe(strategy string, d time.Duration, chunks int) {
	r.windows.Record(strategy, d)
	r.duration.WithLabelValues(strategy).Observe(d.Seconds())
	r.chunks.WithLabelValues(strategy).Add(float64(chunks))
}

// ObserveFailure records a chunking call that returned an error.
func (r *Recorder) ObserveFailure(strategy string) {
	r.failures.WithLabelValues(strategy).Inc()
}

// Snapshot returns the latency window of every strategy seen so far.
func (r *Recorder) Snapshot() map[string]Snapshot {
	return r.windows.Snapshot()
}

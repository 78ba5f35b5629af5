package pipeline

import (
	"time"

	"github.com/j-russo/chunking-visualizer/internal/chunker"
	"github.com/j-russo/chunking-visualizer/internal/metrics"
	"github.com/j-russo/chunking-visualizer/internal/stats"
)

// Analysis is the outcome of chunking one text with one strategy.
type Analysis struct {
	Strategy   chunker.Strategy `json:"strategy"`
	Params     chunker.Params   `json:"params"`
	Chunks     []chunker.Chunk  `json:"chunks"`
	Metrics    metrics.Summary  `json:"metrics"`
	Efficiency int              `json:"efficiency"`
}

// Analyze splits text and summarises the result. A nil recorder disables
// timing.
func Analyze(rec *stats.Recorder, s chunker.Strategy, text string, p chunker.Params) (*Analysis, error) {
	start := time.Now()
	chunks, err := chunker.Split(s, text, p)
	if err != nil {
		if rec != nil {
			rec.ObserveFailure(string(s))
		}
		return nil, err
	}
	if rec != nil {
		rec.Observe(string(s), time.Since(start), len(chunks))
	}
	if chunks == nil {
		chunks = []chunker.Chunk{}
	}
	return &Analysis{
		Strategy:   s,
		Params:     p,
		Chunks:     chunks,
		Metrics:    metrics.CalculateMetrics(chunks),
		Efficiency: metrics.CalculateIoU(chunks),
	}, nil
}

// Package metrics summarises a chunk sequence independently of the strategy
// that produced it.
package metrics

import (
	"math"
	"unicode/utf8"

	"github.com/j-russo/chunking-visualizer/internal/chunker"
)

// Summary holds size statistics over chunk text lengths, in runes.
type Summary struct {
	Count      int `json:"count"`
	AvgSize    int `json:"avg_size"`
	MinSize    int `json:"min_size"`
	MaxSize    int `json:"max_size"`
	TotalChars int `json:"total_chars"`
}

// CalculateMetrics computes size statistics. AvgSize is the mean rounded
// half-up. An empty sequence yields the zero Summary.
func CalculateMetrics(chunks []chunker.Chunk) Summary {
	if len(chunks) == 0 {
		return Summary{}
	}

	s := Summary{Count: len(chunks), MinSize: math.MaxInt}
	for _, c := range chunks {
		n := utf8.RuneCountInString(c.Text)
		s.TotalChars += n
		s.MinSize = min(s.MinSize, n)
		s.MaxSize = max(s.MaxSize, n)
	}
	s.AvgSize = (2*s.TotalChars + s.Count) / (2 * s.Count)
	return s
}

// CalculateIoU returns an IoU-inspired overlap efficiency score. It is not
// true Intersection-over-Union: overlap between consecutive chunks is
// measured against the raw sum of chunk lengths, which counts overlapping
// runes twice. 100 means no overlap. Sequences with fewer than two chunks,
// or whose chunks are all empty, score 100.
func CalculateIoU(chunks []chunker.Chunk) int {
	if len(chunks) < 2 {
		return 100
	}

	overlap := 0
	for i := 1; i < len(chunks); i++ {
		prev, curr := chunks[i-1], chunks[i]
		if curr.Start < prev.End {
			overlap += prev.End - curr.Start
		}
	}

	total := 0
	for _, c := range chunks {
		total += utf8.RuneCountInString(c.Text)
	}
	if total == 0 {
		return 100
	}
	return int(math.Floor(float64(total-overlap)/float64(total)*100 + 0.5))
}

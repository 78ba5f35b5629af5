package stats

import (
	"slices"
	"sync"
	"time"
)

// Snapshot aggregates the durations one strategy recorded inside the window.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

type observation struct {
	at time.Time
	d  time.Duration
}

// Windows keeps a rolling window of chunking durations per strategy. Keys
// stay listed after their observations expire so callers can tell an idle
// strategy from one never used.
type Windows struct {
	maxAge time.Duration
	now    func() time.Time

	mu     sync.Mutex
	series map[string][]observation
}

// NewWindows creates windows spanning maxAge, defaulting to one hour.
func NewWindows(maxAge time.Duration) *Windows {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Windows{
		maxAge: maxAge,
		now:    time.Now,
		series: make(map[string][]observation),
	}
}

// Record adds one duration for strategy. Negative durations count as zero.
func (w *Windows) Record(strategy string, d time.Duration) {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()
	obs := w.expire(w.series[strategy], now)
	w.series[strategy] = append(obs, observation{at: now, d: max(d, 0)})
}

// Strategy returns the aggregate for a single strategy.
func (w *Windows) Strategy(strategy string) Snapshot {
	now := w.now()

	w.mu.Lock()
	obs := w.expire(w.series[strategy], now)
	if _, ok := w.series[strategy]; ok {
		w.series[strategy] = obs
	}
	durations := collect(obs)
	w.mu.Unlock()

	return summarize(durations)
}

// Snapshot returns the aggregate of every strategy seen so far.
func (w *Windows) Snapshot() map[string]Snapshot {
	now := w.now()

	w.mu.Lock()
	pending := make(map[string][]time.Duration, len(w.series))
	for k, obs := range w.series {
		obs = w.expire(obs, now)
		w.series[k] = obs
		pending[k] = collect(obs)
	}
	w.mu.Unlock()

	// Sorting happens outside the lock.
	out := make(map[string]Snapshot, len(pending))
	for k, durations := range pending {
		out[k] = summarize(durations)
	}
	return out
}

// expire drops observations older than the window, reusing obs's array.
// Observations are appended in time order, so the survivors are a suffix.
func (w *Windows) expire(obs []observation, now time.Time) []observation {
	cutoff := now.Add(-w.maxAge)
	i := 0
	for i < len(obs) && obs[i].at.Before(cutoff) {
		i++
	}
	if i == 0 {
		return obs
	}
	return append(obs[:0], obs[i:]...)
}

func collect(obs []observation) []time.Duration {
	out := make([]time.Duration, len(obs))
	for i, o := range obs {
		out[i] = o.d
	}
	return out
}

func summarize(durations []time.Duration) Snapshot {
	if len(durations) == 0 {
		return Snapshot{}
	}
	slices.Sort(durations)

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	return Snapshot{
		Count: len(durations),
		MinMs: ms(durations[0]),
		MaxMs: ms(durations[len(durations)-1]),
		AvgMs: ms(sum) / float64(len(durations)),
		P50Ms: percentile(durations, 50),
		P95Ms: percentile(durations, 95),
		P99Ms: percentile(durations, 99),
	}
}

// percentile interpolates linearly between the closest ranks, in ms.
func percentile(sorted []time.Duration, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return ms(sorted[0])
	case pct >= 100:
		return ms(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return ms(sorted[lower])
	}
	lo, hi := ms(sorted[lower]), ms(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

package aggregate

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records every attempt latency per style so the final report can
// show percentile distributions on top of the per-unit medians.
type Collector struct {
	mu    sync.Mutex
	histA *hdrhistogram.Histogram
	histB *hdrhistogram.Histogram
}

// StyleStats are the percentile latencies of one style across all attempts.
type StyleStats struct {
	Attempts int           `json:"attempts"`
	P50      time.Duration `json:"-"`
	P90      time.Duration `json:"-"`
	P99      time.Duration `json:"-"`
	P50Ms    float64       `json:"p50_ms"`
	P90Ms    float64       `json:"p90_ms"`
	P99Ms    float64       `json:"p99_ms"`
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Collector{
		histA: hdrhistogram.New(1, 60_000_000, 3),
		histB: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// RecordUnit feeds all attempt durations of a completed unit into the
// per-style histograms. Zero durations from failed attempts are skipped:
// the histogram tracks real latencies, the median bias stays in the totals.
func (c *Collector) RecordUnit(r UnitResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record(c.histA, r.StyleA.Durations)
	record(c.histB, r.StyleB.Durations)
}

func record(h *hdrhistogram.Histogram, durations []time.Duration) {
	for _, d := range durations {
		if d <= 0 {
			continue
		}
		us := d.Microseconds()
		if us < h.LowestTrackableValue() {
			us = h.LowestTrackableValue()
		}
		if us > h.HighestTrackableValue() {
			us = h.HighestTrackableValue()
		}
		_ = h.RecordValue(us)
	}
}

// StatsA returns percentile latencies for the direct-fetch style.
func (c *Collector) StatsA() StyleStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return statsOf(c.histA)
}

// StatsB returns percentile latencies for the structured-query style.
func (c *Collector) StatsB() StyleStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return statsOf(c.histB)
}

func statsOf(h *hdrhistogram.Histogram) StyleStats {
	stats := StyleStats{Attempts: int(h.TotalCount())}
	if h.TotalCount() == 0 {
		return stats
	}
	stats.P50 = time.Duration(h.ValueAtQuantile(50)) * time.Microsecond
	stats.P90 = time.Duration(h.ValueAtQuantile(90)) * time.Microsecond
	stats.P99 = time.Duration(h.ValueAtQuantile(99)) * time.Microsecond
	stats.P50Ms = float64(stats.P50) / float64(time.Millisecond)
	stats.P90Ms = float64(stats.P90) / float64(time.Millisecond)
	stats.P99Ms = float64(stats.P99) / float64(time.Millisecond)
	return stats
}

// Package trial executes repeated timed attempts of one logical request and
// condenses them into a single measurement.
package trial

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"querybench/internal/gateway"
)

// Measurement is the outcome of one trial: per-attempt durations, the median,
// and the payload of the last successful attempt. Earlier bodies are
// discarded.
type Measurement struct {
	Durations    []time.Duration `json:"durations"`
	Median       time.Duration   `json:"median"`
	Success      bool            `json:"success"`
	Body         []byte          `json:"-"`
	PayloadBytes int             `json:"payload_bytes"`
}

// Attempt performs one network call and returns the response.
type Attempt func(ctx context.Context) (*gateway.Response, error)

// ConfigError reports a trial that cannot be run as configured. It fails
// before any network activity.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "trial configuration: " + e.Reason
}

// Runner executes attempts strictly sequentially. Serial execution is
// required: concurrent trials would contend for the same network path and
// bias the per-call latency the benchmark exists to isolate.
type Runner struct {
	settle *rate.Limiter
}

// NewRunner creates a trial runner with the given settling interval between
// attempts. The interval reduces cache-hit skew on the target service and is
// never counted in the measured duration.
func NewRunner(settleInterval time.Duration) *Runner {
	r := &Runner{}
	if settleInterval > 0 {
		r.settle = rate.NewLimiter(rate.Every(settleInterval), 1)
	}
	return r
}

// Run executes iterations sequential attempts. Each failed attempt records a
// zero duration and the trial continues; Success is true only if every
// attempt succeeded. The median is taken over all recorded durations, zeros
// included.
func (r *Runner) Run(ctx context.Context, attempt Attempt, iterations int, onProgress func(done, total int)) (Measurement, error) {
	if iterations < 1 {
		return Measurement{}, &ConfigError{Reason: fmt.Sprintf("iterations must be >= 1, got %d", iterations)}
	}
	if attempt == nil {
		return Measurement{}, &ConfigError{Reason: "attempt function is required"}
	}

	m := Measurement{
		Durations: make([]time.Duration, 0, iterations),
		Success:   true,
	}

	for i := 0; i < iterations; i++ {
		if r.settle != nil {
			if err := r.settle.Wait(ctx); err != nil {
				return Measurement{}, err
			}
		}
		if onProgress != nil {
			onProgress(i+1, iterations)
		}

		start := time.Now()
		resp, err := attempt(ctx)
		elapsed := time.Since(start)

		if err != nil || resp == nil {
			m.Durations = append(m.Durations, 0)
			m.Success = false
			continue
		}

		m.Durations = append(m.Durations, elapsed)
		m.Body = resp.Body
		m.PayloadBytes = len(resp.Body)
	}

	m.Median = Median(m.Durations)
	return m, nil
}

// Median returns the middle value of the sorted durations. Zero entries from
// failed attempts deliberately drag the median down; the bias is documented
// rather than corrected.
func Median(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Fuse combines several one-shot measurements into a single synthetic
// measurement for a composite scenario: durations and payload sizes sum into
// one logical call.
func Fuse(parts ...Measurement) Measurement {
	fused := Measurement{Success: len(parts) > 0}
	var total time.Duration
	for _, part := range parts {
		for _, d := range part.Durations {
			total += d
		}
		fused.PayloadBytes += part.PayloadBytes
		if !part.Success {
			fused.Success = false
		}
		if part.Body != nil {
			fused.Body = part.Body
		}
	}
	fused.Durations = []time.Duration{total}
	fused.Median = total
	return fused
}

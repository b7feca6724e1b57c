// Package bench coordinates a full benchmark run: expansion, sequential unit
// execution, progress reporting, and aggregation.
package bench

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"querybench/internal/aggregate"
	"querybench/internal/auth"
	"querybench/internal/executor"
	"querybench/internal/progress"
	"querybench/internal/scenario"
)

// Options configure a run.
type Options struct {
	Library    *scenario.Library
	Categories []string
	Selection  scenario.Selection
	Executor   *executor.Executor
	Session    auth.Session
	Reporter   progress.Reporter
	Collector  *aggregate.Collector
}

func (o *Options) normalize() {
	if o.Library == nil {
		o.Library = scenario.DefaultLibrary()
	}
	if o.Reporter == nil {
		o.Reporter = progress.Nop{}
	}
	if o.Collector == nil {
		o.Collector = aggregate.NewCollector()
	}
}

// Result is the outcome of a whole run.
type Result struct {
	RunID       string                 `json:"run_id"`
	Results     []aggregate.UnitResult `json:"results"`
	Totals      aggregate.Totals       `json:"totals"`
	Summary     aggregate.Summary      `json:"summary"`
	FailedUnits int                    `json:"failed_units"`
	Cancelled   bool                   `json:"cancelled"`
	Duration    time.Duration          `json:"-"`
	DurationMs  float64                `json:"duration_ms"`
}

// Runner executes units strictly sequentially, in expansion order. The
// benchmark's validity depends on isolating each call's timing, so nothing
// here runs concurrently.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Run drives the whole benchmark. Unit failures never abort the run; only
// cancellation stops it, checked between units so an in-flight unit always
// reaches a terminal status first.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	result := Result{
		RunID: newRunID(start),
	}

	units := scenario.Expand(r.opt.Library, r.opt.Categories, r.opt.Selection)
	session := r.opt.Session
	totals := aggregate.Totals{}

	for _, unit := range units {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		startedAt := time.Now()
		r.opt.Reporter.UnitEvent(progress.Event{
			UnitID:    unit.ID(),
			Status:    progress.StatusRunning,
			Percent:   0,
			StartedAt: startedAt,
		})

		spec, ok := r.opt.Library.Lookup(unit.Category, unit.Variant)
		if !ok {
			// Expansion only yields known pairs; a miss here means the
			// library changed mid-run.
			continue
		}

		lastPercent := 0.0
		onProgress := func(p float64) {
			if p <= lastPercent || p >= 100 {
				return
			}
			lastPercent = p
			r.opt.Reporter.UnitEvent(progress.Event{
				UnitID:    unit.ID(),
				Status:    progress.StatusRunning,
				Percent:   p,
				StartedAt: startedAt,
			})
		}

		unitResult, updated, err := r.opt.Executor.ExecuteUnit(ctx, unit, spec, session, onProgress)
		session = updated
		endedAt := time.Now()

		if err != nil {
			// Setup failures produce a failed status but never enter the
			// totals; averages stay clean of ghost entries.
			result.FailedUnits++
			r.opt.Reporter.UnitEvent(progress.Event{
				UnitID:    unit.ID(),
				Status:    progress.StatusFailed,
				Percent:   100,
				StartedAt: startedAt,
				EndedAt:   endedAt,
				Err:       err.Error(),
			})
			continue
		}

		totals = aggregate.Fold(totals, unitResult)
		r.opt.Collector.RecordUnit(unitResult)
		result.Results = append(result.Results, unitResult)

		r.opt.Reporter.UnitEvent(progress.Event{
			UnitID:    unit.ID(),
			Status:    progress.StatusCompleted,
			Percent:   100,
			StartedAt: startedAt,
			EndedAt:   endedAt,
		})
	}

	result.Totals = totals
	result.Summary = totals.Summary()
	result.Duration = time.Since(start)
	result.DurationMs = float64(result.Duration) / float64(time.Millisecond)

	// Exactly one terminal aggregate event, after the last unit.
	r.opt.Reporter.RunComplete(result.Summary)

	return result
}

func newRunID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Package executor runs one benchmark unit through both query styles and
// produces its unified result.
package executor

import (
	"context"
	"fmt"
	"time"

	"querybench/internal/aggregate"
	"querybench/internal/auth"
	"querybench/internal/compare"
	"querybench/internal/gateway"
	"querybench/internal/request"
	"querybench/internal/scenario"
	"querybench/internal/trial"
)

// ExecutionError wraps an unexpected failure while executing a unit. Attempt
// level failures never surface here; they are absorbed into measurements.
type ExecutionError struct {
	UnitID string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("unit %s: %v", e.UnitID, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Executor drives both styles of one unit sequentially. Style A (direct
// fetch) takes the first half of the unit's progress budget, style B
// (structured query) the second half.
type Executor struct {
	builder    request.Builder
	comparator compare.Comparator
	gw         *gateway.Gateway
	trials     *trial.Runner
	iterations int
}

func New(builder request.Builder, comparator compare.Comparator, gw *gateway.Gateway, trials *trial.Runner, iterations int) *Executor {
	return &Executor{
		builder:    builder,
		comparator: comparator,
		gw:         gw,
		trials:     trials,
		iterations: iterations,
	}
}

// ExecuteUnit runs one unit and returns its result along with the possibly
// refreshed session. Validation and configuration failures return an error
// before any network activity; they produce no UnitResult.
func (e *Executor) ExecuteUnit(ctx context.Context, unit scenario.Unit, spec scenario.Spec, session auth.Session, onProgress func(percent float64)) (aggregate.UnitResult, auth.Session, error) {
	if onProgress == nil {
		onProgress = func(float64) {}
	}

	if err := spec.Validate(); err != nil {
		return aggregate.UnitResult{}, session, err
	}

	var (
		styleA     trial.Measurement
		restBodies [][]byte
		err        error
	)

	switch spec.Kind() {
	case scenario.KindSingle:
		styleA, restBodies, session, err = e.runSingleFetch(ctx, unit, spec.Single.Call, session, onProgress)
	case scenario.KindComposite:
		styleA, restBodies, session, err = e.runCompositeFetch(ctx, unit, spec.Composite.Calls, session, onProgress)
	default:
		return aggregate.UnitResult{}, session, &scenario.ValidationError{
			Category: unit.Category, Variant: unit.Variant, Reason: "unsupported scenario shape",
		}
	}
	if err != nil {
		return aggregate.UnitResult{}, session, err
	}

	queryIterations := e.iterations
	if spec.Kind() == scenario.KindComposite {
		queryIterations = 1
	}

	styleB, session, err := e.runQuery(ctx, unit, spec.Calls(), queryIterations, session, onProgress)
	if err != nil {
		return aggregate.UnitResult{}, session, err
	}

	result := aggregate.UnitResult{
		UnitID:    unit.ID(),
		Unit:      unit,
		StyleA:    styleA,
		StyleB:    styleB,
		Winner:    aggregate.Winner(styleA, styleB),
		Report:    e.compareSafely(restBodies, styleB.Body, spec.Fields()),
		Timestamp: time.Now(),
	}
	return result, session, nil
}

// runSingleFetch executes the direct-fetch style for a single-resource unit
// over the configured iterations, mapping trial progress onto the 0-50 band.
func (e *Executor) runSingleFetch(ctx context.Context, unit scenario.Unit, call scenario.Call, session auth.Session, onProgress func(float64)) (trial.Measurement, [][]byte, auth.Session, error) {
	if desc := e.builder.Rest(call, unit.RecordLimit); !desc.Valid() {
		return trial.Measurement{}, nil, session, &ExecutionError{
			UnitID: unit.ID(),
			Err:    fmt.Errorf("%w: %s", gateway.ErrInvalidDescriptor, desc.IssueSummary()),
		}
	}

	m, err := e.trials.Run(ctx, e.attempt(call, unit.RecordLimit, &session), e.iterations, func(done, total int) {
		onProgress(float64(done) / float64(total) * 50)
	})
	if err != nil {
		return trial.Measurement{}, nil, session, &ExecutionError{UnitID: unit.ID(), Err: err}
	}

	var bodies [][]byte
	if m.Body != nil {
		bodies = [][]byte{m.Body}
	}
	return m, bodies, session, nil
}

// runCompositeFetch executes each underlying call once and fuses the parts
// into one synthetic measurement spanning the 0-50 band.
func (e *Executor) runCompositeFetch(ctx context.Context, unit scenario.Unit, calls []scenario.Call, session auth.Session, onProgress func(float64)) (trial.Measurement, [][]byte, auth.Session, error) {
	for _, call := range calls {
		if desc := e.builder.Rest(call, unit.RecordLimit); !desc.Valid() {
			return trial.Measurement{}, nil, session, &ExecutionError{
				UnitID: unit.ID(),
				Err:    fmt.Errorf("%w: %s", gateway.ErrInvalidDescriptor, desc.IssueSummary()),
			}
		}
	}

	parts := make([]trial.Measurement, 0, len(calls))
	var bodies [][]byte
	share := 50 / float64(len(calls))

	for idx, call := range calls {
		base := float64(idx) * share
		m, err := e.trials.Run(ctx, e.attempt(call, unit.RecordLimit, &session), 1, func(done, total int) {
			onProgress(base + float64(done)/float64(total)*share)
		})
		if err != nil {
			return trial.Measurement{}, nil, session, &ExecutionError{UnitID: unit.ID(), Err: err}
		}
		parts = append(parts, m)
		if m.Body != nil {
			bodies = append(bodies, m.Body)
		}
	}

	return trial.Fuse(parts...), bodies, session, nil
}

// runQuery executes the structured-query style over the 50-100 band.
func (e *Executor) runQuery(ctx context.Context, unit scenario.Unit, calls []scenario.Call, iterations int, session auth.Session, onProgress func(float64)) (trial.Measurement, auth.Session, error) {
	if desc := e.builder.Query(calls, unit.RecordLimit); !desc.Valid() {
		return trial.Measurement{}, session, &ExecutionError{
			UnitID: unit.ID(),
			Err:    fmt.Errorf("%w: %s", gateway.ErrInvalidDescriptor, desc.IssueSummary()),
		}
	}

	attempt := func(ctx context.Context) (*gateway.Response, error) {
		desc := e.builder.Query(calls, unit.RecordLimit)
		resp, updated, err := e.gw.Execute(ctx, desc, session)
		session = updated
		return resp, err
	}

	m, err := e.trials.Run(ctx, attempt, iterations, func(done, total int) {
		onProgress(50 + float64(done)/float64(total)*50)
	})
	if err != nil {
		return trial.Measurement{}, session, &ExecutionError{UnitID: unit.ID(), Err: err}
	}
	return m, session, nil
}

// attempt returns a trial attempt that rebuilds the descriptor before every
// call; descriptors are never cached across attempts.
func (e *Executor) attempt(call scenario.Call, limit int, session *auth.Session) trial.Attempt {
	return func(ctx context.Context) (*gateway.Response, error) {
		desc := e.builder.Rest(call, limit)
		resp, updated, err := e.gw.Execute(ctx, desc, *session)
		*session = updated
		return resp, err
	}
}

// compareSafely runs the comparator, degrading to an empty report if it
// panics. Equivalence checking is advisory, not gating.
func (e *Executor) compareSafely(restBodies [][]byte, queryBody []byte, fields []string) (report compare.Report) {
	defer func() {
		if r := recover(); r != nil {
			report = compare.Empty()
		}
	}()
	if e.comparator == nil {
		return compare.Empty()
	}
	return e.comparator.Compare(restBodies, queryBody, fields)
}

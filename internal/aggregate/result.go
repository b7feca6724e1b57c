// Package aggregate scores unit results and folds them into running totals.
package aggregate

import (
	"time"

	"querybench/internal/compare"
	"querybench/internal/scenario"
	"querybench/internal/trial"
)

// Outcome names the winning style of one unit.
type Outcome string

const (
	OutcomeA   Outcome = "A"
	OutcomeB   Outcome = "B"
	OutcomeTie Outcome = "tie"
)

// UnitResult is the terminal record of one executed unit. Created once,
// immutable after creation, appended to the run's result log.
type UnitResult struct {
	UnitID    string            `json:"unit_id"`
	Unit      scenario.Unit     `json:"unit"`
	StyleA    trial.Measurement `json:"style_a"`
	StyleB    trial.Measurement `json:"style_b"`
	Winner    Outcome           `json:"winner"`
	Report    compare.Report    `json:"comparison"`
	Timestamp time.Time         `json:"timestamp"`
}

// Winner decides the per-unit outcome. A style wins only if it succeeded and
// either the other failed or its median was strictly lower. Both-failed and
// equal-median cases are ties.
func Winner(a, b trial.Measurement) Outcome {
	switch {
	case a.Success && (!b.Success || a.Median < b.Median):
		return OutcomeA
	case b.Success && (!a.Success || b.Median < a.Median):
		return OutcomeB
	default:
		return OutcomeTie
	}
}

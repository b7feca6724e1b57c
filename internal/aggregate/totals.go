package aggregate

import "time"

// Totals accumulates across completed units. Only units that reached a
// terminal result enter the totals; setup failures never do, so averages are
// never skewed by zero-filled ghost entries. Fold is additive, not
// idempotent: folding the same result twice doubles the counts.
type Totals struct {
	UnitsCompleted int           `json:"units_completed"`
	WinsA          int           `json:"wins_a"`
	WinsB          int           `json:"wins_b"`
	Ties           int           `json:"ties"`
	SuccessUnits   int           `json:"success_units"`
	SumDurationA   time.Duration `json:"sum_duration_a"`
	SumDurationB   time.Duration `json:"sum_duration_b"`
	SumPayloadA    int64         `json:"sum_payload_a"`
	SumPayloadB    int64         `json:"sum_payload_b"`
}

// Fold returns a new Totals with the unit result applied. Pure and
// deterministic; no I/O.
func Fold(t Totals, r UnitResult) Totals {
	t.UnitsCompleted++
	switch r.Winner {
	case OutcomeA:
		t.WinsA++
	case OutcomeB:
		t.WinsB++
	default:
		t.Ties++
	}
	if r.StyleA.Success && r.StyleB.Success {
		t.SuccessUnits++
	}
	t.SumDurationA += r.StyleA.Median
	t.SumDurationB += r.StyleB.Median
	t.SumPayloadA += int64(r.StyleA.PayloadBytes)
	t.SumPayloadB += int64(r.StyleB.PayloadBytes)
	return t
}

// Summary holds the derived metrics, computed on read and never stored.
type Summary struct {
	UnitsCompleted   int           `json:"units_completed"`
	WinsA            int           `json:"wins_a"`
	WinsB            int           `json:"wins_b"`
	Ties             int           `json:"ties"`
	AverageDurationA time.Duration `json:"-"`
	AverageDurationB time.Duration `json:"-"`
	AverageDurationAMs float64     `json:"average_duration_a_ms"`
	AverageDurationBMs float64     `json:"average_duration_b_ms"`
	AveragePayloadA  int64         `json:"average_payload_a_bytes"`
	AveragePayloadB  int64         `json:"average_payload_b_bytes"`
	SuccessRate      float64       `json:"success_rate"`
}

// Summary derives averages and the success rate, guarding division by zero.
func (t Totals) Summary() Summary {
	s := Summary{
		UnitsCompleted: t.UnitsCompleted,
		WinsA:          t.WinsA,
		WinsB:          t.WinsB,
		Ties:           t.Ties,
	}
	if t.UnitsCompleted == 0 {
		return s
	}
	n := int64(t.UnitsCompleted)
	s.AverageDurationA = t.SumDurationA / time.Duration(n)
	s.AverageDurationB = t.SumDurationB / time.Duration(n)
	s.AverageDurationAMs = float64(s.AverageDurationA) / float64(time.Millisecond)
	s.AverageDurationBMs = float64(s.AverageDurationB) / float64(time.Millisecond)
	s.AveragePayloadA = t.SumPayloadA / n
	s.AveragePayloadB = t.SumPayloadB / n
	s.SuccessRate = float64(t.SuccessUnits) / float64(t.UnitsCompleted) * 100
	return s
}

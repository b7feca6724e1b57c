package aggregate

import (
	"testing"
	"time"

	"querybench/internal/trial"
)

func successMeasurement(median time.Duration, payload int) trial.Measurement {
	return trial.Measurement{
		Durations:    []time.Duration{median},
		Median:       median,
		Success:      true,
		PayloadBytes: payload,
	}
}

func failedMeasurement() trial.Measurement {
	return trial.Measurement{Durations: []time.Duration{0}, Median: 0, Success: false}
}

func TestWinnerFasterStyleWins(t *testing.T) {
	if got := Winner(successMeasurement(100*time.Millisecond, 0), successMeasurement(150*time.Millisecond, 0)); got != OutcomeA {
		t.Fatalf("expected A, got %s", got)
	}
	if got := Winner(successMeasurement(150*time.Millisecond, 0), successMeasurement(100*time.Millisecond, 0)); got != OutcomeB {
		t.Fatalf("expected B, got %s", got)
	}
}

func TestWinnerSuccessBeatsFailure(t *testing.T) {
	if got := Winner(failedMeasurement(), successMeasurement(999*time.Millisecond, 0)); got != OutcomeB {
		t.Fatalf("expected B, got %s", got)
	}
	if got := Winner(successMeasurement(999*time.Millisecond, 0), failedMeasurement()); got != OutcomeA {
		t.Fatalf("expected A, got %s", got)
	}
}

func TestWinnerTies(t *testing.T) {
	if got := Winner(failedMeasurement(), failedMeasurement()); got != OutcomeTie {
		t.Fatalf("both failed should tie, got %s", got)
	}
	if got := Winner(successMeasurement(50*time.Millisecond, 0), successMeasurement(50*time.Millisecond, 0)); got != OutcomeTie {
		t.Fatalf("equal medians should tie, got %s", got)
	}
}

func TestFoldAccumulates(t *testing.T) {
	result := UnitResult{
		UnitID: "perf/v1@100",
		StyleA: successMeasurement(11*time.Millisecond, 1000),
		StyleB: successMeasurement(41*time.Millisecond, 800),
		Winner: OutcomeA,
	}

	totals := Fold(Totals{}, result)
	if totals.UnitsCompleted != 1 || totals.WinsA != 1 || totals.WinsB != 0 {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	summary := totals.Summary()
	if summary.AverageDurationA != 11*time.Millisecond {
		t.Fatalf("expected average A 11ms, got %s", summary.AverageDurationA)
	}
	if summary.AverageDurationB != 41*time.Millisecond {
		t.Fatalf("expected average B 41ms, got %s", summary.AverageDurationB)
	}
	if summary.SuccessRate != 100 {
		t.Fatalf("expected 100%% success rate, got %f", summary.SuccessRate)
	}
	if summary.AveragePayloadA != 1000 || summary.AveragePayloadB != 800 {
		t.Fatalf("unexpected payload averages: %+v", summary)
	}
}

func TestFoldIsAdditiveNotIdempotent(t *testing.T) {
	result := UnitResult{
		StyleA: successMeasurement(10*time.Millisecond, 100),
		StyleB: successMeasurement(20*time.Millisecond, 100),
		Winner: OutcomeA,
	}
	once := Fold(Totals{}, result)
	twice := Fold(once, result)
	if twice.UnitsCompleted != 2 || twice.WinsA != 2 {
		t.Fatalf("two folds must double the counts: %+v", twice)
	}
	if twice.SumDurationA != 2*once.SumDurationA {
		t.Fatalf("durations must double: %+v", twice)
	}
}

func TestFoldDoesNotMutateInput(t *testing.T) {
	original := Totals{UnitsCompleted: 3, WinsA: 2}
	_ = Fold(original, UnitResult{Winner: OutcomeB, StyleA: successMeasurement(1, 1), StyleB: successMeasurement(2, 2)})
	if original.UnitsCompleted != 3 || original.WinsA != 2 {
		t.Fatalf("fold mutated its input: %+v", original)
	}
}

func TestSummaryGuardsDivisionByZero(t *testing.T) {
	summary := Totals{}.Summary()
	if summary.AverageDurationA != 0 || summary.AverageDurationB != 0 {
		t.Fatalf("empty totals should average zero: %+v", summary)
	}
	if summary.SuccessRate != 0 {
		t.Fatalf("empty totals success rate should be 0, got %f", summary.SuccessRate)
	}
}

func TestCollectorPercentiles(t *testing.T) {
	c := NewCollector()
	c.RecordUnit(UnitResult{
		StyleA: trial.Measurement{Durations: []time.Duration{
			10 * time.Millisecond, 12 * time.Millisecond, 11 * time.Millisecond,
		}, Success: true},
		StyleB: trial.Measurement{Durations: []time.Duration{
			40 * time.Millisecond, 0, 41 * time.Millisecond,
		}},
	})

	statsA := c.StatsA()
	if statsA.Attempts != 3 {
		t.Fatalf("expected 3 recorded attempts for A, got %d", statsA.Attempts)
	}
	if statsA.P50 < 10*time.Millisecond || statsA.P50 > 12*time.Millisecond {
		t.Fatalf("P50 out of range: %s", statsA.P50)
	}

	// The failed zero-duration attempt is excluded from the histogram.
	statsB := c.StatsB()
	if statsB.Attempts != 2 {
		t.Fatalf("expected 2 recorded attempts for B, got %d", statsB.Attempts)
	}
}

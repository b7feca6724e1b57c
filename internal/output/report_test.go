package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"querybench/internal/aggregate"
	"querybench/internal/bench"
	"querybench/internal/compare"
	"querybench/internal/scenario"
	"querybench/internal/trial"
)

func sampleReport() RunReport {
	unit := aggregate.UnitResult{
		UnitID: "accounts/baseline@50",
		Unit:   scenario.Unit{Category: "accounts", Variant: "baseline", RecordLimit: 50},
		StyleA: trial.Measurement{
			Durations:    []time.Duration{10 * time.Millisecond, 12 * time.Millisecond, 11 * time.Millisecond},
			Median:       11 * time.Millisecond,
			Success:      true,
			PayloadBytes: 2048,
		},
		StyleB: trial.Measurement{
			Durations:    []time.Duration{40 * time.Millisecond, 42 * time.Millisecond, 41 * time.Millisecond},
			Median:       41 * time.Millisecond,
			Success:      true,
			PayloadBytes: 1024,
		},
		Winner:    aggregate.OutcomeA,
		Report:    compare.Report{Equivalent: true, RecordCountA: 5, RecordCountB: 5},
		Timestamp: time.Now(),
	}

	totals := aggregate.Fold(aggregate.Totals{}, unit)
	collector := aggregate.NewCollector()
	collector.RecordUnit(unit)

	result := bench.Result{
		RunID:    "01JBENCHRUN0000000000000AA",
		Results:  []aggregate.UnitResult{unit},
		Totals:   totals,
		Summary:  totals.Summary(),
		Duration: 2 * time.Second,
	}
	return NewRunReport(result, collector)
}

func TestPrintReportBasic(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, sampleReport())

	out := buf.String()
	for _, want := range []string{
		"Units Completed:   1",
		"Wins A (direct): 1",
		"Success Rate:    100.0%",
		"accounts/baseline@50",
		"winner=A",
		"results=equivalent",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReportIncludesPercentiles(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, sampleReport())

	out := buf.String()
	if !strings.Contains(out, "Style A (direct fetch) latency over 3 attempts") {
		t.Errorf("expected style A percentile section:\n%s", out)
	}
	if !strings.Contains(out, "Style B (structured query) latency over 3 attempts") {
		t.Errorf("expected style B percentile section:\n%s", out)
	}
}

func TestPrintReportDivergedUnit(t *testing.T) {
	report := sampleReport()
	report.Result.Results[0].Report.Equivalent = false

	var buf bytes.Buffer
	PrintReport(&buf, report)

	if !strings.Contains(buf.String(), "results=diverged") {
		t.Errorf("expected diverged marker:\n%s", buf.String())
	}
}

func TestPrintJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSONReport(&buf, sampleReport()); err != nil {
		t.Fatalf("PrintJSONReport failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`"run_id"`,
		`"style_a_stats"`,
		`"winner": "A"`,
		`"success_rate": 100`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON report missing %q:\n%s", want, out)
		}
	}
	// Raw bodies never leak into reports.
	if strings.Contains(out, `"Body"`) || strings.Contains(out, `"body"`) {
		t.Errorf("response bodies must not be serialized:\n%s", out)
	}
}

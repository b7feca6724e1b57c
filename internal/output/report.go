// Package output renders finished runs as text, JSON, HTML, and exported
// files. It only ever reads results; nothing here feeds back into a run.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"querybench/internal/aggregate"
	"querybench/internal/bench"
)

// RunReport bundles the run result with the cross-unit percentile stats.
type RunReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Result      bench.Result         `json:"run"`
	StyleAStats aggregate.StyleStats `json:"style_a_stats"`
	StyleBStats aggregate.StyleStats `json:"style_b_stats"`
}

// NewRunReport assembles the report payload from a finished run.
func NewRunReport(result bench.Result, collector *aggregate.Collector) RunReport {
	report := RunReport{
		GeneratedAt: time.Now(),
		Result:      result,
	}
	if collector != nil {
		report.StyleAStats = collector.StatsA()
		report.StyleBStats = collector.StatsB()
	}
	return report
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, report RunReport) {
	result := report.Result
	summary := result.Summary

	fmt.Fprintln(w, "\n--- Benchmark Results ---")
	fmt.Fprintf(w, "Run ID:            %s\n", result.RunID)
	fmt.Fprintf(w, "Units Completed:   %d\n", summary.UnitsCompleted)
	fmt.Fprintf(w, "Units Failed:      %d\n", result.FailedUnits)
	fmt.Fprintf(w, "Duration:          %s\n", result.Duration.Round(time.Millisecond))
	if result.Cancelled {
		fmt.Fprintln(w, "Cancelled:         yes")
	}

	fmt.Fprintln(w, "\nVerdict:")
	fmt.Fprintf(w, "  Wins A (direct): %d\n", summary.WinsA)
	fmt.Fprintf(w, "  Wins B (query):  %d\n", summary.WinsB)
	fmt.Fprintf(w, "  Ties:            %d\n", summary.Ties)
	fmt.Fprintf(w, "  Success Rate:    %.1f%%\n", summary.SuccessRate)

	if summary.UnitsCompleted > 0 {
		fmt.Fprintln(w, "\nAverages:")
		fmt.Fprintf(w, "  Median A:        %s\n", summary.AverageDurationA.Round(time.Microsecond))
		fmt.Fprintf(w, "  Median B:        %s\n", summary.AverageDurationB.Round(time.Microsecond))
		fmt.Fprintf(w, "  Payload A:       %d bytes\n", summary.AveragePayloadA)
		fmt.Fprintf(w, "  Payload B:       %d bytes\n", summary.AveragePayloadB)
	}

	printStyleStats(w, "Style A (direct fetch)", report.StyleAStats)
	printStyleStats(w, "Style B (structured query)", report.StyleBStats)

	if len(result.Results) > 0 {
		fmt.Fprintln(w, "\nUnit Breakdown:")
		for _, unit := range result.Results {
			equivalence := "equivalent"
			if !unit.Report.Equivalent {
				equivalence = "diverged"
			}
			fmt.Fprintf(
				w,
				"  - %s: A=%s B=%s winner=%s results=%s\n",
				unit.UnitID,
				unit.StyleA.Median.Round(time.Microsecond),
				unit.StyleB.Median.Round(time.Microsecond),
				unit.Winner,
				equivalence,
			)
		}
	}
}

func printStyleStats(w io.Writer, label string, stats aggregate.StyleStats) {
	if stats.Attempts == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s latency over %d attempts:\n", label, stats.Attempts)
	fmt.Fprintf(w, "  P50:             %s\n", stats.P50)
	fmt.Fprintf(w, "  P90:             %s\n", stats.P90)
	fmt.Fprintf(w, "  P99:             %s\n", stats.P99)
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

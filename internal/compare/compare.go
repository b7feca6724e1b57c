// Package compare reconciles the result sets returned by the two query
// styles. The comparison is advisory: it reports differences but never gates
// a benchmark unit.
package compare

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Report summarizes how well the two styles' responses agree.
type Report struct {
	Equivalent   bool     `json:"equivalent"`
	RecordCountA int      `json:"record_count_a"`
	RecordCountB int      `json:"record_count_b"`
	MissingA     []string `json:"missing_fields_a,omitempty"`
	MissingB     []string `json:"missing_fields_b,omitempty"`
	Notes        []string `json:"notes,omitempty"`
}

// Empty is the degraded report used when comparison cannot run.
func Empty() Report {
	return Report{}
}

// Comparator reconciles response bodies for equivalence.
type Comparator interface {
	// Compare takes the direct-fetch bodies (one per underlying call), the
	// structured-query body, and the expected field list. Missing or null
	// fields are tolerated, never fatal.
	Compare(restBodies [][]byte, queryBody []byte, fields []string) Report
}

// RecordComparator compares record arrays extracted from JSON responses.
type RecordComparator struct{}

func NewComparator() *RecordComparator {
	return &RecordComparator{}
}

func (RecordComparator) Compare(restBodies [][]byte, queryBody []byte, fields []string) Report {
	report := Report{}

	var restRecords []gjson.Result
	for _, body := range restBodies {
		restRecords = append(restRecords, recordsOf(body)...)
	}
	queryRecords := recordsOf(queryBody)

	report.RecordCountA = len(restRecords)
	report.RecordCountB = len(queryRecords)

	report.MissingA = missingFields(restRecords, fields)
	report.MissingB = missingFields(queryRecords, fields)

	if report.RecordCountA != report.RecordCountB {
		report.Notes = append(report.Notes, fmt.Sprintf(
			"record count mismatch: direct fetch returned %d, structured query returned %d",
			report.RecordCountA, report.RecordCountB))
	}

	report.Equivalent = report.RecordCountA == report.RecordCountB &&
		len(report.MissingA) == 0 && len(report.MissingB) == 0
	return report
}

// recordsOf extracts the record array from a response body. It tolerates the
// flat {"records":[...]} shape, the batched {"results":[{"records":[...]}]}
// shape, and a bare top-level array.
func recordsOf(body []byte) []gjson.Result {
	if len(body) == 0 {
		return nil
	}

	if records := gjson.GetBytes(body, "records"); records.IsArray() {
		return records.Array()
	}

	if results := gjson.GetBytes(body, "results"); results.IsArray() {
		var flattened []gjson.Result
		for _, entry := range results.Array() {
			if records := entry.Get("records"); records.IsArray() {
				flattened = append(flattened, records.Array()...)
			}
		}
		return flattened
	}

	if root := gjson.ParseBytes(body); root.IsArray() {
		return root.Array()
	}

	return nil
}

// missingFields reports expected fields that no record carries a non-null
// value for. An empty record set reports nothing missing: there is no
// evidence either way.
func missingFields(records []gjson.Result, fields []string) []string {
	if len(records) == 0 {
		return nil
	}
	var missing []string
	for _, field := range fields {
		found := false
		for _, record := range records {
			value := record.Get(field)
			if value.Exists() && value.Type != gjson.Null {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, field)
		}
	}
	return missing
}

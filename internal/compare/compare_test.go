package compare

import (
	"testing"
)

func TestCompareEquivalentResponses(t *testing.T) {
	c := NewComparator()
	rest := [][]byte{[]byte(`{"records":[{"id":"1","name":"a"},{"id":"2","name":"b"}]}`)}
	query := []byte(`{"records":[{"id":"1","name":"a"},{"id":"2","name":"b"}]}`)

	report := c.Compare(rest, query, []string{"id", "name"})
	if !report.Equivalent {
		t.Fatalf("expected equivalent, got %+v", report)
	}
	if report.RecordCountA != 2 || report.RecordCountB != 2 {
		t.Fatalf("unexpected counts: %+v", report)
	}
}

func TestCompareCountMismatch(t *testing.T) {
	c := NewComparator()
	rest := [][]byte{[]byte(`{"records":[{"id":"1"}]}`)}
	query := []byte(`{"records":[{"id":"1"},{"id":"2"}]}`)

	report := c.Compare(rest, query, []string{"id"})
	if report.Equivalent {
		t.Fatal("expected mismatch")
	}
	if len(report.Notes) == 0 {
		t.Fatal("expected a note about the count mismatch")
	}
}

func TestCompareBatchedQueryShape(t *testing.T) {
	c := NewComparator()
	rest := [][]byte{
		[]byte(`{"records":[{"id":"1"}]}`),
		[]byte(`{"records":[{"id":"2"}]}`),
	}
	query := []byte(`{"results":[{"records":[{"id":"1"}]},{"records":[{"id":"2"}]}]}`)

	report := c.Compare(rest, query, []string{"id"})
	if !report.Equivalent {
		t.Fatalf("batched shape should flatten to 2 records: %+v", report)
	}
}

func TestCompareReportsMissingFields(t *testing.T) {
	c := NewComparator()
	rest := [][]byte{[]byte(`{"records":[{"id":"1","email":null}]}`)}
	query := []byte(`{"records":[{"id":"1","email":"x@y.z"}]}`)

	report := c.Compare(rest, query, []string{"id", "email"})
	if report.Equivalent {
		t.Fatal("missing field on one side should break equivalence")
	}
	if len(report.MissingA) != 1 || report.MissingA[0] != "email" {
		t.Fatalf("expected email missing on side A, got %v", report.MissingA)
	}
	if len(report.MissingB) != 0 {
		t.Fatalf("side B should be complete, got %v", report.MissingB)
	}
}

func TestCompareToleratesGarbageBodies(t *testing.T) {
	c := NewComparator()
	report := c.Compare([][]byte{[]byte("not json at all")}, nil, []string{"id"})
	if report.RecordCountA != 0 || report.RecordCountB != 0 {
		t.Fatalf("garbage input should yield zero counts: %+v", report)
	}
}

func TestCompareBareArrayShape(t *testing.T) {
	c := NewComparator()
	rest := [][]byte{[]byte(`[{"id":"1"}]`)}
	query := []byte(`[{"id":"1"}]`)
	report := c.Compare(rest, query, []string{"id"})
	if !report.Equivalent {
		t.Fatalf("bare arrays should be comparable: %+v", report)
	}
}

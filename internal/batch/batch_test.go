package batch

import (
	"reflect"
	"testing"
)

type row struct {
	Number string
	Desc   string
}

func classifyRows(rows []row, existing map[string]struct{}) Result[row] {
	return Classify(rows,
		func(r row) string { return r.Number },
		func(r row) bool { return r.Number != "" && r.Desc != "" },
		func(key string) bool {
			_, ok := existing[key]
			return ok
		},
	)
}

func TestClassifyPartitionsBatch(t *testing.T) {
	rows := []row{
		{Number: "1", Desc: "paracetamol 500mg"},
		{Number: "2", Desc: ""},
		{Number: "3", Desc: "ibuprofen 400mg"},
		{Number: "1", Desc: "paracetamol duplicate"},
		{Number: "4", Desc: "amoxicillin 875mg"},
	}
	existing := map[string]struct{}{"4": {}}

	result := classifyRows(rows, existing)

	if got := len(result.Accepted); got != 2 {
		t.Fatalf("accepted = %d, want 2", got)
	}
	if result.Accepted[0].Number != "1" || result.Accepted[1].Number != "3" {
		t.Fatalf("accepted order wrong: %+v", result.Accepted)
	}
	if !reflect.DeepEqual(result.Incomplete, []row{{Number: "2", Desc: ""}}) {
		t.Fatalf("incomplete wrong: %+v", result.Incomplete)
	}
	if got := len(result.Duplicate); got != 2 {
		t.Fatalf("duplicate = %d, want 2", got)
	}
}

func TestClassifyIncompleteBeforeDuplicate(t *testing.T) {
	// A record that is both incomplete and a key collision must be
	// reported as incomplete only.
	rows := []row{
		{Number: "7", Desc: "omeprazole 20mg"},
		{Number: "7", Desc: ""},
	}

	result := classifyRows(rows, nil)

	if len(result.Incomplete) != 1 || len(result.Duplicate) != 0 {
		t.Fatalf("incomplete=%d duplicate=%d, want 1 and 0", len(result.Incomplete), len(result.Duplicate))
	}
}

func TestClassifyEmptyBatch(t *testing.T) {
	result := classifyRows(nil, nil)
	if len(result.Accepted)+len(result.Incomplete)+len(result.Duplicate) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

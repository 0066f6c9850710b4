package domain

import "testing"

func TestParseStatusNormalizesRecognizedLabels(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"EN CURSO", StatusInProgress},
		{"en curso", StatusInProgress},
		{"  Cotizado  ", StatusQuoted},
		{"ANULADA", Status("ANULADA")},
		{"adjudicada parcial", Status("adjudicada parcial")},
	}

	for _, tc := range cases {
		if got := ParseStatus(tc.raw); got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestWorkflowActive(t *testing.T) {
	if !ParseStatus("EN CURSO").WorkflowActive() {
		t.Fatalf("EN CURSO should be workflow-active")
	}
	if !ParseStatus("COTIZADO").WorkflowActive() {
		t.Fatalf("COTIZADO should be workflow-active")
	}
	if ParseStatus("ANULADA").WorkflowActive() {
		t.Fatalf("ANULADA should not be workflow-active")
	}
	if ParseStatus("").WorkflowActive() {
		t.Fatalf("empty status should not be workflow-active")
	}
}

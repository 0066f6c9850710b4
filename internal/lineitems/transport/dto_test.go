package transport

import (
	"encoding/json"
	"testing"
)

func TestUpdateRequestDistinguishesNullFromAbsent(t *testing.T) {
	var withNull, withoutField UpdateLineItemRequest

	if err := json.Unmarshal([]byte(`{"notes": null}`), &withNull); err != nil {
		t.Fatalf("unmarshal null payload: %v", err)
	}
	if err := json.Unmarshal([]byte(`{}`), &withoutField); err != nil {
		t.Fatalf("unmarshal empty payload: %v", err)
	}

	if field := withNull.NullField(); field != "notes" {
		t.Fatalf("NullField() = %q, want notes", field)
	}
	if field := withoutField.NullField(); field != "" {
		t.Fatalf("absent field reported as null: %q", field)
	}
}

func TestUpdateRequestNullFieldIgnoresRealValues(t *testing.T) {
	var req UpdateLineItemRequest
	payload := `{"quantity": 12, "notes": "", "chosenCost": 0}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if field := req.NullField(); field != "" {
		t.Fatalf("valued fields flagged as null: %q", field)
	}

	params := req.ToModifyParams()
	if params.Quantity == nil || *params.Quantity != 12 {
		t.Fatalf("quantity not carried: %+v", params.Quantity)
	}
	if params.Notes == nil || *params.Notes != "" {
		t.Fatalf("empty string must pass through as a value, got %+v", params.Notes)
	}
	if params.ChosenCost == nil || *params.ChosenCost != 0 {
		t.Fatalf("zero cost must pass through as a value, got %+v", params.ChosenCost)
	}
}

func TestUpdateCostsRequestNullField(t *testing.T) {
	var req UpdateCostsRequest
	if err := json.Unmarshal([]byte(`{"lineNumber":"1","salePrice":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if field := req.NullField(); field != "salePrice" {
		t.Fatalf("NullField() = %q, want salePrice", field)
	}
}

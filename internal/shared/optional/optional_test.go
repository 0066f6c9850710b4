package optional

import (
	"encoding/json"
	"testing"
)

func TestStringAbsentVsNullVsValue(t *testing.T) {
	type payload struct {
		Notes String `json:"notes"`
	}

	var absent payload
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal absent: %v", err)
	}
	if absent.Notes.Set {
		t.Fatalf("expected absent field to leave Set=false")
	}

	var null payload
	if err := json.Unmarshal([]byte(`{"notes":null}`), &null); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !null.Notes.Set || null.Notes.Value != nil {
		t.Fatalf("expected explicit null to mark Set with nil value")
	}

	var value payload
	if err := json.Unmarshal([]byte(`{"notes":"urgent"}`), &value); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !value.Notes.Set || value.Notes.Value == nil || *value.Notes.Value != "urgent" {
		t.Fatalf("expected value to be captured, got %+v", value.Notes)
	}
}

func TestNullDistinguishesAbsentFromExplicitNull(t *testing.T) {
	type payload struct {
		Notes String `json:"notes"`
	}

	var absent, null, value payload
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal absent: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"notes":null}`), &null); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"notes":"x"}`), &value); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}

	if absent.Notes.Null() {
		t.Fatalf("absent field must not report Null")
	}
	if !null.Notes.Null() {
		t.Fatalf("explicit null must report Null")
	}
	if value.Notes.Null() {
		t.Fatalf("present value must not report Null")
	}
}

func TestIntRejectsNonNumeric(t *testing.T) {
	type payload struct {
		Quantity Int `json:"quantity"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"quantity":"twelve"}`), &p); err == nil {
		t.Fatalf("expected error for non-numeric quantity")
	}
}

func TestFloatValue(t *testing.T) {
	type payload struct {
		Price Float `json:"price"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"price":1299.50}`), &p); err != nil {
		t.Fatalf("unmarshal price: %v", err)
	}
	if !p.Price.Set || p.Price.Value == nil || *p.Price.Value != 1299.50 {
		t.Fatalf("expected price 1299.50, got %+v", p.Price)
	}
}

func TestUUIDEmptyStringMeansNil(t *testing.T) {
	type payload struct {
		SupplierID UUID `json:"supplierId"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"supplierId":""}`), &p); err != nil {
		t.Fatalf("unmarshal empty uuid: %v", err)
	}
	if !p.SupplierID.Set || p.SupplierID.Value != nil {
		t.Fatalf("expected empty string to clear the value, got %+v", p.SupplierID)
	}
}

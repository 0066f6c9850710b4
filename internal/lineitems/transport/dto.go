// Package transport defines the line item HTTP request and response shapes.
package transport

import (
	"procurement_backend/internal/lineitems/repository"
	"procurement_backend/internal/lineitems/service"
	"procurement_backend/internal/shared/optional"
)

// CreateLineItemRequest is the payload for creating a primary line.
type CreateLineItemRequest struct {
	LineNumber         string `json:"lineNumber" validate:"required,max=20"`
	Quantity           int64  `json:"quantity" validate:"required,gt=0"`
	Description        string `json:"description" validate:"required,max=2000"`
	CatalogCode        string `json:"catalogCode" validate:"required,max=100"`
	CatalogDescription string `json:"catalogDescription" validate:"max=2000"`
	Notes              string `json:"notes" validate:"max=2000"`
}

// CreateAlternateRequest is the payload for creating an alternate proposal.
type CreateAlternateRequest struct {
	LineNumber         string `json:"lineNumber" validate:"required,max=20"`
	AlternateIndex     int    `json:"alternateIndex" validate:"required,gt=0"`
	Quantity           int64  `json:"quantity" validate:"required,gt=0"`
	Description        string `json:"description" validate:"required,max=2000"`
	CatalogCode        string `json:"catalogCode" validate:"required,max=100"`
	CatalogDescription string `json:"catalogDescription" validate:"max=2000"`
	Notes              string `json:"notes" validate:"max=2000"`
}

// UpdateLineItemRequest is the payload for a sparse line item edit.
type UpdateLineItemRequest struct {
	LineNumber         optional.String `json:"lineNumber"`
	AlternateIndex     optional.Int    `json:"alternateIndex"`
	Quantity           optional.Int    `json:"quantity"`
	Description        optional.String `json:"description"`
	CatalogCode        optional.String `json:"catalogCode"`
	CatalogDescription optional.String `json:"catalogDescription"`
	ChosenLaboratory   optional.String `json:"chosenLaboratory"`
	ChosenCost         optional.Float  `json:"chosenCost"`
	RegulatoryCode     optional.String `json:"regulatoryCode"`
	SalePrice          optional.Float  `json:"salePrice"`
	PreAwarded         optional.Bool   `json:"preAwarded"`
	DeliveryMonth      optional.String `json:"deliveryMonth"`
	Margin             optional.Float  `json:"margin"`
	Notes              optional.String `json:"notes"`
}

// NullField returns the JSON name of the first field sent as an explicit
// null, or "" when no field was. Line item fields have no meaningful empty
// state beyond the zero value, so nulls are rejected rather than applied;
// clients clear a text field by sending "".
func (r UpdateLineItemRequest) NullField() string {
	checks := []struct {
		name string
		null bool
	}{
		{"lineNumber", r.LineNumber.Null()},
		{"alternateIndex", r.AlternateIndex.Null()},
		{"quantity", r.Quantity.Null()},
		{"description", r.Description.Null()},
		{"catalogCode", r.CatalogCode.Null()},
		{"catalogDescription", r.CatalogDescription.Null()},
		{"chosenLaboratory", r.ChosenLaboratory.Null()},
		{"chosenCost", r.ChosenCost.Null()},
		{"regulatoryCode", r.RegulatoryCode.Null()},
		{"salePrice", r.SalePrice.Null()},
		{"preAwarded", r.PreAwarded.Null()},
		{"deliveryMonth", r.DeliveryMonth.Null()},
		{"margin", r.Margin.Null()},
		{"notes", r.Notes.Null()},
	}
	for _, c := range checks {
		if c.null {
			return c.name
		}
	}
	return ""
}

// ToModifyParams converts the sparse request to service params.
func (r UpdateLineItemRequest) ToModifyParams() service.ModifyParams {
	params := service.ModifyParams{
		LineNumber:         r.LineNumber.Value,
		Description:        r.Description.Value,
		CatalogCode:        r.CatalogCode.Value,
		CatalogDescription: r.CatalogDescription.Value,
		ChosenLaboratory:   r.ChosenLaboratory.Value,
		ChosenCost:         r.ChosenCost.Value,
		RegulatoryCode:     r.RegulatoryCode.Value,
		SalePrice:          r.SalePrice.Value,
		PreAwarded:         r.PreAwarded.Value,
		DeliveryMonth:      r.DeliveryMonth.Value,
		Margin:             r.Margin.Value,
		Notes:              r.Notes.Value,
	}
	if r.AlternateIndex.Value != nil {
		params.AlternateIndex = r.AlternateIndex.Value
	}
	if r.Quantity.Value != nil {
		qty := int64(*r.Quantity.Value)
		params.Quantity = &qty
	}
	return params
}

// BulkCreateItem is one row of a bulk import. Rows with alternateIndex 0
// become primary lines; a positive alternateIndex stores the row as an
// alternate of the matching primary.
type BulkCreateItem struct {
	LineNumber         string `json:"lineNumber" validate:"required,max=20"`
	AlternateIndex     int    `json:"alternateIndex" validate:"min=0"`
	Quantity           int64  `json:"quantity" validate:"required,gt=0"`
	Description        string `json:"description" validate:"required,max=2000"`
	CatalogCode        string `json:"catalogCode" validate:"required,max=100"`
	CatalogDescription string `json:"catalogDescription" validate:"max=2000"`
	Notes              string `json:"notes" validate:"max=2000"`
}

// BulkCreateRequest carries a batch of lines, primaries and alternates mixed.
type BulkCreateRequest struct {
	Items []BulkCreateItem `json:"items" validate:"required,min=1,dive"`
}

// BulkModifyItem is one record of a bulk edit.
type BulkModifyItem struct {
	ID     string                `json:"id" validate:"required,uuid"`
	Fields UpdateLineItemRequest `json:"fields"`
}

// BulkModifyRequest carries a batch of sparse edits.
type BulkModifyRequest struct {
	Items []BulkModifyItem `json:"items" validate:"required,min=1,dive"`
}

// PreAwardItem marks one line's pre-award state.
type PreAwardItem struct {
	LineNumber    string          `json:"lineNumber" validate:"required,max=20"`
	PreAwarded    bool            `json:"preAwarded"`
	DeliveryMonth optional.String `json:"deliveryMonth"`
}

// NullField returns "deliveryMonth" when it was sent as an explicit null.
func (r PreAwardItem) NullField() string {
	if r.DeliveryMonth.Null() {
		return "deliveryMonth"
	}
	return ""
}

// PreAwardRequest carries a batch of pre-award marks.
type PreAwardRequest struct {
	Items []PreAwardItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateCostsRequest patches the cost-selection fields of one line addressed
// by its tuple.
type UpdateCostsRequest struct {
	LineNumber       string          `json:"lineNumber" validate:"required,max=20"`
	AlternateIndex   int             `json:"alternateIndex" validate:"min=0"`
	ChosenLaboratory optional.String `json:"chosenLaboratory"`
	ChosenCost       optional.Float  `json:"chosenCost"`
	RegulatoryCode   optional.String `json:"regulatoryCode"`
	SalePrice        optional.Float  `json:"salePrice"`
	Margin           optional.Float  `json:"margin"`
	Notes            optional.String `json:"notes"`
}

// NullField returns the JSON name of the first explicitly-null field, or "".
func (r UpdateCostsRequest) NullField() string {
	switch {
	case r.ChosenLaboratory.Null():
		return "chosenLaboratory"
	case r.ChosenCost.Null():
		return "chosenCost"
	case r.RegulatoryCode.Null():
		return "regulatoryCode"
	case r.SalePrice.Null():
		return "salePrice"
	case r.Margin.Null():
		return "margin"
	case r.Notes.Null():
		return "notes"
	default:
		return ""
	}
}

// LineItemResponse is the wire form of a line item.
type LineItemResponse struct {
	ID                 string   `json:"id"`
	TenderID           string   `json:"tenderId"`
	LineNumber         string   `json:"lineNumber"`
	AlternateIndex     int      `json:"alternateIndex"`
	Quantity           int64    `json:"quantity"`
	Description        string   `json:"description"`
	CatalogCode        string   `json:"catalogCode"`
	CatalogDescription string   `json:"catalogDescription"`
	ChosenLaboratory   string   `json:"chosenLaboratory"`
	ChosenCost         *float64 `json:"chosenCost"`
	RegulatoryCode     string   `json:"regulatoryCode"`
	SalePrice          *float64 `json:"salePrice"`
	PreAwarded         bool     `json:"preAwarded"`
	DeliveryMonth      string   `json:"deliveryMonth"`
	Margin             *float64 `json:"margin"`
	Notes              string   `json:"notes"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

// BulkOutcomeResponse reports per-record results of a bulk fan-out.
type BulkOutcomeResponse struct {
	Created []LineItemResponse      `json:"created"`
	Failed  []service.RecordFailure `json:"failed"`
}

// ToLineItemResponse converts a repository line item to its wire form.
func ToLineItemResponse(li repository.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:                 li.ID.String(),
		TenderID:           li.TenderID.String(),
		LineNumber:         li.LineNumber,
		AlternateIndex:     li.AlternateIndex,
		Quantity:           li.Quantity,
		Description:        li.Description,
		CatalogCode:        li.CatalogCode,
		CatalogDescription: li.CatalogDescription,
		ChosenLaboratory:   li.ChosenLaboratory,
		ChosenCost:         li.ChosenCost,
		RegulatoryCode:     li.RegulatoryCode,
		SalePrice:          li.SalePrice,
		PreAwarded:         li.PreAwarded,
		DeliveryMonth:      li.DeliveryMonth,
		Margin:             li.Margin,
		Notes:              li.Notes,
		CreatedAt:          li.CreatedAt,
		UpdatedAt:          li.UpdatedAt,
	}
}

// ToLineItemResponses converts a slice of line items.
func ToLineItemResponses(items []repository.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, li := range items {
		out = append(out, ToLineItemResponse(li))
	}
	return out
}

// ToBulkOutcomeResponse converts a bulk outcome to its wire form.
func ToBulkOutcomeResponse(outcome service.BulkOutcome) BulkOutcomeResponse {
	return BulkOutcomeResponse{
		Created: ToLineItemResponses(outcome.Created),
		Failed:  outcome.Failed,
	}
}

// Package transport defines the fulfillment HTTP request and response shapes.
package transport

import (
	"procurement_backend/internal/fulfillment/repository"
	"procurement_backend/internal/shared/optional"
)

// CreateRecordRequest is the payload for recording a fulfillment.
type CreateRecordRequest struct {
	LineItemID         string  `json:"lineItemId" validate:"required,uuid"`
	RealizedQuantity   int64   `json:"realizedQuantity" validate:"required,min=1"`
	RealizedCost       float64 `json:"realizedCost" validate:"min=0"`
	RealizedPrice      float64 `json:"realizedPrice" validate:"min=0"`
	RealizedLaboratory string  `json:"realizedLaboratory" validate:"max=255"`
}

// UpdateRecordRequest is the payload for a sparse fulfillment edit.
type UpdateRecordRequest struct {
	RealizedQuantity   optional.Int    `json:"realizedQuantity"`
	RealizedCost       optional.Float  `json:"realizedCost"`
	RealizedPrice      optional.Float  `json:"realizedPrice"`
	RealizedLaboratory optional.String `json:"realizedLaboratory"`
}

// NullField returns the JSON name of the first explicitly-null field, or "".
func (r UpdateRecordRequest) NullField() string {
	switch {
	case r.RealizedQuantity.Null():
		return "realizedQuantity"
	case r.RealizedCost.Null():
		return "realizedCost"
	case r.RealizedPrice.Null():
		return "realizedPrice"
	case r.RealizedLaboratory.Null():
		return "realizedLaboratory"
	default:
		return ""
	}
}

// ToUpdateParams converts the patch to repository params.
func (r UpdateRecordRequest) ToUpdateParams() repository.UpdateParams {
	params := repository.UpdateParams{
		RealizedCost:       r.RealizedCost.Value,
		RealizedPrice:      r.RealizedPrice.Value,
		RealizedLaboratory: r.RealizedLaboratory.Value,
	}
	if r.RealizedQuantity.Value != nil {
		qty := int64(*r.RealizedQuantity.Value)
		params.RealizedQuantity = &qty
	}
	return params
}

// RecordResponse is the wire form of a fulfillment record.
type RecordResponse struct {
	ID                 string  `json:"id"`
	LineItemID         string  `json:"lineItemId"`
	RealizedQuantity   int64   `json:"realizedQuantity"`
	RealizedCost       float64 `json:"realizedCost"`
	RealizedPrice      float64 `json:"realizedPrice"`
	RealizedLaboratory string  `json:"realizedLaboratory"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// ToRecordResponse converts a repository record to its wire form.
func ToRecordResponse(rec repository.FulfillmentRecord) RecordResponse {
	return RecordResponse{
		ID:                 rec.ID.String(),
		LineItemID:         rec.LineItemID.String(),
		RealizedQuantity:   rec.RealizedQuantity,
		RealizedCost:       rec.RealizedCost,
		RealizedPrice:      rec.RealizedPrice,
		RealizedLaboratory: rec.RealizedLaboratory,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

// ToRecordResponses converts a slice of records.
func ToRecordResponses(records []repository.FulfillmentRecord) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, ToRecordResponse(rec))
	}
	return out
}

// TenderRecordResponse is a fulfillment record with its line item's number.
type TenderRecordResponse struct {
	RecordResponse
	LineNumber     string `json:"lineNumber"`
	AlternateIndex int    `json:"alternateIndex"`
}

// ToTenderRecordResponses converts a slice of tender-level records.
func ToTenderRecordResponses(records []repository.TenderRecord) []TenderRecordResponse {
	out := make([]TenderRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, TenderRecordResponse{
			RecordResponse: ToRecordResponse(rec.FulfillmentRecord),
			LineNumber:     rec.LineNumber,
			AlternateIndex: rec.AlternateIndex,
		})
	}
	return out
}

// Package transport defines the tender HTTP request and response shapes.
package transport

import (
	"procurement_backend/internal/shared/optional"
	"procurement_backend/internal/tenders/repository"
)

// CreateTenderRequest is the payload for registering a tender.
type CreateTenderRequest struct {
	ClientCode      string `json:"clientCode" validate:"required,max=50"`
	ClientName      string `json:"clientName" validate:"required,max=255"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	ReferenceNumber string `json:"referenceNumber" validate:"required,max=100"`
	Type            string `json:"type" validate:"max=100"`
	TimeOfDay       string `json:"timeOfDay" validate:"max=20"`
	Subject         string `json:"subject" validate:"max=2000"`
	Status          string `json:"status" validate:"max=100"`
}

// UpdateTenderRequest is the payload for a partial tender edit. Absent
// fields are left untouched; explicit nulls are rejected because tender
// header fields have no meaningful empty state.
type UpdateTenderRequest struct {
	ClientCode      optional.String `json:"clientCode"`
	ClientName      optional.String `json:"clientName"`
	Date            optional.String `json:"date"`
	ReferenceNumber optional.String `json:"referenceNumber"`
	Type            optional.String `json:"type"`
	TimeOfDay       optional.String `json:"timeOfDay"`
	Subject         optional.String `json:"subject"`
	Status          optional.String `json:"status"`
}

// NullField returns the JSON name of the first explicitly-null field, or "".
func (r UpdateTenderRequest) NullField() string {
	switch {
	case r.ClientCode.Null():
		return "clientCode"
	case r.ClientName.Null():
		return "clientName"
	case r.Date.Null():
		return "date"
	case r.ReferenceNumber.Null():
		return "referenceNumber"
	case r.Type.Null():
		return "type"
	case r.TimeOfDay.Null():
		return "timeOfDay"
	case r.Subject.Null():
		return "subject"
	case r.Status.Null():
		return "status"
	default:
		return ""
	}
}

// UpdateStatusRequest changes only the workflow status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=100"`
}

// ListTendersRequest carries tender listing filters.
type ListTendersRequest struct {
	Active     bool   `form:"active"`
	ClientCode string `form:"clientCode"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=500"`
	Offset     int    `form:"offset" validate:"omitempty,min=0"`
}

// TenderResponse is the wire form of a tender.
type TenderResponse struct {
	ID              string `json:"id"`
	ClientCode      string `json:"clientCode"`
	ClientName      string `json:"clientName"`
	Date            string `json:"date"`
	ReferenceNumber string `json:"referenceNumber"`
	Type            string `json:"type"`
	TimeOfDay       string `json:"timeOfDay"`
	Subject         string `json:"subject"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// DeleteTenderResponse reports the cascade counts of a tender removal.
type DeleteTenderResponse struct {
	Deleted            bool  `json:"deleted"`
	Quotes             int64 `json:"quotes"`
	FulfillmentRecords int64 `json:"fulfillmentRecords"`
	LineItems          int64 `json:"lineItems"`
}

// ToTenderResponse converts a repository tender to its wire form.
func ToTenderResponse(t repository.Tender) TenderResponse {
	return TenderResponse{
		ID:              t.ID.String(),
		ClientCode:      t.ClientCode,
		ClientName:      t.ClientName,
		Date:            t.Date,
		ReferenceNumber: t.ReferenceNumber,
		Type:            t.Type,
		TimeOfDay:       t.TimeOfDay,
		Subject:         t.Subject,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ToTenderResponses converts a slice of tenders.
func ToTenderResponses(tenders []repository.Tender) []TenderResponse {
	out := make([]TenderResponse, 0, len(tenders))
	for _, t := range tenders {
		out = append(out, ToTenderResponse(t))
	}
	return out
}

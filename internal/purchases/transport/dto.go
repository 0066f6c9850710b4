// Package transport defines the purchase quote HTTP request and response shapes.
package transport

import (
	"procurement_backend/internal/purchases/repository"
	"procurement_backend/internal/purchases/service"
	"procurement_backend/internal/shared/optional"
)

// CreateQuoteRequest is the payload for recording one quote. The requesting
// user comes from the access token, never from the body.
type CreateQuoteRequest struct {
	LineItemID      string  `json:"lineItemId" validate:"required,uuid"`
	TenderID        string  `json:"tenderId" validate:"required,uuid"`
	CatalogCode     string  `json:"catalogCode" validate:"required,max=100"`
	FinalCost       float64 `json:"finalCost" validate:"required,gt=0"`
	MaintenanceNote string  `json:"maintenanceNote" validate:"max=500"`
	Observations    string  `json:"observations" validate:"max=2000"`
}

// QuoteItem is one record of a bulk quote batch.
type QuoteItem struct {
	LineItemID      string  `json:"lineItemId" validate:"required,uuid"`
	CatalogCode     string  `json:"catalogCode" validate:"required,max=100"`
	FinalCost       float64 `json:"finalCost" validate:"required,gt=0"`
	MaintenanceNote string  `json:"maintenanceNote" validate:"max=500"`
	Observations    string  `json:"observations" validate:"max=2000"`
}

// BulkCreateQuotesRequest carries a batch of quotes for one tender.
type BulkCreateQuotesRequest struct {
	Items []QuoteItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateQuoteRequest patches the editable fields of a quote.
type UpdateQuoteRequest struct {
	FinalCost       optional.Float  `json:"finalCost"`
	MaintenanceNote optional.String `json:"maintenanceNote"`
	Observations    optional.String `json:"observations"`
}

// NullField returns the JSON name of the first explicitly-null field, or "".
func (r UpdateQuoteRequest) NullField() string {
	switch {
	case r.FinalCost.Null():
		return "finalCost"
	case r.MaintenanceNote.Null():
		return "maintenanceNote"
	case r.Observations.Null():
		return "observations"
	default:
		return ""
	}
}

// ListActiveRequest carries the structured filters of the active listing.
type ListActiveRequest struct {
	TenderID   string `form:"tenderId" validate:"omitempty,uuid"`
	Laboratory string `form:"laboratory"`
	LineNumber string `form:"lineNumber"`
}

// HistoryRequest selects a historical quote view.
type HistoryRequest struct {
	TenderID    string `form:"tenderId" validate:"omitempty,uuid"`
	CatalogCode string `form:"catalogCode"`
	Limit       int    `form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset      int    `form:"offset" validate:"omitempty,min=0"`
}

// QuoteResponse is the wire form of a purchase quote.
type QuoteResponse struct {
	ID              string  `json:"id"`
	LineItemID      string  `json:"lineItemId"`
	TenderID        string  `json:"tenderId"`
	CatalogEntryID  string  `json:"catalogEntryId"`
	FinalCost       float64 `json:"finalCost"`
	MaintenanceNote string  `json:"maintenanceNote"`
	Observations    string  `json:"observations"`
	CatalogCode     string  `json:"catalogCode"`
	UserID          string  `json:"userId"`
	QuotedAt        string  `json:"quotedAt"`
}

// ActiveLineResponse is one reconciliation row of a purchasing screen.
type ActiveLineResponse struct {
	LineItemID     string   `json:"lineItemId"`
	TenderID       string   `json:"tenderId"`
	LineNumber     string   `json:"lineNumber"`
	AlternateIndex int      `json:"alternateIndex"`
	Quantity       int64    `json:"quantity"`
	Description    string   `json:"description"`
	CatalogCode    string   `json:"catalogCode"`
	TenderStatus   string   `json:"tenderStatus"`
	ClientName     string   `json:"clientName"`
	CatalogEntryID *string  `json:"catalogEntryId"`
	Laboratory     *string  `json:"laboratory"`
	CommercialName *string  `json:"commercialName"`
	ERPCode        *string  `json:"erpCode"`
	QuoteID        *string  `json:"quoteId"`
	FinalCost      *float64 `json:"finalCost"`
	QuotedAt       *string  `json:"quotedAt"`
}

// UnmatchedLineResponse is a line whose catalog code has no catalog entry.
type UnmatchedLineResponse struct {
	LineItemID      string `json:"lineItemId"`
	TenderID        string `json:"tenderId"`
	LineNumber      string `json:"lineNumber"`
	Quantity        int64  `json:"quantity"`
	Description     string `json:"description"`
	CatalogCode     string `json:"catalogCode"`
	ClientName      string `json:"clientName"`
	ReferenceNumber string `json:"referenceNumber"`
}

// HistoryEntryResponse is one quote in a historical view.
type HistoryEntryResponse struct {
	QuoteResponse
	LineNumber string `json:"lineNumber"`
}

// BulkOutcomeResponse reports per-record results of a bulk quote creation.
type BulkOutcomeResponse struct {
	Created []QuoteResponse         `json:"created"`
	Failed  []service.RecordFailure `json:"failed"`
}

// ToQuoteResponse converts a repository quote to its wire form.
func ToQuoteResponse(q repository.PurchaseQuote) QuoteResponse {
	return QuoteResponse{
		ID:              q.ID.String(),
		LineItemID:      q.LineItemID.String(),
		TenderID:        q.TenderID.String(),
		CatalogEntryID:  q.CatalogEntryID.String(),
		FinalCost:       q.FinalCost,
		MaintenanceNote: q.MaintenanceNote,
		Observations:    q.Observations,
		CatalogCode:     q.CatalogCode,
		UserID:          q.UserID.String(),
		QuotedAt:        q.QuotedAt,
	}
}

// ToQuoteResponses converts a slice of quotes.
func ToQuoteResponses(quotes []repository.PurchaseQuote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, ToQuoteResponse(q))
	}
	return out
}

// ToActiveLineResponse converts an active reconciliation row.
func ToActiveLineResponse(line repository.ActiveLine) ActiveLineResponse {
	resp := ActiveLineResponse{
		LineItemID:     line.LineItemID.String(),
		TenderID:       line.TenderID.String(),
		LineNumber:     line.LineNumber,
		AlternateIndex: line.AlternateIndex,
		Quantity:       line.Quantity,
		Description:    line.Description,
		CatalogCode:    line.CatalogCode,
		TenderStatus:   line.TenderStatus,
		ClientName:     line.ClientName,
		Laboratory:     line.Laboratory,
		CommercialName: line.CommercialName,
		ERPCode:        line.ERPCode,
		FinalCost:      line.FinalCost,
		QuotedAt:       line.QuotedAt,
	}
	if line.CatalogEntryID != nil {
		id := line.CatalogEntryID.String()
		resp.CatalogEntryID = &id
	}
	if line.QuoteID != nil {
		id := line.QuoteID.String()
		resp.QuoteID = &id
	}
	return resp
}

// ToActiveLineResponses converts a slice of reconciliation rows.
func ToActiveLineResponses(lines []repository.ActiveLine) []ActiveLineResponse {
	out := make([]ActiveLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, ToActiveLineResponse(line))
	}
	return out
}

// ToUnmatchedLineResponses converts a slice of unmatched lines.
func ToUnmatchedLineResponses(lines []repository.UnmatchedLine) []UnmatchedLineResponse {
	out := make([]UnmatchedLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, UnmatchedLineResponse{
			LineItemID:      line.LineItemID.String(),
			TenderID:        line.TenderID.String(),
			LineNumber:      line.LineNumber,
			Quantity:        line.Quantity,
			Description:     line.Description,
			CatalogCode:     line.CatalogCode,
			ClientName:      line.ClientName,
			ReferenceNumber: line.ReferenceNumber,
		})
	}
	return out
}

// ToHistoryEntryResponses converts a slice of history entries.
func ToHistoryEntryResponses(entries []repository.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			QuoteResponse: ToQuoteResponse(e.PurchaseQuote),
			LineNumber:    e.LineNumber,
		})
	}
	return out
}

// ToBulkOutcomeResponse converts a bulk outcome to its wire form.
func ToBulkOutcomeResponse(outcome service.BulkOutcome) BulkOutcomeResponse {
	return BulkOutcomeResponse{
		Created: ToQuoteResponses(outcome.Created),
		Failed:  outcome.Failed,
	}
}

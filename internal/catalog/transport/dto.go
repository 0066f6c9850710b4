// Package transport defines the catalog HTTP request and response shapes.
package transport

import (
	"procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/shared/optional"
)

// CreateEntryRequest is the payload for adding a catalog entry.
type CreateEntryRequest struct {
	Laboratory       string `json:"laboratory" validate:"required,max=255"`
	CommercialName   string `json:"commercialName" validate:"required,max=255"`
	ActiveIngredient string `json:"activeIngredient" validate:"max=500"`
	RegulatoryCode   string `json:"regulatoryCode" validate:"max=100"`
	TenderCode       string `json:"tenderCode" validate:"required,max=100"`
	ERPCode          string `json:"erpCode" validate:"max=100"`
}

// UpdateEntryRequest is the payload for a sparse catalog entry edit.
type UpdateEntryRequest struct {
	Laboratory       optional.String `json:"laboratory"`
	CommercialName   optional.String `json:"commercialName"`
	ActiveIngredient optional.String `json:"activeIngredient"`
	RegulatoryCode   optional.String `json:"regulatoryCode"`
	TenderCode       optional.String `json:"tenderCode"`
	ERPCode          optional.String `json:"erpCode"`
}

// NullField returns the JSON name of the first explicitly-null field, or "".
func (r UpdateEntryRequest) NullField() string {
	switch {
	case r.Laboratory.Null():
		return "laboratory"
	case r.CommercialName.Null():
		return "commercialName"
	case r.ActiveIngredient.Null():
		return "activeIngredient"
	case r.RegulatoryCode.Null():
		return "regulatoryCode"
	case r.TenderCode.Null():
		return "tenderCode"
	case r.ERPCode.Null():
		return "erpCode"
	default:
		return ""
	}
}

// SearchRequest carries the catalog search filters as query parameters.
type SearchRequest struct {
	TenderCode       string `form:"tenderCode"`
	ERPCode          string `form:"erpCode"`
	RegulatoryCode   string `form:"regulatoryCode"`
	Laboratory       string `form:"laboratory"`
	ActiveIngredient string `form:"activeIngredient"`
	CommercialName   string `form:"commercialName"`
	Limit            int    `form:"limit" validate:"omitempty,min=1,max=500"`
	Offset           int    `form:"offset" validate:"omitempty,min=0"`
}

// EntryResponse is the wire form of a catalog entry.
type EntryResponse struct {
	ID               string `json:"id"`
	Laboratory       string `json:"laboratory"`
	CommercialName   string `json:"commercialName"`
	ActiveIngredient string `json:"activeIngredient"`
	RegulatoryCode   string `json:"regulatoryCode"`
	TenderCode       string `json:"tenderCode"`
	ERPCode          string `json:"erpCode"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// ToEntryResponse converts a repository entry to its wire form.
func ToEntryResponse(e repository.CatalogEntry) EntryResponse {
	return EntryResponse{
		ID:               e.ID.String(),
		Laboratory:       e.Laboratory,
		CommercialName:   e.CommercialName,
		ActiveIngredient: e.ActiveIngredient,
		RegulatoryCode:   e.RegulatoryCode,
		TenderCode:       e.TenderCode,
		ERPCode:          e.ERPCode,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// ToEntryResponses converts a slice of entries.
func ToEntryResponses(entries []repository.CatalogEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToEntryResponse(e))
	}
	return out
}

package handler

import (
	"net/http"

	"procurement_backend/internal/purchases/repository"
	"procurement_backend/internal/purchases/service"
	"procurement_backend/internal/purchases/transport"
	"procurement_backend/platform/httpkit"
	"procurement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for purchase quotes
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new purchases handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the purchase quote routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/active", h.ListActive)
	rg.GET("/unmatched", h.ListUnmatched)
	rg.GET("/history", h.History)
	rg.POST("/quotes", h.CreateQuote)
	rg.POST("/tenders/:tenderId/quotes/bulk", h.BulkCreateQuotes)
	rg.GET("/tenders/:tenderId/quotes", h.ListByTender)
	rg.GET("/quotes/:id", h.GetByID)
	rg.PATCH("/quotes/:id", h.Update)
	rg.DELETE("/quotes/:id", h.Delete)
}

func (h *Handler) CreateQuote(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	var req transport.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lineItemID, err := uuid.Parse(req.LineItemID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	tenderID, err := uuid.Parse(req.TenderID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	quote, err := h.svc.CreateQuote(c.Request.Context(), service.CreateQuoteParams{
		LineItemID:      lineItemID,
		TenderID:        tenderID,
		CatalogCode:     req.CatalogCode,
		FinalCost:       req.FinalCost,
		MaintenanceNote: req.MaintenanceNote,
		Observations:    req.Observations,
		UserID:          identity.UserID,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToQuoteResponse(quote))
}

func (h *Handler) BulkCreateQuotes(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	tenderID, err := uuid.Parse(c.Param("tenderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.BulkCreateQuotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	rows := make([]service.QuoteRow, 0, len(req.Items))
	for _, item := range req.Items {
		// Unparseable ids become nil and are routed to the incomplete
		// bucket by the batch classifier.
		lineItemID, _ := uuid.Parse(item.LineItemID)
		rows = append(rows, service.QuoteRow{
			LineItemID:      lineItemID,
			CatalogCode:     item.CatalogCode,
			FinalCost:       item.FinalCost,
			MaintenanceNote: item.MaintenanceNote,
			Observations:    item.Observations,
		})
	}

	outcome, err := h.svc.BulkCreateQuotes(c.Request.Context(), tenderID, identity.UserID, rows)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBulkOutcomeResponse(outcome))
}

func (h *Handler) ListActive(c *gin.Context) {
	var req transport.ListActiveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	params := repository.ListActiveParams{
		Laboratory: req.Laboratory,
		LineNumber: req.LineNumber,
	}
	if req.TenderID != "" {
		tenderID, err := uuid.Parse(req.TenderID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		params.TenderID = &tenderID
	}

	lines, err := h.svc.ListActive(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToActiveLineResponses(lines))
}

func (h *Handler) ListUnmatched(c *gin.Context) {
	lines, err := h.svc.ListUnmatchedLines(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToUnmatchedLineResponses(lines))
}

func (h *Handler) History(c *gin.Context) {
	var req transport.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var entries []repository.HistoryEntry
	var err error
	switch {
	case req.TenderID != "":
		var tenderID uuid.UUID
		tenderID, err = uuid.Parse(req.TenderID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		entries, err = h.svc.HistoryByTender(c.Request.Context(), tenderID)
	case req.CatalogCode != "":
		entries, err = h.svc.HistoryByCatalogCode(c.Request.Context(), req.CatalogCode)
	default:
		entries, err = h.svc.HistoryAll(c.Request.Context(), req.Limit, req.Offset)
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToHistoryEntryResponses(entries))
}

func (h *Handler) ListByTender(c *gin.Context) {
	tenderID, err := uuid.Parse(c.Param("tenderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	quotes, err := h.svc.GetByTender(c.Request.Context(), tenderID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToQuoteResponses(quotes))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	quote, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToQuoteResponse(quote))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if field := req.NullField(); field != "" {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, field+" cannot be null")
		return
	}

	quote, err := h.svc.Modify(c.Request.Context(), id, service.ModifyParams{
		FinalCost:       req.FinalCost.Value,
		MaintenanceNote: req.MaintenanceNote.Value,
		Observations:    req.Observations.Value,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToQuoteResponse(quote))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"deleted": true})
}

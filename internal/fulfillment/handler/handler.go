package handler

import (
	"net/http"

	"procurement_backend/internal/fulfillment/repository"
	"procurement_backend/internal/fulfillment/service"
	"procurement_backend/internal/fulfillment/transport"
	"procurement_backend/platform/httpkit"
	"procurement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for fulfillment records
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new fulfillment handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the fulfillment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// RegisterLineItemRoutes registers the line-item-scoped listing.
func (h *Handler) RegisterLineItemRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/fulfillments", h.ListByLineItem)
}

// RegisterTenderRoutes registers the tender-scoped listing.
func (h *Handler) RegisterTenderRoutes(rg *gin.RouterGroup) {
	rg.GET("/:tenderId/fulfillments", h.ListByTender)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateRecordRequest
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

	rec, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		LineItemID:         lineItemID,
		RealizedQuantity:   req.RealizedQuantity,
		RealizedCost:       req.RealizedCost,
		RealizedPrice:      req.RealizedPrice,
		RealizedLaboratory: req.RealizedLaboratory,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToRecordResponse(rec))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	rec, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToRecordResponse(rec))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if field := req.NullField(); field != "" {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, field+" cannot be null")
		return
	}

	params := req.ToUpdateParams()
	params.ID = id

	rec, err := h.svc.Modify(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToRecordResponse(rec))
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

func (h *Handler) ListByLineItem(c *gin.Context) {
	lineItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	records, err := h.svc.ListByLineItem(c.Request.Context(), lineItemID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToRecordResponses(records))
}

func (h *Handler) ListByTender(c *gin.Context) {
	tenderID, err := uuid.Parse(c.Param("tenderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	records, err := h.svc.ListByTender(c.Request.Context(), tenderID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToTenderRecordResponses(records))
}

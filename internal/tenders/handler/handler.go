package handler

import (
	"net/http"

	"procurement_backend/internal/tenders/repository"
	"procurement_backend/internal/tenders/service"
	"procurement_backend/internal/tenders/transport"
	"procurement_backend/platform/httpkit"
	"procurement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for tenders
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new tenders handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the tender routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:tenderId", h.GetByID)
	rg.PATCH("/:tenderId", h.Update)
	rg.PATCH("/:tenderId/status", h.UpdateStatus)
	rg.DELETE("/:tenderId", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tender, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		ClientCode:      req.ClientCode,
		ClientName:      req.ClientName,
		Date:            req.Date,
		ReferenceNumber: req.ReferenceNumber,
		Type:            req.Type,
		TimeOfDay:       req.TimeOfDay,
		Subject:         req.Subject,
		Status:          req.Status,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToTenderResponse(tender))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("tenderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	tender, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToTenderResponse(tender))
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListTendersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tenders, err := h.svc.List(c.Request.Context(), repository.ListTendersParams{
		WorkflowActiveOnly: req.Active,
		ClientCode:         req.ClientCode,
		Limit:              req.Limit,
		Offset:             req.Offset,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToTenderResponses(tenders))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("tenderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if field := req.NullField(); field != "" {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, field+" cannot be null")
		return
	}

	tender, err := h.svc.Modify(c.Request.Context(), id, service.ModifyParams{
		ClientCode:      req.ClientCode.Value,
		ClientName:      req.ClientName.Value,
		Date:            req.Date.Value,
		ReferenceNumber: req.ReferenceNumber.Value,
		Type:            req.Type.Value,
		TimeOfDay:       req.TimeOfDay.Value,
		Subject:         req.Subject.Value,
		Status:          req.Status.Value,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToTenderResponse(tender))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("tenderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tender, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToTenderResponse(tender))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("tenderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Delete(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.DeleteTenderResponse{
		Deleted:            true,
		Quotes:             result.Quotes,
		FulfillmentRecords: result.FulfillmentRecords,
		LineItems:          result.LineItems,
	})
}

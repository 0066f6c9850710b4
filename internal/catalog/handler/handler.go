package handler

import (
	"net/http"

	"procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/catalog/service"
	"procurement_backend/internal/catalog/transport"
	"procurement_backend/platform/httpkit"
	"procurement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the catalog
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new catalog handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the catalog routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Search)
	rg.POST("", h.Create)
	rg.GET("/resolve/:code", h.Resolve)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) Resolve(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	entry, err := h.svc.Resolve(c.Request.Context(), code)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToEntryResponse(entry))
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), repository.CreateEntryParams{
		Laboratory:       req.Laboratory,
		CommercialName:   req.CommercialName,
		ActiveIngredient: req.ActiveIngredient,
		RegulatoryCode:   req.RegulatoryCode,
		TenderCode:       req.TenderCode,
		ERPCode:          req.ERPCode,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToEntryResponse(entry))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToEntryResponse(entry))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if field := req.NullField(); field != "" {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, field+" cannot be null")
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), repository.UpdateEntryParams{
		ID:               id,
		Laboratory:       req.Laboratory.Value,
		CommercialName:   req.CommercialName.Value,
		ActiveIngredient: req.ActiveIngredient.Value,
		RegulatoryCode:   req.RegulatoryCode.Value,
		TenderCode:       req.TenderCode.Value,
		ERPCode:          req.ERPCode.Value,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToEntryResponse(entry))
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

func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	entries, err := h.svc.Search(c.Request.Context(), repository.SearchParams{
		TenderCode:       req.TenderCode,
		ERPCode:          req.ERPCode,
		RegulatoryCode:   req.RegulatoryCode,
		Laboratory:       req.Laboratory,
		ActiveIngredient: req.ActiveIngredient,
		CommercialName:   req.CommercialName,
		Limit:            req.Limit,
		Offset:           req.Offset,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToEntryResponses(entries))
}

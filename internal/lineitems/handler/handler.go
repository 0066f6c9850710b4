package handler

import (
	"net/http"

	"procurement_backend/internal/lineitems/repository"
	"procurement_backend/internal/lineitems/service"
	"procurement_backend/internal/lineitems/transport"
	"procurement_backend/platform/httpkit"
	"procurement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for line items
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new line items handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the line item routes. Collection routes are
// mounted under the owning tender; item routes address a line item directly.
func (h *Handler) RegisterRoutes(tenderScoped, itemScoped *gin.RouterGroup) {
	tenderScoped.GET("", h.ListForTender)
	tenderScoped.POST("", h.CreatePrimary)
	tenderScoped.POST("/alternates", h.CreateAlternate)
	tenderScoped.POST("/bulk", h.BulkCreate)
	tenderScoped.POST("/pre-award", h.BulkSetPreAward)
	tenderScoped.PATCH("/costs", h.UpdateCosts)
	tenderScoped.DELETE("", h.DeleteAllForTender)

	itemScoped.GET("/:id", h.GetByID)
	itemScoped.PATCH("/:id", h.Update)
	itemScoped.POST("/bulk-modify", h.BulkModify)
	itemScoped.DELETE("/:id", h.Delete)
}

func tenderIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("tenderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) CreatePrimary(c *gin.Context) {
	tenderID, ok := tenderIDParam(c)
	if !ok {
		return
	}

	var req transport.CreateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.CreatePrimary(c.Request.Context(), tenderID, service.CreateFields{
		LineNumber:         req.LineNumber,
		Quantity:           req.Quantity,
		Description:        req.Description,
		CatalogCode:        req.CatalogCode,
		CatalogDescription: req.CatalogDescription,
		Notes:              req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToLineItemResponse(item))
}

func (h *Handler) CreateAlternate(c *gin.Context) {
	tenderID, ok := tenderIDParam(c)
	if !ok {
		return
	}

	var req transport.CreateAlternateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	item, err := h.svc.CreateAlternate(c.Request.Context(), tenderID, req.LineNumber, req.AlternateIndex, service.CreateFields{
		LineNumber:         req.LineNumber,
		Quantity:           req.Quantity,
		Description:        req.Description,
		CatalogCode:        req.CatalogCode,
		CatalogDescription: req.CatalogDescription,
		Notes:              req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, transport.ToLineItemResponse(item))
}

func (h *Handler) BulkCreate(c *gin.Context) {
	tenderID, ok := tenderIDParam(c)
	if !ok {
		return
	}

	var req transport.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	rows := make([]service.BulkCreateRow, 0, len(req.Items))
	for _, item := range req.Items {
		rows = append(rows, service.BulkCreateRow{
			CreateFields: service.CreateFields{
				LineNumber:         item.LineNumber,
				Quantity:           item.Quantity,
				Description:        item.Description,
				CatalogCode:        item.CatalogCode,
				CatalogDescription: item.CatalogDescription,
				Notes:              item.Notes,
			},
			AlternateIndex: item.AlternateIndex,
		})
	}

	outcome, err := h.svc.BulkCreate(c.Request.Context(), tenderID, rows)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBulkOutcomeResponse(outcome))
}

func (h *Handler) BulkModify(c *gin.Context) {
	var req transport.BulkModifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	rows := make([]service.BulkModifyRow, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if field := item.Fields.NullField(); field != "" {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, field+" cannot be null")
			return
		}
		rows = append(rows, service.BulkModifyRow{ID: id, Fields: item.Fields.ToModifyParams()})
	}

	outcome, err := h.svc.BulkModify(c.Request.Context(), rows)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBulkOutcomeResponse(outcome))
}

func (h *Handler) BulkSetPreAward(c *gin.Context) {
	tenderID, ok := tenderIDParam(c)
	if !ok {
		return
	}

	var req transport.PreAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	rows := make([]repository.PreAwardRow, 0, len(req.Items))
	for _, item := range req.Items {
		if field := item.NullField(); field != "" {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, field+" cannot be null")
			return
		}
		rows = append(rows, repository.PreAwardRow{
			LineNumber:    item.LineNumber,
			PreAwarded:    item.PreAwarded,
			DeliveryMonth: item.DeliveryMonth.Value,
		})
	}

	outcome, err := h.svc.BulkSetPreAward(c.Request.Context(), tenderID, rows)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToBulkOutcomeResponse(outcome))
}

func (h *Handler) UpdateCosts(c *gin.Context) {
	tenderID, ok := tenderIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateCostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if field := req.NullField(); field != "" {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, field+" cannot be null")
		return
	}

	item, err := h.svc.UpdateCosts(c.Request.Context(), repository.UpdateCostsParams{
		TenderID:         tenderID,
		LineNumber:       req.LineNumber,
		AlternateIndex:   req.AlternateIndex,
		ChosenLaboratory: req.ChosenLaboratory.Value,
		ChosenCost:       req.ChosenCost.Value,
		RegulatoryCode:   req.RegulatoryCode.Value,
		SalePrice:        req.SalePrice.Value,
		Margin:           req.Margin.Value,
		Notes:            req.Notes.Value,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLineItemResponse(item))
}

func (h *Handler) ListForTender(c *gin.Context) {
	tenderID, ok := tenderIDParam(c)
	if !ok {
		return
	}

	items, err := h.svc.ListForTender(c.Request.Context(), tenderID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLineItemResponses(items))
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	item, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLineItemResponse(item))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if field := req.NullField(); field != "" {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, field+" cannot be null")
		return
	}

	item, err := h.svc.Modify(c.Request.Context(), id, req.ToModifyParams())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLineItemResponse(item))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.DeleteOne(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"deleted": true})
}

func (h *Handler) DeleteAllForTender(c *gin.Context) {
	tenderID, ok := tenderIDParam(c)
	if !ok {
		return
	}

	count, err := h.svc.DeleteAllForTender(c.Request.Context(), tenderID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"deleted": count})
}

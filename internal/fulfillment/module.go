// Package fulfillment provides the fulfillment record domain module.
package fulfillment

import (
	"procurement_backend/internal/fulfillment/handler"
	"procurement_backend/internal/fulfillment/repository"
	"procurement_backend/internal/fulfillment/service"
	apphttp "procurement_backend/internal/http"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the fulfillment domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new fulfillment module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "fulfillment"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes. Listings hang off the
// owning line item and tender; record CRUD addresses records directly.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/fulfillments"))
	m.handler.RegisterLineItemRoutes(ctx.Protected.Group("/line-items"))
	m.handler.RegisterTenderRoutes(ctx.Protected.Group("/tenders"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

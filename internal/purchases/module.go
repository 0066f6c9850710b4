// Package purchases provides the purchase quote reconciliation module.
package purchases

import (
	apphttp "procurement_backend/internal/http"
	"procurement_backend/internal/purchases/handler"
	"procurement_backend/internal/purchases/repository"
	"procurement_backend/internal/purchases/service"
	"procurement_backend/platform/events"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the purchases domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new purchases module with all dependencies wired.
// The catalog resolver comes from the catalog module so quote creation and
// catalog maintenance share one code mapping.
func NewModule(pool *pgxpool.Pool, catalog service.CatalogResolver, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog)
	svc.SetEventBus(eventBus)
	svc.SetLogger(log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "purchases"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	purchases := ctx.Protected.Group("/purchases")
	m.handler.RegisterRoutes(purchases)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

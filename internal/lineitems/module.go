// Package lineitems provides the tender line item domain module.
package lineitems

import (
	apphttp "procurement_backend/internal/http"
	"procurement_backend/internal/lineitems/handler"
	"procurement_backend/internal/lineitems/repository"
	"procurement_backend/internal/lineitems/service"
	"procurement_backend/platform/events"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the line items domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new line items module with all dependencies wired.
// The tender checker comes from the tenders module to keep reference checks
// in one place.
func NewModule(pool *pgxpool.Pool, tenders service.TenderChecker, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, tenders)
	svc.SetEventBus(eventBus)
	svc.SetLogger(log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "lineitems"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	tenderScoped := ctx.Protected.Group("/tenders/:tenderId/line-items")
	itemScoped := ctx.Protected.Group("/line-items")
	m.handler.RegisterRoutes(tenderScoped, itemScoped)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

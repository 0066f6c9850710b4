// Package tenders provides the tender domain module.
package tenders

import (
	apphttp "procurement_backend/internal/http"
	"procurement_backend/internal/tenders/handler"
	"procurement_backend/internal/tenders/repository"
	"procurement_backend/internal/tenders/service"
	"procurement_backend/platform/events"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the tenders domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new tenders module with all dependencies wired
func NewModule(pool *pgxpool.Pool, eventBus *events.InMemoryBus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	svc.SetEventBus(eventBus)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "tenders"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	tenders := ctx.Protected.Group("/tenders")
	m.handler.RegisterRoutes(tenders)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

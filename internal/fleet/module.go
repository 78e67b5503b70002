// Package fleet provides the read-only fleet roster bounded context module.
package fleet

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"depot_dispatch_backend/internal/fleet/handler"
	"depot_dispatch_backend/internal/fleet/repository"
	"depot_dispatch_backend/internal/fleet/service"
	apphttp "depot_dispatch_backend/internal/http"
	"depot_dispatch_backend/platform/logger"
	"depot_dispatch_backend/platform/validator"
)

// Module is the fleet bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the fleet module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "fleet"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts fleet routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/fleet/convoys", m.handler.ListConvoys)
	ctx.Protected.GET("/fleet/vehicles", m.handler.ListVehicles)
	ctx.Protected.GET("/fleet/drivers", m.handler.ListDrivers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

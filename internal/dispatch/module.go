// Package dispatch provides the dispatch statement bounded context module.
package dispatch

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"depot_dispatch_backend/internal/dispatch/handler"
	"depot_dispatch_backend/internal/dispatch/repository"
	"depot_dispatch_backend/internal/dispatch/service"
	"depot_dispatch_backend/internal/events"
	apphttp "depot_dispatch_backend/internal/http"
	"depot_dispatch_backend/platform/config"
	"depot_dispatch_backend/platform/logger"
	"depot_dispatch_backend/platform/validator"
)

// Module is the dispatch bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the dispatch module. The reviews
// scheduler may be nil when background scheduling is disabled.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg config.DispatchConfig, bus events.Bus, log *logger.Logger, reviews service.ReviewScheduler) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log, bus, service.DefaultReasonCatalog(), cfg.GetAutosaveDebounce(), reviews, cfg.GetDayCloseAt())
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dispatch"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Close releases background resources (pending autosave timers).
func (m *Module) Close() {
	m.service.Close()
}

// RegisterRoutes mounts dispatch routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Read-only endpoints for any authenticated depot user
	ctx.Protected.GET("/dispatch/statements", m.handler.GetStatement)
	ctx.Protected.GET("/dispatch/slots/:slotId/journal", m.handler.GetJournal)
	ctx.Protected.GET("/dispatch/reasons", m.handler.ListReasons)

	// Mutations require the dispatcher role
	ctx.Dispatcher.POST("/dispatch/slots/:slotId/actions", m.handler.ExecuteAction)
	ctx.Dispatcher.PUT("/dispatch/slots/:slotId/reported-count", m.handler.EditReportedCount)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

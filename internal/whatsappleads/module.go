// Package whatsappleads provides the chat-derived lead bounded context
// module: intake, soft matching and persisted match history.
package whatsappleads

import (
	"rentmatch_backend/internal/events"
	apphttp "rentmatch_backend/internal/http"
	"rentmatch_backend/internal/matching"
	"rentmatch_backend/internal/whatsappleads/handler"
	"rentmatch_backend/internal/whatsappleads/repository"
	"rentmatch_backend/internal/whatsappleads/service"
	"rentmatch_backend/platform/logger"
	"rentmatch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the whatsapp leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the whatsapp leads module.
func NewModule(
	pool *pgxpool.Pool,
	properties service.PropertySource,
	weights service.WeightsSource,
	scheduler service.MatchScheduler,
	bus events.Bus,
	vocab matching.Vocabulary,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, properties, weights, scheduler, bus, vocab, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "whatsappleads"
}

// Service returns the whatsapp leads service for the background worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts whatsapp lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/whatsapp")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

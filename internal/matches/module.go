// Package matches provides the strict matching bounded context module: the
// bulk ranking endpoint and the single-pair explanation endpoint.
package matches

import (
	apphttp "rentmatch_backend/internal/http"
	"rentmatch_backend/internal/matches/handler"
	"rentmatch_backend/internal/matches/service"
	"rentmatch_backend/internal/matching"
	"rentmatch_backend/platform/logger"
)

// Module is the matches bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the match service against its lead, property and weight
// sources.
func NewModule(leads service.LeadSource, properties service.PropertySource, weights service.WeightsSource, vocab matching.Vocabulary, log *logger.Logger) *Module {
	svc := service.New(leads, properties, weights, vocab, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "matches"
}

// Service returns the match service for cross-module use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts match routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/matches")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

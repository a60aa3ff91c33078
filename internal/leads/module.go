// Package leads provides the renter lead bounded context module.
package leads

import (
	"context"

	"rentmatch_backend/internal/events"
	apphttp "rentmatch_backend/internal/http"
	"rentmatch_backend/internal/leads/handler"
	"rentmatch_backend/internal/leads/repository"
	"rentmatch_backend/internal/leads/service"
	"rentmatch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repo
}

// NewModule creates and initializes the leads module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for cross-module use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the leads repository for cross-module adapters.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterHandlers subscribes the module to cross-domain events. A completed
// chat match run for a linked lead lands on that lead's timeline.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.WhatsAppMatchesComputed{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			computed, ok := event.(events.WhatsAppMatchesComputed)
			if !ok || computed.LinkedLeadID == nil {
				return nil
			}
			return m.service.RecordChatMatches(ctx, *computed.LinkedLeadID, computed.ResultCount, computed.TopScore)
		}))
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

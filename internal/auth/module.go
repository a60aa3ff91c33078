// Package auth provides the authentication bounded context module.
package auth

import (
	"rentmatch_backend/internal/auth/handler"
	"rentmatch_backend/internal/auth/repository"
	"rentmatch_backend/internal/auth/service"
	apphttp "rentmatch_backend/internal/http"
	"rentmatch_backend/platform/config"
	"rentmatch_backend/platform/logger"
	"rentmatch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module.
// The seed endpoint is always mounted; the service refuses it unless
// seeding is enabled in configuration.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	return &Module{
		handler: handler.New(svc, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
// Public auth routes carry the stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)

	ctx.Protected.GET("/users/me", m.handler.Me)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

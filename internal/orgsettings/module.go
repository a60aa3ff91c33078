package orgsettings

import (
	"context"
	"net/http"
	"time"

	apphttp "rentmatch_backend/internal/http"
	"rentmatch_backend/internal/matching"
	"rentmatch_backend/platform/httpkit"
	"rentmatch_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Service combines the repository and cache into the read/write surface the
// match endpoints use.
type Service struct {
	repo  *Repo
	cache *Cache
}

// NewService creates the settings service.
func NewService(repo *Repo, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Weights returns the org's weight overrides for the strategy, cached.
func (s *Service) Weights(ctx context.Context, organizationID uuid.UUID, strategy matching.Strategy) (matching.Weights, error) {
	return s.cache.Weights(ctx, organizationID, strategy)
}

// SaveWeights validates and stores overrides, then drops the cache entry.
func (s *Service) SaveWeights(ctx context.Context, organizationID uuid.UUID, strategy matching.Strategy, weights matching.Weights) error {
	// Engine construction runs the same validation the match run would.
	if _, err := matching.NewEngine(strategy, weights); err != nil {
		return err
	}
	if err := s.repo.SaveWeights(ctx, organizationID, strategy, weights); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, organizationID, strategy)
	return nil
}

// Module is the org settings module implementing http.Module.
type Module struct {
	service *Service
}

// NewModule wires repository, cache and service.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, ttl time.Duration, log *logger.Logger) *Module {
	repo := NewRepo(pool)
	cache := NewCache(repo, redisClient, ttl, log)
	return &Module{service: NewService(repo, cache)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orgsettings"
}

// Service returns the settings service for cross-module use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts the settings routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/settings/matching")
	group.GET("/:strategy/weights", m.getWeights)
	group.PUT("/:strategy/weights", m.putWeights)
}

func (m *Module) getWeights(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}
	strategy, ok := parseStrategy(c)
	if !ok {
		return
	}

	weights, err := m.service.Weights(c.Request.Context(), tenantID, strategy)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"strategy": strategy.String(), "weights": weights})
}

func (m *Module) putWeights(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}
	strategy, ok := parseStrategy(c)
	if !ok {
		return
	}

	var weights matching.Weights
	if err := c.ShouldBindJSON(&weights); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := m.service.SaveWeights(c.Request.Context(), tenantID, strategy, weights); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"strategy": strategy.String(), "weights": weights})
}

func parseStrategy(c *gin.Context) (matching.Strategy, bool) {
	switch c.Param("strategy") {
	case "strict":
		return matching.StrategyStrict, true
	case "soft":
		return matching.StrategySoft, true
	default:
		httpkit.Error(c, http.StatusBadRequest, "unknown strategy", nil)
		return 0, false
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

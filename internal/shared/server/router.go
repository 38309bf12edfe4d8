package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/honterplatform/icetex/internal/knowledge"
	"github.com/honterplatform/icetex/internal/petitions"
	"github.com/honterplatform/icetex/internal/registry"
	"github.com/honterplatform/icetex/internal/shared/config"
	"github.com/honterplatform/icetex/internal/shared/metrics"
	"github.com/honterplatform/icetex/internal/shared/server/middleware"
)

const classifyRateGroup = "CLASSIFY"

// RouterDeps carries the handlers the router wires up. Nil handlers are
// skipped so tests can mount a subset.
type RouterDeps struct {
	Config    config.Config
	Petitions *petitions.Handler
	Knowledge *knowledge.Handler
	Registry  *registry.Handler
	Health    *HealthHandler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		classifyRateLimit(deps.Config),
	)

	r.GET("/healthz", healthz)
	r.HEAD("/healthz", healthz)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	if deps.Petitions != nil {
		deps.Petitions.RegisterRoutes(api)
	}
	if deps.Knowledge != nil {
		deps.Knowledge.RegisterRoutes(api)
	}
	if deps.Registry != nil {
		deps.Registry.RegisterRoutes(api)
	}

	return r
}

func healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// classifyRateLimit throttles the expensive classification endpoint; all
// other routes pass through unlimited. Rate or burst <= 0 disables the
// limiter.
func classifyRateLimit(cfg config.Config) gin.HandlerFunc {
	return middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			classifyRateGroup: {Rate: cfg.ClassifyRate, Burst: cfg.ClassifyBurst},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.Request.URL.Path == "/api/v1/petitions/classify" {
				return classifyRateGroup
			}
			return ""
		},
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

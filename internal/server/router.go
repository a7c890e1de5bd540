package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loanfile-backend/internal/documents"
	"loanfile-backend/internal/ingest"
	"loanfile-backend/internal/services/health"
	"loanfile-backend/internal/shared/config"
	"loanfile-backend/internal/shared/metrics"
	"loanfile-backend/internal/shared/server/middleware"
	"loanfile-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config    config.Config
	Health    *health.Service
	Ingest    *ingest.Handler
	Documents *documents.Handler
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
		middleware.RateLimit(rateLimitConfig()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	if deps.Ingest != nil {
		deps.Ingest.RegisterRoutes(api)
	}
	if deps.Documents != nil {
		deps.Documents.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig keeps the queue polling endpoints on a looser budget than
// the mutating routes; the UI polls snapshots while uploads are in flight.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet {
				switch c.FullPath() {
				case "/api/v1/uploads", "/api/v1/uploads/:id":
					return "POLLING"
				}
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 10, Burst: 30},
			"POLLING": {Rate: 50, Burst: 100},
		},
	}
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

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-store/internal/api"
	"resume-store/internal/services/health"
	"resume-store/internal/shared/config"
	"resume-store/internal/shared/metrics"
	"resume-store/internal/shared/server/middleware"
	"resume-store/internal/shared/server/respond"
)

const uploadRateGroup = "UPLOAD"

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config        config.Config
	ResumeHandler *api.Handler
	Health        *health.Service
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
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				uploadRateGroup: {Rate: 2, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/upload" {
					return uploadRateGroup
				}
				return ""
			},
		}),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, deps.Health.Status(c.Request.Context()))
	})
	r.GET("/metrics", metrics.Handler())
	deps.ResumeHandler.RegisterRoutes(r)

	return r
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

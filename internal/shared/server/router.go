package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wellness-backend/internal/checkins"
	"wellness-backend/internal/protocols"
	"wellness-backend/internal/services/health"
	"wellness-backend/internal/shared/auth"
	"wellness-backend/internal/shared/config"
	"wellness-backend/internal/shared/metrics"
	"wellness-backend/internal/shared/server/middleware"
	"wellness-backend/internal/shared/server/respond"
)

const checkinWriteGroup = "CHECKIN_WRITE"

// RouterDeps carries the handlers and settings the router mounts.
type RouterDeps struct {
	Config           config.Config
	Verifier         *auth.Verifier
	Health           *health.Service
	ProtocolsHandler *protocols.Handler
	CheckinsHandler  *checkins.Handler
	// RateLimiter overrides the limiter clock in tests.
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Live())
	})
	r.GET("/ready", func(c *gin.Context) {
		status := deps.Health.Ready(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(
		middleware.Auth(deps.Verifier),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				checkinWriteGroup: {
					Rate:  deps.Config.CheckinRatePerMin / 60.0,
					Burst: deps.Config.CheckinRateBurst,
				},
			},
			GroupFor: rateLimitGroup,
			Limiter:  deps.RateLimiter,
		}),
	)
	registerMeRoutes(api)
	if deps.ProtocolsHandler != nil {
		deps.ProtocolsHandler.RegisterRoutes(api)
	}
	if deps.CheckinsHandler != nil {
		deps.CheckinsHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup puts stored check-in writes in their own bucket; previews and reads are not limited.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/checkins" {
		return checkinWriteGroup
	}
	return ""
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

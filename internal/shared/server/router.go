package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careers-backend/internal/account"
	"careers-backend/internal/applications"
	googleauth "careers-backend/internal/auth"
	"careers-backend/internal/jobs"
	"careers-backend/internal/review"
	"careers-backend/internal/shared/config"
	"careers-backend/internal/shared/metrics"
	"careers-backend/internal/shared/server/middleware"
	"careers-backend/internal/shared/server/respond"
	"careers-backend/internal/uploads"
	"careers-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts. Nil handlers are
// skipped so tests can wire only what they exercise.
type RouterDeps struct {
	Config              config.Config
	AccountHandler      *account.Handler
	ApplicationsHandler *applications.Handler
	JobsHandler         *jobs.Handler
	ReviewHandler       *review.Handler
	UsersHandler        *users.Handler
	GoogleAuth          *googleauth.GoogleService
	Roles               middleware.RoleChecker
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Registered before the middleware chain: scrape traffic carries no
	// identity.
	r.GET("/metrics", metrics.Handler())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"STAGE":  {Rate: 1, Burst: 20},
			"SUBMIT": {Rate: 0.5, Burst: 10},
		},
		GroupFor: func(c *gin.Context) string {
			switch {
			case strings.HasSuffix(c.Request.URL.Path, "/documents/stage"):
				return "STAGE"
			case strings.HasSuffix(c.Request.URL.Path, "/application/submit"):
				return "SUBMIT"
			}
			return ""
		},
	}))
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterRoutes(api)
	}
	if deps.ApplicationsHandler != nil {
		deps.ApplicationsHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	uploads.RegisterRoutes(api)

	if deps.ReviewHandler != nil && deps.Roles != nil {
		admin := api.Group("/admin", middleware.RequireReviewer(deps.Roles))
		deps.ReviewHandler.RegisterRoutes(admin)
		if deps.JobsHandler != nil {
			deps.JobsHandler.RegisterAdminRoutes(admin)
		}
	}

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

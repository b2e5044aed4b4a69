package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/uniforum/uniforum/internal/auth"
	"github.com/uniforum/uniforum/internal/handlers"
	"github.com/uniforum/uniforum/internal/middleware"
	"github.com/uniforum/uniforum/internal/services"
)

// Options toggles the optional surfaces of the router.
type Options struct {
	Prometheus     bool
	PrometheusPath string
	RateLimit      int
	RateWindow     time.Duration
}

// Dependencies carries the services the routes are built from.
type Dependencies struct {
	DB        *gorm.DB
	JWT       *iauth.JWTService
	Accounts  *services.AccountService
	Questions *services.QuestionService
	Answers   *services.AnswerService
	Users     *services.UserService
}

// NewRouter wires the full HTTP surface: middleware chain, health and
// metrics endpoints, and the /api route groups.
func NewRouter(deps Dependencies, opts Options) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	if opts.RateLimit > 0 {
		window := opts.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(middleware.RateLimit(opts.RateLimit, window))
	}

	r.NoRoute(middleware.NotFoundHandler)

	health := handlers.NewHealthHandler(deps.DB)
	r.GET("/health", health.Health)

	if opts.Prometheus {
		path := opts.PrometheusPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	apiGroup := r.Group("/api")
	registerAuthRoutes(apiGroup, deps)
	registerQuestionRoutes(apiGroup, deps)
	registerAnswerRoutes(apiGroup, deps)
	registerUserRoutes(apiGroup, deps)

	return r
}

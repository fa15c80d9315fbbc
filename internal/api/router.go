package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/app"
	iauth "github.com/talentrail/talentrail/internal/auth"
	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
	"github.com/talentrail/talentrail/internal/permissions"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
// A nil config falls back to the application defaults.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	rateRequests := 100
	rateWindow := time.Minute
	metricsEnabled := true
	metricsEndpoint := "/metrics"
	healthEnabled := true
	if cfg != nil {
		rateRequests = cfg.RateLimit.Requests
		if cfg.RateLimit.Window > 0 {
			rateWindow = cfg.RateLimit.Window
		}
		metricsEnabled = cfg.Monitoring.Prometheus.Enabled
		if cfg.Monitoring.Prometheus.Endpoint != "" {
			metricsEndpoint = cfg.Monitoring.Prometheus.Endpoint
		}
		healthEnabled = cfg.Monitoring.Health.Enabled
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(rateRequests, rateWindow))

	if healthEnabled {
		r.GET("/health", handlers.Health(db))
	}
	if metricsEnabled {
		r.GET(metricsEndpoint, gin.WrapH(promhttp.Handler()))
	}

	checker, err := permissions.NewChecker(db)
	if err != nil {
		return nil, err
	}

	cvLinkHandler, err := handlers.NewCvLinkHandler(db)
	if err != nil {
		return nil, err
	}
	// Public share endpoint: resolved by opaque key, no auth
	r.GET("/cv/:key", cvLinkHandler.Resolve)

	if err := registerAuthRoutes(r, db, jwt); err != nil {
		return nil, err
	}

	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	if err := registerCandidateRoutes(api, db, checker, cvLinkHandler); err != nil {
		return nil, err
	}
	if err := registerScheduleRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerBulkRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerReplacementRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerAnalyticsRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerRegistryRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerOutletRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerUserRoutes(api, db, checker); err != nil {
		return nil, err
	}
	if err := registerAuditRoutes(api, db, checker); err != nil {
		return nil, err
	}

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}

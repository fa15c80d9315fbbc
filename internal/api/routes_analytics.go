package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
	"github.com/talentrail/talentrail/internal/permissions"
)

func registerAnalyticsRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker) error {
	analyticsHandler, err := handlers.NewAnalyticsHandler(db)
	if err != nil {
		return err
	}

	api.GET("/analytics/summary", middleware.RequirePermission(checker, "analytics.view"), analyticsHandler.Summary)

	return nil
}

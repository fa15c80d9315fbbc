package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
	"github.com/talentrail/talentrail/internal/permissions"
)

func registerScheduleRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker) error {
	scheduleHandler, err := handlers.NewScheduleHandler(db)
	if err != nil {
		return err
	}

	schedules := api.Group("/schedules")
	{
		schedules.GET("", middleware.RequirePermission(checker, "schedule.view"), scheduleHandler.List)
		schedules.PUT("/:id/status", middleware.RequirePermission(checker, "schedule.manage"), scheduleHandler.UpdateStatus)
		schedules.DELETE("/:id", middleware.RequirePermission(checker, "schedule.manage"), scheduleHandler.Delete)
	}

	return nil
}

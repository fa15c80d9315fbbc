package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
	"github.com/talentrail/talentrail/internal/permissions"
)

func registerBulkRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker) error {
	bulkHandler, err := handlers.NewBulkHandler(db)
	if err != nil {
		return err
	}

	bulk := api.Group("/bulk")
	{
		bulk.POST("/status", middleware.RequirePermission(checker, "schedule.manage"), bulkHandler.SetStatus)
		bulk.POST("/scheduled-at", middleware.RequirePermission(checker, "schedule.manage"), bulkHandler.SetScheduledAt)
		bulk.POST("/active", middleware.RequirePermission(checker, "candidate.edit"), bulkHandler.SetActive)
	}

	return nil
}

package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
	"github.com/talentrail/talentrail/internal/permissions"
)

func registerReplacementRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker) error {
	replacementHandler, err := handlers.NewReplacementHandler(db)
	if err != nil {
		return err
	}

	replacements := api.Group("/replacements")
	{
		replacements.GET("", middleware.RequirePermission(checker, "replacement.view"), replacementHandler.List)
		replacements.POST("", middleware.RequirePermission(checker, "replacement.manage"), replacementHandler.Record)
	}

	return nil
}

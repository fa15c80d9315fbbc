package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
	"github.com/talentrail/talentrail/internal/permissions"
)

func registerOutletRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker) error {
	outletHandler, err := handlers.NewOutletHandler(db)
	if err != nil {
		return err
	}

	outlets := api.Group("/outlets")
	{
		outlets.GET("", middleware.RequirePermission(checker, "registry.view"), outletHandler.List)
		outlets.POST("", middleware.RequirePermission(checker, "registry.manage"), outletHandler.Create)
		outlets.GET("/:id", middleware.RequirePermission(checker, "registry.view"), outletHandler.Get)
		outlets.PUT("/:id", middleware.RequirePermission(checker, "registry.manage"), outletHandler.Update)
		outlets.DELETE("/:id", middleware.RequirePermission(checker, "registry.manage"), outletHandler.Delete)
	}

	return nil
}

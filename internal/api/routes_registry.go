package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
	"github.com/talentrail/talentrail/internal/permissions"
)

func registerRegistryRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker) error {
	registryHandler, err := handlers.NewRegistryHandler(db)
	if err != nil {
		return err
	}

	view := middleware.RequirePermission(checker, "registry.view")
	manage := middleware.RequirePermission(checker, "registry.manage")

	registry := api.Group("/registry")
	{
		registry.GET("/statuses", view, registryHandler.ListStatuses)
		registry.POST("/statuses", manage, registryHandler.CreateStatus)
		registry.PUT("/statuses/:id", manage, registryHandler.UpdateStatus)
		registry.DELETE("/statuses/:id", manage, registryHandler.DeleteStatus)

		registry.GET("/positions", view, registryHandler.ListPositions)
		registry.POST("/positions", manage, registryHandler.CreatePosition)
		registry.DELETE("/positions/:id", manage, registryHandler.DeletePosition)

		registry.GET("/locations", view, registryHandler.ListLocations)
		registry.POST("/locations", manage, registryHandler.CreateLocation)
		registry.DELETE("/locations/:id", manage, registryHandler.DeleteLocation)

		registry.GET("/outlet-types", view, registryHandler.ListOutletTypes)
		registry.POST("/outlet-types", manage, registryHandler.CreateOutletType)
		registry.DELETE("/outlet-types/:id", manage, registryHandler.DeleteOutletType)
	}

	return nil
}

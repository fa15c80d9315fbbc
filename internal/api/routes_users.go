package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
	"github.com/talentrail/talentrail/internal/permissions"
)

func registerUserRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker) error {
	userHandler, err := handlers.NewUserHandler(db)
	if err != nil {
		return err
	}

	users := api.Group("/users")
	{
		users.GET("", middleware.RequirePermission(checker, "user.view"), userHandler.List)
		users.POST("", middleware.RequirePermission(checker, "user.create"), userHandler.Create)
		users.GET("/:id", middleware.RequirePermission(checker, "user.view"), userHandler.Get)
		users.PUT("/:id/active", middleware.RequirePermission(checker, "user.create"), userHandler.SetActive)
	}

	return nil
}

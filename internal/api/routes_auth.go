package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/talentrail/talentrail/internal/auth"
	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
)

func registerAuthRoutes(r *gin.Engine, db *gorm.DB, jwt *iauth.JWTService) error {
	authHandler, err := handlers.NewAuthHandler(db, jwt)
	if err != nil {
		return err
	}

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.Auth(jwt), authHandler.Me)
	}

	return nil
}

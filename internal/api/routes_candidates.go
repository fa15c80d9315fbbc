package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/handlers"
	"github.com/talentrail/talentrail/internal/middleware"
	"github.com/talentrail/talentrail/internal/permissions"
)

func registerCandidateRoutes(api *gin.RouterGroup, db *gorm.DB, checker *permissions.Checker, cvLinkHandler *handlers.CvLinkHandler) error {
	candidateHandler, err := handlers.NewCandidateHandler(db)
	if err != nil {
		return err
	}
	scheduleHandler, err := handlers.NewScheduleHandler(db)
	if err != nil {
		return err
	}

	candidates := api.Group("/candidates")
	{
		candidates.GET("", middleware.RequirePermission(checker, "candidate.view"), candidateHandler.List)
		candidates.POST("", middleware.RequirePermission(checker, "candidate.create"), candidateHandler.Create)
		candidates.GET("/:id", middleware.RequirePermission(checker, "candidate.view"), candidateHandler.Get)
		candidates.PUT("/:id", middleware.RequirePermission(checker, "candidate.edit"), candidateHandler.Update)
		candidates.DELETE("/:id", middleware.RequirePermission(checker, "candidate.delete"), candidateHandler.Delete)
		candidates.PUT("/:id/status", middleware.RequirePermission(checker, "candidate.edit"), candidateHandler.SetStatus)
		candidates.PUT("/:id/active", middleware.RequirePermission(checker, "candidate.edit"), candidateHandler.SetActive)

		candidates.GET("/:id/schedules", middleware.RequirePermission(checker, "schedule.view"), scheduleHandler.ListForCandidate)
		candidates.POST("/:id/schedules", middleware.RequirePermission(checker, "schedule.manage"), scheduleHandler.Create)

		candidates.GET("/:id/cv-link", middleware.RequirePermission(checker, "cvlink.manage"), cvLinkHandler.Current)
		candidates.POST("/:id/cv-link", middleware.RequirePermission(checker, "cvlink.manage"), cvLinkHandler.EnsureActive)
		candidates.DELETE("/:id/cv-link", middleware.RequirePermission(checker, "cvlink.manage"), cvLinkHandler.Deactivate)
	}

	return nil
}

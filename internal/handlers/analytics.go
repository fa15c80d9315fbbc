package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/services"
	"github.com/talentrail/talentrail/pkg/response"
)

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(db *gorm.DB) (*AnalyticsHandler, error) {
	svc, err := services.NewAnalyticsService(db)
	if err != nil {
		return nil, err
	}
	return &AnalyticsHandler{svc: svc}, nil
}

// GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	opts := services.SummaryOptions{
		Period: c.DefaultQuery("period", services.PeriodMonth),
		Bucket: c.Query("bucket"),
		HrID:   c.Query("hr_id"),
		From:   parseTimeQuery(c, "from"),
		To:     parseTimeQuery(c, "to"),
	}

	summary, err := h.svc.Summary(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

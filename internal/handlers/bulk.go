package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/services"
	"github.com/talentrail/talentrail/pkg/response"
)

type BulkHandler struct {
	svc *services.BulkService
}

func NewBulkHandler(db *gorm.DB) (*BulkHandler, error) {
	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewBulkService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	return &BulkHandler{svc: svc}, nil
}

type bulkSetStatusRequest struct {
	CandidateIDs []uint `json:"candidate_ids" validate:"required,min=1"`
	Status       string `json:"status" validate:"required"`
	OutletIDs    []uint `json:"outlet_ids" validate:"required,min=1"`
}

// POST /api/bulk/status
func (h *BulkHandler) SetStatus(c *gin.Context) {
	var req bulkSetStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.SetStatus(requestContext(c), req.CandidateIDs, req.Status, req.OutletIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

type bulkSetScheduledAtRequest struct {
	CandidateIDs []uint    `json:"candidate_ids" validate:"required,min=1"`
	ScheduledAt  time.Time `json:"scheduled_at" validate:"required"`
	OutletIDs    []uint    `json:"outlet_ids" validate:"required,min=1"`
}

// POST /api/bulk/scheduled-at
func (h *BulkHandler) SetScheduledAt(c *gin.Context) {
	var req bulkSetScheduledAtRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.SetScheduledAt(requestContext(c), req.CandidateIDs, req.ScheduledAt, req.OutletIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

type bulkSetActiveRequest struct {
	CandidateIDs []uint `json:"candidate_ids" validate:"required,min=1"`
	Active       bool   `json:"active"`
	Reason       string `json:"reason"`
	Category     string `json:"category"`
}

// POST /api/bulk/active
func (h *BulkHandler) SetActive(c *gin.Context) {
	var req bulkSetActiveRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.SetActive(requestContext(c), req.CandidateIDs, req.Active, req.Reason, req.Category)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

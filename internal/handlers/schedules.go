package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/services"
	"github.com/talentrail/talentrail/pkg/response"
)

type ScheduleHandler struct {
	svc *services.ScheduleService
}

func NewScheduleHandler(db *gorm.DB) (*ScheduleHandler, error) {
	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewScheduleService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	return &ScheduleHandler{svc: svc}, nil
}

type scheduleSlotPayload struct {
	OutletID      uint      `json:"outlet_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	InterviewType string    `json:"interview_type"`
	Remarks       string    `json:"remarks"`
}

type createSchedulesRequest struct {
	Slots  []scheduleSlotPayload `json:"slots" validate:"required,min=1"`
	Status string                `json:"status"`
}

// POST /api/candidates/:id/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	candidateID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req createSchedulesRequest
	if !bindAndValidate(c, &req) {
		return
	}

	slots := make([]services.ScheduleSlot, 0, len(req.Slots))
	for _, slot := range req.Slots {
		slots = append(slots, services.ScheduleSlot{
			OutletID:      slot.OutletID,
			ScheduledAt:   slot.ScheduledAt,
			InterviewType: slot.InterviewType,
			Remarks:       slot.Remarks,
		})
	}

	created, err := h.svc.CreateSlots(requestContext(c), services.CreateSlotsInput{
		CandidateID: candidateID,
		Slots:       slots,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"created":   len(created),
		"schedules": created,
	})
}

// GET /api/candidates/:id/schedules
func (h *ScheduleHandler) ListForCandidate(c *gin.Context) {
	candidateID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	slots, err := h.svc.ListForCandidate(requestContext(c), candidateID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, slots)
}

// GET /api/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 50)

	filters := services.ScheduleFilters{
		OutletIDs: parseUintListQuery(c, "outlet_id"),
		From:      parseTimeQuery(c, "from"),
		To:        parseTimeQuery(c, "to"),
		Date:      parseTimeQuery(c, "date"),
		Status:    c.Query("status"),
	}
	if id := parseIntQuery(c, "candidate_id", 0); id > 0 {
		filters.CandidateID = uint(id)
	}

	slots, total, err := h.svc.List(requestContext(c), services.ListSchedulesOptions{
		Page:     page,
		PageSize: limit,
		Filters:  filters,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, slots, response.NewMeta(page, limit, total))
}

type updateScheduleStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Remarks string `json:"remarks"`
}

// PUT /api/schedules/:id/status
func (h *ScheduleHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req updateScheduleStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updated, err := h.svc.UpdateStatus(requestContext(c), id, req.Status, req.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

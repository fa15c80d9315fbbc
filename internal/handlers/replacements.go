package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/services"
	"github.com/talentrail/talentrail/pkg/response"
)

type ReplacementHandler struct {
	svc *services.ReplacementService
}

func NewReplacementHandler(db *gorm.DB) (*ReplacementHandler, error) {
	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewReplacementService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	return &ReplacementHandler{svc: svc}, nil
}

type recordReplacementRequest struct {
	ReplacedID      uint      `json:"replaced_id" validate:"required"`
	ReplacementID   uint      `json:"replacement_id" validate:"required"`
	OutletID        uint      `json:"outlet_id"`
	Position        string    `json:"position"`
	DateOfJoining   time.Time `json:"date_of_joining"`
	ExitDate        time.Time `json:"exit_date"`
	ReplacedHrID    string    `json:"replaced_hr_id"`
	ReplacementHrID string    `json:"replacement_hr_id"`
	Salary          string    `json:"salary"`
}

// POST /api/replacements
func (h *ReplacementHandler) Record(c *gin.Context) {
	var req recordReplacementRequest
	if !bindAndValidate(c, &req) {
		return
	}

	row, err := h.svc.Record(requestContext(c), services.RecordReplacementInput{
		ReplacedID:      req.ReplacedID,
		ReplacementID:   req.ReplacementID,
		OutletID:        req.OutletID,
		Position:        req.Position,
		DateOfJoining:   req.DateOfJoining,
		ExitDate:        req.ExitDate,
		ReplacedHrID:    req.ReplacedHrID,
		ReplacementHrID: req.ReplacementHrID,
		Salary:          req.Salary,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, row)
}

// GET /api/replacements
func (h *ReplacementHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 50)

	filters := services.ReplacementFilters{
		From: parseTimeQuery(c, "from"),
		To:   parseTimeQuery(c, "to"),
	}
	if id := parseIntQuery(c, "outlet_id", 0); id > 0 {
		filters.OutletID = uint(id)
	}
	if id := parseIntQuery(c, "candidate_id", 0); id > 0 {
		filters.CandidateID = uint(id)
	}

	records, total, err := h.svc.List(requestContext(c), services.ListReplacementsOptions{
		Page:     page,
		PageSize: limit,
		Filters:  filters,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, records, response.NewMeta(page, limit, total))
}

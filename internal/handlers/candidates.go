package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/models"
	"github.com/talentrail/talentrail/internal/services"
	"github.com/talentrail/talentrail/pkg/response"
)

type CandidateHandler struct {
	svc *services.CandidateService
}

func NewCandidateHandler(db *gorm.DB) (*CandidateHandler, error) {
	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewCandidateService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	return &CandidateHandler{svc: svc}, nil
}

type attachmentPayload struct {
	Path  string `json:"path" validate:"required"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type createCandidateRequest struct {
	Name             string              `json:"name" validate:"required,max=150"`
	Phone            string              `json:"phone" validate:"required"`
	Email            string              `json:"email" validate:"omitempty,email"`
	Position         string              `json:"position" validate:"required"`
	Locations        []string            `json:"locations" validate:"required,min=1"`
	ExpectedSalary   string              `json:"expected_salary"`
	ExperienceBand   string              `json:"experience_band"`
	Skills           string              `json:"skills"`
	Education        string              `json:"education"`
	PreviousEmployer string              `json:"previous_employer"`
	Status           string              `json:"status"`
	ShareIntro       string              `json:"share_intro"`
	Attachments      []attachmentPayload `json:"attachments" validate:"required,min=1,dive"`
	AppliedDate      *time.Time          `json:"applied_date"`
}

// POST /api/candidates
func (h *CandidateHandler) Create(c *gin.Context) {
	var req createCandidateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.Create(requestContext(c), services.CreateCandidateInput{
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		Position:         req.Position,
		Locations:        req.Locations,
		ExpectedSalary:   req.ExpectedSalary,
		ExperienceBand:   req.ExperienceBand,
		Skills:           req.Skills,
		Education:        req.Education,
		PreviousEmployer: req.PreviousEmployer,
		Status:           req.Status,
		ShareIntro:       req.ShareIntro,
		Attachments:      toAttachments(req.Attachments),
		AppliedDate:      req.AppliedDate,
		AddedByHrID:      currentUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// GET /api/candidates
func (h *CandidateHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 50)

	filters := services.CandidateFilters{
		Status:            c.Query("status"),
		Positions:         parseStringListQuery(c, "position"),
		Search:            c.Query("search"),
		Locations:         parseStringListQuery(c, "location"),
		Phone:             c.Query("phone"),
		ResumeStaleMonths: parseIntQuery(c, "resume_stale_months", 0),
		AppliedFrom:       parseTimeQuery(c, "applied_from"),
		AppliedTo:         parseTimeQuery(c, "applied_to"),
		UpdatedFrom:       parseTimeQuery(c, "updated_from"),
		UpdatedTo:         parseTimeQuery(c, "updated_to"),
		OutletIDs:         parseUintListQuery(c, "outlet_id"),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filters.IsActive = &active
	}

	items, total, err := h.svc.List(requestContext(c), services.ListCandidatesOptions{
		Page:     page,
		PageSize: limit,
		Filters:  filters,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, response.NewMeta(page, limit, total))
}

// GET /api/candidates/:id
func (h *CandidateHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	candidate, err := h.svc.GetByID(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, candidate)
}

type updateCandidateRequest struct {
	Name             *string             `json:"name"`
	Phone            *string             `json:"phone"`
	Email            *string             `json:"email" validate:"omitempty"`
	Position         *string             `json:"position"`
	Locations        []string            `json:"locations"`
	ExpectedSalary   *string             `json:"expected_salary"`
	ExperienceBand   *string             `json:"experience_band"`
	Skills           *string             `json:"skills"`
	Education        *string             `json:"education"`
	PreviousEmployer *string             `json:"previous_employer"`
	ShareIntro       *string             `json:"share_intro"`
	Attachments      []attachmentPayload `json:"attachments"`
}

// PUT /api/candidates/:id
func (h *CandidateHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req updateCandidateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.UpdateCandidateInput{
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		Position:         req.Position,
		Locations:        req.Locations,
		ExpectedSalary:   req.ExpectedSalary,
		ExperienceBand:   req.ExperienceBand,
		Skills:           req.Skills,
		Education:        req.Education,
		PreviousEmployer: req.PreviousEmployer,
		ShareIntro:       req.ShareIntro,
	}
	if req.Attachments != nil {
		input.Attachments = toAttachments(req.Attachments)
	}

	updated, err := h.svc.Update(requestContext(c), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/candidates/:id
func (h *CandidateHandler) Delete(c *gin.Context) {
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

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PUT /api/candidates/:id/status
func (h *CandidateHandler) SetStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req setStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updated, err := h.svc.SetStatus(requestContext(c), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

type setActiveRequest struct {
	Active   bool   `json:"active"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
}

// PUT /api/candidates/:id/active
func (h *CandidateHandler) SetActive(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req setActiveRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updated, err := h.svc.SetActive(requestContext(c), id, req.Active, req.Reason, req.Category)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

func toAttachments(payloads []attachmentPayload) []models.Attachment {
	out := make([]models.Attachment, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, models.Attachment{Path: p.Path, Name: p.Name, Order: p.Order})
	}
	return out
}

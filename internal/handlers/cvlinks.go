package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/services"
	"github.com/talentrail/talentrail/pkg/response"
)

type CvLinkHandler struct {
	svc *services.CvLinkService
}

func NewCvLinkHandler(db *gorm.DB) (*CvLinkHandler, error) {
	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewCvLinkService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	return &CvLinkHandler{svc: svc}, nil
}

// POST /api/candidates/:id/cv-link
func (h *CvLinkHandler) EnsureActive(c *gin.Context) {
	candidateID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	link, err := h.svc.EnsureActive(requestContext(c), candidateID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, link)
}

// DELETE /api/candidates/:id/cv-link
func (h *CvLinkHandler) Deactivate(c *gin.Context) {
	candidateID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	link, err := h.svc.Deactivate(requestContext(c), candidateID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, link)
}

// GET /api/candidates/:id/cv-link
func (h *CvLinkHandler) Current(c *gin.Context) {
	candidateID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	link, err := h.svc.Current(requestContext(c), candidateID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if link == nil {
		response.Success(c, http.StatusOK, gin.H{"link": nil})
		return
	}
	response.Success(c, http.StatusOK, link)
}

// GET /cv/:key (public, unauthenticated share endpoint)
func (h *CvLinkHandler) Resolve(c *gin.Context) {
	candidate, err := h.svc.Resolve(requestContext(c), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// Shared profiles expose a trimmed view, never internal flags or notes.
	response.Success(c, http.StatusOK, gin.H{
		"name":        candidate.Name,
		"position":    candidate.Position,
		"locations":   candidate.LocationTags(),
		"experience":  candidate.ExperienceBand,
		"skills":      candidate.Skills,
		"education":   candidate.Education,
		"share_intro": candidate.ShareIntro,
		"attachments": candidate.AttachmentList(),
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/services"
	"github.com/talentrail/talentrail/pkg/response"
)

type RegistryHandler struct {
	svc *services.RegistryService
}

func NewRegistryHandler(db *gorm.DB) (*RegistryHandler, error) {
	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewRegistryService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	return &RegistryHandler{svc: svc}, nil
}

type createStatusRequest struct {
	Value string `json:"value" validate:"required,max=50"`
	Label string `json:"label" validate:"max=100"`
	Color string `json:"color" validate:"max=20"`
}

// POST /api/registry/statuses
func (h *RegistryHandler) CreateStatus(c *gin.Context) {
	var req createStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.CreateStatus(requestContext(c), services.CreateStatusInput{
		Value: req.Value,
		Label: req.Label,
		Color: req.Color,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// GET /api/registry/statuses
func (h *RegistryHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.svc.ListStatuses(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, statuses)
}

type updateStatusRequest struct {
	Label string `json:"label" validate:"max=100"`
	Color string `json:"color" validate:"max=20"`
}

// PUT /api/registry/statuses/:id
func (h *RegistryHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updated, err := h.svc.UpdateStatus(requestContext(c), id, req.Label, req.Color)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/registry/statuses/:id
func (h *RegistryHandler) DeleteStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteStatus(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type namedEntryRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// POST /api/registry/positions
func (h *RegistryHandler) CreatePosition(c *gin.Context) {
	var req namedEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.CreatePosition(requestContext(c), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// GET /api/registry/positions
func (h *RegistryHandler) ListPositions(c *gin.Context) {
	positions, err := h.svc.ListPositions(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, positions)
}

// DELETE /api/registry/positions/:id
func (h *RegistryHandler) DeletePosition(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePosition(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/registry/locations
func (h *RegistryHandler) CreateLocation(c *gin.Context) {
	var req namedEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.CreateLocation(requestContext(c), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// GET /api/registry/locations
func (h *RegistryHandler) ListLocations(c *gin.Context) {
	locations, err := h.svc.ListLocations(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, locations)
}

// DELETE /api/registry/locations/:id
func (h *RegistryHandler) DeleteLocation(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteLocation(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/registry/outlet-types
func (h *RegistryHandler) CreateOutletType(c *gin.Context) {
	var req namedEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.CreateOutletType(requestContext(c), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// GET /api/registry/outlet-types
func (h *RegistryHandler) ListOutletTypes(c *gin.Context) {
	outletTypes, err := h.svc.ListOutletTypes(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, outletTypes)
}

// DELETE /api/registry/outlet-types/:id
func (h *RegistryHandler) DeleteOutletType(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteOutletType(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/services"
	"github.com/talentrail/talentrail/pkg/response"
)

type OutletHandler struct {
	svc *services.OutletService
}

func NewOutletHandler(db *gorm.DB) (*OutletHandler, error) {
	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	svc, err := services.NewOutletService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	return &OutletHandler{svc: svc}, nil
}

type outletRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	OutletTypeID *uint  `json:"outlet_type_id"`
	LocationID   *uint  `json:"location_id"`
	Address      string `json:"address"`
}

// POST /api/outlets
func (h *OutletHandler) Create(c *gin.Context) {
	var req outletRequest
	if !bindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.Create(requestContext(c), services.OutletInput{
		Name:         req.Name,
		OutletTypeID: req.OutletTypeID,
		LocationID:   req.LocationID,
		Address:      req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// GET /api/outlets
func (h *OutletHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 50)

	opts := services.ListOutletsOptions{
		Page:     page,
		PageSize: limit,
		Search:   c.Query("search"),
	}
	if id := parseIntQuery(c, "outlet_type_id", 0); id > 0 {
		typeID := uint(id)
		opts.OutletTypeID = &typeID
	}
	if id := parseIntQuery(c, "location_id", 0); id > 0 {
		locationID := uint(id)
		opts.LocationID = &locationID
	}

	outlets, total, err := h.svc.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, outlets, response.NewMeta(page, limit, total))
}

// GET /api/outlets/:id
func (h *OutletHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	outlet, err := h.svc.GetByID(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, outlet)
}

type updateOutletRequest struct {
	Name         string `json:"name" validate:"max=150"`
	OutletTypeID *uint  `json:"outlet_type_id"`
	LocationID   *uint  `json:"location_id"`
	Address      string `json:"address"`
}

// PUT /api/outlets/:id
func (h *OutletHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req updateOutletRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updated, err := h.svc.Update(requestContext(c), id, services.OutletInput{
		Name:         req.Name,
		OutletTypeID: req.OutletTypeID,
		LocationID:   req.LocationID,
		Address:      req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/outlets/:id
func (h *OutletHandler) Delete(c *gin.Context) {
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

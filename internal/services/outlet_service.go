package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/models"
	apperrors "github.com/talentrail/talentrail/pkg/errors"
)

// ErrOutletNotFound indicates the requested outlet does not exist.
var ErrOutletNotFound = apperrors.New("OUTLET_NOT_FOUND", "Outlet not found", http.StatusNotFound)

// OutletInput describes the fields accepted when creating or updating an outlet.
type OutletInput struct {
	Name         string
	OutletTypeID *uint
	LocationID   *uint
	Address      string
}

// ListOutletsOptions controls filtering and pagination for outlet listing.
type ListOutletsOptions struct {
	Page         int
	PageSize     int
	Search       string
	OutletTypeID *uint
	LocationID   *uint
}

// OutletService manages the work sites interviews are booked against.
type OutletService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewOutletService constructs an OutletService instance.
func NewOutletService(db *gorm.DB, auditService *AuditService) (*OutletService, error) {
	if db == nil {
		return nil, errors.New("outlet service: db is required")
	}
	return &OutletService{db: db, auditService: auditService}, nil
}

// Create registers a new outlet.
func (s *OutletService) Create(ctx context.Context, input OutletInput) (*models.Outlet, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidation("outlet name is required")
	}

	outlet := models.Outlet{
		Name:         name,
		OutletTypeID: input.OutletTypeID,
		LocationID:   input.LocationID,
		Address:      strings.TrimSpace(input.Address),
	}
	if err := s.db.WithContext(ctx).Create(&outlet).Error; err != nil {
		return nil, fmt.Errorf("outlet service: create: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "outlet.create",
		Resource: name,
		Result:   "success",
	})

	return &outlet, nil
}

// GetByID loads an outlet with its type and location preloaded.
func (s *OutletService) GetByID(ctx context.Context, id uint) (*models.Outlet, error) {
	ctx = ensureContext(ctx)

	var outlet models.Outlet
	err := s.db.WithContext(ctx).
		Preload("OutletType").
		Preload("Location").
		First(&outlet, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOutletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("outlet service: get outlet: %w", err)
	}
	return &outlet, nil
}

// List retrieves outlets matching the supplied filters with pagination.
func (s *OutletService) List(ctx context.Context, opts ListOutletsOptions) ([]models.Outlet, int64, error) {
	ctx = ensureContext(ctx)

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PageSize
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	query := s.db.WithContext(ctx).Model(&models.Outlet{})
	if search := strings.TrimSpace(opts.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if opts.OutletTypeID != nil {
		query = query.Where("outlet_type_id = ?", *opts.OutletTypeID)
	}
	if opts.LocationID != nil {
		query = query.Where("location_id = ?", *opts.LocationID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("outlet service: count outlets: %w", err)
	}

	var outlets []models.Outlet
	if err := query.
		Order("name ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Preload("OutletType").
		Preload("Location").
		Find(&outlets).Error; err != nil {
		return nil, 0, fmt.Errorf("outlet service: list outlets: %w", err)
	}

	return outlets, total, nil
}

// Update persists mutable outlet attributes.
func (s *OutletService) Update(ctx context.Context, id uint, input OutletInput) (*models.Outlet, error) {
	ctx = ensureContext(ctx)

	var outlet models.Outlet
	err := s.db.WithContext(ctx).First(&outlet, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOutletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("outlet service: load outlet: %w", err)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		outlet.Name = name
	}
	if input.OutletTypeID != nil {
		outlet.OutletTypeID = input.OutletTypeID
	}
	if input.LocationID != nil {
		outlet.LocationID = input.LocationID
	}
	if address := strings.TrimSpace(input.Address); address != "" {
		outlet.Address = address
	}

	if err := s.db.WithContext(ctx).Save(&outlet).Error; err != nil {
		return nil, fmt.Errorf("outlet service: update: %w", err)
	}
	return &outlet, nil
}

// Delete removes an outlet. Schedules and replacement rows keep the bare
// outlet id; history is not rewritten.
func (s *OutletService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Outlet{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("outlet service: delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOutletNotFound
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "outlet.delete",
		Resource: fmt.Sprintf("%d", id),
		Result:   "success",
	})
	return nil
}

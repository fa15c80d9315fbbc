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

var (
	// ErrRegistryEntryNotFound indicates a missing reference-registry row.
	ErrRegistryEntryNotFound = apperrors.New("REGISTRY_ENTRY_NOT_FOUND", "Registry entry not found", http.StatusNotFound)
	// ErrRegistryDuplicate rejects a registry value that already exists.
	ErrRegistryDuplicate = apperrors.New("VALIDATION_ERROR", "Registry entry already exists", http.StatusBadRequest)
	// ErrStatusInUse blocks removal of a status still carried by candidates.
	ErrStatusInUse = apperrors.New("STATUS_IN_USE", "Status is referenced by existing candidates", http.StatusConflict)
)

// RegistryService manages the operator-editable reference registries:
// statuses, positions, locations, and outlet types. Uniqueness of the value is
// the only invariant; entries carry no workflow logic.
type RegistryService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewRegistryService constructs a RegistryService instance.
func NewRegistryService(db *gorm.DB, auditService *AuditService) (*RegistryService, error) {
	if db == nil {
		return nil, errors.New("registry service: db is required")
	}
	return &RegistryService{db: db, auditService: auditService}, nil
}

// CreateStatusInput describes a new workflow status.
type CreateStatusInput struct {
	Value string
	Label string
	Color string
}

// CreateStatus registers a new workflow status value.
func (s *RegistryService) CreateStatus(ctx context.Context, input CreateStatusInput) (*models.Status, error) {
	ctx = ensureContext(ctx)

	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, apperrors.NewValidation("status value is required")
	}

	label := strings.TrimSpace(input.Label)
	if label == "" {
		label = value
	}

	status := models.Status{
		Value: value,
		Label: label,
		Color: strings.TrimSpace(input.Color),
	}
	if err := s.db.WithContext(ctx).Create(&status).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrRegistryDuplicate
		}
		return nil, fmt.Errorf("registry service: create status: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "registry.status.create",
		Resource: value,
		Result:   "success",
	})

	return &status, nil
}

// ListStatuses returns every registered workflow status.
func (s *RegistryService) ListStatuses(ctx context.Context) ([]models.Status, error) {
	ctx = ensureContext(ctx)

	var statuses []models.Status
	if err := s.db.WithContext(ctx).Order("value ASC").Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("registry service: list statuses: %w", err)
	}
	return statuses, nil
}

// UpdateStatus changes the label or color of an existing status. The value
// itself is immutable: candidates reference it by string.
func (s *RegistryService) UpdateStatus(ctx context.Context, id uint, label, color string) (*models.Status, error) {
	ctx = ensureContext(ctx)

	var status models.Status
	err := s.db.WithContext(ctx).First(&status, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegistryEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("registry service: load status: %w", err)
	}

	if label = strings.TrimSpace(label); label != "" {
		status.Label = label
	}
	status.Color = strings.TrimSpace(color)

	if err := s.db.WithContext(ctx).Save(&status).Error; err != nil {
		return nil, fmt.Errorf("registry service: update status: %w", err)
	}
	return &status, nil
}

// DeleteStatus removes a status that no candidate currently carries.
func (s *RegistryService) DeleteStatus(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	var status models.Status
	err := s.db.WithContext(ctx).First(&status, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRegistryEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("registry service: load status: %w", err)
	}

	var inUse int64
	if err := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("status = ?", status.Value).
		Count(&inUse).Error; err != nil {
		return fmt.Errorf("registry service: check status usage: %w", err)
	}
	if inUse > 0 {
		return ErrStatusInUse
	}

	if err := s.db.WithContext(ctx).Delete(&status).Error; err != nil {
		return fmt.Errorf("registry service: delete status: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "registry.status.delete",
		Resource: status.Value,
		Result:   "success",
	})
	return nil
}

// CreatePosition registers a new position name.
func (s *RegistryService) CreatePosition(ctx context.Context, name string) (*models.Position, error) {
	ctx = ensureContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidation("position name is required")
	}

	position := models.Position{Name: name}
	if err := s.db.WithContext(ctx).Create(&position).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrRegistryDuplicate
		}
		return nil, fmt.Errorf("registry service: create position: %w", err)
	}
	return &position, nil
}

// ListPositions returns all registered positions.
func (s *RegistryService) ListPositions(ctx context.Context) ([]models.Position, error) {
	ctx = ensureContext(ctx)

	var positions []models.Position
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("registry service: list positions: %w", err)
	}
	return positions, nil
}

// DeletePosition removes a position entry.
func (s *RegistryService) DeletePosition(ctx context.Context, id uint) error {
	return s.deleteRegistryRow(ctx, &models.Position{}, id, "registry service: delete position")
}

// CreateLocation registers a new location name.
func (s *RegistryService) CreateLocation(ctx context.Context, name string) (*models.Location, error) {
	ctx = ensureContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidation("location name is required")
	}

	location := models.Location{Name: name}
	if err := s.db.WithContext(ctx).Create(&location).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrRegistryDuplicate
		}
		return nil, fmt.Errorf("registry service: create location: %w", err)
	}
	return &location, nil
}

// ListLocations returns all registered locations.
func (s *RegistryService) ListLocations(ctx context.Context) ([]models.Location, error) {
	ctx = ensureContext(ctx)

	var locations []models.Location
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("registry service: list locations: %w", err)
	}
	return locations, nil
}

// DeleteLocation removes a location entry.
func (s *RegistryService) DeleteLocation(ctx context.Context, id uint) error {
	return s.deleteRegistryRow(ctx, &models.Location{}, id, "registry service: delete location")
}

// CreateOutletType registers a new outlet classification.
func (s *RegistryService) CreateOutletType(ctx context.Context, name string) (*models.OutletType, error) {
	ctx = ensureContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidation("outlet type name is required")
	}

	outletType := models.OutletType{Name: name}
	if err := s.db.WithContext(ctx).Create(&outletType).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrRegistryDuplicate
		}
		return nil, fmt.Errorf("registry service: create outlet type: %w", err)
	}
	return &outletType, nil
}

// ListOutletTypes returns all registered outlet classifications.
func (s *RegistryService) ListOutletTypes(ctx context.Context) ([]models.OutletType, error) {
	ctx = ensureContext(ctx)

	var outletTypes []models.OutletType
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&outletTypes).Error; err != nil {
		return nil, fmt.Errorf("registry service: list outlet types: %w", err)
	}
	return outletTypes, nil
}

// DeleteOutletType removes an outlet type entry.
func (s *RegistryService) DeleteOutletType(ctx context.Context, id uint) error {
	return s.deleteRegistryRow(ctx, &models.OutletType{}, id, "registry service: delete outlet type")
}

func (s *RegistryService) deleteRegistryRow(ctx context.Context, model any, id uint, label string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("%s: %w", label, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRegistryEntryNotFound
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/models"
	apperrors "github.com/talentrail/talentrail/pkg/errors"
	"github.com/talentrail/talentrail/pkg/metrics"
)

var (
	// ErrScheduleNotFound indicates the requested schedule does not exist.
	ErrScheduleNotFound = apperrors.New("SCHEDULE_NOT_FOUND", "Schedule not found", http.StatusNotFound)
	// ErrCandidateInactive blocks scheduling against a deactivated candidate.
	ErrCandidateInactive = apperrors.New("CANDIDATE_INACTIVE", "Candidate is inactive and cannot be scheduled", http.StatusConflict)
	// ErrNoValidSlots is returned when every requested slot was dropped.
	ErrNoValidSlots = apperrors.New("NO_VALID_SLOTS", "No valid interview slots were supplied", http.StatusBadRequest)
)

// ScheduleSlot is one requested interview booking.
type ScheduleSlot struct {
	OutletID      uint
	ScheduledAt   time.Time
	InterviewType string
	Remarks       string
}

// CreateSlotsInput bundles a batch scheduling request for one candidate.
type CreateSlotsInput struct {
	CandidateID uint
	Slots       []ScheduleSlot
	Status      string
}

// ScheduleFilters captures the listing filters for schedules.
type ScheduleFilters struct {
	CandidateID uint
	OutletIDs   []uint
	Date        *time.Time
	From        *time.Time
	To          *time.Time
	Status      string
}

// ListSchedulesOptions controls pagination for schedule listing.
type ListSchedulesOptions struct {
	Page     int
	PageSize int
	Filters  ScheduleFilters
}

// ScheduleService books interview slots. Invalid slots in a batch are dropped
// silently; only a batch with zero usable slots is an error.
type ScheduleService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewScheduleService constructs a ScheduleService instance.
func NewScheduleService(db *gorm.DB, auditService *AuditService) (*ScheduleService, error) {
	if db == nil {
		return nil, errors.New("schedule service: db is required")
	}
	return &ScheduleService{db: db, auditService: auditService}, nil
}

// CreateSlots books the usable slots in the batch for one candidate and moves
// the candidate to the scheduled status. Slots missing an outlet or a time are
// skipped without failing the batch; duplicates are permitted.
func (s *ScheduleService) CreateSlots(ctx context.Context, input CreateSlotsInput) ([]models.Schedule, error) {
	ctx = ensureContext(ctx)

	var candidate models.Candidate
	err := s.db.WithContext(ctx).First(&candidate, "id = ?", input.CandidateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("schedule service: load candidate: %w", err)
	}
	if !candidate.IsActive {
		return nil, ErrCandidateInactive
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = "scheduled"
	}

	var usable []ScheduleSlot
	for _, slot := range input.Slots {
		if slot.OutletID == 0 || slot.ScheduledAt.IsZero() {
			continue
		}
		if slot.InterviewType == "" {
			slot.InterviewType = models.InterviewTypeInPerson
		}
		if !models.ValidInterviewType(slot.InterviewType) {
			continue
		}
		usable = append(usable, slot)
	}
	if len(usable) == 0 {
		return nil, ErrNoValidSlots
	}

	schedules := make([]models.Schedule, 0, len(usable))
	for _, slot := range usable {
		schedules = append(schedules, models.Schedule{
			CandidateID:   candidate.ID,
			OutletID:      slot.OutletID,
			ScheduledAt:   slot.ScheduledAt,
			InterviewType: slot.InterviewType,
			Status:        status,
			Remarks:       strings.TrimSpace(slot.Remarks),
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&schedules).Error; err != nil {
			return err
		}
		return tx.Model(&models.Candidate{}).
			Where("id = ?", candidate.ID).
			Update("status", status).Error
	})
	if err != nil {
		return nil, fmt.Errorf("schedule service: create slots: %w", err)
	}

	metrics.SchedulesCreated.Add(float64(len(schedules)))
	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "schedule.create",
		Resource: strconv.FormatUint(uint64(candidate.ID), 10),
		Result:   "success",
		Metadata: map[string]any{
			"requested": len(input.Slots),
			"booked":    len(schedules),
		},
	})

	return schedules, nil
}

// List retrieves schedules matching the supplied filters with pagination.
func (s *ScheduleService) List(ctx context.Context, opts ListSchedulesOptions) ([]models.Schedule, int64, error) {
	ctx = ensureContext(ctx)

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PageSize
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	query := s.db.WithContext(ctx).Model(&models.Schedule{})
	if opts.Filters.CandidateID != 0 {
		query = query.Where("candidate_id = ?", opts.Filters.CandidateID)
	}
	if outletIDs := dedupeUints(opts.Filters.OutletIDs); len(outletIDs) > 0 {
		query = query.Where("outlet_id IN ?", outletIDs)
	}
	if opts.Filters.Date != nil {
		year, month, day := opts.Filters.Date.Date()
		dayStart := time.Date(year, month, day, 0, 0, 0, 0, opts.Filters.Date.Location())
		query = query.Where("scheduled_at >= ? AND scheduled_at < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}
	if opts.Filters.From != nil {
		query = query.Where("scheduled_at >= ?", *opts.Filters.From)
	}
	if opts.Filters.To != nil {
		query = query.Where("scheduled_at <= ?", *opts.Filters.To)
	}
	if status := strings.TrimSpace(opts.Filters.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("schedule service: count schedules: %w", err)
	}

	var schedules []models.Schedule
	if err := query.
		Order("scheduled_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&schedules).Error; err != nil {
		return nil, 0, fmt.Errorf("schedule service: list schedules: %w", err)
	}

	return schedules, total, nil
}

// ListForCandidate returns all schedules for one candidate, newest first.
func (s *ScheduleService) ListForCandidate(ctx context.Context, candidateID uint) ([]models.Schedule, error) {
	ctx = ensureContext(ctx)

	var schedules []models.Schedule
	if err := s.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("scheduled_at DESC").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("schedule service: list for candidate: %w", err)
	}
	return schedules, nil
}

// LatestForCandidate returns the most recently created schedule for a
// candidate, or nil when none exists.
func (s *ScheduleService) LatestForCandidate(ctx context.Context, candidateID uint) (*models.Schedule, error) {
	ctx = ensureContext(ctx)

	var schedule models.Schedule
	err := s.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC, id DESC").
		First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("schedule service: latest for candidate: %w", err)
	}
	return &schedule, nil
}

// LatestForCandidateAtOutlet returns the candidate's slot at the outlet with
// the greatest scheduled time, or nil when the pair has never been scheduled.
func (s *ScheduleService) LatestForCandidateAtOutlet(ctx context.Context, candidateID, outletID uint) (*models.Schedule, error) {
	ctx = ensureContext(ctx)

	var schedule models.Schedule
	err := s.db.WithContext(ctx).
		Where("candidate_id = ? AND outlet_id = ?", candidateID, outletID).
		Order("scheduled_at DESC, id DESC").
		First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("schedule service: latest for candidate at outlet: %w", err)
	}
	return &schedule, nil
}

// UpdateStatus records an outcome on one schedule row without touching the
// candidate's workflow status.
func (s *ScheduleService) UpdateStatus(ctx context.Context, id uint, status, remarks string) (*models.Schedule, error) {
	ctx = ensureContext(ctx)

	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperrors.NewValidation("status is required")
	}

	var schedule models.Schedule
	err := s.db.WithContext(ctx).First(&schedule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("schedule service: load schedule: %w", err)
	}

	schedule.Status = status
	if remarks = strings.TrimSpace(remarks); remarks != "" {
		schedule.Remarks = remarks
	}
	if err := s.db.WithContext(ctx).Save(&schedule).Error; err != nil {
		return nil, fmt.Errorf("schedule service: update status: %w", err)
	}
	return &schedule, nil
}

// Delete removes one schedule row.
func (s *ScheduleService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Schedule{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("schedule service: delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

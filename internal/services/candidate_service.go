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
	// ErrCandidateNotFound indicates the requested candidate does not exist.
	ErrCandidateNotFound = apperrors.New("CANDIDATE_NOT_FOUND", "Candidate not found", http.StatusNotFound)
	// ErrInvalidPhone rejects phone numbers that are not exactly ten digits.
	ErrInvalidPhone = apperrors.New("VALIDATION_ERROR", "Phone number must be exactly 10 digits", http.StatusBadRequest)
	// ErrDuplicatePhone rejects intake of a phone number already on file.
	ErrDuplicatePhone = apperrors.New("DUPLICATE_PHONE", "A candidate with this phone number already exists", http.StatusBadRequest)
	// ErrUnknownStatus rejects status values missing from the status registry.
	ErrUnknownStatus = apperrors.New("UNKNOWN_STATUS", "Status is not present in the status registry", http.StatusBadRequest)
	// ErrInvalidInactiveCategory rejects inactivity categories outside the closed set.
	ErrInvalidInactiveCategory = apperrors.New("VALIDATION_ERROR", "Inactivity category must be one of behavioural_issue, theft_fraud, absconded, skill_mismatch", http.StatusBadRequest)
)

// DefaultCandidateStatus is applied when intake supplies no status.
const DefaultCandidateStatus = "recently-applied"

// CreateCandidateInput describes the fields accepted during candidate intake.
type CreateCandidateInput struct {
	Name             string
	Phone            string
	Email            string
	Position         string
	Locations        []string
	ExpectedSalary   string
	ExperienceBand   string
	Skills           string
	Education        string
	PreviousEmployer string
	Status           string
	ShareIntro       string
	Attachments      []models.Attachment
	AppliedDate      *time.Time
	AddedByHrID      string
	AddedByName      string
}

// UpdateCandidateInput enumerates mutable candidate attributes. Nil pointers indicate no change.
type UpdateCandidateInput struct {
	Name             *string
	Phone            *string
	Email            *string
	Position         *string
	Locations        []string
	ExpectedSalary   *string
	ExperienceBand   *string
	Skills           *string
	Education        *string
	PreviousEmployer *string
	ShareIntro       *string
	Attachments      []models.Attachment
}

// CandidateFilters captures the listing filters exposed by the API.
type CandidateFilters struct {
	Status            string
	Positions         []string
	Search            string
	Locations         []string
	IsActive          *bool
	Phone             string
	ResumeStaleMonths int
	AppliedFrom       *time.Time
	AppliedTo         *time.Time
	UpdatedFrom       *time.Time
	UpdatedTo         *time.Time
	OutletIDs         []uint
}

// ListCandidatesOptions controls pagination for candidate listing.
type ListCandidatesOptions struct {
	Page     int
	PageSize int
	Filters  CandidateFilters
}

// CandidateService owns candidate records, their status field, and the
// activation flag. Schedule, CV-link, and replacement records hang off it.
type CandidateService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewCandidateService constructs a CandidateService instance.
func NewCandidateService(db *gorm.DB, auditService *AuditService) (*CandidateService, error) {
	if db == nil {
		return nil, errors.New("candidate service: db is required")
	}
	return &CandidateService{
		db:           db,
		auditService: auditService,
	}, nil
}

// Create performs candidate intake. Phone is normalised and must be unique;
// at least one attachment, a position, and a location are required.
func (s *CandidateService) Create(ctx context.Context, input CreateCandidateInput) (*models.Candidate, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidation("name is required")
	}

	phone := normalizePhone(input.Phone)
	if !isTenDigits(phone) {
		return nil, ErrInvalidPhone
	}

	position := strings.TrimSpace(input.Position)
	if position == "" {
		return nil, apperrors.NewValidation("position is required")
	}

	locations := normaliseStrings(input.Locations)
	if len(locations) == 0 {
		return nil, apperrors.NewValidation("at least one location is required")
	}

	if len(input.Attachments) == 0 {
		return nil, apperrors.NewValidation("at least one attachment is required")
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = DefaultCandidateStatus
	}
	if err := s.ensureKnownStatus(ctx, status); err != nil {
		return nil, err
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("phone = ?", phone).
		Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("candidate service: check phone: %w", err)
	}
	if exists > 0 {
		return nil, ErrDuplicatePhone
	}

	now := time.Now()
	appliedDate := now
	if input.AppliedDate != nil && !input.AppliedDate.IsZero() {
		appliedDate = *input.AppliedDate
	}

	candidate := models.Candidate{
		Name:             name,
		Phone:            phone,
		Email:            strings.TrimSpace(input.Email),
		Position:         position,
		ExpectedSalary:   strings.TrimSpace(input.ExpectedSalary),
		ExperienceBand:   strings.TrimSpace(input.ExperienceBand),
		Skills:           strings.TrimSpace(input.Skills),
		Education:        strings.TrimSpace(input.Education),
		PreviousEmployer: strings.TrimSpace(input.PreviousEmployer),
		Status:           status,
		IsActive:         true,
		ShareIntro:       strings.TrimSpace(input.ShareIntro),
		AppliedDate:      appliedDate,
		ResumeUpdatedAt:  &now,
	}

	if err := candidate.SetLocationTags(locations); err != nil {
		return nil, fmt.Errorf("candidate service: encode locations: %w", err)
	}
	if err := candidate.SetAttachmentList(orderedAttachments(input.Attachments)); err != nil {
		return nil, fmt.Errorf("candidate service: encode attachments: %w", err)
	}

	if hrID := strings.TrimSpace(input.AddedByHrID); hrID != "" {
		candidate.AddedByHrID = &hrID
	}
	candidate.AddedByName = strings.TrimSpace(input.AddedByName)

	if err := s.db.WithContext(ctx).Create(&candidate).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("candidate service: create: %w", err)
	}

	metrics.CandidatesCreated.Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "candidate.create",
		Resource: strconv.FormatUint(uint64(candidate.ID), 10),
		Result:   "success",
		Metadata: map[string]any{
			"phone":    candidate.Phone,
			"position": candidate.Position,
		},
	})

	return &candidate, nil
}

// GetByID loads a candidate by identifier.
func (s *CandidateService) GetByID(ctx context.Context, id uint) (*models.Candidate, error) {
	ctx = ensureContext(ctx)

	var candidate models.Candidate
	err := s.db.WithContext(ctx).
		Preload("AddedByHr").
		First(&candidate, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("candidate service: get candidate: %w", err)
	}
	return &candidate, nil
}

// List retrieves candidates matching the supplied filters with pagination.
func (s *CandidateService) List(ctx context.Context, opts ListCandidatesOptions) ([]models.Candidate, int64, error) {
	ctx = ensureContext(ctx)

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PageSize
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	query := s.buildListQuery(ctx, opts.Filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("candidate service: count candidates: %w", err)
	}

	var candidates []models.Candidate
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Preload("AddedByHr").
		Find(&candidates).Error; err != nil {
		return nil, 0, fmt.Errorf("candidate service: list candidates: %w", err)
	}

	return candidates, total, nil
}

func (s *CandidateService) buildListQuery(ctx context.Context, filters CandidateFilters) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Candidate{})

	if status := strings.TrimSpace(filters.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if positions := normaliseStrings(filters.Positions); len(positions) > 0 {
		query = query.Where("position IN ?", positions)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if phone := normalizePhone(filters.Phone); phone != "" {
		query = query.Where("phone LIKE ?", "%"+phone+"%")
	}
	if locations := normaliseStrings(filters.Locations); len(locations) > 0 {
		// locations are stored as a JSON array; match each tag textually
		clause := query.Session(&gorm.Session{NewDB: true})
		for i, location := range locations {
			pattern := "%\"" + strings.ToLower(location) + "\"%"
			if i == 0 {
				clause = clause.Where("LOWER(locations) LIKE ?", pattern)
			} else {
				clause = clause.Or("LOWER(locations) LIKE ?", pattern)
			}
		}
		query = query.Where(clause)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		clause := query.Session(&gorm.Session{NewDB: true}).
			Where("LOWER(name) LIKE ?", pattern).
			Or("LOWER(email) LIKE ?", pattern).
			Or("phone LIKE ?", "%"+search+"%").
			Or("LOWER(position) LIKE ?", pattern).
			Or("LOWER(locations) LIKE ?", pattern)
		if id, err := strconv.ParseUint(search, 10, 64); err == nil {
			clause = clause.Or("id = ?", uint(id))
		}
		query = query.Where(clause)
	}
	if months := filters.ResumeStaleMonths; months > 0 {
		cutoff := time.Now().AddDate(0, -months, 0)
		query = query.Where("resume_updated_at IS NULL OR resume_updated_at < ?", cutoff)
	}
	if filters.AppliedFrom != nil {
		query = query.Where("applied_date >= ?", *filters.AppliedFrom)
	}
	if filters.AppliedTo != nil {
		query = query.Where("applied_date <= ?", *filters.AppliedTo)
	}
	if filters.UpdatedFrom != nil {
		query = query.Where("updated_at >= ?", *filters.UpdatedFrom)
	}
	if filters.UpdatedTo != nil {
		query = query.Where("updated_at <= ?", *filters.UpdatedTo)
	}
	if outletIDs := dedupeUints(filters.OutletIDs); len(outletIDs) > 0 {
		query = query.Where("id IN (?)",
			s.db.Model(&models.Schedule{}).
				Select("candidate_id").
				Where("outlet_id IN ?", outletIDs))
	}

	return query
}

// Update persists mutable attributes for an existing candidate. Supplying
// attachments refreshes ResumeUpdatedAt.
func (s *CandidateService) Update(ctx context.Context, id uint, input UpdateCandidateInput) (*models.Candidate, error) {
	ctx = ensureContext(ctx)

	var candidate models.Candidate
	err := s.db.WithContext(ctx).First(&candidate, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("candidate service: load candidate: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidation("name is required")
		}
		candidate.Name = name
	}
	if input.Phone != nil {
		phone := normalizePhone(*input.Phone)
		if !isTenDigits(phone) {
			return nil, ErrInvalidPhone
		}
		if phone != candidate.Phone {
			var exists int64
			if err := s.db.WithContext(ctx).Model(&models.Candidate{}).
				Where("phone = ? AND id <> ?", phone, candidate.ID).
				Count(&exists).Error; err != nil {
				return nil, fmt.Errorf("candidate service: check phone: %w", err)
			}
			if exists > 0 {
				return nil, ErrDuplicatePhone
			}
			candidate.Phone = phone
		}
	}
	if input.Email != nil {
		candidate.Email = strings.TrimSpace(*input.Email)
	}
	if input.Position != nil {
		position := strings.TrimSpace(*input.Position)
		if position == "" {
			return nil, apperrors.NewValidation("position is required")
		}
		candidate.Position = position
	}
	if input.Locations != nil {
		locations := normaliseStrings(input.Locations)
		if len(locations) == 0 {
			return nil, apperrors.NewValidation("at least one location is required")
		}
		if err := candidate.SetLocationTags(locations); err != nil {
			return nil, fmt.Errorf("candidate service: encode locations: %w", err)
		}
	}
	if input.ExpectedSalary != nil {
		candidate.ExpectedSalary = strings.TrimSpace(*input.ExpectedSalary)
	}
	if input.ExperienceBand != nil {
		candidate.ExperienceBand = strings.TrimSpace(*input.ExperienceBand)
	}
	if input.Skills != nil {
		candidate.Skills = strings.TrimSpace(*input.Skills)
	}
	if input.Education != nil {
		candidate.Education = strings.TrimSpace(*input.Education)
	}
	if input.PreviousEmployer != nil {
		candidate.PreviousEmployer = strings.TrimSpace(*input.PreviousEmployer)
	}
	if input.ShareIntro != nil {
		candidate.ShareIntro = strings.TrimSpace(*input.ShareIntro)
	}
	if input.Attachments != nil {
		if len(input.Attachments) == 0 {
			return nil, apperrors.NewValidation("at least one attachment is required")
		}
		if err := candidate.SetAttachmentList(orderedAttachments(input.Attachments)); err != nil {
			return nil, fmt.Errorf("candidate service: encode attachments: %w", err)
		}
		now := time.Now()
		candidate.ResumeUpdatedAt = &now
	}

	if err := s.db.WithContext(ctx).Save(&candidate).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("candidate service: update: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "candidate.update",
		Resource: strconv.FormatUint(uint64(candidate.ID), 10),
		Result:   "success",
	})

	return &candidate, nil
}

// SetStatus writes a new workflow status after validating it against the
// registry. No transition graph is enforced: any status may follow any other.
func (s *CandidateService) SetStatus(ctx context.Context, id uint, status string) (*models.Candidate, error) {
	ctx = ensureContext(ctx)

	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperrors.NewValidation("status is required")
	}
	if err := s.ensureKnownStatus(ctx, status); err != nil {
		return nil, err
	}

	var candidate models.Candidate
	err := s.db.WithContext(ctx).First(&candidate, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("candidate service: load candidate: %w", err)
	}

	candidate.Status = status
	if err := s.db.WithContext(ctx).Save(&candidate).Error; err != nil {
		return nil, fmt.Errorf("candidate service: set status: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "candidate.set_status",
		Resource: strconv.FormatUint(uint64(candidate.ID), 10),
		Result:   "success",
		Metadata: map[string]any{"status": status},
	})

	return &candidate, nil
}

// SetActive toggles the orthogonal activation flag. Deactivation with a reason
// requires a category from the closed set; reactivation clears both and leaves
// the workflow status untouched.
func (s *CandidateService) SetActive(ctx context.Context, id uint, active bool, reason, category string) (*models.Candidate, error) {
	ctx = ensureContext(ctx)

	var candidate models.Candidate
	err := s.db.WithContext(ctx).First(&candidate, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("candidate service: load candidate: %w", err)
	}

	reason = strings.TrimSpace(reason)
	category = strings.TrimSpace(category)

	if active {
		candidate.IsActive = true
		candidate.InactiveReason = ""
		candidate.InactiveCategory = ""
	} else {
		if reason != "" && !models.ValidInactiveCategory(category) {
			return nil, ErrInvalidInactiveCategory
		}
		candidate.IsActive = false
		candidate.InactiveReason = reason
		candidate.InactiveCategory = category
	}

	// Select forces zero-value writes when clearing the reason fields.
	if err := s.db.WithContext(ctx).Model(&candidate).
		Select("is_active", "inactive_reason", "inactive_category").
		Updates(map[string]any{
			"is_active":         candidate.IsActive,
			"inactive_reason":   candidate.InactiveReason,
			"inactive_category": candidate.InactiveCategory,
		}).Error; err != nil {
		return nil, fmt.Errorf("candidate service: set active: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "candidate.set_active",
		Resource: strconv.FormatUint(uint64(candidate.ID), 10),
		Result:   "success",
		Metadata: map[string]any{"active": active, "category": category},
	})

	return &candidate, nil
}

// Delete removes a candidate along with dependent schedules, CV links, and
// replacement ledger rows referencing it.
func (s *CandidateService) Delete(ctx context.Context, id uint) error {
	ctx = ensureContext(ctx)

	var candidate models.Candidate
	err := s.db.WithContext(ctx).First(&candidate, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCandidateNotFound
	}
	if err != nil {
		return fmt.Errorf("candidate service: load candidate: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidate_id = ?", id).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("candidate_id = ?", id).Delete(&models.CvLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("replaced_id = ? OR replacement_id = ?", id, id).Delete(&models.Replacement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Candidate{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("candidate service: delete: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "candidate.delete",
		Resource: strconv.FormatUint(uint64(id), 10),
		Result:   "success",
	})

	return nil
}

func (s *CandidateService) ensureKnownStatus(ctx context.Context, status string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Status{}).
		Where("value = ?", status).
		Count(&count).Error; err != nil {
		return fmt.Errorf("candidate service: check status: %w", err)
	}
	if count == 0 {
		return ErrUnknownStatus
	}
	return nil
}

// orderedAttachments fills missing order values from slice position.
func orderedAttachments(attachments []models.Attachment) []models.Attachment {
	out := make([]models.Attachment, 0, len(attachments))
	for i, attachment := range attachments {
		if attachment.Order == 0 {
			attachment.Order = i + 1
		}
		out = append(out, attachment)
	}
	return out
}

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
)

// ErrInvalidReplacement rejects ledger rows that pair a candidate with itself
// or reference a missing candidate.
var ErrInvalidReplacement = apperrors.New("INVALID_REPLACEMENT", "Replaced and replacement candidates must be distinct existing candidates", http.StatusBadRequest)

// RecordReplacementInput describes one new ledger row.
type RecordReplacementInput struct {
	ReplacedID      uint
	ReplacementID   uint
	OutletID        uint
	Position        string
	DateOfJoining   time.Time
	ExitDate        time.Time
	ReplacedHrID    string
	ReplacementHrID string
	Salary          string
}

// ReplacementFilters captures the listing filters for the ledger.
type ReplacementFilters struct {
	OutletID    uint
	CandidateID uint
	From        *time.Time
	To          *time.Time
}

// ListReplacementsOptions controls pagination for ledger listing.
type ListReplacementsOptions struct {
	Page     int
	PageSize int
	Filters  ReplacementFilters
}

// ReplacementRecord is one ledger row joined with candidate names and the
// schedule reconciliation flag.
type ReplacementRecord struct {
	models.Replacement

	ReplacedName      string `json:"replaced_name"`
	ReplacementName   string `json:"replacement_name"`
	OutletName        string `json:"outlet_name"`
	ScheduleConfirmed bool   `json:"schedule_confirmed"`
}

// ReplacementService maintains the append-only ledger of candidates swapped
// at an outlet. Rows are never updated or deleted through the API; the ledger
// records what HR asserted at the time.
type ReplacementService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewReplacementService constructs a ReplacementService instance.
func NewReplacementService(db *gorm.DB, auditService *AuditService) (*ReplacementService, error) {
	if db == nil {
		return nil, errors.New("replacement service: db is required")
	}
	return &ReplacementService{db: db, auditService: auditService}, nil
}

// Record appends one ledger row. A candidate cannot replace itself and both
// sides must exist; nothing else is cross-checked against schedules.
func (s *ReplacementService) Record(ctx context.Context, input RecordReplacementInput) (*models.Replacement, error) {
	ctx = ensureContext(ctx)

	if input.ReplacedID == 0 || input.ReplacementID == 0 {
		return nil, apperrors.NewValidation("replaced and replacement candidate ids are required")
	}
	if input.ReplacedID == input.ReplacementID {
		return nil, ErrInvalidReplacement
	}

	var found int64
	if err := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("id IN ?", []uint{input.ReplacedID, input.ReplacementID}).
		Count(&found).Error; err != nil {
		return nil, fmt.Errorf("replacement service: check candidates: %w", err)
	}
	if found != 2 {
		return nil, ErrInvalidReplacement
	}

	row := models.Replacement{
		ReplacedID:    input.ReplacedID,
		ReplacementID: input.ReplacementID,
		OutletID:      input.OutletID,
		Position:      strings.TrimSpace(input.Position),
		DateOfJoining: input.DateOfJoining,
		ExitDate:      input.ExitDate,
		Salary:        strings.TrimSpace(input.Salary),
	}
	if hr := strings.TrimSpace(input.ReplacedHrID); hr != "" {
		row.ReplacedHrID = &hr
	}
	if hr := strings.TrimSpace(input.ReplacementHrID); hr != "" {
		row.ReplacementHrID = &hr
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("replacement service: record: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "replacement.record",
		Resource: strconv.FormatUint(uint64(row.ID), 10),
		Result:   "success",
		Metadata: map[string]any{
			"replaced_id":    input.ReplacedID,
			"replacement_id": input.ReplacementID,
			"outlet_id":      input.OutletID,
		},
	})

	return &row, nil
}

// List returns ledger rows newest first, each annotated with whether the
// incoming candidate actually holds a schedule at the recorded outlet. The
// flag reconciles the assertion-only ledger against schedule data without
// coupling the two at write time.
func (s *ReplacementService) List(ctx context.Context, opts ListReplacementsOptions) ([]ReplacementRecord, int64, error) {
	ctx = ensureContext(ctx)

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PageSize
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	query := s.db.WithContext(ctx).Model(&models.Replacement{})
	if opts.Filters.OutletID != 0 {
		query = query.Where("outlet_id = ?", opts.Filters.OutletID)
	}
	if opts.Filters.CandidateID != 0 {
		query = query.Where("replaced_id = ? OR replacement_id = ?", opts.Filters.CandidateID, opts.Filters.CandidateID)
	}
	if opts.Filters.From != nil {
		query = query.Where("created_at >= ?", *opts.Filters.From)
	}
	if opts.Filters.To != nil {
		query = query.Where("created_at <= ?", *opts.Filters.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("replacement service: count rows: %w", err)
	}

	var rows []models.Replacement
	if err := query.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Preload("Replaced").
		Preload("Replacement").
		Preload("Outlet").
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("replacement service: list rows: %w", err)
	}

	records := make([]ReplacementRecord, 0, len(rows))
	for _, row := range rows {
		record := ReplacementRecord{
			Replacement:     row,
			ReplacedName:    row.Replaced.Name,
			ReplacementName: row.Replacement.Name,
			OutletName:      row.Outlet.Name,
		}

		if row.OutletID != 0 {
			var scheduled int64
			if err := s.db.WithContext(ctx).Model(&models.Schedule{}).
				Where("candidate_id = ? AND outlet_id = ?", row.ReplacementID, row.OutletID).
				Count(&scheduled).Error; err != nil {
				return nil, 0, fmt.Errorf("replacement service: reconcile row: %w", err)
			}
			record.ScheduleConfirmed = scheduled > 0
		}

		records = append(records, record)
	}

	return records, total, nil
}

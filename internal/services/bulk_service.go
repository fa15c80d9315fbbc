package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/models"
	apperrors "github.com/talentrail/talentrail/pkg/errors"
	"github.com/talentrail/talentrail/pkg/metrics"
)

// defaultBulkWorkers bounds the fan-out applied to bulk mutations.
const defaultBulkWorkers = 8

// BulkItemResult reports the outcome for one candidate in a bulk operation.
type BulkItemResult struct {
	CandidateID uint   `json:"candidate_id"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
}

// BulkResult summarises a bulk operation. Items are ordered by candidate id
// so callers can retry exactly the failed subset.
type BulkResult struct {
	Requested int              `json:"requested"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

// BulkService applies one mutation across many candidates concurrently. Each
// candidate is its own unit of work: failures are reported per item and never
// roll back siblings. Status and date rewrites target the latest existing
// schedule for each candidate at the selected outlets; a bulk change never
// creates a slot.
type BulkService struct {
	db           *gorm.DB
	auditService *AuditService
	workers      int
}

// NewBulkService constructs a BulkService instance.
func NewBulkService(db *gorm.DB, auditService *AuditService) (*BulkService, error) {
	if db == nil {
		return nil, errors.New("bulk service: db is required")
	}
	return &BulkService{
		db:           db,
		auditService: auditService,
		workers:      defaultBulkWorkers,
	}, nil
}

// SetStatus applies a status to every listed candidate: the candidate's own
// status field and, per selected outlet, the latest schedule at that outlet.
// A candidate with no schedule at any selected outlet fails individually.
func (s *BulkService) SetStatus(ctx context.Context, candidateIDs []uint, status string, outletIDs []uint) (*BulkResult, error) {
	ctx = ensureContext(ctx)

	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperrors.NewValidation("status is required")
	}
	var known int64
	if err := s.db.WithContext(ctx).Model(&models.Status{}).
		Where("value = ?", status).
		Count(&known).Error; err != nil {
		return nil, fmt.Errorf("bulk service: check status: %w", err)
	}
	if known == 0 {
		return nil, ErrUnknownStatus
	}

	outlets := dedupeUints(outletIDs)
	if len(outlets) == 0 {
		return nil, apperrors.NewValidation("at least one outlet id is required")
	}

	result, err := s.fanOut(ctx, candidateIDs, "set_status", func(ctx context.Context, id uint) error {
		var errs error
		rewritten := 0
		for _, outletID := range outlets {
			latest, err := s.latestSchedule(ctx, id, outletID)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if err := s.db.WithContext(ctx).Model(&models.Schedule{}).
				Where("id = ?", latest.ID).
				Update("status", status).Error; err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			rewritten++
		}
		if rewritten == 0 {
			return errs
		}
		updated := s.db.WithContext(ctx).Model(&models.Candidate{}).
			Where("id = ?", id).
			Update("status", status)
		if updated.Error != nil {
			return multierr.Append(errs, updated.Error)
		}
		if updated.RowsAffected == 0 {
			return multierr.Append(errs, ErrCandidateNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "bulk.set_status",
		Resource: status,
		Result:   "success",
		Metadata: map[string]any{
			"requested": result.Requested,
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
			"outlets":   outlets,
		},
	})
	return result, nil
}

// SetScheduledAt moves each candidate's latest schedule at the selected
// outlets to a new time. Candidates with no matching schedule fail
// individually; no slot is created.
func (s *BulkService) SetScheduledAt(ctx context.Context, candidateIDs []uint, scheduledAt time.Time, outletIDs []uint) (*BulkResult, error) {
	ctx = ensureContext(ctx)

	if scheduledAt.IsZero() {
		return nil, apperrors.NewValidation("scheduled time is required")
	}
	outlets := dedupeUints(outletIDs)
	if len(outlets) == 0 {
		return nil, apperrors.NewValidation("at least one outlet id is required")
	}

	result, err := s.fanOut(ctx, candidateIDs, "set_scheduled_at", func(ctx context.Context, id uint) error {
		var errs error
		rewritten := 0
		for _, outletID := range outlets {
			latest, err := s.latestSchedule(ctx, id, outletID)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if err := s.db.WithContext(ctx).Model(&models.Schedule{}).
				Where("id = ?", latest.ID).
				Update("scheduled_at", scheduledAt).Error; err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			rewritten++
		}
		if rewritten == 0 {
			return errs
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "bulk.set_scheduled_at",
		Resource: scheduledAt.Format(time.RFC3339),
		Result:   "success",
		Metadata: map[string]any{
			"requested": result.Requested,
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
			"outlets":   outlets,
		},
	})
	return result, nil
}

// SetActive toggles the activation flag across many candidates.
func (s *BulkService) SetActive(ctx context.Context, candidateIDs []uint, active bool, reason, category string) (*BulkResult, error) {
	ctx = ensureContext(ctx)

	reason = strings.TrimSpace(reason)
	category = strings.TrimSpace(category)
	if !active && reason != "" && !models.ValidInactiveCategory(category) {
		return nil, ErrInvalidInactiveCategory
	}

	updates := map[string]any{
		"is_active":         active,
		"inactive_reason":   "",
		"inactive_category": "",
	}
	if !active {
		updates["inactive_reason"] = reason
		updates["inactive_category"] = category
	}

	result, err := s.fanOut(ctx, candidateIDs, "set_active", func(ctx context.Context, id uint) error {
		updated := s.db.WithContext(ctx).Model(&models.Candidate{}).
			Where("id = ?", id).
			Updates(updates)
		if updated.Error != nil {
			return updated.Error
		}
		if updated.RowsAffected == 0 {
			return ErrCandidateNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "bulk.set_active",
		Resource: fmt.Sprintf("%t", active),
		Result:   "success",
		Metadata: map[string]any{
			"requested": result.Requested,
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
		},
	})
	return result, nil
}

// latestSchedule resolves the slot with the greatest scheduled time for a
// candidate at one outlet.
func (s *BulkService) latestSchedule(ctx context.Context, candidateID, outletID uint) (*models.Schedule, error) {
	var schedule models.Schedule
	err := s.db.WithContext(ctx).
		Where("candidate_id = ? AND outlet_id = ?", candidateID, outletID).
		Order("scheduled_at DESC, id DESC").
		First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("candidate %d has no schedule at outlet %d", candidateID, outletID)
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// fanOut runs one mutation per candidate across a bounded worker pool and
// collects per-item outcomes.
func (s *BulkService) fanOut(ctx context.Context, candidateIDs []uint, operation string, apply func(context.Context, uint) error) (*BulkResult, error) {
	ids := dedupeUints(candidateIDs)
	if len(ids) == 0 {
		return nil, apperrors.NewValidation("at least one candidate id is required")
	}

	workers := s.workers
	if workers <= 0 {
		workers = defaultBulkWorkers
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan uint)
	results := make(chan BulkItemResult, len(ids))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				item := BulkItemResult{CandidateID: id, OK: true}
				if err := apply(ctx, id); err != nil {
					item.OK = false
					item.Error = bulkErrorMessage(err)
				}
				results <- item
			}
		}()
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := &BulkResult{Requested: len(ids)}
	for item := range results {
		if item.OK {
			out.Succeeded++
			metrics.BulkSubOperations.WithLabelValues(operation, "success").Inc()
		} else {
			out.Failed++
			metrics.BulkSubOperations.WithLabelValues(operation, "failure").Inc()
		}
		out.Items = append(out.Items, item)
	}
	sort.Slice(out.Items, func(i, j int) bool {
		return out.Items[i].CandidateID < out.Items[j].CandidateID
	})

	return out, nil
}

func bulkErrorMessage(err error) string {
	if err == nil {
		return "no matching schedule"
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

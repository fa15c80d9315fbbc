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

// CvLinkValidity is how far the expiry date is pushed on issue or reactivation.
const CvLinkValidity = 3 * 24 * time.Hour

var (
	// ErrCvLinkNotFound indicates no link exists for the supplied key.
	ErrCvLinkNotFound = apperrors.New("CVLINK_NOT_FOUND", "CV link not found", http.StatusNotFound)
	// ErrCvLinkUnavailable covers paused and expired links on public resolution.
	ErrCvLinkUnavailable = apperrors.New("CVLINK_UNAVAILABLE", "CV link is no longer available", http.StatusGone)
)

// CvLinkService issues and revokes shareable candidate profile links. A
// candidate keeps a single current link; reactivation reuses the stored key so
// previously shared URLs stay valid.
type CvLinkService struct {
	db           *gorm.DB
	auditService *AuditService
	now          func() time.Time
}

// NewCvLinkService constructs a CvLinkService instance.
func NewCvLinkService(db *gorm.DB, auditService *AuditService) (*CvLinkService, error) {
	if db == nil {
		return nil, errors.New("cvlink service: db is required")
	}
	return &CvLinkService{
		db:           db,
		auditService: auditService,
		now:          time.Now,
	}, nil
}

// EnsureActive returns a usable link for the candidate. A link that is already
// active and unexpired is returned untouched; a paused or expired link is
// reactivated under its stored key with a fresh expiry; a new key is minted
// only when the candidate has never had one.
func (s *CvLinkService) EnsureActive(ctx context.Context, candidateID uint) (*models.CvLink, error) {
	ctx = ensureContext(ctx)

	var candidate models.Candidate
	err := s.db.WithContext(ctx).First(&candidate, "id = ?", candidateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cvlink service: load candidate: %w", err)
	}

	expiresAt := s.now().Add(CvLinkValidity)

	var link models.CvLink
	err = s.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC, id DESC").
		First(&link).Error
	switch {
	case err == nil:
		if link.Status == models.CvLinkStatusActive && s.now().Before(link.ExpiresAt) {
			return &link, nil
		}
		link.Status = models.CvLinkStatusActive
		link.ExpiresAt = expiresAt
		if err := s.db.WithContext(ctx).Model(&link).
			Updates(map[string]any{
				"status":     link.Status,
				"expires_at": link.ExpiresAt,
			}).Error; err != nil {
			return nil, fmt.Errorf("cvlink service: reactivate link: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		link = models.CvLink{
			CandidateID: candidateID,
			Key:         s.mintKey(candidate.Name),
			Status:      models.CvLinkStatusActive,
			ExpiresAt:   expiresAt,
		}
		if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
			return nil, fmt.Errorf("cvlink service: create link: %w", err)
		}
	default:
		return nil, fmt.Errorf("cvlink service: lookup link: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "cvlink.ensure_active",
		Resource: strconv.FormatUint(uint64(candidateID), 10),
		Result:   "success",
		Metadata: map[string]any{"key": link.Key},
	})

	return &link, nil
}

// Deactivate pauses the candidate's current link. The row and its key are
// retained so a later reactivation serves the same URL.
func (s *CvLinkService) Deactivate(ctx context.Context, candidateID uint) (*models.CvLink, error) {
	ctx = ensureContext(ctx)

	var link models.CvLink
	err := s.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC, id DESC").
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCvLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cvlink service: lookup link: %w", err)
	}

	link.Status = models.CvLinkStatusPaused
	if err := s.db.WithContext(ctx).Model(&link).
		Update("status", link.Status).Error; err != nil {
		return nil, fmt.Errorf("cvlink service: pause link: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "cvlink.deactivate",
		Resource: strconv.FormatUint(uint64(candidateID), 10),
		Result:   "success",
		Metadata: map[string]any{"key": link.Key},
	})

	return &link, nil
}

// Current returns the candidate's most recent link row regardless of state,
// or nil when no link has ever been issued.
func (s *CvLinkService) Current(ctx context.Context, candidateID uint) (*models.CvLink, error) {
	ctx = ensureContext(ctx)

	var link models.CvLink
	err := s.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC, id DESC").
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cvlink service: lookup link: %w", err)
	}
	return &link, nil
}

// Resolve serves a shared link. Paused and past-expiry links are refused;
// expiry is evaluated at read time, no background job flips link state.
func (s *CvLinkService) Resolve(ctx context.Context, key string) (*models.Candidate, error) {
	ctx = ensureContext(ctx)

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrCvLinkNotFound
	}

	var link models.CvLink
	err := s.db.WithContext(ctx).First(&link, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCvLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cvlink service: resolve link: %w", err)
	}

	if link.Status != models.CvLinkStatusActive || s.now().After(link.ExpiresAt) {
		return nil, ErrCvLinkUnavailable
	}

	var candidate models.Candidate
	err = s.db.WithContext(ctx).First(&candidate, "id = ?", link.CandidateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCvLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cvlink service: load candidate: %w", err)
	}

	return &candidate, nil
}

// mintKey builds a human-readable unique key from the candidate name and the
// current unix time in base36.
func (s *CvLinkService) mintKey(name string) string {
	return slugify(name) + "-" + strconv.FormatInt(s.now().Unix(), 36)
}

// slugify lowercases the name and collapses runs of non-alphanumerics to a
// single hyphen.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "candidate"
	}
	return slug
}

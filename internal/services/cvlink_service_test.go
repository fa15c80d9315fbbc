package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/database/testutil"
	"github.com/talentrail/talentrail/internal/models"
)

func newCvLinkFixture(t *testing.T) (*CvLinkService, *CandidateService, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	auditSvc, err := NewAuditService(db)
	require.NoError(t, err)
	linkSvc, err := NewCvLinkService(db, auditSvc)
	require.NoError(t, err)
	candidateSvc, err := NewCandidateService(db, auditSvc)
	require.NoError(t, err)
	return linkSvc, candidateSvc, db
}

func TestEnsureActiveMintsSlugKey(t *testing.T) {
	linkSvc, candidateSvc, _ := newCvLinkFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	link, err := linkSvc.EnsureActive(ctx, candidate.ID)
	require.NoError(t, err)
	require.Equal(t, models.CvLinkStatusActive, link.Status)
	require.Regexp(t, `^asha-verma-[0-9a-z]+$`, link.Key)
	require.True(t, link.ExpiresAt.After(time.Now().Add(2*24*time.Hour)))
}

func TestEnsureActiveIsIdempotent(t *testing.T) {
	linkSvc, candidateSvc, _ := newCvLinkFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	first, err := linkSvc.EnsureActive(ctx, candidate.ID)
	require.NoError(t, err)
	second, err := linkSvc.EnsureActive(ctx, candidate.ID)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.Key, second.Key)
	require.Equal(t, models.CvLinkStatusActive, second.Status)
	// an already active link is left untouched, expiry included
	require.True(t, first.ExpiresAt.Equal(second.ExpiresAt))
}

func TestEnsureActiveRefreshesExpiredLink(t *testing.T) {
	linkSvc, candidateSvc, db := newCvLinkFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	link, err := linkSvc.EnsureActive(ctx, candidate.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.CvLink{}).
		Where("id = ?", link.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	revived, err := linkSvc.EnsureActive(ctx, candidate.ID)
	require.NoError(t, err)
	require.Equal(t, link.Key, revived.Key)
	require.True(t, revived.ExpiresAt.After(time.Now()))
}

func TestDeactivateThenEnsureActiveReusesKey(t *testing.T) {
	linkSvc, candidateSvc, _ := newCvLinkFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	original, err := linkSvc.EnsureActive(ctx, candidate.ID)
	require.NoError(t, err)

	paused, err := linkSvc.Deactivate(ctx, candidate.ID)
	require.NoError(t, err)
	require.Equal(t, models.CvLinkStatusPaused, paused.Status)

	revived, err := linkSvc.EnsureActive(ctx, candidate.ID)
	require.NoError(t, err)
	require.Equal(t, original.Key, revived.Key)
	require.Equal(t, original.ID, revived.ID)
	require.Equal(t, models.CvLinkStatusActive, revived.Status)
}

func TestDeactivateWithoutLink(t *testing.T) {
	linkSvc, candidateSvc, _ := newCvLinkFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	_, err = linkSvc.Deactivate(ctx, candidate.ID)
	require.ErrorIs(t, err, ErrCvLinkNotFound)
}

func TestResolveRefusesPausedAndExpired(t *testing.T) {
	linkSvc, candidateSvc, db := newCvLinkFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	link, err := linkSvc.EnsureActive(ctx, candidate.ID)
	require.NoError(t, err)

	resolved, err := linkSvc.Resolve(ctx, link.Key)
	require.NoError(t, err)
	require.Equal(t, candidate.ID, resolved.ID)

	_, err = linkSvc.Deactivate(ctx, candidate.ID)
	require.NoError(t, err)
	_, err = linkSvc.Resolve(ctx, link.Key)
	require.ErrorIs(t, err, ErrCvLinkUnavailable)

	// reactivate, then age the link past its expiry
	_, err = linkSvc.EnsureActive(ctx, candidate.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.CvLink{}).
		Where("id = ?", link.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = linkSvc.Resolve(ctx, link.Key)
	require.ErrorIs(t, err, ErrCvLinkUnavailable)
}

func TestResolveUnknownKey(t *testing.T) {
	linkSvc, _, _ := newCvLinkFixture(t)

	_, err := linkSvc.Resolve(context.Background(), "nobody-here-xyz")
	require.ErrorIs(t, err, ErrCvLinkNotFound)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Asha Verma":      "asha-verma",
		"  D'Souza, Rex ": "d-souza-rex",
		"---":             "candidate",
		"Ötzi":            "tzi",
	}
	for input, want := range cases {
		require.Equal(t, want, slugify(input), "input %q", input)
	}
}

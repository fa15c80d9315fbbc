package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/database/testutil"
)

func newRegistryFixture(t *testing.T) (*RegistryService, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	auditSvc, err := NewAuditService(db)
	require.NoError(t, err)
	svc, err := NewRegistryService(db, auditSvc)
	require.NoError(t, err)
	return svc, db
}

func TestRegistrySeededStatuses(t *testing.T) {
	svc, _ := newRegistryFixture(t)

	statuses, err := svc.ListStatuses(context.Background())
	require.NoError(t, err)

	values := make(map[string]bool, len(statuses))
	for _, status := range statuses {
		values[status.Value] = true
	}
	for _, want := range []string{"recently-applied", "scheduled", "interviewed", "hired", "backed-out", "not-selected"} {
		require.True(t, values[want], "missing seeded status %q", want)
	}
}

func TestRegistryCreateStatusRejectsDuplicate(t *testing.T) {
	svc, _ := newRegistryFixture(t)
	ctx := context.Background()

	created, err := svc.CreateStatus(ctx, CreateStatusInput{Value: "on-hold", Label: "On Hold"})
	require.NoError(t, err)
	require.Equal(t, "on-hold", created.Value)

	_, err = svc.CreateStatus(ctx, CreateStatusInput{Value: "on-hold"})
	require.ErrorIs(t, err, ErrRegistryDuplicate)
}

func TestRegistryDeleteStatusInUse(t *testing.T) {
	svc, db := newRegistryFixture(t)
	ctx := context.Background()

	auditSvc, err := NewAuditService(db)
	require.NoError(t, err)
	candidateSvc, err := NewCandidateService(db, auditSvc)
	require.NoError(t, err)
	_, err = candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	statuses, err := svc.ListStatuses(ctx)
	require.NoError(t, err)
	var recentlyAppliedID uint
	for _, status := range statuses {
		if status.Value == "recently-applied" {
			recentlyAppliedID = status.ID
		}
	}
	require.NotZero(t, recentlyAppliedID)

	err = svc.DeleteStatus(ctx, recentlyAppliedID)
	require.ErrorIs(t, err, ErrStatusInUse)
}

func TestRegistryPositionLifecycle(t *testing.T) {
	svc, _ := newRegistryFixture(t)
	ctx := context.Background()

	created, err := svc.CreatePosition(ctx, "Sommelier")
	require.NoError(t, err)

	_, err = svc.CreatePosition(ctx, "Sommelier")
	require.ErrorIs(t, err, ErrRegistryDuplicate)

	positions, err := svc.ListPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	require.NoError(t, svc.DeletePosition(ctx, created.ID))
	require.ErrorIs(t, svc.DeletePosition(ctx, created.ID), ErrRegistryEntryNotFound)
}

func TestRegistryLocationAndOutletType(t *testing.T) {
	svc, _ := newRegistryFixture(t)
	ctx := context.Background()

	location, err := svc.CreateLocation(ctx, "Goa")
	require.NoError(t, err)
	require.Equal(t, "Goa", location.Name)

	outletType, err := svc.CreateOutletType(ctx, "Beach Club")
	require.NoError(t, err)
	require.Equal(t, "Beach Club", outletType.Name)

	require.NoError(t, svc.DeleteLocation(ctx, location.ID))
	require.NoError(t, svc.DeleteOutletType(ctx, outletType.ID))
}

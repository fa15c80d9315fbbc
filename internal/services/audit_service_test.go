package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talentrail/talentrail/internal/database/testutil"
	"github.com/talentrail/talentrail/internal/models"
)

func TestAuditLogAndList(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAuditService(db)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, AuditEntry{
		Action:   "candidate.create",
		Resource: "42",
		Result:   "success",
		Metadata: map[string]any{"phone": "9876543210"},
	}))
	require.NoError(t, svc.Log(ctx, AuditEntry{
		Action:   "user.login",
		Resource: "abc",
		Result:   "failure",
	}))

	logs, total, err := svc.List(ctx, AuditListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, logs, 2)

	logs, total, err = svc.List(ctx, AuditListOptions{
		Filters: AuditFilters{Result: "failure"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "user.login", logs[0].Action)
}

func TestAuditLogRequiresAction(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAuditService(db)
	require.NoError(t, err)

	require.Error(t, svc.Log(context.Background(), AuditEntry{Result: "success"}))
}

func TestAuditCleanupOlderThan(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewAuditService(db)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, AuditEntry{Action: "candidate.create", Result: "success"}))

	old := models.AuditLog{Action: "candidate.create", Result: "success"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).
		Update("created_at", time.Now().AddDate(0, 0, -120)).Error)

	removed, err := svc.CleanupOlderThan(ctx, 90)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, total, err := svc.List(ctx, AuditListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	_, err = svc.CleanupOlderThan(ctx, 0)
	require.Error(t, err)
}

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

func newBulkFixture(t *testing.T) (*BulkService, *CandidateService, *ScheduleService, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	auditSvc, err := NewAuditService(db)
	require.NoError(t, err)
	bulkSvc, err := NewBulkService(db, auditSvc)
	require.NoError(t, err)
	candidateSvc, err := NewCandidateService(db, auditSvc)
	require.NoError(t, err)
	scheduleSvc, err := NewScheduleService(db, auditSvc)
	require.NoError(t, err)
	return bulkSvc, candidateSvc, scheduleSvc, db
}

func TestBulkSetStatusRewritesLatestSlot(t *testing.T) {
	bulkSvc, candidateSvc, scheduleSvc, db := newBulkFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)

	early := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots: []ScheduleSlot{
			{OutletID: outlet.ID, ScheduledAt: early},
			{OutletID: outlet.ID, ScheduledAt: late},
		},
	})
	require.NoError(t, err)

	result, err := bulkSvc.SetStatus(ctx, []uint{candidate.ID}, "hired", []uint{outlet.ID})
	require.NoError(t, err)
	require.Equal(t, 1, result.Requested)
	require.Equal(t, 1, result.Succeeded)
	require.Zero(t, result.Failed)

	reloaded, err := candidateSvc.GetByID(ctx, candidate.ID)
	require.NoError(t, err)
	require.Equal(t, "hired", reloaded.Status)

	// only the slot with the greatest scheduled time is rewritten
	var slots []models.Schedule
	require.NoError(t, db.Where("candidate_id = ?", candidate.ID).Order("scheduled_at ASC").Find(&slots).Error)
	require.Len(t, slots, 2)
	require.Equal(t, "scheduled", slots[0].Status)
	require.Equal(t, "hired", slots[1].Status)
}

func TestBulkSetStatusReportsPerItemFailure(t *testing.T) {
	bulkSvc, candidateSvc, scheduleSvc, db := newBulkFixture(t)
	ctx := context.Background()

	scheduled, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	unscheduled, err := candidateSvc.Create(ctx, validCandidateInput("9123456789"))
	require.NoError(t, err)

	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)
	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: scheduled.ID,
		Slots:       []ScheduleSlot{{OutletID: outlet.ID, ScheduledAt: time.Now()}},
	})
	require.NoError(t, err)

	result, err := bulkSvc.SetStatus(ctx, []uint{scheduled.ID, unscheduled.ID}, "hired", []uint{outlet.ID})
	require.NoError(t, err)
	require.Equal(t, 2, result.Requested)
	require.Equal(t, 1, result.Succeeded)
	require.Equal(t, 1, result.Failed)
	require.Len(t, result.Items, 2)

	for _, item := range result.Items {
		if item.CandidateID == unscheduled.ID {
			require.False(t, item.OK)
			require.NotEmpty(t, item.Error)
		} else {
			require.True(t, item.OK)
		}
	}

	// the failed candidate keeps its status, the bulk change never creates a slot
	reloaded, err := candidateSvc.GetByID(ctx, unscheduled.ID)
	require.NoError(t, err)
	require.Equal(t, "recently-applied", reloaded.Status)
	var count int64
	require.NoError(t, db.Model(&models.Schedule{}).Where("candidate_id = ?", unscheduled.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestBulkSetStatusRejectsUnknownStatus(t *testing.T) {
	bulkSvc, candidateSvc, _, _ := newBulkFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	_, err = bulkSvc.SetStatus(ctx, []uint{candidate.ID}, "no-such-status", []uint{1})
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestBulkSetScheduledAt(t *testing.T) {
	bulkSvc, candidateSvc, scheduleSvc, db := newBulkFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)

	original := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots:       []ScheduleSlot{{OutletID: outlet.ID, ScheduledAt: original}},
	})
	require.NoError(t, err)

	moved := original.AddDate(0, 0, 3)
	result, err := bulkSvc.SetScheduledAt(ctx, []uint{candidate.ID}, moved, []uint{outlet.ID})
	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded)

	var slot models.Schedule
	require.NoError(t, db.Where("candidate_id = ?", candidate.ID).First(&slot).Error)
	require.True(t, moved.Equal(slot.ScheduledAt))
}

func TestBulkSetActive(t *testing.T) {
	bulkSvc, candidateSvc, _, _ := newBulkFixture(t)
	ctx := context.Background()

	first, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	second, err := candidateSvc.Create(ctx, validCandidateInput("9123456789"))
	require.NoError(t, err)

	result, err := bulkSvc.SetActive(ctx, []uint{first.ID, second.ID}, false, "no show", models.InactiveCategoryAbsconded)
	require.NoError(t, err)
	require.Equal(t, 2, result.Succeeded)

	for _, id := range []uint{first.ID, second.ID} {
		reloaded, err := candidateSvc.GetByID(ctx, id)
		require.NoError(t, err)
		require.False(t, reloaded.IsActive)
		require.Equal(t, models.InactiveCategoryAbsconded, reloaded.InactiveCategory)
	}
}

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

func newScheduleFixture(t *testing.T) (*ScheduleService, *CandidateService, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	auditSvc, err := NewAuditService(db)
	require.NoError(t, err)
	scheduleSvc, err := NewScheduleService(db, auditSvc)
	require.NoError(t, err)
	candidateSvc, err := NewCandidateService(db, auditSvc)
	require.NoError(t, err)
	return scheduleSvc, candidateSvc, db
}

func TestCreateSlotsDropsInvalidEntries(t *testing.T) {
	scheduleSvc, candidateSvc, db := newScheduleFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)

	when := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	created, err := scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots: []ScheduleSlot{
			{OutletID: outlet.ID, ScheduledAt: when},
			{OutletID: 0, ScheduledAt: when},     // missing outlet, dropped
			{OutletID: outlet.ID},                // missing time, dropped
			{OutletID: outlet.ID, ScheduledAt: when.Add(time.Hour)},
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	// candidate moved to the scheduled status
	reloaded, err := candidateSvc.GetByID(ctx, candidate.ID)
	require.NoError(t, err)
	require.Equal(t, "scheduled", reloaded.Status)
}

func TestCreateSlotsFailsWhenAllInvalid(t *testing.T) {
	scheduleSvc, candidateSvc, _ := newScheduleFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)

	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots: []ScheduleSlot{
			{OutletID: 0, ScheduledAt: time.Now()},
			{OutletID: 3},
		},
	})
	require.ErrorIs(t, err, ErrNoValidSlots)
}

func TestCreateSlotsRejectsInactiveCandidate(t *testing.T) {
	scheduleSvc, candidateSvc, _ := newScheduleFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	_, err = candidateSvc.SetActive(ctx, candidate.ID, false, "left town", models.InactiveCategoryAbsconded)
	require.NoError(t, err)

	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots:       []ScheduleSlot{{OutletID: 1, ScheduledAt: time.Now()}},
	})
	require.ErrorIs(t, err, ErrCandidateInactive)
}

func TestCreateSlotsAllowsDuplicateBookings(t *testing.T) {
	scheduleSvc, candidateSvc, db := newScheduleFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)

	when := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	slot := ScheduleSlot{OutletID: outlet.ID, ScheduledAt: when}
	created, err := scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots:       []ScheduleSlot{slot, slot},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
}

func TestListForCandidate(t *testing.T) {
	scheduleSvc, candidateSvc, db := newScheduleFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)

	when := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots:       []ScheduleSlot{{OutletID: outlet.ID, ScheduledAt: when}},
	})
	require.NoError(t, err)

	slots, err := scheduleSvc.ListForCandidate(ctx, candidate.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.Equal(t, outlet.ID, slots[0].OutletID)
	require.True(t, when.Equal(slots[0].ScheduledAt))
}

func TestListSchedulesByDate(t *testing.T) {
	scheduleSvc, candidateSvc, db := newScheduleFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots: []ScheduleSlot{
			{OutletID: outlet.ID, ScheduledAt: day.Add(10 * time.Hour)},
			{OutletID: outlet.ID, ScheduledAt: day.AddDate(0, 0, 1).Add(10 * time.Hour)},
		},
	})
	require.NoError(t, err)

	slots, total, err := scheduleSvc.List(ctx, ListSchedulesOptions{
		Filters: ScheduleFilters{Date: &day},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, slots, 1)
}

func TestListSchedulesByDateInLocalZone(t *testing.T) {
	scheduleSvc, candidateSvc, db := newScheduleFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)

	// The day window follows the zone of the supplied date, not UTC midnight.
	ist := time.FixedZone("IST", 5*3600+1800)
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, ist)
	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots: []ScheduleSlot{
			{OutletID: outlet.ID, ScheduledAt: day.Add(10 * time.Hour)},
			{OutletID: outlet.ID, ScheduledAt: day.AddDate(0, 0, 1).Add(time.Hour)},
		},
	})
	require.NoError(t, err)

	slots, total, err := scheduleSvc.List(ctx, ListSchedulesOptions{
		Filters: ScheduleFilters{Date: &day},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, slots, 1)
	require.True(t, day.Add(10*time.Hour).Equal(slots[0].ScheduledAt))
}

func TestLatestForCandidateAtOutlet(t *testing.T) {
	scheduleSvc, candidateSvc, db := newScheduleFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	outletA := models.Outlet{Name: "Harbour House"}
	outletB := models.Outlet{Name: "Pier Nine"}
	require.NoError(t, db.Create(&outletA).Error)
	require.NoError(t, db.Create(&outletB).Error)

	early := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 0, 3)
	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots: []ScheduleSlot{
			// Latest is by scheduled time, not insertion order.
			{OutletID: outletA.ID, ScheduledAt: late},
			{OutletID: outletA.ID, ScheduledAt: early},
		},
	})
	require.NoError(t, err)

	latest, err := scheduleSvc.LatestForCandidateAtOutlet(ctx, candidate.ID, outletA.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.True(t, late.Equal(latest.ScheduledAt))

	none, err := scheduleSvc.LatestForCandidateAtOutlet(ctx, candidate.ID, outletB.ID)
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestScheduleUpdateStatusLeavesCandidateAlone(t *testing.T) {
	scheduleSvc, candidateSvc, db := newScheduleFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)

	created, err := scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots:       []ScheduleSlot{{OutletID: outlet.ID, ScheduledAt: time.Now()}},
	})
	require.NoError(t, err)

	_, err = scheduleSvc.UpdateStatus(ctx, created[0].ID, "interviewed", "showed up on time")
	require.NoError(t, err)

	reloaded, err := candidateSvc.GetByID(ctx, candidate.ID)
	require.NoError(t, err)
	require.Equal(t, "scheduled", reloaded.Status)
}

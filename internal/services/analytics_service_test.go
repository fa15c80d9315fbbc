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

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *CandidateService, *ScheduleService, *BulkService, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	auditSvc, err := NewAuditService(db)
	require.NoError(t, err)
	analyticsSvc, err := NewAnalyticsService(db)
	require.NoError(t, err)
	candidateSvc, err := NewCandidateService(db, auditSvc)
	require.NoError(t, err)
	scheduleSvc, err := NewScheduleService(db, auditSvc)
	require.NoError(t, err)
	bulkSvc, err := NewBulkService(db, auditSvc)
	require.NoError(t, err)
	return analyticsSvc, candidateSvc, scheduleSvc, bulkSvc, db
}

func TestAnalyticsHiringScenario(t *testing.T) {
	analyticsSvc, candidateSvc, scheduleSvc, bulkSvc, db := newAnalyticsFixture(t)
	ctx := context.Background()

	candidate, err := candidateSvc.Create(ctx, validCandidateInput("9876543210"))
	require.NoError(t, err)
	require.Equal(t, "recently-applied", candidate.Status)
	require.True(t, candidate.IsActive)

	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)

	_, err = scheduleSvc.CreateSlots(ctx, CreateSlotsInput{
		CandidateID: candidate.ID,
		Slots:       []ScheduleSlot{{OutletID: outlet.ID, ScheduledAt: time.Now()}},
	})
	require.NoError(t, err)

	slots, err := scheduleSvc.ListForCandidate(ctx, candidate.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	result, err := bulkSvc.SetStatus(ctx, []uint{candidate.ID}, "hired", []uint{outlet.ID})
	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded)

	reloaded, err := candidateSvc.GetByID(ctx, candidate.ID)
	require.NoError(t, err)
	require.Equal(t, "hired", reloaded.Status)

	summary, err := analyticsSvc.Summary(ctx, SummaryOptions{Period: PeriodToday})
	require.NoError(t, err)
	require.Equal(t, 1, summary.CandidatesAdded)
	require.Equal(t, 1, summary.InterviewsScheduled)
	require.Equal(t, 1, summary.UniqueCandidatesScheduled)
	require.Equal(t, 1, summary.HiredCount)
	require.Equal(t, 1, summary.HiredFromScheduled)
	require.Equal(t, 100, summary.ConversionPct)
	require.Equal(t, 100, summary.HiredPct)
}

func TestAnalyticsBucketSumsEqualTotal(t *testing.T) {
	analyticsSvc, candidateSvc, _, _, db := newAnalyticsFixture(t)
	ctx := context.Background()

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)

	phones := []string{"9000000001", "9000000002", "9000000003", "9000000004"}
	days := []int{0, 0, 3, 6}
	for i, phone := range phones {
		input := validCandidateInput(phone)
		applied := from.AddDate(0, 0, days[i]).Add(9 * time.Hour)
		input.AppliedDate = &applied
		_, err := candidateSvc.Create(ctx, input)
		require.NoError(t, err)
	}

	// one schedule inside the window, one outside
	outlet := models.Outlet{Name: "Harbour House"}
	require.NoError(t, db.Create(&outlet).Error)
	candidates, _, err := candidateSvc.List(ctx, ListCandidatesOptions{})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Schedule{
		CandidateID: candidates[0].ID,
		OutletID:    outlet.ID,
		ScheduledAt: from.AddDate(0, 0, 2),
	}).Error)
	require.NoError(t, db.Create(&models.Schedule{
		CandidateID: candidates[0].ID,
		OutletID:    outlet.ID,
		ScheduledAt: to.AddDate(0, 1, 0),
	}).Error)

	summary, err := analyticsSvc.Summary(ctx, SummaryOptions{
		Period: PeriodCustom,
		Bucket: BucketDay,
		From:   &from,
		To:     &to,
	})
	require.NoError(t, err)
	require.Equal(t, 4, summary.CandidatesAdded)
	require.Equal(t, 1, summary.InterviewsScheduled)
	require.Len(t, summary.Buckets, 7)

	var addedSum, scheduledSum int
	for _, bucket := range summary.Buckets {
		addedSum += bucket.CandidatesAdded
		scheduledSum += bucket.InterviewsScheduled
	}
	require.Equal(t, summary.CandidatesAdded, addedSum)
	require.Equal(t, summary.InterviewsScheduled, scheduledSum)

	// chronological and gapless
	for i := 1; i < len(summary.Buckets); i++ {
		require.True(t, summary.Buckets[i].Start.After(summary.Buckets[i-1].Start))
		require.True(t, summary.Buckets[i].Start.Equal(summary.Buckets[i-1].End))
	}
}

func TestAnalyticsZeroDenominators(t *testing.T) {
	analyticsSvc, _, _, _, _ := newAnalyticsFixture(t)

	summary, err := analyticsSvc.Summary(context.Background(), SummaryOptions{Period: PeriodToday})
	require.NoError(t, err)
	require.Zero(t, summary.TotalOutcomes)
	require.Zero(t, summary.HiredPct)
	require.Zero(t, summary.BackedOutPct)
	require.Zero(t, summary.NotSelectedPct)
	require.Zero(t, summary.ConversionPct)
}

func TestAnalyticsPercentagesWithinRange(t *testing.T) {
	analyticsSvc, candidateSvc, _, _, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	statuses := []string{"hired", "hired", "backed-out", "not-selected"}
	phones := []string{"9000000001", "9000000002", "9000000003", "9000000004"}
	for i, status := range statuses {
		input := validCandidateInput(phones[i])
		created, err := candidateSvc.Create(ctx, input)
		require.NoError(t, err)
		_, err = candidateSvc.SetStatus(ctx, created.ID, status)
		require.NoError(t, err)
	}

	summary, err := analyticsSvc.Summary(ctx, SummaryOptions{Period: PeriodToday})
	require.NoError(t, err)
	require.Equal(t, 4, summary.TotalOutcomes)
	require.Equal(t, 50, summary.HiredPct)
	require.Equal(t, 25, summary.BackedOutPct)
	require.Equal(t, 25, summary.NotSelectedPct)

	for _, pct := range []int{summary.HiredPct, summary.BackedOutPct, summary.NotSelectedPct, summary.ConversionPct} {
		require.GreaterOrEqual(t, pct, 0)
		require.LessOrEqual(t, pct, 100)
	}
}

func TestAnalyticsPerHrAttribution(t *testing.T) {
	analyticsSvc, candidateSvc, _, _, db := newAnalyticsFixture(t)
	ctx := context.Background()

	hr := models.User{
		Username:  "priya",
		Email:     "priya@agency.example",
		Password:  "irrelevant",
		FirstName: "Priya",
		LastName:  "Nair",
	}
	require.NoError(t, db.Create(&hr).Error)

	direct := validCandidateInput("9000000001")
	direct.AddedByHrID = hr.ID
	_, err := candidateSvc.Create(ctx, direct)
	require.NoError(t, err)

	// legacy row: only a free-text name survives
	legacy := validCandidateInput("9000000002")
	legacy.AddedByName = "priya nair"
	_, err = candidateSvc.Create(ctx, legacy)
	require.NoError(t, err)

	orphan := validCandidateInput("9000000003")
	orphan.AddedByName = "somebody who left"
	_, err = candidateSvc.Create(ctx, orphan)
	require.NoError(t, err)

	summary, err := analyticsSvc.Summary(ctx, SummaryOptions{Period: PeriodToday})
	require.NoError(t, err)
	require.Len(t, summary.PerHr, 2)

	var priya, unattributed *HrCounts
	for i := range summary.PerHr {
		switch summary.PerHr[i].HrID {
		case hr.ID:
			priya = &summary.PerHr[i]
		case "":
			unattributed = &summary.PerHr[i]
		}
	}
	require.NotNil(t, priya)
	require.Equal(t, 2, priya.CandidatesAdded)
	require.NotNil(t, unattributed)
	require.Equal(t, 1, unattributed.CandidatesAdded)
}

func TestBestEffortAttribution(t *testing.T) {
	users := []models.User{
		{ID: "u1", Username: "priya", Email: "priya@agency.example", FirstName: "Priya", LastName: "Nair"},
		{ID: "u2", Username: "rahul", Email: "rahul@agency.example"},
	}

	require.Equal(t, "u1", bestEffortAttribution("Priya Nair", users))
	require.Equal(t, "u1", bestEffortAttribution("priya", users))
	require.Equal(t, "u2", bestEffortAttribution("rahul@agency.example", users))
	require.Empty(t, bestEffortAttribution("unknown person", users))
	require.Empty(t, bestEffortAttribution("", users))
}

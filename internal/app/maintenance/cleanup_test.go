package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	testutil "github.com/talentrail/talentrail/internal/database/testutil"
	"github.com/talentrail/talentrail/internal/models"
	"github.com/talentrail/talentrail/internal/services"
)

func TestParkExpiredCvLinks(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	candidate := seedCandidate(t, db, "9812340001")

	longExpired := models.CvLink{
		CandidateID: candidate.ID,
		Key:         "long-expired",
		Status:      models.CvLinkStatusActive,
		ExpiresAt:   now.Add(-45 * 24 * time.Hour),
	}
	recentlyExpired := models.CvLink{
		CandidateID: candidate.ID,
		Key:         "recently-expired",
		Status:      models.CvLinkStatusActive,
		ExpiresAt:   now.Add(-2 * 24 * time.Hour),
	}
	stillValid := models.CvLink{
		CandidateID: candidate.ID,
		Key:         "still-valid",
		Status:      models.CvLinkStatusActive,
		ExpiresAt:   now.Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&longExpired).Error)
	require.NoError(t, db.Create(&recentlyExpired).Error)
	require.NoError(t, db.Create(&stillValid).Error)

	parked, err := ParkExpiredCvLinks(context.Background(), db, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), parked)

	assertStatus := func(key, want string) {
		var link models.CvLink
		require.NoError(t, db.First(&link, "key = ?", key).Error)
		require.Equal(t, want, link.Status)
	}

	assertStatus("long-expired", models.CvLinkStatusPaused)
	assertStatus("recently-expired", models.CvLinkStatusActive)
	assertStatus("still-valid", models.CvLinkStatusActive)
}

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)

	clock := fixedClock{current: time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)}

	// Seed an audit log older than the retention window.
	require.NoError(t, auditSvc.Log(context.Background(), services.AuditEntry{
		Action:   "test.action",
		Result:   "success",
		Username: "tester",
	}))
	var auditLog models.AuditLog
	require.NoError(t, db.First(&auditLog).Error)
	oldTimestamp := clock.Now().AddDate(0, 0, -10)
	require.NoError(t, db.Model(&auditLog).Update("created_at", oldTimestamp).Error)

	candidate := seedCandidate(t, db, "9812340002")
	require.NoError(t, db.Create(&models.CvLink{
		CandidateID: candidate.ID,
		Key:         "stale-link",
		Status:      models.CvLinkStatusActive,
		ExpiresAt:   clock.Now().Add(-60 * 24 * time.Hour),
	}).Error)

	c := NewCleaner(db, auditSvc,
		WithNow(clock.Now),
		WithAuditRetentionDays(7),
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
	)

	require.NoError(t, c.RunOnce(context.Background()))

	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&auditCount).Error)
	require.Equal(t, int64(0), auditCount)

	var link models.CvLink
	require.NoError(t, db.First(&link, "key = ?", "stale-link").Error)
	require.Equal(t, models.CvLinkStatusPaused, link.Status)
}

func TestCleanerStartRegistersJobs(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)

	sched := cron.New(cron.WithLogger(cron.DiscardLogger))
	c := NewCleaner(db, auditSvc, WithCron(sched))

	require.NoError(t, c.Start())
	require.Len(t, sched.Entries(), 2)

	<-c.Stop().Done()
}

func seedCandidate(t *testing.T, db *gorm.DB, phone string) *models.Candidate {
	t.Helper()

	candidate := &models.Candidate{
		Name:     "Maintenance Fixture",
		Phone:    phone,
		Position: "Steward",
		Status:   "recently-applied",
		IsActive: true,
	}
	require.NoError(t, candidate.SetLocationTags([]string{"mumbai"}))
	require.NoError(t, candidate.SetAttachmentList([]models.Attachment{{Path: "/files/cv.pdf", Name: "cv.pdf", Order: 0}}))
	require.NoError(t, db.Create(candidate).Error)
	return candidate
}

type fixedClock struct {
	current time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.current
}

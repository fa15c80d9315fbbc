package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/talentrail/talentrail/internal/models"
	apperrors "github.com/talentrail/talentrail/pkg/errors"
)

// Named reporting periods.
const (
	PeriodToday  = "today"
	PeriodWeek   = "week"
	PeriodMonth  = "month"
	PeriodYear   = "year"
	PeriodCustom = "custom"
)

// Histogram bucket granularities.
const (
	BucketDay     = "day"
	BucketWeek    = "week"
	BucketMonth   = "month"
	BucketQuarter = "quarter"
)

// Outcome classes derived from status labels.
const (
	outcomeHired       = "hired"
	outcomeBackedOut   = "backed_out"
	outcomeNotSelected = "not_selected"
)

// SummaryOptions selects the reporting window, histogram granularity, and an
// optional HR filter. From/To are required for the custom period and are
// interpreted as a half-open interval [From, To).
type SummaryOptions struct {
	Period string
	Bucket string
	HrID   string
	From   *time.Time
	To     *time.Time
}

// FunnelCounts holds the per-range aggregate the dashboard charts.
type FunnelCounts struct {
	CandidatesAdded           int `json:"candidates_added"`
	InterviewsScheduled       int `json:"interviews_scheduled"`
	UniqueCandidatesScheduled int `json:"unique_candidates_scheduled"`

	HiredCount       int `json:"hired_count"`
	BackedOutCount   int `json:"backed_out_count"`
	NotSelectedCount int `json:"not_selected_count"`
	TotalOutcomes    int `json:"total_outcomes"`

	HiredPct       int `json:"hired_pct"`
	BackedOutPct   int `json:"backed_out_pct"`
	NotSelectedPct int `json:"not_selected_pct"`
}

// BucketCounts is one histogram entry covering [Start, End).
type BucketCounts struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	FunnelCounts
}

// HrCounts is the per-HR slice of the funnel.
type HrCounts struct {
	HrID   string `json:"hr_id,omitempty"`
	HrName string `json:"hr_name"`
	FunnelCounts
}

// Summary is the full analytics payload for one reporting window.
type Summary struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	FunnelCounts

	HiredFromScheduled int `json:"hired_from_scheduled"`
	ConversionPct      int `json:"conversion_pct"`

	Buckets []BucketCounts `json:"buckets,omitempty"`
	PerHr   []HrCounts     `json:"per_hr,omitempty"`
}

// AnalyticsService derives funnel metrics from candidates and schedules. It
// is read-only: every number is recomputed from stored rows on each call.
type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService instance.
func NewAnalyticsService(db *gorm.DB) (*AnalyticsService, error) {
	if db == nil {
		return nil, errors.New("analytics service: db is required")
	}
	return &AnalyticsService{db: db, now: time.Now}, nil
}

type candidateFacts struct {
	ID          uint
	Status      string
	AppliedDate time.Time
	UpdatedAt   time.Time
	AddedByHrID *string
	AddedByName string
}

type scheduleFacts struct {
	CandidateID uint
	ScheduledAt time.Time
}

// Summary computes the aggregate, the gapless histogram, and the per-HR
// breakdown for the resolved window.
func (s *AnalyticsService) Summary(ctx context.Context, opts SummaryOptions) (*Summary, error) {
	ctx = ensureContext(ctx)

	from, to, err := s.resolveRange(opts)
	if err != nil {
		return nil, err
	}

	classify, err := s.loadClassifier(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []candidateFacts
	if err := s.db.WithContext(ctx).Model(&models.Candidate{}).
		Select("id", "status", "applied_date", "updated_at", "added_by_hr_id", "added_by_name").
		Where("(applied_date >= ? AND applied_date < ?) OR (updated_at >= ? AND updated_at < ?)", from, to, from, to).
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("analytics service: load candidates: %w", err)
	}

	var schedules []scheduleFacts
	if err := s.db.WithContext(ctx).Model(&models.Schedule{}).
		Select("candidate_id", "scheduled_at").
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("analytics service: load schedules: %w", err)
	}

	if opts.HrID != "" {
		users, err := s.loadUsers(ctx)
		if err != nil {
			return nil, err
		}
		candidates = filterByHr(candidates, users, opts.HrID)
		schedules = filterSchedulesByCandidates(schedules, candidates)
	}

	summary := &Summary{
		From:         from,
		To:           to,
		FunnelCounts: countRange(candidates, schedules, from, to, classify),
	}

	scheduledSet := make(map[uint]struct{}, len(schedules))
	for _, schedule := range schedules {
		scheduledSet[schedule.CandidateID] = struct{}{}
	}
	for _, candidate := range candidates {
		if !inHalfOpen(candidate.UpdatedAt, from, to) {
			continue
		}
		if classify(candidate.Status) != outcomeHired {
			continue
		}
		if _, ok := scheduledSet[candidate.ID]; ok {
			summary.HiredFromScheduled++
		}
	}
	summary.ConversionPct = roundPct(summary.HiredFromScheduled, summary.UniqueCandidatesScheduled)

	if bucket := strings.TrimSpace(opts.Bucket); bucket != "" {
		buckets, err := buildBuckets(from, to, bucket)
		if err != nil {
			return nil, err
		}
		for _, b := range buckets {
			entry := BucketCounts{
				Label:        b.label,
				Start:        b.start,
				End:          b.end,
				FunnelCounts: countRange(candidates, schedules, b.start, b.end, classify),
			}
			summary.Buckets = append(summary.Buckets, entry)
		}
	}

	if opts.HrID == "" {
		users, err := s.loadUsers(ctx)
		if err != nil {
			return nil, err
		}
		summary.PerHr = perHrBreakdown(candidates, schedules, users, from, to, classify)
	}

	return summary, nil
}

// resolveRange turns a named period or custom range into an absolute
// half-open window.
func (s *AnalyticsService) resolveRange(opts SummaryOptions) (time.Time, time.Time, error) {
	now := s.now()
	period := strings.TrimSpace(opts.Period)
	if period == "" {
		period = PeriodMonth
	}

	switch period {
	case PeriodToday:
		start := startOfDay(now)
		return start, start.AddDate(0, 0, 1), nil
	case PeriodWeek:
		start := startOfISOWeek(now)
		return start, start.AddDate(0, 0, 7), nil
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), nil
	case PeriodYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0), nil
	case PeriodCustom:
		if opts.From == nil || opts.To == nil {
			return time.Time{}, time.Time{}, apperrors.NewValidation("custom period requires from and to")
		}
		if !opts.To.After(*opts.From) {
			return time.Time{}, time.Time{}, apperrors.NewValidation("to must be after from")
		}
		return *opts.From, *opts.To, nil
	default:
		return time.Time{}, time.Time{}, apperrors.NewValidation("unknown period: " + period)
	}
}

// loadClassifier maps each registered status value to an outcome class by its
// label wording. Status is an open set; classification is by meaning, not by
// enum membership.
func (s *AnalyticsService) loadClassifier(ctx context.Context) (func(string) string, error) {
	var statuses []models.Status
	if err := s.db.WithContext(ctx).Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("analytics service: load statuses: %w", err)
	}

	classes := make(map[string]string, len(statuses))
	for _, status := range statuses {
		text := strings.ToLower(status.Value + " " + status.Label)
		switch {
		case strings.Contains(text, "hire"):
			classes[status.Value] = outcomeHired
		case strings.Contains(text, "back"):
			classes[status.Value] = outcomeBackedOut
		case strings.Contains(text, "not select"), strings.Contains(text, "not-select"), strings.Contains(text, "reject"):
			classes[status.Value] = outcomeNotSelected
		}
	}

	return func(status string) string {
		return classes[status]
	}, nil
}

func (s *AnalyticsService) loadUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("analytics service: load users: %w", err)
	}
	return users, nil
}

// countRange evaluates the funnel over [from, to) against the preloaded rows.
func countRange(candidates []candidateFacts, schedules []scheduleFacts, from, to time.Time, classify func(string) string) FunnelCounts {
	var counts FunnelCounts

	for _, candidate := range candidates {
		if inHalfOpen(candidate.AppliedDate, from, to) {
			counts.CandidatesAdded++
		}
		if inHalfOpen(candidate.UpdatedAt, from, to) {
			switch classify(candidate.Status) {
			case outcomeHired:
				counts.HiredCount++
			case outcomeBackedOut:
				counts.BackedOutCount++
			case outcomeNotSelected:
				counts.NotSelectedCount++
			}
		}
	}

	unique := make(map[uint]struct{})
	for _, schedule := range schedules {
		if inHalfOpen(schedule.ScheduledAt, from, to) {
			counts.InterviewsScheduled++
			unique[schedule.CandidateID] = struct{}{}
		}
	}
	counts.UniqueCandidatesScheduled = len(unique)

	counts.TotalOutcomes = counts.HiredCount + counts.BackedOutCount + counts.NotSelectedCount
	counts.HiredPct = roundPct(counts.HiredCount, counts.TotalOutcomes)
	counts.BackedOutPct = roundPct(counts.BackedOutCount, counts.TotalOutcomes)
	counts.NotSelectedPct = roundPct(counts.NotSelectedCount, counts.TotalOutcomes)

	return counts
}

// perHrBreakdown groups the funnel by the owning HR. The direct reference
// wins; records predating it fall back to bestEffortAttribution.
func perHrBreakdown(candidates []candidateFacts, schedules []scheduleFacts, users []models.User, from, to time.Time, classify func(string) string) []HrCounts {
	byCandidate := make(map[uint]string, len(candidates))
	grouped := make(map[string][]candidateFacts)
	for _, candidate := range candidates {
		hrID := attributeCandidate(candidate, users)
		byCandidate[candidate.ID] = hrID
		grouped[hrID] = append(grouped[hrID], candidate)
	}

	groupedSchedules := make(map[string][]scheduleFacts)
	for _, schedule := range schedules {
		hrID, ok := byCandidate[schedule.CandidateID]
		if !ok {
			continue
		}
		groupedSchedules[hrID] = append(groupedSchedules[hrID], schedule)
	}

	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.DisplayName()
	}

	var out []HrCounts
	for _, user := range users {
		cands, ok := grouped[user.ID]
		if !ok {
			continue
		}
		out = append(out, HrCounts{
			HrID:         user.ID,
			HrName:       names[user.ID],
			FunnelCounts: countRange(cands, groupedSchedules[user.ID], from, to, classify),
		})
	}
	if unattributed, ok := grouped[""]; ok {
		out = append(out, HrCounts{
			HrName:       "Unattributed",
			FunnelCounts: countRange(unattributed, groupedSchedules[""], from, to, classify),
		})
	}
	return out
}

// attributeCandidate resolves the owning HR id, preferring the stored
// reference and falling back to bestEffortAttribution for legacy rows.
func attributeCandidate(candidate candidateFacts, users []models.User) string {
	if candidate.AddedByHrID != nil && *candidate.AddedByHrID != "" {
		return *candidate.AddedByHrID
	}
	return bestEffortAttribution(candidate.AddedByName, users)
}

// bestEffortAttribution matches a legacy free-text attribution against known
// users by name, username, or email substring. Fuzzy by necessity: old rows
// carry only whatever text the operator typed. Remove once data is backfilled.
func bestEffortAttribution(addedBy string, users []models.User) string {
	needle := strings.ToLower(strings.TrimSpace(addedBy))
	if needle == "" {
		return ""
	}
	for _, user := range users {
		for _, hay := range []string{user.DisplayName(), user.Username, user.Email} {
			hay = strings.ToLower(hay)
			if hay == "" {
				continue
			}
			if strings.Contains(hay, needle) || strings.Contains(needle, hay) {
				return user.ID
			}
		}
	}
	return ""
}

func filterByHr(candidates []candidateFacts, users []models.User, hrID string) []candidateFacts {
	var out []candidateFacts
	for _, candidate := range candidates {
		if attributeCandidate(candidate, users) == hrID {
			out = append(out, candidate)
		}
	}
	return out
}

func filterSchedulesByCandidates(schedules []scheduleFacts, candidates []candidateFacts) []scheduleFacts {
	keep := make(map[uint]struct{}, len(candidates))
	for _, candidate := range candidates {
		keep[candidate.ID] = struct{}{}
	}
	var out []scheduleFacts
	for _, schedule := range schedules {
		if _, ok := keep[schedule.CandidateID]; ok {
			out = append(out, schedule)
		}
	}
	return out
}

type bucketSpan struct {
	label string
	start time.Time
	end   time.Time
}

// buildBuckets splits [from, to) into consecutive spans of the requested
// granularity. The first span is aligned down to the granularity boundary so
// week and month edges land where a calendar expects them; every span in
// range is emitted even when no data falls inside it.
func buildBuckets(from, to time.Time, granularity string) ([]bucketSpan, error) {
	var (
		align func(time.Time) time.Time
		next  func(time.Time) time.Time
		label func(time.Time) string
	)

	switch granularity {
	case BucketDay:
		align = startOfDay
		next = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		label = func(t time.Time) string { return t.Format("2006-01-02") }
	case BucketWeek:
		align = startOfISOWeek
		next = func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
		label = func(t time.Time) string {
			year, week := t.ISOWeek()
			return fmt.Sprintf("%d-W%02d", year, week)
		}
	case BucketMonth:
		align = func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		}
		next = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		label = func(t time.Time) string { return t.Format("2006-01") }
	case BucketQuarter:
		align = func(t time.Time) time.Time {
			month := time.Month(((int(t.Month())-1)/3)*3 + 1)
			return time.Date(t.Year(), month, 1, 0, 0, 0, 0, t.Location())
		}
		next = func(t time.Time) time.Time { return t.AddDate(0, 3, 0) }
		label = func(t time.Time) string {
			return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
		}
	default:
		return nil, apperrors.NewValidation("unknown bucket granularity: " + granularity)
	}

	var spans []bucketSpan
	for start := align(from); start.Before(to); start = next(start) {
		end := next(start)
		if end.After(to) {
			end = to
		}
		clippedStart := start
		if clippedStart.Before(from) {
			clippedStart = from
		}
		spans = append(spans, bucketSpan{
			label: label(start),
			start: clippedStart,
			end:   end,
		})
	}
	return spans, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfISOWeek(t time.Time) time.Time {
	day := startOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, 1-weekday)
}

func inHalfOpen(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func roundPct(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}

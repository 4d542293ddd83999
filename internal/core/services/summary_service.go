package services

import (
	"context"
	"errors"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/weekly"
)

const (
	MetricWater    = "water"
	MetricSleep    = "sleep"
	MetricActivity = "activity"
)

var metricUnits = map[string]string{
	MetricWater:    "ml",
	MetricSleep:    "hours",
	MetricActivity: "minutes",
}

type WeeklySummary struct {
	Metric    string                    `json:"metric"`
	Unit      string                    `json:"unit"`
	WeekStart string                    `json:"weekStart"`
	WeekEnd   string                    `json:"weekEnd"`
	Labels    [weekly.DaysInWeek]string `json:"labels"`
	Days      weekly.Profile            `json:"days"`
	Total     float64                   `json:"total"`
}

type Overview struct {
	Date               string                    `json:"date"`
	Water              domain.Progress           `json:"water"`
	Sleep              domain.Progress           `json:"sleep"`
	ActivityMinutes    float64                   `json:"activityMinutes"`
	Calories           domain.Progress           `json:"calories"`
	WeeklyAverageWater float64                   `json:"weeklyAverageWater"`
	BMI                *float64                  `json:"bmi"`
	CurrentStreak      int                       `json:"currentStreak"`
	LongestStreak      int                       `json:"longestStreak"`
	Weekly             map[string]weekly.Profile `json:"weekly"`
}

type SummaryConfig struct {
	Users      domain.UserRepository
	Water      domain.WaterRepository
	Sleep      domain.SleepRepository
	Activity   domain.ActivityRepository
	Categories *CategoryService
	Goals      domain.Goals
	Location   *time.Location
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// SummaryService derives dashboards from raw records. It owns the notion of
// "now": every other layer passes explicit reference instants.
type SummaryService struct {
	users      domain.UserRepository
	water      domain.WaterRepository
	sleep      domain.SleepRepository
	activity   domain.ActivityRepository
	categories *CategoryService
	goals      domain.Goals
	loc        *time.Location
	now        func() time.Time
}

func NewSummaryService(cfg SummaryConfig) *SummaryService {
	s := &SummaryService{
		users:      cfg.Users,
		water:      cfg.Water,
		sleep:      cfg.Sleep,
		activity:   cfg.Activity,
		categories: cfg.Categories,
		goals:      cfg.Goals,
		loc:        cfg.Location,
		now:        cfg.Clock,
	}

	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.goals == (domain.Goals{}) {
		s.goals = domain.DefaultGoals()
	}

	return s
}

func (s *SummaryService) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *SummaryService) Location() *time.Location {
	return s.loc
}

func (s *SummaryService) Goals() domain.Goals {
	return s.goals
}

func (s *SummaryService) resolveRef(ref time.Time) time.Time {
	if ref.IsZero() {
		return s.Now()
	}
	return ref.In(s.loc)
}

// Weekly returns the Monday-first profile of one metric for the week
// containing ref. A zero ref means the current week.
func (s *SummaryService) Weekly(ctx context.Context, userID, metric string, ref time.Time) (*WeeklySummary, error) {
	unit, ok := metricUnits[metric]
	if !ok {
		return nil, domain.ErrUnknownMetric
	}

	ref = s.resolveRef(ref)
	start, end := weekly.Window(ref)

	var profile weekly.Profile
	switch metric {
	case MetricWater:
		recs, err := s.water.ListByUserIDInRange(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		profile = weekly.AggregateByWeekday(recs, waterTime, waterAmount, ref)
	case MetricSleep:
		recs, err := s.sleep.ListByUserIDInRange(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		profile = weekly.AggregateByWeekday(recs, sleepTime, sleepHours, ref)
	case MetricActivity:
		recs, err := s.activity.ListByUserIDInRange(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		profile = weekly.AggregateByWeekday(recs, activityTime, activityMinutes, ref)
	}

	return newWeeklySummary(metric, unit, start, end, profile), nil
}

// CategoryWeekly counts the items of one category per weekday.
func (s *SummaryService) CategoryWeekly(ctx context.Context, userID, categoryID string, ref time.Time) (*WeeklySummary, error) {
	category, err := s.categories.Get(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}

	ref = s.resolveRef(ref)
	start, end := weekly.Window(ref)

	items, err := s.categories.ListItemsInRange(ctx, categoryID, userID, start, end)
	if err != nil {
		return nil, err
	}

	profile := weekly.AggregateByWeekday(items, itemTime, countOne, ref)
	return newWeeklySummary(category.Name, "items", start, end, profile), nil
}

// WeeklyAverageWater is this week's water total divided by the days elapsed
// so far (Monday through today), rounded to one decimal.
func (s *SummaryService) WeeklyAverageWater(ctx context.Context, userID string) (float64, error) {
	now := s.Now()

	summary, err := s.Weekly(ctx, userID, MetricWater, now)
	if err != nil {
		return 0, err
	}

	return averageSoFar(summary.Days, now), nil
}

// IsWaterEnough compares the weekly average with goalMl; a non-positive goal
// means the configured one.
func (s *SummaryService) IsWaterEnough(ctx context.Context, userID string, goalMl float64) (bool, error) {
	if goalMl <= 0 {
		goalMl = s.goals.WaterMl
	}

	avg, err := s.WeeklyAverageWater(ctx, userID)
	if err != nil {
		return false, err
	}
	return avg >= goalMl, nil
}

// LastSleepHours returns the hours of the most recent sleep record, or 0.
func (s *SummaryService) LastSleepHours(ctx context.Context, userID string) (float64, error) {
	recs, err := s.sleep.ListByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return lastSleep(recs), nil
}

func (s *SummaryService) IsSleepEnough(ctx context.Context, userID string, minHours float64) (bool, error) {
	if minHours <= 0 {
		minHours = s.goals.SleepHours
	}

	last, err := s.LastSleepHours(ctx, userID)
	if err != nil {
		return false, err
	}
	return last >= minHours, nil
}

// Overview loads everything the dashboard needs in parallel and derives
// today's progress from the current week's profiles.
func (s *SummaryService) Overview(ctx context.Context, userID string) (*Overview, error) {
	now := s.Now()
	start, end := weekly.Window(now)

	var (
		user       *domain.User
		water      []*domain.WaterRecord
		sleep      []*domain.SleepRecord
		activities []*domain.ActivityRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.users.GetByID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		water, err = s.water.ListByUserIDInRange(gctx, userID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		sleep, err = s.sleep.ListByUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = s.activity.ListByUserIDInRange(gctx, userID, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	waterWeek := weekly.AggregateByWeekday(water, waterTime, waterAmount, now)
	sleepWeek := weekly.AggregateByWeekday(sleep, sleepTime, sleepHours, now)
	activityWeek := weekly.AggregateByWeekday(activities, activityTime, activityMinutes, now)

	today := weekly.MondayFirstDayIndex(now)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	out := &Overview{
		Date:               now.Format(domain.DateLayout),
		Water:              domain.NewProgress(waterWeek[today], s.goals.WaterMl),
		Sleep:              domain.NewProgress(lastSleep(sleep), s.goals.SleepHours),
		ActivityMinutes:    activityWeek[today],
		Calories:           domain.NewProgress(EstimateCalories(between(activities, dayStart, dayEnd), user), s.goals.Calories),
		WeeklyAverageWater: averageSoFar(waterWeek, now),
		CurrentStreak:      user.CurrentStreak,
		LongestStreak:      user.LongestStreak,
		Weekly: map[string]weekly.Profile{
			MetricWater:    waterWeek,
			MetricSleep:    sleepWeek,
			MetricActivity: activityWeek,
		},
	}

	if bmi, err := user.BMI(); err == nil {
		out.BMI = &bmi
	} else if !errors.Is(err, domain.ErrProfileIncomplete) {
		return nil, err
	}

	return out, nil
}

func newWeeklySummary(metric, unit string, start, end time.Time, profile weekly.Profile) *WeeklySummary {
	return &WeeklySummary{
		Metric:    metric,
		Unit:      unit,
		WeekStart: start.Format(domain.DateLayout),
		WeekEnd:   end.AddDate(0, 0, -1).Format(domain.DateLayout),
		Labels:    weekly.Labels,
		Days:      profile,
		Total:     profile.Total(),
	}
}

func averageSoFar(p weekly.Profile, now time.Time) float64 {
	elapsed := weekly.MondayFirstDayIndex(now) + 1
	return round1(p.Total() / float64(elapsed))
}

func lastSleep(recs []*domain.SleepRecord) float64 {
	var latest *domain.SleepRecord
	for _, r := range recs {
		if latest == nil || r.Datetime.After(latest.Datetime) {
			latest = r
		}
	}
	if latest == nil {
		return 0
	}
	return latest.Hours
}

func between(recs []*domain.ActivityRecord, from, to time.Time) []*domain.ActivityRecord {
	var out []*domain.ActivityRecord
	for _, r := range recs {
		if !r.Datetime.Before(from) && r.Datetime.Before(to) {
			out = append(out, r)
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func waterTime(r *domain.WaterRecord) time.Time       { return r.Datetime }
func waterAmount(r *domain.WaterRecord) int           { return r.AmountMl }
func sleepTime(r *domain.SleepRecord) time.Time       { return r.Datetime }
func sleepHours(r *domain.SleepRecord) float64        { return r.Hours }
func activityTime(r *domain.ActivityRecord) time.Time { return r.Datetime }
func activityMinutes(r *domain.ActivityRecord) int    { return r.Minutes }
func itemTime(r *domain.CustomItem) time.Time         { return r.Datetime }
func countOne(*domain.CustomItem) int                 { return 1 }

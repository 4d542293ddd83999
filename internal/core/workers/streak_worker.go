package workers

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

const queueSize = 100

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateStreak(ctx context.Context, userID string, current, longest int) error
}

type WaterRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*domain.WaterRecord, error)
}

type StreakJob struct {
	UserID string
}

type StreakOptions struct {
	GoalMl   float64
	Location *time.Location
	Clock    func() time.Time
	Logger   zerolog.Logger
}

// StreakWorker recomputes a user's hydration streak in the background after
// their water records change. A day counts when its total reaches the goal.
type StreakWorker struct {
	userRepo  UserRepository
	waterRepo WaterRepository
	goalMl    float64
	loc       *time.Location
	now       func() time.Time
	logger    zerolog.Logger
	jobs      chan StreakJob
	done      chan struct{}
}

func NewStreakWorker(uRepo UserRepository, wRepo WaterRepository, opts StreakOptions) *StreakWorker {
	w := &StreakWorker{
		userRepo:  uRepo,
		waterRepo: wRepo,
		goalMl:    opts.GoalMl,
		loc:       opts.Location,
		now:       opts.Clock,
		logger:    opts.Logger.With().Str("component", "streak_worker").Logger(),
		jobs:      make(chan StreakJob, queueSize),
		done:      make(chan struct{}),
	}

	if w.goalMl <= 0 {
		w.goalMl = domain.DefaultWaterGoalMl
	}
	if w.loc == nil {
		w.loc = time.UTC
	}
	if w.now == nil {
		w.now = time.Now
	}

	return w
}

// Start consumes jobs until ctx is cancelled. Done is closed once the loop exits.
func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)

		w.logger.Info().Msg("streak worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info().Msg("streak worker shutting down")
				return
			}
		}
	}()
}

func (w *StreakWorker) Done() <-chan struct{} {
	return w.done
}

// Enqueue never blocks: when the queue is full the job is dropped.
func (w *StreakWorker) Enqueue(userID string) {
	select {
	case w.jobs <- StreakJob{UserID: userID}:
	default:
		w.logger.Warn().Str("user_id", userID).Msg("streak queue full, dropping job")
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	log := w.logger.With().Str("user_id", job.UserID).Logger()

	user, err := w.userRepo.GetByID(ctx, job.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch user")
		return
	}

	records, err := w.waterRepo.ListByUserID(ctx, job.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch water records")
		return
	}

	current, longest := calculateStreaks(records, w.goalMl, w.now(), w.loc)

	if user.CurrentStreak == current && user.LongestStreak == longest {
		return
	}

	if err := w.userRepo.UpdateStreak(ctx, user.ID, current, longest); err != nil {
		log.Error().Err(err).Msg("failed to update streak")
		return
	}

	log.Debug().Int("current", current).Int("longest", longest).Msg("streak updated")
}

// calculateStreaks works on civil dates in loc. The current streak is alive
// when the last qualifying day is today or yesterday.
func calculateStreaks(records []*domain.WaterRecord, goalMl float64, now time.Time, loc *time.Location) (int, int) {
	if len(records) == 0 {
		return 0, 0
	}

	totals := make(map[time.Time]float64)
	for _, r := range records {
		if r == nil || r.Datetime.IsZero() {
			continue
		}
		totals[civilDate(r.Datetime.In(loc))] += float64(r.AmountMl)
	}

	var days []time.Time
	for day, total := range totals {
		if total >= goalMl {
			days = append(days, day)
		}
	}

	if len(days) == 0 {
		return 0, 0
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})

	consecutive := func(later, earlier time.Time) bool {
		return earlier.AddDate(0, 0, 1).Equal(later)
	}

	currentStreak := 0
	today := civilDate(now.In(loc))
	if days[0].Equal(today) || consecutive(today, days[0]) {
		currentStreak = 1
		for i := 0; i < len(days)-1; i++ {
			if !consecutive(days[i], days[i+1]) {
				break
			}
			currentStreak++
		}
	}

	longestStreak := 0
	tempStreak := 1
	for i := 0; i < len(days)-1; i++ {
		if consecutive(days[i], days[i+1]) {
			tempStreak++
			continue
		}
		longestStreak = max(longestStreak, tempStreak)
		tempStreak = 1
	}
	longestStreak = max(longestStreak, tempStreak)

	return currentStreak, longestStreak
}

// civilDate drops the clock and zone so day arithmetic is immune to DST.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

// ChangeNotifier is told which user's records changed. The streak worker
// implements it for water.
type ChangeNotifier interface {
	Enqueue(userID string)
}

// RecordService is the CRUD use case shared by every record kind. Every
// operation is scoped by the caller's user id.
type RecordService[R domain.Record] struct {
	repo     domain.RecordRepository[R]
	notifier ChangeNotifier
}

type (
	WaterService    = RecordService[*domain.WaterRecord]
	SleepService    = RecordService[*domain.SleepRecord]
	ActivityService = RecordService[*domain.ActivityRecord]
)

// NewRecordService accepts a nil notifier.
func NewRecordService[R domain.Record](repo domain.RecordRepository[R], notifier ChangeNotifier) *RecordService[R] {
	return &RecordService[R]{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *RecordService[R]) notify(userID string) {
	if s.notifier != nil {
		s.notifier.Enqueue(userID)
	}
}

// Create stores a record already validated by its constructor.
func (s *RecordService[R]) Create(ctx context.Context, record R) (R, error) {
	if err := s.repo.Create(ctx, record); err != nil {
		var zero R
		return zero, fmt.Errorf("record service: create failed: %w", err)
	}

	s.notify(record.OwnerID())
	return record, nil
}

// List returns the user's records, newest first unless cmp says otherwise.
func (s *RecordService[R]) List(ctx context.Context, userID string, cmp func(a, b R) int) ([]R, error) {
	records, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sortRecords(records, cmp), nil
}

// ListInRange returns the records with from <= datetime < to, ordered like List.
func (s *RecordService[R]) ListInRange(ctx context.Context, userID string, from, to time.Time, cmp func(a, b R) int) ([]R, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: empty time range", domain.ErrInvalidRecord)
	}

	records, err := s.repo.ListByUserIDInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return sortRecords(records, cmp), nil
}

func sortRecords[R domain.Record](records []R, cmp func(a, b R) int) []R {
	if cmp == nil {
		return records
	}
	records = slices.Clone(records)
	slices.SortStableFunc(records, cmp)
	return records
}

func (s *RecordService[R]) Get(ctx context.Context, id, userID string) (R, error) {
	var zero R

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if record.OwnerID() != userID {
		return zero, domain.ErrUnauthorized
	}

	return record, nil
}

// Update loads the record, checks ownership and lets apply mutate it.
func (s *RecordService[R]) Update(ctx context.Context, id, userID string, apply func(R) error) (R, error) {
	var zero R

	record, err := s.Get(ctx, id, userID)
	if err != nil {
		return zero, err
	}

	if err := apply(record); err != nil {
		return zero, err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return zero, err
	}

	s.notify(userID)
	return record, nil
}

func (s *RecordService[R]) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.notify(userID)
	return nil
}

// ByDurationDesc orders activities longest first.
func ByDurationDesc(a, b *domain.ActivityRecord) int {
	return b.Minutes - a.Minutes
}

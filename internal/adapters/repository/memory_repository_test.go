package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/weekly"
)

func TestInMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	alice, _ := domain.NewUser("u-1", "alice")
	require.NoError(t, repo.Create(ctx, alice))

	t.Run("Fail: Duplicate username", func(t *testing.T) {
		clone, _ := domain.NewUser("u-2", "alice")
		assert.ErrorIs(t, repo.Create(ctx, clone), domain.ErrUsernameTaken)
	})

	t.Run("Success: Lookup by username", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "u-1", got.ID)
	})

	t.Run("Fail: Update of unknown user", func(t *testing.T) {
		assert.ErrorIs(t, repo.Update(ctx, &domain.User{ID: "ghost"}), domain.ErrUserNotFound)
	})

	t.Run("Edge Case: Changes are invisible until Update", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "u-1")
		require.NoError(t, err)
		gender := "female"
		require.NoError(t, got.UpdateProfile(domain.ProfileInput{Gender: &gender}))

		again, _ := repo.GetByID(ctx, "u-1")
		assert.Empty(t, again.Gender)

		require.NoError(t, repo.Update(ctx, got))
		again, _ = repo.GetByID(ctx, "u-1")
		assert.Equal(t, "female", again.Gender)
	})

	t.Run("Edge Case: Profile update read before a streak write keeps the streak", func(t *testing.T) {
		stale, err := repo.GetByID(ctx, "u-1")
		require.NoError(t, err)

		require.NoError(t, repo.UpdateStreak(ctx, "u-1", 3, 5))

		age := 33
		require.NoError(t, stale.UpdateProfile(domain.ProfileInput{Age: &age}))
		require.NoError(t, repo.Update(ctx, stale))

		got, _ := repo.GetByID(ctx, "u-1")
		assert.Equal(t, 33, *got.Age)
		assert.Equal(t, 3, got.CurrentStreak)
		assert.Equal(t, 5, got.LongestStreak)
	})

	t.Run("Success: UpdateStreak keeps longest at least current", func(t *testing.T) {
		require.NoError(t, repo.UpdateStreak(ctx, "u-1", 6, 2))

		got, _ := repo.GetByID(ctx, "u-1")
		assert.Equal(t, 6, got.CurrentStreak)
		assert.Equal(t, 6, got.LongestStreak)
	})

	t.Run("Fail: UpdateStreak of unknown user", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdateStreak(ctx, "ghost", 1, 1), domain.ErrUserNotFound)
	})
}

func TestInMemoryRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRecordRepository[domain.WaterRecord, *domain.WaterRecord]()
	base := time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)

	old, _ := domain.NewWaterRecord("u-1", base.AddDate(0, 0, -10), 100)
	mid, _ := domain.NewWaterRecord("u-1", base.AddDate(0, 0, -1), 200)
	recent, _ := domain.NewWaterRecord("u-1", base, 300)
	other, _ := domain.NewWaterRecord("u-2", base, 999)

	for _, r := range []*domain.WaterRecord{mid, old, recent, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	t.Run("List is scoped by user and newest first", func(t *testing.T) {
		list, err := repo.ListByUserID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, []*domain.WaterRecord{recent, mid, old}, list)
	})

	t.Run("Range is half open", func(t *testing.T) {
		list, err := repo.ListByUserIDInRange(ctx, "u-1", base.AddDate(0, 0, -1), base)
		require.NoError(t, err)
		assert.Equal(t, []*domain.WaterRecord{mid}, list)
	})

	t.Run("Fail: Delete by another user", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, recent.ID, "u-2"), domain.ErrRecordNotFound)
	})

	t.Run("Fail: Duplicate id", func(t *testing.T) {
		assert.ErrorIs(t, repo.Create(ctx, recent), domain.ErrInvalidRecord)
	})

	t.Run("Success: Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, old.ID, "u-1"))
		_, err := repo.GetByID(ctx, old.ID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestInMemoryRecordRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRecordRepository[domain.SleepRecord, *domain.SleepRecord]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, _ := domain.NewSleepRecord("u-1", time.Now(), 7)
			_ = repo.Create(ctx, rec)
			_, _ = repo.ListByUserID(ctx, "u-1")
		}()
	}
	wg.Wait()

	list, err := repo.ListByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, list, 50)
}

func TestInMemoryRecordRepository_Isolation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRecordRepository[domain.WaterRecord, *domain.WaterRecord]()

	rec, _ := domain.NewWaterRecord("u-1", time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC), 250)
	require.NoError(t, repo.Create(ctx, rec))

	t.Run("Edge Case: Mutating the created record does not touch the store", func(t *testing.T) {
		rec.AmountMl = 999

		got, err := repo.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, 250, got.AmountMl)
	})

	t.Run("Edge Case: Changes are invisible until Update", func(t *testing.T) {
		got, err := repo.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		amount := 400
		require.NoError(t, got.Patch(nil, &amount))

		list, _ := repo.ListByUserID(ctx, "u-1")
		require.Len(t, list, 1)
		assert.Equal(t, 250, list[0].AmountMl)

		list[0].AmountMl = 1

		require.NoError(t, repo.Update(ctx, got))
		again, _ := repo.GetByID(ctx, rec.ID)
		assert.Equal(t, 400, again.AmountMl)
	})
}

// Run with -race: an update in flight must never be observed by a concurrent
// weekly aggregation over the listed records.
func TestInMemoryRecordRepository_UpdateDuringAggregation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRecordRepository[domain.WaterRecord, *domain.WaterRecord]()
	ref := time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)

	rec, _ := domain.NewWaterRecord("u-1", ref, 100)
	require.NoError(t, repo.Create(ctx, rec))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			got, err := repo.GetByID(ctx, rec.ID)
			if err != nil {
				return
			}
			amount := 100 + (i%2)*100
			_ = got.Patch(nil, &amount)
			_ = repo.Update(ctx, got)
		}
	}()

	start, end := weekly.Window(ref)
	for i := 0; i < 200; i++ {
		list, err := repo.ListByUserIDInRange(ctx, "u-1", start, end)
		require.NoError(t, err)

		profile := weekly.AggregateByWeekday(list,
			func(r *domain.WaterRecord) time.Time { return r.Datetime },
			func(r *domain.WaterRecord) int { return r.AmountMl },
			ref,
		)
		total := profile.Total()
		assert.True(t, total == 100 || total == 200, "unexpected total %v", total)
	}

	wg.Wait()
}

func TestInMemoryCategoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryCategoryRepository()

	mood, _ := domain.NewCategory("u-1", "Mood")
	diet, _ := domain.NewCategory("u-1", "Diet")
	require.NoError(t, repo.Create(ctx, mood))
	require.NoError(t, repo.Create(ctx, diet))

	dup, _ := domain.NewCategory("u-1", "mood")
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrCategoryExists)

	sameNameOtherUser, _ := domain.NewCategory("u-2", "Mood")
	assert.NoError(t, repo.Create(ctx, sameNameOtherUser))

	list, err := repo.ListByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []*domain.Category{diet, mood}, list)

	assert.ErrorIs(t, repo.Delete(ctx, mood.ID, "u-2"), domain.ErrCategoryNotFound)
	assert.NoError(t, repo.Delete(ctx, mood.ID, "u-1"))
}

package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	// Create persists a new user. Returns ErrUsernameTaken on a duplicate username.
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id string) (*User, error)

	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update writes the profile fields. Streak counters are left untouched.
	Update(ctx context.Context, user *User) error

	// UpdateStreak writes only the streak counters; longest never drops below current.
	UpdateStreak(ctx context.Context, userID string, current, longest int) error
}

// RecordRepository stores one kind of timestamped record, always scoped by owner.
type RecordRepository[R Record] interface {
	Create(ctx context.Context, record R) error

	GetByID(ctx context.Context, id string) (R, error)

	// ListByUserID returns every record of the user, newest first.
	ListByUserID(ctx context.Context, userID string) ([]R, error)

	// ListByUserIDInRange returns records with from <= datetime < to, newest first.
	ListByUserIDInRange(ctx context.Context, userID string, from, to time.Time) ([]R, error)

	Update(ctx context.Context, record R) error

	// Delete requires userID so a user can only remove what they own.
	Delete(ctx context.Context, id string, userID string) error
}

type (
	WaterRepository      = RecordRepository[*WaterRecord]
	SleepRepository      = RecordRepository[*SleepRecord]
	ActivityRepository   = RecordRepository[*ActivityRecord]
	CustomItemRepository = RecordRepository[*CustomItem]
)

type CategoryRepository interface {
	// Create returns ErrCategoryExists when the user already has a category with that name.
	Create(ctx context.Context, category *Category) error

	GetByID(ctx context.Context, id string) (*Category, error)

	ListByUserID(ctx context.Context, userID string) ([]*Category, error)

	Delete(ctx context.Context, id string, userID string) error
}

package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateStreak(ctx context.Context, userID string, current, longest int) error {
	return m.Called(ctx, userID, current, longest).Error(0)
}

type MockRecordRepository[R domain.Record] struct {
	mock.Mock
}

func (m *MockRecordRepository[R]) Create(ctx context.Context, record R) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository[R]) GetByID(ctx context.Context, id string) (R, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero R
		return zero, args.Error(1)
	}
	return args.Get(0).(R), args.Error(1)
}

func (m *MockRecordRepository[R]) ListByUserID(ctx context.Context, userID string) ([]R, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]R), args.Error(1)
}

func (m *MockRecordRepository[R]) ListByUserIDInRange(ctx context.Context, userID string, from, to time.Time) ([]R, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]R), args.Error(1)
}

func (m *MockRecordRepository[R]) Update(ctx context.Context, record R) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository[R]) Delete(ctx context.Context, id string, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Enqueue(userID string) {
	m.Called(userID)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Update profile persists changes", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		repo.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Username: "alice"}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.WeightKg != nil && *u.WeightKg == 61.5
		})).Return(nil)

		user, err := svc.UpdateProfile(ctx, "u1", domain.ProfileInput{WeightKg: ptr(61.5)})

		require.NoError(t, err)
		assert.Equal(t, 61.5, *user.WeightKg)
		repo.AssertExpectations(t)
	})

	t.Run("Fail: Invalid profile is not persisted", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		repo.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1"}, nil)

		_, err := svc.UpdateProfile(ctx, "u1", domain.ProfileInput{HeightM: ptr(-1.0)})

		assert.ErrorIs(t, err, domain.ErrInvalidProfile)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Success: BMI from centimeter height", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		repo.On("GetByID", ctx, "u2").Return(&domain.User{ID: "u2", WeightKg: ptr(75.0), HeightM: ptr(180.0)}, nil)

		bmi, err := svc.GetBMI(ctx, "u2")

		require.NoError(t, err)
		assert.Equal(t, 23.1, bmi)
	})

	t.Run("Fail: BMI with incomplete profile", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		repo.On("GetByID", ctx, "u3").Return(&domain.User{ID: "u3"}, nil)

		_, err := svc.GetBMI(ctx, "u3")

		assert.ErrorIs(t, err, domain.ErrProfileIncomplete)
	})

	t.Run("Fail: Unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo)

		repo.On("GetByID", ctx, "ghost").Return(nil, domain.ErrUserNotFound)

		_, err := svc.GetProfile(ctx, "ghost")

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

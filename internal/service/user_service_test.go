package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/mocks"
	"github.com/phrazzld/cadence-api/internal/service"
	"github.com/phrazzld/cadence-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and default settings", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		users := mocks.NewMockUserStore()
		settings := new(mocks.MockSettingsStore)
		settings.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.CapacitySettings) bool {
			return s.Limits == domain.DefaultLimits()
		})).Return(nil)

		svc := service.NewUserService(users, settings, db, discardLogger())
		user, err := svc.Register(ctx, "New@Example.com", "correct-horse-battery", "Europe/Berlin")

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, "Europe/Berlin", user.Timezone)
		assert.Empty(t, user.Password, "plaintext is cleared by the store")
		settings.AssertExpectations(t)
	})

	t.Run("duplicate email rolls back", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		users := mocks.NewMockUserStore()
		users.CreateFn = func(context.Context, *domain.User) error { return store.ErrEmailExists }
		settings := new(mocks.MockSettingsStore)

		svc := service.NewUserService(users, settings, db, discardLogger())
		_, err := svc.Register(ctx, "taken@example.com", "correct-horse-battery", "")

		assert.ErrorIs(t, err, store.ErrEmailExists)
		settings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("settings failure is wrapped", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		boom := errors.New("disk full")
		settings := new(mocks.MockSettingsStore)
		settings.On("Upsert", mock.Anything, mock.Anything).Return(boom)

		svc := service.NewUserService(mocks.NewMockUserStore(), settings, db, discardLogger())
		_, err := svc.Register(ctx, "a@example.com", "correct-horse-battery", "")

		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "register", serviceErr.Op)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("invalid input never opens a transaction", func(t *testing.T) {
		db, _ := newTxDB(t)
		svc := service.NewUserService(mocks.NewMockUserStore(), new(mocks.MockSettingsStore), db, discardLogger())

		_, err := svc.Register(ctx, "a@example.com", "short", "")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

		_, err = svc.Register(ctx, "a@example.com", "correct-horse-battery", "Mars/Olympus")
		assert.ErrorIs(t, err, service.ErrInvalidTimezone)
	})
}

func TestUserService_UpdateTimezone(t *testing.T) {
	ctx := context.Background()
	existing := &domain.User{
		ID:             uuid.New(),
		Email:          "user@example.com",
		HashedPassword: "hashed",
	}

	t.Run("keeps the rest of the record", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		users := mocks.NewMockUserStore()
		users.Users[existing.Email] = existing
		var saved *domain.User
		users.UpdateFn = func(_ context.Context, u *domain.User) error {
			saved = u
			return nil
		}

		svc := service.NewUserService(users, new(mocks.MockSettingsStore), db, discardLogger())
		user, err := svc.UpdateTimezone(ctx, existing.ID, " Asia/Tokyo ")

		require.NoError(t, err)
		assert.Equal(t, "Asia/Tokyo", user.Timezone)
		require.NotNil(t, saved)
		assert.Equal(t, "hashed", saved.HashedPassword)
		assert.Equal(t, existing.Email, saved.Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		svc := service.NewUserService(mocks.NewMockUserStore(), new(mocks.MockSettingsStore), db, discardLogger())
		_, err := svc.UpdateTimezone(ctx, uuid.New(), "UTC")

		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	db, sqlMock := newTxDB(t)
	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	svc := service.NewUserService(mocks.NewMockUserStore(), new(mocks.MockSettingsStore), db, discardLogger())
	err := svc.DeleteUser(context.Background(), uuid.New())

	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

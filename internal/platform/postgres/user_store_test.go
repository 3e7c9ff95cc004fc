package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/platform/postgres"
	"github.com/phrazzld/cadence-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumnNames = []string{"id", "email", "hashed_password", "timezone", "created_at", "updated_at"}

func TestPostgresUserStoreCreate(t *testing.T) {
	t.Run("hashes the password", func(t *testing.T) {
		db, mock := newMock(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
		user, err := domain.NewUser("new@example.com", "correct-horse-battery")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), user))
		assert.Empty(t, user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("correct-horse-battery")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMock(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
		user, err := domain.NewUser("taken@example.com", "correct-horse-battery")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").WillReturnError(newPgError("23505"))

		assert.ErrorIs(t, s.Create(context.Background(), user), store.ErrEmailExists)
	})

	t.Run("invalid user", func(t *testing.T) {
		db, _ := newMock(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		err := s.Create(context.Background(), &domain.User{ID: uuid.New(), Email: "nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})
}

func TestPostgresUserStoreGet(t *testing.T) {
	now := time.Now().UTC()

	t.Run("by email is case-insensitive", func(t *testing.T) {
		db, mock := newMock(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
		id := uuid.New()

		mock.ExpectQuery("FROM users WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
			WithArgs("Someone@Example.com").
			WillReturnRows(sqlmock.NewRows(userColumnNames).
				AddRow(id.String(), "someone@example.com", "$2a$04$hash", "Europe/Berlin", now, now))

		user, err := s.GetByEmail(context.Background(), " Someone@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Europe/Berlin", user.Timezone)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery("FROM users WHERE id").WillReturnRows(sqlmock.NewRows(userColumnNames))

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStoreListIDs(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT id FROM users ORDER BY created_at, id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := s.ListIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
}

func TestPostgresUserStoreDelete(t *testing.T) {
	db, mock := newMock(t)
	s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM users").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrUserNotFound)
}

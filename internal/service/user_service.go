package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/platform/logger"
	"github.com/phrazzld/cadence-api/internal/store"
)

// UserService provides account operations.
type UserService interface {
	// Register creates a user and their default capacity settings in one
	// transaction. timezone may be empty.
	Register(ctx context.Context, email, password, timezone string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateTimezone changes the zone that decides the user's "today".
	// An empty timezone falls back to the server default.
	UpdateTimezone(ctx context.Context, userID uuid.UUID, timezone string) (*domain.User, error)

	// DeleteUser deletes a user together with their tasks and settings.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore     store.UserStore
	settingsStore store.SettingsStore
	db            store.TxBeginner
	logger        *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	settingsStore store.SettingsStore,
	db store.TxBeginner,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore:     userStore,
		settingsStore: settingsStore,
		db:            db,
		logger:        logger.With(slog.String("component", "user_service")),
	}
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, email, password, timezone string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		log.Debug("rejected registration", slog.String("error", err.Error()))
		return nil, err
	}
	if user.Timezone, err = normalizeTimezone(timezone); err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.settingsStore.WithTx(tx).Upsert(ctx, domain.NewCapacitySettings(user.ID))
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register an existing email")
			return nil, err
		}
		log.Error("failed to register user", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdateTimezone implements UserService.
// It follows the read-modify-write pattern: the complete user is loaded,
// one field is changed and the whole record is written back.
func (s *UserServiceImpl) UpdateTimezone(
	ctx context.Context,
	userID uuid.UUID,
	timezone string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tz, err := normalizeTimezone(timezone)
	if err != nil {
		return nil, err
	}

	var updated *domain.User
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to retrieve user for update: %w", err)
		}

		user.Timezone = tz
		user.UpdatedAt = time.Now().UTC()
		if err := txStore.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to update time zone",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, err
	}

	log.Info("user time zone updated",
		slog.String("user_id", userID.String()),
		slog.String("timezone", tz))
	return updated, nil
}

// DeleteUser implements UserService.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("attempted to delete non-existent user", slog.String("user_id", userID.String()))
		} else {
			log.Error("failed to delete user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user deleted", slog.String("user_id", userID.String()))
	return nil
}

func normalizeTimezone(timezone string) (string, error) {
	tz := strings.TrimSpace(timezone)
	if tz == "" {
		return "", nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return "", domain.NewValidationError("timezone", "must be an IANA zone name", ErrInvalidTimezone)
	}
	return tz, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/events"
	"github.com/phrazzld/cadence-api/internal/platform/logger"
	"github.com/phrazzld/cadence-api/internal/store"
)

// ReasonSettingsUpdated is attached to the reschedule request a settings
// change emits.
const ReasonSettingsUpdated = "settings_updated"

// SettingsService reads and writes a user's capacity settings.
type SettingsService interface {
	// GetSettings returns the stored settings, or the defaults when the user
	// has never saved any.
	GetSettings(ctx context.Context, userID uuid.UUID) (*domain.CapacitySettings, error)

	// UpdateSettings validates and stores limits. Hour caps must lie in
	// 0–24 and task caps in 1–20; missing task caps take the default.
	UpdateSettings(ctx context.Context, userID uuid.UUID, limits domain.Limits) (*domain.CapacitySettings, error)
}

type settingsServiceImpl struct {
	settingsStore store.SettingsStore
	emitter       events.EventEmitter
	validate      *validator.Validate
	logger        *slog.Logger
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(
	settingsStore store.SettingsStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) SettingsService {
	if settingsStore == nil {
		panic("settingsStore cannot be nil")
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &settingsServiceImpl{
		settingsStore: settingsStore,
		emitter:       emitter,
		validate:      validator.New(),
		logger:        logger.With(slog.String("component", "settings_service")),
	}
}

// GetSettings implements SettingsService.
func (s *settingsServiceImpl) GetSettings(ctx context.Context, userID uuid.UUID) (*domain.CapacitySettings, error) {
	return loadSettings(ctx, s.settingsStore, userID)
}

// UpdateSettings implements SettingsService.
func (s *settingsServiceImpl) UpdateSettings(
	ctx context.Context,
	userID uuid.UUID,
	limits domain.Limits,
) (*domain.CapacitySettings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limits = limits.WithDefaults()
	if err := s.validate.Struct(limits); err != nil {
		return nil, limitsValidationError(err)
	}

	settings := &domain.CapacitySettings{
		UserID:    userID,
		Limits:    limits,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.settingsStore.Upsert(ctx, settings); err != nil {
		log.Error("failed to save settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("settings", "update", err)
	}

	log.Info("settings updated", slog.String("user_id", userID.String()))

	event, err := events.NewScheduleRequested(userID, ReasonSettingsUpdated)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to request reschedule",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
	}
	return settings, nil
}

// loadSettings returns userID's settings with defaults applied.
func loadSettings(ctx context.Context, settingsStore store.SettingsStore, userID uuid.UUID) (*domain.CapacitySettings, error) {
	settings, err := settingsStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			return domain.NewCapacitySettings(userID), nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	settings.Limits = settings.Limits.WithDefaults()
	return settings, nil
}

func limitsValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError("limits", err.Error(), nil)
	}

	fe := fieldErrs[0]
	var message string
	switch fe.Tag() {
	case "gte":
		message = "must be at least " + fe.Param()
	case "lte":
		message = "must be at most " + fe.Param()
	default:
		message = "is invalid"
	}
	// Namespace is "Limits.Categories.Work.Weekday"; drop the root type.
	return domain.NewValidationError(fieldPath(fe.Namespace()), message, nil)
}

func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

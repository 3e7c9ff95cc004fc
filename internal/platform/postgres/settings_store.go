package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/platform/logger"
	"github.com/phrazzld/cadence-api/internal/store"
)

// PostgresSettingsStore implements the store.SettingsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingsStore creates a new PostgreSQL implementation of the SettingsStore interface.
func NewPostgresSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

var _ store.SettingsStore = (*PostgresSettingsStore)(nil)

// WithTx implements store.SettingsStore.WithTx
func (s *PostgresSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &PostgresSettingsStore{db: tx, logger: s.logger}
}

// Get implements store.SettingsStore.Get
func (s *PostgresSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.CapacitySettings, error) {
	query := `
		SELECT user_id,
			work_weekday_hours, work_weekend_hours,
			home_weekday_hours, home_weekend_hours,
			health_weekday_hours, health_weekend_hours,
			personal_weekday_hours, personal_weekend_hours,
			daily_weekday_hours, daily_weekend_hours,
			daily_weekday_tasks, daily_weekend_tasks,
			updated_at
		FROM capacity_settings
		WHERE user_id = $1
	`

	var settings domain.CapacitySettings
	l := &settings.Limits
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID,
		&l.Categories.Work.Weekday, &l.Categories.Work.Weekend,
		&l.Categories.Home.Weekday, &l.Categories.Home.Weekend,
		&l.Categories.Health.Weekday, &l.Categories.Health.Weekend,
		&l.Categories.Personal.Weekday, &l.Categories.Personal.Weekend,
		&l.DailyMaxHours.Weekday, &l.DailyMaxHours.Weekend,
		&l.DailyMaxTasks.Weekday, &l.DailyMaxTasks.Weekend,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettingsNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get capacity settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return &settings, nil
}

// Upsert implements store.SettingsStore.Upsert
func (s *PostgresSettingsStore) Upsert(ctx context.Context, settings *domain.CapacitySettings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO capacity_settings (
			user_id,
			work_weekday_hours, work_weekend_hours,
			home_weekday_hours, home_weekend_hours,
			health_weekday_hours, health_weekend_hours,
			personal_weekday_hours, personal_weekend_hours,
			daily_weekday_hours, daily_weekend_hours,
			daily_weekday_tasks, daily_weekend_tasks,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id) DO UPDATE SET
			work_weekday_hours = EXCLUDED.work_weekday_hours,
			work_weekend_hours = EXCLUDED.work_weekend_hours,
			home_weekday_hours = EXCLUDED.home_weekday_hours,
			home_weekend_hours = EXCLUDED.home_weekend_hours,
			health_weekday_hours = EXCLUDED.health_weekday_hours,
			health_weekend_hours = EXCLUDED.health_weekend_hours,
			personal_weekday_hours = EXCLUDED.personal_weekday_hours,
			personal_weekend_hours = EXCLUDED.personal_weekend_hours,
			daily_weekday_hours = EXCLUDED.daily_weekday_hours,
			daily_weekend_hours = EXCLUDED.daily_weekend_hours,
			daily_weekday_tasks = EXCLUDED.daily_weekday_tasks,
			daily_weekend_tasks = EXCLUDED.daily_weekend_tasks,
			updated_at = EXCLUDED.updated_at
	`
	l := settings.Limits.WithDefaults()
	_, err := s.db.ExecContext(ctx, query,
		settings.UserID,
		l.Categories.Work.Weekday, l.Categories.Work.Weekend,
		l.Categories.Home.Weekday, l.Categories.Home.Weekend,
		l.Categories.Health.Weekday, l.Categories.Health.Weekend,
		l.Categories.Personal.Weekday, l.Categories.Personal.Weekend,
		l.DailyMaxHours.Weekday, l.DailyMaxHours.Weekend,
		l.DailyMaxTasks.Weekday, l.DailyMaxTasks.Weekend,
		settings.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert capacity settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return MapError(err)
	}

	log.Debug("capacity settings saved", slog.String("user_id", settings.UserID.String()))
	return nil
}

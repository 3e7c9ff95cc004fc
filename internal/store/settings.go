package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
)

// SettingsStore persists per-user capacity settings.
type SettingsStore interface {
	// Get returns the settings for userID, or ErrSettingsNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*domain.CapacitySettings, error)

	// Upsert creates or replaces the settings for settings.UserID.
	Upsert(ctx context.Context, settings *domain.CapacitySettings) error

	// WithTx returns a SettingsStore bound to tx.
	WithTx(tx *sql.Tx) SettingsStore
}

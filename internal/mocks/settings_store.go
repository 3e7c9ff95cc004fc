package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/phrazzld/cadence-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockSettingsStore is a testify mock of store.SettingsStore.
type MockSettingsStore struct {
	mock.Mock
}

// Get is a mock implementation of store.SettingsStore.Get.
func (m *MockSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.CapacitySettings, error) {
	args := m.Called(ctx, userID)
	if settings, ok := args.Get(0).(*domain.CapacitySettings); ok {
		return settings, args.Error(1)
	}
	return nil, args.Error(1)
}

// Upsert is a mock implementation of store.SettingsStore.Upsert.
func (m *MockSettingsStore) Upsert(ctx context.Context, settings *domain.CapacitySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// WithTx returns the same mock so expectations carry into transactions.
func (m *MockSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return m
}

var _ store.SettingsStore = (*MockSettingsStore)(nil)

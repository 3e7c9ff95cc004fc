// Package mocks provides shared test doubles for the store, auth and
// events interfaces.
//
// Most doubles use function fields with an in-memory default, so a test
// only overrides the calls it cares about:
//
//	tasks := mocks.NewMockTaskStore()
//	tasks.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
//	    return nil, store.ErrTaskNotFound
//	}
//
// MockSettingsStore is built on testify/mock for tests that assert on
// exact call arguments.
package mocks

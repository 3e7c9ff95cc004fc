package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/store"
)

// LockUser takes a transaction-scoped advisory lock keyed on userID.
// It blocks until any other transaction holding the same lock finishes
// and is released automatically at commit or rollback. db must be a
// transaction; on a bare pool the lock is released immediately.
func LockUser(ctx context.Context, db store.DBTX, userID uuid.UUID) error {
	if _, err := db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID.String()); err != nil {
		return fmt.Errorf("failed to acquire user lock: %w", MapError(err))
	}
	return nil
}

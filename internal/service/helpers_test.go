package service_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/cadence-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// newTxDB returns a sqlmock database for code that only begins, commits
// and rolls back transactions; the stores themselves are mocks.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTask(t *testing.T, userID uuid.UUID, title string, created time.Time) domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, title, domain.CategoryWork, 1, domain.Important, domain.NotUrgent)
	require.NoError(t, err)
	task.CreatedAt = created
	task.UpdatedAt = created
	return *task
}

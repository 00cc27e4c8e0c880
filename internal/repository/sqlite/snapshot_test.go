package sqlite_test

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Houeta/yard-scout/internal/models"
	"github.com/Houeta/yard-scout/internal/repository"
	"github.com/Houeta/yard-scout/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectInventory = "SELECT item_id, make, model, year, color, location, date_added FROM inventory"

// =============================================================================
// Integration Tests (using a real temporary database)
// =============================================================================

// newTestDB is a helper function that creates a temporary database for a test.
func newTestDB(t *testing.T) repository.SnapshotStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := sqlite.NewRepository(t.Context(), logger, dbPath)
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		if err = repo.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return repo
}

// TestRepository_Integration_SaveAndLoad simulates the full lifecycle
// of the repository against a real SQLite database.
func TestRepository_Integration_SaveAndLoad(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	t.Run("load_from_empty_db", func(t *testing.T) {
		snapshot, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, snapshot)
		assert.Empty(t, snapshot)
	})

	first := models.Snapshot{
		{ID: "B2", Make: "HYUNDAI", Model: "ACCENT", Year: "2010", Color: "Silver", Location: "Edmonton", DateAdded: "2025-01-05"},
		{ID: "A1", Make: "HYUNDAI", Model: "ACCENT", Year: "2008", Color: "Black", Location: "Edmonton", DateAdded: "2025-01-01"},
	}

	t.Run("save_first_time", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, first))
	})

	t.Run("load_after_first_save", func(t *testing.T) {
		snapshot, err := repo.Load(ctx)
		require.NoError(t, err)
		// Source order must survive the round trip.
		assert.Equal(t, first, snapshot)
	})

	second := models.Snapshot{{ID: "C3", Year: "2014"}}

	t.Run("save_second_time", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, second))
	})

	t.Run("load_after_second_save", func(t *testing.T) {
		snapshot, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot, 1) // Verify old items were deleted.
		assert.Equal(t, second, snapshot)
	})

	t.Run("empty_snapshot_is_still_a_record", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, models.Snapshot{}))

		snapshot, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snapshot)
	})
}

// =============================================================================
// Unit Tests (using sqlmock for failure scenarios)
// =============================================================================

// newMockedRepo creates a repository with a mocked database connection for testing failures.
func newMockedRepo(t *testing.T) (*sqlite.Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := sqlite.NewForTest(mockDB)

	t.Cleanup(func() { mockDB.Close() })

	return repo, mock
}

func TestRepository_Load(t *testing.T) {
	ctx := t.Context()

	t.Run("no_saved_snapshot", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT saved_at FROM snapshot_state").
			WillReturnRows(sqlmock.NewRows([]string{"saved_at"}))

		snapshot, err := repo.Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, snapshot)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_state_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectedErr := errors.New("db connection lost")
		mock.ExpectQuery("SELECT saved_at FROM snapshot_state").WillReturnError(expectedErr)

		_, err := repo.Load(ctx)

		require.ErrorIs(t, err, expectedErr)
		require.NotErrorIs(t, err, repository.ErrRecordCorrupt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_inventory_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT saved_at FROM snapshot_state").
			WillReturnRows(sqlmock.NewRows([]string{"saved_at"}).AddRow("2025-01-01T00:00:00Z"))
		expectedErr := errors.New("table inventory is locked")
		mock.ExpectQuery(selectInventory).WillReturnError(expectedErr)

		_, err := repo.Load(ctx)

		require.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to get inventory")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_scan_is_corrupt", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT saved_at FROM snapshot_state").
			WillReturnRows(sqlmock.NewRows([]string{"saved_at"}).AddRow("2025-01-01T00:00:00Z"))
		itemRows := sqlmock.NewRows([]string{"item_id", "make", "model", "year", "color", "location", "date_added"}).
			AddRow(nil, "m", "m", "y", "c", "l", "d")
		mock.ExpectQuery(selectInventory).WillReturnRows(itemRows)

		_, err := repo.Load(ctx)

		require.ErrorIs(t, err, repository.ErrRecordCorrupt)
		assert.Contains(t, err.Error(), "failed to scan inventory item")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_rows", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT saved_at FROM snapshot_state").
			WillReturnRows(sqlmock.NewRows([]string{"saved_at"}).AddRow("2025-01-01T00:00:00Z"))
		itemRows := sqlmock.NewRows([]string{"item_id", "make", "model", "year", "color", "location", "date_added"}).
			AddRow("1", "m", "m", "y", "c", "l", "d").
			RowError(0, assert.AnError)
		mock.ExpectQuery(selectInventory).WillReturnRows(itemRows)

		_, err := repo.Load(ctx)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "rows iteration error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Save_Failures(t *testing.T) {
	ctx := t.Context()
	snapshot := models.Snapshot{{ID: "A1"}}

	t.Run("error_on_begin_transaction", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectedErr := errors.New("cannot start transaction")
		mock.ExpectBegin().WillReturnError(expectedErr)

		err := repo.Save(ctx, snapshot)

		require.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_update_state", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO snapshot_state").
			WithArgs(sqlmock.AnyArg()).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.Save(ctx, snapshot)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to update snapshot state")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_delete_inventory", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO snapshot_state").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM inventory").WillReturnError(errors.New("delete failed"))
		mock.ExpectRollback()

		err := repo.Save(ctx, snapshot)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete old inventory")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_prepare_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO snapshot_state").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM inventory").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectPrepare("INSERT INTO inventory").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.Save(ctx, snapshot)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to prepare insert statement")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_insert_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO snapshot_state").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM inventory").WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare("INSERT INTO inventory")
		prep.ExpectExec().WithArgs(0, "A1", "", "", "", "", "", "").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.Save(ctx, snapshot)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to insert item with id A1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_commit", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT OR REPLACE INTO snapshot_state").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM inventory").WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare("INSERT INTO inventory")
		prep.ExpectExec().WithArgs(0, "A1", "", "", "", "", "", "").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		err := repo.Save(ctx, snapshot)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

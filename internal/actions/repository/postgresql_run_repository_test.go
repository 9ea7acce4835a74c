package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	actionsDomain "github.com/allisson/actionserver/internal/actions/domain"
	"github.com/allisson/actionserver/internal/database"
	apperrors "github.com/allisson/actionserver/internal/errors"
	"github.com/allisson/actionserver/internal/testutil"
)

func TestNewPostgreSQLRunRepository(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLRunRepository{}, repo)
}

func TestPostgreSQLRunRepository_Create(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	ctx := context.Background()

	run := &actionsDomain.Run{
		ID:         uuid.Must(uuid.NewV7()),
		ActionName: "deploy",
		Status:     actionsDomain.RunStatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	err := repo.Create(ctx, run)
	require.NoError(t, err)

	// Verify the run was created by reading it back
	created, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, created.ID)
	assert.Equal(t, run.ActionName, created.ActionName)
	assert.Equal(t, actionsDomain.RunStatusPending, created.Status)
	assert.Nil(t, created.ExitCode)
	assert.Empty(t, created.Output)
	assert.Empty(t, created.Error)
	assert.WithinDuration(t, run.CreatedAt, created.CreatedAt, time.Second)
	assert.Nil(t, created.StartedAt)
	assert.Nil(t, created.FinishedAt)
}

func TestPostgreSQLRunRepository_Create_DuplicateID(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	ctx := context.Background()

	runID := uuid.Must(uuid.NewV7())

	run1 := &actionsDomain.Run{
		ID:         runID,
		ActionName: "deploy",
		Status:     actionsDomain.RunStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	err := repo.Create(ctx, run1)
	require.NoError(t, err)

	run2 := &actionsDomain.Run{
		ID:         runID, // Same ID
		ActionName: "rotate-keys",
		Status:     actionsDomain.RunStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	err = repo.Create(ctx, run2)
	assert.Error(t, err, "should fail due to duplicate primary key")
}

func TestPostgreSQLRunRepository_Update(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	ctx := context.Background()

	run := &actionsDomain.Run{
		ID:         uuid.Must(uuid.NewV7()),
		ActionName: "deploy",
		Status:     actionsDomain.RunStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	err := repo.Create(ctx, run)
	require.NoError(t, err)

	// Move the run through its lifecycle to a terminal state
	exitCode := 0
	startedAt := time.Now().UTC()
	finishedAt := startedAt.Add(2 * time.Second)

	run.Status = actionsDomain.RunStatusSucceeded
	run.ExitCode = &exitCode
	run.Output = "deployment complete\n"
	run.StartedAt = &startedAt
	run.FinishedAt = &finishedAt

	err = repo.Update(ctx, run)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, actionsDomain.RunStatusSucceeded, updated.Status)
	require.NotNil(t, updated.ExitCode)
	assert.Equal(t, 0, *updated.ExitCode)
	assert.Equal(t, "deployment complete\n", updated.Output)
	assert.Empty(t, updated.Error)
	require.NotNil(t, updated.StartedAt)
	assert.WithinDuration(t, startedAt, *updated.StartedAt, time.Second)
	require.NotNil(t, updated.FinishedAt)
	assert.WithinDuration(t, finishedAt, *updated.FinishedAt, time.Second)
	assert.True(t, updated.Finished())
}

func TestPostgreSQLRunRepository_Update_FailedRun(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	ctx := context.Background()

	run := &actionsDomain.Run{
		ID:         uuid.Must(uuid.NewV7()),
		ActionName: "backup-db",
		Status:     actionsDomain.RunStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	err := repo.Create(ctx, run)
	require.NoError(t, err)

	// A run that never started keeps a nil exit code
	run.Status = actionsDomain.RunStatusFailed
	run.Error = "failed to start action process"
	finishedAt := time.Now().UTC()
	run.FinishedAt = &finishedAt

	err = repo.Update(ctx, run)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, actionsDomain.RunStatusFailed, updated.Status)
	assert.Nil(t, updated.ExitCode)
	assert.Equal(t, "failed to start action process", updated.Error)
	assert.Nil(t, updated.StartedAt)
	require.NotNil(t, updated.FinishedAt)
}

func TestPostgreSQLRunRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, actionsDomain.ErrRunNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgreSQLRunRepository_List(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	ctx := context.Background()

	actionNames := []string{"deploy", "rotate-keys", "backup-db"}
	for _, name := range actionNames {
		time.Sleep(time.Millisecond) // Ensure different timestamps for ordering
		run := &actionsDomain.Run{
			ID:         uuid.Must(uuid.NewV7()),
			ActionName: name,
			Status:     actionsDomain.RunStatusPending,
			CreatedAt:  time.Now().UTC(),
		}
		err := repo.Create(ctx, run)
		require.NoError(t, err, "failed to create run for action: %s", name)
	}

	runs, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Most recent first
	assert.Equal(t, "backup-db", runs[0].ActionName)
	assert.Equal(t, "rotate-keys", runs[1].ActionName)
	assert.Equal(t, "deploy", runs[2].ActionName)
}

func TestPostgreSQLRunRepository_List_Pagination(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		time.Sleep(time.Millisecond)
		run := &actionsDomain.Run{
			ID:         uuid.Must(uuid.NewV7()),
			ActionName: "deploy",
			Status:     actionsDomain.RunStatusPending,
			CreatedAt:  time.Now().UTC(),
		}
		err := repo.Create(ctx, run)
		require.NoError(t, err)
	}

	page1, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page2, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	page3, err := repo.List(ctx, 4, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	// Pages must not overlap
	assert.NotEqual(t, page1[0].ID, page2[0].ID)
	assert.NotEqual(t, page2[0].ID, page3[0].ID)
}

func TestPostgreSQLRunRepository_List_Empty(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	ctx := context.Background()

	runs, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, runs, "empty result should be a non-nil slice")
	assert.Len(t, runs, 0)
}

func TestPostgreSQLRunRepository_WithTransaction(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLRunRepository(db)
	ctx := context.Background()

	run := &actionsDomain.Run{
		ID:         uuid.Must(uuid.NewV7()),
		ActionName: "deploy",
		Status:     actionsDomain.RunStatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	// A failing transaction must roll back the insert
	txManager := database.NewTxManager(db)
	err := txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, run); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = repo.GetByID(ctx, run.ID)
	assert.ErrorIs(t, err, actionsDomain.ErrRunNotFound)

	// A successful transaction commits the insert
	err = txManager.WithTx(ctx, func(txCtx context.Context) error {
		return repo.Create(txCtx, run)
	})
	require.NoError(t, err)

	created, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, created.ID)
}

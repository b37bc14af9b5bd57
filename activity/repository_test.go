package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sitebook/internal/testsupport"
	"github.com/goliatone/go-sitebook/pkg/types"
)

func newTestRepo(t *testing.T, clock types.Clock) *Repository {
	t.Helper()
	repo, err := NewRepository(RepositoryConfig{
		DB:    testsupport.NewDB(t),
		Clock: clock,
	})
	require.NoError(t, err)
	return repo
}

func TestNewRepositoryRequiresDB(t *testing.T) {
	_, err := NewRepository(RepositoryConfig{})
	require.ErrorIs(t, err, types.ErrMissingDB)
}

func TestRepository_LogActivityWithoutProjectIsDropped(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, nil)

	entry, err := repo.LogActivity(ctx, LogInput{
		UserID:     uuid.New(),
		Action:     ActionTaskCreated,
		EntityType: EntityTask,
		EntityID:   uuid.NewString(),
	})
	require.NoError(t, err)
	require.Nil(t, entry)

	count, err := repo.Count(ctx, Filter{})
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRepository_LogActivityStampsTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, types.FixedClock{T: testsupport.Epoch})
	project, actor := uuid.New(), uuid.New()

	entry, err := repo.LogActivity(ctx, LogInput{
		ProjectID:      project,
		UserID:         actor,
		UserName:       "Sam",
		Action:         ActionRFIAnswered,
		EntityType:     EntityRFI,
		EntityID:       "rfi-1",
		Description:    "Answered RFI",
		AdditionalData: map[string]any{"response": "Use W12x26"},
	})
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, types.FormatTimestamp(testsupport.Epoch), entry.Timestamp)
	require.Equal(t, actor, entry.CreatedBy)

	loaded, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, "Sam", loaded.UserName)
	require.Equal(t, "Use W12x26", loaded.AdditionalData["response"])

	_, err = repo.LogActivity(ctx, LogInput{ProjectID: project})
	require.ErrorIs(t, err, types.ErrActionRequired)
}

func TestRepository_LogActivityMasksCredentials(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, nil)
	input := map[string]any{"password_hash": "s3cr3t-hash", "field": "email"}

	entry, err := repo.LogActivity(ctx, LogInput{
		ProjectID:      uuid.New(),
		Action:         ActionProjectUpdated,
		AdditionalData: input,
	})
	require.NoError(t, err)
	require.Equal(t, "email", entry.AdditionalData["field"])
	require.NotEqual(t, "s3cr3t-hash", entry.AdditionalData["password_hash"])
	require.Equal(t, "s3cr3t-hash", input["password_hash"])
}

func TestRepository_QueriesOrderByTimestamp(t *testing.T) {
	ctx := context.Background()
	clock := &testsupport.Clock{T: testsupport.Epoch}
	repo := newTestRepo(t, clock)
	projectA, projectB := uuid.New(), uuid.New()
	alice, bob := uuid.New(), uuid.New()

	log := func(project, user uuid.UUID, action, entityType, entityID string) {
		_, err := repo.LogActivity(ctx, LogInput{
			ProjectID: project, UserID: user, Action: action,
			EntityType: entityType, EntityID: entityID,
		})
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}
	log(projectA, alice, ActionTaskCreated, EntityTask, "t1")
	log(projectA, bob, ActionTaskUpdated, EntityTask, "t1")
	log(projectA, alice, ActionRFICreated, EntityRFI, "r1")
	log(projectB, bob, ActionTaskCreated, EntityTask, "t2")

	byProject, err := repo.ByProject(ctx, projectA, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, byProject, 3)
	require.Equal(t, ActionRFICreated, byProject[0].Action)
	require.Equal(t, ActionTaskCreated, byProject[2].Action)

	aliceInA, err := repo.ByUser(ctx, alice, projectA, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, aliceInA, 2)

	bobAll, err := repo.ByUser(ctx, bob, uuid.Nil, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, bobAll, 2)

	created, err := repo.ByAction(ctx, ActionTaskCreated, uuid.Nil, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, created, 2)

	tasksInA, err := repo.ByEntityType(ctx, EntityTask, projectA, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, tasksInA, 2)

	history, err := repo.ByEntity(ctx, "t1", types.Pagination{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, ActionTaskUpdated, history[0].Action)

	window, err := repo.ByDateRange(ctx, types.DateRange{
		From: types.FormatTimestamp(testsupport.Epoch.Add(time.Minute)),
		To:   types.FormatTimestamp(testsupport.Epoch.Add(2 * time.Minute)),
	}, uuid.Nil, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, window, 2)

	recent, err := repo.Recent(ctx, uuid.Nil, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, projectB, recent[0].ProjectID)
}

func TestRepository_Summaries(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, nil)
	project := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	for _, in := range []LogInput{
		{ProjectID: project, UserID: alice, UserName: "Alice", Action: ActionTaskCreated},
		{ProjectID: project, UserID: alice, UserName: "Alice", Action: ActionTaskUpdated},
		{ProjectID: project, UserID: bob, UserName: "Bob", Action: ActionTaskUpdated},
		{ProjectID: uuid.New(), UserID: bob, UserName: "Bob", Action: ActionUserLogin},
	} {
		_, err := repo.LogActivity(ctx, in)
		require.NoError(t, err)
	}

	byUser, err := repo.SummaryByUser(ctx, project, types.DateRange{})
	require.NoError(t, err)
	require.Equal(t, map[uuid.UUID]UserSummary{
		alice: {Name: "Alice", Count: 2},
		bob:   {Name: "Bob", Count: 1},
	}, byUser)

	byAction, err := repo.SummaryByAction(ctx, project, types.DateRange{})
	require.NoError(t, err)
	require.Equal(t, map[string]int{ActionTaskCreated: 1, ActionTaskUpdated: 2}, byAction)

	empty, err := repo.SummaryByAction(ctx, uuid.New(), types.DateRange{})
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestRepository_DeleteOldLogsBoundary(t *testing.T) {
	ctx := context.Background()
	now := testsupport.Epoch
	repo := newTestRepo(t, types.FixedClock{T: now})
	project := uuid.New()
	const days = 30
	cutoff := now.Add(-days * 24 * time.Hour)

	for _, ts := range []time.Time{cutoff, cutoff.Add(-time.Second), now} {
		_, err := repo.LogActivity(ctx, LogInput{
			ProjectID: project,
			Action:    ActionTaskUpdated,
			Timestamp: types.FormatTimestamp(ts),
		})
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteOldLogs(ctx, days, uuid.Nil)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	remaining, err := repo.ByProject(ctx, project, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	require.Equal(t, types.FormatTimestamp(cutoff), remaining[1].Timestamp)

	deleted, err = repo.DeleteOldLogs(ctx, days, uuid.Nil)
	require.NoError(t, err)
	require.Zero(t, deleted)

	_, err = repo.DeleteOldLogs(ctx, -1, uuid.Nil)
	require.True(t, types.IsInvalidArgument(err))
}

func TestRepository_DeleteOldLogsScopedToProject(t *testing.T) {
	ctx := context.Background()
	now := testsupport.Epoch
	repo := newTestRepo(t, types.FixedClock{T: now})
	old := types.FormatTimestamp(now.AddDate(0, 0, -100))
	kept, pruned := uuid.New(), uuid.New()

	for _, project := range []uuid.UUID{kept, pruned, pruned} {
		_, err := repo.LogActivity(ctx, LogInput{ProjectID: project, Action: ActionTaskUpdated, Timestamp: old})
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteOldLogs(ctx, 90, pruned)
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	count, err := repo.Count(ctx, Filter{ProjectID: kept})
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

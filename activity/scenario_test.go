package activity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sitebook/activity"
	"github.com/goliatone/go-sitebook/internal/testsupport"
	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/project"
	"github.com/goliatone/go-sitebook/task"
)

func TestTaskLifecycleIsAudited(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewDB(t)
	clock := types.FixedClock{T: testsupport.Epoch}
	actor := uuid.New()

	projects, err := project.NewRepository(project.RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)
	tasks, err := task.NewRepository(task.RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)
	audit, err := activity.NewRepository(activity.RepositoryConfig{DB: db, Clock: clock})
	require.NoError(t, err)

	site, err := projects.Create(ctx, &project.Project{Name: "Harbor Point"}, actor)
	require.NoError(t, err)

	created, err := tasks.Create(ctx, &task.Task{Title: "Pour footings", ProjectID: site.ID}, actor)
	require.NoError(t, err)
	require.Equal(t, task.StatusTodo, created.Status)
	_, err = audit.LogActivity(ctx, activity.LogInput{
		ProjectID:  site.ID,
		UserID:     actor,
		UserName:   "Dana",
		Action:     activity.ActionTaskCreated,
		EntityType: activity.EntityTask,
		EntityID:   created.ID.String(),
	})
	require.NoError(t, err)

	updated, err := tasks.Update(ctx, created.ID, task.Patch{Status: types.String(task.StatusComplete)}, actor)
	require.NoError(t, err)
	require.Equal(t, task.StatusComplete, updated.Status)
	_, err = audit.LogActivity(ctx, activity.LogInput{
		ProjectID:      site.ID,
		UserID:         actor,
		UserName:       "Dana",
		Action:         activity.ActionTaskUpdated,
		EntityType:     activity.EntityTask,
		EntityID:       created.ID.String(),
		AdditionalData: map[string]any{"status": task.StatusComplete},
	})
	require.NoError(t, err)

	summary, err := audit.SummaryByAction(ctx, site.ID, types.DateRange{})
	require.NoError(t, err)
	require.Equal(t, map[string]int{
		activity.ActionTaskCreated: 1,
		activity.ActionTaskUpdated: 1,
	}, summary)

	history, err := audit.ByEntity(ctx, created.ID.String(), types.Pagination{})
	require.NoError(t, err)
	require.Len(t, history, 2)
}

package useractivity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sitebook/internal/testsupport"
	"github.com/goliatone/go-sitebook/pkg/types"
)

func newTestRepo(t *testing.T) (*Repository, *testsupport.Clock) {
	t.Helper()
	clock := &testsupport.Clock{T: testsupport.Epoch}
	repo, err := NewRepository(RepositoryConfig{DB: testsupport.NewDB(t), Clock: clock})
	require.NoError(t, err)
	return repo, clock
}

func TestRepository_GetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	user, project := uuid.New(), uuid.New()

	first, err := repo.GetOrCreate(ctx, user, project)
	require.NoError(t, err)
	require.Equal(t, user, first.CreatedBy)
	require.NotNil(t, first.ReadItems)
	require.Empty(t, first.ReadItems)

	second, err := repo.GetOrCreate(ctx, user, project)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	count, err := repo.Count(ctx, user, project)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRepository_GetOrCreateConcurrentFirstTouch(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	user, project := uuid.New(), uuid.New()

	const workers = 8
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := repo.GetOrCreate(ctx, user, project)
			errs[i] = err
			if rec != nil {
				ids[i] = rec.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, ids[0], ids[i])
	}
	count, err := repo.Count(ctx, user, project)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRepository_GetOrCreateRequiresPair(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	_, err := repo.GetOrCreate(ctx, uuid.Nil, uuid.New())
	require.ErrorIs(t, err, types.ErrUserIDRequired)
	_, err = repo.GetOrCreate(ctx, uuid.New(), uuid.Nil)
	require.ErrorIs(t, err, types.ErrProjectIDRequired)
}

func TestRepository_GetByUserAndProjectDoesNotMaterialize(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	user, project := uuid.New(), uuid.New()

	rec, err := repo.GetByUserAndProject(ctx, user, project)
	require.NoError(t, err)
	require.Nil(t, rec)

	count, err := repo.Count(ctx, user, project)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRepository_MarkItemReadKeepsEveryKey(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepo(t)
	user, project := uuid.New(), uuid.New()

	t1 := clock.Now()
	_, err := repo.MarkItemRead(ctx, user, project, "rfi", "1", nil)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	t2 := clock.Now()
	rec, err := repo.MarkItemRead(ctx, user, project, "task", "2", nil)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"rfi_1":  types.FormatTimestamp(t1),
		"task_2": types.FormatTimestamp(t2),
	}, rec.ReadItems)
	require.Equal(t, user, rec.UpdatedBy)
	require.True(t, IsRead(rec, "rfi", "1"))
	require.False(t, IsRead(rec, "rfi", "2"))

	override := testsupport.Epoch.Add(-time.Hour)
	rec, err = repo.MarkItemRead(ctx, user, project, "rfi", "1", &override)
	require.NoError(t, err)
	require.Equal(t, types.FormatTimestamp(override), rec.ReadItems["rfi_1"])
	require.Len(t, rec.ReadItems, 2)

	loaded, err := repo.GetByUserAndProject(ctx, user, project)
	require.NoError(t, err)
	require.Equal(t, rec.ReadItems, loaded.ReadItems)
}

func TestRepository_MarkItemReadSerializedWriters(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	user, project := uuid.New(), uuid.New()

	keys := []string{"1", "2", "3", "4"}
	for _, id := range keys {
		_, err := repo.MarkItemRead(ctx, user, project, "doc", id, nil)
		require.NoError(t, err)
	}
	rec, err := repo.GetByUserAndProject(ctx, user, project)
	require.NoError(t, err)
	for _, id := range keys {
		require.True(t, IsRead(rec, "doc", id))
	}
}

func TestRepository_MarkItemReadRejectsBlankKeyParts(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	_, err := repo.MarkItemRead(ctx, uuid.New(), uuid.New(), "", "1", nil)
	require.True(t, types.IsInvalidArgument(err))
}

func TestRepository_UpdateSectionVisit(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepo(t)
	user, project := uuid.New(), uuid.New()

	rec, err := repo.UpdateSectionVisit(ctx, user, project, SectionRFIs, nil)
	require.NoError(t, err)
	require.NotNil(t, rec.LastRFIsVisit)
	require.True(t, rec.LastRFIsVisit.Equal(clock.Now()))
	require.Nil(t, rec.LastTasksVisit)

	at := testsupport.Epoch.Add(2 * time.Hour)
	rec, err = repo.UpdateSectionVisit(ctx, user, project, SectionChangeOrders, &at)
	require.NoError(t, err)
	require.True(t, rec.LastVisit(SectionChangeOrders).Equal(at))
	require.NotNil(t, rec.LastVisit(SectionRFIs))
}

func TestRepository_UpdateSectionVisitRejectsUnknownSection(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	user, project := uuid.New(), uuid.New()

	before, err := repo.UpdateSectionVisit(ctx, user, project, SectionTasks, nil)
	require.NoError(t, err)

	_, err = repo.UpdateSectionVisit(ctx, user, project, "bogus", nil)
	require.Error(t, err)
	require.True(t, types.IsInvalidArgument(err))

	after, err := repo.GetByUserAndProject(ctx, user, project)
	require.NoError(t, err)
	require.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	require.True(t, before.LastTasksVisit.Equal(*after.LastTasksVisit))
	for _, section := range Sections() {
		if section != SectionTasks {
			require.Nil(t, after.LastVisit(section))
		}
	}
}

func TestRepository_Clears(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	user, project := uuid.New(), uuid.New()

	for _, section := range Sections() {
		_, err := repo.UpdateSectionVisit(ctx, user, project, section, nil)
		require.NoError(t, err)
	}
	_, err := repo.MarkItemRead(ctx, user, project, "rfi", "9", nil)
	require.NoError(t, err)

	rec, err := repo.ClearReadItems(ctx, user, project)
	require.NoError(t, err)
	require.NotNil(t, rec.ReadItems)
	require.Empty(t, rec.ReadItems)
	require.NotNil(t, rec.LastDocumentsVisit)

	rec, err = repo.ClearSectionVisits(ctx, user, project)
	require.NoError(t, err)
	for _, section := range Sections() {
		require.Nil(t, rec.LastVisit(section))
	}

	loaded, err := repo.GetByUserAndProject(ctx, user, project)
	require.NoError(t, err)
	require.NotNil(t, loaded.ReadItems)
	require.Empty(t, loaded.ReadItems)
}

func TestItemKeyJoinsAsIs(t *testing.T) {
	require.Equal(t, "rfi_1", ItemKey("rfi", "1"))
	require.Equal(t, ItemKey("a_b", "c"), ItemKey("a", "b_c"))
	require.Equal(t, []string{"rfis", "submittals", "change_orders", "tasks", "documents"}, Sections())
	require.True(t, ValidSection(SectionDocuments))
	require.False(t, ValidSection("bogus"))
}

package changeorder

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sitebook/internal/testsupport"
	"github.com/goliatone/go-sitebook/pkg/types"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(RepositoryConfig{DB: testsupport.NewDB(t)})
	require.NoError(t, err)
	return repo
}

func TestRepository_CostRollups(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	project := uuid.New()

	seed := []*ChangeOrder{
		{Title: "Add window", ProjectID: project, Cost: types.Float(1200)},
		{Title: "Upgrade HVAC", ProjectID: project, Cost: types.Float(8000.25), Status: StatusApproved},
		{Title: "Remove wall", ProjectID: project, Cost: types.Float(300), Status: StatusRejected},
		{Title: "No cost yet", ProjectID: project, Status: StatusApproved},
	}
	_, err := repo.BulkCreate(ctx, seed, uuid.Nil)
	require.NoError(t, err)

	total, err := repo.TotalCostByProject(ctx, project)
	require.NoError(t, err)
	require.InDelta(t, 9500.25, total, 0.0001)

	approved, err := repo.ApprovedCostByProject(ctx, project)
	require.NoError(t, err)
	require.InDelta(t, 8000.25, approved, 0.0001)

	pending, err := repo.PendingApproval(ctx, project, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	ranged, err := repo.ByCostRange(ctx, types.FloatRange{Min: types.Float(500), Max: types.Float(5000)}, project, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	require.Equal(t, "Add window", ranged[0].Title)
}

func TestRepository_TotalCostOnUnknownProjectIsZero(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	total, err := repo.TotalCostByProject(ctx, uuid.New())
	require.NoError(t, err)
	require.Equal(t, 0.0, total)

	approved, err := repo.ApprovedCostByProject(ctx, uuid.New())
	require.NoError(t, err)
	require.Equal(t, 0.0, approved)
}

func TestRepository_RequestedFilters(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	project := uuid.New()
	requester, approver := uuid.New(), uuid.New()

	seed := []*ChangeOrder{
		{Title: "Stair rail", ProjectID: project, RequestedBy: requester, RequestedDate: types.String("2024-02-01")},
		{Title: "Lobby tile", ProjectID: project, RequestedBy: requester, RequestedDate: types.String("2024-04-01"),
			Status: StatusApproved, ApprovedBy: approver},
	}
	_, err := repo.BulkCreate(ctx, seed, uuid.Nil)
	require.NoError(t, err)

	mine, err := repo.ByRequestedBy(ctx, requester, StatusApproved, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	approvedBy, err := repo.ByApprovedBy(ctx, approver, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, approvedBy, 1)

	dated, err := repo.ByDateRange(ctx, types.DateRange{To: "2024-03-01"}, uuid.Nil, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, dated, 1)
	require.Equal(t, "Stair rail", dated[0].Title)

	search, err := repo.Search(ctx, "TILE", project, types.Pagination{})
	require.NoError(t, err)
	require.Len(t, search, 1)
}

package changeorder

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

// RepositoryConfig wires the bun-backed change order repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*ChangeOrder]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository adds change order queries and cost rollups to the generic store.
type Repository struct {
	*store.Repository[*ChangeOrder, Patch]
}

// NewRepository constructs the change order repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*ChangeOrder, Patch](store.Config[*ChangeOrder]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *ChangeOrder { return &ChangeOrder{} },
		Columns:    columns,
		Clock:      cfg.Clock,
		IDGen:      cfg.IDGen,
		Prepare:    prepare,
	})
	if err != nil {
		return nil, err
	}
	return &Repository{Repository: base}, nil
}

// Filter narrows change order listings. Every set field is ANDed.
type Filter struct {
	ProjectID   uuid.UUID
	Status      string
	RequestedBy uuid.UUID
	ApprovedBy  uuid.UUID
	Search      string
	Cost        types.FloatRange
	// Requested bounds requested_date inclusively.
	Requested types.DateRange
}

func (f Filter) criteria() store.Criteria {
	var c store.Criteria
	if f.ProjectID != uuid.Nil {
		c.Add(store.Eq("project_id", f.ProjectID))
	}
	if f.Status != "" {
		c.Add(store.Eq("status", f.Status))
	}
	if f.RequestedBy != uuid.Nil {
		c.Add(store.Eq("requested_by", f.RequestedBy))
	}
	if f.ApprovedBy != uuid.Nil {
		c.Add(store.Eq("approved_by", f.ApprovedBy))
	}
	c.Add(
		store.Search(f.Search, "title", "description"),
		store.FloatBetween("cost", f.Cost),
		store.Between("requested_date", f.Requested),
	)
	return c
}

// Find lists change orders matching filter.
func (r *Repository) Find(ctx context.Context, filter Filter, page types.Pagination) ([]*ChangeOrder, error) {
	return r.Repository.Find(ctx, page, filter.criteria()...)
}

func (r *Repository) ByProject(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*ChangeOrder, error) {
	return r.Find(ctx, Filter{ProjectID: projectID}, page)
}

func (r *Repository) ByStatus(ctx context.Context, status string, projectID uuid.UUID, page types.Pagination) ([]*ChangeOrder, error) {
	return r.Find(ctx, Filter{Status: status, ProjectID: projectID}, page)
}

func (r *Repository) ByRequestedBy(ctx context.Context, userID uuid.UUID, status string, page types.Pagination) ([]*ChangeOrder, error) {
	return r.Find(ctx, Filter{RequestedBy: userID, Status: status}, page)
}

func (r *Repository) ByApprovedBy(ctx context.Context, userID uuid.UUID, page types.Pagination) ([]*ChangeOrder, error) {
	return r.Find(ctx, Filter{ApprovedBy: userID}, page)
}

func (r *Repository) Search(ctx context.Context, term string, projectID uuid.UUID, page types.Pagination) ([]*ChangeOrder, error) {
	return r.Find(ctx, Filter{Search: term, ProjectID: projectID}, page)
}

func (r *Repository) PendingApproval(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*ChangeOrder, error) {
	return r.ByStatus(ctx, StatusPending, projectID, page)
}

func (r *Repository) Approved(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*ChangeOrder, error) {
	return r.ByStatus(ctx, StatusApproved, projectID, page)
}

func (r *Repository) Rejected(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*ChangeOrder, error) {
	return r.ByStatus(ctx, StatusRejected, projectID, page)
}

func (r *Repository) ByCostRange(ctx context.Context, cost types.FloatRange, projectID uuid.UUID, page types.Pagination) ([]*ChangeOrder, error) {
	return r.Find(ctx, Filter{Cost: cost, ProjectID: projectID}, page)
}

// ByDateRange bounds the requested date, optionally within one project.
func (r *Repository) ByDateRange(ctx context.Context, dates types.DateRange, projectID uuid.UUID, page types.Pagination) ([]*ChangeOrder, error) {
	return r.Find(ctx, Filter{Requested: dates, ProjectID: projectID}, page)
}

// TotalCostByProject sums every change order of a project; 0 when it has none.
func (r *Repository) TotalCostByProject(ctx context.Context, projectID uuid.UUID) (float64, error) {
	return r.Sum(ctx, "cost", store.Eq("project_id", projectID))
}

// ApprovedCostByProject sums only approved change orders; 0 when none match.
func (r *Repository) ApprovedCostByProject(ctx context.Context, projectID uuid.UUID) (float64, error) {
	return r.Sum(ctx, "cost", store.Eq("project_id", projectID), store.Eq("status", StatusApproved))
}

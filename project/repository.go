package project

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

// RepositoryConfig wires the bun-backed project repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Project]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository adds project queries to the generic store.
type Repository struct {
	*store.Repository[*Project, Patch]
}

// NewRepository constructs the project repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*Project, Patch](store.Config[*Project]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *Project { return &Project{} },
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

// Filter narrows project listings. Every set field is ANDed.
type Filter struct {
	ClientID       uuid.UUID
	Phase          string
	Status         string
	ProjectManager uuid.UUID
	Superintendent uuid.UUID
	Search         string
	// Dates bounds start_date from below and end_date from above.
	Dates types.DateRange
	Cost  types.FloatRange
}

func (f Filter) criteria() store.Criteria {
	var c store.Criteria
	if f.ClientID != uuid.Nil {
		c.Add(store.Eq("client_id", f.ClientID))
	}
	if f.Phase != "" {
		c.Add(store.Eq("phase", f.Phase))
	}
	if f.Status != "" {
		c.Add(store.Eq("status", f.Status))
	}
	if f.ProjectManager != uuid.Nil {
		c.Add(store.Eq("project_manager", f.ProjectManager))
	}
	if f.Superintendent != uuid.Nil {
		c.Add(store.Eq("superintendent", f.Superintendent))
	}
	if f.Dates.From != "" {
		c.Add(store.Gte("start_date", f.Dates.From))
	}
	if f.Dates.To != "" {
		c.Add(store.Lte("end_date", f.Dates.To))
	}
	c.Add(
		store.Search(f.Search, "name", "job_number"),
		store.FloatBetween("cost", f.Cost),
	)
	return c
}

// Find lists projects matching filter.
func (r *Repository) Find(ctx context.Context, filter Filter, page types.Pagination) ([]*Project, error) {
	return r.Repository.Find(ctx, page, filter.criteria()...)
}

// ByClient lists the projects of one client.
func (r *Repository) ByClient(ctx context.Context, clientID uuid.UUID, page types.Pagination) ([]*Project, error) {
	return r.Find(ctx, Filter{ClientID: clientID}, page)
}

func (r *Repository) ByPhase(ctx context.Context, phase string, page types.Pagination) ([]*Project, error) {
	return r.Find(ctx, Filter{Phase: phase}, page)
}

func (r *Repository) ByStatus(ctx context.Context, status string, page types.Pagination) ([]*Project, error) {
	return r.Find(ctx, Filter{Status: status}, page)
}

func (r *Repository) ByManager(ctx context.Context, managerID uuid.UUID, page types.Pagination) ([]*Project, error) {
	return r.Find(ctx, Filter{ProjectManager: managerID}, page)
}

func (r *Repository) BySuperintendent(ctx context.Context, userID uuid.UUID, page types.Pagination) ([]*Project, error) {
	return r.Find(ctx, Filter{Superintendent: userID}, page)
}

// ByJobNumber returns the project carrying jobNumber, or nil.
func (r *Repository) ByJobNumber(ctx context.Context, jobNumber string) (*Project, error) {
	return r.FindOne(ctx, store.Eq("job_number", jobNumber))
}

// Search matches name or job number, ignoring case.
func (r *Repository) Search(ctx context.Context, term string, page types.Pagination) ([]*Project, error) {
	return r.Find(ctx, Filter{Search: term}, page)
}

// Active lists projects in the active status.
func (r *Repository) Active(ctx context.Context, page types.Pagination) ([]*Project, error) {
	return r.ByStatus(ctx, StatusActive, page)
}

// ByDateRange lists projects starting on or after dates.From and ending on
// or before dates.To.
func (r *Repository) ByDateRange(ctx context.Context, dates types.DateRange, page types.Pagination) ([]*Project, error) {
	return r.Find(ctx, Filter{Dates: dates}, page)
}

func (r *Repository) ByCostRange(ctx context.Context, cost types.FloatRange, page types.Pagination) ([]*Project, error) {
	return r.Find(ctx, Filter{Cost: cost}, page)
}

// TotalCostByClient sums the cost of a client's projects; 0 when it has none.
func (r *Repository) TotalCostByClient(ctx context.Context, clientID uuid.UUID) (float64, error) {
	return r.Sum(ctx, "cost", store.Eq("client_id", clientID))
}

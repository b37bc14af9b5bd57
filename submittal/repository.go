package submittal

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

// RepositoryConfig wires the bun-backed submittal repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Submittal]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository adds submittal queries to the generic store.
type Repository struct {
	*store.Repository[*Submittal, Patch]
}

// NewRepository constructs the submittal repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*Submittal, Patch](store.Config[*Submittal]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *Submittal { return &Submittal{} },
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

// Filter narrows submittal listings. Every set field is ANDed.
type Filter struct {
	ProjectID   uuid.UUID
	Status      string
	SubmittedBy uuid.UUID
	ReviewedBy  uuid.UUID
	Search      string
	// Submitted bounds submitted_date inclusively.
	Submitted types.DateRange
}

func (f Filter) criteria() store.Criteria {
	var c store.Criteria
	if f.ProjectID != uuid.Nil {
		c.Add(store.Eq("project_id", f.ProjectID))
	}
	if f.Status != "" {
		c.Add(store.Eq("status", f.Status))
	}
	if f.SubmittedBy != uuid.Nil {
		c.Add(store.Eq("submitted_by", f.SubmittedBy))
	}
	if f.ReviewedBy != uuid.Nil {
		c.Add(store.Eq("reviewed_by", f.ReviewedBy))
	}
	c.Add(
		store.Search(f.Search, "title", "description"),
		store.Between("submitted_date", f.Submitted),
	)
	return c
}

// Find lists submittals matching filter.
func (r *Repository) Find(ctx context.Context, filter Filter, page types.Pagination) ([]*Submittal, error) {
	return r.Repository.Find(ctx, page, filter.criteria()...)
}

func (r *Repository) ByProject(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*Submittal, error) {
	return r.Find(ctx, Filter{ProjectID: projectID}, page)
}

func (r *Repository) ByStatus(ctx context.Context, status string, projectID uuid.UUID, page types.Pagination) ([]*Submittal, error) {
	return r.Find(ctx, Filter{Status: status, ProjectID: projectID}, page)
}

func (r *Repository) BySubmittedBy(ctx context.Context, userID uuid.UUID, status string, page types.Pagination) ([]*Submittal, error) {
	return r.Find(ctx, Filter{SubmittedBy: userID, Status: status}, page)
}

func (r *Repository) ByReviewedBy(ctx context.Context, userID uuid.UUID, status string, page types.Pagination) ([]*Submittal, error) {
	return r.Find(ctx, Filter{ReviewedBy: userID, Status: status}, page)
}

func (r *Repository) Search(ctx context.Context, term string, projectID uuid.UUID, page types.Pagination) ([]*Submittal, error) {
	return r.Find(ctx, Filter{Search: term, ProjectID: projectID}, page)
}

// PendingReview lists submittals awaiting a reviewer.
func (r *Repository) PendingReview(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*Submittal, error) {
	return r.ByStatus(ctx, StatusPending, projectID, page)
}

func (r *Repository) Approved(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*Submittal, error) {
	return r.ByStatus(ctx, StatusApproved, projectID, page)
}

func (r *Repository) Rejected(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*Submittal, error) {
	return r.ByStatus(ctx, StatusRejected, projectID, page)
}

// ByDateRange bounds the submitted date, optionally within one project.
func (r *Repository) ByDateRange(ctx context.Context, dates types.DateRange, projectID uuid.UUID, page types.Pagination) ([]*Submittal, error) {
	return r.Find(ctx, Filter{Submitted: dates, ProjectID: projectID}, page)
}

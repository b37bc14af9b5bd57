package rfi

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

// RepositoryConfig wires the bun-backed RFI repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*RFI]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository adds RFI queries to the generic store.
type Repository struct {
	*store.Repository[*RFI, Patch]
}

// NewRepository constructs the RFI repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*RFI, Patch](store.Config[*RFI]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *RFI { return &RFI{} },
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

// Filter narrows RFI listings. Every set field is ANDed.
type Filter struct {
	ProjectID   uuid.UUID
	Status      string
	Priority    string
	SubmittedBy uuid.UUID
	AssignedTo  uuid.UUID
	Search      string
	// OpenOnly drops closed RFIs.
	OpenOnly  bool
	Due       types.DateRange
	DueBefore string
}

func (f Filter) criteria() store.Criteria {
	var c store.Criteria
	if f.ProjectID != uuid.Nil {
		c.Add(store.Eq("project_id", f.ProjectID))
	}
	if f.Status != "" {
		c.Add(store.Eq("status", f.Status))
	}
	if f.Priority != "" {
		c.Add(store.Eq("priority", f.Priority))
	}
	if f.SubmittedBy != uuid.Nil {
		c.Add(store.Eq("submitted_by", f.SubmittedBy))
	}
	if f.AssignedTo != uuid.Nil {
		c.Add(store.Eq("assigned_to", f.AssignedTo))
	}
	if f.OpenOnly {
		c.Add(store.NotEq("status", StatusClosed))
	}
	if f.DueBefore != "" {
		c.Add(store.Lt("due_date", f.DueBefore))
	}
	c.Add(
		store.Search(f.Search, "title", "description"),
		store.Between("due_date", f.Due),
	)
	return c
}

// Find lists RFIs matching filter.
func (r *Repository) Find(ctx context.Context, filter Filter, page types.Pagination) ([]*RFI, error) {
	return r.Repository.Find(ctx, page, filter.criteria()...)
}

func (r *Repository) ByProject(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*RFI, error) {
	return r.Find(ctx, Filter{ProjectID: projectID}, page)
}

func (r *Repository) ByStatus(ctx context.Context, status string, projectID uuid.UUID, page types.Pagination) ([]*RFI, error) {
	return r.Find(ctx, Filter{Status: status, ProjectID: projectID}, page)
}

func (r *Repository) ByPriority(ctx context.Context, priority string, projectID uuid.UUID, page types.Pagination) ([]*RFI, error) {
	return r.Find(ctx, Filter{Priority: priority, ProjectID: projectID}, page)
}

// BySubmittedBy lists RFIs raised by a user, optionally in one status.
func (r *Repository) BySubmittedBy(ctx context.Context, userID uuid.UUID, status string, page types.Pagination) ([]*RFI, error) {
	return r.Find(ctx, Filter{SubmittedBy: userID, Status: status}, page)
}

// ByAssignedTo lists RFIs assigned to a user, optionally in one status.
func (r *Repository) ByAssignedTo(ctx context.Context, userID uuid.UUID, status string, page types.Pagination) ([]*RFI, error) {
	return r.Find(ctx, Filter{AssignedTo: userID, Status: status}, page)
}

func (r *Repository) Search(ctx context.Context, term string, projectID uuid.UUID, page types.Pagination) ([]*RFI, error) {
	return r.Find(ctx, Filter{Search: term, ProjectID: projectID}, page)
}

// Open lists every RFI that is not closed.
func (r *Repository) Open(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*RFI, error) {
	return r.Find(ctx, Filter{ProjectID: projectID, OpenOnly: true}, page)
}

// Overdue lists RFIs not closed whose due date is before today.
func (r *Repository) Overdue(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*RFI, error) {
	today := types.FormatDate(r.Clock().Now())
	return r.Find(ctx, Filter{ProjectID: projectID, OpenOnly: true, DueBefore: today}, page)
}

// DueSoon lists RFIs not closed that are due within days, today included.
func (r *Repository) DueSoon(ctx context.Context, days int, projectID uuid.UUID, page types.Pagination) ([]*RFI, error) {
	now := r.Clock().Now()
	due := types.DateRange{
		From: types.FormatDate(now),
		To:   types.FormatDate(now.AddDate(0, 0, days)),
	}
	return r.Find(ctx, Filter{ProjectID: projectID, OpenOnly: true, Due: due}, page)
}

func (r *Repository) CountByStatus(ctx context.Context, projectID uuid.UUID) (map[string]int, error) {
	return r.CountBy(ctx, "status", Filter{ProjectID: projectID}.criteria()...)
}

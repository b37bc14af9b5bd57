package task

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

// RepositoryConfig wires the bun-backed task repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Task]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository adds task queries to the generic store.
type Repository struct {
	*store.Repository[*Task, Patch]
}

// NewRepository constructs the task repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*Task, Patch](store.Config[*Task]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *Task { return &Task{} },
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

// Filter narrows task listings. Every set field is ANDed.
type Filter struct {
	ProjectID     uuid.UUID
	Status        string
	ExcludeStatus string
	AssignedTo    uuid.UUID
	Priority      string
	Category      string
	Search        string
	Due           types.DateRange
	// DueBefore keeps tasks whose due date is strictly earlier.
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
	if f.ExcludeStatus != "" {
		c.Add(store.NotEq("status", f.ExcludeStatus))
	}
	if f.AssignedTo != uuid.Nil {
		c.Add(store.Eq("assigned_to", f.AssignedTo))
	}
	if f.Priority != "" {
		c.Add(store.Eq("priority", f.Priority))
	}
	if f.Category != "" {
		c.Add(store.Eq("category", f.Category))
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

// Find lists tasks matching filter.
func (r *Repository) Find(ctx context.Context, filter Filter, page types.Pagination) ([]*Task, error) {
	return r.Repository.Find(ctx, page, filter.criteria()...)
}

func (r *Repository) ByProject(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*Task, error) {
	return r.Find(ctx, Filter{ProjectID: projectID}, page)
}

// ByStatus lists tasks in status, optionally within one project.
func (r *Repository) ByStatus(ctx context.Context, status string, projectID uuid.UUID, page types.Pagination) ([]*Task, error) {
	return r.Find(ctx, Filter{Status: status, ProjectID: projectID}, page)
}

// ByAssignedTo lists a user's tasks, optionally in one status.
func (r *Repository) ByAssignedTo(ctx context.Context, userID uuid.UUID, status string, page types.Pagination) ([]*Task, error) {
	return r.Find(ctx, Filter{AssignedTo: userID, Status: status}, page)
}

func (r *Repository) ByPriority(ctx context.Context, priority string, projectID uuid.UUID, page types.Pagination) ([]*Task, error) {
	return r.Find(ctx, Filter{Priority: priority, ProjectID: projectID}, page)
}

func (r *Repository) ByCategory(ctx context.Context, category string, projectID uuid.UUID, page types.Pagination) ([]*Task, error) {
	return r.Find(ctx, Filter{Category: category, ProjectID: projectID}, page)
}

// Search matches title or description, optionally within one project.
func (r *Repository) Search(ctx context.Context, term string, projectID uuid.UUID, page types.Pagination) ([]*Task, error) {
	return r.Find(ctx, Filter{Search: term, ProjectID: projectID}, page)
}

// Overdue lists incomplete tasks whose due date is before today.
func (r *Repository) Overdue(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*Task, error) {
	today := types.FormatDate(r.Clock().Now())
	return r.Find(ctx, Filter{ProjectID: projectID, DueBefore: today, ExcludeStatus: StatusComplete}, page)
}

// DueSoon lists incomplete tasks due between today and days from now,
// inclusive.
func (r *Repository) DueSoon(ctx context.Context, days int, projectID uuid.UUID, page types.Pagination) ([]*Task, error) {
	now := r.Clock().Now()
	due := types.DateRange{
		From: types.FormatDate(now),
		To:   types.FormatDate(now.AddDate(0, 0, days)),
	}
	return r.Find(ctx, Filter{ProjectID: projectID, Due: due, ExcludeStatus: StatusComplete}, page)
}

// CountByStatus groups tasks by status, optionally within one project.
// Statuses with no tasks are absent from the result.
func (r *Repository) CountByStatus(ctx context.Context, projectID uuid.UUID) (map[string]int, error) {
	return r.CountBy(ctx, "status", Filter{ProjectID: projectID}.criteria()...)
}

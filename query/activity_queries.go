package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebook/activity"
	"github.com/goliatone/go-sitebook/pkg/types"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

// ActivityReader is the slice of the audit repository the queries need.
type ActivityReader interface {
	List(ctx context.Context, filter activity.Filter, page types.Pagination) ([]*activity.LogEntry, error)
	Count(ctx context.Context, filter activity.Filter) (int, error)
	SummaryByUser(ctx context.Context, projectID uuid.UUID, dates types.DateRange) (map[uuid.UUID]activity.UserSummary, error)
	SummaryByAction(ctx context.Context, projectID uuid.UUID, dates types.DateRange) (map[string]int, error)
}

// ActivityFeedInput filters and pages the audit feed.
type ActivityFeedInput struct {
	Filter     activity.Filter
	Pagination types.Pagination
}

// ActivityFeedPage is one page of the feed, newest first.
type ActivityFeedPage struct {
	Entries    []*activity.LogEntry `json:"entries"`
	Total      int                  `json:"total"`
	NextOffset int                  `json:"next_offset"`
	HasMore    bool                 `json:"has_more"`
}

// ActivityFeedQuery renders paginated activity feeds for dashboards.
type ActivityFeedQuery struct {
	repo ActivityReader
}

// NewActivityFeedQuery constructs the feed query helper.
func NewActivityFeedQuery(repo ActivityReader) *ActivityFeedQuery {
	return &ActivityFeedQuery{repo: repo}
}

var _ gocommand.Querier[ActivityFeedInput, ActivityFeedPage] = (*ActivityFeedQuery)(nil)

// Query fetches a page of entries and the total count for the filter.
func (q *ActivityFeedQuery) Query(ctx context.Context, input ActivityFeedInput) (ActivityFeedPage, error) {
	if q.repo == nil {
		return ActivityFeedPage{}, types.ErrMissingActivityRepository
	}
	page := types.NormalizePagination(input.Pagination, defaultFeedLimit, maxFeedLimit)
	entries, err := q.repo.List(ctx, input.Filter, page)
	if err != nil {
		return ActivityFeedPage{}, err
	}
	total, err := q.repo.Count(ctx, input.Filter)
	if err != nil {
		return ActivityFeedPage{}, err
	}
	next := page.Offset + len(entries)
	return ActivityFeedPage{
		Entries:    entries,
		Total:      total,
		NextOffset: next,
		HasMore:    next < total,
	}, nil
}

// ActivitySummaryInput scopes a summary to one project and an optional
// timestamp window.
type ActivitySummaryInput struct {
	ProjectID uuid.UUID
	Dates     types.DateRange
}

// ActivitySummaryByUserQuery counts a project's entries per user.
type ActivitySummaryByUserQuery struct {
	repo ActivityReader
}

// NewActivitySummaryByUserQuery constructs the per-user summary helper.
func NewActivitySummaryByUserQuery(repo ActivityReader) *ActivitySummaryByUserQuery {
	return &ActivitySummaryByUserQuery{repo: repo}
}

var _ gocommand.Querier[ActivitySummaryInput, map[uuid.UUID]activity.UserSummary] = (*ActivitySummaryByUserQuery)(nil)

// Query returns the per-user counts. A missing project is rejected.
func (q *ActivitySummaryByUserQuery) Query(ctx context.Context, input ActivitySummaryInput) (map[uuid.UUID]activity.UserSummary, error) {
	if q.repo == nil {
		return nil, types.ErrMissingActivityRepository
	}
	if input.ProjectID == uuid.Nil {
		return nil, types.ErrProjectIDRequired
	}
	return q.repo.SummaryByUser(ctx, input.ProjectID, input.Dates)
}

// ActivitySummaryByActionQuery counts a project's entries per action tag.
type ActivitySummaryByActionQuery struct {
	repo ActivityReader
}

// NewActivitySummaryByActionQuery constructs the per-action summary helper.
func NewActivitySummaryByActionQuery(repo ActivityReader) *ActivitySummaryByActionQuery {
	return &ActivitySummaryByActionQuery{repo: repo}
}

var _ gocommand.Querier[ActivitySummaryInput, map[string]int] = (*ActivitySummaryByActionQuery)(nil)

// Query returns the per-action counts. A missing project is rejected.
func (q *ActivitySummaryByActionQuery) Query(ctx context.Context, input ActivitySummaryInput) (map[string]int, error) {
	if q.repo == nil {
		return nil, types.ErrMissingActivityRepository
	}
	if input.ProjectID == uuid.Nil {
		return nil, types.ErrProjectIDRequired
	}
	return q.repo.SummaryByAction(ctx, input.ProjectID, input.Dates)
}

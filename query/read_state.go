package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/useractivity"
)

// ReadStateReader looks up read-tracking records without materializing them.
type ReadStateReader interface {
	GetByUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (*useractivity.UserActivity, error)
}

// ReadStateInput identifies one (user, project) pair.
type ReadStateInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
}

// ReadState is the read-tracking view returned to callers. Materialized is
// false when the pair has never been touched; the view is then empty.
type ReadState struct {
	Materialized bool                      `json:"materialized"`
	Record       useractivity.UserActivity `json:"record"`
}

// IsRead reports whether the item was read.
func (s ReadState) IsRead(entityType, entityID string) bool {
	return useractivity.IsRead(&s.Record, entityType, entityID)
}

// ReadStateQuery returns the read-tracking view for a pair.
type ReadStateQuery struct {
	repo ReadStateReader
}

// NewReadStateQuery constructs the read-state helper.
func NewReadStateQuery(repo ReadStateReader) *ReadStateQuery {
	return &ReadStateQuery{repo: repo}
}

var _ gocommand.Querier[ReadStateInput, ReadState] = (*ReadStateQuery)(nil)

// Query never creates a record.
func (q *ReadStateQuery) Query(ctx context.Context, input ReadStateInput) (ReadState, error) {
	if q.repo == nil {
		return ReadState{}, types.ErrMissingUserActivityRepository
	}
	if input.UserID == uuid.Nil {
		return ReadState{}, types.ErrUserIDRequired
	}
	if input.ProjectID == uuid.Nil {
		return ReadState{}, types.ErrProjectIDRequired
	}
	record, err := q.repo.GetByUserAndProject(ctx, input.UserID, input.ProjectID)
	if err != nil {
		return ReadState{}, err
	}
	if record == nil {
		return ReadState{
			Record: useractivity.UserActivity{
				UserID:    input.UserID,
				ProjectID: input.ProjectID,
				ReadItems: map[string]string{},
			},
		}, nil
	}
	return ReadState{Materialized: true, Record: *record}, nil
}

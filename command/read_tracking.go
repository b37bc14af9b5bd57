package command

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/useractivity"
)

// ReadTracker is the slice of the read-tracking repository the commands need.
type ReadTracker interface {
	UpdateSectionVisit(ctx context.Context, userID, projectID uuid.UUID, section string, at *time.Time) (*useractivity.UserActivity, error)
	MarkItemRead(ctx context.Context, userID, projectID uuid.UUID, entityType, entityID string, at *time.Time) (*useractivity.UserActivity, error)
	ClearReadItems(ctx context.Context, userID, projectID uuid.UUID) (*useractivity.UserActivity, error)
	ClearSectionVisits(ctx context.Context, userID, projectID uuid.UUID) (*useractivity.UserActivity, error)
}

// ReadTrackingCommandConfig wires dependencies for the read-tracking commands.
type ReadTrackingCommandConfig struct {
	Repository ReadTracker
	Hooks      Hooks
	Clock      types.Clock
}

type readTracking struct {
	repo  ReadTracker
	hooks Hooks
	clock types.Clock
}

func newReadTracking(cfg ReadTrackingCommandConfig) readTracking {
	return readTracking{repo: cfg.Repository, hooks: cfg.Hooks, clock: safeClock(cfg.Clock)}
}

func (c readTracking) finish(ctx context.Context, record *useractivity.UserActivity, result *useractivity.UserActivity) {
	if result != nil && record != nil {
		*result = *record
	}
	emitReadStateHook(ctx, c.hooks, record)
}

// RecordSectionVisitInput stamps a section visit. A zero At uses the handler
// clock.
type RecordSectionVisitInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Section   string
	At        time.Time
	Result    *useractivity.UserActivity
}

// Type implements gocommand.Message.
func (RecordSectionVisitInput) Type() string {
	return "command.read_tracking.section_visit"
}

// Validate implements gocommand.Message.
func (input RecordSectionVisitInput) Validate() error {
	if err := requirePair(input.UserID, input.ProjectID); err != nil {
		return err
	}
	if blank(input.Section) {
		return ErrSectionRequired
	}
	if !useractivity.ValidSection(input.Section) {
		return types.InvalidArgument("command: unknown section %q", input.Section)
	}
	return nil
}

// RecordSectionVisitCommand records that a user opened a section.
type RecordSectionVisitCommand struct{ readTracking }

// NewRecordSectionVisitCommand constructs the handler.
func NewRecordSectionVisitCommand(cfg ReadTrackingCommandConfig) *RecordSectionVisitCommand {
	return &RecordSectionVisitCommand{newReadTracking(cfg)}
}

var _ gocommand.Commander[RecordSectionVisitInput] = (*RecordSectionVisitCommand)(nil)

// Execute validates and persists the visit.
func (c *RecordSectionVisitCommand) Execute(ctx context.Context, input RecordSectionVisitInput) error {
	if c.repo == nil {
		return types.ErrMissingUserActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	at := input.At
	if at.IsZero() {
		at = now(c.clock)
	}
	record, err := c.repo.UpdateSectionVisit(ctx, input.UserID, input.ProjectID, input.Section, &at)
	if err != nil {
		return err
	}
	c.finish(ctx, record, input.Result)
	return nil
}

// MarkItemReadInput marks one entity as read.
type MarkItemReadInput struct {
	UserID     uuid.UUID
	ProjectID  uuid.UUID
	EntityType string
	EntityID   string
	At         time.Time
	Result     *useractivity.UserActivity
}

// Type implements gocommand.Message.
func (MarkItemReadInput) Type() string {
	return "command.read_tracking.mark_read"
}

// Validate implements gocommand.Message.
func (input MarkItemReadInput) Validate() error {
	if err := requirePair(input.UserID, input.ProjectID); err != nil {
		return err
	}
	if blank(input.EntityType, input.EntityID) {
		return ErrEntityRequired
	}
	return nil
}

// MarkItemReadCommand stamps read_items for one entity.
type MarkItemReadCommand struct{ readTracking }

// NewMarkItemReadCommand constructs the handler.
func NewMarkItemReadCommand(cfg ReadTrackingCommandConfig) *MarkItemReadCommand {
	return &MarkItemReadCommand{newReadTracking(cfg)}
}

var _ gocommand.Commander[MarkItemReadInput] = (*MarkItemReadCommand)(nil)

// Execute validates and persists the read mark.
func (c *MarkItemReadCommand) Execute(ctx context.Context, input MarkItemReadInput) error {
	if c.repo == nil {
		return types.ErrMissingUserActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	at := input.At
	if at.IsZero() {
		at = now(c.clock)
	}
	record, err := c.repo.MarkItemRead(ctx, input.UserID, input.ProjectID, input.EntityType, input.EntityID, &at)
	if err != nil {
		return err
	}
	c.finish(ctx, record, input.Result)
	return nil
}

// ClearReadStateInput targets one (user, project) record.
type ClearReadStateInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Result    *useractivity.UserActivity
}

// Type implements gocommand.Message.
func (ClearReadStateInput) Type() string {
	return "command.read_tracking.clear"
}

// Validate implements gocommand.Message.
func (input ClearReadStateInput) Validate() error {
	return requirePair(input.UserID, input.ProjectID)
}

// ClearReadItemsCommand empties read_items.
type ClearReadItemsCommand struct{ readTracking }

// NewClearReadItemsCommand constructs the handler.
func NewClearReadItemsCommand(cfg ReadTrackingCommandConfig) *ClearReadItemsCommand {
	return &ClearReadItemsCommand{newReadTracking(cfg)}
}

var _ gocommand.Commander[ClearReadStateInput] = (*ClearReadItemsCommand)(nil)

// Execute clears every read mark for the pair.
func (c *ClearReadItemsCommand) Execute(ctx context.Context, input ClearReadStateInput) error {
	if c.repo == nil {
		return types.ErrMissingUserActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	record, err := c.repo.ClearReadItems(ctx, input.UserID, input.ProjectID)
	if err != nil {
		return err
	}
	c.finish(ctx, record, input.Result)
	return nil
}

// ClearSectionVisitsCommand nulls every section visit.
type ClearSectionVisitsCommand struct{ readTracking }

// NewClearSectionVisitsCommand constructs the handler.
func NewClearSectionVisitsCommand(cfg ReadTrackingCommandConfig) *ClearSectionVisitsCommand {
	return &ClearSectionVisitsCommand{newReadTracking(cfg)}
}

var _ gocommand.Commander[ClearReadStateInput] = (*ClearSectionVisitsCommand)(nil)

// Execute clears every section visit for the pair.
func (c *ClearSectionVisitsCommand) Execute(ctx context.Context, input ClearReadStateInput) error {
	if c.repo == nil {
		return types.ErrMissingUserActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	record, err := c.repo.ClearSectionVisits(ctx, input.UserID, input.ProjectID)
	if err != nil {
		return err
	}
	c.finish(ctx, record, input.Result)
	return nil
}

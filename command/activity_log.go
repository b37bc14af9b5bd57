package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebook/activity"
	"github.com/goliatone/go-sitebook/pkg/types"
)

// ActivityStore is the slice of the audit repository the commands need.
type ActivityStore interface {
	LogActivity(ctx context.Context, in activity.LogInput) (*activity.LogEntry, error)
	DeleteOldLogs(ctx context.Context, daysToKeep int, projectID uuid.UUID) (int, error)
}

// ActivityCommandConfig wires dependencies for the audit commands.
type ActivityCommandConfig struct {
	Repository ActivityStore
	Hooks      Hooks
	Clock      types.Clock
	Logger     types.Logger
}

// ActivityLogInput describes one audit write. Actor supplies the user columns.
type ActivityLogInput struct {
	ProjectID      uuid.UUID
	Actor          types.Principal
	Action         string
	EntityType     string
	EntityID       string
	Description    string
	AdditionalData map[string]any
	// Result receives the stored entry. It is left untouched when ProjectID
	// is empty.
	Result *activity.LogEntry
}

// Type implements gocommand.Message.
func (ActivityLogInput) Type() string {
	return "command.activity.log"
}

// Validate implements gocommand.Message. An input without a project is
// always valid since nothing is written for it.
func (input ActivityLogInput) Validate() error {
	if input.ProjectID == uuid.Nil {
		return nil
	}
	if strings.TrimSpace(input.Action) == "" {
		return ErrActionRequired
	}
	return nil
}

// ActivityLogCommand appends audit entries.
type ActivityLogCommand struct {
	repo  ActivityStore
	hooks Hooks
	clock types.Clock
}

// NewActivityLogCommand constructs the logging command handler.
func NewActivityLogCommand(cfg ActivityCommandConfig) *ActivityLogCommand {
	return &ActivityLogCommand{
		repo:  cfg.Repository,
		hooks: cfg.Hooks,
		clock: safeClock(cfg.Clock),
	}
}

var _ gocommand.Commander[ActivityLogInput] = (*ActivityLogCommand)(nil)

// Execute validates and persists the entry. An input without a project is
// a no-op, whatever else it carries.
func (c *ActivityLogCommand) Execute(ctx context.Context, input ActivityLogInput) error {
	if c.repo == nil {
		return types.ErrMissingActivityRepository
	}
	if input.ProjectID == uuid.Nil {
		return nil
	}
	if err := input.Validate(); err != nil {
		return err
	}
	entry, err := c.repo.LogActivity(ctx, activity.LogInput{
		ProjectID:      input.ProjectID,
		UserID:         input.Actor.ID,
		UserName:       input.Actor.Name,
		Action:         input.Action,
		EntityType:     input.EntityType,
		EntityID:       input.EntityID,
		Description:    input.Description,
		Timestamp:      types.FormatTimestamp(now(c.clock)),
		AdditionalData: input.AdditionalData,
	})
	if err != nil {
		return err
	}
	if input.Result != nil && entry != nil {
		*input.Result = *entry
	}
	emitActivityHook(ctx, c.hooks, entry)
	return nil
}

// ActivityPruneInput requests a retention run.
type ActivityPruneInput struct {
	DaysToKeep int
	// ProjectID narrows the run to one project when set.
	ProjectID uuid.UUID
	// Deleted receives the number of removed entries.
	Deleted *int
}

// Type implements gocommand.Message.
func (ActivityPruneInput) Type() string {
	return "command.activity.prune"
}

// Validate implements gocommand.Message.
func (input ActivityPruneInput) Validate() error {
	if input.DaysToKeep < 0 {
		return ErrDaysToKeepInvalid
	}
	return nil
}

// ActivityPruneCommand deletes audit entries older than the retention window.
type ActivityPruneCommand struct {
	repo   ActivityStore
	logger types.Logger
}

// NewActivityPruneCommand constructs the retention handler.
func NewActivityPruneCommand(cfg ActivityCommandConfig) *ActivityPruneCommand {
	return &ActivityPruneCommand{
		repo:   cfg.Repository,
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[ActivityPruneInput] = (*ActivityPruneCommand)(nil)

// Execute runs the prune and reports the removed count.
func (c *ActivityPruneCommand) Execute(ctx context.Context, input ActivityPruneInput) error {
	if c.repo == nil {
		return types.ErrMissingActivityRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	deleted, err := c.repo.DeleteOldLogs(ctx, input.DaysToKeep, input.ProjectID)
	if err != nil {
		c.logger.Error("activity prune failed", err, "days_to_keep", input.DaysToKeep, "project_id", input.ProjectID)
		return err
	}
	c.logger.Info("activity pruned", "deleted", deleted, "days_to_keep", input.DaysToKeep, "project_id", input.ProjectID)
	if input.Deleted != nil {
		*input.Deleted = deleted
	}
	return nil
}

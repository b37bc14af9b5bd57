package service

import (
	"context"
	"errors"

	"github.com/goliatone/go-masker"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/activity"
	"github.com/goliatone/go-sitebook/changeorder"
	"github.com/goliatone/go-sitebook/client"
	"github.com/goliatone/go-sitebook/command"
	"github.com/goliatone/go-sitebook/document"
	"github.com/goliatone/go-sitebook/migrations"
	"github.com/goliatone/go-sitebook/pkg/authctx"
	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/project"
	"github.com/goliatone/go-sitebook/query"
	"github.com/goliatone/go-sitebook/rfi"
	"github.com/goliatone/go-sitebook/submittal"
	"github.com/goliatone/go-sitebook/task"
	"github.com/goliatone/go-sitebook/user"
	"github.com/goliatone/go-sitebook/useractivity"
)

// Service is the entry point for go-sitebook. It wires every repository and
// the command/query facades over one bun DB supplied by the host
// application.
type Service struct {
	cfg      Config
	repos    Repositories
	commands Commands
	queries  Queries
}

// Repositories exposes the entity and subsystem repositories.
type Repositories struct {
	Projects     *project.Repository
	Tasks        *task.Repository
	RFIs         *rfi.Repository
	Submittals   *submittal.Repository
	ChangeOrders *changeorder.Repository
	Documents    *document.Repository
	Clients      *client.Repository
	Users        *user.Repository
	Activity     *activity.Repository
	UserActivity *useractivity.Repository
}

// Commands exposes the service command handlers.
type Commands struct {
	LogActivity        *command.ActivityLogCommand
	PruneActivity      *command.ActivityPruneCommand
	RecordSectionVisit *command.RecordSectionVisitCommand
	MarkItemRead       *command.MarkItemReadCommand
	ClearReadItems     *command.ClearReadItemsCommand
	ClearSectionVisits *command.ClearSectionVisitsCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	ActivityFeed            *query.ActivityFeedQuery
	ActivitySummaryByUser   *query.ActivitySummaryByUserQuery
	ActivitySummaryByAction *query.ActivitySummaryByActionQuery
	ReadState               *query.ReadStateQuery
}

// Config captures the dependencies the service needs.
type Config struct {
	DB          *bun.DB
	Clock       types.Clock
	IDGenerator types.IDGenerator
	Logger      types.Logger
	Hooks       command.Hooks
	// Masker scrubs audit payloads. Defaults to activity.DefaultMasker.
	Masker *masker.Masker
	// Dialect selects the schema validation queries, "sqlite" or
	// "postgres". Empty detects it from DB.
	Dialect string
}

// AuditEntry describes the audit write that follows a business mutation.
type AuditEntry struct {
	ProjectID   uuid.UUID
	Action      string
	EntityType  string
	EntityID    string
	Description string
	Data        map[string]any
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) (*Service, error) {
	norm := normalizeConfig(cfg)
	if norm.DB == nil {
		return nil, types.ErrMissingDB
	}
	repos, err := buildRepositories(norm)
	if err != nil {
		return nil, err
	}
	s := &Service{cfg: norm, repos: repos}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s, nil
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Masker == nil {
		cfg.Masker = activity.DefaultMasker()
	}
	if cfg.Dialect == "" && cfg.DB != nil {
		cfg.Dialect = cfg.DB.Dialect().Name().String()
	}
	return cfg
}

// Repositories returns the repository set.
func (s *Service) Repositories() Repositories {
	return s.repos
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// HealthCheck pings the database and verifies the schema carries every
// required table and column.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s == nil || s.cfg.DB == nil {
		return types.ErrMissingDB
	}
	if err := s.cfg.DB.PingContext(ctx); err != nil {
		return err
	}
	return migrations.ValidateSchema(ctx, s.cfg.DB.DB, s.cfg.Dialect)
}

// Audit records entry on behalf of principal after a business mutation has
// committed. It runs in its own transaction; a failure is logged and
// returned but never rolls back the mutation. A zero principal is resolved
// from ctx. An entry without a project returns nil.
func (s *Service) Audit(ctx context.Context, principal types.Principal, entry AuditEntry) (*activity.LogEntry, error) {
	if principal.IsZero() {
		if p, ok := authctx.PrincipalFromContext(ctx); ok {
			principal = p
		}
	}
	var stored activity.LogEntry
	err := s.commands.LogActivity.Execute(ctx, command.ActivityLogInput{
		ProjectID:      entry.ProjectID,
		Actor:          principal,
		Action:         entry.Action,
		EntityType:     entry.EntityType,
		EntityID:       entry.EntityID,
		Description:    entry.Description,
		AdditionalData: entry.Data,
		Result:         &stored,
	})
	if err != nil {
		s.cfg.Logger.Error("audit write failed", err,
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"project_id", entry.ProjectID,
		)
		return nil, err
	}
	if stored.ID == uuid.Nil {
		s.cfg.Logger.Debug("audit entry without project skipped", "action", entry.Action, "entity_id", entry.EntityID)
		return nil, nil
	}
	return &stored, nil
}

func buildRepositories(cfg Config) (Repositories, error) {
	var (
		repos Repositories
		errs  []error
	)
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	var err error
	repos.Projects, err = project.NewRepository(project.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator})
	collect(err)
	repos.Tasks, err = task.NewRepository(task.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator})
	collect(err)
	repos.RFIs, err = rfi.NewRepository(rfi.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator})
	collect(err)
	repos.Submittals, err = submittal.NewRepository(submittal.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator})
	collect(err)
	repos.ChangeOrders, err = changeorder.NewRepository(changeorder.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator})
	collect(err)
	repos.Documents, err = document.NewRepository(document.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator})
	collect(err)
	repos.Clients, err = client.NewRepository(client.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator})
	collect(err)
	repos.Users, err = user.NewRepository(user.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator})
	collect(err)
	repos.Activity, err = activity.NewRepository(activity.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator, Masker: cfg.Masker})
	collect(err)
	repos.UserActivity, err = useractivity.NewRepository(useractivity.RepositoryConfig{DB: cfg.DB, Clock: cfg.Clock, IDGen: cfg.IDGenerator})
	collect(err)
	if len(errs) > 0 {
		return Repositories{}, errors.Join(errs...)
	}
	return repos, nil
}

func (s *Service) buildCommands() Commands {
	activityCfg := command.ActivityCommandConfig{
		Repository: s.repos.Activity,
		Hooks:      s.cfg.Hooks,
		Clock:      s.cfg.Clock,
		Logger:     s.cfg.Logger,
	}
	readCfg := command.ReadTrackingCommandConfig{
		Repository: s.repos.UserActivity,
		Hooks:      s.cfg.Hooks,
		Clock:      s.cfg.Clock,
	}
	return Commands{
		LogActivity:        command.NewActivityLogCommand(activityCfg),
		PruneActivity:      command.NewActivityPruneCommand(activityCfg),
		RecordSectionVisit: command.NewRecordSectionVisitCommand(readCfg),
		MarkItemRead:       command.NewMarkItemReadCommand(readCfg),
		ClearReadItems:     command.NewClearReadItemsCommand(readCfg),
		ClearSectionVisits: command.NewClearSectionVisitsCommand(readCfg),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		ActivityFeed:            query.NewActivityFeedQuery(s.repos.Activity),
		ActivitySummaryByUser:   query.NewActivitySummaryByUserQuery(s.repos.Activity),
		ActivitySummaryByAction: query.NewActivitySummaryByActionQuery(s.repos.Activity),
		ReadState:               query.NewReadStateQuery(s.repos.UserActivity),
	}
}

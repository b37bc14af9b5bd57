package activity

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-masker"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

const defaultRecentLimit = 50

// RepositoryConfig wires the bun-backed audit repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*LogEntry]
	Clock      types.Clock
	IDGen      types.IDGenerator
	// Masker scrubs credential keys from additional_data. Defaults to
	// DefaultMasker.
	Masker *masker.Masker
}

// Repository appends and reads audit entries. It deliberately exposes no
// update operation.
type Repository struct {
	base   *store.Repository[*LogEntry, noPatch]
	db     *bun.DB
	clock  types.Clock
	masker *masker.Masker
}

// NewRepository constructs the audit repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*LogEntry, noPatch](store.Config[*LogEntry]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *LogEntry { return &LogEntry{} },
		Columns:    columns,
		Clock:      cfg.Clock,
		IDGen:      cfg.IDGen,
		Prepare: func(entry *LogEntry) {
			if entry.AdditionalData == nil {
				entry.AdditionalData = map[string]any{}
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return &Repository{
		base:   base,
		db:     cfg.DB,
		clock:  base.Clock(),
		masker: cfg.Masker,
	}, nil
}

// LogActivity persists one entry immediately. An entry without a project is
// silently dropped and reported as nil, so callers can forward a possibly
// empty project reference without branching.
func (r *Repository) LogActivity(ctx context.Context, in LogInput) (*LogEntry, error) {
	if in.ProjectID == uuid.Nil {
		return nil, nil
	}
	action := strings.TrimSpace(in.Action)
	if action == "" {
		return nil, types.ErrActionRequired
	}
	timestamp := strings.TrimSpace(in.Timestamp)
	if timestamp == "" {
		timestamp = types.FormatTimestamp(r.clock.Now())
	}
	data, err := SanitizeData(r.masker, in.AdditionalData)
	if err != nil {
		return nil, types.OperationFailed(err, "activity: %s entry not written", action)
	}
	entry := &LogEntry{
		ProjectID:      in.ProjectID,
		UserID:         in.UserID,
		UserName:       strings.TrimSpace(in.UserName),
		Action:         action,
		EntityType:     strings.TrimSpace(in.EntityType),
		EntityID:       strings.TrimSpace(in.EntityID),
		Description:    in.Description,
		Timestamp:      timestamp,
		AdditionalData: data,
	}
	return r.base.Create(ctx, entry, in.UserID)
}

// GetByID returns the entry or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*LogEntry, error) {
	return r.base.GetByID(ctx, id)
}

// Count returns the number of stored entries matching filter.
func (r *Repository) Count(ctx context.Context, filter Filter) (int, error) {
	return r.base.Count(ctx, filter.criteria()...)
}

// List returns entries matching filter, newest timestamp first.
func (r *Repository) List(ctx context.Context, filter Filter, page types.Pagination) ([]*LogEntry, error) {
	criteria := append(filter.criteria(), store.OrderDesc("timestamp"))
	return r.base.Find(ctx, page, criteria...)
}

func (r *Repository) ByProject(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*LogEntry, error) {
	return r.List(ctx, Filter{ProjectID: projectID}, page)
}

// ByUser lists a user's entries, optionally within one project.
func (r *Repository) ByUser(ctx context.Context, userID, projectID uuid.UUID, page types.Pagination) ([]*LogEntry, error) {
	return r.List(ctx, Filter{UserID: userID, ProjectID: projectID}, page)
}

func (r *Repository) ByAction(ctx context.Context, action string, projectID uuid.UUID, page types.Pagination) ([]*LogEntry, error) {
	return r.List(ctx, Filter{Action: action, ProjectID: projectID}, page)
}

func (r *Repository) ByEntityType(ctx context.Context, entityType string, projectID uuid.UUID, page types.Pagination) ([]*LogEntry, error) {
	return r.List(ctx, Filter{EntityType: entityType, ProjectID: projectID}, page)
}

// ByEntity lists the history of a single record.
func (r *Repository) ByEntity(ctx context.Context, entityID string, page types.Pagination) ([]*LogEntry, error) {
	return r.List(ctx, Filter{EntityID: entityID}, page)
}

// ByDateRange bounds the timestamp inclusively by string comparison.
func (r *Repository) ByDateRange(ctx context.Context, dates types.DateRange, projectID uuid.UUID, page types.Pagination) ([]*LogEntry, error) {
	return r.List(ctx, Filter{From: dates.From, To: dates.To, ProjectID: projectID}, page)
}

// Recent returns the latest entries, optionally within one project.
func (r *Repository) Recent(ctx context.Context, projectID uuid.UUID, limit int) ([]*LogEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return r.List(ctx, Filter{ProjectID: projectID}, types.Pagination{Limit: limit})
}

// SummaryByUser counts a project's entries per user. Only users with at
// least one entry appear.
func (r *Repository) SummaryByUser(ctx context.Context, projectID uuid.UUID, dates types.DateRange) (map[uuid.UUID]UserSummary, error) {
	type row struct {
		UserID   uuid.UUID      `bun:"user_id"`
		UserName sql.NullString `bun:"user_name"`
		Total    int            `bun:"total"`
	}
	var rows []row
	q := r.db.NewSelect().Model((*LogEntry)(nil)).
		Column("user_id", "user_name").
		ColumnExpr("COUNT(*) AS total").
		Group("user_id", "user_name")
	for _, c := range (Filter{ProjectID: projectID, From: dates.From, To: dates.To}).summaryCriteria() {
		q = c(q)
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]UserSummary, len(rows))
	for _, rec := range rows {
		summary := out[rec.UserID]
		summary.Count += rec.Total
		if summary.Name == "" {
			summary.Name = rec.UserName.String
		}
		out[rec.UserID] = summary
	}
	return out, nil
}

// SummaryByAction counts a project's entries per action tag. Only actions
// recorded at least once appear.
func (r *Repository) SummaryByAction(ctx context.Context, projectID uuid.UUID, dates types.DateRange) (map[string]int, error) {
	return r.base.CountBy(ctx, "action", Filter{ProjectID: projectID, From: dates.From, To: dates.To}.summaryCriteria()...)
}

// DeleteOldLogs prunes entries whose timestamp is older than daysToKeep days,
// optionally within one project, and returns how many rows were removed. The
// rows are counted inside the same transaction before the delete runs.
func (r *Repository) DeleteOldLogs(ctx context.Context, daysToKeep int, projectID uuid.UUID) (int, error) {
	if daysToKeep < 0 {
		return 0, types.InvalidArgument("activity: days to keep must not be negative, got %d", daysToKeep)
	}
	cutoff := types.FormatTimestamp(r.clock.Now().Add(-time.Duration(daysToKeep) * 24 * time.Hour))

	var deleted int
	err := r.base.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		sel := tx.NewSelect().Model((*LogEntry)(nil)).Where("? < ?", bun.Ident("timestamp"), cutoff)
		del := tx.NewDelete().Model((*LogEntry)(nil)).Where("? < ?", bun.Ident("timestamp"), cutoff)
		if projectID != uuid.Nil {
			sel = sel.Where("project_id = ?", projectID)
			del = del.Where("project_id = ?", projectID)
		}
		count, err := sel.Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		if _, err := del.Exec(ctx); err != nil {
			return err
		}
		deleted = count
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (f Filter) criteria() store.Criteria {
	var c store.Criteria
	if f.ProjectID != uuid.Nil {
		c.Add(store.Eq("project_id", f.ProjectID))
	}
	if f.UserID != uuid.Nil {
		c.Add(store.Eq("user_id", f.UserID))
	}
	if f.Action != "" {
		c.Add(store.Eq("action", f.Action))
	}
	if f.EntityType != "" {
		c.Add(store.Eq("entity_type", f.EntityType))
	}
	if f.EntityID != "" {
		c.Add(store.Eq("entity_id", f.EntityID))
	}
	c.Add(store.Between("timestamp", types.DateRange{From: f.From, To: f.To}))
	return c
}

// summaryCriteria scopes aggregates to exactly one project; an empty project
// matches nothing rather than every project.
func (f Filter) summaryCriteria() store.Criteria {
	c := store.Criteria{store.Eq("project_id", f.ProjectID)}
	c.Add(store.Between("timestamp", types.DateRange{From: f.From, To: f.To}))
	return c
}

package useractivity

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

// RepositoryConfig wires the bun-backed read-tracking repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*UserActivity]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository maintains one UserActivity per (user, project).
//
// Mutations reload the record before writing, inside one transaction, so
// serialized writers never drop each other's read_items keys. Concurrent
// MarkItemRead calls for the same pair still race under read committed
// isolation: both may load the same map and the later commit wins for the
// whole column. Get-or-create relies on the uq_user_activity_user_project
// constraint so racing first touches converge on one row.
type Repository struct {
	base *store.Repository[*UserActivity, noPatch]
}

// NewRepository constructs the read-tracking repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*UserActivity, noPatch](store.Config[*UserActivity]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *UserActivity { return &UserActivity{} },
		Columns:    columns,
		Clock:      cfg.Clock,
		IDGen:      cfg.IDGen,
		Prepare: func(rec *UserActivity) {
			if rec.ReadItems == nil {
				rec.ReadItems = map[string]string{}
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return &Repository{base: base}, nil
}

// GetByUserAndProject returns the record for the pair, or nil. It never
// creates one.
func (r *Repository) GetByUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (*UserActivity, error) {
	if userID == uuid.Nil || projectID == uuid.Nil {
		return nil, nil
	}
	return r.base.FindOne(ctx, byPair(userID, projectID)...)
}

// GetOrCreate returns the record for the pair, inserting an empty one on the
// first call. A concurrent insert of the same pair is absorbed by the
// unique constraint and the winner's row is returned.
func (r *Repository) GetOrCreate(ctx context.Context, userID, projectID uuid.UUID) (*UserActivity, error) {
	if err := requirePair(userID, projectID); err != nil {
		return nil, err
	}
	rec, err := r.GetByUserAndProject(ctx, userID, projectID)
	if err != nil || rec != nil {
		return rec, err
	}

	rec = &UserActivity{UserID: userID, ProjectID: projectID}
	r.base.Stamp(rec, userID)
	db := r.base.DB()
	_, err = db.NewInsert().
		Model(rec).
		On("CONFLICT (user_id, project_id) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return nil, repository.MapDatabaseError(err, repository.DetectDriver(db))
	}

	rec, err = r.GetByUserAndProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, types.OperationFailed(nil, "useractivity: record for user %s project %s vanished after insert", userID, projectID)
	}
	return rec, nil
}

// UpdateSectionVisit records a visit to section. A nil at uses the current
// time. Unknown sections are rejected before anything is written.
func (r *Repository) UpdateSectionVisit(ctx context.Context, userID, projectID uuid.UUID, section string, at *time.Time) (*UserActivity, error) {
	section = strings.TrimSpace(section)
	column, ok := sectionColumns[section]
	if !ok {
		return nil, types.InvalidArgument("useractivity: unknown section %q", section)
	}
	visited := r.now(at)
	return r.mutate(ctx, userID, projectID, func(rec *UserActivity) []string {
		*rec.visitField(section) = &visited
		return []string{column}
	})
}

// MarkItemRead stamps read_items["{entityType}_{entityID}"]. A nil at uses
// the current time.
func (r *Repository) MarkItemRead(ctx context.Context, userID, projectID uuid.UUID, entityType, entityID string, at *time.Time) (*UserActivity, error) {
	entityType = strings.TrimSpace(entityType)
	entityID = strings.TrimSpace(entityID)
	if entityType == "" || entityID == "" {
		return nil, types.InvalidArgument("useractivity: entity type and id are required")
	}
	readAt := types.FormatTimestamp(r.now(at))
	key := ItemKey(entityType, entityID)
	return r.mutate(ctx, userID, projectID, func(rec *UserActivity) []string {
		items := make(map[string]string, len(rec.ReadItems)+1)
		for k, v := range rec.ReadItems {
			items[k] = v
		}
		items[key] = readAt
		rec.ReadItems = items
		return []string{"read_items"}
	})
}

// ClearReadItems replaces the whole read map with an empty one.
func (r *Repository) ClearReadItems(ctx context.Context, userID, projectID uuid.UUID) (*UserActivity, error) {
	return r.mutate(ctx, userID, projectID, func(rec *UserActivity) []string {
		rec.ReadItems = map[string]string{}
		return []string{"read_items"}
	})
}

// ClearSectionVisits nulls every visit column in one update.
func (r *Repository) ClearSectionVisits(ctx context.Context, userID, projectID uuid.UUID) (*UserActivity, error) {
	return r.mutate(ctx, userID, projectID, func(rec *UserActivity) []string {
		cols := make([]string, 0, len(sections))
		for _, section := range sections {
			*rec.visitField(section) = nil
			cols = append(cols, sectionColumns[section])
		}
		return cols
	})
}

// Count returns how many records exist for the pair. It is zero or one.
func (r *Repository) Count(ctx context.Context, userID, projectID uuid.UUID) (int, error) {
	return r.base.Count(ctx, byPair(userID, projectID)...)
}

// mutate materializes the pair, then reloads and writes the columns change
// reports within one transaction.
func (r *Repository) mutate(ctx context.Context, userID, projectID uuid.UUID, change func(*UserActivity) []string) (*UserActivity, error) {
	current, err := r.GetOrCreate(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	var out *UserActivity
	err = r.base.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		rec := &UserActivity{}
		if err := tx.NewSelect().Model(rec).Where("id = ?", current.ID).Limit(1).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.OperationFailed(err, "useractivity: record %s no longer exists", current.ID)
			}
			return err
		}
		cols := change(rec)
		saved, err := r.base.SaveColumns(ctx, tx, rec, userID, cols...)
		if err != nil {
			return err
		}
		out = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) now(at *time.Time) time.Time {
	if at != nil && !at.IsZero() {
		return at.UTC()
	}
	return r.base.Clock().Now().UTC()
}

func requirePair(userID, projectID uuid.UUID) error {
	if userID == uuid.Nil {
		return types.ErrUserIDRequired
	}
	if projectID == uuid.Nil {
		return types.ErrProjectIDRequired
	}
	return nil
}

func byPair(userID, projectID uuid.UUID) store.Criteria {
	return store.Criteria{
		store.Eq("user_id", userID),
		store.Eq("project_id", projectID),
	}
}

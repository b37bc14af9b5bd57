package store

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

var baseColumns = []string{"id", "created_at", "updated_at", "created_by", "updated_by"}

// Config wires a generic repository for one entity kind.
type Config[T Entity] struct {
	DB *bun.DB
	// Repository overrides the go-repository-bun store built from DB.
	Repository repository.Repository[T]
	NewRecord  func() T
	// Columns lists the entity specific columns accepted by GetByField and
	// FilterBy. The base columns are always accepted.
	Columns []string
	Clock   types.Clock
	IDGen   types.IDGenerator
	// Prepare runs on every record before it is inserted, usually to fill
	// column defaults.
	Prepare func(T)
}

// Repository provides the uniform CRUD contract shared by every entity kind.
// T is the record pointer type, P its partial update type.
type Repository[T Entity, P Patch[T]] struct {
	store     repository.Repository[T]
	db        *bun.DB
	newRecord func() T
	columns   map[string]struct{}
	clock     types.Clock
	idGen     types.IDGenerator
	prepare   func(T)
}

// New constructs a generic repository.
func New[T Entity, P Patch[T]](cfg Config[T]) (*Repository[T, P], error) {
	if cfg.DB == nil {
		return nil, types.ErrMissingDB
	}
	if cfg.NewRecord == nil {
		return nil, errors.New("store: record constructor required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[T]{
			NewRecord: cfg.NewRecord,
			GetID: func(rec T) uuid.UUID {
				if isNil(rec) {
					return uuid.Nil
				}
				return rec.Meta().ID
			},
			SetID: func(rec T, id uuid.UUID) {
				if !isNil(rec) {
					rec.Meta().ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	columns := make(map[string]struct{}, len(baseColumns)+len(cfg.Columns))
	for _, col := range baseColumns {
		columns[col] = struct{}{}
	}
	for _, col := range cfg.Columns {
		columns[col] = struct{}{}
	}

	return &Repository[T, P]{
		store:     repo,
		db:        cfg.DB,
		newRecord: cfg.NewRecord,
		columns:   columns,
		clock:     clock,
		idGen:     idGen,
		prepare:   cfg.Prepare,
	}, nil
}

// DB exposes the bun handle for entity specific queries.
func (r *Repository[T, P]) DB() *bun.DB { return r.db }

// Clock exposes the clock used for metadata stamping.
func (r *Repository[T, P]) Clock() types.Clock { return r.clock }

// GetAll returns up to page.Limit records after skipping page.Offset, in
// storage order.
func (r *Repository[T, P]) GetAll(ctx context.Context, page types.Pagination) ([]T, error) {
	return r.Find(ctx, page)
}

// GetByID returns the record or nil when it does not exist.
func (r *Repository[T, P]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	if id == uuid.Nil {
		return zero, nil
	}
	rec, err := r.store.GetByID(ctx, id.String())
	if err != nil {
		if isMiss(err) {
			return zero, nil
		}
		return zero, err
	}
	return rec, nil
}

// Create stamps the creator metadata and persists the record. A nil
// createdBy leaves both principal columns NULL.
func (r *Repository[T, P]) Create(ctx context.Context, record T, createdBy uuid.UUID) (T, error) {
	if isNil(record) {
		var zero T
		return zero, errors.New("store: record required")
	}
	r.stampCreate(record, createdBy)
	return r.store.Create(ctx, record)
}

// Update applies patch to the stored record. It returns nil when the record
// does not exist and an OperationFailed error when the record vanished
// between the load and the write.
func (r *Repository[T, P]) Update(ctx context.Context, id uuid.UUID, patch P, updatedBy uuid.UUID) (T, error) {
	var zero T
	rec, err := r.GetByID(ctx, id)
	if err != nil || isNil(rec) {
		return zero, err
	}
	patch.Apply(rec)
	return r.Save(ctx, rec, updatedBy)
}

// Save writes every column of an already loaded record and returns the
// refreshed row.
func (r *Repository[T, P]) Save(ctx context.Context, record T, updatedBy uuid.UUID) (T, error) {
	var zero T
	meta := record.Meta()
	if updatedBy != uuid.Nil {
		meta.UpdatedBy = updatedBy
	}
	meta.UpdatedAt = r.clock.Now()

	res, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx)
	if err != nil {
		return zero, repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	if err := repository.SQLExpectedCount(res, 1); err != nil {
		return zero, types.OperationFailed(err, "store: record %s no longer exists", meta.ID)
	}
	refreshed, err := r.GetByID(ctx, meta.ID)
	if err != nil {
		return zero, err
	}
	if isNil(refreshed) {
		return zero, types.OperationFailed(nil, "store: record %s removed during update", meta.ID)
	}
	return refreshed, nil
}

// SaveColumns writes only the named columns of an already loaded record,
// plus the updater metadata, and returns the refreshed row.
func (r *Repository[T, P]) SaveColumns(ctx context.Context, db bun.IDB, record T, updatedBy uuid.UUID, columns ...string) (T, error) {
	var zero T
	if db == nil {
		db = r.db
	}
	meta := record.Meta()
	if updatedBy != uuid.Nil {
		meta.UpdatedBy = updatedBy
	}
	meta.UpdatedAt = r.clock.Now()

	cols := append(append([]string{}, columns...), "updated_at", "updated_by")
	res, err := db.NewUpdate().Model(record).Column(cols...).WherePK().Exec(ctx)
	if err != nil {
		return zero, repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	if err := repository.SQLExpectedCount(res, 1); err != nil {
		return zero, types.OperationFailed(err, "store: record %s no longer exists", meta.ID)
	}
	rec := r.newRecord()
	if err := db.NewSelect().Model(rec).Where("id = ?", meta.ID).Limit(1).Scan(ctx); err != nil {
		if isMiss(err) {
			return zero, types.OperationFailed(err, "store: record %s removed during update", meta.ID)
		}
		return zero, err
	}
	return rec, nil
}

// Delete removes the record. It reports false when nothing was removed,
// including a row deleted by another writer after the load, so deleting
// twice is not an error.
func (r *Repository[T, P]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	rec, err := r.GetByID(ctx, id)
	if err != nil || isNil(rec) {
		return false, err
	}
	res, err := r.db.NewDelete().Model(rec).WherePK().Exec(ctx)
	if err != nil {
		return false, repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return removed == 1, nil
}

// GetByField returns every record whose column equals value.
func (r *Repository[T, P]) GetByField(ctx context.Context, field string, value any) ([]T, error) {
	if !r.HasColumn(field) {
		return nil, types.InvalidArgument("store: unknown field %q", field)
	}
	return r.all(ctx, Eq(field, value))
}

// GetOneByField returns the first record whose column equals value, or nil.
func (r *Repository[T, P]) GetOneByField(ctx context.Context, field string, value any) (T, error) {
	if !r.HasColumn(field) {
		var zero T
		return zero, types.InvalidArgument("store: unknown field %q", field)
	}
	return r.FindOne(ctx, Eq(field, value))
}

// FilterBy ANDs equality conditions for every known column in fields.
// Unknown columns are ignored.
func (r *Repository[T, P]) FilterBy(ctx context.Context, fields map[string]any) ([]T, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if r.HasColumn(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	criteria := make([]repository.SelectCriteria, 0, len(keys))
	for _, key := range keys {
		criteria = append(criteria, Eq(key, fields[key]))
	}
	return r.all(ctx, criteria...)
}

// all returns every matching row without a limit.
func (r *Repository[T, P]) all(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, error) {
	rows := []T{}
	q := apply(r.db.NewSelect().Model(&rows), criteria)
	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of stored records.
func (r *Repository[T, P]) Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error) {
	q := r.db.NewSelect().Model(r.newRecord())
	q = apply(q, criteria)
	return q.Count(ctx)
}

// Exists reports whether a record with id is stored.
func (r *Repository[T, P]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.db.NewSelect().Model(r.newRecord()).Where("id = ?", id).Exists(ctx)
}

// GetRecent returns the most recently created records first.
func (r *Repository[T, P]) GetRecent(ctx context.Context, limit int) ([]T, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.Find(ctx, types.Pagination{Limit: limit}, OrderDesc("created_at"))
}

// BulkCreate persists every record in one transaction, stamping all of them
// with the same principal. Either all rows are stored or none.
func (r *Repository[T, P]) BulkCreate(ctx context.Context, records []T, createdBy uuid.UUID) ([]T, error) {
	if len(records) == 0 {
		return []T{}, nil
	}
	for _, rec := range records {
		if isNil(rec) {
			return nil, errors.New("store: bulk create received a nil record")
		}
		r.stampCreate(rec, createdBy)
	}
	err := r.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&records).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, repository.MapDatabaseError(err, repository.DetectDriver(r.db))
	}
	return records, nil
}

// Find lists records matching every criteria, paginated.
func (r *Repository[T, P]) Find(ctx context.Context, page types.Pagination, criteria ...repository.SelectCriteria) ([]T, error) {
	page = types.NormalizePagination(page, defaultLimit, maxLimit)
	criteria = append(criteria, Paginate(page))
	rows, _, err := r.store.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// FindOne returns the first record matching every criteria, or nil.
func (r *Repository[T, P]) FindOne(ctx context.Context, criteria ...repository.SelectCriteria) (T, error) {
	var zero T
	criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(1)
	})
	rec, err := r.store.Get(ctx, criteria...)
	if err != nil {
		if isMiss(err) {
			return zero, nil
		}
		return zero, err
	}
	return rec, nil
}

// Sum adds up a numeric column over the matching rows. Zero rows yield 0.
func (r *Repository[T, P]) Sum(ctx context.Context, column string, criteria ...repository.SelectCriteria) (float64, error) {
	var total sql.NullFloat64
	q := r.db.NewSelect().Model(r.newRecord()).
		ColumnExpr("COALESCE(SUM(?), 0.0)", bun.Ident(column))
	q = apply(q, criteria)
	if err := q.Scan(ctx, &total); err != nil {
		return 0, err
	}
	return total.Float64, nil
}

// SumInt adds up an integer column over the matching rows. Zero rows yield 0.
func (r *Repository[T, P]) SumInt(ctx context.Context, column string, criteria ...repository.SelectCriteria) (int64, error) {
	var total sql.NullInt64
	q := r.db.NewSelect().Model(r.newRecord()).
		ColumnExpr("COALESCE(SUM(?), 0)", bun.Ident(column))
	q = apply(q, criteria)
	if err := q.Scan(ctx, &total); err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// CountBy groups the matching rows by column. NULL groups are reported under
// the empty key. Only values present at least once appear in the result.
func (r *Repository[T, P]) CountBy(ctx context.Context, column string, criteria ...repository.SelectCriteria) (map[string]int, error) {
	type row struct {
		Key   sql.NullString `bun:"group_key"`
		Total int            `bun:"total"`
	}
	var rows []row
	q := r.db.NewSelect().Model(r.newRecord()).
		ColumnExpr("? AS group_key", bun.Ident(column)).
		ColumnExpr("COUNT(*) AS total").
		Group(column)
	q = apply(q, criteria)
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, rec := range rows {
		out[rec.Key.String] += rec.Total
	}
	return out, nil
}

// RunInTx scopes fn to a single transaction that is rolled back on error or
// panic and committed otherwise.
func (r *Repository[T, P]) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return r.db.RunInTx(ctx, nil, fn)
}

// HasColumn reports whether column may be used in equality lookups.
func (r *Repository[T, P]) HasColumn(column string) bool {
	_, ok := r.columns[column]
	return ok
}

// Stamp fills the creator metadata without persisting, for callers that
// insert through their own query.
func (r *Repository[T, P]) Stamp(record T, createdBy uuid.UUID) {
	r.stampCreate(record, createdBy)
}

func (r *Repository[T, P]) stampCreate(record T, by uuid.UUID) {
	if r.prepare != nil {
		r.prepare(record)
	}
	meta := record.Meta()
	if meta.ID == uuid.Nil {
		meta.ID = r.idGen.UUID()
	}
	now := r.clock.Now()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = meta.CreatedAt
	}
	meta.CreatedBy = by
	meta.UpdatedBy = by
}

func apply(q *bun.SelectQuery, criteria []repository.SelectCriteria) *bun.SelectQuery {
	for _, c := range criteria {
		if c != nil {
			q = c(q)
		}
	}
	return q
}

func isMiss(err error) bool {
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

func isNil[T any](v T) bool {
	var zero T
	return any(v) == any(zero)
}

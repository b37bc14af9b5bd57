package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-sitebook/pkg/types"
)

type widget struct {
	bun.BaseModel `bun:"table:widgets"`
	Base

	Title  string   `bun:"title,notnull"`
	Status string   `bun:"status,notnull"`
	Kind   *string  `bun:"kind"`
	Cost   *float64 `bun:"cost"`
	Units  *int64   `bun:"units"`
}

type widgetPatch struct {
	Title  *string
	Status *string
	Kind   *string
	Cost   *float64
}

func (p widgetPatch) Apply(w *widget) {
	Set(&w.Title, p.Title)
	Set(&w.Status, p.Status)
	SetPtr(&w.Kind, p.Kind)
	SetPtr(&w.Cost, p.Cost)
}

func newWidgetRepo(t *testing.T, clock types.Clock) *Repository[*widget, widgetPatch] {
	t.Helper()
	return newWidgetRepoWith(t, clock, nil)
}

// newWidgetRepoWith builds the widget repository, letting wrap decorate the
// go-repository-bun store before it is installed.
func newWidgetRepoWith(t *testing.T, clock types.Clock, wrap func(*bun.DB) repository.Repository[*widget]) *Repository[*widget, widgetPatch] {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE widgets (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    kind TEXT,
    cost REAL,
    units INTEGER,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_by TEXT,
    updated_by TEXT
)`)
	require.NoError(t, err)

	var override repository.Repository[*widget]
	if wrap != nil {
		override = wrap(db)
	}
	repo, err := New[*widget, widgetPatch](Config[*widget]{
		DB:         db,
		Repository: override,
		NewRecord:  func() *widget { return &widget{} },
		Columns:    []string{"title", "status", "kind", "cost", "units"},
		Clock:      clock,
	})
	require.NoError(t, err)
	return repo
}

func TestNewRequiresDB(t *testing.T) {
	_, err := New[*widget, widgetPatch](Config[*widget]{NewRecord: func() *widget { return &widget{} }})
	require.ErrorIs(t, err, types.ErrMissingDB)
}

func TestRepository_CreateStampsMetadata(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := newWidgetRepo(t, types.FixedClock{T: now})
	actor := uuid.New()

	created, err := repo.Create(ctx, &widget{Title: "A", Status: "open"}, actor)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, actor, created.CreatedBy)
	require.Equal(t, actor, created.UpdatedBy)

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "A", loaded.Title)
	require.True(t, now.Equal(loaded.CreatedAt))

	anon, err := repo.Create(ctx, &widget{Title: "B", Status: "open"}, uuid.Nil)
	require.NoError(t, err)
	loaded, err = repo.GetByID(ctx, anon.ID)
	require.NoError(t, err)
	require.Equal(t, uuid.Nil, loaded.CreatedBy)
	require.Equal(t, uuid.Nil, loaded.UpdatedBy)
}

func TestRepository_GetByIDMissReturnsNil(t *testing.T) {
	repo := newWidgetRepo(t, nil)
	rec, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestRepository_PartialUpdatePreservesUntouchedFields(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := newWidgetRepo(t, clock)
	created, err := repo.Create(ctx, &widget{Title: "A", Status: "open", Kind: types.String("steel")}, uuid.Nil)
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour)
	editor := uuid.New()
	updated, err := repo.Update(ctx, created.ID, widgetPatch{Status: types.String("closed")}, editor)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, "A", updated.Title)
	require.Equal(t, "closed", updated.Status)
	require.Equal(t, "steel", *updated.Kind)
	require.Equal(t, editor, updated.UpdatedBy)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestRepository_UpdateMissingReturnsNil(t *testing.T) {
	repo := newWidgetRepo(t, nil)
	rec, err := repo.Update(context.Background(), uuid.New(), widgetPatch{Title: types.String("x")}, uuid.Nil)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestRepository_SaveVanishedRecordIsOperationFailed(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepo(t, nil)
	created, err := repo.Create(ctx, &widget{Title: "A", Status: "open"}, uuid.Nil)
	require.NoError(t, err)

	_, err = repo.DB().NewDelete().Model((*widget)(nil)).Where("id = ?", created.ID).Exec(ctx)
	require.NoError(t, err)

	_, err = repo.Save(ctx, created, uuid.Nil)
	require.Error(t, err)
	require.True(t, types.IsOperationFailed(err))
}

func TestRepository_SaveColumnsWritesOnlyNamedColumns(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepo(t, nil)
	created, err := repo.Create(ctx, &widget{Title: "A", Status: "open"}, uuid.Nil)
	require.NoError(t, err)

	created.Title = "ignored"
	created.Status = "closed"
	saved, err := repo.SaveColumns(ctx, nil, created, uuid.Nil, "status")
	require.NoError(t, err)
	require.Equal(t, "A", saved.Title)
	require.Equal(t, "closed", saved.Status)

	_, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	_, err = repo.SaveColumns(ctx, nil, created, uuid.Nil, "status")
	require.True(t, types.IsOperationFailed(err))
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepo(t, nil)
	created, err := repo.Create(ctx, &widget{Title: "A", Status: "open"}, uuid.Nil)
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, ok)

	exists, err := repo.Exists(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

// vanishingStore deletes every row it loads by id, as if another writer
// removed it right after the read.
type vanishingStore struct {
	repository.Repository[*widget]
	db *bun.DB
}

func (s *vanishingStore) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*widget, error) {
	rec, err := s.Repository.GetByID(ctx, id, criteria...)
	if err != nil {
		return rec, err
	}
	if _, err := s.db.NewDelete().Model((*widget)(nil)).Where("id = ?", rec.ID).Exec(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func TestRepository_DeleteReportsFalseWhenRowVanished(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepoWith(t, nil, func(db *bun.DB) repository.Repository[*widget] {
		return &vanishingStore{Repository: widgetStore(db), db: db}
	})
	created, err := repo.Create(ctx, &widget{Title: "A", Status: "open"}, uuid.Nil)
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, removed)

	exists, err := repo.Exists(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRepository_FieldQueriesReturnEveryMatch(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepo(t, nil)
	const total = 30
	for i := 0; i < total; i++ {
		_, err := repo.Create(ctx, &widget{Title: "same", Status: "open"}, uuid.Nil)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &widget{Title: "same", Status: "closed"}, uuid.Nil)
	require.NoError(t, err)

	open, err := repo.GetByField(ctx, "status", "open")
	require.NoError(t, err)
	require.Len(t, open, total)

	filtered, err := repo.FilterBy(ctx, map[string]any{"status": "open", "title": "same"})
	require.NoError(t, err)
	require.Len(t, filtered, total)

	none, err := repo.GetByField(ctx, "status", "archived")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func widgetStore(db *bun.DB) repository.Repository[*widget] {
	return repository.NewRepository(db, repository.ModelHandlers[*widget]{
		NewRecord: func() *widget { return &widget{} },
		GetID: func(w *widget) uuid.UUID {
			if w == nil {
				return uuid.Nil
			}
			return w.ID
		},
		SetID: func(w *widget, id uuid.UUID) {
			if w != nil {
				w.ID = id
			}
		},
	})
}

func TestRepository_FieldQueries(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepo(t, nil)
	for _, w := range []*widget{
		{Title: "A", Status: "open"},
		{Title: "B", Status: "open"},
		{Title: "C", Status: "closed"},
	} {
		_, err := repo.Create(ctx, w, uuid.Nil)
		require.NoError(t, err)
	}

	open, err := repo.GetByField(ctx, "status", "open")
	require.NoError(t, err)
	require.Len(t, open, 2)

	one, err := repo.GetOneByField(ctx, "title", "C")
	require.NoError(t, err)
	require.NotNil(t, one)
	require.Equal(t, "closed", one.Status)

	none, err := repo.GetOneByField(ctx, "title", "Z")
	require.NoError(t, err)
	require.Nil(t, none)

	_, err = repo.GetByField(ctx, "bogus", 1)
	require.True(t, types.IsInvalidArgument(err))

	filtered, err := repo.FilterBy(ctx, map[string]any{"status": "open", "title": "B", "ignored": "x"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "B", filtered[0].Title)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestRepository_GetAllPaginates(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepo(t, nil)
	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, &widget{Title: fmt.Sprintf("w%d", i), Status: "open"}, uuid.Nil)
		require.NoError(t, err)
	}
	page, err := repo.GetAll(ctx, types.Page(3, 10))
	require.NoError(t, err)
	require.Len(t, page, 2)

	page, err = repo.GetAll(ctx, types.Page(0, 2))
	require.NoError(t, err)
	require.Len(t, page, 2)
}

func TestRepository_GetRecentOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo := newWidgetRepo(t, clock)
	for _, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, &widget{Title: title, Status: "open"}, uuid.Nil)
		require.NoError(t, err)
		clock.t = clock.t.Add(time.Minute)
	}
	recent, err := repo.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "third", recent[0].Title)
	require.Equal(t, "second", recent[1].Title)
}

func TestRepository_BulkCreateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepo(t, nil)
	actor := uuid.New()

	rows, err := repo.BulkCreate(ctx, []*widget{
		{Title: "A", Status: "open"},
		{Title: "B", Status: "open"},
	}, actor)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Equal(t, actor, row.CreatedBy)
	}

	dup := uuid.New()
	_, err = repo.BulkCreate(ctx, []*widget{
		{Base: Base{ID: dup}, Title: "C", Status: "open"},
		{Base: Base{ID: dup}, Title: "D", Status: "open"},
	}, actor)
	require.Error(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	empty, err := repo.BulkCreate(ctx, nil, actor)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestRepository_AggregatesOnEmptySet(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepo(t, nil)

	total, err := repo.Sum(ctx, "cost", Eq("status", "missing"))
	require.NoError(t, err)
	require.Equal(t, 0.0, total)

	units, err := repo.SumInt(ctx, "units")
	require.NoError(t, err)
	require.Equal(t, int64(0), units)

	groups, err := repo.CountBy(ctx, "status")
	require.NoError(t, err)
	require.Empty(t, groups)
}

func TestRepository_AggregatesAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := newWidgetRepo(t, nil)
	for _, w := range []*widget{
		{Title: "Steel Beam", Status: "open", Cost: types.Float(10.5), Units: types.Int64(2)},
		{Title: "Concrete", Status: "open", Cost: types.Float(4.5), Units: types.Int64(3)},
		{Title: "steel plate", Status: "closed", Kind: types.String("metal")},
	} {
		_, err := repo.Create(ctx, w, uuid.Nil)
		require.NoError(t, err)
	}

	total, err := repo.Sum(ctx, "cost")
	require.NoError(t, err)
	require.InDelta(t, 15.0, total, 0.0001)

	units, err := repo.SumInt(ctx, "units", Eq("status", "open"))
	require.NoError(t, err)
	require.Equal(t, int64(5), units)

	groups, err := repo.CountBy(ctx, "status")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"open": 2, "closed": 1}, groups)

	kinds, err := repo.CountBy(ctx, "kind")
	require.NoError(t, err)
	require.Equal(t, map[string]int{"": 2, "metal": 1}, kinds)

	found, err := repo.Find(ctx, types.Pagination{}, Search("STEEL", "title", "kind"))
	require.NoError(t, err)
	require.Len(t, found, 2)

	ranged, err := repo.Find(ctx, types.Pagination{}, FloatBetween("cost", types.FloatRange{Min: types.Float(5)}))
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	require.Equal(t, "Steel Beam", ranged[0].Title)
}

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time { return c.t }

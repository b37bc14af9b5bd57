package document

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

// RepositoryConfig wires the bun-backed document repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Document]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository adds document queries and storage rollups to the generic store.
type Repository struct {
	*store.Repository[*Document, Patch]
}

// NewRepository constructs the document repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*Document, Patch](store.Config[*Document]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *Document { return &Document{} },
		Columns:    columns,
		Clock:      cfg.Clock,
		IDGen:      cfg.IDGen,
	})
	if err != nil {
		return nil, err
	}
	return &Repository{Repository: base}, nil
}

// Filter narrows document listings. Every set field is ANDed.
type Filter struct {
	ProjectID      uuid.UUID
	Type           string
	Category       string
	LinkedEntityID uuid.UUID
	UploadedBy     uuid.UUID
	Search         string
	// Uploaded bounds uploaded_date inclusively.
	Uploaded types.DateRange
	Size     types.IntRange
}

func (f Filter) criteria() store.Criteria {
	var c store.Criteria
	if f.ProjectID != uuid.Nil {
		c.Add(store.Eq("project_id", f.ProjectID))
	}
	if f.Type != "" {
		c.Add(store.Eq("type", f.Type))
	}
	if f.Category != "" {
		c.Add(store.Eq("category", f.Category))
	}
	if f.LinkedEntityID != uuid.Nil {
		c.Add(store.Eq("linked_entity_id", f.LinkedEntityID))
	}
	if f.UploadedBy != uuid.Nil {
		c.Add(store.Eq("uploaded_by", f.UploadedBy))
	}
	c.Add(
		store.Search(f.Search, "name"),
		store.Between("uploaded_date", f.Uploaded),
		store.IntBetween("size", f.Size),
	)
	return c
}

// Find lists documents matching filter.
func (r *Repository) Find(ctx context.Context, filter Filter, page types.Pagination) ([]*Document, error) {
	return r.Repository.Find(ctx, page, filter.criteria()...)
}

func (r *Repository) ByProject(ctx context.Context, projectID uuid.UUID, page types.Pagination) ([]*Document, error) {
	return r.Find(ctx, Filter{ProjectID: projectID}, page)
}

func (r *Repository) ByType(ctx context.Context, docType string, projectID uuid.UUID, page types.Pagination) ([]*Document, error) {
	return r.Find(ctx, Filter{Type: docType, ProjectID: projectID}, page)
}

func (r *Repository) ByCategory(ctx context.Context, category string, projectID uuid.UUID, page types.Pagination) ([]*Document, error) {
	return r.Find(ctx, Filter{Category: category, ProjectID: projectID}, page)
}

// ByLinkedEntity lists documents attached to a task, RFI or other record.
func (r *Repository) ByLinkedEntity(ctx context.Context, entityID uuid.UUID, page types.Pagination) ([]*Document, error) {
	return r.Find(ctx, Filter{LinkedEntityID: entityID}, page)
}

func (r *Repository) ByUploadedBy(ctx context.Context, userID, projectID uuid.UUID, page types.Pagination) ([]*Document, error) {
	return r.Find(ctx, Filter{UploadedBy: userID, ProjectID: projectID}, page)
}

// Search matches the document name, ignoring case.
func (r *Repository) Search(ctx context.Context, term string, projectID uuid.UUID, page types.Pagination) ([]*Document, error) {
	return r.Find(ctx, Filter{Search: term, ProjectID: projectID}, page)
}

func (r *Repository) ByDateRange(ctx context.Context, dates types.DateRange, projectID uuid.UUID, page types.Pagination) ([]*Document, error) {
	return r.Find(ctx, Filter{Uploaded: dates, ProjectID: projectID}, page)
}

// BySizeRange bounds the file size in bytes.
func (r *Repository) BySizeRange(ctx context.Context, size types.IntRange, projectID uuid.UUID, page types.Pagination) ([]*Document, error) {
	return r.Find(ctx, Filter{Size: size, ProjectID: projectID}, page)
}

// TotalStorageByProject sums document sizes in bytes; 0 when there are none.
func (r *Repository) TotalStorageByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return r.SumInt(ctx, "size", store.Eq("project_id", projectID))
}

// CountByType groups documents by type. Untyped documents count under "".
func (r *Repository) CountByType(ctx context.Context, projectID uuid.UUID) (map[string]int, error) {
	return r.CountBy(ctx, "type", Filter{ProjectID: projectID}.criteria()...)
}

// CountByCategory groups documents by category. Uncategorized documents
// count under "".
func (r *Repository) CountByCategory(ctx context.Context, projectID uuid.UUID) (map[string]int, error) {
	return r.CountBy(ctx, "category", Filter{ProjectID: projectID}.criteria()...)
}

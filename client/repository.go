package client

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

// RepositoryConfig wires the bun-backed client repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Client]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository adds client lookups to the generic store.
type Repository struct {
	*store.Repository[*Client, Patch]
}

// NewRepository constructs the client repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*Client, Patch](store.Config[*Client]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *Client { return &Client{} },
		Columns:    columns,
		Clock:      cfg.Clock,
		IDGen:      cfg.IDGen,
	})
	if err != nil {
		return nil, err
	}
	return &Repository{Repository: base}, nil
}

// ByEmail returns the first client with email, or nil.
func (r *Repository) ByEmail(ctx context.Context, email string) (*Client, error) {
	return r.FindOne(ctx, store.Eq("email", email))
}

// SearchByName matches the client name, ignoring case.
func (r *Repository) SearchByName(ctx context.Context, name string, page types.Pagination) ([]*Client, error) {
	return r.Repository.Find(ctx, page, store.Search(name, "name"))
}

package user

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/store"
)

// RepositoryConfig wires the bun-backed user repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*User]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// Repository adds account lookups and lifecycle toggles to the generic store.
type Repository struct {
	*store.Repository[*User, Patch]
}

// NewRepository constructs the user repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	base, err := store.New[*User, Patch](store.Config[*User]{
		DB:         cfg.DB,
		Repository: cfg.Repository,
		NewRecord:  func() *User { return &User{} },
		Columns:    columns,
		Clock:      cfg.Clock,
		IDGen:      cfg.IDGen,
		Prepare:    prepare,
	})
	if err != nil {
		return nil, err
	}
	return &Repository{Repository: base}, nil
}

// Filter narrows user listings. Every set field is ANDed.
type Filter struct {
	Roles  []string
	Active *bool
	Search string
}

func (f Filter) criteria() store.Criteria {
	var c store.Criteria
	if len(f.Roles) > 0 {
		c.Add(store.In("role", f.Roles))
	}
	if f.Active != nil {
		c.Add(store.Eq("active", *f.Active))
	}
	c.Add(store.Search(f.Search, "name", "email"))
	return c
}

// Find lists users matching filter.
func (r *Repository) Find(ctx context.Context, filter Filter, page types.Pagination) ([]*User, error) {
	return r.Repository.Find(ctx, page, filter.criteria()...)
}

// ByEmail returns the account registered under email, or nil.
func (r *Repository) ByEmail(ctx context.Context, email string) (*User, error) {
	return r.FindOne(ctx, store.Eq("email", strings.TrimSpace(email)))
}

// EmailExists reports whether email is already registered.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.DB().NewSelect().Model((*User)(nil)).
		Where("email = ?", strings.TrimSpace(email)).
		Exists(ctx)
}

func (r *Repository) ByRole(ctx context.Context, role string, page types.Pagination) ([]*User, error) {
	return r.Find(ctx, Filter{Roles: []string{role}}, page)
}

// ByRoles lists users holding any of roles.
func (r *Repository) ByRoles(ctx context.Context, roles []string, page types.Pagination) ([]*User, error) {
	if len(roles) == 0 {
		return []*User{}, nil
	}
	return r.Find(ctx, Filter{Roles: roles}, page)
}

func (r *Repository) Active(ctx context.Context, page types.Pagination) ([]*User, error) {
	return r.Find(ctx, Filter{Active: types.Bool(true)}, page)
}

func (r *Repository) Inactive(ctx context.Context, page types.Pagination) ([]*User, error) {
	return r.Find(ctx, Filter{Active: types.Bool(false)}, page)
}

// Search matches name or email, ignoring case.
func (r *Repository) Search(ctx context.Context, term string, page types.Pagination) ([]*User, error) {
	return r.Find(ctx, Filter{Search: term}, page)
}

// Activate enables the account. It returns nil when the user does not exist.
func (r *Repository) Activate(ctx context.Context, id, by uuid.UUID) (*User, error) {
	return r.setActive(ctx, id, by, true)
}

// Deactivate disables the account. It returns nil when the user does not
// exist.
func (r *Repository) Deactivate(ctx context.Context, id, by uuid.UUID) (*User, error) {
	return r.setActive(ctx, id, by, false)
}

// UpdatePasswordHash stores a new hash produced by the credential
// collaborator. It returns nil when the user does not exist.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string, by uuid.UUID) (*User, error) {
	if strings.TrimSpace(hash) == "" {
		return nil, types.InvalidArgument("user: password hash required")
	}
	rec, err := r.GetByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	rec.PasswordHash = hash
	return r.SaveColumns(ctx, nil, rec, by, "password_hash")
}

func (r *Repository) setActive(ctx context.Context, id, by uuid.UUID, active bool) (*User, error) {
	rec, err := r.GetByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	rec.Active = &active
	return r.SaveColumns(ctx, nil, rec, by, "active")
}

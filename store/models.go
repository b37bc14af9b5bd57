package store

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the columns shared by every persisted entity. Entities embed
// it by value so bun inlines the columns into the owning table.
type Base struct {
	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	CreatedBy uuid.UUID `bun:"created_by,type:uuid,nullzero" json:"created_by,omitempty"`
	UpdatedBy uuid.UUID `bun:"updated_by,type:uuid,nullzero" json:"updated_by,omitempty"`
}

// Meta exposes the shared columns to the generic repository.
func (b *Base) Meta() *Base { return b }

// Entity is satisfied by pointers to structs embedding Base.
type Entity interface {
	Meta() *Base
}

// Patch is a per-entity partial update. Apply copies every field the caller
// set onto the record and leaves the rest untouched. A nil field means
// "leave as is"; there is no way to clear a column to NULL through a patch.
type Patch[T any] interface {
	Apply(record T)
}

// Set copies *src into dst when src is non-nil. Patch implementations use it
// for every optional field.
func Set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

// SetPtr copies src into a nullable column when src is non-nil.
func SetPtr[V any](dst **V, src *V) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Default fills an empty string column with def.
func Default(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

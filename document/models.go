package document

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// Document categories.
const (
	CategoryDrawing       = "drawing"
	CategorySpecification = "specification"
	CategoryContract      = "contract"
	CategoryPhoto         = "photo"
	CategoryReport        = "report"
	CategoryOther         = "other"
)

// Document records metadata about a file stored elsewhere; only its URL is
// kept.
type Document struct {
	bun.BaseModel `bun:"table:documents"`
	store.Base

	Name           string    `bun:"name,notnull" json:"name"`
	Type           *string   `bun:"type" json:"type,omitempty"`
	Category       *string   `bun:"category" json:"category,omitempty"`
	URL            string    `bun:"url,notnull" json:"url"`
	ProjectID      uuid.UUID `bun:"project_id,type:uuid" json:"project_id"`
	LinkedEntityID uuid.UUID `bun:"linked_entity_id,type:uuid,nullzero" json:"linked_entity_id,omitempty"`
	UploadedBy     uuid.UUID `bun:"uploaded_by,type:uuid,nullzero" json:"uploaded_by,omitempty"`
	UploadedDate   *string   `bun:"uploaded_date" json:"uploaded_date,omitempty"`
	Size           *int64    `bun:"size" json:"size,omitempty"`
}

// Patch carries the optional fields accepted by Update.
type Patch struct {
	Name           *string
	Type           *string
	Category       *string
	URL            *string
	ProjectID      *uuid.UUID
	LinkedEntityID *uuid.UUID
	UploadedBy     *uuid.UUID
	UploadedDate   *string
	Size           *int64
}

// Apply copies every set field onto d.
func (p Patch) Apply(d *Document) {
	store.Set(&d.Name, p.Name)
	store.SetPtr(&d.Type, p.Type)
	store.SetPtr(&d.Category, p.Category)
	store.Set(&d.URL, p.URL)
	store.Set(&d.ProjectID, p.ProjectID)
	store.Set(&d.LinkedEntityID, p.LinkedEntityID)
	store.Set(&d.UploadedBy, p.UploadedBy)
	store.SetPtr(&d.UploadedDate, p.UploadedDate)
	store.SetPtr(&d.Size, p.Size)
}

var columns = []string{
	"name", "type", "category", "url", "project_id", "linked_entity_id",
	"uploaded_by", "uploaded_date", "size",
}

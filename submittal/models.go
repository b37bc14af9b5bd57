package submittal

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// Submittal statuses.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submittal models the persisted row in submittals.
type Submittal struct {
	bun.BaseModel `bun:"table:submittals"`
	store.Base

	Title         string    `bun:"title,notnull" json:"title"`
	Description   *string   `bun:"description" json:"description,omitempty"`
	Status        string    `bun:"status,notnull" json:"status"`
	ProjectID     uuid.UUID `bun:"project_id,type:uuid" json:"project_id"`
	SubmittedBy   uuid.UUID `bun:"submitted_by,type:uuid,nullzero" json:"submitted_by,omitempty"`
	SubmittedDate *string   `bun:"submitted_date" json:"submitted_date,omitempty"`
	ReviewedBy    uuid.UUID `bun:"reviewed_by,type:uuid,nullzero" json:"reviewed_by,omitempty"`
	ReviewedDate  *string   `bun:"reviewed_date" json:"reviewed_date,omitempty"`
}

// Patch carries the optional fields accepted by Update.
type Patch struct {
	Title         *string
	Description   *string
	Status        *string
	ProjectID     *uuid.UUID
	SubmittedBy   *uuid.UUID
	SubmittedDate *string
	ReviewedBy    *uuid.UUID
	ReviewedDate  *string
}

// Apply copies every set field onto s.
func (p Patch) Apply(s *Submittal) {
	store.Set(&s.Title, p.Title)
	store.SetPtr(&s.Description, p.Description)
	store.Set(&s.Status, p.Status)
	store.Set(&s.ProjectID, p.ProjectID)
	store.Set(&s.SubmittedBy, p.SubmittedBy)
	store.SetPtr(&s.SubmittedDate, p.SubmittedDate)
	store.Set(&s.ReviewedBy, p.ReviewedBy)
	store.SetPtr(&s.ReviewedDate, p.ReviewedDate)
}

var columns = []string{
	"title", "description", "status", "project_id", "submitted_by",
	"submitted_date", "reviewed_by", "reviewed_date",
}

func prepare(s *Submittal) {
	store.Default(&s.Status, StatusPending)
}

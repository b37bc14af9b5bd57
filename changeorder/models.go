package changeorder

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// Change order statuses.
const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusImplemented = "implemented"
)

// ChangeOrder models the persisted row in change_orders.
type ChangeOrder struct {
	bun.BaseModel `bun:"table:change_orders"`
	store.Base

	Title         string    `bun:"title,notnull" json:"title"`
	Description   *string   `bun:"description" json:"description,omitempty"`
	Status        string    `bun:"status,notnull" json:"status"`
	ProjectID     uuid.UUID `bun:"project_id,type:uuid" json:"project_id"`
	Cost          *float64  `bun:"cost" json:"cost,omitempty"`
	RequestedBy   uuid.UUID `bun:"requested_by,type:uuid,nullzero" json:"requested_by,omitempty"`
	RequestedDate *string   `bun:"requested_date" json:"requested_date,omitempty"`
	ApprovedBy    uuid.UUID `bun:"approved_by,type:uuid,nullzero" json:"approved_by,omitempty"`
	ApprovedDate  *string   `bun:"approved_date" json:"approved_date,omitempty"`
}

// Patch carries the optional fields accepted by Update.
type Patch struct {
	Title         *string
	Description   *string
	Status        *string
	ProjectID     *uuid.UUID
	Cost          *float64
	RequestedBy   *uuid.UUID
	RequestedDate *string
	ApprovedBy    *uuid.UUID
	ApprovedDate  *string
}

// Apply copies every set field onto co.
func (p Patch) Apply(co *ChangeOrder) {
	store.Set(&co.Title, p.Title)
	store.SetPtr(&co.Description, p.Description)
	store.Set(&co.Status, p.Status)
	store.Set(&co.ProjectID, p.ProjectID)
	store.SetPtr(&co.Cost, p.Cost)
	store.Set(&co.RequestedBy, p.RequestedBy)
	store.SetPtr(&co.RequestedDate, p.RequestedDate)
	store.Set(&co.ApprovedBy, p.ApprovedBy)
	store.SetPtr(&co.ApprovedDate, p.ApprovedDate)
}

var columns = []string{
	"title", "description", "status", "project_id", "cost", "requested_by",
	"requested_date", "approved_by", "approved_date",
}

func prepare(co *ChangeOrder) {
	store.Default(&co.Status, StatusPending)
}

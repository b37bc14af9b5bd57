package rfi

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// RFI priorities.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// RFI statuses.
const (
	StatusOpen     = "open"
	StatusPending  = "pending"
	StatusAnswered = "answered"
	StatusClosed   = "closed"
)

// RFI models a request for information in rfis.
type RFI struct {
	bun.BaseModel `bun:"table:rfis"`
	store.Base

	Title         string    `bun:"title,notnull" json:"title"`
	Description   *string   `bun:"description" json:"description,omitempty"`
	Priority      string    `bun:"priority,notnull" json:"priority"`
	Status        string    `bun:"status,notnull" json:"status"`
	ProjectID     uuid.UUID `bun:"project_id,type:uuid" json:"project_id"`
	SubmittedBy   uuid.UUID `bun:"submitted_by,type:uuid,nullzero" json:"submitted_by,omitempty"`
	SubmittedDate *string   `bun:"submitted_date" json:"submitted_date,omitempty"`
	AssignedTo    uuid.UUID `bun:"assigned_to,type:uuid,nullzero" json:"assigned_to,omitempty"`
	DueDate       *string   `bun:"due_date" json:"due_date,omitempty"`
	Response      *string   `bun:"response" json:"response,omitempty"`
}

// Patch carries the optional fields accepted by Update.
type Patch struct {
	Title         *string
	Description   *string
	Priority      *string
	Status        *string
	ProjectID     *uuid.UUID
	SubmittedBy   *uuid.UUID
	SubmittedDate *string
	AssignedTo    *uuid.UUID
	DueDate       *string
	Response      *string
}

// Apply copies every set field onto r.
func (p Patch) Apply(r *RFI) {
	store.Set(&r.Title, p.Title)
	store.SetPtr(&r.Description, p.Description)
	store.Set(&r.Priority, p.Priority)
	store.Set(&r.Status, p.Status)
	store.Set(&r.ProjectID, p.ProjectID)
	store.Set(&r.SubmittedBy, p.SubmittedBy)
	store.SetPtr(&r.SubmittedDate, p.SubmittedDate)
	store.Set(&r.AssignedTo, p.AssignedTo)
	store.SetPtr(&r.DueDate, p.DueDate)
	store.SetPtr(&r.Response, p.Response)
}

var columns = []string{
	"title", "description", "priority", "status", "project_id", "submitted_by",
	"submitted_date", "assigned_to", "due_date", "response",
}

func prepare(r *RFI) {
	store.Default(&r.Priority, PriorityMedium)
	store.Default(&r.Status, StatusOpen)
}

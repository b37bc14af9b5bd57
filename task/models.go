package task

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// Task priorities.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusReview     = "review"
	StatusComplete   = "complete"
	StatusOnHold     = "on-hold"
)

// Task models the persisted row in tasks. ProjectID is nullable so tasks can
// exist outside a project.
type Task struct {
	bun.BaseModel `bun:"table:tasks"`
	store.Base

	Title          string      `bun:"title,notnull" json:"title"`
	Description    *string     `bun:"description" json:"description,omitempty"`
	Priority       string      `bun:"priority,notnull" json:"priority"`
	Status         string      `bun:"status,notnull" json:"status"`
	DueDate        *string     `bun:"due_date" json:"due_date,omitempty"`
	ProjectID      uuid.UUID   `bun:"project_id,type:uuid,nullzero" json:"project_id,omitempty"`
	AssignedTo     uuid.UUID   `bun:"assigned_to,type:uuid,nullzero" json:"assigned_to,omitempty"`
	AssignedToName *string     `bun:"assigned_to_name" json:"assigned_to_name,omitempty"`
	Category       *string     `bun:"category" json:"category,omitempty"`
	EstimatedHours *int        `bun:"estimated_hours" json:"estimated_hours,omitempty"`
	Dependencies   []uuid.UUID `bun:"dependencies,type:jsonb" json:"dependencies"`
}

// Patch carries the optional fields accepted by Update.
type Patch struct {
	Title          *string
	Description    *string
	Priority       *string
	Status         *string
	DueDate        *string
	ProjectID      *uuid.UUID
	AssignedTo     *uuid.UUID
	AssignedToName *string
	Category       *string
	EstimatedHours *int
	Dependencies   *[]uuid.UUID
}

// Apply copies every set field onto t.
func (p Patch) Apply(t *Task) {
	store.Set(&t.Title, p.Title)
	store.SetPtr(&t.Description, p.Description)
	store.Set(&t.Priority, p.Priority)
	store.Set(&t.Status, p.Status)
	store.SetPtr(&t.DueDate, p.DueDate)
	store.Set(&t.ProjectID, p.ProjectID)
	store.Set(&t.AssignedTo, p.AssignedTo)
	store.SetPtr(&t.AssignedToName, p.AssignedToName)
	store.SetPtr(&t.Category, p.Category)
	store.SetPtr(&t.EstimatedHours, p.EstimatedHours)
	if p.Dependencies != nil {
		t.Dependencies = append([]uuid.UUID{}, (*p.Dependencies)...)
	}
}

var columns = []string{
	"title", "description", "priority", "status", "due_date", "project_id",
	"assigned_to", "assigned_to_name", "category", "estimated_hours",
}

func prepare(t *Task) {
	store.Default(&t.Priority, PriorityMedium)
	store.Default(&t.Status, StatusTodo)
	if t.Dependencies == nil {
		t.Dependencies = []uuid.UUID{}
	}
}

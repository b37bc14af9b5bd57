package project

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// Project phases.
const (
	PhasePreConstruction = "pre-construction"
	PhaseConstruction    = "construction"
	PhaseCloseOut        = "close-out"
	PhaseComplete        = "complete"
)

// Project statuses.
const (
	StatusActive    = "active"
	StatusOnHold    = "on-hold"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Project models the persisted row in projects.
type Project struct {
	bun.BaseModel `bun:"table:projects"`
	store.Base

	Name           string    `bun:"name,notnull" json:"name"`
	JobNumber      *string   `bun:"job_number" json:"job_number,omitempty"`
	ClientID       uuid.UUID `bun:"client_id,type:uuid,nullzero" json:"client_id,omitempty"`
	Phase          string    `bun:"phase,notnull" json:"phase"`
	Status         string    `bun:"status,notnull" json:"status"`
	Cost           *float64  `bun:"cost" json:"cost,omitempty"`
	StartDate      *string   `bun:"start_date" json:"start_date,omitempty"`
	EndDate        *string   `bun:"end_date" json:"end_date,omitempty"`
	ProjectManager uuid.UUID `bun:"project_manager,type:uuid,nullzero" json:"project_manager,omitempty"`
	Superintendent uuid.UUID `bun:"superintendent,type:uuid,nullzero" json:"superintendent,omitempty"`
	Architect      *string   `bun:"architect" json:"architect,omitempty"`
	Address        *string   `bun:"address" json:"address,omitempty"`
	Description    *string   `bun:"description" json:"description,omitempty"`
	ContractSigned bool      `bun:"contract_signed,notnull" json:"contract_signed"`
}

// Patch carries the optional fields accepted by Update.
type Patch struct {
	Name           *string
	JobNumber      *string
	ClientID       *uuid.UUID
	Phase          *string
	Status         *string
	Cost           *float64
	StartDate      *string
	EndDate        *string
	ProjectManager *uuid.UUID
	Superintendent *uuid.UUID
	Architect      *string
	Address        *string
	Description    *string
	ContractSigned *bool
}

// Apply copies every set field onto p.
func (patch Patch) Apply(p *Project) {
	store.Set(&p.Name, patch.Name)
	store.SetPtr(&p.JobNumber, patch.JobNumber)
	store.Set(&p.ClientID, patch.ClientID)
	store.Set(&p.Phase, patch.Phase)
	store.Set(&p.Status, patch.Status)
	store.SetPtr(&p.Cost, patch.Cost)
	store.SetPtr(&p.StartDate, patch.StartDate)
	store.SetPtr(&p.EndDate, patch.EndDate)
	store.Set(&p.ProjectManager, patch.ProjectManager)
	store.Set(&p.Superintendent, patch.Superintendent)
	store.SetPtr(&p.Architect, patch.Architect)
	store.SetPtr(&p.Address, patch.Address)
	store.SetPtr(&p.Description, patch.Description)
	store.Set(&p.ContractSigned, patch.ContractSigned)
}

var columns = []string{
	"name", "job_number", "client_id", "phase", "status", "cost",
	"start_date", "end_date", "project_manager", "superintendent",
	"architect", "address", "description", "contract_signed",
}

func prepare(p *Project) {
	store.Default(&p.Phase, PhasePreConstruction)
	store.Default(&p.Status, StatusActive)
}

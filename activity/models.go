package activity

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// LogEntry models the persisted row in activity_log. Timestamp is an
// ISO-8601 string compared lexicographically, independent of CreatedAt.
type LogEntry struct {
	bun.BaseModel `bun:"table:activity_log"`
	store.Base

	ProjectID      uuid.UUID      `bun:"project_id,type:uuid,nullzero" json:"project_id"`
	UserID         uuid.UUID      `bun:"user_id,type:uuid,nullzero" json:"user_id,omitempty"`
	UserName       string         `bun:"user_name" json:"user_name,omitempty"`
	Action         string         `bun:"action,notnull" json:"action"`
	EntityType     string         `bun:"entity_type" json:"entity_type,omitempty"`
	EntityID       string         `bun:"entity_id" json:"entity_id,omitempty"`
	Description    string         `bun:"description" json:"description,omitempty"`
	Timestamp      string         `bun:"timestamp,notnull" json:"timestamp"`
	AdditionalData map[string]any `bun:"additional_data,type:jsonb" json:"additional_data"`
}

// LogInput describes one audit write.
type LogInput struct {
	// ProjectID scopes the entry. uuid.Nil turns the write into a no-op.
	ProjectID   uuid.UUID
	UserID      uuid.UUID
	UserName    string
	Action      string
	EntityType  string
	EntityID    string
	Description string
	// Timestamp overrides the call time. It must use types.TimestampLayout
	// to keep range comparisons chronological.
	Timestamp      string
	AdditionalData map[string]any
}

// Filter narrows audit listings. Every set field is ANDed.
type Filter struct {
	ProjectID  uuid.UUID
	UserID     uuid.UUID
	Action     string
	EntityType string
	EntityID   string
	From       string
	To         string
}

// UserSummary counts the entries attributed to one user.
type UserSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type noPatch struct{}

func (noPatch) Apply(*LogEntry) {}

var columns = []string{
	"project_id", "user_id", "user_name", "action", "entity_type",
	"entity_id", "description", "timestamp",
}

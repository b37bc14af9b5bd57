package useractivity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitebook/store"
)

// Tracked sections.
const (
	SectionRFIs         = "rfis"
	SectionSubmittals   = "submittals"
	SectionChangeOrders = "change_orders"
	SectionTasks        = "tasks"
	SectionDocuments    = "documents"
)

var sections = []string{
	SectionRFIs, SectionSubmittals, SectionChangeOrders, SectionTasks, SectionDocuments,
}

var sectionColumns = map[string]string{
	SectionRFIs:         "last_rfis_visit",
	SectionSubmittals:   "last_submittals_visit",
	SectionChangeOrders: "last_change_orders_visit",
	SectionTasks:        "last_tasks_visit",
	SectionDocuments:    "last_documents_visit",
}

// Sections returns the tracked section names in display order.
func Sections() []string {
	return append([]string{}, sections...)
}

// ValidSection reports whether section is tracked.
func ValidSection(section string) bool {
	_, ok := sectionColumns[section]
	return ok
}

// ItemKey builds the read_items key for one entity. Parts are joined as-is,
// so "a_b"+"c" and "a"+"b_c" share a key.
func ItemKey(entityType, entityID string) string {
	return entityType + "_" + entityID
}

// UserActivity models the persisted row in user_activity.
type UserActivity struct {
	bun.BaseModel `bun:"table:user_activity"`
	store.Base

	UserID                uuid.UUID         `bun:"user_id,type:uuid,notnull" json:"user_id"`
	ProjectID             uuid.UUID         `bun:"project_id,type:uuid,notnull" json:"project_id"`
	LastRFIsVisit         *time.Time        `bun:"last_rfis_visit" json:"last_rfis_visit,omitempty"`
	LastSubmittalsVisit   *time.Time        `bun:"last_submittals_visit" json:"last_submittals_visit,omitempty"`
	LastChangeOrdersVisit *time.Time        `bun:"last_change_orders_visit" json:"last_change_orders_visit,omitempty"`
	LastTasksVisit        *time.Time        `bun:"last_tasks_visit" json:"last_tasks_visit,omitempty"`
	LastDocumentsVisit    *time.Time        `bun:"last_documents_visit" json:"last_documents_visit,omitempty"`
	ReadItems             map[string]string `bun:"read_items,type:jsonb,notnull" json:"read_items"`
}

// LastVisit returns the visit time recorded for section, or nil.
func (u *UserActivity) LastVisit(section string) *time.Time {
	if u == nil {
		return nil
	}
	if field := u.visitField(section); field != nil {
		return *field
	}
	return nil
}

// ReadAt returns when the item was last read.
func (u *UserActivity) ReadAt(entityType, entityID string) (string, bool) {
	if u == nil {
		return "", false
	}
	at, ok := u.ReadItems[ItemKey(entityType, entityID)]
	return at, ok
}

// IsRead reports whether the item has been read. A nil record has read
// nothing.
func IsRead(record *UserActivity, entityType, entityID string) bool {
	_, ok := record.ReadAt(entityType, entityID)
	return ok
}

func (u *UserActivity) visitField(section string) **time.Time {
	switch section {
	case SectionRFIs:
		return &u.LastRFIsVisit
	case SectionSubmittals:
		return &u.LastSubmittalsVisit
	case SectionChangeOrders:
		return &u.LastChangeOrdersVisit
	case SectionTasks:
		return &u.LastTasksVisit
	case SectionDocuments:
		return &u.LastDocumentsVisit
	}
	return nil
}

type noPatch struct{}

func (noPatch) Apply(*UserActivity) {}

var columns = []string{"user_id", "project_id"}

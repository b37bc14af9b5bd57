package activity

// Action tags recorded in activity_log.action.
const (
	ActionProjectCreated = "project_created"
	ActionProjectUpdated = "project_updated"
	ActionProjectDeleted = "project_deleted"

	ActionTaskCreated   = "task_created"
	ActionTaskUpdated   = "task_updated"
	ActionTaskDeleted   = "task_deleted"
	ActionTaskAssigned  = "task_assigned"
	ActionTaskCompleted = "task_completed"

	ActionRFICreated  = "rfi_created"
	ActionRFIUpdated  = "rfi_updated"
	ActionRFIDeleted  = "rfi_deleted"
	ActionRFIAnswered = "rfi_answered"

	ActionSubmittalCreated  = "submittal_created"
	ActionSubmittalUpdated  = "submittal_updated"
	ActionSubmittalDeleted  = "submittal_deleted"
	ActionSubmittalReviewed = "submittal_reviewed"

	ActionChangeOrderCreated  = "change_order_created"
	ActionChangeOrderUpdated  = "change_order_updated"
	ActionChangeOrderDeleted  = "change_order_deleted"
	ActionChangeOrderApproved = "change_order_approved"

	ActionDocumentUploaded = "document_uploaded"
	ActionDocumentDeleted  = "document_deleted"

	ActionUserLogin  = "user_login"
	ActionUserLogout = "user_logout"
)

// Entity types recorded in activity_log.entity_type.
const (
	EntityProject     = "project"
	EntityTask        = "task"
	EntityRFI         = "rfi"
	EntitySubmittal   = "submittal"
	EntityChangeOrder = "change_order"
	EntityDocument    = "document"
	EntityUser        = "user"
)

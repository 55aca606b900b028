package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - OrgID scopes the record to its tenant; login failures for unknown
//   accounts and super_admin actions carry an empty OrgID.
// - Actor and IP capture are best-effort; never block a critical flow on
//   an audit failure.

type Event struct {
	ID    string `json:"id" db:"id"`
	OrgID string `json:"org_id,omitempty" db:"org_id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// ActorUserID is the authenticated user causing the event (if applicable).
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Target identifiers (optional, depending on the event type).
	TargetUserID string `json:"target_user_id,omitempty" db:"target_user_id"`
	WorkspaceID  string `json:"workspace_id,omitempty" db:"workspace_id"`
	ChatID       string `json:"chat_id,omitempty" db:"chat_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeLoginSuccess EventType = "login_success"
	EventTypeLoginFailure EventType = "login_failure"
	EventTypeAccessDenied EventType = "access_denied"
	EventTypeAdminAction  EventType = "admin_action"
	EventTypeUserDeleted  EventType = "user_deleted"
)

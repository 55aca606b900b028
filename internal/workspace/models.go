package workspace

import "time"

// Workspace groups documents and chats inside one organization.
//
// Tenancy invariant: org_id is required and enforced in all queries.
// A `user`-role caller only sees a workspace through an access grant.
type Workspace struct {
	ID    string `json:"id"`
	OrgID string `json:"org_id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`

	// QAWorkspaceRef identifies this workspace at the downstream
	// question-answering service.
	QAWorkspaceRef string `json:"qa_workspace_ref,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Grant is an explicit permission row allowing a user-role caller to see a
// workspace's chats and documents. Absence of a grant means no access;
// that is enforced at the handler boundary, not in storage.
type Grant struct {
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id"`
	OrgID       string    `json:"org_id"`
	AccessLevel string    `json:"access_level"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	AccessRead  = "read"
	AccessWrite = "write"
)

func isValidAccessLevel(v string) bool {
	return v == AccessRead || v == AccessWrite
}

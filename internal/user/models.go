package user

import "time"

// User is an account inside an organization. super_admin accounts carry an
// empty OrgID and exist outside every tenant.
type User struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id,omitempty"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PasswordHash never leaves the process.
	PasswordHash string `json:"-"`
}

package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported JWT claims shape for this service.
// They are produced once at login and are immutable for the token lifetime.
// Multi-tenant invariant: OrgID must be present for every role except
// super_admin; super_admin is tenant-less and unscoped.
type Claims struct {
	jwt.RegisteredClaims

	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	OrgID       string `json:"org_id,omitempty"`
	Role        string `json:"role"`
}

package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleUser       = "user"
	RoleOrgAdmin   = "org_admin"
	RoleSuperAdmin = "super_admin"
)

// roleAdminAlias is accepted on input for backward compatibility and is
// normalized to org_admin everywhere else.
const roleAdminAlias = "admin"

func IsSuperAdmin(role string) bool { return role == RoleSuperAdmin }

func IsOrgAdmin(role string) bool {
	return role == RoleOrgAdmin || role == roleAdminAlias
}

// NormalizeRole maps accepted role spellings to canonical names.
// Unknown roles come back empty.
func NormalizeRole(role string) string {
	switch role {
	case RoleUser, RoleOrgAdmin, RoleSuperAdmin:
		return role
	case roleAdminAlias:
		return RoleOrgAdmin
	default:
		return ""
	}
}

// HomePath is the landing location for a role. Under-privileged page
// navigation is redirected here rather than rejected with an error page.
func HomePath(role string) string {
	switch NormalizeRole(role) {
	case RoleSuperAdmin:
		return "/super-admin"
	case RoleOrgAdmin:
		return "/admin"
	default:
		return "/chat"
	}
}

package rbac

import (
	"net/http"
	"strings"

	"knowledge-platform/internal/auth"
)

// Outcome is the result class of a policy decision.
type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeRedirect
	OutcomeReject
)

// Decision is the output of the route policy. Exactly one of Location
// (redirects, page boundary) or Status (rejections, API boundary) is
// meaningful for the non-allow outcomes.
type Decision struct {
	Outcome  Outcome
	Location string
	Status   int
}

func allow() Decision             { return Decision{Outcome: OutcomeAllow} }
func redirect(to string) Decision { return Decision{Outcome: OutcomeRedirect, Location: to} }
func reject(status int) Decision  { return Decision{Outcome: OutcomeReject, Status: status} }

// Decide maps (caller identity, request path) to a single decision.
// id == nil means no verified session. The function is pure: no I/O, no
// clock, no resource lookups. Tenant scoping of individual resources is a
// separate, mandatory per-handler check; role gating here never implies it.
//
// Page paths fail via redirect (to /login or the caller's home); paths under
// /api fail via status code.
func Decide(id *auth.Identity, path string) Decision {
	api := isAPI(path)

	// Login and the auth API are the only entry points open to anonymous
	// traffic. Registration is gated closed at the edge: the form may exist
	// client-side, but the platform runs invite-only.
	if path == "/login" || path == "/healthz" || hasPrefix(path, "/api/auth") {
		return allow()
	}
	if path == "/register" || hasPrefix(path, "/register") {
		return redirect("/login")
	}

	if id == nil {
		if api {
			return reject(http.StatusUnauthorized)
		}
		return redirect("/login")
	}

	role := NormalizeRole(id.Role)
	if role == "" {
		if api {
			return reject(http.StatusForbidden)
		}
		return redirect("/login")
	}

	switch {
	case hasPrefix(path, "/super-admin"), hasPrefix(path, "/api/super-admin"):
		if role != RoleSuperAdmin {
			return denyToHome(role, api)
		}
		return allow()

	case hasPrefix(path, "/admin"), hasPrefix(path, "/api/admin"):
		if role != RoleOrgAdmin && role != RoleSuperAdmin {
			return denyToHome(role, api)
		}
		return allow()

	case hasPrefix(path, "/chat"), hasPrefix(path, "/api/chats"), hasPrefix(path, "/api/workspaces"):
		// super_admin is tenant-less and has no chat surface; send it to its
		// own dashboard instead of serving cross-tenant content.
		if role == RoleSuperAdmin {
			return denyToHome(role, api)
		}
		return allow()

	case path == "/":
		// The root is a pure dispatcher: every caller lands on its own home.
		return redirect(HomePath(role))
	}

	// All other protected prefixes: any authenticated role.
	return allow()
}

// denyToHome is the wrong-role outcome: a redirect to the caller's own home
// at the page boundary (UX policy, not a security signal), 403 at the API
// boundary.
func denyToHome(role string, api bool) Decision {
	if api {
		return reject(http.StatusForbidden)
	}
	return redirect(HomePath(role))
}

func isAPI(path string) bool {
	return hasPrefix(path, "/api")
}

// hasPrefix matches whole path segments: /admin and /admin/x match /admin,
// /administrator does not.
func hasPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

package rbac

import (
	"net/http"
	"testing"

	"knowledge-platform/internal/auth"
)

func ident(role, org string) *auth.Identity {
	return &auth.Identity{UserID: "u1", OrgID: org, Role: role}
}

func TestDecide_AnonymousProtectedPaths(t *testing.T) {
	pagePaths := []string{"/", "/chat", "/chat/123", "/admin", "/admin/users", "/super-admin", "/super-admin/orgs"}
	for _, p := range pagePaths {
		d := Decide(nil, p)
		if d.Outcome != OutcomeRedirect || d.Location != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %+v", p, d)
		}
	}

	apiPaths := []string{"/api/me", "/api/chats", "/api/chats/1/messages", "/api/admin/users", "/api/super-admin/orgs", "/api/workspaces/1/documents"}
	for _, p := range apiPaths {
		d := Decide(nil, p)
		if d.Outcome != OutcomeReject || d.Status != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %+v", p, d)
		}
	}
}

func TestDecide_OpenPaths(t *testing.T) {
	for _, p := range []string{"/login", "/healthz", "/api/auth/login", "/api/auth/logout"} {
		if d := Decide(nil, p); d.Outcome != OutcomeAllow {
			t.Fatalf("%s: expected allow, got %+v", p, d)
		}
	}
}

func TestDecide_RegisterAlwaysRedirectsToLogin(t *testing.T) {
	cases := []*auth.Identity{nil, ident(RoleUser, "o1"), ident(RoleOrgAdmin, "o1"), ident(RoleSuperAdmin, "")}
	for _, id := range cases {
		d := Decide(id, "/register")
		if d.Outcome != OutcomeRedirect || d.Location != "/login" {
			t.Fatalf("register: expected redirect to /login, got %+v", d)
		}
	}
}

func TestDecide_UserDeniedAdminSurfaces(t *testing.T) {
	id := ident(RoleUser, "o1")

	for _, p := range []string{"/admin", "/admin/users", "/super-admin"} {
		d := Decide(id, p)
		if d.Outcome != OutcomeRedirect || d.Location != "/chat" {
			t.Fatalf("%s: expected redirect to /chat, got %+v", p, d)
		}
	}
	for _, p := range []string{"/api/admin/users", "/api/super-admin/orgs"} {
		d := Decide(id, p)
		if d.Outcome != OutcomeReject || d.Status != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %+v", p, d)
		}
	}
}

func TestDecide_OrgAdminDeniedSuperAdmin(t *testing.T) {
	id := ident(RoleOrgAdmin, "o1")

	d := Decide(id, "/super-admin")
	if d.Outcome != OutcomeRedirect || d.Location != "/admin" {
		t.Fatalf("expected redirect to /admin, got %+v", d)
	}
	d = Decide(id, "/api/super-admin/orgs")
	if d.Outcome != OutcomeReject || d.Status != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", d)
	}

	// org_admin may use admin and chat surfaces.
	for _, p := range []string{"/admin", "/chat", "/api/admin/users", "/api/chats"} {
		if d := Decide(id, p); d.Outcome != OutcomeAllow {
			t.Fatalf("%s: expected allow, got %+v", p, d)
		}
	}
}

func TestDecide_AdminAliasAccepted(t *testing.T) {
	id := ident("admin", "o1")
	if d := Decide(id, "/admin"); d.Outcome != OutcomeAllow {
		t.Fatalf("expected alias admin allowed on /admin, got %+v", d)
	}
	if d := Decide(id, "/super-admin"); d.Outcome != OutcomeRedirect || d.Location != "/admin" {
		t.Fatalf("expected alias admin redirected home, got %+v", d)
	}
}

func TestDecide_SuperAdminRedirectedOffChat(t *testing.T) {
	id := ident(RoleSuperAdmin, "")

	d := Decide(id, "/chat")
	if d.Outcome != OutcomeRedirect || d.Location != "/super-admin" {
		t.Fatalf("expected redirect to /super-admin, got %+v", d)
	}
	d = Decide(id, "/api/chats")
	if d.Outcome != OutcomeReject || d.Status != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", d)
	}

	for _, p := range []string{"/super-admin", "/admin", "/api/super-admin/orgs", "/api/admin/users"} {
		if d := Decide(id, p); d.Outcome != OutcomeAllow {
			t.Fatalf("%s: expected allow, got %+v", p, d)
		}
	}
}

func TestDecide_RootDispatchesToHome(t *testing.T) {
	cases := map[string]string{
		RoleUser:       "/chat",
		RoleOrgAdmin:   "/admin",
		RoleSuperAdmin: "/super-admin",
	}
	for role, home := range cases {
		d := Decide(ident(role, "o1"), "/")
		if d.Outcome != OutcomeRedirect || d.Location != home {
			t.Fatalf("role %s: expected redirect to %s, got %+v", role, home, d)
		}
	}
}

func TestDecide_UnknownRoleNeverServed(t *testing.T) {
	id := ident("auditor", "o1")
	if d := Decide(id, "/chat"); d.Outcome != OutcomeRedirect || d.Location != "/login" {
		t.Fatalf("expected unknown role pushed to /login, got %+v", d)
	}
	if d := Decide(id, "/api/chats"); d.Outcome != OutcomeReject || d.Status != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown role, got %+v", d)
	}
}

func TestHasPrefix_SegmentBoundaries(t *testing.T) {
	if !hasPrefix("/admin", "/admin") || !hasPrefix("/admin/users", "/admin") {
		t.Fatalf("expected segment prefix matches")
	}
	if hasPrefix("/administrator", "/admin") {
		t.Fatalf("expected /administrator not to match /admin")
	}
}

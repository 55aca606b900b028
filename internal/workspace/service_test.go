package workspace

import (
	"context"
	"errors"
	"testing"

	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/rbac"
)

func admin(org string) auth.Identity {
	return auth.Identity{UserID: "admin-1", OrgID: org, Role: rbac.RoleOrgAdmin}
}

func member(org, uid string) auth.Identity {
	return auth.Identity{UserID: uid, OrgID: org, Role: rbac.RoleUser}
}

func superAdmin() auth.Identity {
	return auth.Identity{UserID: "root", Role: rbac.RoleSuperAdmin}
}

// directoryFake maps user ids onto their orgs.
type directoryFake map[string]string

func (d directoryFake) UserInOrg(_ context.Context, orgID, userID string) (bool, error) {
	return d[userID] == orgID, nil
}

func newTestService() *Service {
	return NewService(NewMemoryStore(), directoryFake{"u1": "o1", "u2": "o2"})
}

func seedWorkspace(t *testing.T, svc *Service, actor auth.Identity, name string) Workspace {
	t.Helper()
	w, err := svc.Create(context.Background(), actor, CreateInput{Name: name, Slug: name})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return w
}

func TestCreate_UsesActorOrg(t *testing.T) {
	svc := newTestService()
	w := seedWorkspace(t, svc, admin("o1"), "docs")
	if w.OrgID != "o1" {
		t.Fatalf("expected org o1, got %q", w.OrgID)
	}
}

func TestCreate_SuperAdminMustNameOrg(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Create(context.Background(), superAdmin(), CreateInput{Name: "x", Slug: "x"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	w, err := svc.Create(context.Background(), superAdmin(), CreateInput{Name: "x", Slug: "x", OrgID: "o9"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.OrgID != "o9" {
		t.Fatalf("expected org o9, got %q", w.OrgID)
	}
}

func TestGet_CrossTenantReadsAsNotFound(t *testing.T) {
	svc := newTestService()
	w := seedWorkspace(t, svc, admin("o1"), "docs")

	// An admin from another org cannot distinguish this workspace from an
	// absent one.
	if _, err := svc.Get(context.Background(), admin("o2"), w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	// Same outcome as a genuinely absent id.
	if _, err := svc.Get(context.Background(), admin("o2"), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGet_UserNeedsGrant(t *testing.T) {
	svc := newTestService()
	w := seedWorkspace(t, svc, admin("o1"), "docs")
	u := member("o1", "u1")

	if _, err := svc.Get(context.Background(), u, w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found without grant, got %v", err)
	}

	if _, err := svc.GrantAccess(context.Background(), admin("o1"), w.ID, GrantInput{UserID: "u1", AccessLevel: AccessRead}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	got, err := svc.Get(context.Background(), u, w.ID)
	if err != nil {
		t.Fatalf("get after grant: %v", err)
	}
	if got.ID != w.ID {
		t.Fatalf("unexpected workspace: %+v", got)
	}
}

func TestGrantAccess_CrossTenantWorkspaceHidden(t *testing.T) {
	svc := newTestService()
	w := seedWorkspace(t, svc, admin("o1"), "docs")

	if _, err := svc.GrantAccess(context.Background(), admin("o2"), w.ID, GrantInput{UserID: "u1", AccessLevel: AccessRead}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGrantAccess_CrossOrgGranteeRejected(t *testing.T) {
	svc := newTestService()
	w := seedWorkspace(t, svc, admin("o1"), "docs")

	// u2 belongs to o2; its org filter could never match a grant on an o1
	// workspace, so the row must not be written at all.
	if _, err := svc.GrantAccess(context.Background(), admin("o1"), w.ID, GrantInput{UserID: "u2", AccessLevel: AccessRead}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestGrantAccess_UnknownGranteeRejected(t *testing.T) {
	svc := newTestService()
	w := seedWorkspace(t, svc, admin("o1"), "docs")

	if _, err := svc.GrantAccess(context.Background(), admin("o1"), w.ID, GrantInput{UserID: "ghost", AccessLevel: AccessRead}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestGrantAccess_RejectsBadLevel(t *testing.T) {
	svc := newTestService()
	w := seedWorkspace(t, svc, admin("o1"), "docs")

	if _, err := svc.GrantAccess(context.Background(), admin("o1"), w.ID, GrantInput{UserID: "u1", AccessLevel: "owner"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestList_ScopedPerRole(t *testing.T) {
	svc := newTestService()
	w1 := seedWorkspace(t, svc, admin("o1"), "a")
	seedWorkspace(t, svc, admin("o1"), "b")
	seedWorkspace(t, svc, admin("o2"), "c")

	if ws, _ := svc.List(context.Background(), admin("o1")); len(ws) != 2 {
		t.Fatalf("org admin: expected 2, got %d", len(ws))
	}
	if ws, _ := svc.List(context.Background(), superAdmin()); len(ws) != 3 {
		t.Fatalf("super admin: expected 3, got %d", len(ws))
	}

	u := member("o1", "u1")
	if ws, _ := svc.List(context.Background(), u); len(ws) != 0 {
		t.Fatalf("user without grants: expected 0, got %d", len(ws))
	}
	if _, err := svc.GrantAccess(context.Background(), admin("o1"), w1.ID, GrantInput{UserID: "u1", AccessLevel: AccessWrite}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if ws, _ := svc.List(context.Background(), u); len(ws) != 1 || ws[0].ID != w1.ID {
		t.Fatalf("user with grant: expected [%s], got %+v", w1.ID, ws)
	}
}

func TestRevokeAccess(t *testing.T) {
	svc := newTestService()
	w := seedWorkspace(t, svc, admin("o1"), "docs")
	if _, err := svc.GrantAccess(context.Background(), admin("o1"), w.ID, GrantInput{UserID: "u1", AccessLevel: AccessRead}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.RevokeAccess(context.Background(), admin("o1"), w.ID, "u1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Get(context.Background(), member("o1", "u1"), w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after revoke, got %v", err)
	}
}

func TestDelete_CascadesGrantsAndContents(t *testing.T) {
	store := NewMemoryStore()
	var purged []string
	store.PurgeContents = func(_ context.Context, id string) error {
		purged = append(purged, id)
		return nil
	}
	svc := NewService(store, directoryFake{"u1": "o1"})
	w := seedWorkspace(t, svc, admin("o1"), "docs")
	if _, err := svc.GrantAccess(context.Background(), admin("o1"), w.ID, GrantInput{UserID: "u1", AccessLevel: AccessRead}); err != nil {
		t.Fatalf("grant: %v", err)
	}

	if err := svc.Delete(context.Background(), admin("o1"), w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(purged) != 1 || purged[0] != w.ID {
		t.Fatalf("expected contents purge for %s, got %v", w.ID, purged)
	}
	if ok, _ := store.HasGrant(context.Background(), w.ID, "u1"); ok {
		t.Fatal("grant must not survive the workspace")
	}
	if _, err := svc.Get(context.Background(), admin("o1"), w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestDelete_AllOrNothing(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("boom")
	store.PurgeContents = func(context.Context, string) error { return boom }
	svc := NewService(store, directoryFake{"u1": "o1"})
	w := seedWorkspace(t, svc, admin("o1"), "docs")
	if _, err := svc.GrantAccess(context.Background(), admin("o1"), w.ID, GrantInput{UserID: "u1", AccessLevel: AccessRead}); err != nil {
		t.Fatalf("grant: %v", err)
	}

	if err := svc.Delete(context.Background(), admin("o1"), w.ID); !errors.Is(err, boom) {
		t.Fatalf("expected the purge error back, got %v", err)
	}
	if _, err := svc.Get(context.Background(), admin("o1"), w.ID); err != nil {
		t.Fatalf("workspace must survive a failed cascade: %v", err)
	}
	if ok, _ := store.HasGrant(context.Background(), w.ID, "u1"); !ok {
		t.Fatal("grant must survive a failed cascade")
	}
}

package chat

import (
	"context"
	"errors"
	"testing"

	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/qa"
	"knowledge-platform/internal/rbac"
	"knowledge-platform/internal/workspace"
)

type fakeProvider struct {
	lastReq qa.Request
	answer  string
	err     error
	calls   int
}

func (f *fakeProvider) Answer(_ context.Context, req qa.Request) (qa.Response, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return qa.Response{}, f.err
	}
	return qa.Response{Answer: f.answer}, nil
}

type fixture struct {
	store      *MemoryStore
	workspaces *workspace.Service
	provider   *fakeProvider
	svc        *Service
	ws         workspace.Workspace
}

// orgDirectory maps user ids onto their orgs for grant validation.
type orgDirectory map[string]string

func (d orgDirectory) UserInOrg(_ context.Context, orgID, userID string) (bool, error) {
	return d[userID] == orgID, nil
}

func orgAdmin(org string) auth.Identity {
	return auth.Identity{UserID: "admin-" + org, OrgID: org, Role: rbac.RoleOrgAdmin}
}

func member(org, uid string) auth.Identity {
	return auth.Identity{UserID: uid, OrgID: org, Role: rbac.RoleUser}
}

// newFixture builds a chat service over a real workspace service with one
// workspace in org o1 granted to user u1.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	wsvc := workspace.NewService(workspace.NewMemoryStore(), orgDirectory{"u1": "o1"})
	w, err := wsvc.Create(context.Background(), orgAdmin("o1"), workspace.CreateInput{
		Name: "kb", Slug: "kb", QAWorkspaceRef: "ref-kb",
	})
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	if _, err := wsvc.GrantAccess(context.Background(), orgAdmin("o1"), w.ID, workspace.GrantInput{
		UserID: "u1", AccessLevel: workspace.AccessWrite,
	}); err != nil {
		t.Fatalf("grant: %v", err)
	}

	store := NewMemoryStore()
	provider := &fakeProvider{answer: "the answer"}
	return &fixture{
		store:      store,
		workspaces: wsvc,
		provider:   provider,
		svc:        NewService(store, wsvc, provider),
		ws:         w,
	}
}

func (f *fixture) open(t *testing.T, actor auth.Identity) Chat {
	t.Helper()
	c, err := f.svc.Create(context.Background(), actor, CreateInput{WorkspaceID: f.ws.ID, Title: "questions"})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return c
}

func TestCreate_RequiresWorkspaceAccess(t *testing.T) {
	f := newFixture(t)

	c := f.open(t, member("o1", "u1"))
	if c.OrgID != "o1" || c.WorkspaceID != f.ws.ID || c.UserID != "u1" {
		t.Fatalf("unexpected chat: %+v", c)
	}

	// No grant.
	if _, err := f.svc.Create(context.Background(), member("o1", "u2"), CreateInput{WorkspaceID: f.ws.ID, Title: "t"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found without grant, got %v", err)
	}
	// Other tenant.
	if _, err := f.svc.Create(context.Background(), orgAdmin("o2"), CreateInput{WorkspaceID: f.ws.ID, Title: "t"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found cross tenant, got %v", err)
	}
}

func TestGet_VisibilityRules(t *testing.T) {
	f := newFixture(t)
	c := f.open(t, member("o1", "u1"))

	// Owner sees it.
	if _, err := f.svc.Get(context.Background(), member("o1", "u1"), c.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	// Org admin of the same org sees it.
	if _, err := f.svc.Get(context.Background(), orgAdmin("o1"), c.ID); err != nil {
		t.Fatalf("org admin get: %v", err)
	}
	// Another user in the same org does not.
	if _, err := f.svc.Get(context.Background(), member("o1", "u2"), c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for non-owner, got %v", err)
	}
	// Anyone from another org reads it as absent, not forbidden.
	if _, err := f.svc.Get(context.Background(), member("o2", "u9"), c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found cross tenant, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), orgAdmin("o2"), c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for foreign admin, got %v", err)
	}
	// super_admin is unscoped.
	root := auth.Identity{UserID: "root", Role: rbac.RoleSuperAdmin}
	if _, err := f.svc.Get(context.Background(), root, c.ID); err != nil {
		t.Fatalf("super admin get: %v", err)
	}
}

func TestList_ScopedPerRole(t *testing.T) {
	f := newFixture(t)
	f.open(t, member("o1", "u1"))
	f.open(t, member("o1", "u1"))
	f.open(t, orgAdmin("o1"))

	if cs, _ := f.svc.List(context.Background(), member("o1", "u1")); len(cs) != 2 {
		t.Fatalf("owner list: expected 2, got %d", len(cs))
	}
	if cs, _ := f.svc.List(context.Background(), orgAdmin("o1")); len(cs) != 3 {
		t.Fatalf("org admin list: expected 3, got %d", len(cs))
	}
	if cs, _ := f.svc.List(context.Background(), orgAdmin("o2")); len(cs) != 0 {
		t.Fatalf("foreign admin list: expected 0, got %d", len(cs))
	}
}

func TestAsk_RecordsExchangeAtomically(t *testing.T) {
	f := newFixture(t)
	u := member("o1", "u1")
	c := f.open(t, u)

	answer, err := f.svc.Ask(context.Background(), u, c.ID, "what is kb?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer.Sender != SenderAssistant || answer.Content != "the answer" {
		t.Fatalf("unexpected answer: %+v", answer)
	}
	if f.provider.lastReq.WorkspaceRef != "ref-kb" {
		t.Fatalf("expected workspace ref forwarded, got %q", f.provider.lastReq.WorkspaceRef)
	}

	msgs, err := f.svc.Messages(context.Background(), u, c.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Sender != SenderUser || msgs[1].Sender != SenderAssistant {
		t.Fatalf("expected user+assistant pair, got %+v", msgs)
	}

	// Second question carries the history.
	if _, err := f.svc.Ask(context.Background(), u, c.ID, "and again?"); err != nil {
		t.Fatalf("second ask: %v", err)
	}
	if len(f.provider.lastReq.History) != 2 {
		t.Fatalf("expected 2 history turns, got %d", len(f.provider.lastReq.History))
	}
}

func TestAsk_ProviderFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	u := member("o1", "u1")
	c := f.open(t, u)

	f.provider.err = qa.ErrUnavailable
	if _, err := f.svc.Ask(context.Background(), u, c.ID, "q"); !errors.Is(err, qa.ErrUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if msgs, _ := f.svc.Messages(context.Background(), u, c.ID); len(msgs) != 0 {
		t.Fatalf("no messages should be stored, got %d", len(msgs))
	}
}

func TestAsk_AppendFailureDropsWholeExchange(t *testing.T) {
	f := newFixture(t)
	u := member("o1", "u1")
	c := f.open(t, u)

	boom := errors.New("disk full")
	f.store.FailAppend = boom
	if _, err := f.svc.Ask(context.Background(), u, c.ID, "q"); !errors.Is(err, boom) {
		t.Fatalf("expected append error, got %v", err)
	}
	f.store.FailAppend = nil
	if msgs, _ := f.svc.Messages(context.Background(), u, c.ID); len(msgs) != 0 {
		t.Fatalf("half-written exchange: %+v", msgs)
	}
}

func TestAsk_AdminsAreReadOnly(t *testing.T) {
	f := newFixture(t)
	c := f.open(t, member("o1", "u1"))

	if _, err := f.svc.Ask(context.Background(), orgAdmin("o1"), c.ID, "q"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for non-owner ask, got %v", err)
	}
	if f.provider.calls != 0 {
		t.Fatalf("provider should not be called, got %d calls", f.provider.calls)
	}
}

func TestDelete_OwnerAndAdminOnly(t *testing.T) {
	f := newFixture(t)
	u := member("o1", "u1")
	c := f.open(t, u)

	if err := f.svc.Delete(context.Background(), member("o1", "u2"), c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), u, c.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), u, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

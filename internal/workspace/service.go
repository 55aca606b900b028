package workspace

import (
	"context"
	"errors"
	"strings"
	"time"

	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/rbac"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("workspace: not found")
	ErrInvalidArgument = errors.New("workspace: invalid argument")
)

// Store is the persistence contract for workspaces and grants.
//
// Get with orgID == "" is the unscoped (super_admin) form. Implementations
// must treat a present orgID as a hard filter: a cross-tenant id behaves
// exactly like an absent one.
type Store interface {
	Create(ctx context.Context, w Workspace) error
	Get(ctx context.Context, orgID, id string) (Workspace, error)
	ListByOrg(ctx context.Context, orgID string) ([]Workspace, error)
	ListGranted(ctx context.Context, orgID, userID string) ([]Workspace, error)
	Update(ctx context.Context, w Workspace) error
	Delete(ctx context.Context, orgID, id string) error

	UpsertGrant(ctx context.Context, g Grant) error
	DeleteGrant(ctx context.Context, orgID, workspaceID, userID string) error
	HasGrant(ctx context.Context, workspaceID, userID string) (bool, error)
	ListGrants(ctx context.Context, orgID, workspaceID string) ([]Grant, error)
}

// UserDirectory answers org-scoped account lookups. Grants refuse to name
// users that do not exist inside the workspace's organization.
type UserDirectory interface {
	UserInOrg(ctx context.Context, orgID, userID string) (bool, error)
}

type Service struct {
	store Store
	users UserDirectory
	clock func() time.Time
}

func NewService(store Store, users UserDirectory) *Service {
	return &Service{store: store, users: users, clock: time.Now}
}

// scopeOrg returns the tenant filter for an actor: empty (unscoped) only
// for super_admin.
func scopeOrg(actor auth.Identity) string {
	if rbac.IsSuperAdmin(actor.Role) {
		return ""
	}
	return actor.OrgID
}

type CreateInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`

	// OrgID is only honored for super_admin callers; everyone else creates
	// inside their own organization.
	OrgID string `json:"org_id,omitempty"`

	QAWorkspaceRef string `json:"qa_workspace_ref,omitempty"`
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateInput) (Workspace, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Name == "" || in.Slug == "" {
		return Workspace{}, ErrInvalidArgument
	}

	orgID := actor.OrgID
	if rbac.IsSuperAdmin(actor.Role) {
		orgID = in.OrgID
	}
	if orgID == "" {
		return Workspace{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	w := Workspace{
		ID:             uuid.NewString(),
		OrgID:          orgID,
		Name:           in.Name,
		Slug:           in.Slug,
		QAWorkspaceRef: in.QAWorkspaceRef,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, w); err != nil {
		return Workspace{}, err
	}
	return w, nil
}

// Get returns a workspace visible to the actor. A `user`-role caller
// additionally needs an access grant; without one the workspace does not
// exist as far as that caller can tell.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (Workspace, error) {
	if id == "" {
		return Workspace{}, ErrInvalidArgument
	}

	w, err := s.store.Get(ctx, scopeOrg(actor), id)
	if err != nil {
		return Workspace{}, err
	}

	if actor.Role == rbac.RoleUser {
		ok, err := s.store.HasGrant(ctx, w.ID, actor.UserID)
		if err != nil {
			return Workspace{}, err
		}
		if !ok {
			return Workspace{}, ErrNotFound
		}
	}
	return w, nil
}

func (s *Service) List(ctx context.Context, actor auth.Identity) ([]Workspace, error) {
	switch {
	case rbac.IsSuperAdmin(actor.Role):
		return s.store.ListByOrg(ctx, "")
	case rbac.IsOrgAdmin(actor.Role):
		return s.store.ListByOrg(ctx, actor.OrgID)
	default:
		return s.store.ListGranted(ctx, actor.OrgID, actor.UserID)
	}
}

type UpdateInput struct {
	Name           string `json:"name,omitempty"`
	QAWorkspaceRef string `json:"qa_workspace_ref,omitempty"`
}

func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, in UpdateInput) (Workspace, error) {
	if id == "" {
		return Workspace{}, ErrInvalidArgument
	}

	w, err := s.store.Get(ctx, scopeOrg(actor), id)
	if err != nil {
		return Workspace{}, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		w.Name = name
	}
	if in.QAWorkspaceRef != "" {
		w.QAWorkspaceRef = in.QAWorkspaceRef
	}
	w.UpdatedAt = s.clock().UTC()

	if err := s.store.Update(ctx, w); err != nil {
		return Workspace{}, err
	}
	return w, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if id == "" {
		return ErrInvalidArgument
	}
	return s.store.Delete(ctx, scopeOrg(actor), id)
}

type GrantInput struct {
	UserID      string `json:"user_id"`
	AccessLevel string `json:"access_level"`
}

// GrantAccess creates or refreshes a grant. The workspace is resolved under
// the actor's scope first, so a cross-tenant workspace id reads as absent.
func (s *Service) GrantAccess(ctx context.Context, actor auth.Identity, workspaceID string, in GrantInput) (Grant, error) {
	if workspaceID == "" || in.UserID == "" {
		return Grant{}, ErrInvalidArgument
	}
	if !isValidAccessLevel(in.AccessLevel) {
		return Grant{}, ErrInvalidArgument
	}

	w, err := s.store.Get(ctx, scopeOrg(actor), workspaceID)
	if err != nil {
		return Grant{}, err
	}

	// The grantee must live in the workspace's org; otherwise the grant
	// row would name an account the org filter can never match.
	ok, err := s.users.UserInOrg(ctx, w.OrgID, in.UserID)
	if err != nil {
		return Grant{}, err
	}
	if !ok {
		return Grant{}, ErrInvalidArgument
	}

	g := Grant{
		UserID:      in.UserID,
		WorkspaceID: w.ID,
		OrgID:       w.OrgID,
		AccessLevel: in.AccessLevel,
		CreatedAt:   s.clock().UTC(),
	}
	if err := s.store.UpsertGrant(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

func (s *Service) RevokeAccess(ctx context.Context, actor auth.Identity, workspaceID, userID string) error {
	if workspaceID == "" || userID == "" {
		return ErrInvalidArgument
	}

	w, err := s.store.Get(ctx, scopeOrg(actor), workspaceID)
	if err != nil {
		return err
	}
	return s.store.DeleteGrant(ctx, w.OrgID, w.ID, userID)
}

func (s *Service) Grants(ctx context.Context, actor auth.Identity, workspaceID string) ([]Grant, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}

	w, err := s.store.Get(ctx, scopeOrg(actor), workspaceID)
	if err != nil {
		return nil, err
	}
	return s.store.ListGrants(ctx, w.OrgID, w.ID)
}

// CanUse reports whether the actor may read a workspace's chats and
// documents: admins inside their org always, users only via grant.
func (s *Service) CanUse(ctx context.Context, actor auth.Identity, workspaceID string) (Workspace, error) {
	return s.Get(ctx, actor, workspaceID)
}

package user

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
	ErrNotFound        = errors.New("user: not found")
	ErrInvalidArgument = errors.New("user: invalid argument")
	ErrForbidden       = errors.New("user: forbidden")
	ErrEmailTaken      = errors.New("user: email already registered")
)

// Store is the persistence contract for user accounts.
//
// orgID == "" is the unscoped (super_admin) form; a present orgID is a hard
// tenant filter, so a cross-tenant id behaves exactly like an absent one.
type Store interface {
	Create(ctx context.Context, u User) error
	Get(ctx context.Context, orgID, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListByOrg(ctx context.Context, orgID string) ([]User, error)
	Update(ctx context.Context, u User) error

	// DeleteCascade removes the user together with everything hanging off
	// it: workspace grants, chat messages, chats, then the account row.
	// All or nothing.
	DeleteCascade(ctx context.Context, orgID, id string) error
}

type Service struct {
	store Store
	clock func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, clock: time.Now}
}

func scopeOrg(actor auth.Identity) string {
	if rbac.IsSuperAdmin(actor.Role) {
		return ""
	}
	return actor.OrgID
}

func canManage(actor auth.Identity) bool {
	return rbac.IsOrgAdmin(actor.Role) || rbac.IsSuperAdmin(actor.Role)
}

type CreateInput struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`

	// OrgID is only honored for super_admin callers; an org_admin always
	// creates inside its own organization.
	OrgID string `json:"org_id,omitempty"`
}

// Create registers an account. org_admin may mint `user` and `org_admin`
// accounts in its own org; only super_admin may mint another super_admin.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateInput) (User, error) {
	if !canManage(actor) {
		return User{}, ErrForbidden
	}

	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.Email == "" || in.DisplayName == "" || in.Password == "" {
		return User{}, ErrInvalidArgument
	}

	role := rbac.NormalizeRole(in.Role)
	if role == "" {
		return User{}, ErrInvalidArgument
	}
	if role == rbac.RoleSuperAdmin && !rbac.IsSuperAdmin(actor.Role) {
		return User{}, ErrForbidden
	}

	orgID := actor.OrgID
	if rbac.IsSuperAdmin(actor.Role) {
		orgID = in.OrgID
	}
	// super_admin accounts are tenant-less; everyone else needs a tenant.
	if role == rbac.RoleSuperAdmin {
		orgID = ""
	} else if orgID == "" {
		return User{}, ErrInvalidArgument
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	now := s.clock().UTC()
	u := User{
		ID:           uuid.NewString(),
		OrgID:        orgID,
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (User, error) {
	if id == "" {
		return User{}, ErrInvalidArgument
	}
	if !canManage(actor) && actor.UserID != id {
		return User{}, ErrForbidden
	}
	return s.store.Get(ctx, scopeOrg(actor), id)
}

func (s *Service) List(ctx context.Context, actor auth.Identity) ([]User, error) {
	if !canManage(actor) {
		return nil, ErrForbidden
	}
	return s.store.ListByOrg(ctx, scopeOrg(actor))
}

type UpdateInput struct {
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
}

func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, in UpdateInput) (User, error) {
	if !canManage(actor) {
		return User{}, ErrForbidden
	}
	if id == "" {
		return User{}, ErrInvalidArgument
	}

	u, err := s.store.Get(ctx, scopeOrg(actor), id)
	if err != nil {
		return User{}, err
	}

	if name := strings.TrimSpace(in.DisplayName); name != "" {
		u.DisplayName = name
	}
	if in.Role != "" {
		role := rbac.NormalizeRole(in.Role)
		if role == "" {
			return User{}, ErrInvalidArgument
		}
		if role == rbac.RoleSuperAdmin && !rbac.IsSuperAdmin(actor.Role) {
			return User{}, ErrForbidden
		}
		u.Role = role
	}
	u.UpdatedAt = s.clock().UTC()
	if err := s.store.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Delete removes the account and every record tied to it in one atomic
// step. Deleting yourself is rejected so an org cannot strand itself
// without its last admin by accident.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if !canManage(actor) {
		return ErrForbidden
	}
	if id == "" {
		return ErrInvalidArgument
	}
	if actor.UserID == id {
		return ErrInvalidArgument
	}
	return s.store.DeleteCascade(ctx, scopeOrg(actor), id)
}

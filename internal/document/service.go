package document

import (
	"context"
	"errors"
	"strings"
	"time"

	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/rbac"
	"knowledge-platform/internal/workspace"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("document: not found")
	ErrInvalidArgument = errors.New("document: invalid argument")
)

// Store is the persistence contract for document metadata.
// orgID == "" is the unscoped (super_admin) form.
type Store interface {
	Create(ctx context.Context, d Document) error
	Get(ctx context.Context, orgID, id string) (Document, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]Document, error)
	Delete(ctx context.Context, orgID, id string) error
}

// WorkspaceGate resolves a workspace the actor may use.
type WorkspaceGate interface {
	CanUse(ctx context.Context, actor auth.Identity, workspaceID string) (workspace.Workspace, error)
}

type Service struct {
	store      Store
	workspaces WorkspaceGate
	clock      func() time.Time
}

func NewService(store Store, workspaces WorkspaceGate) *Service {
	return &Service{store: store, workspaces: workspaces, clock: time.Now}
}

type CreateInput struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateInput) (Document, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.WorkspaceID == "" || in.Name == "" {
		return Document{}, ErrInvalidArgument
	}
	if in.SizeBytes < 0 {
		return Document{}, ErrInvalidArgument
	}

	w, err := s.workspaces.CanUse(ctx, actor, in.WorkspaceID)
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}

	now := s.clock().UTC()
	d := Document{
		ID:          uuid.NewString(),
		OrgID:       w.OrgID,
		WorkspaceID: w.ID,
		Name:        in.Name,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		UploadedBy:  actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return Document{}, err
	}
	return d, nil
}

// Get resolves a document through its workspace, so whoever cannot use
// the workspace cannot tell the document exists.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidArgument
	}
	d, err := s.store.Get(ctx, scopeOrg(actor), id)
	if err != nil {
		return Document{}, err
	}
	if _, err := s.workspaces.CanUse(ctx, actor, d.WorkspaceID); err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, actor auth.Identity, workspaceID string) ([]Document, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}
	w, err := s.workspaces.CanUse(ctx, actor, workspaceID)
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.store.ListByWorkspace(ctx, w.ID)
}

func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, scopeOrg(actor), d.ID)
}

func scopeOrg(actor auth.Identity) string {
	if rbac.IsSuperAdmin(actor.Role) {
		return ""
	}
	return actor.OrgID
}

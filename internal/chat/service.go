package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/qa"
	"knowledge-platform/internal/rbac"
	"knowledge-platform/internal/workspace"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("chat: not found")
	ErrInvalidArgument = errors.New("chat: invalid argument")
)

// historyLimit caps how many prior messages are sent to the answering
// backend per question.
const historyLimit = 20

// Store is the persistence contract for chats and messages.
//
// orgID == "" is the unscoped (super_admin) form. AppendMessages must be
// atomic: either every message lands or none do.
type Store interface {
	CreateChat(ctx context.Context, c Chat) error
	GetChat(ctx context.Context, orgID, id string) (Chat, error)
	ListByUser(ctx context.Context, orgID, userID string) ([]Chat, error)
	ListByOrg(ctx context.Context, orgID string) ([]Chat, error)
	TouchChat(ctx context.Context, id string, at time.Time) error
	DeleteChat(ctx context.Context, orgID, id string) error

	AppendMessages(ctx context.Context, chatID string, msgs ...Message) error
	ListMessages(ctx context.Context, chatID string, limit int) ([]Message, error)
}

// WorkspaceGate resolves a workspace the actor may use. Implemented by the
// workspace service; a cross-tenant or ungranted workspace reads as absent.
type WorkspaceGate interface {
	CanUse(ctx context.Context, actor auth.Identity, workspaceID string) (workspace.Workspace, error)
}

type Service struct {
	store      Store
	workspaces WorkspaceGate
	provider   qa.Provider
	clock      func() time.Time
}

func NewService(store Store, workspaces WorkspaceGate, provider qa.Provider) *Service {
	return &Service{store: store, workspaces: workspaces, provider: provider, clock: time.Now}
}

func scopeOrg(actor auth.Identity) string {
	if rbac.IsSuperAdmin(actor.Role) {
		return ""
	}
	return actor.OrgID
}

type CreateInput struct {
	WorkspaceID string `json:"workspace_id"`
	Title       string `json:"title"`
}

// Create opens a chat in a workspace the actor can use. The chat belongs
// to the actor; admins read others' chats but do not write into them.
func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateInput) (Chat, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.WorkspaceID == "" || in.Title == "" {
		return Chat{}, ErrInvalidArgument
	}

	w, err := s.workspaces.CanUse(ctx, actor, in.WorkspaceID)
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return Chat{}, ErrNotFound
		}
		return Chat{}, err
	}

	now := s.clock().UTC()
	c := Chat{
		ID:          uuid.NewString(),
		OrgID:       w.OrgID,
		WorkspaceID: w.ID,
		UserID:      actor.UserID,
		Title:       in.Title,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateChat(ctx, c); err != nil {
		return Chat{}, err
	}
	return c, nil
}

// Get returns a chat visible to the actor: the owner, an org_admin of the
// same org, or super_admin. Everything else reads as absent, including
// chats that belong to another organization.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (Chat, error) {
	if id == "" {
		return Chat{}, ErrInvalidArgument
	}
	c, err := s.store.GetChat(ctx, scopeOrg(actor), id)
	if err != nil {
		return Chat{}, err
	}
	if actor.Role == rbac.RoleUser && c.UserID != actor.UserID {
		return Chat{}, ErrNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, actor auth.Identity) ([]Chat, error) {
	switch {
	case rbac.IsSuperAdmin(actor.Role):
		return s.store.ListByOrg(ctx, "")
	case rbac.IsOrgAdmin(actor.Role):
		return s.store.ListByOrg(ctx, actor.OrgID)
	default:
		return s.store.ListByUser(ctx, actor.OrgID, actor.UserID)
	}
}

func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	c, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.store.DeleteChat(ctx, scopeOrg(actor), c.ID)
}

func (s *Service) Messages(ctx context.Context, actor auth.Identity, chatID string) ([]Message, error) {
	c, err := s.Get(ctx, actor, chatID)
	if err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, c.ID, 0)
}

// Ask sends a question to the answering backend and records the exchange.
// The user message and the assistant answer land in one atomic append, so
// a storage failure never leaves a question without its answer.
func (s *Service) Ask(ctx context.Context, actor auth.Identity, chatID, question string) (Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Message{}, ErrInvalidArgument
	}

	c, err := s.Get(ctx, actor, chatID)
	if err != nil {
		return Message{}, err
	}
	// Only the owner converses; admins are read-only observers.
	if c.UserID != actor.UserID {
		return Message{}, ErrNotFound
	}

	w, err := s.workspaces.CanUse(ctx, actor, c.WorkspaceID)
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}

	history, err := s.store.ListMessages(ctx, c.ID, historyLimit)
	if err != nil {
		return Message{}, err
	}
	turns := make([]qa.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, qa.Turn{Sender: m.Sender, Content: m.Content})
	}

	resp, err := s.provider.Answer(ctx, qa.Request{
		WorkspaceRef: workspaceRef(w),
		Question:     question,
		History:      turns,
	})
	if err != nil {
		return Message{}, err
	}

	now := s.clock().UTC()
	userMsg := Message{
		ID:        uuid.NewString(),
		ChatID:    c.ID,
		Sender:    SenderUser,
		Content:   question,
		CreatedAt: now,
	}
	answer := Message{
		ID:        uuid.NewString(),
		ChatID:    c.ID,
		Sender:    SenderAssistant,
		Content:   resp.Answer,
		CreatedAt: now,
	}
	if err := s.store.AppendMessages(ctx, c.ID, userMsg, answer); err != nil {
		return Message{}, err
	}
	_ = s.store.TouchChat(ctx, c.ID, now)
	return answer, nil
}

func workspaceRef(w workspace.Workspace) string {
	if w.QAWorkspaceRef != "" {
		return w.QAWorkspaceRef
	}
	return w.ID
}

package reporting

import (
	"context"
	"errors"
	"sync"
	"time"

	"knowledge-platform/internal/chat"
	"knowledge-platform/internal/document"
	"knowledge-platform/internal/user"
	"knowledge-platform/internal/workspace"
)

// MemoryRepo is a simple in-memory reporting repository for tests and early
// development. It enforces org isolation on reads.

type MemoryRepo struct {
	mu sync.Mutex

	Users      []user.User
	Workspaces []workspace.Workspace
	Documents  []document.Document
	Chats      []chat.Chat
	Messages   []chat.Message
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

var _ Repository = (*MemoryRepo)(nil)

func (r *MemoryRepo) CountUsers(_ context.Context, orgID string) (int, error) {
	if orgID == "" {
		return 0, errors.New("org_id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.Users {
		if u.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) CountWorkspaces(_ context.Context, orgID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, w := range r.Workspaces {
		if w.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) CountDocuments(_ context.Context, orgID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.Documents {
		if d.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) ChatActivity(_ context.Context, orgID string, from, to time.Time) (ChatActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out ChatActivity
	active := map[string]bool{}
	inOrg := map[string]bool{}
	for _, c := range r.Chats {
		if c.OrgID != orgID {
			continue
		}
		inOrg[c.ID] = true
		if inRange(c.CreatedAt, from, to) {
			out.ChatsOpened++
			active[c.UserID] = true
		}
	}
	for _, m := range r.Messages {
		if !inOrg[m.ChatID] || !inRange(m.CreatedAt, from, to) {
			continue
		}
		switch m.Sender {
		case chat.SenderUser:
			out.UserMessages++
		case chat.SenderAssistant:
			out.AssistantMessages++
		}
	}
	out.ActiveUsers = len(active)
	return out, nil
}

func (r *MemoryRepo) WorkspaceActivity(_ context.Context, orgID string, from, to time.Time) ([]WorkspaceActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []WorkspaceActivity
	for _, w := range r.Workspaces {
		if w.OrgID != orgID {
			continue
		}
		a := WorkspaceActivity{WorkspaceID: w.ID, Name: w.Name}
		chatsOf := map[string]bool{}
		for _, c := range r.Chats {
			if c.WorkspaceID != w.ID {
				continue
			}
			chatsOf[c.ID] = true
			if inRange(c.CreatedAt, from, to) {
				a.Chats++
			}
		}
		for _, m := range r.Messages {
			if chatsOf[m.ChatID] && inRange(m.CreatedAt, from, to) {
				a.Messages++
			}
		}
		for _, d := range r.Documents {
			if d.WorkspaceID == w.ID {
				a.Documents++
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

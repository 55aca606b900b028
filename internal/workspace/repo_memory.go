package workspace

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a simple in-memory Store useful for tests.
// It is not intended for production use.
type MemoryStore struct {
	mu         sync.Mutex
	workspaces map[string]Workspace
	grants     map[string]Grant // key: userID+"/"+workspaceID

	// PurgeContents, when set, removes the workspace's chats, messages
	// and documents as part of Delete, mirroring the SQL cascade. An
	// error aborts the delete and leaves the workspace in place.
	PurgeContents func(ctx context.Context, workspaceID string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workspaces: make(map[string]Workspace),
		grants:     make(map[string]Grant),
	}
}

var _ Store = (*MemoryStore)(nil)

func grantKey(userID, workspaceID string) string { return userID + "/" + workspaceID }

func (s *MemoryStore) Create(_ context.Context, w Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[w.ID] = w
	return nil
}

func (s *MemoryStore) Get(_ context.Context, orgID, id string) (Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workspaces[id]
	if !ok || (orgID != "" && w.OrgID != orgID) {
		return Workspace{}, ErrNotFound
	}
	return w, nil
}

func (s *MemoryStore) ListByOrg(_ context.Context, orgID string) ([]Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Workspace
	for _, w := range s.workspaces {
		if orgID == "" || w.OrgID == orgID {
			out = append(out, w)
		}
	}
	sortWorkspaces(out)
	return out, nil
}

func (s *MemoryStore) ListGranted(_ context.Context, orgID, userID string) ([]Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Workspace
	for _, g := range s.grants {
		if g.UserID != userID {
			continue
		}
		if w, ok := s.workspaces[g.WorkspaceID]; ok && w.OrgID == orgID {
			out = append(out, w)
		}
	}
	sortWorkspaces(out)
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, w Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.workspaces[w.ID]
	if !ok || cur.OrgID != w.OrgID {
		return ErrNotFound
	}
	s.workspaces[w.ID] = w
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, orgID, id string) error {
	s.mu.Lock()
	w, ok := s.workspaces[id]
	if !ok || (orgID != "" && w.OrgID != orgID) {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.mu.Unlock()

	if s.PurgeContents != nil {
		if err := s.PurgeContents(ctx, id); err != nil {
			return err
		}
	}

	s.mu.Lock()
	for k, g := range s.grants {
		if g.WorkspaceID == id {
			delete(s.grants, k)
		}
	}
	delete(s.workspaces, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) UpsertGrant(_ context.Context, g Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey(g.UserID, g.WorkspaceID)] = g
	return nil
}

func (s *MemoryStore) DeleteGrant(_ context.Context, orgID, workspaceID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := grantKey(userID, workspaceID)
	g, ok := s.grants[k]
	if !ok || g.OrgID != orgID {
		return ErrNotFound
	}
	delete(s.grants, k)
	return nil
}

func (s *MemoryStore) HasGrant(_ context.Context, workspaceID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.grants[grantKey(userID, workspaceID)]
	return ok, nil
}

func (s *MemoryStore) ListGrants(_ context.Context, orgID, workspaceID string) ([]Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Grant
	for _, g := range s.grants {
		if g.WorkspaceID == workspaceID && g.OrgID == orgID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func sortWorkspaces(ws []Workspace) {
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].CreatedAt.Equal(ws[j].CreatedAt) {
			return ws[i].ID < ws[j].ID
		}
		return ws[i].CreatedAt.Before(ws[j].CreatedAt)
	})
}

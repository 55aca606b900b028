package reporting

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
//
// Implementations must enforce org filtering; reporting reads are always
// tenant-scoped.
type Repository interface {
	CountUsers(ctx context.Context, orgID string) (int, error)
	CountWorkspaces(ctx context.Context, orgID string) (int, error)
	CountDocuments(ctx context.Context, orgID string) (int, error)

	// ChatActivity returns chats opened, messages per sender and distinct
	// active users for one org inside [from, to).
	ChatActivity(ctx context.Context, orgID string, from, to time.Time) (ChatActivity, error)

	WorkspaceActivity(ctx context.Context, orgID string, from, to time.Time) ([]WorkspaceActivity, error)
}

// ChatActivity is an aggregate the repository computes in one pass.
type ChatActivity struct {
	ChatsOpened       int
	UserMessages      int
	AssistantMessages int
	ActiveUsers       int
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) UsageSummary(ctx context.Context, req UsageSummaryRequest) (UsageSummary, error) {
	if req.OrgID == "" {
		return UsageSummary{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return UsageSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return UsageSummary{}, errors.New("reporting: repository not configured")
	}

	out := UsageSummary{OrgID: req.OrgID}
	var err error
	if out.Users, err = s.repo.CountUsers(ctx, req.OrgID); err != nil {
		return UsageSummary{}, err
	}
	if out.Workspaces, err = s.repo.CountWorkspaces(ctx, req.OrgID); err != nil {
		return UsageSummary{}, err
	}
	if out.Documents, err = s.repo.CountDocuments(ctx, req.OrgID); err != nil {
		return UsageSummary{}, err
	}

	act, err := s.repo.ChatActivity(ctx, req.OrgID, req.Range.From, req.Range.To)
	if err != nil {
		return UsageSummary{}, err
	}
	out.ChatsOpened = act.ChatsOpened
	out.QuestionsAsked = act.UserMessages
	out.AnswersGiven = act.AssistantMessages
	out.ActiveUsers = act.ActiveUsers
	return out, nil
}

func (s *Service) PerWorkspace(ctx context.Context, req WorkspaceActivityRequest) ([]WorkspaceActivity, error) {
	if req.OrgID == "" {
		return nil, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return nil, ErrInvalidRequest
	}
	if s.repo == nil {
		return nil, errors.New("reporting: repository not configured")
	}
	return s.repo.WorkspaceActivity(ctx, req.OrgID, req.Range.From, req.Range.To)
}

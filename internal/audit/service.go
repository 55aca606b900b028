package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only. No Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
	ListByOrg(ctx context.Context, orgID string, limit int) ([]Event, error)
}

// Service logs internal audit information.
//
// Audit is internal-only; tenant users never see these records. Callers
// treat audit logging as best-effort.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Recent returns the newest events for one tenant, internal ops only.
func (s *Service) Recent(ctx context.Context, orgID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ListByOrg(ctx, orgID, limit)
}

func (s *Service) LogLoginSuccess(ctx context.Context, orgID, userID, role, ip string) error {
	return s.Append(ctx, Event{
		OrgID:       orgID,
		Type:        EventTypeLoginSuccess,
		ActorUserID: userID,
		ActorRole:   role,
		IPAddress:   ip,
	})
}

// LogLoginFailure records a failed login. The email lands in metadata,
// not in a user id field, because the account may not exist.
func (s *Service) LogLoginFailure(ctx context.Context, email, ip string) error {
	meta, _ := json.Marshal(map[string]string{"email": email})
	return s.Append(ctx, Event{
		Type:      EventTypeLoginFailure,
		IPAddress: ip,
		Message:   "login rejected",
		Metadata:  string(meta),
	})
}

func (s *Service) LogAccessDenied(ctx context.Context, orgID, userID, role, ip, path string) error {
	return s.Append(ctx, Event{
		OrgID:       orgID,
		Type:        EventTypeAccessDenied,
		ActorUserID: userID,
		ActorRole:   role,
		IPAddress:   ip,
		Message:     path,
	})
}

func (s *Service) LogAdminAction(ctx context.Context, orgID, actorUserID, actorRole, ip, message, metadata string) error {
	return s.Append(ctx, Event{
		OrgID:       orgID,
		Type:        EventTypeAdminAction,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		Message:     message,
		Metadata:    metadata,
	})
}

func (s *Service) LogUserDeleted(ctx context.Context, orgID, actorUserID, actorRole, ip, targetUserID string) error {
	return s.Append(ctx, Event{
		OrgID:        orgID,
		Type:         EventTypeUserDeleted,
		ActorUserID:  actorUserID,
		ActorRole:    actorRole,
		IPAddress:    ip,
		TargetUserID: targetUserID,
		Message:      "user deleted with owned records",
	})
}

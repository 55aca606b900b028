package org

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
	ErrNotFound        = errors.New("org: not found")
	ErrInvalidArgument = errors.New("org: invalid argument")
	ErrForbidden       = errors.New("org: forbidden")
)

// Store is the persistence contract for organizations.
type Store interface {
	Create(ctx context.Context, o Organization) error
	Get(ctx context.Context, id string) (Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Update(ctx context.Context, o Organization) error
	Delete(ctx context.Context, id string) error
}

// Service manages organizations. Only super_admin reaches these operations
// through the route gate; the service re-checks anyway so an accidentally
// ungated caller cannot cross the boundary.
type Service struct {
	store Store
	clock func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, clock: time.Now}
}

type CreateInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateInput) (Organization, error) {
	if !rbac.IsSuperAdmin(actor.Role) {
		return Organization{}, ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Name == "" || in.Slug == "" {
		return Organization{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	o := Organization{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Slug:      in.Slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return Organization{}, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (Organization, error) {
	if !rbac.IsSuperAdmin(actor.Role) {
		return Organization{}, ErrForbidden
	}
	if id == "" {
		return Organization{}, ErrInvalidArgument
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, actor auth.Identity) ([]Organization, error) {
	if !rbac.IsSuperAdmin(actor.Role) {
		return nil, ErrForbidden
	}
	return s.store.List(ctx)
}

type UpdateInput struct {
	Name string `json:"name"`
}

func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, in UpdateInput) (Organization, error) {
	if !rbac.IsSuperAdmin(actor.Role) {
		return Organization{}, ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	if id == "" || in.Name == "" {
		return Organization{}, ErrInvalidArgument
	}

	o, err := s.store.Get(ctx, id)
	if err != nil {
		return Organization{}, err
	}
	o.Name = in.Name
	o.UpdatedAt = s.clock().UTC()
	if err := s.store.Update(ctx, o); err != nil {
		return Organization{}, err
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if !rbac.IsSuperAdmin(actor.Role) {
		return ErrForbidden
	}
	if id == "" {
		return ErrInvalidArgument
	}
	return s.store.Delete(ctx, id)
}

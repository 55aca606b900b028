package org

import (
	"context"
	"errors"
	"testing"

	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/rbac"
)

var root = auth.Identity{UserID: "root", Role: rbac.RoleSuperAdmin}

func TestLifecycle(t *testing.T) {
	svc := NewService(NewMemoryStore())

	o, err := svc.Create(context.Background(), root, CreateInput{Name: "Acme", Slug: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID == "" || o.Name != "Acme" {
		t.Fatalf("unexpected org: %+v", o)
	}

	got, err := svc.Get(context.Background(), root, o.ID)
	if err != nil || got.ID != o.ID {
		t.Fatalf("get: %v %+v", err, got)
	}

	upd, err := svc.Update(context.Background(), root, o.ID, UpdateInput{Name: "Acme Corp"})
	if err != nil || upd.Name != "Acme Corp" {
		t.Fatalf("update: %v %+v", err, upd)
	}

	if err := svc.Delete(context.Background(), root, o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), root, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEveryOperationRequiresSuperAdmin(t *testing.T) {
	svc := NewService(NewMemoryStore())
	admin := auth.Identity{UserID: "a", OrgID: "o1", Role: rbac.RoleOrgAdmin}

	if _, err := svc.Create(context.Background(), admin, CreateInput{Name: "n", Slug: "s"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("create: expected forbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), admin, "x"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("get: expected forbidden, got %v", err)
	}
	if _, err := svc.List(context.Background(), admin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("list: expected forbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), admin, "x", UpdateInput{Name: "n"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("update: expected forbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin, "x"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete: expected forbidden, got %v", err)
	}
}

package workspace

import (
	"context"
	"database/sql"
	"errors"

	"knowledge-platform/pkg/utils"
)

// NOTE: This repository assumes the following tables exist:
//
// workspaces(id TEXT PRIMARY KEY, org_id TEXT NOT NULL REFERENCES organizations(id),
//            name TEXT NOT NULL, slug TEXT NOT NULL, qa_workspace_ref TEXT,
//            created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL,
//            UNIQUE (org_id, slug))
// workspace_grants(user_id TEXT NOT NULL, workspace_id TEXT NOT NULL, org_id TEXT NOT NULL,
//                  access_level TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL,
//                  PRIMARY KEY (user_id, workspace_id))

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Create(ctx context.Context, w Workspace) error {
	const q = `
INSERT INTO workspaces (id, org_id, name, slug, qa_workspace_ref, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`
	_, err := s.db.ExecContext(ctx, q, w.ID, w.OrgID, w.Name, w.Slug, w.QAWorkspaceRef, w.CreatedAt, w.UpdatedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, orgID, id string) (Workspace, error) {
	// Empty orgID is the unscoped (super_admin) form; otherwise the org
	// filter makes cross-tenant rows indistinguishable from absent ones.
	const q = `
SELECT id, org_id, name, slug, COALESCE(qa_workspace_ref, ''), created_at, updated_at
FROM workspaces
WHERE id = $1 AND ($2 = '' OR org_id = $2)
`
	var w Workspace
	if err := s.db.QueryRowContext(ctx, q, id, orgID).Scan(
		&w.ID,
		&w.OrgID,
		&w.Name,
		&w.Slug,
		&w.QAWorkspaceRef,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Workspace{}, ErrNotFound
		}
		return Workspace{}, err
	}
	return w, nil
}

func (s *PostgresStore) ListByOrg(ctx context.Context, orgID string) ([]Workspace, error) {
	const q = `
SELECT id, org_id, name, slug, COALESCE(qa_workspace_ref, ''), created_at, updated_at
FROM workspaces
WHERE ($1 = '' OR org_id = $1)
ORDER BY created_at
`
	rows, err := s.db.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkspaces(rows)
}

func (s *PostgresStore) ListGranted(ctx context.Context, orgID, userID string) ([]Workspace, error) {
	const q = `
SELECT w.id, w.org_id, w.name, w.slug, COALESCE(w.qa_workspace_ref, ''), w.created_at, w.updated_at
FROM workspaces w
JOIN workspace_grants g ON g.workspace_id = w.id
WHERE g.user_id = $1 AND w.org_id = $2
ORDER BY w.created_at
`
	rows, err := s.db.QueryContext(ctx, q, userID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkspaces(rows)
}

func scanWorkspaces(rows *sql.Rows) ([]Workspace, error) {
	var out []Workspace
	for rows.Next() {
		var w Workspace
		if err := rows.Scan(&w.ID, &w.OrgID, &w.Name, &w.Slug, &w.QAWorkspaceRef, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, w Workspace) error {
	const q = `
UPDATE workspaces
SET name = $3, qa_workspace_ref = $4, updated_at = $5
WHERE id = $1 AND org_id = $2
`
	res, err := s.db.ExecContext(ctx, q, w.ID, w.OrgID, w.Name, w.QAWorkspaceRef, w.UpdatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the workspace together with its grants, chats, messages
// and document rows in one transaction, so nothing keeps pointing at a
// workspace that no longer exists.
func (s *PostgresStore) Delete(ctx context.Context, orgID, id string) error {
	return utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		var resolved string
		const lookup = `
SELECT id FROM workspaces
WHERE id = $1 AND ($2 = '' OR org_id = $2)
FOR UPDATE
`
		if err := tx.QueryRowContext(ctx, lookup, id, orgID).Scan(&resolved); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		steps := []string{
			`DELETE FROM workspace_grants WHERE workspace_id = $1`,
			`DELETE FROM chat_messages WHERE chat_id IN (SELECT id FROM chats WHERE workspace_id = $1)`,
			`DELETE FROM chats WHERE workspace_id = $1`,
			`DELETE FROM documents WHERE workspace_id = $1`,
			`DELETE FROM workspaces WHERE id = $1`,
		}
		for _, q := range steps {
			if _, err := tx.ExecContext(ctx, q, resolved); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) UpsertGrant(ctx context.Context, g Grant) error {
	const q = `
INSERT INTO workspace_grants (user_id, workspace_id, org_id, access_level, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (user_id, workspace_id)
DO UPDATE SET access_level = EXCLUDED.access_level
`
	_, err := s.db.ExecContext(ctx, q, g.UserID, g.WorkspaceID, g.OrgID, g.AccessLevel, g.CreatedAt)
	return err
}

func (s *PostgresStore) DeleteGrant(ctx context.Context, orgID, workspaceID, userID string) error {
	const q = `
DELETE FROM workspace_grants
WHERE user_id = $1 AND workspace_id = $2 AND org_id = $3
`
	res, err := s.db.ExecContext(ctx, q, userID, workspaceID, orgID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) HasGrant(ctx context.Context, workspaceID, userID string) (bool, error) {
	const q = `
SELECT 1 FROM workspace_grants
WHERE user_id = $1 AND workspace_id = $2
`
	var one int
	err := s.db.QueryRowContext(ctx, q, userID, workspaceID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostgresStore) ListGrants(ctx context.Context, orgID, workspaceID string) ([]Grant, error) {
	const q = `
SELECT user_id, workspace_id, org_id, access_level, created_at
FROM workspace_grants
WHERE workspace_id = $1 AND org_id = $2
ORDER BY created_at
`
	rows, err := s.db.QueryContext(ctx, q, workspaceID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.UserID, &g.WorkspaceID, &g.OrgID, &g.AccessLevel, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

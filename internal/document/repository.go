package document

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following table exists:
//
// documents(id TEXT PRIMARY KEY, org_id TEXT NOT NULL, workspace_id TEXT NOT NULL,
//           name TEXT NOT NULL, content_type TEXT, size_bytes BIGINT NOT NULL,
//           uploaded_by TEXT NOT NULL,
//           created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Create(ctx context.Context, d Document) error {
	const q = `
INSERT INTO documents (id, org_id, workspace_id, name, content_type, size_bytes, uploaded_by, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := s.db.ExecContext(ctx, q,
		d.ID, d.OrgID, d.WorkspaceID, d.Name, d.ContentType, d.SizeBytes, d.UploadedBy, d.CreatedAt, d.UpdatedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, orgID, id string) (Document, error) {
	const q = `
SELECT id, org_id, workspace_id, name, COALESCE(content_type, ''), size_bytes, uploaded_by, created_at, updated_at
FROM documents
WHERE id = $1 AND ($2 = '' OR org_id = $2)
`
	var d Document
	if err := s.db.QueryRowContext(ctx, q, id, orgID).Scan(
		&d.ID, &d.OrgID, &d.WorkspaceID, &d.Name, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return d, nil
}

func (s *PostgresStore) ListByWorkspace(ctx context.Context, workspaceID string) ([]Document, error) {
	const q = `
SELECT id, org_id, workspace_id, name, COALESCE(content_type, ''), size_bytes, uploaded_by, created_at, updated_at
FROM documents
WHERE workspace_id = $1
ORDER BY created_at, id
`
	rows, err := s.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.OrgID, &d.WorkspaceID, &d.Name, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, orgID, id string) error {
	const q = `DELETE FROM documents WHERE id = $1 AND ($2 = '' OR org_id = $2)`
	res, err := s.db.ExecContext(ctx, q, id, orgID)
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

package org

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following table exists:
//
// organizations(id TEXT PRIMARY KEY, name TEXT NOT NULL, slug TEXT UNIQUE NOT NULL,
//               created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL)

// PostgresStore is the Store implementation backed by database/sql.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Create(ctx context.Context, o Organization) error {
	const q = `
INSERT INTO organizations (id, name, slug, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)
`
	_, err := s.db.ExecContext(ctx, q, o.ID, o.Name, o.Slug, o.CreatedAt, o.UpdatedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Organization, error) {
	const q = `
SELECT id, name, slug, created_at, updated_at
FROM organizations
WHERE id = $1
`
	var o Organization
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&o.ID,
		&o.Name,
		&o.Slug,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Organization{}, ErrNotFound
		}
		return Organization{}, err
	}
	return o, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Organization, error) {
	const q = `
SELECT id, name, slug, created_at, updated_at
FROM organizations
ORDER BY created_at
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, o Organization) error {
	const q = `
UPDATE organizations
SET name = $2, updated_at = $3
WHERE id = $1
`
	res, err := s.db.ExecContext(ctx, q, o.ID, o.Name, o.UpdatedAt)
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

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM organizations WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q, id)
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

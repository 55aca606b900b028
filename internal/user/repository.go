package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"knowledge-platform/pkg/utils"
)

// NOTE: This repository assumes the following table exists:
//
// users(id TEXT PRIMARY KEY, org_id TEXT, email TEXT NOT NULL UNIQUE,
//       display_name TEXT NOT NULL, role TEXT NOT NULL,
//       password_hash TEXT NOT NULL,
//       created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL)
//
// org_id is NULL for super_admin accounts and maps onto "" in Go.

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Create(ctx context.Context, u User) error {
	const q = `
INSERT INTO users (id, org_id, email, display_name, role, password_hash, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
`
	_, err := s.db.ExecContext(ctx, q, u.ID, u.OrgID, u.Email, u.DisplayName, u.Role, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

// isUniqueViolation reports a Postgres unique_violation (23505). The only
// unique constraint on users is the email column.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *PostgresStore) Get(ctx context.Context, orgID, id string) (User, error) {
	const q = `
SELECT id, COALESCE(org_id, ''), email, display_name, role, password_hash, created_at, updated_at
FROM users
WHERE id = $1 AND ($2 = '' OR org_id = $2)
`
	return scanUser(s.db.QueryRowContext(ctx, q, id, orgID))
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (User, error) {
	const q = `
SELECT id, COALESCE(org_id, ''), email, display_name, role, password_hash, created_at, updated_at
FROM users
WHERE email = $1
`
	return scanUser(s.db.QueryRowContext(ctx, q, email))
}

func (s *PostgresStore) ListByOrg(ctx context.Context, orgID string) ([]User, error) {
	const q = `
SELECT id, COALESCE(org_id, ''), email, display_name, role, password_hash, created_at, updated_at
FROM users
WHERE ($1 = '' OR org_id = $1)
ORDER BY created_at
`
	rows, err := s.db.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.OrgID, &u.Email, &u.DisplayName, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, u User) error {
	const q = `
UPDATE users
SET display_name = $2, role = $3, updated_at = $4
WHERE id = $1
`
	res, err := s.db.ExecContext(ctx, q, u.ID, u.DisplayName, u.Role, u.UpdatedAt)
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

// DeleteCascade removes the account and everything owned by it inside a
// single transaction. The user row goes last so a concurrent lookup never
// sees a half-deleted account.
func (s *PostgresStore) DeleteCascade(ctx context.Context, orgID, id string) error {
	return utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		var resolved string
		const lookup = `
SELECT id FROM users
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
			`DELETE FROM workspace_grants WHERE user_id = $1`,
			`DELETE FROM chat_messages WHERE chat_id IN (SELECT id FROM chats WHERE user_id = $1)`,
			`DELETE FROM chats WHERE user_id = $1`,
			`DELETE FROM users WHERE id = $1`,
		}
		for _, q := range steps {
			if _, err := tx.ExecContext(ctx, q, resolved); err != nil {
				return err
			}
		}
		return nil
	})
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.OrgID, &u.Email, &u.DisplayName, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

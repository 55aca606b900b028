package chat

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"knowledge-platform/pkg/utils"
)

// NOTE: This repository assumes the following tables exist:
//
// chats(id TEXT PRIMARY KEY, org_id TEXT NOT NULL, workspace_id TEXT NOT NULL,
//       user_id TEXT NOT NULL, title TEXT NOT NULL,
//       created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL)
// chat_messages(id TEXT PRIMARY KEY, chat_id TEXT NOT NULL REFERENCES chats(id),
//               sender TEXT NOT NULL, content TEXT NOT NULL,
//               created_at TIMESTAMPTZ NOT NULL)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) CreateChat(ctx context.Context, c Chat) error {
	const q = `
INSERT INTO chats (id, org_id, workspace_id, user_id, title, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`
	_, err := s.db.ExecContext(ctx, q, c.ID, c.OrgID, c.WorkspaceID, c.UserID, c.Title, c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *PostgresStore) GetChat(ctx context.Context, orgID, id string) (Chat, error) {
	const q = `
SELECT id, org_id, workspace_id, user_id, title, created_at, updated_at
FROM chats
WHERE id = $1 AND ($2 = '' OR org_id = $2)
`
	var c Chat
	if err := s.db.QueryRowContext(ctx, q, id, orgID).Scan(
		&c.ID, &c.OrgID, &c.WorkspaceID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Chat{}, ErrNotFound
		}
		return Chat{}, err
	}
	return c, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, orgID, userID string) ([]Chat, error) {
	const q = `
SELECT id, org_id, workspace_id, user_id, title, created_at, updated_at
FROM chats
WHERE user_id = $1 AND ($2 = '' OR org_id = $2)
ORDER BY updated_at DESC
`
	return s.queryChats(ctx, q, userID, orgID)
}

func (s *PostgresStore) ListByOrg(ctx context.Context, orgID string) ([]Chat, error) {
	const q = `
SELECT id, org_id, workspace_id, user_id, title, created_at, updated_at
FROM chats
WHERE ($1 = '' OR org_id = $1)
ORDER BY updated_at DESC
`
	return s.queryChats(ctx, q, orgID)
}

func (s *PostgresStore) queryChats(ctx context.Context, q string, args ...any) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ID, &c.OrgID, &c.WorkspaceID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) TouchChat(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE chats SET updated_at = $2 WHERE id = $1`
	_, err := s.db.ExecContext(ctx, q, id, at)
	return err
}

// DeleteChat removes a chat and its messages in one transaction. Messages
// go first; chat_messages.chat_id references chats(id), so deleting the
// parent row while messages remain would trip the foreign key.
func (s *PostgresStore) DeleteChat(ctx context.Context, orgID, id string) error {
	return utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		var resolved string
		const lookup = `
SELECT id FROM chats
WHERE id = $1 AND ($2 = '' OR org_id = $2)
FOR UPDATE
`
		if err := tx.QueryRowContext(ctx, lookup, id, orgID).Scan(&resolved); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE chat_id = $1`, resolved); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE id = $1`, resolved)
		return err
	})
}

// AppendMessages writes the batch inside one transaction.
func (s *PostgresStore) AppendMessages(ctx context.Context, chatID string, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const q = `
INSERT INTO chat_messages (id, chat_id, sender, content, created_at)
VALUES ($1,$2,$3,$4,$5)
`
		for _, m := range msgs {
			if _, err := tx.ExecContext(ctx, q, m.ID, chatID, m.Sender, m.Content, m.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListMessages returns messages oldest first. limit == 0 means all;
// a positive limit returns the most recent messages, still oldest first.
func (s *PostgresStore) ListMessages(ctx context.Context, chatID string, limit int) ([]Message, error) {
	q := `
SELECT id, chat_id, sender, content, created_at
FROM chat_messages
WHERE chat_id = $1
ORDER BY created_at, id
`
	args := []any{chatID}
	if limit > 0 {
		q = `
SELECT id, chat_id, sender, content, created_at FROM (
  SELECT id, chat_id, sender, content, created_at
  FROM chat_messages
  WHERE chat_id = $1
  ORDER BY created_at DESC, id DESC
  LIMIT $2
) recent
ORDER BY created_at, id
`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

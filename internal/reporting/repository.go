package reporting

import (
	"context"
	"database/sql"
	"time"
)

// PostgresRepo computes aggregates directly in SQL over the primary tables.
// Reads only; reporting never writes.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

var _ Repository = (*PostgresRepo)(nil)

func (r *PostgresRepo) CountUsers(ctx context.Context, orgID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE org_id = $1`, orgID)
}

func (r *PostgresRepo) CountWorkspaces(ctx context.Context, orgID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM workspaces WHERE org_id = $1`, orgID)
}

func (r *PostgresRepo) CountDocuments(ctx context.Context, orgID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM documents WHERE org_id = $1`, orgID)
}

func (r *PostgresRepo) count(ctx context.Context, q string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresRepo) ChatActivity(ctx context.Context, orgID string, from, to time.Time) (ChatActivity, error) {
	var out ChatActivity

	const chats = `
SELECT COUNT(*), COUNT(DISTINCT user_id)
FROM chats
WHERE org_id = $1 AND created_at >= $2 AND created_at < $3
`
	if err := r.db.QueryRowContext(ctx, chats, orgID, from, to).Scan(&out.ChatsOpened, &out.ActiveUsers); err != nil {
		return ChatActivity{}, err
	}

	const messages = `
SELECT
  COUNT(*) FILTER (WHERE m.sender = 'user'),
  COUNT(*) FILTER (WHERE m.sender = 'assistant')
FROM chat_messages m
JOIN chats c ON c.id = m.chat_id
WHERE c.org_id = $1 AND m.created_at >= $2 AND m.created_at < $3
`
	if err := r.db.QueryRowContext(ctx, messages, orgID, from, to).Scan(&out.UserMessages, &out.AssistantMessages); err != nil {
		return ChatActivity{}, err
	}
	return out, nil
}

func (r *PostgresRepo) WorkspaceActivity(ctx context.Context, orgID string, from, to time.Time) ([]WorkspaceActivity, error) {
	const q = `
SELECT w.id, w.name,
  (SELECT COUNT(*) FROM chats c
     WHERE c.workspace_id = w.id AND c.created_at >= $2 AND c.created_at < $3),
  (SELECT COUNT(*) FROM chat_messages m JOIN chats c ON c.id = m.chat_id
     WHERE c.workspace_id = w.id AND m.created_at >= $2 AND m.created_at < $3),
  (SELECT COUNT(*) FROM documents d WHERE d.workspace_id = w.id)
FROM workspaces w
WHERE w.org_id = $1
ORDER BY w.created_at
`
	rows, err := r.db.QueryContext(ctx, q, orgID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkspaceActivity
	for rows.Next() {
		var a WorkspaceActivity
		if err := rows.Scan(&a.WorkspaceID, &a.Name, &a.Chats, &a.Messages, &a.Documents); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

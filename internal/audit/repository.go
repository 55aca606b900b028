package audit

import (
	"context"
	"database/sql"
)

// NOTE: This repository assumes the following table exists:
//
// audit_events(id TEXT PRIMARY KEY, org_id TEXT, type TEXT NOT NULL,
//              actor_user_id TEXT, actor_role TEXT, ip_address TEXT,
//              target_user_id TEXT, workspace_id TEXT, chat_id TEXT,
//              message TEXT, metadata TEXT, created_at TIMESTAMPTZ NOT NULL)
//
// INSERT-only; a trigger preventing UPDATE/DELETE is recommended.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

var _ Repository = (*PostgresRepo)(nil)

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, org_id, type, actor_user_id, actor_role, ip_address,
                          target_user_id, workspace_id, chat_id, message, metadata, created_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.OrgID, string(e.Type), e.ActorUserID, e.ActorRole, e.IPAddress,
		e.TargetUserID, e.WorkspaceID, e.ChatID, e.Message, e.Metadata, e.CreatedAt)
	return err
}

func (r *PostgresRepo) ListByOrg(ctx context.Context, orgID string, limit int) ([]Event, error) {
	const q = `
SELECT id, COALESCE(org_id, ''), type, actor_user_id, actor_role, ip_address,
       target_user_id, workspace_id, chat_id, message, metadata, created_at
FROM audit_events
WHERE ($1 = '' OR org_id = $1)
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.db.QueryContext(ctx, q, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var typ string
		if err := rows.Scan(&e.ID, &e.OrgID, &typ, &e.ActorUserID, &e.ActorRole, &e.IPAddress,
			&e.TargetUserID, &e.WorkspaceID, &e.ChatID, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Type = EventType(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}

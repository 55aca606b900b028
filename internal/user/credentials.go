package user

import (
	"context"
	"errors"

	"knowledge-platform/internal/auth"
)

// CredentialSource adapts the user store to auth's credential lookup.
// Only login reads through it.
type CredentialSource struct {
	store Store
}

func NewCredentialSource(store Store) *CredentialSource {
	return &CredentialSource{store: store}
}

var _ auth.UserSource = (*CredentialSource)(nil)

func (c *CredentialSource) ByEmail(ctx context.Context, email string) (auth.UserRecord, bool, error) {
	u, err := c.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.UserRecord{}, false, nil
		}
		return auth.UserRecord{}, false, err
	}
	return auth.UserRecord{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		OrgID:        u.OrgID,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
	}, true, nil
}

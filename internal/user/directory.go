package user

import (
	"context"
	"errors"
)

// Directory adapts the user store to org-scoped existence lookups. The
// workspace grant path reads through it before writing a grant row.
type Directory struct {
	store Store
}

func NewDirectory(store Store) *Directory {
	return &Directory{store: store}
}

// UserInOrg reports whether id names an account inside orgID. A
// cross-tenant id reads as absent, same as everywhere else.
func (d *Directory) UserInOrg(ctx context.Context, orgID, id string) (bool, error) {
	if _, err := d.store.Get(ctx, orgID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

package auth

import (
	"context"
	"errors"
)

type ctxKey int

const ctxIdentity ctxKey = iota

// Identity is the verified caller identity threaded through request context.
// Handlers receive it from the route gate; they must never re-derive it from
// the raw token.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	OrgID       string
	Role        string
}

var ErrNoIdentity = errors.New("no identity in context")

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// IdentityFrom returns the verified identity, or ErrNoIdentity when the
// request was not authenticated.
func IdentityFrom(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(ctxIdentity).(Identity); ok && id.UserID != "" {
		return id, nil
	}
	return Identity{}, ErrNoIdentity
}

// IdentityFromClaims maps verified token claims into a request identity.
func IdentityFromClaims(cl Claims) Identity {
	return Identity{
		UserID:      cl.UserID,
		Email:       cl.Email,
		DisplayName: cl.DisplayName,
		OrgID:       cl.OrgID,
		Role:        cl.Role,
	}
}

package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// UserRecord is the stored credential record the verifier reads.
// It deliberately mirrors only what authentication needs.
type UserRecord struct {
	ID           string
	Email        string
	DisplayName  string
	OrgID        string
	Role         string
	PasswordHash string
}

// UserSource looks up credential records. Implemented by the user repository.
type UserSource interface {
	// ByEmail is a case-sensitive exact match. found=false is not an error.
	ByEmail(ctx context.Context, email string) (UserRecord, bool, error)
}

// ErrInvalidCredentials is the only failure surfaced for a bad login.
// "user not found" and "wrong password" are indistinguishable so account
// existence never leaks.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the user is missing, so a miss and a
// password mismatch cost the same. bcrypt of an unguessable throwaway value.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Verifier validates an email/password pair against stored credentials.
// Read-only; it never mutates user state.
type Verifier struct {
	users UserSource
}

func NewVerifier(users UserSource) *Verifier {
	return &Verifier{users: users}
}

// Verify returns the full identity on a match. Every failure path returns
// ErrInvalidCredentials except infrastructure errors from the store.
func (v *Verifier) Verify(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Identity{}, ErrInvalidCredentials
	}

	rec, found, err := v.users.ByEmail(ctx, email)
	if err != nil {
		return Identity{}, err
	}
	if !found {
		// Equalize timing with the mismatch path.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Identity{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return Identity{
		UserID:      rec.ID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		OrgID:       rec.OrgID,
		Role:        rec.Role,
	}, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package auth

import (
	"context"
	"errors"
	"testing"
)

type fakeUserSource struct {
	recs map[string]UserRecord
	err  error
}

func (f *fakeUserSource) ByEmail(_ context.Context, email string) (UserRecord, bool, error) {
	if f.err != nil {
		return UserRecord{}, false, f.err
	}
	rec, ok := f.recs[email]
	return rec, ok, nil
}

func TestVerify_Match(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	src := &fakeUserSource{recs: map[string]UserRecord{
		"a@example.com": {ID: "u1", Email: "a@example.com", DisplayName: "A", OrgID: "o1", Role: "user", PasswordHash: hash},
	}}

	id, err := NewVerifier(src).Verify(context.Background(), "a@example.com", "hunter2")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "u1" || id.OrgID != "o1" || id.Role != "user" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerify_WrongPasswordAndMissingUserAreIndistinguishable(t *testing.T) {
	hash, _ := HashPassword("hunter2")
	src := &fakeUserSource{recs: map[string]UserRecord{
		"a@example.com": {ID: "u1", Email: "a@example.com", PasswordHash: hash},
	}}
	v := NewVerifier(src)

	_, errWrong := v.Verify(context.Background(), "a@example.com", "nope")
	_, errMissing := v.Verify(context.Background(), "ghost@example.com", "nope")

	if !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", errWrong)
	}
	if !errors.Is(errMissing, ErrInvalidCredentials) {
		t.Fatalf("missing user: got %v", errMissing)
	}
}

func TestVerify_RejectsMalformedInputBeforeLookup(t *testing.T) {
	src := &fakeUserSource{err: errors.New("store must not be called")}
	v := NewVerifier(src)

	if _, err := v.Verify(context.Background(), "", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty email: got %v", err)
	}
	if _, err := v.Verify(context.Background(), "a@example.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty password: got %v", err)
	}
}

func TestVerify_CaseSensitiveEmail(t *testing.T) {
	hash, _ := HashPassword("hunter2")
	src := &fakeUserSource{recs: map[string]UserRecord{
		"a@example.com": {ID: "u1", Email: "a@example.com", PasswordHash: hash},
	}}
	if _, err := NewVerifier(src).Verify(context.Background(), "A@Example.com", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected case-sensitive miss, got %v", err)
	}
}

func TestVerify_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	v := NewVerifier(&fakeUserSource{err: boom})
	if _, err := v.Verify(context.Background(), "a@example.com", "x"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

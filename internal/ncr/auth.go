package ncr

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Action names a gated mutation on a draft report.
type Action string

const (
	ActionEditItem   Action = "edit-item"
	ActionDeleteItem Action = "delete-item"
)

// ErrUnauthorized is returned when the caller may not perform the action.
// The caller reports it and clears the credential input for re-entry.
var ErrUnauthorized = errors.New("not authorized")

// Authorizer is consulted before destructive draft mutations. The contract is
// prompt-then-mutate: the engine only touches state after a nil return.
type Authorizer interface {
	Authorize(ctx context.Context, action Action) error
}

type secretKey struct{}

// WithSecret attaches the operator-entered shared secret to the context.
func WithSecret(ctx context.Context, secret string) context.Context {
	return context.WithValue(ctx, secretKey{}, secret)
}

// SecretFromContext extracts the shared secret, if one was attached.
func SecretFromContext(ctx context.Context) (string, bool) {
	secret, ok := ctx.Value(secretKey{}).(string)
	return secret, ok
}

// SharedSecretAuthorizer checks an operator-entered passphrase against a
// bcrypt hash from configuration. The plaintext is never stored.
type SharedSecretAuthorizer struct {
	hash []byte
}

// NewSharedSecretAuthorizer wraps the configured bcrypt hash.
func NewSharedSecretAuthorizer(hash string) *SharedSecretAuthorizer {
	return &SharedSecretAuthorizer{hash: []byte(hash)}
}

// HashSecret produces the bcrypt hash to put in configuration.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

func (a *SharedSecretAuthorizer) Authorize(ctx context.Context, action Action) error {
	secret, ok := SecretFromContext(ctx)
	if !ok || secret == "" {
		return ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(secret)); err != nil {
		return ErrUnauthorized
	}
	return nil
}

// RoleAuthorizer permits actions based on the authenticated session's role.
// Role extraction is injected so this package stays independent of the HTTP
// middleware.
type RoleAuthorizer struct {
	Role    func(ctx context.Context) (string, bool)
	Allowed map[string]bool
}

func (a *RoleAuthorizer) Authorize(ctx context.Context, action Action) error {
	role, ok := a.Role(ctx)
	if !ok || !a.Allowed[role] {
		return ErrUnauthorized
	}
	return nil
}

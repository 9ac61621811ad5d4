// Package credstore holds the one logical credential for the dashboard
// process: an access/refresh token pair persisted outside process memory so
// that a fresh boot and the route guard's execution context can both observe
// it.
//
// The credential has two views — the persisted store and a cookie mirror —
// and both are updated through a single write path. A Store implementation
// that carries a mirror must never update one view without the other.
package credstore

import (
	"context"
	"errors"
)

// Credential is an access/refresh token pair. Both tokens are opaque to this
// process; the access token is short-lived, the refresh token is single-use
// per successful exchange.
type Credential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ErrNoCredential is returned by Load when no credential is persisted.
var ErrNoCredential = errors.New("credstore: no credential")

// Store is the credential storage interface. Writers are deliberately few:
// the login path, the logout path, and the refresh coordinator. Everything
// else only reads.
type Store interface {
	// Load returns the persisted credential, or ErrNoCredential.
	Load(ctx context.Context) (Credential, error)

	// Save persists the credential, replacing any previous one. Implementations
	// carrying a cookie mirror update it in the same call.
	Save(ctx context.Context, cred Credential) error

	// Clear removes the credential from every view. Clearing an empty store is
	// a no-op.
	Clear(ctx context.Context) error
}

// Package credstore defines durable client-side storage for session
// credentials. The stored record is the moral equivalent of the browser
// original's three localStorage keys (access token, refresh token, serialized
// identity), except all three live in one record so they are written and
// cleared together.
package credstore

import "errors"

// ErrNoCredentials is returned by Load when nothing is stored.
var ErrNoCredentials = errors.New("no stored credentials")

// Credentials is the persisted session state.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
}

// Repo defines the interface for credential storage operations.
type Repo interface {
	// Store persists the credentials, replacing any previous record.
	// The write must be atomic: either the whole record lands or none of it.
	Store(creds *Credentials) error

	// Load retrieves the stored credentials, or ErrNoCredentials.
	Load() (*Credentials, error)

	// Clear removes the stored credentials. Clearing an empty store is not
	// an error.
	Clear() error
}

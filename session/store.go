// Package session holds the single authority over authentication state:
// login, registration, logout, the persisted credentials, and the decoded
// identity. No other component writes session state.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-storefront-client/gateway"
	errs "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/session/credstore"
)

// Store owns the current session. State transitions (login success, logout)
// notify all subscribers synchronously before the mutating call returns, so
// route guards observe the new state before the next navigation check.
type Store struct {
	gw   *gateway.Client
	repo credstore.Repo

	mu           sync.RWMutex
	identity     *Identity
	refreshToken string

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(*Identity)
}

// Option defines a function type to modify the Store instance.
type Option func(*Store)

// New creates a session Store, restores any persisted session, and registers
// the store as the gateway's unauthorized listener so stale sessions are
// cleared reactively. The gateway itself never mutates session state; this
// callback registration is what breaks that circularity.
func New(gw *gateway.Client, repo credstore.Repo, options ...Option) (*Store, error) {
	if gw == nil {
		return nil, errors.New("[session.New] gateway is required")
	}
	if repo == nil {
		return nil, errors.New("[session.New] credentials repo is required")
	}

	s := &Store{
		gw:          gw,
		repo:        repo,
		subscribers: make(map[int]func(*Identity)),
	}

	for _, opt := range options {
		opt(s)
	}

	s.restore()
	gw.OnUnauthorized(s.HandleUnauthorized)

	return s, nil
}

// restore loads persisted credentials so the session survives process
// restarts. A corrupt or unreadable store is treated as logged out.
func (s *Store) restore() {
	creds, err := s.repo.Load()
	if err != nil {
		if !errors.Is(err, credstore.ErrNoCredentials) {
			log.Warn().Err(err).Msg("could not restore persisted session")
		}
		return
	}
	if strings.TrimSpace(creds.AccessToken) == "" {
		return
	}

	s.identity = &Identity{
		UserID:   creds.UserID,
		Username: creds.Username,
		Email:    creds.Email,
		IsAdmin:  creds.IsAdmin,
	}
	s.refreshToken = creds.RefreshToken
	s.gw.Tokens().Set(&oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against the backend. On success the credentials are
// persisted atomically (whole record or nothing), in-memory state is updated,
// and subscribers are notified. On any failure no state is mutated and the
// normalized backend error is propagated.
func (s *Store) Login(ctx context.Context, username, password string) (bool, error) {
	var data authData
	if err := s.gw.Post(ctx, "/auth/login", loginRequest{Username: username, Password: password}, &data); err != nil {
		return false, errors.Wrap(err, "[Store.Login]")
	}

	if strings.TrimSpace(data.Token) == "" {
		return false, errors.Wrap(errs.ErrLoginFailed, "[Store.Login] response contained no access token")
	}

	identity := data.identity()
	creds := &credstore.Credentials{
		AccessToken:  data.Token,
		RefreshToken: data.RefreshToken,
		UserID:       identity.UserID,
		Username:     identity.Username,
		Email:        identity.Email,
		IsAdmin:      identity.IsAdmin,
	}

	// Persist before mutating in-memory state: if persistence fails the
	// store must not report success.
	if err := s.repo.Store(creds); err != nil {
		return false, errors.Wrapf(errs.ErrSessionPersist, "[Store.Login] %s", err)
	}

	s.mu.Lock()
	s.identity = &identity
	s.refreshToken = data.RefreshToken
	s.mu.Unlock()

	s.gw.Tokens().Set(&oauth2.Token{
		AccessToken:  data.Token,
		RefreshToken: data.RefreshToken,
		TokenType:    "Bearer",
	})

	log.Info().Str("username", identity.Username).Bool("is_admin", identity.IsAdmin).Msg("logged in")
	s.notify(&identity)
	return true, nil
}

// Register creates an account. It does not establish a session; the caller
// logs in afterwards. Error propagation matches Login.
func (s *Store) Register(ctx context.Context, fields Registration) (bool, error) {
	if err := s.gw.Post(ctx, "/auth/register", fields, nil); err != nil {
		return false, errors.Wrap(err, "[Store.Register]")
	}
	return true, nil
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// ChangePassword changes the current user's password. The session and its
// tokens are left untouched.
func (s *Store) ChangePassword(ctx context.Context, currentPassword, newPassword, confirmNewPassword string) error {
	req := changePasswordRequest{
		CurrentPassword:    currentPassword,
		NewPassword:        newPassword,
		ConfirmNewPassword: confirmNewPassword,
	}
	if err := s.gw.Post(ctx, "/auth/change-password", req, nil); err != nil {
		return errors.Wrap(err, "[Store.ChangePassword]")
	}
	return nil
}

// Logout clears in-memory and persisted session state unconditionally and
// notifies subscribers with an empty identity. It never fails: clearing an
// already-empty store is a no-op, and a storage error is logged, not
// returned. Backend tokens are not revoked here; see RevokeRemote.
func (s *Store) Logout() {
	s.mu.Lock()
	s.identity = nil
	s.refreshToken = ""
	s.mu.Unlock()

	s.gw.Tokens().Clear()

	if err := s.repo.Clear(); err != nil {
		log.Warn().Err(err).Msg("could not clear persisted credentials")
	}

	log.Info().Msg("logged out")
	s.notify(nil)
}

type revokeRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RevokeRemote asks the backend to invalidate the current refresh token.
// Best effort: callers that want server-side revocation call it before
// Logout, which stays infallible on its own.
func (s *Store) RevokeRemote(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()

	if refreshToken == "" {
		return errs.ErrNotAuthenticated
	}
	if err := s.gw.Post(ctx, "/auth/revoke", revokeRequest{RefreshToken: refreshToken}, nil); err != nil {
		return errors.Wrap(err, "[Store.RevokeRemote]")
	}
	return nil
}

// HandleUnauthorized clears local session state after the backend rejected
// the credentials. Registered with the gateway at construction; it issues no
// backend calls of its own.
func (s *Store) HandleUnauthorized() {
	s.mu.RLock()
	loggedIn := s.identity != nil
	s.mu.RUnlock()
	if !loggedIn {
		return
	}
	log.Warn().Msg("backend rejected credentials; clearing stale session")
	s.Logout()
}

// CurrentIdentity returns the last-known identity without I/O, or nil when
// no session exists.
func (s *Store) CurrentIdentity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	copied := *s.identity
	return &copied
}

// IsAuthenticated reports whether an access token is present. A malformed or
// expired token still counts until the backend rejects it.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.gw.Tokens().Token()
	return ok
}

// IsAdmin reports whether a session exists and its resolved admin flag is
// set.
func (s *Store) IsAdmin() bool {
	identity := s.CurrentIdentity()
	return identity != nil && identity.IsAdmin
}

// Subscribe registers a listener for session state transitions. Listeners
// are invoked synchronously within the mutating call, with the new identity
// or nil after logout. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(*Identity)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) notify(identity *Identity) {
	s.subMu.Lock()
	listeners := make([]func(*Identity), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		var copied *Identity
		if identity != nil {
			c := *identity
			copied = &c
		}
		fn(copied)
	}
}

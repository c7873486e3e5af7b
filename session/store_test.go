package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront-client/gateway"
	"github.com/jrsteele09/go-storefront-client/internal/config"
	errs "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/jrsteele09/go-storefront-client/session"
	"github.com/jrsteele09/go-storefront-client/session/credstore"
	"github.com/jrsteele09/go-storefront-client/session/credstore/repofake"
)

const (
	testUsername = "alice"
	testPassword = "secret"
	testToken    = "T1"
	testRefresh  = "R1"
	testUserID   = "7"
)

type testConfig struct {
	config.EnvVars
	config.HTTP
	config.Routes
	baseURL string
}

func (c testConfig) GetBaseURL() string { return c.baseURL }

func (testConfig) GetRequestTimeout() time.Duration { return 5 * time.Second }

// testFixture holds all test dependencies
type testFixture struct {
	mux       *http.ServeMux
	gw        *gateway.Client
	credsRepo *repofake.FakeCredsRepo
	store     *session.Store
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gw, err := gateway.New(testConfig{baseURL: server.URL})
	require.NoError(t, err)

	credsRepo := repofake.NewFakeCredsRepo()

	store, err := session.New(gw, credsRepo)
	require.NoError(t, err)

	return &testFixture{
		mux:       mux,
		gw:        gw,
		credsRepo: credsRepo,
		store:     store,
	}
}

// handleLogin installs a login endpoint that accepts the test credentials
// and answers with the given data payload.
func (f *testFixture) handleLogin(t *testing.T, data map[string]any) {
	t.Helper()
	f.mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		if req.Username != testUsername || req.Password != testPassword {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "Invalid username or password",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data":    data,
		})
	})
}

func defaultLoginData() map[string]any {
	return map[string]any{
		"token":        testToken,
		"refreshToken": testRefresh,
		"username":     testUsername,
		"email":        "alice@example.com",
		"isAdmin":      false,
		"userId":       testUserID,
	}
}

func TestLoginSuccessEstablishesSession(t *testing.T) {
	f := setupTestFixture(t)
	f.handleLogin(t, defaultLoginData())

	ok, err := f.store.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, ok)

	require.True(t, f.store.IsAuthenticated())
	require.False(t, f.store.IsAdmin())

	identity := f.store.CurrentIdentity()
	require.NotNil(t, identity)
	require.Equal(t, testUsername, identity.Username)
	require.Equal(t, testUserID, identity.UserID)

	// All three credential parts are persisted together.
	creds, err := f.credsRepo.Load()
	require.NoError(t, err)
	require.Equal(t, testToken, creds.AccessToken)
	require.Equal(t, testRefresh, creds.RefreshToken)
	require.Equal(t, testUsername, creds.Username)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	f := setupTestFixture(t)
	f.handleLogin(t, defaultLoginData())

	ok, err := f.store.Login(context.Background(), testUsername, "wrong")
	require.Error(t, err)
	require.False(t, ok)
	require.Contains(t, err.Error(), "Invalid username or password")

	require.False(t, f.store.IsAuthenticated())
	require.Nil(t, f.store.CurrentIdentity())

	_, err = f.credsRepo.Load()
	require.ErrorIs(t, err, credstore.ErrNoCredentials)
}

func TestLoginWithoutTokenIsFailure(t *testing.T) {
	f := setupTestFixture(t)
	data := defaultLoginData()
	data["token"] = ""
	f.handleLogin(t, data)

	ok, err := f.store.Login(context.Background(), testUsername, testPassword)
	require.Error(t, err)
	require.False(t, ok)
	require.ErrorIs(t, err, errs.ErrLoginFailed)
	require.False(t, f.store.IsAuthenticated())
}

func TestLoginPersistenceFailureDoesNotReportSuccess(t *testing.T) {
	f := setupTestFixture(t)
	f.handleLogin(t, defaultLoginData())
	f.credsRepo.FailNextStore = errors.New("disk full")

	ok, err := f.store.Login(context.Background(), testUsername, testPassword)
	require.Error(t, err)
	require.False(t, ok)
	require.ErrorIs(t, err, errs.ErrSessionPersist)

	require.False(t, f.store.IsAuthenticated())
	require.Nil(t, f.store.CurrentIdentity())
}

func TestDualSourceAdminFlagReconciled(t *testing.T) {
	f := setupTestFixture(t)
	data := defaultLoginData()
	data["isAdmin"] = false
	data["user"] = map[string]any{"isAdmin": true}
	f.handleLogin(t, data)

	ok, err := f.store.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, f.store.IsAdmin())
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	f.handleLogin(t, defaultLoginData())

	// Logout with no session must not panic and leaves state empty.
	require.NotPanics(t, func() { f.store.Logout() })
	require.False(t, f.store.IsAuthenticated())

	ok, err := f.store.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, ok)

	f.store.Logout()
	f.store.Logout()

	require.False(t, f.store.IsAuthenticated())
	require.Nil(t, f.store.CurrentIdentity())
	_, err = f.credsRepo.Load()
	require.ErrorIs(t, err, credstore.ErrNoCredentials)
}

func TestSubscribersNotifiedSynchronously(t *testing.T) {
	f := setupTestFixture(t)
	f.handleLogin(t, defaultLoginData())

	var notifications []*session.Identity
	unsubscribe := f.store.Subscribe(func(identity *session.Identity) {
		notifications = append(notifications, identity)
	})

	ok, err := f.store.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, notifications, 1)
	require.NotNil(t, notifications[0])
	require.Equal(t, testUsername, notifications[0].Username)

	f.store.Logout()
	require.Len(t, notifications, 2)
	require.Nil(t, notifications[1])

	unsubscribe()
	_, _ = f.store.Login(context.Background(), testUsername, testPassword)
	require.Len(t, notifications, 2)
}

func TestSessionRestoredFromPersistedCredentials(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gw, err := gateway.New(testConfig{baseURL: server.URL})
	require.NoError(t, err)

	credsRepo := repofake.NewFakeCredsRepo()
	require.NoError(t, credsRepo.Store(&credstore.Credentials{
		AccessToken:  testToken,
		RefreshToken: testRefresh,
		UserID:       testUserID,
		Username:     testUsername,
		Email:        "alice@example.com",
		IsAdmin:      true,
	}))

	store, err := session.New(gw, credsRepo)
	require.NoError(t, err)

	require.True(t, store.IsAuthenticated())
	require.True(t, store.IsAdmin())
	identity := store.CurrentIdentity()
	require.NotNil(t, identity)
	require.Equal(t, testUsername, identity.Username)
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	f := setupTestFixture(t)
	f.handleLogin(t, defaultLoginData())
	f.mux.HandleFunc("/orders/my", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"token expired"}`, http.StatusUnauthorized)
	})

	ok, err := f.store.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, ok)

	err = f.gw.Get(context.Background(), "/orders/my", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	// The gateway passed the error through and the session cleared itself.
	require.False(t, f.store.IsAuthenticated())
	require.Nil(t, f.store.CurrentIdentity())
}

func TestRegisterDoesNotEstablishSession(t *testing.T) {
	f := setupTestFixture(t)
	f.mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "registered"})
	})

	ok, err := f.store.Register(context.Background(), session.Registration{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "pw",
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, f.store.IsAuthenticated())
}

func TestRegisterPropagatesServerMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "username already taken",
		})
	})

	ok, err := f.store.Register(context.Background(), session.Registration{Username: "bob"})
	require.Error(t, err)
	require.False(t, ok)
	require.Contains(t, err.Error(), "username already taken")
}

func TestClaimsParsedWithoutVerification(t *testing.T) {
	f := setupTestFixture(t)

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": testUserID,
		"exp": expiry.Unix(),
	}).SignedString([]byte("some-key-this-client-never-knows"))
	require.NoError(t, err)

	data := defaultLoginData()
	data["token"] = raw
	f.handleLogin(t, data)

	ok, err := f.store.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, ok)

	claims, err := f.store.Claims()
	require.NoError(t, err)
	require.Equal(t, testUserID, claims.Subject)
	require.Equal(t, expiry.Unix(), claims.ExpiresAt.Unix())
}

func TestClaimsWithoutSession(t *testing.T) {
	f := setupTestFixture(t)
	_, err := f.store.Claims()
	require.ErrorIs(t, err, errs.ErrNotAuthenticated)
}

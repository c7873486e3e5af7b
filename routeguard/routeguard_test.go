package routeguard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront-client/routeguard"
)

type testRoutes struct{}

func (testRoutes) GetLoginRoute() string   { return "/login" }
func (testRoutes) GetLandingRoute() string { return "/items" }

type fakeSession struct {
	authenticated bool
	admin         bool
}

func (s fakeSession) IsAuthenticated() bool { return s.authenticated }
func (s fakeSession) IsAdmin() bool         { return s.admin }

func TestDecisionTable(t *testing.T) {
	guard := routeguard.New(testRoutes{})

	tests := []struct {
		name          string
		class         routeguard.Class
		authenticated bool
		admin         bool
		want          routeguard.Decision
	}{
		{"public-only anonymous allowed", routeguard.ClassPublicOnly, false, false, routeguard.Decision{Allow: true}},
		{"public-only authed to landing", routeguard.ClassPublicOnly, true, false, routeguard.Decision{RedirectTo: "/items"}},
		{"public-only admin to landing", routeguard.ClassPublicOnly, true, true, routeguard.Decision{RedirectTo: "/items"}},

		{"auth anonymous to login", routeguard.ClassRequiresAuth, false, false, routeguard.Decision{RedirectTo: "/login"}},
		{"auth authed allowed", routeguard.ClassRequiresAuth, true, false, routeguard.Decision{Allow: true}},
		{"auth admin allowed", routeguard.ClassRequiresAuth, true, true, routeguard.Decision{Allow: true}},

		{"admin anonymous to login", routeguard.ClassRequiresAdmin, false, false, routeguard.Decision{RedirectTo: "/login"}},
		{"admin authed to landing", routeguard.ClassRequiresAdmin, true, false, routeguard.Decision{RedirectTo: "/items"}},
		{"admin admin allowed", routeguard.ClassRequiresAdmin, true, true, routeguard.Decision{Allow: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, guard.Decide(tc.class, tc.authenticated, tc.admin))
		})
	}
}

func TestUnknownClassRequiresAuthentication(t *testing.T) {
	guard := routeguard.New(testRoutes{})

	decision := guard.Decide(routeguard.Class(42), false, false)
	require.Equal(t, routeguard.Decision{RedirectTo: "/login"}, decision)

	decision = guard.Decide(routeguard.Class(42), true, false)
	require.Equal(t, routeguard.Decision{Allow: true}, decision)
}

func TestDecideForConsultsSession(t *testing.T) {
	guard := routeguard.New(testRoutes{})

	decision := guard.DecideFor(routeguard.ClassRequiresAdmin, fakeSession{authenticated: true, admin: true})
	require.True(t, decision.Allow)

	decision = guard.DecideFor(routeguard.ClassRequiresAdmin, fakeSession{authenticated: true})
	require.Equal(t, "/items", decision.RedirectTo)
}

func TestTableClassification(t *testing.T) {
	table := routeguard.DefaultTable()

	tests := []struct {
		path string
		want routeguard.Class
	}{
		{"/", routeguard.ClassPublicOnly},
		{"/login", routeguard.ClassPublicOnly},
		{"/register", routeguard.ClassPublicOnly},
		{"/items", routeguard.ClassRequiresAuth},
		{"/items/42", routeguard.ClassRequiresAuth},
		{"/cart", routeguard.ClassRequiresAuth},
		{"/checkout", routeguard.ClassRequiresAuth},
		{"/orders/7", routeguard.ClassRequiresAuth},
		{"/admin", routeguard.ClassRequiresAdmin},
		{"/admin/logs", routeguard.ClassRequiresAdmin},
		{"/some-new-page", routeguard.ClassRequiresAuth},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			require.Equal(t, tc.want, table.Classify(tc.path))
		})
	}
}

func TestTableLongestPrefixWins(t *testing.T) {
	table := routeguard.NewTable(routeguard.ClassRequiresAuth)
	table.Register("/account", routeguard.ClassRequiresAuth)
	table.Register("/account/admin", routeguard.ClassRequiresAdmin)

	require.Equal(t, routeguard.ClassRequiresAuth, table.Classify("/account/settings"))
	require.Equal(t, routeguard.ClassRequiresAdmin, table.Classify("/account/admin/users"))

	// Registration order must not matter.
	reversed := routeguard.NewTable(routeguard.ClassRequiresAuth)
	reversed.Register("/account/admin", routeguard.ClassRequiresAdmin)
	reversed.Register("/account", routeguard.ClassRequiresAuth)

	require.Equal(t, routeguard.ClassRequiresAuth, reversed.Classify("/account/settings"))
	require.Equal(t, routeguard.ClassRequiresAdmin, reversed.Classify("/account/admin/users"))
}

func TestTableTrailingSlashNormalized(t *testing.T) {
	table := routeguard.DefaultTable()
	require.Equal(t, routeguard.ClassPublicOnly, table.Classify("login/"))
	require.Equal(t, routeguard.ClassRequiresAdmin, table.Classify("/admin/"))
}

func TestClassString(t *testing.T) {
	require.Equal(t, "public-only", routeguard.ClassPublicOnly.String())
	require.Equal(t, "authenticated", routeguard.ClassRequiresAuth.String())
	require.Equal(t, "admin", routeguard.ClassRequiresAdmin.String())
	require.Equal(t, "unknown", routeguard.Class(42).String())
}

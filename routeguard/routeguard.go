// Package routeguard decides, per navigation attempt, whether the current
// session may enter a route. Decisions are pure functions of the route class
// and the session's authenticated/admin flags; nothing here performs I/O or
// mutates state.
package routeguard

// Class is the access-level requirement attached to a navigable view.
type Class int

const (
	// ClassPublicOnly routes (landing, login, register) are for anonymous
	// users; an authenticated user is sent to the landing route instead.
	ClassPublicOnly Class = iota
	// ClassRequiresAuth routes need any authenticated session.
	ClassRequiresAuth
	// ClassRequiresAdmin routes need an authenticated admin session.
	ClassRequiresAdmin
)

func (c Class) String() string {
	switch c {
	case ClassPublicOnly:
		return "public-only"
	case ClassRequiresAuth:
		return "authenticated"
	case ClassRequiresAdmin:
		return "admin"
	}
	return "unknown"
}

// Decision is the outcome of one navigation attempt. Not persisted;
// recomputed every navigation.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Session is the read-only view of session state the guard consults.
// A session holding a malformed or expired token still reports
// authenticated here; invalidity is only discovered when the backend
// rejects a call.
type Session interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Guard evaluates the access decision table.
type Guard struct {
	loginRoute   string
	landingRoute string
}

// RouteConfig supplies the two fallback routes.
type RouteConfig interface {
	GetLoginRoute() string
	GetLandingRoute() string
}

// New creates a Guard with the configured fallback routes.
func New(cfg RouteConfig) *Guard {
	return &Guard{
		loginRoute:   cfg.GetLoginRoute(),
		landingRoute: cfg.GetLandingRoute(),
	}
}

// Decide applies the decision table:
//
//	                 anonymous        authed            admin
//	PublicOnly       allow            -> landing        -> landing
//	RequiresAuth     -> login         allow             allow
//	RequiresAdmin    -> login         -> landing        allow
func (g *Guard) Decide(class Class, isAuthenticated, isAdmin bool) Decision {
	switch class {
	case ClassPublicOnly:
		if isAuthenticated {
			return Decision{RedirectTo: g.landingRoute}
		}
		return Decision{Allow: true}

	case ClassRequiresAuth:
		if !isAuthenticated {
			return Decision{RedirectTo: g.loginRoute}
		}
		return Decision{Allow: true}

	case ClassRequiresAdmin:
		if !isAuthenticated {
			return Decision{RedirectTo: g.loginRoute}
		}
		if !isAdmin {
			return Decision{RedirectTo: g.landingRoute}
		}
		return Decision{Allow: true}
	}

	// Unknown classes are treated as requiring authentication.
	if !isAuthenticated {
		return Decision{RedirectTo: g.loginRoute}
	}
	return Decision{Allow: true}
}

// DecideFor is Decide against a live session.
func (g *Guard) DecideFor(class Class, s Session) Decision {
	return g.Decide(class, s.IsAuthenticated(), s.IsAdmin())
}

package config

type RouteConfig interface {
	GetLoginRoute() string
	GetLandingRoute() string
}

type Routes struct{}

var _ RouteConfig = Routes{}

// GetLoginRoute is where unauthenticated navigation to protected routes lands.
func (Routes) GetLoginRoute() string {
	return GetEnv("STOREFRONT_LOGIN_ROUTE", "/login")
}

// GetLandingRoute is the default authenticated landing route, used both when
// an authenticated user hits a public-only route and as the "forbidden"
// fallback for non-admins on admin routes.
func (Routes) GetLandingRoute() string {
	return GetEnv("STOREFRONT_LANDING_ROUTE", "/items")
}

package domain

// RouteClass is the static classification of a navigation path. The set is
// closed and mutually exclusive: every path resolves to exactly one class.
type RouteClass int

const (
	// RouteProtected requires a valid session; it is the default for any
	// path not listed elsewhere.
	RouteProtected RouteClass = iota
	// RoutePublic is reachable regardless of session state.
	RoutePublic
	// RouteAuthOnly is reachable only without a valid session; authenticated
	// clients are bounced to the protected home instead.
	RouteAuthOnly
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteAuthOnly:
		return "auth-only"
	default:
		return "protected"
	}
}

// Default navigation targets used by the route guard and the auth flows.
const (
	LoginPath         = "/login"
	ProtectedHomePath = "/dashboard"
	Verify2FAPath     = "/verify-2FA"
	VerifyEmailPath   = "/verify-email"
)

// DefaultAuthRoutes are the auth-only pages: login, registration, the
// password-reset pair and the two verification challenges.
var DefaultAuthRoutes = []string{
	LoginPath,
	"/register",
	"/forgot-password",
	"/reset-password",
	VerifyEmailPath,
	Verify2FAPath,
	"/oauth-success",
}

// DefaultPublicRoutes are reachable with or without a session.
var DefaultPublicRoutes = []string{
	"/",
	"/about",
	"/contact",
	"/privacy-policy",
	"/terms-of-service",
}

// RouteTable resolves paths to their classification. It is built once from
// static configuration and read concurrently without locking.
type RouteTable struct {
	classes map[string]RouteClass
}

// NewRouteTable builds a table from explicit route lists. A path present in
// both lists is treated as auth-only: the stricter class wins so the set stays
// mutually exclusive.
func NewRouteTable(publicRoutes, authRoutes []string) *RouteTable {
	classes := make(map[string]RouteClass, len(publicRoutes)+len(authRoutes))
	for _, p := range publicRoutes {
		classes[p] = RoutePublic
	}
	for _, p := range authRoutes {
		classes[p] = RouteAuthOnly
	}
	return &RouteTable{classes: classes}
}

// DefaultRouteTable returns the table for the stock route lists.
func DefaultRouteTable() *RouteTable {
	return NewRouteTable(DefaultPublicRoutes, DefaultAuthRoutes)
}

// Classify returns the class for a path; unknown paths are protected.
func (t *RouteTable) Classify(path string) RouteClass {
	if t == nil {
		return RouteProtected
	}
	if class, ok := t.classes[path]; ok {
		return class
	}
	return RouteProtected
}

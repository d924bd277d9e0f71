package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/internal/session"
)

type stubSessions struct {
	state  session.State
	bundle *domain.SessionBundle
}

func (s *stubSessions) Save(*fasthttp.RequestCtx, *domain.SessionBundle) {}
func (s *stubSessions) Token(*fasthttp.RequestCtx) string               { return "" }
func (s *stubSessions) UserID(*fasthttp.RequestCtx) string              { return "" }
func (s *stubSessions) Remove(*fasthttp.RequestCtx)                     {}
func (s *stubSessions) Inspect(*fasthttp.RequestCtx) (session.State, *domain.SessionBundle) {
	return s.state, s.bundle
}

func runGuard(state session.State, path string) (*fasthttp.RequestCtx, bool) {
	sessions := &stubSessions{state: state}
	if state == session.StateValid {
		sessions.bundle = &domain.SessionBundle{AccessToken: "token"}
	}

	handled := false
	next := func(rc *fasthttp.RequestCtx) { handled = true }

	rc := &fasthttp.RequestCtx{}
	rc.Request.SetRequestURI("http://app.local" + path)

	guard := RouteGuard(domain.DefaultRouteTable(), sessions, nil)
	guard(next)(rc)
	return rc, handled
}

// location strips the scheme and host Redirect resolves into the header.
func location(rc *fasthttp.RequestCtx) string {
	loc := string(rc.Response.Header.Peek(fasthttp.HeaderLocation))
	return strings.TrimPrefix(loc, "http://app.local")
}

func TestRouteGuard(t *testing.T) {
	tests := []struct {
		name         string
		state        session.State
		path         string
		wantAllowed  bool
		wantLocation string
	}{
		{
			name:         "unauthenticated on protected path redirects to login with redirect param",
			state:        session.StateNone,
			path:         "/dashboard",
			wantLocation: "/login?redirect=%2Fdashboard",
		},
		{
			name:        "unauthenticated on public path is allowed",
			state:       session.StateNone,
			path:        "/about",
			wantAllowed: true,
		},
		{
			name:        "unauthenticated on auth-only path is allowed",
			state:       session.StateNone,
			path:        "/login",
			wantAllowed: true,
		},
		{
			name:         "authenticated on auth-only path bounces to home",
			state:        session.StateValid,
			path:         "/register",
			wantLocation: "/dashboard",
		},
		{
			name:        "authenticated on protected path is allowed",
			state:       session.StateValid,
			path:        "/settings",
			wantAllowed: true,
		},
		{
			name:        "authenticated on public path is allowed",
			state:       session.StateValid,
			path:        "/",
			wantAllowed: true,
		},
		{
			name:         "corrupt session on protected path redirects without redirect param",
			state:        session.StateCorrupt,
			path:         "/dashboard",
			wantLocation: "/login",
		},
		{
			name:         "expired session on protected path redirects without redirect param",
			state:        session.StateExpired,
			path:         "/settings",
			wantLocation: "/login",
		},
		{
			name:        "corrupt session on public path is allowed",
			state:       session.StateCorrupt,
			path:        "/about",
			wantAllowed: true,
		},
		{
			name:        "expired session on auth-only path is allowed",
			state:       session.StateExpired,
			path:        "/login",
			wantAllowed: true,
		},
		{
			name:         "unknown path defaults to protected",
			state:        session.StateNone,
			path:         "/made-up-page",
			wantLocation: "/login?redirect=%2Fmade-up-page",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, handled := runGuard(tt.state, tt.path)
			assert.Equal(t, tt.wantAllowed, handled)
			if tt.wantLocation != "" {
				assert.Equal(t, fasthttp.StatusFound, rc.Response.StatusCode())
				assert.Equal(t, tt.wantLocation, location(rc))
			}
		})
	}
}

func TestRouteGuard_SkipsNonNavigationPaths(t *testing.T) {
	paths := []string{
		"/auth/login",
		"/auth/verify-2fa",
		"/health",
		"/favicon.ico",
		"/assets/app.js",
		"/images/logo.png",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			_, handled := runGuard(session.StateNone, path)
			assert.True(t, handled, "guard must not intercept %s", path)
		})
	}
}

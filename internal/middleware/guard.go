package middleware

import (
	"net/url"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/internal/session"
)

// RouteGuard intercepts every navigation before page logic runs and resolves
// it to exactly one of: allow, redirect-to-login, redirect-to-home. It holds
// no cross-request state; each decision is rederived from the session cookie
// attached to the request. It never fails the request itself.
func RouteGuard(routes *domain.RouteTable, sessions session.Repository, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(rc *fasthttp.RequestCtx) {
			path := string(rc.Path())

			// Static assets and action endpoints are excluded from
			// interception before any decision logic runs.
			if skipInterception(path) {
				next(rc)
				return
			}

			state, _ := sessions.Inspect(rc)
			class := routes.Classify(path)

			switch state {
			case session.StateNone:
				if class == domain.RoutePublic || class == domain.RouteAuthOnly {
					next(rc)
					return
				}
				redirectToLogin(rc, path)

			case session.StateCorrupt, session.StateExpired:
				// Inspect already evicted the cookie; from here the client
				// counts as unauthenticated. A corrupt or stale session
				// carries no recoverable intent, so protected paths bounce
				// to login without a redirect parameter.
				logger.Debug("session evicted by guard",
					zap.String("path", path),
					zap.Int("state", int(state)))
				if class == domain.RoutePublic || class == domain.RouteAuthOnly {
					next(rc)
					return
				}
				rc.Redirect(domain.LoginPath, fasthttp.StatusFound)

			case session.StateValid:
				if class == domain.RouteAuthOnly {
					rc.Redirect(domain.ProtectedHomePath, fasthttp.StatusFound)
					return
				}
				next(rc)
			}
		}
	}
}

func redirectToLogin(rc *fasthttp.RequestCtx, fromPath string) {
	target := domain.LoginPath + "?redirect=" + url.QueryEscape(fromPath)
	rc.Redirect(target, fasthttp.StatusFound)
}

// skipInterception matches the paths the guard never classifies: the auth
// action endpoints the flows post to, health probes, and anything that looks
// like a static asset (a file extension in the last segment).
func skipInterception(path string) bool {
	if strings.HasPrefix(path, "/auth/") || path == "/health" {
		return true
	}
	last := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		last = path[i+1:]
	}
	return strings.Contains(last, ".")
}

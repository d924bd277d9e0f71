package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/internal/session"
	"github.com/fullauth/gateway/pkg/httpcontext"
)

// PageHandler serves the navigable pages of the app. Responses are small
// envelopes describing the page and, when a session exists, the signed-in
// user; the route guard in front of the router has already decided whether
// the client may land here.
type PageHandler struct {
	baseHandler
	sessions session.Repository
}

func NewPageHandler(sessions session.Repository, adapter *httpcontext.Adapter, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		baseHandler: newBaseHandler(adapter, logger),
		sessions:    sessions,
	}
}

// Serve renders the page named by the request path.
func (h *PageHandler) Serve(rc *fasthttp.RequestCtx) {
	payload := map[string]interface{}{
		"page": string(rc.Path()),
	}
	if state, bundle := h.sessions.Inspect(rc); state == session.StateValid {
		payload["user"] = bundle.User
	}
	h.respondSuccess(rc, http.StatusOK, payload)
}

// Dashboard is the landing page for authenticated clients.
func (h *PageHandler) Dashboard(rc *fasthttp.RequestCtx) {
	state, bundle := h.sessions.Inspect(rc)
	if state != session.StateValid {
		// The guard redirects before we get here; this is the fallback for
		// direct handler invocation.
		rc.Redirect(domain.LoginPath, fasthttp.StatusFound)
		return
	}
	h.respondSuccess(rc, http.StatusOK, map[string]interface{}{
		"page": domain.ProtectedHomePath,
		"user": bundle.User,
	})
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fullauth/gateway/api/transport"
	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/pkg/httpcontext"
	"github.com/fullauth/gateway/usecase/authflow"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(rc *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(rc)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(rc *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	rc.Response.Header.SetContentType("application/json")
	rc.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	rc.SetBody(body)
}

func (h baseHandler) respondSuccess(rc *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(rc, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(rc *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(rc, status, transport.NewError(code, err.Error(), nil))
}

// respondOutcome renders a flow outcome. Failures still carry the flow
// payload so the client knows where the flow left it.
func (h baseHandler) respondOutcome(rc *fasthttp.RequestCtx, out authflow.Outcome) {
	flow := transport.FlowResponse{
		State:   out.State.String(),
		Action:  actionString(out.Action),
		Target:  out.Target,
		Message: out.Message,
	}
	if out.Err != nil {
		status, code := mapError(out.Err)
		h.respondJSON(rc, status, transport.NewError(code, out.Err.Error(), flow))
		return
	}
	h.respondSuccess(rc, http.StatusOK, flow)
}

func actionString(a authflow.Action) string {
	switch a {
	case authflow.ActionNavigate:
		return "navigate"
	case authflow.ActionReload:
		return "reload"
	default:
		return "stay"
	}
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeMissingIdentity):
		return http.StatusBadRequest, string(domain.ErrCodeMissingIdentity)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeUpstream):
		return http.StatusBadGateway, string(domain.ErrCodeUpstream)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

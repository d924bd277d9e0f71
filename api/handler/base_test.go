package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fullauth/gateway/api/transport"
	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/usecase/authflow"
)

func decodeEnvelope(t *testing.T, rc *fasthttp.RequestCtx) transport.Envelope {
	t.Helper()
	var env transport.Envelope
	require.NoError(t, json.Unmarshal(rc.Response.Body(), &env))
	return env
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "unauthorized", err: domain.ErrNoSession, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "invalid", err: domain.ErrMalformedToken, wantStatus: http.StatusBadRequest, wantCode: "INVALID"},
		{name: "missing identity", err: domain.ErrMissingPendingIdentity, wantStatus: http.StatusBadRequest, wantCode: "MISSING_IDENTITY"},
		{name: "not found", err: domain.NewError(domain.ErrCodeNotFound, "gone"), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "upstream", err: domain.ErrUpstreamUnavailable, wantStatus: http.StatusBadGateway, wantCode: "UPSTREAM"},
		{name: "plain error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestRespondOutcome_Success(t *testing.T) {
	h := newBaseHandler(nil, nil)
	rc := &fasthttp.RequestCtx{}

	h.respondOutcome(rc, authflow.Outcome{
		State:   authflow.Authenticated,
		Action:  authflow.ActionNavigate,
		Target:  "/dashboard",
		Message: "Welcome back",
	})

	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())
	env := decodeEnvelope(t, rc)
	assert.Equal(t, "success", env.Status)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "authenticated", data["state"])
	assert.Equal(t, "navigate", data["action"])
	assert.Equal(t, "/dashboard", data["target"])
	assert.Equal(t, "Welcome back", data["message"])
}

func TestRespondOutcome_FailureKeepsFlowPayload(t *testing.T) {
	h := newBaseHandler(nil, nil)
	rc := &fasthttp.RequestCtx{}

	h.respondOutcome(rc, authflow.Outcome{
		State:  authflow.Awaiting2FA,
		Action: authflow.ActionStay,
		Err:    domain.NewError(domain.ErrCodeUpstream, "Invalid code"),
	})

	assert.Equal(t, http.StatusBadGateway, rc.Response.StatusCode())
	env := decodeEnvelope(t, rc)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "UPSTREAM", env.Code)
	assert.Equal(t, "Invalid code", env.Error)

	meta, ok := env.Meta.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "awaiting_2fa", meta["state"])
	assert.Equal(t, "stay", meta["action"])
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "stay", actionString(authflow.ActionStay))
	assert.Equal(t, "navigate", actionString(authflow.ActionNavigate))
	assert.Equal(t, "reload", actionString(authflow.ActionReload))
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fullauth/gateway/api/transport"
	"github.com/fullauth/gateway/backend"
	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/internal/oauth"
	"github.com/fullauth/gateway/pkg/httpcontext"
	"github.com/fullauth/gateway/usecase/authflow"
)

type AuthHandler struct {
	baseHandler
	flow     *authflow.Flow
	api      backend.AuthAPI
	provider *oauth.Provider
}

func NewAuthHandler(flow *authflow.Flow, api backend.AuthAPI, provider *oauth.Provider, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		flow:        flow,
		api:         api,
		provider:    provider,
	}
}

// @Summary Password login
// @Tags auth
// @Router /auth/login [post]
func (h *AuthHandler) Login(rc *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(rc.PostBody(), &req); err != nil || req.Email == "" || req.Password == "" {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	out := h.flow.Login(stdCtx, rc, req.Email, req.Password, req.Redirect, req.CurrentPath)
	h.respondOutcome(rc, out)
}

// @Summary Register a new account
// @Tags auth
// @Router /auth/register [post]
func (h *AuthHandler) Register(rc *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(rc.PostBody(), &req); err != nil || req.Email == "" || req.Password == "" {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	if req.Password != req.ConfirmPassword {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "Passwords do not match", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	res := h.api.Signup(stdCtx, backend.SignupRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if !res.OK {
		h.respondJSON(rc, http.StatusBadGateway, transport.NewError(string(domain.ErrCodeUpstream), res.Message, nil))
		return
	}
	h.respondSuccess(rc, http.StatusCreated, transport.FlowResponse{
		State:   authflow.AwaitingCredentials.String(),
		Action:  "navigate",
		Target:  domain.LoginPath,
		Message: res.Data.Message,
	})
}

// @Summary End the current session
// @Tags auth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(rc *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	out := h.flow.Logout(stdCtx, rc)
	h.respondOutcome(rc, out)
}

// @Summary Submit the 2FA challenge code
// @Tags auth
// @Router /auth/verify-2fa [post]
func (h *AuthHandler) Verify2FA(rc *fasthttp.RequestCtx) {
	var req transport.VerifyCodeRequest
	if err := json.Unmarshal(rc.PostBody(), &req); err != nil || req.Code == "" {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "Enter a valid code", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	out := h.flow.Verify2FA(stdCtx, rc, req.Code, req.CurrentPath)
	h.respondOutcome(rc, out)
}

// @Summary Resend the 2FA challenge code
// @Tags auth
// @Router /auth/resend-2fa [post]
func (h *AuthHandler) Resend2FA(rc *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	out := h.flow.Resend2FA(stdCtx, rc)
	h.respondOutcome(rc, out)
}

// @Summary Submit the email verification token
// @Tags auth
// @Router /auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(rc *fasthttp.RequestCtx) {
	token := string(rc.QueryArgs().Peek("token"))
	currentPath := string(rc.QueryArgs().Peek("current_path"))

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	out := h.flow.VerifyEmail(stdCtx, rc, token, currentPath)
	h.respondOutcome(rc, out)
}

// @Summary Resend the verification email
// @Tags auth
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(rc *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	out := h.flow.ResendVerification(stdCtx, rc)
	h.respondOutcome(rc, out)
}

// @Summary Request reverification from the settings page
// @Tags auth
// @Router /auth/request-reverification [post]
func (h *AuthHandler) RequestReverification(rc *fasthttp.RequestCtx) {
	var req transport.ReverificationRequest
	if err := json.Unmarshal(rc.PostBody(), &req); err != nil {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	out := h.flow.RequestReverification(stdCtx, rc, req.Email, req.CurrentPath)
	h.respondOutcome(rc, out)
}

// @Summary Request a password reset link
// @Tags auth
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(rc *fasthttp.RequestCtx) {
	var req transport.PasswordForgotRequest
	if err := json.Unmarshal(rc.PostBody(), &req); err != nil || req.Email == "" {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "Enter a valid email", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	res := h.api.PasswordResetRequest(stdCtx, req.Email)
	if !res.OK {
		h.respondJSON(rc, http.StatusBadGateway, transport.NewError(string(domain.ErrCodeUpstream), res.Message, nil))
		return
	}
	h.respondSuccess(rc, http.StatusOK, map[string]string{"message": res.Data.Message})
}

// @Summary Confirm a password reset with the emailed token
// @Tags auth
// @Router /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(rc *fasthttp.RequestCtx) {
	token, _ := rc.UserValue("token").(string)
	var req transport.PasswordResetRequest
	if err := json.Unmarshal(rc.PostBody(), &req); err != nil || token == "" || req.NewPassword == "" {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "Passwords do not match", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	res := h.api.PasswordResetConfirm(stdCtx, token, req.NewPassword, req.ConfirmNewPassword)
	if !res.OK {
		h.respondJSON(rc, http.StatusBadGateway, transport.NewError(string(domain.ErrCodeUpstream), res.Message, nil))
		return
	}
	h.respondSuccess(rc, http.StatusOK, map[string]string{"message": res.Data.Message})
}

// @Summary Change the password of the signed-in user
// @Tags auth
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(rc *fasthttp.RequestCtx) {
	var req transport.PasswordChangeRequest
	if err := json.Unmarshal(rc.PostBody(), &req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "Passwords do not match", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	out := h.flow.ChangePassword(stdCtx, rc, req.OldPassword, req.NewPassword, req.ConfirmNewPassword, req.CurrentPath)
	h.respondOutcome(rc, out)
}

// @Summary Start OAuth login at the provider
// @Tags auth
// @Router /auth/oauth/login [get]
func (h *AuthHandler) OAuthLogin(rc *fasthttp.RequestCtx) {
	h.provider.InitiateLogin(rc)
}

// @Summary OAuth provider callback
// @Tags auth
// @Router /oauth-success [get]
func (h *AuthHandler) OAuthCallback(rc *fasthttp.RequestCtx) {
	code := string(rc.QueryArgs().Peek("code"))
	state := string(rc.QueryArgs().Peek("state"))
	currentPath := string(rc.Path())

	if !h.provider.ConsumeState(rc, state) {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "oauth state mismatch", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	out := h.flow.CompleteOAuth(stdCtx, rc, code, currentPath)
	h.respondOutcome(rc, out)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fullauth/gateway/api/transport"
	"github.com/fullauth/gateway/backend"
	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/internal/session"
	"github.com/fullauth/gateway/pkg/httpcontext"
	profileUC "github.com/fullauth/gateway/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc       *profileUC.UseCase
	sessions session.Repository
}

func NewProfileHandler(uc *profileUC.UseCase, sessions session.Repository, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		sessions:    sessions,
	}
}

// @Summary Get profile
// @Tags profile
// @Success 200 {object} transport.Envelope
// @Router /user/profile [get]
func (h *ProfileHandler) GetProfile(rc *fasthttp.RequestCtx) {
	accessToken := h.sessions.Token(rc)
	if accessToken == "" {
		h.respondJSON(rc, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "no valid session", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	user, err := h.uc.GetProfile(stdCtx, accessToken)
	if err != nil {
		h.respondError(rc, err)
		return
	}
	h.respondSuccess(rc, http.StatusOK, user)
}

// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Router /user/profile [put]
func (h *ProfileHandler) UpdateProfile(rc *fasthttp.RequestCtx) {
	accessToken := h.sessions.Token(rc)
	if accessToken == "" {
		h.respondJSON(rc, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "no valid session", nil))
		return
	}

	var req transport.ProfileUpdateRequest
	if err := json.Unmarshal(rc.PostBody(), &req); err != nil {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	updated, err := h.uc.UpdateProfile(stdCtx, accessToken, backend.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		State:     req.State,
		Country:   req.Country,
		Avatar:    req.Avatar,
		Bio:       req.Bio,
		Gender:    req.Gender,
	})
	if err != nil {
		h.respondError(rc, err)
		return
	}
	h.respondSuccess(rc, http.StatusOK, updated)
}

// @Summary Enable or disable two-factor authentication
// @Tags profile
// @Router /user/two-factor [post]
func (h *ProfileHandler) ToggleTwoFactor(rc *fasthttp.RequestCtx) {
	accessToken := h.sessions.Token(rc)
	if accessToken == "" {
		h.respondJSON(rc, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "no valid session", nil))
		return
	}

	var req transport.TwoFactorToggleRequest
	if err := json.Unmarshal(rc.PostBody(), &req); err != nil {
		h.respondJSON(rc, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(rc)
	defer cancel()

	message, err := h.uc.SetTwoFactor(stdCtx, accessToken, req.Enable)
	if err != nil {
		h.respondError(rc, err)
		return
	}
	h.respondSuccess(rc, http.StatusOK, map[string]string{"message": message})
}

// Package authflow sequences the multi-step login paths: password login and
// OAuth callback entry points, their 2FA and email-verification detours, and
// the final session establishment with redirect resumption.
package authflow

import (
	"context"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fullauth/gateway/backend"
	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/internal/flowmem"
	"github.com/fullauth/gateway/internal/session"
)

// State is the position of a client inside the auth flow. It is rederived
// from request state on every call; nothing is held between requests.
type State int

const (
	AwaitingCredentials State = iota
	Awaiting2FA
	AwaitingEmailVerification
	Authenticated
)

func (s State) String() string {
	switch s {
	case Awaiting2FA:
		return "awaiting_2fa"
	case AwaitingEmailVerification:
		return "awaiting_email_verification"
	case Authenticated:
		return "authenticated"
	default:
		return "awaiting_credentials"
	}
}

// Action tells the client what to do next.
type Action int

const (
	// ActionStay keeps the client on the current page, usually with an error
	// to surface and the option to retry.
	ActionStay Action = iota
	// ActionNavigate moves the client to Target.
	ActionNavigate
	// ActionReload forces a full reload of Target so navigation guards
	// re-evaluate against the now-valid session instead of serving a cached
	// unauthenticated render.
	ActionReload
)

// Outcome is the terminal result of one flow event.
type Outcome struct {
	State   State
	Action  Action
	Target  string
	Message string
	Err     error
}

func stay(state State, err error) Outcome {
	return Outcome{State: state, Action: ActionStay, Err: err}
}

func navigate(state State, target, message string) Outcome {
	return Outcome{State: state, Action: ActionNavigate, Target: target, Message: message}
}

// Flow orchestrates the auth entry points against the backend API, the
// session repository and the redirect memory. All dependencies are injected;
// the flow itself is stateless and safe for concurrent use.
type Flow struct {
	api      backend.AuthAPI
	sessions session.Repository
	memory   flowmem.Memory
	logger   *zap.Logger
}

func New(api backend.AuthAPI, sessions session.Repository, memory flowmem.Memory, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		api:      api,
		sessions: sessions,
		memory:   memory,
		logger:   logger,
	}
}

// Login is the password entry point. redirectParam is the ?redirect= value
// carried by the login page; it is persisted up front so a detour through
// 2FA or email verification can still resume it later.
func (f *Flow) Login(ctx context.Context, rc *fasthttp.RequestCtx, email, password, redirectParam, currentPath string) Outcome {
	if redirectParam != "" {
		f.memory.Set(rc, flowmem.SlotRedirectPath, redirectParam)
	}

	res := f.api.Login(ctx, email, password)
	if !res.OK {
		return stay(AwaitingCredentials, domain.NewError(domain.ErrCodeUpstream, res.Message))
	}

	pending := email
	if res.Data.User != nil && res.Data.User.Email != "" {
		pending = res.Data.User.Email
	}

	switch {
	case res.Data.TwoFactorRequired:
		f.memory.Set(rc, flowmem.SlotPendingEmail, pending)
		return navigate(Awaiting2FA, domain.Verify2FAPath, res.Data.Message)
	case res.Data.VerificationNeeded:
		f.memory.Set(rc, flowmem.SlotPendingEmail, pending)
		return navigate(AwaitingEmailVerification, domain.VerifyEmailPath, res.Data.Message)
	default:
		return f.establish(rc, res, currentPath)
	}
}

// CompleteOAuth is the OAuth callback entry point: the provider redirected
// back with an authorization code and the backend exchanges it for tokens.
func (f *Flow) CompleteOAuth(ctx context.Context, rc *fasthttp.RequestCtx, code, currentPath string) Outcome {
	if code == "" {
		return stay(AwaitingCredentials, domain.NewError(domain.ErrCodeInvalid, "missing authorization code"))
	}

	res := f.api.OAuthToken(ctx, code)
	if !res.OK {
		out := navigate(AwaitingCredentials, domain.LoginPath, "")
		out.Err = domain.NewError(domain.ErrCodeUpstream, "Login failed. Please try again.")
		return out
	}

	if res.Data.TwoFactorRequired {
		if res.Data.User != nil && res.Data.User.Email != "" {
			f.memory.Set(rc, flowmem.SlotPendingEmail, res.Data.User.Email)
		}
		return navigate(Awaiting2FA, domain.Verify2FAPath, res.Data.Message)
	}
	return f.establish(rc, res, currentPath)
}

// Verify2FA submits the challenge code. Failure keeps the client on the
// challenge page with retry and resend available.
func (f *Flow) Verify2FA(ctx context.Context, rc *fasthttp.RequestCtx, code, currentPath string) Outcome {
	res := f.api.Verify2FA(ctx, code)
	if !res.OK {
		return stay(Awaiting2FA, domain.NewError(domain.ErrCodeUpstream, res.Message))
	}
	return f.establish(rc, res, currentPath)
}

// VerifyEmail submits the emailed verification token. Some backend versions
// answer with a token bundle (the session is established immediately), older
// ones with a bare confirmation; then the client proceeds to login.
func (f *Flow) VerifyEmail(ctx context.Context, rc *fasthttp.RequestCtx, token, currentPath string) Outcome {
	if token == "" {
		return stay(AwaitingEmailVerification, domain.NewError(domain.ErrCodeInvalid, "Token does not exist"))
	}

	res := f.api.VerifyEmail(ctx, token)
	if !res.OK {
		return stay(AwaitingEmailVerification, domain.NewError(domain.ErrCodeUpstream, res.Message))
	}
	if res.Data.Bundle() == nil {
		flowmem.Consume(f.memory, rc, flowmem.SlotPendingEmail)
		return navigate(AwaitingCredentials, domain.LoginPath, res.Data.Message)
	}
	return f.establish(rc, res, currentPath)
}

// Resend2FA requires a pending identity from an interrupted login; without
// one it fails immediately and the backend is never contacted.
func (f *Flow) Resend2FA(ctx context.Context, rc *fasthttp.RequestCtx) Outcome {
	email := f.memory.Get(rc, flowmem.SlotPendingEmail, "")
	if email == "" {
		return stay(Awaiting2FA, domain.ErrMissingPendingIdentity)
	}
	res := f.api.Resend2FA(ctx, email)
	if !res.OK {
		return stay(Awaiting2FA, domain.NewError(domain.ErrCodeUpstream, res.Message))
	}
	out := stay(Awaiting2FA, nil)
	out.Message = res.Data.Message
	return out
}

// ResendVerification mirrors Resend2FA for the email-verification challenge.
func (f *Flow) ResendVerification(ctx context.Context, rc *fasthttp.RequestCtx) Outcome {
	email := f.memory.Get(rc, flowmem.SlotPendingEmail, "")
	if email == "" {
		return stay(AwaitingEmailVerification, domain.ErrMissingPendingIdentity)
	}
	res := f.api.ResendVerification(ctx, email)
	if !res.OK {
		return stay(AwaitingEmailVerification, domain.NewError(domain.ErrCodeUpstream, res.Message))
	}
	out := stay(AwaitingEmailVerification, nil)
	out.Message = res.Data.Message
	return out
}

// RequestReverification is the settings-page path: send a fresh verification
// code to an authenticated user, drop the session and park the current page
// so the guard re-routes through the challenge and back.
func (f *Flow) RequestReverification(ctx context.Context, rc *fasthttp.RequestCtx, email, currentPath string) Outcome {
	if email == "" {
		return stay(Authenticated, domain.ErrMissingPendingIdentity)
	}
	res := f.api.ResendVerification(ctx, email)
	if !res.OK {
		return stay(Authenticated, domain.NewError(domain.ErrCodeUpstream, res.Message))
	}
	f.sessions.Remove(rc)
	f.memory.Set(rc, flowmem.SlotPendingEmail, email)
	if currentPath != "" {
		f.memory.Set(rc, flowmem.SlotRedirectPath, currentPath)
	}
	return navigate(AwaitingEmailVerification, domain.VerifyEmailPath, res.Data.Message)
}

// ChangePassword performs the authenticated password change. Success
// invalidates the current session and forces re-authentication in place.
func (f *Flow) ChangePassword(ctx context.Context, rc *fasthttp.RequestCtx, oldPassword, newPassword, confirmPassword, currentPath string) Outcome {
	accessToken := f.sessions.Token(rc)
	if accessToken == "" {
		return stay(AwaitingCredentials, domain.ErrNoSession)
	}
	res := f.api.PasswordReset(ctx, accessToken, oldPassword, newPassword, confirmPassword)
	if !res.OK {
		return stay(Authenticated, domain.NewError(domain.ErrCodeUpstream, res.Message))
	}
	f.sessions.Remove(rc)
	out := Outcome{State: AwaitingCredentials, Action: ActionReload, Target: currentPath, Message: res.Data.Message}
	return out
}

// Logout drops the session cookie first and tells the backend best-effort:
// the client must end up signed out even when the upstream call fails.
func (f *Flow) Logout(ctx context.Context, rc *fasthttp.RequestCtx) Outcome {
	accessToken := f.sessions.Token(rc)
	f.sessions.Remove(rc)
	if accessToken != "" {
		if res := f.api.Logout(ctx, accessToken); !res.OK {
			f.logger.Warn("backend logout failed", zap.Int("status", res.Status))
		}
	}
	return navigate(AwaitingCredentials, domain.LoginPath, "")
}

// establish persists the token bundle and resumes any interrupted
// navigation. The detour slots are consumed exactly once here.
func (f *Flow) establish(rc *fasthttp.RequestCtx, res backend.Result, currentPath string) Outcome {
	bundle := res.Data.Bundle()
	if bundle == nil {
		return stay(AwaitingCredentials, domain.NewError(domain.ErrCodeUpstream, backend.DefaultFailureMessage))
	}
	f.sessions.Save(rc, bundle)
	flowmem.Consume(f.memory, rc, flowmem.SlotPendingEmail)

	saved := flowmem.Consume(f.memory, rc, flowmem.SlotRedirectPath)
	if saved == "" {
		return navigate(Authenticated, domain.ProtectedHomePath, res.Data.Message)
	}
	if saved == currentPath {
		return Outcome{State: Authenticated, Action: ActionReload, Target: saved, Message: res.Data.Message}
	}
	return navigate(Authenticated, saved, res.Data.Message)
}

// Package backend defines the contract with the FullAuth backend API. The
// backend is opaque to the gateway: it issues and signs tokens, owns all
// storage, and is reached only over HTTP.
package backend

import (
	"context"

	"github.com/fullauth/gateway/domain"
)

// DefaultFailureMessage is used when an upstream failure carries no message.
const DefaultFailureMessage = "Something went wrong."

// UserPayload is the identity the backend attaches to terminal auth responses.
type UserPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Payload is the data half of a successful auth response. Detour responses
// carry one of the two flags instead of a token pair.
type Payload struct {
	Message            string       `json:"message,omitempty"`
	AccessToken        string       `json:"access_token,omitempty"`
	RefreshToken       string       `json:"refresh_token,omitempty"`
	User               *UserPayload `json:"user,omitempty"`
	TwoFactorRequired  bool         `json:"two_factor_required,omitempty"`
	VerificationNeeded bool         `json:"verification_needed,omitempty"`
}

// Bundle converts a terminal payload into the persisted session shape.
// Nil when the payload carries no token pair.
func (p *Payload) Bundle() *domain.SessionBundle {
	if p == nil || p.AccessToken == "" {
		return nil
	}
	bundle := &domain.SessionBundle{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
	if p.User != nil {
		bundle.User = domain.SessionUser{Email: p.User.Email, ID: p.User.ID}
	}
	return bundle
}

// Result is the strict discriminated outcome of a backend call. OK carries
// Data; failure carries Status and Message, already normalized so callers
// never probe optional fields.
type Result struct {
	OK      bool
	Status  int
	Data    Payload
	Message string
}

// Failure builds a normalized failure result.
func Failure(status int, message string) Result {
	if status == 0 {
		status = 500
	}
	if message == "" {
		message = DefaultFailureMessage
	}
	return Result{Status: status, Message: message}
}

// SignupRequest mirrors POST /auth/signup.
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ProfileUpdate mirrors PUT /user/profile.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

// AuthAPI covers the backend's authentication surface. Implementations
// normalize every failure to a Result and never return transport errors.
type AuthAPI interface {
	Signup(ctx context.Context, req SignupRequest) Result
	Login(ctx context.Context, email, password string) Result
	Logout(ctx context.Context, accessToken string) Result
	VerifyEmail(ctx context.Context, token string) Result
	ResendVerification(ctx context.Context, email string) Result
	PasswordResetRequest(ctx context.Context, email string) Result
	PasswordResetConfirm(ctx context.Context, token, newPassword, confirmPassword string) Result
	PasswordReset(ctx context.Context, accessToken, oldPassword, newPassword, confirmPassword string) Result
	Enable2FA(ctx context.Context, accessToken string) Result
	Disable2FA(ctx context.Context, accessToken string) Result
	Verify2FA(ctx context.Context, code string) Result
	Resend2FA(ctx context.Context, email string) Result
	OAuthToken(ctx context.Context, code string) Result
}

// UserAPI covers the profile endpoints proxied by the gateway.
type UserAPI interface {
	GetProfile(ctx context.Context, accessToken string) (*domain.User, error)
	UpdateProfile(ctx context.Context, accessToken string, update ProfileUpdate) (*domain.User, error)
}

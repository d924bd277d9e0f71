// Package profile proxies the profile and security-settings operations to the
// backend on behalf of the authenticated client.
package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fullauth/gateway/backend"
	"github.com/fullauth/gateway/domain"
)

type UseCase struct {
	users  backend.UserAPI
	auth   backend.AuthAPI
	logger *zap.Logger
}

func New(users backend.UserAPI, auth backend.AuthAPI, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		auth:   auth,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, domain.ErrNoSession
	}
	return uc.users.GetProfile(ctx, accessToken)
}

func (uc *UseCase) UpdateProfile(ctx context.Context, accessToken string, update backend.ProfileUpdate) (*domain.User, error) {
	if accessToken == "" {
		return nil, domain.ErrNoSession
	}
	return uc.users.UpdateProfile(ctx, accessToken, update)
}

// SetTwoFactor toggles 2FA on the backend for the current user.
func (uc *UseCase) SetTwoFactor(ctx context.Context, accessToken string, enable bool) (string, error) {
	if accessToken == "" {
		return "", domain.ErrNoSession
	}
	var res backend.Result
	if enable {
		res = uc.auth.Enable2FA(ctx, accessToken)
	} else {
		res = uc.auth.Disable2FA(ctx, accessToken)
	}
	if !res.OK {
		return "", domain.NewError(domain.ErrCodeUpstream, res.Message)
	}
	return res.Data.Message, nil
}

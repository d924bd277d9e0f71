package httpapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fullauth/gateway/backend"
	"github.com/fullauth/gateway/domain"
)

// Client talks to the FullAuth backend over HTTP and normalizes every
// response into a backend.Result at the transport boundary.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// Config carries the upstream settings the client needs.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    &fasthttp.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

func (c *Client) Signup(ctx context.Context, req backend.SignupRequest) backend.Result {
	return c.call(ctx, fasthttp.MethodPost, "/auth/signup", "", req)
}

func (c *Client) Login(ctx context.Context, email, password string) backend.Result {
	body := map[string]string{"email": email, "password": password}
	return c.call(ctx, fasthttp.MethodPost, "/auth/login", "", body)
}

func (c *Client) Logout(ctx context.Context, accessToken string) backend.Result {
	return c.call(ctx, fasthttp.MethodGet, "/auth/logout", accessToken, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, token string) backend.Result {
	return c.call(ctx, fasthttp.MethodGet, "/auth/verify/"+url.PathEscape(token), "", nil)
}

func (c *Client) ResendVerification(ctx context.Context, email string) backend.Result {
	return c.call(ctx, fasthttp.MethodPost, "/auth/resend-verification", "", map[string]string{"email": email})
}

func (c *Client) PasswordResetRequest(ctx context.Context, email string) backend.Result {
	return c.call(ctx, fasthttp.MethodPost, "/auth/password-reset-request", "", map[string]string{"email": email})
}

func (c *Client) PasswordResetConfirm(ctx context.Context, token, newPassword, confirmPassword string) backend.Result {
	body := map[string]string{
		"new_password":         newPassword,
		"confirm_new_password": confirmPassword,
	}
	return c.call(ctx, fasthttp.MethodPost, "/auth/password-reset-confirm/"+url.PathEscape(token), "", body)
}

func (c *Client) PasswordReset(ctx context.Context, accessToken, oldPassword, newPassword, confirmPassword string) backend.Result {
	body := map[string]string{
		"old_password":         oldPassword,
		"new_password":         newPassword,
		"confirm_new_password": confirmPassword,
	}
	return c.call(ctx, fasthttp.MethodPost, "/auth/password-reset", accessToken, body)
}

func (c *Client) Enable2FA(ctx context.Context, accessToken string) backend.Result {
	return c.call(ctx, fasthttp.MethodGet, "/auth/enable-2FA", accessToken, nil)
}

func (c *Client) Disable2FA(ctx context.Context, accessToken string) backend.Result {
	return c.call(ctx, fasthttp.MethodGet, "/auth/disable-2FA", accessToken, nil)
}

func (c *Client) Verify2FA(ctx context.Context, code string) backend.Result {
	return c.call(ctx, fasthttp.MethodGet, "/auth/verify-2FA-code/"+url.PathEscape(code), "", nil)
}

func (c *Client) Resend2FA(ctx context.Context, email string) backend.Result {
	return c.call(ctx, fasthttp.MethodPost, "/auth/resend-2FA-code", "", map[string]string{"email": email})
}

func (c *Client) OAuthToken(ctx context.Context, code string) backend.Result {
	return c.call(ctx, fasthttp.MethodGet, "/auth/oauth_token/"+url.PathEscape(code), "", nil)
}

func (c *Client) GetProfile(ctx context.Context, accessToken string) (*domain.User, error) {
	body, status, err := c.raw(ctx, fasthttp.MethodGet, "/user/profile", accessToken, nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, backend.DefaultFailureMessage, err)
	}
	return decodeProfile(body, status)
}

func (c *Client) UpdateProfile(ctx context.Context, accessToken string, update backend.ProfileUpdate) (*domain.User, error) {
	body, status, err := c.raw(ctx, fasthttp.MethodPut, "/user/profile", accessToken, update)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, backend.DefaultFailureMessage, err)
	}
	return decodeProfile(body, status)
}

// Ping reports upstream reachability for health checks.
func (c *Client) Ping(ctx context.Context) bool {
	_, status, err := c.raw(ctx, fasthttp.MethodGet, "/health", "", nil)
	return err == nil && status < fasthttp.StatusInternalServerError
}

// call runs a request against the auth surface and folds the response into
// the discriminated result: 2xx with decoded data, anything else a failure
// with the backend's message or the generic fallback.
func (c *Client) call(ctx context.Context, method, path, bearer string, body interface{}) backend.Result {
	respBody, status, err := c.raw(ctx, method, path, bearer, body)
	if err != nil {
		c.logger.Warn("backend call failed", zap.String("path", path), zap.Error(err))
		return backend.Failure(0, "")
	}

	if status >= 200 && status < 300 {
		var data backend.Payload
		if len(respBody) > 0 {
			if err := json.Unmarshal(respBody, &data); err != nil {
				c.logger.Warn("backend response undecodable", zap.String("path", path), zap.Error(err))
				return backend.Failure(0, "")
			}
		}
		return backend.Result{OK: true, Status: status, Data: data}
	}

	var failure struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(respBody, &failure)
	return backend.Failure(status, failure.Message)
}

func (c *Client) raw(ctx context.Context, method, path, bearer string, body interface{}) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	if bearer != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+bearer)
	}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		req.SetBody(encoded)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, 0, err
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, resp.StatusCode(), nil
}

func decodeProfile(body []byte, status int) (*domain.User, error) {
	if status == fasthttp.StatusUnauthorized {
		return nil, domain.ErrNoSession
	}
	if status < 200 || status >= 300 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &failure)
		if failure.Message == "" {
			failure.Message = backend.DefaultFailureMessage
		}
		return nil, domain.NewError(domain.ErrCodeUpstream, failure.Message)
	}
	user := &domain.User{}
	if err := json.Unmarshal(body, user); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "profile response undecodable", err)
	}
	return user, nil
}

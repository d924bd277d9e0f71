// Package oauth builds the provider authorization redirect for OAuth login.
// Only the front half of the dance lives here: the backend exchanges the
// authorization code for tokens, so no client secret is held by the gateway.
package oauth

import (
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// StateCookie carries the CSRF state between initiation and callback.
const StateCookie = "oauth_state"

// Config is the subset of provider settings the gateway needs.
type Config struct {
	ClientID    string
	AuthURL     string
	RedirectURL string
	Scopes      []string
}

type Provider struct {
	oauth2Config *oauth2.Config
	secure       bool
	logger       *zap.Logger
}

func NewProvider(cfg Config, secure bool, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ClientID == "" || cfg.AuthURL == "" {
		return &Provider{secure: secure, logger: logger}
	}
	return &Provider{
		oauth2Config: &oauth2.Config{
			ClientID:    cfg.ClientID,
			Endpoint:    oauth2.Endpoint{AuthURL: cfg.AuthURL},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		},
		secure: secure,
		logger: logger,
	}
}

// Enabled reports whether a provider is configured.
func (p *Provider) Enabled() bool {
	return p != nil && p.oauth2Config != nil
}

// InitiateLogin sets a fresh state cookie and redirects the client to the
// provider's authorization endpoint.
func (p *Provider) InitiateLogin(rc *fasthttp.RequestCtx) {
	if !p.Enabled() {
		rc.SetStatusCode(fasthttp.StatusNotFound)
		return
	}
	state := uuid.NewString()

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(StateCookie)
	cookie.SetValue(state)
	cookie.SetPath("/")
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetSecure(p.secure)
	cookie.SetHTTPOnly(true)
	rc.Response.Header.SetCookie(cookie)

	rc.Redirect(p.oauth2Config.AuthCodeURL(state), fasthttp.StatusFound)
}

// ConsumeState validates the state echoed by the provider against the cookie
// and clears it either way. With no provider configured it accepts anything,
// since the backend then owns the whole dance.
func (p *Provider) ConsumeState(rc *fasthttp.RequestCtx, state string) bool {
	if !p.Enabled() {
		return true
	}
	stored := string(rc.Request.Header.Cookie(StateCookie))

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(StateCookie)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	rc.Response.Header.SetCookie(cookie)

	if stored == "" || state == "" || stored != state {
		p.logger.Warn("oauth state mismatch")
		return false
	}
	return true
}

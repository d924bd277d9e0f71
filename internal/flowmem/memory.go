// Package flowmem holds the ephemeral state that survives a multi-step auth
// detour: the path to resume after the flow completes and the email address
// awaiting a verification or 2FA code. Both slots are write-once-then-cleared.
package flowmem

import (
	"net/url"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Slot keys, one per independent value.
const (
	SlotRedirectPath = "persistRedirect"
	SlotPendingEmail = "persistEmail"
)

// Memory is a generic key-value persistence abstraction over the flow slots.
// Get returns def when the slot is empty or the medium is unavailable.
type Memory interface {
	Get(rc *fasthttp.RequestCtx, key, def string) string
	Set(rc *fasthttp.RequestCtx, key, value string)
	Remove(rc *fasthttp.RequestCtx, key string)
}

// CookieMemory backs the slots with ephemeral session cookies: no explicit
// expiry, cleared explicitly when the flow consumes them.
type CookieMemory struct {
	secure bool
	logger *zap.Logger
}

func NewCookieMemory(secure bool, logger *zap.Logger) *CookieMemory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CookieMemory{secure: secure, logger: logger}
}

func (m *CookieMemory) Get(rc *fasthttp.RequestCtx, key, def string) string {
	if rc == nil {
		return def
	}
	raw := rc.Request.Header.Cookie(key)
	if len(raw) == 0 {
		return def
	}
	value, err := url.QueryUnescape(string(raw))
	if err != nil {
		m.logger.Warn("flow slot holds undecodable value, clearing", zap.String("slot", key), zap.Error(err))
		m.Remove(rc, key)
		return def
	}
	return value
}

func (m *CookieMemory) Set(rc *fasthttp.RequestCtx, key, value string) {
	if rc == nil {
		m.logger.Warn("flow slot write without request context dropped", zap.String("slot", key))
		return
	}
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(key)
	cookie.SetValue(url.QueryEscape(value))
	cookie.SetPath("/")
	cookie.SetSameSite(fasthttp.CookieSameSiteStrictMode)
	cookie.SetSecure(m.secure)
	cookie.SetHTTPOnly(true)
	rc.Response.Header.SetCookie(cookie)
}

func (m *CookieMemory) Remove(rc *fasthttp.RequestCtx, key string) {
	if rc == nil {
		return
	}
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(key)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetSameSite(fasthttp.CookieSameSiteStrictMode)
	cookie.SetSecure(m.secure)
	cookie.SetHTTPOnly(true)
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	rc.Response.Header.SetCookie(cookie)
}

// Consume reads a slot and clears it in the same step. The empty string means
// the slot held nothing.
func Consume(m Memory, rc *fasthttp.RequestCtx, key string) string {
	value := m.Get(rc, key, "")
	if value != "" {
		m.Remove(rc, key)
	}
	return value
}

// Null is the non-browser fallback: reads return the provided default and
// writes are logged no-ops. It lets flow code run safely during rendering
// passes that carry no client storage.
type Null struct {
	logger *zap.Logger
}

func NewNull(logger *zap.Logger) *Null {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Null{logger: logger}
}

func (n *Null) Get(_ *fasthttp.RequestCtx, _ string, def string) string {
	return def
}

func (n *Null) Set(_ *fasthttp.RequestCtx, key, _ string) {
	n.logger.Debug("flow slot write ignored outside client context", zap.String("slot", key))
}

func (n *Null) Remove(_ *fasthttp.RequestCtx, _ string) {}

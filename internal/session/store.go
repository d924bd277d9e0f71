package session

import (
	"encoding/json"
	"net/url"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/internal/token"
)

// CookieName is the persisted key holding the JSON session bundle.
const CookieName = "fullauth_token"

// State classifies what the session cookie held at request time.
type State int

const (
	// StateNone means no session cookie was present.
	StateNone State = iota
	// StateValid means the bundle parsed and the access token is fresh.
	StateValid
	// StateCorrupt means the cookie value or token payload was undecodable.
	StateCorrupt
	// StateExpired means the access token's exp has passed.
	StateExpired
)

// Repository persists and retrieves the current session bundle for a client.
// Implementations are stateless between requests: every decision is rederived
// from the cookie attached to the request at hand.
type Repository interface {
	Save(rc *fasthttp.RequestCtx, bundle *domain.SessionBundle)
	Token(rc *fasthttp.RequestCtx) string
	UserID(rc *fasthttp.RequestCtx) string
	Remove(rc *fasthttp.RequestCtx)
	Inspect(rc *fasthttp.RequestCtx) (State, *domain.SessionBundle)
}

// CookieStore keeps the session bundle in a single client-side cookie whose
// lifetime matches the access token's exp claim.
type CookieStore struct {
	codec  *token.Codec
	secure bool
	logger *zap.Logger
}

// NewCookieStore builds a store. secure marks the cookie as requiring a
// secure transport channel and should be set for production builds.
func NewCookieStore(codec *token.Codec, secure bool, logger *zap.Logger) *CookieStore {
	if codec == nil {
		codec = token.NewCodec()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CookieStore{
		codec:  codec,
		secure: secure,
		logger: logger,
	}
}

// Save persists the bundle with an expiry equal to the access token's exp.
// A token without exp cannot be given a lifetime: the save is logged and
// dropped without surfacing an error to the caller.
func (s *CookieStore) Save(rc *fasthttp.RequestCtx, bundle *domain.SessionBundle) {
	if rc == nil || bundle == nil {
		return
	}
	claims, err := s.codec.DecodeClaims(bundle.AccessToken)
	if err != nil {
		s.logger.Warn("refusing to persist undecodable access token", zap.Error(err))
		return
	}
	if !claims.HasExp {
		s.logger.Warn("access token is missing expiration claim (exp), session not persisted")
		return
	}

	payload, err := json.Marshal(bundle)
	if err != nil {
		s.logger.Warn("session bundle encoding failed", zap.Error(err))
		return
	}

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(CookieName)
	cookie.SetValue(url.QueryEscape(string(payload)))
	cookie.SetExpire(claims.ExpiresAt())
	cookie.SetPath("/")
	cookie.SetSameSite(fasthttp.CookieSameSiteStrictMode)
	cookie.SetSecure(s.secure)
	cookie.SetHTTPOnly(true)
	rc.Response.Header.SetCookie(cookie)
}

// Inspect reads the request cookie and classifies it. Corrupt and expired
// entries are evicted as a side effect so the client self-heals; the caller
// only has to act on the returned state.
func (s *CookieStore) Inspect(rc *fasthttp.RequestCtx) (State, *domain.SessionBundle) {
	if rc == nil {
		return StateNone, nil
	}
	raw := rc.Request.Header.Cookie(CookieName)
	if len(raw) == 0 {
		return StateNone, nil
	}

	bundle, err := decodeBundle(raw)
	if err != nil {
		s.logger.Warn("invalid session cookie, evicting", zap.Error(err))
		s.Remove(rc)
		return StateCorrupt, nil
	}

	claims, err := s.codec.DecodeClaims(bundle.AccessToken)
	if err != nil {
		s.logger.Warn("session cookie holds undecodable token, evicting", zap.Error(err))
		s.Remove(rc)
		return StateCorrupt, nil
	}
	if claims.IsExpired(rc.Time()) {
		s.Remove(rc)
		return StateExpired, nil
	}
	return StateValid, bundle
}

// Token returns the raw access token of the current session, or "" when no
// valid session exists. Expired and corrupt entries are lazily evicted.
func (s *CookieStore) Token(rc *fasthttp.RequestCtx) string {
	state, bundle := s.Inspect(rc)
	if state != StateValid {
		return ""
	}
	return bundle.AccessToken
}

// UserID extracts the user identifier without checking expiry. Best-effort:
// absent or malformed cookies yield "".
func (s *CookieStore) UserID(rc *fasthttp.RequestCtx) string {
	if rc == nil {
		return ""
	}
	raw := rc.Request.Header.Cookie(CookieName)
	if len(raw) == 0 {
		return ""
	}
	bundle, err := decodeBundle(raw)
	if err != nil {
		s.logger.Warn("invalid session cookie, evicting", zap.Error(err))
		s.Remove(rc)
		return ""
	}
	return bundle.User.ID
}

// Remove deletes the persisted bundle unconditionally. Idempotent.
func (s *CookieStore) Remove(rc *fasthttp.RequestCtx) {
	if rc == nil {
		return
	}
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(CookieName)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetSameSite(fasthttp.CookieSameSiteStrictMode)
	cookie.SetSecure(s.secure)
	cookie.SetHTTPOnly(true)
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	rc.Response.Header.SetCookie(cookie)
}

func decodeBundle(raw []byte) (*domain.SessionBundle, error) {
	unescaped, err := url.QueryUnescape(string(raw))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "session cookie encoding", err)
	}
	bundle := &domain.SessionBundle{}
	if err := json.Unmarshal([]byte(unescaped), bundle); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "session cookie payload", err)
	}
	if bundle.AccessToken == "" {
		return nil, domain.ErrMalformedToken
	}
	return bundle, nil
}

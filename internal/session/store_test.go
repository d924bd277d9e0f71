package session

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/internal/token"
)

func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func encodeBundle(t *testing.T, bundle *domain.SessionBundle) string {
	t.Helper()
	raw, err := json.Marshal(bundle)
	require.NoError(t, err)
	return url.QueryEscape(string(raw))
}

func attachCookie(rc *fasthttp.RequestCtx, value string) {
	rc.Request.Header.SetCookie(CookieName, value)
}

func responseCookie(t *testing.T, rc *fasthttp.RequestCtx) *fasthttp.Cookie {
	t.Helper()
	c := fasthttp.AcquireCookie()
	c.SetKey(CookieName)
	require.True(t, rc.Response.Header.Cookie(c), "expected a %s cookie on the response", CookieName)
	return c
}

func newStore() *CookieStore {
	return NewCookieStore(token.NewCodec(), false, nil)
}

func TestCookieStore_SaveSetsExpiryFromToken(t *testing.T) {
	store := newStore()
	exp := time.Now().Add(time.Hour).Unix()
	bundle := &domain.SessionBundle{
		AccessToken:  makeToken(t, map[string]interface{}{"exp": exp}),
		RefreshToken: "refresh-1",
		User:         domain.SessionUser{Email: "jo@example.com", ID: "u-1"},
	}

	rc := &fasthttp.RequestCtx{}
	store.Save(rc, bundle)

	c := responseCookie(t, rc)
	defer fasthttp.ReleaseCookie(c)

	assert.Equal(t, time.Unix(exp, 0).Unix(), c.Expire().Unix())
	assert.True(t, c.HTTPOnly())
	assert.Equal(t, "/", string(c.Path()))

	unescaped, err := url.QueryUnescape(string(c.Value()))
	require.NoError(t, err)
	var persisted domain.SessionBundle
	require.NoError(t, json.Unmarshal([]byte(unescaped), &persisted))
	assert.Equal(t, *bundle, persisted)
}

func TestCookieStore_SaveRefusesTokenWithoutExp(t *testing.T) {
	store := newStore()
	bundle := &domain.SessionBundle{
		AccessToken: makeToken(t, map[string]interface{}{"sub": "u-1"}),
	}

	rc := &fasthttp.RequestCtx{}
	store.Save(rc, bundle)

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(CookieName)
	assert.False(t, rc.Response.Header.Cookie(c), "token without exp must not be persisted")
}

func TestCookieStore_Inspect(t *testing.T) {
	store := newStore()
	futureExp := time.Now().Add(time.Hour).Unix()

	validBundle := &domain.SessionBundle{
		AccessToken: makeToken(t, map[string]interface{}{"exp": futureExp}),
		User:        domain.SessionUser{Email: "jo@example.com", ID: "u-1"},
	}
	expiredBundle := &domain.SessionBundle{
		AccessToken: makeToken(t, map[string]interface{}{"exp": 1000}),
	}

	tests := []struct {
		name        string
		cookie      string
		noCookie    bool
		wantState   State
		wantEvicted bool
	}{
		{name: "no cookie", noCookie: true, wantState: StateNone},
		{name: "valid session", cookie: encodeBundle(t, validBundle), wantState: StateValid},
		{name: "expired token", cookie: encodeBundle(t, expiredBundle), wantState: StateExpired, wantEvicted: true},
		{name: "not json", cookie: "garbage", wantState: StateCorrupt, wantEvicted: true},
		{name: "json without access token", cookie: url.QueryEscape(`{"refresh_token":"r"}`), wantState: StateCorrupt, wantEvicted: true},
		{name: "access token not a jwt", cookie: url.QueryEscape(`{"access_token":"nope"}`), wantState: StateCorrupt, wantEvicted: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := &fasthttp.RequestCtx{}
			if !tt.noCookie {
				attachCookie(rc, tt.cookie)
			}

			state, bundle := store.Inspect(rc)
			assert.Equal(t, tt.wantState, state)

			if tt.wantState == StateValid {
				require.NotNil(t, bundle)
				assert.Equal(t, validBundle.AccessToken, bundle.AccessToken)
			} else {
				assert.Nil(t, bundle)
			}

			if tt.wantEvicted {
				c := responseCookie(t, rc)
				defer fasthttp.ReleaseCookie(c)
				assert.Empty(t, c.Value(), "evicted cookie must be cleared")
			}
		})
	}
}

func TestCookieStore_Token(t *testing.T) {
	store := newStore()
	access := makeToken(t, map[string]interface{}{"exp": time.Now().Add(time.Hour).Unix()})

	rc := &fasthttp.RequestCtx{}
	attachCookie(rc, encodeBundle(t, &domain.SessionBundle{AccessToken: access}))
	assert.Equal(t, access, store.Token(rc))

	expired := &fasthttp.RequestCtx{}
	attachCookie(expired, encodeBundle(t, &domain.SessionBundle{
		AccessToken: makeToken(t, map[string]interface{}{"exp": 1000}),
	}))
	assert.Empty(t, store.Token(expired))

	assert.Empty(t, store.Token(&fasthttp.RequestCtx{}))
}

func TestCookieStore_UserIDIgnoresExpiry(t *testing.T) {
	store := newStore()

	rc := &fasthttp.RequestCtx{}
	attachCookie(rc, encodeBundle(t, &domain.SessionBundle{
		AccessToken: makeToken(t, map[string]interface{}{"exp": 1000}),
		User:        domain.SessionUser{ID: "u-9"},
	}))
	assert.Equal(t, "u-9", store.UserID(rc))

	corrupt := &fasthttp.RequestCtx{}
	attachCookie(corrupt, "garbage")
	assert.Empty(t, store.UserID(corrupt))
}

func TestCookieStore_RemoveIsIdempotent(t *testing.T) {
	store := newStore()

	rc := &fasthttp.RequestCtx{}
	store.Remove(rc)
	store.Remove(rc)

	c := responseCookie(t, rc)
	defer fasthttp.ReleaseCookie(c)
	assert.Empty(t, c.Value())
}

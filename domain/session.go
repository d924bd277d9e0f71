package domain

import "time"

// SessionUser is the minimal identity carried inside the session cookie.
type SessionUser struct {
	Email string `json:"email"`
	ID    string `json:"uid"`
}

// SessionBundle is the token pair issued by the backend on a terminal auth
// response, persisted as the sole live session for the client.
type SessionBundle struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         SessionUser `json:"user"`
}

// Claims is the decoded JSON payload of an access token. The backend issues
// and signs tokens; the gateway only reads them, so no key material lives here.
type Claims struct {
	Exp     int64  `json:"exp"`
	Iat     int64  `json:"iat,omitempty"`
	Subject string `json:"sub,omitempty"`
	HasExp  bool   `json:"-"`
}

// IsExpired reports whether the token expiry has passed relative to now.
// A missing exp claim means freshness cannot be determined; callers must
// refuse to persist such tokens rather than treat them as fresh.
func (c *Claims) IsExpired(now time.Time) bool {
	if c == nil || !c.HasExp {
		return false
	}
	if now.IsZero() {
		now = time.Now()
	}
	return c.Exp*1000 < now.UnixMilli()
}

// ExpiresAt returns the expiry as wall-clock time. Zero when exp is absent.
func (c *Claims) ExpiresAt() time.Time {
	if c == nil || !c.HasExp {
		return time.Time{}
	}
	return time.Unix(c.Exp, 0)
}

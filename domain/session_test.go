package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClaims_IsExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name   string
		claims *Claims
		want   bool
	}{
		{
			name:   "future exp is fresh",
			claims: &Claims{Exp: now.Unix() + 3600, HasExp: true},
			want:   false,
		},
		{
			name:   "past exp is expired",
			claims: &Claims{Exp: now.Unix() - 1, HasExp: true},
			want:   true,
		},
		{
			name:   "exp equal to now is not yet expired",
			claims: &Claims{Exp: now.Unix(), HasExp: true},
			want:   false,
		},
		{
			name:   "missing exp cannot expire",
			claims: &Claims{HasExp: false},
			want:   false,
		},
		{
			name:   "nil claims",
			claims: nil,
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.IsExpired(now))
		})
	}
}

func TestClaims_IsExpired_ZeroNowFallsBackToWallClock(t *testing.T) {
	expired := &Claims{Exp: 1000, HasExp: true}
	assert.True(t, expired.IsExpired(time.Time{}))

	fresh := &Claims{Exp: time.Now().Unix() + 3600, HasExp: true}
	assert.False(t, fresh.IsExpired(time.Time{}))
}

func TestClaims_ExpiresAt(t *testing.T) {
	c := &Claims{Exp: 1_700_000_000, HasExp: true}
	assert.Equal(t, time.Unix(1_700_000_000, 0), c.ExpiresAt())

	assert.True(t, (&Claims{}).ExpiresAt().IsZero())

	var nilClaims *Claims
	assert.True(t, nilClaims.ExpiresAt().IsZero())
}

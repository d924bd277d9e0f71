package domain

import "time"

// User is the profile shape served by the backend's user endpoints. The
// gateway proxies it without owning storage.
type User struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	State            string    `json:"state,omitempty"`
	Country          string    `json:"country,omitempty"`
	Avatar           string    `json:"avatar,omitempty"`
	Bio              string    `json:"bio,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	Role             string    `json:"role"`
	IsVerified       bool      `json:"is_verified"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	IsOAuth          bool      `json:"is_oauth"`
	CreatedAt        time.Time `json:"created_at"`
}

package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/fullauth/gateway/api/handler"
	"github.com/fullauth/gateway/domain"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Page    *apiHandler.PageHandler
	Health  *apiHandler.HealthHandler
}

// New registers the full route surface. Session enforcement is not done
// here: the route guard wraps the returned router's Handler and decides
// page access before any of these handlers run.
func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth flow endpoints
	r.POST("/auth/login", handlers.Auth.Login)
	r.POST("/auth/register", handlers.Auth.Register)
	r.POST("/auth/logout", handlers.Auth.Logout)
	r.POST("/auth/verify-2fa", handlers.Auth.Verify2FA)
	r.POST("/auth/resend-2fa", handlers.Auth.Resend2FA)
	r.GET("/auth/verify-email", handlers.Auth.VerifyEmail)
	r.POST("/auth/resend-verification", handlers.Auth.ResendVerification)
	r.POST("/auth/request-reverification", handlers.Auth.RequestReverification)
	r.POST("/auth/forgot-password", handlers.Auth.ForgotPassword)
	r.POST("/auth/reset-password/{token}", handlers.Auth.ResetPassword)
	r.POST("/auth/change-password", handlers.Auth.ChangePassword)
	r.GET("/auth/oauth/login", handlers.Auth.OAuthLogin)

	// Profile endpoints, session-gated by the guard's protected default
	r.GET("/user/profile", handlers.Profile.GetProfile)
	r.PUT("/user/profile", handlers.Profile.UpdateProfile)
	r.POST("/user/two-factor", handlers.Profile.ToggleTwoFactor)

	// Public pages
	r.GET("/", handlers.Page.Serve)
	r.GET("/about", handlers.Page.Serve)
	r.GET("/contact", handlers.Page.Serve)
	r.GET("/privacy-policy", handlers.Page.Serve)
	r.GET("/terms-of-service", handlers.Page.Serve)

	// Auth-only pages
	r.GET(domain.LoginPath, handlers.Page.Serve)
	r.GET("/register", handlers.Page.Serve)
	r.GET("/forgot-password", handlers.Page.Serve)
	r.GET("/reset-password", handlers.Page.Serve)
	r.GET(domain.VerifyEmailPath, handlers.Page.Serve)
	r.GET(domain.Verify2FAPath, handlers.Page.Serve)
	r.GET("/oauth-success", handlers.Auth.OAuthCallback)

	// Protected pages
	r.GET(domain.ProtectedHomePath, handlers.Page.Dashboard)
	r.GET("/settings", handlers.Page.Serve)
	r.GET("/profile", handlers.Page.Serve)

	return r
}

package transport

type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Redirect    string `json:"redirect,omitempty"`
	CurrentPath string `json:"current_path,omitempty"`
}

type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type VerifyCodeRequest struct {
	Code        string `json:"code"`
	CurrentPath string `json:"current_path,omitempty"`
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordResetRequest struct {
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type PasswordChangeRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
	CurrentPath        string `json:"current_path,omitempty"`
}

type ReverificationRequest struct {
	Email       string `json:"email"`
	CurrentPath string `json:"current_path,omitempty"`
}

type TwoFactorToggleRequest struct {
	Enable bool `json:"enable"`
}

type ProfileUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

package auth

type SignupRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email"`
	FullName        string `json:"full_name" form:"full_name"`
	Role            string `json:"role" form:"role" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type AuthResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	LandingPath string `json:"landing_path"`
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   int64        `json:"expires_at"`
	User        AuthResponse `json:"user"`
}

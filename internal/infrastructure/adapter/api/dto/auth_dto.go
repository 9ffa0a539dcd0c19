package dto

// SignupRequest is the POST /auth/signup payload
type SignupRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required"`
	Username      string  `json:"username" binding:"required"`
	WalletAddress string  `json:"wallet_address"`
	ReferralCode  string  `json:"referral_code"`
	SectorID      *uint64 `json:"sector_id"`
}

// SignupResponse is returned after a successful signup
type SignupResponse struct {
	UserID       uint64 `json:"user_id"`
	ReferralCode string `json:"referral_code"`
}

// LoginRequest is the POST /auth/login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ChangePasswordRequest is the POST /auth/password payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID            uint64  `json:"id"`
	Email         string  `json:"email"`
	Username      string  `json:"username"`
	Role          string  `json:"role"`
	WalletAddress string  `json:"wallet_address,omitempty"`
	ReferralCode  string  `json:"referral_code"`
	SectorID      *uint64 `json:"sector_id,omitempty"`
	TotalJoy      int64   `json:"total_joy"`
	TotalPoints   int64   `json:"total_points"`
	IsBanned      bool    `json:"is_banned"`
	CreatedAt     string  `json:"created_at"`
}

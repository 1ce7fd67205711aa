package domain

import (
	"time"
)

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// LoginResult is the backend's answer to /coach/login.
type LoginResult struct {
	Coach        Coach  `json:"coach"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is a signed-in coach. The backend tokens never leave the server.
type Session struct {
	ID           string    `json:"id"`
	TokenHash    string    `json:"-"`
	CoachID      string    `json:"coachId"`
	Role         Role      `json:"role"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	ProfileImage string    `json:"profileImage,omitempty"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	UserAgent    string    `json:"-"`
	IP           string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionUser is what the dashboard shell needs about the signed-in coach.
type SessionUser struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
}

func (s *Session) User() SessionUser {
	return SessionUser{
		ID:           s.CoachID,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Email:        s.Email,
		Role:         s.Role,
		ProfileImage: s.ProfileImage,
	}
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      SessionUser `json:"user"`
}

type LoginDefaults struct {
	Email      string `json:"email"`
	RememberMe bool   `json:"rememberMe"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,otp"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}
